// internal/workers/paywall/check-feature-access/models.go
package checkfeatureaccess

import "apartmentiq-workers/internal/paywall"

// Input asks whether one premium feature may be used.
// Feature is one of ai_score, offer_generation or advanced_feature.
type Input struct {
	SessionID   string              `json:"sessionId"`
	Feature     paywall.TriggerType `json:"feature"`
	PropertyID  string              `json:"propertyId,omitempty"`
	FeatureName string              `json:"featureName,omitempty"`
}

type Output struct {
	SessionID   string              `json:"sessionId"`
	Feature     paywall.TriggerType `json:"feature"`
	Allowed     bool                `json:"allowed"`
	PaywallOpen bool                `json:"paywallOpen"`
	Trigger     *paywall.Trigger    `json:"trigger,omitempty"`
	Impressions int                 `json:"paywallImpressions"`
}
