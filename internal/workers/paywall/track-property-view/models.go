// internal/workers/paywall/track-property-view/models.go
package trackpropertyview

import "apartmentiq-workers/internal/paywall"

type Input struct {
	SessionID  string `json:"sessionId"`
	PropertyID string `json:"propertyId"`
}

// Output is the gate decision after counting the view.
type Output struct {
	SessionID         string           `json:"sessionId"`
	PropertyID        string           `json:"propertyId"`
	PropertyViewCount int              `json:"propertyViewCount"`
	RemainingViews    int              `json:"remainingViews"`
	IsUnlocked        bool             `json:"isUnlocked"`
	PaywallOpen       bool             `json:"paywallOpen"`
	Trigger           *paywall.Trigger `json:"trigger,omitempty"`
}
