// internal/workers/paywall/get-access-status/models.go
package getaccessstatus

import "apartmentiq-workers/internal/paywall"

type Input struct {
	SessionID   string   `json:"sessionId"`
	PropertyIDs []string `json:"propertyIds,omitempty"`
}

// PropertyAccess is what the session may do with one property right now.
type PropertyAccess struct {
	PropertyID             string `json:"propertyId"`
	Unlocked               bool   `json:"unlocked"`
	AIScoreAllowed         bool   `json:"aiScoreAllowed"`
	OfferGenerationAllowed bool   `json:"offerGenerationAllowed"`
}

type Output struct {
	SessionID        string           `json:"sessionId"`
	HasActivePlan    bool             `json:"hasActivePlan"`
	RemainingViews   int              `json:"remainingViews"`
	ViewLimitReached bool             `json:"viewLimitReached"`
	Properties       []PropertyAccess `json:"properties"`
	State            paywall.State    `json:"paywallState"`
}
