// internal/workers/paywall/activate-plan/models.go
package activateplan

import "apartmentiq-workers/internal/paywall"

type Input struct {
	SessionID string `json:"sessionId"`
	PlanID    string `json:"planId"`
}

type Output struct {
	SessionID  string        `json:"sessionId"`
	ActivePlan string        `json:"activePlan"`
	State      paywall.State `json:"paywallState"`
}
