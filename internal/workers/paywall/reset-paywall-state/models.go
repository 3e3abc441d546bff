// internal/workers/paywall/reset-paywall-state/models.go
package resetpaywallstate

import "apartmentiq-workers/internal/paywall"

type Input struct {
	SessionID string `json:"sessionId"`
}

type Output struct {
	SessionID   string        `json:"sessionId"`
	PaywallOpen bool          `json:"paywallOpen"`
	State       paywall.State `json:"paywallState"`
}
