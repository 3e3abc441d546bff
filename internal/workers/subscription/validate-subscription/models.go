// internal/workers/subscription/validate-subscription/models.go
package validatesubscription

type Input struct {
	UserID string `json:"userId"`
	// SessionID, when set, gets the paid tier applied to its paywall state.
	SessionID string `json:"sessionId,omitempty"`
}

type Output struct {
	IsValid       bool     `json:"isValid"`
	TierLevel     string   `json:"tierLevel"`
	Permissions   []string `json:"permissions"`
	PlanActivated bool     `json:"planActivated"`
}

// Subscription represents a user_subscriptions row
type Subscription struct {
	UserID    string `json:"userId"`
	Tier      string `json:"tier"`
	ExpiresAt string `json:"expiresAt"`
	IsValid   bool   `json:"isValid"`
}
