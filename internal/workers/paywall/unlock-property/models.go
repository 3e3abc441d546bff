// internal/workers/paywall/unlock-property/models.go
package unlockproperty

type Input struct {
	SessionID  string `json:"sessionId"`
	UserID     string `json:"userId,omitempty"`
	PropertyID string `json:"propertyId"`
	PaymentID  string `json:"paymentId,omitempty"`
	Email      string `json:"email,omitempty"`
}

type Output struct {
	SessionID           string   `json:"sessionId"`
	PropertyID          string   `json:"propertyId"`
	Unlocked            bool     `json:"unlocked"`
	UnlockedPropertyIDs []string `json:"unlockedPropertyIds"`
	Recorded            bool     `json:"recorded"`
	ReceiptMessageID    string   `json:"receiptMessageId,omitempty"`
}
