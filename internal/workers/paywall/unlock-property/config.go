// internal/workers/paywall/unlock-property/config.go
package unlockproperty

import "time"

type Config struct {
	Timeout time.Duration
	// ReceiptFrom is the SES sender for unlock receipts. Receipts are not
	// sent when it is empty.
	ReceiptFrom string
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}
