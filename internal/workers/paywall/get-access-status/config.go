// internal/workers/paywall/get-access-status/config.go
package getaccessstatus

import (
	"time"

	"apartmentiq-workers/internal/paywall"
)

type Config struct {
	Timeout       time.Duration
	FreeViewLimit int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       5 * time.Second,
		FreeViewLimit: paywall.DefaultFreePropertyViewLimit,
	}
}
