// internal/workers/paywall/check-feature-access/config.go
package checkfeatureaccess

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
		Timeout:       10 * time.Second,
		FreeViewLimit: paywall.DefaultFreePropertyViewLimit,
	}
}
