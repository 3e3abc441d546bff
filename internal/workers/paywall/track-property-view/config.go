// internal/workers/paywall/track-property-view/config.go
package trackpropertyview

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
