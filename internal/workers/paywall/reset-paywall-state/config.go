// internal/workers/paywall/reset-paywall-state/config.go
package resetpaywallstate

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
