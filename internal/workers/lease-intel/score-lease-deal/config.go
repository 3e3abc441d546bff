// internal/workers/lease-intel/score-lease-deal/config.go
package scoreleasedeal

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
