// internal/workers/trial/manage-trial/config.go
package managetrial

import (
	"time"

	"apartmentiq-workers/internal/trial"
)

type Config struct {
	Timeout    time.Duration
	Duration   time.Duration
	QueryLimit int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    5 * time.Second,
		Duration:   trial.DefaultDuration,
		QueryLimit: trial.DefaultQueryLimit,
	}
}
