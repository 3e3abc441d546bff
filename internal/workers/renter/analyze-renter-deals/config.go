// internal/workers/renter/analyze-renter-deals/config.go
package analyzerenterdeals

import "time"

type Config struct {
	Timeout     time.Duration
	MaxListings int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     30 * time.Second,
		MaxListings: 500,
	}
}
