// internal/workers/pricing/generate-pricing-recommendations/config.go
package generatepricingrecommendations

import "time"

type Config struct {
	Timeout time.Duration
	// MaxListings caps one batch; larger batches are rejected as invalid input.
	MaxListings int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     30 * time.Second,
		MaxListings: 500,
	}
}
