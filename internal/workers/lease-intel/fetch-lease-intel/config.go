// internal/workers/lease-intel/fetch-lease-intel/config.go
package fetchleaseintel

import "time"

type Config struct {
	Timeout     time.Duration
	Concurrency int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     10 * time.Second,
		Concurrency: 4,
	}
}
