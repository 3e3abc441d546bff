package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, 3, cfg.Paywall.FreeViewLimit)
	assert.Equal(t, "apartmentiq-paywall-state", cfg.Paywall.KeyPrefix)
	assert.Equal(t, 72, cfg.Trial.DurationHours)
	assert.Equal(t, 3, cfg.Trial.QueryLimit)
	assert.Equal(t, "apartmentiq_trial", cfg.Trial.KeyPrefix)
	assert.Zero(t, cfg.Paywall.StateTTL)
	assert.Zero(t, cfg.Trial.StateTTL)
	assert.Equal(t, 300, cfg.Subscription.CacheTTL)
	assert.Equal(t, "http", cfg.LeaseIntel.Source)
	assert.Equal(t, "lease-intel", cfg.LeaseIntel.Index)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
paywall:
  free_view_limit: -1
lease_intel:
  source: elasticsearch
subscription:
  cache_ttl: 60
workers:
  track-property-view:
    enabled: true
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, -1, cfg.Paywall.FreeViewLimit)
	assert.Equal(t, "elasticsearch", cfg.LeaseIntel.Source)
	assert.Equal(t, 60, cfg.Subscription.CacheTTL)

	wc := GetWorkerConfig(cfg, "track-property-view")
	assert.True(t, wc.Enabled)
	assert.Equal(t, 5, wc.MaxJobsActive)
	assert.Equal(t, 3, wc.MaxRetries)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown lease intel source", body: "lease_intel:\n  source: ftp\n"},
		{name: "analytics without topic", body: "analytics:\n  enabled: true\n"},
		{name: "ses without sender", body: "notifications:\n  ses:\n    enabled: true\n"},
		{name: "trial state expires with the trial", body: "trial:\n  duration_hours: 72\n  state_ttl: 259200\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PAYWALL_ANALYTICS_TOPIC_ARN", "")
			_, err := LoadFromFile(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestGetWorkerConfig_Fallback(t *testing.T) {
	wc := GetWorkerConfig(&Config{}, "missing")
	assert.True(t, wc.Enabled)
	assert.Equal(t, 30000, wc.Timeout)
	assert.True(t, IsWorkerEnabled(&Config{}, "missing"))
}
