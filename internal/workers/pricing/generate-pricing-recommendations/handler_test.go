// internal/workers/pricing/generate-pricing-recommendations/handler_test.go
package generatepricingrecommendations

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"apartmentiq-workers/internal/common/logger"
	"apartmentiq-workers/internal/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestHandler(t *testing.T, config *Config) *Handler {
	if config == nil {
		config = &Config{Timeout: 5 * time.Second, MaxListings: 10}
	}
	log := logger.NewTestLogger(t)
	h := NewHandler(config, pricing.NewEngine(log), log)
	h.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return h
}

const jobVariables = `{
	"listings": [
		{
			"id": "hot",
			"apartmentIQData": {
				"unitId": "unit-1",
				"currentRent": 2000,
				"daysOnMarket": 3,
				"marketVelocity": "hot",
				"marketPosition": "at_market",
				"percentileRank": 50,
				"rentTrend": "stable",
				"amenityScore": 50,
				"locationScore": 50,
				"leaseProbability": 0.5,
				"confidenceScore": 0.5
			}
		},
		{
			"id": "stale",
			"apartmentIQData": {
				"unitId": "unit-2",
				"currentRent": 2000,
				"daysOnMarket": 45,
				"marketVelocity": "stale",
				"concessionUrgency": "desperate",
				"marketPosition": "above_market",
				"percentileRank": 90,
				"rentTrend": "decreasing",
				"rentChangePercent": -6,
				"amenityScore": 30,
				"locationScore": 90,
				"leaseProbability": 0.2,
				"confidenceScore": 0.9
			}
		},
		{"id": "legacy-missing-data", "price": 1800}
	]
}`

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_FromJobVariables(t *testing.T) {
	var input Input
	require.NoError(t, json.Unmarshal([]byte(jobVariables), &input))

	output, err := createTestHandler(t, nil).Execute(context.Background(), &input)
	require.NoError(t, err)

	require.Len(t, output.Recommendations, 2)

	hot := output.Recommendations["hot"]
	assert.Equal(t, 2100.0, hot.SuggestedRent)
	assert.Equal(t, pricing.StrategyIncrease, hot.Strategy)

	stale := output.Recommendations["stale"]
	assert.Equal(t, 1276.0, stale.SuggestedRent)
	assert.Equal(t, pricing.StrategyAggressiveReduction, stale.Strategy)

	assert.Equal(t, []string{"stale"}, output.UrgentPropertyIDs)
	assert.Equal(t, []string{"legacy-missing-data"}, output.Skipped)

	require.NotNil(t, output.PortfolioSummary)
	assert.Equal(t, 2, output.PortfolioSummary.TotalUnits)
	assert.NotEmpty(t, output.Insights)
}

func TestHandler_Execute_LegacyListing(t *testing.T) {
	days := 10
	output, err := createTestHandler(t, nil).Execute(context.Background(), &Input{
		Listings: []pricing.Listing{{ID: "l1", Price: 1500, DaysOnMarket: &days, MarketVelocity: pricing.VelocityNormal}},
	})
	require.NoError(t, err)

	require.Contains(t, output.Recommendations, "l1")
	assert.Empty(t, output.Skipped)
	assert.NotNil(t, output.Skipped)
}

func TestHandler_Execute_EmptyBatch(t *testing.T) {
	output, err := createTestHandler(t, nil).Execute(context.Background(), &Input{})
	require.NoError(t, err)

	assert.Empty(t, output.Recommendations)
	assert.Nil(t, output.PortfolioSummary)
	assert.Equal(t, []string{}, output.Insights)
	assert.Equal(t, []string{}, output.UrgentPropertyIDs)
}

// ==========================
// Validation Tests
// ==========================

func TestHandler_Execute_InvalidInput(t *testing.T) {
	handler := createTestHandler(t, &Config{Timeout: time.Second, MaxListings: 2})

	_, err := handler.Execute(context.Background(), &Input{Listings: make([]pricing.Listing, 3)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = handler.Execute(context.Background(), &Input{Listings: []pricing.Listing{{Price: 1000}}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
