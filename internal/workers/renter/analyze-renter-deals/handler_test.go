// internal/workers/renter/analyze-renter-deals/handler_test.go
package analyzerenterdeals

import (
	"context"
	"testing"
	"time"

	"apartmentiq-workers/internal/common/logger"
	"apartmentiq-workers/internal/pricing"
	"apartmentiq-workers/internal/renterintel"

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
	return NewHandler(config, renterintel.NewEngine(pricing.NewEngine(log), log), log)
}

func listings() []pricing.Listing {
	stale := pricing.ApartmentIQData{
		UnitID:            "unit-stale",
		CurrentRent:       2000,
		DaysOnMarket:      50,
		MarketVelocity:    pricing.VelocityStale,
		ConcessionValue:   300,
		ConcessionUrgency: pricing.ConcessionDesperate,
		MarketPosition:    pricing.AboveMarket,
	}
	hot := pricing.ApartmentIQData{
		UnitID:            "unit-hot",
		CurrentRent:       2500,
		DaysOnMarket:      1,
		MarketVelocity:    pricing.VelocityHot,
		ConcessionUrgency: pricing.ConcessionNone,
		MarketPosition:    pricing.AtMarket,
	}
	return []pricing.Listing{
		{ID: "p-hot", ApartmentIQData: &hot},
		{ID: "p-stale", ApartmentIQData: &stale},
		{ID: "p-legacy", Price: 1200},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	output, err := createTestHandler(t, nil).Execute(context.Background(), &Input{Listings: listings()})
	require.NoError(t, err)

	require.Len(t, output.Deals, 2)
	assert.Equal(t, renterintel.GreatDeal, output.Deals["p-stale"].DealLevel)
	assert.Equal(t, renterintel.HotMarket, output.Deals["p-hot"].DealLevel)

	assert.Equal(t, []string{"p-stale", "p-hot"}, output.RankedPropertyIDs)
	assert.Equal(t, []string{"p-stale"}, output.GreatDeals)
	assert.Equal(t, []string{"p-stale"}, output.ImmediateOpportunities)
	assert.InDelta(t, 2400, output.TotalPotentialSavings, 1e-9)
	assert.Equal(t, []string{"p-legacy"}, output.Skipped)

	assert.Equal(t, 2, output.MarketSummary.TotalUnits)
	assert.Equal(t, "unit-stale", output.MarketSummary.BestDealUnit)
}

func TestHandler_Execute_Empty(t *testing.T) {
	output, err := createTestHandler(t, nil).Execute(context.Background(), &Input{})
	require.NoError(t, err)

	assert.Empty(t, output.Deals)
	assert.Equal(t, []string{}, output.Skipped)
	assert.Equal(t, []string{}, output.GreatDeals)
	assert.Zero(t, output.MarketSummary.TotalUnits)
}

// ==========================
// Validation Tests
// ==========================

func TestHandler_Execute_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		listings []pricing.Listing
	}{
		{name: "too many listings", listings: make([]pricing.Listing, 3)},
		{name: "missing id", listings: []pricing.Listing{{Price: 1000}}},
	}

	handler := createTestHandler(t, &Config{Timeout: time.Second, MaxListings: 2})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), &Input{Listings: tt.listings})
			assert.Nil(t, output)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
