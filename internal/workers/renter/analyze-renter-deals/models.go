// internal/workers/renter/analyze-renter-deals/models.go
package analyzerenterdeals

import (
	"apartmentiq-workers/internal/pricing"
	"apartmentiq-workers/internal/renterintel"
)

type Input struct {
	Listings []pricing.Listing `json:"listings"`
}

type Output struct {
	Deals                  map[string]renterintel.DealIntelligence `json:"deals"`
	MarketSummary          renterintel.MarketSummary               `json:"marketSummary"`
	RankedPropertyIDs      []string                                `json:"rankedPropertyIds"`
	GreatDeals             []string                                `json:"greatDeals"`
	ImmediateOpportunities []string                                `json:"immediateOpportunities"`
	TotalPotentialSavings  float64                                 `json:"totalPotentialSavings"`
	Skipped                []string                                `json:"skipped"`
}
