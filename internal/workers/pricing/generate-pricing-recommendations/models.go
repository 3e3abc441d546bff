// internal/workers/pricing/generate-pricing-recommendations/models.go
package generatepricingrecommendations

import "apartmentiq-workers/internal/pricing"

type Input struct {
	Listings      []pricing.Listing      `json:"listings"`
	MarketContext *pricing.MarketContext `json:"marketContext,omitempty"`
}

type Output struct {
	Recommendations   map[string]pricing.Recommendation `json:"recommendations"`
	PortfolioSummary  *pricing.PortfolioSummary         `json:"portfolioSummary,omitempty"`
	Insights          []string                          `json:"insights"`
	UrgentPropertyIDs []string                          `json:"urgentPropertyIds"`
	Skipped           []string                          `json:"skipped"`
}
