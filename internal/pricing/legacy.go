package pricing

import (
	"sort"
	"time"
)

// Listing is a property as the search API returns it: either a full
// ApartmentIQ record or just the legacy price/days/velocity fields.
type Listing struct {
	ID                string            `json:"id"`
	ApartmentIQData   *ApartmentIQData  `json:"apartmentIQData,omitempty"`
	Price             float64           `json:"price,omitempty"`
	DaysOnMarket      *int              `json:"daysOnMarket,omitempty"`
	MarketVelocity    Velocity          `json:"marketVelocity,omitempty"`
	ConcessionUrgency ConcessionUrgency `json:"concessionUrgency,omitempty"`
}

// FromLegacy fills an ApartmentIQData with neutral defaults around the legacy
// fields. It reports false when price, days on market or velocity is missing.
func FromLegacy(l Listing, now time.Time) (ApartmentIQData, bool) {
	if l.Price <= 0 || l.DaysOnMarket == nil || l.MarketVelocity == "" {
		return ApartmentIQData{}, false
	}

	concession := l.ConcessionUrgency
	if concession == "" {
		concession = ConcessionNone
	}
	stamp := now.UTC().Format(time.RFC3339)

	return ApartmentIQData{
		UnitID:               l.ID,
		PropertyName:         "Unknown Property",
		UnitNumber:           "Unknown",
		Address:              "Unknown Address",
		ZipCode:              "Unknown",
		CurrentRent:          l.Price,
		OriginalRent:         l.Price,
		EffectiveRent:        l.Price,
		Bedrooms:             1,
		Bathrooms:            1,
		Sqft:                 800,
		Floor:                1,
		FloorPlan:            "Unknown",
		DaysOnMarket:         *l.DaysOnMarket,
		FirstSeen:            stamp,
		MarketVelocity:       l.MarketVelocity,
		ConcessionType:       "none",
		ConcessionUrgency:    concession,
		RentTrend:            RentStable,
		ConcessionTrend:      "none",
		MarketPosition:       AtMarket,
		PercentileRank:       50,
		AmenityScore:         50,
		LocationScore:        50,
		ManagementScore:      50,
		LeaseProbability:     0.5,
		NegotiationPotential: 5,
		UrgencyScore:         5,
		DataFreshness:        stamp,
		ConfidenceScore:      0.5,
	}, true
}

// Result is the outcome of pricing a batch of listings.
type Result struct {
	Recommendations map[string]Recommendation `json:"recommendations"`
	Summary         *PortfolioSummary         `json:"portfolioSummary,omitempty"`
	Insights        []string                  `json:"insights,omitempty"`
	Skipped         []string                  `json:"skipped,omitempty"`
}

// GenerateAll prices every listing that carries enough data. Listings that
// cannot be priced are reported in Skipped rather than failing the batch.
func (e *Engine) GenerateAll(listings []Listing, mc *MarketContext, now time.Time) Result {
	res := Result{Recommendations: make(map[string]Recommendation, len(listings))}

	for _, l := range listings {
		data := l.ApartmentIQData
		if data == nil {
			legacy, ok := FromLegacy(l, now)
			if !ok {
				res.Skipped = append(res.Skipped, l.ID)
				continue
			}
			data = &legacy
		}

		rec, err := e.GenerateRecommendation(*data, mc)
		if err != nil {
			e.log().Warn("Skipping listing", map[string]interface{}{"propertyId": l.ID, "error": err.Error()})
			res.Skipped = append(res.Skipped, l.ID)
			continue
		}
		res.Recommendations[l.ID] = rec
	}

	if len(res.Recommendations) > 0 {
		summary := AnalyzePortfolio(sortedRecommendations(res.Recommendations))
		res.Summary = &summary
		res.Insights = PortfolioInsights(summary)
	}
	return res
}

// UrgentProperties returns the sorted IDs of listings needing immediate action.
func UrgentProperties(recs map[string]Recommendation) []string {
	return idsWhere(recs, func(r Recommendation) bool { return r.UrgencyLevel == UrgencyImmediate })
}

func ByStrategy(recs map[string]Recommendation, s Strategy) []string {
	return idsWhere(recs, func(r Recommendation) bool { return r.Strategy == s })
}

func ByUrgency(recs map[string]Recommendation, u Urgency) []string {
	return idsWhere(recs, func(r Recommendation) bool { return r.UrgencyLevel == u })
}

func idsWhere(recs map[string]Recommendation, keep func(Recommendation) bool) []string {
	ids := []string{}
	for id, rec := range recs {
		if keep(rec) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func sortedRecommendations(recs map[string]Recommendation) []Recommendation {
	ids := make([]string, 0, len(recs))
	for id := range recs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]Recommendation, 0, len(ids))
	for _, id := range ids {
		out = append(out, recs[id])
	}
	return out
}
