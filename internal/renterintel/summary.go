package renterintel

import (
	"sort"

	"apartmentiq-workers/internal/pricing"
)

// Summarize rolls a set of deals into a market overview. The best deal is the
// first one with the highest score.
func Summarize(deals []DealIntelligence) MarketSummary {
	summary := MarketSummary{TotalUnits: len(deals), MarketTrend: TrendBalanced}
	if len(deals) == 0 {
		return summary
	}

	best := deals[0]
	var totalSavings float64
	for _, deal := range deals {
		summary.DealDistribution.add(deal.DealLevel)
		totalSavings += (deal.PotentialSavings.MonthlyRange[0] + deal.PotentialSavings.MonthlyRange[1]) / 2
		if deal.DealScore > best.DealScore {
			best = deal
		}
	}

	dist := summary.DealDistribution
	total := float64(len(deals))

	summary.GreatDeals = dist.GreatDeal
	summary.NegotiableUnits = dist.GreatDeal + dist.GoodDeal
	summary.AverageSavings = totalSavings / total
	summary.BestDealUnit = best.UnitID

	switch {
	case float64(dist.GreatDeal)/total > 0.3:
		summary.MarketTrend = TrendRenterFriendly
	case float64(dist.HotMarket)/total > 0.4:
		summary.MarketTrend = TrendCompetitive
	}
	return summary
}

// Result is the renter analysis of a batch of listings, keyed by listing ID.
type Result struct {
	Deals   map[string]DealIntelligence `json:"deals"`
	Summary MarketSummary               `json:"marketSummary"`
	Skipped []string                    `json:"skipped,omitempty"`
}

// Analyze prices each listing and converts it to the renter view. Listings
// without ApartmentIQ data are skipped.
func (e *Engine) Analyze(listings []pricing.Listing) Result {
	res := Result{Deals: make(map[string]DealIntelligence, len(listings))}
	ordered := make([]DealIntelligence, 0, len(listings))

	for _, l := range listings {
		if l.ApartmentIQData == nil {
			res.Skipped = append(res.Skipped, l.ID)
			continue
		}

		var recPtr *pricing.Recommendation
		rec, err := e.pricing.GenerateRecommendation(*l.ApartmentIQData, nil)
		if err != nil {
			e.logger.Warn("Pricing unavailable for listing", map[string]interface{}{
				"propertyId": l.ID,
				"error":      err.Error(),
			})
		} else {
			recPtr = &rec
		}

		deal := Transform(*l.ApartmentIQData, recPtr)
		res.Deals[l.ID] = deal
		ordered = append(ordered, deal)
	}

	res.Summary = Summarize(ordered)
	return res
}

// SortedByDealScore returns IDs best deal first, ties broken by ID.
func SortedByDealScore(deals map[string]DealIntelligence) []string {
	ids := make([]string, 0, len(deals))
	for id := range deals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := deals[ids[i]], deals[ids[j]]
		if a.DealScore != b.DealScore {
			return a.DealScore > b.DealScore
		}
		return ids[i] < ids[j]
	})
	return ids
}

func GreatDeals(deals map[string]DealIntelligence) []string {
	return idsWhere(deals, func(d DealIntelligence) bool { return d.DealLevel == GreatDeal })
}

func HighNegotiationPotential(deals map[string]DealIntelligence) []string {
	return idsWhere(deals, func(d DealIntelligence) bool { return d.NegotiationPotential == High })
}

// ImmediateOpportunities are units worth negotiating now outside hot markets.
func ImmediateOpportunities(deals map[string]DealIntelligence) []string {
	return idsWhere(deals, func(d DealIntelligence) bool {
		return d.Timing.Advice == AdviceNegotiateNow && d.DealLevel != HotMarket
	})
}

func TotalPotentialSavings(deals map[string]DealIntelligence) float64 {
	var total float64
	for _, d := range deals {
		total += d.PotentialSavings.AnnualSavings
	}
	return total
}

func AverageDealScore(deals map[string]DealIntelligence) float64 {
	if len(deals) == 0 {
		return 0
	}
	var total int
	for _, d := range deals {
		total += d.DealScore
	}
	return float64(total) / float64(len(deals))
}

func LevelCounts(deals map[string]DealIntelligence) DealDistribution {
	var counts DealDistribution
	for _, d := range deals {
		counts.add(d.DealLevel)
	}
	return counts
}

func idsWhere(deals map[string]DealIntelligence, keep func(DealIntelligence) bool) []string {
	ids := []string{}
	for id, d := range deals {
		if keep(d) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
