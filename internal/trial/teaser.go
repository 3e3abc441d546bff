package trial

import "math"

const (
	defaultMonthlySavings = 300.0
	savingsVariance       = 0.4
	defaultInsightsCount  = 3
)

var blurredInsights = []BlurredInsight{
	{ID: "1", Title: "Landlord Pressure Points Analysis", Type: "financial"},
	{ID: "2", Title: "Optimal Negotiation Timing Strategy", Type: "timing"},
	{ID: "3", Title: "Market-Based Leverage Tactics", Type: "market"},
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// ToTeaser reduces a full report to what a trial user may see: the leverage
// score rounded to a multiple of ten and savings as a +/-40% range.
func ToTeaser(full FullIntelligence) Teaser {
	score := int(roundHalfUp(full.OverallLeverageScore/10) * 10)

	savings := defaultMonthlySavings
	if full.Recommendation != nil && full.Recommendation.MonthlySavings > 0 {
		savings = full.Recommendation.MonthlySavings
	}
	variance := savings * savingsVariance

	level := OpportunityModerate
	switch {
	case score >= 90:
		level = OpportunityExceptional
	case score >= 70:
		level = OpportunityHigh
	case score < 50:
		level = OpportunityLow
	}

	insights := len(full.CombinedInsights)
	if insights == 0 {
		insights = defaultInsightsCount
	}

	adv := Advantages{MarketCondition: "Neutral"}
	if ds := full.DataStatus; ds != nil {
		adv.HasTimingAdvantage = ds.Timing == "favorable"
		adv.HasSeasonalAdvantage = ds.Seasonal == "favorable"
		adv.HasOwnershipAdvantage = ds.Ownership == "favorable"
		if ds.Market != "" {
			adv.MarketCondition = ds.Market
		}
	}

	return Teaser{
		LeverageScore: score,
		SavingsRange: SavingsRange{
			Min: roundHalfUp(savings - variance),
			Max: roundHalfUp(savings + variance),
		},
		OpportunityLevel: level,
		InsightsCount:    insights,
		Advantages:       adv,
		BlurredInsights:  append([]BlurredInsight(nil), blurredInsights...),
		PotentialSavings: savings,
	}
}
