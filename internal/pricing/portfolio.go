package pricing

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const maxActionsPerBucket = 10

// AnalyzePortfolio totals revenue impact across recommendations and groups
// per-unit actions by urgency.
func AnalyzePortfolio(recs []Recommendation) PortfolioSummary {
	summary := PortfolioSummary{
		TotalUnits:           len(recs),
		StrategyDistribution: map[Strategy]int{},
		UrgencyDistribution:  map[Urgency]int{},
		RecommendedActions: RecommendedActions{
			Immediate: []string{},
			Soon:      []string{},
			Moderate:  []string{},
		},
	}

	var current, suggested, impact, vacancySavings, net, confidence float64
	for _, rec := range recs {
		ri := rec.RevenueImpact
		current += ri.CurrentAnnualRevenue
		suggested += ri.SuggestedAnnualRevenue
		impact += ri.TotalImpact
		vacancySavings += ri.VacancyCostCurrent - ri.VacancyCostSuggested
		net += ri.NetBenefit
		confidence += rec.ConfidenceScore

		summary.StrategyDistribution[rec.Strategy]++
		summary.UrgencyDistribution[rec.UrgencyLevel]++

		action := formatAction(rec)
		actions := &summary.RecommendedActions
		switch rec.UrgencyLevel {
		case UrgencyImmediate:
			actions.Immediate = appendCapped(actions.Immediate, action)
		case UrgencySoon:
			actions.Soon = appendCapped(actions.Soon, action)
		case UrgencyModerate:
			actions.Moderate = appendCapped(actions.Moderate, action)
		}
	}

	summary.TotalCurrentRevenue = round(current)
	summary.TotalSuggestedRevenue = round(suggested)
	summary.TotalImpact = round(impact)
	summary.TotalVacancySavings = round(vacancySavings)
	summary.TotalNetBenefit = round(net)
	if len(recs) > 0 {
		summary.AverageConfidenceScore = roundTo(confidence/float64(len(recs)), 2)
	}
	return summary
}

func formatAction(rec Recommendation) string {
	sign := ""
	if rec.AdjustmentPercent > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s: %s (%s%s%%)", rec.UnitID, rec.Strategy, sign,
		strconv.FormatFloat(rec.AdjustmentPercent, 'f', -1, 64))
}

func appendCapped(list []string, action string) []string {
	if len(list) >= maxActionsPerBucket {
		return list
	}
	return append(list, action)
}

var printer = message.NewPrinter(language.English)

// PortfolioInsights renders short human-readable observations about a summary.
func PortfolioInsights(summary PortfolioSummary) []string {
	var insights []string

	if summary.TotalImpact > 0 {
		insights = append(insights, printer.Sprintf("Portfolio could generate $%d additional annual revenue",
			int64(summary.TotalImpact)))
	} else {
		insights = append(insights, printer.Sprintf("Portfolio optimization could reduce vacancy losses by $%d",
			int64(math.Abs(summary.TotalVacancySavings))))
	}

	aggressive := summary.StrategyDistribution[StrategyAggressiveReduction]
	if float64(aggressive) > float64(summary.TotalUnits)*0.3 {
		insights = append(insights, fmt.Sprintf(
			"%d units need aggressive pricing adjustments - market conditions are challenging", aggressive))
	}

	if n := summary.StrategyDistribution[StrategyIncrease]; n > 0 {
		insights = append(insights, fmt.Sprintf("%d units have pricing upside potential", n))
	}

	if n := summary.UrgencyDistribution[UrgencyImmediate]; n > 0 {
		insights = append(insights, fmt.Sprintf("%d units require immediate action (30+ days on market)", n))
	}

	switch {
	case summary.AverageConfidenceScore > 0.8:
		insights = append(insights, "High confidence in recommendations - strong data quality")
	case summary.AverageConfidenceScore < 0.6:
		insights = append(insights, "Moderate confidence - consider gathering more market data")
	}

	return insights
}
