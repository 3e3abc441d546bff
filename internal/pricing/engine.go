// Package pricing produces landlord-side rent recommendations for individual
// units and rolls them up into a portfolio view.
package pricing

import (
	"errors"
	"fmt"
	"math"

	"apartmentiq-workers/internal/common/logger"
)

// ErrInvalidRent is returned when a unit has no usable current rent.
var ErrInvalidRent = errors.New("current rent must be a positive number")

var velocityPremiums = map[Velocity]float64{
	VelocityHot:    0.05,
	VelocityNormal: 0,
	VelocitySlow:   -0.03,
	VelocityStale:  -0.08,
}

var positionAdjustments = map[MarketPosition]float64{
	BelowMarket: -0.02,
	AtMarket:    0,
	AboveMarket: 0.05,
}

var urgencyAdjustments = map[Urgency]float64{
	UrgencyImmediate: 0.12,
	UrgencySoon:      0.06,
	UrgencyModerate:  0.03,
	UrgencyLow:       0,
}

var baseLeaseDays = map[Velocity]int{
	VelocityHot:    5,
	VelocityNormal: 12,
	VelocitySlow:   25,
	VelocityStale:  40,
}

type domPenalty struct {
	maxDays int
	penalty float64
}

// Ordered by maxDays; anything past the last bucket takes the final penalty.
var domPenalties = []domPenalty{
	{7, 0},
	{14, 0.02},
	{21, 0.04},
	{30, 0.07},
	{45, 0.10},
	{60, 0.15},
}

const (
	maxDOMPenalty       = 0.20
	carryingCostRatio   = 0.15
	maxMonthsVacant     = 3.0
	minConfidence       = 0.3
	maxConfidence       = 0.95
	comparableThreshold = 5
)

// Engine generates pricing recommendations. The zero value is usable.
type Engine struct {
	logger logger.Logger
}

func NewEngine(log logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Engine{logger: log}
}

// GenerateRecommendation applies the pricing adjustments in order, recording
// one reasoning line per adjustment that moved the rent.
func (e *Engine) GenerateRecommendation(data ApartmentIQData, mc *MarketContext) (Recommendation, error) {
	if !(data.CurrentRent > 0) || math.IsInf(data.CurrentRent, 0) {
		return Recommendation{}, fmt.Errorf("%w: unit %s has rent %v", ErrInvalidRent, data.UnitID, data.CurrentRent)
	}
	if data.DaysOnMarket < 0 {
		data.DaysOnMarket = 0
	}

	baseRent := data.CurrentRent
	suggested := baseRent
	reasoning := make([]string, 0, 7)

	if premium := velocityPremiums[data.MarketVelocity]; premium != 0 {
		suggested *= 1 + premium
		if premium > 0 {
			reasoning = append(reasoning, fmt.Sprintf("Hot market premium (+%.1f%%)", premium*100))
		} else {
			reasoning = append(reasoning, fmt.Sprintf("%s market discount (%.1f%%)", data.MarketVelocity, premium*100))
		}
	}

	if penalty := ProgressiveDOMPenalty(data.DaysOnMarket); penalty > 0 {
		suggested *= 1 - penalty
		reasoning = append(reasoning, fmt.Sprintf("%d days on market penalty (-%.1f%%)", data.DaysOnMarket, penalty*100))
	}

	if adj := positionAdjustments[data.MarketPosition]; adj != 0 {
		suggested *= 1 - adj
		if adj > 0 {
			reasoning = append(reasoning, fmt.Sprintf("Above market position (-%.1f%%)", adj*100))
		} else {
			reasoning = append(reasoning, fmt.Sprintf("Below market opportunity (+%.1f%%)", math.Abs(adj)*100))
		}
	}

	urgency := DetermineUrgency(data.DaysOnMarket, data.ConcessionUrgency)
	if adj := urgencyAdjustments[urgency]; adj > 0 {
		suggested *= 1 - adj
		reasoning = append(reasoning, fmt.Sprintf("%s urgency level (-%.1f%%)", urgency, adj*100))
	}

	switch {
	case data.LeaseProbability < 0.3:
		suggested *= 0.95
		reasoning = append(reasoning, "Low lease probability (-5%)")
	case data.LeaseProbability > 0.8:
		suggested *= 1.02
		reasoning = append(reasoning, "High lease probability (+2%)")
	}

	switch {
	case data.RentTrend == RentDecreasing && data.RentChangePercent < -5:
		suggested *= 0.98
		reasoning = append(reasoning, "Strong downward rent trend (-2%)")
	case data.RentTrend == RentIncreasing && data.DaysOnMarket < 10:
		suggested *= 1.02
		reasoning = append(reasoning, "Upward rent trend with quick movement (+2%)")
	}

	switch {
	case data.AmenityScore > 80 && data.LocationScore > 80:
		suggested *= 1.01
		reasoning = append(reasoning, "Premium amenities and location (+1%)")
	case data.AmenityScore < 40 || data.LocationScore < 40:
		suggested *= 0.99
		reasoning = append(reasoning, "Below-average amenities or location (-1%)")
	}

	adjustment := suggested - baseRent
	adjustmentPercent := adjustment / baseRent * 100

	timeline := leaseTimeline(suggested, baseRent, data.MarketVelocity, data.DaysOnMarket)

	rec := Recommendation{
		UnitID:            data.UnitID,
		CurrentRent:       baseRent,
		SuggestedRent:     round(suggested),
		AdjustmentAmount:  round(adjustment),
		AdjustmentPercent: roundTo(adjustmentPercent, 2),
		ConfidenceScore:   enhancedConfidence(data, mc),
		UrgencyLevel:      urgency,
		Strategy:          DetermineStrategy(adjustmentPercent),
		Reasoning:         reasoning,
		ExpectedLeaseDays: timeline.SuggestedTrajectoryDays,
		RevenueImpact:     revenueImpact(baseRent, suggested, timeline.SuggestedTrajectoryDays),
		MarketTiming:      AssessMarketTiming(data),
		LeaseTimeline:     timeline,
	}

	e.log().Debug("Pricing recommendation generated", map[string]interface{}{
		"unitId":   rec.UnitID,
		"strategy": rec.Strategy,
		"urgency":  rec.UrgencyLevel,
	})
	return rec, nil
}

func (e *Engine) log() logger.Logger {
	if e == nil || e.logger == nil {
		return logger.NewNoOpLogger()
	}
	return e.logger
}

// ProgressiveDOMPenalty is 0% for the first week rising to 20% after two months.
func ProgressiveDOMPenalty(daysOnMarket int) float64 {
	for _, p := range domPenalties {
		if daysOnMarket <= p.maxDays {
			return p.penalty
		}
	}
	return maxDOMPenalty
}

func DetermineUrgency(daysOnMarket int, concession ConcessionUrgency) Urgency {
	switch {
	case daysOnMarket >= 30 || concession == ConcessionDesperate:
		return UrgencyImmediate
	case daysOnMarket >= 14 || concession == ConcessionAggressive:
		return UrgencySoon
	case daysOnMarket >= 7 || concession == ConcessionStandard:
		return UrgencyModerate
	default:
		return UrgencyLow
	}
}

func DetermineStrategy(adjustmentPercent float64) Strategy {
	switch {
	case adjustmentPercent <= -10:
		return StrategyAggressiveReduction
	case adjustmentPercent <= -3:
		return StrategyModerateReduction
	case adjustmentPercent >= 3:
		return StrategyIncrease
	default:
		return StrategyHold
	}
}

func AssessMarketTiming(data ApartmentIQData) MarketTiming {
	score := 0
	if data.MarketVelocity == VelocityHot || data.MarketVelocity == VelocityNormal {
		score += 2
	}
	if data.RentTrend == RentIncreasing {
		score++
	}
	if data.DaysOnMarket < 14 {
		score++
	}
	if data.MarketVelocity == VelocityStale {
		score -= 2
	}
	if data.RentTrend == RentDecreasing {
		score--
	}
	if data.DaysOnMarket > 30 {
		score -= 2
	}

	switch {
	case score >= 3:
		return TimingOptimal
	case score >= 1:
		return TimingGood
	case score >= -1:
		return TimingFair
	default:
		return TimingPoor
	}
}

func enhancedConfidence(data ApartmentIQData, mc *MarketContext) float64 {
	confidence := 0.6

	switch {
	case data.ConfidenceScore > 0.8:
		confidence += 0.15
	case data.ConfidenceScore > 0.6:
		confidence += 0.1
	}

	if mc != nil && mc.MarketStats != nil {
		confidence += 0.1
		if len(mc.ComparableUnits) > comparableThreshold {
			confidence += 0.05
		}
	}

	switch {
	case data.DaysOnMarket > 30:
		confidence += 0.1
	case data.DaysOnMarket < 7:
		confidence -= 0.05
	}

	if data.MarketPosition != AtMarket && data.PercentileRank != 50 {
		confidence += 0.05
	}
	if data.RentTrend != RentStable {
		confidence += 0.05
	}

	return math.Min(maxConfidence, math.Max(minConfidence, confidence))
}

func leaseTimeline(suggestedRent, currentRent float64, velocity Velocity, currentDOM int) LeaseTimeline {
	suggestedDays, ok := baseLeaseDays[velocity]
	if !ok {
		suggestedDays = 20
	}
	currentDays := int(float64(suggestedDays) * 1.5)

	ratio := suggestedRent / currentRent
	switch {
	case ratio <= 0.95:
		suggestedDays = int(float64(suggestedDays) * 0.6)
	case ratio <= 0.98:
		suggestedDays = int(float64(suggestedDays) * 0.8)
	case ratio >= 1.02:
		suggestedDays = int(float64(suggestedDays) * 1.3)
	}
	if suggestedDays < 1 {
		suggestedDays = 1
	}

	if currentDOM > 30 {
		currentDays += 10
	}

	days := float64(suggestedDays)
	return LeaseTimeline{
		CurrentTrajectoryDays:   currentDays,
		SuggestedTrajectoryDays: suggestedDays,
		AccelerationFactor:      roundTo(float64(currentDays)/days, 2),
		ProbabilityByWeek: WeeklyProbability{
			Week1: math.Min(0.9, 0.3+14/days),
			Week2: math.Min(0.9, 0.5+21/days),
			Week4: math.Min(0.95, 0.7+28/days),
			Week8: math.Min(0.98, 0.85+28/days),
		},
	}
}

// revenueImpact compares a year at the current rent against a year at the
// suggested rent, counting vacancy at 1.5x the expected lease-up for the
// current price and a flat 15% monthly carrying cost.
func revenueImpact(currentRent, suggestedRent float64, expectedLeaseDays int) RevenueImpact {
	currentTrajectory := int(float64(expectedLeaseDays) * 1.5)

	monthsCurrent := math.Min(float64(currentTrajectory)/30, maxMonthsVacant)
	monthsSuggested := math.Min(float64(expectedLeaseDays)/30, maxMonthsVacant)

	currentRevenue := currentRent * (12 - monthsCurrent)
	suggestedRevenue := suggestedRent * (12 - monthsSuggested)

	carrying := currentRent * carryingCostRatio
	vacancyCurrent := monthsCurrent * (currentRent + carrying)
	vacancySuggested := monthsSuggested * (suggestedRent + carrying)

	totalImpact := suggestedRevenue - currentRevenue
	netBenefit := totalImpact + (vacancyCurrent - vacancySuggested)

	breakEven := 0
	if diff := currentRent - suggestedRent; diff > 0 {
		breakEven = int(math.Floor(diff * 30 / (suggestedRent + carrying)))
	}

	return RevenueImpact{
		CurrentAnnualRevenue:   round(currentRevenue),
		SuggestedAnnualRevenue: round(suggestedRevenue),
		TotalImpact:            round(totalImpact),
		MonthsVacantCurrent:    roundTo(monthsCurrent, 1),
		MonthsVacantSuggested:  roundTo(monthsSuggested, 1),
		BreakEvenDays:          breakEven,
		VacancyCostCurrent:     round(vacancyCurrent),
		VacancyCostSuggested:   round(vacancySuggested),
		NetBenefit:             round(netBenefit),
	}
}

// round rounds half up, so -2.5 becomes -2.
func round(v float64) float64 {
	return math.Floor(v + 0.5)
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return round(v*scale) / scale
}
