// Package renterintel flips pricing data around to the renter's side: how good
// a deal a unit is, how much leverage the renter has and when to act.
package renterintel

import (
	"fmt"
	"math"

	"apartmentiq-workers/internal/common/logger"
	"apartmentiq-workers/internal/pricing"
)

type Engine struct {
	pricing *pricing.Engine
	logger  logger.Logger
}

func NewEngine(pricingEngine *pricing.Engine, log logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if pricingEngine == nil {
		pricingEngine = pricing.NewEngine(log)
	}
	return &Engine{pricing: pricingEngine, logger: log}
}

// Transform builds the renter view of a unit. rec may be nil.
func Transform(data pricing.ApartmentIQData, rec *pricing.Recommendation) DealIntelligence {
	if data.DaysOnMarket < 0 {
		data.DaysOnMarket = 0
	}

	score := DealScore(data, rec)
	level := DealLevelFor(score, data.DaysOnMarket)
	desperation := LandlordDesperation(data)

	return DealIntelligence{
		UnitID:               data.UnitID,
		DealScore:            score,
		DealLevel:            level,
		NegotiationPotential: NegotiationPotential(data),
		LandlordDesperation:  desperation,
		PotentialSavings:     PotentialSavings(data),
		Timing:               TimingAdvice(data, level),
		NegotiationTips:      NegotiationTips(data, desperation),
		MarketPosition:       RenterMarketPosition(data),
		CompetitionLevel:     CompetitionLevel(data.MarketVelocity),
		VacancyWeakness:      VacancyWeakness(data),
	}
}

// DealScore is 0-100, higher meaning a better deal for the renter.
func DealScore(data pricing.ApartmentIQData, rec *pricing.Recommendation) int {
	score := 50

	switch dom := data.DaysOnMarket; {
	case dom >= 45:
		score += 25
	case dom >= 30:
		score += 20
	case dom >= 14:
		score += 15
	case dom >= 7:
		score += 10
	}

	concessionPercent := 0.0
	if data.CurrentRent > 0 {
		concessionPercent = data.ConcessionValue / data.CurrentRent * 100
	}
	switch {
	case concessionPercent >= 10:
		score += 20
	case concessionPercent >= 5:
		score += 15
	case concessionPercent > 0:
		score += 10
	}

	switch data.MarketVelocity {
	case pricing.VelocityStale:
		score += 20
	case pricing.VelocitySlow:
		score += 15
	case pricing.VelocityNormal:
		score += 5
	case pricing.VelocityHot:
		score -= 15
	}

	if rec != nil && rec.AdjustmentPercent < -5 {
		score += 15
	}

	switch data.MarketPosition {
	case pricing.AboveMarket:
		score += 15
	case pricing.AtMarket:
		score += 5
	}

	return clampInt(score, 0, 100)
}

func DealLevelFor(score, daysOnMarket int) DealLevel {
	switch {
	case score >= 80 || daysOnMarket >= 45:
		return GreatDeal
	case score >= 65 || daysOnMarket >= 21:
		return GoodDeal
	case score >= 45:
		return FairDeal
	default:
		return HotMarket
	}
}

func NegotiationPotential(data pricing.ApartmentIQData) Level {
	switch {
	case data.DaysOnMarket >= 30 || data.ConcessionUrgency == pricing.ConcessionDesperate:
		return High
	case data.DaysOnMarket >= 14 || data.ConcessionUrgency == pricing.ConcessionAggressive:
		return Medium
	default:
		return Low
	}
}

func LandlordDesperation(data pricing.ApartmentIQData) Desperation {
	switch {
	case data.DaysOnMarket >= 45 || data.ConcessionUrgency == pricing.ConcessionDesperate:
		return Desperate
	case data.DaysOnMarket >= 21 || data.ConcessionUrgency == pricing.ConcessionAggressive:
		return Motivated
	case data.DaysOnMarket >= 7 || data.ConcessionUrgency == pricing.ConcessionStandard:
		return Standard
	default:
		return Stubborn
	}
}

// PotentialSavings widens the negotiable range as the unit sits longer.
func PotentialSavings(data pricing.ApartmentIQData) Savings {
	rent := finite(data.CurrentRent)

	var lo, hi float64
	switch dom := data.DaysOnMarket; {
	case dom >= 45:
		lo, hi = rent*0.05, rent*0.15
	case dom >= 21:
		lo, hi = rent*0.03, rent*0.10
	case dom >= 7:
		lo, hi = rent*0.01, rent*0.05
	}

	return Savings{
		MonthlyRange:       [2]float64{lo, hi},
		AnnualSavings:      (lo + hi) / 2 * 12,
		OneTimeConcessions: finite(data.ConcessionValue),
	}
}

func TimingAdvice(data pricing.ApartmentIQData, level DealLevel) Timing {
	switch {
	case data.MarketVelocity == pricing.VelocityHot || data.DaysOnMarket < 3:
		return Timing{
			Advice:              AdviceApplyImmediately,
			Reasoning:           "High demand market - units lease quickly",
			OptimalActionWindow: "Within 24 hours",
		}
	case level == GreatDeal && data.DaysOnMarket >= 30:
		return Timing{
			Advice:              AdviceNegotiateNow,
			Reasoning:           "Landlord is motivated after long vacancy",
			OptimalActionWindow: "This week",
		}
	case data.DaysOnMarket < 14 && data.MarketVelocity == pricing.VelocityNormal:
		return Timing{
			Advice:              AdviceWait,
			Reasoning:           "Unit may get more desperate in 1-2 weeks",
			OptimalActionWindow: "7-14 days",
		}
	default:
		return Timing{
			Advice:              AdviceNegotiateNow,
			Reasoning:           "Good balance of leverage and risk",
			OptimalActionWindow: "Within 3-5 days",
		}
	}
}

func NegotiationTips(data pricing.ApartmentIQData, desperation Desperation) []string {
	var tips []string

	if data.DaysOnMarket >= 30 {
		tips = append(tips, fmt.Sprintf("Mention the %d-day vacancy to justify lower rent", data.DaysOnMarket))
	}
	if data.ConcessionValue > 0 {
		tips = append(tips, "Ask to convert concessions to permanent rent reduction")
	}
	if desperation == Desperate {
		tips = append(tips,
			"Be bold - desperate landlords need to fill units",
			"Request multiple concessions (lower rent + waived fees)")
	}
	if data.MarketVelocity == pricing.VelocitySlow || data.MarketVelocity == pricing.VelocityStale {
		tips = append(tips, "Reference slow market conditions in your negotiation")
	}
	if data.MarketPosition == pricing.AboveMarket {
		tips = append(tips, "Point out that rent is above market average")
	}

	if len(tips) == 0 {
		tips = append(tips, "Professional approach - landlord has less pressure")
	}
	return tips
}

func RenterMarketPosition(data pricing.ApartmentIQData) MarketPosition {
	switch {
	case data.DaysOnMarket >= 30 || data.MarketVelocity == pricing.VelocityStale:
		return RenterAdvantage
	case data.MarketVelocity == pricing.VelocityHot || data.DaysOnMarket < 5:
		return LandlordAdvantage
	default:
		return Balanced
	}
}

func CompetitionLevel(v pricing.Velocity) Level {
	switch v {
	case pricing.VelocityHot:
		return High
	case pricing.VelocitySlow, pricing.VelocityStale:
		return Low
	default:
		return Medium
	}
}

// VacancyWeakness scores renter leverage 1-10.
func VacancyWeakness(data pricing.ApartmentIQData) int {
	weakness := 1 + math.Min(float64(data.DaysOnMarket)/7, 5)

	switch data.ConcessionUrgency {
	case pricing.ConcessionDesperate:
		weakness += 3
	case pricing.ConcessionAggressive:
		weakness += 2
	case pricing.ConcessionStandard:
		weakness++
	}

	switch data.MarketVelocity {
	case pricing.VelocityStale:
		weakness += 2
	case pricing.VelocitySlow:
		weakness++
	case pricing.VelocityHot:
		weakness--
	}

	return clampInt(int(math.Floor(weakness+0.5)), 1, 10)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
