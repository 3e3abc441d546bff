// Package dealscore turns lease rollover data into renter-facing deal badges.
// Every function is pure and tolerates malformed input: non-finite or negative
// numbers are read as zero so outputs stay finite and in range.
package dealscore

import (
	"fmt"
	"math"
)

const (
	baselineScore      = 50.0
	highRiskBonus      = 25.0
	mediumRiskBonus    = 15.0
	lowRenewalBonus    = 10.0
	gapDollarsPerPoint = 50.0
	maxGapBonus        = 20.0
)

// Sanitize returns a copy of d with every numeric field finite and non-negative.
func Sanitize(d LeaseIntel) LeaseIntel {
	d.RolloverRiskScore = finite(d.RolloverRiskScore)
	d.AvgCurrentLease = finite(d.AvgCurrentLease)
	d.MarketRate = finite(d.MarketRate)
	d.RenewalRate = finite(d.RenewalRate)
	if d.ExpiringNext30Days < 0 {
		d.ExpiringNext30Days = 0
	}
	if d.ExpiringNext90Days < 0 {
		d.ExpiringNext90Days = 0
	}
	if d.TotalUnits != nil && *d.TotalUnits < 0 {
		zero := 0
		d.TotalUnits = &zero
	}
	return d
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// CalculateDealScore = clamp(round(50 + riskBonus + min(gap/50, 20) + renewalBonus), 0, 100).
func CalculateDealScore(d LeaseIntel) int {
	d = Sanitize(d)

	score := baselineScore
	switch {
	case d.RolloverRiskScore > 40:
		score += highRiskBonus
	case d.RolloverRiskScore > 20:
		score += mediumRiskBonus
	}

	if gap := BelowMarketGap(d); gap > 0 {
		score += math.Min(gap/gapDollarsPerPoint, maxGapBonus)
	}

	if d.RenewalRate < 60 {
		score += lowRenewalBonus
	}

	rounded := int(math.Floor(score + 0.5))
	if rounded > 100 {
		return 100
	}
	if rounded < 0 {
		return 0
	}
	return rounded
}

// BelowMarketGap is how far the average in-place lease sits under market.
// It is zero when either side is missing or the lease is at or above market.
func BelowMarketGap(d LeaseIntel) float64 {
	avg, market := finite(d.AvgCurrentLease), finite(d.MarketRate)
	if avg == 0 || market == 0 {
		return 0
	}
	return math.Max(0, market-avg)
}

func GetNegotiationPower(d LeaseIntel) NegotiationPower {
	d = Sanitize(d)
	switch {
	case d.RolloverRiskScore > 40:
		return NegotiationPower{
			Level:   LevelHigh,
			Message: fmt.Sprintf("%d units available soon - landlord motivated to negotiate", d.ExpiringNext30Days),
		}
	case d.RolloverRiskScore > 20:
		return NegotiationPower{
			Level:   LevelMedium,
			Message: "Multiple units turning over - some flexibility expected",
		}
	default:
		return NegotiationPower{
			Level:   LevelLow,
			Message: "Low turnover - limited negotiation leverage",
		}
	}
}

// GetBestMoveInWindow checks the 30-day window before the 90-day one.
func GetBestMoveInWindow(d LeaseIntel) MoveTiming {
	d = Sanitize(d)
	if d.ExpiringNext30Days > 5 {
		return MoveTiming{Advice: MoveNow, Message: "Multiple units available, landlord eager to fill"}
	}
	if d.ExpiringNext90Days > 10 {
		return MoveTiming{Advice: MoveWait, Message: "Big wave of availability coming, prices may drop"}
	}
	return MoveTiming{Advice: MoveStandard, Message: "Normal availability - standard timing"}
}

func GetIncentiveProbability(d LeaseIntel) IncentiveInfo {
	d = Sanitize(d)
	switch {
	case d.RolloverRiskScore > 40:
		return IncentiveInfo{
			Probability:   LevelHigh,
			PercentChance: 85,
			ExpectedIncentives: []string{
				"1-2 months free rent",
				"Waived application/admin fees",
				"Reduced security deposit",
				"Free parking for 6 months",
			},
		}
	case d.RolloverRiskScore > 20:
		return IncentiveInfo{
			Probability:   LevelMedium,
			PercentChance: 55,
			ExpectedIncentives: []string{
				"1 month free rent",
				"Waived admin fees",
				"50% off first month",
			},
		}
	default:
		return IncentiveInfo{
			Probability:        LevelLow,
			PercentChance:      15,
			ExpectedIncentives: []string{"Standard lease terms"},
		}
	}
}

// GetUrgencyIndicator flags scarce availability. The low level is not shown.
func GetUrgencyIndicator(d LeaseIntel) UrgencyInfo {
	d = Sanitize(d)
	if d.ExpiringNext30Days < 3 && d.ExpiringNext90Days < 5 {
		return UrgencyInfo{Level: LevelHigh, Message: "Limited units available. Competition is high.", Show: true}
	}
	if d.ExpiringNext30Days < 5 {
		return UrgencyInfo{Level: LevelMedium, Message: "Moderate availability - don't wait too long.", Show: true}
	}
	return UrgencyInfo{Level: LevelLow}
}

// Evaluate computes every badge for one record.
func Evaluate(d LeaseIntel) Badges {
	return Badges{
		PropertyID:       d.PropertyID,
		DealScore:        CalculateDealScore(d),
		BelowMarketGap:   BelowMarketGap(d),
		NegotiationPower: GetNegotiationPower(d),
		MoveTiming:       GetBestMoveInWindow(d),
		Incentives:       GetIncentiveProbability(d),
		Urgency:          GetUrgencyIndicator(d),
		RentTrend:        PredictRentTrend(d),
	}
}
