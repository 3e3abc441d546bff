package dealscore

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

// ==========================
// Deal score
// ==========================

func TestCalculateDealScore(t *testing.T) {
	tests := []struct {
		name     string
		input    LeaseIntel
		expected int
	}{
		{
			name:     "small gap, low risk, high renewal",
			input:    LeaseIntel{AvgCurrentLease: 2000, MarketRate: 2200, RolloverRiskScore: 10, RenewalRate: 90},
			expected: 54,
		},
		{
			name:     "baseline only",
			input:    LeaseIntel{RolloverRiskScore: 0, RenewalRate: 75},
			expected: 50,
		},
		{
			name:     "medium risk",
			input:    LeaseIntel{RolloverRiskScore: 25, RenewalRate: 75},
			expected: 65,
		},
		{
			name:     "risk exactly 40 is medium",
			input:    LeaseIntel{RolloverRiskScore: 40, RenewalRate: 75},
			expected: 65,
		},
		{
			name:     "high risk and low renewal",
			input:    LeaseIntel{RolloverRiskScore: 41, RenewalRate: 50},
			expected: 85,
		},
		{
			name:     "gap bonus caps at 20 and total caps at 100",
			input:    LeaseIntel{AvgCurrentLease: 1000, MarketRate: 5000, RolloverRiskScore: 90, RenewalRate: 10},
			expected: 100,
		},
		{
			name:     "fractional gap rounds half up",
			input:    LeaseIntel{AvgCurrentLease: 2000, MarketRate: 2025, RenewalRate: 70},
			expected: 51,
		},
		{
			name:     "above market lease adds nothing",
			input:    LeaseIntel{AvgCurrentLease: 2500, MarketRate: 2200, RenewalRate: 70},
			expected: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateDealScore(tt.input))
		})
	}
}

func TestCalculateDealScore_AlwaysInRange(t *testing.T) {
	values := []float64{math.NaN(), math.Inf(1), math.Inf(-1), -500, -1, 0, 1, 20, 20.5, 40, 41, 100, 1e9}
	for _, risk := range values {
		for _, renewal := range values {
			for _, market := range values {
				score := CalculateDealScore(LeaseIntel{
					RolloverRiskScore: risk,
					RenewalRate:       renewal,
					AvgCurrentLease:   1500,
					MarketRate:        market,
				})
				require.GreaterOrEqual(t, score, 0)
				require.LessOrEqual(t, score, 100)
			}
		}
	}
}

// ==========================
// Below market gap
// ==========================

func TestBelowMarketGap(t *testing.T) {
	tests := []struct {
		name     string
		avg      float64
		market   float64
		expected float64
	}{
		{"below market", 2000, 2200, 200},
		{"equal", 2000, 2000, 0},
		{"above market", 2300, 2200, 0},
		{"zero avg", 0, 2200, 0},
		{"zero market", 2000, 0, 0},
		{"nan market", 2000, math.NaN(), 0},
		{"negative avg", -10, 2200, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BelowMarketGap(LeaseIntel{AvgCurrentLease: tt.avg, MarketRate: tt.market}))
		})
	}
}

// ==========================
// Labels
// ==========================

func TestGetNegotiationPower(t *testing.T) {
	high := GetNegotiationPower(LeaseIntel{RolloverRiskScore: 45, ExpiringNext30Days: 6})
	assert.Equal(t, NegotiationPower{Level: LevelHigh, Message: "6 units available soon - landlord motivated to negotiate"}, high)

	medium := GetNegotiationPower(LeaseIntel{RolloverRiskScore: 21})
	assert.Equal(t, LevelMedium, medium.Level)
	assert.Equal(t, "Multiple units turning over - some flexibility expected", medium.Message)

	low := GetNegotiationPower(LeaseIntel{RolloverRiskScore: 20})
	assert.Equal(t, LevelLow, low.Level)
	assert.Equal(t, "Low turnover - limited negotiation leverage", low.Message)
}

func TestGetBestMoveInWindow(t *testing.T) {
	tests := []struct {
		name     string
		in30     int
		in90     int
		expected MoveTimingAdvice
	}{
		{"30-day check wins", 7, 2, MoveNow},
		{"both high still move now", 6, 20, MoveNow},
		{"wave coming", 5, 11, MoveWait},
		{"standard", 5, 10, MoveStandard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetBestMoveInWindow(LeaseIntel{ExpiringNext30Days: tt.in30, ExpiringNext90Days: tt.in90})
			assert.Equal(t, tt.expected, got.Advice)
			assert.NotEmpty(t, got.Message)
		})
	}
}

func TestGetIncentiveProbability(t *testing.T) {
	high := GetIncentiveProbability(LeaseIntel{RolloverRiskScore: 50})
	assert.Equal(t, 85, high.PercentChance)
	assert.Len(t, high.ExpectedIncentives, 4)

	medium := GetIncentiveProbability(LeaseIntel{RolloverRiskScore: 30})
	assert.Equal(t, 55, medium.PercentChance)
	assert.Len(t, medium.ExpectedIncentives, 3)

	low := GetIncentiveProbability(LeaseIntel{RolloverRiskScore: math.NaN()})
	assert.Equal(t, 15, low.PercentChance)
	assert.Equal(t, []string{"Standard lease terms"}, low.ExpectedIncentives)
}

func TestGetUrgencyIndicator(t *testing.T) {
	high := GetUrgencyIndicator(LeaseIntel{ExpiringNext30Days: 2, ExpiringNext90Days: 4})
	assert.Equal(t, LevelHigh, high.Level)
	assert.True(t, high.Show)

	medium := GetUrgencyIndicator(LeaseIntel{ExpiringNext30Days: 4, ExpiringNext90Days: 9})
	assert.Equal(t, LevelMedium, medium.Level)
	assert.True(t, medium.Show)

	low := GetUrgencyIndicator(LeaseIntel{ExpiringNext30Days: 5})
	assert.Equal(t, LevelLow, low.Level)
	assert.False(t, low.Show)
	assert.Empty(t, low.Message)
}

// ==========================
// Rent trend
// ==========================

func TestPredictRentTrend(t *testing.T) {
	tests := []struct {
		name     string
		input    LeaseIntel
		expected TrendDirection
	}{
		{
			name:     "high turnover with low renewal",
			input:    LeaseIntel{RenewalRate: 50, ExpiringNext90Days: 40, TotalUnits: intPtr(100)},
			expected: TrendDown,
		},
		{
			name:     "low renewal but low turnover",
			input:    LeaseIntel{RenewalRate: 50, ExpiringNext90Days: 30, TotalUnits: intPtr(100)},
			expected: TrendStable,
		},
		{
			name:     "missing unit count reads as one unit",
			input:    LeaseIntel{RenewalRate: 50, ExpiringNext90Days: 1},
			expected: TrendDown,
		},
		{
			name:     "zero unit count reads as one unit",
			input:    LeaseIntel{RenewalRate: 50, ExpiringNext90Days: 1, TotalUnits: intPtr(0)},
			expected: TrendDown,
		},
		{
			name:     "high retention",
			input:    LeaseIntel{RenewalRate: 85, ExpiringNext90Days: 1, TotalUnits: intPtr(100)},
			expected: TrendUp,
		},
		{
			name:     "normal",
			input:    LeaseIntel{RenewalRate: 70, ExpiringNext90Days: 80, TotalUnits: intPtr(100)},
			expected: TrendStable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PredictRentTrend(tt.input).Direction)
		})
	}
}

func TestEvaluate(t *testing.T) {
	d := LeaseIntel{
		PropertyID:         "prop-1",
		RolloverRiskScore:  45,
		ExpiringNext30Days: 6,
		ExpiringNext90Days: 12,
		AvgCurrentLease:    2000,
		MarketRate:         2200,
		RenewalRate:        55,
		TotalUnits:         intPtr(20),
	}

	b := Evaluate(d)
	assert.Equal(t, "prop-1", b.PropertyID)
	assert.Equal(t, 89, b.DealScore)
	assert.Equal(t, 200.0, b.BelowMarketGap)
	assert.Equal(t, LevelHigh, b.NegotiationPower.Level)
	assert.Equal(t, MoveNow, b.MoveTiming.Advice)
	assert.Equal(t, TrendDown, b.RentTrend.Direction)
	assert.False(t, b.Urgency.Show)
}
