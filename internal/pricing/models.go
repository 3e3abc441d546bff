package pricing

type Velocity string

const (
	VelocityHot    Velocity = "hot"
	VelocityNormal Velocity = "normal"
	VelocitySlow   Velocity = "slow"
	VelocityStale  Velocity = "stale"
)

type ConcessionUrgency string

const (
	ConcessionNone       ConcessionUrgency = "none"
	ConcessionStandard   ConcessionUrgency = "standard"
	ConcessionAggressive ConcessionUrgency = "aggressive"
	ConcessionDesperate  ConcessionUrgency = "desperate"
)

type MarketPosition string

const (
	BelowMarket MarketPosition = "below_market"
	AtMarket    MarketPosition = "at_market"
	AboveMarket MarketPosition = "above_market"
)

type RentTrend string

const (
	RentIncreasing RentTrend = "increasing"
	RentStable     RentTrend = "stable"
	RentDecreasing RentTrend = "decreasing"
)

type Urgency string

const (
	UrgencyImmediate Urgency = "immediate"
	UrgencySoon      Urgency = "soon"
	UrgencyModerate  Urgency = "moderate"
	UrgencyLow       Urgency = "low"
)

type Strategy string

const (
	StrategyAggressiveReduction Strategy = "aggressive_reduction"
	StrategyModerateReduction   Strategy = "moderate_reduction"
	StrategyHold                Strategy = "hold"
	StrategyIncrease            Strategy = "increase"
)

type MarketTiming string

const (
	TimingOptimal MarketTiming = "optimal"
	TimingGood    MarketTiming = "good"
	TimingFair    MarketTiming = "fair"
	TimingPoor    MarketTiming = "poor"
)

// ApartmentIQData is the scraped and enriched record for one rental unit.
type ApartmentIQData struct {
	UnitID       string `json:"unitId"`
	PropertyName string `json:"propertyName"`
	UnitNumber   string `json:"unitNumber"`
	Address      string `json:"address"`
	ZipCode      string `json:"zipCode"`

	CurrentRent   float64 `json:"currentRent"`
	OriginalRent  float64 `json:"originalRent"`
	EffectiveRent float64 `json:"effectiveRent"`
	RentPerSqft   float64 `json:"rentPerSqft"`

	Bedrooms  int     `json:"bedrooms"`
	Bathrooms float64 `json:"bathrooms"`
	Sqft      int     `json:"sqft"`
	Floor     int     `json:"floor"`
	FloorPlan string  `json:"floorPlan"`

	DaysOnMarket   int      `json:"daysOnMarket"`
	FirstSeen      string   `json:"firstSeen"`
	MarketVelocity Velocity `json:"marketVelocity"`

	ConcessionValue   float64           `json:"concessionValue"`
	ConcessionType    string            `json:"concessionType"`
	ConcessionUrgency ConcessionUrgency `json:"concessionUrgency"`

	RentTrend         RentTrend `json:"rentTrend"`
	RentChangePercent float64   `json:"rentChangePercent"`
	ConcessionTrend   string    `json:"concessionTrend"`

	MarketPosition MarketPosition `json:"marketPosition"`
	PercentileRank int            `json:"percentileRank"`

	AmenityScore    float64 `json:"amenityScore"`
	LocationScore   float64 `json:"locationScore"`
	ManagementScore float64 `json:"managementScore"`

	LeaseProbability     float64 `json:"leaseProbability"`
	NegotiationPotential float64 `json:"negotiationPotential"`
	UrgencyScore         float64 `json:"urgencyScore"`

	PricingRecommendation *Recommendation `json:"pricingRecommendation,omitempty"`

	DataFreshness   string  `json:"dataFreshness"`
	ConfidenceScore float64 `json:"confidenceScore"`
}

// MarketContext is optional comparable-market data that raises confidence.
type MarketContext struct {
	MarketStats     map[string]interface{}   `json:"marketStats,omitempty"`
	ComparableUnits []map[string]interface{} `json:"comparableUnits,omitempty"`
}

type RevenueImpact struct {
	CurrentAnnualRevenue   float64 `json:"currentAnnualRevenue"`
	SuggestedAnnualRevenue float64 `json:"suggestedAnnualRevenue"`
	TotalImpact            float64 `json:"totalImpact"`
	MonthsVacantCurrent    float64 `json:"monthsVacantCurrent"`
	MonthsVacantSuggested  float64 `json:"monthsVacantSuggested"`
	BreakEvenDays          int     `json:"breakEvenDays"`
	VacancyCostCurrent     float64 `json:"vacancyCostCurrent"`
	VacancyCostSuggested   float64 `json:"vacancyCostSuggested"`
	NetBenefit             float64 `json:"netBenefit"`
}

type WeeklyProbability struct {
	Week1 float64 `json:"week1"`
	Week2 float64 `json:"week2"`
	Week4 float64 `json:"week4"`
	Week8 float64 `json:"week8"`
}

type LeaseTimeline struct {
	CurrentTrajectoryDays   int               `json:"currentTrajectoryDays"`
	SuggestedTrajectoryDays int               `json:"suggestedTrajectoryDays"`
	AccelerationFactor      float64           `json:"accelerationFactor"`
	ProbabilityByWeek       WeeklyProbability `json:"probabilityByWeek"`
}

type Recommendation struct {
	UnitID            string        `json:"unitId"`
	CurrentRent       float64       `json:"currentRent"`
	SuggestedRent     float64       `json:"suggestedRent"`
	AdjustmentAmount  float64       `json:"adjustmentAmount"`
	AdjustmentPercent float64       `json:"adjustmentPercent"`
	ConfidenceScore   float64       `json:"confidenceScore"`
	UrgencyLevel      Urgency       `json:"urgencyLevel"`
	Strategy          Strategy      `json:"strategy"`
	Reasoning         []string      `json:"reasoning"`
	ExpectedLeaseDays int           `json:"expectedLeaseDays"`
	RevenueImpact     RevenueImpact `json:"revenueImpact"`
	MarketTiming      MarketTiming  `json:"marketTiming"`
	LeaseTimeline     LeaseTimeline `json:"leaseTimeline"`
}

type RecommendedActions struct {
	Immediate []string `json:"immediate"`
	Soon      []string `json:"soon"`
	Moderate  []string `json:"moderate"`
}

type PortfolioSummary struct {
	TotalUnits             int                `json:"totalUnits"`
	TotalCurrentRevenue    float64            `json:"totalCurrentRevenue"`
	TotalSuggestedRevenue  float64            `json:"totalSuggestedRevenue"`
	TotalImpact            float64            `json:"totalImpact"`
	TotalVacancySavings    float64            `json:"totalVacancySavings"`
	TotalNetBenefit        float64            `json:"totalNetBenefit"`
	AverageConfidenceScore float64            `json:"averageConfidenceScore"`
	StrategyDistribution   map[Strategy]int   `json:"strategyDistribution"`
	UrgencyDistribution    map[Urgency]int    `json:"urgencyDistribution"`
	RecommendedActions     RecommendedActions `json:"recommendedActions"`
}
