package renterintel

type DealLevel string

const (
	GreatDeal DealLevel = "great_deal"
	GoodDeal  DealLevel = "good_deal"
	FairDeal  DealLevel = "fair_deal"
	HotMarket DealLevel = "hot_market"
)

type Level string

const (
	High   Level = "high"
	Medium Level = "medium"
	Low    Level = "low"
)

type Desperation string

const (
	Desperate Desperation = "desperate"
	Motivated Desperation = "motivated"
	Standard  Desperation = "standard"
	Stubborn  Desperation = "stubborn"
)

type Advice string

const (
	AdviceWait             Advice = "wait"
	AdviceNegotiateNow     Advice = "negotiate_now"
	AdviceApplyImmediately Advice = "apply_immediately"
)

type MarketPosition string

const (
	RenterAdvantage   MarketPosition = "renter_advantage"
	Balanced          MarketPosition = "balanced"
	LandlordAdvantage MarketPosition = "landlord_advantage"
)

type MarketTrend string

const (
	TrendRenterFriendly MarketTrend = "renter_friendly"
	TrendBalanced       MarketTrend = "balanced"
	TrendCompetitive    MarketTrend = "competitive"
)

// Savings is what a renter could plausibly negotiate off the asking rent.
type Savings struct {
	MonthlyRange       [2]float64 `json:"monthlyRange"`
	AnnualSavings      float64    `json:"annualSavings"`
	OneTimeConcessions float64    `json:"oneTimeConcessions"`
}

type Timing struct {
	Advice              Advice `json:"advice"`
	Reasoning           string `json:"reasoning"`
	OptimalActionWindow string `json:"optimalActionWindow"`
}

// DealIntelligence is the renter-facing view of one unit.
type DealIntelligence struct {
	UnitID               string         `json:"unitId"`
	DealScore            int            `json:"dealScore"`
	DealLevel            DealLevel      `json:"dealLevel"`
	NegotiationPotential Level          `json:"negotiationPotential"`
	LandlordDesperation  Desperation    `json:"landlordDesperation"`
	PotentialSavings     Savings        `json:"potentialSavings"`
	Timing               Timing         `json:"timing"`
	NegotiationTips      []string       `json:"negotiationTips"`
	MarketPosition       MarketPosition `json:"marketPosition"`
	CompetitionLevel     Level          `json:"competitionLevel"`
	VacancyWeakness      int            `json:"vacancyWeakness"`
}

type DealDistribution struct {
	GreatDeal int `json:"great_deal"`
	GoodDeal  int `json:"good_deal"`
	FairDeal  int `json:"fair_deal"`
	HotMarket int `json:"hot_market"`
}

func (d *DealDistribution) add(level DealLevel) {
	switch level {
	case GreatDeal:
		d.GreatDeal++
	case GoodDeal:
		d.GoodDeal++
	case FairDeal:
		d.FairDeal++
	case HotMarket:
		d.HotMarket++
	}
}

type MarketSummary struct {
	TotalUnits       int              `json:"totalUnits"`
	GreatDeals       int              `json:"greatDeals"`
	NegotiableUnits  int              `json:"negotiableUnits"`
	AverageSavings   float64          `json:"averageSavings"`
	BestDealUnit     string           `json:"bestDealUnit"`
	MarketTrend      MarketTrend      `json:"marketTrend"`
	DealDistribution DealDistribution `json:"dealDistribution"`
}
