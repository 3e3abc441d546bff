package dealscore

// LeaseIntel is the per-property lease rollover record served by the
// lease intelligence backend.
type LeaseIntel struct {
	PropertyID         string  `json:"propertyId"`
	RolloverRiskScore  float64 `json:"rolloverRiskScore"`
	ExpiringNext30Days int     `json:"expiringNext30Days"`
	ExpiringNext90Days int     `json:"expiringNext90Days"`
	AvgCurrentLease    float64 `json:"avgCurrentLease"`
	MarketRate         float64 `json:"marketRate"`
	RenewalRate        float64 `json:"renewalRate"`
	TotalUnits         *int    `json:"totalUnits,omitempty"`
}

type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

type MoveTimingAdvice string

const (
	MoveNow      MoveTimingAdvice = "move_now"
	MoveWait     MoveTimingAdvice = "wait"
	MoveStandard MoveTimingAdvice = "standard"
)

type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

type NegotiationPower struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

type MoveTiming struct {
	Advice  MoveTimingAdvice `json:"advice"`
	Message string           `json:"message"`
}

type IncentiveInfo struct {
	Probability        Level    `json:"probability"`
	PercentChance      int      `json:"percentChance"`
	ExpectedIncentives []string `json:"expectedIncentives"`
}

type UrgencyInfo struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
	Show    bool   `json:"show"`
}

type RentTrend struct {
	Direction TrendDirection `json:"direction"`
	Reason    string         `json:"reason"`
}

// Badges is everything a property card renders from one LeaseIntel record.
type Badges struct {
	PropertyID       string           `json:"propertyId"`
	DealScore        int              `json:"dealScore"`
	BelowMarketGap   float64          `json:"belowMarketGap"`
	NegotiationPower NegotiationPower `json:"negotiationPower"`
	MoveTiming       MoveTiming       `json:"moveTiming"`
	Incentives       IncentiveInfo    `json:"incentives"`
	Urgency          UrgencyInfo      `json:"urgency"`
	RentTrend        RentTrend        `json:"rentTrend"`
}
