package trial

import "time"

// Status is the persisted trial record for one session.
type Status struct {
	ID                   string     `json:"id"`
	Email                string     `json:"email"`
	CreatedAt            time.Time  `json:"createdAt"`
	QueriesUsed          int        `json:"queriesUsed"`
	QueriesLimit         int        `json:"queriesLimit"`
	HasSeenUpgradePrompt bool       `json:"hasSeenUpgradePrompt"`
	LastQueryAt          *time.Time `json:"lastQueryAt,omitempty"`
}

type TimeRemaining struct {
	Hours    int  `json:"hours"`
	IsUrgent bool `json:"isUrgent"`
}

type OpportunityLevel string

const (
	OpportunityExceptional OpportunityLevel = "EXCEPTIONAL"
	OpportunityHigh        OpportunityLevel = "HIGH"
	OpportunityModerate    OpportunityLevel = "MODERATE"
	OpportunityLow         OpportunityLevel = "LOW"
)

// FullIntelligence is the subset of a full negotiation report the teaser reads.
type FullIntelligence struct {
	OverallLeverageScore float64 `json:"overallLeverageScore"`
	Recommendation       *struct {
		MonthlySavings float64 `json:"monthlySavings"`
	} `json:"recommendation,omitempty"`
	CombinedInsights []map[string]interface{} `json:"combinedInsights,omitempty"`
	DataStatus       *DataStatus              `json:"dataStatus,omitempty"`
}

type DataStatus struct {
	Timing    string `json:"timing,omitempty"`
	Seasonal  string `json:"seasonal,omitempty"`
	Market    string `json:"market,omitempty"`
	Ownership string `json:"ownership,omitempty"`
}

type SavingsRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type Advantages struct {
	HasTimingAdvantage    bool   `json:"hasTimingAdvantage"`
	HasSeasonalAdvantage  bool   `json:"hasSeasonalAdvantage"`
	MarketCondition       string `json:"marketCondition"`
	HasOwnershipAdvantage bool   `json:"hasOwnershipAdvantage"`
}

type BlurredInsight struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// Teaser is the reduced view of a report shown to trial users.
type Teaser struct {
	LeverageScore    int              `json:"leverageScore"`
	SavingsRange     SavingsRange     `json:"savingsRange"`
	OpportunityLevel OpportunityLevel `json:"opportunityLevel"`
	InsightsCount    int              `json:"insightsCount"`
	Advantages       Advantages       `json:"advantages"`
	BlurredInsights  []BlurredInsight `json:"blurredInsights"`
	PotentialSavings float64          `json:"potentialSavings"`
}
