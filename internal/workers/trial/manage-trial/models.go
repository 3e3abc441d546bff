// internal/workers/trial/manage-trial/models.go
package managetrial

import "apartmentiq-workers/internal/trial"

type Action string

const (
	ActionInitialize     Action = "initialize"
	ActionStatus         Action = "status"
	ActionRecordQuery    Action = "record_query"
	ActionMarkPromptSeen Action = "mark_prompt_seen"
	ActionTeaser         Action = "teaser"
)

type Input struct {
	SessionID        string                  `json:"sessionId"`
	Action           Action                  `json:"action"`
	Email            string                  `json:"email,omitempty"`
	FullIntelligence *trial.FullIntelligence `json:"fullIntelligence,omitempty"`
}

type Output struct {
	SessionID         string              `json:"sessionId"`
	Action            Action              `json:"action"`
	HasTrial          bool                `json:"hasTrial"`
	Trial             *trial.Status       `json:"trial,omitempty"`
	IsExpired         bool                `json:"isExpired"`
	CanMakeQuery      bool                `json:"canMakeQuery"`
	QueriesRemaining  int                 `json:"queriesRemaining"`
	QueryRecorded     bool                `json:"queryRecorded"`
	TimeRemaining     trial.TimeRemaining `json:"timeRemaining"`
	ShowUpgradePrompt bool                `json:"showUpgradePrompt"`
	Teaser            *trial.Teaser       `json:"teaser,omitempty"`
}
