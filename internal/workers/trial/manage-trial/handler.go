// internal/workers/trial/manage-trial/handler.go
package managetrial

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"apartmentiq-workers/internal/common/camunda"
	apperrors "apartmentiq-workers/internal/common/errors"
	"apartmentiq-workers/internal/common/logger"
	"apartmentiq-workers/internal/trial"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "manage-trial"
)

var (
	ErrInvalidInput  = errors.New("INVALID_INPUT")
	ErrUnknownAction = errors.New("UNKNOWN_ACTION")
)

type Handler struct {
	config *Config
	store  trial.Store
	now    func() time.Time
	logger logger.Logger
}

func NewHandler(config *Config, store trial.Store, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		store:  store,
		now:    time.Now,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		camunda.FailJob(client, job, apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err)), h.logger)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		camunda.FailJob(client, job, apperrors.NewInvalidInputError(err.Error()), h.logger)
		return
	}

	camunda.CompleteJob(client, job, output, h.logger)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.SessionID == "" {
		return nil, fmt.Errorf("%w: sessionId is required", ErrInvalidInput)
	}
	if input.Action == "" {
		input.Action = ActionStatus
	}

	session := trial.Load(ctx, input.SessionID, trial.Options{
		Duration:   h.config.Duration,
		QueryLimit: h.config.QueryLimit,
		Store:      h.store,
		Logger:     h.logger,
		Now:        h.now,
	})

	output := &Output{SessionID: input.SessionID, Action: input.Action}

	switch input.Action {
	case ActionInitialize:
		if input.Email == "" {
			return nil, fmt.Errorf("%w: email is required to start a trial", ErrInvalidInput)
		}
		session.Initialize(ctx, input.Email)
	case ActionStatus:
	case ActionRecordQuery:
		output.QueryRecorded = session.RecordQuery(ctx)
	case ActionMarkPromptSeen:
		session.MarkUpgradePromptSeen(ctx)
	case ActionTeaser:
		if input.FullIntelligence == nil {
			return nil, fmt.Errorf("%w: fullIntelligence is required for a teaser", ErrInvalidInput)
		}
		teaser := trial.ToTeaser(*input.FullIntelligence)
		output.Teaser = &teaser
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, input.Action)
	}

	status := session.Status()
	output.HasTrial = status != nil
	output.Trial = status
	output.IsExpired = session.IsExpired()
	output.CanMakeQuery = session.CanMakeQuery()
	output.TimeRemaining = session.TimeRemaining()
	output.ShowUpgradePrompt = session.ShouldShowUpgradePrompt()
	if status != nil && !output.IsExpired && status.QueriesUsed < status.QueriesLimit {
		output.QueriesRemaining = status.QueriesLimit - status.QueriesUsed
	}

	h.logger.Info("trial action applied", map[string]interface{}{
		"sessionId":     input.SessionID,
		"action":        input.Action,
		"hasTrial":      output.HasTrial,
		"queryRecorded": output.QueryRecorded,
	})
	return output, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
