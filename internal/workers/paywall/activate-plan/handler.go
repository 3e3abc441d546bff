// internal/workers/paywall/activate-plan/handler.go
package activateplan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"apartmentiq-workers/internal/common/camunda"
	apperrors "apartmentiq-workers/internal/common/errors"
	"apartmentiq-workers/internal/common/logger"
	"apartmentiq-workers/internal/paywall"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "activate-plan"
)

var (
	ErrInvalidInput = errors.New("INVALID_INPUT")
)

type Handler struct {
	config *Config
	store  paywall.Store
	logger logger.Logger
}

func NewHandler(config *Config, store paywall.Store, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		store:  store,
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

// execute clears the free-tier counters and then records the plan, so a
// paying session starts from a clean state.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.SessionID == "" {
		return nil, fmt.Errorf("%w: sessionId is required", ErrInvalidInput)
	}
	if input.PlanID == "" {
		return nil, fmt.Errorf("%w: planId is required", ErrInvalidInput)
	}

	gate := paywall.Load(ctx, input.SessionID, paywall.Options{
		Store:  h.store,
		Logger: h.logger,
	})
	gate.ResetPaywallState(ctx)
	gate.ActivatePlan(ctx, input.PlanID)

	h.logger.Info("plan activated", map[string]interface{}{
		"sessionId": input.SessionID,
		"planId":    input.PlanID,
	})

	return &Output{
		SessionID:  input.SessionID,
		ActivePlan: input.PlanID,
		State:      gate.Snapshot(),
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
