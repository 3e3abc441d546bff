// internal/workers/paywall/get-access-status/handler.go
package getaccessstatus

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
	TaskType = "get-access-status"
)

var (
	ErrInvalidInput     = errors.New("INVALID_INPUT")
	ErrStateUnavailable = errors.New("PAYWALL_STATE_UNAVAILABLE")
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
		var stdErr error
		switch {
		case errors.Is(err, ErrStateUnavailable):
			stdErr = apperrors.NewPaywallStateUnavailableError(err)
		default:
			stdErr = apperrors.NewInvalidInputError(err.Error())
		}
		camunda.FailJob(client, job, stdErr, h.logger)
		return
	}

	camunda.CompleteJob(client, job, output, h.logger)
}

// execute is read only: it reports what the gate would decide without
// recording impressions. Unlike the tracking workers it cannot answer from
// defaults, so a store failure fails the job.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.SessionID == "" {
		return nil, fmt.Errorf("%w: sessionId is required", ErrInvalidInput)
	}

	state, err := h.store.Load(ctx, input.SessionID)
	if err != nil && !errors.Is(err, paywall.ErrStateNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrStateUnavailable, err)
	}

	gate := paywall.New(input.SessionID, state, paywall.Options{
		FreeViewLimit: h.config.FreeViewLimit,
		Store:         h.store,
		Logger:        h.logger,
	})
	snapshot := gate.Snapshot()

	properties := make([]PropertyAccess, 0, len(input.PropertyIDs))
	for _, id := range input.PropertyIDs {
		properties = append(properties, PropertyAccess{
			PropertyID:             id,
			Unlocked:               gate.IsPropertyUnlocked(id),
			AIScoreAllowed:         !gate.ShouldShowPaywall(paywall.Trigger{Type: paywall.TriggerAIScore, PropertyID: id}),
			OfferGenerationAllowed: !gate.ShouldShowPaywall(paywall.Trigger{Type: paywall.TriggerOfferGeneration, PropertyID: id}),
		})
	}

	remaining := gate.RemainingViews()
	return &Output{
		SessionID:        input.SessionID,
		HasActivePlan:    snapshot.HasActivePlan(),
		RemainingViews:   remaining,
		ViewLimitReached: remaining == 0 && !snapshot.HasActivePlan(),
		Properties:       properties,
		State:            snapshot,
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
