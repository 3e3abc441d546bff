// internal/workers/paywall/track-property-view/handler.go
package trackpropertyview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"apartmentiq-workers/internal/analytics"
	"apartmentiq-workers/internal/common/camunda"
	apperrors "apartmentiq-workers/internal/common/errors"
	"apartmentiq-workers/internal/common/logger"
	"apartmentiq-workers/internal/paywall"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "track-property-view"
)

var (
	ErrInvalidInput = errors.New("INVALID_INPUT")
)

type Handler struct {
	config *Config
	store  paywall.Store
	sink   analytics.Sink
	logger logger.Logger
}

func NewHandler(config *Config, store paywall.Store, sink analytics.Sink, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		store:  store,
		sink:   sink,
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
	if input.PropertyID == "" {
		return nil, fmt.Errorf("%w: propertyId is required", ErrInvalidInput)
	}

	gate := paywall.Load(ctx, input.SessionID, paywall.Options{
		FreeViewLimit: h.config.FreeViewLimit,
		Store:         h.store,
		Sink:          h.sink,
		Logger:        h.logger,
	})
	defer gate.Wait()

	gate.TrackPropertyView(ctx, input.PropertyID)

	state := gate.Snapshot()
	return &Output{
		SessionID:         input.SessionID,
		PropertyID:        input.PropertyID,
		PropertyViewCount: state.PropertyViewCount,
		RemainingViews:    gate.RemainingViews(),
		IsUnlocked:        gate.IsPropertyUnlocked(input.PropertyID),
		PaywallOpen:       gate.IsPaywallOpen(),
		Trigger:           gate.CurrentTrigger(),
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
