// internal/workers/paywall/check-feature-access/handler.go
package checkfeatureaccess

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
	TaskType = "check-feature-access"
)

var (
	ErrInvalidInput   = errors.New("INVALID_INPUT")
	ErrUnknownFeature = errors.New("UNKNOWN_FEATURE")
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

func validate(input *Input) error {
	if input.SessionID == "" {
		return fmt.Errorf("%w: sessionId is required", ErrInvalidInput)
	}
	switch input.Feature {
	case paywall.TriggerAIScore, paywall.TriggerOfferGeneration:
		if input.PropertyID == "" {
			return fmt.Errorf("%w: propertyId is required for %s", ErrInvalidInput, input.Feature)
		}
	case paywall.TriggerAdvancedFeature:
		if input.FeatureName == "" {
			return fmt.Errorf("%w: featureName is required for %s", ErrInvalidInput, input.Feature)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFeature, input.Feature)
	}
	return nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	gate := paywall.Load(ctx, input.SessionID, paywall.Options{
		FreeViewLimit: h.config.FreeViewLimit,
		Store:         h.store,
		Sink:          h.sink,
		Logger:        h.logger,
	})
	defer gate.Wait()

	var allowed bool
	switch input.Feature {
	case paywall.TriggerAIScore:
		allowed = gate.TrackAIScoreAccess(ctx, input.PropertyID)
	case paywall.TriggerOfferGeneration:
		allowed = gate.TrackOfferGeneration(ctx, input.PropertyID)
	case paywall.TriggerAdvancedFeature:
		allowed = gate.TrackAdvancedFeature(ctx, input.FeatureName)
	}

	return &Output{
		SessionID:   input.SessionID,
		Feature:     input.Feature,
		Allowed:     allowed,
		PaywallOpen: gate.IsPaywallOpen(),
		Trigger:     gate.CurrentTrigger(),
		Impressions: gate.Snapshot().PaywallImpressions,
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
