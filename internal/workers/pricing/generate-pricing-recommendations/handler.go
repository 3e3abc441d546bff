// internal/workers/pricing/generate-pricing-recommendations/handler.go
package generatepricingrecommendations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"apartmentiq-workers/internal/common/camunda"
	apperrors "apartmentiq-workers/internal/common/errors"
	"apartmentiq-workers/internal/common/logger"
	"apartmentiq-workers/internal/pricing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "generate-pricing-recommendations"
)

var (
	ErrInvalidInput = errors.New("INVALID_INPUT")
)

type Handler struct {
	config *Config
	engine *pricing.Engine
	now    func() time.Time
	logger logger.Logger
}

func NewHandler(config *Config, engine *pricing.Engine, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		engine: engine,
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

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if h.config.MaxListings > 0 && len(input.Listings) > h.config.MaxListings {
		return nil, fmt.Errorf("%w: %d listings exceeds the limit of %d", ErrInvalidInput, len(input.Listings), h.config.MaxListings)
	}
	for i, l := range input.Listings {
		if l.ID == "" {
			return nil, fmt.Errorf("%w: listings[%d] has no id", ErrInvalidInput, i)
		}
	}

	result := h.engine.GenerateAll(input.Listings, input.MarketContext, h.now())

	output := &Output{
		Recommendations:   result.Recommendations,
		PortfolioSummary:  result.Summary,
		Insights:          result.Insights,
		UrgentPropertyIDs: pricing.UrgentProperties(result.Recommendations),
		Skipped:           result.Skipped,
	}
	if output.Recommendations == nil {
		output.Recommendations = map[string]pricing.Recommendation{}
	}
	if output.Insights == nil {
		output.Insights = []string{}
	}
	if output.Skipped == nil {
		output.Skipped = []string{}
	}

	h.logger.Info("pricing recommendations generated", map[string]interface{}{
		"listings": len(input.Listings),
		"priced":   len(output.Recommendations),
		"skipped":  len(output.Skipped),
		"urgent":   len(output.UrgentPropertyIDs),
	})
	return output, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
