// internal/workers/renter/analyze-renter-deals/handler.go
package analyzerenterdeals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"apartmentiq-workers/internal/common/camunda"
	apperrors "apartmentiq-workers/internal/common/errors"
	"apartmentiq-workers/internal/common/logger"
	"apartmentiq-workers/internal/renterintel"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "analyze-renter-deals"
)

var (
	ErrInvalidInput = errors.New("INVALID_INPUT")
)

type Handler struct {
	config *Config
	engine *renterintel.Engine
	logger logger.Logger
}

func NewHandler(config *Config, engine *renterintel.Engine, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		engine: engine,
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

	result := h.engine.Analyze(input.Listings)

	output := &Output{
		Deals:                  result.Deals,
		MarketSummary:          result.Summary,
		RankedPropertyIDs:      renterintel.SortedByDealScore(result.Deals),
		GreatDeals:             renterintel.GreatDeals(result.Deals),
		ImmediateOpportunities: renterintel.ImmediateOpportunities(result.Deals),
		TotalPotentialSavings:  renterintel.TotalPotentialSavings(result.Deals),
		Skipped:                result.Skipped,
	}
	if output.Skipped == nil {
		output.Skipped = []string{}
	}

	h.logger.Info("renter deals analyzed", map[string]interface{}{
		"analyzed":   len(output.Deals),
		"greatDeals": len(output.GreatDeals),
		"bestDeal":   output.MarketSummary.BestDealUnit,
	})
	return output, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
