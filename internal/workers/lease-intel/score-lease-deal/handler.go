// internal/workers/lease-intel/score-lease-deal/handler.go
package scoreleasedeal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"apartmentiq-workers/internal/common/camunda"
	apperrors "apartmentiq-workers/internal/common/errors"
	"apartmentiq-workers/internal/common/logger"
	"apartmentiq-workers/internal/dealscore"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "score-lease-deal"
)

var (
	ErrInvalidInput = errors.New("INVALID_INPUT")
)

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
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
	output := &Output{Badges: make([]dealscore.Badges, 0, len(input.LeaseIntel))}

	best := -1
	total := 0
	for i, record := range input.LeaseIntel {
		if record.PropertyID == "" {
			return nil, fmt.Errorf("%w: leaseIntel[%d] has no propertyId", ErrInvalidInput, i)
		}

		badges := dealscore.Evaluate(record)
		output.Badges = append(output.Badges, badges)

		total += badges.DealScore
		if best < 0 || badges.DealScore > output.Badges[best].DealScore {
			best = i
		}
		if badges.RentTrend.Direction == dealscore.TrendDown {
			output.FallingRentCount++
		}
	}

	if best >= 0 {
		output.BestDealPropertyID = output.Badges[best].PropertyID
		avg := float64(total) / float64(len(output.Badges))
		output.AverageDealScore = math.Floor(avg*10+0.5) / 10
	}

	h.logger.Debug("lease deals scored", map[string]interface{}{
		"count":    len(output.Badges),
		"bestDeal": output.BestDealPropertyID,
	})
	return output, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
