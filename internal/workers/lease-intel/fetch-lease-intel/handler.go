// internal/workers/lease-intel/fetch-lease-intel/handler.go
package fetchleaseintel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"apartmentiq-workers/internal/common/camunda"
	apperrors "apartmentiq-workers/internal/common/errors"
	"apartmentiq-workers/internal/common/logger"
	"apartmentiq-workers/internal/dealscore"
	"apartmentiq-workers/internal/leaseintel"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "fetch-lease-intel"
)

type Handler struct {
	config *Config
	source leaseintel.Source
	logger logger.Logger
}

func NewHandler(config *Config, source leaseintel.Source, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		source: source,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType, "source": source.Name()}),
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

	camunda.CompleteJob(client, job, h.execute(ctx, &input), h.logger)
}

// execute never fails: fetch errors are not retried and are reported in
// the output so the process can render an error state.
func (h *Handler) execute(ctx context.Context, input *Input) *Output {
	output := &Output{
		LeaseIntel: []dealscore.LeaseIntel{},
		Source:     h.source.Name(),
		Requested:  len(input.PropertyIDs),
	}
	if len(input.PropertyIDs) == 0 {
		return output
	}

	records, err := leaseintel.FetchAll(ctx, h.source, input.PropertyIDs, h.config.Concurrency, h.logger)
	if err != nil {
		stdErr := classify(err)
		output.Error = err.Error()
		output.ErrorCode = string(stdErr.Code)
		return output
	}

	output.LeaseIntel = records
	output.Found = len(records)
	return output
}

func classify(err error) *apperrors.StandardError {
	switch {
	case errors.Is(err, leaseintel.ErrInvalidPayload):
		return apperrors.NewInvalidLeaseIntelError(err.Error())
	case errors.Is(err, leaseintel.ErrSearchTimeout), errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewSearchTimeoutError(err.Error())
	default:
		return apperrors.NewLeaseIntelFetchFailedError(err)
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input), nil
}
