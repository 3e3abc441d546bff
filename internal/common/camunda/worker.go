// internal/common/camunda/worker.go
package camunda

import (
	"context"
	stderrors "errors"
	"time"

	"apartmentiq-workers/internal/common/config"
	"apartmentiq-workers/internal/common/errors"
	"apartmentiq-workers/internal/common/logger"
	"apartmentiq-workers/internal/common/metrics"
	"apartmentiq-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.opentelemetry.io/otel/attribute"
)

const sendTimeout = 10 * time.Second

// Open starts a job worker for taskType. It returns nil when the worker is
// disabled in config.
func Open(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler worker.JobHandler, log logger.Logger) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return nil
	}

	w := client.NewJobWorker().
		JobType(taskType).
		Handler(handler).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return w
}

// Instrument wraps a job handler with a trace span and duration metrics.
// obs may be nil.
func Instrument(taskType string, handler worker.JobHandler, obs *observability.Observability) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		ctx, span := observability.StartSpan(context.Background(), taskType,
			attribute.Int64("zeebe.job_key", job.Key),
			attribute.Int64("zeebe.process_instance_key", job.ProcessInstanceKey),
		)
		start := time.Now()
		defer func() {
			elapsed := time.Since(start)
			metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
			obs.RecordJobDuration(ctx, elapsed, taskType)
			obs.RecordJobProcessed(ctx, taskType)
			span.End()
		}()

		handler(client, job)
	}
}

// CompleteJob completes job with output as its variables.
func CompleteJob(client worker.JobClient, job entities.Job, output interface{}, log logger.Logger) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		log.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if _, err := cmd.Send(ctx); err != nil {
		log.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(job.Type).Inc()
}

// FailJob hands err to the shared error handler, which either fails the job
// with retries or throws a BPMN error.
func FailJob(client worker.JobClient, job entities.Job, err error, log logger.Logger) {
	code := "INTERNAL_ERROR"
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) {
		code = string(stdErr.Code)
	}
	metrics.WorkerJobsFailed.WithLabelValues(job.Type, code).Inc()

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	errors.NewErrorHandler(log).HandleJobError(ctx, client, job, err)
}
