// internal/common/errors/handler.go
package errors

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	baseRetryBackoff = time.Second
	maxRetryBackoff  = 30 * time.Second
)

// ErrorHandler reports a failed job to the broker. Retryable errors fail the
// job with one retry fewer; everything else is thrown as a BPMN error so the
// process can route it.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := Normalize(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	if bpmnErr.Retries > 0 && job.Retries > 0 {
		remaining := RemainingRetries(job.Retries, bpmnErr.Retries)
		h.logError(job, stdErr, bpmnErr, remaining)
		h.fail(ctx, client, job, bpmnErr, remaining)
		return
	}

	h.logError(job, stdErr, bpmnErr, 0)
	h.throw(ctx, client, job, bpmnErr)
}

// Normalize returns err as a StandardError, wrapping unknown errors as
// non-retryable INTERNAL_ERROR.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// RemainingRetries is the retry count to report after one failed attempt:
// one fewer than the broker has left, never more than budget, never negative.
// Reporting 0 makes the broker raise an incident.
func RemainingRetries(jobRetries int32, budget int) int32 {
	left := jobRetries - 1
	if b := int32(budget); b < left {
		left = b
	}
	if left < 0 {
		left = 0
	}
	return left
}

// RetryBackoff doubles per attempt already spent out of budget, capped at
// maxRetryBackoff.
func RetryBackoff(remaining int32, budget int) time.Duration {
	spent := budget - int(remaining)
	if spent < 1 {
		spent = 1
	}
	d := baseRetryBackoff << (spent - 1)
	if d <= 0 || d > maxRetryBackoff {
		return maxRetryBackoff
	}
	return d
}

func (h *ErrorHandler) fail(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError, remaining int32) {
	cmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(remaining).
		RetryBackoff(RetryBackoff(remaining, bpmnErr.Retries)).
		ErrorMessage(bpmnErr.Message)

	dispatch, err := cmd.VariablesFromMap(bpmnErr.ToErrorVariables())
	if err != nil {
		_, err = cmd.Send(ctx)
	} else {
		_, err = dispatch.Send(ctx)
	}
	if err != nil {
		h.logger.Error("failed to send fail job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
	}
}

func (h *ErrorHandler) throw(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	dispatch, err := cmd.VariablesFromMap(bpmnErr.ToErrorVariables())
	if err != nil {
		_, err = cmd.Send(ctx)
	} else {
		_, err = dispatch.Send(ctx)
	}
	if err != nil {
		h.logger.Error("failed to send throw error command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
	}
}

func (h *ErrorHandler) logError(job entities.Job, stdErr *StandardError, bpmnErr *BPMNError, remaining int32) {
	h.logger.Error("Job failed", map[string]interface{}{
		"jobKey":           job.Key,
		"jobType":          job.Type,
		"errorCode":        string(stdErr.Code),
		"bpmnErrorCode":    bpmnErr.Code,
		"message":          bpmnErr.Message,
		"details":          stdErr.Details,
		"retryable":        stdErr.Retryable,
		"retriesRemaining": remaining,
		"errorCategory":    GetErrorCategory(stdErr.Code),
		"workflowInstance": job.ProcessInstanceKey,
	})
}
