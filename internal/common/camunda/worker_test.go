package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	"apartmentiq-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() *RetryConfig {
	return &RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestExecuteWithRetry_RetriesTransientErrors(t *testing.T) {
	calls := 0
	err := executeWithRetry(context.Background(), fastRetry(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("rpc error: code = Unavailable desc = connection refused")
		}
		return nil
	}, "topology")

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestExecuteWithRetry_GivesUp(t *testing.T) {
	calls := 0
	err := executeWithRetry(context.Background(), fastRetry(), func(context.Context) error {
		calls++
		return errors.New("context deadline exceeded")
	}, "topology")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBrokerTimeout)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestExecuteWithRetry_PermanentErrorNotRetried(t *testing.T) {
	calls := 0
	err := executeWithRetry(context.Background(), fastRetry(), func(context.Context) error {
		calls++
		return errors.New("rpc error: code = PermissionDenied desc = permission denied")
	}, "deploy")

	assert.ErrorIs(t, err, ErrBrokerRejected)
	assert.Equal(t, 1, calls)
}

func TestExecuteWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rc := &RetryConfig{MaxRetries: 5, BaseDelay: time.Hour, MaxDelay: time.Hour}
	err := executeWithRetry(ctx, rc, func(context.Context) error {
		return errors.New("connection reset by peer")
	}, "topology")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRetryableZeebeError(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"connection refused", true},
		{"Deadline Exceeded", true},
		{"service UNAVAILABLE", true},
		{"write: broken pipe", true},
		{"job not found", false},
		{"invalid argument", false},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableZeebeError(errors.New(tt.msg)))
		})
	}
}

func TestMapZeebeError(t *testing.T) {
	assert.ErrorIs(t, mapZeebeError(errors.New("timeout"), "op", 0), ErrBrokerTimeout)
	assert.ErrorIs(t, mapZeebeError(errors.New("already exists"), "op", 0), ErrBrokerRejected)
	assert.ErrorIs(t, mapZeebeError(errors.New("boom"), "op", 0), ErrBrokerUnavailable)
	assert.NotContains(t, mapZeebeError(errors.New("boom"), "op", 0).Error(), "attempts")
}

func TestInstrument(t *testing.T) {
	const taskType = "instrument-test"
	called := false
	h := Instrument(taskType, func(_ worker.JobClient, job entities.Job) {
		called = true
		assert.Equal(t, int64(42), job.Key)
	}, nil)

	h(nil, entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 42, Type: taskType}})

	assert.True(t, called)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(metrics.WorkerJobDuration), 1)
}
