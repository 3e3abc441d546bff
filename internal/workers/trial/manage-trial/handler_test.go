// internal/workers/trial/manage-trial/handler_test.go
package managetrial

import (
	"context"
	"testing"
	"time"

	"apartmentiq-workers/internal/common/logger"
	"apartmentiq-workers/internal/trial"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func createTestHandler(t *testing.T, store trial.Store, c *clock) *Handler {
	h := NewHandler(&Config{Timeout: time.Second, Duration: 72 * time.Hour, QueryLimit: 3}, store, logger.NewTestLogger(t))
	h.now = c.Now
	return h
}

func newRedisStore(t *testing.T) (*trial.RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return trial.NewRedisStore(client, trial.StorageKey, time.Hour), mr
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_TrialLifecycle(t *testing.T) {
	store, mr := newRedisStore(t)
	c := &clock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	handler := createTestHandler(t, store, c)
	ctx := context.Background()

	out, err := handler.Execute(ctx, &Input{SessionID: "s1", Action: ActionInitialize, Email: "renter@example.com"})
	require.NoError(t, err)
	require.True(t, out.HasTrial)
	assert.Equal(t, "renter@example.com", out.Trial.Email)
	assert.True(t, out.CanMakeQuery)
	assert.Equal(t, 3, out.QueriesRemaining)
	assert.Equal(t, trial.TimeRemaining{Hours: 72, IsUrgent: false}, out.TimeRemaining)
	assert.False(t, out.ShowUpgradePrompt)
	assert.True(t, mr.Exists(trial.StorageKey+":s1"))

	for i := 0; i < 3; i++ {
		out, err = handler.Execute(ctx, &Input{SessionID: "s1", Action: ActionRecordQuery})
		require.NoError(t, err)
		assert.True(t, out.QueryRecorded)
	}
	assert.Equal(t, 3, out.Trial.QueriesUsed)
	assert.False(t, out.CanMakeQuery)
	assert.Zero(t, out.QueriesRemaining)
	assert.True(t, out.ShowUpgradePrompt)

	out, err = handler.Execute(ctx, &Input{SessionID: "s1", Action: ActionRecordQuery})
	require.NoError(t, err)
	assert.False(t, out.QueryRecorded)
	assert.Equal(t, 3, out.Trial.QueriesUsed)

	out, err = handler.Execute(ctx, &Input{SessionID: "s1", Action: ActionMarkPromptSeen})
	require.NoError(t, err)
	assert.True(t, out.Trial.HasSeenUpgradePrompt)
}

func TestHandler_Execute_Expiry(t *testing.T) {
	c := &clock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	handler := createTestHandler(t, trial.NewMemoryStore(), c)
	ctx := context.Background()

	_, err := handler.Execute(ctx, &Input{SessionID: "s1", Action: ActionInitialize, Email: "a@b.c"})
	require.NoError(t, err)

	c.now = c.now.Add(60 * time.Hour)
	out, err := handler.Execute(ctx, &Input{SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, ActionStatus, out.Action)
	assert.Equal(t, trial.TimeRemaining{Hours: 12, IsUrgent: true}, out.TimeRemaining)
	assert.True(t, out.ShowUpgradePrompt)

	c.now = c.now.Add(12 * time.Hour)
	out, err = handler.Execute(ctx, &Input{SessionID: "s1", Action: ActionRecordQuery})
	require.NoError(t, err)
	assert.True(t, out.IsExpired)
	assert.False(t, out.QueryRecorded)
	assert.False(t, out.CanMakeQuery)
	assert.Zero(t, out.TimeRemaining.Hours)
}

func TestHandler_Execute_NoTrial(t *testing.T) {
	handler := createTestHandler(t, trial.NewMemoryStore(), &clock{now: time.Now()})

	out, err := handler.Execute(context.Background(), &Input{SessionID: "fresh", Action: ActionRecordQuery})
	require.NoError(t, err)
	assert.False(t, out.HasTrial)
	assert.Nil(t, out.Trial)
	assert.False(t, out.QueryRecorded)
	assert.False(t, out.ShowUpgradePrompt)
}

func TestHandler_Execute_Teaser(t *testing.T) {
	handler := createTestHandler(t, trial.NewMemoryStore(), &clock{now: time.Now()})

	out, err := handler.Execute(context.Background(), &Input{
		SessionID:        "s1",
		Action:           ActionTeaser,
		FullIntelligence: &trial.FullIntelligence{OverallLeverageScore: 72},
	})
	require.NoError(t, err)
	require.NotNil(t, out.Teaser)
	assert.Equal(t, 70, out.Teaser.LeverageScore)
	assert.Equal(t, trial.OpportunityHigh, out.Teaser.OpportunityLevel)
	assert.Equal(t, trial.SavingsRange{Min: 180, Max: 420}, out.Teaser.SavingsRange)
}

// ==========================
// Validation Tests
// ==========================

func TestHandler_Execute_InvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		input     *Input
		expectErr error
	}{
		{name: "missing session", input: &Input{Action: ActionStatus}, expectErr: ErrInvalidInput},
		{name: "initialize without email", input: &Input{SessionID: "s", Action: ActionInitialize}, expectErr: ErrInvalidInput},
		{name: "teaser without report", input: &Input{SessionID: "s", Action: ActionTeaser}, expectErr: ErrInvalidInput},
		{name: "unknown action", input: &Input{SessionID: "s", Action: "upgrade"}, expectErr: ErrUnknownAction},
	}

	handler := createTestHandler(t, trial.NewMemoryStore(), &clock{now: time.Now()})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := handler.Execute(context.Background(), tt.input)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, tt.expectErr)
		})
	}
}
