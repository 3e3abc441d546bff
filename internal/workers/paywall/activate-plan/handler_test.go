// internal/workers/paywall/activate-plan/handler_test.go
package activateplan

import (
	"context"
	"testing"
	"time"

	"apartmentiq-workers/internal/common/logger"
	"apartmentiq-workers/internal/paywall"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestHandler(t *testing.T, store paywall.Store) *Handler {
	return NewHandler(&Config{Timeout: 5 * time.Second}, store, logger.NewTestLogger(t))
}

func TestHandler_Execute_ResetsThenActivates(t *testing.T) {
	ctx := context.Background()
	store := paywall.NewMemoryStore()

	ts := int64(1767225600000)
	label := "property_view_limit"
	require.NoError(t, store.Save(ctx, "s1", paywall.State{
		PropertyViewCount:       7,
		PaywallImpressions:      2,
		LastImpressionTimestamp: &ts,
		HasShownPaywall:         true,
		TriggeredBy:             &label,
		UnlockedPropertyIDs:     []string{"p1"},
	}))

	handler := createTestHandler(t, store)
	output, err := handler.Execute(ctx, &Input{SessionID: "s1", PlanID: "pro_monthly"})
	require.NoError(t, err)

	assert.Equal(t, "pro_monthly", output.ActivePlan)

	want := paywall.DefaultState()
	plan := "pro_monthly"
	want.ActivePlan = &plan
	want.UnlockedPropertyIDs = []string{"p1"}
	assert.Equal(t, want, output.State)

	saved, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, want, saved)
	assert.True(t, saved.HasActivePlan())
}

func TestHandler_Execute_ReplacesPlan(t *testing.T) {
	ctx := context.Background()
	store := paywall.NewMemoryStore()
	handler := createTestHandler(t, store)

	_, err := handler.Execute(ctx, &Input{SessionID: "s1", PlanID: "basic"})
	require.NoError(t, err)
	output, err := handler.Execute(ctx, &Input{SessionID: "s1", PlanID: "pro_annual"})
	require.NoError(t, err)

	require.NotNil(t, output.State.ActivePlan)
	assert.Equal(t, "pro_annual", *output.State.ActivePlan)
}

func TestHandler_Execute_InvalidInput(t *testing.T) {
	handler := createTestHandler(t, paywall.NewMemoryStore())

	tests := []struct {
		name  string
		input *Input
	}{
		{"missing session", &Input{PlanID: "basic"}},
		{"missing plan", &Input{SessionID: "s1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), tt.input)
			assert.Nil(t, output)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
