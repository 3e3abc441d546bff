package paywall

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"apartmentiq-workers/internal/analytics"
	"apartmentiq-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// ==========================
// Test Helpers
// ==========================

type recordingSink struct {
	mu     sync.Mutex
	events []analytics.Event
	err    error
}

func (s *recordingSink) Track(_ context.Context, e analytics.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}

func (s *recordingSink) Events() []analytics.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]analytics.Event(nil), s.events...)
}

type failingStore struct {
	loadErr error
	saveErr error
	saves   int
}

func (f *failingStore) Load(context.Context, string) (State, error) {
	return DefaultState(), f.loadErr
}

func (f *failingStore) Save(context.Context, string, State) error {
	f.saves++
	return f.saveErr
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestGate(t *testing.T, store Store, sink analytics.Sink, opened *[]Trigger) *Gate {
	t.Helper()
	opts := Options{
		FreeViewLimit: DefaultFreePropertyViewLimit,
		Store:         store,
		Sink:          sink,
		Logger:        logger.NewTestLogger(t),
		Now:           func() time.Time { return fixedNow },
	}
	if opened != nil {
		opts.OnOpen = func(tr Trigger) { *opened = append(*opened, tr) }
	}
	g := Load(context.Background(), "session-1", opts)
	t.Cleanup(g.Wait)
	return g
}

// ==========================
// Property views
// ==========================

func TestGate_TrackPropertyView_OpensAtLimit(t *testing.T) {
	ctx := context.Background()
	var opened []Trigger
	g := newTestGate(t, NewMemoryStore(), nil, &opened)

	g.TrackPropertyView(ctx, "p1")
	g.TrackPropertyView(ctx, "p2")
	assert.Equal(t, 1, g.RemainingViews())

	g.TrackPropertyView(ctx, "p3")
	assert.False(t, g.IsPaywallOpen(), "all free views are usable")
	assert.Equal(t, 0, g.RemainingViews())
	assert.Empty(t, opened)

	g.TrackPropertyView(ctx, "p4")
	assert.True(t, g.IsPaywallOpen())
	assert.Equal(t, 0, g.RemainingViews())
	require.Len(t, opened, 1)
	assert.Equal(t, Trigger{Type: TriggerPropertyView, PropertyID: "p4"}, opened[0])

	st := g.Snapshot()
	assert.Equal(t, 4, st.PropertyViewCount)
	assert.Equal(t, 1, st.PaywallImpressions)
	assert.True(t, st.HasShownPaywall)
	require.NotNil(t, st.TriggeredBy)
	assert.Equal(t, "property_view_limit", *st.TriggeredBy)
	require.NotNil(t, st.LastImpressionTimestamp)
	assert.Equal(t, fixedNow.UnixMilli(), *st.LastImpressionTimestamp)
}

func TestGate_TrackPropertyView_UnlockedPropertyNeverOpens(t *testing.T) {
	ctx := context.Background()
	g := newTestGate(t, NewMemoryStore(), nil, nil)
	g.UnlockProperty(ctx, "p1")

	for i := 0; i < 10; i++ {
		g.TrackPropertyView(ctx, "p1")
	}

	assert.False(t, g.IsPaywallOpen())
	assert.Equal(t, 10, g.Snapshot().PropertyViewCount)
	assert.Equal(t, 0, g.Snapshot().PaywallImpressions)
}

func TestGate_TrackPropertyView_ActivePlanNeverOpens(t *testing.T) {
	ctx := context.Background()
	g := newTestGate(t, NewMemoryStore(), nil, nil)
	g.ActivatePlan(ctx, "pro_monthly")

	for i := 0; i < 5; i++ {
		g.TrackPropertyView(ctx, "p")
	}
	assert.False(t, g.IsPaywallOpen())
}

func TestGate_TrackPropertyView_DisabledLimit(t *testing.T) {
	ctx := context.Background()
	g := New("s", DefaultState(), Options{FreeViewLimit: -1, Logger: logger.NewTestLogger(t)})
	t.Cleanup(g.Wait)

	for i := 0; i < 50; i++ {
		g.TrackPropertyView(ctx, "p")
	}
	assert.False(t, g.IsPaywallOpen())
	assert.Equal(t, -1, g.RemainingViews())
	assert.Equal(t, 50, g.Snapshot().PropertyViewCount)
}

// ==========================
// Gate-or-allow checks
// ==========================

func TestGate_FeatureChecks(t *testing.T) {
	tests := []struct {
		name          string
		setup         func(g *Gate)
		call          func(g *Gate) bool
		expectAllowed bool
		expectLabel   string
	}{
		{
			name:          "ai score blocked for free session",
			call:          func(g *Gate) bool { return g.TrackAIScoreAccess(context.Background(), "p1") },
			expectAllowed: false,
			expectLabel:   "ai_score_access",
		},
		{
			name:          "offer generation blocked for free session",
			call:          func(g *Gate) bool { return g.TrackOfferGeneration(context.Background(), "p1") },
			expectAllowed: false,
			expectLabel:   "offer_generation",
		},
		{
			name:          "advanced feature blocked for free session",
			call:          func(g *Gate) bool { return g.TrackAdvancedFeature(context.Background(), "market_report") },
			expectAllowed: false,
			expectLabel:   "advanced_feature_market_report",
		},
		{
			name:          "ai score allowed for unlocked property",
			setup:         func(g *Gate) { g.UnlockProperty(context.Background(), "p1") },
			call:          func(g *Gate) bool { return g.TrackAIScoreAccess(context.Background(), "p1") },
			expectAllowed: true,
		},
		{
			name:          "unlock does not cover other properties",
			setup:         func(g *Gate) { g.UnlockProperty(context.Background(), "p1") },
			call:          func(g *Gate) bool { return g.TrackOfferGeneration(context.Background(), "p2") },
			expectAllowed: false,
			expectLabel:   "offer_generation",
		},
		{
			name:          "advanced feature not covered by single unlock",
			setup:         func(g *Gate) { g.UnlockProperty(context.Background(), "p1") },
			call:          func(g *Gate) bool { return g.TrackAdvancedFeature(context.Background(), "alerts") },
			expectAllowed: false,
			expectLabel:   "advanced_feature_alerts",
		},
		{
			name:          "plan allows everything",
			setup:         func(g *Gate) { g.ActivatePlan(context.Background(), "pro") },
			call:          func(g *Gate) bool { return g.TrackAdvancedFeature(context.Background(), "alerts") },
			expectAllowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &recordingSink{}
			g := newTestGate(t, NewMemoryStore(), sink, nil)
			if tt.setup != nil {
				tt.setup(g)
			}

			allowed := tt.call(g)
			g.Wait()

			assert.Equal(t, tt.expectAllowed, allowed)
			assert.Equal(t, !tt.expectAllowed, g.IsPaywallOpen())

			events := sink.Events()
			if tt.expectAllowed {
				assert.Empty(t, events)
				return
			}
			require.Len(t, events, 1)
			assert.Equal(t, analytics.EventPaywallImpression, events[0].Name)
			assert.Equal(t, tt.expectLabel, events[0].Properties["triggered_by"])
			assert.Equal(t, 1, events[0].Properties["impression_count"])
			assert.Equal(t, tt.expectLabel, *g.Snapshot().TriggeredBy)
		})
	}
}

func TestGate_ImpressionCountIncrements(t *testing.T) {
	ctx := context.Background()
	sink := &recordingSink{}
	g := newTestGate(t, NewMemoryStore(), sink, nil)

	g.TrackAIScoreAccess(ctx, "p1")
	g.ClosePaywall()
	assert.False(t, g.IsPaywallOpen())
	assert.Nil(t, g.CurrentTrigger())

	g.TrackOfferGeneration(ctx, "p1")
	g.Wait()

	assert.Equal(t, 2, g.Snapshot().PaywallImpressions)
	require.NotNil(t, g.CurrentTrigger())
	assert.Equal(t, TriggerOfferGeneration, g.CurrentTrigger().Type)

	counts := map[interface{}]bool{}
	for _, e := range sink.Events() {
		counts[e.Properties["impression_count"]] = true
	}
	assert.True(t, counts[1])
	assert.True(t, counts[2])
}

// ==========================
// Unlocks, plans, reset
// ==========================

func TestGate_UnlockPropertyIdempotent(t *testing.T) {
	ctx := context.Background()
	g := newTestGate(t, NewMemoryStore(), nil, nil)

	assert.False(t, g.IsPropertyUnlocked("p1"))
	g.UnlockProperty(ctx, "p1")
	g.UnlockProperty(ctx, "p1")
	g.UnlockProperty(ctx, "")

	assert.True(t, g.IsPropertyUnlocked("p1"))
	assert.Equal(t, []string{"p1"}, g.Snapshot().UnlockedPropertyIDs)
}

func TestGate_ActivatePlanUnlocksAnyProperty(t *testing.T) {
	g := newTestGate(t, NewMemoryStore(), nil, nil)
	g.ActivatePlan(context.Background(), "pro_annual")

	assert.True(t, g.IsPropertyUnlocked("anything"))
	assert.Equal(t, "pro_annual", *g.Snapshot().ActivePlan)
}

func TestGate_ResetPaywallState(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	g := newTestGate(t, store, nil, nil)

	g.TrackPropertyView(ctx, "p1")
	g.TrackAIScoreAccess(ctx, "p1")
	g.UnlockProperty(ctx, "p1")
	g.ActivatePlan(ctx, "pro")

	g.ResetPaywallState(ctx)

	plan := "pro"
	want := DefaultState()
	want.UnlockedPropertyIDs = []string{"p1"}
	want.ActivePlan = &plan

	assert.Equal(t, want, g.Snapshot())
	assert.False(t, g.IsPaywallOpen())
	assert.Nil(t, g.CurrentTrigger())

	stored, err := store.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, want, stored)
}

func TestGate_ResetKeepsPaidAccess(t *testing.T) {
	ctx := context.Background()
	g := newTestGate(t, NewMemoryStore(), nil, nil)

	g.ActivatePlan(ctx, "pro_monthly")
	g.UnlockProperty(ctx, "p1")
	for i := 0; i < 5; i++ {
		g.TrackPropertyView(ctx, "p1")
	}

	g.ResetPaywallState(ctx)

	assert.True(t, g.IsPropertyUnlocked("p1"))
	assert.True(t, g.TrackAIScoreAccess(ctx, "p2"))
	assert.True(t, g.TrackAdvancedFeature(ctx, "alerts"))
	assert.Equal(t, 0, g.Snapshot().PropertyViewCount)
	assert.Equal(t, 0, g.Snapshot().PaywallImpressions)
}

func TestGate_ResetWithoutPlanStillGates(t *testing.T) {
	ctx := context.Background()
	g := newTestGate(t, NewMemoryStore(), nil, nil)

	g.UnlockProperty(ctx, "p1")
	g.ResetPaywallState(ctx)

	assert.Nil(t, g.Snapshot().ActivePlan)
	assert.True(t, g.TrackAIScoreAccess(ctx, "p1"))
	assert.False(t, g.TrackAIScoreAccess(ctx, "p2"))
}

// ==========================
// Persistence
// ==========================

func TestGate_StateSurvivesReload(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	g := newTestGate(t, store, nil, nil)
	g.TrackPropertyView(ctx, "p1")
	g.UnlockProperty(ctx, "p9")
	g.TrackOfferGeneration(ctx, "p1")
	want := g.Snapshot()

	reloaded := newTestGate(t, store, nil, nil)
	assert.Equal(t, want, reloaded.Snapshot())
	assert.True(t, reloaded.IsPropertyUnlocked("p9"))
	assert.False(t, reloaded.IsPaywallOpen(), "open flag is not persisted")
}

func TestGate_CorruptStateFallsBackToDefaults(t *testing.T) {
	store := NewMemoryStore()
	store.Put("session-1", []byte("{not json"))

	g := newTestGate(t, store, nil, nil)
	assert.Equal(t, DefaultState(), g.Snapshot())
}

func TestGate_PersistenceFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{loadErr: errors.New("quota exceeded"), saveErr: errors.New("quota exceeded")}
	g := newTestGate(t, store, nil, nil)

	g.TrackPropertyView(ctx, "p1")
	g.UnlockProperty(ctx, "p2")
	allowed := g.TrackAIScoreAccess(ctx, "p2")

	assert.True(t, allowed)
	assert.Equal(t, 1, g.Snapshot().PropertyViewCount)
	assert.True(t, g.IsPropertyUnlocked("p2"))
	assert.Equal(t, 2, store.saves)
}

// ==========================
// Analytics delivery
// ==========================

func TestGate_AnalyticsFailureDoesNotBlock(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	sink := &recordingSink{err: errors.New("sink down")}
	g := New("s", DefaultState(), Options{
		FreeViewLimit: DefaultFreePropertyViewLimit,
		Sink:          sink,
		Logger:        logger.NewTestLogger(t),
	})

	assert.False(t, g.TrackAIScoreAccess(context.Background(), "p1"))
	g.Wait()

	assert.Len(t, sink.Events(), 1)
	assert.Equal(t, 1, g.Snapshot().PaywallImpressions)
}

func TestGate_CanceledContextStillDeliversAnalytics(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	sink := &recordingSink{}
	g := New("s", DefaultState(), Options{Sink: sink, Logger: logger.NewTestLogger(t)})

	ctx, cancel := context.WithCancel(context.Background())
	g.TrackAdvancedFeature(ctx, "export")
	cancel()
	g.Wait()

	assert.Len(t, sink.Events(), 1)
}

func TestGate_ConcurrentUse(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	g := New("s", DefaultState(), Options{FreeViewLimit: 1000, Logger: logger.NewNoOpLogger()})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				g.TrackPropertyView(ctx, "p")
				g.UnlockProperty(ctx, "shared")
			}
		}()
	}
	wg.Wait()
	g.Wait()

	st := g.Snapshot()
	assert.Equal(t, 200, st.PropertyViewCount)
	assert.Equal(t, []string{"shared"}, st.UnlockedPropertyIDs)
}
