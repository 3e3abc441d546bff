// Package paywall decides whether premium content is withheld for a session
// and records paywall impressions.
//
// A Gate is the in-memory, authoritative copy of one session's State. Every
// mutation is followed by a save to the Store; load and save failures are
// logged and swallowed so the caller never sees them.
package paywall

import (
	"context"
	"errors"
	"sync"
	"time"

	"apartmentiq-workers/internal/analytics"
	"apartmentiq-workers/internal/common/logger"
	"apartmentiq-workers/internal/common/metrics"
)

// DefaultFreePropertyViewLimit is the number of property views a free
// session gets before the paywall opens.
const DefaultFreePropertyViewLimit = 3

const analyticsTimeout = 5 * time.Second

type TriggerType string

const (
	TriggerPropertyView    TriggerType = "property_view"
	TriggerAIScore         TriggerType = "ai_score"
	TriggerOfferGeneration TriggerType = "offer_generation"
	TriggerAdvancedFeature TriggerType = "advanced_feature"
)

// Trigger is what caused the paywall to open.
type Trigger struct {
	Type        TriggerType `json:"type"`
	PropertyID  string      `json:"propertyId,omitempty"`
	FeatureName string      `json:"featureName,omitempty"`
}

// ImpressionLabel is the triggeredBy value recorded for t.
func (t Trigger) ImpressionLabel() string {
	switch t.Type {
	case TriggerPropertyView:
		return "property_view_limit"
	case TriggerAIScore:
		return "ai_score_access"
	case TriggerOfferGeneration:
		return "offer_generation"
	case TriggerAdvancedFeature:
		return "advanced_feature_" + t.FeatureName
	default:
		return string(t.Type)
	}
}

type Options struct {
	// FreeViewLimit <= 0 disables the property view trigger.
	FreeViewLimit int
	Store         Store
	Sink          analytics.Sink
	// OnOpen is called, outside the gate lock, each time the paywall opens.
	OnOpen func(Trigger)
	Logger logger.Logger
	Now    func() time.Time
}

type Gate struct {
	mu        sync.Mutex
	sessionID string
	opts      Options
	log       logger.Logger
	state     State
	open      bool
	trigger   *Trigger
	inflight  sync.WaitGroup
}

// New wraps an already loaded state.
func New(sessionID string, state State, opts Options) *Gate {
	if opts.Store == nil {
		opts.Store = NewMemoryStore()
	}
	if opts.Sink == nil {
		opts.Sink = analytics.NoopSink{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	state.normalize()
	return &Gate{
		sessionID: sessionID,
		opts:      opts,
		log:       logger.ForSession(opts.Logger, sessionID),
		state:     state,
	}
}

// Load reads the session's persisted state, falling back to defaults when it
// is missing or unreadable.
func Load(ctx context.Context, sessionID string, opts Options) *Gate {
	g := New(sessionID, DefaultState(), opts)

	st, err := g.opts.Store.Load(ctx, sessionID)
	switch {
	case err == nil:
		st.normalize()
		g.state = st
	case errors.Is(err, ErrStateNotFound):
		g.log.Debug("no stored paywall state, starting fresh", nil)
	default:
		metrics.GatePersistenceErrors.WithLabelValues("paywall", "load").Inc()
		g.log.Warn("Failed to load paywall state", map[string]interface{}{"error": err.Error()})
	}
	return g
}

func (g *Gate) SessionID() string { return g.sessionID }

// ShouldShowPaywall reports whether t would be blocked right now.
func (g *Gate) ShouldShowPaywall(t Trigger) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.shouldShowLocked(t)
}

func (g *Gate) shouldShowLocked(t Trigger) bool {
	if g.state.HasActivePlan() {
		return false
	}

	switch t.Type {
	case TriggerPropertyView:
		if g.opts.FreeViewLimit <= 0 || g.state.IsUnlocked(t.PropertyID) {
			return false
		}
		return g.state.PropertyViewCount >= g.opts.FreeViewLimit
	case TriggerAIScore, TriggerOfferGeneration:
		return !g.state.IsUnlocked(t.PropertyID)
	case TriggerAdvancedFeature:
		return true
	default:
		return false
	}
}

// TrackPropertyView counts a view and opens the paywall when the free views
// were already used up before this one and the property is not unlocked.
// With a limit of 3 the fourth view opens it.
func (g *Gate) TrackPropertyView(ctx context.Context, propertyID string) {
	t := Trigger{Type: TriggerPropertyView, PropertyID: propertyID}

	g.mu.Lock()
	blocked := g.shouldShowLocked(t)
	g.state.PropertyViewCount++
	var count int
	if blocked {
		count = g.openLocked(ctx, t)
	} else {
		g.saveLocked(ctx)
	}
	g.mu.Unlock()

	g.recordDecision(t, blocked)
	if blocked {
		g.notify(ctx, t, count)
	}
}

// TrackAIScoreAccess returns true when the AI score may be shown.
func (g *Gate) TrackAIScoreAccess(ctx context.Context, propertyID string) bool {
	return g.check(ctx, Trigger{Type: TriggerAIScore, PropertyID: propertyID})
}

// TrackOfferGeneration returns true when an offer may be generated.
func (g *Gate) TrackOfferGeneration(ctx context.Context, propertyID string) bool {
	return g.check(ctx, Trigger{Type: TriggerOfferGeneration, PropertyID: propertyID})
}

// TrackAdvancedFeature returns true when the named feature may be used.
// Only an active plan unlocks advanced features.
func (g *Gate) TrackAdvancedFeature(ctx context.Context, featureName string) bool {
	return g.check(ctx, Trigger{Type: TriggerAdvancedFeature, FeatureName: featureName})
}

func (g *Gate) check(ctx context.Context, t Trigger) bool {
	g.mu.Lock()
	blocked := g.shouldShowLocked(t)
	var count int
	if blocked {
		count = g.openLocked(ctx, t)
	}
	g.mu.Unlock()

	g.recordDecision(t, blocked)
	if blocked {
		g.notify(ctx, t, count)
	}
	return !blocked
}

func (g *Gate) IsPropertyUnlocked(propertyID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.HasActivePlan() || g.state.IsUnlocked(propertyID)
}

// UnlockProperty adds propertyID to the unlocked set. Repeated calls are no-ops.
func (g *Gate) UnlockProperty(ctx context.Context, propertyID string) {
	if propertyID == "" {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state.IsUnlocked(propertyID) {
		return
	}
	g.state.UnlockedPropertyIDs = append(g.state.UnlockedPropertyIDs, propertyID)
	g.saveLocked(ctx)
}

func (g *Gate) ActivatePlan(ctx context.Context, planID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state.ActivePlan = &planID
	g.saveLocked(ctx)
}

// ResetPaywallState clears the view counter and impression data and closes
// the paywall. The active plan and unlocked properties are kept: a reset
// starts a new telemetry baseline and never re-locks paid access.
func (g *Gate) ResetPaywallState(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fresh := DefaultState()
	fresh.UnlockedPropertyIDs = g.state.UnlockedPropertyIDs
	fresh.ActivePlan = g.state.ActivePlan
	g.state = fresh
	g.open = false
	g.trigger = nil
	g.saveLocked(ctx)
}

func (g *Gate) ClosePaywall() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.open = false
	g.trigger = nil
}

func (g *Gate) IsPaywallOpen() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.open
}

func (g *Gate) CurrentTrigger() *Trigger {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.trigger == nil {
		return nil
	}
	t := *g.trigger
	return &t
}

// RemainingViews returns the free views left, or -1 when the view limit is disabled.
func (g *Gate) RemainingViews() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.opts.FreeViewLimit <= 0 {
		return -1
	}
	return max(0, g.opts.FreeViewLimit-g.state.PropertyViewCount)
}

// Snapshot returns a copy of the current state.
func (g *Gate) Snapshot() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Clone()
}

// Wait blocks until every analytics event sent so far has been delivered or dropped.
func (g *Gate) Wait() {
	g.inflight.Wait()
}

// openLocked records an impression and returns the new impression count.
func (g *Gate) openLocked(ctx context.Context, t Trigger) int {
	label := t.ImpressionLabel()
	now := g.opts.Now().UnixMilli()

	g.state.PaywallImpressions++
	g.state.LastImpressionTimestamp = &now
	g.state.HasShownPaywall = true
	g.state.TriggeredBy = &label
	g.open = true
	g.trigger = &t
	g.saveLocked(ctx)

	return g.state.PaywallImpressions
}

func (g *Gate) saveLocked(ctx context.Context) {
	if err := g.opts.Store.Save(ctx, g.sessionID, g.state.Clone()); err != nil {
		metrics.GatePersistenceErrors.WithLabelValues("paywall", "save").Inc()
		g.log.Warn("Failed to save paywall state", map[string]interface{}{"error": err.Error()})
	}
}

func (g *Gate) recordDecision(t Trigger, blocked bool) {
	outcome := "allowed"
	if blocked {
		outcome = "blocked"
	}
	metrics.GateDecisions.WithLabelValues(string(t.Type), outcome).Inc()
}

func (g *Gate) notify(ctx context.Context, t Trigger, impressionCount int) {
	label := t.ImpressionLabel()
	metrics.PaywallImpressions.WithLabelValues(string(t.Type)).Inc()
	g.log.Info("paywall opened", map[string]interface{}{
		"triggeredBy":     label,
		"impressionCount": impressionCount,
	})

	if g.opts.OnOpen != nil {
		g.opts.OnOpen(t)
	}

	event := analytics.NewEvent(analytics.EventPaywallImpression, g.sessionID, map[string]interface{}{
		"triggered_by":     label,
		"impression_count": impressionCount,
	})

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), analyticsTimeout)
	g.inflight.Add(1)
	go func() {
		defer g.inflight.Done()
		defer cancel()
		if err := g.opts.Sink.Track(sendCtx, event); err != nil {
			g.log.Warn("Failed to track paywall impression", map[string]interface{}{
				"error":       err.Error(),
				"triggeredBy": label,
			})
		}
	}()
}
