// Package trial runs the time- and query-limited free trial.
package trial

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"apartmentiq-workers/internal/common/logger"
	"apartmentiq-workers/internal/common/metrics"

	"github.com/google/uuid"
)

const (
	DefaultDuration   = 72 * time.Hour
	DefaultQueryLimit = 3

	urgentWindow = 24 * time.Hour
)

type Options struct {
	Duration   time.Duration
	QueryLimit int
	Store      Store
	Logger     logger.Logger
	Now        func() time.Time
}

// Session is one session's trial. Like the paywall gate it keeps the
// authoritative copy in memory and persists best effort.
type Session struct {
	mu        sync.Mutex
	sessionID string
	opts      Options
	log       logger.Logger
	status    *Status
}

func Load(ctx context.Context, sessionID string, opts Options) *Session {
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	if opts.QueryLimit <= 0 {
		opts.QueryLimit = DefaultQueryLimit
	}
	if opts.Store == nil {
		opts.Store = NewMemoryStore()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Session{
		sessionID: sessionID,
		opts:      opts,
		log:       logger.ForSession(opts.Logger, sessionID),
	}

	st, err := opts.Store.Load(ctx, sessionID)
	switch {
	case err == nil:
		s.status = st
	case errors.Is(err, ErrNotFound):
	default:
		metrics.GatePersistenceErrors.WithLabelValues("trial", "load").Inc()
		s.log.Warn("Failed to load trial", map[string]interface{}{"error": err.Error()})
	}
	return s
}

func newTrialID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("trial_%d_%s", now.UnixMilli(), suffix)
}

// Initialize starts a new trial, replacing any existing one.
func (s *Session) Initialize(ctx context.Context, email string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.opts.Now().UTC()
	s.status = &Status{
		ID:           newTrialID(now),
		Email:        email,
		CreatedAt:    now,
		QueriesLimit: s.opts.QueryLimit,
	}
	s.saveLocked(ctx)
	return *s.status
}

// Status returns a copy of the trial, or nil when none was started.
func (s *Session) Status() *Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == nil {
		return nil
	}
	st := *s.status
	return &st
}

func (s *Session) IsExpired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiredLocked()
}

func (s *Session) expiredLocked() bool {
	if s.status == nil {
		return false
	}
	return s.opts.Now().Sub(s.status.CreatedAt) >= s.opts.Duration
}

func (s *Session) CanMakeQuery() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canQueryLocked()
}

func (s *Session) canQueryLocked() bool {
	if s.status == nil || s.expiredLocked() {
		return false
	}
	return s.status.QueriesUsed < s.status.QueriesLimit
}

// RecordQuery consumes one query. It returns false without changes when no
// query is left.
func (s *Session) RecordQuery(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.canQueryLocked() {
		return false
	}
	now := s.opts.Now().UTC()
	s.status.QueriesUsed++
	s.status.LastQueryAt = &now
	s.saveLocked(ctx)
	return true
}

func (s *Session) MarkUpgradePromptSeen(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == nil {
		return
	}
	s.status.HasSeenUpgradePrompt = true
	s.saveLocked(ctx)
}

func (s *Session) TimeRemaining() TimeRemaining {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeRemainingLocked()
}

func (s *Session) timeRemainingLocked() TimeRemaining {
	if s.status == nil {
		return TimeRemaining{Hours: 0, IsUrgent: true}
	}
	left := s.opts.Duration - s.opts.Now().Sub(s.status.CreatedAt)
	if left < 0 {
		left = 0
	}
	return TimeRemaining{
		Hours:    int(math.Floor(left.Hours())),
		IsUrgent: left < urgentWindow || s.status.QueriesUsed >= s.status.QueriesLimit-1,
	}
}

func (s *Session) ShouldShowUpgradePrompt() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == nil {
		return false
	}
	return s.status.QueriesUsed >= 2 ||
		s.timeRemainingLocked().IsUrgent ||
		s.status.QueriesUsed >= s.status.QueriesLimit ||
		s.expiredLocked()
}

func (s *Session) saveLocked(ctx context.Context) {
	if err := s.opts.Store.Save(ctx, s.sessionID, *s.status); err != nil {
		metrics.GatePersistenceErrors.WithLabelValues("trial", "save").Inc()
		s.log.Warn("Failed to save trial", map[string]interface{}{"error": err.Error()})
	}
}
