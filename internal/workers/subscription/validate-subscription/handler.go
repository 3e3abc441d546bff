// internal/workers/subscription/validate-subscription/handler.go
package validatesubscription

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"apartmentiq-workers/internal/common/camunda"
	apperrors "apartmentiq-workers/internal/common/errors"
	"apartmentiq-workers/internal/common/logger"
	"apartmentiq-workers/internal/paywall"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "validate-subscription"

	cachePrefix = "sub:"
	selectSQL   = `SELECT user_id, tier, expires_at, is_valid FROM user_subscriptions WHERE user_id = $1`

	TierFree = "free"
)

var (
	ErrInvalidInput            = errors.New("INVALID_INPUT")
	ErrSubscriptionInvalid     = errors.New("SUBSCRIPTION_INVALID")
	ErrSubscriptionExpired     = errors.New("SUBSCRIPTION_EXPIRED")
	ErrSubscriptionCheckFailed = errors.New("SUBSCRIPTION_CHECK_FAILED")
)

// tierPermissions lists the gated features each tier may use without
// hitting the paywall.
var tierPermissions = map[string][]string{
	TierFree:      {string(paywall.TriggerPropertyView)},
	"pro_monthly": paidPermissions,
	"pro_annual":  paidPermissions,
	"enterprise":  paidPermissions,
}

var paidPermissions = []string{
	string(paywall.TriggerPropertyView),
	string(paywall.TriggerAIScore),
	string(paywall.TriggerOfferGeneration),
	string(paywall.TriggerAdvancedFeature),
}

type Handler struct {
	config *Config
	db     *sql.DB
	redis  *redis.Client
	store  paywall.Store
	now    func() time.Time
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redis *redis.Client, store paywall.Store, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		redis:  redis,
		store:  store,
		now:    time.Now,
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
		var stdErr *apperrors.StandardError
		switch {
		case errors.Is(err, ErrSubscriptionExpired):
			stdErr = apperrors.NewSubscriptionExpiredError(err.Error())
		case errors.Is(err, ErrSubscriptionInvalid):
			stdErr = apperrors.NewSubscriptionInvalidError(err.Error())
		case errors.Is(err, ErrSubscriptionCheckFailed):
			stdErr = apperrors.NewSubscriptionCheckFailedError(err)
		default:
			stdErr = apperrors.NewInvalidInputError(err.Error())
		}
		camunda.FailJob(client, job, stdErr, h.logger)
		return
	}

	camunda.CompleteJob(client, job, output, h.logger)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.UserID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}

	sub, cached := h.cached(ctx, input.UserID)
	if !cached {
		var err error
		if sub, err = h.query(ctx, input.UserID); err != nil {
			return nil, err
		}
	}

	if err := h.validate(sub); err != nil {
		return nil, err
	}

	if !cached {
		h.cache(ctx, sub)
	}

	output := &Output{
		IsValid:     true,
		TierLevel:   sub.Tier,
		Permissions: tierPermissions[sub.Tier],
	}

	if input.SessionID != "" && sub.Tier != TierFree {
		gate := paywall.Load(ctx, input.SessionID, paywall.Options{
			Store:  h.store,
			Logger: h.logger,
		})
		if snap := gate.Snapshot(); snap.ActivePlan == nil || *snap.ActivePlan != sub.Tier {
			gate.ActivatePlan(ctx, sub.Tier)
			output.PlanActivated = true
		}
	}

	h.logger.Info("subscription validated", map[string]interface{}{
		"userId":        input.UserID,
		"tier":          sub.Tier,
		"cached":        cached,
		"planActivated": output.PlanActivated,
	})
	return output, nil
}

func (h *Handler) cached(ctx context.Context, userID string) (*Subscription, bool) {
	val, err := h.redis.Get(ctx, cachePrefix+userID).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			h.logger.Warn("subscription cache read failed", map[string]interface{}{"error": err.Error()})
		}
		return nil, false
	}
	var sub Subscription
	if err := json.Unmarshal([]byte(val), &sub); err != nil {
		return nil, false
	}
	return &sub, true
}

func (h *Handler) query(ctx context.Context, userID string) (*Subscription, error) {
	var sub Subscription
	err := h.db.QueryRowContext(ctx, selectSQL, userID).Scan(
		&sub.UserID, &sub.Tier, &sub.ExpiresAt, &sub.IsValid,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: no subscription for user %s", ErrSubscriptionInvalid, userID)
		}
		return nil, fmt.Errorf("%w: %v", ErrSubscriptionCheckFailed, err)
	}
	return &sub, nil
}

func (h *Handler) validate(sub *Subscription) error {
	if !sub.IsValid {
		return fmt.Errorf("%w: subscription disabled", ErrSubscriptionInvalid)
	}

	if sub.ExpiresAt != "" {
		exp, err := time.Parse(time.RFC3339, sub.ExpiresAt)
		if err != nil {
			h.logger.Debug("Failed to parse expiration date, skipping expiration check", map[string]interface{}{
				"userId":    sub.UserID,
				"expiresAt": sub.ExpiresAt,
				"error":     err.Error(),
			})
		} else if h.now().After(exp) {
			return fmt.Errorf("%w: expired at %s", ErrSubscriptionExpired, sub.ExpiresAt)
		}
	}

	if _, ok := tierPermissions[sub.Tier]; !ok {
		return fmt.Errorf("%w: unknown tier %q", ErrSubscriptionInvalid, sub.Tier)
	}
	return nil
}

func (h *Handler) cache(ctx context.Context, sub *Subscription) {
	ttl := h.config.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	data, _ := json.Marshal(sub)
	if err := h.redis.Set(ctx, cachePrefix+sub.UserID, data, ttl).Err(); err != nil {
		h.logger.Warn("subscription cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
