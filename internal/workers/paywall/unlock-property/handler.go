// internal/workers/paywall/unlock-property/handler.go
package unlockproperty

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	awsclient "apartmentiq-workers/internal/common/aws"
	"apartmentiq-workers/internal/common/camunda"
	apperrors "apartmentiq-workers/internal/common/errors"
	"apartmentiq-workers/internal/common/logger"
	"apartmentiq-workers/internal/paywall"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "unlock-property"
)

var (
	ErrInvalidInput       = errors.New("INVALID_INPUT")
	ErrUnlockRecordFailed = errors.New("UNLOCK_RECORD_FAILED")
)

const (
	insertUnlockStatement = `INSERT INTO property_unlocks (user_id, property_id, payment_id) VALUES ($1, $2, $3) ON CONFLICT (user_id, property_id) DO NOTHING`

	receiptSubject    = "Your ApartmentIQ property unlock"
	receiptBodyFormat = "You now have full access to property %s.\n\nPayment reference: %s\n"
)

type Handler struct {
	config *Config
	db     *sql.DB
	store  paywall.Store
	mailer awsclient.SESAPI
	logger logger.Logger
}

// NewHandler builds the handler. db and mailer may be nil, in which case the
// unlock is only recorded in the session state.
func NewHandler(config *Config, db *sql.DB, store paywall.Store, mailer awsclient.SESAPI, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		store:  store,
		mailer: mailer,
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
		var stdErr error
		switch {
		case errors.Is(err, ErrUnlockRecordFailed):
			stdErr = apperrors.NewUnlockRecordFailedError(input.PropertyID, err)
		default:
			stdErr = apperrors.NewInvalidInputError(err.Error())
		}
		camunda.FailJob(client, job, stdErr, h.logger)
		return
	}

	camunda.CompleteJob(client, job, output, h.logger)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.SessionID == "" {
		return nil, fmt.Errorf("%w: sessionId is required", ErrInvalidInput)
	}
	if input.PropertyID == "" {
		return nil, fmt.Errorf("%w: propertyId is required", ErrInvalidInput)
	}

	// The durable record goes first so a retried job never unlocks without it.
	recorded := false
	if h.db != nil && input.UserID != "" {
		if _, err := h.db.ExecContext(ctx, insertUnlockStatement, input.UserID, input.PropertyID, input.PaymentID); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnlockRecordFailed, err)
		}
		recorded = true
	}

	gate := paywall.Load(ctx, input.SessionID, paywall.Options{
		Store:  h.store,
		Logger: h.logger,
	})
	gate.UnlockProperty(ctx, input.PropertyID)
	state := gate.Snapshot()

	output := &Output{
		SessionID:           input.SessionID,
		PropertyID:          input.PropertyID,
		Unlocked:            gate.IsPropertyUnlocked(input.PropertyID),
		UnlockedPropertyIDs: state.UnlockedPropertyIDs,
		Recorded:            recorded,
	}

	output.ReceiptMessageID = h.sendReceipt(ctx, input)
	return output, nil
}

// sendReceipt is best effort; a failed receipt never fails the unlock.
func (h *Handler) sendReceipt(ctx context.Context, input *Input) string {
	if h.mailer == nil || h.config.ReceiptFrom == "" || input.Email == "" {
		return ""
	}

	body := fmt.Sprintf(receiptBodyFormat, input.PropertyID, input.PaymentID)
	id, err := awsclient.SendTextEmail(ctx, h.mailer, h.config.ReceiptFrom, input.Email, receiptSubject, body)
	if err != nil {
		h.logger.Warn("Failed to send unlock receipt", map[string]interface{}{
			"propertyId": input.PropertyID,
			"error":      apperrors.NewNotificationSendFailedError("ses", err).Details,
		})
		return ""
	}
	return id
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
