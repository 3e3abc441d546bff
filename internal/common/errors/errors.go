// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	ErrCodeSubscriptionInvalid     ErrorCode = "SUBSCRIPTION_INVALID"
	ErrCodeSubscriptionExpired     ErrorCode = "SUBSCRIPTION_EXPIRED"
	ErrCodeSubscriptionCheckFailed ErrorCode = "SUBSCRIPTION_CHECK_FAILED"

	ErrCodePaywallStateUnavailable ErrorCode = "PAYWALL_STATE_UNAVAILABLE"
	ErrCodeUnlockRecordFailed      ErrorCode = "UNLOCK_RECORD_FAILED"

	ErrCodeLeaseIntelFetchFailed ErrorCode = "LEASE_INTEL_FETCH_FAILED"
	ErrCodeInvalidLeaseIntel     ErrorCode = "INVALID_LEASE_INTEL"
	ErrCodeSearchTimeout         ErrorCode = "SEARCH_TIMEOUT"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidInputError creates a non-retryable input validation error.
func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid job input", details, false)
}

// NewSubscriptionInvalidError creates a non-retryable subscription error.
func NewSubscriptionInvalidError(details string) *StandardError {
	return newError(ErrCodeSubscriptionInvalid, "Invalid or not found subscription", details, false)
}

// NewSubscriptionExpiredError creates a non-retryable subscription error.
func NewSubscriptionExpiredError(details string) *StandardError {
	return newError(ErrCodeSubscriptionExpired, "Subscription has expired", details, false)
}

// NewSubscriptionCheckFailedError creates a retryable database error.
func NewSubscriptionCheckFailedError(err error) *StandardError {
	return newError(ErrCodeSubscriptionCheckFailed, "Database error during subscription check", err.Error(), true)
}

// NewPaywallStateUnavailableError is raised only when a worker needs the
// stored state to answer at all; gate persistence itself never fails a job.
func NewPaywallStateUnavailableError(err error) *StandardError {
	return newError(ErrCodePaywallStateUnavailable, "Paywall state store unavailable", err.Error(), true)
}

func NewUnlockRecordFailedError(propertyID string, err error) *StandardError {
	return newError(ErrCodeUnlockRecordFailed, "Failed to record property unlock",
		fmt.Sprintf("propertyId: %s, error: %s", propertyID, err.Error()), true)
}

// NewLeaseIntelFetchFailedError is not retried: the caller renders an error state instead.
func NewLeaseIntelFetchFailedError(err error) *StandardError {
	return newError(ErrCodeLeaseIntelFetchFailed, "Failed to fetch lease intelligence", err.Error(), false)
}

func NewInvalidLeaseIntelError(details string) *StandardError {
	return newError(ErrCodeInvalidLeaseIntel, "Lease intelligence payload failed validation", details, false)
}

func NewSearchTimeoutError(index string) *StandardError {
	return newError(ErrCodeSearchTimeout, "Elasticsearch query timeout", fmt.Sprintf("index: %s", index), true)
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()), true)
}

// ==========================
// 4. Mapping & Retry Policy
// ==========================

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidInput:            "INVALID_INPUT",
	ErrCodeSubscriptionInvalid:     "SUBSCRIPTION_INVALID",
	ErrCodeSubscriptionExpired:     "SUBSCRIPTION_EXPIRED",
	ErrCodeSubscriptionCheckFailed: "SUBSCRIPTION_CHECK_FAILED",
	ErrCodePaywallStateUnavailable: "PAYWALL_STATE_UNAVAILABLE",
	ErrCodeUnlockRecordFailed:      "UNLOCK_RECORD_FAILED",
	ErrCodeLeaseIntelFetchFailed:   "LEASE_INTEL_FETCH_FAILED",
	ErrCodeInvalidLeaseIntel:       "INVALID_LEASE_INTEL",
	ErrCodeSearchTimeout:           "SEARCH_TIMEOUT",
	ErrCodeNotificationSendFailed:  "NOTIFICATION_SEND_FAILED",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeSubscriptionCheckFailed,
		ErrCodeUnlockRecordFailed,
		ErrCodeNotificationSendFailed:
		return 3

	case ErrCodePaywallStateUnavailable,
		ErrCodeSearchTimeout:
		return 2

	default:
		return 0 // Business errors: no retry
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "SUBSCRIPTION"):
		return "SUBSCRIPTION"
	case strings.Contains(codeStr, "PAYWALL") || strings.Contains(codeStr, "UNLOCK"):
		return "ACCESS"
	case strings.Contains(codeStr, "LEASE") || strings.Contains(codeStr, "SEARCH"):
		return "LEASE_INTEL"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
