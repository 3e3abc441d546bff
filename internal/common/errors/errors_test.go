package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name        string
		err         *StandardError
		wantCode    string
		wantRetries int
	}{
		{
			name:        "business error is not retried",
			err:         NewSubscriptionExpiredError("expired at 2026-01-01"),
			wantCode:    "SUBSCRIPTION_EXPIRED",
			wantRetries: 0,
		},
		{
			name:        "unlock record failure retries",
			err:         NewUnlockRecordFailedError("prop-1", stderrors.New("conn reset")),
			wantCode:    "UNLOCK_RECORD_FAILED",
			wantRetries: 3,
		},
		{
			name:        "paywall store outage retries",
			err:         NewPaywallStateUnavailableError(stderrors.New("redis down")),
			wantCode:    "PAYWALL_STATE_UNAVAILABLE",
			wantRetries: 2,
		},
		{
			name:        "non-retryable lease intel failure",
			err:         NewLeaseIntelFetchFailedError(stderrors.New("502")),
			wantCode:    "LEASE_INTEL_FETCH_FAILED",
			wantRetries: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmnErr := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.wantCode, bpmnErr.Code)
			assert.Equal(t, tt.wantRetries, bpmnErr.Retries)

			vars := bpmnErr.ToErrorVariables()
			assert.Equal(t, tt.wantCode, vars["errorCode"])
			assert.Equal(t, string(tt.err.Code), vars["originalErrorCode"])
		})
	}
}

func TestConvertToBPMNError_UnmappedCode(t *testing.T) {
	bpmnErr := ConvertToBPMNError(&StandardError{Code: "SOMETHING_ELSE", Message: "x"})
	assert.Equal(t, "SOMETHING_ELSE", bpmnErr.Code)
	assert.Zero(t, bpmnErr.Retries)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "SUBSCRIPTION", GetErrorCategory(ErrCodeSubscriptionCheckFailed))
	assert.Equal(t, "ACCESS", GetErrorCategory(ErrCodeUnlockRecordFailed))
	assert.Equal(t, "ACCESS", GetErrorCategory(ErrCodePaywallStateUnavailable))
	assert.Equal(t, "LEASE_INTEL", GetErrorCategory(ErrCodeSearchTimeout))
	assert.Equal(t, "LEASE_INTEL", GetErrorCategory(ErrCodeInvalidLeaseIntel))
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(ErrCodeNotificationSendFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidInput))
	assert.Equal(t, "OTHER", GetErrorCategory("UNKNOWN"))
}
