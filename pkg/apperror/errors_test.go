package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("ESC_009", "Insufficient balance", http.StatusPaymentRequired),
			expected: "[ESC_009] Insufficient balance",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("SYS_001", "DB error", http.StatusInternalServerError, fmt.Errorf("connection refused")),
			expected: "[SYS_001] DB error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsNilUnwrap(t *testing.T) {
	appErr := New("ESC_006", "test", http.StatusBadRequest)
	assert.Nil(t, appErr.Unwrap())
}

func TestLedgerErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"Unauthorized", ErrUnauthorized(), "ESC_001", 403},
		{"DuplicateApplication", ErrDuplicateApplication(), "ESC_002", 409},
		{"ApplicationNotFound", ErrApplicationNotFound(), "ESC_003", 404},
		{"DuplicateToken", ErrDuplicateToken(), "ESC_004", 409},
		{"TokenUnsupported", ErrTokenUnsupported(), "ESC_005", 422},
		{"WrongPaymentAmount", ErrWrongPaymentAmount(), "ESC_006", 400},
		{"OrderExpired", ErrOrderExpired(), "ESC_007", 400},
		{"OrderAlreadyExists", ErrOrderAlreadyExists(), "ESC_008", 409},
		{"InsufficientBalance", ErrInsufficientBalance(), "ESC_009", 402},
		{"BalanceOverflow", ErrBalanceOverflow(), "ESC_010", 422},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestTokenLedgerError_VerbatimReason(t *testing.T) {
	err := ErrTokenLedger("ERC20: transfer amount exceeds allowance")
	assert.Equal(t, "LEDGER_001", err.Code)
	assert.Equal(t, "ERC20: transfer amount exceeds allowance", err.Message)
	assert.Equal(t, 422, err.HTTPStatus)
}

func TestAuthErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InvalidCredentials", ErrInvalidCredentials(), "AUTH_001", 401},
		{"IdentityExists", ErrIdentityExists(), "AUTH_002", 409},
		{"InvalidToken", ErrInvalidToken(), "AUTH_003", 401},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestSystemErrors(t *testing.T) {
	inner := fmt.Errorf("pg: connection closed")
	sysErr := InternalError(inner)
	assert.Equal(t, "SYS_001", sysErr.Code)
	assert.Equal(t, 500, sysErr.HTTPStatus)
	assert.True(t, errors.Is(sysErr, inner))

	unreachable := ErrTokenLedgerUnreachable(inner)
	assert.Equal(t, "LEDGER_002", unreachable.Code)
	assert.Equal(t, 502, unreachable.HTTPStatus)
}

func TestRateLimitError(t *testing.T) {
	err := ErrRateLimitExceeded()
	assert.Equal(t, "RATE_001", err.Code)
	assert.Equal(t, 429, err.HTTPStatus)
}
