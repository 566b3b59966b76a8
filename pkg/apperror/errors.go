package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Ledger Business Logic (ESC) ----

func ErrUnauthorized() *AppError {
	return New("ESC_001", "No permission", http.StatusForbidden)
}

func ErrDuplicateApplication() *AppError {
	return New("ESC_002", "Application already exists", http.StatusConflict)
}

func ErrApplicationNotFound() *AppError {
	return New("ESC_003", "Application not found", http.StatusNotFound)
}

func ErrDuplicateToken() *AppError {
	return New("ESC_004", "Token already registered", http.StatusConflict)
}

func ErrTokenUnsupported() *AppError {
	return New("ESC_005", "Token not supported", http.StatusUnprocessableEntity)
}

func ErrWrongPaymentAmount() *AppError {
	return New("ESC_006", "Wrong payment amount", http.StatusBadRequest)
}

func ErrOrderExpired() *AppError {
	return New("ESC_007", "Order has expired", http.StatusBadRequest)
}

func ErrOrderAlreadyExists() *AppError {
	return New("ESC_008", "Order already exists", http.StatusConflict)
}

func ErrInsufficientBalance() *AppError {
	return New("ESC_009", "Insufficient balance", http.StatusPaymentRequired)
}

func ErrBalanceOverflow() *AppError {
	return New("ESC_010", "Balance overflow", http.StatusUnprocessableEntity)
}

// ---- External Token Ledger (LEDGER) ----

// ErrTokenLedger surfaces an external token ledger's failure reason verbatim.
// The core never reinterprets or translates the remote reason.
func ErrTokenLedger(reason string) *AppError {
	return New("LEDGER_001", reason, http.StatusUnprocessableEntity)
}

// ErrTokenLedgerUnreachable reports a transport-level failure talking to an
// external token ledger.
func ErrTokenLedgerUnreachable(err error) *AppError {
	return Wrap("LEDGER_002", "Token ledger unreachable", http.StatusBadGateway, err)
}

// ---- Identity Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrIdentityExists() *AppError {
	return New("AUTH_002", "Identity already exists", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New("ESC_000", message, http.StatusBadRequest)
}
