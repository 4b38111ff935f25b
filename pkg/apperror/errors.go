package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"code"`
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

// ---- Retry Queue (QUE) ----

// ErrStorage wraps a job-store failure. Callers log and skip the job for the
// current cycle; the job stays eligible for the next poll.
func ErrStorage(err error) *AppError {
	return Wrap("QUE_001", "Job store operation failed", http.StatusInternalServerError, err)
}

func ErrDeadLetterNotFound(id int64) *AppError {
	return New("QUE_002", fmt.Sprintf("Dead letter item %d not found", id), http.StatusNotFound)
}

func ErrInvalidJob(message string) *AppError {
	return New("QUE_003", message, http.StatusBadRequest)
}

func ErrJobNotFound(id int64) *AppError {
	return New("QUE_004", fmt.Sprintf("Retry job %d not found", id), http.StatusNotFound)
}

// ---- Webhook Intake (HOOK) ----

func ErrNotWhitelisted(ip string) *AppError {
	return New("HOOK_001", fmt.Sprintf("IP address %s not whitelisted", ip), http.StatusForbidden)
}

func ErrWebhookRateLimited(ip string) *AppError {
	return New("HOOK_002", fmt.Sprintf("Callback rate limit exceeded for %s", ip), http.StatusTooManyRequests)
}

func ErrMalformedCallback(err error) *AppError {
	return Wrap("HOOK_003", "Malformed callback payload", http.StatusBadRequest, err)
}

// ---- Provider Calls (MPESA) ----

func ErrProviderAuth(err error) *AppError {
	return Wrap("MPESA_001", "Failed to obtain provider access token", http.StatusBadGateway, err)
}

func ErrProviderRequest(op string, err error) *AppError {
	return Wrap("MPESA_002", fmt.Sprintf("%s request failed", op), http.StatusBadGateway, err)
}

func ErrTransactionNotFound() *AppError {
	return New("MPESA_003", "Transaction not found", http.StatusNotFound)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New("SYS_002", message, http.StatusBadRequest)
}
