package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	e := New("QUE_003", "bad job", http.StatusBadRequest)
	assert.Equal(t, "[QUE_003] bad job", e.Error())

	inner := errors.New("connection refused")
	wrapped := Wrap("QUE_001", "Job store operation failed", http.StatusInternalServerError, inner)
	assert.Contains(t, wrapped.Error(), "QUE_001")
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestAppError_Unwrap(t *testing.T) {
	inner := errors.New("timeout")
	wrapped := ErrStorage(inner)
	assert.True(t, errors.Is(wrapped, inner))

	var appErr *AppError
	assert.True(t, errors.As(fmt.Errorf("outer: %w", wrapped), &appErr))
	assert.Equal(t, "QUE_001", appErr.Code)
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"storage", ErrStorage(errors.New("x")), "QUE_001", http.StatusInternalServerError},
		{"dead letter not found", ErrDeadLetterNotFound(42), "QUE_002", http.StatusNotFound},
		{"invalid job", ErrInvalidJob("missing endpoint"), "QUE_003", http.StatusBadRequest},
		{"not whitelisted", ErrNotWhitelisted("10.0.0.1"), "HOOK_001", http.StatusForbidden},
		{"webhook rate limited", ErrWebhookRateLimited("10.0.0.1"), "HOOK_002", http.StatusTooManyRequests},
		{"malformed callback", ErrMalformedCallback(errors.New("eof")), "HOOK_003", http.StatusBadRequest},
		{"provider auth", ErrProviderAuth(errors.New("401")), "MPESA_001", http.StatusBadGateway},
		{"provider request", ErrProviderRequest("STK push", errors.New("503")), "MPESA_002", http.StatusBadGateway},
		{"rate limit", ErrRateLimitExceeded(), "RATE_001", http.StatusTooManyRequests},
		{"validation", Validation("amount required"), "SYS_002", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
		})
	}
}

func TestErrDeadLetterNotFound_Message(t *testing.T) {
	e := ErrDeadLetterNotFound(7)
	assert.Contains(t, e.Message, "7")
}
