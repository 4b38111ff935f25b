package handler

import (
	"io"
	"net/http"

	"mpesa-payment-gateway/internal/adapter/http/dto"
	"mpesa-payment-gateway/internal/adapter/http/middleware"
	"mpesa-payment-gateway/internal/core/domain"
	"mpesa-payment-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CallbackHandler receives provider callbacks. Every request is verified
// (source IP allowlist + per-IP rate limit) and audited before processing.
// Result callbacks always get the benign acknowledgement: the provider
// retries anything else, and a rejected or failed delivery must not
// trigger provider-side retry storms.
type CallbackHandler struct {
	verifier    ports.WebhookVerifier
	callbackSvc ports.CallbackService
	log         zerolog.Logger
}

// NewCallbackHandler creates a new CallbackHandler.
func NewCallbackHandler(verifier ports.WebhookVerifier, callbackSvc ports.CallbackService, log zerolog.Logger) *CallbackHandler {
	return &CallbackHandler{verifier: verifier, callbackSvc: callbackSvc, log: log}
}

type callbackFunc func(ctx *gin.Context, auditID int64, raw []byte) error

// verify runs allowlist + rate-limit checks and returns the raw body and
// audit id. ok=false means the caller must not process the payload.
func (h *CallbackHandler) verify(c *gin.Context, cbType domain.CallbackType) (raw []byte, auditID int64, ok bool) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.log.Warn().Err(err).Str("callback_type", string(cbType)).Msg("callback body read failed")
		return nil, 0, false
	}

	result, err := h.verifier.Verify(c.Request.Context(), ports.VerifyRequest{
		CallbackType: cbType,
		RemoteAddr:   c.Request.RemoteAddr,
		ForwardedFor: c.GetHeader("X-Forwarded-For"),
		RealIP:       c.GetHeader("X-Real-IP"),
		UserAgent:    c.Request.UserAgent(),
		RawPayload:   raw,
	})
	if err != nil {
		h.log.Error().Err(err).Str("callback_type", string(cbType)).Msg("callback verification errored")
		return nil, 0, false
	}
	if !result.Allowed {
		h.log.Warn().
			Str("callback_type", string(cbType)).
			Str("source_ip", result.SourceIP).
			Str("reason", result.FailureReason).
			Msg("callback rejected")
		return nil, 0, false
	}
	c.Set(middleware.CtxSourceIP, result.SourceIP)
	return raw, result.AuditID, true
}

// handleResult processes a result-style callback and always acknowledges.
func (h *CallbackHandler) handleResult(c *gin.Context, cbType domain.CallbackType, fn callbackFunc) {
	raw, auditID, ok := h.verify(c, cbType)
	if !ok {
		c.JSON(http.StatusOK, dto.Ack())
		return
	}
	if err := fn(c, auditID, raw); err != nil {
		h.log.Error().Err(err).Str("callback_type", string(cbType)).Msg("callback processing failed")
	}
	c.JSON(http.StatusOK, dto.Ack())
}

// STK handles POST /callbacks/stk.
func (h *CallbackHandler) STK(c *gin.Context) {
	h.handleResult(c, domain.CallbackTypeSTK, func(c *gin.Context, auditID int64, raw []byte) error {
		return h.callbackSvc.HandleSTK(c.Request.Context(), auditID, raw)
	})
}

// C2BValidation handles POST /callbacks/c2b/validation. Unlike result
// callbacks, the accept/reject decision is carried in the response shape.
func (h *CallbackHandler) C2BValidation(c *gin.Context) {
	raw, auditID, ok := h.verify(c, domain.CallbackTypeC2BValidation)
	if !ok {
		c.JSON(http.StatusOK, dto.InvalidSourceC2B())
		return
	}
	if err := h.callbackSvc.HandleC2BValidation(c.Request.Context(), auditID, raw); err != nil {
		h.log.Info().Err(err).Msg("C2B validation rejected")
		c.JSON(http.StatusOK, dto.RejectedC2B())
		return
	}
	c.JSON(http.StatusOK, dto.AcceptedC2B())
}

// C2BConfirmation handles POST /callbacks/c2b/confirmation.
func (h *CallbackHandler) C2BConfirmation(c *gin.Context) {
	h.handleResult(c, domain.CallbackTypeC2BConfirmation, func(c *gin.Context, auditID int64, raw []byte) error {
		return h.callbackSvc.HandleC2BConfirmation(c.Request.Context(), auditID, raw)
	})
}

// B2CResult handles POST /callbacks/b2c/result.
func (h *CallbackHandler) B2CResult(c *gin.Context) {
	h.handleResult(c, domain.CallbackTypeB2CResult, func(c *gin.Context, auditID int64, raw []byte) error {
		return h.callbackSvc.HandleB2CResult(c.Request.Context(), auditID, raw)
	})
}

// B2CTimeout handles POST /callbacks/b2c/timeout.
func (h *CallbackHandler) B2CTimeout(c *gin.Context) {
	h.handleResult(c, domain.CallbackTypeB2CTimeout, func(c *gin.Context, auditID int64, raw []byte) error {
		return h.callbackSvc.HandleB2CTimeout(c.Request.Context(), auditID, raw)
	})
}
