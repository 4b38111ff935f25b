package service

import (
	"context"
	"fmt"
	"strconv"

	"mpesa-payment-gateway/internal/core/domain"
	"mpesa-payment-gateway/internal/core/ports"
	"mpesa-payment-gateway/pkg/apperror"

	"github.com/rs/zerolog"
)

// C2B validation business limits, in KES.
const (
	c2bMinAmount = 1
	c2bMaxAmount = 150000
)

// CallbackServiceImpl implements ports.CallbackService. Each handler parses
// its typed payload, applies the result to the matching transaction, emits
// events, and marks the audit row processed. Terminal transitions are
// idempotent: a duplicate delivery updates nothing and re-emits nothing.
type CallbackServiceImpl struct {
	txRepo    ports.TransactionRepository
	auditRepo ports.CallbackAuditRepository
	broadcast ports.Broadcaster
	log       zerolog.Logger
}

// NewCallbackService creates a new CallbackServiceImpl.
func NewCallbackService(
	txRepo ports.TransactionRepository,
	auditRepo ports.CallbackAuditRepository,
	broadcast ports.Broadcaster,
	log zerolog.Logger,
) *CallbackServiceImpl {
	return &CallbackServiceImpl{
		txRepo:    txRepo,
		auditRepo: auditRepo,
		broadcast: broadcast,
		log:       log,
	}
}

// markAudit records the processing outcome; failures only log.
func (s *CallbackServiceImpl) markAudit(ctx context.Context, auditID int64, result string) {
	if auditID == 0 {
		return
	}
	if err := s.auditRepo.MarkProcessed(ctx, auditID, result); err != nil {
		s.log.Error().Err(err).Int64("audit_id", auditID).Msg("mark audit processed failed")
	}
}

// publishTerminal emits the update event plus the terminal-specific event.
func (s *CallbackServiceImpl) publishTerminal(txn *domain.Transaction) {
	s.broadcast.Publish(domain.NewEvent(domain.EventTransactionUpdated, txn))
	switch txn.Status {
	case domain.TransactionStatusCompleted:
		s.broadcast.Publish(domain.NewEvent(domain.EventTransactionCompleted, txn))
	case domain.TransactionStatusFailed, domain.TransactionStatusCancelled:
		s.broadcast.Publish(domain.NewEvent(domain.EventTransactionFailed, txn))
	}
}

// HandleSTK applies an STK push result.
func (s *CallbackServiceImpl) HandleSTK(ctx context.Context, auditID int64, raw []byte) error {
	result, err := domain.ParseSTKCallback(raw)
	if err != nil {
		s.markAudit(ctx, auditID, "parse error: "+err.Error())
		return apperror.ErrMalformedCallback(err)
	}

	s.broadcast.Publish(domain.NewEvent(domain.EventCallbackReceived, map[string]any{
		"callback_type":       domain.CallbackTypeSTK,
		"checkout_request_id": result.CheckoutRequestID,
		"result_code":         result.ResultCode,
	}))

	update := ports.TransactionResultUpdate{
		Status:                domain.StatusForResultCode(result.ResultCode),
		ResultCode:            result.ResultCode,
		ResultDesc:            result.ResultDesc,
		ProviderTransactionID: result.MpesaReceiptNumber,
		RawCallback:           string(raw),
	}

	applied, err := s.txRepo.UpdateResultByCheckoutRequestID(ctx, result.CheckoutRequestID, update)
	if err != nil {
		s.markAudit(ctx, auditID, "storage error: "+err.Error())
		return apperror.ErrDatabaseError(err)
	}
	if !applied {
		// Duplicate delivery or unknown checkout id: no transition, no
		// terminal event.
		s.log.Info().
			Str("checkout_request_id", result.CheckoutRequestID).
			Msg("STK callback matched no pending transaction, ignoring")
		s.markAudit(ctx, auditID, "duplicate or unknown checkout request id")
		return nil
	}

	txn, err := s.txRepo.GetByCheckoutRequestID(ctx, result.CheckoutRequestID)
	if err != nil || txn == nil {
		s.markAudit(ctx, auditID, "applied; reload failed")
		return nil
	}

	s.log.Info().
		Int64("transaction_id", txn.ID).
		Str("status", string(txn.Status)).
		Int("result_code", result.ResultCode).
		Msg("STK result applied")
	s.publishTerminal(txn)
	s.markAudit(ctx, auditID, fmt.Sprintf("transaction %d %s", txn.ID, txn.Status))
	return nil
}

// HandleC2BValidation applies the acceptance rules to an incoming payment.
// The returned error is HOOK_003 for malformed payloads; business rejects
// surface through ValidateC2B's result instead.
func (s *CallbackServiceImpl) HandleC2BValidation(ctx context.Context, auditID int64, raw []byte) error {
	payment, err := domain.ParseC2BPayment(raw)
	if err != nil {
		s.markAudit(ctx, auditID, "parse error: "+err.Error())
		return apperror.ErrMalformedCallback(err)
	}

	s.broadcast.Publish(domain.NewEvent(domain.EventCallbackReceived, map[string]any{
		"callback_type": domain.CallbackTypeC2BValidation,
		"trans_id":      payment.TransID,
	}))

	amount, err := strconv.ParseFloat(payment.TransAmount, 64)
	if err != nil || amount < c2bMinAmount || amount > c2bMaxAmount {
		s.markAudit(ctx, auditID, fmt.Sprintf("rejected: amount %q out of bounds", payment.TransAmount))
		return apperror.ErrMalformedCallback(fmt.Errorf("amount %q outside [%d, %d]",
			payment.TransAmount, c2bMinAmount, c2bMaxAmount))
	}

	s.markAudit(ctx, auditID, "validation accepted")
	return nil
}

// HandleC2BConfirmation records a completed customer-initiated payment.
// Confirmations arrive at most once per TransID from the provider; a replay
// is caught by the unique provider transaction id on insert.
func (s *CallbackServiceImpl) HandleC2BConfirmation(ctx context.Context, auditID int64, raw []byte) error {
	payment, err := domain.ParseC2BPayment(raw)
	if err != nil {
		s.markAudit(ctx, auditID, "parse error: "+err.Error())
		return apperror.ErrMalformedCallback(err)
	}

	s.broadcast.Publish(domain.NewEvent(domain.EventCallbackReceived, map[string]any{
		"callback_type": domain.CallbackTypeC2BConfirmation,
		"trans_id":      payment.TransID,
	}))

	amount, _ := strconv.ParseFloat(payment.TransAmount, 64)
	resultCode := 0
	resultDesc := "C2B payment confirmed"
	txn := &domain.Transaction{
		TransactionType:       domain.TransactionTypeC2B,
		ProviderTransactionID: &payment.TransID,
		PhoneNumber:           payment.MSISDN,
		Amount:                amount,
		AccountReference:      optional(payment.BillRefNumber),
		ResultCode:            &resultCode,
		ResultDesc:            &resultDesc,
		Status:                domain.TransactionStatusCompleted,
		RawRequest:            string(raw),
	}
	if err := s.txRepo.Create(ctx, txn); err != nil {
		s.markAudit(ctx, auditID, "storage error: "+err.Error())
		return apperror.ErrDatabaseError(err)
	}

	s.log.Info().
		Int64("transaction_id", txn.ID).
		Str("trans_id", payment.TransID).
		Float64("amount", amount).
		Msg("C2B payment recorded")
	s.broadcast.Publish(domain.NewEvent(domain.EventTransactionCreated, txn))
	s.broadcast.Publish(domain.NewEvent(domain.EventTransactionCompleted, txn))
	s.markAudit(ctx, auditID, fmt.Sprintf("transaction %d recorded", txn.ID))
	return nil
}

// HandleB2CResult applies a payout result, matched by either conversation
// handle.
func (s *CallbackServiceImpl) HandleB2CResult(ctx context.Context, auditID int64, raw []byte) error {
	result, err := domain.ParseB2CCallback(raw)
	if err != nil {
		s.markAudit(ctx, auditID, "parse error: "+err.Error())
		return apperror.ErrMalformedCallback(err)
	}

	s.broadcast.Publish(domain.NewEvent(domain.EventCallbackReceived, map[string]any{
		"callback_type":   domain.CallbackTypeB2CResult,
		"conversation_id": result.ConversationID,
		"result_code":     result.ResultCode,
	}))

	status := domain.TransactionStatusCompleted
	if result.ResultCode != 0 {
		status = domain.TransactionStatusFailed
	}
	update := ports.TransactionResultUpdate{
		Status:      status,
		ResultCode:  result.ResultCode,
		ResultDesc:  result.ResultDesc,
		RawCallback: string(raw),
	}
	if result.TransactionID != "" {
		update.ProviderTransactionID = &result.TransactionID
	}

	applied, err := s.txRepo.UpdateResultByConversationID(ctx,
		result.ConversationID, result.OriginatorConversationID, update)
	if err != nil {
		s.markAudit(ctx, auditID, "storage error: "+err.Error())
		return apperror.ErrDatabaseError(err)
	}
	if !applied {
		s.log.Info().
			Str("conversation_id", result.ConversationID).
			Msg("B2C result matched no pending transaction, ignoring")
		s.markAudit(ctx, auditID, "duplicate or unknown conversation id")
		return nil
	}

	txn, err := s.txRepo.GetByConversationID(ctx, result.ConversationID, result.OriginatorConversationID)
	if err != nil || txn == nil {
		s.markAudit(ctx, auditID, "applied; reload failed")
		return nil
	}

	s.log.Info().
		Int64("transaction_id", txn.ID).
		Str("status", string(txn.Status)).
		Msg("B2C result applied")
	s.publishTerminal(txn)
	s.markAudit(ctx, auditID, fmt.Sprintf("transaction %d %s", txn.ID, txn.Status))
	return nil
}

// HandleB2CTimeout marks a payout failed after the provider's queue timed
// out.
func (s *CallbackServiceImpl) HandleB2CTimeout(ctx context.Context, auditID int64, raw []byte) error {
	result, err := domain.ParseB2CCallback(raw)
	if err != nil {
		s.markAudit(ctx, auditID, "parse error: "+err.Error())
		return apperror.ErrMalformedCallback(err)
	}

	s.broadcast.Publish(domain.NewEvent(domain.EventCallbackReceived, map[string]any{
		"callback_type":   domain.CallbackTypeB2CTimeout,
		"conversation_id": result.ConversationID,
	}))

	update := ports.TransactionResultUpdate{
		Status:      domain.TransactionStatusFailed,
		ResultCode:  result.ResultCode,
		ResultDesc:  "provider queue timeout",
		RawCallback: string(raw),
	}
	applied, err := s.txRepo.UpdateResultByConversationID(ctx,
		result.ConversationID, result.OriginatorConversationID, update)
	if err != nil {
		s.markAudit(ctx, auditID, "storage error: "+err.Error())
		return apperror.ErrDatabaseError(err)
	}
	if !applied {
		s.markAudit(ctx, auditID, "duplicate or unknown conversation id")
		return nil
	}

	txn, err := s.txRepo.GetByConversationID(ctx, result.ConversationID, result.OriginatorConversationID)
	if err == nil && txn != nil {
		s.publishTerminal(txn)
		s.markAudit(ctx, auditID, fmt.Sprintf("transaction %d timed out", txn.ID))
		return nil
	}
	s.markAudit(ctx, auditID, "applied; reload failed")
	return nil
}
