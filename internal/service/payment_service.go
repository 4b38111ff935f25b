package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"mpesa-payment-gateway/internal/core/domain"
	"mpesa-payment-gateway/internal/core/ports"
	"mpesa-payment-gateway/pkg/apperror"

	"github.com/rs/zerolog"
)

// PaymentServiceImpl implements ports.PaymentService: it initiates provider
// payments, records them as pending transactions, and hands transport
// failures to the retry queue.
type PaymentServiceImpl struct {
	client    ports.MpesaClient
	txRepo    ports.TransactionRepository
	retry     ports.RetryService
	broadcast ports.Broadcaster
	log       zerolog.Logger
}

// NewPaymentService creates a new PaymentServiceImpl.
func NewPaymentService(
	client ports.MpesaClient,
	txRepo ports.TransactionRepository,
	retry ports.RetryService,
	broadcast ports.Broadcaster,
	log zerolog.Logger,
) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		client:    client,
		txRepo:    txRepo,
		retry:     retry,
		broadcast: broadcast,
		log:       log,
	}
}

// Job types for provider calls queued after an outage. The retry processor
// routes them back here through ports.ProviderReplayer.
const (
	jobTypeSTKPush = "stk_push"
	jobTypeB2C     = "b2c_payment"
)

// InitiateSTKPush sends a payment prompt and records the pending
// transaction keyed by the provider's checkout request id.
func (s *PaymentServiceImpl) InitiateSTKPush(ctx context.Context, req ports.STKPushRequest) (*domain.Transaction, error) {
	if req.Amount < 1 {
		return nil, apperror.Validation("amount must be at least 1")
	}
	req.PhoneNumber = normalizePhone(req.PhoneNumber)

	rawRequest, _ := json.Marshal(req)

	resp, err := s.client.STKPush(ctx, req)
	if err != nil {
		s.queueProviderRetry(ctx, jobTypeSTKPush, req.PhoneNumber, rawRequest)
		return nil, err
	}
	return s.recordSTKPush(ctx, req, resp, rawRequest)
}

func (s *PaymentServiceImpl) recordSTKPush(ctx context.Context, req ports.STKPushRequest, resp *ports.STKPushResponse, rawRequest []byte) (*domain.Transaction, error) {
	txn := &domain.Transaction{
		TransactionType:   domain.TransactionTypeSTKPush,
		CheckoutRequestID: &resp.CheckoutRequestID,
		MerchantRequestID: &resp.MerchantRequestID,
		PhoneNumber:       req.PhoneNumber,
		Amount:            req.Amount,
		AccountReference:  optional(req.AccountReference),
		TransactionDesc:   optional(req.TransactionDesc),
		Status:            domain.TransactionStatusPending,
		RawRequest:        string(rawRequest),
	}
	if err := s.txRepo.Create(ctx, txn); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}

	s.log.Info().
		Int64("transaction_id", txn.ID).
		Str("checkout_request_id", resp.CheckoutRequestID).
		Float64("amount", req.Amount).
		Msg("STK push initiated")
	s.broadcast.Publish(domain.NewEvent(domain.EventTransactionCreated, txn))

	return txn, nil
}

// InitiateB2C sends a payout and records the pending transaction keyed by
// the provider's conversation ids.
func (s *PaymentServiceImpl) InitiateB2C(ctx context.Context, req ports.B2CPaymentRequest) (*domain.Transaction, error) {
	if req.Amount < 1 {
		return nil, apperror.Validation("amount must be at least 1")
	}
	req.PhoneNumber = normalizePhone(req.PhoneNumber)

	rawRequest, _ := json.Marshal(req)

	resp, err := s.client.B2CPayment(ctx, req)
	if err != nil {
		s.queueProviderRetry(ctx, jobTypeB2C, req.PhoneNumber, rawRequest)
		return nil, err
	}
	return s.recordB2C(ctx, req, resp, rawRequest)
}

func (s *PaymentServiceImpl) recordB2C(ctx context.Context, req ports.B2CPaymentRequest, resp *ports.B2CPaymentResponse, rawRequest []byte) (*domain.Transaction, error) {
	txn := &domain.Transaction{
		TransactionType:          domain.TransactionTypeB2C,
		ConversationID:           &resp.ConversationID,
		OriginatorConversationID: &resp.OriginatorConversationID,
		PhoneNumber:              req.PhoneNumber,
		Amount:                   req.Amount,
		TransactionDesc:          optional(req.Remarks),
		Status:                   domain.TransactionStatusPending,
		RawRequest:               string(rawRequest),
	}
	if err := s.txRepo.Create(ctx, txn); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}

	s.log.Info().
		Int64("transaction_id", txn.ID).
		Str("conversation_id", resp.ConversationID).
		Float64("amount", req.Amount).
		Msg("B2C payout initiated")
	s.broadcast.Publish(domain.NewEvent(domain.EventTransactionCreated, txn))

	return txn, nil
}

// queueProviderRetry records a failed provider call for later reattempt.
// Enqueue failures are logged only; the caller still sees the original
// provider error.
func (s *PaymentServiceImpl) queueProviderRetry(ctx context.Context, jobType, phone string, rawRequest []byte) {
	correlation := fmt.Sprintf("%s:%s", jobType, phone)
	_, err := s.retry.Enqueue(ctx, ports.EnqueueJobRequest{
		JobType:       jobType,
		Endpoint:      providerEndpointPrefix + jobType,
		Method:        "POST",
		Payload:       string(rawRequest),
		CorrelationID: &correlation,
	})
	if err != nil {
		s.log.Error().Err(err).Str("job_type", jobType).Msg("provider retry enqueue failed")
	}
}

// ReplayProvider re-runs a provider call drained from the retry queue.
// Success records the pending transaction exactly as the original request
// path would have; any failure surfaces to the processor for rescheduling.
func (s *PaymentServiceImpl) ReplayProvider(ctx context.Context, jobType string, payload []byte) error {
	switch jobType {
	case jobTypeSTKPush:
		var req ports.STKPushRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return fmt.Errorf("decode %s payload: %w", jobType, err)
		}
		resp, err := s.client.STKPush(ctx, req)
		if err != nil {
			return err
		}
		_, err = s.recordSTKPush(ctx, req, resp, payload)
		return err
	case jobTypeB2C:
		var req ports.B2CPaymentRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return fmt.Errorf("decode %s payload: %w", jobType, err)
		}
		resp, err := s.client.B2CPayment(ctx, req)
		if err != nil {
			return err
		}
		_, err = s.recordB2C(ctx, req, resp, payload)
		return err
	default:
		return fmt.Errorf("no provider operation for job type %q", jobType)
	}
}

// SimulateC2B triggers a sandbox customer payment.
func (s *PaymentServiceImpl) SimulateC2B(ctx context.Context, req ports.C2BSimulateRequest) error {
	if req.Amount < 1 {
		return apperror.Validation("amount must be at least 1")
	}
	req.PhoneNumber = normalizePhone(req.PhoneNumber)
	return s.client.SimulateC2B(ctx, req)
}

// GetTransaction fetches one transaction.
func (s *PaymentServiceImpl) GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error) {
	txn, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if txn == nil {
		return nil, apperror.ErrTransactionNotFound()
	}
	return txn, nil
}

// ListTransactions returns transactions with filters and pagination.
func (s *PaymentServiceImpl) ListTransactions(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}
	txns, total, err := s.txRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.ErrDatabaseError(err)
	}
	return txns, total, nil
}

// GetStats returns aggregate transaction statistics.
func (s *PaymentServiceImpl) GetStats(ctx context.Context) (*ports.TransactionStats, error) {
	stats, err := s.txRepo.GetStats(ctx)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	return stats, nil
}

// normalizePhone stores MSISDNs in the 254-prefixed form the provider
// reports back, so callback matching never fails on formatting.
func normalizePhone(phone string) string {
	p := strings.TrimSpace(phone)
	p = strings.TrimPrefix(p, "+")
	if strings.HasPrefix(p, "0") {
		return "254" + p[1:]
	}
	if !strings.HasPrefix(p, "254") {
		return "254" + p
	}
	return p
}

// optional lifts a non-empty string to a pointer.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
