package ports

import (
	"context"
	"time"

	"mpesa-payment-gateway/internal/core/domain"
)

// BackoffPolicy computes the wait before a given retry attempt.
type BackoffPolicy interface {
	// Delay returns the jittered wait for retryCount completed attempts.
	Delay(retryCount int) time.Duration
}

// RetryService drains due jobs and applies retry/escalation outcomes.
type RetryService interface {
	// Enqueue durably records an outbound delivery for later attempts.
	Enqueue(ctx context.Context, req EnqueueJobRequest) (*domain.RetryJob, error)
	// ProcessDue fetches one due batch and attempts each job. Concurrent
	// calls are serialized; the second caller returns immediately.
	ProcessDue(ctx context.Context) (*ProcessReport, error)
	Stats(ctx context.Context) (*QueueStats, error)
	ListJobs(ctx context.Context, params JobListParams) ([]domain.RetryJob, int64, error)
	// DeleteJob removes a job from the queue regardless of status.
	DeleteJob(ctx context.Context, id int64) error
}

// ProviderReplayer re-executes a queued provider operation. The retry
// processor dispatches internal provider jobs through it instead of the
// plain HTTP path, so a replayed call goes out with fresh credentials.
type ProviderReplayer interface {
	ReplayProvider(ctx context.Context, jobType string, payload []byte) error
}

// EnqueueJobRequest holds validated input for queueing a delivery.
type EnqueueJobRequest struct {
	JobType       string
	Endpoint      string
	Method        string
	Headers       map[string]string
	Payload       string
	MaxRetries    *int // nil = configured default
	CorrelationID *string
}

// ProcessReport summarizes one ProcessDue pass.
type ProcessReport struct {
	Fetched    int  `json:"fetched"`
	Succeeded  int  `json:"succeeded"`
	Retried    int  `json:"retried"`
	DeadLetter int  `json:"dead_letter"`
	Skipped    bool `json:"skipped"`
}

// DeadLetterService manages escalated jobs.
type DeadLetterService interface {
	List(ctx context.Context, page, pageSize int) ([]domain.DeadLetterItem, int64, error)
	Get(ctx context.Context, id int64) (*domain.DeadLetterItem, error)
	// Requeue moves a dead-letter item back onto the queue with a fresh
	// retry budget, then removes it from the dead-letter store.
	Requeue(ctx context.Context, id int64) (*domain.RetryJob, error)
	Delete(ctx context.Context, id int64) error
}

// WebhookVerifier decides whether an inbound callback may be processed.
type WebhookVerifier interface {
	// Verify checks source IP allowlisting and per-IP rate limits, and
	// records an audit row for the attempt. The returned audit ID lets the
	// caller mark the row processed later.
	Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error)
	// Start runs the limiter window sweeper until ctx is cancelled.
	Start(ctx context.Context)
}

// VerifyRequest describes one inbound callback attempt.
type VerifyRequest struct {
	CallbackType domain.CallbackType
	RemoteAddr   string
	ForwardedFor string
	RealIP       string
	UserAgent    string
	RawPayload   []byte
}

// VerifyResult is the verifier's decision plus the audit row it wrote.
type VerifyResult struct {
	Allowed       bool
	FailureReason string
	SourceIP      string
	AuditID       int64
}

// Broadcaster fans events out to live subscribers.
type Broadcaster interface {
	Register(id string) <-chan []byte
	Unregister(id string)
	// Touch refreshes a subscriber's liveness deadline.
	Touch(id string)
	Publish(event domain.Event)
	SubscriberCount() int
	// Start runs the stale-subscriber sweeper until ctx is cancelled.
	Start(ctx context.Context)
}

// MpesaClient talks to the Daraja API.
type MpesaClient interface {
	STKPush(ctx context.Context, req STKPushRequest) (*STKPushResponse, error)
	RegisterC2BURLs(ctx context.Context) error
	SimulateC2B(ctx context.Context, req C2BSimulateRequest) error
	B2CPayment(ctx context.Context, req B2CPaymentRequest) (*B2CPaymentResponse, error)
}

// STKPushRequest holds validated input for an STK push.
type STKPushRequest struct {
	PhoneNumber      string
	Amount           float64
	AccountReference string
	TransactionDesc  string
}

// STKPushResponse is the Daraja acknowledgement of an STK push.
type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// C2BSimulateRequest holds input for a sandbox C2B payment simulation.
type C2BSimulateRequest struct {
	PhoneNumber   string
	Amount        float64
	BillRefNumber string
}

// B2CPaymentRequest holds validated input for a business-to-customer payout.
type B2CPaymentRequest struct {
	PhoneNumber string
	Amount      float64
	CommandID   string
	Remarks     string
	Occasion    string
}

// B2CPaymentResponse is the Daraja acknowledgement of a B2C request.
type B2CPaymentResponse struct {
	ConversationID           string `json:"ConversationID"`
	OriginatorConversationID string `json:"OriginatorConversationID"`
	ResponseCode             string `json:"ResponseCode"`
	ResponseDescription      string `json:"ResponseDescription"`
}

// PaymentService initiates provider payments and records transactions.
type PaymentService interface {
	InitiateSTKPush(ctx context.Context, req STKPushRequest) (*domain.Transaction, error)
	InitiateB2C(ctx context.Context, req B2CPaymentRequest) (*domain.Transaction, error)
	SimulateC2B(ctx context.Context, req C2BSimulateRequest) error
	GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
	GetStats(ctx context.Context) (*TransactionStats, error)
}

// CallbackService applies verified provider callbacks to transactions.
type CallbackService interface {
	HandleSTK(ctx context.Context, auditID int64, raw []byte) error
	HandleC2BValidation(ctx context.Context, auditID int64, raw []byte) error
	HandleC2BConfirmation(ctx context.Context, auditID int64, raw []byte) error
	HandleB2CResult(ctx context.Context, auditID int64, raw []byte) error
	HandleB2CTimeout(ctx context.Context, auditID int64, raw []byte) error
}

// RateLimitStore tracks request counts per key within a fixed window.
type RateLimitStore interface {
	// Increment bumps the counter for key and returns the new count.
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
}
