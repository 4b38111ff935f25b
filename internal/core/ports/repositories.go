package ports

import (
	"context"
	"time"

	"mpesa-payment-gateway/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// RetryJobRepository defines persistence operations for the retry queue.
// Methods accepting pgx.Tx run inside a caller-owned transaction block.
type RetryJobRepository interface {
	Enqueue(ctx context.Context, job *domain.RetryJob) error
	FetchDue(ctx context.Context, limit int) ([]domain.RetryJob, error)
	MarkProcessing(ctx context.Context, id int64) error
	MarkCompleted(ctx context.Context, id int64) error
	Reschedule(ctx context.Context, id int64, retryCount int, nextRetryAt time.Time, lastError string) error
	MarkDeadLetter(ctx context.Context, tx pgx.Tx, id int64, finalError string) error
	GetByID(ctx context.Context, id int64) (*domain.RetryJob, error)
	List(ctx context.Context, params JobListParams) ([]domain.RetryJob, int64, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*QueueStats, error)
}

// JobListParams holds filter + pagination for listing retry jobs.
type JobListParams struct {
	Status   *domain.JobStatus
	JobType  *string
	Page     int
	PageSize int
}

// QueueStats holds per-status counts for the queue dashboard.
type QueueStats struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Completed  int64 `json:"completed"`
	Failed     int64 `json:"failed"`
	DeadLetter int64 `json:"dead_letter"`
	Total      int64 `json:"total"`
}

// DeadLetterRepository defines persistence operations for escalated jobs.
type DeadLetterRepository interface {
	Create(ctx context.Context, tx pgx.Tx, item *domain.DeadLetterItem) error
	GetByID(ctx context.Context, id int64) (*domain.DeadLetterItem, error)
	List(ctx context.Context, page, pageSize int) ([]domain.DeadLetterItem, int64, error)
	Delete(ctx context.Context, id int64) error
}

// TransactionRepository defines persistence operations for payment transactions.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id int64) (*domain.Transaction, error)
	GetByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*domain.Transaction, error)
	GetByConversationID(ctx context.Context, conversationID, originatorConversationID string) (*domain.Transaction, error)
	// UpdateResultByCheckoutRequestID applies a terminal result to a pending
	// transaction. Returns false when no pending row matched, which marks the
	// callback as a duplicate.
	UpdateResultByCheckoutRequestID(ctx context.Context, checkoutRequestID string, update TransactionResultUpdate) (bool, error)
	UpdateResultByConversationID(ctx context.Context, conversationID, originatorConversationID string, update TransactionResultUpdate) (bool, error)
	List(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
	GetStats(ctx context.Context) (*TransactionStats, error)
}

// TransactionResultUpdate carries the terminal fields of a provider result.
type TransactionResultUpdate struct {
	Status                domain.TransactionStatus
	ResultCode            int
	ResultDesc            string
	ProviderTransactionID *string
	RawCallback           string
}

// TransactionListParams holds filter + pagination for listing transactions.
type TransactionListParams struct {
	Status   *domain.TransactionStatus
	Type     *domain.TransactionType
	Page     int
	PageSize int
}

// TransactionStats holds aggregated statistics for the dashboard.
type TransactionStats struct {
	Total       int64   `json:"total"`
	Pending     int64   `json:"pending"`
	Completed   int64   `json:"completed"`
	Failed      int64   `json:"failed"`
	Cancelled   int64   `json:"cancelled"`
	TotalAmount float64 `json:"total_amount"`
}

// CallbackAuditRepository defines append-only persistence for webhook audits.
type CallbackAuditRepository interface {
	Create(ctx context.Context, audit *domain.CallbackAudit) (int64, error)
	MarkProcessed(ctx context.Context, id int64, result string) error
	List(ctx context.Context, page, pageSize int) ([]domain.CallbackAudit, int64, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
