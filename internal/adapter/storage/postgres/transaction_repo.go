package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mpesa-payment-gateway/internal/core/domain"
	"mpesa-payment-gateway/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

const transactionColumns = `id, transaction_type, checkout_request_id, merchant_request_id,
	conversation_id, originator_conversation_id, provider_transaction_id, phone_number, amount,
	account_reference, transaction_desc, result_code, result_desc, status, raw_request,
	raw_callback, created_at, updated_at`

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create inserts a new pending transaction and fills in its generated fields.
func (r *TransactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	query := `INSERT INTO transactions (transaction_type, checkout_request_id, merchant_request_id,
		conversation_id, originator_conversation_id, phone_number, amount, account_reference,
		transaction_desc, status, raw_request)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		t.TransactionType, t.CheckoutRequestID, t.MerchantRequestID,
		t.ConversationID, t.OriginatorConversationID, t.PhoneNumber, t.Amount,
		t.AccountReference, t.TransactionDesc, t.Status, t.RawRequest,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID fetches a transaction by ID. Returns nil when no row exists.
func (r *TransactionRepo) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE id = $1`, transactionColumns)
	return r.scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// GetByCheckoutRequestID fetches an STK transaction by its provider handle.
func (r *TransactionRepo) GetByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*domain.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE checkout_request_id = $1`, transactionColumns)
	return r.scanTransaction(r.pool.QueryRow(ctx, query, checkoutRequestID))
}

// GetByConversationID fetches a B2C transaction by either conversation handle.
func (r *TransactionRepo) GetByConversationID(ctx context.Context, conversationID, originatorConversationID string) (*domain.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions
		WHERE conversation_id = $1 OR originator_conversation_id = $2`, transactionColumns)
	return r.scanTransaction(r.pool.QueryRow(ctx, query, conversationID, originatorConversationID))
}

// UpdateResultByCheckoutRequestID applies a terminal result to a pending STK
// transaction. The status guard makes duplicate callbacks no-ops: a second
// delivery matches zero rows and returns false.
func (r *TransactionRepo) UpdateResultByCheckoutRequestID(ctx context.Context, checkoutRequestID string, update ports.TransactionResultUpdate) (bool, error) {
	query := `UPDATE transactions
		SET status = $1, result_code = $2, result_desc = $3, provider_transaction_id = $4,
			raw_callback = $5, updated_at = NOW()
		WHERE checkout_request_id = $6 AND status = 'pending'`

	tag, err := r.pool.Exec(ctx, query,
		update.Status, update.ResultCode, update.ResultDesc,
		update.ProviderTransactionID, update.RawCallback, checkoutRequestID,
	)
	if err != nil {
		return false, fmt.Errorf("update transaction result: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateResultByConversationID is the B2C counterpart of the STK result
// update, matching either conversation handle.
func (r *TransactionRepo) UpdateResultByConversationID(ctx context.Context, conversationID, originatorConversationID string, update ports.TransactionResultUpdate) (bool, error) {
	query := `UPDATE transactions
		SET status = $1, result_code = $2, result_desc = $3, provider_transaction_id = $4,
			raw_callback = $5, updated_at = NOW()
		WHERE (conversation_id = $6 OR originator_conversation_id = $7) AND status = 'pending'`

	tag, err := r.pool.Exec(ctx, query,
		update.Status, update.ResultCode, update.ResultDesc,
		update.ProviderTransactionID, update.RawCallback,
		conversationID, originatorConversationID,
	)
	if err != nil {
		return false, fmt.Errorf("update transaction result: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// List fetches transactions with filtering and pagination.
func (r *TransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}
	if params.Type != nil {
		conditions = append(conditions, fmt.Sprintf("transaction_type = $%d", argIdx))
		args = append(args, *params.Type)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM transactions %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT %s FROM transactions %s
		ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, transactionColumns, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t := domain.Transaction{}
		if err := scanTransactionFields(rows, &t); err != nil {
			return nil, 0, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, total, nil
}

// GetStats retrieves aggregated transaction statistics for the dashboard.
func (r *TransactionRepo) GetStats(ctx context.Context) (*ports.TransactionStats, error) {
	query := `SELECT
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE status = 'pending') AS pending,
		COUNT(*) FILTER (WHERE status = 'completed') AS completed,
		COUNT(*) FILTER (WHERE status = 'failed') AS failed,
		COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled,
		COALESCE(SUM(amount) FILTER (WHERE status = 'completed'), 0) AS total_amount
		FROM transactions`

	stats := &ports.TransactionStats{}
	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.Total, &stats.Pending, &stats.Completed,
		&stats.Failed, &stats.Cancelled, &stats.TotalAmount,
	)
	if err != nil {
		return nil, fmt.Errorf("get transaction stats: %w", err)
	}
	return stats, nil
}

// scanTransaction is a helper to scan a single row into a Transaction.
func (r *TransactionRepo) scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	if err := scanTransactionFields(row, t); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return t, nil
}

func scanTransactionFields(row pgx.Row, t *domain.Transaction) error {
	return row.Scan(
		&t.ID, &t.TransactionType, &t.CheckoutRequestID, &t.MerchantRequestID,
		&t.ConversationID, &t.OriginatorConversationID, &t.ProviderTransactionID,
		&t.PhoneNumber, &t.Amount, &t.AccountReference, &t.TransactionDesc,
		&t.ResultCode, &t.ResultDesc, &t.Status, &t.RawRequest, &t.RawCallback,
		&t.CreatedAt, &t.UpdatedAt,
	)
}
