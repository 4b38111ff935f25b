package postgres

import (
	"context"
	"fmt"

	"mpesa-payment-gateway/internal/core/domain"
)

// CallbackAuditRepo implements ports.CallbackAuditRepository.
type CallbackAuditRepo struct {
	pool Pool
}

// NewCallbackAuditRepo creates a new CallbackAuditRepo.
func NewCallbackAuditRepo(pool Pool) *CallbackAuditRepo {
	return &CallbackAuditRepo{pool: pool}
}

// Create appends one audit row and returns its generated ID.
func (r *CallbackAuditRepo) Create(ctx context.Context, audit *domain.CallbackAudit) (int64, error) {
	query := `INSERT INTO callback_audits (callback_type, raw_payload, ip_address, user_agent,
		verified, failure_reason, processed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		audit.CallbackType, audit.RawPayload, audit.IPAddress, audit.UserAgent,
		audit.Verified, audit.FailureReason, audit.Processed,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert callback audit: %w", err)
	}
	return id, nil
}

// MarkProcessed records the processing outcome of a verified callback.
func (r *CallbackAuditRepo) MarkProcessed(ctx context.Context, id int64, result string) error {
	query := `UPDATE callback_audits SET processed = TRUE, processing_result = $1 WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, result, id)
	if err != nil {
		return fmt.Errorf("mark callback processed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("callback audit not found: %d", id)
	}
	return nil
}

// List fetches audit rows newest first with pagination.
func (r *CallbackAuditRepo) List(ctx context.Context, page, pageSize int) ([]domain.CallbackAudit, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM callback_audits`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count callback audits: %w", err)
	}

	offset := (page - 1) * pageSize
	query := `SELECT id, callback_type, raw_payload, ip_address, user_agent, verified,
		failure_reason, processed, processing_result, created_at
		FROM callback_audits ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list callback audits: %w", err)
	}
	defer rows.Close()

	var audits []domain.CallbackAudit
	for rows.Next() {
		a := domain.CallbackAudit{}
		err := rows.Scan(
			&a.ID, &a.CallbackType, &a.RawPayload, &a.IPAddress, &a.UserAgent,
			&a.Verified, &a.FailureReason, &a.Processed, &a.ProcessingResult, &a.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan callback audit row: %w", err)
		}
		audits = append(audits, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate callback audit rows: %w", err)
	}
	return audits, total, nil
}
