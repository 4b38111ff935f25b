package postgres

import (
	"context"
	"errors"
	"fmt"

	"mpesa-payment-gateway/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const deadLetterColumns = `id, original_job_id, job_type, endpoint, method, headers, payload,
	max_retries, final_error, correlation_id, original_created_at, created_at`

// DeadLetterRepo implements ports.DeadLetterRepository.
type DeadLetterRepo struct {
	pool Pool
}

// NewDeadLetterRepo creates a new DeadLetterRepo.
func NewDeadLetterRepo(pool Pool) *DeadLetterRepo {
	return &DeadLetterRepo{pool: pool}
}

// Create inserts a dead-letter item inside the caller's transaction, paired
// with the source job's status flip.
func (r *DeadLetterRepo) Create(ctx context.Context, tx pgx.Tx, item *domain.DeadLetterItem) error {
	query := `INSERT INTO dead_letter_queue (original_job_id, job_type, endpoint, method,
		headers, payload, max_retries, final_error, correlation_id, original_created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := tx.QueryRow(ctx, query,
		item.OriginalJobID, item.JobType, item.Endpoint, item.Method,
		item.Headers, item.Payload, item.MaxRetries, item.FinalError,
		item.CorrelationID, item.OriginalCreatedAt,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert dead-letter item: %w", err)
	}
	return nil
}

// GetByID fetches a dead-letter item by ID. Returns nil when no row exists.
func (r *DeadLetterRepo) GetByID(ctx context.Context, id int64) (*domain.DeadLetterItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM dead_letter_queue WHERE id = $1`, deadLetterColumns)

	item := &domain.DeadLetterItem{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.OriginalJobID, &item.JobType, &item.Endpoint, &item.Method,
		&item.Headers, &item.Payload, &item.MaxRetries, &item.FinalError,
		&item.CorrelationID, &item.OriginalCreatedAt, &item.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan dead-letter item: %w", err)
	}
	return item, nil
}

// List fetches dead-letter items newest first with pagination.
func (r *DeadLetterRepo) List(ctx context.Context, page, pageSize int) ([]domain.DeadLetterItem, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM dead_letter_queue`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count dead-letter items: %w", err)
	}

	offset := (page - 1) * pageSize
	query := fmt.Sprintf(`SELECT %s FROM dead_letter_queue
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`, deadLetterColumns)

	rows, err := r.pool.Query(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list dead-letter items: %w", err)
	}
	defer rows.Close()

	var items []domain.DeadLetterItem
	for rows.Next() {
		item := domain.DeadLetterItem{}
		err := rows.Scan(
			&item.ID, &item.OriginalJobID, &item.JobType, &item.Endpoint, &item.Method,
			&item.Headers, &item.Payload, &item.MaxRetries, &item.FinalError,
			&item.CorrelationID, &item.OriginalCreatedAt, &item.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan dead-letter row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate dead-letter rows: %w", err)
	}
	return items, total, nil
}

// Delete removes a dead-letter item, typically after a successful requeue.
func (r *DeadLetterRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM dead_letter_queue WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete dead-letter item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("dead-letter item not found: %d", id)
	}
	return nil
}
