package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mpesa-payment-gateway/internal/core/domain"
	"mpesa-payment-gateway/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

const retryJobColumns = `id, job_type, endpoint, method, headers, payload, max_retries,
	current_retry, next_retry_at, last_error, status, correlation_id, created_at, updated_at`

// RetryJobRepo implements ports.RetryJobRepository.
type RetryJobRepo struct {
	pool Pool
}

// NewRetryJobRepo creates a new RetryJobRepo.
func NewRetryJobRepo(pool Pool) *RetryJobRepo {
	return &RetryJobRepo{pool: pool}
}

// Enqueue inserts a new pending job and fills in its generated fields.
func (r *RetryJobRepo) Enqueue(ctx context.Context, job *domain.RetryJob) error {
	query := `INSERT INTO retry_queue (job_type, endpoint, method, headers, payload,
		max_retries, current_retry, next_retry_at, status, correlation_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		job.JobType, job.Endpoint, job.Method, job.Headers, job.Payload,
		job.MaxRetries, job.CurrentRetry, job.NextRetryAt, job.Status, job.CorrelationID,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert retry job: %w", err)
	}
	return nil
}

// FetchDue returns pending jobs whose next attempt time has passed, oldest
// deadline first.
func (r *RetryJobRepo) FetchDue(ctx context.Context, limit int) ([]domain.RetryJob, error) {
	query := fmt.Sprintf(`SELECT %s FROM retry_queue
		WHERE status = 'pending' AND next_retry_at <= NOW()
		ORDER BY next_retry_at ASC LIMIT $1`, retryJobColumns)

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch due jobs: %w", err)
	}
	defer rows.Close()
	return scanRetryJobs(rows)
}

// MarkProcessing flags a job as claimed by an in-flight attempt.
func (r *RetryJobRepo) MarkProcessing(ctx context.Context, id int64) error {
	return r.setStatus(ctx, id, domain.JobStatusProcessing)
}

// MarkCompleted finalizes a successfully delivered job.
func (r *RetryJobRepo) MarkCompleted(ctx context.Context, id int64) error {
	return r.setStatus(ctx, id, domain.JobStatusCompleted)
}

func (r *RetryJobRepo) setStatus(ctx context.Context, id int64, status domain.JobStatus) error {
	query := `UPDATE retry_queue SET status = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("retry job not found: %d", id)
	}
	return nil
}

// Reschedule returns a failed attempt to pending with a new deadline.
func (r *RetryJobRepo) Reschedule(ctx context.Context, id int64, retryCount int, nextRetryAt time.Time, lastError string) error {
	query := `UPDATE retry_queue
		SET status = 'pending', current_retry = $1, next_retry_at = $2, last_error = $3, updated_at = NOW()
		WHERE id = $4`

	tag, err := r.pool.Exec(ctx, query, retryCount, nextRetryAt, lastError, id)
	if err != nil {
		return fmt.Errorf("reschedule job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("retry job not found: %d", id)
	}
	return nil
}

// MarkDeadLetter finalizes an exhausted job inside the caller's transaction,
// alongside the dead-letter insert.
func (r *RetryJobRepo) MarkDeadLetter(ctx context.Context, tx pgx.Tx, id int64, finalError string) error {
	query := `UPDATE retry_queue
		SET status = 'dead_letter', last_error = $1, updated_at = NOW()
		WHERE id = $2`

	tag, err := tx.Exec(ctx, query, finalError, id)
	if err != nil {
		return fmt.Errorf("mark job dead-letter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("retry job not found: %d", id)
	}
	return nil
}

// GetByID fetches a job by ID. Returns nil when no row exists.
func (r *RetryJobRepo) GetByID(ctx context.Context, id int64) (*domain.RetryJob, error) {
	query := fmt.Sprintf(`SELECT %s FROM retry_queue WHERE id = $1`, retryJobColumns)

	job := &domain.RetryJob{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&job.ID, &job.JobType, &job.Endpoint, &job.Method, &job.Headers, &job.Payload,
		&job.MaxRetries, &job.CurrentRetry, &job.NextRetryAt, &job.LastError,
		&job.Status, &job.CorrelationID, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan retry job: %w", err)
	}
	return job, nil
}

// List fetches jobs with filtering and pagination.
func (r *RetryJobRepo) List(ctx context.Context, params ports.JobListParams) ([]domain.RetryJob, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}
	if params.JobType != nil {
		conditions = append(conditions, fmt.Sprintf("job_type = $%d", argIdx))
		args = append(args, *params.JobType)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM retry_queue %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count retry jobs: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT %s FROM retry_queue %s
		ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, retryJobColumns, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list retry jobs: %w", err)
	}
	defer rows.Close()

	jobs, err := scanRetryJobs(rows)
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// Delete removes a job outright, whatever its status.
func (r *RetryJobRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM retry_queue WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete retry job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("retry job not found: %d", id)
	}
	return nil
}

// Stats returns per-status queue counts.
func (r *RetryJobRepo) Stats(ctx context.Context) (*ports.QueueStats, error) {
	query := `SELECT
		COUNT(*) FILTER (WHERE status = 'pending') AS pending,
		COUNT(*) FILTER (WHERE status = 'processing') AS processing,
		COUNT(*) FILTER (WHERE status = 'completed') AS completed,
		COUNT(*) FILTER (WHERE status = 'failed') AS failed,
		COUNT(*) FILTER (WHERE status = 'dead_letter') AS dead_letter,
		COUNT(*) AS total
		FROM retry_queue`

	stats := &ports.QueueStats{}
	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.Pending, &stats.Processing, &stats.Completed,
		&stats.Failed, &stats.DeadLetter, &stats.Total,
	)
	if err != nil {
		return nil, fmt.Errorf("get queue stats: %w", err)
	}
	return stats, nil
}

// scanRetryJobs drains a row set into job values.
func scanRetryJobs(rows pgx.Rows) ([]domain.RetryJob, error) {
	var jobs []domain.RetryJob
	for rows.Next() {
		job := domain.RetryJob{}
		err := rows.Scan(
			&job.ID, &job.JobType, &job.Endpoint, &job.Method, &job.Headers, &job.Payload,
			&job.MaxRetries, &job.CurrentRetry, &job.NextRetryAt, &job.LastError,
			&job.Status, &job.CorrelationID, &job.CreatedAt, &job.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan retry job row: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate retry job rows: %w", err)
	}
	return jobs, nil
}
