package postgres

import (
	"context"
	"testing"
	"time"

	"mpesa-payment-gateway/internal/core/domain"
	"mpesa-payment-gateway/internal/core/ports"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newTestJob() *domain.RetryJob {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.RetryJob{
		ID:            42,
		JobType:       "webhook_delivery",
		Endpoint:      "https://merchant.example.com/hooks/payment",
		Method:        "POST",
		Headers:       `{"Content-Type":"application/json"}`,
		Payload:       `{"transaction_id":7}`,
		MaxRetries:    5,
		CurrentRetry:  0,
		NextRetryAt:   now,
		Status:        domain.JobStatusPending,
		CorrelationID: strPtr("txn-7"),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func jobColumns() []string {
	return []string{"id", "job_type", "endpoint", "method", "headers", "payload",
		"max_retries", "current_retry", "next_retry_at", "last_error", "status",
		"correlation_id", "created_at", "updated_at"}
}

func jobRow(j *domain.RetryJob) *pgxmock.Rows {
	return pgxmock.NewRows(jobColumns()).AddRow(
		j.ID, j.JobType, j.Endpoint, j.Method, j.Headers, j.Payload,
		j.MaxRetries, j.CurrentRetry, j.NextRetryAt, j.LastError, j.Status,
		j.CorrelationID, j.CreatedAt, j.UpdatedAt,
	)
}

func TestRetryJobRepo_Enqueue(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRetryJobRepo(mock)
	job := newTestJob()
	job.ID = 0
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO retry_queue").
		WithArgs(
			job.JobType, job.Endpoint, job.Method, job.Headers, job.Payload,
			job.MaxRetries, job.CurrentRetry, job.NextRetryAt, job.Status, job.CorrelationID,
		).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(42), now, now))

	err = repo.Enqueue(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, int64(42), job.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetryJobRepo_FetchDue(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRetryJobRepo(mock)
	job := newTestJob()

	mock.ExpectQuery("SELECT .+ FROM retry_queue").
		WithArgs(10).
		WillReturnRows(jobRow(job))

	jobs, err := repo.FetchDue(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, job.ID, jobs[0].ID)
	assert.Equal(t, domain.JobStatusPending, jobs[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetryJobRepo_FetchDue_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRetryJobRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM retry_queue").
		WithArgs(10).
		WillReturnRows(pgxmock.NewRows(jobColumns()))

	jobs, err := repo.FetchDue(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, jobs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetryJobRepo_MarkCompleted(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRetryJobRepo(mock)

	mock.ExpectExec("UPDATE retry_queue SET status").
		WithArgs(domain.JobStatusCompleted, int64(42)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.MarkCompleted(context.Background(), 42)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetryJobRepo_MarkProcessing_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRetryJobRepo(mock)

	mock.ExpectExec("UPDATE retry_queue SET status").
		WithArgs(domain.JobStatusProcessing, int64(99)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.MarkProcessing(context.Background(), 99)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetryJobRepo_Reschedule(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRetryJobRepo(mock)
	next := time.Now().Add(2 * time.Second)

	mock.ExpectExec("UPDATE retry_queue").
		WithArgs(1, next, "connection refused", int64(42)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.Reschedule(context.Background(), 42, 1, next, "connection refused")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetryJobRepo_MarkDeadLetter(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRetryJobRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE retry_queue").
		WithArgs("timeout after 5 attempts", int64(42)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.MarkDeadLetter(context.Background(), tx, 42, "timeout after 5 attempts")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetryJobRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRetryJobRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM retry_queue WHERE id").
		WithArgs(int64(99)).
		WillReturnRows(pgxmock.NewRows(jobColumns()))

	job, err := repo.GetByID(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, job)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetryJobRepo_List_WithStatusFilter(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRetryJobRepo(mock)
	job := newTestJob()
	status := domain.JobStatusPending

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(status).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT .+ FROM retry_queue").
		WithArgs(status, 20, 0).
		WillReturnRows(jobRow(job))

	jobs, total, err := repo.List(context.Background(), ports.JobListParams{
		Status:   &status,
		Page:     1,
		PageSize: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, jobs, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetryJobRepo_Stats(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRetryJobRepo(mock)

	mock.ExpectQuery("SELECT").
		WillReturnRows(pgxmock.NewRows([]string{"pending", "processing", "completed", "failed", "dead_letter", "total"}).
			AddRow(int64(3), int64(1), int64(10), int64(0), int64(2), int64(16)))

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Pending)
	assert.Equal(t, int64(2), stats.DeadLetter)
	assert.Equal(t, int64(16), stats.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
