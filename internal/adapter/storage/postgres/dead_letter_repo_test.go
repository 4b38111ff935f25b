package postgres

import (
	"context"
	"testing"
	"time"

	"mpesa-payment-gateway/internal/core/domain"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDeadLetter() *domain.DeadLetterItem {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.DeadLetterItem{
		ID:                7,
		OriginalJobID:     42,
		JobType:           "webhook_delivery",
		Endpoint:          "https://merchant.example.com/hooks/payment",
		Method:            "POST",
		Headers:           `{"Content-Type":"application/json"}`,
		Payload:           `{"transaction_id":7}`,
		MaxRetries:        5,
		FinalError:        "status 503 after 5 attempts",
		CorrelationID:     strPtr("txn-7"),
		OriginalCreatedAt: now.Add(-time.Hour),
		CreatedAt:         now,
	}
}

func deadLetterRow(item *domain.DeadLetterItem) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "original_job_id", "job_type", "endpoint", "method",
		"headers", "payload", "max_retries", "final_error", "correlation_id",
		"original_created_at", "created_at"}).AddRow(
		item.ID, item.OriginalJobID, item.JobType, item.Endpoint, item.Method,
		item.Headers, item.Payload, item.MaxRetries, item.FinalError,
		item.CorrelationID, item.OriginalCreatedAt, item.CreatedAt,
	)
}

func TestDeadLetterRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDeadLetterRepo(mock)
	item := newTestDeadLetter()
	item.ID = 0

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO dead_letter_queue").
		WithArgs(
			item.OriginalJobID, item.JobType, item.Endpoint, item.Method,
			item.Headers, item.Payload, item.MaxRetries, item.FinalError,
			item.CorrelationID, item.OriginalCreatedAt,
		).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).
			AddRow(int64(7), time.Now().UTC()))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, item)
	require.NoError(t, err)
	assert.Equal(t, int64(7), item.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeadLetterRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDeadLetterRepo(mock)
	item := newTestDeadLetter()

	mock.ExpectQuery("SELECT .+ FROM dead_letter_queue WHERE id").
		WithArgs(item.ID).
		WillReturnRows(deadLetterRow(item))

	result, err := repo.GetByID(context.Background(), item.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, item.OriginalJobID, result.OriginalJobID)
	assert.Equal(t, item.FinalError, result.FinalError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeadLetterRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDeadLetterRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM dead_letter_queue WHERE id").
		WithArgs(int64(99)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	result, err := repo.GetByID(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeadLetterRepo_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDeadLetterRepo(mock)
	item := newTestDeadLetter()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT .+ FROM dead_letter_queue").
		WithArgs(20, 0).
		WillReturnRows(deadLetterRow(item))

	items, total, err := repo.List(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeadLetterRepo_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDeadLetterRepo(mock)

	mock.ExpectExec("DELETE FROM dead_letter_queue").
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err = repo.Delete(context.Background(), 7)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeadLetterRepo_Delete_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDeadLetterRepo(mock)

	mock.ExpectExec("DELETE FROM dead_letter_queue").
		WithArgs(int64(99)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err = repo.Delete(context.Background(), 99)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
