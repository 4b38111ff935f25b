package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"mpesa-payment-gateway/config"
	"mpesa-payment-gateway/internal/core/domain"
	"mpesa-payment-gateway/internal/core/ports"
	"mpesa-payment-gateway/internal/core/ports/mocks"
	"mpesa-payment-gateway/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type retryTestDeps struct {
	svc        *RetryServiceImpl
	jobRepo    *mocks.MockRetryJobRepository
	dlRepo     *mocks.MockDeadLetterRepository
	transactor *mocks.MockDBTransactor
	broadcast  *mocks.MockBroadcaster
	ctrl       *gomock.Controller
}

func queueConfig() config.QueueConfig {
	return config.QueueConfig{
		BatchLimit:        10,
		DefaultMaxRetries: 5,
		Concurrency:       1,
		HTTPTimeout:       2 * time.Second,
		InitialDelay:      time.Millisecond,
		MaxDelay:          10 * time.Millisecond,
		Multiplier:        2.0,
		JitterFactor:      0,
	}
}

func setupRetryService(t *testing.T) *retryTestDeps {
	ctrl := gomock.NewController(t)
	d := &retryTestDeps{
		jobRepo:    mocks.NewMockRetryJobRepository(ctrl),
		dlRepo:     mocks.NewMockDeadLetterRepository(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
		broadcast:  mocks.NewMockBroadcaster(ctrl),
		ctrl:       ctrl,
	}
	cfg := queueConfig()
	d.svc = NewRetryService(
		d.jobRepo, d.dlRepo, d.transactor,
		NewExponentialBackoff(cfg), d.broadcast, cfg, zerolog.Nop(),
	)
	return d
}

// mockTx implements pgx.Tx for escalation tests.
type mockTx struct{ pgx.Tx }

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { return nil }

func TestRetryService_Enqueue(t *testing.T) {
	d := setupRetryService(t)
	defer d.ctrl.Finish()

	d.jobRepo.EXPECT().Enqueue(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, job *domain.RetryJob) error {
			assert.Equal(t, "POST", job.Method)
			assert.Equal(t, 5, job.MaxRetries)
			assert.Equal(t, domain.JobStatusPending, job.Status)
			assert.WithinDuration(t, time.Now(), job.NextRetryAt, time.Second)
			job.ID = 1
			return nil
		})
	d.broadcast.EXPECT().Publish(gomock.Any())

	job, err := d.svc.Enqueue(context.Background(), ports.EnqueueJobRequest{
		JobType:  "webhook_delivery",
		Endpoint: "https://merchant.example.com/hooks",
		Payload:  `{"id":1}`,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), job.ID)
}

func TestRetryService_Enqueue_FirstAttemptWaitsOneDelay(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	jobRepo := mocks.NewMockRetryJobRepository(ctrl)
	broadcast := mocks.NewMockBroadcaster(ctrl)

	cfg := queueConfig()
	cfg.InitialDelay = 2 * time.Second
	svc := NewRetryService(
		jobRepo, mocks.NewMockDeadLetterRepository(ctrl), mocks.NewMockDBTransactor(ctrl),
		NewExponentialBackoff(cfg), broadcast, cfg, zerolog.Nop(),
	)

	before := time.Now()
	jobRepo.EXPECT().Enqueue(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, job *domain.RetryJob) error {
			assert.False(t, job.NextRetryAt.Before(before.Add(cfg.InitialDelay)))
			return nil
		})
	broadcast.EXPECT().Publish(gomock.Any())

	_, err := svc.Enqueue(context.Background(), ports.EnqueueJobRequest{
		JobType:  "webhook_delivery",
		Endpoint: "https://merchant.example.com/hooks",
	})
	require.NoError(t, err)
}

func TestRetryService_Enqueue_Validation(t *testing.T) {
	d := setupRetryService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.Enqueue(context.Background(), ports.EnqueueJobRequest{})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "QUE_003", appErr.Code)

	_, err = d.svc.Enqueue(context.Background(), ports.EnqueueJobRequest{
		Endpoint: "https://x.example.com",
		Method:   "TRACE",
	})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "QUE_003", appErr.Code)
}

func TestRetryService_ProcessDue_Success(t *testing.T) {
	d := setupRetryService(t)
	defer d.ctrl.Finish()

	var gotBody atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody.Store(r.Header.Get("Content-Type") == "application/json")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	job := domain.RetryJob{
		ID: 1, JobType: "webhook_delivery", Endpoint: server.URL,
		Method: "POST", Payload: `{"id":1}`, MaxRetries: 5,
		Status: domain.JobStatusPending,
	}
	d.jobRepo.EXPECT().FetchDue(gomock.Any(), 10).Return([]domain.RetryJob{job}, nil)
	d.jobRepo.EXPECT().MarkProcessing(gomock.Any(), int64(1)).Return(nil)
	d.jobRepo.EXPECT().MarkCompleted(gomock.Any(), int64(1)).Return(nil)
	d.broadcast.EXPECT().Publish(gomock.Any())

	report, err := d.svc.ProcessDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Fetched)
	assert.Equal(t, 1, report.Succeeded)
	assert.True(t, gotBody.Load())
}

func TestRetryService_ProcessDue_FailureReschedules(t *testing.T) {
	d := setupRetryService(t)
	defer d.ctrl.Finish()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	job := domain.RetryJob{
		ID: 1, Endpoint: server.URL, Method: "POST",
		MaxRetries: 5, CurrentRetry: 1, Status: domain.JobStatusPending,
	}
	d.jobRepo.EXPECT().FetchDue(gomock.Any(), 10).Return([]domain.RetryJob{job}, nil)
	d.jobRepo.EXPECT().MarkProcessing(gomock.Any(), int64(1)).Return(nil)
	d.jobRepo.EXPECT().
		Reschedule(gomock.Any(), int64(1), 2, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, _ int, next time.Time, lastError string) error {
			assert.Contains(t, lastError, "503")
			assert.True(t, next.After(time.Now().Add(-time.Second)))
			return nil
		})
	d.broadcast.EXPECT().Publish(gomock.Any())

	report, err := d.svc.ProcessDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Retried)
	assert.Zero(t, report.Succeeded)
}

func TestRetryService_ProcessDue_Escalates(t *testing.T) {
	d := setupRetryService(t)
	defer d.ctrl.Finish()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	job := domain.RetryJob{
		ID: 1, Endpoint: server.URL, Method: "POST",
		MaxRetries: 3, CurrentRetry: 2, Status: domain.JobStatusPending,
	}
	tx := &mockTx{}
	d.jobRepo.EXPECT().FetchDue(gomock.Any(), 10).Return([]domain.RetryJob{job}, nil)
	d.jobRepo.EXPECT().MarkProcessing(gomock.Any(), int64(1)).Return(nil)
	d.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	d.dlRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ pgx.Tx, item *domain.DeadLetterItem) error {
			assert.Equal(t, int64(1), item.OriginalJobID)
			assert.Contains(t, item.FinalError, "500")
			return nil
		})
	d.jobRepo.EXPECT().MarkDeadLetter(gomock.Any(), tx, int64(1), gomock.Any()).Return(nil)
	d.broadcast.EXPECT().Publish(gomock.Any())

	report, err := d.svc.ProcessDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.DeadLetter)
}

func TestRetryService_ProcessDue_PartialFailureIsolation(t *testing.T) {
	d := setupRetryService(t)
	defer d.ctrl.Finish()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	jobs := []domain.RetryJob{
		{ID: 1, Endpoint: server.URL, Method: "POST", MaxRetries: 5},
		{ID: 2, Endpoint: server.URL, Method: "POST", MaxRetries: 5},
	}
	d.jobRepo.EXPECT().FetchDue(gomock.Any(), 10).Return(jobs, nil)
	// Job 1 cannot be claimed; job 2 still runs.
	d.jobRepo.EXPECT().MarkProcessing(gomock.Any(), int64(1)).Return(assert.AnError)
	d.jobRepo.EXPECT().MarkProcessing(gomock.Any(), int64(2)).Return(nil)
	d.jobRepo.EXPECT().MarkCompleted(gomock.Any(), int64(2)).Return(nil)
	d.broadcast.EXPECT().Publish(gomock.Any())

	report, err := d.svc.ProcessDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Fetched)
	assert.Equal(t, 1, report.Succeeded)
}

func TestRetryService_ProcessDue_EmptyQueue(t *testing.T) {
	d := setupRetryService(t)
	defer d.ctrl.Finish()

	d.jobRepo.EXPECT().FetchDue(gomock.Any(), 10).Return(nil, nil)

	report, err := d.svc.ProcessDue(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Fetched)
}

func TestRetryService_ProcessDue_SerializedPasses(t *testing.T) {
	d := setupRetryService(t)
	defer d.ctrl.Finish()

	release := make(chan struct{})
	started := make(chan struct{})
	d.jobRepo.EXPECT().FetchDue(gomock.Any(), 10).
		DoAndReturn(func(context.Context, int) ([]domain.RetryJob, error) {
			close(started)
			<-release
			return nil, nil
		})

	go d.svc.ProcessDue(context.Background()) //nolint:errcheck
	<-started

	// Overlapping call skips instead of double-fetching.
	report, err := d.svc.ProcessDue(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Skipped)
	close(release)
}

func TestRetryService_Stats(t *testing.T) {
	d := setupRetryService(t)
	defer d.ctrl.Finish()

	d.jobRepo.EXPECT().Stats(gomock.Any()).Return(&ports.QueueStats{Pending: 2, Total: 5}, nil)

	stats, err := d.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Pending)
}

func TestRetryService_ProcessDue_ProviderJobReplays(t *testing.T) {
	d := setupRetryService(t)
	defer d.ctrl.Finish()

	replayer := mocks.NewMockProviderReplayer(d.ctrl)
	d.svc.SetProviderReplayer(replayer)

	payload := `{"PhoneNumber":"254708374149","Amount":100}`
	job := domain.RetryJob{
		ID: 7, JobType: "stk_push", Endpoint: "internal://provider/stk_push",
		Method: "POST", Payload: payload, MaxRetries: 3,
		Status: domain.JobStatusPending,
	}
	d.jobRepo.EXPECT().FetchDue(gomock.Any(), 10).Return([]domain.RetryJob{job}, nil)
	d.jobRepo.EXPECT().MarkProcessing(gomock.Any(), int64(7)).Return(nil)
	replayer.EXPECT().ReplayProvider(gomock.Any(), "stk_push", []byte(payload)).Return(nil)
	d.jobRepo.EXPECT().MarkCompleted(gomock.Any(), int64(7)).Return(nil)
	d.broadcast.EXPECT().Publish(gomock.Any())

	report, err := d.svc.ProcessDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
}

func TestRetryService_ProcessDue_ProviderJobWithoutReplayerReschedules(t *testing.T) {
	d := setupRetryService(t)
	defer d.ctrl.Finish()

	job := domain.RetryJob{
		ID: 8, JobType: "b2c_payment", Endpoint: "internal://provider/b2c_payment",
		Method: "POST", MaxRetries: 3, Status: domain.JobStatusPending,
	}
	d.jobRepo.EXPECT().FetchDue(gomock.Any(), 10).Return([]domain.RetryJob{job}, nil)
	d.jobRepo.EXPECT().MarkProcessing(gomock.Any(), int64(8)).Return(nil)
	d.jobRepo.EXPECT().
		Reschedule(gomock.Any(), int64(8), 1, gomock.Any(), gomock.Any()).
		Return(nil)
	d.broadcast.EXPECT().Publish(gomock.Any())

	report, err := d.svc.ProcessDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Retried)
}

func TestRetryService_DeleteJob(t *testing.T) {
	d := setupRetryService(t)
	defer d.ctrl.Finish()

	d.jobRepo.EXPECT().GetByID(gomock.Any(), int64(3)).
		Return(&domain.RetryJob{ID: 3, Status: domain.JobStatusCompleted}, nil)
	d.jobRepo.EXPECT().Delete(gomock.Any(), int64(3)).Return(nil)

	require.NoError(t, d.svc.DeleteJob(context.Background(), 3))
}

func TestRetryService_DeleteJob_NotFound(t *testing.T) {
	d := setupRetryService(t)
	defer d.ctrl.Finish()

	d.jobRepo.EXPECT().GetByID(gomock.Any(), int64(99)).Return(nil, nil)

	err := d.svc.DeleteJob(context.Background(), 99)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "QUE_004", appErr.Code)
}
