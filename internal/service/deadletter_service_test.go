package service

import (
	"context"
	"testing"
	"time"

	"mpesa-payment-gateway/internal/core/domain"
	"mpesa-payment-gateway/internal/core/ports/mocks"
	"mpesa-payment-gateway/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type deadLetterTestDeps struct {
	svc       *DeadLetterServiceImpl
	dlRepo    *mocks.MockDeadLetterRepository
	jobRepo   *mocks.MockRetryJobRepository
	broadcast *mocks.MockBroadcaster
	ctrl      *gomock.Controller
}

func setupDeadLetterService(t *testing.T) *deadLetterTestDeps {
	ctrl := gomock.NewController(t)
	d := &deadLetterTestDeps{
		dlRepo:    mocks.NewMockDeadLetterRepository(ctrl),
		jobRepo:   mocks.NewMockRetryJobRepository(ctrl),
		broadcast: mocks.NewMockBroadcaster(ctrl),
		ctrl:      ctrl,
	}
	d.svc = NewDeadLetterService(
		d.dlRepo, d.jobRepo, NewExponentialBackoff(queueConfig()), d.broadcast, zerolog.Nop(),
	)
	return d
}

func sampleDeadLetter() *domain.DeadLetterItem {
	return &domain.DeadLetterItem{
		ID:                9,
		OriginalJobID:     4,
		JobType:           "webhook_delivery",
		Endpoint:          "https://merchant.example.com/hooks",
		Method:            "POST",
		Headers:           `{"Content-Type":"application/json"}`,
		Payload:           `{"id":4}`,
		MaxRetries:        5,
		FinalError:        "status 503 after 5 attempts",
		OriginalCreatedAt: time.Now().Add(-time.Hour),
	}
}

func TestDeadLetterService_Requeue(t *testing.T) {
	d := setupDeadLetterService(t)
	defer d.ctrl.Finish()

	item := sampleDeadLetter()
	before := time.Now()
	d.dlRepo.EXPECT().GetByID(gomock.Any(), int64(9)).Return(item, nil)
	d.jobRepo.EXPECT().Enqueue(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, job *domain.RetryJob) error {
			assert.Zero(t, job.CurrentRetry)
			assert.False(t, job.NextRetryAt.Before(before.Add(queueConfig().InitialDelay)))
			assert.Equal(t, item.Endpoint, job.Endpoint)
			assert.Equal(t, item.MaxRetries, job.MaxRetries)
			assert.Equal(t, domain.JobStatusPending, job.Status)
			job.ID = 77
			return nil
		})
	d.dlRepo.EXPECT().Delete(gomock.Any(), int64(9)).Return(nil)
	d.broadcast.EXPECT().Publish(gomock.Any())

	job, err := d.svc.Requeue(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, int64(77), job.ID)
}

func TestDeadLetterService_Requeue_NotFound(t *testing.T) {
	d := setupDeadLetterService(t)
	defer d.ctrl.Finish()

	d.dlRepo.EXPECT().GetByID(gomock.Any(), int64(9)).Return(nil, nil)

	_, err := d.svc.Requeue(context.Background(), 9)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "QUE_002", appErr.Code)
}

func TestDeadLetterService_Requeue_EnqueueFails(t *testing.T) {
	d := setupDeadLetterService(t)
	defer d.ctrl.Finish()

	d.dlRepo.EXPECT().GetByID(gomock.Any(), int64(9)).Return(sampleDeadLetter(), nil)
	d.jobRepo.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(assert.AnError)

	// The dead-letter row is untouched when the enqueue fails.
	_, err := d.svc.Requeue(context.Background(), 9)
	assert.Error(t, err)
}

func TestDeadLetterService_Get(t *testing.T) {
	d := setupDeadLetterService(t)
	defer d.ctrl.Finish()

	d.dlRepo.EXPECT().GetByID(gomock.Any(), int64(9)).Return(sampleDeadLetter(), nil)

	item, err := d.svc.Get(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, int64(4), item.OriginalJobID)
}

func TestDeadLetterService_List_ClampsPagination(t *testing.T) {
	d := setupDeadLetterService(t)
	defer d.ctrl.Finish()

	d.dlRepo.EXPECT().List(gomock.Any(), 1, 20).Return(nil, int64(0), nil)

	_, total, err := d.svc.List(context.Background(), -3, 5000)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestDeadLetterService_Delete(t *testing.T) {
	d := setupDeadLetterService(t)
	defer d.ctrl.Finish()

	d.dlRepo.EXPECT().GetByID(gomock.Any(), int64(9)).Return(sampleDeadLetter(), nil)
	d.dlRepo.EXPECT().Delete(gomock.Any(), int64(9)).Return(nil)

	assert.NoError(t, d.svc.Delete(context.Background(), 9))
}
