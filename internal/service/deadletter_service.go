package service

import (
	"context"
	"time"

	"mpesa-payment-gateway/internal/core/domain"
	"mpesa-payment-gateway/internal/core/ports"
	"mpesa-payment-gateway/pkg/apperror"

	"github.com/rs/zerolog"
)

// DeadLetterServiceImpl implements ports.DeadLetterService.
type DeadLetterServiceImpl struct {
	dlRepo    ports.DeadLetterRepository
	jobRepo   ports.RetryJobRepository
	backoff   ports.BackoffPolicy
	broadcast ports.Broadcaster
	log       zerolog.Logger
}

// NewDeadLetterService creates a new DeadLetterServiceImpl.
func NewDeadLetterService(
	dlRepo ports.DeadLetterRepository,
	jobRepo ports.RetryJobRepository,
	backoff ports.BackoffPolicy,
	broadcast ports.Broadcaster,
	log zerolog.Logger,
) *DeadLetterServiceImpl {
	return &DeadLetterServiceImpl{
		dlRepo:    dlRepo,
		jobRepo:   jobRepo,
		backoff:   backoff,
		broadcast: broadcast,
		log:       log,
	}
}

// List returns dead-letter items newest first.
func (s *DeadLetterServiceImpl) List(ctx context.Context, page, pageSize int) ([]domain.DeadLetterItem, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	items, total, err := s.dlRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, apperror.ErrStorage(err)
	}
	return items, total, nil
}

// Get fetches one dead-letter item.
func (s *DeadLetterServiceImpl) Get(ctx context.Context, id int64) (*domain.DeadLetterItem, error) {
	item, err := s.dlRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrStorage(err)
	}
	if item == nil {
		return nil, apperror.ErrDeadLetterNotFound(id)
	}
	return item, nil
}

// Requeue moves a dead-letter item back onto the retry queue with a fresh
// retry budget, scheduled one base delay out, then removes the dead-letter
// row.
// The enqueue lands before the delete, so a crash between the two leaves a
// duplicate to clean up rather than a lost job.
func (s *DeadLetterServiceImpl) Requeue(ctx context.Context, id int64) (*domain.RetryJob, error) {
	item, err := s.dlRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrStorage(err)
	}
	if item == nil {
		return nil, apperror.ErrDeadLetterNotFound(id)
	}

	job := &domain.RetryJob{
		JobType:       item.JobType,
		Endpoint:      item.Endpoint,
		Method:        item.Method,
		Headers:       item.Headers,
		Payload:       item.Payload,
		MaxRetries:    item.MaxRetries,
		CurrentRetry:  0,
		NextRetryAt:   time.Now().Add(s.backoff.Delay(0)),
		Status:        domain.JobStatusPending,
		CorrelationID: item.CorrelationID,
	}
	if err := s.jobRepo.Enqueue(ctx, job); err != nil {
		return nil, apperror.ErrStorage(err)
	}

	if err := s.dlRepo.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).
			Int64("dead_letter_id", id).
			Int64("job_id", job.ID).
			Msg("dead-letter delete after requeue failed")
		return nil, apperror.ErrStorage(err)
	}

	s.log.Info().
		Int64("dead_letter_id", id).
		Int64("job_id", job.ID).
		Msg("dead-letter item requeued")
	s.broadcast.Publish(domain.NewEvent(domain.EventRetryQueued, job))

	return job, nil
}

// Delete discards a dead-letter item permanently.
func (s *DeadLetterServiceImpl) Delete(ctx context.Context, id int64) error {
	item, err := s.dlRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.ErrStorage(err)
	}
	if item == nil {
		return apperror.ErrDeadLetterNotFound(id)
	}
	if err := s.dlRepo.Delete(ctx, id); err != nil {
		return apperror.ErrStorage(err)
	}
	s.log.Info().Int64("dead_letter_id", id).Msg("dead-letter item discarded")
	return nil
}
