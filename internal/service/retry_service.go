package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"mpesa-payment-gateway/config"
	"mpesa-payment-gateway/internal/core/domain"
	"mpesa-payment-gateway/internal/core/ports"
	"mpesa-payment-gateway/pkg/apperror"

	"github.com/rs/zerolog"
)

// providerEndpointPrefix marks jobs that replay a provider call instead of
// a plain HTTP delivery. Such jobs carry the serialized original request as
// payload and are dispatched through ports.ProviderReplayer.
const providerEndpointPrefix = "internal://provider/"

// RetryServiceImpl implements ports.RetryService: a durable outbound
// delivery queue with exponential backoff and dead-letter escalation.
type RetryServiceImpl struct {
	jobRepo    ports.RetryJobRepository
	dlRepo     ports.DeadLetterRepository
	transactor ports.DBTransactor
	backoff    ports.BackoffPolicy
	broadcast  ports.Broadcaster
	client     *http.Client
	replayer   ports.ProviderReplayer
	cfg        config.QueueConfig
	log        zerolog.Logger

	// busy serializes ProcessDue so overlapping ticks never double-send.
	busy sync.Mutex
}

// NewRetryService creates a new RetryServiceImpl.
func NewRetryService(
	jobRepo ports.RetryJobRepository,
	dlRepo ports.DeadLetterRepository,
	transactor ports.DBTransactor,
	backoff ports.BackoffPolicy,
	broadcast ports.Broadcaster,
	cfg config.QueueConfig,
	log zerolog.Logger,
) *RetryServiceImpl {
	return &RetryServiceImpl{
		jobRepo:    jobRepo,
		dlRepo:     dlRepo,
		transactor: transactor,
		backoff:    backoff,
		broadcast:  broadcast,
		client:     &http.Client{Timeout: cfg.HTTPTimeout},
		cfg:        cfg,
		log:        log,
	}
}

// SetHTTPClient swaps the delivery client. Tests use it to point at a stub
// server with short timeouts.
func (s *RetryServiceImpl) SetHTTPClient(client *http.Client) {
	s.client = client
}

// SetProviderReplayer wires the dispatcher for internal provider jobs. Set
// after construction because the payment service itself depends on this
// queue for outage recovery.
func (s *RetryServiceImpl) SetProviderReplayer(replayer ports.ProviderReplayer) {
	s.replayer = replayer
}

// Enqueue durably records an outbound delivery for the processor to pick up.
// The first attempt is scheduled one base backoff delay out.
func (s *RetryServiceImpl) Enqueue(ctx context.Context, req ports.EnqueueJobRequest) (*domain.RetryJob, error) {
	if req.Endpoint == "" {
		return nil, apperror.ErrInvalidJob("endpoint is required")
	}
	method := strings.ToUpper(req.Method)
	switch method {
	case "":
		method = http.MethodPost
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return nil, apperror.ErrInvalidJob(fmt.Sprintf("unsupported method %q", req.Method))
	}

	maxRetries := s.cfg.DefaultMaxRetries
	if req.MaxRetries != nil {
		if *req.MaxRetries <= 0 {
			return nil, apperror.ErrInvalidJob("max_retries must be positive")
		}
		maxRetries = *req.MaxRetries
	}

	headers := "{}"
	if len(req.Headers) > 0 {
		encoded, err := encodeHeaders(req.Headers)
		if err != nil {
			return nil, apperror.ErrInvalidJob(err.Error())
		}
		headers = encoded
	}

	job := &domain.RetryJob{
		JobType:       req.JobType,
		Endpoint:      req.Endpoint,
		Method:        method,
		Headers:       headers,
		Payload:       req.Payload,
		MaxRetries:    maxRetries,
		CurrentRetry:  0,
		NextRetryAt:   time.Now().Add(s.backoff.Delay(0)),
		Status:        domain.JobStatusPending,
		CorrelationID: req.CorrelationID,
	}
	if err := s.jobRepo.Enqueue(ctx, job); err != nil {
		return nil, apperror.ErrStorage(err)
	}

	s.log.Info().
		Int64("job_id", job.ID).
		Str("job_type", job.JobType).
		Str("endpoint", job.Endpoint).
		Msg("retry job enqueued")
	s.broadcast.Publish(domain.NewEvent(domain.EventRetryQueued, job))

	return job, nil
}

// ProcessDue drains one due batch. A second caller arriving while a pass is
// in flight returns immediately with Skipped set; jobs are never processed
// twice concurrently.
func (s *RetryServiceImpl) ProcessDue(ctx context.Context) (*ports.ProcessReport, error) {
	if !s.busy.TryLock() {
		return &ports.ProcessReport{Skipped: true}, nil
	}
	defer s.busy.Unlock()

	jobs, err := s.jobRepo.FetchDue(ctx, s.cfg.BatchLimit)
	if err != nil {
		return nil, apperror.ErrStorage(err)
	}

	report := &ports.ProcessReport{Fetched: len(jobs)}
	if len(jobs) == 0 {
		return report, nil
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.concurrency())

	for i := range jobs {
		job := jobs[i]
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			outcome := s.processJob(ctx, &job)
			mu.Lock()
			switch outcome {
			case outcomeCompleted:
				report.Succeeded++
			case outcomeRescheduled:
				report.Retried++
			case outcomeDeadLetter:
				report.DeadLetter++
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	s.log.Info().
		Int("fetched", report.Fetched).
		Int("succeeded", report.Succeeded).
		Int("retried", report.Retried).
		Int("dead_letter", report.DeadLetter).
		Msg("retry pass finished")
	return report, nil
}

func (s *RetryServiceImpl) concurrency() int {
	if s.cfg.Concurrency > 0 {
		return s.cfg.Concurrency
	}
	return 1
}

type jobOutcome int

const (
	outcomeSkipped jobOutcome = iota
	outcomeCompleted
	outcomeRescheduled
	outcomeDeadLetter
)

// processJob runs one delivery attempt end to end. Errors on a single job
// are logged and absorbed so the rest of the batch still runs.
func (s *RetryServiceImpl) processJob(ctx context.Context, job *domain.RetryJob) jobOutcome {
	log := s.log.With().Int64("job_id", job.ID).Str("job_type", job.JobType).Logger()

	if err := s.jobRepo.MarkProcessing(ctx, job.ID); err != nil {
		log.Error().Err(err).Msg("claim job failed")
		return outcomeSkipped
	}

	attemptErr := s.attempt(ctx, job)
	if attemptErr == nil {
		if err := s.jobRepo.MarkCompleted(ctx, job.ID); err != nil {
			log.Error().Err(err).Msg("mark job completed failed")
			return outcomeSkipped
		}
		log.Info().Int("attempts", job.CurrentRetry+1).Msg("delivery succeeded")
		job.Status = domain.JobStatusCompleted
		s.broadcast.Publish(domain.NewEvent(domain.EventRetryCompleted, job))
		return outcomeCompleted
	}

	newRetryCount := job.CurrentRetry + 1
	if newRetryCount >= job.MaxRetries {
		if err := s.escalate(ctx, job, attemptErr.Error()); err != nil {
			log.Error().Err(err).Msg("dead-letter escalation failed")
			return outcomeSkipped
		}
		log.Warn().
			Int("attempts", newRetryCount).
			Str("final_error", attemptErr.Error()).
			Msg("job escalated to dead-letter")
		job.Status = domain.JobStatusDeadLetter
		s.broadcast.Publish(domain.NewEvent(domain.EventRetryFailed, job))
		return outcomeDeadLetter
	}

	delay := s.backoff.Delay(newRetryCount)
	nextRetryAt := time.Now().Add(delay)
	if err := s.jobRepo.Reschedule(ctx, job.ID, newRetryCount, nextRetryAt, attemptErr.Error()); err != nil {
		log.Error().Err(err).Msg("reschedule failed")
		return outcomeSkipped
	}
	log.Info().
		Int("retry", newRetryCount).
		Dur("delay", delay).
		Str("error", attemptErr.Error()).
		Msg("delivery failed, rescheduled")
	job.CurrentRetry = newRetryCount
	job.NextRetryAt = nextRetryAt
	s.broadcast.Publish(domain.NewEvent(domain.EventRetryQueued, job))
	return outcomeRescheduled
}

// attempt executes one delivery. Provider jobs replay through the payment
// layer; everything else is a plain HTTP call where any transport error or
// non-2xx response counts as a failed attempt.
func (s *RetryServiceImpl) attempt(ctx context.Context, job *domain.RetryJob) error {
	if strings.HasPrefix(job.Endpoint, providerEndpointPrefix) {
		if s.replayer == nil {
			return fmt.Errorf("no provider replayer configured for job type %q", job.JobType)
		}
		return s.replayer.ReplayProvider(ctx, job.JobType, []byte(job.Payload))
	}

	headers, err := job.DecodeHeaders()
	if err != nil {
		return err
	}

	var body io.Reader
	if job.Payload != "" {
		body = strings.NewReader(job.Payload)
	}
	req, err := http.NewRequestWithContext(ctx, job.Method, job.Endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if _, ok := headers["Content-Type"]; !ok && job.Payload != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// escalate moves an exhausted job to the dead-letter queue. The status flip
// and the dead-letter insert commit together or not at all.
func (s *RetryServiceImpl) escalate(ctx context.Context, job *domain.RetryJob, finalError string) error {
	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	item := &domain.DeadLetterItem{
		OriginalJobID:     job.ID,
		JobType:           job.JobType,
		Endpoint:          job.Endpoint,
		Method:            job.Method,
		Headers:           job.Headers,
		Payload:           job.Payload,
		MaxRetries:        job.MaxRetries,
		FinalError:        finalError,
		CorrelationID:     job.CorrelationID,
		OriginalCreatedAt: job.CreatedAt,
	}
	if err := s.dlRepo.Create(ctx, tx, item); err != nil {
		return err
	}
	if err := s.jobRepo.MarkDeadLetter(ctx, tx, job.ID, finalError); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Stats returns per-status queue counts.
func (s *RetryServiceImpl) Stats(ctx context.Context) (*ports.QueueStats, error) {
	stats, err := s.jobRepo.Stats(ctx)
	if err != nil {
		return nil, apperror.ErrStorage(err)
	}
	return stats, nil
}

// ListJobs returns queue contents for the dashboard.
func (s *RetryServiceImpl) ListJobs(ctx context.Context, params ports.JobListParams) ([]domain.RetryJob, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}
	jobs, total, err := s.jobRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.ErrStorage(err)
	}
	return jobs, total, nil
}

// DeleteJob removes a queued job regardless of status. Completed rows and
// deliveries abandoned by an operator are pruned this way.
func (s *RetryServiceImpl) DeleteJob(ctx context.Context, id int64) error {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.ErrStorage(err)
	}
	if job == nil {
		return apperror.ErrJobNotFound(id)
	}
	if err := s.jobRepo.Delete(ctx, id); err != nil {
		return apperror.ErrStorage(err)
	}
	s.log.Info().Int64("job_id", id).Str("status", string(job.Status)).Msg("retry job deleted")
	return nil
}

// encodeHeaders serializes a header map for storage.
func encodeHeaders(h map[string]string) (string, error) {
	encoded, err := json.Marshal(h)
	if err != nil {
		return "", fmt.Errorf("encode headers: %w", err)
	}
	return string(encoded), nil
}
