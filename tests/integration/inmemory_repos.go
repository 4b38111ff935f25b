package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"mpesa-payment-gateway/internal/core/domain"
	"mpesa-payment-gateway/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// fakeTx satisfies pgx.Tx for repositories that run inside a caller-owned
// transaction. The in-memory stores apply writes immediately, so commit and
// rollback are no-ops.
type fakeTx struct {
	pgx.Tx
}

func (fakeTx) Commit(ctx context.Context) error   { return nil }
func (fakeTx) Rollback(ctx context.Context) error { return nil }

type fakeTransactor struct{}

func (fakeTransactor) Begin(ctx context.Context) (pgx.Tx, error) { return fakeTx{}, nil }

// --- In-Memory Retry Job Repo ---

type inMemoryJobRepo struct {
	mu     sync.RWMutex
	jobs   map[int64]*domain.RetryJob
	nextID int64
}

func newInMemoryJobRepo() *inMemoryJobRepo {
	return &inMemoryJobRepo{jobs: make(map[int64]*domain.RetryJob), nextID: 1}
}

func (r *inMemoryJobRepo) Enqueue(ctx context.Context, job *domain.RetryJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job.ID = r.nextID
	r.nextID++
	job.CreatedAt = time.Now()
	job.UpdatedAt = job.CreatedAt
	cp := *job
	r.jobs[job.ID] = &cp
	return nil
}

func (r *inMemoryJobRepo) FetchDue(ctx context.Context, limit int) ([]domain.RetryJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	now := time.Now()
	var due []domain.RetryJob
	for _, j := range r.jobs {
		if j.Status == domain.JobStatusPending && !j.NextRetryAt.After(now) {
			due = append(due, *j)
		}
	}
	sort.Slice(due, func(i, k int) bool { return due[i].NextRetryAt.Before(due[k].NextRetryAt) })
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (r *inMemoryJobRepo) MarkProcessing(ctx context.Context, id int64) error {
	return r.setStatus(id, domain.JobStatusProcessing)
}

func (r *inMemoryJobRepo) MarkCompleted(ctx context.Context, id int64) error {
	return r.setStatus(id, domain.JobStatusCompleted)
}

func (r *inMemoryJobRepo) setStatus(id int64, status domain.JobStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return fmt.Errorf("job %d not found", id)
	}
	j.Status = status
	j.UpdatedAt = time.Now()
	return nil
}

func (r *inMemoryJobRepo) Reschedule(ctx context.Context, id int64, retryCount int, nextRetryAt time.Time, lastError string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return fmt.Errorf("job %d not found", id)
	}
	j.Status = domain.JobStatusPending
	j.CurrentRetry = retryCount
	j.NextRetryAt = nextRetryAt
	j.LastError = &lastError
	j.UpdatedAt = time.Now()
	return nil
}

func (r *inMemoryJobRepo) MarkDeadLetter(ctx context.Context, tx pgx.Tx, id int64, finalError string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return fmt.Errorf("job %d not found", id)
	}
	j.Status = domain.JobStatusDeadLetter
	j.LastError = &finalError
	j.UpdatedAt = time.Now()
	return nil
}

func (r *inMemoryJobRepo) GetByID(ctx context.Context, id int64) (*domain.RetryJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, nil
	}
	cp := *j
	return &cp, nil
}

func (r *inMemoryJobRepo) List(ctx context.Context, params ports.JobListParams) ([]domain.RetryJob, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []domain.RetryJob
	for _, j := range r.jobs {
		if params.Status != nil && j.Status != *params.Status {
			continue
		}
		if params.JobType != nil && j.JobType != *params.JobType {
			continue
		}
		all = append(all, *j)
	}
	sort.Slice(all, func(i, k int) bool { return all[i].ID < all[k].ID })
	return paginate(all, params.Page, params.PageSize), int64(len(all)), nil
}

func (r *inMemoryJobRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, id)
	return nil
}

func (r *inMemoryJobRepo) Stats(ctx context.Context) (*ports.QueueStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := &ports.QueueStats{}
	for _, j := range r.jobs {
		stats.Total++
		switch j.Status {
		case domain.JobStatusPending:
			stats.Pending++
		case domain.JobStatusProcessing:
			stats.Processing++
		case domain.JobStatusCompleted:
			stats.Completed++
		case domain.JobStatusFailed:
			stats.Failed++
		case domain.JobStatusDeadLetter:
			stats.DeadLetter++
		}
	}
	return stats, nil
}

// --- In-Memory Dead Letter Repo ---

type inMemoryDeadLetterRepo struct {
	mu     sync.RWMutex
	items  map[int64]*domain.DeadLetterItem
	nextID int64
}

func newInMemoryDeadLetterRepo() *inMemoryDeadLetterRepo {
	return &inMemoryDeadLetterRepo{items: make(map[int64]*domain.DeadLetterItem), nextID: 1}
}

func (r *inMemoryDeadLetterRepo) Create(ctx context.Context, tx pgx.Tx, item *domain.DeadLetterItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.ID = r.nextID
	r.nextID++
	item.CreatedAt = time.Now()
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *inMemoryDeadLetterRepo) GetByID(ctx context.Context, id int64) (*domain.DeadLetterItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (r *inMemoryDeadLetterRepo) List(ctx context.Context, page, pageSize int) ([]domain.DeadLetterItem, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []domain.DeadLetterItem
	for _, item := range r.items {
		all = append(all, *item)
	}
	sort.Slice(all, func(i, k int) bool { return all[i].ID < all[k].ID })
	return paginate(all, page, pageSize), int64(len(all)), nil
}

func (r *inMemoryDeadLetterRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("dead letter %d not found", id)
	}
	delete(r.items, id)
	return nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu     sync.RWMutex
	txns   map[int64]*domain.Transaction
	nextID int64
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{txns: make(map[int64]*domain.Transaction), nextID: 1}
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, txn *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	txn.ID = r.nextID
	r.nextID++
	txn.CreatedAt = time.Now()
	txn.UpdatedAt = txn.CreatedAt
	cp := *txn
	r.txns[txn.ID] = &cp
	return nil
}

func (r *inMemoryTransactionRepo) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.txns[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *inMemoryTransactionRepo) GetByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.txns {
		if t.CheckoutRequestID != nil && *t.CheckoutRequestID == checkoutRequestID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryTransactionRepo) GetByConversationID(ctx context.Context, conversationID, originatorConversationID string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.txns {
		if matchesConversation(t, conversationID, originatorConversationID) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func matchesConversation(t *domain.Transaction, convID, origID string) bool {
	if convID != "" && t.ConversationID != nil && *t.ConversationID == convID {
		return true
	}
	return origID != "" && t.OriginatorConversationID != nil && *t.OriginatorConversationID == origID
}

func (r *inMemoryTransactionRepo) UpdateResultByCheckoutRequestID(ctx context.Context, checkoutRequestID string, update ports.TransactionResultUpdate) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.txns {
		if t.CheckoutRequestID != nil && *t.CheckoutRequestID == checkoutRequestID &&
			t.Status == domain.TransactionStatusPending {
			applyResult(t, update)
			return true, nil
		}
	}
	return false, nil
}

func (r *inMemoryTransactionRepo) UpdateResultByConversationID(ctx context.Context, conversationID, originatorConversationID string, update ports.TransactionResultUpdate) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.txns {
		if matchesConversation(t, conversationID, originatorConversationID) &&
			t.Status == domain.TransactionStatusPending {
			applyResult(t, update)
			return true, nil
		}
	}
	return false, nil
}

func applyResult(t *domain.Transaction, update ports.TransactionResultUpdate) {
	t.Status = update.Status
	code := update.ResultCode
	desc := update.ResultDesc
	raw := update.RawCallback
	t.ResultCode = &code
	t.ResultDesc = &desc
	t.RawCallback = &raw
	if update.ProviderTransactionID != nil {
		t.ProviderTransactionID = update.ProviderTransactionID
	}
	t.UpdatedAt = time.Now()
}

func (r *inMemoryTransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []domain.Transaction
	for _, t := range r.txns {
		if params.Status != nil && t.Status != *params.Status {
			continue
		}
		if params.Type != nil && t.TransactionType != *params.Type {
			continue
		}
		all = append(all, *t)
	}
	sort.Slice(all, func(i, k int) bool { return all[i].ID < all[k].ID })
	return paginate(all, params.Page, params.PageSize), int64(len(all)), nil
}

func (r *inMemoryTransactionRepo) GetStats(ctx context.Context) (*ports.TransactionStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := &ports.TransactionStats{}
	for _, t := range r.txns {
		stats.Total++
		stats.TotalAmount += t.Amount
		switch t.Status {
		case domain.TransactionStatusPending:
			stats.Pending++
		case domain.TransactionStatusCompleted:
			stats.Completed++
		case domain.TransactionStatusFailed:
			stats.Failed++
		case domain.TransactionStatusCancelled:
			stats.Cancelled++
		}
	}
	return stats, nil
}

// --- In-Memory Callback Audit Repo ---

type inMemoryAuditRepo struct {
	mu     sync.RWMutex
	audits map[int64]*domain.CallbackAudit
	nextID int64
}

func newInMemoryAuditRepo() *inMemoryAuditRepo {
	return &inMemoryAuditRepo{audits: make(map[int64]*domain.CallbackAudit), nextID: 1}
}

func (r *inMemoryAuditRepo) Create(ctx context.Context, audit *domain.CallbackAudit) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	audit.ID = r.nextID
	r.nextID++
	audit.CreatedAt = time.Now()
	cp := *audit
	r.audits[audit.ID] = &cp
	return audit.ID, nil
}

func (r *inMemoryAuditRepo) MarkProcessed(ctx context.Context, id int64, result string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.audits[id]
	if !ok {
		return fmt.Errorf("audit %d not found", id)
	}
	a.Processed = true
	a.ProcessingResult = &result
	return nil
}

func (r *inMemoryAuditRepo) List(ctx context.Context, page, pageSize int) ([]domain.CallbackAudit, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []domain.CallbackAudit
	for _, a := range r.audits {
		all = append(all, *a)
	}
	sort.Slice(all, func(i, k int) bool { return all[i].ID < all[k].ID })
	return paginate(all, page, pageSize), int64(len(all)), nil
}

// countByVerified returns how many audits were written with each verdict.
func (r *inMemoryAuditRepo) countByVerified() (verified, rejected int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.audits {
		if a.Verified {
			verified++
		} else {
			rejected++
		}
	}
	return verified, rejected
}

func paginate[T any](all []T, page, pageSize int) []T {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	start := (page - 1) * pageSize
	if start >= len(all) {
		return []T{}
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}
