package handler

import (
	"strconv"

	"mpesa-payment-gateway/internal/adapter/http/dto"
	"mpesa-payment-gateway/internal/core/domain"
	"mpesa-payment-gateway/internal/core/ports"
	"mpesa-payment-gateway/pkg/apperror"
	"mpesa-payment-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// QueueHandler handles retry-queue and dead-letter endpoints.
type QueueHandler struct {
	retrySvc ports.RetryService
	dlSvc    ports.DeadLetterService
}

// NewQueueHandler creates a new QueueHandler.
func NewQueueHandler(retrySvc ports.RetryService, dlSvc ports.DeadLetterService) *QueueHandler {
	return &QueueHandler{retrySvc: retrySvc, dlSvc: dlSvc}
}

// Enqueue handles POST /api/v1/queue/jobs.
func (h *QueueHandler) Enqueue(c *gin.Context) {
	var req dto.EnqueueJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	job, err := h.retrySvc.Enqueue(c.Request.Context(), ports.EnqueueJobRequest{
		JobType:       req.JobType,
		Endpoint:      req.Endpoint,
		Method:        req.Method,
		Headers:       req.Headers,
		Payload:       req.Payload,
		MaxRetries:    req.MaxRetries,
		CorrelationID: req.CorrelationID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, job)
}

// ListJobs handles GET /api/v1/queue/jobs.
func (h *QueueHandler) ListJobs(c *gin.Context) {
	params := ports.JobListParams{
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
	}
	if s := c.Query("status"); s != "" {
		status := domain.JobStatus(s)
		params.Status = &status
	}
	if jt := c.Query("job_type"); jt != "" {
		params.JobType = &jt
	}

	jobs, total, err := h.retrySvc.ListJobs(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ListResponse{
		Items:    jobs,
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	})
}

// DeleteJob handles DELETE /api/v1/queue/jobs/:id.
func (h *QueueHandler) DeleteJob(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.retrySvc.DeleteJob(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": true})
}

// Process handles POST /api/v1/queue/process. It runs one processing pass
// synchronously and reports the outcome counts.
func (h *QueueHandler) Process(c *gin.Context) {
	report, err := h.retrySvc.ProcessDue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ProcessReportResponse{
		Fetched:    report.Fetched,
		Succeeded:  report.Succeeded,
		Retried:    report.Retried,
		DeadLetter: report.DeadLetter,
		Skipped:    report.Skipped,
	})
}

// Stats handles GET /api/v1/queue/stats.
func (h *QueueHandler) Stats(c *gin.Context) {
	stats, err := h.retrySvc.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}

// ListDeadLetters handles GET /api/v1/queue/dead-letter.
func (h *QueueHandler) ListDeadLetters(c *gin.Context) {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)

	items, total, err := h.dlSvc.List(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ListResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetDeadLetter handles GET /api/v1/queue/dead-letter/:id.
func (h *QueueHandler) GetDeadLetter(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := h.dlSvc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, item)
}

// RequeueDeadLetter handles POST /api/v1/queue/dead-letter/:id/retry.
func (h *QueueHandler) RequeueDeadLetter(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	job, err := h.dlSvc.Requeue(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, job)
}

// DeleteDeadLetter handles DELETE /api/v1/queue/dead-letter/:id.
func (h *QueueHandler) DeleteDeadLetter(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.dlSvc.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": true})
}

// pathID parses the :id path parameter; on failure it writes the error
// response itself.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, apperror.Validation("invalid id"))
		return 0, false
	}
	return id, true
}
