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

// TransactionHandler handles transaction query endpoints.
type TransactionHandler struct {
	paymentSvc ports.PaymentService
	retrySvc   ports.RetryService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(paymentSvc ports.PaymentService, retrySvc ports.RetryService) *TransactionHandler {
	return &TransactionHandler{paymentSvc: paymentSvc, retrySvc: retrySvc}
}

// List handles GET /api/v1/transactions.
func (h *TransactionHandler) List(c *gin.Context) {
	params := ports.TransactionListParams{
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
	}
	if s := c.Query("status"); s != "" {
		status := domain.TransactionStatus(s)
		params.Status = &status
	}
	if tt := c.Query("type"); tt != "" {
		txnType := domain.TransactionType(tt)
		params.Type = &txnType
	}

	txns, total, err := h.paymentSvc.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, *toTransactionResponse(&txns[i]))
	}
	response.OK(c, dto.ListResponse{
		Items:    items,
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	})
}

// Get handles GET /api/v1/transactions/:id.
func (h *TransactionHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, apperror.Validation("invalid transaction id"))
		return
	}

	txn, err := h.paymentSvc.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toTransactionResponse(txn))
}

// Stats handles GET /api/v1/dashboard/stats. It combines transaction and
// retry-queue statistics in one payload.
func (h *TransactionHandler) Stats(c *gin.Context) {
	txnStats, err := h.paymentSvc.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	queueStats, err := h.retrySvc.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.StatsResponse{
		Transactions: txnStats,
		Queue:        queueStats,
	})
}

// toTransactionResponse maps a domain transaction to its API view.
func toTransactionResponse(t *domain.Transaction) *dto.TransactionResponse {
	return &dto.TransactionResponse{
		ID:                    t.ID,
		TransactionType:       string(t.TransactionType),
		CheckoutRequestID:     t.CheckoutRequestID,
		ConversationID:        t.ConversationID,
		ProviderTransactionID: t.ProviderTransactionID,
		PhoneNumber:           t.PhoneNumber,
		Amount:                t.Amount,
		AccountReference:      t.AccountReference,
		Status:                string(t.Status),
		ResultCode:            t.ResultCode,
		ResultDesc:            t.ResultDesc,
		CreatedAt:             t.CreatedAt,
		UpdatedAt:             t.UpdatedAt,
	}
}

// queryInt reads an integer query parameter with a fallback.
func queryInt(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return v
}
