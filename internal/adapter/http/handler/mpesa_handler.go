package handler

import (
	"mpesa-payment-gateway/internal/adapter/http/dto"
	"mpesa-payment-gateway/internal/core/ports"
	"mpesa-payment-gateway/pkg/apperror"
	"mpesa-payment-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// MpesaHandler handles payment-initiation endpoints.
type MpesaHandler struct {
	paymentSvc ports.PaymentService
	client     ports.MpesaClient
}

// NewMpesaHandler creates a new MpesaHandler.
func NewMpesaHandler(paymentSvc ports.PaymentService, client ports.MpesaClient) *MpesaHandler {
	return &MpesaHandler{paymentSvc: paymentSvc, client: client}
}

// STKPush handles POST /api/v1/mpesa/stk-push.
func (h *MpesaHandler) STKPush(c *gin.Context) {
	var req dto.STKPushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	txn, err := h.paymentSvc.InitiateSTKPush(c.Request.Context(), ports.STKPushRequest{
		PhoneNumber:      req.PhoneNumber,
		Amount:           req.Amount,
		AccountReference: req.AccountReference,
		TransactionDesc:  req.TransactionDesc,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// B2CPayment handles POST /api/v1/mpesa/b2c.
func (h *MpesaHandler) B2CPayment(c *gin.Context) {
	var req dto.B2CRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	txn, err := h.paymentSvc.InitiateB2C(c.Request.Context(), ports.B2CPaymentRequest{
		PhoneNumber: req.PhoneNumber,
		Amount:      req.Amount,
		CommandID:   req.CommandID,
		Remarks:     req.Remarks,
		Occasion:    req.Occasion,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// RegisterC2BURLs handles POST /api/v1/mpesa/c2b/register.
func (h *MpesaHandler) RegisterC2BURLs(c *gin.Context) {
	if err := h.client.RegisterC2BURLs(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"registered": true})
}

// SimulateC2B handles POST /api/v1/mpesa/c2b/simulate.
func (h *MpesaHandler) SimulateC2B(c *gin.Context) {
	var req dto.C2BSimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	err := h.paymentSvc.SimulateC2B(c.Request.Context(), ports.C2BSimulateRequest{
		PhoneNumber:   req.PhoneNumber,
		Amount:        req.Amount,
		BillRefNumber: req.BillRefNumber,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"simulated": true})
}
