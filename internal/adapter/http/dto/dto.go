package dto

import "time"

// STKPushRequest is the request body for initiating an STK push prompt.
type STKPushRequest struct {
	PhoneNumber      string  `json:"phone_number" binding:"required,mpesa_phone"`
	Amount           float64 `json:"amount" binding:"required,gt=0"`
	AccountReference string  `json:"account_reference" binding:"required,max=12"`
	TransactionDesc  string  `json:"transaction_desc" binding:"max=13"`
}

// B2CRequest is the request body for initiating a business-to-customer
// payout.
type B2CRequest struct {
	PhoneNumber string  `json:"phone_number" binding:"required,mpesa_phone"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	CommandID   string  `json:"command_id" binding:"omitempty,oneof=BusinessPayment SalaryPayment PromotionPayment"`
	Remarks     string  `json:"remarks" binding:"required,max=100"`
	Occasion    string  `json:"occasion" binding:"max=100"`
}

// C2BSimulateRequest is the request body for triggering a sandbox customer
// payment.
type C2BSimulateRequest struct {
	PhoneNumber   string  `json:"phone_number" binding:"required,mpesa_phone"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	BillRefNumber string  `json:"bill_ref_number" binding:"required,max=20"`
}

// EnqueueJobRequest is the request body for adding a delivery job to the
// retry queue directly.
type EnqueueJobRequest struct {
	JobType       string            `json:"job_type" binding:"required,max=50"`
	Endpoint      string            `json:"endpoint" binding:"required,safe_url"`
	Method        string            `json:"method" binding:"omitempty,oneof=GET POST PUT PATCH DELETE"`
	Headers       map[string]string `json:"headers,omitempty"`
	Payload       string            `json:"payload"`
	MaxRetries    *int              `json:"max_retries,omitempty" binding:"omitempty,gte=1,lte=20"`
	CorrelationID *string           `json:"correlation_id,omitempty"`
}

// TransactionResponse is the API view of a transaction.
type TransactionResponse struct {
	ID                    int64     `json:"id"`
	TransactionType       string    `json:"transaction_type"`
	CheckoutRequestID     *string   `json:"checkout_request_id,omitempty"`
	ConversationID        *string   `json:"conversation_id,omitempty"`
	ProviderTransactionID *string   `json:"provider_transaction_id,omitempty"`
	PhoneNumber           string    `json:"phone_number"`
	Amount                float64   `json:"amount"`
	AccountReference      *string   `json:"account_reference,omitempty"`
	Status                string    `json:"status"`
	ResultCode            *int      `json:"result_code,omitempty"`
	ResultDesc            *string   `json:"result_desc,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// ListResponse wraps a paginated collection.
type ListResponse struct {
	Items    interface{} `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// ProcessReportResponse summarises one retry-queue processing pass.
type ProcessReportResponse struct {
	Fetched    int  `json:"fetched"`
	Succeeded  int  `json:"succeeded"`
	Retried    int  `json:"retried"`
	DeadLetter int  `json:"dead_letter"`
	Skipped    bool `json:"skipped"`
}

// StatsResponse combines transaction and queue statistics for the
// dashboard.
type StatsResponse struct {
	Transactions interface{} `json:"transactions"`
	Queue        interface{} `json:"queue"`
}

// C2BValidationResponse is the acknowledgement shape the provider expects
// from a validation endpoint.
type C2BValidationResponse struct {
	ResultCode interface{} `json:"ResultCode"`
	ResultDesc string      `json:"ResultDesc"`
}

// CallbackAck is the benign acknowledgement returned for result callbacks.
type CallbackAck struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

// AcceptedC2B acknowledges an accepted validation request.
func AcceptedC2B() C2BValidationResponse {
	return C2BValidationResponse{ResultCode: 0, ResultDesc: "Accepted"}
}

// RejectedC2B rejects a validation request that failed business checks.
func RejectedC2B() C2BValidationResponse {
	return C2BValidationResponse{ResultCode: "C2B00011", ResultDesc: "Rejected"}
}

// InvalidSourceC2B rejects a validation request whose origin could not be
// verified. The provider treats this code as a source error rather than a
// business rejection.
func InvalidSourceC2B() C2BValidationResponse {
	return C2BValidationResponse{ResultCode: "C2B00012", ResultDesc: "Invalid request source"}
}

// Ack acknowledges a result callback. The provider retries on anything
// else, so rejected and failed deliveries still receive this shape.
func Ack() CallbackAck {
	return CallbackAck{ResultCode: 0, ResultDesc: "Callback received successfully"}
}
