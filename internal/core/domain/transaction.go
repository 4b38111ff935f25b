package domain

import "time"

// TransactionType represents the kind of payment operation.
type TransactionType string

const (
	TransactionTypeSTKPush TransactionType = "STK_PUSH"
	TransactionTypeC2B     TransactionType = "C2B"
	TransactionTypeB2C     TransactionType = "B2C"
)

// TransactionStatus represents the lifecycle state of a transaction.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// Transaction represents one payment operation. It is created pending when
// the outbound call is initiated and moved to exactly one terminal status
// when the matching callback arrives, matched by correlation id.
type Transaction struct {
	ID                       int64             `json:"id"`
	TransactionType          TransactionType   `json:"transaction_type"`
	CheckoutRequestID        *string           `json:"checkout_request_id,omitempty"`
	MerchantRequestID        *string           `json:"merchant_request_id,omitempty"`
	ConversationID           *string           `json:"conversation_id,omitempty"`
	OriginatorConversationID *string           `json:"originator_conversation_id,omitempty"`
	ProviderTransactionID    *string           `json:"provider_transaction_id,omitempty"`
	PhoneNumber              string            `json:"phone_number"`
	Amount                   float64           `json:"amount"`
	AccountReference         *string           `json:"account_reference,omitempty"`
	TransactionDesc          *string           `json:"transaction_desc,omitempty"`
	ResultCode               *int              `json:"result_code,omitempty"`
	ResultDesc               *string           `json:"result_desc,omitempty"`
	Status                   TransactionStatus `json:"status"`
	RawRequest               string            `json:"raw_request"`
	RawCallback              *string           `json:"raw_callback,omitempty"`
	CreatedAt                time.Time         `json:"created_at"`
	UpdatedAt                time.Time         `json:"updated_at"`
}

// IsTerminal returns true if the transaction is in a final state.
func (t *Transaction) IsTerminal() bool {
	return t.Status == TransactionStatusCompleted ||
		t.Status == TransactionStatusFailed ||
		t.Status == TransactionStatusCancelled
}

// StatusForResultCode maps a provider STK result code to a transaction status.
// 0 is success and 1032 is the payer cancelling the prompt.
func StatusForResultCode(code int) TransactionStatus {
	switch code {
	case 0:
		return TransactionStatusCompleted
	case 1032:
		return TransactionStatusCancelled
	default:
		return TransactionStatusFailed
	}
}
