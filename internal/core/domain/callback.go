package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// CallbackType identifies which provider callback shape a payload carries.
type CallbackType string

const (
	CallbackTypeSTK             CallbackType = "STK"
	CallbackTypeC2BValidation   CallbackType = "C2B_VALIDATION"
	CallbackTypeC2BConfirmation CallbackType = "C2B_CONFIRMATION"
	CallbackTypeB2CResult       CallbackType = "B2C_RESULT"
	CallbackTypeB2CTimeout      CallbackType = "B2C_TIMEOUT"
)

// CallbackAudit is one append-only record of an inbound webhook attempt.
// Rows are never mutated except to mark them processed.
type CallbackAudit struct {
	ID               int64        `json:"id"`
	CallbackType     CallbackType `json:"callback_type"`
	RawPayload       string       `json:"raw_payload"`
	IPAddress        string       `json:"ip_address"`
	UserAgent        string       `json:"user_agent"`
	Verified         bool         `json:"verified"`
	FailureReason    *string      `json:"failure_reason,omitempty"`
	Processed        bool         `json:"processed"`
	ProcessingResult *string      `json:"processing_result,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
}

// STKCallbackBody is the Daraja STK push result callback.
type STKCallbackBody struct {
	Body struct {
		STKCallback struct {
			MerchantRequestID string       `json:"MerchantRequestID"`
			CheckoutRequestID string       `json:"CheckoutRequestID"`
			ResultCode        int          `json:"ResultCode"`
			ResultDesc        string       `json:"ResultDesc"`
			CallbackMetadata  *STKMetadata `json:"CallbackMetadata,omitempty"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// STKMetadata carries the name/value items attached to a successful STK push.
type STKMetadata struct {
	Item []STKMetadataItem `json:"Item"`
}

type STKMetadataItem struct {
	Name  string          `json:"Name"`
	Value json.RawMessage `json:"Value,omitempty"`
}

// STKResult is the flattened view of an STK callback used for processing.
type STKResult struct {
	MerchantRequestID  string
	CheckoutRequestID  string
	ResultCode         int
	ResultDesc         string
	Amount             *float64
	MpesaReceiptNumber *string
	TransactionDate    *string
	PhoneNumber        *string
}

// ParseSTKCallback decodes and flattens an STK callback payload. A payload
// that does not carry the stkCallback envelope is a parse error, not a
// silently absent field.
func ParseSTKCallback(raw []byte) (*STKResult, error) {
	var body STKCallbackBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("parse STK callback: %w", err)
	}
	cb := body.Body.STKCallback
	if cb.CheckoutRequestID == "" {
		return nil, fmt.Errorf("parse STK callback: missing CheckoutRequestID")
	}

	result := &STKResult{
		MerchantRequestID: cb.MerchantRequestID,
		CheckoutRequestID: cb.CheckoutRequestID,
		ResultCode:        cb.ResultCode,
		ResultDesc:        cb.ResultDesc,
	}
	if cb.CallbackMetadata == nil {
		return result, nil
	}
	for _, item := range cb.CallbackMetadata.Item {
		switch item.Name {
		case "Amount":
			var v float64
			if err := json.Unmarshal(item.Value, &v); err == nil {
				result.Amount = &v
			}
		case "MpesaReceiptNumber":
			if s := rawToString(item.Value); s != "" {
				result.MpesaReceiptNumber = &s
			}
		case "TransactionDate":
			if s := rawToString(item.Value); s != "" {
				result.TransactionDate = &s
			}
		case "PhoneNumber":
			if s := rawToString(item.Value); s != "" {
				result.PhoneNumber = &s
			}
		}
	}
	return result, nil
}

// rawToString renders a metadata value that may arrive as string or number.
func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// C2BPayment is the body shared by C2B validation and confirmation callbacks.
type C2BPayment struct {
	TransactionType   string `json:"TransactionType"`
	TransID           string `json:"TransID"`
	TransTime         string `json:"TransTime"`
	TransAmount       string `json:"TransAmount"`
	BusinessShortCode string `json:"BusinessShortCode"`
	BillRefNumber     string `json:"BillRefNumber"`
	InvoiceNumber     string `json:"InvoiceNumber"`
	OrgAccountBalance string `json:"OrgAccountBalance"`
	ThirdPartyTransID string `json:"ThirdPartyTransID"`
	MSISDN            string `json:"MSISDN"`
	FirstName         string `json:"FirstName"`
	MiddleName        string `json:"MiddleName"`
	LastName          string `json:"LastName"`
}

// ParseC2BPayment decodes a C2B validation or confirmation payload.
func ParseC2BPayment(raw []byte) (*C2BPayment, error) {
	var p C2BPayment
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse C2B payment: %w", err)
	}
	if p.TransID == "" {
		return nil, fmt.Errorf("parse C2B payment: missing TransID")
	}
	return &p, nil
}

// B2CCallbackBody is the Daraja B2C result (or timeout) callback.
type B2CCallbackBody struct {
	Result struct {
		ResultType               int    `json:"ResultType"`
		ResultCode               int    `json:"ResultCode"`
		ResultDesc               string `json:"ResultDesc"`
		OriginatorConversationID string `json:"OriginatorConversationID"`
		ConversationID           string `json:"ConversationID"`
		TransactionID            string `json:"TransactionID"`
		ResultParameters         *struct {
			ResultParameter []B2CResultParameter `json:"ResultParameter"`
		} `json:"ResultParameters,omitempty"`
	} `json:"Result"`
}

type B2CResultParameter struct {
	Key   string          `json:"Key"`
	Value json.RawMessage `json:"Value,omitempty"`
}

// B2CResult is the flattened view of a B2C result callback.
type B2CResult struct {
	ResultCode               int
	ResultDesc               string
	OriginatorConversationID string
	ConversationID           string
	TransactionID            string
	TransactionAmount        *float64
	TransactionReceipt       *string
	ReceiverPartyPublicName  *string
}

// ParseB2CCallback decodes and flattens a B2C result or timeout payload.
func ParseB2CCallback(raw []byte) (*B2CResult, error) {
	var body B2CCallbackBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("parse B2C callback: %w", err)
	}
	r := body.Result
	if r.ConversationID == "" && r.OriginatorConversationID == "" {
		return nil, fmt.Errorf("parse B2C callback: missing conversation ids")
	}

	result := &B2CResult{
		ResultCode:               r.ResultCode,
		ResultDesc:               r.ResultDesc,
		OriginatorConversationID: r.OriginatorConversationID,
		ConversationID:           r.ConversationID,
		TransactionID:            r.TransactionID,
	}
	if r.ResultParameters == nil {
		return result, nil
	}
	for _, param := range r.ResultParameters.ResultParameter {
		switch param.Key {
		case "TransactionAmount":
			var v float64
			if err := json.Unmarshal(param.Value, &v); err == nil {
				result.TransactionAmount = &v
			}
		case "TransactionReceipt":
			if s := rawToString(param.Value); s != "" {
				result.TransactionReceipt = &s
			}
		case "ReceiverPartyPublicName":
			if s := rawToString(param.Value); s != "" {
				result.ReceiverPartyPublicName = &s
			}
		}
	}
	return result, nil
}
