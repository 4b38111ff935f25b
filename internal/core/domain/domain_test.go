package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryJobIsTerminal(t *testing.T) {
	tests := []struct {
		status   JobStatus
		terminal bool
	}{
		{JobStatusPending, false},
		{JobStatusProcessing, false},
		{JobStatusCompleted, true},
		{JobStatusFailed, true},
		{JobStatusDeadLetter, true},
	}
	for _, tt := range tests {
		job := RetryJob{Status: tt.status}
		assert.Equal(t, tt.terminal, job.IsTerminal(), "status %s", tt.status)
	}
}

func TestRetryJobDecodeHeaders(t *testing.T) {
	job := RetryJob{Headers: `{"Content-Type":"application/json","X-Request-ID":"abc"}`}
	headers, err := job.DecodeHeaders()
	require.NoError(t, err)
	assert.Equal(t, "application/json", headers["Content-Type"])
	assert.Equal(t, "abc", headers["X-Request-ID"])

	job.Headers = ""
	headers, err = job.DecodeHeaders()
	require.NoError(t, err)
	assert.Empty(t, headers)

	job.Headers = "{broken"
	_, err = job.DecodeHeaders()
	assert.Error(t, err)
}

func TestStatusForResultCode(t *testing.T) {
	assert.Equal(t, TransactionStatusCompleted, StatusForResultCode(0))
	assert.Equal(t, TransactionStatusCancelled, StatusForResultCode(1032))
	assert.Equal(t, TransactionStatusFailed, StatusForResultCode(1))
	assert.Equal(t, TransactionStatusFailed, StatusForResultCode(2001))
}

func TestTransactionIsTerminal(t *testing.T) {
	assert.False(t, (&Transaction{Status: TransactionStatusPending}).IsTerminal())
	assert.True(t, (&Transaction{Status: TransactionStatusCompleted}).IsTerminal())
	assert.True(t, (&Transaction{Status: TransactionStatusFailed}).IsTerminal())
	assert.True(t, (&Transaction{Status: TransactionStatusCancelled}).IsTerminal())
}

func TestParseSTKCallbackSuccess(t *testing.T) {
	raw := []byte(`{
		"Body": {
			"stkCallback": {
				"MerchantRequestID": "29115-34620561-1",
				"CheckoutRequestID": "ws_CO_191220191020363925",
				"ResultCode": 0,
				"ResultDesc": "The service request is processed successfully.",
				"CallbackMetadata": {
					"Item": [
						{"Name": "Amount", "Value": 1.00},
						{"Name": "MpesaReceiptNumber", "Value": "NLJ7RT61SV"},
						{"Name": "TransactionDate", "Value": 20191219102115},
						{"Name": "PhoneNumber", "Value": 254708374149}
					]
				}
			}
		}
	}`)
	result, err := ParseSTKCallback(raw)
	require.NoError(t, err)
	assert.Equal(t, "ws_CO_191220191020363925", result.CheckoutRequestID)
	assert.Equal(t, 0, result.ResultCode)
	require.NotNil(t, result.Amount)
	assert.Equal(t, 1.0, *result.Amount)
	require.NotNil(t, result.MpesaReceiptNumber)
	assert.Equal(t, "NLJ7RT61SV", *result.MpesaReceiptNumber)
	require.NotNil(t, result.PhoneNumber)
	assert.Equal(t, "254708374149", *result.PhoneNumber)
}

func TestParseSTKCallbackCancelled(t *testing.T) {
	raw := []byte(`{
		"Body": {
			"stkCallback": {
				"MerchantRequestID": "29115-34620561-1",
				"CheckoutRequestID": "ws_CO_191220191020363925",
				"ResultCode": 1032,
				"ResultDesc": "Request cancelled by user."
			}
		}
	}`)
	result, err := ParseSTKCallback(raw)
	require.NoError(t, err)
	assert.Equal(t, 1032, result.ResultCode)
	assert.Nil(t, result.Amount)
	assert.Nil(t, result.MpesaReceiptNumber)
}

func TestParseSTKCallbackInvalid(t *testing.T) {
	_, err := ParseSTKCallback([]byte(`{not json`))
	assert.Error(t, err)

	_, err = ParseSTKCallback([]byte(`{"Body":{"stkCallback":{}}}`))
	assert.Error(t, err)
}

func TestParseC2BPayment(t *testing.T) {
	raw := []byte(`{
		"TransactionType": "Pay Bill",
		"TransID": "RKTQDM7W6S",
		"TransTime": "20191122063845",
		"TransAmount": "10",
		"BusinessShortCode": "600638",
		"BillRefNumber": "invoice008",
		"MSISDN": "254708374149",
		"FirstName": "John"
	}`)
	p, err := ParseC2BPayment(raw)
	require.NoError(t, err)
	assert.Equal(t, "RKTQDM7W6S", p.TransID)
	assert.Equal(t, "10", p.TransAmount)
	assert.Equal(t, "John", p.FirstName)

	_, err = ParseC2BPayment([]byte(`{}`))
	assert.Error(t, err)
}

func TestParseB2CCallback(t *testing.T) {
	raw := []byte(`{
		"Result": {
			"ResultType": 0,
			"ResultCode": 0,
			"ResultDesc": "The service request is processed successfully.",
			"OriginatorConversationID": "10571-7910404-1",
			"ConversationID": "AG_20191219_00004e48cf7e3533f581",
			"TransactionID": "NLJ41HAY6Q",
			"ResultParameters": {
				"ResultParameter": [
					{"Key": "TransactionAmount", "Value": 10},
					{"Key": "TransactionReceipt", "Value": "NLJ41HAY6Q"},
					{"Key": "ReceiverPartyPublicName", "Value": "254708374149 - John Doe"}
				]
			}
		}
	}`)
	result, err := ParseB2CCallback(raw)
	require.NoError(t, err)
	assert.Equal(t, "AG_20191219_00004e48cf7e3533f581", result.ConversationID)
	require.NotNil(t, result.TransactionAmount)
	assert.Equal(t, 10.0, *result.TransactionAmount)
	require.NotNil(t, result.ReceiverPartyPublicName)

	_, err = ParseB2CCallback([]byte(`{"Result":{}}`))
	assert.Error(t, err)
}

func TestNewEvent(t *testing.T) {
	ev := NewEvent(EventRetryQueued, map[string]int64{"job_id": 7})
	assert.Equal(t, EventRetryQueued, ev.Type)
	assert.NotEmpty(t, ev.Timestamp)
}
