package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"mpesa-payment-gateway/config"
	httpHandler "mpesa-payment-gateway/internal/adapter/http/handler"
	"mpesa-payment-gateway/internal/core/domain"
	"mpesa-payment-gateway/internal/core/ports"
	"mpesa-payment-gateway/internal/service"
	"mpesa-payment-gateway/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trustedIP = "196.201.214.5"

// stubMpesaClient returns canned provider acknowledgements. Flipping down
// simulates a provider outage.
type stubMpesaClient struct {
	checkoutID     string
	conversationID string
	down           atomic.Bool
}

func (s *stubMpesaClient) STKPush(ctx context.Context, req ports.STKPushRequest) (*ports.STKPushResponse, error) {
	if s.down.Load() {
		return nil, apperror.ErrProviderRequest("STK push", context.DeadlineExceeded)
	}
	return &ports.STKPushResponse{
		MerchantRequestID: "29115-34620561-1",
		CheckoutRequestID: s.checkoutID,
		ResponseCode:      "0",
	}, nil
}

func (s *stubMpesaClient) RegisterC2BURLs(ctx context.Context) error { return nil }

func (s *stubMpesaClient) SimulateC2B(ctx context.Context, req ports.C2BSimulateRequest) error {
	return nil
}

func (s *stubMpesaClient) B2CPayment(ctx context.Context, req ports.B2CPaymentRequest) (*ports.B2CPaymentResponse, error) {
	if s.down.Load() {
		return nil, apperror.ErrProviderRequest("B2C payment", context.DeadlineExceeded)
	}
	return &ports.B2CPaymentResponse{
		ConversationID:           s.conversationID,
		OriginatorConversationID: "10571-7910404-1",
		ResponseCode:             "0",
	}, nil
}

type testEnv struct {
	router    *gin.Engine
	jobRepo   *inMemoryJobRepo
	dlRepo    *inMemoryDeadLetterRepo
	txRepo    *inMemoryTransactionRepo
	auditRepo *inMemoryAuditRepo
	retrySvc  *service.RetryServiceImpl
	client    *stubMpesaClient
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zerolog.Nop()

	jobRepo := newInMemoryJobRepo()
	dlRepo := newInMemoryDeadLetterRepo()
	txRepo := newInMemoryTransactionRepo()
	auditRepo := newInMemoryAuditRepo()

	queueCfg := config.QueueConfig{
		BatchLimit:        50,
		DefaultMaxRetries: 3,
		Concurrency:       4,
		HTTPTimeout:       2 * time.Second,
		InitialDelay:      time.Millisecond,
		MaxDelay:          5 * time.Millisecond,
		Multiplier:        2.0,
		JitterFactor:      0,
	}
	webhookCfg := config.WebhookConfig{
		AllowedIPs:      []string{"196.201.214.0/24", "196.201.213.114"},
		RateLimit:       100,
		RateLimitWindow: time.Minute,
	}

	broadcaster := service.NewBroadcastService(config.BroadcastConfig{}, log)
	backoff := service.NewExponentialBackoff(queueCfg)
	retrySvc := service.NewRetryService(jobRepo, dlRepo, fakeTransactor{}, backoff, broadcaster, queueCfg, log)
	dlSvc := service.NewDeadLetterService(dlRepo, jobRepo, backoff, broadcaster, log)
	verifier := service.NewVerifierService(auditRepo, broadcaster, webhookCfg, log)
	client := &stubMpesaClient{
		checkoutID:     "ws_CO_191220191020363925",
		conversationID: "AG_20191219_00004e48cf7e3533f581",
	}
	paymentSvc := service.NewPaymentService(client, txRepo, retrySvc, broadcaster, log)
	retrySvc.SetProviderReplayer(paymentSvc)
	callbackSvc := service.NewCallbackService(txRepo, auditRepo, broadcaster, log)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		PaymentSvc:    paymentSvc,
		CallbackSvc:   callbackSvc,
		RetrySvc:      retrySvc,
		DeadLetterSvc: dlSvc,
		Verifier:      verifier,
		Broadcaster:   broadcaster,
		MpesaClient:   client,
		Logger:        log,
	})

	return &testEnv{
		router:    router,
		jobRepo:   jobRepo,
		dlRepo:    dlRepo,
		txRepo:    txRepo,
		auditRepo: auditRepo,
		retrySvc:  retrySvc,
		client:    client,
	}
}

// drain runs queue processing passes until no pending work remains, waiting
// out the backoff schedule between passes.
func (e *testEnv) drain(t *testing.T, deadline time.Duration) {
	t.Helper()
	until := time.Now().Add(deadline)
	for time.Now().Before(until) {
		w := e.do(t, http.MethodPost, "/api/v1/queue/process", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		stats, err := e.jobRepo.Stats(context.Background())
		require.NoError(t, err)
		if stats.Pending == 0 && stats.Processing == 0 {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("queue did not drain before deadline")
}

func (e *testEnv) do(t *testing.T, method, path string, payload any, sourceIP string) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if sourceIP != "" {
		req.RemoteAddr = sourceIP + ":44321"
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestSTKPushLifecycle_CallbackCompletesTransaction(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/mpesa/stk-push", map[string]any{
		"phone_number":      "254708374149",
		"amount":            150,
		"account_reference": "ORDER-42",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	txn, err := env.txRepo.GetByCheckoutRequestID(context.Background(), "ws_CO_191220191020363925")
	require.NoError(t, err)
	require.NotNil(t, txn)
	assert.Equal(t, domain.TransactionStatusPending, txn.Status)

	callback := map[string]any{
		"Body": map[string]any{
			"stkCallback": map[string]any{
				"MerchantRequestID": "29115-34620561-1",
				"CheckoutRequestID": "ws_CO_191220191020363925",
				"ResultCode":        0,
				"ResultDesc":        "The service request is processed successfully.",
				"CallbackMetadata": map[string]any{
					"Item": []map[string]any{
						{"Name": "Amount", "Value": 150.0},
						{"Name": "MpesaReceiptNumber", "Value": "NLJ7RT61SV"},
					},
				},
			},
		},
	}
	w = env.do(t, http.MethodPost, "/callbacks/stk", callback, trustedIP)
	require.Equal(t, http.StatusOK, w.Code)

	txn, err = env.txRepo.GetByCheckoutRequestID(context.Background(), "ws_CO_191220191020363925")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCompleted, txn.Status)
	require.NotNil(t, txn.ProviderTransactionID)
	assert.Equal(t, "NLJ7RT61SV", *txn.ProviderTransactionID)

	// Replay of the same callback leaves the transaction untouched.
	updatedAt := txn.UpdatedAt
	w = env.do(t, http.MethodPost, "/callbacks/stk", callback, trustedIP)
	require.Equal(t, http.StatusOK, w.Code)

	txn, err = env.txRepo.GetByCheckoutRequestID(context.Background(), "ws_CO_191220191020363925")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCompleted, txn.Status)
	assert.Equal(t, updatedAt, txn.UpdatedAt)
}

func TestCallbackFromUnknownIP_NeverMutatesState(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/mpesa/stk-push", map[string]any{
		"phone_number":      "254708374149",
		"amount":            100,
		"account_reference": "ORDER-1",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	callback := map[string]any{
		"Body": map[string]any{
			"stkCallback": map[string]any{
				"CheckoutRequestID": "ws_CO_191220191020363925",
				"ResultCode":        0,
			},
		},
	}
	w = env.do(t, http.MethodPost, "/callbacks/stk", callback, "203.0.113.50")
	// Still acknowledged, but nothing processed.
	require.Equal(t, http.StatusOK, w.Code)

	txn, err := env.txRepo.GetByCheckoutRequestID(context.Background(), "ws_CO_191220191020363925")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusPending, txn.Status)

	verified, rejected := env.auditRepo.countByVerified()
	assert.Equal(t, 0, verified)
	assert.Equal(t, 1, rejected)
}

func TestC2BValidation_ResponseShapes(t *testing.T) {
	env := newTestEnv(t)

	valid := map[string]any{
		"TransID":     "RKTQDM7W6S",
		"TransAmount": "100.00",
		"MSISDN":      "254708374149",
	}
	w := env.do(t, http.MethodPost, "/callbacks/c2b/validation", valid, trustedIP)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Accepted")

	overLimit := map[string]any{
		"TransID":     "RKTQDM7W6T",
		"TransAmount": "999999.00",
		"MSISDN":      "254708374149",
	}
	w = env.do(t, http.MethodPost, "/callbacks/c2b/validation", overLimit, trustedIP)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "C2B00011")

	w = env.do(t, http.MethodPost, "/callbacks/c2b/validation", valid, "203.0.113.50")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "C2B00012")
}

func TestB2CLifecycle_ResultCallback(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/mpesa/b2c", map[string]any{
		"phone_number": "254708374149",
		"amount":       500,
		"remarks":      "Refund",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	result := map[string]any{
		"Result": map[string]any{
			"ResultCode":               0,
			"ResultDesc":               "The service request is processed successfully.",
			"ConversationID":           "AG_20191219_00004e48cf7e3533f581",
			"OriginatorConversationID": "10571-7910404-1",
			"TransactionID":            "NLJ41HAY6Q",
		},
	}
	w = env.do(t, http.MethodPost, "/callbacks/b2c/result", result, trustedIP)
	require.Equal(t, http.StatusOK, w.Code)

	txn, err := env.txRepo.GetByConversationID(context.Background(), "AG_20191219_00004e48cf7e3533f581", "")
	require.NoError(t, err)
	require.NotNil(t, txn)
	assert.Equal(t, domain.TransactionStatusCompleted, txn.Status)
}

func TestQueueEndpoints_EnqueueProcessStats(t *testing.T) {
	env := newTestEnv(t)

	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer target.Close()

	w := env.do(t, http.MethodPost, "/api/v1/queue/jobs", map[string]any{
		"job_type": "merchant_webhook",
		"endpoint": target.URL,
		"payload":  `{"event":"payment.completed"}`,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	// First attempt is scheduled one base delay out.
	time.Sleep(5 * time.Millisecond)
	w = env.do(t, http.MethodPost, "/api/v1/queue/process", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			Fetched   int `json:"fetched"`
			Succeeded int `json:"succeeded"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.Fetched)
	assert.Equal(t, 1, resp.Data.Succeeded)

	w = env.do(t, http.MethodGet, "/api/v1/queue/stats", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"completed":1`)
}

func TestProviderOutage_QueuedSTKPushReplaysOnRecovery(t *testing.T) {
	env := newTestEnv(t)
	env.client.down.Store(true)

	w := env.do(t, http.MethodPost, "/api/v1/mpesa/stk-push", map[string]any{
		"phone_number":      "254708374149",
		"amount":            150,
		"account_reference": "ORDER-42",
	}, "")
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "MPESA_002")

	jobs, _, err := env.jobRepo.List(context.Background(), ports.JobListParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "internal://provider/stk_push", jobs[0].Endpoint)
	assert.Equal(t, domain.JobStatusPending, jobs[0].Status)

	env.client.down.Store(false)
	env.drain(t, time.Second)

	stats, err := env.jobRepo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Completed)
	assert.Zero(t, stats.DeadLetter)

	txn, err := env.txRepo.GetByCheckoutRequestID(context.Background(), "ws_CO_191220191020363925")
	require.NoError(t, err)
	require.NotNil(t, txn)
	assert.Equal(t, domain.TransactionStatusPending, txn.Status)
}

func TestDashboardStats_CombinedView(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/mpesa/stk-push", map[string]any{
		"phone_number":      "254708374149",
		"amount":            100,
		"account_reference": "ORDER-9",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/dashboard/stats", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"transactions"`)
	assert.Contains(t, w.Body.String(), `"queue"`)
}
