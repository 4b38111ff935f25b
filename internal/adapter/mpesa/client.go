package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"mpesa-payment-gateway/config"
	"mpesa-payment-gateway/internal/core/ports"
	"mpesa-payment-gateway/pkg/apperror"

	"github.com/rs/zerolog"
)

// tokenRefreshBuffer renews the OAuth token this long before its stated
// expiry so in-flight requests never race the cutoff.
const tokenRefreshBuffer = 5 * time.Minute

// Client implements ports.MpesaClient against the Daraja API.
type Client struct {
	cfg  config.MpesaConfig
	http *http.Client
	log  zerolog.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time

	now func() time.Time
}

// NewClient creates a Daraja API client.
func NewClient(cfg config.MpesaConfig, log zerolog.Logger) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
		log:  log,
		now:  time.Now,
	}
}

// SetHTTPClient swaps the transport. Tests point it at a stub server.
func (c *Client) SetHTTPClient(client *http.Client) {
	c.http = client
}

// SetBaseURL overrides the environment-derived API base. Tests only.
func (c *Client) SetBaseURL(base string) {
	c.cfg.BaseURLOverride = base
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// token returns a cached OAuth token, refreshing when it is inside the
// renewal buffer.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && c.now().Before(c.tokenExpiry.Add(-tokenRefreshBuffer)) {
		return c.accessToken, nil
	}

	url := c.baseURL() + "/oauth/v1/generate?grant_type=client_credentials"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", apperror.ErrProviderAuth(err)
	}
	credentials := base64.StdEncoding.EncodeToString(
		[]byte(c.cfg.ConsumerKey + ":" + c.cfg.ConsumerSecret))
	req.Header.Set("Authorization", "Basic "+credentials)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", apperror.ErrProviderAuth(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", apperror.ErrProviderAuth(fmt.Errorf("status %d: %s", resp.StatusCode, body))
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", apperror.ErrProviderAuth(err)
	}

	ttl := time.Hour
	if secs, err := time.ParseDuration(tok.ExpiresIn + "s"); err == nil {
		ttl = secs
	}
	c.accessToken = tok.AccessToken
	c.tokenExpiry = c.now().Add(ttl)
	c.log.Debug().Time("expiry", c.tokenExpiry).Msg("provider token refreshed")

	return c.accessToken, nil
}

func (c *Client) baseURL() string {
	if c.cfg.BaseURLOverride != "" {
		return c.cfg.BaseURLOverride
	}
	return c.cfg.BaseURL()
}

// post sends an authenticated JSON request and decodes the response into
// out when the call succeeds.
func (c *Client) post(ctx context.Context, op, path string, payload, out any) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return apperror.ErrProviderRequest(op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL()+path, bytes.NewReader(body))
	if err != nil {
		return apperror.ErrProviderRequest(op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return apperror.ErrProviderRequest(op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apperror.ErrProviderRequest(op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperror.ErrProviderRequest(op, fmt.Errorf("status %d: %s", resp.StatusCode, respBody))
	}
	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return apperror.ErrProviderRequest(op, err)
		}
	}
	return nil
}

// timestamp renders the Daraja YYYYMMDDHHmmss format.
func (c *Client) timestamp() string {
	return c.now().Format("20060102150405")
}

// password derives the STK push password for a timestamp.
func (c *Client) password(timestamp string) string {
	return base64.StdEncoding.EncodeToString(
		[]byte(c.cfg.ShortCode + c.cfg.Passkey + timestamp))
}

// FormatPhoneNumber normalizes Kenyan MSISDNs to the 254-prefixed form the
// API requires. "0712345678" and "+254712345678" both become "254712345678".
func FormatPhoneNumber(phone string) string {
	p := strings.TrimSpace(phone)
	p = strings.TrimPrefix(p, "+")
	if strings.HasPrefix(p, "0") {
		return "254" + p[1:]
	}
	if !strings.HasPrefix(p, "254") {
		return "254" + p
	}
	return p
}

// truncate clips s to max bytes. The STK API caps AccountReference at 12
// and TransactionDesc at 13 characters.
func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

// STKPush initiates a customer-facing payment prompt.
func (c *Client) STKPush(ctx context.Context, req ports.STKPushRequest) (*ports.STKPushResponse, error) {
	ts := c.timestamp()
	payload := map[string]any{
		"BusinessShortCode": c.cfg.ShortCode,
		"Password":          c.password(ts),
		"Timestamp":         ts,
		"TransactionType":   "CustomerPayBillOnline",
		"Amount":            int64(req.Amount),
		"PartyA":            FormatPhoneNumber(req.PhoneNumber),
		"PartyB":            c.cfg.ShortCode,
		"PhoneNumber":       FormatPhoneNumber(req.PhoneNumber),
		"CallBackURL":       c.cfg.CallbackURL("/stk"),
		"AccountReference":  truncate(req.AccountReference, 12),
		"TransactionDesc":   truncate(req.TransactionDesc, 13),
	}

	var out ports.STKPushResponse
	if err := c.post(ctx, "STK push", "/mpesa/stkpush/v1/processrequest", payload, &out); err != nil {
		return nil, err
	}
	if out.ResponseCode != "0" {
		return nil, apperror.ErrProviderRequest("STK push",
			fmt.Errorf("response code %s: %s", out.ResponseCode, out.ResponseDescription))
	}
	return &out, nil
}

// RegisterC2BURLs registers the validation and confirmation callback URLs
// for the configured short code.
func (c *Client) RegisterC2BURLs(ctx context.Context) error {
	payload := map[string]any{
		"ShortCode":       c.cfg.ShortCode,
		"ResponseType":    "Completed",
		"ValidationURL":   c.cfg.CallbackURL("/c2b/validation"),
		"ConfirmationURL": c.cfg.CallbackURL("/c2b/confirmation"),
	}
	return c.post(ctx, "C2B URL registration", "/mpesa/c2b/v1/registerurl", payload, nil)
}

// SimulateC2B triggers a sandbox customer payment. Production rejects it.
func (c *Client) SimulateC2B(ctx context.Context, req ports.C2BSimulateRequest) error {
	if c.cfg.Environment == "production" {
		return apperror.ErrProviderRequest("C2B simulation",
			fmt.Errorf("simulation is a sandbox-only operation"))
	}
	payload := map[string]any{
		"ShortCode":     c.cfg.ShortCode,
		"CommandID":     "CustomerPayBillOnline",
		"Amount":        int64(req.Amount),
		"Msisdn":        FormatPhoneNumber(req.PhoneNumber),
		"BillRefNumber": req.BillRefNumber,
	}
	return c.post(ctx, "C2B simulation", "/mpesa/c2b/v1/simulate", payload, nil)
}

// B2CPayment initiates a business-to-customer payout.
func (c *Client) B2CPayment(ctx context.Context, req ports.B2CPaymentRequest) (*ports.B2CPaymentResponse, error) {
	commandID := req.CommandID
	if commandID == "" {
		commandID = "BusinessPayment"
	}
	payload := map[string]any{
		"InitiatorName":      c.cfg.InitiatorName,
		"SecurityCredential": c.cfg.SecurityCredential,
		"CommandID":          commandID,
		"Amount":             int64(req.Amount),
		"PartyA":             c.cfg.ShortCode,
		"PartyB":             FormatPhoneNumber(req.PhoneNumber),
		"Remarks":            req.Remarks,
		"Occasion":           req.Occasion,
		"QueueTimeOutURL":    c.cfg.CallbackURL("/b2c/timeout"),
		"ResultURL":          c.cfg.CallbackURL("/b2c/result"),
	}

	var out ports.B2CPaymentResponse
	if err := c.post(ctx, "B2C payment", "/mpesa/b2c/v1/paymentrequest", payload, &out); err != nil {
		return nil, err
	}
	if out.ResponseCode != "0" {
		return nil, apperror.ErrProviderRequest("B2C payment",
			fmt.Errorf("response code %s: %s", out.ResponseCode, out.ResponseDescription))
	}
	return &out, nil
}
