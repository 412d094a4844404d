package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// BaseURL is the Paystack API base URL
	BaseURL = "https://api.paystack.co"
	// DefaultTimeout bounds every gateway call; a hung verify must
	// surface as a retryable failure, never hang the request.
	DefaultTimeout = 30 * time.Second
)

// Client handles all Paystack API interactions
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// Config holds configuration for the Paystack client
type Config struct {
	SecretKey string
	BaseURL   string
	Timeout   time.Duration
}

// NewClient creates a new Paystack API client
func NewClient(config Config) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = BaseURL
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		secretKey:  config.SecretKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// InitializeRequest starts a checkout for an invoice. Amount is in
// major currency units (naira); Paystack wants kobo on the wire.
type InitializeRequest struct {
	Email       string
	Amount      float64 // major units
	Reference   string
	CallbackURL string
}

// InitializeResult carries the hosted checkout URL.
type InitializeResult struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// VerifyResult is the gateway's view of one transaction. Amount is in
// minor units (kobo) exactly as Paystack reports it; conversion to
// major units is the caller's job.
type VerifyResult struct {
	Status      string     `json:"status"` // "success", "failed", "abandoned"
	AmountMinor int64      `json:"amount"`
	Channel     string     `json:"channel"`
	PaidAt      *time.Time `json:"paid_at"`
	Reference   string     `json:"reference"`
}

type apiEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Initialize creates a checkout session for the reference.
func (c *Client) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error) {
	body := map[string]interface{}{
		"email":     req.Email,
		"amount":    int64(req.Amount * 100), // kobo
		"reference": req.Reference,
	}
	if req.CallbackURL != "" {
		body["callback_url"] = req.CallbackURL
	}

	var result InitializeResult
	if err := c.post(ctx, "/transaction/initialize", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Verify fetches the settlement state for a reference.
func (c *Client) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	var result VerifyResult
	if err := c.get(ctx, "/transaction/verify/"+reference, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gateway returned HTTP %d: %s", resp.StatusCode, string(raw))
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}
	if !envelope.Status {
		return fmt.Errorf("gateway rejected request: %s", envelope.Message)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode gateway data: %w", err)
		}
	}
	return nil
}
