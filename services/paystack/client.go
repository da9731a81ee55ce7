// File: services/paystack/client.go
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"stagelink/models"
)

// ErrNotConfigured is returned when no secret key is set. Callers treat this
// as a fatal configuration error, not a retryable gateway failure.
var ErrNotConfigured = errors.New("paystack secret key not configured")

// Client is a thin HTTP client for the Paystack REST API using bearer-token auth.
type Client struct {
	secretKey string
	baseURL   string
	http      *http.Client
}

// NewClient builds a gateway client. secretKey may be empty; every call then
// fails fast with ErrNotConfigured.
func NewClient(secretKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}
	return &Client{
		secretKey: secretKey,
		baseURL:   baseURL,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// envelope is Paystack's standard response wrapper.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	if c.secretKey == "" {
		return ErrNotConfigured
	}

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("paystack: failed to encode request: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("paystack: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("paystack: request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("paystack: failed to decode response: %w", err)
	}
	if !env.Status {
		return fmt.Errorf("paystack: gateway error: %s", env.Message)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("paystack: failed to decode response data: %w", err)
		}
	}
	return nil
}

// InitializeTransaction starts a card charge; amount is converted to the
// subunit (kobo/cents) Paystack expects.
func (c *Client) InitializeTransaction(ctx context.Context, email, reference string, amount float64, currency string) (*models.PaystackInitData, error) {
	payload := map[string]any{
		"email":     email,
		"amount":    int64(amount * 100),
		"currency":  currency,
		"reference": reference,
	}
	var data models.PaystackInitData
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", payload, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// VerifyTransaction fetches the gateway's authoritative status for one reference.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*models.PaystackTransactionData, error) {
	var data models.PaystackTransactionData
	if err := c.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// InitiateTransfer queues an outbound transfer. The reason carries the booking
// id, which is the only correlation token the transfer list gives us back.
func (c *Client) InitiateTransfer(ctx context.Context, recipientCode, reason string, amount float64, currency string) (*models.PaystackTransfer, error) {
	payload := map[string]any{
		"source":    "balance",
		"recipient": recipientCode,
		"amount":    int64(amount * 100),
		"currency":  currency,
		"reason":    reason,
	}
	var data models.PaystackTransfer
	if err := c.do(ctx, http.MethodPost, "/transfer", payload, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ListTransfers fetches the full transfer list. The API offers no
// payout-scoped filter, so callers scan the list themselves.
func (c *Client) ListTransfers(ctx context.Context) ([]models.PaystackTransfer, error) {
	var data []models.PaystackTransfer
	if err := c.do(ctx, http.MethodGet, "/transfer", nil, &data); err != nil {
		return nil, err
	}
	return data, nil
}
