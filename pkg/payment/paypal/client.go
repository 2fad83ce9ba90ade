package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Client represents a PayPal REST API client
type Client struct {
	config     Config
	httpClient *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient creates a new PayPal client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
	}, nil
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// CaptureOrder captures an approved checkout order and returns the capture.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*Capture, error) {
	if orderID == "" {
		return nil, ErrInvalidRequest
	}

	endpoint := fmt.Sprintf("v2/checkout/orders/%s/capture", orderID)
	resp, err := c.doRequest(ctx, endpoint, struct{}{}, ErrCaptureFailed)
	if err != nil {
		return nil, err
	}

	var captureResp captureOrderResponse
	if err := json.Unmarshal(resp, &captureResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal capture response: %w", err)
	}

	for _, unit := range captureResp.PurchaseUnits {
		if len(unit.Payments.Captures) > 0 {
			return &unit.Payments.Captures[0], nil
		}
	}
	return nil, fmt.Errorf("%w: no capture in response for order %s", ErrCaptureFailed, orderID)
}

// RefundCapture refunds a captured payment. Amount is a decimal string like
// "42.50"; empty refunds the full capture.
func (c *Client) RefundCapture(ctx context.Context, captureID, amount, note string) (*RefundResult, error) {
	if captureID == "" {
		return nil, ErrInvalidRequest
	}

	req := refundRequest{NoteToPayer: note}
	if amount != "" {
		req.Amount = &Amount{
			CurrencyCode: c.config.Currency,
			Value:        amount,
		}
	}

	endpoint := fmt.Sprintf("v2/payments/captures/%s/refund", captureID)
	resp, err := c.doRequest(ctx, endpoint, req, ErrRefundFailed)
	if err != nil {
		return nil, err
	}

	var refund RefundResult
	if err := json.Unmarshal(resp, &refund); err != nil {
		return nil, fmt.Errorf("failed to unmarshal refund response: %w", err)
	}

	return &refund, nil
}

// doRequest performs an authenticated HTTP request to the PayPal API
func (c *Client) doRequest(ctx context.Context, endpoint string, payload interface{}, failSentinel error) ([]byte, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	apiURL := fmt.Sprintf("%s/%s", c.config.BaseURL, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
		}

		errorMsg := fmt.Sprintf("PayPal API error - Status: %d, Name: %s, Message: %s",
			resp.StatusCode, errResp.Name, errResp.Message)

		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return nil, fmt.Errorf("%w: %s", ErrUnauthorized, errorMsg)
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return nil, fmt.Errorf("%w: %s", failSentinel, errorMsg)
		default:
			return nil, fmt.Errorf("%w: %s", failSentinel, errorMsg)
		}
	}

	return body, nil
}

// token returns a cached OAuth access token, refreshing it via the client
// credentials grant when missing or within a minute of expiry.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-time.Minute)) {
		return c.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	tokenURL := fmt.Sprintf("%s/v1/oauth2/token", c.config.BaseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.config.ClientID, c.config.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d, body: %s", ErrUnauthorized, resp.StatusCode, string(body))
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("failed to unmarshal token response: %w", err)
	}

	c.accessToken = token.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	return c.accessToken, nil
}
