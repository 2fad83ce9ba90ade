package square

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client represents a Square payments API client
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new Square client with the given configuration
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

// CreatePayment charges the card source for the given amount in cents. The
// idempotency key is generated per call, so a retried call after a network
// failure must reuse the returned request, not build a new one.
func (c *Client) CreatePayment(ctx context.Context, sourceID string, amountCents int64, referenceID string) (*Payment, error) {
	if sourceID == "" || amountCents <= 0 {
		return nil, ErrInvalidRequest
	}

	req := CreatePaymentRequest{
		SourceID:       sourceID,
		IdempotencyKey: uuid.New().String(),
		AmountMoney: Money{
			Amount:   amountCents,
			Currency: c.config.Currency,
		},
		LocationID:  c.config.LocationID,
		ReferenceID: referenceID,
	}

	resp, err := c.doRequest(ctx, "payments", req)
	if err != nil {
		return nil, err
	}

	var paymentResp CreatePaymentResponse
	if err := json.Unmarshal(resp, &paymentResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment response: %w", err)
	}

	return &paymentResp.Payment, nil
}

// RefundPayment refunds amountCents of a completed payment.
func (c *Client) RefundPayment(ctx context.Context, paymentID string, amountCents int64, reason string) (*Refund, error) {
	if paymentID == "" || amountCents <= 0 {
		return nil, ErrInvalidRequest
	}

	req := RefundPaymentRequest{
		IdempotencyKey: uuid.New().String(),
		PaymentID:      paymentID,
		AmountMoney: Money{
			Amount:   amountCents,
			Currency: c.config.Currency,
		},
		Reason: reason,
	}

	resp, err := c.doRequest(ctx, "refunds", req)
	if err != nil {
		if !isSquareSentinel(err) {
			return nil, fmt.Errorf("%w: %v", ErrRefundFailed, err)
		}
		return nil, err
	}

	var refundResp RefundPaymentResponse
	if err := json.Unmarshal(resp, &refundResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal refund response: %w", err)
	}

	return &refundResp.Refund, nil
}

// doRequest performs an HTTP request to the Square API
func (c *Client) doRequest(ctx context.Context, endpoint string, payload interface{}) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.config.BaseURL, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)
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

		errorMsg := fmt.Sprintf("Square API error - Status: %d, Body: %s", resp.StatusCode, string(body))

		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			return nil, fmt.Errorf("%w: %s", ErrUnauthorized, errorMsg)
		case hasErrorCategory(errResp, "PAYMENT_METHOD_ERROR"):
			return nil, fmt.Errorf("%w: %s", ErrCardDeclined, errorMsg)
		case resp.StatusCode == http.StatusBadRequest:
			return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, errorMsg)
		default:
			return nil, fmt.Errorf("%w: %s", ErrPaymentFailed, errorMsg)
		}
	}

	return body, nil
}

func hasErrorCategory(resp ErrorResponse, category string) bool {
	for _, e := range resp.Errors {
		if strings.EqualFold(e.Category, category) {
			return true
		}
	}
	return false
}

func isSquareSentinel(err error) bool {
	for _, sentinel := range []error{ErrInvalidRequest, ErrCardDeclined, ErrUnauthorized, ErrNetworkError} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
