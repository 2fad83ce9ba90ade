package woocommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrInvalidRequest is returned when the request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrPlatformError is returned when the store platform rejects a call
	ErrPlatformError = errors.New("store platform error")

	// ErrUnauthorized is returned when the consumer credentials are invalid
	ErrUnauthorized = errors.New("unauthorized: invalid consumer credentials")

	// ErrNetworkError is returned when there's a network communication error
	ErrNetworkError = errors.New("network error")
)

// Config represents the configuration for the WooCommerce REST client
type Config struct {
	// BaseURL is the store URL, without the wp-json path
	BaseURL string

	// ConsumerKey and ConsumerSecret are the REST API credentials
	ConsumerKey    string
	ConsumerSecret string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" || c.ConsumerKey == "" || c.ConsumerSecret == "" {
		return ErrInvalidRequest
	}
	return nil
}

// Client represents a WooCommerce REST API client
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new WooCommerce client with the given configuration
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

// CreateOrder mirrors a shop order onto the store platform.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	if len(req.LineItems) == 0 {
		return nil, ErrInvalidRequest
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "orders", req)
	if err != nil {
		return nil, err
	}

	var order Order
	if err := json.Unmarshal(resp, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order response: %w", err)
	}
	return &order, nil
}

// UpdateOrderStatus moves a platform order to a new status.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int64, status string) (*Order, error) {
	if orderID <= 0 || status == "" {
		return nil, ErrInvalidRequest
	}

	payload := map[string]string{"status": status}
	resp, err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("orders/%d", orderID), payload)
	if err != nil {
		return nil, err
	}

	var order Order
	if err := json.Unmarshal(resp, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order response: %w", err)
	}
	return &order, nil
}

// ListCategories returns the store's product categories.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "products/categories?per_page=100", nil)
	if err != nil {
		return nil, err
	}

	var categories []Category
	if err := json.Unmarshal(resp, &categories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal category response: %w", err)
	}
	return categories, nil
}

// doRequest performs an HTTP request to the WooCommerce REST API
func (c *Client) doRequest(ctx context.Context, method, endpoint string, payload interface{}) ([]byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		reqBody, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewBuffer(reqBody)
	}

	url := fmt.Sprintf("%s/wp-json/wc/v3/%s", c.config.BaseURL, endpoint)

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.SetBasicAuth(c.config.ConsumerKey, c.config.ConsumerSecret)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

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

		errorMsg := fmt.Sprintf("WooCommerce API error - Status: %d, Code: %s, Message: %s",
			resp.StatusCode, errResp.Code, errResp.Message)

		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, fmt.Errorf("%w: %s", ErrUnauthorized, errorMsg)
		case http.StatusBadRequest:
			return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, errorMsg)
		default:
			return nil, fmt.Errorf("%w: %s", ErrPlatformError, errorMsg)
		}
	}

	return body, nil
}
