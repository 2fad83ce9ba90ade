package paypal

import "errors"

var (
	// ErrInvalidRequest is returned when the request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCaptureFailed is returned when an approved order could not be captured
	ErrCaptureFailed = errors.New("capture failed")

	// ErrRefundFailed is returned when the refund could not be processed
	ErrRefundFailed = errors.New("refund failed")

	// ErrUnauthorized is returned when the client credentials are invalid
	ErrUnauthorized = errors.New("unauthorized: invalid client credentials")

	// ErrNetworkError is returned when there's a network communication error
	ErrNetworkError = errors.New("network error")
)
