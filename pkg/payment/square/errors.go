package square

import "errors"

var (
	// ErrInvalidRequest is returned when the request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrPaymentFailed is returned when the payment could not be taken
	ErrPaymentFailed = errors.New("payment failed")

	// ErrRefundFailed is returned when the refund could not be processed
	ErrRefundFailed = errors.New("refund failed")

	// ErrCardDeclined is returned when the card issuer rejects the charge
	ErrCardDeclined = errors.New("card declined")

	// ErrUnauthorized is returned when the access token is invalid
	ErrUnauthorized = errors.New("unauthorized: invalid access token")

	// ErrNetworkError is returned when there's a network communication error
	ErrNetworkError = errors.New("network error")
)
