package square

// Money is an amount in the currency's smallest unit, cents for AUD.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// CreatePaymentRequest charges a tokenised card source.
type CreatePaymentRequest struct {
	SourceID       string `json:"source_id"`
	IdempotencyKey string `json:"idempotency_key"`
	AmountMoney    Money  `json:"amount_money"`
	LocationID     string `json:"location_id"`
	ReferenceID    string `json:"reference_id,omitempty"`
	Note           string `json:"note,omitempty"`
}

// Payment is the payment object returned by the API.
type Payment struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	AmountMoney Money  `json:"amount_money"`
	ReceiptURL  string `json:"receipt_url,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// CreatePaymentResponse wraps the created payment.
type CreatePaymentResponse struct {
	Payment Payment `json:"payment"`
}

// RefundPaymentRequest refunds a completed payment, in part or in full.
type RefundPaymentRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
	PaymentID      string `json:"payment_id"`
	AmountMoney    Money  `json:"amount_money"`
	Reason         string `json:"reason,omitempty"`
}

// Refund is the refund object returned by the API.
type Refund struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	PaymentID   string `json:"payment_id"`
	AmountMoney Money  `json:"amount_money"`
}

// RefundPaymentResponse wraps the created refund.
type RefundPaymentResponse struct {
	Refund Refund `json:"refund"`
}

// APIError is a single error entry in a failed response body.
type APIError struct {
	Category string `json:"category"`
	Code     string `json:"code"`
	Detail   string `json:"detail,omitempty"`
}

// ErrorResponse is the error envelope returned on non-2xx statuses.
type ErrorResponse struct {
	Errors []APIError `json:"errors"`
}
