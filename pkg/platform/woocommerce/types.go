package woocommerce

// LineItem is one product line on a platform order.
type LineItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Total    string `json:"total"`
	SKU      string `json:"sku,omitempty"`
}

// Billing carries the customer contact block on a platform order.
type Billing struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

// CreateOrderRequest creates a mirror order on the store platform.
type CreateOrderRequest struct {
	Status       string     `json:"status"`
	Currency     string     `json:"currency,omitempty"`
	Billing      Billing    `json:"billing"`
	LineItems    []LineItem `json:"line_items"`
	CustomerNote string     `json:"customer_note,omitempty"`
	SetPaid      bool       `json:"set_paid"`
}

// Order is the platform order object.
type Order struct {
	ID     int64  `json:"id"`
	Number string `json:"number"`
	Status string `json:"status"`
	Total  string `json:"total"`
}

// Category is a store product category.
type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// ErrorResponse is the error envelope returned on non-2xx statuses.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
