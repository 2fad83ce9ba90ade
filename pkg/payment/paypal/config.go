package paypal

// Config represents the configuration for the PayPal REST client
type Config struct {
	// ClientID is the PayPal app client id
	ClientID string

	// ClientSecret is the PayPal app secret
	ClientSecret string

	// BaseURL is the PayPal API base URL
	BaseURL string

	// Currency is the ISO 4217 currency code for all charges
	Currency string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return ErrInvalidRequest
	}
	if c.ClientSecret == "" {
		return ErrInvalidRequest
	}
	if c.BaseURL == "" {
		return ErrInvalidRequest
	}
	if c.Currency == "" {
		return ErrInvalidRequest
	}
	return nil
}
