package square

// Config represents the configuration for the Square payments client
type Config struct {
	// AccessToken is the Square API bearer token
	AccessToken string

	// LocationID is the Square location the shop charges against
	LocationID string

	// BaseURL is the Square API base URL
	BaseURL string

	// Currency is the ISO 4217 currency code for all charges
	Currency string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.AccessToken == "" {
		return ErrInvalidRequest
	}
	if c.LocationID == "" {
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
