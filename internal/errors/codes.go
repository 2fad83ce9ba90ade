package errors

// Error code constants returned in API responses.
// Format: CATEGORY_SPECIFIC_DETAIL — the admin console and storefront map
// these codes to display messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong admin password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationRequired      = "VALIDATION_REQUIRED"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationInvalidWeight = "VALIDATION_INVALID_WEIGHT" // weight not finite or <= 0

	// ==================== Pricing (PRICING_) ====================
	PricingNoTierMatch         = "PRICING_NO_TIER_MATCH"         // no weight tier covers the order weight
	PricingLabelsOutOfRange    = "PRICING_LABELS_OUT_OF_RANGE"   // label count above configured bulk limit
	PricingPackagingNotAllowed = "PRICING_PACKAGING_NOT_ALLOWED" // packaging option not valid for category
	PricingQuantityOverMax     = "PRICING_QUANTITY_OVER_MAX"     // packaging quantity above option max
	PricingDateBlocked         = "PRICING_DATE_BLOCKED"          // due date falls in a quote block
	PricingDateTooSoon         = "PRICING_DATE_TOO_SOON"         // due date inside the minimum lead time

	// ==================== Capacity (CAPACITY_) ====================
	CapacitySlotOccupied    = "CAPACITY_SLOT_OCCUPIED"     // slot already holds another order
	CapacityOverOrderWeight = "CAPACITY_OVER_ORDER_WEIGHT" // assigned kg would exceed the order total
	CapacityPastDate        = "CAPACITY_PAST_DATE"         // slot date before today
	CapacitySlotClosed      = "CAPACITY_SLOT_CLOSED"

	// ==================== Conflict (CONFLICT_) ====================
	ConflictOrderNumber = "CONFLICT_ORDER_NUMBER" // order number retries exhausted

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"

	// ==================== External (EXTERNAL_) ====================
	ExternalPaymentFailed  = "EXTERNAL_PAYMENT_FAILED"
	ExternalRefundFailed   = "EXTERNAL_REFUND_FAILED"
	ExternalPlatformFailed = "EXTERNAL_PLATFORM_FAILED" // WooCommerce call failed

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR"
)
