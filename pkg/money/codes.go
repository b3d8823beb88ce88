package money

// Code represents a currency code (e.g., "EUR", "USD").
type Code string

// Common currency codes
const (
	EUR Code = "EUR" // Euro
	USD Code = "USD" // US Dollar
	GBP Code = "GBP" // British Pound
	JPY Code = "JPY" // Japanese Yen
	KWD Code = "KWD" // Kuwaiti Dinar
)
