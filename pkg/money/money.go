// Package money provides functionality for handling monetary values.
//
// It is a value object that represents a monetary value in a specific currency.
// Invariants:
//   - Amount is always stored in the smallest currency unit (e.g., cents for EUR).
//   - Currency code must be valid ISO 4217 (3 uppercase letters).
//   - All arithmetic operations require matching currencies.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount represents a monetary amount as an integer in the
// smallest currency unit (e.g., cents for EUR).
type Amount = int64

// ToCurrency converts a Code to a Currency with its standard decimals.
func (c Code) ToCurrency() Currency {
	switch c {
	case EUR:
		return EURCurrency
	case USD:
		return USDCurrency
	case GBP:
		return GBPCurrency
	case JPY:
		return JPYCurrency
	case KWD:
		return KWDCurrency
	default:
		return Currency{Code: c, Decimals: 2}
	}
}

// IsValid checks if the currency code is valid
func (c Code) IsValid() bool {
	if len(c) != 3 {
		return false
	}
	return c[0] >= 'A' && c[0] <= 'Z' &&
		c[1] >= 'A' && c[1] <= 'Z' &&
		c[2] >= 'A' && c[2] <= 'Z'
}

// String returns the string representation of the currency code.
func (c Code) String() string {
	return string(c)
}

// Currency represents a monetary unit with its standard decimal places
type Currency struct {
	Code     Code // 3-letter ISO 4217 code (e.g., "EUR")
	Decimals int  // Number of decimal places (0-8)
}

// IsValid checks if the currency is valid.
func (c Currency) IsValid() bool {
	if c.Decimals < 0 || c.Decimals > 8 {
		return false
	}
	return c.Code.IsValid()
}

// String returns the currency code as a string
func (c Currency) String() string { return string(c.Code) }

// Common currency instances
var (
	EURCurrency = Currency{Code: EUR, Decimals: 2}
	USDCurrency = Currency{Code: USD, Decimals: 2}
	GBPCurrency = Currency{Code: GBP, Decimals: 2}
	JPYCurrency = Currency{Code: JPY, Decimals: 0} // Japanese Yen has no decimal places
	KWDCurrency = Currency{Code: KWD, Decimals: 3}
)

// DefaultCurrency is the default currency (EUR)
var DefaultCurrency = EURCurrency

// Money represents a monetary value in a specific currency.
// The zero value is not usable; build values with the constructors below.
type Money struct {
	amount   Amount
	currency Currency
}

// Zero returns a zero amount in the given currency.
func Zero(currency Currency) Money {
	return Money{currency: currency}
}

// NewFromSmallestUnit creates a new Money object from the smallest currency unit.
// Invariants enforced:
//   - Currency must be valid (valid ISO 4217 code and valid decimal places).
func NewFromSmallestUnit(amount int64, currency Currency) (Money, error) {
	if !currency.IsValid() {
		return Money{}, fmt.Errorf("%w: %v", ErrInvalidCurrency, currency)
	}
	return Money{amount: amount, currency: currency}, nil
}

// New creates a Money value from a decimal amount expressed in the main
// currency unit.
// Invariants enforced:
//   - Currency must be valid.
//   - Amount must not have more decimal places than allowed by the currency.
//   - Amount must fit in int64 once converted to the smallest unit.
func New(amount decimal.Decimal, currency Currency) (Money, error) {
	if !currency.IsValid() {
		return Money{}, fmt.Errorf("%w: %v", ErrInvalidCurrency, currency)
	}
	shifted := amount.Shift(int32(currency.Decimals))
	if !shifted.IsInteger() {
		return Money{}, fmt.Errorf(
			"%w: more than %d decimal places for %s",
			ErrInvalidAmount,
			currency.Decimals,
			currency.Code,
		)
	}
	smallest := shifted.BigInt()
	if !smallest.IsInt64() {
		return Money{}, ErrAmountExceedsMaxSafeInt
	}
	return Money{amount: smallest.Int64(), currency: currency}, nil
}

// Parse reads a human-entered amount such as "150", "99.95" or "99,95".
// A decimal comma is accepted when the text carries no decimal point.
func Parse(text string, currency Currency) (Money, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Money{}, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	return New(d, currency)
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(text string, currency Currency) Money {
	m, err := Parse(text, currency)
	if err != nil {
		panic(fmt.Sprintf("money.MustParse(%q, %v): %v", text, currency, err))
	}
	return m
}

// Amount returns the amount of the Money object in the smallest currency unit.
func (m Money) Amount() Amount {
	return m.amount
}

// Currency returns the currency of the Money object.
func (m Money) Currency() Currency {
	return m.currency
}

// CurrencyCode returns the currency code of the Money object.
func (m Money) CurrencyCode() Code {
	return m.currency.Code
}

// Decimal returns the amount in the main currency unit without losing precision.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.amount, -int32(m.currency.Decimals))
}

// Add returns a new Money object with the sum of amounts.
// Invariants enforced:
//   - Currencies must match.
//   - Result must not overflow int64.
func (m Money) Add(other Money) (Money, error) {
	if !m.IsSameCurrency(other) {
		return Money{}, fmt.Errorf(
			"%w: cannot add %s and %s",
			ErrMismatchedCurrencies,
			m.currency.Code,
			other.currency.Code,
		)
	}
	sum := m.amount + other.amount
	if (other.amount > 0 && sum < m.amount) || (other.amount < 0 && sum > m.amount) {
		return Money{}, ErrAmountExceedsMaxSafeInt
	}
	return Money{amount: sum, currency: m.currency}, nil
}

// Subtract returns a new Money object with the difference of amounts.
// The result can be negative if the subtrahend is larger than the minuend.
func (m Money) Subtract(other Money) (Money, error) {
	if !m.IsSameCurrency(other) {
		return Money{}, fmt.Errorf(
			"%w: cannot subtract %s and %s",
			ErrMismatchedCurrencies,
			m.currency.Code,
			other.currency.Code,
		)
	}
	diff := m.amount - other.amount
	if (other.amount > 0 && diff > m.amount) || (other.amount < 0 && diff < m.amount) {
		return Money{}, ErrAmountExceedsMaxSafeInt
	}
	return Money{amount: diff, currency: m.currency}, nil
}

// Negate negates the current Money object.
func (m Money) Negate() Money {
	return Money{amount: -m.amount, currency: m.currency}
}

// Equals reports whether both values carry the same currency and amount.
func (m Money) Equals(other Money) bool {
	return m.IsSameCurrency(other) && m.amount == other.amount
}

// GreaterThan checks if the current Money object is greater than another Money object.
// Returns an error if currencies do not match.
func (m Money) GreaterThan(other Money) (bool, error) {
	if !m.IsSameCurrency(other) {
		return false, ErrMismatchedCurrencies
	}
	return m.amount > other.amount, nil
}

// LessThan checks if the current Money object is less than another Money object.
// Returns an error if currencies do not match.
func (m Money) LessThan(other Money) (bool, error) {
	if !m.IsSameCurrency(other) {
		return false, ErrMismatchedCurrencies
	}
	return m.amount < other.amount, nil
}

// IsSameCurrency checks if the current Money object has the same currency as another Money object.
func (m Money) IsSameCurrency(other Money) bool {
	return m.currency == other.currency
}

// IsPositive returns true if the amount is greater than zero.
func (m Money) IsPositive() bool {
	return m.amount > 0
}

// IsNegative returns true if the amount is less than zero.
func (m Money) IsNegative() bool {
	return m.amount < 0
}

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool {
	return m.amount == 0
}

// String returns a string representation of the Money object, e.g. "150.00 EUR".
func (m Money) String() string {
	return m.Decimal().StringFixed(int32(m.currency.Decimals)) + " " + string(m.currency.Code)
}
