package money

import "errors"

// Common money package errors
var (
	// ErrInvalidAmount is returned when an amount cannot be represented in the
	// smallest unit of its currency.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrAmountExceedsMaxSafeInt is returned when an amount or the result of an
	// operation does not fit in the int64 smallest-unit representation.
	ErrAmountExceedsMaxSafeInt = errors.New("amount exceeds maximum safe integer value")

	// ErrInvalidCurrency is returned for malformed currency codes or decimals.
	ErrInvalidCurrency = errors.New("invalid currency code")

	// ErrMismatchedCurrencies is returned when performing operations on money with
	// different currencies
	ErrMismatchedCurrencies = errors.New("mismatched currencies")
)
