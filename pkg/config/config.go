package config

import (
	"errors"
	"fmt"

	"github.com/amirasaad/banco/pkg/money"
	"github.com/shopspring/decimal"
)

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[banco]"`
}

type Registry struct {
	Capacity int    `envconfig:"CAPACITY" default:"100"`
	Currency string `envconfig:"CURRENCY" default:"EUR"`
}

// Policy holds the defaults applied when an account is opened without
// explicit policy parameters. Amounts are in the registry currency.
type Policy struct {
	SavingsInterestRate    decimal.Decimal `envconfig:"SAVINGS_INTEREST_RATE" default:"0"`
	SavingsFloor           decimal.Decimal `envconfig:"SAVINGS_FLOOR" default:"0"`
	PersonalMaintenanceFee decimal.Decimal `envconfig:"PERSONAL_MAINTENANCE_FEE" default:"0"`
	BusinessOverdraftLimit decimal.Decimal `envconfig:"BUSINESS_OVERDRAFT_LIMIT" default:"500"`
	BusinessOverdraftFee   decimal.Decimal `envconfig:"BUSINESS_OVERDRAFT_FEE" default:"0"`
	BusinessOverdraftRate  decimal.Decimal `envconfig:"BUSINESS_OVERDRAFT_RATE" default:"0"`
}

type App struct {
	Env      string    `envconfig:"APP_ENV" default:"development"`
	Log      *Log      `envconfig:"LOG"`
	Registry *Registry `envconfig:"REGISTRY"`
	Policy   *Policy   `envconfig:"POLICY"`
}

var ErrInvalidConfig = errors.New("invalid configuration")

// CurrencyInfo returns the registry currency with its standard decimals.
func (r *Registry) CurrencyInfo() money.Currency {
	return money.Code(r.Currency).ToCurrency()
}

// Validate checks values envconfig cannot constrain through tags.
func (a *App) Validate() error {
	if a.Registry.Capacity <= 0 {
		return fmt.Errorf("%w: REGISTRY_CAPACITY must be positive, got %d", ErrInvalidConfig, a.Registry.Capacity)
	}
	if !money.Code(a.Registry.Currency).IsValid() {
		return fmt.Errorf("%w: REGISTRY_CURRENCY %q", ErrInvalidConfig, a.Registry.Currency)
	}
	if a.Policy.BusinessOverdraftLimit.IsNegative() {
		return fmt.Errorf("%w: POLICY_BUSINESS_OVERDRAFT_LIMIT must not be negative", ErrInvalidConfig)
	}
	if a.Policy.SavingsFloor.IsNegative() {
		return fmt.Errorf("%w: POLICY_SAVINGS_FLOOR must not be negative", ErrInvalidConfig)
	}
	return nil
}
