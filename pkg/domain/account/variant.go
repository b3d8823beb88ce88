package account

import (
	"fmt"
	"slices"
	"strings"

	"github.com/amirasaad/banco/pkg/money"
	"github.com/shopspring/decimal"
)

// Variant is the kind of account. It is fixed at creation and selects the
// withdrawal policy.
type Variant int

const (
	Savings Variant = iota + 1
	PersonalChecking
	BusinessChecking
)

var variantNames = map[Variant]string{
	Savings:          "savings",
	PersonalChecking: "personal_checking",
	BusinessChecking: "business_checking",
}

// String returns the canonical snake_case name of the variant.
func (v Variant) String() string {
	if name, ok := variantNames[v]; ok {
		return name
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// ParseVariant maps a canonical name (case-insensitive) back to a Variant.
func ParseVariant(s string) (Variant, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for v, name := range variantNames {
		if name == want {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// Policy is the per-variant withdrawal rule. A withdrawal is accepted only if
// the resulting balance is not below MinimumBalance.
type Policy interface {
	Variant() Variant
	MinimumBalance(currency money.Currency) money.Money
}

// SavingsPolicy never lets the balance drop below Floor (zero when unset).
// InterestRate is informational; interest is not accrued.
type SavingsPolicy struct {
	InterestRate decimal.Decimal
	Floor        money.Money
}

func (SavingsPolicy) Variant() Variant { return Savings }

func (p SavingsPolicy) MinimumBalance(currency money.Currency) money.Money {
	return orZero(p.Floor, currency)
}

// PersonalCheckingPolicy is a checking account without overdraft.
type PersonalCheckingPolicy struct {
	MaintenanceFee     money.Money
	AuthorizedEntities []string
}

func (PersonalCheckingPolicy) Variant() Variant { return PersonalChecking }

func (PersonalCheckingPolicy) MinimumBalance(currency money.Currency) money.Money {
	return money.Zero(currency)
}

// BusinessCheckingPolicy allows the balance to go negative down to
// -OverdraftLimit. OverdraftFee and OverdraftRate are informational.
type BusinessCheckingPolicy struct {
	OverdraftLimit     money.Money
	OverdraftFee       money.Money
	OverdraftRate      decimal.Decimal
	AuthorizedEntities []string
}

func (BusinessCheckingPolicy) Variant() Variant { return BusinessChecking }

func (p BusinessCheckingPolicy) MinimumBalance(currency money.Currency) money.Money {
	return orZero(p.OverdraftLimit, currency).Negate()
}

// orZero treats an unset Money (no currency) as zero in the given currency.
func orZero(m money.Money, currency money.Currency) money.Money {
	if m.CurrencyCode() == "" {
		return money.Zero(currency)
	}
	return m
}

// ownPolicy returns a policy the account owns outright. Pointer policies of
// the built-in kinds are copied so the caller cannot change the limits of an
// opened account.
func ownPolicy(p Policy) (Policy, error) {
	switch v := p.(type) {
	case nil:
		return nil, ErrNilPolicy
	case *SavingsPolicy:
		if v == nil {
			return nil, ErrNilPolicy
		}
		return *v, nil
	case *PersonalCheckingPolicy:
		if v == nil {
			return nil, ErrNilPolicy
		}
		c := *v
		c.AuthorizedEntities = slices.Clone(v.AuthorizedEntities)
		return c, nil
	case *BusinessCheckingPolicy:
		if v == nil {
			return nil, ErrNilPolicy
		}
		c := *v
		c.AuthorizedEntities = slices.Clone(v.AuthorizedEntities)
		return c, nil
	case PersonalCheckingPolicy:
		v.AuthorizedEntities = slices.Clone(v.AuthorizedEntities)
		return v, nil
	case BusinessCheckingPolicy:
		v.AuthorizedEntities = slices.Clone(v.AuthorizedEntities)
		return v, nil
	}
	return p, nil
}

// policyAmounts lists the Money fields a built-in policy carries so Build can
// check they share the account currency. Other policies are checked through
// their MinimumBalance.
func policyAmounts(p Policy) []money.Money {
	switch v := p.(type) {
	case SavingsPolicy:
		return []money.Money{v.Floor}
	case PersonalCheckingPolicy:
		return []money.Money{v.MaintenanceFee}
	case BusinessCheckingPolicy:
		return []money.Money{v.OverdraftLimit, v.OverdraftFee}
	default:
		return nil
	}
}
