package account

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/banco/pkg/money"
	"github.com/google/uuid"
)

var (
	// ErrInvalidAmount is returned when a deposit or withdrawal amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds is returned when a withdrawal would take the balance below the policy floor.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrCurrencyMismatch is returned when an amount is not in the account currency.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrNilAccount is returned when a nil account is passed to an operation.
	ErrNilAccount = errors.New("nil account")

	// ErrInvalidIBAN is returned when an account is built without an IBAN.
	ErrInvalidIBAN = errors.New("iban is required")

	// ErrMissingHolder is returned when an account is built without a holder name.
	ErrMissingHolder = errors.New("holder name is required")

	// ErrNilPolicy is returned when an account is built without a withdrawal policy.
	ErrNilPolicy = errors.New("account policy is required")

	// ErrUnknownVariant is returned by ParseVariant for unrecognised names.
	ErrUnknownVariant = errors.New("unknown account variant")
)

// Holder is the named owner of an account. Names are not unique.
type Holder struct {
	Name       string
	NationalID string
}

// Account is a single bank account. It is an aggregate root: the IBAN never
// changes after Build and the balance only changes through Deposit and Withdraw.
//
// Invariants:
//   - IBAN is non-empty and compared case-insensitively (see NormalizeIBAN).
//   - The balance is never below the policy's MinimumBalance after an operation.
//   - Amounts are held in the smallest currency unit.
type Account struct {
	ID        uuid.UUID
	Holder    Holder
	CreatedAt time.Time
	UpdatedAt time.Time

	iban    string
	balance money.Money
	policy  Policy
}

// IBAN returns the account identifier as it was given at creation.
func (a *Account) IBAN() string { return a.iban }

// Key returns the normalised IBAN used for identity comparisons.
func (a *Account) Key() string { return NormalizeIBAN(a.iban) }

// Balance returns the current balance.
func (a *Account) Balance() money.Money { return a.balance }

// Currency returns the account currency.
func (a *Account) Currency() money.Currency { return a.balance.Currency() }

// Policy returns the withdrawal policy fixed at creation.
func (a *Account) Policy() Policy { return a.policy }

// Variant returns the account kind.
func (a *Account) Variant() Variant { return a.policy.Variant() }

// NormalizeIBAN strips all whitespace and upper-cases s, so that
// "es01 0000" and "ES010000" identify the same account.
func NormalizeIBAN(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}

// Builder provides a fluent API for constructing Account instances.
type Builder struct {
	id        uuid.UUID
	iban      string
	holder    Holder
	balance   int64
	currency  money.Currency
	policy    Policy
	createdAt time.Time
	updatedAt time.Time
}

// New creates a new Builder with sensible defaults, such as a new UUID and the default currency.
func New() *Builder {
	now := time.Now()
	return &Builder{
		id:        uuid.New(),
		currency:  money.DefaultCurrency,
		createdAt: now,
		updatedAt: now,
	}
}

// WithID sets the ID for the account being built.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

// WithIBAN sets the IBAN. This is a mandatory field.
func (b *Builder) WithIBAN(iban string) *Builder {
	b.iban = strings.TrimSpace(iban)
	return b
}

// WithHolder sets the account holder. The holder name is mandatory.
func (b *Builder) WithHolder(h Holder) *Builder {
	h.Name = strings.TrimSpace(h.Name)
	h.NationalID = strings.TrimSpace(h.NationalID)
	b.holder = h
	return b
}

// WithCurrency sets the account currency. Defaults to money.DefaultCurrency.
func (b *Builder) WithCurrency(c money.Currency) *Builder {
	b.currency = c
	return b
}

// WithBalance sets the opening balance in the smallest currency unit.
func (b *Builder) WithBalance(balance int64) *Builder {
	b.balance = balance
	return b
}

// WithPolicy sets the variant policy. This is a mandatory field.
func (b *Builder) WithPolicy(p Policy) *Builder {
	b.policy = p
	return b
}

// WithCreatedAt sets the creation timestamp, mainly for test setup.
func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.createdAt = t
	return b
}

// Build validates the collected fields and returns the Account. The opening
// balance must already satisfy the policy floor.
func (b *Builder) Build() (*Account, error) {
	if NormalizeIBAN(b.iban) == "" {
		return nil, ErrInvalidIBAN
	}
	if b.holder.Name == "" {
		return nil, ErrMissingHolder
	}
	policy, err := ownPolicy(b.policy)
	if err != nil {
		return nil, err
	}
	bal, err := money.NewFromSmallestUnit(b.balance, b.currency)
	if err != nil {
		return nil, err
	}
	for _, m := range policyAmounts(policy) {
		if m.CurrencyCode() != "" && m.Currency() != b.currency {
			return nil, fmt.Errorf("%w: policy amount %s on %s account", ErrCurrencyMismatch, m, b.currency)
		}
	}
	below, err := bal.LessThan(policy.MinimumBalance(b.currency))
	if err != nil {
		return nil, fmt.Errorf("%w: policy floor: %w", ErrCurrencyMismatch, err)
	}
	if below {
		return nil, fmt.Errorf("%w: opening balance %s below %s minimum",
			ErrInsufficientFunds, bal, policy.Variant())
	}
	return &Account{
		ID:        b.id,
		Holder:    b.holder,
		CreatedAt: b.createdAt,
		UpdatedAt: b.updatedAt,
		iban:      b.iban,
		balance:   bal,
		policy:    policy,
	}, nil
}
