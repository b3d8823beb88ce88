package account

import (
	"fmt"
	"time"

	"github.com/amirasaad/banco/pkg/money"
)

// Deposit, Withdraw and InquireBalance operate on a single account and do not
// synchronise. Callers sharing an account between goroutines go through
// registry.Registry, which serialises them.

// ValidateDeposit checks a deposit without applying it.
func (a *Account) ValidateDeposit(amount money.Money) error {
	_, err := a.afterDeposit(amount)
	return err
}

// ValidateWithdraw checks a withdrawal without applying it.
// Invariants enforced:
//   - Withdrawal amount must be positive.
//   - Withdrawal currency must match account currency.
//   - The resulting balance must not be below the policy's minimum balance.
func (a *Account) ValidateWithdraw(amount money.Money) error {
	_, err := a.afterWithdraw(amount)
	return err
}

func (a *Account) validateAmount(amount money.Money) error {
	if a == nil {
		return ErrNilAccount
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !a.balance.IsSameCurrency(amount) {
		return fmt.Errorf("%w: %s into %s account", ErrCurrencyMismatch, amount.CurrencyCode(), a.balance.CurrencyCode())
	}
	return nil
}

func (a *Account) afterDeposit(amount money.Money) (money.Money, error) {
	if err := a.validateAmount(amount); err != nil {
		return money.Money{}, err
	}
	return a.balance.Add(amount)
}

func (a *Account) afterWithdraw(amount money.Money) (money.Money, error) {
	if err := a.validateAmount(amount); err != nil {
		return money.Money{}, err
	}
	next, err := a.balance.Subtract(amount)
	if err != nil {
		return money.Money{}, err
	}
	floor := a.policy.MinimumBalance(a.balance.Currency())
	below, err := next.LessThan(floor)
	if err != nil {
		return money.Money{}, fmt.Errorf("%w: policy floor: %w", ErrCurrencyMismatch, err)
	}
	if below {
		return money.Money{}, ErrInsufficientFunds
	}
	return next, nil
}

// Deposit adds amount to the balance. It fails with ErrInvalidAmount when
// amount <= 0 and leaves the balance unchanged on any error.
func Deposit(a *Account, amount money.Money) error {
	next, err := a.afterDeposit(amount)
	if err != nil {
		return err
	}
	a.balance = next
	a.UpdatedAt = time.Now()
	return nil
}

// Withdraw removes amount from the balance if the account policy allows it.
// It fails with ErrInvalidAmount or ErrInsufficientFunds and leaves the
// balance unchanged on any error.
func Withdraw(a *Account, amount money.Money) error {
	next, err := a.afterWithdraw(amount)
	if err != nil {
		return err
	}
	a.balance = next
	a.UpdatedAt = time.Now()
	return nil
}

// InquireBalance returns the current balance. It has no side effects.
func InquireBalance(a *Account) money.Money {
	return a.balance
}
