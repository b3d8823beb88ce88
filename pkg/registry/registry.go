// Package registry holds the in-memory collection of bank accounts.
//
// A Registry keeps accounts in insertion order, bounded by a fixed capacity,
// and guarantees that no two accounts share an IBAN (compared
// case-insensitively). It is safe for concurrent use: Open and the
// Deposit/Withdraw helpers run their check-then-act sequences under one lock,
// and Deposit/Withdraw hand back a copy of the account taken under that lock.
package registry

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/amirasaad/banco/pkg/domain"
	"github.com/amirasaad/banco/pkg/domain/account"
	"github.com/amirasaad/banco/pkg/money"
)

// DefaultCapacity is the maximum number of accounts a Registry holds unless
// WithCapacity says otherwise.
const DefaultCapacity = 100

var (
	// ErrCapacityExceeded is returned by Open when the registry is full.
	ErrCapacityExceeded = errors.New("account limit reached")

	// ErrDuplicateIBAN is returned by Open when the IBAN is already in use.
	ErrDuplicateIBAN = fmt.Errorf("%w: iban already in use", domain.ErrAlreadyExists)

	// ErrNotFound is returned when a lookup by IBAN or holder matches nothing.
	ErrNotFound = fmt.Errorf("%w: account", domain.ErrNotFound)
)

// Option configures a Registry.
type Option func(*Registry)

// WithCapacity overrides DefaultCapacity. Non-positive values are ignored.
func WithCapacity(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.capacity = n
		}
	}
}

// Registry is the account collection. The zero value is not usable; call New.
type Registry struct {
	mu       sync.RWMutex
	capacity int
	accounts []*account.Account
	byIBAN   map[string]*account.Account
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(r)
	}
	r.accounts = make([]*account.Account, 0, r.capacity)
	r.byIBAN = make(map[string]*account.Account, r.capacity)
	return r
}

// Open registers acc. Capacity is checked before uniqueness, so a full
// registry reports ErrCapacityExceeded even for a duplicate IBAN. On error the
// registry is unchanged.
func (r *Registry) Open(acc *account.Account) error {
	if acc == nil {
		return account.ErrNilAccount
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.accounts) >= r.capacity {
		return ErrCapacityExceeded
	}
	key := acc.Key()
	if _, exists := r.byIBAN[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateIBAN, acc.IBAN())
	}
	r.accounts = append(r.accounts, acc)
	r.byIBAN[key] = acc
	return nil
}

// List returns all accounts in insertion order. The slice is a copy; the
// accounts are shared.
func (r *Registry) List() []*account.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*account.Account, len(r.accounts))
	copy(out, r.accounts)
	return out
}

// FindByHolder returns the first account, in insertion order, whose holder
// name equals name ignoring case. Holder names are not unique; later matches
// are not reachable through this method.
func (r *Registry) FindByHolder(name string) (*account.Account, error) {
	want := strings.TrimSpace(name)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, acc := range r.accounts {
		if strings.EqualFold(acc.Holder.Name, want) {
			return acc, nil
		}
	}
	return nil, ErrNotFound
}

// FindByIBAN returns the account with the given IBAN, ignoring case and whitespace.
func (r *Registry) FindByIBAN(iban string) (*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(iban)
}

// IsIBANInUse reports whether FindByIBAN would succeed.
func (r *Registry) IsIBANInUse(iban string) bool {
	_, err := r.FindByIBAN(iban)
	return err == nil
}

// Count returns the number of registered accounts.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts)
}

// Capacity returns the maximum number of accounts.
func (r *Registry) Capacity() int {
	return r.capacity
}

// Deposit looks up iban and applies account.Deposit under the registry lock.
// The returned account is a snapshot of the state right after the deposit.
func (r *Registry) Deposit(iban string, amount money.Money) (*account.Account, error) {
	return r.mutate(iban, func(acc *account.Account) error {
		return account.Deposit(acc, amount)
	})
}

// Withdraw looks up iban and applies account.Withdraw under the registry lock,
// so the balance check and the decrement cannot interleave with another call.
// The returned account is a snapshot of the state right after the withdrawal.
func (r *Registry) Withdraw(iban string, amount money.Money) (*account.Account, error) {
	return r.mutate(iban, func(acc *account.Account) error {
		return account.Withdraw(acc, amount)
	})
}

// Balance returns the balance of the account with the given IBAN.
func (r *Registry) Balance(iban string) (money.Money, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acc, err := r.lookup(iban)
	if err != nil {
		return money.Money{}, err
	}
	return account.InquireBalance(acc), nil
}

// mutate applies op to the account under the write lock and returns a copy,
// so callers never read the live account after the lock is released.
func (r *Registry) mutate(iban string, op func(*account.Account) error) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, err := r.lookup(iban)
	if err != nil {
		return nil, err
	}
	err = op(acc)
	snap := *acc
	return &snap, err
}

// lookup must be called with r.mu held.
func (r *Registry) lookup(iban string) (*account.Account, error) {
	if acc, ok := r.byIBAN[account.NormalizeIBAN(iban)]; ok {
		return acc, nil
	}
	return nil, ErrNotFound
}
