// Package account provides the application operations on the account registry:
// opening accounts, deposits, withdrawals, balance inquiries and lookups.
//
// Amounts arrive as text from the console and are parsed in the registry
// currency. Every successful state change emits a domain event on the bus.
package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/amirasaad/banco/pkg/config"
	"github.com/amirasaad/banco/pkg/domain/account"
	"github.com/amirasaad/banco/pkg/domain/events"
	"github.com/amirasaad/banco/pkg/dto"
	"github.com/amirasaad/banco/pkg/eventbus"
	"github.com/amirasaad/banco/pkg/money"
	"github.com/amirasaad/banco/pkg/registry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service provides business logic for account operations.
type Service struct {
	registry *registry.Registry
	bus      eventbus.Bus
	defaults config.Policy
	currency money.Currency
	logger   *slog.Logger
}

// New creates a Service. A nil cfg uses EUR and zero-valued policy defaults.
func New(
	bus eventbus.Bus,
	reg *registry.Registry,
	cfg *config.App,
	logger *slog.Logger,
) *Service {
	s := &Service{
		registry: reg,
		bus:      bus,
		currency: money.DefaultCurrency,
		logger:   logger,
	}
	if cfg != nil {
		if cfg.Registry != nil {
			s.currency = cfg.Registry.CurrencyInfo()
		}
		if cfg.Policy != nil {
			s.defaults = *cfg.Policy
		}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Currency returns the currency every account and amount is held in.
func (s *Service) Currency() money.Currency {
	return s.currency
}

// Open validates req, builds the account with its variant policy and adds it
// to the registry. Capacity and IBAN uniqueness failures come from the registry.
func (s *Service) Open(ctx context.Context, req dto.OpenAccountRequest) (*account.Account, error) {
	logger := s.logger.With("iban", req.IBAN, "variant", req.Variant)
	logger.Info("Open started")

	if err := req.Validate(); err != nil {
		logger.Warn("Open failed: validation error", "error", err)
		return nil, err
	}
	variant, err := account.ParseVariant(req.Variant)
	if err != nil {
		return nil, err
	}
	balance, err := s.parseOptionalAmount(req.InitialBalance, decimal.Zero)
	if err != nil {
		logger.Warn("Open failed: invalid initial balance", "error", err)
		return nil, err
	}
	policy, err := s.policyFor(variant, req)
	if err != nil {
		logger.Warn("Open failed: invalid policy parameters", "error", err)
		return nil, err
	}

	acc, err := account.New().
		WithIBAN(req.IBAN).
		WithHolder(account.Holder{
			Name:       strings.TrimSpace(req.HolderName),
			NationalID: strings.TrimSpace(req.NationalID),
		}).
		WithCurrency(s.currency).
		WithBalance(balance.Amount()).
		WithPolicy(policy).
		Build()
	if err != nil {
		logger.Warn("Open failed: domain error", "error", err)
		return nil, err
	}
	// Once registered the account is shared, so the event is built first.
	opened := events.NewAccountOpened(acc, uuid.New())
	if err := s.registry.Open(acc); err != nil {
		logger.Warn("Open failed: registry rejected account", "error", err)
		return nil, err
	}

	s.emit(ctx, opened)
	logger.Info("Open completed", "account_id", opened.AccountID, "balance", opened.Balance.String())
	return acc, nil
}

// List returns every account in opening order.
func (s *Service) List() []*account.Account {
	return s.registry.List()
}

// FindByHolder returns the first account opened for the holder name.
func (s *Service) FindByHolder(name string) (*account.Account, error) {
	return s.registry.FindByHolder(name)
}

// FindByIBAN returns the account with the given IBAN.
func (s *Service) FindByIBAN(iban string) (*account.Account, error) {
	return s.registry.FindByIBAN(iban)
}

// IsIBANInUse reports whether an account with the IBAN is registered.
func (s *Service) IsIBANInUse(iban string) bool {
	return s.registry.IsIBANInUse(iban)
}

// Count returns the number of registered accounts.
func (s *Service) Count() int {
	return s.registry.Count()
}

// Capacity returns the registry limit.
func (s *Service) Capacity() int {
	return s.registry.Capacity()
}

// Deposit parses amount and credits the account. Text that is not a number
// fails with account.ErrInvalidAmount. The returned account is a snapshot
// taken right after the deposit.
func (s *Service) Deposit(ctx context.Context, iban, amount string) (*account.Account, error) {
	logger := s.logger.With("iban", iban, "amount", amount)
	m, err := s.parseAmount(amount)
	if err != nil {
		logger.Warn("Deposit failed: invalid amount", "error", err)
		return nil, err
	}
	snap, err := s.registry.Deposit(iban, m)
	if err != nil {
		logger.Warn("Deposit failed", "error", err)
		return nil, err
	}
	s.emit(ctx, events.NewDepositCompleted(snap, m, uuid.New()))
	logger.Info("Deposit completed", "balance", snap.Balance().String())
	return snap, nil
}

// Withdraw parses amount and debits the account if its policy allows it. The
// returned account is a snapshot taken right after the withdrawal.
func (s *Service) Withdraw(ctx context.Context, iban, amount string) (*account.Account, error) {
	logger := s.logger.With("iban", iban, "amount", amount)
	m, err := s.parseAmount(amount)
	if err != nil {
		logger.Warn("Withdraw failed: invalid amount", "error", err)
		return nil, err
	}
	snap, err := s.registry.Withdraw(iban, m)
	if err != nil {
		logger.Warn("Withdraw failed", "error", err)
		return nil, err
	}
	s.emit(ctx, events.NewWithdrawCompleted(snap, m, uuid.New()))
	logger.Info("Withdraw completed", "balance", snap.Balance().String())
	return snap, nil
}

// Balance returns the current balance of the account.
func (s *Service) Balance(_ context.Context, iban string) (money.Money, error) {
	return s.registry.Balance(iban)
}

// emit publishes e. The state change has already happened, so a bus failure
// is logged rather than returned.
func (s *Service) emit(ctx context.Context, e eventbus.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, e); err != nil {
		s.logger.Error("failed to emit event", "type", e.Type(), "error", err)
	}
}

func (s *Service) policyFor(variant account.Variant, req dto.OpenAccountRequest) (account.Policy, error) {
	switch variant {
	case account.Savings:
		rate, err := parseRate(req.InterestRate, s.defaults.SavingsInterestRate)
		if err != nil {
			return nil, err
		}
		floor, err := money.New(s.defaults.SavingsFloor, s.currency)
		if err != nil {
			return nil, err
		}
		return account.SavingsPolicy{InterestRate: rate, Floor: floor}, nil
	case account.PersonalChecking:
		fee, err := s.parseOptionalAmount(req.MaintenanceFee, s.defaults.PersonalMaintenanceFee)
		if err != nil {
			return nil, err
		}
		return account.PersonalCheckingPolicy{
			MaintenanceFee:     fee,
			AuthorizedEntities: req.AuthorizedEntities,
		}, nil
	case account.BusinessChecking:
		limit, err := s.parseOptionalAmount(req.OverdraftLimit, s.defaults.BusinessOverdraftLimit)
		if err != nil {
			return nil, err
		}
		if limit.IsNegative() {
			return nil, fmt.Errorf("%w: overdraft limit must not be negative", account.ErrInvalidAmount)
		}
		fee, err := money.New(s.defaults.BusinessOverdraftFee, s.currency)
		if err != nil {
			return nil, err
		}
		return account.BusinessCheckingPolicy{
			OverdraftLimit:     limit,
			OverdraftFee:       fee,
			OverdraftRate:      s.defaults.BusinessOverdraftRate,
			AuthorizedEntities: req.AuthorizedEntities,
		}, nil
	}
	return nil, fmt.Errorf("%w: %d", account.ErrUnknownVariant, int(variant))
}

// parseAmount reports malformed text as account.ErrInvalidAmount while keeping
// the money error in the chain.
func (s *Service) parseAmount(text string) (money.Money, error) {
	m, err := money.Parse(text, s.currency)
	if err != nil {
		return money.Money{}, fmt.Errorf("%w: %w", account.ErrInvalidAmount, err)
	}
	return m, nil
}

// parseOptionalAmount falls back to def when text is blank.
func (s *Service) parseOptionalAmount(text string, def decimal.Decimal) (money.Money, error) {
	if strings.TrimSpace(text) == "" {
		return money.New(def, s.currency)
	}
	return s.parseAmount(text)
}

func parseRate(text string, def decimal.Decimal) (decimal.Decimal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return def, nil
	}
	if !strings.Contains(text, ".") {
		text = strings.Replace(text, ",", ".", 1)
	}
	rate, err := decimal.NewFromString(text)
	if err != nil || rate.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: rate %q", account.ErrInvalidAmount, text)
	}
	return rate, nil
}
