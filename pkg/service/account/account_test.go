package account_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/amirasaad/banco/infra/eventbus"
	"github.com/amirasaad/banco/pkg/config"
	"github.com/amirasaad/banco/pkg/domain"
	accountdomain "github.com/amirasaad/banco/pkg/domain/account"
	"github.com/amirasaad/banco/pkg/domain/events"
	"github.com/amirasaad/banco/pkg/dto"
	"github.com/amirasaad/banco/pkg/money"
	"github.com/amirasaad/banco/pkg/registry"
	accountsvc "github.com/amirasaad/banco/pkg/service/account"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.App {
	return &config.App{
		Registry: &config.Registry{Capacity: 3, Currency: "EUR"},
		Policy: &config.Policy{
			SavingsInterestRate:    decimal.RequireFromString("0.02"),
			BusinessOverdraftLimit: decimal.RequireFromString("500"),
			BusinessOverdraftFee:   decimal.RequireFromString("15"),
		},
	}
}

func setup(t *testing.T) (*accountsvc.Service, *eventbus.MemoryEventBus) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := eventbus.NewWithMemory(logger)
	cfg := testConfig()
	reg := registry.New(registry.WithCapacity(cfg.Registry.Capacity))
	return accountsvc.New(bus, reg, cfg, logger), bus
}

func openRequest(variant, iban, holder, balance string) dto.OpenAccountRequest {
	return dto.OpenAccountRequest{
		Variant:        variant,
		IBAN:           iban,
		HolderName:     holder,
		InitialBalance: balance,
	}
}

func TestService_Open(t *testing.T) {
	t.Parallel()
	svc, bus := setup(t)
	ctx := context.Background()

	acc, err := svc.Open(ctx, openRequest("savings", "ES01", "Ana", "100"))
	require.NoError(t, err)
	assert.Equal(t, "100.00 EUR", acc.Balance().String())
	assert.Equal(t, accountdomain.Savings, acc.Variant())
	policy, ok := acc.Policy().(accountdomain.SavingsPolicy)
	require.True(t, ok)
	assert.True(t, policy.InterestRate.Equal(decimal.RequireFromString("0.02")))

	published := bus.Published()
	require.Len(t, published, 1)
	opened, ok := published[0].(*events.AccountOpened)
	require.True(t, ok)
	assert.Equal(t, acc.ID, opened.AccountID)
	assert.Equal(t, "Ana", opened.Holder)

	assert.True(t, svc.IsIBANInUse("es01"))
	assert.Equal(t, 1, svc.Count())
	assert.Equal(t, 3, svc.Capacity())
}

func TestService_OpenBusinessUsesDefaults(t *testing.T) {
	t.Parallel()
	svc, _ := setup(t)

	acc, err := svc.Open(context.Background(), openRequest("business_checking", "ES02", "Empresa SL", ""))
	require.NoError(t, err)
	policy, ok := acc.Policy().(accountdomain.BusinessCheckingPolicy)
	require.True(t, ok)
	assert.Equal(t, "500.00 EUR", policy.OverdraftLimit.String())
	assert.Equal(t, "15.00 EUR", policy.OverdraftFee.String())
	assert.True(t, acc.Balance().IsZero())
}

func TestService_OpenBusinessOverride(t *testing.T) {
	t.Parallel()
	svc, _ := setup(t)
	req := openRequest("business_checking", "ES02", "Empresa SL", "")
	req.OverdraftLimit = "1000"
	req.AuthorizedEntities = []string{"Eva"}

	acc, err := svc.Open(context.Background(), req)
	require.NoError(t, err)
	policy := acc.Policy().(accountdomain.BusinessCheckingPolicy)
	assert.Equal(t, "1000.00 EUR", policy.OverdraftLimit.String())
	assert.Equal(t, []string{"Eva"}, policy.AuthorizedEntities)
}

func TestService_OpenFailures(t *testing.T) {
	t.Parallel()
	svc, bus := setup(t)
	ctx := context.Background()

	_, err := svc.Open(ctx, openRequest("savings", "ES01", "Ana", "0"))
	require.NoError(t, err)

	_, err = svc.Open(ctx, openRequest("personal_checking", "es01", "Luis", "0"))
	assert.ErrorIs(t, err, registry.ErrDuplicateIBAN)

	_, err = svc.Open(ctx, openRequest("savings", "", "Luis", "0"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Open(ctx, openRequest("savings", "ES03", "Luis", "-5"))
	assert.ErrorIs(t, err, accountdomain.ErrInsufficientFunds)

	_, err = svc.Open(ctx, openRequest("savings", "ES04", "Luis", "1.005"))
	assert.ErrorIs(t, err, accountdomain.ErrInvalidAmount)

	assert.Equal(t, 1, svc.Count())
	assert.Len(t, bus.Published(), 1, "failed opens emit nothing")
}

func TestService_OpenCapacity(t *testing.T) {
	t.Parallel()
	svc, _ := setup(t)
	ctx := context.Background()
	for _, iban := range []string{"ES01", "ES02", "ES03"} {
		_, err := svc.Open(ctx, openRequest("savings", iban, "Ana", ""))
		require.NoError(t, err)
	}
	_, err := svc.Open(ctx, openRequest("savings", "ES04", "Ana", ""))
	assert.ErrorIs(t, err, registry.ErrCapacityExceeded)
	_, err = svc.Open(ctx, openRequest("savings", "ES01", "Ana", ""))
	assert.ErrorIs(t, err, registry.ErrCapacityExceeded)
}

func TestService_DepositWithdrawBalance(t *testing.T) {
	t.Parallel()
	svc, bus := setup(t)
	ctx := context.Background()
	_, err := svc.Open(ctx, openRequest("savings", "ES01", "Ana", "100"))
	require.NoError(t, err)
	bus.ClearPublished()

	acc, err := svc.Deposit(ctx, "ES01", "50,25")
	require.NoError(t, err)
	assert.Equal(t, "150.25 EUR", acc.Balance().String())

	acc, err = svc.Withdraw(ctx, "es01", "30")
	require.NoError(t, err)
	assert.Equal(t, "120.25 EUR", acc.Balance().String())

	_, err = svc.Withdraw(ctx, "ES01", "500")
	assert.ErrorIs(t, err, accountdomain.ErrInsufficientFunds)

	_, err = svc.Deposit(ctx, "ES01", "abc")
	assert.ErrorIs(t, err, accountdomain.ErrInvalidAmount)

	_, err = svc.Deposit(ctx, "ES01", "-1")
	assert.ErrorIs(t, err, accountdomain.ErrInvalidAmount)

	_, err = svc.Deposit(ctx, "ES99", "1")
	assert.ErrorIs(t, err, registry.ErrNotFound)

	bal, err := svc.Balance(ctx, "ES01")
	require.NoError(t, err)
	assert.Equal(t, "120.25 EUR", bal.String())

	published := bus.Published()
	require.Len(t, published, 2)
	deposit, ok := published[0].(*events.DepositCompleted)
	require.True(t, ok)
	assert.Equal(t, money.MustParse("50.25", money.EURCurrency), deposit.Amount)
	_, ok = published[1].(*events.WithdrawCompleted)
	assert.True(t, ok)
}

func TestService_ConcurrentDepositWithdraw(t *testing.T) {
	t.Parallel()
	svc, bus := setup(t)
	ctx := context.Background()
	_, err := svc.Open(ctx, openRequest("savings", "ES01", "Ana", "100"))
	require.NoError(t, err)
	bus.ClearPublished()

	var wg sync.WaitGroup
	balances := make(chan int64, 100)
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			acc, err := svc.Deposit(ctx, "ES01", "1")
			if assert.NoError(t, err) {
				balances <- acc.Balance().Amount()
			}
		}()
		go func() {
			defer wg.Done()
			acc, err := svc.Withdraw(ctx, "ES01", "1")
			if assert.NoError(t, err) {
				balances <- acc.Balance().Amount()
			}
		}()
	}
	wg.Wait()
	close(balances)

	for b := range balances {
		assert.GreaterOrEqual(t, b, int64(5000))
		assert.LessOrEqual(t, b, int64(15000))
	}
	bal, err := svc.Balance(ctx, "ES01")
	require.NoError(t, err)
	assert.Equal(t, "100.00 EUR", bal.String())

	published := bus.Published()
	require.Len(t, published, 100)
	for _, ev := range published {
		switch e := ev.(type) {
		case *events.DepositCompleted:
			assert.GreaterOrEqual(t, e.Balance.Amount(), int64(5100))
		case *events.WithdrawCompleted:
			assert.LessOrEqual(t, e.Balance.Amount(), int64(14900))
		default:
			t.Fatalf("unexpected event %T", ev)
		}
	}
}

func TestService_BusinessOverdraft(t *testing.T) {
	t.Parallel()
	svc, _ := setup(t)
	ctx := context.Background()
	_, err := svc.Open(ctx, openRequest("business_checking", "ES02", "Empresa SL", "100"))
	require.NoError(t, err)

	acc, err := svc.Withdraw(ctx, "ES02", "600")
	require.NoError(t, err)
	assert.Equal(t, "-500.00 EUR", acc.Balance().String())

	_, err = svc.Withdraw(ctx, "ES02", "0.01")
	assert.ErrorIs(t, err, accountdomain.ErrInsufficientFunds)
}

func TestService_Lookups(t *testing.T) {
	t.Parallel()
	svc, _ := setup(t)
	ctx := context.Background()
	first, err := svc.Open(ctx, openRequest("savings", "ES01", "Ana", ""))
	require.NoError(t, err)
	_, err = svc.Open(ctx, openRequest("personal_checking", "ES02", "ana", ""))
	require.NoError(t, err)

	found, err := svc.FindByHolder("ANA")
	require.NoError(t, err)
	assert.Same(t, first, found)

	found, err = svc.FindByIBAN("es01")
	require.NoError(t, err)
	assert.Same(t, first, found)

	_, err = svc.FindByHolder("Luis")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list := svc.List()
	require.Len(t, list, 2)
	assert.Equal(t, "ES01", list[0].IBAN())
	assert.Equal(t, "ES02", list[1].IBAN())
}

func TestService_NilConfig(t *testing.T) {
	t.Parallel()
	svc := accountsvc.New(nil, registry.New(), nil, nil)
	assert.Equal(t, money.EURCurrency, svc.Currency())
	acc, err := svc.Open(context.Background(), openRequest("business_checking", "ES01", "Ana", ""))
	require.NoError(t, err)
	_, err = svc.Withdraw(context.Background(), "ES01", "1")
	assert.ErrorIs(t, err, accountdomain.ErrInsufficientFunds, "zero overdraft without config")
	assert.True(t, acc.Balance().IsZero())
}
