package console

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/amirasaad/banco/infra/eventbus"
	"github.com/amirasaad/banco/pkg/config"
	"github.com/amirasaad/banco/pkg/domain"
	"github.com/amirasaad/banco/pkg/domain/account"
	"github.com/amirasaad/banco/pkg/registry"
	accountsvc "github.com/amirasaad/banco/pkg/service/account"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(capacity int) *accountsvc.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.App{
		Registry: &config.Registry{Capacity: capacity, Currency: "EUR"},
		Policy:   &config.Policy{BusinessOverdraftLimit: decimal.NewFromInt(500)},
	}
	return accountsvc.New(eventbus.NewWithMemory(logger), registry.New(registry.WithCapacity(capacity)), cfg, logger)
}

// run feeds lines to a fresh console and returns everything it printed.
func run(t *testing.T, svc *accountsvc.Service, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	c := New(svc, in, &out, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, c.Run(context.Background()))
	return out.String()
}

func openSavings(iban, holder, balance string) []string {
	return []string{"1", "1", iban, holder, "", balance, "", "4"}
}

func TestConsole_FullSession(t *testing.T) {
	t.Parallel()
	svc := newService(10)
	var lines []string
	lines = append(lines, openSavings("ES01", "Ana", "100")...)
	lines = append(lines,
		"2",
		"4", "es01", "50",
		"5", "ES01", "500",
		"6", "ES01",
		"7",
	)
	out := run(t, svc, lines...)

	assert.Contains(t, out, "Account ES01 opened for Ana with balance 100.00 EUR.")
	assert.Contains(t, out, "ES01")
	assert.Contains(t, out, "savings")
	assert.Contains(t, out, "Deposit completed. New balance: 150.00 EUR")
	assert.Contains(t, out, "Insufficient funds")
	assert.Contains(t, out, "Current balance: 150.00 EUR")
	assert.Contains(t, out, "Goodbye")
	assert.Equal(t, 1, svc.Count())
}

func TestConsole_RepromptsOutOfRange(t *testing.T) {
	t.Parallel()
	out := run(t, newService(10), "9", "abc", "0", "7")
	assert.Equal(t, 3, strings.Count(out, "Please enter a valid number between 1 and 7."))
	assert.Contains(t, out, "Goodbye")
}

func TestConsole_SubMenuReprompts(t *testing.T) {
	t.Parallel()
	out := run(t, newService(10), "1", "5", "4", "7")
	assert.Contains(t, out, "Please enter a valid number between 1 and 4.")
	assert.Contains(t, out, "Back to the main menu...")
}

func TestConsole_EOFEndsSession(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	c := New(newService(10), strings.NewReader("2\n"), &out, nil)
	assert.NoError(t, c.Run(context.Background()))
	assert.Contains(t, out.String(), "There are no accounts yet.")
}

func TestConsole_CancelledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := New(newService(10), strings.NewReader("7\n"), io.Discard, nil)
	assert.ErrorIs(t, c.Run(ctx), context.Canceled)
}

func TestConsole_DuplicateIBAN(t *testing.T) {
	t.Parallel()
	svc := newService(10)
	lines := append(openSavings("ES01", "Ana", "0"), "1", "2", "es01", "4", "7")
	out := run(t, svc, lines...)
	assert.Contains(t, out, "An account with that IBAN already exists.")
	assert.Equal(t, 1, svc.Count())
}

func TestConsole_CapacityReached(t *testing.T) {
	t.Parallel()
	svc := newService(1)
	lines := append(openSavings("ES01", "Ana", "0"), "1", "3", "4", "7")
	out := run(t, svc, lines...)
	assert.Contains(t, out, "The bank has reached its limit of 1 accounts.")
	assert.Equal(t, 1, svc.Count())
}

func TestConsole_ShowByIBANOrHolder(t *testing.T) {
	t.Parallel()
	svc := newService(10)
	var lines []string
	lines = append(lines, openSavings("ES01", "Ana", "10")...)
	lines = append(lines, openSavings("ES02", "ana Garcia", "20")...)
	lines = append(lines, "3", "ANA", "3", "es02", "3", "Luis", "7")
	out := run(t, svc, lines...)

	assert.Contains(t, out, "Holder:      Ana\n")
	assert.Contains(t, out, "Holder:      ana Garcia\n")
	assert.Contains(t, out, "Balance:     20.00 EUR")
	assert.Contains(t, out, "No account found.")
}

func TestConsole_UnknownAccount(t *testing.T) {
	t.Parallel()
	out := run(t, newService(10), "4", "XX00", "5", "XX00", "6", "XX00", "7")
	assert.Equal(t, 3, strings.Count(out, "No account found with that IBAN."))
}

func TestConsole_BusinessOverdraft(t *testing.T) {
	t.Parallel()
	svc := newService(10)
	out := run(t, svc,
		"1", "3", "ES09", "Empresa SL", "B123", "100", "", "Eva, Luis", "4",
		"5", "ES09", "600",
		"5", "ES09", "0,01",
		"7",
	)
	assert.Contains(t, out, "Withdrawal completed. New balance: -500.00 EUR")
	assert.Contains(t, out, "Insufficient funds")

	acc, err := svc.FindByIBAN("ES09")
	require.NoError(t, err)
	policy, ok := acc.Policy().(account.BusinessCheckingPolicy)
	require.True(t, ok)
	assert.Equal(t, []string{"Eva", "Luis"}, policy.AuthorizedEntities)
}

func TestConsole_PersonalCheckingInvalidAmount(t *testing.T) {
	t.Parallel()
	svc := newService(10)
	out := run(t, svc,
		"1", "2", "ES05", "Luis", "", "", "", "", "4",
		"4", "ES05", "-3",
		"4", "ES05", "ten",
		"7",
	)
	assert.Contains(t, out, "Account ES05 opened for Luis with balance 0.00 EUR.")
	assert.Equal(t, 2, strings.Count(out, "The amount must be a positive number."))
}

func TestUserMessage(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  error
		want string
	}{
		{registry.ErrCapacityExceeded, "The bank has reached its limit of 100 accounts."},
		{fmt.Errorf("%w: ES01", registry.ErrDuplicateIBAN), "An account with that IBAN already exists."},
		{registry.ErrNotFound, "No account found."},
		{account.ErrInsufficientFunds, "Insufficient funds: the operation would exceed the account limit."},
		{account.ErrInvalidAmount, "The amount must be a positive number."},
		{fmt.Errorf("%w: holder", domain.ErrValidation), "Invalid data: validation error: holder"},
		{errors.New("boom"), "Error: boom"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, userMessage(tt.err, 100))
	}
}
