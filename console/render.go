package console

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amirasaad/banco/pkg/domain"
	"github.com/amirasaad/banco/pkg/domain/account"
	"github.com/amirasaad/banco/pkg/dto"
	"github.com/amirasaad/banco/pkg/registry"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

func renderList(accounts []dto.AccountRead) string {
	rows := make([][]string, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, []string{a.IBAN, a.Holder, a.Variant, a.Balance})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("IBAN", "HOLDER", "TYPE", "BALANCE").
		Rows(rows...).
		String()
}

func renderDetail(a dto.AccountRead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "IBAN:        %s\n", a.IBAN)
	fmt.Fprintf(&b, "Holder:      %s\n", a.Holder)
	if a.NationalID != "" {
		fmt.Fprintf(&b, "National ID: %s\n", a.NationalID)
	}
	fmt.Fprintf(&b, "Type:        %s\n", a.Variant)
	fmt.Fprintf(&b, "Balance:     %s\n", a.Balance)
	fmt.Fprintf(&b, "Floor:       %s\n", a.Floor)
	fmt.Fprintf(&b, "Opened:      %s\n", a.CreatedAt.Format("2006-01-02 15:04"))
	return b.String()
}

// userMessage turns core errors into the text shown at the prompt.
func userMessage(err error, capacity int) string {
	switch {
	case errors.Is(err, registry.ErrCapacityExceeded):
		return fmt.Sprintf("The bank has reached its limit of %d accounts.", capacity)
	case errors.Is(err, registry.ErrDuplicateIBAN):
		return "An account with that IBAN already exists."
	case errors.Is(err, domain.ErrNotFound):
		return "No account found."
	case errors.Is(err, account.ErrInsufficientFunds):
		return "Insufficient funds: the operation would exceed the account limit."
	case errors.Is(err, account.ErrInvalidAmount):
		return "The amount must be a positive number."
	case errors.Is(err, domain.ErrValidation):
		return "Invalid data: " + err.Error()
	default:
		return "Error: " + err.Error()
	}
}
