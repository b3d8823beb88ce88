package dto

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/amirasaad/banco/pkg/domain"
	"github.com/amirasaad/banco/pkg/domain/account"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpenAccountRequest carries what the console collects to open an account.
// Amounts and rates are decimal text in the registry currency; empty fields
// take the configured policy defaults.
type OpenAccountRequest struct {
	Variant            string   `validate:"required,oneof=savings personal_checking business_checking"`
	IBAN               string   `validate:"required,iban"`
	HolderName         string   `validate:"required,max=100"`
	NationalID         string   `validate:"omitempty,alphanum,max=20"`
	InitialBalance     string   `validate:"omitempty,amount"`
	InterestRate       string   `validate:"omitempty,amount"`
	MaintenanceFee     string   `validate:"omitempty,amount"`
	OverdraftLimit     string   `validate:"omitempty,amount"`
	AuthorizedEntities []string `validate:"dive,required,max=100"`
}

// AccountRead is a read-optimized DTO for rendering accounts.
type AccountRead struct {
	ID         uuid.UUID
	IBAN       string
	Holder     string
	NationalID string
	Variant    string
	Balance    string
	Currency   string
	Floor      string // lowest balance a withdrawal may leave
	CreatedAt  time.Time
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("iban", validateIBAN)
		_ = validate.RegisterValidation("amount", validateAmount)
	})
	return validate
}

// validateIBAN accepts 4 to 34 ASCII letters and digits once whitespace is removed.
func validateIBAN(fl validator.FieldLevel) bool {
	iban := account.NormalizeIBAN(fl.Field().String())
	if len(iban) < 4 || len(iban) > 34 {
		return false
	}
	for _, r := range iban {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// validateAmount accepts decimal text, with either a point or a comma separator.
func validateAmount(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	_, err := decimal.NewFromString(s)
	return err == nil
}

// Validate checks the request shape. Business rules (capacity, uniqueness,
// policy floors) are enforced by the domain and the registry.
func (r OpenAccountRequest) Validate() error {
	if err := getValidator().Struct(r); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}
	return nil
}

// FromAccount maps a domain account to its read model.
func FromAccount(acc *account.Account) AccountRead {
	floor := acc.Policy().MinimumBalance(acc.Currency())
	return AccountRead{
		ID:         acc.ID,
		IBAN:       acc.IBAN(),
		Holder:     acc.Holder.Name,
		NationalID: acc.Holder.NationalID,
		Variant:    acc.Variant().String(),
		Balance:    acc.Balance().String(),
		Currency:   acc.Currency().String(),
		Floor:      floor.String(),
		CreatedAt:  acc.CreatedAt,
	}
}

// FromAccounts maps a slice, preserving order.
func FromAccounts(accs []*account.Account) []AccountRead {
	out := make([]AccountRead, 0, len(accs))
	for _, acc := range accs {
		out = append(out, FromAccount(acc))
	}
	return out
}
