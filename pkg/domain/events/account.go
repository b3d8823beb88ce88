package events

import (
	"github.com/amirasaad/banco/pkg/domain/account"
	"github.com/amirasaad/banco/pkg/money"
	"github.com/google/uuid"
)

// AccountOpened is emitted after an account has been added to the registry.
type AccountOpened struct {
	FlowEvent
	Holder  string
	Variant account.Variant
	Balance money.Money
}

func (AccountOpened) Type() string { return EventTypeAccountOpened.String() }

// NewAccountOpened builds the event from a freshly opened account.
func NewAccountOpened(acc *account.Account, correlationID uuid.UUID) *AccountOpened {
	return &AccountOpened{
		FlowEvent: newFlowEvent(acc.ID, acc.IBAN(), correlationID),
		Holder:    acc.Holder.Name,
		Variant:   acc.Variant(),
		Balance:   acc.Balance(),
	}
}
