package events

import (
	"github.com/amirasaad/banco/pkg/domain/account"
	"github.com/amirasaad/banco/pkg/money"
	"github.com/google/uuid"
)

// DepositCompleted is emitted after a deposit has been applied.
type DepositCompleted struct {
	FlowEvent
	Amount  money.Money
	Balance money.Money // balance after the deposit
}

func (DepositCompleted) Type() string { return EventTypeDepositCompleted.String() }

// NewDepositCompleted builds the event from the updated account.
func NewDepositCompleted(acc *account.Account, amount money.Money, correlationID uuid.UUID) *DepositCompleted {
	return &DepositCompleted{
		FlowEvent: newFlowEvent(acc.ID, acc.IBAN(), correlationID),
		Amount:    amount,
		Balance:   acc.Balance(),
	}
}
