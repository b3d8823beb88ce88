package events

import (
	"github.com/amirasaad/banco/pkg/domain/account"
	"github.com/amirasaad/banco/pkg/money"
	"github.com/google/uuid"
)

// WithdrawCompleted is emitted after a withdrawal has been applied.
type WithdrawCompleted struct {
	FlowEvent
	Amount  money.Money
	Balance money.Money // balance after the withdrawal
}

func (WithdrawCompleted) Type() string { return EventTypeWithdrawCompleted.String() }

// NewWithdrawCompleted builds the event from the updated account.
func NewWithdrawCompleted(acc *account.Account, amount money.Money, correlationID uuid.UUID) *WithdrawCompleted {
	return &WithdrawCompleted{
		FlowEvent: newFlowEvent(acc.ID, acc.IBAN(), correlationID),
		Amount:    amount,
		Balance:   acc.Balance(),
	}
}
