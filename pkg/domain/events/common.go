package events

import (
	"time"

	"github.com/google/uuid"
)

// FlowEvent carries the fields shared by every account event.
type FlowEvent struct {
	ID            uuid.UUID
	AccountID     uuid.UUID
	IBAN          string
	CorrelationID uuid.UUID
	Timestamp     time.Time
}

func newFlowEvent(accountID uuid.UUID, iban string, correlationID uuid.UUID) FlowEvent {
	return FlowEvent{
		ID:            uuid.New(),
		AccountID:     accountID,
		IBAN:          iban,
		CorrelationID: correlationID,
		Timestamp:     time.Now(),
	}
}

// Flow returns the shared fields, letting handlers read them from any event.
func (e FlowEvent) Flow() FlowEvent { return e }
