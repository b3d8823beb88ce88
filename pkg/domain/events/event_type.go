package events

// EventType represents the type of an event in the system.
type EventType string

// Event type constants
const (
	EventTypeAccountOpened     EventType = "Account.Opened"
	EventTypeDepositCompleted  EventType = "Deposit.Completed"
	EventTypeWithdrawCompleted EventType = "Withdraw.Completed"
)

func (t EventType) String() string { return string(t) }
