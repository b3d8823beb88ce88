package account

import (
	"sync"
	"time"

	accountdomain "github.com/amirasaad/banco/pkg/domain/account"
	"github.com/google/uuid"
)

// Entry is one line of the journal.
type Entry struct {
	EventID   uuid.UUID
	Type      string
	IBAN      string
	Amount    string
	Balance   string
	Timestamp time.Time
}

// Journal is an append-only, in-memory record of completed account events.
type Journal struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewJournal creates an empty journal.
func NewJournal() *Journal {
	return &Journal{}
}

func (j *Journal) append(e Entry) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
}

// Entries returns the journal lines for iban, oldest first. An empty iban
// returns every line.
func (j *Journal) Entries(iban string) []Entry {
	key := accountdomain.NormalizeIBAN(iban)
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]Entry, 0, len(j.entries))
	for _, e := range j.entries {
		if key == "" || accountdomain.NormalizeIBAN(e.IBAN) == key {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of lines.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.entries)
}
