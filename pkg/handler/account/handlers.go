// Package account holds the event handlers that react to completed account
// operations: they log the outcome and record it in a Journal.
package account

import (
	"context"
	"log/slog"

	"github.com/amirasaad/banco/pkg/domain/events"
	"github.com/amirasaad/banco/pkg/eventbus"
	"github.com/amirasaad/banco/pkg/handler/common"
)

// HandleOpened records AccountOpened events.
func HandleOpened(journal *Journal, logger *slog.Logger) eventbus.HandlerFunc {
	return func(ctx context.Context, e eventbus.Event) error {
		log := logger.With("handler", "HandleOpened", "event_type", e.Type())
		opened, ok := e.(*events.AccountOpened)
		if !ok {
			log.Debug("🚫 [SKIP] unexpected event type", "event", e)
			return nil
		}
		journal.append(Entry{
			EventID:   opened.ID,
			Type:      opened.Type(),
			IBAN:      opened.IBAN,
			Balance:   opened.Balance.String(),
			Timestamp: opened.Timestamp,
		})
		log.Info("✅ account opened",
			"iban", opened.IBAN,
			"holder", opened.Holder,
			"variant", opened.Variant.String(),
			"correlation_id", opened.CorrelationID,
		)
		return nil
	}
}

// HandleDepositCompleted records DepositCompleted events.
func HandleDepositCompleted(journal *Journal, logger *slog.Logger) eventbus.HandlerFunc {
	return func(ctx context.Context, e eventbus.Event) error {
		log := logger.With("handler", "HandleDepositCompleted", "event_type", e.Type())
		dc, ok := e.(*events.DepositCompleted)
		if !ok {
			log.Debug("🚫 [SKIP] unexpected event type", "event", e)
			return nil
		}
		journal.append(Entry{
			EventID:   dc.ID,
			Type:      dc.Type(),
			IBAN:      dc.IBAN,
			Amount:    dc.Amount.String(),
			Balance:   dc.Balance.String(),
			Timestamp: dc.Timestamp,
		})
		log.Info("✅ deposit completed", "iban", dc.IBAN, "amount", dc.Amount.String(), "balance", dc.Balance.String())
		return nil
	}
}

// HandleWithdrawCompleted records WithdrawCompleted events.
func HandleWithdrawCompleted(journal *Journal, logger *slog.Logger) eventbus.HandlerFunc {
	return func(ctx context.Context, e eventbus.Event) error {
		log := logger.With("handler", "HandleWithdrawCompleted", "event_type", e.Type())
		wc, ok := e.(*events.WithdrawCompleted)
		if !ok {
			log.Debug("🚫 [SKIP] unexpected event type", "event", e)
			return nil
		}
		journal.append(Entry{
			EventID:   wc.ID,
			Type:      wc.Type(),
			IBAN:      wc.IBAN,
			Amount:    wc.Amount.String(),
			Balance:   wc.Balance.String(),
			Timestamp: wc.Timestamp,
		})
		if wc.Balance.IsNegative() {
			log.Warn("⚠️ account overdrawn", "iban", wc.IBAN, "balance", wc.Balance.String())
		}
		log.Info("✅ withdraw completed", "iban", wc.IBAN, "amount", wc.Amount.String(), "balance", wc.Balance.String())
		return nil
	}
}

// Register wires the journal handlers onto bus, each guarded against
// duplicate delivery of the same event.
func Register(bus eventbus.Bus, journal *Journal, logger *slog.Logger) {
	tracker := common.NewIdempotencyTracker()
	bus.Register(
		events.EventTypeAccountOpened.String(),
		common.WithIdempotency(HandleOpened(journal, logger), tracker, common.EventIDKey, "HandleOpened", logger),
	)
	bus.Register(
		events.EventTypeDepositCompleted.String(),
		common.WithIdempotency(HandleDepositCompleted(journal, logger), tracker, common.EventIDKey, "HandleDepositCompleted", logger),
	)
	bus.Register(
		events.EventTypeWithdrawCompleted.String(),
		common.WithIdempotency(HandleWithdrawCompleted(journal, logger), tracker, common.EventIDKey, "HandleWithdrawCompleted", logger),
	)
}
