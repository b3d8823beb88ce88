package common

import (
	"context"
	"log/slog"
	"sync"

	"github.com/amirasaad/banco/pkg/domain/events"
	"github.com/amirasaad/banco/pkg/eventbus"
	"golang.org/x/sync/singleflight"
)

// KeyExtractor extracts an idempotency key from an event
type KeyExtractor func(eventbus.Event) string

// EventIDKey keys account events by their unique event ID. Events without
// flow fields yield an empty key and bypass the check.
func EventIDKey(e eventbus.Event) string {
	f, ok := e.(interface{ Flow() events.FlowEvent })
	if !ok {
		return ""
	}
	return f.Flow().ID.String()
}

// IdempotencyTracker tracks processed events by key
type IdempotencyTracker struct {
	processed sync.Map
	inflight  singleflight.Group
}

// NewIdempotencyTracker creates a new idempotency tracker
func NewIdempotencyTracker() *IdempotencyTracker {
	return &IdempotencyTracker{}
}

// Store marks a key as processed
func (t *IdempotencyTracker) Store(key string) {
	t.processed.Store(key, struct{}{})
}

// Delete removes a key from the tracker
func (t *IdempotencyTracker) Delete(key string) {
	t.processed.Delete(key)
}

// Seen reports whether key has been processed successfully.
func (t *IdempotencyTracker) Seen(key string) bool {
	_, ok := t.processed.Load(key)
	return ok
}

// WithIdempotency wraps a handler with idempotency checking middleware.
// The middleware checks if the event has been processed before calling the handler,
// and marks it as processed after successful execution. Concurrent deliveries of
// the same key share one handler call.
func WithIdempotency(
	handler eventbus.HandlerFunc,
	tracker *IdempotencyTracker,
	keyExtractor KeyExtractor,
	handlerName string,
	logger *slog.Logger,
) eventbus.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, e eventbus.Event) error {
		key := keyExtractor(e)
		if key == "" {
			// No key extracted, proceed without idempotency check
			return handler(ctx, e)
		}

		log := logger.With(
			"handler", handlerName,
			"event_type", e.Type(),
			"idempotency_key", key,
		)

		// Check if already processed (before calling handler)
		if tracker.Seen(key) {
			log.Info("🔁 [SKIP] Event already processed")
			return nil
		}

		// Ensure only one goroutine processes a given key at a time.
		// Other goroutines will wait and observe the same success/failure result,
		// preventing silent drops when the in-flight attempt fails.
		_, err, _ := tracker.inflight.Do(key, func() (any, error) {
			// Another goroutine may have completed successfully while we waited.
			if tracker.Seen(key) {
				return nil, nil
			}

			// Execute handler
			if err := handler(ctx, e); err != nil {
				return nil, err
			}

			// Handler succeeded, mark as processed
			tracker.Store(key)
			return nil, nil
		})
		if err != nil {
			// Ensure key is not left marked as processed on failure.
			tracker.Delete(key)
			return err
		}

		// Handler succeeded (either by us or a concurrent goroutine)
		return nil
	}
}
