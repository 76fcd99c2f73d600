package consumer

import (
	"context"
	"encoding/json"
	"log/slog"

	"zenith/internal/events"
	"zenith/internal/platform/kafka/consumer"
)

// TakenCache is the cache whose entry becomes stale when any instance
// records a claim.
type TakenCache interface {
	Invalidate(ctx context.Context) error
}

// InvalidationHandler drops the cached taken set when a claim is recorded
// elsewhere, so the next opportunistic read goes back to the registry.
type InvalidationHandler struct {
	cache  TakenCache
	logger *slog.Logger
}

func NewInvalidationHandler(cache TakenCache, logger *slog.Logger) *InvalidationHandler {
	return &InvalidationHandler{cache: cache, logger: logger}
}

func (h *InvalidationHandler) Handle(ctx context.Context, msg *consumer.Message) error {
	var ev events.Event
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		// Malformed events are skipped; they cannot carry a claim.
		h.logger.Debug("failed to unmarshal claim event",
			"key", string(msg.Key),
			"error", err,
		)
		return nil
	}
	if ev.Type != events.ClaimSubmitted || len(ev.Regions) == 0 {
		return nil
	}
	if err := h.cache.Invalidate(ctx); err != nil {
		return err
	}
	h.logger.Debug("taken cache invalidated by claim event",
		"claim_id", ev.ClaimID,
		"regions", len(ev.Regions),
	)
	return nil
}
