package cache

import (
	"context"

	"go.uber.org/zap"

	"github.com/fleetops/backend/internal/domain/shared"
)

// aggregateEntities maps an aggregate type to the entity kinds whose
// cached pages a mutation of that aggregate makes stale. Payments and
// expenses also touch invoice and trip renderings because those detail
// pages embed the dependent records.
var aggregateEntities = map[string][]string{
	"Organization":    {"organizations"},
	"User":            {"users"},
	"EditRequest":     {"edit-requests"},
	"Customer":        {"customers"},
	"Truck":           {"trucks"},
	"Driver":          {"drivers", "trucks"},
	"Trip":            {"trips", "trucks", "drivers"},
	"Invoice":         {"invoices"},
	"Payment":         {"payments", "invoices"},
	"Expense":         {"expenses", "trips"},
	"ExpenseCategory": {"expense-categories"},
}

// InvalidationHandler subscribes to all domain events and drops the
// affected cached pages after each mutation
type InvalidationHandler struct {
	cache  *RedisPageCache
	logger *zap.Logger
}

// NewInvalidationHandler creates a new InvalidationHandler
func NewInvalidationHandler(cache *RedisPageCache, logger *zap.Logger) *InvalidationHandler {
	return &InvalidationHandler{cache: cache, logger: logger}
}

// EventTypes returns nil so the handler receives every event
func (h *InvalidationHandler) EventTypes() []string { return nil }

// Handle invalidates cached pages for the event's aggregate type
func (h *InvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	entities, ok := aggregateEntities[event.AggregateType()]
	if !ok {
		h.logger.Warn("no cache mapping for aggregate type",
			zap.String("aggregate_type", event.AggregateType()),
		)
		return nil
	}

	for _, entity := range entities {
		if err := h.cache.InvalidateEntity(ctx, event.OrganizationID(), entity); err != nil {
			return err
		}
	}
	return nil
}

var _ shared.EventHandler = (*InvalidationHandler)(nil)
