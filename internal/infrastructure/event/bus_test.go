package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleetops/backend/internal/domain/shared"
)

type recordingHandler struct {
	mu     sync.Mutex
	types  []string
	events []shared.DomainEvent
	err    error
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func (h *recordingHandler) received() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func newTestEvent(eventType string) shared.DomainEvent {
	evt := shared.NewBaseDomainEvent(eventType, "test", uuid.New(), uuid.New())
	return &evt
}

func startedBus(t *testing.T) *InMemoryEventBus {
	t.Helper()
	bus := NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	return bus
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	t.Run("delivers to matching handlers", func(t *testing.T) {
		bus := startedBus(t)
		handler := &recordingHandler{types: []string{"trip.created"}}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("trip.created")))
		require.NoError(t, bus.Stop(context.Background()))

		assert.Equal(t, 1, handler.received())
	})

	t.Run("skips handlers for other types", func(t *testing.T) {
		bus := startedBus(t)
		handler := &recordingHandler{types: []string{"trip.created"}}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("invoice.created")))
		require.NoError(t, bus.Stop(context.Background()))

		assert.Zero(t, handler.received())
	})

	t.Run("wildcard handlers receive everything", func(t *testing.T) {
		bus := startedBus(t)
		handler := &recordingHandler{}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(context.Background(),
			newTestEvent("trip.created"), newTestEvent("invoice.created")))
		require.NoError(t, bus.Stop(context.Background()))

		assert.Equal(t, 2, handler.received())
	})

	t.Run("explicit types override handler declaration", func(t *testing.T) {
		bus := startedBus(t)
		handler := &recordingHandler{types: []string{"trip.created"}}
		bus.Subscribe(handler, "invoice.created")

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("trip.created")))
		require.NoError(t, bus.Publish(context.Background(), newTestEvent("invoice.created")))
		require.NoError(t, bus.Stop(context.Background()))

		assert.Equal(t, 1, handler.received())
	})

	t.Run("handler errors do not fail publish", func(t *testing.T) {
		bus := startedBus(t)
		failing := &recordingHandler{err: errors.New("boom")}
		ok := &recordingHandler{}
		bus.Subscribe(failing)
		bus.Subscribe(ok)

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("trip.created")))
		require.NoError(t, bus.Stop(context.Background()))

		assert.Equal(t, 1, failing.received())
		assert.Equal(t, 1, ok.received())
	})

	t.Run("drops events when not running", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("trip.created")))

		assert.Zero(t, handler.received())
	})
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := startedBus(t)
	handler := &recordingHandler{types: []string{"trip.created"}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("trip.created")))
	require.NoError(t, bus.Stop(context.Background()))

	assert.Zero(t, handler.received())
}

func TestInMemoryEventBus_StopHonorsContext(t *testing.T) {
	bus := startedBus(t)

	release := make(chan struct{})
	bus.Subscribe(blockingHandler{release: release})
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("trip.created")))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := bus.Stop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
}

type blockingHandler struct {
	release chan struct{}
}

func (h blockingHandler) Handle(context.Context, shared.DomainEvent) error {
	<-h.release
	return nil
}

func (h blockingHandler) EventTypes() []string { return nil }
