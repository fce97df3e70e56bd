package event

import (
	"context"
	"errors"
	"testing"

	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panics     bool
}

func (h *stubHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("boom")
	}
	h.handled = append(h.handled, event)
	return h.err
}

func (h *stubHandler) EventTypes() []string {
	return h.eventTypes
}

func testEvent(eventType string) shared.DomainEvent {
	evt := shared.NewBaseDomainEvent(eventType, "Test", uuid.New(), uuid.New())
	return &evt
}

func TestInMemoryEventBusPublish(t *testing.T) {
	t.Run("delivers to subscribed handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &stubHandler{eventTypes: []string{"OrderPlaced"}}
		bus.Subscribe(handler)

		err := bus.Publish(context.Background(), testEvent("OrderPlaced"))

		require.NoError(t, err)
		assert.Len(t, handler.handled, 1)
	})

	t.Run("does not deliver unrelated event types", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &stubHandler{eventTypes: []string{"OrderPlaced"}}
		bus.Subscribe(handler)

		err := bus.Publish(context.Background(), testEvent("OrderShipped"))

		require.NoError(t, err)
		assert.Empty(t, handler.handled)
	})

	t.Run("failing handler does not block the others", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &stubHandler{eventTypes: []string{"OrderPlaced"}, err: errors.New("handler failed")}
		healthy := &stubHandler{eventTypes: []string{"OrderPlaced"}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		err := bus.Publish(context.Background(), testEvent("OrderPlaced"))

		require.NoError(t, err)
		assert.Len(t, healthy.handled, 1)
	})

	t.Run("panicking handler is contained", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicking := &stubHandler{eventTypes: []string{"OrderPlaced"}, panics: true}
		healthy := &stubHandler{eventTypes: []string{"OrderPlaced"}}
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		require.NotPanics(t, func() {
			_ = bus.Publish(context.Background(), testEvent("OrderPlaced"))
		})
		assert.Len(t, healthy.handled, 1)
	})

	t.Run("unsubscribed handler stops receiving", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &stubHandler{eventTypes: []string{"OrderPlaced"}}
		bus.Subscribe(handler)
		bus.Unsubscribe(handler)

		err := bus.Publish(context.Background(), testEvent("OrderPlaced"))

		require.NoError(t, err)
		assert.Empty(t, handler.handled)
	})

	t.Run("handler without event types receives everything", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &stubHandler{}
		bus.Subscribe(handler)

		err := bus.Publish(context.Background(), testEvent("OrderPlaced"), testEvent("OrderShipped"))

		require.NoError(t, err)
		assert.Len(t, handler.handled, 2)
	})
}
