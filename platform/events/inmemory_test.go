package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"medportal_backend/platform/logger"
)

type testEvent struct {
	BaseEvent
}

func (testEvent) EventName() string { return "test.event" }

func TestPublishRunsHandlersDetached(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))

	got := make(chan error, 1)
	bus.Subscribe("test.event", HandlerFunc(func(ctx context.Context, _ Event) error {
		got <- ctx.Err()
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Publish(ctx, testEvent{BaseEvent: NewBaseEvent()})

	select {
	case err := <-got:
		if err != nil {
			t.Fatal("handler context must not inherit the publisher's cancellation")
		}
	case <-time.After(time.Second):
		t.Fatal("handler never ran")
	}
}

func TestPublishSwallowsHandlerErrors(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))

	ran := make(chan struct{}, 2)
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		ran <- struct{}{}
		return errors.New("boom")
	}))
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		ran <- struct{}{}
		return nil
	}))

	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent()})

	for i := 0; i < 2; i++ {
		select {
		case <-ran:
		case <-time.After(time.Second):
			t.Fatal("not all handlers ran")
		}
	}
}

func TestPublishNoHandlers(t *testing.T) {
	bus := NewInMemoryBus(logger.New("test"))
	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent()})
}
