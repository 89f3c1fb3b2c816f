package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestEmitSyncDeliversToAllHandlers(t *testing.T) {
	bus := NewBus()
	var calls int64
	bus.Subscribe(EventGCConnect, "a", func(ctx context.Context, e Event) error {
		atomic.AddInt64(&calls, 1)
		return nil
	})
	bus.Subscribe(EventGCConnect, "b", func(ctx context.Context, e Event) error {
		atomic.AddInt64(&calls, 1)
		return nil
	})
	bus.Subscribe(EventGCDisconnect, "c", func(ctx context.Context, e Event) error {
		t.Error("handler for another event type invoked")
		return nil
	})

	if err := bus.EmitSync(context.Background(), Event{Type: EventGCConnect}); err != nil {
		t.Fatalf("EmitSync: %v", err)
	}
	if got := atomic.LoadInt64(&calls); got != 2 {
		t.Errorf("handlers called %d times, want 2", got)
	}
}

func TestEmitSyncReturnsHandlerError(t *testing.T) {
	bus := NewBus()
	want := errors.New("handler broke")
	bus.Subscribe(EventItemReceive, "broken", func(ctx context.Context, e Event) error {
		return want
	})

	if err := bus.EmitSync(context.Background(), Event{Type: EventItemReceive}); !errors.Is(err, want) {
		t.Errorf("EmitSync error = %v, want %v", err, want)
	}
}

func TestUnsubscribeRemovesByName(t *testing.T) {
	bus := NewBus()
	var calls int64
	handler := func(ctx context.Context, e Event) error {
		atomic.AddInt64(&calls, 1)
		return nil
	}
	bus.Subscribe(EventItemUpdate, "keep", handler)
	bus.Subscribe(EventItemUpdate, "drop", handler)

	bus.Unsubscribe(EventItemUpdate, "drop")
	if n := bus.HandlerCount(EventItemUpdate); n != 1 {
		t.Fatalf("HandlerCount = %d after unsubscribe, want 1", n)
	}

	bus.Emit(context.Background(), Event{Type: EventItemUpdate})
	bus.Stop()
	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Errorf("handlers called %d times, want 1", got)
	}
}

func TestHandlerPanicIsContained(t *testing.T) {
	bus := NewBus()
	var survived int64
	bus.Subscribe(EventSystemMessage, "panics", func(ctx context.Context, e Event) error {
		panic("boom")
	})
	bus.Subscribe(EventSystemMessage, "survives", func(ctx context.Context, e Event) error {
		atomic.AddInt64(&survived, 1)
		return nil
	})

	bus.Emit(context.Background(), Event{Type: EventSystemMessage})
	bus.Stop()
	if got := atomic.LoadInt64(&survived); got != 1 {
		t.Errorf("sibling handler called %d times after a panic, want 1", got)
	}
}

func TestEmitAfterStopIsNoOp(t *testing.T) {
	bus := NewBus()
	bus.Subscribe(EventGCReady, "late", func(ctx context.Context, e Event) error {
		t.Error("handler invoked after Stop")
		return nil
	})
	bus.Stop()
	bus.Emit(context.Background(), Event{Type: EventGCReady})
	if err := bus.EmitSync(context.Background(), Event{Type: EventGCReady}); err != nil {
		t.Errorf("EmitSync after Stop = %v, want nil", err)
	}

	select {
	case <-bus.StopCh():
	default:
		t.Error("StopCh not closed after Stop")
	}
}
