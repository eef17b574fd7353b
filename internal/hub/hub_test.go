package hub

import (
	"context"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/atikulmunna/gastroguard/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// startHub runs h until the test ends and waits for Start to return.
func startHub(t testing.TB, h *Hub) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Start(ctx)
		close(stopped)
	}()
	stop := func() {
		cancel()
		<-stopped
	}
	t.Cleanup(stop)
	return stop
}

func recv(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out")
	}
	return Event{}
}

func TestHubBroadcast(t *testing.T) {
	h := New(nil)
	sub1, _ := h.Subscribe("")
	sub2, _ := h.Subscribe("")
	startHub(t, h)

	ev := Event{Session: "s1", Entry: model.LogEntry{Meal: "Toast", PainLevel: 3}}
	if err := h.Publish(context.Background(), ev); err != nil {
		t.Fatal(err)
	}

	if got := recv(t, sub1); got.Entry.Meal != "Toast" {
		t.Errorf("sub1: expected Toast, got %q", got.Entry.Meal)
	}
	if got := recv(t, sub2); got.Entry.PainLevel != 3 {
		t.Errorf("sub2: expected pain 3, got %d", got.Entry.PainLevel)
	}
}

func TestHubSessionFilter(t *testing.T) {
	h := New(nil)
	mine, _ := h.Subscribe("a")
	startHub(t, h)

	ctx := context.Background()
	_ = h.Publish(ctx, Event{Session: "b", Entry: model.LogEntry{Meal: "Other"}})
	_ = h.Publish(ctx, Event{Session: "a", Entry: model.LogEntry{Meal: "Mine"}})

	if got := recv(t, mine); got.Entry.Meal != "Mine" {
		t.Errorf("expected only session a events, got %q", got.Entry.Meal)
	}
}

func TestHubUnsubscribe(t *testing.T) {
	h := New(nil)
	ch, unsubscribe := h.Subscribe("")
	if h.Subscribers() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", h.Subscribers())
	}
	unsubscribe()
	unsubscribe()

	if _, ok := <-ch; ok {
		t.Error("expected channel to be closed")
	}
	if h.Subscribers() != 0 {
		t.Errorf("expected 0 subscribers, got %d", h.Subscribers())
	}
}

func TestHubSlowConsumer(t *testing.T) {
	h := New(nil)

	// Subscribe but never read.
	_, _ = h.Subscribe("")
	startHub(t, h)

	ctx := context.Background()
	for i := 0; i < subscriberBuffer+50; i++ {
		if err := h.Publish(ctx, Event{Entry: model.LogEntry{Meal: "x"}}); err != nil {
			t.Fatal(err)
		}
	}

	deadline := time.Now().Add(time.Second)
	for h.Dropped() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if h.Dropped() == 0 {
		t.Error("expected dropped events for slow consumer, got 0")
	}
}

func TestHubClose(t *testing.T) {
	h := New(nil)
	ch, unsubscribe := h.Subscribe("")
	stop := startHub(t, h)
	stop()

	if _, ok := <-ch; ok {
		t.Error("expected subscriber channel closed after stop")
	}
	unsubscribe()

	if err := h.Publish(context.Background(), Event{}); err != ErrClosed {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	late, _ := h.Subscribe("")
	if _, ok := <-late; ok {
		t.Error("expected subscription on stopped hub to be closed")
	}
}
