package hub

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/atikulmunna/gastroguard/internal/model"
)

const (
	inputBuffer      = 64
	subscriberBuffer = 256
)

// ErrClosed is returned by Publish once the hub has stopped.
var ErrClosed = errors.New("hub closed")

// Event is one entry appended to a session's store.
type Event struct {
	Session string         `json:"session"`
	Entry   model.LogEntry `json:"entry"`
}

// Hub fans newly appended entries out to live subscribers, typically
// websocket connections.
type Hub struct {
	log   *zap.Logger
	input chan Event
	done  chan struct{}

	mu     sync.RWMutex
	subs   map[chan Event]string
	closed bool

	dropped atomic.Int64
}

// New creates a Hub. Call Start to begin broadcasting.
func New(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		log:   log,
		input: make(chan Event, inputBuffer),
		done:  make(chan struct{}),
		subs:  make(map[chan Event]string),
	}
}

// Publish queues ev for broadcast. It blocks while the input buffer is full.
func (h *Hub) Publish(ctx context.Context, ev Event) error {
	select {
	case <-h.done:
		return ErrClosed
	default:
	}
	select {
	case h.input <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return ErrClosed
	}
}

// Subscribe returns a channel receiving events for session, or for every
// session when session is empty. The returned func unsubscribes and closes
// the channel; it is safe to call more than once.
func (h *Hub) Subscribe(session string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.subs[ch] = session
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
	}
}

// Subscribers reports the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped returns the total number of events dropped due to slow consumers.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// Start broadcasts published events until ctx is cancelled, then closes
// every subscriber channel.
func (h *Hub) Start(ctx context.Context) {
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-h.input:
			h.broadcast(ev)
		}
	}
}

// broadcast sends ev to every matching subscriber.
// If a subscriber's channel is full, the event is dropped for that subscriber.
func (h *Hub) broadcast(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch, session := range h.subs {
		if session != "" && session != ev.Session {
			continue
		}
		select {
		case ch <- ev:
		default:
			n := h.dropped.Add(1)
			h.log.Warn("dropped event for slow consumer",
				zap.String("session", ev.Session),
				zap.Int64("total_dropped", n))
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	close(h.done)
	for ch := range h.subs {
		close(ch)
	}
	h.subs = make(map[chan Event]string)
	h.closed = true
}
