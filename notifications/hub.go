// Package notifications fans task change events out to every open
// streaming connection.
package notifications

import (
	"context"
	"sync"

	"github.com/Kamaleshwaran16/Kambaa-Ai-project/models"
	"github.com/Kamaleshwaran16/Kambaa-Ai-project/utilities"
)

const DefaultBuffer = 64

// Subscription receives the events broadcast while it is registered.
type Subscription struct {
	events chan models.Event
}

// Events is closed once the subscription is removed, either by Unsubscribe
// or because the subscriber fell behind.
func (s *Subscription) Events() <-chan models.Event {
	return s.events
}

// Hub owns an unbounded FIFO queue of events and the set of subscriptions.
// Publish only appends; Run is the single loop that drains the queue.
// A subscriber that falls behind by a full buffer of events (notify_buffer)
// is removed and its channel closed, which disconnects its websocket.
type Hub struct {
	buffer int

	qmu   sync.Mutex
	queue []models.Event
	wake  chan struct{}

	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

// NewHub creates a hub whose subscriptions buffer up to buffer events.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		buffer: buffer,
		wake:   make(chan struct{}, 1),
		subs:   make(map[*Subscription]struct{}),
	}
}

// Publish enqueues ev and returns immediately.
func (h *Hub) Publish(ev models.Event) {
	h.qmu.Lock()
	h.queue = append(h.queue, ev)
	h.qmu.Unlock()

	select {
	case h.wake <- struct{}{}:
	default:
	}
}

func (h *Hub) Subscribe() *Subscription {
	sub := &Subscription{events: make(chan models.Event, h.buffer)}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Unsubscribe removes sub and closes its channel. Calling it twice is harmless.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		close(sub.events)
	}
}

// Len reports the number of registered subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Run delivers queued events in publish order until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		for {
			ev, ok := h.pop()
			if !ok {
				break
			}
			h.broadcast(ev)
		}

		select {
		case <-ctx.Done():
			return
		case <-h.wake:
		}
	}
}

func (h *Hub) pop() (models.Event, bool) {
	h.qmu.Lock()
	defer h.qmu.Unlock()

	if len(h.queue) == 0 {
		return models.Event{}, false
	}
	ev := h.queue[0]
	h.queue[0] = models.Event{}
	h.queue = h.queue[1:]
	if len(h.queue) == 0 {
		h.queue = nil
	}
	return ev, true
}

// broadcast never blocks: a subscriber whose buffer is full is dropped and
// the remaining subscribers still get ev.
func (h *Hub) broadcast(ev models.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs {
		select {
		case sub.events <- ev:
		default:
			delete(h.subs, sub)
			close(sub.events)
			utilities.LogWarn("dropping slow subscriber", "action", string(ev.Action), "task_id", ev.TaskID)
		}
	}
}
