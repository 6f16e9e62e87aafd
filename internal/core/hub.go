package core

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultSubscriberBuffer = 64

// Subscription is one live delivery channel to a connected client. It is
// created by Hub.Subscribe and terminal once closed: reconnecting clients
// get a brand-new subscription with a fresh history replay.
type Subscription struct {
	ID          string
	RoomKey     string
	Identity    string // display name bound to the stream, may be empty
	ConnectedAt time.Time

	mu     sync.Mutex
	closed bool
	events chan Event
}

// Events returns the receive side of the sink. The channel first yields the
// full history replay, then live events, and is closed when the subscription
// ends.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// push enqueues a live event without blocking. The sink's last slot is
// reserved for the terminal roomClosed event, so push reports failure once
// only that slot is free; the caller evicts such subscribers.
func (s *Subscription) push(ev Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || len(s.events) >= cap(s.events)-1 {
		return false
	}
	s.events <- ev
	return true
}

// close shuts the sink exactly once. Events already buffered drain to the
// reader before the channel-closed signal.
func (s *Subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.events)
	}
}

// closeWith delivers a final event and shuts the sink. The reserved slot
// guarantees the event fits even when the sink was full to live pushes, so
// the reader always drains it before seeing the channel close.
func (s *Subscription) closeWith(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.events <- ev:
	default:
	}
	s.closed = true
	close(s.events)
}

// Hub owns the per-room subscriber sets and fan-out delivery. A slow or
// gone subscriber never blocks delivery to the others: sends are
// non-blocking and failures evict the subscription.
type Hub struct {
	buffer int

	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{}
}

// NewHub constructs a hub. buffer is the live-event headroom of each
// subscriber sink beyond the history replay; one slot of it is reserved for
// the terminal roomClosed event.
func NewHub(buffer int) *Hub {
	if buffer < 2 {
		buffer = defaultSubscriberBuffer
	}
	return &Hub{
		buffer: buffer,
		subs:   make(map[string]map[*Subscription]struct{}),
	}
}

// Subscribe registers a new subscription against room and pre-loads the
// entire history as newMessage events. Snapshot and registration happen
// under the room lock, so a concurrent send lands either in the replay or
// in the live tail, never in both and never in neither.
func (h *Hub) Subscribe(room *Room, identity string) (*Subscription, error) {
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.closed {
		return nil, ErrRoomNotFound
	}

	sub := &Subscription{
		ID:          uuid.NewString(),
		RoomKey:     room.Key,
		Identity:    identity,
		ConnectedAt: time.Now(),
		events:      make(chan Event, len(room.messages)+h.buffer),
	}
	for _, m := range room.messages {
		sub.events <- messageEvent(m)
	}

	h.mu.Lock()
	set, ok := h.subs[room.Key]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.subs[room.Key] = set
	}
	set[sub] = struct{}{}
	h.mu.Unlock()

	return sub, nil
}

// Unsubscribe removes the subscription and closes its sink. Idempotent and
// safe after the owning room was closed.
func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	if set, ok := h.subs[sub.RoomKey]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, sub.RoomKey)
		}
	}
	h.mu.Unlock()
	sub.close()
}

// Broadcast delivers ev to every subscription currently registered for key.
// Iteration runs over a stable snapshot so concurrent subscribe and
// unsubscribe calls cannot corrupt or skip it. Failed sinks are evicted as
// a side effect, never surfaced to the caller.
func (h *Hub) Broadcast(key string, ev Event) {
	h.mu.RLock()
	set := h.subs[key]
	snapshot := make([]*Subscription, 0, len(set))
	for sub := range set {
		snapshot = append(snapshot, sub)
	}
	h.mu.RUnlock()

	var evicted []*Subscription
	for _, sub := range snapshot {
		if !sub.push(ev) {
			evicted = append(evicted, sub)
		}
	}
	for _, sub := range evicted {
		h.Unsubscribe(sub)
	}
}

// EvictRoom pushes the terminal roomClosed event to every subscriber of key,
// closes all their sinks, and forgets the key.
func (h *Hub) EvictRoom(key string) {
	h.mu.Lock()
	set := h.subs[key]
	delete(h.subs, key)
	h.mu.Unlock()

	for sub := range set {
		sub.closeWith(Event{Kind: EventRoomClosed})
	}
}

// SubscriberCount returns the number of live subscriptions for key.
func (h *Hub) SubscriberCount(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[key])
}
