package core

import (
	"sync"
	"time"
)

// Room holds the membership and message history of one open chat room.
// All mutable state is guarded by mu; operations on different rooms never
// contend with each other.
type Room struct {
	Key       string
	CreatedAt time.Time

	mu       sync.Mutex
	admin    string
	members  []string // join order
	messages []Message
	nextID   int64
	closed   bool
}

func newRoom(key, admin string) *Room {
	return &Room{
		Key:       key,
		CreatedAt: time.Now(),
		admin:     admin,
		members:   []string{admin},
		nextID:    1,
	}
}

// Admin returns the display name of the room creator.
func (r *Room) Admin() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.admin
}

// Members returns a copy of the member list in join order.
func (r *Room) Members() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.members))
	copy(out, r.members)
	return out
}

// MemberCount returns the current number of members.
func (r *Room) MemberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

// Messages returns a copy of the message history in delivery order.
func (r *Room) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// hasMember reports membership. Caller holds r.mu.
func (r *Room) hasMember(name string) bool {
	return r.memberIndex(name) >= 0
}

// memberIndex returns the position of name in the member list, -1 if absent.
// Caller holds r.mu.
func (r *Room) memberIndex(name string) int {
	for i, m := range r.members {
		if m == name {
			return i
		}
	}
	return -1
}

// hasMessage reports whether id references a stored message. History is
// append-only and ids are assigned 1,2,3,... so an existence check is a
// range check. Caller holds r.mu.
func (r *Room) hasMessage(id int64) bool {
	return id >= 1 && id < r.nextID
}
