package core

import "sync"

// Registry owns the mapping of room keys to open rooms. It is the only
// place rooms are created and removed; removal from the map is the
// synchronization point for room closure.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// CreateRoom allocates a key unique among currently open rooms, generates
// the admin identity, and stores the new room with the admin as sole member.
func (g *Registry) CreateRoom() (*Room, string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := GenerateRoomKey(func(k string) bool {
		_, taken := g.rooms[k]
		return taken
	})
	admin := GenerateName()
	room := newRoom(key, admin)
	g.rooms[key] = room
	return room, admin
}

// Room looks up an open room by key. Returns ErrInvalidRoomKey for a
// malformed key and ErrRoomNotFound when no room holds it.
func (g *Registry) Room(key string) (*Room, error) {
	if !ValidRoomKey(key) {
		return nil, ErrInvalidRoomKey
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	room, ok := g.rooms[key]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Len returns the number of currently open rooms.
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

// CloseRoom removes the room if requester is its admin. The room is marked
// closed under its own lock so callers holding a stale pointer observe
// ErrRoomNotFound, and the key is immediately free for reuse.
func (g *Registry) CloseRoom(key, requester string) error {
	room, err := g.Room(key)
	if err != nil {
		return err
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	if room.closed {
		return ErrRoomNotFound
	}
	if requester != room.admin {
		return ErrNotAuthorized
	}

	g.mu.Lock()
	delete(g.rooms, key)
	g.mu.Unlock()
	room.closed = true
	return nil
}
