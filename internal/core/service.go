package core

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const defaultMaxMessageLen = 2000

// Service sequences registry and hub so that every mutation and its fan-out
// agree on ordering. It is the single entry point the transport layer uses.
type Service struct {
	registry *Registry
	hub      *Hub
	maxLen   int
}

// NewService wires the registry and hub together. maxLen bounds message
// bodies in runes; zero or negative selects the default.
func NewService(registry *Registry, hub *Hub, maxLen int) *Service {
	if maxLen <= 0 {
		maxLen = defaultMaxMessageLen
	}
	return &Service{registry: registry, hub: hub, maxLen: maxLen}
}

// CreateRoom opens a fresh room and returns its key and the admin identity.
func (s *Service) CreateRoom() (string, string) {
	room, admin := s.registry.CreateRoom()
	return room.Key, admin
}

// GetRoom is a read-only lookup.
func (s *Service) GetRoom(key string) (*Room, error) {
	return s.registry.Room(key)
}

// JoinRoom appends a freshly generated identity to the room's member list
// and announces it to current subscribers.
func (s *Service) JoinRoom(key string) (string, error) {
	room, err := s.registry.Room(key)
	if err != nil {
		return "", err
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	if room.closed {
		return "", ErrRoomNotFound
	}

	name := GenerateName()
	for attempt := 0; room.hasMember(name); attempt++ {
		if attempt >= 10 {
			name = fmt.Sprintf("%s-%d", name, len(room.members)+1)
			break
		}
		name = GenerateName()
	}
	room.members = append(room.members, name)

	s.hub.Broadcast(key, Event{Kind: EventUserJoined, User: name, UserCount: len(room.members)})
	return name, nil
}

// SendMessage validates and stores a message, then fans it out. The append
// and the broadcast happen under the room lock: no subscriber ever receives
// a message that is not already in history, and two concurrent sends cannot
// share an id or swap order between history and any subscriber's stream.
func (s *Service) SendMessage(key, author, body string, replyTo int64) (Message, error) {
	room, err := s.registry.Room(key)
	if err != nil {
		return Message{}, err
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return Message{}, ErrEmptyMessage
	}
	if utf8.RuneCountInString(body) > s.maxLen {
		body = string([]rune(body)[:s.maxLen])
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	if room.closed {
		return Message{}, ErrRoomNotFound
	}

	// Reply references are best-effort: a stale id is cleared and the
	// message accepted without a quote.
	if replyTo != 0 && !room.hasMessage(replyTo) {
		replyTo = 0
	}

	msg := Message{
		ID:      room.nextID,
		Author:  author,
		Body:    body,
		SentAt:  time.Now(),
		ReplyTo: replyTo,
	}
	room.nextID++
	room.messages = append(room.messages, msg)

	s.hub.Broadcast(key, messageEvent(msg))
	return msg, nil
}

// CloseRoom removes the room (admin only), then notifies every subscriber
// with a terminal roomClosed event and closes their sinks. After the
// registry removal no new subscription can attach to the key.
func (s *Service) CloseRoom(key, requester string) error {
	if err := s.registry.CloseRoom(key, requester); err != nil {
		return err
	}
	s.hub.EvictRoom(key)
	return nil
}

// RenameMember replaces a member's display name. Stored messages keep the
// author name recorded at send time. Renaming the admin keeps the admin a
// member under the new name.
func (s *Service) RenameMember(key, oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrEmptyName
	}

	room, err := s.registry.Room(key)
	if err != nil {
		return err
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	if room.closed {
		return ErrRoomNotFound
	}
	if newName == oldName {
		return nil
	}
	if room.hasMember(newName) {
		return ErrNameTaken
	}
	idx := room.memberIndex(oldName)
	if idx < 0 {
		return ErrMemberNotFound
	}
	room.members[idx] = newName
	if room.admin == oldName {
		room.admin = newName
	}
	return nil
}

// Subscribe opens a new subscription with a full history replay. identity
// may be empty for a viewer that never joined.
func (s *Service) Subscribe(key, identity string) (*Subscription, error) {
	room, err := s.registry.Room(key)
	if err != nil {
		return nil, err
	}
	return s.hub.Subscribe(room, identity)
}

// Unsubscribe ends a subscription. When the stream was bound to a member
// identity, the member leaves the room and remaining subscribers are told.
func (s *Service) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	s.hub.Unsubscribe(sub)
	if sub.Identity != "" {
		s.leave(sub.RoomKey, sub.Identity)
	}
}

// leave drops a member after their stream disconnects. The admin always
// stays a member, so the adminIdentity-is-a-member invariant holds for the
// room's whole lifetime.
func (s *Service) leave(key, name string) {
	room, err := s.registry.Room(key)
	if err != nil {
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	if room.closed || name == room.admin {
		return
	}
	idx := room.memberIndex(name)
	if idx < 0 {
		return
	}
	room.members = append(room.members[:idx], room.members[idx+1:]...)

	s.hub.Broadcast(key, Event{Kind: EventUserLeft, User: name, UserCount: len(room.members)})
}
