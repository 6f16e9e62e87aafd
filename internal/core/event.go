package core

// EventKind is a notification pushed to room subscribers.
type EventKind int

const (
	// EventNewMessage carries a chat message, both on history replay and live.
	EventNewMessage EventKind = iota
	// EventUserJoined notifies subscribers about a new room member.
	EventUserJoined
	// EventUserLeft notifies subscribers that a member disconnected.
	EventUserLeft
	// EventRoomClosed is terminal: the hub closes the sink right after it.
	EventRoomClosed
)

// Event is delivered to every live subscriber of a room.
type Event struct {
	Kind      EventKind
	Message   Message // EventNewMessage
	User      string  // EventUserJoined, EventUserLeft
	UserCount int     // member count after the join/leave
}

func messageEvent(m Message) Event {
	return Event{Kind: EventNewMessage, Message: m}
}
