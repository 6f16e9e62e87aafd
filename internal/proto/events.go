// Package proto defines the JSON shapes pushed to clients over the SSE and
// WebSocket streams.
package proto

import "github.com/driftroom/driftroom-server/internal/core"

// Event type discriminators.
const (
	TypeNewMessage = "newMessage"
	TypeUserJoined = "userJoined"
	TypeUserLeft   = "userLeft"
	TypeRoomClosed = "roomClosed"
)

// StreamEvent is one frame on a room stream. Fields beyond Type are
// populated per event kind; timestamps are epoch milliseconds.
type StreamEvent struct {
	Type      string `json:"type"`
	ID        int64  `json:"id,omitempty"`
	Username  string `json:"username,omitempty"`
	Message   string `json:"message,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
	ReplyTo   int64  `json:"replyTo,omitempty"`
	UserCount int    `json:"userCount,omitempty"`
}

// FromEvent maps a core event onto its wire shape.
func FromEvent(ev core.Event) StreamEvent {
	switch ev.Kind {
	case core.EventNewMessage:
		return StreamEvent{
			Type:      TypeNewMessage,
			ID:        ev.Message.ID,
			Username:  ev.Message.Author,
			Message:   ev.Message.Body,
			Timestamp: ev.Message.SentAt.UnixMilli(),
			ReplyTo:   ev.Message.ReplyTo,
		}
	case core.EventUserJoined:
		return StreamEvent{Type: TypeUserJoined, Username: ev.User, UserCount: ev.UserCount}
	case core.EventUserLeft:
		return StreamEvent{Type: TypeUserLeft, Username: ev.User, UserCount: ev.UserCount}
	case core.EventRoomClosed:
		return StreamEvent{Type: TypeRoomClosed}
	default:
		return StreamEvent{Type: TypeRoomClosed}
	}
}
