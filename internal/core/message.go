package core

import "time"

// Message is the domain model for a chat message. Author records the display
// name the sender held when the message was sent; renames do not touch it.
type Message struct {
	ID      int64
	Author  string
	Body    string
	SentAt  time.Time
	ReplyTo int64 // id of the quoted message, 0 when not a reply
}
