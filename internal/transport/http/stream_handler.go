package http

import (
	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"github.com/driftroom/driftroom-server/internal/proto"
)

// Stream is the long-lived SSE subscription. The response first replays the
// full room history as newMessage frames, then pushes live events until the
// client disconnects or the room closes. Reconnecting clients get a fresh
// subscription with a fresh replay.
// GET /api/stream/:roomKey
func (h *Handlers) Stream(c *gin.Context) {
	key := c.Param("roomKey")
	identity, _ := h.gate.Identity(sessionID(c), key)

	sub, err := h.svc.Subscribe(key, identity)
	if err != nil {
		h.respondCoreError(c, err)
		return
	}
	defer h.svc.Unsubscribe(sub)

	h.log.Debug().Str("room_key", key).Str("sub_id", sub.ID).Msg("stream opened")

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.Flush()

	// The request context ends when the client goes away, which promptly
	// releases the subscription.
	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			h.log.Debug().Str("room_key", key).Str("sub_id", sub.ID).Msg("stream client gone")
			return
		case ev, ok := <-sub.Events():
			if !ok {
				// Room closed; the terminal event was already written.
				return
			}
			if err := sse.Encode(c.Writer, sse.Event{Data: proto.FromEvent(ev)}); err != nil {
				h.log.Warn().Err(err).Str("sub_id", sub.ID).Msg("stream write failed")
				return
			}
			c.Writer.Flush()
		}
	}
}
