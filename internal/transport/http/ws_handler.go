package http

import (
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"

	"github.com/driftroom/driftroom-server/internal/proto"
)

// StreamWS is the WebSocket variant of the room stream: the same replay and
// live events as SSE, each as one JSON text message. The connection is
// push-only; inbound frames are discarded.
// GET /api/ws/:roomKey
func (h *Handlers) StreamWS(c *gin.Context) {
	key := c.Param("roomKey")
	identity, _ := h.gate.Identity(sessionID(c), key)

	sub, err := h.svc.Subscribe(key, identity)
	if err != nil {
		h.respondCoreError(c, err)
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.svc.Unsubscribe(sub)
		h.log.Warn().Err(err).Str("room_key", key).Msg("ws accept failed")
		return
	}
	defer h.svc.Unsubscribe(sub)

	// CloseRead surfaces client disconnects through context cancellation.
	ctx := conn.CloseRead(c.Request.Context())

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "client gone")
			return
		case ev, ok := <-sub.Events():
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "room closed")
				return
			}
			if err := wsjson.Write(ctx, conn, proto.FromEvent(ev)); err != nil {
				h.log.Warn().Err(err).Str("sub_id", sub.ID).Msg("ws write failed")
				conn.Close(websocket.StatusInternalError, "write failed")
				return
			}
		}
	}
}
