package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/driftroom/driftroom-server/internal/core"
	"github.com/driftroom/driftroom-server/internal/session"
	"github.com/driftroom/driftroom-server/internal/verify"
)

// Handlers provides the REST endpoints for room lifecycle and messaging.
type Handlers struct {
	svc      *core.Service
	gate     session.Gate
	verifier verify.Verifier
	log      *zerolog.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(svc *core.Service, gate session.Gate, verifier verify.Verifier, logger *zerolog.Logger) *Handlers {
	return &Handlers{svc: svc, gate: gate, verifier: verifier, log: logger}
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse acknowledges a mutation with no other payload.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// VerifyCaptchaRequest carries the challenge token. The legacy field name
// used by the Turnstile widget is accepted as a fallback.
type VerifyCaptchaRequest struct {
	Token          string `json:"token"`
	TurnstileToken string `json:"cf-turnstile-response"`
}

// CreateRoomResponse returns the fresh room key and the admin identity.
type CreateRoomResponse struct {
	RoomKey  string `json:"roomKey"`
	Username string `json:"username"`
}

// JoinRoomRequest asks to join an existing room by key.
type JoinRoomRequest struct {
	RoomKey string `json:"roomKey" binding:"required"`
}

// JoinRoomResponse returns the identity assigned to the joiner.
type JoinRoomResponse struct {
	Username string `json:"username"`
}

// SendMessageRequest posts a message to a room.
type SendMessageRequest struct {
	RoomKey  string `json:"roomKey" binding:"required"`
	Username string `json:"username"`
	Message  string `json:"message"`
	ReplyTo  int64  `json:"replyTo"`
}

// UpdateNameRequest renames the caller's identity in a room.
type UpdateNameRequest struct {
	RoomKey string `json:"roomKey" binding:"required"`
	NewName string `json:"newName" binding:"required"`
}

// Health reports liveness.
// GET /health
func (h *Handlers) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// VerifyCaptcha checks the challenge token with the external verifier and,
// on success, marks the session human-verified for the validity window.
// POST /api/verifyCaptcha
func (h *Handlers) VerifyCaptcha(c *gin.Context) {
	var req VerifyCaptchaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	token := req.Token
	if token == "" {
		token = req.TurnstileToken
	}
	if token == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing captcha token"})
		return
	}

	ok, err := h.verifier.Verify(c.Request.Context(), token)
	if err != nil {
		h.log.Error().Err(err).Msg("captcha verification failed")
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "error verifying captcha"})
		return
	}
	if !ok {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "invalid captcha token"})
		return
	}

	h.gate.MarkVerified(sessionID(c))
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// CreateRoom opens a room and binds the admin identity to the session.
// POST /api/createRoom
func (h *Handlers) CreateRoom(c *gin.Context) {
	key, username := h.svc.CreateRoom()
	h.gate.SetIdentity(sessionID(c), key, username)

	h.log.Info().Str("room_key", key).Str("username", username).Msg("room created")
	c.JSON(http.StatusOK, CreateRoomResponse{RoomKey: key, Username: username})
}

// JoinRoom adds the caller to a room and binds the identity to the session.
// POST /api/joinRoom
func (h *Handlers) JoinRoom(c *gin.Context) {
	var req JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	username, err := h.svc.JoinRoom(req.RoomKey)
	if err != nil {
		h.respondCoreError(c, err)
		return
	}
	h.gate.SetIdentity(sessionID(c), req.RoomKey, username)

	h.log.Info().Str("room_key", req.RoomKey).Str("username", username).Msg("joined room")
	c.JSON(http.StatusOK, JoinRoomResponse{Username: username})
}

// SendMessage validates, stores, and fans out a message.
// POST /api/sendMessage
func (h *Handlers) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	username := req.Username
	if username == "" {
		username, _ = h.gate.Identity(sessionID(c), req.RoomKey)
	}

	if _, err := h.svc.SendMessage(req.RoomKey, username, req.Message, req.ReplyTo); err != nil {
		h.respondCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// CloseRoom removes the room. Only the session holding the admin identity
// may do this; every subscriber gets a terminal roomClosed event.
// DELETE /closeRoom/:roomKey
func (h *Handlers) CloseRoom(c *gin.Context) {
	key := c.Param("roomKey")

	// Room existence resolves before authorization, so an absent room is a
	// 404 even for sessions holding no identity there.
	if _, err := h.svc.GetRoom(key); err != nil {
		h.respondCoreError(c, err)
		return
	}

	requester, ok := h.gate.Identity(sessionID(c), key)
	if !ok {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: core.ErrNotAuthorized.Message})
		return
	}

	if err := h.svc.CloseRoom(key, requester); err != nil {
		h.respondCoreError(c, err)
		return
	}

	h.log.Info().Str("room_key", key).Str("username", requester).Msg("room closed")
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// UpdateName renames the caller's identity in a room. Previously sent
// messages keep the author name they were sent under.
// POST /api/updateName
func (h *Handlers) UpdateName(c *gin.Context) {
	var req UpdateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	sid := sessionID(c)
	oldName, ok := h.gate.Identity(sid, req.RoomKey)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrMemberNotFound.Message})
		return
	}

	newName := strings.TrimSpace(req.NewName)
	if err := h.svc.RenameMember(req.RoomKey, oldName, newName); err != nil {
		h.respondCoreError(c, err)
		return
	}
	h.gate.SetIdentity(sid, req.RoomKey, newName)

	c.JSON(http.StatusOK, JoinRoomResponse{Username: newName})
}

// respondCoreError maps domain error codes onto HTTP status contracts.
func (h *Handlers) respondCoreError(c *gin.Context, err error) {
	var coreErr *core.CoreError
	if !errors.As(err, &coreErr) {
		h.log.Error().Err(err).Msg("unexpected error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	status := http.StatusInternalServerError
	switch coreErr.Code {
	case core.ErrCodeRoomNotFound, core.ErrCodeMemberNotFound:
		status = http.StatusNotFound
	case core.ErrCodeNotAuthorized:
		status = http.StatusForbidden
	case core.ErrCodeEmptyMessage, core.ErrCodeInvalidRoomKey, core.ErrCodeEmptyName:
		status = http.StatusBadRequest
	case core.ErrCodeNameTaken:
		status = http.StatusConflict
	}
	c.JSON(status, ErrorResponse{Error: coreErr.Message})
}
