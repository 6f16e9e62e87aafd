package core

// Error codes for domain errors.
const (
	ErrCodeRoomNotFound   = "room_not_found"
	ErrCodeNotAuthorized  = "not_authorized"
	ErrCodeEmptyMessage   = "empty_message"
	ErrCodeInvalidRoomKey = "invalid_room_key"
	ErrCodeMemberNotFound = "member_not_found"
	ErrCodeNameTaken      = "name_taken"
	ErrCodeEmptyName      = "empty_name"
)

var (
	ErrRoomNotFound   = coreError(ErrCodeRoomNotFound, "room not found")
	ErrNotAuthorized  = coreError(ErrCodeNotAuthorized, "only the room admin may do this")
	ErrEmptyMessage   = coreError(ErrCodeEmptyMessage, "message is empty")
	ErrInvalidRoomKey = coreError(ErrCodeInvalidRoomKey, "room key must be 6 digits")
	ErrMemberNotFound = coreError(ErrCodeMemberNotFound, "member not found")
	ErrNameTaken      = coreError(ErrCodeNameTaken, "name already taken in this room")
	ErrEmptyName      = coreError(ErrCodeEmptyName, "name is empty")
)

// CoreError wraps a machine-checkable code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
