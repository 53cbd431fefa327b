package core

// Error codes sent back to the originating client.
const (
	ErrCodeEmptyUsername     = "empty_username"
	ErrCodeUsernameTooLong   = "username_too_long"
	ErrCodeInvalidCharacters = "invalid_characters"
	ErrCodeEmptyMessage      = "empty_message"
	ErrCodeMessageTooLong    = "message_too_long"
	ErrCodePersistenceFailed = "persistence_failed"
	ErrCodeRateLimited       = "rate_limited"
)

// Error wraps a code and human-readable message.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func coreError(code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}
