package domain

import "errors"

// Sentinel errors shared across layers; callers match them with errors.Is().
var (
	ErrChatNotFound    = errors.New("chat not found")
	ErrMessageNotFound = errors.New("message not found")

	// Policy guards for the relay: only unanswered, user-authored messages
	// may be streamed. The error text is the detail the browser receives,
	// so it keeps the legacy casing.
	ErrMessageAlreadyAnswered = errors.New("Message already answered")
	ErrMessageFromBot         = errors.New("Message from bot")
)

// IsNotFound reports whether err represents a missing chat or message.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrChatNotFound) || errors.Is(err, ErrMessageNotFound)
}

// IsPolicyViolation reports whether err represents a relay policy guard.
func IsPolicyViolation(err error) bool {
	return errors.Is(err, ErrMessageAlreadyAnswered) || errors.Is(err, ErrMessageFromBot)
}
