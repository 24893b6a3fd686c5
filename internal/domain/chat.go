package domain

import (
	"time"

	"github.com/google/uuid"
)

// Chat is one conversation owned by a user. RemoteChatID is the handle the
// chat service uses to correlate multi-turn exchanges; it stays nil until the
// first completed exchange establishes it.
type Chat struct {
	ID           uuid.UUID `json:"id"`
	UserID       string    `json:"user_id"`
	RemoteChatID *string   `json:"remote_chat_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Message is a single chat message. A user message starts with
// HasAnswered=false and flips to true exactly once, when its paired bot
// response is committed. Bot messages are created already answered.
type Message struct {
	ID          uuid.UUID `json:"id"`
	ChatID      uuid.UUID `json:"chat_id"`
	Content     string    `json:"content"`
	IsFromBot   bool      `json:"is_from_bot"`
	HasAnswered bool      `json:"has_answered"`
	CreatedAt   time.Time `json:"created_at"`
}

// MessageWithChat is a message joined with its parent chat, as loaded at the
// start of a relay session.
type MessageWithChat struct {
	Message
	Chat Chat `json:"chat"`
}

// AnswerGuard reports whether this message may be answered. It returns
// ErrMessageAlreadyAnswered or ErrMessageFromBot when not.
func (m *Message) AnswerGuard() error {
	if m.HasAnswered {
		return ErrMessageAlreadyAnswered
	}
	if m.IsFromBot {
		return ErrMessageFromBot
	}
	return nil
}

// ChatSummary is a chat with its first message, used by the chat list view.
type ChatSummary struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Messages  []Message `json:"messages"`
}
