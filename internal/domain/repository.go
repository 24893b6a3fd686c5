package domain

import (
	"context"

	"github.com/google/uuid"
)

// ChatRepository provides access to chats.
type ChatRepository interface {
	CreateChat(ctx context.Context, userID string) (*Chat, error)
	GetChat(ctx context.Context, id uuid.UUID) (*Chat, error)
	// ListChats returns the user's chats newest first, each carrying its
	// first message.
	ListChats(ctx context.Context, userID string) ([]ChatSummary, error)
	UpdateChatRemoteID(ctx context.Context, id uuid.UUID, remoteChatID string) error
}

// MessageRepository provides access to messages.
type MessageRepository interface {
	// GetMessageWithChat loads a message joined with its chat. Returns
	// ErrMessageNotFound when the message does not exist.
	GetMessageWithChat(ctx context.Context, id uuid.UUID) (*MessageWithChat, error)
	// ListMessages returns a chat's messages oldest first.
	ListMessages(ctx context.Context, chatID uuid.UUID) ([]Message, error)
	CreateMessage(ctx context.Context, chatID uuid.UUID, content string, isFromBot, hasAnswered bool) (*Message, error)
	MarkMessageAnswered(ctx context.Context, id uuid.UUID) error
}

// TransactionManager runs fn inside a single database transaction. Repository
// calls made with the ctx passed to fn join that transaction; the whole batch
// commits or rolls back as one.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
