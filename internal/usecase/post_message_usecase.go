package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"chatweb/internal/domain"
)

// PostMessageUsecase appends a follow-up question to an existing chat.
type PostMessageUsecase interface {
	Execute(ctx context.Context, chatID uuid.UUID, userID, content string) (*domain.Message, error)
}

type postMessageUsecase struct {
	chatRepo    domain.ChatRepository
	messageRepo domain.MessageRepository
}

func NewPostMessageUsecase(
	chatRepo domain.ChatRepository,
	messageRepo domain.MessageRepository,
) PostMessageUsecase {
	return &postMessageUsecase{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
	}
}

func (u *postMessageUsecase) Execute(ctx context.Context, chatID uuid.UUID, userID, content string) (*domain.Message, error) {
	chat, err := u.chatRepo.GetChat(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat: %w", err)
	}
	// Chats are private; treat another user's chat as missing.
	if chat.UserID != userID {
		return nil, domain.ErrChatNotFound
	}

	msg, err := u.messageRepo.CreateMessage(ctx, chat.ID, content, false, false)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return msg, nil
}
