package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"chatweb/internal/domain"
)

// ListChatsUsecase reads a user's conversations and their history.
type ListChatsUsecase interface {
	ListChats(ctx context.Context, userID string) ([]domain.ChatSummary, error)
	ListMessages(ctx context.Context, chatID uuid.UUID, userID string) ([]domain.Message, error)
}

type listChatsUsecase struct {
	chatRepo    domain.ChatRepository
	messageRepo domain.MessageRepository
}

func NewListChatsUsecase(
	chatRepo domain.ChatRepository,
	messageRepo domain.MessageRepository,
) ListChatsUsecase {
	return &listChatsUsecase{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
	}
}

func (u *listChatsUsecase) ListChats(ctx context.Context, userID string) ([]domain.ChatSummary, error) {
	summaries, err := u.chatRepo.ListChats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	return summaries, nil
}

func (u *listChatsUsecase) ListMessages(ctx context.Context, chatID uuid.UUID, userID string) ([]domain.Message, error) {
	chat, err := u.chatRepo.GetChat(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat: %w", err)
	}
	if chat.UserID != userID {
		return nil, domain.ErrChatNotFound
	}

	messages, err := u.messageRepo.ListMessages(ctx, chat.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}
