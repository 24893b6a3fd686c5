package usecase

import (
	"context"
	"fmt"

	"chatweb/internal/domain"
)

// CreateChatUsecase starts a new conversation with its first question.
type CreateChatUsecase interface {
	Execute(ctx context.Context, userID, content string) (*domain.MessageWithChat, error)
}

type createChatUsecase struct {
	chatRepo    domain.ChatRepository
	messageRepo domain.MessageRepository
	txManager   domain.TransactionManager
}

func NewCreateChatUsecase(
	chatRepo domain.ChatRepository,
	messageRepo domain.MessageRepository,
	txManager domain.TransactionManager,
) CreateChatUsecase {
	return &createChatUsecase{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		txManager:   txManager,
	}
}

func (u *createChatUsecase) Execute(ctx context.Context, userID, content string) (*domain.MessageWithChat, error) {
	var result *domain.MessageWithChat
	err := u.txManager.RunInTx(ctx, func(ctx context.Context) error {
		chat, err := u.chatRepo.CreateChat(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to create chat: %w", err)
		}
		msg, err := u.messageRepo.CreateMessage(ctx, chat.ID, content, false, false)
		if err != nil {
			return fmt.Errorf("failed to create first message: %w", err)
		}
		result = &domain.MessageWithChat{Message: *msg, Chat: *chat}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
