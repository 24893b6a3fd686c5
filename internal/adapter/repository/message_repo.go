package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"chatweb/internal/domain"
)

type messageRepository struct {
	db DB
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(db DB) domain.MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) GetMessageWithChat(ctx context.Context, messageID uuid.UUID) (*domain.MessageWithChat, error) {
	query := `
		SELECT m.id, m.chat_id, m.content, m.is_from_bot, m.has_answered, m.created_at,
		       c.id, c.user_id, c.remote_chat_id, c.created_at
		FROM messages m
		JOIN chats c ON c.id = m.chat_id
		WHERE m.id = $1
	`
	row := getExecutor(ctx, r.db).QueryRow(ctx, query, messageID)

	var mc domain.MessageWithChat
	err := row.Scan(&mc.ID, &mc.ChatID, &mc.Content, &mc.IsFromBot, &mc.HasAnswered, &mc.CreatedAt,
		&mc.Chat.ID, &mc.Chat.UserID, &mc.Chat.RemoteChatID, &mc.Chat.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan message: %w", err)
	}
	return &mc, nil
}

func (r *messageRepository) ListMessages(ctx context.Context, chatID uuid.UUID) ([]domain.Message, error) {
	query := `
		SELECT id, chat_id, content, is_from_bot, has_answered, created_at
		FROM messages
		WHERE chat_id = $1
		ORDER BY created_at ASC
	`
	rows, err := getExecutor(ctx, r.db).Query(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]domain.Message, 0)
	for rows.Next() {
		var msg domain.Message
		err := rows.Scan(&msg.ID, &msg.ChatID, &msg.Content, &msg.IsFromBot, &msg.HasAnswered, &msg.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}
	return messages, nil
}

func (r *messageRepository) CreateMessage(ctx context.Context, chatID uuid.UUID, content string, isFromBot, hasAnswered bool) (*domain.Message, error) {
	msg := &domain.Message{
		ID:          uuid.New(),
		ChatID:      chatID,
		Content:     content,
		IsFromBot:   isFromBot,
		HasAnswered: hasAnswered,
		CreatedAt:   time.Now().UTC(),
	}

	query := `
		INSERT INTO messages (id, chat_id, content, is_from_bot, has_answered, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := getExecutor(ctx, r.db).Exec(ctx, query,
		msg.ID, msg.ChatID, msg.Content, msg.IsFromBot, msg.HasAnswered, msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}
	return msg, nil
}

func (r *messageRepository) MarkMessageAnswered(ctx context.Context, messageID uuid.UUID) error {
	query := `
		UPDATE messages
		SET has_answered = true
		WHERE id = $1
	`
	tag, err := getExecutor(ctx, r.db).Exec(ctx, query, messageID)
	if err != nil {
		return fmt.Errorf("failed to mark message answered: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}
