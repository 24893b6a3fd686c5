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

type chatRepository struct {
	db DB
}

// NewChatRepository creates a new ChatRepository.
func NewChatRepository(db DB) domain.ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) CreateChat(ctx context.Context, userID string) (*domain.Chat, error) {
	chat := &domain.Chat{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	query := `
		INSERT INTO chats (id, user_id, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := getExecutor(ctx, r.db).Exec(ctx, query, chat.ID, chat.UserID, chat.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert chat: %w", err)
	}
	return chat, nil
}

func (r *chatRepository) GetChat(ctx context.Context, chatID uuid.UUID) (*domain.Chat, error) {
	query := `
		SELECT id, user_id, remote_chat_id, created_at
		FROM chats
		WHERE id = $1
	`
	row := getExecutor(ctx, r.db).QueryRow(ctx, query, chatID)

	var chat domain.Chat
	err := row.Scan(&chat.ID, &chat.UserID, &chat.RemoteChatID, &chat.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrChatNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan chat: %w", err)
	}
	return &chat, nil
}

// ListChats returns the user's chats, newest first, each carrying its first
// message so the caller can render a title.
func (r *chatRepository) ListChats(ctx context.Context, userID string) ([]domain.ChatSummary, error) {
	query := `
		SELECT c.id, c.created_at,
		       m.id, m.chat_id, m.content, m.is_from_bot, m.has_answered, m.created_at
		FROM chats c
		LEFT JOIN LATERAL (
			SELECT id, chat_id, content, is_from_bot, has_answered, created_at
			FROM messages
			WHERE chat_id = c.id
			ORDER BY created_at ASC
			LIMIT 1
		) m ON true
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC
	`
	rows, err := getExecutor(ctx, r.db).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}
	defer rows.Close()

	summaries := make([]domain.ChatSummary, 0)
	for rows.Next() {
		var summary domain.ChatSummary
		var msgID *uuid.UUID
		var msgChatID *uuid.UUID
		var content *string
		var isFromBot, hasAnswered *bool
		var msgCreatedAt *time.Time

		err := rows.Scan(&summary.ID, &summary.CreatedAt,
			&msgID, &msgChatID, &content, &isFromBot, &hasAnswered, &msgCreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat summary: %w", err)
		}

		summary.Messages = []domain.Message{}
		if msgID != nil {
			summary.Messages = append(summary.Messages, domain.Message{
				ID:          *msgID,
				ChatID:      *msgChatID,
				Content:     *content,
				IsFromBot:   *isFromBot,
				HasAnswered: *hasAnswered,
				CreatedAt:   *msgCreatedAt,
			})
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chats: %w", err)
	}
	return summaries, nil
}

func (r *chatRepository) UpdateChatRemoteID(ctx context.Context, chatID uuid.UUID, remoteChatID string) error {
	query := `
		UPDATE chats
		SET remote_chat_id = $1
		WHERE id = $2
	`
	tag, err := getExecutor(ctx, r.db).Exec(ctx, query, remoteChatID, chatID)
	if err != nil {
		return fmt.Errorf("failed to update remote chat id: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrChatNotFound
	}
	return nil
}
