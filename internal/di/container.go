// Package di wires the application's dependencies.
package di

import (
	"log/slog"
	"net/http"

	"chatweb/internal/adapter/chatservice"
	"chatweb/internal/adapter/repository"
	"chatweb/internal/domain"
	"chatweb/internal/infra/config"
	"chatweb/internal/usecase"
)

// ApplicationComponents holds all wired dependencies for the application.
type ApplicationComponents struct {
	// Infrastructure
	DB     repository.DB
	Logger *slog.Logger

	// Repositories
	ChatRepo    domain.ChatRepository
	MessageRepo domain.MessageRepository

	// Usecases
	CreateChatUsecase   usecase.CreateChatUsecase
	PostMessageUsecase  usecase.PostMessageUsecase
	ListChatsUsecase    usecase.ListChatsUsecase
	StreamAnswerUsecase usecase.StreamAnswerUsecase
}

// NewApplicationComponents wires all dependencies from config and database pool.
func NewApplicationComponents(cfg *config.Config, db repository.DB, log *slog.Logger) *ApplicationComponents {
	chatRepo := repository.NewChatRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	txManager := repository.NewPostgresTransactionManager(db)

	// The stream stays open for the whole answer, so the client timeout only
	// bounds dialing and headers, not the body.
	chatHTTP := &http.Client{Timeout: 0}
	chatClient := chatservice.NewClient(chatHTTP, cfg.ChatService.URL, cfg.ChatService.Token)

	return &ApplicationComponents{
		DB:     db,
		Logger: log,

		ChatRepo:    chatRepo,
		MessageRepo: messageRepo,

		CreateChatUsecase:   usecase.NewCreateChatUsecase(chatRepo, messageRepo, txManager),
		PostMessageUsecase:  usecase.NewPostMessageUsecase(chatRepo, messageRepo),
		ListChatsUsecase:    usecase.NewListChatsUsecase(chatRepo, messageRepo),
		StreamAnswerUsecase: usecase.NewStreamAnswerUsecase(messageRepo, chatRepo, txManager, chatClient, log),
	}
}
