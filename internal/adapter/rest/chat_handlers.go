package rest

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"chatweb/internal/domain"
	"chatweb/internal/usecase"
)

type postMessagePayload struct {
	Message string `json:"message"`
}

// ChatHandler serves the chat CRUD surface.
type ChatHandler struct {
	createChat  usecase.CreateChatUsecase
	postMessage usecase.PostMessageUsecase
	listChats   usecase.ListChatsUsecase
	logger      *slog.Logger
}

func NewChatHandler(
	createChat usecase.CreateChatUsecase,
	postMessage usecase.PostMessageUsecase,
	listChats usecase.ListChatsUsecase,
	logger *slog.Logger,
) *ChatHandler {
	return &ChatHandler{
		createChat:  createChat,
		postMessage: postMessage,
		listChats:   listChats,
		logger:      logger,
	}
}

// CreateChat starts a conversation with its first question and returns the
// created message together with its chat.
func (h *ChatHandler) CreateChat(c echo.Context) error {
	user, err := domain.GetUserFromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var payload postMessagePayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(payload.Message) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}

	created, err := h.createChat.Execute(c.Request().Context(), user.UserID, payload.Message)
	if err != nil {
		h.logger.ErrorContext(c.Request().Context(), "failed to create chat", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create chat")
	}
	return c.JSON(http.StatusCreated, created)
}

// ListChats returns the caller's conversations, newest first.
func (h *ChatHandler) ListChats(c echo.Context) error {
	user, err := domain.GetUserFromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	summaries, err := h.listChats.ListChats(c.Request().Context(), user.UserID)
	if err != nil {
		h.logger.ErrorContext(c.Request().Context(), "failed to list chats", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list chats")
	}
	return c.JSON(http.StatusOK, summaries)
}

// ListMessages returns one conversation's history, oldest first.
func (h *ChatHandler) ListMessages(c echo.Context) error {
	user, err := domain.GetUserFromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	chatID, err := uuid.Parse(c.Param("chatId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid chat id")
	}

	messages, err := h.listChats.ListMessages(c.Request().Context(), chatID, user.UserID)
	if err != nil {
		if domain.IsNotFound(err) {
			return echo.NewHTTPError(http.StatusNotFound, "chat not found")
		}
		h.logger.ErrorContext(c.Request().Context(), "failed to list messages", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list messages")
	}
	return c.JSON(http.StatusOK, messages)
}

// PostMessage appends a follow-up question to an existing conversation.
func (h *ChatHandler) PostMessage(c echo.Context) error {
	user, err := domain.GetUserFromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	chatID, err := uuid.Parse(c.Param("chatId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid chat id")
	}

	var payload postMessagePayload
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(payload.Message) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}

	msg, err := h.postMessage.Execute(c.Request().Context(), chatID, user.UserID, payload.Message)
	if err != nil {
		if domain.IsNotFound(err) {
			return echo.NewHTTPError(http.StatusNotFound, "chat not found")
		}
		h.logger.ErrorContext(c.Request().Context(), "failed to post message", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to post message")
	}
	return c.JSON(http.StatusCreated, msg)
}
