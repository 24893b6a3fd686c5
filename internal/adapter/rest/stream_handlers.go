package rest

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"chatweb/internal/adapter/rest/sse"
	"chatweb/internal/domain"
	"chatweb/internal/usecase"
)

// StreamHandler serves the answer event stream.
type StreamHandler struct {
	streamAnswer usecase.StreamAnswerUsecase
	logger       *slog.Logger
}

func NewStreamHandler(streamAnswer usecase.StreamAnswerUsecase, logger *slog.Logger) *StreamHandler {
	return &StreamHandler{streamAnswer: streamAnswer, logger: logger}
}

// StreamAnswer relays the chat service's answer for one question message as
// server-sent events. The upstream call is bound to the request context, so
// a client disconnect cancels it.
func (h *StreamHandler) StreamAnswer(c echo.Context) error {
	messageID, err := uuid.Parse(c.Param("messageId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid message id")
	}

	writer := sse.NewWriter(c.Response())
	defer writer.Close()

	ctx := c.Request().Context()
	if err := h.streamAnswer.Execute(ctx, messageID, writer); err != nil {
		if domain.IsNotFound(err) {
			return echo.NewHTTPError(http.StatusNotFound, "message not found")
		}
		h.logger.ErrorContext(ctx, "failed to stream answer", "message_id", messageID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to stream answer")
	}
	return nil
}
