// Package rest wires the HTTP surface: chat CRUD, the answer event stream
// and the health probes.
package rest

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	custommiddleware "chatweb/internal/adapter/rest/middleware"
	"chatweb/internal/di"
	"chatweb/internal/infra/config"
)

// RegisterRoutes attaches all middleware and routes to the Echo instance.
func RegisterRoutes(e *echo.Echo, container *di.ApplicationComponents, cfg *config.Config) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000"},
		AllowMethods: []string{echo.GET, echo.POST, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "Cache-Control", "Authorization"},
		MaxAge:       86400,
	}))

	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: cfg.Server.ReadTimeout,
		Skipper: func(c echo.Context) bool {
			// Never time out the answer stream.
			return strings.Contains(c.Path(), "/events")
		},
	}))

	v1 := e.Group("/v1")

	v1.GET("/health", handleHealth)
	v1.GET("/ready", handleReady(container))

	chatHandler := NewChatHandler(
		container.CreateChatUsecase,
		container.PostMessageUsecase,
		container.ListChatsUsecase,
		container.Logger,
	)
	streamHandler := NewStreamHandler(container.StreamAnswerUsecase, container.Logger)

	auth := custommiddleware.JWTAuth(cfg.Auth.TokenSecret, cfg.Auth.TokenIssuer)
	chats := v1.Group("/chats", auth)
	chats.POST("", chatHandler.CreateChat)
	chats.GET("", chatHandler.ListChats)
	chats.GET("/:chatId/messages", chatHandler.ListMessages)
	chats.POST("/:chatId/messages", chatHandler.PostMessage)

	// The event stream authorizes through the question message itself, so
	// EventSource clients that cannot set headers can still subscribe.
	v1.GET("/messages/:messageId/events", streamHandler.StreamAnswer)
}

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func handleReady(container *di.ApplicationComponents) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := container.DB.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  err.Error(),
			})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
	}
}
