// Package chatservice provides the Connect-RPC client for the remote chat
// completion service.
package chatservice

import (
	"context"
	"fmt"
	"net/http"

	"connectrpc.com/connect"

	"chatweb/internal/domain"
)

// chatStreamProcedure is the fully-qualified RPC path of the streaming
// completion endpoint.
const chatStreamProcedure = "/chat.v1.ChatService/ChatStream"

type streamRequest struct {
	ChatID      string `json:"chatId"`
	UserID      string `json:"userId"`
	UserMessage string `json:"userMessage"`
}

type streamResponse struct {
	ChatID  string `json:"chatId"`
	UserID  string `json:"userId"`
	Content string `json:"content"`
}

// Client provides Connect-RPC access to the chat service stream endpoint.
type Client struct {
	client *connect.Client[streamRequest, streamResponse]
}

// NewClient creates a new chat service client. Every call carries the shared
// token in the Authorization header.
func NewClient(httpClient *http.Client, baseURL, token string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	client := connect.NewClient[streamRequest, streamResponse](
		httpClient,
		baseURL+chatStreamProcedure,
		connect.WithCodec(jsonCodec{}),
		connect.WithInterceptors(newAuthInterceptor(token)),
	)
	return &Client{client: client}
}

// StreamChat opens the server stream for one question. The stream stays bound
// to ctx, so cancelling ctx aborts the remote call.
func (c *Client) StreamChat(ctx context.Context, remoteChatID, userID, message string) (domain.ChatStream, error) {
	stream, err := c.client.CallServerStream(ctx, connect.NewRequest(&streamRequest{
		ChatID:      remoteChatID,
		UserID:      userID,
		UserMessage: message,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to open chat stream: %w", err)
	}
	return &serverStream{stream: stream}, nil
}

// serverStream adapts the Connect server stream to domain.ChatStream.
type serverStream struct {
	stream *connect.ServerStreamForClient[streamResponse]
}

func (s *serverStream) Receive() bool {
	return s.stream.Receive()
}

func (s *serverStream) Frame() domain.ChatFrame {
	msg := s.stream.Msg()
	return domain.ChatFrame{
		Content:      msg.Content,
		RemoteChatID: msg.ChatID,
	}
}

func (s *serverStream) Err() error {
	return s.stream.Err()
}

func (s *serverStream) Close() error {
	return s.stream.Close()
}
