package domain

import "context"

// ChatFrame is one discrete unit of streamed content from the chat service.
// RemoteChatID carries the upstream conversation handle so the caller can
// persist it after the stream completes.
type ChatFrame struct {
	Content      string
	RemoteChatID string
}

// ChatStream is a pull-style view over the chat service's response stream.
// Receive reports whether another frame is available; after it returns false,
// Err distinguishes a clean end-of-stream (nil) from an upstream failure.
type ChatStream interface {
	Receive() bool
	Frame() ChatFrame
	Err() error
	Close() error
}

// ChatStreamClient opens a streaming completion call against the remote chat
// service. remoteChatID is empty for a chat's first exchange. The stream is
// canceled when ctx is canceled; no retries are attempted here.
type ChatStreamClient interface {
	StreamChat(ctx context.Context, remoteChatID, userID, message string) (ChatStream, error)
}
