// Package sse writes server-sent events over an Echo response.
package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"chatweb/internal/domain"
)

var (
	// ErrNotBegun is returned when an event is written before Begin.
	ErrNotBegun = errors.New("sse: stream not begun")
	// ErrClosed is returned when an event is written after Close.
	ErrClosed = errors.New("sse: stream closed")
)

// Writer emits the message/error/end event protocol over one HTTP response.
// It implements domain.EventSink.
type Writer struct {
	resp   *echo.Response
	began  bool
	closed bool
}

// NewWriter creates a Writer over the given response. Headers are not
// written until Begin.
func NewWriter(resp *echo.Response) *Writer {
	return &Writer{resp: resp}
}

// Begin writes the SSE headers and the status line. Calling it twice is a
// no-op so a handler can defer cleanup safely.
func (w *Writer) Begin(statusCode int) error {
	if w.closed {
		return ErrClosed
	}
	if w.began {
		return nil
	}
	header := w.resp.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	w.resp.WriteHeader(statusCode)
	w.resp.Flush()
	w.began = true
	return nil
}

// Message emits one answer chunk.
func (w *Writer) Message(content string) error {
	return w.emit("message", content)
}

// Error emits a terminal error event.
func (w *Writer) Error(detail string) error {
	return w.emit("error", detail)
}

// End emits the final answer message.
func (w *Writer) End(msg *domain.Message) error {
	return w.emit("end", msg)
}

// Close marks the stream finished. It never writes; the connection closes
// when the handler returns. Safe to call more than once.
func (w *Writer) Close() error {
	w.closed = true
	return nil
}

func (w *Writer) emit(event string, payload any) error {
	if w.closed {
		return ErrClosed
	}
	if !w.began {
		return ErrNotBegun
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event, err)
	}
	if _, err := fmt.Fprintf(w.resp, "event: %s\nid: %d\ndata: %s\n\n", event, time.Now().UnixMilli(), data); err != nil {
		return fmt.Errorf("failed to write %s event: %w", event, err)
	}
	w.resp.Flush()
	return nil
}
