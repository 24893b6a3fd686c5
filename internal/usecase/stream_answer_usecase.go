package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"chatweb/internal/domain"
)

// relayState tracks where a relay session is in its lifecycle. Transitions
// only move forward; once closed a session never emits again.
type relayState int

const (
	stateValidating relayState = iota
	stateStreaming
	stateFinalizing
	stateClosed
)

// StreamAnswerUsecase relays one question's answer stream from the chat
// service to an event sink and persists the final answer.
type StreamAnswerUsecase interface {
	// Execute runs the relay for the given question message. It returns an
	// error only when the session could not start (message lookup failed);
	// every later failure is reported through the sink.
	Execute(ctx context.Context, messageID uuid.UUID, sink domain.EventSink) error
}

type streamAnswerUsecase struct {
	messageRepo domain.MessageRepository
	chatRepo    domain.ChatRepository
	txManager   domain.TransactionManager
	chatClient  domain.ChatStreamClient
	logger      *slog.Logger
}

func NewStreamAnswerUsecase(
	messageRepo domain.MessageRepository,
	chatRepo domain.ChatRepository,
	txManager domain.TransactionManager,
	chatClient domain.ChatStreamClient,
	logger *slog.Logger,
) StreamAnswerUsecase {
	return &streamAnswerUsecase{
		messageRepo: messageRepo,
		chatRepo:    chatRepo,
		txManager:   txManager,
		chatClient:  chatClient,
		logger:      logger,
	}
}

// session carries the mutable state of one relay run.
type session struct {
	state    relayState
	question *domain.MessageWithChat
	// last holds the most recent upstream frame; the final frame carries the
	// complete answer and the remote chat id.
	last     *domain.ChatFrame
	received bool
}

func (u *streamAnswerUsecase) Execute(ctx context.Context, messageID uuid.UUID, sink domain.EventSink) error {
	defer sink.Close()

	s := &session{state: stateValidating}

	question, err := u.messageRepo.GetMessageWithChat(ctx, messageID)
	if err != nil {
		return fmt.Errorf("failed to load question message: %w", err)
	}
	s.question = question

	if guardErr := question.AnswerGuard(); guardErr != nil {
		u.reject(ctx, s, sink, guardErr.Error())
		return nil
	}

	if err := sink.Begin(http.StatusOK); err != nil {
		return fmt.Errorf("failed to begin event stream: %w", err)
	}
	s.state = stateStreaming

	remoteChatID := ""
	if question.Chat.RemoteChatID != nil {
		remoteChatID = *question.Chat.RemoteChatID
	}

	stream, err := u.chatClient.StreamChat(ctx, remoteChatID, question.Chat.UserID, question.Content)
	if err != nil {
		u.fail(ctx, s, sink, err.Error())
		return nil
	}
	defer stream.Close()

	for stream.Receive() {
		frame := stream.Frame()
		s.last = &frame
		s.received = true
		if err := sink.Message(frame.Content); err != nil {
			// The client went away; the deferred Close cancels nothing here
			// because ctx is already done in that case.
			u.logger.WarnContext(ctx, "stopped relaying answer frames",
				"message_id", messageID, "error", err)
			s.state = stateClosed
			return nil
		}
	}

	if err := stream.Err(); err != nil {
		u.fail(ctx, s, sink, err.Error())
		return nil
	}
	if !s.received {
		u.fail(ctx, s, sink, "Message not received")
		return nil
	}

	s.state = stateFinalizing
	answer, err := u.finalize(ctx, s)
	if err != nil {
		u.logger.ErrorContext(ctx, "failed to persist final answer",
			"message_id", messageID, "error", err)
		u.fail(ctx, s, sink, err.Error())
		return nil
	}

	if err := sink.End(answer); err != nil {
		u.logger.WarnContext(ctx, "failed to deliver end event",
			"message_id", messageID, "error", err)
	}
	s.state = stateClosed
	return nil
}

// finalize stores the bot answer, records the remote chat id and marks the
// question answered, all in one transaction.
func (u *streamAnswerUsecase) finalize(ctx context.Context, s *session) (*domain.Message, error) {
	var answer *domain.Message
	err := u.txManager.RunInTx(ctx, func(ctx context.Context) error {
		created, err := u.messageRepo.CreateMessage(ctx, s.question.ChatID, s.last.Content, true, true)
		if err != nil {
			return fmt.Errorf("failed to create answer message: %w", err)
		}
		if err := u.chatRepo.UpdateChatRemoteID(ctx, s.question.ChatID, s.last.RemoteChatID); err != nil {
			return fmt.Errorf("failed to record remote chat id: %w", err)
		}
		if err := u.messageRepo.MarkMessageAnswered(ctx, s.question.ID); err != nil {
			return fmt.Errorf("failed to mark question answered: %w", err)
		}
		answer = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return answer, nil
}

// reject refuses the session before any upstream work happens.
func (u *streamAnswerUsecase) reject(ctx context.Context, s *session, sink domain.EventSink, detail string) {
	if err := sink.Begin(http.StatusForbidden); err != nil {
		u.logger.WarnContext(ctx, "failed to begin event stream", "error", err)
		return
	}
	if err := sink.Error(detail); err != nil {
		u.logger.WarnContext(ctx, "failed to deliver error event", "error", err)
	}
	s.state = stateClosed
}

// fail reports a mid-session failure as an error event.
func (u *streamAnswerUsecase) fail(ctx context.Context, s *session, sink domain.EventSink, detail string) {
	if err := sink.Error(detail); err != nil {
		u.logger.WarnContext(ctx, "failed to deliver error event", "error", err)
	}
	s.state = stateClosed
}
