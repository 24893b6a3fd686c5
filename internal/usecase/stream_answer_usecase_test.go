package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"chatweb/internal/domain"
	"chatweb/internal/usecase"
)

// --- Mocks ---

type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) CreateChat(ctx context.Context, userID string) (*domain.Chat, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Chat), args.Error(1)
}

func (m *MockChatRepository) GetChat(ctx context.Context, id uuid.UUID) (*domain.Chat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Chat), args.Error(1)
}

func (m *MockChatRepository) ListChats(ctx context.Context, userID string) ([]domain.ChatSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChatSummary), args.Error(1)
}

func (m *MockChatRepository) UpdateChatRemoteID(ctx context.Context, id uuid.UUID, remoteChatID string) error {
	args := m.Called(ctx, id, remoteChatID)
	return args.Error(0)
}

type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) GetMessageWithChat(ctx context.Context, id uuid.UUID) (*domain.MessageWithChat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MessageWithChat), args.Error(1)
}

func (m *MockMessageRepository) ListMessages(ctx context.Context, chatID uuid.UUID) ([]domain.Message, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *MockMessageRepository) CreateMessage(ctx context.Context, chatID uuid.UUID, content string, isFromBot, hasAnswered bool) (*domain.Message, error) {
	args := m.Called(ctx, chatID, content, isFromBot, hasAnswered)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *MockMessageRepository) MarkMessageAnswered(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	// Directly execute the function
	return fn(ctx)
}

type fakeStream struct {
	frames []domain.ChatFrame
	idx    int
	err    error
	closed bool
}

func (s *fakeStream) Receive() bool {
	if s.idx < len(s.frames) {
		s.idx++
		return true
	}
	return false
}

func (s *fakeStream) Frame() domain.ChatFrame { return s.frames[s.idx-1] }
func (s *fakeStream) Err() error              { return s.err }
func (s *fakeStream) Close() error {
	s.closed = true
	return nil
}

type MockChatStreamClient struct {
	mock.Mock
}

func (m *MockChatStreamClient) StreamChat(ctx context.Context, remoteChatID, userID, message string) (domain.ChatStream, error) {
	args := m.Called(ctx, remoteChatID, userID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.ChatStream), args.Error(1)
}

// recordingSink captures every event for assertions.
type recordedEvent struct {
	kind    string
	detail  string
	message *domain.Message
}

type recordingSink struct {
	status     int
	began      bool
	events     []recordedEvent
	closeCalls int
	messageErr error
}

func (s *recordingSink) Begin(statusCode int) error {
	s.began = true
	s.status = statusCode
	return nil
}

func (s *recordingSink) Message(content string) error {
	if s.messageErr != nil {
		return s.messageErr
	}
	s.events = append(s.events, recordedEvent{kind: "message", detail: content})
	return nil
}

func (s *recordingSink) Error(detail string) error {
	s.events = append(s.events, recordedEvent{kind: "error", detail: detail})
	return nil
}

func (s *recordingSink) End(msg *domain.Message) error {
	s.events = append(s.events, recordedEvent{kind: "end", message: msg})
	return nil
}

func (s *recordingSink) Close() error {
	s.closeCalls++
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func question(hasAnswered, isFromBot bool) *domain.MessageWithChat {
	chatID := uuid.New()
	return &domain.MessageWithChat{
		Message: domain.Message{
			ID:          uuid.New(),
			ChatID:      chatID,
			Content:     "what is a monad",
			IsFromBot:   isFromBot,
			HasAnswered: hasAnswered,
		},
		Chat: domain.Chat{
			ID:     chatID,
			UserID: "user-42",
		},
	}
}

// --- Tests ---

func TestStreamAnswer_RelaysAndPersists(t *testing.T) {
	mockMsgRepo := new(MockMessageRepository)
	mockChatRepo := new(MockChatRepository)
	mockClient := new(MockChatStreamClient)
	sink := &recordingSink{}

	q := question(false, false)
	stream := &fakeStream{frames: []domain.ChatFrame{
		{Content: "A monad", RemoteChatID: "remote-1"},
		{Content: "A monad is a monoid", RemoteChatID: "remote-1"},
	}}
	answer := &domain.Message{ID: uuid.New(), ChatID: q.ChatID, Content: "A monad is a monoid", IsFromBot: true, HasAnswered: true}

	mockMsgRepo.On("GetMessageWithChat", mock.Anything, q.ID).Return(q, nil)
	mockClient.On("StreamChat", mock.Anything, "", "user-42", "what is a monad").Return(stream, nil)
	mockMsgRepo.On("CreateMessage", mock.Anything, q.ChatID, "A monad is a monoid", true, true).Return(answer, nil)
	mockChatRepo.On("UpdateChatRemoteID", mock.Anything, q.ChatID, "remote-1").Return(nil)
	mockMsgRepo.On("MarkMessageAnswered", mock.Anything, q.ID).Return(nil)

	uc := usecase.NewStreamAnswerUsecase(mockMsgRepo, mockChatRepo, new(MockTransactionManager), mockClient, testLogger())
	err := uc.Execute(context.Background(), q.ID, sink)

	assert.NoError(t, err)
	assert.Equal(t, 200, sink.status)
	if assert.Len(t, sink.events, 3) {
		assert.Equal(t, recordedEvent{kind: "message", detail: "A monad"}, sink.events[0])
		assert.Equal(t, recordedEvent{kind: "message", detail: "A monad is a monoid"}, sink.events[1])
		assert.Equal(t, "end", sink.events[2].kind)
		assert.Equal(t, answer, sink.events[2].message)
	}
	assert.True(t, stream.closed)
	assert.GreaterOrEqual(t, sink.closeCalls, 1)
	mockMsgRepo.AssertExpectations(t)
	mockChatRepo.AssertExpectations(t)
}

func TestStreamAnswer_AlreadyAnswered(t *testing.T) {
	mockMsgRepo := new(MockMessageRepository)
	mockClient := new(MockChatStreamClient)
	sink := &recordingSink{}

	q := question(true, false)
	mockMsgRepo.On("GetMessageWithChat", mock.Anything, q.ID).Return(q, nil)

	uc := usecase.NewStreamAnswerUsecase(mockMsgRepo, new(MockChatRepository), new(MockTransactionManager), mockClient, testLogger())
	err := uc.Execute(context.Background(), q.ID, sink)

	assert.NoError(t, err)
	assert.Equal(t, 403, sink.status)
	if assert.Len(t, sink.events, 1) {
		assert.Equal(t, recordedEvent{kind: "error", detail: "Message already answered"}, sink.events[0])
	}
	mockClient.AssertNotCalled(t, "StreamChat", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStreamAnswer_MessageFromBot(t *testing.T) {
	mockMsgRepo := new(MockMessageRepository)
	sink := &recordingSink{}

	q := question(false, true)
	mockMsgRepo.On("GetMessageWithChat", mock.Anything, q.ID).Return(q, nil)

	uc := usecase.NewStreamAnswerUsecase(mockMsgRepo, new(MockChatRepository), new(MockTransactionManager), new(MockChatStreamClient), testLogger())
	err := uc.Execute(context.Background(), q.ID, sink)

	assert.NoError(t, err)
	assert.Equal(t, 403, sink.status)
	if assert.Len(t, sink.events, 1) {
		assert.Equal(t, recordedEvent{kind: "error", detail: "Message from bot"}, sink.events[0])
	}
}

func TestStreamAnswer_MessageNotFound(t *testing.T) {
	mockMsgRepo := new(MockMessageRepository)
	sink := &recordingSink{}
	id := uuid.New()

	mockMsgRepo.On("GetMessageWithChat", mock.Anything, id).Return(nil, domain.ErrMessageNotFound)

	uc := usecase.NewStreamAnswerUsecase(mockMsgRepo, new(MockChatRepository), new(MockTransactionManager), new(MockChatStreamClient), testLogger())
	err := uc.Execute(context.Background(), id, sink)

	assert.ErrorIs(t, err, domain.ErrMessageNotFound)
	assert.False(t, sink.began)
	assert.Empty(t, sink.events)
	assert.GreaterOrEqual(t, sink.closeCalls, 1)
}

func TestStreamAnswer_EmptyStream(t *testing.T) {
	mockMsgRepo := new(MockMessageRepository)
	mockChatRepo := new(MockChatRepository)
	mockClient := new(MockChatStreamClient)
	sink := &recordingSink{}

	q := question(false, false)
	mockMsgRepo.On("GetMessageWithChat", mock.Anything, q.ID).Return(q, nil)
	mockClient.On("StreamChat", mock.Anything, "", "user-42", "what is a monad").Return(&fakeStream{}, nil)

	uc := usecase.NewStreamAnswerUsecase(mockMsgRepo, mockChatRepo, new(MockTransactionManager), mockClient, testLogger())
	err := uc.Execute(context.Background(), q.ID, sink)

	assert.NoError(t, err)
	assert.Equal(t, 200, sink.status)
	if assert.Len(t, sink.events, 1) {
		assert.Equal(t, recordedEvent{kind: "error", detail: "Message not received"}, sink.events[0])
	}
	mockMsgRepo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockChatRepo.AssertNotCalled(t, "UpdateChatRemoteID", mock.Anything, mock.Anything, mock.Anything)
}

func TestStreamAnswer_UpstreamError(t *testing.T) {
	mockMsgRepo := new(MockMessageRepository)
	mockClient := new(MockChatStreamClient)
	sink := &recordingSink{}

	q := question(false, false)
	stream := &fakeStream{
		frames: []domain.ChatFrame{{Content: "partial", RemoteChatID: "remote-1"}},
		err:    errors.New("upstream unavailable"),
	}
	mockMsgRepo.On("GetMessageWithChat", mock.Anything, q.ID).Return(q, nil)
	mockClient.On("StreamChat", mock.Anything, "", "user-42", "what is a monad").Return(stream, nil)

	uc := usecase.NewStreamAnswerUsecase(mockMsgRepo, new(MockChatRepository), new(MockTransactionManager), mockClient, testLogger())
	err := uc.Execute(context.Background(), q.ID, sink)

	assert.NoError(t, err)
	if assert.Len(t, sink.events, 2) {
		assert.Equal(t, recordedEvent{kind: "message", detail: "partial"}, sink.events[0])
		assert.Equal(t, recordedEvent{kind: "error", detail: "upstream unavailable"}, sink.events[1])
	}
	mockMsgRepo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStreamAnswer_OpenStreamFails(t *testing.T) {
	mockMsgRepo := new(MockMessageRepository)
	mockClient := new(MockChatStreamClient)
	sink := &recordingSink{}

	q := question(false, false)
	mockMsgRepo.On("GetMessageWithChat", mock.Anything, q.ID).Return(q, nil)
	mockClient.On("StreamChat", mock.Anything, "", "user-42", "what is a monad").Return(nil, errors.New("dial refused"))

	uc := usecase.NewStreamAnswerUsecase(mockMsgRepo, new(MockChatRepository), new(MockTransactionManager), mockClient, testLogger())
	err := uc.Execute(context.Background(), q.ID, sink)

	assert.NoError(t, err)
	assert.Equal(t, 200, sink.status)
	if assert.Len(t, sink.events, 1) {
		assert.Equal(t, "error", sink.events[0].kind)
		assert.Equal(t, "dial refused", sink.events[0].detail)
	}
}

func TestStreamAnswer_ClientDisconnect(t *testing.T) {
	mockMsgRepo := new(MockMessageRepository)
	mockClient := new(MockChatStreamClient)
	sink := &recordingSink{messageErr: errors.New("write on closed connection")}

	q := question(false, false)
	stream := &fakeStream{frames: []domain.ChatFrame{{Content: "chunk", RemoteChatID: "remote-1"}}}
	mockMsgRepo.On("GetMessageWithChat", mock.Anything, q.ID).Return(q, nil)
	mockClient.On("StreamChat", mock.Anything, "", "user-42", "what is a monad").Return(stream, nil)

	uc := usecase.NewStreamAnswerUsecase(mockMsgRepo, new(MockChatRepository), new(MockTransactionManager), mockClient, testLogger())
	err := uc.Execute(context.Background(), q.ID, sink)

	assert.NoError(t, err)
	assert.Empty(t, sink.events)
	assert.True(t, stream.closed)
	mockMsgRepo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStreamAnswer_FinalizeFails(t *testing.T) {
	mockMsgRepo := new(MockMessageRepository)
	mockChatRepo := new(MockChatRepository)
	mockClient := new(MockChatStreamClient)
	sink := &recordingSink{}

	q := question(false, false)
	stream := &fakeStream{frames: []domain.ChatFrame{{Content: "answer", RemoteChatID: "remote-1"}}}

	mockMsgRepo.On("GetMessageWithChat", mock.Anything, q.ID).Return(q, nil)
	mockClient.On("StreamChat", mock.Anything, "", "user-42", "what is a monad").Return(stream, nil)
	mockMsgRepo.On("CreateMessage", mock.Anything, q.ChatID, "answer", true, true).Return(nil, errors.New("insert failed"))

	uc := usecase.NewStreamAnswerUsecase(mockMsgRepo, mockChatRepo, new(MockTransactionManager), mockClient, testLogger())
	err := uc.Execute(context.Background(), q.ID, sink)

	assert.NoError(t, err)
	if assert.Len(t, sink.events, 2) {
		assert.Equal(t, "message", sink.events[0].kind)
		assert.Equal(t, "error", sink.events[1].kind)
		assert.Contains(t, sink.events[1].detail, "insert failed")
	}
	mockChatRepo.AssertNotCalled(t, "UpdateChatRemoteID", mock.Anything, mock.Anything, mock.Anything)
	mockMsgRepo.AssertNotCalled(t, "MarkMessageAnswered", mock.Anything, mock.Anything)
}

func TestStreamAnswer_ExistingRemoteChatID(t *testing.T) {
	mockMsgRepo := new(MockMessageRepository)
	mockChatRepo := new(MockChatRepository)
	mockClient := new(MockChatStreamClient)
	sink := &recordingSink{}

	q := question(false, false)
	remote := "remote-7"
	q.Chat.RemoteChatID = &remote
	stream := &fakeStream{frames: []domain.ChatFrame{{Content: "ok", RemoteChatID: "remote-7"}}}
	answer := &domain.Message{ID: uuid.New(), ChatID: q.ChatID, Content: "ok", IsFromBot: true, HasAnswered: true}

	mockMsgRepo.On("GetMessageWithChat", mock.Anything, q.ID).Return(q, nil)
	mockClient.On("StreamChat", mock.Anything, "remote-7", "user-42", "what is a monad").Return(stream, nil)
	mockMsgRepo.On("CreateMessage", mock.Anything, q.ChatID, "ok", true, true).Return(answer, nil)
	mockChatRepo.On("UpdateChatRemoteID", mock.Anything, q.ChatID, "remote-7").Return(nil)
	mockMsgRepo.On("MarkMessageAnswered", mock.Anything, q.ID).Return(nil)

	uc := usecase.NewStreamAnswerUsecase(mockMsgRepo, mockChatRepo, new(MockTransactionManager), mockClient, testLogger())
	err := uc.Execute(context.Background(), q.ID, sink)

	assert.NoError(t, err)
	mockClient.AssertExpectations(t)
	mockChatRepo.AssertExpectations(t)
}
