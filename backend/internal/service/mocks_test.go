package service

import (
	"context"
	"sync"

	"github.com/itchan-dev/msgboard/shared/domain"
)

// --- Mocks ---

// MockStorage mocks both ThreadStorage and ReplyStorage.
type MockStorage struct {
	createThreadFunc func(creationData domain.ThreadCreationData) (domain.Thread, error)
	listThreadsFunc  func(board domain.BoardShortName) ([]domain.Thread, error)
	getThreadFunc    func(id domain.ThreadId) (domain.Thread, error)
	deleteThreadFunc func(board domain.BoardShortName, id domain.ThreadId) (bool, error)
	reportThreadFunc func(id domain.ThreadId) error
	listReportedFunc func(board domain.BoardShortName) ([]domain.Thread, error)
	addReplyFunc     func(creationData domain.ReplyCreationData) (domain.Thread, error)
	reportReplyFunc  func(threadId domain.ThreadId, replyId domain.ReplyId) error
	deleteReplyFunc  func(threadId domain.ThreadId, replyId domain.ReplyId, password domain.Password) (domain.DeleteOutcome, error)

	mu                 sync.Mutex
	createThreadCalled bool
	deleteThreadCalled bool
	deleteBoardArg     domain.BoardShortName
	addReplyCalled     bool
}

func (m *MockStorage) CreateThread(_ context.Context, creationData domain.ThreadCreationData) (domain.Thread, error) {
	m.mu.Lock()
	m.createThreadCalled = true
	m.mu.Unlock()
	if m.createThreadFunc != nil {
		return m.createThreadFunc(creationData)
	}
	return domain.Thread{Id: "t1", Board: creationData.Board, Text: creationData.Text, DeletePassword: creationData.DeletePassword}, nil
}

func (m *MockStorage) ListThreads(_ context.Context, board domain.BoardShortName) ([]domain.Thread, error) {
	if m.listThreadsFunc != nil {
		return m.listThreadsFunc(board)
	}
	return []domain.Thread{}, nil
}

func (m *MockStorage) GetThread(_ context.Context, id domain.ThreadId) (domain.Thread, error) {
	if m.getThreadFunc != nil {
		return m.getThreadFunc(id)
	}
	return domain.Thread{Id: id}, nil
}

func (m *MockStorage) DeleteThread(_ context.Context, board domain.BoardShortName, id domain.ThreadId) (bool, error) {
	m.mu.Lock()
	m.deleteThreadCalled = true
	m.deleteBoardArg = board
	m.mu.Unlock()
	if m.deleteThreadFunc != nil {
		return m.deleteThreadFunc(board, id)
	}
	return true, nil
}

func (m *MockStorage) ReportThread(_ context.Context, id domain.ThreadId) error {
	if m.reportThreadFunc != nil {
		return m.reportThreadFunc(id)
	}
	return nil
}

func (m *MockStorage) ListReported(_ context.Context, board domain.BoardShortName) ([]domain.Thread, error) {
	if m.listReportedFunc != nil {
		return m.listReportedFunc(board)
	}
	return []domain.Thread{}, nil
}

func (m *MockStorage) AddReply(_ context.Context, creationData domain.ReplyCreationData) (domain.Thread, error) {
	m.mu.Lock()
	m.addReplyCalled = true
	m.mu.Unlock()
	if m.addReplyFunc != nil {
		return m.addReplyFunc(creationData)
	}
	return domain.Thread{Id: creationData.ThreadId, Replies: []domain.Reply{{Id: "r1", Text: creationData.Text}}}, nil
}

func (m *MockStorage) ReportReply(_ context.Context, threadId domain.ThreadId, replyId domain.ReplyId) error {
	if m.reportReplyFunc != nil {
		return m.reportReplyFunc(threadId, replyId)
	}
	return nil
}

func (m *MockStorage) DeleteReply(_ context.Context, threadId domain.ThreadId, replyId domain.ReplyId, password domain.Password) (domain.DeleteOutcome, error) {
	if m.deleteReplyFunc != nil {
		return m.deleteReplyFunc(threadId, replyId, password)
	}
	return domain.DeleteSuccess, nil
}

// MockTextValidator mocks the TextValidator interface.
type MockTextValidator struct {
	textFunc     func(text string) error
	passwordFunc func(password string) error
}

func (m *MockTextValidator) Text(text string) error {
	if m.textFunc != nil {
		return m.textFunc(text)
	}
	return nil
}

func (m *MockTextValidator) Password(password string) error {
	if m.passwordFunc != nil {
		return m.passwordFunc(password)
	}
	return nil
}

// MockRecorder collects counted events as "kind/outcome" and "kind".
type MockRecorder struct {
	mu        sync.Mutex
	deletions []string
	reports   []string
}

func (m *MockRecorder) Deletion(kind, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletions = append(m.deletions, kind+"/"+outcome)
}

func (m *MockRecorder) Report(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, kind)
}
