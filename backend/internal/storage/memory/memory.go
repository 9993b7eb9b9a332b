// Package memory is the volatile record store used when no database is
// configured. Threads live in a map keyed by board.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/itchan-dev/msgboard/backend/internal/storage"
	"github.com/itchan-dev/msgboard/shared/crypto"
	"github.com/itchan-dev/msgboard/shared/domain"
	internal_errors "github.com/itchan-dev/msgboard/shared/errors"
)

var _ storage.Store = (*Storage)(nil)

type Storage struct {
	mu              sync.RWMutex
	boards          map[domain.BoardShortName][]*domain.Thread
	threadsPerBoard int
	now             func() time.Time
	checkPassword   func(hash, password string) bool
}

func New(threadsPerBoard int) *Storage {
	return &Storage{
		boards:          make(map[domain.BoardShortName][]*domain.Thread),
		threadsPerBoard: threadsPerBoard,
		now:             func() time.Time { return time.Now().UTC() },
		checkPassword:   crypto.CheckPassword,
	}
}

func (s *Storage) CreateThread(_ context.Context, creationData domain.ThreadCreationData) (domain.Thread, error) {
	now := s.now()
	t := &domain.Thread{
		Id:             uuid.NewString(),
		Board:          creationData.Board,
		Text:           creationData.Text,
		CreatedOn:      now,
		BumpedOn:       now,
		DeletePassword: creationData.DeletePassword,
		Replies:        []domain.Reply{},
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.boards[t.Board] = append(s.boards[t.Board], t)
	return t.Clone(), nil
}

func (s *Storage) ListThreads(_ context.Context, board domain.BoardShortName) ([]domain.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	threads := make([]domain.Thread, 0, len(s.boards[board]))
	for _, t := range s.boards[board] {
		threads = append(threads, t.Clone())
	}
	sortByBump(threads)
	if len(threads) > s.threadsPerBoard {
		threads = threads[:s.threadsPerBoard]
	}
	return threads, nil
}

func (s *Storage) GetThread(_ context.Context, id domain.ThreadId) (domain.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t := s.find(id)
	if t == nil {
		return domain.Thread{}, internal_errors.NotFound("thread not found")
	}
	return t.Clone(), nil
}

func (s *Storage) DeleteThread(_ context.Context, board domain.BoardShortName, id domain.ThreadId) (bool, error) {
	id = canonicalId(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	threads := s.boards[board]
	idx := slices.IndexFunc(threads, func(t *domain.Thread) bool { return t.Id == id })
	if idx < 0 {
		return false, nil
	}
	s.boards[board] = slices.Delete(threads, idx, idx+1)
	return true, nil
}

func (s *Storage) AddReply(_ context.Context, creationData domain.ReplyCreationData) (domain.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.find(creationData.ThreadId)
	if t == nil {
		return domain.Thread{}, internal_errors.NotFound("thread not found")
	}

	now := s.now()
	t.Replies = append(t.Replies, domain.Reply{
		Id:             uuid.NewString(),
		Text:           creationData.Text,
		CreatedOn:      now,
		DeletePassword: creationData.DeletePassword,
	})
	t.BumpedOn = now
	return t.Clone(), nil
}

func (s *Storage) ReportThread(_ context.Context, id domain.ThreadId) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t := s.find(id); t != nil {
		t.Reported = true
	}
	return nil
}

func (s *Storage) ReportReply(_ context.Context, threadId domain.ThreadId, replyId domain.ReplyId) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t := s.find(threadId); t != nil {
		if r := t.Reply(canonicalId(replyId)); r != nil {
			r.Reported = true
		}
	}
	return nil
}

// DeleteReply compares the password without holding the lock, then redacts
// the reply if it still exists.
func (s *Storage) DeleteReply(_ context.Context, threadId domain.ThreadId, replyId domain.ReplyId, password domain.Password) (domain.DeleteOutcome, error) {
	threadId, replyId = canonicalId(threadId), canonicalId(replyId)

	s.mu.RLock()
	hash, ok := s.replyPassword(threadId, replyId)
	s.mu.RUnlock()
	if !ok {
		return domain.DeleteNotFound, nil
	}
	if !s.checkPassword(hash, password) {
		return domain.DeleteWrongPassword, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.find(threadId)
	if t == nil {
		return domain.DeleteNotFound, nil
	}
	r := t.Reply(replyId)
	if r == nil {
		return domain.DeleteNotFound, nil
	}
	r.Text = domain.RedactedText
	return domain.DeleteSuccess, nil
}

// replyPassword must be called with mu held
func (s *Storage) replyPassword(threadId domain.ThreadId, replyId domain.ReplyId) (string, bool) {
	t := s.find(threadId)
	if t == nil {
		return "", false
	}
	r := t.Reply(replyId)
	if r == nil {
		return "", false
	}
	return r.DeletePassword, true
}

func (s *Storage) ListReported(_ context.Context, board domain.BoardShortName) ([]domain.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var threads []domain.Thread
	for _, t := range s.boards[board] {
		if t.HasReports() {
			threads = append(threads, t.Clone())
		}
	}
	sortByBump(threads)
	return threads, nil
}

func (s *Storage) Ping(context.Context) error {
	return nil
}

func (s *Storage) Cleanup() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.boards)
	return nil
}

// find must be called with mu held
func (s *Storage) find(id domain.ThreadId) *domain.Thread {
	id = canonicalId(id)
	for _, threads := range s.boards {
		for _, t := range threads {
			if t.Id == id {
				return t
			}
		}
	}
	return nil
}

// canonicalId maps any uuid spelling to the form ids are stored in.
func canonicalId(id string) string {
	canonical, _ := storage.CanonicalId(id)
	return canonical
}

// sortByBump orders newest bump first; equal bumps keep insertion order.
func sortByBump(threads []domain.Thread) {
	slices.SortStableFunc(threads, func(a, b domain.Thread) int {
		return b.BumpedOn.Compare(a.BumpedOn)
	})
}
