// Package storage defines the record store shared by the durable and the
// in-memory backends. Both must behave identically for every operation.
package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/itchan-dev/msgboard/shared/domain"
)

type Store interface {
	// CreateThread stores a new thread with created_on = bumped_on = now.
	CreateThread(ctx context.Context, creationData domain.ThreadCreationData) (domain.Thread, error)
	// ListThreads returns the board's threads, most recently bumped first,
	// at most the configured number.
	ListThreads(ctx context.Context, board domain.BoardShortName) ([]domain.Thread, error)
	// GetThread looks id up across all boards; missing threads are a 404.
	GetThread(ctx context.Context, id domain.ThreadId) (domain.Thread, error)
	// DeleteThread removes the thread from board and reports whether it was there.
	DeleteThread(ctx context.Context, board domain.BoardShortName, id domain.ThreadId) (bool, error)
	// AddReply appends a reply and bumps the thread; missing threads are a 404.
	AddReply(ctx context.Context, creationData domain.ReplyCreationData) (domain.Thread, error)
	// ReportThread and ReportReply are idempotent and silent on missing targets.
	ReportThread(ctx context.Context, id domain.ThreadId) error
	ReportReply(ctx context.Context, threadId domain.ThreadId, replyId domain.ReplyId) error
	// DeleteReply redacts the reply text when password matches.
	DeleteReply(ctx context.Context, threadId domain.ThreadId, replyId domain.ReplyId, password domain.Password) (domain.DeleteOutcome, error)
	// ListReported returns the board's threads that carry any report.
	ListReported(ctx context.Context, board domain.BoardShortName) ([]domain.Thread, error)

	Ping(ctx context.Context) error
	Cleanup() error
}

// CanonicalId returns the lowercase hyphenated form of a uuid given in any
// spelling uuid.Parse accepts. ok is false for anything else; such ids can't
// name a stored record.
func CanonicalId(id string) (canonical string, ok bool) {
	u, err := uuid.Parse(id)
	if err != nil {
		return id, false
	}
	return u.String(), true
}
