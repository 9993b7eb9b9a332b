package service

import (
	"context"

	"github.com/itchan-dev/msgboard/shared/domain"
	"github.com/itchan-dev/msgboard/shared/logger"
	"github.com/itchan-dev/msgboard/shared/middleware/metrics"
)

type ReplyService interface {
	Create(ctx context.Context, threadId domain.ThreadId, text domain.MsgText, password domain.Password) (domain.Thread, error)
	Get(ctx context.Context, threadId domain.ThreadId) (domain.Thread, error)
	Report(ctx context.Context, threadId domain.ThreadId, replyId domain.ReplyId) error
	Delete(ctx context.Context, threadId domain.ThreadId, replyId domain.ReplyId, password domain.Password) (domain.DeleteOutcome, error)
}

type Reply struct {
	storage   ReplyStorage
	validator TextValidator
	stripper  *MarkupStripper
	recorder  metrics.Recorder
}

type ReplyStorage interface {
	AddReply(ctx context.Context, creationData domain.ReplyCreationData) (domain.Thread, error)
	GetThread(ctx context.Context, id domain.ThreadId) (domain.Thread, error)
	ReportReply(ctx context.Context, threadId domain.ThreadId, replyId domain.ReplyId) error
	DeleteReply(ctx context.Context, threadId domain.ThreadId, replyId domain.ReplyId, password domain.Password) (domain.DeleteOutcome, error)
}

func NewReply(storage ReplyStorage, validator TextValidator, stripper *MarkupStripper, recorder metrics.Recorder) ReplyService {
	return &Reply{storage, validator, stripper, recorder}
}

// Create appends a reply and returns the bumped thread.
func (b *Reply) Create(ctx context.Context, threadId domain.ThreadId, text domain.MsgText, password domain.Password) (domain.Thread, error) {
	text, hash, err := prepare(b.validator, b.stripper, text, password)
	if err != nil {
		return domain.Thread{}, err
	}

	thread, err := b.storage.AddReply(ctx, domain.ReplyCreationData{
		ThreadId:       threadId,
		Text:           text,
		DeletePassword: hash,
	})
	if err != nil {
		return domain.Thread{}, err
	}
	logger.Log.Debug("reply created", "thread_id", threadId)
	return thread, nil
}

func (b *Reply) Get(ctx context.Context, threadId domain.ThreadId) (domain.Thread, error) {
	return b.storage.GetThread(ctx, threadId)
}

func (b *Reply) Report(ctx context.Context, threadId domain.ThreadId, replyId domain.ReplyId) error {
	if err := b.storage.ReportReply(ctx, threadId, replyId); err != nil {
		return err
	}
	b.recorder.Report("reply")
	return nil
}

func (b *Reply) Delete(ctx context.Context, threadId domain.ThreadId, replyId domain.ReplyId, password domain.Password) (domain.DeleteOutcome, error) {
	outcome, err := b.storage.DeleteReply(ctx, threadId, replyId, password)
	if err != nil {
		return outcome, err
	}
	b.recorder.Deletion("reply", outcome.String())
	if outcome == domain.DeleteSuccess {
		logger.Log.Info("reply redacted", "thread_id", threadId, "reply_id", replyId)
	}
	return outcome, nil
}
