package service

import (
	"context"

	"github.com/itchan-dev/msgboard/shared/crypto"
	"github.com/itchan-dev/msgboard/shared/domain"
	internal_errors "github.com/itchan-dev/msgboard/shared/errors"
	"github.com/itchan-dev/msgboard/shared/logger"
	"github.com/itchan-dev/msgboard/shared/middleware/metrics"
)

type ThreadService interface {
	Create(ctx context.Context, board domain.BoardShortName, text domain.MsgText, password domain.Password) (domain.Thread, error)
	List(ctx context.Context, board domain.BoardShortName) ([]domain.Thread, error)
	Report(ctx context.Context, id domain.ThreadId) error
	Delete(ctx context.Context, board domain.BoardShortName, id domain.ThreadId, password domain.Password) (domain.DeleteOutcome, error)
	ListReported(ctx context.Context, board domain.BoardShortName) ([]domain.Thread, error)
}

type Thread struct {
	storage   ThreadStorage
	validator TextValidator
	stripper  *MarkupStripper
	recorder  metrics.Recorder
}

type ThreadStorage interface {
	CreateThread(ctx context.Context, creationData domain.ThreadCreationData) (domain.Thread, error)
	ListThreads(ctx context.Context, board domain.BoardShortName) ([]domain.Thread, error)
	GetThread(ctx context.Context, id domain.ThreadId) (domain.Thread, error)
	DeleteThread(ctx context.Context, board domain.BoardShortName, id domain.ThreadId) (bool, error)
	ReportThread(ctx context.Context, id domain.ThreadId) error
	ListReported(ctx context.Context, board domain.BoardShortName) ([]domain.Thread, error)
}

type TextValidator interface {
	Text(text string) error
	Password(password string) error
}

// NewThread builds the thread service. A nil stripper keeps text as posted.
func NewThread(storage ThreadStorage, validator TextValidator, stripper *MarkupStripper, recorder metrics.Recorder) ThreadService {
	return &Thread{storage, validator, stripper, recorder}
}

func (b *Thread) Create(ctx context.Context, board domain.BoardShortName, text domain.MsgText, password domain.Password) (domain.Thread, error) {
	text, hash, err := prepare(b.validator, b.stripper, text, password)
	if err != nil {
		return domain.Thread{}, err
	}

	thread, err := b.storage.CreateThread(ctx, domain.ThreadCreationData{
		Board:          board,
		Text:           text,
		DeletePassword: hash,
	})
	if err != nil {
		return domain.Thread{}, err
	}
	logger.Log.Debug("thread created", "board", board, "thread_id", thread.Id)
	return thread, nil
}

func (b *Thread) List(ctx context.Context, board domain.BoardShortName) ([]domain.Thread, error) {
	return b.storage.ListThreads(ctx, board)
}

func (b *Thread) Report(ctx context.Context, id domain.ThreadId) error {
	if err := b.storage.ReportThread(ctx, id); err != nil {
		return err
	}
	b.recorder.Report("thread")
	return nil
}

// Delete removes the thread from board when password matches. A thread that
// is missing, or lives on another board, is DeleteNotFound.
func (b *Thread) Delete(ctx context.Context, board domain.BoardShortName, id domain.ThreadId, password domain.Password) (domain.DeleteOutcome, error) {
	outcome, err := b.delete(ctx, board, id, password)
	if err != nil {
		return outcome, err
	}
	b.recorder.Deletion("thread", outcome.String())
	return outcome, nil
}

func (b *Thread) delete(ctx context.Context, board domain.BoardShortName, id domain.ThreadId, password domain.Password) (domain.DeleteOutcome, error) {
	thread, err := b.storage.GetThread(ctx, id)
	if err != nil {
		if internal_errors.IsNotFound(err) {
			return domain.DeleteNotFound, nil
		}
		return domain.DeleteNotFound, err
	}
	if !crypto.CheckPassword(thread.DeletePassword, password) {
		return domain.DeleteWrongPassword, nil
	}

	deleted, err := b.storage.DeleteThread(ctx, board, id)
	if err != nil {
		return domain.DeleteNotFound, err
	}
	if !deleted {
		return domain.DeleteNotFound, nil
	}
	logger.Log.Info("thread deleted", "board", board, "thread_id", id)
	return domain.DeleteSuccess, nil
}

func (b *Thread) ListReported(ctx context.Context, board domain.BoardShortName) ([]domain.Thread, error) {
	return b.storage.ListReported(ctx, board)
}

// prepare validates the posted fields and returns the text to store along
// with the password hash.
func prepare(validator TextValidator, stripper *MarkupStripper, text domain.MsgText, password domain.Password) (domain.MsgText, string, error) {
	if err := validator.Password(password); err != nil {
		return "", "", err
	}
	if err := validator.Text(text); err != nil {
		return "", "", err
	}
	text = stripper.Strip(text)
	// text made only of markup is empty once stripped
	if err := validator.Text(text); err != nil {
		return "", "", err
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return "", "", err
	}
	return text, hash, nil
}
