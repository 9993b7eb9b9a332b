package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/itchan-dev/msgboard/backend/internal/storage"
	"github.com/itchan-dev/msgboard/shared/crypto"
	"github.com/itchan-dev/msgboard/shared/domain"
	internal_errors "github.com/itchan-dev/msgboard/shared/errors"
	shared_pg "github.com/itchan-dev/msgboard/shared/storage/pg"
)

func (s *Storage) AddReply(ctx context.Context, creationData domain.ReplyCreationData) (domain.Thread, error) {
	threadId, ok := storage.CanonicalId(creationData.ThreadId)
	if !ok {
		return domain.Thread{}, internal_errors.NotFound("thread not found")
	}

	var thread domain.Thread
	err := shared_pg.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		created := now()
		result, err := tx.ExecContext(ctx,
			`UPDATE threads SET bumped_on = $2 WHERE id = $1`,
			threadId, created,
		)
		if err != nil {
			return fmt.Errorf("failed to bump thread: %w", err)
		}
		if affected, _ := result.RowsAffected(); affected == 0 {
			return internal_errors.NotFound("thread not found")
		}

		_, err = tx.ExecContext(ctx, `
            INSERT INTO replies (thread_id, id, text, created_on, delete_password)
            VALUES ($1, $2, $3, $4, $5)
        `, threadId, uuid.NewString(), creationData.Text, created, creationData.DeletePassword)
		if err != nil {
			return fmt.Errorf("failed to insert reply: %w", err)
		}

		thread, err = s.getThread(ctx, tx, threadId)
		return err
	})
	if err != nil {
		return domain.Thread{}, err
	}
	return thread, nil
}

func (s *Storage) ReportReply(ctx context.Context, threadId domain.ThreadId, replyId domain.ReplyId) error {
	threadId, replyId, ok := canonicalIds(threadId, replyId)
	if !ok {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE replies SET reported = TRUE WHERE thread_id = $1 AND id = $2`,
		threadId, replyId,
	)
	if err != nil {
		return fmt.Errorf("failed to report reply: %w", err)
	}
	return nil
}

func (s *Storage) DeleteReply(ctx context.Context, threadId domain.ThreadId, replyId domain.ReplyId, password domain.Password) (domain.DeleteOutcome, error) {
	threadId, replyId, ok := canonicalIds(threadId, replyId)
	if !ok {
		return domain.DeleteNotFound, nil
	}

	var hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT delete_password FROM replies WHERE thread_id = $1 AND id = $2`,
		threadId, replyId,
	).Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DeleteNotFound, nil
		}
		return domain.DeleteNotFound, fmt.Errorf("failed to fetch reply: %w", err)
	}

	if !crypto.CheckPassword(hash, password) {
		return domain.DeleteWrongPassword, nil
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE replies SET text = $3 WHERE thread_id = $1 AND id = $2`,
		threadId, replyId, domain.RedactedText,
	)
	if err != nil {
		return domain.DeleteNotFound, fmt.Errorf("failed to redact reply: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		// thread deleted between the read and the update
		return domain.DeleteNotFound, nil
	}
	return domain.DeleteSuccess, nil
}
