package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/itchan-dev/msgboard/backend/internal/storage"
	"github.com/itchan-dev/msgboard/shared/domain"
	internal_errors "github.com/itchan-dev/msgboard/shared/errors"
	shared_pg "github.com/itchan-dev/msgboard/shared/storage/pg"
	"github.com/lib/pq"
)

const threadColumns = `id, board, text, created_on, bumped_on, reported, delete_password`

func (s *Storage) CreateThread(ctx context.Context, creationData domain.ThreadCreationData) (domain.Thread, error) {
	created := now()
	thread := domain.Thread{
		Id:             uuid.NewString(),
		Board:          creationData.Board,
		Text:           creationData.Text,
		CreatedOn:      created,
		BumpedOn:       created,
		DeletePassword: creationData.DeletePassword,
		Replies:        []domain.Reply{},
	}

	_, err := s.db.ExecContext(ctx, `
        INSERT INTO threads (id, board, text, created_on, bumped_on, delete_password)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, thread.Id, thread.Board, thread.Text, thread.CreatedOn, thread.BumpedOn, thread.DeletePassword)
	if err != nil {
		return domain.Thread{}, fmt.Errorf("failed to insert thread: %w", err)
	}
	return thread, nil
}

func (s *Storage) ListThreads(ctx context.Context, board domain.BoardShortName) ([]domain.Thread, error) {
	threads, err := s.queryThreads(ctx, `
        SELECT `+threadColumns+`
        FROM threads
        WHERE board = $1
        ORDER BY bumped_on DESC, seq
        LIMIT $2
    `, board, s.threadsPerBoard)
	if err != nil {
		return nil, err
	}
	return threads, s.attachReplies(ctx, s.db, threads)
}

func (s *Storage) GetThread(ctx context.Context, id domain.ThreadId) (domain.Thread, error) {
	return s.getThread(ctx, s.db, id)
}

func (s *Storage) getThread(ctx context.Context, q shared_pg.Querier, id domain.ThreadId) (domain.Thread, error) {
	id, ok := storage.CanonicalId(id)
	if !ok {
		return domain.Thread{}, internal_errors.NotFound("thread not found")
	}

	var t domain.Thread
	err := q.QueryRowContext(ctx, `SELECT `+threadColumns+` FROM threads WHERE id = $1`, id).Scan(
		&t.Id, &t.Board, &t.Text, &t.CreatedOn, &t.BumpedOn, &t.Reported, &t.DeletePassword,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Thread{}, internal_errors.NotFound("thread not found")
		}
		return domain.Thread{}, fmt.Errorf("failed to fetch thread: %w", err)
	}

	threads := []domain.Thread{t}
	if err := s.attachReplies(ctx, q, threads); err != nil {
		return domain.Thread{}, err
	}
	return threads[0], nil
}

func (s *Storage) DeleteThread(ctx context.Context, board domain.BoardShortName, id domain.ThreadId) (bool, error) {
	id, ok := storage.CanonicalId(id)
	if !ok {
		return false, nil
	}
	// replies cascade via foreign key
	result, err := s.db.ExecContext(ctx, `DELETE FROM threads WHERE board = $1 AND id = $2`, board, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete thread: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

func (s *Storage) ReportThread(ctx context.Context, id domain.ThreadId) error {
	id, ok := storage.CanonicalId(id)
	if !ok {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE threads SET reported = TRUE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to report thread: %w", err)
	}
	return nil
}

func (s *Storage) ListReported(ctx context.Context, board domain.BoardShortName) ([]domain.Thread, error) {
	threads, err := s.queryThreads(ctx, `
        SELECT `+threadColumns+`
        FROM threads t
        WHERE board = $1
          AND (reported OR EXISTS (SELECT 1 FROM replies r WHERE r.thread_id = t.id AND r.reported))
        ORDER BY bumped_on DESC, seq
    `, board)
	if err != nil {
		return nil, err
	}
	return threads, s.attachReplies(ctx, s.db, threads)
}

func (s *Storage) queryThreads(ctx context.Context, query string, args ...any) ([]domain.Thread, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query threads: %w", err)
	}
	defer rows.Close()

	threads := []domain.Thread{}
	for rows.Next() {
		var t domain.Thread
		if err := rows.Scan(&t.Id, &t.Board, &t.Text, &t.CreatedOn, &t.BumpedOn, &t.Reported, &t.DeletePassword); err != nil {
			return nil, fmt.Errorf("failed to scan thread: %w", err)
		}
		threads = append(threads, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return threads, nil
}

// attachReplies loads the replies of all threads in one query, in
// chronological order.
func (s *Storage) attachReplies(ctx context.Context, q shared_pg.Querier, threads []domain.Thread) error {
	if len(threads) == 0 {
		return nil
	}
	ids := make([]string, len(threads))
	idx := make(map[string]int, len(threads))
	for i := range threads {
		ids[i] = threads[i].Id
		idx[threads[i].Id] = i
		threads[i].Replies = []domain.Reply{}
	}

	rows, err := q.QueryContext(ctx, `
        SELECT thread_id, id, text, created_on, reported, delete_password
        FROM replies
        WHERE thread_id = ANY($1::uuid[])
        ORDER BY seq
    `, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to fetch replies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var threadId string
		var r domain.Reply
		if err := rows.Scan(&threadId, &r.Id, &r.Text, &r.CreatedOn, &r.Reported, &r.DeletePassword); err != nil {
			return fmt.Errorf("failed to scan reply: %w", err)
		}
		if i, ok := idx[threadId]; ok {
			threads[i].Replies = append(threads[i].Replies, r)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration error: %w", err)
	}
	return nil
}
