package pg

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/itchan-dev/msgboard/backend/internal/storage"
	"github.com/itchan-dev/msgboard/shared/config"
	"github.com/itchan-dev/msgboard/shared/domain"
	"github.com/itchan-dev/msgboard/shared/logger"
	shared_pg "github.com/itchan-dev/msgboard/shared/storage/pg"
)

//go:embed migrations/init.sql
var schema string

var _ storage.Store = (*Storage)(nil)

type Storage struct {
	db              *sql.DB
	threadsPerBoard int
}

// New connects to postgres and applies the schema. The schema statements are
// idempotent so New is safe against an initialized database.
func New(ctx context.Context, cfg *config.Config) (*Storage, error) {
	logger.Log.Info("connecting to db", "host", cfg.Private.Pg.Host, "dbname", cfg.Private.Pg.Dbname)
	db, err := shared_pg.Connect(ctx, cfg.Private.Pg, shared_pg.DefaultConnectionConfig())
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	logger.Log.Info("successfully connected to db")
	return &Storage{db: db, threadsPerBoard: cfg.Public.ThreadsPerBoard}, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

// canonicalIds normalises a thread and reply id pair. Postgres rejects some
// spellings uuid.Parse accepts, so queries only ever see the canonical form.
func canonicalIds(threadId domain.ThreadId, replyId domain.ReplyId) (domain.ThreadId, domain.ReplyId, bool) {
	threadId, ok := storage.CanonicalId(threadId)
	if !ok {
		return threadId, replyId, false
	}
	replyId, ok = storage.CanonicalId(replyId)
	return threadId, replyId, ok
}

func now() time.Time {
	// postgres keeps microseconds
	return time.Now().UTC().Truncate(time.Microsecond)
}
