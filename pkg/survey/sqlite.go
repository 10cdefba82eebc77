package survey

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/matzehuels/surveycloud/pkg/errors"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS responses (
    id         TEXT PRIMARY KEY,
    question   TEXT NOT NULL DEFAULT '',
    text       TEXT NOT NULL,
    created_at TEXT NOT NULL
)`

// SQLiteStore keeps responses in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (and if needed creates) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "sqlite path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "create %s", dir)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "open sqlite db")
	}

	for _, stmt := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
		sqliteSchema,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "apply %q", stmt)
		}
	}
	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, r Response) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO responses (id, question, text, created_at) VALUES (?, ?, ?, ?)`,
		r.ID.String(), r.Question, r.Text, r.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "insert response")
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Response, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question, text, created_at FROM responses ORDER BY created_at, rowid`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "query responses")
	}
	defer rows.Close()

	var out []Response
	for rows.Next() {
		var id, createdAt string
		var r Response
		if err := rows.Scan(&id, &r.Question, &r.Text, &createdAt); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "scan response")
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "response id %q", id)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "response %s timestamp", id)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "iterate responses")
	}
	return out, nil
}

// Size includes the write-ahead log.
func (s *SQLiteStore) Size() (int64, error) {
	var total int64
	for _, p := range []string{s.path, s.path + "-wal"} {
		info, err := os.Stat(p)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return 0, err
		}
		total += info.Size()
	}
	return total, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
