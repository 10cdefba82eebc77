package survey

import (
	"context"
	"strings"

	"github.com/matzehuels/surveycloud/pkg/errors"
)

// Store persists responses.
type Store interface {
	// Append stores r.
	Append(ctx context.Context, r Response) error
	// List returns every response, oldest first.
	List(ctx context.Context) ([]Response, error)
	Close() error
}

// Sizer is implemented by stores that can report their on-disk size.
type Sizer interface {
	Size() (int64, error)
}

// Open returns the store for dsn:
//
//	responses.txt, file://responses.txt   FileStore
//	sqlite://responses.db                 SQLiteStore
//	mongodb://host/db, mongodb+srv://...  MongoStore
func Open(ctx context.Context, dsn string) (Store, error) {
	switch {
	case dsn == "":
		return nil, errors.New(errors.ErrCodeInvalidConfig, "storage DSN is empty")
	case strings.HasPrefix(dsn, "sqlite://"):
		return OpenSQLite(ctx, strings.TrimPrefix(dsn, "sqlite://"))
	case strings.HasPrefix(dsn, "mongodb://"), strings.HasPrefix(dsn, "mongodb+srv://"):
		return OpenMongo(ctx, dsn)
	case strings.HasPrefix(dsn, "file://"):
		return NewFileStore(strings.TrimPrefix(dsn, "file://")), nil
	case strings.Contains(dsn, "://"):
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported storage scheme in %q", dsn)
	default:
		return NewFileStore(dsn), nil
	}
}

// Size returns the store's size in bytes, or 0 when the backend cannot tell.
func Size(s Store) int64 {
	if sz, ok := s.(Sizer); ok {
		if n, err := sz.Size(); err == nil {
			return n
		}
	}
	return 0
}
