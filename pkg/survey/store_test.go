package survey

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/surveycloud/pkg/errors"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	tests := []struct {
		name string
		dsn  string
		want string
		code errors.Code
	}{
		{name: "plain path", dsn: filepath.Join(dir, "a.txt"), want: "*survey.FileStore"},
		{name: "file scheme", dsn: "file://" + filepath.Join(dir, "b.txt"), want: "*survey.FileStore"},
		{name: "sqlite", dsn: "sqlite://" + filepath.Join(dir, "c.db"), want: "*survey.SQLiteStore"},
		{name: "empty", dsn: "", code: errors.ErrCodeInvalidConfig},
		{name: "unknown scheme", dsn: "postgres://localhost/db", code: errors.ErrCodeUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, tt.dsn)
			if tt.code != "" {
				if !errors.Is(err, tt.code) {
					t.Fatalf("Open(%q) error = %v, want %s", tt.dsn, err, tt.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open(%q) error: %v", tt.dsn, err)
			}
			defer s.Close()
			if got := typeName(s); got != tt.want {
				t.Errorf("Open(%q) = %s, want %s", tt.dsn, got, tt.want)
			}
		})
	}
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "db", "responses.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error: %v", err)
	}
	defer s.Close()

	base := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	late, _ := NewResponse("", "later answer", base.Add(time.Minute))
	early, _ := NewResponse("Why?", "earlier answer", base)
	for _, r := range []Response{late, early} {
		if err := s.Append(ctx, r); err != nil {
			t.Fatalf("Append() error: %v", err)
		}
	}

	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(got) != 2 || got[0].ID != early.ID || got[1].ID != late.ID {
		t.Fatalf("List() = %+v, want oldest first", got)
	}
	if got[0].Question != "Why?" || !got[0].CreatedAt.Equal(base) {
		t.Errorf("first response = %+v", got[0])
	}
	if err := s.Append(ctx, early); !errors.Is(err, errors.ErrCodeStorage) {
		t.Errorf("duplicate Append() error = %v, want STORAGE_ERROR", err)
	}
	if Size(s) == 0 {
		t.Error("Size() = 0")
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *FileStore:
		return "*survey.FileStore"
	case *SQLiteStore:
		return "*survey.SQLiteStore"
	case *MongoStore:
		return "*survey.MongoStore"
	}
	return "unknown"
}
