package survey

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/matzehuels/surveycloud/pkg/errors"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	lockRetry       = 50 * time.Millisecond
)

var (
	separator  = strings.Repeat("-", 50)
	headerLine = regexp.MustCompile(`^\[(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})\](?: Question: (.*))?$`)
)

// FileStore keeps responses in a plain-text log:
//
//	[2026-10-16 14:03:12] Question: What should we change?
//	Response: More hands-on exercises.
//	--------------------------------------------------
//
// The log has no id column, so List derives each ID from the entry's
// timestamp and position.
type FileStore struct {
	path string
	lock *flock.Flock
}

// NewFileStore returns a store for path. The file is created on first append.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, lock: flock.New(path + ".lock")}
}

// Path returns the log file path.
func (s *FileStore) Path() string { return s.path }

// Append writes r under an exclusive lock.
func (s *FileStore) Append(ctx context.Context, r Response) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeStorage, err, "create %s", dir)
		}
	}
	if _, err := s.lock.TryLockContext(ctx, lockRetry); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "lock %s", s.path)
	}
	defer s.lock.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "open %s", s.path)
	}
	if _, err := f.Write(formatEntry(r)); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeStorage, err, "append to %s", s.path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "close %s", s.path)
	}
	return nil
}

// List parses the log under a shared lock. A missing file is an empty survey.
func (s *FileStore) List(ctx context.Context) ([]Response, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil, nil
	}
	if _, err := s.lock.TryRLockContext(ctx, lockRetry); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "lock %s", s.path)
	}
	defer s.lock.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read %s", s.path)
	}
	return ParseLog(data)
}

// Raw returns the log file contents.
func (s *FileStore) Raw() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	return data, err
}

func (s *FileStore) Size() (int64, error) {
	info, err := os.Stat(s.path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (s *FileStore) Close() error { return s.lock.Close() }

func formatEntry(r Response) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "[%s]", r.CreatedAt.Local().Format(timestampLayout))
	if r.Question != "" {
		fmt.Fprintf(&b, " Question: %s", r.Question)
	}
	fmt.Fprintf(&b, "\nResponse: %s\n%s\n\n", r.Text, separator)
	return b.Bytes()
}

// ParseLog reads entries in the FileStore format. Text outside an entry is
// ignored; an entry cut off before its separator is kept.
func ParseLog(data []byte) ([]Response, error) {
	var (
		out     []Response
		current *Response
		body    []string
	)
	flush := func() {
		if current != nil {
			current.Text = strings.Join(body, "\n")
			current.ID = entryID(current.CreatedAt, len(out))
			out = append(out, *current)
		}
		current, body = nil, nil
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSuffix(sc.Text(), "\r")
		switch {
		case current == nil:
			m := headerLine.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			ts, err := time.ParseInLocation(timestampLayout, m[1], time.Local)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d", lineNo)
			}
			current = &Response{Question: m[2], CreatedAt: ts}
		case line == separator:
			flush()
		case body == nil:
			text, ok := strings.CutPrefix(line, "Response: ")
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: expected \"Response: \"", lineNo)
			}
			body = []string{text}
		default:
			body = append(body, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "scan log")
	}
	flush()
	return out, nil
}

var logNamespace = uuid.MustParse("4c0e2a8e-9a4c-4f5e-9d6b-2b7c1f0e7a51")

func entryID(ts time.Time, index int) uuid.UUID {
	return uuid.NewSHA1(logNamespace, fmt.Appendf(nil, "%s#%d", ts.Format(timestampLayout), index))
}

var _ Store = (*FileStore)(nil)
