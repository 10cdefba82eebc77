package survey

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/matzehuels/surveycloud/pkg/errors"
)

// Response is one submitted answer.
type Response struct {
	ID        uuid.UUID `json:"id"`
	Question  string    `json:"question,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// NewResponse validates and normalizes a submission. Surrounding whitespace
// is trimmed and CRLF line endings become LF. The timestamp is truncated to
// whole seconds, the precision of the file log.
func NewResponse(question, text string, now time.Time) (Response, error) {
	question = strings.TrimSpace(question)
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if err := errors.ValidateQuestion(question); err != nil {
		return Response{}, err
	}
	if err := errors.ValidateResponseText(text); err != nil {
		return Response{}, err
	}
	if strings.Contains(text, separator) {
		return Response{}, errors.New(errors.ErrCodeInvalidInput, "response cannot contain a separator line")
	}
	return Response{
		ID:        uuid.New(),
		Question:  question,
		Text:      text,
		CreatedAt: now.Truncate(time.Second),
	}, nil
}

// Corpus joins the response bodies with newlines. Questions and timestamps
// are not part of the corpus.
func Corpus(responses []Response) string {
	var b strings.Builder
	for i, r := range responses {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(r.Text)
	}
	return b.String()
}

// Stats summarises a set of responses.
type Stats struct {
	Responses  int       `json:"responses"`
	Words      int       `json:"words"`
	Characters int       `json:"characters"`
	Bytes      int64     `json:"bytes"`
	First      time.Time `json:"first,omitzero"`
	Last       time.Time `json:"last,omitzero"`
}

// ComputeStats counts responses, whitespace-separated words and characters
// of the response bodies. storageBytes is the backend size, if known.
func ComputeStats(responses []Response, storageBytes int64) Stats {
	s := Stats{Responses: len(responses), Bytes: storageBytes}
	for _, r := range responses {
		s.Words += len(strings.Fields(r.Text))
		s.Characters += utf8.RuneCountInString(r.Text)
		if s.First.IsZero() || r.CreatedAt.Before(s.First) {
			s.First = r.CreatedAt
		}
		if r.CreatedAt.After(s.Last) {
			s.Last = r.CreatedAt
		}
	}
	return s
}
