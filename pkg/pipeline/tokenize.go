package pipeline

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/matzehuels/surveycloud/pkg/observability"
	"github.com/matzehuels/surveycloud/pkg/text"
)

// Tokenize counts the words of opts.Text. It returns an EMPTY_INPUT error
// when every token is filtered out.
func Tokenize(ctx context.Context, opts Options) (text.Vocabulary, error) {
	hooks := observability.Pipeline()
	hooks.OnTokenizeStart(ctx, utf8.RuneCountInString(opts.Text))
	start := time.Now()

	vocab, err := text.Count(opts.Text, opts.TokenizerOptions())

	hooks.OnTokenizeComplete(ctx, len(vocab), time.Since(start), err)
	return vocab, err
}
