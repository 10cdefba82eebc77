package text

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/matzehuels/surveycloud/pkg/errors"
)

const (
	DefaultMinLength = 2
	DefaultMaxWords  = 200
)

// Options controls tokenization and counting.
type Options struct {
	Stopwords   StopwordSet // words to drop; the zero value drops nothing
	MinLength   int         // minimum token length in runes; values < 1 mean 1
	MaxWords    int         // vocabulary cap; 0 keeps every word
	FoldPlurals bool        // merge "words" into "word" when both occur
}

// DefaultOptions returns English stopwords, MinLength 2, MaxWords 200 and
// plural folding enabled.
func DefaultOptions() Options {
	return Options{
		Stopwords:   English(),
		MinLength:   DefaultMinLength,
		MaxWords:    DefaultMaxWords,
		FoldPlurals: true,
	}
}

// Tokenize returns the filtered token stream of s in input order.
func Tokenize(s string, opts Options) []string {
	minLen := max(opts.MinLength, 1)
	var out []string
	for _, field := range strings.FieldsFunc(normalize(s), isSeparator) {
		tok := strings.Trim(field, "'")
		tok = strings.TrimSuffix(tok, "'s")
		tok = strings.TrimRight(tok, "'")
		switch {
		case tok == "":
		case opts.Stopwords.Contains(tok):
		case isNumeric(tok):
		case len([]rune(tok)) < minLen:
		default:
			out = append(out, tok)
		}
	}
	return out
}

type tally struct {
	word  string
	count int
	first int
}

// Count tokenizes s and returns its vocabulary ordered by descending count,
// ties broken by first appearance. It returns an EMPTY_INPUT error when no
// token survives filtering.
func Count(s string, opts Options) (Vocabulary, error) {
	tokens := Tokenize(s, opts)

	index := make(map[string]*tally)
	var order []*tally
	for i, tok := range tokens {
		if t, ok := index[tok]; ok {
			t.count++
			continue
		}
		t := &tally{word: tok, count: 1, first: i}
		index[tok] = t
		order = append(order, t)
	}

	if opts.FoldPlurals {
		order = foldPlurals(index, order)
	}
	if len(order) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "no words left after removing stopwords and short tokens")
	}

	slices.SortStableFunc(order, func(a, b *tally) int {
		if a.count != b.count {
			return b.count - a.count
		}
		return a.first - b.first
	})
	if opts.MaxWords > 0 && len(order) > opts.MaxWords {
		order = order[:opts.MaxWords]
	}

	vocab := make(Vocabulary, len(order))
	for i, t := range order {
		vocab[i] = Entry{Word: t.word, Weight: float64(t.count)}
	}
	return vocab, nil
}

// foldPlurals merges a token ending in a single "s" into its stem when the
// stem was counted too. The merged entry keeps the earlier first-seen index.
func foldPlurals(index map[string]*tally, order []*tally) []*tally {
	kept := order[:0:0]
	for _, t := range order {
		w := t.word
		if strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") {
			if stem, ok := index[strings.TrimSuffix(w, "s")]; ok {
				stem.count += t.count
				stem.first = min(stem.first, t.first)
				continue
			}
		}
		kept = append(kept, t)
	}
	return kept
}

func normalize(s string) string {
	s = norm.NFKC.String(s)
	s = strings.NewReplacer("’", "'", "ʼ", "'").Replace(s)
	return cases.Fold().String(s)
}

func isSeparator(r rune) bool {
	return !(unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '\'')
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
