package text

import (
	"bufio"
	_ "embed"
	"io"
	"slices"
	"strings"
	"sync"
)

//go:embed stopwords_en.txt
var englishList string

var english = sync.OnceValue(func() StopwordSet {
	s, _ := ReadStopwords(strings.NewReader(englishList))
	return s
})

// StopwordSet is an immutable set of case-folded words excluded from counting.
// The zero value is an empty set.
type StopwordSet struct {
	words map[string]struct{}
}

// English returns the built-in English stopword list.
func English() StopwordSet { return english() }

// NewStopwordSet builds a set from the given words.
func NewStopwordSet(words ...string) StopwordSet {
	return StopwordSet{}.With(words...)
}

// ReadStopwords parses a stopword list with one word per line.
// Blank lines and lines starting with '#' are ignored.
func ReadStopwords(r io.Reader) (StopwordSet, error) {
	var words []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := sc.Err(); err != nil {
		return StopwordSet{}, err
	}
	return NewStopwordSet(words...), nil
}

// With returns a copy of s extended with words. s is left unchanged.
func (s StopwordSet) With(words ...string) StopwordSet {
	m := make(map[string]struct{}, len(s.words)+len(words))
	for w := range s.words {
		m[w] = struct{}{}
	}
	for _, w := range words {
		if w = normalize(strings.TrimSpace(w)); w != "" {
			m[w] = struct{}{}
		}
	}
	return StopwordSet{words: m}
}

// Union returns a set holding the words of both s and o.
func (s StopwordSet) Union(o StopwordSet) StopwordSet {
	return s.With(o.Words()...)
}

// Contains reports whether word (already normalized) is a stopword.
func (s StopwordSet) Contains(word string) bool {
	_, ok := s.words[word]
	return ok
}

// Len returns the number of words in the set.
func (s StopwordSet) Len() int { return len(s.words) }

// Words returns the set contents in sorted order.
func (s StopwordSet) Words() []string {
	out := make([]string, 0, len(s.words))
	for w := range s.words {
		out = append(out, w)
	}
	slices.Sort(out)
	return out
}
