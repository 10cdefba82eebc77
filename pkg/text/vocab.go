package text

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/surveycloud/pkg/errors"
)

// Entry is a word and its weight.
type Entry struct {
	Word   string  `json:"word"`
	Weight float64 `json:"weight"`
}

// Vocabulary is an ordered list of weighted words, heaviest first.
type Vocabulary []Entry

// Total returns the sum of all weights.
func (v Vocabulary) Total() float64 {
	var sum float64
	for _, e := range v {
		sum += e.Weight
	}
	return sum
}

// Max returns the largest weight, or 0 for an empty vocabulary.
func (v Vocabulary) Max() float64 {
	var m float64
	for _, e := range v {
		m = max(m, e.Weight)
	}
	return m
}

// Top returns the first n entries (all of them when n <= 0 or n >= len).
func (v Vocabulary) Top(n int) Vocabulary {
	if n <= 0 || n >= len(v) {
		return v
	}
	return v[:n]
}

// Words returns the words in order.
func (v Vocabulary) Words() []string {
	out := make([]string, len(v))
	for i, e := range v {
		out[i] = e.Word
	}
	return out
}

// Map returns the vocabulary as a word to weight map.
func (v Vocabulary) Map() map[string]float64 {
	m := make(map[string]float64, len(v))
	for _, e := range v {
		m[e.Word] = e.Weight
	}
	return m
}

// Sorted returns a copy ordered by descending weight. Equal weights keep
// their relative order.
func (v Vocabulary) Sorted() Vocabulary {
	out := slices.Clone(v)
	slices.SortStableFunc(out, func(a, b Entry) int {
		return cmp.Compare(b.Weight, a.Weight)
	})
	return out
}

// FromEntries validates entries and returns them as a sorted vocabulary.
// Words are trimmed; blank words and non-positive or non-finite weights are
// rejected, and duplicate words are summed.
func FromEntries(entries []Entry) (Vocabulary, error) {
	seen := make(map[string]int, len(entries))
	var out Vocabulary
	for _, e := range entries {
		w := strings.TrimSpace(e.Word)
		if w == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "blank word in weights")
		}
		if math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) || e.Weight <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "word %q has invalid weight %v", w, e.Weight)
		}
		if i, ok := seen[w]; ok {
			out[i].Weight += e.Weight
			continue
		}
		seen[w] = len(out)
		out = append(out, Entry{Word: w, Weight: e.Weight})
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "weights are empty")
	}
	return out.Sorted(), nil
}

// FromMap converts a word to weight map. Map iteration order is random, so
// equal weights are ordered lexicographically.
func FromMap(m map[string]float64) (Vocabulary, error) {
	entries := make([]Entry, 0, len(m))
	for w, x := range m {
		entries = append(entries, Entry{Word: w, Weight: x})
	}
	slices.SortFunc(entries, func(a, b Entry) int { return strings.Compare(a.Word, b.Word) })
	return FromEntries(entries)
}

// ReadWeights decodes pre-computed weights. Two shapes are accepted: a JSON
// object mapping words to weights (key order breaks ties) or an array of
// {"word", "weight"} objects.
func ReadWeights(r io.Reader) (Vocabulary, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read weights")
	}

	switch tok {
	case json.Delim('['):
		var entries []Entry
		for dec.More() {
			var e Entry
			if err := dec.Decode(&e); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode weight entry")
			}
			entries = append(entries, e)
		}
		return FromEntries(entries)
	case json.Delim('{'):
		var entries []Entry
		for dec.More() {
			key, err := dec.Token()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode weights")
			}
			var x float64
			if err := dec.Decode(&x); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode weight of %v", key)
			}
			entries = append(entries, Entry{Word: fmt.Sprint(key), Weight: x})
		}
		return FromEntries(entries)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "weights must be a JSON object or array")
	}
}
