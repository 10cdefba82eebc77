package text

import (
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/surveycloud/pkg/errors"
)

func TestTokenize(t *testing.T) {
	opts := DefaultOptions()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"lowercases", "Survey SURVEY survey", []string{"survey", "survey", "survey"}},
		{"punctuation", "data, data! (data)?", []string{"data", "data", "data"}},
		{"stopwords", "the data of the survey", []string{"data", "survey"}},
		{"numbers", "2024 results 42", []string{"results"}},
		{"alphanumeric kept", "covid19 3rd", []string{"covid19", "3rd"}},
		{"short tokens", "a b cd x", []string{"cd"}},
		{"possessive", "the team's work", []string{"team", "work"}},
		{"curly possessive", "the team’s work", []string{"team", "work"}},
		{"contraction stopword", "don't panic", []string{"panic"}},
		{"unicode", "Données très Utiles", []string{"données", "très", "utiles"}},
		{"fullwidth", "ＤＡＴＡ", []string{"data"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Tokenize(tt.input, opts); !slices.Equal(got, tt.want) {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokenizeMinLength(t *testing.T) {
	opts := Options{MinLength: 4}
	got := Tokenize("one three four fives", opts)
	want := []string{"three", "four", "fives"}
	if !slices.Equal(got, want) {
		t.Errorf("Tokenize() = %q, want %q", got, want)
	}
}

func TestCount(t *testing.T) {
	vocab, err := Count("Data survey data RESPONSE survey data.", DefaultOptions())
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	want := Vocabulary{{"data", 3}, {"survey", 2}, {"response", 1}}
	if !slices.Equal(vocab, want) {
		t.Errorf("Count() = %v, want %v", vocab, want)
	}
}

func TestCountTieBreakFirstSeen(t *testing.T) {
	vocab, err := Count("zebra apple mango apple zebra mango", Options{})
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if got := vocab.Words(); !slices.Equal(got, []string{"zebra", "apple", "mango"}) {
		t.Errorf("order = %q, want first-seen order", got)
	}
}

func TestCountFoldPlurals(t *testing.T) {
	tests := []struct {
		name string
		fold bool
		want Vocabulary
	}{
		{"folded", true, Vocabulary{{"answer", 3}, {"class", 1}, {"news", 1}}},
		{"unfolded", false, Vocabulary{{"answers", 2}, {"class", 1}, {"answer", 1}, {"news", 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{MinLength: 2, FoldPlurals: tt.fold}
			vocab, err := Count("answers class answer news answers", opts)
			if err != nil {
				t.Fatalf("Count() error: %v", err)
			}
			if !slices.Equal(vocab, tt.want) {
				t.Errorf("Count() = %v, want %v", vocab, tt.want)
			}
		})
	}
}

func TestCountMaxWords(t *testing.T) {
	var b strings.Builder
	for i := range 300 {
		b.WriteString(strings.Repeat("w", 2+i%50))
		b.WriteString(string(rune('a'+i%26)) + " ")
	}
	opts := DefaultOptions()
	opts.MaxWords = 20

	vocab, err := Count(b.String(), opts)
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if len(vocab) > 20 {
		t.Errorf("len(vocab) = %d, want <= 20", len(vocab))
	}
	for i := 1; i < len(vocab); i++ {
		if vocab[i].Weight > vocab[i-1].Weight {
			t.Fatalf("vocab not sorted at %d: %v", i, vocab)
		}
	}
}

func TestCountEmptyInput(t *testing.T) {
	for _, input := range []string{"", "the a an of", "   ...  !!", "1 2 3 42"} {
		_, err := Count(input, DefaultOptions())
		if !errors.Is(err, errors.ErrCodeEmptyInput) {
			t.Errorf("Count(%q) error = %v, want EMPTY_INPUT", input, err)
		}
	}
}

func TestCountNeverEmitsFilteredTokens(t *testing.T) {
	opts := DefaultOptions()
	opts.Stopwords = opts.Stopwords.With("workshop")
	input := "The workshop was useful. I liked the workshop and the speakers; 10/10 would attend!"

	vocab, err := Count(input, opts)
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	for _, e := range vocab {
		if opts.Stopwords.Contains(e.Word) {
			t.Errorf("stopword %q in vocabulary", e.Word)
		}
		if len([]rune(e.Word)) < opts.MinLength {
			t.Errorf("short token %q in vocabulary", e.Word)
		}
	}
}
