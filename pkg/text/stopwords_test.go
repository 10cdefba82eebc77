package text

import (
	"strings"
	"testing"
)

func TestEnglish(t *testing.T) {
	en := English()
	for _, w := range []string{"the", "a", "an", "of", "and", "don't"} {
		if !en.Contains(w) {
			t.Errorf("English() missing %q", w)
		}
	}
	if en.Contains("survey") {
		t.Error("English() contains survey")
	}
	if en.Contains("# english stopwords: the classic word-cloud list merged with the nltk corpus.") {
		t.Error("comment line parsed as a stopword")
	}
}

func TestStopwordSetWithIsImmutable(t *testing.T) {
	base := NewStopwordSet("alpha")
	extended := base.With("Beta", " gamma ")

	if base.Contains("beta") {
		t.Error("With() modified the receiver")
	}
	for _, w := range []string{"alpha", "beta", "gamma"} {
		if !extended.Contains(w) {
			t.Errorf("extended set missing %q", w)
		}
	}
	if got := extended.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
}

func TestReadStopwords(t *testing.T) {
	input := "# project words\nSurvey\n\n  response  \n"
	set, err := ReadStopwords(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadStopwords() error: %v", err)
	}
	got := set.Words()
	if len(got) != 2 || got[0] != "response" || got[1] != "survey" {
		t.Errorf("Words() = %q, want [response survey]", got)
	}
}

func TestZeroStopwordSet(t *testing.T) {
	var s StopwordSet
	if s.Contains("the") || s.Len() != 0 {
		t.Error("zero StopwordSet should be empty")
	}
	if !s.Union(NewStopwordSet("x")).Contains("x") {
		t.Error("Union() lost words")
	}
}
