package text

import (
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/surveycloud/pkg/errors"
)

func TestReadWeights(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Vocabulary
		code    errors.Code
		wantErr bool
	}{
		{
			name:  "object keeps key order on ties",
			input: `{"survey": 7, "zeta": 3, "data": 10, "alpha": 3}`,
			want:  Vocabulary{{"data", 10}, {"survey", 7}, {"zeta", 3}, {"alpha", 3}},
		},
		{
			name:  "array",
			input: `[{"word": "data", "weight": 2.5}, {"word": "survey", "weight": 4}]`,
			want:  Vocabulary{{"survey", 4}, {"data", 2.5}},
		},
		{
			name:  "duplicates summed",
			input: `[{"word": "data", "weight": 1}, {"word": "data", "weight": 2}]`,
			want:  Vocabulary{{"data", 3}},
		},
		{name: "negative", input: `{"data": -1}`, wantErr: true, code: errors.ErrCodeInvalidInput},
		{name: "empty object", input: `{}`, wantErr: true, code: errors.ErrCodeEmptyInput},
		{name: "scalar", input: `42`, wantErr: true, code: errors.ErrCodeInvalidFormat},
		{name: "garbage", input: `{"data": "many"}`, wantErr: true, code: errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadWeights(strings.NewReader(tt.input))
			if tt.wantErr {
				if !errors.Is(err, tt.code) {
					t.Fatalf("ReadWeights() error = %v, want code %s", err, tt.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadWeights() error: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("ReadWeights() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromMapLexicographicTies(t *testing.T) {
	vocab, err := FromMap(map[string]float64{"response": 3, "survey": 7, "data": 10, "answer": 3})
	if err != nil {
		t.Fatalf("FromMap() error: %v", err)
	}
	want := []string{"data", "survey", "answer", "response"}
	if got := vocab.Words(); !slices.Equal(got, want) {
		t.Errorf("Words() = %q, want %q", got, want)
	}
	if vocab.Total() != 23 || vocab.Max() != 10 {
		t.Errorf("Total() = %v, Max() = %v", vocab.Total(), vocab.Max())
	}
	if len(vocab.Top(2)) != 2 || len(vocab.Top(0)) != 4 {
		t.Error("Top() returned wrong length")
	}
}
