package errors

import (
	"strings"
	"testing"
)

func TestValidateResponseText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "The survey was great", false},
		{"multi line", "line one\nline two\r\n\tindented", false},
		{"unicode", "Très bien, données claires", false},
		{"at limit", strings.Repeat("a", MaxResponseRunes), false},

		{"empty", "", true},
		{"blank", "  \n\t ", true},
		{"too long", strings.Repeat("a", MaxResponseRunes+1), true},
		{"null byte", "foo\x00bar", true},
		{"bell", "foo\x07bar", true},
		{"invalid utf8", "foo\xffbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateResponseText(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateResponseText(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateQuestion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty allowed", "", false},
		{"simple", "What did you think of the workshop?", false},
		{"newline", "first\nsecond", true},
		{"too long", strings.Repeat("q", MaxQuestionRunes+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuestion(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateQuestion(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "wordcloud.png", false},
		{"absolute", "/tmp/out/cloud.svg", false},
		{"empty", "", true},
		{"directory", "out/", true},
		{"control", "out\x01.png", true},
		{"too long", strings.Repeat("a", maxPathLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
