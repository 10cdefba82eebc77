package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Limits applied to survey input.
const (
	MaxResponseRunes = 10000
	MaxQuestionRunes = 500
	maxPathLength    = 1024
)

// ValidateResponseText validates the body of a survey response.
//
// The rules are:
//   - Text cannot be blank
//   - At most MaxResponseRunes runes
//   - Must be valid UTF-8
//   - No control characters other than newline, carriage return and tab
func ValidateResponseText(text string) error {
	if strings.TrimSpace(text) == "" {
		return New(ErrCodeInvalidInput, "response cannot be empty")
	}
	if !utf8.ValidString(text) {
		return New(ErrCodeInvalidInput, "response is not valid UTF-8")
	}
	if n := utf8.RuneCountInString(text); n > MaxResponseRunes {
		return New(ErrCodeInvalidInput, "response too long (%d characters, max %d)", n, MaxResponseRunes)
	}
	if hasControl(text, "\n\r\t") {
		return New(ErrCodeInvalidInput, "response contains invalid control characters")
	}
	return nil
}

// ValidateQuestion validates the optional question a response answers.
// An empty question is allowed. Questions are a single line.
func ValidateQuestion(q string) error {
	if q == "" {
		return nil
	}
	if !utf8.ValidString(q) {
		return New(ErrCodeInvalidInput, "question is not valid UTF-8")
	}
	if n := utf8.RuneCountInString(q); n > MaxQuestionRunes {
		return New(ErrCodeInvalidInput, "question too long (%d characters, max %d)", n, MaxQuestionRunes)
	}
	if hasControl(q, "\t") {
		return New(ErrCodeInvalidInput, "question must be a single line")
	}
	return nil
}

// ValidateOutputPath validates a path the CLI is about to write to.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	if strings.HasSuffix(path, "/") {
		return New(ErrCodeInvalidPath, "output path %q is a directory", path)
	}
	return nil
}

func hasControl(s, allowed string) bool {
	for _, r := range s {
		if unicode.IsControl(r) && !strings.ContainsRune(allowed, r) {
			return true
		}
	}
	return false
}
