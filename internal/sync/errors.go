package sync

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrNoteNotFound is returned when a mutation targets a local id that does
// not exist in the local store.
var ErrNoteNotFound = errors.New("note not found")

// Validation bounds for note fields, enforced before a mutation is stored or
// queued.
const (
	TitleMaxLen   = 100
	ContentMaxLen = 5000
)

// ValidationError reports a note field that failed validation. It is
// surfaced synchronously to the caller and never reaches the queue.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func validateNote(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(title) > TitleMaxLen {
		return &ValidationError{Field: "title", Reason: fmt.Sprintf("exceeds %d characters", TitleMaxLen)}
	}
	if utf8.RuneCountInString(content) > ContentMaxLen {
		return &ValidationError{Field: "content", Reason: fmt.Sprintf("exceeds %d characters", ContentMaxLen)}
	}
	return nil
}
