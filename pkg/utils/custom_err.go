package utils

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExhibitNotFound  = errors.New("exhibit not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrCSRFInvalid      = errors.New("invalid csrf token")
	ErrCSRFExpired      = errors.New("csrf token expired")
	ErrCSRFMismatch     = errors.New("csrf token mismatch")
	ErrAlreadySubmitted = errors.New("feedback already submitted")
)

// MissingQuestion identifies a required question the visitor left blank.
type MissingQuestion struct {
	ID   uint
	Text string
}

// ValidationError aborts a whole form submission; nothing is persisted
// when it is returned.
type ValidationError struct {
	Missing []MissingQuestion
}

func (e *ValidationError) Error() string {
	texts := make([]string, 0, len(e.Missing))
	for _, m := range e.Missing {
		texts = append(texts, m.Text)
	}
	return fmt.Sprintf("required questions missing: %s", strings.Join(texts, "; "))
}

// LikertRangeError rejects a likert answer outside the configured range.
type LikertRangeError struct {
	QuestionID string
	Min, Max   int
}

func (e *LikertRangeError) Error() string {
	return fmt.Sprintf("answer for %q must be a number between %d and %d", e.QuestionID, e.Min, e.Max)
}
