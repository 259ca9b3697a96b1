package login

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSubmissionInFlight = errors.New("login: a submission is already in flight")
	ErrOAuthPending       = errors.New("login: an oauth login is already pending")
)

// ValidationError is returned when the form did not pass the schema. Nothing was submitted.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, fe := range e.Fields {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "login: invalid form: " + strings.Join(parts, "; ")
}

// SubmissionError wraps a failure reported by the submission or OAuth collaborator.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("login: submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// PanicError is a collaborator panic turned into an error.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
