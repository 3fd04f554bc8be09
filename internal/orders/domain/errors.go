package domain

import (
	"errors"
	"strings"
)

// ErrNotUnique marks a failure caused by a duplicate title/author pair or ISBN.
var ErrNotUnique = errors.New("not unique")

// Failure is a single rule violation on a request field.
type Failure struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// ValidationError reports every rule a request violated, in rule order.
type ValidationError struct {
	Failures []Failure
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages(), "; ")
}

// Messages returns the failure messages in rule order.
func (e *ValidationError) Messages() []string {
	messages := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		messages = append(messages, f.Message)
	}
	return messages
}

func (e *ValidationError) Unwrap() []error {
	var errs []error
	for _, f := range e.Failures {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errs
}

// PersistenceError wraps an unexpected failure writing to the repository.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "persist order: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
