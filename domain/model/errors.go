package model

import (
	"errors"
	"strings"
)

var (
	// ErrFormat indicates raw text could not be parsed as the selected format
	ErrFormat = errors.New("sqlfill: format error")

	// ErrValidation indicates parseable but semantically invalid input
	ErrValidation = errors.New("sqlfill: validation error")

	// ErrRuntimeUnavailable indicates expansion was requested before any rows were loaded
	ErrRuntimeUnavailable = errors.New("sqlfill: no data loaded")
)

// ValidationErrors is a list of human readable validation messages.
// An empty list means the input is valid.
type ValidationErrors []string

// Error joins the messages with "; ".
func (ve ValidationErrors) Error() string {
	return strings.Join(ve, "; ")
}

// Unwrap lets errors.Is match ErrValidation.
func (ve ValidationErrors) Unwrap() error {
	return ErrValidation
}

// Messages returns a copy of the messages.
func (ve ValidationErrors) Messages() []string {
	out := make([]string, len(ve))
	copy(out, ve)
	return out
}

// Err returns ve as an error, or nil when ve is empty.
func (ve ValidationErrors) Err() error {
	if len(ve) == 0 {
		return nil
	}
	return ve
}
