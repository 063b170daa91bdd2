package common

import (
	"errors"
	"fmt"
)

// NotFoundError indicates a referenced record does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// NewNotFound creates a NotFoundError for the given entity and identifier.
func NewNotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ValidationError indicates invalid input or an unparsable upstream payload.
// Raw carries the offending payload (e.g. an AI response that failed to parse)
// for diagnostics.
type ValidationError struct {
	Message string
	Raw     string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidation creates a ValidationError with a message only.
func NewValidation(message string) error {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// UpstreamFetchError indicates a network or HTTP failure against the source
// site or the AI service.
type UpstreamFetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *UpstreamFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream fetch failed: %s (status %d)", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("upstream fetch failed: %s: %v", e.URL, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}

// IsUpstreamFetch reports whether err is an UpstreamFetchError.
func IsUpstreamFetch(err error) bool {
	var ue *UpstreamFetchError
	return errors.As(err, &ue)
}

// PersistenceError indicates a store write or read failure. Unlike the other
// error types these propagate to the caller rather than being folded into a
// structured failure result.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
