// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrHistoryCorrupt   = errors.New("history file corrupt")
	ErrCollectTimeout   = errors.New("collection timed out")
	ErrRateLimited      = errors.New("rate limited")
	ErrEmptyVocabulary  = errors.New("keyword vocabulary is empty")
	ErrNegativeCount    = errors.New("negative mention count")
	ErrInvalidSymbol    = errors.New("invalid ticker symbol")
	ErrConnectionFailed = errors.New("connection failed")
)

// CollectionError represents a failed collection from a source adapter.
// It is isolated at the adapter boundary and never crosses into the
// aggregation core.
type CollectionError struct {
	Source string
	Stage  string
	Err    error
}

func (e *CollectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("collection error [%s] %s: %v", e.Source, e.Stage, e.Err)
	}
	return fmt.Sprintf("collection error [%s] %s", e.Source, e.Stage)
}

func (e *CollectionError) Unwrap() error {
	return e.Err
}

// NewCollectionError creates a new CollectionError.
func NewCollectionError(source, stage string, err error) *CollectionError {
	return &CollectionError{
		Source: source,
		Stage:  stage,
		Err:    err,
	}
}

// HistoryError represents an error from the history store.
type HistoryError struct {
	Op   string
	Path string
	Err  error
}

func (e *HistoryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("history error [%s] %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("history error [%s] %s", e.Op, e.Path)
}

func (e *HistoryError) Unwrap() error {
	return e.Err
}

// NewHistoryError creates a new HistoryError.
func NewHistoryError(op, path string, err error) *HistoryError {
	return &HistoryError{
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
