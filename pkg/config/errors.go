package config

import (
	"errors"
	"fmt"
	"strings"
)

// Error classes. Every error returned by this module wraps or matches
// exactly one of them, so callers classify failures with errors.Is.
var (
	// ErrMissingConfiguration is matched when a required key is absent.
	ErrMissingConfiguration = errors.New("missing configuration")

	// ErrInvalidCombination is matched when a cross-field constraint fails.
	ErrInvalidCombination = errors.New("invalid combination")

	// ErrInvalidValue is matched when a key holds an unparsable or
	// out-of-range value.
	ErrInvalidValue = errors.New("invalid value")

	// ErrResourceUnavailable is matched when a directory, file or network
	// required by the bundle cannot be created.
	ErrResourceUnavailable = errors.New("resource unavailable")
)

// MissingFieldError names the first required key that is absent.
type MissingFieldError struct {
	// Key is the environment key, e.g. "SERVICE_2_PORT".
	Key string
}

// Error returns the error message.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required key %s is not set", e.Key)
}

// Is reports whether target is ErrMissingConfiguration.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingConfiguration
}

// FieldError reports a key whose value cannot be used.
type FieldError struct {
	// Field is the environment key.
	Field string

	// Value is the offending raw value.
	Value string

	// Message is a human-readable explanation.
	Message string
}

// Error returns the error message.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s=%q: %s", e.Field, e.Value, e.Message)
}

// Is reports whether target is ErrInvalidValue.
func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidValue
}

// CombinationError reports a violated cross-field constraint.
type CombinationError struct {
	// Keys are the environment keys involved, in declared order.
	Keys []string

	// Message describes the constraint.
	Message string
}

// Error returns the error message.
func (e *CombinationError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(e.Keys, ", "))
}

// Is reports whether target is ErrInvalidCombination.
func (e *CombinationError) Is(target error) bool {
	return target == ErrInvalidCombination
}
