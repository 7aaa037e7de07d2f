package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"proxyforge-hq/proxyforge/pkg/config"
)

// Error labels printed by the CLI.
const (
	LabelMissingConfiguration = "missing-configuration"
	LabelInvalidCombination   = "invalid-combination"
	LabelInvalidValue         = "invalid-value"
	LabelResourceUnavailable  = "resource-unavailable"
	LabelInterrupted          = "interrupted"
	LabelError                = "error"
)

// ConfigError represents an invalid command-line setting.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// Is reports whether target is config.ErrInvalidValue.
func (e *ConfigError) Is(target error) bool {
	return target == config.ErrInvalidValue
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ErrorLabel returns the class label of err.
func ErrorLabel(err error) string {
	switch {
	case errors.Is(err, config.ErrMissingConfiguration):
		return LabelMissingConfiguration
	case errors.Is(err, config.ErrInvalidCombination):
		return LabelInvalidCombination
	case errors.Is(err, config.ErrInvalidValue):
		return LabelInvalidValue
	case errors.Is(err, config.ErrResourceUnavailable):
		return LabelResourceUnavailable
	case errors.Is(err, context.Canceled):
		return LabelInterrupted
	default:
		return LabelError
	}
}

// PrintError writes the labelled error line for err. A CommandError is
// reported by its cause.
func PrintError(w io.Writer, err error) {
	msg := err
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		msg = cmdErr.Err
	}
	fmt.Fprintf(w, "error [%s]: %v\n", ErrorLabel(err), msg)
}
