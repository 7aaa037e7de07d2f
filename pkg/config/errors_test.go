package config

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorClasses(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		msg    string
	}{
		{
			name:   "missing field",
			err:    &MissingFieldError{Key: "SERVICE_1_PORT"},
			target: ErrMissingConfiguration,
			msg:    "required key SERVICE_1_PORT is not set",
		},
		{
			name:   "field error",
			err:    &FieldError{Field: "LOG_MODE", Value: "syslog", Message: `must be "file" or "stdout"`},
			target: ErrInvalidValue,
			msg:    `LOG_MODE="syslog": must be "file" or "stdout"`,
		},
		{
			name:   "combination",
			err:    &CombinationError{Keys: []string{"SERVICE_1_PATH", "SERVICE_2_PATH"}, Message: "at most one service may bind the root path"},
			target: ErrInvalidCombination,
			msg:    "at most one service may bind the root path (SERVICE_1_PATH, SERVICE_2_PATH)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.msg {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.msg)
			}
			wrapped := fmt.Errorf("build: %w", tt.err)
			if !errors.Is(wrapped, tt.target) {
				t.Errorf("errors.Is(%v, %v) = false", wrapped, tt.target)
			}
			for _, other := range []error{ErrMissingConfiguration, ErrInvalidValue, ErrInvalidCombination, ErrResourceUnavailable} {
				if other != tt.target && errors.Is(tt.err, other) {
					t.Errorf("error should not match %v", other)
				}
			}
		})
	}
}
