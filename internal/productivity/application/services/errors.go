package services

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when the engine configuration is rejected.
var ErrInvalidConfig = errors.New("invalid priority engine configuration")

// ConfigValidationError represents a configuration validation failure.
type ConfigValidationError struct {
	// Field is the configuration field that failed validation.
	Field string

	// Message describes the validation failure.
	Message string

	// Value is the invalid value.
	Value any
}

// Error implements the error interface.
func (e *ConfigValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("config validation failed for %q: %s (got: %v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("config validation failed for %q: %s", e.Field, e.Message)
}

// Unwrap makes every validation error match ErrInvalidConfig.
func (e *ConfigValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// NewConfigValidationError creates a new configuration validation error.
func NewConfigValidationError(field, message string, value any) *ConfigValidationError {
	return &ConfigValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// IsConfigInvalid checks if the error is a configuration validation error.
func IsConfigInvalid(err error) bool {
	var configErr *ConfigValidationError
	return errors.As(err, &configErr) || errors.Is(err, ErrInvalidConfig)
}
