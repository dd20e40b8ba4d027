package config

import "fmt"

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType int

const (
	// ConfigNotFound indicates the configuration file was not found.
	ConfigNotFound ConfigErrorType = iota
	// ConfigInvalid indicates the configuration file could not be read or parsed.
	ConfigInvalid
	// ConfigValidationFailed indicates a setting holds an unusable value.
	ConfigValidationFailed
)

// ConfigError represents a tool configuration error.
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	// File is the configuration file path, empty for env or defaults.
	File string
	// Field is the dotted key that caused the error.
	Field string
	Cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	where := "configuration"
	if e.File != "" {
		where = fmt.Sprintf("configuration in %s", e.File)
	}
	if e.Field != "" {
		where = fmt.Sprintf("%s [%s]", where, e.Field)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", where, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", where, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

func newFieldError(field, message string) *ConfigError {
	return &ConfigError{Type: ConfigValidationFailed, Field: field, Message: message}
}

func newFileError(typ ConfigErrorType, file, message string, cause error) *ConfigError {
	return &ConfigError{Type: typ, File: file, Message: message, Cause: cause}
}
