package provider

import (
	"fmt"
	"strings"
)

// ProviderErrorType represents the type of provider error.
type ProviderErrorType int

const (
	// ProviderFetchFailed indicates the config could not be fetched.
	ProviderFetchFailed ProviderErrorType = iota
	// ProviderNotFound indicates no remote config candidate exists.
	ProviderNotFound
	// ProviderConfigNotFound indicates no local config candidate exists.
	ProviderConfigNotFound
	// ProviderInvalidConfig indicates the config is not a JSON object.
	ProviderInvalidConfig
	// ProviderInvalidReference indicates the reference cannot be classified.
	ProviderInvalidReference
	// ProviderUnsupportedHost indicates a remote host other than github.com.
	ProviderUnsupportedHost
)

// String returns the string representation of the error type.
func (t ProviderErrorType) String() string {
	switch t {
	case ProviderFetchFailed:
		return "FetchFailed"
	case ProviderNotFound:
		return "NotFound"
	case ProviderConfigNotFound:
		return "ConfigNotFound"
	case ProviderInvalidConfig:
		return "InvalidConfig"
	case ProviderInvalidReference:
		return "InvalidReference"
	case ProviderUnsupportedHost:
		return "UnsupportedHost"
	default:
		return "Unknown"
	}
}

// ProviderError represents a provider-specific error.
type ProviderError struct {
	// Type is the error type classification.
	Type ProviderErrorType
	// Message is the human-readable error message.
	Message string
	// Provider is the provider name ("github", "local", or "classifier").
	Provider string
	// Reference is the reference, path or URL that caused the error.
	Reference string
	// Attempts lists every location probed before giving up.
	Attempts []string
	// Suggestion is a preset name close to an unknown reference.
	Suggestion string
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s [%s] %s: %s", e.Provider, e.Type, e.Reference, e.Message)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	if len(e.Attempts) > 0 {
		msg += fmt.Sprintf(" (tried %s)", strings.Join(e.Attempts, ", "))
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause for error wrapping.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewProviderError creates a new ProviderError.
func NewProviderError(typ ProviderErrorType, provider, reference, message string, cause error) *ProviderError {
	return &ProviderError{
		Type:      typ,
		Message:   message,
		Provider:  provider,
		Reference: reference,
		Cause:     cause,
	}
}

// NewFetchError creates a fetch failed error.
func NewFetchError(provider, reference string, cause error) *ProviderError {
	return NewProviderError(ProviderFetchFailed, provider, reference, "failed to fetch boilerplate config", cause)
}

// NewNotFoundError creates a remote not found error listing every attempt.
func NewNotFoundError(provider, reference string, attempts []string) *ProviderError {
	err := NewProviderError(ProviderNotFound, provider, reference, "remote boilerplate not found", nil)
	err.Attempts = attempts
	return err
}

// NewConfigNotFoundError creates a local config not found error.
func NewConfigNotFoundError(reference string, attempts []string, cause error) *ProviderError {
	err := NewProviderError(ProviderConfigNotFound, LocalProviderName, reference, "boilerplate config not found", cause)
	err.Attempts = attempts
	return err
}

// NewInvalidConfigError creates an invalid config error.
func NewInvalidConfigError(provider, source string, cause error) *ProviderError {
	return NewProviderError(ProviderInvalidConfig, provider, source, "cannot parse boilerplate config", cause)
}

// NewInvalidReferenceError creates an invalid reference error.
func NewInvalidReferenceError(reference, message string, cause error) *ProviderError {
	return NewProviderError(ProviderInvalidReference, "classifier", reference, message, cause)
}

// NewUnsupportedHostError creates an unsupported host error.
func NewUnsupportedHostError(reference, host string) *ProviderError {
	return NewProviderError(ProviderUnsupportedHost, "classifier", reference,
		fmt.Sprintf("host %q is not supported, only %s repositories can be used", host, supportedHostName), nil)
}
