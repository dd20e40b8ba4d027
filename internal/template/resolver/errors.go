package resolver

import "fmt"

// ResolveErrorType represents the type of resolution error.
type ResolveErrorType int

const (
	// ResolveInvalidPayload indicates the payload is not a JSON object.
	ResolveInvalidPayload ResolveErrorType = iota
	// ResolveInvalidDependencies indicates a dependency list has the wrong shape.
	ResolveInvalidDependencies
	// ResolveInvalidMetadata indicates the metadata block cannot be decoded.
	ResolveInvalidMetadata
	// ResolveInvalidRenameOptions indicates a rename rule is invalid.
	ResolveInvalidRenameOptions
)

// ResolveError represents a config resolution error.
type ResolveError struct {
	Type    ResolveErrorType
	Message string
	// Source is the payload file path or URL.
	Source string
	// Field is the offending config key.
	Field string
	Cause error
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Field)
	}
	if e.Source != "" {
		msg = fmt.Sprintf("%s in %s", msg, e.Source)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause error.
func (e *ResolveError) Unwrap() error {
	return e.Cause
}

func newResolveError(typ ResolveErrorType, source, field, message string, cause error) *ResolveError {
	return &ResolveError{Type: typ, Source: source, Field: field, Message: message, Cause: cause}
}
