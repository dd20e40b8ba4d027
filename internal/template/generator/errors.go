package generator

import "fmt"

// GeneratorErrorType categorizes generator errors.
type GeneratorErrorType int

const (
	// GeneratorWriteFailed indicates a file write operation failed.
	GeneratorWriteFailed GeneratorErrorType = iota
	// GeneratorProcessFailed indicates content substitution failed.
	GeneratorProcessFailed
	// GeneratorPathError indicates an invalid or unsafe path was encountered.
	GeneratorPathError
	// GeneratorDestinationNotEmpty indicates the destination already has content.
	GeneratorDestinationNotEmpty
	// GeneratorMissingGit indicates a remote boilerplate needs git and it is unavailable.
	GeneratorMissingGit
	// GeneratorAcquireFailed indicates the boilerplate tree could not be copied or cloned.
	GeneratorAcquireFailed
	// GeneratorRenameFailed indicates a path rename failed.
	GeneratorRenameFailed
)

// String returns the error type name.
func (t GeneratorErrorType) String() string {
	switch t {
	case GeneratorWriteFailed:
		return "WriteFailed"
	case GeneratorProcessFailed:
		return "ProcessFailed"
	case GeneratorPathError:
		return "PathError"
	case GeneratorDestinationNotEmpty:
		return "DestinationNotEmpty"
	case GeneratorMissingGit:
		return "MissingGit"
	case GeneratorAcquireFailed:
		return "AcquireFailed"
	case GeneratorRenameFailed:
		return "RenameFailed"
	default:
		return "Unknown"
	}
}

// GeneratorError represents generator-specific errors.
type GeneratorError struct {
	// Type categorizes the error.
	Type GeneratorErrorType
	// Message is the error message.
	Message string
	// File is the file path related to the error (if applicable).
	File string
	// Cause is the underlying error (if any).
	Cause error
}

// Error implements the error interface.
func (e *GeneratorError) Error() string {
	if e.File != "" {
		if e.Cause != nil {
			return fmt.Sprintf("%s (file: %s): %v", e.Message, e.File, e.Cause)
		}
		return fmt.Sprintf("%s (file: %s)", e.Message, e.File)
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}

	return e.Message
}

// Unwrap returns the underlying cause error for error unwrapping.
func (e *GeneratorError) Unwrap() error {
	return e.Cause
}

// newGeneratorError creates a new GeneratorError.
func newGeneratorError(typ GeneratorErrorType, message, file string, cause error) *GeneratorError {
	return &GeneratorError{
		Type:    typ,
		Message: message,
		File:    file,
		Cause:   cause,
	}
}
