package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdor-dev/pdor/internal/config"
	"github.com/pdor-dev/pdor/internal/install"
	"github.com/pdor-dev/pdor/internal/naming"
	"github.com/pdor-dev/pdor/internal/template/generator"
	"github.com/pdor-dev/pdor/internal/template/provider"
	"github.com/pdor-dev/pdor/internal/template/resolver"
)

// ErrorKind classifies errors surfaced to the user.
type ErrorKind int

const (
	// InvalidBoilerplate indicates an unknown or unusable boilerplate selection.
	InvalidBoilerplate ErrorKind = iota
	// UnsupportedRemoteHost indicates a remote outside github.com.
	UnsupportedRemoteHost
	// RemoteBoilerplateNotFound indicates no remote config could be fetched.
	RemoteBoilerplateNotFound
	// ConfigNotFound indicates no local config file exists.
	ConfigNotFound
	// ConfigParseError indicates a config that cannot be read or understood.
	ConfigParseError
	// DestinationNotEmpty indicates the project directory already has content.
	DestinationNotEmpty
	// MissingGitTool indicates git is required and unavailable.
	MissingGitTool
	// DependencyConflict indicates the project name clashes with a dependency.
	DependencyConflict
	// InvalidProjectName indicates a name that is not a valid package name.
	InvalidProjectName
	// FileGenerationFailed indicates materialization failed.
	FileGenerationFailed
	// InstallFailed indicates dependency installation failed.
	InstallFailed
	// Interrupted indicates the user interrupted the run.
	Interrupted
	// InputRequired indicates input is missing and prompting is disabled.
	InputRequired
)

var kindNames = map[ErrorKind]string{
	InvalidBoilerplate:        "InvalidBoilerplate",
	UnsupportedRemoteHost:     "UnsupportedRemoteHost",
	RemoteBoilerplateNotFound: "RemoteBoilerplateNotFound",
	ConfigNotFound:            "ConfigNotFound",
	ConfigParseError:          "ConfigParseError",
	DestinationNotEmpty:       "DestinationNotEmpty",
	MissingGitTool:            "MissingGitTool",
	DependencyConflict:        "DependencyConflict",
	InvalidProjectName:        "InvalidProjectName",
	FileGenerationFailed:      "FileGenerationFailed",
	InstallFailed:             "InstallFailed",
	Interrupted:               "Interrupted",
	InputRequired:             "InputRequired",
}

// String returns the kind name.
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
)

// AppError represents an application-layer error.
type AppError struct {
	// Kind classifies the error.
	Kind ErrorKind
	// Message is shown to the user.
	Message string
	// Code is the process exit code.
	Code int
	// ProjectPath is the project being generated, if any.
	ProjectPath string
	// Cause is the underlying error.
	Cause error
}

// Error returns the error message.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another *AppError of the same kind.
func (e *AppError) Is(target error) bool {
	var other *AppError
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

// ExitCode returns the process exit code for the error.
func (e *AppError) ExitCode() int {
	return e.Code
}

// NewAppError creates a new AppError with the exit code of kind.
func NewAppError(kind ErrorKind, message string, cause error) *AppError {
	code := ExitFailure
	if kind == Interrupted {
		code = ExitOK
	}
	return &AppError{
		Kind:    kind,
		Message: message,
		Code:    code,
		Cause:   cause,
	}
}

// NewInterruptedError creates the error reported on SIGINT/SIGTERM.
func NewInterruptedError(cause error) *AppError {
	return NewAppError(Interrupted, "Caught interrupt signal, cleaning out and exiting...", cause)
}

// NewInputRequiredError creates an error for input that cannot be prompted.
func NewInputRequiredError(what string) *AppError {
	return NewAppError(InputRequired, what+" required", nil)
}

// ExitCode returns the exit code for any error returned by the pipeline.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ExitFailure
}

// classify folds lower-layer errors into an AppError. fallback is used
// for errors no layer claims.
func classify(err error, fallback ErrorKind, fallbackMessage string) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, context.Canceled) {
		return NewInterruptedError(err)
	}

	var provErr *provider.ProviderError
	if errors.As(err, &provErr) {
		switch provErr.Type {
		case provider.ProviderUnsupportedHost:
			return NewAppError(UnsupportedRemoteHost, "Only git repository are supported as remote boilerplates", err)
		case provider.ProviderNotFound:
			return NewAppError(RemoteBoilerplateNotFound, "Remote repository not found", err)
		case provider.ProviderFetchFailed:
			if provErr.Provider == provider.GitHubProviderName {
				return NewAppError(RemoteBoilerplateNotFound, "Remote repository not found", err)
			}
			return NewAppError(ConfigNotFound, "Cannot get boilerplate config", err)
		case provider.ProviderConfigNotFound:
			return NewAppError(ConfigNotFound, "Cannot get boilerplate config", err)
		case provider.ProviderInvalidConfig:
			return NewAppError(ConfigParseError, "Cannot get boilerplate config", err)
		case provider.ProviderInvalidReference:
			msg := "Selected boilerplate not valid"
			if provErr.Suggestion != "" {
				msg = fmt.Sprintf("%s, did you mean %q?", msg, provErr.Suggestion)
			}
			return NewAppError(InvalidBoilerplate, msg, err)
		}
	}

	var resErr *resolver.ResolveError
	if errors.As(err, &resErr) {
		return NewAppError(ConfigParseError, "Cannot get boilerplate config", err)
	}

	var cfgErr *config.ConfigError
	if errors.As(err, &cfgErr) {
		return NewAppError(ConfigParseError, "Cannot load pdor configuration", err)
	}

	var nameErr *naming.InvalidNameError
	if errors.As(err, &nameErr) {
		return NewAppError(InvalidProjectName,
			fmt.Sprintf("Cannot create a project called %s, the name is not valid", nameErr.Name), err)
	}
	var conflictErr *naming.ConflictError
	if errors.As(err, &conflictErr) {
		return NewAppError(DependencyConflict,
			fmt.Sprintf("Cannot create a project called %s, the name conflicts with some required dependencies", conflictErr.Name), err)
	}

	var genErr *generator.GeneratorError
	if errors.As(err, &genErr) {
		switch genErr.Type {
		case generator.GeneratorDestinationNotEmpty:
			return NewAppError(DestinationNotEmpty, fmt.Sprintf("Project %s already exists!", genErr.File), err)
		case generator.GeneratorMissingGit:
			return NewAppError(MissingGitTool, "Git is required to use remote boilerplates", err)
		default:
			return NewAppError(FileGenerationFailed, "Cannot generate the boilerplate!", err)
		}
	}

	var instErr *install.InstallError
	if errors.As(err, &instErr) {
		return NewAppError(InstallFailed, "Cannot install dependencies", err)
	}

	return NewAppError(fallback, fallbackMessage, err)
}
