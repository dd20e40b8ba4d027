// Package install adds dependencies to a generated project with npm or yarn.
package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdor-dev/pdor/internal/config"
	"github.com/pdor-dev/pdor/internal/debug"
)

// ErrManagerNotFound is returned when the package manager is not on PATH.
var ErrManagerNotFound = errors.New("package manager not found in PATH")

// Installer adds dependencies to the project in dir.
type Installer interface {
	Install(ctx context.Context, dir string, deps []string, dev bool) error
}

// InstallError reports a failed package manager invocation.
type InstallError struct {
	Manager string
	Dev     bool
	Output  string
	Cause   error
}

// Error implements the error interface.
func (e *InstallError) Error() string {
	kind := "dependencies"
	if e.Dev {
		kind = "dev dependencies"
	}
	msg := fmt.Sprintf("%s failed to install %s", e.Manager, kind)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(" (%v)", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause error for error unwrapping.
func (e *InstallError) Unwrap() error {
	return e.Cause
}

// CommandInstaller runs npm or yarn in the project directory.
type CommandInstaller struct {
	// Manager is config.PackageManagerNPM or config.PackageManagerYarn.
	Manager string
	// Verbose streams the tool output to Stdout/Stderr.
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer

	lookPath func(string) (string, error)
}

// NewCommandInstaller creates an installer for manager.
func NewCommandInstaller(manager string) *CommandInstaller {
	return &CommandInstaller{Manager: manager, lookPath: exec.LookPath}
}

// BuildArgs returns the package manager arguments adding deps.
func BuildArgs(manager string, deps []string, dev bool) []string {
	args := []string{"add"}
	if manager == config.PackageManagerYarn {
		if dev {
			args = append(args, "-D")
		}
		args = append(args, deps...)
		return append(args, "--ignore-engines")
	}

	if dev {
		args = append(args, "--save-dev")
	} else {
		args = append(args, "--save")
	}
	return append(args, deps...)
}

// Install runs the package manager with cmd.Dir set to dir. An empty list
// is a no-op.
func (i *CommandInstaller) Install(ctx context.Context, dir string, deps []string, dev bool) error {
	if len(deps) == 0 {
		return nil
	}

	bin, err := i.lookPath(i.Manager)
	if err != nil {
		return &InstallError{Manager: i.Manager, Dev: dev, Cause: ErrManagerNotFound}
	}

	args := BuildArgs(i.Manager, deps, dev)
	debug.Debug("[install] %s %s (dir=%s)", i.Manager, strings.Join(args, " "), dir)

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir

	var output strings.Builder
	if i.Verbose && i.Stdout != nil {
		cmd.Stdout = io.MultiWriter(i.Stdout, &output)
	} else {
		cmd.Stdout = &output
	}
	if i.Verbose && i.Stderr != nil {
		cmd.Stderr = io.MultiWriter(i.Stderr, &output)
	} else {
		cmd.Stderr = &output
	}

	log := debug.Logger("install")
	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		log.Debug().Err(err).Str("manager", i.Manager).Bool("dev", dev).Msg("install failed")
		return &InstallError{Manager: i.Manager, Dev: dev, Output: lastLine(output.String()), Cause: err}
	}
	log.Debug().
		Str("manager", i.Manager).
		Bool("dev", dev).
		Int("packages", len(deps)).
		Dur("elapsed", time.Since(start)).
		Msg("install finished")
	return nil
}

// ResolveManager picks yarn when requested and installed, npm otherwise.
func ResolveManager(preferYarn bool, configured string, lookPath func(string) (string, error)) string {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if preferYarn || configured == config.PackageManagerYarn {
		if _, err := lookPath(config.PackageManagerYarn); err == nil {
			return config.PackageManagerYarn
		}
		debug.Warn("[install] yarn requested but not found, using npm")
	}
	return config.PackageManagerNPM
}

// InstallAll installs regular and dev dependencies concurrently and waits
// for both. Already installed packages are not rolled back on failure.
func InstallAll(ctx context.Context, inst Installer, dir string, deps, devDeps []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return inst.Install(ctx, dir, deps, false)
	})
	g.Go(func() error {
		return inst.Install(ctx, dir, devDeps, true)
	})
	return g.Wait()
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
