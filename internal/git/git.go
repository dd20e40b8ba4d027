// Package git acquires remote boilerplate trees.
package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/pdor-dev/pdor/internal/config"
	"github.com/pdor-dev/pdor/internal/debug"
)

// ErrGitNotFound is returned when the git executable is not on PATH.
var ErrGitNotFound = errors.New("git executable not found in PATH")

// CloneOptions describes a single clone.
type CloneOptions struct {
	// URL is the clone location.
	URL string
	// Dir is the target directory. It must be empty or absent.
	Dir string
	// Branch is checked out after cloning. Empty keeps the remote HEAD.
	Branch string
	// Verbose streams the tool output to Stdout/Stderr.
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// Cloner clones a repository into a directory.
type Cloner interface {
	Clone(ctx context.Context, opts CloneOptions) error
	Name() string
}

// NewCloner returns the cloner for the configured backend.
// Unknown backends fall back to the git CLI.
func NewCloner(backend, token string) Cloner {
	if backend == config.GitBackendGoGit {
		return &GoGitCloner{Token: token}
	}
	return NewExecCloner()
}

// ExecCloner shells out to the git CLI.
type ExecCloner struct {
	lookPath func(string) (string, error)
}

// NewExecCloner creates an ExecCloner resolving git from PATH.
func NewExecCloner() *ExecCloner {
	return &ExecCloner{lookPath: exec.LookPath}
}

// Name returns the backend name.
func (c *ExecCloner) Name() string {
	return config.GitBackendExec
}

// Available reports whether git can be found.
func (c *ExecCloner) Available() bool {
	_, err := c.lookPath("git")
	return err == nil
}

// Clone runs `git clone` followed by `git checkout <branch>` inside the clone.
func (c *ExecCloner) Clone(ctx context.Context, opts CloneOptions) error {
	gitPath, err := c.lookPath("git")
	if err != nil {
		return ErrGitNotFound
	}

	debug.Debug("[git] Cloning %s into %s", opts.URL, opts.Dir)
	if err := c.run(ctx, gitPath, "", opts, "clone", opts.URL, opts.Dir); err != nil {
		return err
	}

	if opts.Branch == "" {
		return nil
	}
	debug.Debug("[git] Checking out %s", opts.Branch)
	return c.run(ctx, gitPath, opts.Dir, opts, "checkout", opts.Branch)
}

func (c *ExecCloner) run(ctx context.Context, gitPath, dir string, opts CloneOptions, args ...string) error {
	cmd := exec.CommandContext(ctx, gitPath, args...)
	cmd.Dir = dir

	var stderr strings.Builder
	if opts.Verbose && opts.Stdout != nil {
		cmd.Stdout = opts.Stdout
	}
	if opts.Verbose && opts.Stderr != nil {
		cmd.Stderr = io.MultiWriter(opts.Stderr, &stderr)
	} else {
		cmd.Stderr = &stderr
	}

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("git %s: %w", args[0], err)
		}
		return fmt.Errorf("git %s: %s: %w", args[0], msg, err)
	}
	return nil
}

// GoGitCloner clones in-process with go-git. No git executable is needed.
type GoGitCloner struct {
	// Token authenticates https clones of private repositories.
	Token string
}

// Name returns the backend name.
func (c *GoGitCloner) Name() string {
	return config.GitBackendGoGit
}

// Clone performs a single-branch clone of opts.Branch.
func (c *GoGitCloner) Clone(ctx context.Context, opts CloneOptions) error {
	cloneOpts := &gogit.CloneOptions{URL: opts.URL}
	if opts.Branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(opts.Branch)
		cloneOpts.SingleBranch = true
	}
	if opts.Verbose && opts.Stderr != nil {
		cloneOpts.Progress = opts.Stderr
	}
	if c.Token != "" && isHTTP(opts.URL) {
		cloneOpts.Auth = &githttp.BasicAuth{Username: "x-access-token", Password: c.Token}
	}

	debug.Debug("[git] go-git clone %s (branch=%s) into %s", opts.URL, opts.Branch, opts.Dir)
	if _, err := gogit.PlainCloneContext(ctx, opts.Dir, false, cloneOpts); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("clone %s: %w", opts.URL, err)
	}
	return nil
}

func isHTTP(u string) bool {
	return strings.HasPrefix(u, "https://") || strings.HasPrefix(u, "http://")
}
