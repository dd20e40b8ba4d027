package cli

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/pdor-dev/pdor/internal/config"
	"github.com/pdor-dev/pdor/internal/template/provider"
)

// Common flag names and descriptions
const (
	// Flag names
	FlagType          = "type"
	FlagYarn          = "yarn"
	FlagNoInteraction = "no-interaction"
	FlagSkipInstall   = "skip-install"
	FlagDir           = "dir"
	FlagConfig        = "config"
	FlagVerbose       = "verbose"
	FlagNoColor       = "no-color"
	FlagQuiet         = "quiet"
	FlagDebug         = "debug"

	// Flag descriptions
	DescType          = "Boilerplate type: a preset name, an absolute path or a GitHub repository URL"
	DescYarn          = "Use Yarn if available"
	DescNoInteraction = "Fail if user interaction is needed"
	DescSkipInstall   = "Skip dependencies installation step"
	DescDir           = "Directory the project is created in"
	DescConfig        = "Path to config file"
	DescVerbose       = "Verbose output"
	DescNoColor       = "Disable colored output"
	DescQuiet         = "Suppress output"
	DescDebug         = "Enable debug logging"
)

// normalizeReference turns a relative filesystem reference into an absolute
// one. Preset names and URLs are returned unchanged.
func normalizeReference(ref string) string {
	if ref == "" {
		return ref
	}
	if ref == "." || ref == ".." ||
		strings.HasPrefix(ref, "./") || strings.HasPrefix(ref, "../") ||
		strings.HasPrefix(ref, `.\`) || strings.HasPrefix(ref, `..\`) {
		if abs, err := filepath.Abs(ref); err == nil {
			return abs
		}
	}
	return ref
}

// interactive reports whether prompts may be shown.
func interactive(noInteraction bool) bool {
	if noInteraction {
		return false
	}
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// getGitHubToken retrieves the GitHub token.
// Priority: config file > GITHUB_TOKEN env > GH_TOKEN env > gh auth token command
func getGitHubToken(cfg *config.Config) string {
	if cfg != nil && cfg.GitHub.Token != "" {
		return cfg.GitHub.Token
	}
	if token := provider.GetGitHubTokenFromEnv(); token != "" {
		return token
	}

	// Try gh CLI auth token (uses gh's secure credential storage)
	if _, err := exec.LookPath("gh"); err == nil {
		output, err := exec.Command("gh", "auth", "token").Output()
		if err == nil {
			return strings.TrimSpace(string(output))
		}
	}
	return ""
}
