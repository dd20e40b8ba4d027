package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	// AppName is the directory name used under the XDG base directories.
	AppName = "pdor"
	// ConfigFileName is the name of the user configuration file.
	ConfigFileName = "config.yaml"

	// GitHubRawHost serves raw repository content.
	GitHubRawHost = "raw.githubusercontent.com"

	DefaultBranch         = "master"
	DefaultGitBackend     = GitBackendExec
	DefaultRawBaseURL     = "https://" + GitHubRawHost
	DefaultHTTPTimeout    = 30
	DefaultPackageManager = PackageManagerNPM

	GitBackendExec  = "exec"
	GitBackendGoGit = "go-git"

	PackageManagerNPM  = "npm"
	PackageManagerYarn = "yarn"
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Git: GitConfig{
			DefaultBranch: DefaultBranch,
			Backend:       DefaultGitBackend,
		},
		GitHub: GitHubConfig{
			RawBaseURL: DefaultRawBaseURL,
		},
		HTTP: HTTPConfig{
			Timeout: DefaultHTTPTimeout,
		},
		Install: InstallConfig{
			PackageManager: DefaultPackageManager,
		},
		Presets: PresetsConfig{
			Dir: DefaultPresetsDir(),
		},
		Output: OutputConfig{
			Color: true,
		},
	}
}

// defaultMap is DefaultConfig in koanf's flat key form.
func defaultMap() map[string]interface{} {
	cfg := DefaultConfig()
	return map[string]interface{}{
		"git.default_branch":      cfg.Git.DefaultBranch,
		"git.backend":             cfg.Git.Backend,
		"github.token":            cfg.GitHub.Token,
		"github.raw_base_url":     cfg.GitHub.RawBaseURL,
		"http.timeout":            cfg.HTTP.Timeout,
		"install.package_manager": cfg.Install.PackageManager,
		"presets.dir":             cfg.Presets.Dir,
		"output.color":            cfg.Output.Color,
	}
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/pdor/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, ConfigFileName)
}

// DefaultPresetsDir returns $XDG_DATA_HOME/pdor/boilerplates.
func DefaultPresetsDir() string {
	return filepath.Join(xdg.DataHome, AppName, "boilerplates")
}
