package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/pdor-dev/pdor/internal/debug"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// key levels: PDOR_GIT__DEFAULT_BRANCH sets git.default_branch.
const EnvPrefix = "PDOR_"

// Loader defines the interface for loading configuration files.
type Loader interface {
	// Load loads configuration from the specified file path.
	Load(path string) (*Config, error)
	// LoadOrDefault loads configuration, tolerating a missing file.
	LoadOrDefault(path string) (*Config, error)
	// Validate validates the configuration.
	Validate(config *Config) error
}

// FileLoader layers defaults, a YAML file and PDOR_ environment variables.
type FileLoader struct {
	// environ is consulted instead of the process environment when set.
	environ []string
}

// NewLoader creates a new FileLoader instance.
func NewLoader() Loader {
	return &FileLoader{}
}

// Load loads configuration from the specified file path.
func (l *FileLoader) Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newFileError(ConfigNotFound, path, "configuration file not found", err)
		}
		return nil, newFileError(ConfigInvalid, path, "failed to stat configuration file", err)
	}
	return l.load(path)
}

// LoadOrDefault loads configuration or falls back to defaults plus
// environment overrides when the file doesn't exist.
func (l *FileLoader) LoadOrDefault(path string) (*Config, error) {
	cfg, err := l.Load(path)
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) && cfgErr.Type == ConfigNotFound {
			debug.Debug("[config] no configuration file at %s, using defaults", path)
			return l.load("")
		}
		return nil, err
	}
	return cfg, nil
}

func (l *FileLoader) load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultMap(), "."), nil); err != nil {
		return nil, newFileError(ConfigInvalid, "", "failed to load defaults", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, newFileError(ConfigInvalid, path, "invalid YAML", err)
		}
		debug.Debug("[config] loaded %s", path)
	}

	if err := l.loadEnv(k); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, newFileError(ConfigInvalid, path, "failed to decode configuration", err)
	}

	if err := l.Validate(&cfg); err != nil {
		if cfgErr, ok := err.(*ConfigError); ok {
			cfgErr.File = path
		}
		return nil, err
	}

	return &cfg, nil
}

func (l *FileLoader) loadEnv(k *koanf.Koanf) error {
	if l.environ == nil {
		err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
		if err != nil {
			return newFileError(ConfigInvalid, "", "failed to load environment", err)
		}
		return nil
	}

	values := map[string]interface{}{}
	for _, kv := range l.environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		values[envKey(name)] = value
	}
	if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
		return newFileError(ConfigInvalid, "", "failed to load environment", err)
	}
	return nil
}

func envKey(name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// Validate validates the configuration.
func (l *FileLoader) Validate(config *Config) error {
	if strings.TrimSpace(config.Git.DefaultBranch) == "" {
		return newFieldError("git.default_branch", "default branch cannot be empty")
	}
	if !ValidBranchName(config.Git.DefaultBranch) {
		return newFieldError("git.default_branch", "default branch contains invalid characters")
	}
	switch config.Git.Backend {
	case GitBackendExec, GitBackendGoGit:
	default:
		return newFieldError("git.backend", "backend must be \"exec\" or \"go-git\"")
	}
	if config.HTTP.Timeout < 0 {
		return newFieldError("http.timeout", "timeout cannot be negative")
	}
	switch config.Install.PackageManager {
	case PackageManagerNPM, PackageManagerYarn:
	default:
		return newFieldError("install.package_manager", "package manager must be \"npm\" or \"yarn\"")
	}
	if config.Presets.Dir == "" {
		return newFieldError("presets.dir", "presets directory cannot be empty")
	}
	return nil
}

// Validate validates the configuration with the default loader.
func Validate(config *Config) error {
	return NewLoader().Validate(config)
}
