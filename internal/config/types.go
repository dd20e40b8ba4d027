package config

// Config represents the global pdor configuration.
type Config struct {
	// Git configuration for cloning remote boilerplates.
	Git GitConfig `koanf:"git" json:"git"`
	// GitHub configuration for repository access.
	GitHub GitHubConfig `koanf:"github" json:"github"`
	// HTTP configuration for config fetches.
	HTTP HTTPConfig `koanf:"http" json:"http"`
	// Install configuration for dependency installation.
	Install InstallConfig `koanf:"install" json:"install"`
	// Presets configuration for bundled boilerplates.
	Presets PresetsConfig `koanf:"presets" json:"presets"`
	// Output configuration for display and logging.
	Output OutputConfig `koanf:"output" json:"output"`
}

// GitConfig represents version-control settings.
type GitConfig struct {
	// DefaultBranch is used when a remote reference names no branch.
	DefaultBranch string `koanf:"default_branch" json:"default_branch"`
	// Backend selects the clone implementation: "exec" or "go-git".
	Backend string `koanf:"backend" json:"backend"`
}

// GitHubConfig represents GitHub-specific settings.
type GitHubConfig struct {
	// Token is the GitHub personal access token for private repositories.
	Token string `koanf:"token" json:"token,omitempty"`
	// RawBaseURL is the raw-content endpoint. Overridable for mirrors.
	RawBaseURL string `koanf:"raw_base_url" json:"raw_base_url"`
}

// HTTPConfig represents HTTP client settings.
type HTTPConfig struct {
	// Timeout is the request timeout in seconds.
	Timeout int `koanf:"timeout" json:"timeout"`
}

// InstallConfig represents dependency installation settings.
type InstallConfig struct {
	// PackageManager is "npm" or "yarn".
	PackageManager string `koanf:"package_manager" json:"package_manager"`
}

// PresetsConfig represents preset registry settings.
type PresetsConfig struct {
	// Dir is where bundled presets are extracted.
	Dir string `koanf:"dir" json:"dir"`
}

// OutputConfig represents output and display settings.
type OutputConfig struct {
	// Color enables colored terminal output.
	Color bool `koanf:"color" json:"color"`
}
