package provider

import (
	"net/http"
	"os"
	"time"

	"github.com/pdor-dev/pdor/internal/template/model"
	"github.com/pdor-dev/pdor/internal/template/preset"
)

// ProviderConfig configures NewProvider.
type ProviderConfig struct {
	// Registry locates bundled presets.
	Registry *preset.Registry
	// GitHubToken is the optional GitHub personal access token.
	GitHubToken string
	// HTTPTimeout bounds each raw content request.
	HTTPTimeout time.Duration
	// RawBaseURL overrides the raw content endpoint.
	RawBaseURL string
	// HTTPClient replaces the default client when set.
	HTTPClient *http.Client
}

// NewProvider returns the provider able to fetch ref.
func NewProvider(ref model.Reference, cfg ProviderConfig) Provider {
	if !ref.IsRemote() {
		return NewLocalProvider(cfg.Registry)
	}

	p := NewGitHubProvider(cfg.HTTPTimeout, cfg.GitHubToken)
	if cfg.RawBaseURL != "" {
		p.RawBaseURL = cfg.RawBaseURL
	}
	if cfg.HTTPClient != nil {
		p.HTTPClient = cfg.HTTPClient
	}
	return p
}

// GetGitHubTokenFromEnv retrieves the GitHub token from environment variables.
// Checks GITHUB_TOKEN first, then falls back to GH_TOKEN.
func GetGitHubTokenFromEnv() string {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token
	}
	return os.Getenv("GH_TOKEN")
}
