package provider

import (
	"context"

	"github.com/pdor-dev/pdor/internal/template/model"
)

// Provider names reported in ProviderError.
const (
	GitHubProviderName = "github"
	LocalProviderName  = "local"
)

// Provider retrieves the raw configuration of a classified boilerplate.
type Provider interface {
	// Fetch returns the config payload for ref, trying the package
	// descriptor before the standalone boilerplate config.
	Fetch(ctx context.Context, ref model.Reference) (*model.Payload, error)

	// Name returns the provider name (e.g., "github", "local").
	Name() string
}
