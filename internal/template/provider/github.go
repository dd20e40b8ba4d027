package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdor-dev/pdor/internal/build"
	"github.com/pdor-dev/pdor/internal/config"
	"github.com/pdor-dev/pdor/internal/debug"
	"github.com/pdor-dev/pdor/internal/pkgjson"
	"github.com/pdor-dev/pdor/internal/template/model"
)

// maxConfigSize bounds a fetched config file.
const maxConfigSize = 5 << 20

// GitHubProvider fetches boilerplate configs from raw.githubusercontent.com.
type GitHubProvider struct {
	// HTTPClient is the HTTP client for raw content requests.
	HTTPClient *http.Client
	// Token is the optional GitHub personal access token for private repos.
	Token string
	// RawBaseURL is the raw content endpoint.
	RawBaseURL string
}

// NewGitHubProvider creates a new GitHub provider.
func NewGitHubProvider(timeout time.Duration, token string) *GitHubProvider {
	if timeout <= 0 {
		timeout = time.Duration(config.DefaultHTTPTimeout) * time.Second
	}
	return &GitHubProvider{
		HTTPClient: &http.Client{Timeout: timeout},
		Token:      token,
		RawBaseURL: config.DefaultRawBaseURL,
	}
}

// Name returns the provider name.
func (p *GitHubProvider) Name() string {
	return GitHubProviderName
}

// Fetch tries each config candidate in order. The first 2xx response wins;
// when every candidate answers non-2xx the error lists each attempt.
func (p *GitHubProvider) Fetch(ctx context.Context, ref model.Reference) (*model.Payload, error) {
	if !ref.IsRemote() {
		return nil, NewInvalidReferenceError(ref.Raw, fmt.Sprintf("%s references are not remote", ref.Kind), nil)
	}

	attempts := make([]string, 0, len(model.ConfigCandidates))
	for _, name := range model.ConfigCandidates {
		rawURL := RawContentURL(p.RawBaseURL, ref, name)
		debug.Debug("[provider] Try to fetch config from %s", rawURL)

		data, status, err := p.get(ctx, rawURL)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, NewFetchError(p.Name(), rawURL, err)
		}

		if status < 200 || status > 299 {
			debug.Debug("[provider] %s answered %d", rawURL, status)
			attempts = append(attempts, fmt.Sprintf("%s (%d)", rawURL, status))
			continue
		}

		if _, err := pkgjson.Parse(data); err != nil {
			return nil, NewInvalidConfigError(p.Name(), rawURL, err)
		}

		return &model.Payload{
			Data:                data,
			IsPackageDescriptor: name == model.PackageDescriptorFile,
			Source:              rawURL,
		}, nil
	}

	return nil, NewNotFoundError(p.Name(), ref.Raw, attempts)
}

func (p *GitHubProvider) get(ctx context.Context, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, err
	}
	if p.Token != "" && isGitHubRawHost(req.URL.Hostname()) {
		req.Header.Set("Authorization", "token "+p.Token)
	}
	req.Header.Set("User-Agent", "pdor/"+build.Version())

	client := p.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxConfigSize))
		return nil, resp.StatusCode, nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxConfigSize+1))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	if len(data) > maxConfigSize {
		return nil, resp.StatusCode, errors.New("config exceeds maximum size")
	}
	return data, resp.StatusCode, nil
}

// isGitHubRawHost reports whether host serves GitHub raw content. Tokens
// are never sent to mirrors configured through RawBaseURL.
func isGitHubRawHost(host string) bool {
	return strings.EqualFold(host, config.GitHubRawHost)
}
