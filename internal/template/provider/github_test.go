package provider

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdor-dev/pdor/internal/template/model"
)

type rawServer struct {
	mu       sync.Mutex
	files    map[string]string
	requests []string
	auth     []string
}

func newRawServer(t *testing.T, files map[string]string) (*rawServer, *httptest.Server) {
	t.Helper()
	rs := &rawServer{files: files}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.mu.Lock()
		rs.requests = append(rs.requests, r.URL.Path)
		rs.auth = append(rs.auth, r.Header.Get("Authorization"))
		rs.mu.Unlock()

		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return rs, srv
}

func remoteRef(t *testing.T, raw string) model.Reference {
	t.Helper()
	ref, err := Classify(raw, nil, "master")
	require.NoError(t, err)
	return ref
}

func newTestGitHubProvider(srv *httptest.Server) *GitHubProvider {
	p := NewGitHubProvider(5*time.Second, "")
	p.RawBaseURL = srv.URL
	p.HTTPClient = srv.Client()
	return p
}

func TestGitHubProviderPackageDescriptor(t *testing.T) {
	rs, srv := newRawServer(t, map[string]string{
		"/acme/tmpl/master/package.json": `{"name":"tmpl","pdor":{"type":"lib"}}`,
	})

	payload, err := newTestGitHubProvider(srv).Fetch(context.Background(), remoteRef(t, "https://github.com/acme/tmpl"))
	require.NoError(t, err)

	assert.True(t, payload.IsPackageDescriptor)
	assert.Equal(t, srv.URL+"/acme/tmpl/master/package.json", payload.Source)
	assert.Equal(t, []string{"/acme/tmpl/master/package.json"}, rs.requests)
}

func TestGitHubProviderFallsBackToBoilerplateConfig(t *testing.T) {
	rs, srv := newRawServer(t, map[string]string{
		"/acme/tmpl/dev/pdor.config.json": `{"type":"widget"}`,
	})

	payload, err := newTestGitHubProvider(srv).Fetch(context.Background(), remoteRef(t, "https://github.com/acme/tmpl.git#dev"))
	require.NoError(t, err)

	assert.False(t, payload.IsPackageDescriptor)
	assert.JSONEq(t, `{"type":"widget"}`, string(payload.Data))
	assert.Equal(t, []string{"/acme/tmpl/dev/package.json", "/acme/tmpl/dev/pdor.config.json"}, rs.requests)
}

func TestGitHubProviderNotFoundListsAttempts(t *testing.T) {
	_, srv := newRawServer(t, map[string]string{})

	_, err := newTestGitHubProvider(srv).Fetch(context.Background(), remoteRef(t, "https://github.com/acme/tmpl"))

	var provErr *ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, ProviderNotFound, provErr.Type)
	require.Len(t, provErr.Attempts, 2)
	assert.Contains(t, provErr.Attempts[0], "package.json (404)")
	assert.Contains(t, provErr.Attempts[1], "pdor.config.json (404)")
}

func TestGitHubProviderInvalidPayload(t *testing.T) {
	_, srv := newRawServer(t, map[string]string{
		"/acme/tmpl/master/package.json": `not json`,
	})

	_, err := newTestGitHubProvider(srv).Fetch(context.Background(), remoteRef(t, "https://github.com/acme/tmpl"))

	var provErr *ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, ProviderInvalidConfig, provErr.Type)
}

// roundTripFunc answers requests without a network.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestGitHubProviderSendsTokenToRawHost(t *testing.T) {
	var hosts, auth []string
	p := NewGitHubProvider(5*time.Second, "secret")
	p.HTTPClient = &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		hosts = append(hosts, r.URL.Host)
		auth = append(auth, r.Header.Get("Authorization"))
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{}`)),
			Header:     make(http.Header),
			Request:    r,
		}, nil
	})}

	_, err := p.Fetch(context.Background(), remoteRef(t, "https://github.com/acme/tmpl"))
	require.NoError(t, err)
	assert.Equal(t, []string{"raw.githubusercontent.com"}, hosts)
	assert.Equal(t, []string{"token secret"}, auth)
}

func TestGitHubProviderKeepsTokenFromMirrors(t *testing.T) {
	rs, srv := newRawServer(t, map[string]string{
		"/acme/tmpl/master/package.json": `{}`,
	})

	p := newTestGitHubProvider(srv)
	p.Token = "secret"
	_, err := p.Fetch(context.Background(), remoteRef(t, "https://github.com/acme/tmpl"))
	require.NoError(t, err)
	assert.Equal(t, []string{""}, rs.auth)
}

func TestGitHubProviderTransportError(t *testing.T) {
	_, srv := newRawServer(t, map[string]string{})
	p := newTestGitHubProvider(srv)
	srv.Close()

	_, err := p.Fetch(context.Background(), remoteRef(t, "https://github.com/acme/tmpl"))

	var provErr *ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, ProviderFetchFailed, provErr.Type)
	assert.NotNil(t, provErr.Cause)
}

func TestGitHubProviderCanceled(t *testing.T) {
	_, srv := newRawServer(t, map[string]string{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestGitHubProvider(srv).Fetch(ctx, remoteRef(t, "https://github.com/acme/tmpl"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewProvider(t *testing.T) {
	assert.Equal(t, "local", NewProvider(model.Reference{Kind: model.KindPreset}, ProviderConfig{}).Name())
	assert.Equal(t, "local", NewProvider(model.Reference{Kind: model.KindLocalPath}, ProviderConfig{}).Name())

	p := NewProvider(model.Reference{Kind: model.KindRemote}, ProviderConfig{RawBaseURL: "http://mirror", GitHubToken: "t"})
	gh, ok := p.(*GitHubProvider)
	require.True(t, ok)
	assert.Equal(t, "http://mirror", gh.RawBaseURL)
	assert.Equal(t, "t", gh.Token)
}

func TestGetGitHubTokenFromEnv(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GH_TOKEN", "gh")
	assert.Equal(t, "gh", GetGitHubTokenFromEnv())

	t.Setenv("GITHUB_TOKEN", "primary")
	assert.Equal(t, "primary", GetGitHubTokenFromEnv())
}
