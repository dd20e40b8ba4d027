package provider

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdor-dev/pdor/internal/template/model"
	"github.com/pdor-dev/pdor/internal/template/preset"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLocalProviderPreset(t *testing.T) {
	reg := preset.NewRegistry(t.TempDir())
	p := NewLocalProvider(reg)

	payload, err := p.Fetch(context.Background(), model.Reference{Raw: "vanilla", Kind: model.KindPreset, Preset: "vanilla"})
	require.NoError(t, err)

	assert.False(t, payload.IsPackageDescriptor)
	assert.Equal(t, model.BoilerplateConfigFile, filepath.Base(payload.Source))
	assert.Contains(t, string(payload.Data), `"type": "vanilla"`)
	assert.DirExists(t, payload.Root)
}

func TestLocalProviderDirectoryPrefersPackageDescriptor(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"name":"x"}`)
	writeFile(t, filepath.Join(root, "pdor.config.json"), `{"type":"y"}`)

	p := NewLocalProvider(nil)
	payload, err := p.Fetch(context.Background(), model.Reference{Kind: model.KindLocalPath, LocalPath: root})
	require.NoError(t, err)

	assert.True(t, payload.IsPackageDescriptor)
	assert.JSONEq(t, `{"name":"x"}`, string(payload.Data))
}

func TestLocalProviderFileBasenameDecidesMarker(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "widget", "package.json"), `{"pdor":{"type":"w"}}`)
	writeFile(t, filepath.Join(root, "other", "pdor.config.json"), `{"type":"o"}`)

	p := NewLocalProvider(nil)

	payload, err := p.Fetch(context.Background(), model.Reference{Kind: model.KindLocalPath, LocalPath: filepath.Join(root, "widget", "package.json")})
	require.NoError(t, err)
	assert.True(t, payload.IsPackageDescriptor)
	assert.Equal(t, "widget", filepath.Base(payload.Root))

	payload, err = p.Fetch(context.Background(), model.Reference{Kind: model.KindLocalPath, LocalPath: filepath.Join(root, "other", "pdor.config.json")})
	require.NoError(t, err)
	assert.False(t, payload.IsPackageDescriptor)
}

func TestLocalProviderConfigNotFound(t *testing.T) {
	root := t.TempDir()
	p := NewLocalProvider(nil)

	_, err := p.Fetch(context.Background(), model.Reference{Kind: model.KindLocalPath, LocalPath: root})
	var provErr *ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, ProviderConfigNotFound, provErr.Type)
	assert.Len(t, provErr.Attempts, 2)

	_, err = p.Fetch(context.Background(), model.Reference{Kind: model.KindLocalPath, LocalPath: filepath.Join(root, "missing.json")})
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, ProviderConfigNotFound, provErr.Type)
}

func TestLocalProviderInvalidConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pdor.config.json"), `["not", "an", "object"]`)

	_, err := NewLocalProvider(nil).Fetch(context.Background(), model.Reference{Kind: model.KindLocalPath, LocalPath: root})

	var provErr *ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, ProviderInvalidConfig, provErr.Type)
}

func TestLocalProviderRejectsSymlinkEscape(t *testing.T) {
	outside := t.TempDir()
	writeFile(t, filepath.Join(outside, "secret.json"), `{"a":1}`)

	root := t.TempDir()
	if err := os.Symlink(filepath.Join(outside, "secret.json"), filepath.Join(root, "package.json")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	_, err := NewLocalProvider(nil).Fetch(context.Background(), model.Reference{Kind: model.KindLocalPath, LocalPath: root})

	var provErr *ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, ProviderConfigNotFound, provErr.Type)
}

func TestLocalProviderRejectsRemote(t *testing.T) {
	_, err := NewLocalProvider(nil).Fetch(context.Background(), model.Reference{Kind: model.KindRemote})
	assert.Error(t, err)
}

func TestIsSubPath(t *testing.T) {
	assert.True(t, isSubPath("/a/b", "/a/b/c"))
	assert.True(t, isSubPath("/a/b", "/a/b/..c"))
	assert.False(t, isSubPath("/a/b", "/a"))
	assert.False(t, isSubPath("/a/b", "/a/bc"))
}
