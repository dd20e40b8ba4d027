package provider

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdor-dev/pdor/internal/debug"
	"github.com/pdor-dev/pdor/internal/pkgjson"
	"github.com/pdor-dev/pdor/internal/template/model"
	"github.com/pdor-dev/pdor/internal/template/preset"
)

// LocalProvider reads boilerplate configs from disk: bundled presets and
// absolute paths.
type LocalProvider struct {
	// Registry locates bundled presets.
	Registry *preset.Registry
}

// NewLocalProvider creates a new local provider.
func NewLocalProvider(reg *preset.Registry) *LocalProvider {
	return &LocalProvider{Registry: reg}
}

// Name returns the provider name.
func (p *LocalProvider) Name() string {
	return LocalProviderName
}

// Fetch reads the config of a preset or absolute-path reference.
func (p *LocalProvider) Fetch(ctx context.Context, ref model.Reference) (*model.Payload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch ref.Kind {
	case model.KindPreset:
		if p.Registry == nil {
			return nil, NewFetchError(p.Name(), ref.Raw, errors.New("no preset registry configured"))
		}
		dir, err := p.Registry.Dir(ref.Preset)
		if err != nil {
			return nil, NewFetchError(p.Name(), ref.Raw, err)
		}
		return p.probe(dir, ref.Raw)

	case model.KindLocalPath:
		info, err := os.Stat(ref.LocalPath)
		if err != nil {
			return nil, NewConfigNotFoundError(ref.Raw, []string{ref.LocalPath}, err)
		}
		if info.IsDir() {
			return p.probe(ref.LocalPath, ref.Raw)
		}
		return p.read(filepath.Dir(ref.LocalPath), filepath.Base(ref.LocalPath))

	default:
		return nil, NewInvalidReferenceError(ref.Raw, fmt.Sprintf("%s references are not local", ref.Kind), nil)
	}
}

// probe loads the first config candidate present in root.
func (p *LocalProvider) probe(root, reference string) (*model.Payload, error) {
	attempts := make([]string, 0, len(model.ConfigCandidates))
	for _, name := range model.ConfigCandidates {
		candidate := filepath.Join(root, name)
		attempts = append(attempts, candidate)

		if _, err := os.Stat(candidate); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				debug.Debug("[provider] %s not found", candidate)
				continue
			}
			return nil, NewFetchError(p.Name(), candidate, err)
		}
		return p.read(root, name)
	}
	return nil, NewConfigNotFoundError(reference, attempts, nil)
}

// read loads name from root after checking it resolves inside root.
func (p *LocalProvider) read(root, name string) (*model.Payload, error) {
	path, err := securePath(root, name)
	if err != nil {
		return nil, NewConfigNotFoundError(filepath.Join(root, name), nil, err)
	}

	debug.Debug("[provider] reading config %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewConfigNotFoundError(path, []string{path}, err)
		}
		return nil, NewFetchError(p.Name(), path, err)
	}

	if _, err := pkgjson.Parse(data); err != nil {
		return nil, NewInvalidConfigError(p.Name(), path, err)
	}

	return &model.Payload{
		Data:                data,
		IsPackageDescriptor: name == model.PackageDescriptorFile,
		Source:              path,
		Root:                root,
	}, nil
}

// securePath joins root and name, evaluates symlinks on both and rejects a
// result outside root.
func securePath(root, name string) (string, error) {
	realRoot, err := filepath.EvalSymlinks(filepath.Clean(root))
	if err != nil {
		return "", err
	}
	realPath, err := filepath.EvalSymlinks(filepath.Join(realRoot, name))
	if err != nil {
		return "", err
	}
	if !isSubPath(realRoot, realPath) {
		return "", fmt.Errorf("config %s escapes boilerplate root %s", realPath, realRoot)
	}
	return realPath, nil
}

// isSubPath checks if child is under parent directory.
func isSubPath(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !filepath.IsAbs(rel) && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
