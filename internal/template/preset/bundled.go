package preset

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pdor-dev/pdor/internal/debug"
)

//go:embed all:boilerplates
var bundledFS embed.FS

const bundledRoot = "boilerplates"

// IsBundled reports whether name ships inside the binary.
func IsBundled(name string) bool {
	info, err := fs.Stat(bundledFS, path.Join(bundledRoot, name))
	return err == nil && info.IsDir()
}

// Dir returns the on-disk directory of the bundled preset name, extracting
// it on first use. An extraction is reused until the bundled content
// changes.
func (r *Registry) Dir(name string) (string, error) {
	if _, ok := r.Lookup(name); !ok || !IsBundled(name) {
		return "", fmt.Errorf("preset %q is not bundled", name)
	}

	target := filepath.Join(r.dir, name)
	stamp := filepath.Join(r.dir, name+".sha256")

	digest, err := bundleDigest(name)
	if err != nil {
		return "", err
	}

	if current, err := os.ReadFile(stamp); err == nil && strings.TrimSpace(string(current)) == digest {
		if info, err := os.Stat(target); err == nil && info.IsDir() {
			return target, nil
		}
	}

	debug.Debug("[preset] extracting %s to %s", name, target)
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create presets directory: %w", err)
	}

	staging, err := os.MkdirTemp(r.dir, "."+name+"-")
	if err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := extract(name, staging); err != nil {
		return "", err
	}
	if err := os.RemoveAll(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to replace stale preset %s: %w", name, err)
	}
	if err := os.Rename(staging, target); err != nil {
		return "", fmt.Errorf("failed to install preset %s: %w", name, err)
	}
	if err := os.WriteFile(stamp, []byte(digest+"\n"), 0644); err != nil {
		return "", fmt.Errorf("failed to record preset digest: %w", err)
	}

	return target, nil
}

func extract(name, dest string) error {
	root := path.Join(bundledRoot, name)
	return fs.WalkDir(bundledFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
		out := filepath.Join(dest, filepath.FromSlash(rel))

		if d.IsDir() {
			return os.MkdirAll(out, 0755)
		}

		content, err := bundledFS.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read bundled file %s: %w", p, err)
		}
		if err := os.WriteFile(out, content, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		return nil
	})
}

// bundleDigest hashes every path and content of a bundled preset.
func bundleDigest(name string) (string, error) {
	h := sha256.New()
	root := path.Join(bundledRoot, name)
	err := fs.WalkDir(bundledFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		content, err := bundledFS.ReadFile(p)
		if err != nil {
			return err
		}
		fmt.Fprintf(h, "%s\x00%d\x00", p, len(content))
		h.Write(content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to hash bundled preset %s: %w", name, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
