package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pdor-dev/pdor/internal/git"
)

// copyFixtureToTemp copies a fixture boilerplate to a temp directory and
// returns its absolute path.
func copyFixtureToTemp(t *testing.T, fixtureName string) string {
	t.Helper()

	fixtureDir, err := filepath.Abs(filepath.Join("../fixtures/boilerplates", fixtureName))
	require.NoError(t, err)

	destDir := filepath.Join(t.TempDir(), fixtureName)
	require.NoError(t, copyDir(fixtureDir, destDir))
	return destDir
}

func copyDir(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		destPath := filepath.Join(dst, relPath)

		if info.IsDir() {
			return os.MkdirAll(destPath, info.Mode())
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(destPath, data, info.Mode())
	})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// fixtureCloner "clones" a fixture directory, adding a .git directory the
// way a real clone would.
type fixtureCloner struct {
	dir  string
	got  git.CloneOptions
	hook func(dir string)
}

func (c *fixtureCloner) Clone(_ context.Context, opts git.CloneOptions) error {
	c.got = opts
	if err := copyDir(c.dir, opts.Dir); err != nil {
		return err
	}
	if c.hook != nil {
		c.hook(opts.Dir)
	}
	return os.WriteFile(filepath.Join(opts.Dir, ".git"), nil, 0644)
}

func (c *fixtureCloner) Name() string { return "fixture" }

// recordingInstaller records install calls instead of running npm.
type recordingInstaller struct {
	mu   sync.Mutex
	deps map[bool][]string
	dirs []string
}

func (r *recordingInstaller) Install(_ context.Context, dir string, deps []string, dev bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deps == nil {
		r.deps = map[bool][]string{}
	}
	r.deps[dev] = append(r.deps[dev], deps...)
	r.dirs = append(r.dirs, dir)
	return nil
}

// rawContentServer serves fixture files under /<owner>/<repo>/<branch>/.
func rawContentServer(t *testing.T, prefix, fixtureDir string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.StripPrefix(prefix, http.FileServer(http.Dir(fixtureDir))))
	t.Cleanup(srv.Close)
	return srv
}
