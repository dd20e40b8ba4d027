package install

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdor-dev/pdor/internal/config"
)

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		name    string
		manager string
		dev     bool
		want    []string
	}{
		{"npm regular", config.PackageManagerNPM, false, []string{"add", "--save", "react@^16.0.0"}},
		{"npm dev", config.PackageManagerNPM, true, []string{"add", "--save-dev", "react@^16.0.0"}},
		{"yarn regular", config.PackageManagerYarn, false, []string{"add", "react@^16.0.0", "--ignore-engines"}},
		{"yarn dev", config.PackageManagerYarn, true, []string{"add", "-D", "react@^16.0.0", "--ignore-engines"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildArgs(tt.manager, []string{"react@^16.0.0"}, tt.dev))
		})
	}
}

func TestResolveManager(t *testing.T) {
	found := func(string) (string, error) { return "/usr/bin/yarn", nil }
	missing := func(string) (string, error) { return "", exec.ErrNotFound }

	assert.Equal(t, config.PackageManagerNPM, ResolveManager(false, config.PackageManagerNPM, found))
	assert.Equal(t, config.PackageManagerYarn, ResolveManager(true, config.PackageManagerNPM, found))
	assert.Equal(t, config.PackageManagerYarn, ResolveManager(false, config.PackageManagerYarn, found))
	assert.Equal(t, config.PackageManagerNPM, ResolveManager(true, config.PackageManagerNPM, missing))
}

type recordingInstaller struct {
	mu    sync.Mutex
	calls []string
	fail  bool
}

func (r *recordingInstaller) Install(_ context.Context, dir string, deps []string, dev bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kind := "deps"
	if dev {
		kind = "dev"
	}
	r.calls = append(r.calls, kind+":"+dir+":"+strings.Join(deps, ","))
	if dev && r.fail {
		return errors.New("boom")
	}
	return nil
}

func TestInstallAll(t *testing.T) {
	inst := &recordingInstaller{}
	require.NoError(t, InstallAll(context.Background(), inst, "/p", []string{"a@1"}, []string{"b@2"}))

	sort.Strings(inst.calls)
	assert.Equal(t, []string{"deps:/p:a@1", "dev:/p:b@2"}, inst.calls)
}

func TestInstallAllJoinsFailure(t *testing.T) {
	inst := &recordingInstaller{fail: true}
	err := InstallAll(context.Background(), inst, "/p", []string{"a@1"}, []string{"b@2"})
	assert.EqualError(t, err, "boom")
}

func TestCommandInstallerEmptyListIsNoop(t *testing.T) {
	inst := NewCommandInstaller(config.PackageManagerNPM)
	inst.lookPath = func(string) (string, error) { return "", exec.ErrNotFound }
	assert.NoError(t, inst.Install(context.Background(), t.TempDir(), nil, false))
}

func TestCommandInstallerMissingManager(t *testing.T) {
	inst := NewCommandInstaller(config.PackageManagerYarn)
	inst.lookPath = func(string) (string, error) { return "", exec.ErrNotFound }

	err := inst.Install(context.Background(), t.TempDir(), []string{"a"}, true)

	var instErr *InstallError
	require.True(t, errors.As(err, &instErr))
	assert.True(t, instErr.Dev)
	assert.ErrorIs(t, err, ErrManagerNotFound)
}

// fakeManager writes a script that records its arguments and working
// directory, exiting with code.
func fakeManager(t *testing.T, code string) (bin, record string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts unsupported")
	}
	dir := t.TempDir()
	record = filepath.Join(dir, "record")
	bin = filepath.Join(dir, "npm")
	script := "#!/bin/sh\necho \"$(pwd -P) $*\" > " + record + "\necho 'npm ERR! nope' >&2\nexit " + code + "\n"
	require.NoError(t, os.WriteFile(bin, []byte(script), 0755))
	return bin, record
}

func TestCommandInstallerRunsInProjectDir(t *testing.T) {
	bin, record := fakeManager(t, "0")
	project := t.TempDir()

	inst := NewCommandInstaller(config.PackageManagerNPM)
	inst.lookPath = func(string) (string, error) { return bin, nil }
	require.NoError(t, inst.Install(context.Background(), project, []string{"jest@24"}, true))

	data, err := os.ReadFile(record)
	require.NoError(t, err)
	wantDir, err := filepath.EvalSymlinks(project)
	require.NoError(t, err)
	assert.Equal(t, wantDir+" add --save-dev jest@24\n", string(data))
}

func TestCommandInstallerFailure(t *testing.T) {
	bin, _ := fakeManager(t, "1")

	inst := NewCommandInstaller(config.PackageManagerNPM)
	inst.lookPath = func(string) (string, error) { return bin, nil }
	err := inst.Install(context.Background(), t.TempDir(), []string{"a"}, false)

	var instErr *InstallError
	require.True(t, errors.As(err, &instErr))
	assert.Equal(t, "npm ERR! nope", instErr.Output)
	assert.False(t, instErr.Dev)
}
