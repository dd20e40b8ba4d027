package preset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	reg := NewRegistry(t.TempDir())

	vanilla, ok := reg.Lookup("vanilla")
	require.True(t, ok)
	assert.False(t, vanilla.IsRemote())

	react, ok := reg.Lookup("react-component")
	require.True(t, ok)
	assert.True(t, react.IsRemote())
	assert.Equal(t, "https://github.com/docomodigital/pdor-react-component", react.URL)

	_, ok = reg.Lookup("angular")
	assert.False(t, ok)
}

func TestSuggest(t *testing.T) {
	reg := NewRegistry(t.TempDir())

	assert.Equal(t, "vanilla", reg.Suggest("vanila"))
	assert.Equal(t, "react-component", reg.Suggest("react"))
	assert.Equal(t, "", reg.Suggest("zzz"))
	assert.Equal(t, "", reg.Suggest(""))
}

func TestChoices(t *testing.T) {
	reg := NewRegistry(t.TempDir())
	choices := reg.Choices()

	require.Len(t, choices, 3)
	assert.Equal(t, Choice{Value: "vanilla", Label: "Vanilla js"}, choices[0])
	assert.Equal(t, CustomChoice, choices[2].Value)
}

func TestDirExtractsBundledPreset(t *testing.T) {
	base := t.TempDir()
	reg := NewRegistry(base)

	dir, err := reg.Dir("vanilla")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "vanilla"), dir)

	for _, f := range []string{"pdor.config.json", "src/index.js", ".gitignore"} {
		assert.FileExists(t, filepath.Join(dir, f))
	}
	assert.FileExists(t, filepath.Join(base, "vanilla.sha256"))
}

func TestDirReusesAndRepairsExtraction(t *testing.T) {
	base := t.TempDir()
	reg := NewRegistry(base)

	dir, err := reg.Dir("vanilla")
	require.NoError(t, err)

	marker := filepath.Join(dir, "marker")
	require.NoError(t, os.WriteFile(marker, []byte("x"), 0644))

	_, err = reg.Dir("vanilla")
	require.NoError(t, err)
	assert.FileExists(t, marker, "up-to-date extraction is reused")

	require.NoError(t, os.WriteFile(filepath.Join(base, "vanilla.sha256"), []byte("stale"), 0644))
	_, err = reg.Dir("vanilla")
	require.NoError(t, err)
	assert.NoFileExists(t, marker, "stale extraction is replaced")
}

func TestDirRejectsRemotePreset(t *testing.T) {
	reg := NewRegistry(t.TempDir())

	_, err := reg.Dir("react-component")
	assert.Error(t, err)
	_, err = reg.Dir("missing")
	assert.Error(t, err)
}
