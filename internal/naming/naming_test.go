package naming

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdor-dev/pdor/internal/template/model"
)

func TestUpperCamel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"cool-widget", "CoolWidget"},
		{"my-lib", "MyLib"},
		{"my_lib name", "MyLibName"},
		{"myXMLParser", "MyXmlParser"},
		{"lib2go", "Lib2Go"},
		{"@scope/pkg", "ScopePkg"},
		{"ALREADY", "Already"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, UpperCamel(tt.in))
		})
	}
}

func TestPackageName(t *testing.T) {
	assert.Equal(t, "jest", PackageName("jest@^24.0.0"))
	assert.Equal(t, "@babel/core", PackageName("@babel/core@7.0.0"))
	assert.Equal(t, "@babel/core", PackageName("@babel/core"))
	assert.Equal(t, "react", PackageName("react"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"my-lib", true},
		{"cool.widget_2", true},
		{"@scope/pkg", true},
		{"", false},
		{".hidden", false},
		{"_private", false},
		{" spaced", false},
		{"node_modules", false},
		{"fs", false},
		{"MyLib", false},
		{"wow!", false},
		{"a/b", false},
		{"with space", false},
		{strings.Repeat("a", 215), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.name)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var invalid *InvalidNameError
			require.True(t, errors.As(err, &invalid))
			assert.NotEmpty(t, invalid.Problems)
		})
	}
}

func TestCheckConflicts(t *testing.T) {
	err := CheckConflicts("jest", []string{"react@16.0.0"}, []string{"jest@24.0.0"})

	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "jest@24.0.0", conflict.Dependency)

	assert.NoError(t, CheckConflicts("my-lib", []string{"react@16.0.0"}, nil))
}

func TestApply(t *testing.T) {
	project := model.NewProject()
	project.Dependencies = []string{"lodash@4.0.0"}
	base := t.TempDir()

	named, err := Apply(project, "cool-widget", base)
	require.NoError(t, err)

	assert.Equal(t, "cool-widget", named.Name)
	assert.Equal(t, filepath.Join(base, "cool-widget"), named.Path)
	assert.Equal(t, "cool-widget", named.PackageJSON.Get("name").String())
	scripts := named.PackageJSON.Get("scripts").Raw
	assert.Contains(t, scripts, "--global CoolWidget")
	assert.NotContains(t, scripts, ":libName")

	// input untouched
	assert.Empty(t, project.Name)
	assert.Contains(t, project.PackageJSON.Get("scripts").Raw, ":libName")
}

func TestApplyWithoutDescriptor(t *testing.T) {
	project := model.NewProject()
	project.PackageJSON = nil

	named, err := Apply(project, "my-lib", "/tmp")
	require.NoError(t, err)
	assert.Nil(t, named.PackageJSON)
	assert.Equal(t, "my-lib", named.Name)
}

func TestApplyRejects(t *testing.T) {
	project := model.NewProject()
	project.DevDependencies = []string{"jest@24.0.0"}

	_, err := Apply(project, "Bad Name", "/tmp")
	var invalid *InvalidNameError
	assert.True(t, errors.As(err, &invalid))

	_, err = Apply(project, "jest", "/tmp")
	var conflict *ConflictError
	assert.True(t, errors.As(err, &conflict))
}
