package naming

import (
	"fmt"
	"path/filepath"

	"github.com/pdor-dev/pdor/internal/debug"
	"github.com/pdor-dev/pdor/internal/template/model"
)

// Apply validates name for project and returns a copy of project named
// name, located under baseDir, with its descriptor renamed and the
// :libName script placeholder resolved.
func Apply(project model.Project, name, baseDir string) (model.Project, error) {
	if err := Validate(name); err != nil {
		return project, err
	}
	if err := CheckConflicts(name, project.Dependencies, project.DevDependencies); err != nil {
		return project, err
	}

	out := project.Clone()
	out.Name = name
	out.Path = filepath.Join(baseDir, filepath.FromSlash(name))

	if !out.WritesPackageJSON() {
		return out, nil
	}

	debug.Debug("[naming] setting package name to %s", name)
	if err := out.PackageJSON.SetString("name", name); err != nil {
		return project, fmt.Errorf("cannot name the package descriptor: %w", err)
	}

	libName := UpperCamel(name)
	changed, err := out.PackageJSON.ReplaceInScripts(model.LibNamePlaceholder, libName)
	if err != nil {
		return project, fmt.Errorf("cannot name the package descriptor: %w", err)
	}
	for _, script := range changed {
		debug.Debug("[naming] replaced %s in script %s with %s", model.LibNamePlaceholder, script, libName)
	}

	return out, nil
}
