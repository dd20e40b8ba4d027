// Package resolver merges a fetched boilerplate config into a project
// descriptor.
package resolver

import (
	"encoding/json"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/pdor-dev/pdor/internal/debug"
	"github.com/pdor-dev/pdor/internal/pkgjson"
	"github.com/pdor-dev/pdor/internal/template/model"
)

// Base returns the descriptor of ref before its config is merged: default
// package descriptor, location and default type.
func Base(ref model.Reference, payload *model.Payload) model.Project {
	project := model.NewProject()

	switch ref.Kind {
	case model.KindPreset:
		project.Type = ref.Preset
		project.BoilerplatePath = payload.Root
	case model.KindLocalPath:
		project.Type = filepath.Base(payload.Root)
		project.BoilerplatePath = payload.Root
	case model.KindRemote:
		project.Type = model.RemoteType
		project.IsRemote = true
		project.RepoURL = ref.CloneURL
		project.Branch = ref.Branch
	}

	return project
}

// Resolve merges payload into base and returns the resulting descriptor.
// base is not modified.
func Resolve(ref model.Reference, payload *model.Payload, base model.Project) (model.Project, error) {
	debug.DebugSection("Resolve boilerplate config")
	debug.DebugValue("reference", ref.Raw)
	debug.DebugValue("source", payload.Source)

	data := gjson.ParseBytes(payload.Data)
	if !data.IsObject() {
		return base, newResolveError(ResolveInvalidPayload, payload.Source, "", "boilerplate config must be a JSON object", nil)
	}

	project := base.Clone()
	project.IsPackageDescriptorSource = payload.IsPackageDescriptor

	if project.IsPackageDescriptorSource {
		if project.PackageJSON == nil {
			project.PackageJSON = pkgjson.Default()
		}
		if err := project.PackageJSON.Merge(payload.Data); err != nil {
			return base, newResolveError(ResolveInvalidPayload, payload.Source, "", "cannot merge package descriptor", err)
		}
		if err := project.PackageJSON.Delete(model.MetadataKey); err != nil {
			return base, newResolveError(ResolveInvalidPayload, payload.Source, model.MetadataKey, "cannot strip metadata", err)
		}
	}

	deps, err := NormalizeDependencies(data.Get("dependencies"))
	if err != nil {
		return base, newResolveError(ResolveInvalidDependencies, payload.Source, "dependencies", "invalid dependencies", err)
	}
	devDeps, err := NormalizeDependencies(data.Get("devDependencies"))
	if err != nil {
		return base, newResolveError(ResolveInvalidDependencies, payload.Source, "devDependencies", "invalid devDependencies", err)
	}
	project.Dependencies = deps
	project.DevDependencies = devDeps

	meta, err := metadata(data, payload)
	if err != nil {
		return base, err
	}
	if meta == nil {
		debug.Debug("[resolver] no metadata block, keeping defaults")
		return project, nil
	}

	if meta.Type != "" {
		project.Type = meta.Type
	}
	if meta.RenameOptions != nil {
		if err := meta.RenameOptions.Validate(); err != nil {
			return base, newResolveError(ResolveInvalidRenameOptions, payload.Source, "renameOptions", "invalid rename rules", err)
		}
		project.RenameOptions = meta.RenameOptions
	}
	if meta.GeneratePackageJSON != nil && !*meta.GeneratePackageJSON && !project.IsPackageDescriptorSource {
		debug.Debug("[resolver] package descriptor generation disabled")
		project.PackageJSON = nil
	}

	debug.DebugValue("type", project.Type)
	debug.DebugValue("dependencies", len(project.Dependencies))
	debug.DebugValue("devDependencies", len(project.DevDependencies))
	return project, nil
}

// metadata locates and decodes the metadata block: the payload itself for
// a standalone config, the reserved key of a package descriptor. A nil
// result means there is none.
func metadata(data gjson.Result, payload *model.Payload) (*model.Metadata, error) {
	block := data
	field := ""
	if payload.IsPackageDescriptor {
		field = model.MetadataKey
		block = data.Get(model.MetadataKey)
		if !block.Exists() || block.Type == gjson.Null {
			return nil, nil
		}
		if !block.IsObject() {
			return nil, newResolveError(ResolveInvalidMetadata, payload.Source, field, "metadata must be an object", nil)
		}
	}

	var meta model.Metadata
	if err := json.Unmarshal([]byte(block.Raw), &meta); err != nil {
		return nil, newResolveError(ResolveInvalidMetadata, payload.Source, field, "cannot decode metadata", err)
	}
	return &meta, nil
}
