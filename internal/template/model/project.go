package model

import "github.com/pdor-dev/pdor/internal/pkgjson"

// Project describes the project being generated. Stages take a Project by
// value and return an updated copy.
type Project struct {
	Type                      string            `json:"type"`
	BoilerplatePath           string            `json:"boilerplatePath,omitempty"`
	IsRemote                  bool              `json:"isRemote"`
	RepoURL                   string            `json:"repoUrl,omitempty"`
	Branch                    string            `json:"branch,omitempty"`
	IsPackageDescriptorSource bool              `json:"isPackageDescriptorSource"`
	PackageJSON               *pkgjson.Document `json:"packageJson"`
	Dependencies              []string          `json:"dependencies"`
	DevDependencies           []string          `json:"devDependencies"`
	RenameOptions             *RenameOptions    `json:"renameOptions,omitempty"`
	Name                      string            `json:"name,omitempty"`
	Path                      string            `json:"path,omitempty"`
}

// NewProject returns a project with the default package descriptor.
func NewProject() Project {
	return Project{
		PackageJSON:     pkgjson.Default(),
		Dependencies:    []string{},
		DevDependencies: []string{},
	}
}

// Clone returns a deep copy so stages never share mutable state.
func (p Project) Clone() Project {
	out := p
	if p.PackageJSON != nil {
		out.PackageJSON = p.PackageJSON.Clone()
	}
	out.Dependencies = append([]string{}, p.Dependencies...)
	out.DevDependencies = append([]string{}, p.DevDependencies...)
	if p.RenameOptions != nil {
		opts := p.RenameOptions.Clone()
		out.RenameOptions = &opts
	}
	return out
}

// WritesPackageJSON reports whether a package descriptor will be written.
func (p Project) WritesPackageJSON() bool {
	return p.PackageJSON != nil
}

// Metadata is the boilerplate metadata block.
type Metadata struct {
	Type                string         `json:"type,omitempty"`
	RenameOptions       *RenameOptions `json:"renameOptions,omitempty"`
	GeneratePackageJSON *bool          `json:"generatePackageJson,omitempty"`
}
