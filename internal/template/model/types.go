package model

import "strings"

// Special file and directory names used by pdor.
const (
	// PackageDescriptorFile is the package descriptor file name.
	PackageDescriptorFile = "package.json"
	// BoilerplateConfigFile is the standalone boilerplate config file name.
	BoilerplateConfigFile = "pdor.config.json"
	// MetadataKey is the reserved namespace for boilerplate metadata inside a
	// package descriptor.
	MetadataKey = "pdor"
	// ReadmeFile is the generated readme file name.
	ReadmeFile = "README.md"
	// GitDir is the version-control metadata directory.
	GitDir = ".git"
	// SupportedHost is the only remote git host.
	SupportedHost = "github.com"
	// RemoteType is the boilerplate type of remote references without metadata.
	RemoteType = "remote"
)

// Placeholders substituted with the upper camel case project name.
const (
	TargetNamePlaceholder = ":targetName"
	LibNamePlaceholder    = ":libName"
)

// ConfigCandidates lists the config file names probed in order.
var ConfigCandidates = []string{PackageDescriptorFile, BoilerplateConfigFile}

// ReferenceKind classifies a boilerplate reference.
type ReferenceKind int

const (
	// KindPreset is a named preset from the registry.
	KindPreset ReferenceKind = iota
	// KindLocalPath is an absolute filesystem path.
	KindLocalPath
	// KindRemote is a remote git repository.
	KindRemote
)

func (k ReferenceKind) String() string {
	switch k {
	case KindPreset:
		return "preset"
	case KindLocalPath:
		return "local-path"
	case KindRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Reference is a classified boilerplate reference.
type Reference struct {
	// Raw is the reference as given by the user.
	Raw string `json:"raw"`
	// Kind is the classification.
	Kind ReferenceKind `json:"kind"`
	// Protocol is "https", "http" or "ssh" for remote references.
	Protocol string `json:"protocol,omitempty"`
	// Host is the git host of a remote reference.
	Host string `json:"host,omitempty"`
	// Path is owner/repo of a remote reference, without ".git".
	Path string `json:"path,omitempty"`
	// Branch is the branch to fetch and check out.
	Branch string `json:"branch,omitempty"`
	// Preset is the registry name when the reference named a preset.
	Preset string `json:"preset,omitempty"`
	// LocalPath is the preset directory or the absolute path given.
	LocalPath string `json:"localPath,omitempty"`
	// CloneURL is the remote URL without the branch fragment.
	CloneURL string `json:"cloneUrl,omitempty"`
}

// IsRemote reports whether the reference points at a git repository.
func (r Reference) IsRemote() bool {
	return r.Kind == KindRemote
}

// Owner returns the repository owner of a remote reference.
func (r Reference) Owner() string {
	owner, _, _ := strings.Cut(r.Path, "/")
	return owner
}

// Repo returns the repository name of a remote reference.
func (r Reference) Repo() string {
	_, repo, _ := strings.Cut(r.Path, "/")
	return repo
}

// Payload is a raw fetched configuration.
type Payload struct {
	// Data is the JSON object as fetched.
	Data []byte
	// IsPackageDescriptor is true when Data is a package.json.
	IsPackageDescriptor bool
	// Source is the file path or URL Data was read from.
	Source string
	// Root is the boilerplate directory of a local payload.
	Root string
}
