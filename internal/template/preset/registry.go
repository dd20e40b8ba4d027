// Package preset holds the registry of named boilerplates: presets bundled
// into the binary and curated remote repositories.
package preset

import "github.com/sahilm/fuzzy"

// CustomChoice is the choice value asking the user for a repository URL.
const CustomChoice = "custom"

// Preset is a named boilerplate.
type Preset struct {
	// Name is the identifier accepted by --type.
	Name string
	// Title is shown when prompting.
	Title string
	// URL is set for curated remote presets.
	URL string
}

// IsRemote reports whether the preset resolves to a repository URL.
func (p Preset) IsRemote() bool {
	return p.URL != ""
}

// Choice is one entry of the boilerplate selection prompt.
type Choice struct {
	Value string
	Label string
}

// Registry maps preset names to bundled or remote boilerplates.
type Registry struct {
	dir     string
	presets []Preset
}

// DefaultPresets is the built-in preset list.
func DefaultPresets() []Preset {
	return []Preset{
		{Name: "vanilla", Title: "Vanilla js"},
		{Name: "react-component", Title: "React component", URL: "https://github.com/docomodigital/pdor-react-component"},
	}
}

// NewRegistry creates a registry extracting bundled presets under dir.
func NewRegistry(dir string, presets ...Preset) *Registry {
	if len(presets) == 0 {
		presets = DefaultPresets()
	}
	return &Registry{dir: dir, presets: presets}
}

// Lookup returns the preset called name.
func (r *Registry) Lookup(name string) (Preset, bool) {
	for _, p := range r.presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// Names returns the preset names in registry order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.presets))
	for _, p := range r.presets {
		names = append(names, p.Name)
	}
	return names
}

// Presets returns a copy of the registered presets.
func (r *Registry) Presets() []Preset {
	return append([]Preset(nil), r.presets...)
}

// Suggest returns the closest preset name to name, or "" when nothing is
// close enough.
func (r *Registry) Suggest(name string) string {
	if name == "" {
		return ""
	}
	matches := fuzzy.Find(name, r.Names())
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}

// Choices returns the prompt entries: every preset, then the custom URL
// entry.
func (r *Registry) Choices() []Choice {
	choices := make([]Choice, 0, len(r.presets)+1)
	for _, p := range r.presets {
		choices = append(choices, Choice{Value: p.Name, Label: p.Title})
	}
	return append(choices, Choice{Value: CustomChoice, Label: "Custom (a github repo)"})
}
