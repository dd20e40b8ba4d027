package provider

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdor-dev/pdor/internal/config"
	"github.com/pdor-dev/pdor/internal/debug"
	"github.com/pdor-dev/pdor/internal/template/model"
	"github.com/pdor-dev/pdor/internal/template/preset"
)

const supportedHostName = model.SupportedHost

var (
	// scpLike matches "git@github.com:owner/repo.git".
	scpLike = regexp.MustCompile(`^[A-Za-z0-9._~-]+@([A-Za-z0-9.-]+):(.+)$`)

	extraSlashes = regexp.MustCompile(`([^:]/)/+`)
)

// Classify turns a raw boilerplate reference into a model.Reference. It does
// no I/O: unknown preset names and unsupported hosts fail here.
//
// Supported formats:
//   - a registry preset name (vanilla)
//   - an absolute path to a boilerplate directory or config file
//   - https://github.com/owner/repo[.git][#branch]
//   - http://github.com/owner/repo[.git][#branch]
//   - ssh://git@github.com/owner/repo[.git][#branch]
//   - git@github.com:owner/repo[.git][#branch]
func Classify(raw string, reg *preset.Registry, defaultBranch string) (model.Reference, error) {
	input := strings.TrimSpace(raw)
	if input == "" {
		return model.Reference{}, NewInvalidReferenceError(raw, "boilerplate reference cannot be empty", nil)
	}
	if defaultBranch == "" {
		defaultBranch = config.DefaultBranch
	}

	presetName := ""
	if reg != nil {
		if p, ok := reg.Lookup(input); ok {
			if !p.IsRemote() {
				debug.Debug("[provider] %s is a bundled preset", p.Name)
				return model.Reference{Raw: raw, Kind: model.KindPreset, Preset: p.Name}, nil
			}
			debug.Debug("[provider] preset %s resolves to %s", p.Name, p.URL)
			presetName = p.Name
			input = p.URL
		}
	}

	if protocol, ok := remoteProtocol(input); ok {
		ref, err := parseRemote(input, protocol, defaultBranch)
		if err != nil {
			return model.Reference{}, err
		}
		ref.Raw = raw
		ref.Preset = presetName
		return ref, nil
	}

	local := strings.TrimPrefix(input, "file://")
	if filepath.IsAbs(local) {
		return model.Reference{
			Raw:       raw,
			Kind:      model.KindLocalPath,
			LocalPath: filepath.Clean(local),
		}, nil
	}

	err := NewInvalidReferenceError(raw, "selected boilerplate is not valid", nil)
	if reg != nil {
		err.Suggestion = reg.Suggest(input)
		debug.Debug("[provider] %s is not a valid boilerplate, available: %s", input, strings.Join(reg.Names(), ", "))
	}
	return model.Reference{}, err
}

// remoteProtocol reports the protocol of a remote reference.
func remoteProtocol(input string) (string, bool) {
	lower := strings.ToLower(input)
	for _, scheme := range []string{"https", "http", "ssh"} {
		if strings.HasPrefix(lower, scheme+"://") {
			return scheme, true
		}
	}
	if strings.HasPrefix(lower, "git+ssh://") {
		return "ssh", true
	}
	if scpLike.MatchString(input) {
		return "ssh", true
	}
	return "", false
}

func parseRemote(input, protocol, defaultBranch string) (model.Reference, error) {
	location, branch, _ := strings.Cut(input, "#")

	var host, path string
	if m := scpLike.FindStringSubmatch(location); m != nil && !strings.Contains(location, "://") {
		host, path = m[1], m[2]
	} else {
		u, err := url.Parse(location)
		if err != nil {
			return model.Reference{}, NewInvalidReferenceError(input, "malformed repository URL", err)
		}
		host, path = u.Hostname(), u.Path
	}

	host = strings.ToLower(host)
	if host != supportedHostName {
		return model.Reference{}, NewUnsupportedHostError(input, host)
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	segments := strings.Split(path, "/")
	if len(segments) != 2 || segments[0] == "" || segments[1] == "" {
		return model.Reference{}, NewInvalidReferenceError(input,
			fmt.Sprintf("expected %s/<owner>/<repo>", supportedHostName), nil)
	}

	if branch == "" {
		branch = defaultBranch
	}
	if !config.ValidBranchName(branch) {
		return model.Reference{}, NewInvalidReferenceError(input, fmt.Sprintf("invalid branch %q", branch), nil)
	}

	return model.Reference{
		Kind:     model.KindRemote,
		Protocol: protocol,
		Host:     host,
		Path:     path,
		Branch:   branch,
		CloneURL: location,
	}, nil
}

// RawContentURL returns the raw-content URL of file in a remote reference.
func RawContentURL(base string, ref model.Reference, file string) string {
	if base == "" {
		base = config.DefaultRawBaseURL
	}
	return removeExtraSlashes(fmt.Sprintf("%s/%s/%s/%s/%s", base, ref.Owner(), ref.Repo(), ref.Branch, file))
}

// removeExtraSlashes collapses repeated slashes outside the scheme separator:
// "https://a//b///c" becomes "https://a/b/c".
func removeExtraSlashes(s string) string {
	return extraSlashes.ReplaceAllString(s, "$1")
}
