package model

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// RenameOptions holds the rename rules of a boilerplate.
type RenameOptions struct {
	ReplaceInFiles   []ContentRule `json:"replaceInFiles,omitempty"`
	FilesToBeRenamed PathRules     `json:"filesToBeRenamed,omitempty"`
}

// ContentRule replaces every match of StubName in Files.
type ContentRule struct {
	// StubName is a regular expression, matched in multiline mode.
	StubName string `json:"stubName"`
	// Files lists paths or globs relative to the project root. Empty means
	// the whole tree.
	Files []string `json:"files,omitempty"`
	// To is the replacement template. Empty means the target name itself.
	To string `json:"to,omitempty"`
}

// PathRule moves Source to Destination, both relative to the project root.
type PathRule struct {
	Source      string
	Destination string
}

// PathRules is decoded from a JSON object and keeps declaration order.
type PathRules []PathRule

// UnmarshalJSON implements json.Unmarshaler.
func (p *PathRules) UnmarshalJSON(data []byte) error {
	value := gjson.ParseBytes(data)
	if value.Type == gjson.Null {
		*p = nil
		return nil
	}
	if !value.IsObject() {
		return fmt.Errorf("filesToBeRenamed must be an object")
	}

	var rules PathRules
	var err error
	value.ForEach(func(key, dest gjson.Result) bool {
		if dest.Type != gjson.String {
			err = fmt.Errorf("filesToBeRenamed[%q] must be a string", key.String())
			return false
		}
		rules = append(rules, PathRule{Source: key.String(), Destination: dest.Str})
		return true
	})
	if err != nil {
		return err
	}
	*p = rules
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p PathRules) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, rule := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:%q", rule.Source, rule.Destination)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Clone returns a deep copy.
func (r RenameOptions) Clone() RenameOptions {
	out := RenameOptions{FilesToBeRenamed: append(PathRules(nil), r.FilesToBeRenamed...)}
	for _, rule := range r.ReplaceInFiles {
		rule.Files = append([]string(nil), rule.Files...)
		out.ReplaceInFiles = append(out.ReplaceInFiles, rule)
	}
	return out
}

// IsEmpty reports whether there is nothing to do.
func (r *RenameOptions) IsEmpty() bool {
	return r == nil || (len(r.ReplaceInFiles) == 0 && len(r.FilesToBeRenamed) == 0)
}

// Validate checks every rule. Patterns must compile and every path must be
// relative and stay inside the project root once placeholders are resolved.
func (r *RenameOptions) Validate() error {
	if r == nil {
		return nil
	}
	for i, rule := range r.ReplaceInFiles {
		if rule.StubName == "" {
			return fmt.Errorf("replaceInFiles[%d]: stubName is required", i)
		}
		if _, err := rule.Pattern(); err != nil {
			return fmt.Errorf("replaceInFiles[%d]: invalid stubName: %w", i, err)
		}
		for _, file := range rule.Files {
			if !isLocalPath(file) {
				return fmt.Errorf("replaceInFiles[%d]: file %q escapes the project root", i, file)
			}
		}
	}
	for _, rule := range r.FilesToBeRenamed {
		if !isLocalPath(rule.Source) {
			return fmt.Errorf("filesToBeRenamed: source %q escapes the project root", rule.Source)
		}
		if !isLocalPath(rule.Destination) {
			return fmt.Errorf("filesToBeRenamed: destination %q escapes the project root", rule.Destination)
		}
	}
	return nil
}

// Pattern compiles StubName in multiline mode.
func (c ContentRule) Pattern() (*regexp.Regexp, error) {
	return regexp.Compile("(?m)" + c.StubName)
}

// Replacement returns the string matches are replaced with.
func (c ContentRule) Replacement(targetName string) string {
	if c.To == "" {
		return targetName
	}
	return ResolvePlaceholder(c.To, targetName)
}

// Resolve returns the rule with placeholders replaced in both paths.
func (p PathRule) Resolve(targetName string) PathRule {
	return PathRule{
		Source:      ResolvePlaceholder(p.Source, targetName),
		Destination: ResolvePlaceholder(p.Destination, targetName),
	}
}

// ResolvePlaceholder replaces every :targetName in s.
func ResolvePlaceholder(s, targetName string) string {
	return strings.ReplaceAll(s, TargetNamePlaceholder, targetName)
}

func isLocalPath(p string) bool {
	p = ResolvePlaceholder(p, "Target")
	return p != "" && filepath.IsLocal(filepath.FromSlash(p))
}
