package config

import (
	"regexp"
	"strings"
)

var branchPattern = regexp.MustCompile(`^[a-zA-Z0-9_\-/\.]+$`)

// ValidBranchName reports whether name is usable as a git branch in a raw
// content URL and on a clone command line.
func ValidBranchName(name string) bool {
	if !branchPattern.MatchString(name) {
		return false
	}
	if strings.HasPrefix(name, "-") || strings.Contains(name, "..") {
		return false
	}
	return true
}
