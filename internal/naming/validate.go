package naming

import (
	"fmt"
	"regexp"
	"strings"
)

const maxNameLength = 214

var (
	blacklist = map[string]bool{
		"node_modules": true,
		"favicon.ico":  true,
	}

	// builtins are the Node.js core modules a package may not shadow.
	builtins = map[string]bool{
		"assert": true, "async_hooks": true, "buffer": true, "child_process": true,
		"cluster": true, "console": true, "constants": true, "crypto": true,
		"dgram": true, "diagnostics_channel": true, "dns": true, "domain": true,
		"events": true, "fs": true, "http": true, "http2": true, "https": true,
		"inspector": true, "module": true, "net": true, "os": true, "path": true,
		"perf_hooks": true, "process": true, "punycode": true, "querystring": true,
		"readline": true, "repl": true, "stream": true, "string_decoder": true,
		"sys": true, "timers": true, "tls": true, "trace_events": true, "tty": true,
		"url": true, "util": true, "v8": true, "vm": true, "wasi": true,
		"worker_threads": true, "zlib": true,
	}

	specialChars = regexp.MustCompile(`[~'!()*]`)
	urlSafe      = regexp.MustCompile(`^[A-Za-z0-9\-_.!~*'()]+$`)
	scoped       = regexp.MustCompile(`^@([^/]+)/([^/]+)$`)
)

// InvalidNameError lists every rule a name breaks.
type InvalidNameError struct {
	Name     string
	Problems []string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid package name %q: %s", e.Name, strings.Join(e.Problems, "; "))
}

// Validate checks name against the rules for new npm packages.
func Validate(name string) error {
	var problems []string

	switch {
	case name == "":
		problems = append(problems, "name length must be greater than zero")
	case len(name) > maxNameLength:
		problems = append(problems, fmt.Sprintf("name can no longer contain more than %d characters", maxNameLength))
	}
	if strings.HasPrefix(name, ".") {
		problems = append(problems, "name cannot start with a period")
	}
	if strings.HasPrefix(name, "_") {
		problems = append(problems, "name cannot start with an underscore")
	}
	if strings.TrimSpace(name) != name {
		problems = append(problems, "name cannot contain leading or trailing spaces")
	}
	if blacklist[strings.ToLower(name)] {
		problems = append(problems, fmt.Sprintf("%s is a blacklisted name", name))
	}
	if builtins[strings.ToLower(name)] {
		problems = append(problems, fmt.Sprintf("%s is a core module name", name))
	}
	if strings.ToLower(name) != name {
		problems = append(problems, "name can no longer contain capital letters")
	}
	parts := strings.Split(name, "/")
	if specialChars.MatchString(parts[len(parts)-1]) {
		problems = append(problems, `name can no longer contain special characters ("~'!()*")`)
	}
	if name != "" && !urlSafe.MatchString(name) {
		m := scoped.FindStringSubmatch(name)
		if m == nil || !urlSafe.MatchString(m[1]) || !urlSafe.MatchString(m[2]) {
			problems = append(problems, "name can only contain URL-friendly characters")
		}
	}

	if len(problems) > 0 {
		return &InvalidNameError{Name: name, Problems: problems}
	}
	return nil
}

// ConflictError reports a project name equal to one of its dependencies.
type ConflictError struct {
	Name       string
	Dependency string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("project name %q conflicts with dependency %q", e.Name, e.Dependency)
}

// CheckConflicts fails when name matches the package of any dependency.
func CheckConflicts(name string, dependencyLists ...[]string) error {
	for _, deps := range dependencyLists {
		for _, dep := range deps {
			if PackageName(dep) == name {
				return &ConflictError{Name: name, Dependency: dep}
			}
		}
	}
	return nil
}
