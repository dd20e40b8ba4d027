package generator

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/denormal/go-gitignore"

	"github.com/pdor-dev/pdor/internal/debug"
	"github.com/pdor-dev/pdor/internal/template/model"
)

// binarySniffLen is how much of a file is inspected for NUL bytes.
const binarySniffLen = 512

// treeFilter selects the files a whole-tree substitution visits.
type treeFilter struct {
	root   string
	ignore gitignore.GitIgnore
}

// newTreeFilter loads the root .gitignore of the tree, if any.
func newTreeFilter(root string) (*treeFilter, error) {
	f := &treeFilter{root: root}

	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, err
	}
	f.ignore = gitignore.New(bytes.NewReader(data), root, nil)
	return f, nil
}

// skip reports whether rel must not be visited.
func (f *treeFilter) skip(rel string, isDir bool) bool {
	slashed := filepath.ToSlash(rel)
	if slashed == model.GitDir || strings.HasPrefix(slashed, model.GitDir+"/") {
		return true
	}
	if !isDir && slashed == model.BoilerplateConfigFile {
		return true
	}
	if f.ignore != nil {
		if match := f.ignore.Relative(rel, isDir); match != nil && match.Ignore() {
			debug.Debug("[generator] Ignoring %s (matched %s)", rel, match)
			return true
		}
	}
	return false
}

// walk lists every regular file of the tree the filter accepts, relative to root.
func (f *treeFilter) walk() ([]string, error) {
	var files []string
	err := filepath.WalkDir(f.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == f.root {
			return nil
		}
		rel, err := filepath.Rel(f.root, path)
		if err != nil {
			return err
		}
		if f.skip(rel, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, rel)
		}
		return nil
	})
	return files, err
}

// expandFiles resolves a rule's file list against root. Entries may be
// globs; literal entries that do not exist are dropped with a warning.
func expandFiles(root string, patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(rel string) {
		if !seen[rel] {
			seen[rel] = true
			files = append(files, rel)
		}
	}

	for _, pattern := range patterns {
		native := filepath.FromSlash(pattern)
		if !hasMeta(native) {
			info, err := os.Stat(filepath.Join(root, native))
			if err != nil || !info.Mode().IsRegular() {
				debug.Warn("[generator] %s not found in boilerplate, skipping", pattern)
				continue
			}
			add(filepath.Clean(native))
			continue
		}

		matches, err := filepath.Glob(filepath.Join(root, native))
		if err != nil {
			return nil, newGeneratorError(GeneratorPathError, "invalid file pattern", pattern, err)
		}
		sort.Strings(matches)
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			rel, err := filepath.Rel(root, match)
			if err != nil {
				return nil, err
			}
			add(rel)
		}
	}
	return files, nil
}

func hasMeta(path string) bool {
	return strings.ContainsAny(path, `*?[`)
}

// isBinary reports whether data looks like a binary file.
func isBinary(data []byte) bool {
	if len(data) > binarySniffLen {
		data = data[:binarySniffLen]
	}
	return bytes.IndexByte(data, 0) >= 0
}
