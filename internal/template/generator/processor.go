package generator

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pdor-dev/pdor/internal/debug"
	"github.com/pdor-dev/pdor/internal/template/model"
)

// Processor applies content substitution rules to a materialized tree.
type Processor interface {
	// Process applies every rule under root and returns the number of
	// matches replaced per file, keyed by slash-separated relative path.
	Process(ctx context.Context, root string, rules []model.ContentRule, targetName string) (map[string]int, error)
}

// FileProcessor implements Processor on the local filesystem.
type FileProcessor struct {
	writer Writer
}

// NewFileProcessor creates a new FileProcessor writing through w.
func NewFileProcessor(w Writer) Processor {
	return &FileProcessor{writer: w}
}

// Process applies the rules in declaration order.
func (p *FileProcessor) Process(ctx context.Context, root string, rules []model.ContentRule, targetName string) (map[string]int, error) {
	counts := make(map[string]int)
	if len(rules) == 0 {
		return counts, nil
	}

	var tree []string
	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return counts, err
		}

		pattern, err := rule.Pattern()
		if err != nil {
			return counts, newGeneratorError(GeneratorProcessFailed, "invalid stubName", rule.StubName, err)
		}
		replacement := []byte(rule.Replacement(targetName))

		var files []string
		wholeTree := len(rule.Files) == 0
		if wholeTree {
			if tree == nil {
				filter, err := newTreeFilter(root)
				if err != nil {
					return counts, newGeneratorError(GeneratorProcessFailed, "failed to read .gitignore", root, err)
				}
				if tree, err = filter.walk(); err != nil {
					return counts, newGeneratorError(GeneratorProcessFailed, "failed to list boilerplate files", root, err)
				}
			}
			files = tree
		} else {
			if files, err = expandFiles(root, rule.Files); err != nil {
				return counts, err
			}
		}

		debug.Debug("[generator] Replacing /%s/ with %q in %d files", rule.StubName, replacement, len(files))
		for _, rel := range files {
			path := filepath.Join(root, rel)
			info, err := os.Stat(path)
			if err != nil {
				return counts, newGeneratorError(GeneratorProcessFailed, "failed to stat file", path, err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return counts, newGeneratorError(GeneratorProcessFailed, "failed to read file", path, err)
			}
			if wholeTree && isBinary(data) {
				continue
			}

			n := len(pattern.FindAllIndex(data, -1))
			if n == 0 {
				continue
			}
			if err := p.writer.WriteFile(path, pattern.ReplaceAllLiteral(data, replacement), info.Mode()); err != nil {
				return counts, err
			}
			counts[filepath.ToSlash(rel)] += n
			debug.Debug("[generator] %s: %d replacements", filepath.ToSlash(rel), n)
		}
	}
	return counts, nil
}
