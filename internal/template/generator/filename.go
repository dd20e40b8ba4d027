package generator

import (
	"context"
	"path/filepath"

	"github.com/pdor-dev/pdor/internal/debug"
	"github.com/pdor-dev/pdor/internal/template/model"
)

// renamePaths applies the path rules one after another, in declaration
// order, so a rule may move a path produced by an earlier one.
func renamePaths(ctx context.Context, w Writer, root string, rules model.PathRules, targetName string) ([]model.PathRule, error) {
	applied := make([]model.PathRule, 0, len(rules))
	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return applied, err
		}

		resolved := rule.Resolve(targetName)
		src, err := projectPath(root, resolved.Source)
		if err != nil {
			return applied, err
		}
		dst, err := projectPath(root, resolved.Destination)
		if err != nil {
			return applied, err
		}

		debug.Debug("[generator] Renaming %s -> %s", resolved.Source, resolved.Destination)
		if err := w.Move(src, dst); err != nil {
			return applied, newGeneratorError(GeneratorRenameFailed,
				"failed to rename "+resolved.Source+" to "+resolved.Destination, src, err)
		}
		applied = append(applied, resolved)
	}
	return applied, nil
}

// projectPath joins a slash-separated relative path onto root, rejecting
// paths that leave it.
func projectPath(root, rel string) (string, error) {
	native := filepath.FromSlash(rel)
	if !filepath.IsLocal(native) {
		return "", newGeneratorError(GeneratorPathError, "path escapes the project root", rel, nil)
	}
	return filepath.Join(root, native), nil
}
