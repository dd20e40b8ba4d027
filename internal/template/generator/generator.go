package generator

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pdor-dev/pdor/internal/debug"
	"github.com/pdor-dev/pdor/internal/git"
	"github.com/pdor-dev/pdor/internal/naming"
	"github.com/pdor-dev/pdor/internal/template/model"
)

// Generator materializes projects from boilerplates.
type Generator interface {
	// Generate creates the project tree at opts.Project.Path. On failure
	// nothing created by the call is left behind.
	Generate(ctx context.Context, opts GenerateOptions) (*GenerateResult, error)
}

// GenerateOptions configures project generation.
type GenerateOptions struct {
	// Project is the resolved project, with Name and Path set.
	Project model.Project

	// Cloner acquires remote boilerplates. Nil uses the git CLI.
	Cloner git.Cloner

	// Verbose streams clone output to Stdout/Stderr.
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// GenerateResult contains generation statistics.
type GenerateResult struct {
	// Path is the project directory.
	Path string

	// Replacements counts content matches replaced per file.
	Replacements map[string]int

	// Renamed lists the applied path renames with placeholders resolved.
	Renamed []model.PathRule

	// Files lists the artifacts written by the generator itself.
	Files []string

	// Created is true when the project directory did not exist beforehand.
	Created bool
}

// DefaultGenerator implements Generator.
type DefaultGenerator struct {
	writer    Writer
	processor Processor
	eol       string
}

// NewGenerator creates a new DefaultGenerator writing platform line endings.
func NewGenerator() Generator {
	w := NewFileWriter()
	return &DefaultGenerator{
		writer:    w,
		processor: NewFileProcessor(w),
		eol:       platformEOL(),
	}
}

func platformEOL() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

// Generate runs the materialization steps in order: acquire the tree,
// substitute content, rename paths, write artifacts and clean up.
func (g *DefaultGenerator) Generate(ctx context.Context, opts GenerateOptions) (*GenerateResult, error) {
	project := opts.Project
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	debug.DebugSection("Generate " + project.Name)
	debug.Debug("[generator] Starting generation: type=%s, remote=%v, path=%s", project.Type, project.IsRemote, project.Path)

	empty, err := isEmptyDir(project.Path)
	if err != nil {
		return nil, newGeneratorError(GeneratorPathError, "failed to inspect destination", project.Path, err)
	}
	if !empty {
		return nil, newGeneratorError(GeneratorDestinationNotEmpty, "destination already exists and is not empty", project.Path, nil)
	}
	created := !g.writer.Exists(project.Path)

	result, err := g.generate(ctx, opts)
	if err != nil {
		debug.Debug("[generator] Generation failed, rolling back %s: %v", project.Path, err)
		if rbErr := g.rollback(project.Path, created); rbErr != nil {
			debug.Warn("[generator] Rollback of %s incomplete: %v", project.Path, rbErr)
		}
		return nil, err
	}
	result.Created = created
	return result, nil
}

func (g *DefaultGenerator) generate(ctx context.Context, opts GenerateOptions) (*GenerateResult, error) {
	project := opts.Project
	targetName := naming.UpperCamel(project.Name)
	result := &GenerateResult{
		Path:         project.Path,
		Replacements: map[string]int{},
		Renamed:      []model.PathRule{},
		Files:        []string{},
	}

	if err := g.acquire(ctx, opts); err != nil {
		return nil, err
	}
	if err := interrupted(ctx); err != nil {
		return nil, err
	}

	if !project.RenameOptions.IsEmpty() {
		counts, err := g.processor.Process(ctx, project.Path, project.RenameOptions.ReplaceInFiles, targetName)
		if err != nil {
			return nil, wrapInterrupt(err)
		}
		result.Replacements = counts

		renamed, err := renamePaths(ctx, g.writer, project.Path, project.RenameOptions.FilesToBeRenamed, targetName)
		if err != nil {
			return nil, wrapInterrupt(err)
		}
		result.Renamed = renamed
	}
	if err := interrupted(ctx); err != nil {
		return nil, err
	}

	files, err := g.writeArtifacts(project)
	if err != nil {
		return nil, err
	}
	result.Files = files

	for _, name := range []string{model.BoilerplateConfigFile, model.GitDir} {
		if err := g.writer.Remove(filepath.Join(project.Path, name)); err != nil {
			return nil, newGeneratorError(GeneratorWriteFailed, "failed to remove boilerplate artifact", name, err)
		}
	}
	if err := interrupted(ctx); err != nil {
		return nil, err
	}

	debug.Debug("[generator] Generation complete: %d files with replacements, %d renames", len(result.Replacements), len(result.Renamed))
	return result, nil
}

func (g *DefaultGenerator) acquire(ctx context.Context, opts GenerateOptions) error {
	project := opts.Project
	if project.IsRemote {
		cloner := opts.Cloner
		if cloner == nil {
			cloner = git.NewExecCloner()
		}
		err := cloner.Clone(ctx, git.CloneOptions{
			URL:     project.RepoURL,
			Dir:     project.Path,
			Branch:  project.Branch,
			Verbose: opts.Verbose,
			Stdout:  opts.Stdout,
			Stderr:  opts.Stderr,
		})
		switch {
		case err == nil:
			return nil
		case errors.Is(err, git.ErrGitNotFound):
			return newGeneratorError(GeneratorMissingGit, "git is required to use remote boilerplates", "", err)
		default:
			return wrapInterrupt(newGeneratorError(GeneratorAcquireFailed, "failed to clone "+project.RepoURL, "", err))
		}
	}

	if project.BoilerplatePath == "" {
		return newGeneratorError(GeneratorAcquireFailed, "boilerplate path is not set", "", nil)
	}
	if err := g.writer.CopyTree(project.BoilerplatePath, project.Path); err != nil {
		return newGeneratorError(GeneratorAcquireFailed, "failed to copy boilerplate", project.BoilerplatePath, err)
	}
	return nil
}

func (g *DefaultGenerator) writeArtifacts(project model.Project) ([]string, error) {
	var files []string

	if project.WritesPackageJSON() {
		data, err := project.PackageJSON.Marshal(g.eol)
		if err != nil {
			return nil, newGeneratorError(GeneratorWriteFailed, "failed to format package descriptor", model.PackageDescriptorFile, err)
		}
		path := filepath.Join(project.Path, model.PackageDescriptorFile)
		if err := g.writer.WriteFile(path, data, 0644); err != nil {
			return nil, err
		}
		files = append(files, model.PackageDescriptorFile)
	}

	readme := filepath.Join(project.Path, model.ReadmeFile)
	if err := g.writer.WriteFile(readme, []byte("## "+project.Name), 0644); err != nil {
		return nil, err
	}
	return append(files, model.ReadmeFile), nil
}

// rollback removes the project directory when this run created it, or
// empties it when it existed beforehand.
func (g *DefaultGenerator) rollback(path string, created bool) error {
	if created {
		return g.writer.Remove(path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return err
	}
	var errs []error
	for _, entry := range entries {
		errs = append(errs, g.writer.Remove(filepath.Join(path, entry.Name())))
	}
	return errors.Join(errs...)
}

func validateOptions(opts GenerateOptions) error {
	if opts.Project.Name == "" {
		return newGeneratorError(GeneratorPathError, "project name is not set", "", nil)
	}
	if opts.Project.Path == "" {
		return newGeneratorError(GeneratorPathError, "project path is not set", "", nil)
	}
	return nil
}

func interrupted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return newGeneratorError(GeneratorProcessFailed, "generation interrupted", "", err)
	}
	return nil
}

// wrapInterrupt reports a cancellation as an interruption whatever step saw it.
func wrapInterrupt(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		var genErr *GeneratorError
		if errors.As(err, &genErr) && genErr.Message == "generation interrupted" {
			return err
		}
		return newGeneratorError(GeneratorProcessFailed, "generation interrupted", "", err)
	}
	return err
}
