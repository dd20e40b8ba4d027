package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pdor-dev/pdor/internal/config"
	"github.com/pdor-dev/pdor/internal/debug"
	"github.com/pdor-dev/pdor/internal/git"
	"github.com/pdor-dev/pdor/internal/install"
	"github.com/pdor-dev/pdor/internal/naming"
	"github.com/pdor-dev/pdor/internal/template/generator"
	"github.com/pdor-dev/pdor/internal/template/model"
	"github.com/pdor-dev/pdor/internal/template/preset"
	"github.com/pdor-dev/pdor/internal/template/provider"
	"github.com/pdor-dev/pdor/internal/template/resolver"
)

// Prompter asks the user for missing input.
type Prompter interface {
	// SelectBoilerplate returns the Value of one of choices.
	SelectBoilerplate(choices []preset.Choice) (string, error)
	// CustomURL asks for a repository URL after the custom choice.
	CustomURL() (string, error)
	// ProjectName asks for the project name.
	ProjectName() (string, error)
}

// Stage names reported to an Observer.
const (
	StageFetch    = "fetch"
	StageGenerate = "generate"
	StageInstall  = "install"
)

// Observer is notified when long-running stages start and finish.
type Observer interface {
	StageStarted(stage string)
	StageFinished(stage string, err error)
}

// CreateOptions contains options for project creation.
type CreateOptions struct {
	// Name is the project name. Empty prompts for it.
	Name string
	// Type is the boilerplate reference. Empty prompts for it.
	Type string
	// BaseDir is the directory the project is created in.
	BaseDir string
	// Config is the loaded configuration. Nil uses the defaults.
	Config *config.Config
	// Registry resolves preset names. Nil uses the default presets.
	Registry *preset.Registry
	// Prompter asks for missing input. Nil disables interaction.
	Prompter Prompter
	// Observer receives stage notifications. May be nil.
	Observer Observer
	// SkipInstall skips dependency installation.
	SkipInstall bool
	// PreferYarn installs with yarn when available.
	PreferYarn bool
	// Verbose streams tool output to Stdout/Stderr.
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
	// TokenSource returns the GitHub token for remote fetches and clones.
	// It is only called for remote references. May be nil.
	TokenSource func() string

	// Cloner, Installer, Generator and HTTPClient replace the defaults when set.
	Cloner     git.Cloner
	Installer  install.Installer
	Generator  generator.Generator
	HTTPClient *http.Client
}

// CreateResult contains the results of project creation.
type CreateResult struct {
	// Project is the generated project.
	Project model.Project
	// Generation holds the materialization statistics.
	Generation *generator.GenerateResult
	// Installed is true when dependencies were installed.
	Installed bool
	// PackageManager is the package manager used, if any.
	PackageManager string
}

// Create runs the pipeline: select and classify the boilerplate, fetch and
// resolve its config, name the project, materialize it and install its
// dependencies. Every error is an *AppError; a project directory created
// by the run is removed before an error is returned.
func Create(ctx context.Context, opts CreateOptions) (*CreateResult, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	reg := opts.Registry
	if reg == nil {
		reg = preset.NewRegistry(cfg.Presets.Dir)
	}

	debug.DebugSection("Create")
	raw, err := selectBoilerplate(ctx, opts, reg)
	if err != nil {
		return nil, err
	}
	debug.DebugValue("boilerplate", raw)

	ref, err := provider.Classify(raw, reg, cfg.Git.DefaultBranch)
	if err != nil {
		return nil, classify(err, InvalidBoilerplate, "Cannot use the selected boilerplate type")
	}
	debug.Debug("[app] Reference classified: kind=%s, path=%s, branch=%s", ref.Kind, ref.Path, ref.Branch)

	var token string
	if ref.IsRemote() && opts.TokenSource != nil {
		token = opts.TokenSource()
	}

	project, err := fetchProject(ctx, opts, cfg, reg, ref, token)
	if err != nil {
		return nil, err
	}

	project, err = nameProject(ctx, opts, project)
	if err != nil {
		return nil, err
	}
	debug.DebugJSON("project", project)

	gen := opts.Generator
	if gen == nil {
		gen = generator.NewGenerator()
	}
	cloner := opts.Cloner
	if cloner == nil {
		cloner = git.NewCloner(cfg.Git.Backend, token)
	}

	observe(opts.Observer, StageGenerate, nil, false)
	genResult, err := gen.Generate(ctx, generator.GenerateOptions{
		Project: project,
		Cloner:  cloner,
		Verbose: opts.Verbose,
		Stdout:  opts.Stdout,
		Stderr:  opts.Stderr,
	})
	observe(opts.Observer, StageGenerate, err, true)
	if err != nil {
		appErr := classify(err, FileGenerationFailed, "Cannot generate the boilerplate!")
		appErr.ProjectPath = project.Path
		return nil, appErr
	}

	result := &CreateResult{Project: project, Generation: genResult}
	if opts.SkipInstall {
		debug.Debug("[app] Skipping dependency installation")
		return result, nil
	}

	if err := installDependencies(ctx, opts, cfg, result); err != nil {
		appErr := classify(err, InstallFailed, "Cannot install dependencies")
		appErr.ProjectPath = project.Path
		if rbErr := removeProject(project.Path, genResult.Created); rbErr != nil {
			debug.Warn("[app] Cannot clean %s: %v", project.Path, rbErr)
		}
		return nil, appErr
	}
	return result, nil
}

func selectBoilerplate(ctx context.Context, opts CreateOptions, reg *preset.Registry) (string, error) {
	if opts.Type != "" {
		return opts.Type, nil
	}
	if opts.Prompter == nil {
		return "", NewInputRequiredError("Project type")
	}

	choice, err := prompt(ctx, func() (string, error) { return opts.Prompter.SelectBoilerplate(reg.Choices()) })
	if err != nil {
		return "", classify(err, InvalidBoilerplate, "Cannot use the selected boilerplate type")
	}
	if choice != preset.CustomChoice {
		return choice, nil
	}

	url, err := prompt(ctx, opts.Prompter.CustomURL)
	if err != nil {
		return "", classify(err, InvalidBoilerplate, "Cannot use the selected boilerplate type")
	}
	return url, nil
}

func fetchProject(ctx context.Context, opts CreateOptions, cfg *config.Config, reg *preset.Registry, ref model.Reference, token string) (model.Project, error) {
	prov := provider.NewProvider(ref, provider.ProviderConfig{
		Registry:    reg,
		GitHubToken: token,
		HTTPTimeout: time.Duration(cfg.HTTP.Timeout) * time.Second,
		RawBaseURL:  cfg.GitHub.RawBaseURL,
		HTTPClient:  opts.HTTPClient,
	})

	observe(opts.Observer, StageFetch, nil, false)
	payload, err := prov.Fetch(ctx, ref)
	observe(opts.Observer, StageFetch, err, true)
	if err != nil {
		return model.Project{}, classify(err, ConfigParseError, "Cannot get boilerplate config")
	}
	debug.Debug("[app] Config fetched by %s from %s (package descriptor: %v)", prov.Name(), payload.Source, payload.IsPackageDescriptor)

	project, err := resolver.Resolve(ref, payload, resolver.Base(ref, payload))
	if err != nil {
		return model.Project{}, classify(err, ConfigParseError, "Cannot get boilerplate config")
	}
	return project, nil
}

func nameProject(ctx context.Context, opts CreateOptions, project model.Project) (model.Project, error) {
	name := opts.Name
	if name == "" {
		if opts.Prompter == nil {
			return project, NewInputRequiredError("Project name")
		}
		var err error
		if name, err = prompt(ctx, opts.Prompter.ProjectName); err != nil {
			return project, classify(err, InputRequired, "Project name required")
		}
		if name == "" {
			return project, NewInputRequiredError("Project name")
		}
	}

	baseDir := opts.BaseDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return project, NewAppError(FileGenerationFailed, "Cannot determine the working directory", err)
		}
		baseDir = wd
	}
	if abs, err := filepath.Abs(baseDir); err == nil {
		baseDir = abs
	}

	named, err := naming.Apply(project, name, baseDir)
	if err != nil {
		return project, classify(err, InvalidProjectName, "Cannot name the package.json!")
	}
	return named, nil
}

func installDependencies(ctx context.Context, opts CreateOptions, cfg *config.Config, result *CreateResult) error {
	project := result.Project
	if len(project.Dependencies) == 0 && len(project.DevDependencies) == 0 {
		debug.Debug("[app] No dependencies to install")
		return nil
	}

	inst := opts.Installer
	manager := install.ResolveManager(opts.PreferYarn, cfg.Install.PackageManager, nil)
	if inst == nil {
		ci := install.NewCommandInstaller(manager)
		ci.Verbose = opts.Verbose
		ci.Stdout = opts.Stdout
		ci.Stderr = opts.Stderr
		inst = ci
	}
	debug.Debug("[app] Using %s to install packages...", manager)

	observe(opts.Observer, StageInstall, nil, false)
	err := install.InstallAll(ctx, inst, project.Path, project.Dependencies, project.DevDependencies)
	if err == nil {
		err = ctx.Err()
	}
	observe(opts.Observer, StageInstall, err, true)
	if err != nil {
		return err
	}

	result.Installed = true
	result.PackageManager = manager
	return nil
}

// prompt runs ask while honouring cancellation of ctx.
func prompt(ctx context.Context, ask func() (string, error)) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	answer, err := ask()
	if err == nil {
		err = ctx.Err()
	}
	return answer, err
}

func observe(o Observer, stage string, err error, finished bool) {
	if o == nil {
		return
	}
	if finished {
		o.StageFinished(stage, err)
		return
	}
	o.StageStarted(stage)
}

// removeProject deletes a generated project, or only its contents when
// the directory existed before the run.
func removeProject(path string, created bool) error {
	if created {
		return os.RemoveAll(path)
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return err
	}
	var errs []error
	for _, entry := range entries {
		errs = append(errs, os.RemoveAll(filepath.Join(path, entry.Name())))
	}
	return errors.Join(errs...)
}
