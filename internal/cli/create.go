package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdor-dev/pdor/internal/app"
	"github.com/pdor-dev/pdor/internal/config"
	"github.com/pdor-dev/pdor/internal/debug"
	"github.com/pdor-dev/pdor/internal/template/preset"
)

// Create command flags
var (
	createType          string
	createYarn          bool
	createNoInteraction bool
	createSkipInstall   bool
	createDir           string
)

func registerCreateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&createType, FlagType, "t", "", DescType)
	cmd.Flags().BoolVarP(&createYarn, FlagYarn, "y", false, DescYarn)
	cmd.Flags().BoolVar(&createNoInteraction, FlagNoInteraction, false, DescNoInteraction)
	cmd.Flags().BoolVar(&createSkipInstall, FlagSkipInstall, false, DescSkipInstall)
	cmd.Flags().StringVarP(&createDir, FlagDir, "C", "", DescDir)
}

// loadConfig loads the --config file or the default one.
func loadConfig() (*config.Config, error) {
	path := globalConfig
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.NewLoader().LoadOrDefault(path)
	if err != nil {
		return nil, app.NewAppError(app.ConfigParseError, "Cannot load pdor configuration", err)
	}
	return cfg, nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Output.Color {
		configureOutput(true, globalQuiet)
	}

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd.Context()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := app.CreateOptions{
		Type:        normalizeReference(createType),
		BaseDir:     createDir,
		Config:      cfg,
		Registry:    preset.NewRegistry(cfg.Presets.Dir),
		SkipInstall: createSkipInstall,
		PreferYarn:  createYarn,
		Verbose:     globalVerbose,
		Stdout:      cmd.OutOrStdout(),
		Stderr:      cmd.ErrOrStderr(),
		TokenSource: func() string { return getGitHubToken(cfg) },
	}
	if len(args) > 0 {
		opts.Name = args[0]
	}
	if interactive(createNoInteraction) {
		opts.Prompter = newSurveyPrompter()
	}
	if !globalQuiet && !globalVerbose {
		opts.Observer = newSpinnerObserver(interactive(createNoInteraction))
	}

	debug.Debug("[cli] create: name=%q, type=%q, dir=%q, interactive=%v", opts.Name, opts.Type, opts.BaseDir, opts.Prompter != nil)
	result, err := app.Create(ctx, opts)
	if err != nil {
		return err
	}

	if globalVerbose {
		printReplacements(cmd.OutOrStdout(), result.Generation.Replacements)
	}
	printFinishMessage(cmd.OutOrStdout(), result)
	return nil
}

// contextOrBackground returns ctx, or a background context when nil.
func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
