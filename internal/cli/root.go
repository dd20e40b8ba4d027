package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdor-dev/pdor/internal/app"
	"github.com/pdor-dev/pdor/internal/build"
	"github.com/pdor-dev/pdor/internal/debug"
)

// Global flags
var (
	globalNoColor bool
	globalQuiet   bool
	globalDebug   bool
	globalVerbose bool
	globalConfig  string
)

// rootCmd represents the base command. It creates a project when called
// without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "pdor <project-name> [flags]",
	Short: "Scaffold a project from a boilerplate",
	Long: `pdor creates a new project from a boilerplate.

A boilerplate is a bundled preset (for example "vanilla"), an absolute path
to a local boilerplate, or a GitHub repository URL with an optional
#branch suffix. pdor copies or clones it, renames it after the project,
writes package.json and README.md, then installs the dependencies.

Examples:
  pdor my-lib --type vanilla
  pdor my-widget -t https://github.com/acme/widget-boilerplate.git#dev --yarn
  pdor my-lib -t /opt/boilerplates/lib --skip-install --no-interaction`,
	Version:       build.Version(),
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug.SetDebug(globalDebug || globalVerbose)
		debug.SetNoColor(globalNoColor)
		configureOutput(globalNoColor, globalQuiet)
	},
	RunE: runCreate,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return app.ExitOK
	}
	printError(os.Stderr, err, globalVerbose)
	return app.ExitCode(err)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&globalNoColor, FlagNoColor, false, DescNoColor)
	rootCmd.PersistentFlags().BoolVarP(&globalQuiet, FlagQuiet, "q", false, DescQuiet)
	rootCmd.PersistentFlags().BoolVar(&globalDebug, FlagDebug, false, DescDebug)
	rootCmd.PersistentFlags().BoolVarP(&globalVerbose, FlagVerbose, "v", false, DescVerbose)
	rootCmd.PersistentFlags().StringVar(&globalConfig, FlagConfig, "", DescConfig)

	registerCreateFlags(rootCmd)

	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(versionCmd)
}

// printError prints an error to w. Only the message is shown unless
// verbose is set, in which case the underlying cause follows.
func printError(w io.Writer, err error, verbose bool) {
	if globalQuiet {
		return
	}

	msg, cause := err.Error(), error(nil)
	var appErr *app.AppError
	if errors.As(err, &appErr) {
		msg, cause = appErr.Message, appErr.Cause
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, styles.errorText(msg))
	if verbose && cause != nil {
		fmt.Fprintln(w, styles.muted("caused by: "+cause.Error()))
	}
	fmt.Fprintln(w, styles.errorText("Exiting..."))
}
