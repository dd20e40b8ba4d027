package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/pdor-dev/pdor/internal/app"
)

// palette holds the lipgloss styles of the CLI output.
type palette struct {
	plain   bool
	success lipgloss.Style
	failure lipgloss.Style
	accent  lipgloss.Style
	dim     lipgloss.Style
	title   lipgloss.Style
}

var styles = newPalette(false)

func newPalette(plain bool) palette {
	return palette{
		plain:   plain,
		success: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#3FB950"}),
		failure: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#F85149"}),
		accent:  lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#0969DA", Dark: "#39C5CF"}),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6E7781", Dark: "#8B949E"}),
		title:   lipgloss.NewStyle().Bold(true),
	}
}

func (p palette) render(style lipgloss.Style, s string) string {
	if p.plain {
		return s
	}
	return style.Render(s)
}

func (p palette) successText(s string) string { return p.render(p.success, s) }
func (p palette) errorText(s string) string   { return p.render(p.failure, s) }
func (p palette) accentText(s string) string  { return p.render(p.accent, s) }
func (p palette) muted(s string) string       { return p.render(p.dim, s) }
func (p palette) bold(s string) string        { return p.render(p.title, s) }

// configureOutput applies --no-color and --quiet.
func configureOutput(noColor, quiet bool) {
	styles = newPalette(noColor)
	if noColor {
		pterm.DisableColor()
	}
	if quiet {
		pterm.DisableOutput()
	}
}

// stageLabels are the spinner texts of the pipeline stages.
var stageLabels = map[string][2]string{
	app.StageFetch:    {"Fetching boilerplate config...", "Boilerplate config fetched"},
	app.StageGenerate: {"Generating the project...", "Project files generated"},
	app.StageInstall:  {"Installing dependencies, this can take a while...", "Required dependencies installed successfully"},
}

// spinnerObserver shows a pterm spinner for each running stage.
type spinnerObserver struct {
	enabled bool
	current *pterm.SpinnerPrinter
}

func newSpinnerObserver(enabled bool) *spinnerObserver {
	return &spinnerObserver{enabled: enabled}
}

// StageStarted implements app.Observer.
func (s *spinnerObserver) StageStarted(stage string) {
	if !s.enabled {
		return
	}
	spinner, err := pterm.DefaultSpinner.Start(stageLabels[stage][0])
	if err == nil {
		s.current = spinner
	}
}

// StageFinished implements app.Observer.
func (s *spinnerObserver) StageFinished(stage string, err error) {
	if s.current == nil {
		return
	}
	if err != nil {
		s.current.Fail(strings.TrimSuffix(stageLabels[stage][0], "..."))
	} else {
		s.current.Success(stageLabels[stage][1])
	}
	s.current = nil
}

// printFinishMessage prints the banner and next steps after a successful run.
func printFinishMessage(w io.Writer, result *app.CreateResult) {
	if globalQuiet {
		return
	}
	project := result.Project

	if banner, err := pterm.DefaultBigText.WithLetters(putils.LettersFromString(project.Name)).Srender(); err == nil {
		fmt.Fprintln(w, banner)
	}
	fmt.Fprintln(w, styles.successText(fmt.Sprintf("%s boilerplate installed successfully in %s", project.Type, project.Path)))
	fmt.Fprintln(w, "What now?")
	fmt.Fprintln(w)
	fmt.Fprintln(w, styles.accentText(fmt.Sprintf("$ cd %s and start coding!", project.Path)))
	fmt.Fprintln(w)
}

// printReplacements lists per-file substitution counts in verbose mode.
func printReplacements(w io.Writer, counts map[string]int) {
	if len(counts) == 0 || globalQuiet {
		return
	}
	files := make([]string, 0, len(counts))
	for file := range counts {
		files = append(files, file)
	}
	sort.Strings(files)

	fmt.Fprintln(w, styles.bold("Replacements:"))
	for _, file := range files {
		fmt.Fprintf(w, "  %s %s\n", styles.muted(fmt.Sprintf("%4d", counts[file])), file)
	}
}
