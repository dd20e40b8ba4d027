package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdor-dev/pdor/internal/template/preset"
)

var presetsJSON bool

// presetsCmd lists the boilerplates accepted by --type.
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the available boilerplate presets",
	Long: `List the boilerplate presets accepted by --type.

Bundled presets ship with pdor; remote presets are cloned from GitHub.
Any absolute path or GitHub repository URL is accepted as well.

Examples:
  pdor presets
  pdor presets --json`,
	Args: cobra.NoArgs,
	RunE: runPresets,
}

func init() {
	presetsCmd.Flags().BoolVar(&presetsJSON, "json", false, "Output as JSON")
}

// presetInfo is the JSON form of a preset.
type presetInfo struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	Source string `json:"source"`
}

func runPresets(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg := preset.NewRegistry(cfg.Presets.Dir)

	infos := make([]presetInfo, 0, len(reg.Presets()))
	for _, p := range reg.Presets() {
		source := "bundled"
		if p.IsRemote() {
			source = p.URL
		}
		infos = append(infos, presetInfo{Name: p.Name, Title: p.Title, Source: source})
	}

	out := cmd.OutOrStdout()
	if presetsJSON {
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal presets: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	for _, info := range infos {
		fmt.Fprintf(out, "%s %-18s %s\n", styles.bold(fmt.Sprintf("%-18s", info.Name)), info.Title, styles.muted(info.Source))
	}
	return nil
}
