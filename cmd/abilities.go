/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fulmenhq/tklport/pkg/ability"
	"github.com/fulmenhq/tklport/pkg/adapter"
	"github.com/fulmenhq/tklport/pkg/ascii"
	"github.com/fulmenhq/tklport/pkg/porting"
	"github.com/fulmenhq/tklport/pkg/scaffold"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// abilitiesView is what `tklport abilities` prints.
type abilitiesView struct {
	Platform  string            `json:"platform" yaml:"platform" toml:"platform"`
	HostedOS  bool              `json:"hosted_os" yaml:"hosted_os" toml:"hosted_os"`
	Variant   string            `json:"template_variant" yaml:"template_variant" toml:"template_variant"`
	Gated     []string          `json:"gated_off,omitempty" yaml:"gated_off,omitempty" toml:"gated_off,omitempty"`
	Scaffold  []string          `json:"scaffold" yaml:"scaffold" toml:"scaffold"`
	Abilities map[string]string `json:"abilities" yaml:"abilities" toml:"abilities"`
}

func newAbilitiesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "abilities <platform-dir>",
		Short: "Show the abilities parsed from a platform configuration",
		Long: `Parse <platform-dir>/default.config and show the enabled abilities, whether
the platform runs a hosted OS, the template variant new adapters would use and
the adapter files gated off by missing abilities.`,
		Args: cobra.ExactArgs(1),
		RunE: runAbilities,
	}
	cmd.Flags().String("format", "", "Output format (text|json|yaml|toml)")
	cmd.Flags().String("template-mode", "", "Template mode used to pick the variant (auto|bsp|none)")
	return cmd
}

func runAbilities(cmd *cobra.Command, args []string) error {
	formatStr := appConfig.Report.Format
	if cmd.Flags().Changed("format") {
		formatStr, _ = cmd.Flags().GetString("format")
	}
	format, err := porting.ParseFormat(formatStr)
	if err != nil {
		return configError{err}
	}
	modeStr := appConfig.Templates.Mode
	if cmd.Flags().Changed("template-mode") {
		modeStr, _ = cmd.Flags().GetString("template-mode")
	}
	mode, err := porting.ParseTemplateMode(modeStr)
	if err != nil {
		return configError{err}
	}

	dir := filepath.Clean(args[0])
	abilities, err := ability.Load(filepath.Join(dir, ability.ConfigFile))
	if err != nil {
		return err
	}

	view := abilitiesView{
		Platform:  filepath.Base(dir),
		HostedOS:  abilities.HostedOS(),
		Variant:   porting.TemplateVariant(mode, abilities),
		Abilities: abilities.ToMap(),
	}
	for _, g := range adapter.DefaultGates {
		if !adapter.Allowed(adapter.DefaultGates, g.File, abilities) {
			view.Gated = append(view.Gated, g.File)
		}
	}
	for _, e := range scaffold.Entries(abilities) {
		view.Scaffold = append(view.Scaffold, e.Target)
	}
	return writeView(cmd.OutOrStdout(), format, view, abilities)
}

func writeView(w io.Writer, format porting.Format, view abilitiesView, abilities ability.Map) error {
	switch format {
	case porting.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case porting.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return err
		}
		return enc.Close()
	case porting.FormatTOML:
		return toml.NewEncoder(w).Encode(view)
	}

	variant := view.Variant
	if variant == "" {
		variant = "none"
	}
	fmt.Fprint(w, ascii.Box([]string{
		"platform: " + view.Platform,
		fmt.Sprintf("hosted os: %v  template variant: %s", view.HostedOS, variant),
	}))
	rows := [][]string{{"ABILITY", "VALUE"}}
	for _, k := range abilities.Keys() {
		v, _ := abilities.Get(k)
		rows = append(rows, []string{k, v})
	}
	for _, line := range ascii.Table(rows) {
		fmt.Fprintln(w, line)
	}
	for _, f := range view.Gated {
		fmt.Fprintf(w, "gated off: %s\n", f)
	}
	return nil
}
