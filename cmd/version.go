/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/fulmenhq/tklport/pkg/buildinfo"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version and build information",
		Args:  cobra.NoArgs,
		RunE:  runVersion,
	}
	cmd.Flags().Bool("extended", false, "Show detailed build information")
	cmd.Flags().String("format", "text", "Output format (text|json)")
	return cmd
}

func runVersion(cmd *cobra.Command, _ []string) error {
	extended, _ := cmd.Flags().GetBool("extended")
	format, _ := cmd.Flags().GetString("format")
	out := cmd.OutOrStdout()

	switch format {
	case "json":
		versionInfo := map[string]interface{}{
			"version":   buildinfo.Version(),
			"goVersion": runtime.Version(),
			"platform":  runtime.GOOS,
			"arch":      runtime.GOARCH,
		}
		if extended {
			versionInfo["gitCommit"] = buildinfo.ShortCommit()
			versionInfo["buildDate"] = buildinfo.BuildDate
			versionInfo["module"] = buildinfo.ModuleVersion()
		}
		jsonData, err := json.MarshalIndent(versionInfo, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %v", err)
		}
		fmt.Fprintln(out, string(jsonData))
		return nil
	case "text", "":
	default:
		return configError{fmt.Errorf("invalid version format %q (valid: text, json)", format)}
	}

	fmt.Fprintf(out, "tklport %s\n", buildinfo.Version())
	if extended {
		fmt.Fprintf(out, "Build date: %s\n", buildinfo.BuildDate)
		fmt.Fprintf(out, "Git commit: %s\n", buildinfo.ShortCommit())
		if m := buildinfo.ModuleVersion(); m != "" {
			fmt.Fprintf(out, "Module: %s\n", m)
		}
	}
	fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
	fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	return nil
}
