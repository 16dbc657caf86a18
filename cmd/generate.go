/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"github.com/fulmenhq/tklport/pkg/logger"
	"github.com/fulmenhq/tklport/pkg/porting"
	"github.com/spf13/cobra"
)

func newGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [platform-dir...]",
		Short: "Regenerate adapter sources for platform directories",
		Long: `Regenerate the kernel adapter sources of one or more platform directories.

For each directory the ability configuration (default.config) is read, missing
build templates are copied, and every interface header under
tuyaos/tuyaos_adapter/include is merged with the existing source in
tuyaos/tuyaos_adapter/src. Hand-written bodies and the user define block are
kept; functions that left the interface are kept and marked as retired.

Without arguments the current directory is used.`,
		Args: cobra.ArbitraryArgs,
		RunE: runGenerate,
	}
	addPortingFlags(cmd)
	cmd.Flags().Bool("diff", false, "Include a unified diff for every changed file")
	cmd.Flags().String("template-mode", "", "Per-file template variant for new adapters (auto|bsp|none)")
	cmd.Flags().StringArray("exclude", nil, "Skip interface directories matching name=pattern (repeatable; replaces the defaults)")
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	opts, format, err := portingOptions(cmd)
	if err != nil {
		return err
	}
	return runPorter(cmd, opts, format, platformDirs(args))
}

// runPorter runs the batch and always writes the report before returning the
// joined failures.
func runPorter(cmd *cobra.Command, opts porting.Options, format porting.Format, dirs []string) error {
	p, err := porting.New(opts)
	if err != nil {
		return configError{err}
	}

	logger.Debug("Starting run",
		logger.Strings("dirs", dirs),
		logger.Int("jobs", opts.Jobs),
		logger.Bool("dry_run", opts.DryRun))

	rep, runErr := p.RunAll(cmd.Context(), dirs)
	if encErr := rep.Encode(cmd.OutOrStdout(), format); encErr != nil {
		logger.Error("Failed to write report", logger.Err(encErr))
		if runErr == nil {
			return encErr
		}
	}
	return runErr
}
