/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"github.com/spf13/cobra"
)

func newScaffoldCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scaffold [platform-dir...]",
		Short: "Copy missing platform build templates",
		Long: `Copy the platform build templates (platform_config.cmake, toolchain_file.cmake,
Kconfig, build_example.sh and the variant Makefile) into each platform directory
and create its tuyaos directory. Existing files are never overwritten.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, format, err := portingOptions(cmd)
			if err != nil {
				return err
			}
			opts.ScaffoldOnly = true
			return runPorter(cmd, opts, format, platformDirs(args))
		},
	}
	addPortingFlags(cmd)
	return cmd
}
