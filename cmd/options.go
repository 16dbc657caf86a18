/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"github.com/fulmenhq/tklport/pkg/porting"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// addPortingFlags declares the flags shared by generate and scaffold.
func addPortingFlags(cmd *cobra.Command) {
	cmd.Flags().String("templates", "", "Template root (relative paths resolve against each platform directory)")
	cmd.Flags().Bool("dry-run", false, "Report what would change without writing")
	cmd.Flags().Int("jobs", 0, "Platform directories processed in parallel")
	cmd.Flags().String("format", "", "Report format (text|json|yaml|toml)")
}

// portingOptions merges the effective configuration with explicitly set flags.
func portingOptions(cmd *cobra.Command) (porting.Options, porting.Format, error) {
	opts := porting.Options{
		TemplateRoot:    appConfig.Templates.Dir,
		Jobs:            appConfig.Generate.Jobs,
		HeaderCacheSize: appConfig.Cache.Headers,
		DryRun:          appConfig.Generate.DryRun,
		Diff:            appConfig.Generate.Diff,
	}
	formatStr := appConfig.Report.Format
	modeStr := appConfig.Templates.Mode
	excludes := appConfig.ExclusionSpecs()

	flags := cmd.Flags()
	overrideString(flags, "templates", &opts.TemplateRoot)
	overrideBool(flags, "dry-run", &opts.DryRun)
	overrideInt(flags, "jobs", &opts.Jobs)
	overrideString(flags, "format", &formatStr)
	overrideBool(flags, "diff", &opts.Diff)
	overrideString(flags, "template-mode", &modeStr)
	if flags.Changed("exclude") {
		excludes, _ = flags.GetStringArray("exclude")
	}

	format, err := porting.ParseFormat(formatStr)
	if err != nil {
		return opts, "", configError{err}
	}
	mode, err := porting.ParseTemplateMode(modeStr)
	if err != nil {
		return opts, "", configError{err}
	}
	opts.Mode = mode

	if len(excludes) > 0 {
		opts.Exclusions = make([]porting.Exclusion, 0, len(excludes))
		for _, raw := range excludes {
			e, err := porting.ParseExclusion(raw)
			if err != nil {
				return opts, "", configError{err}
			}
			opts.Exclusions = append(opts.Exclusions, e)
		}
	}
	return opts, format, nil
}

// platformDirs defaults to the current directory.
func platformDirs(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}

// overrideString replaces *dst with the flag value when the flag was set.
func overrideString(flags *pflag.FlagSet, name string, dst *string) {
	if flags.Changed(name) {
		if v, err := flags.GetString(name); err == nil {
			*dst = v
		}
	}
}

func overrideBool(flags *pflag.FlagSet, name string, dst *bool) {
	if flags.Changed(name) {
		if v, err := flags.GetBool(name); err == nil {
			*dst = v
		}
	}
}

func overrideInt(flags *pflag.FlagSet, name string, dst *int) {
	if flags.Changed(name) {
		if v, err := flags.GetInt(name); err == nil {
			*dst = v
		}
	}
}
