/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fulmenhq/tklport/internal/ops"
	"github.com/fulmenhq/tklport/pkg/buildinfo"
	"github.com/fulmenhq/tklport/pkg/config"
	"github.com/fulmenhq/tklport/pkg/exitcode"
	"github.com/fulmenhq/tklport/pkg/logger"
	"github.com/spf13/cobra"
)

// appConfig is the effective configuration, loaded before every command runs.
var appConfig = func() *config.Config { c := config.Defaults(); return &c }()

// newRootCommand creates a fresh root command instance.
// Tests build isolated trees with newRootCommand + registerSubcommands.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tklport",
		Short: "Regenerate TuyaOS kernel adapter sources",
		Long: `tklport regenerates the kernel adapter layer of TuyaOS platform directories.

It reads each platform's ability configuration, scaffolds the platform build
files, and merges the current kernel interface headers into the adapter sources
without losing hand-written function bodies.

Examples:
   tklport generate platform/T2           # Regenerate one platform
   tklport generate --dry-run --diff .    # Preview changes
   tklport scaffold platform/*            # Copy missing build templates only
   tklport abilities platform/T2          # Show parsed abilities`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initializeLogger(cmd); err != nil {
				return err
			}
			return loadConfig(cmd)
		},
	}

	cmd.PersistentFlags().String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().String("config", "", "Config file (default: tklport.yaml in ., ~/.tklport or $HOME)")

	cmd.Version = buildinfo.Version()
	cmd.SetVersionTemplate("tklport {{.Version}}\n")

	cmd.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		if cmd.HasParent() {
			cmd.Println(cmd.Long)
			cmd.Println()
			cmd.Print(cmd.UsageString())
			return
		}
		reg := ops.GetRegistry()
		cmd.Println(cmd.Long)
		cmd.Println()
		for _, group := range ops.Groups {
			cmd.Printf("%s:\n", group.Title())
			for _, c := range reg.GetCommandsByGroup(group) {
				cmd.Printf("  %-12s %s\n", c.Name, c.Description)
			}
			cmd.Println()
		}
		cmd.Println("Flags:")
		cmd.Print(cmd.UsageString())
	})

	return cmd
}

type subcommand struct {
	group       ops.CommandGroup
	description string
	writes      bool
	build       func() *cobra.Command
}

var subcommands = []subcommand{
	{ops.GroupPort, "Regenerate adapter sources for platform directories", true, newGenerateCommand},
	{ops.GroupPort, "Copy missing platform build templates", true, newScaffoldCommand},
	{ops.GroupSupport, "Show the abilities parsed from a platform configuration", false, newAbilitiesCommand},
	{ops.GroupSupport, "Show version and build information", false, newVersionCommand},
}

// registerSubcommands adds fresh subcommand instances to the root command.
func registerSubcommands(root *cobra.Command) []*cobra.Command {
	out := make([]*cobra.Command, 0, len(subcommands))
	for _, s := range subcommands {
		c := s.build()
		root.AddCommand(c)
		out = append(out, c)
	}
	return out
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

func init() {
	for i, c := range registerSubcommands(rootCmd) {
		s := subcommands[i]
		if err := ops.RegisterCommand(ops.CommandRegistration{
			Name:        c.Name(),
			Group:       s.group,
			Command:     c,
			Description: s.description,
			Writes:      s.writes,
		}); err != nil {
			panic(fmt.Sprintf("failed to register command %s: %v", c.Name(), err))
		}
	}
}

// Execute runs the root command and exits with the code matching the
// failure kinds encountered. It is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	code := exitCodeFor(err)
	if err != nil {
		logger.Error("Command execution failed",
			logger.Err(err),
			logger.Int("exit_code", code),
			logger.String("reason", exitcode.String(code)))
	}
	logger.Sync()
	os.Exit(code)
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) error {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")

	logLevel, err := logger.ParseLevel(logLevelStr)
	if err != nil {
		logLevel = logger.InfoLevel
	}

	cfg := logger.Config{
		Level:     logLevel,
		UseColor:  !noColor && os.Getenv("NO_COLOR") == "",
		JSON:      jsonLogs,
		Component: "tklport",
	}
	if dryRun, ferr := cmd.Flags().GetBool("dry-run"); ferr == nil {
		cfg.NoOp = dryRun
	}

	if err := logger.InitializeWithWriter(cfg, cmd.ErrOrStderr()); err != nil {
		return configError{fmt.Errorf("failed to initialize logger: %w", err)}
	}
	return nil
}

func loadConfig(cmd *cobra.Command) error {
	file, _ := cmd.Flags().GetString("config")
	c, err := config.LoadConfig(config.Options{File: file})
	if err != nil {
		return configError{err}
	}
	appConfig = c
	return nil
}

// configError marks failures of flags or configuration.
type configError struct{ err error }

func (e configError) Error() string { return e.err.Error() }
func (e configError) Unwrap() error { return e.err }

func isConfigError(err error) bool {
	var ce configError
	return errors.As(err, &ce)
}
