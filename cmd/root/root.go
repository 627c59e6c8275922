// Package root contains the root command for the application
package root

import (
	"context"
	"fmt"

	"fjacquet/bilanci/internal/config"
	"fjacquet/bilanci/internal/container"
	"fjacquet/bilanci/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input  string
	Output string
	Format string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppContainer is built before any subcommand runs.
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "bilanci",
		Short: "Extract financial figures and invoices from statements and ledgers.",
		Long: `bilanci reads financial statements (PDF, TXT), ledgers (CSV, XLSX) and invoices,
extracts the headline figures, derives the standard ratios and exports the result
as JSON, YAML, CSV or XLSX. It can also serve the same analysis over HTTP.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to bilanci!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv(Log)

			cfg, err := config.InitializeConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			c, err := container.NewContainer(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			AppContainer = c
			Log = c.GetLogger()
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.Close(); err != nil {
				Log.WithError(err).Warn("Failed to close container")
			}
		},
		SilenceUsage: true,
	}

	// SharedFlags holds the flags accessible to all commands
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (stdout when empty)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Format, "format", "f", "", "Output format: json, yaml, csv or xlsx (default from the output extension, else json)")
}

// GetContainer returns the application container, or nil before the root
// pre-run hook has executed.
func GetContainer() *container.Container {
	return AppContainer
}

// GetLogger returns the configured logger.
func GetLogger() logging.Logger {
	return Log
}

// Context returns the command context, or a background context when the
// command was not started through ExecuteContext.
func Context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
