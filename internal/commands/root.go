package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	coreport "github.com/ledgertriage/ledgertriage/internal/domain/port/core"
	"github.com/ledgertriage/ledgertriage/internal/infrastructure/config"
)

// options holds the persistent flags of the root command
type options struct {
	configPath string
	logLevel   string
	dbPath     string
}

// runner carries state between the root pre-run hook and subcommands
type runner struct {
	opts   options
	cfg    *config.Config
	logger coreport.Logger

	// open wires the application; replaced in tests
	open func(ctx context.Context, cfg *config.Config, log coreport.Logger) (*App, error)
}

// NewRootCommand builds the ledgertriage command tree
func NewRootCommand() *cobra.Command {
	return newRootCommand(&runner{open: bootstrap})
}

func newRootCommand(r *runner) *cobra.Command {
	root := &cobra.Command{
		Use:           "ledgertriage",
		Short:         "Operation reconciliation and triage engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return r.loadConfig()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&r.opts.configPath, "config", "c", "", "config file (default configs/<LT_ENV>.yaml)")
	flags.StringVar(&r.opts.logLevel, "log-level", "", "override logger.level")
	flags.StringVar(&r.opts.dbPath, "db", "", "override database.path of the sqlite store")

	root.AddCommand(
		newServeCommand(r),
		newMigrateCommand(r),
		newDetectCommand(r),
		newRetagCommand(r),
		newImportCommand(r),
		newVersionCommand(),
	)
	return root
}

// loadConfig reads configuration and applies flag overrides
func (r *runner) loadConfig() error {
	cfg, err := config.LoadConfigFile(r.opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if r.opts.logLevel != "" {
		cfg.Logger.Level = r.opts.logLevel
	}
	if r.opts.dbPath != "" {
		cfg.Database.Path = r.opts.dbPath
	}
	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	r.cfg = cfg
	r.logger = newLogger(cfg)
	for _, warning := range productionWarnings(cfg) {
		r.logger.Warn("Potential issue in production configuration", map[string]any{"warning": warning})
	}
	return nil
}

// withApp opens the application for the duration of fn
func (r *runner) withApp(ctx context.Context, fn func(app *App) error) error {
	app, err := r.open(ctx, r.cfg, r.logger)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app)
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
