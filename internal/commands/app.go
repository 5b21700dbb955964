package commands

import (
	"context"
	"fmt"
	"strings"

	coreport "github.com/ledgertriage/ledgertriage/internal/domain/port/core"
	"github.com/ledgertriage/ledgertriage/internal/domain/usecase/account"
	"github.com/ledgertriage/ledgertriage/internal/domain/usecase/operation"
	"github.com/ledgertriage/ledgertriage/internal/domain/usecase/tagging"
	"github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/database"
	"github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/logger"
	timeprovider "github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/time"
	"github.com/ledgertriage/ledgertriage/internal/infrastructure/config"
)

// App is the wired application shared by every command
type App struct {
	Config     *config.Config
	Logger     coreport.Logger
	DB         *database.Manager
	Operations *operation.Service
	Tagging    *tagging.Service
	Accounts   *account.Service
}

// newLogger builds the application logger from configuration
func newLogger(cfg *config.Config) coreport.Logger {
	format := cfg.Logger.Format
	if format == "" {
		format = "console"
		if cfg.Environment == config.Production {
			format = "json"
		}
	}
	return logger.NewZapLoggerWithOptions(logger.Options{
		Level:      cfg.Logger.Level,
		Format:     format,
		CallerInfo: cfg.Logger.CallerInfo,
	})
}

// bootstrap connects and migrates the store and wires the use cases
func bootstrap(ctx context.Context, cfg *config.Config, log coreport.Logger) (*App, error) {
	dbConfig := database.CreateConfigFromViperConfig(cfg)
	manager := database.NewManager(dbConfig, log, timeprovider.NewRealTimeProvider())

	if _, err := manager.Connect(); err != nil {
		return nil, err
	}
	if err := manager.Migrate(ctx); err != nil {
		_ = manager.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	uow := manager.CreateUnitOfWork()
	taggingService := tagging.NewTaggingService(uow, log)

	return &App{
		Config:     cfg,
		Logger:     log,
		DB:         manager,
		Operations: operation.NewOperationService(uow, taggingService, log).WithAutoTag(cfg.Import.AutoTag),
		Tagging:    taggingService,
		Accounts:   account.NewAccountService(uow, log),
	}, nil
}

// Close releases the store and flushes the logger
func (a *App) Close() {
	if err := a.DB.Close(); err != nil {
		a.Logger.Error("Failed to close database", map[string]any{"error": err.Error()})
	}
	_ = a.Logger.Flush()
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missing []string

	switch cfg.Environment {
	case config.Development, config.Production, config.Test:
	default:
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		missing = append(missing, "server.port")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		missing = append(missing, "server.shutdownTimeout")
	}
	if cfg.Database.Driver == "" {
		missing = append(missing, "database.driver")
	}
	if cfg.Database.QueryTimeout == 0 {
		missing = append(missing, "database.queryTimeout")
	}
	if cfg.Logger.Level == "" {
		missing = append(missing, "logger.level")
	}
	if cfg.Import.MaxBatchSize < 0 {
		return fmt.Errorf("import.maxBatchSize must be non-negative, got: %d", cfg.Import.MaxBatchSize)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configurations: %s", strings.Join(missing, ", "))
	}
	return nil
}

// productionWarnings lists risky settings of a production configuration
func productionWarnings(cfg *config.Config) []string {
	if cfg.Environment != config.Production {
		return nil
	}

	var warnings []string
	if cfg.Database.Driver == database.DriverPostgres {
		switch strings.ToLower(cfg.Database.SSLMode) {
		case "require", "verify-ca", "verify-full":
		default:
			warnings = append(warnings, "database.sslMode should be 'require', 'verify-ca' or 'verify-full' in production")
		}
	}
	if cfg.Server.Host == "0.0.0.0" || cfg.Server.Host == "" {
		warnings = append(warnings, "server.host exposes the API on every interface and the API has no authentication")
	}
	return warnings
}
