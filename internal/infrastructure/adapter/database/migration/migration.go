package migration

import (
	"context"
	"errors"
	"fmt"

	coreport "github.com/ledgertriage/ledgertriage/internal/domain/port/core"
	"github.com/ledgertriage/ledgertriage/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// Step is one versioned schema change. Steps run in version order and each is
// applied in its own transaction together with its version record.
type Step struct {
	Version int
	Name    string
	Up      func(ctx context.Context, tx *gorm.DB) error
}

// MigrationManager manages database migrations
type MigrationManager struct {
	db           *gorm.DB
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
	steps        []Step
}

// NewMigrationManager creates a new migration manager with the application schema
func NewMigrationManager(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) *MigrationManager {
	m := &MigrationManager{
		db:           db,
		logger:       logger,
		timeProvider: timeProvider,
	}
	indexes := NewIndexManager(logger)
	m.steps = []Step{
		{Version: 1, Name: "create_core_tables", Up: createCoreTables},
		{Version: 2, Name: "create_query_indexes", Up: indexes.CreateQueryIndexes},
		{Version: 3, Name: "seed_default_bank_account", Up: seedDefaultBankAccount},
	}
	return m
}

// CurrentSchemaVersion returns the highest version known to the manager
func (m *MigrationManager) CurrentSchemaVersion() int {
	if len(m.steps) == 0 {
		return 0
	}
	return m.steps[len(m.steps)-1].Version
}

// MigrateAll applies every step newer than the stored version
func (m *MigrationManager) MigrateAll(ctx context.Context) error {
	m.logger.Info("Starting database migrations", map[string]any{
		"target_version": m.CurrentSchemaVersion(),
	})

	if err := m.db.WithContext(ctx).AutoMigrate(&model.MigrationVersion{}); err != nil {
		m.logger.Error("Failed to create migration version table", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	currentVersion, err := m.GetCurrentVersion(ctx)
	if err != nil {
		m.logger.Error("Failed to check current schema version", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	if currentVersion >= m.CurrentSchemaVersion() {
		m.logger.Info("Database already at target version, skipping migration", map[string]any{
			"version": currentVersion,
		})
		return nil
	}

	for _, step := range m.steps {
		if step.Version <= currentVersion {
			continue
		}
		if err := m.apply(ctx, step); err != nil {
			m.logger.Error("Failed to run migration", map[string]any{
				"error":           err.Error(),
				"version":         step.Version,
				"name":            step.Name,
				"current_version": currentVersion,
			})
			return fmt.Errorf("migration %d (%s): %w", step.Version, step.Name, err)
		}
		currentVersion = step.Version
	}

	m.logger.Info("Database migrations completed successfully", map[string]any{
		"version": currentVersion,
	})
	return nil
}

func (m *MigrationManager) apply(ctx context.Context, step Step) error {
	m.logger.Info("Applying migration", map[string]any{
		"version": step.Version,
		"name":    step.Name,
	})

	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := step.Up(ctx, tx); err != nil {
			return err
		}
		return tx.Create(&model.MigrationVersion{
			Version:   step.Version,
			Name:      step.Name,
			AppliedAt: m.timeProvider.Now(),
		}).Error
	})
}

// GetCurrentVersion gets the current migration version, 0 for an empty database
func (m *MigrationManager) GetCurrentVersion(ctx context.Context) (int, error) {
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}

	var version model.MigrationVersion
	result := m.db.WithContext(ctx).Order("version desc").First(&version)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, result.Error
	}

	return version.Version, nil
}

// createCoreTables creates the operation, tag and bank account tables
func createCoreTables(ctx context.Context, tx *gorm.DB) error {
	return tx.WithContext(ctx).AutoMigrate(
		&model.BankAccount{},
		&model.Tag{},
		&model.TagRule{},
		&model.Operation{},
		&model.OperationTag{},
	)
}

// seedDefaultBankAccount creates a first account on an empty database so a
// fresh install can import operations right away
func seedDefaultBankAccount(ctx context.Context, tx *gorm.DB) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&model.BankAccount{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&model.BankAccount{
		Name:     "Main account",
		Slug:     "main",
		Currency: "EUR",
	}).Error
}
