package migration

import (
	"context"

	coreport "github.com/ledgertriage/ledgertriage/internal/domain/port/core"
	"gorm.io/gorm"
)

// IndexManager creates the indexes backing the store's query orderings
type IndexManager struct {
	logger coreport.Logger
}

// NewIndexManager creates a new index manager
func NewIndexManager(logger coreport.Logger) *IndexManager {
	return &IndexManager{logger: logger}
}

// queryIndexes is valid for both SQLite and PostgreSQL
var queryIndexes = []struct {
	name string
	sql  string
}{
	{
		name: "idx_operations_date_id",
		sql:  "CREATE INDEX IF NOT EXISTS idx_operations_date_id ON operations (operation_date DESC, id ASC)",
	},
	{
		name: "idx_operations_state_details",
		sql:  "CREATE INDEX IF NOT EXISTS idx_operations_state_details ON operations (state, details DESC, id ASC)",
	},
	{
		name: "idx_operations_hash_state",
		sql:  "CREATE INDEX IF NOT EXISTS idx_operations_hash_state ON operations (hash, state)",
	},
	{
		name: "idx_tag_rules_tag_kind",
		sql:  "CREATE INDEX IF NOT EXISTS idx_tag_rules_tag_kind ON tag_rules (tag_id, kind)",
	},
}

// CreateQueryIndexes creates the listing, triage and collision indexes
func (m *IndexManager) CreateQueryIndexes(ctx context.Context, tx *gorm.DB) error {
	m.logger.Info("Creating database indexes", nil)

	for _, idx := range queryIndexes {
		if err := tx.WithContext(ctx).Exec(idx.sql).Error; err != nil {
			m.logger.Error("Failed to create index", map[string]any{
				"index": idx.name,
				"error": err.Error(),
			})
			return err
		}
	}

	return nil
}
