package database

import (
	"gorm.io/gorm"

	"github.com/yogapratama/dinein-app/models"
	"github.com/yogapratama/dinein-app/utils"
)

// EnsureIndexes applies supplemental DDL that AutoMigrate does not cover.
// The allocator's candidate scan (status, capacity, table_number) is the
// hottest query in the system; the composite index keeps the locked scan
// from touching ineligible rows.
func EnsureIndexes(db *gorm.DB) error {
	type indexDef struct {
		model interface{}
		name  string
		stmt  string
	}

	indexes := []indexDef{
		{
			model: &models.Table{},
			name:  "idx_tables_allocation",
			stmt:  "CREATE INDEX idx_tables_allocation ON tables (status, capacity, table_number)",
		},
		{
			model: &models.GuestSession{},
			name:  "idx_sessions_activity",
			stmt:  "CREATE INDEX idx_sessions_activity ON guest_sessions (table_number, ended_at, expires_at)",
		},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			continue
		}
		if err := db.Exec(idx.stmt).Error; err != nil {
			utils.ErrorLogger.Printf("index setup failed (%s): %v", idx.name, err)
			return err
		}
	}

	utils.InfoLogger.Println("Supplemental indexes ensured.")
	return nil
}
