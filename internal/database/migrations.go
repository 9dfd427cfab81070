package database

import (
	"fmt"

	"gorm.io/gorm"
)

// addIndexes creates the composite indexes the aggregation and listing
// queries lean on. AutoMigrate only creates the single-column and unique
// indexes declared in struct tags.
func addIndexes(db *gorm.DB) error {
	indexes := []struct {
		name    string
		table   string
		columns string
	}{
		{"idx_time_entries_project_status", "time_entries", "project_id, status"},
		{"idx_time_entries_user_project", "time_entries", "user_id, project_id"},
		{"idx_time_entries_entry_date", "time_entries", "entry_date"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}
		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	// Task names must be unique per project regardless of case. MySQL's
	// default collation already compares case-insensitively, so the plain
	// unique index from the struct tag covers it there; the other drivers
	// need a functional index on LOWER(name).
	if db.Dialector.Name() != "mysql" && !db.Migrator().HasIndex("project_tasks", "idx_tasks_project_lower_name") {
		sql := "CREATE UNIQUE INDEX idx_tasks_project_lower_name ON project_tasks (project_id, LOWER(name))"
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index idx_tasks_project_lower_name: %w", err)
		}
	}

	return nil
}
