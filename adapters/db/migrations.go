package db

import (
	_ "embed"
	"fmt"
)

//go:embed migrations/01_create_users.up.sql
var createUsersUp string

//go:embed migrations/02_create_tasks.up.sql
var createTasksUp string

//go:embed migrations/03_create_applications.up.sql
var createApplicationsUp string

// Migrate applies the marketplace schema.
func (db *DB) Migrate() error {
	db.log.Debug("running marketplace migrations")

	if _, err := db.conn.Exec(createUsersUp); err != nil {
		return fmt.Errorf("apply users migration: %w", err)
	}

	if _, err := db.conn.Exec(createTasksUp); err != nil {
		return fmt.Errorf("apply tasks migration: %w", err)
	}

	if _, err := db.conn.Exec(createApplicationsUp); err != nil {
		return fmt.Errorf("apply applications migration: %w", err)
	}

	db.log.Debug("marketplace migrations finished")
	return nil
}
