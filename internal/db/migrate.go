package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent and re-run
// on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS experiences (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		owner_id    TEXT NOT NULL DEFAULT '',
		version     INTEGER NOT NULL DEFAULT 1 CHECK(version > 0),
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS experience_items (
		id             TEXT NOT NULL,
		experience_id  TEXT NOT NULL REFERENCES experiences(id) ON DELETE CASCADE,
		parent_id      TEXT NOT NULL DEFAULT '',
		text           TEXT NOT NULL,
		url            TEXT NOT NULL DEFAULT '',
		cost_estimate  TEXT NOT NULL DEFAULT '0',
		planning_days  INTEGER NOT NULL DEFAULT 0 CHECK(planning_days >= 0),
		photo          TEXT NOT NULL DEFAULT '',
		order_index    INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (experience_id, id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_experience_items_experience ON experience_items(experience_id, order_index)`,

	`CREATE TABLE IF NOT EXISTS plans (
		id             TEXT PRIMARY KEY,
		experience_id  TEXT NOT NULL REFERENCES experiences(id) ON DELETE CASCADE,
		owner_id       TEXT NOT NULL,
		planned_date   TEXT,
		version        INTEGER NOT NULL DEFAULT 1 CHECK(version > 0),
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_plans_owner ON plans(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_plans_experience ON plans(experience_id)`,

	// plan_item_id is deliberately not a foreign key: instances outlive the
	// template items they were cloned from.
	`CREATE TABLE IF NOT EXISTS plan_items (
		id             TEXT PRIMARY KEY,
		plan_id        TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		plan_item_id   TEXT NOT NULL,
		parent_id      TEXT NOT NULL DEFAULT '',
		text           TEXT NOT NULL,
		url            TEXT NOT NULL DEFAULT '',
		cost           TEXT NOT NULL DEFAULT '0',
		planning_days  INTEGER NOT NULL DEFAULT 0 CHECK(planning_days >= 0),
		photo          TEXT NOT NULL DEFAULT '',
		complete       INTEGER NOT NULL DEFAULT 0,
		order_index    INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_plan_items_plan ON plan_items(plan_id, order_index)`,

	`CREATE TABLE IF NOT EXISTS plan_collaborators (
		plan_id    TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		user_id    TEXT NOT NULL,
		added_at   TEXT NOT NULL,
		PRIMARY KEY (plan_id, user_id)
	)`,

	// Destination was introduced after the first experiences shipped.
	`ALTER TABLE experiences ADD COLUMN destination TEXT NOT NULL DEFAULT ''`,
}
