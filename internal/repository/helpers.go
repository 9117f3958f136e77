package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gokepelemo/biensperience/internal/db"
	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// parseNullableTime parses a sql.NullString into a *time.Time using the given layout.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableTime(s sql.NullString, layout string) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(layout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableTimeToString converts a *time.Time to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil, otherwise returns the formatted string.
func nullableTimeToString(t *time.Time, layout string) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(layout)
}

// parseTimestamps parses the created_at/updated_at pair shared by every table.
func parseTimestamps(created, updated string) (time.Time, time.Time, error) {
	c, err := time.Parse(time.RFC3339, created)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing created_at: %w", err)
	}
	u, err := time.Parse(time.RFC3339, updated)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return c, u, nil
}

// parseMoney reads a decimal stored as TEXT. Money never round-trips through
// REAL columns.
func parseMoney(s string, column string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s: %w", column, err)
	}
	return d, nil
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a SQLite integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// bumpVersion advances the version of a row in table when it still matches
// expected. A missing row yields domain.ErrNotFound, a stale expected
// version yields domain.ErrVersionConflict.
func bumpVersion(ctx context.Context, q db.DBTX, table, id string, expected int64) (int64, error) {
	res, err := q.ExecContext(ctx,
		`UPDATE `+table+` SET version = version + 1, updated_at = ? WHERE id = ? AND version = ?`,
		nowUTC(), id, expected)
	if err != nil {
		return 0, fmt.Errorf("bumping %s version: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("bumping %s version: %w", table, err)
	}
	if n == 1 {
		return expected + 1, nil
	}

	var current int64
	err = q.QueryRowContext(ctx, `SELECT version FROM `+table+` WHERE id = ?`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%s %s: %w", table, id, domain.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("reading %s version: %w", table, err)
	}
	return 0, fmt.Errorf("%s %s at version %d, expected %d: %w", table, id, current, expected, domain.ErrVersionConflict)
}
