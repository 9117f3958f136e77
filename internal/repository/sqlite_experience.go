package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gokepelemo/biensperience/internal/db"
	"github.com/gokepelemo/biensperience/internal/domain"
)

// SQLiteExperienceRepo implements ExperienceRepo using a SQLite database.
type SQLiteExperienceRepo struct {
	db db.DBTX
}

// NewSQLiteExperienceRepo creates a new SQLiteExperienceRepo.
func NewSQLiteExperienceRepo(db db.DBTX) *SQLiteExperienceRepo {
	return &SQLiteExperienceRepo{db: db}
}

const experienceColumns = `id, name, destination, owner_id, version, created_at, updated_at`

func (r *SQLiteExperienceRepo) Create(ctx context.Context, e *domain.Experience) error {
	if e.Version == 0 {
		e.Version = 1
	}
	query := `INSERT INTO experiences (` + experienceColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		string(e.ID),
		e.Name,
		e.Destination,
		e.OwnerID,
		e.Version,
		e.CreatedAt.Format(time.RFC3339),
		e.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting experience: %w", err)
	}
	return r.insertItems(ctx, e.ID, e.Items)
}

func (r *SQLiteExperienceRepo) GetByID(ctx context.Context, id domain.ID) (*domain.Experience, error) {
	query := `SELECT ` + experienceColumns + ` FROM experiences WHERE id = ?`
	e, err := scanExperience(r.db.QueryRowContext(ctx, query, string(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("experience %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if e.Items, err = r.listItems(ctx, e.ID); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *SQLiteExperienceRepo) List(ctx context.Context) ([]*domain.Experience, error) {
	query := `SELECT ` + experienceColumns + ` FROM experiences ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing experiences: %w", err)
	}

	experiences := []*domain.Experience{}
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		experiences = append(experiences, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating experiences: %w", err)
	}
	rows.Close()

	// Items are loaded after the cursor is released so a single-connection
	// pool never waits on itself.
	for _, e := range experiences {
		if e.Items, err = r.listItems(ctx, e.ID); err != nil {
			return nil, err
		}
	}
	return experiences, nil
}

func (r *SQLiteExperienceRepo) UpdateDetails(ctx context.Context, e *domain.Experience) error {
	version, err := bumpVersion(ctx, r.db, "experiences", string(e.ID), e.Version)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE experiences SET name = ?, destination = ? WHERE id = ?`,
		e.Name, e.Destination, string(e.ID))
	if err != nil {
		return fmt.Errorf("updating experience: %w", err)
	}
	e.Version = version
	return nil
}

func (r *SQLiteExperienceRepo) ReplaceItems(ctx context.Context, id domain.ID, expectedVersion int64, items []domain.PlanItemTemplate) (int64, error) {
	version, err := bumpVersion(ctx, r.db, "experiences", string(id), expectedVersion)
	if err != nil {
		return 0, err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM experience_items WHERE experience_id = ?`, string(id)); err != nil {
		return 0, fmt.Errorf("clearing experience items: %w", err)
	}
	if err := r.insertItems(ctx, id, items); err != nil {
		return 0, err
	}
	return version, nil
}

func (r *SQLiteExperienceRepo) Delete(ctx context.Context, id domain.ID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM experiences WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("deleting experience: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("experience %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *SQLiteExperienceRepo) insertItems(ctx context.Context, experienceID domain.ID, items []domain.PlanItemTemplate) error {
	query := `INSERT INTO experience_items (id, experience_id, parent_id, text, url, cost_estimate, planning_days, photo, order_index)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i, item := range items {
		_, err := r.db.ExecContext(ctx, query,
			string(item.ID),
			string(experienceID),
			string(item.Parent),
			item.Text,
			item.URL,
			item.CostEstimate.String(),
			item.PlanningDays,
			string(item.Photo),
			i,
		)
		if err != nil {
			return fmt.Errorf("inserting experience item %q: %w", item.Text, err)
		}
	}
	return nil
}

func (r *SQLiteExperienceRepo) listItems(ctx context.Context, experienceID domain.ID) ([]domain.PlanItemTemplate, error) {
	query := `SELECT id, parent_id, text, url, cost_estimate, planning_days, photo
		FROM experience_items WHERE experience_id = ? ORDER BY order_index`
	rows, err := r.db.QueryContext(ctx, query, string(experienceID))
	if err != nil {
		return nil, fmt.Errorf("listing experience items: %w", err)
	}
	defer rows.Close()

	items := []domain.PlanItemTemplate{}
	for rows.Next() {
		var item domain.PlanItemTemplate
		var id, parent, photo, cost string
		if err := rows.Scan(&id, &parent, &item.Text, &item.URL, &cost, &item.PlanningDays, &photo); err != nil {
			return nil, fmt.Errorf("scanning experience item: %w", err)
		}
		item.ID, item.Parent, item.Photo = domain.ID(id), domain.ID(parent), domain.ID(photo)
		if item.CostEstimate, err = parseMoney(cost, "cost_estimate"); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating experience items: %w", err)
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanExperience scans the experience header; sql.ErrNoRows is returned unwrapped.
func scanExperience(row rowScanner) (*domain.Experience, error) {
	var e domain.Experience
	var id, createdAt, updatedAt string
	err := row.Scan(&id, &e.Name, &e.Destination, &e.OwnerID, &e.Version, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning experience: %w", err)
	}
	e.ID = domain.ID(id)
	if e.CreatedAt, e.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
