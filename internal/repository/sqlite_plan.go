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

// SQLitePlanRepo implements PlanRepo using a SQLite database.
type SQLitePlanRepo struct {
	db db.DBTX
}

// NewSQLitePlanRepo creates a new SQLitePlanRepo.
func NewSQLitePlanRepo(db db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: db}
}

const planColumns = `id, experience_id, owner_id, planned_date, version, created_at, updated_at`

func (r *SQLitePlanRepo) Create(ctx context.Context, p *domain.Plan) error {
	if p.Version == 0 {
		p.Version = 1
	}
	query := `INSERT INTO plans (` + planColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		string(p.ID),
		string(p.ExperienceID),
		p.OwnerID,
		nullableTimeToString(p.PlannedDate, dateLayout),
		p.Version,
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}
	if err := r.insertItems(ctx, p.ID, p.Items); err != nil {
		return err
	}
	for _, user := range p.Collaborators {
		if err := r.AddCollaborator(ctx, p.ID, user); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLitePlanRepo) GetByID(ctx context.Context, id domain.ID) (*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = ?`
	p, err := scanPlan(r.db.QueryRowContext(ctx, query, string(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("plan %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := r.hydrate(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *SQLitePlanRepo) ListForUser(ctx context.Context, user string) ([]*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans
		WHERE owner_id = ?
		   OR id IN (SELECT plan_id FROM plan_collaborators WHERE user_id = ?)
		ORDER BY created_at, id`
	return r.list(ctx, query, user, user)
}

func (r *SQLitePlanRepo) ListByExperience(ctx context.Context, experienceID domain.ID) ([]*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE experience_id = ? ORDER BY created_at, id`
	return r.list(ctx, query, string(experienceID))
}

func (r *SQLitePlanRepo) ReplaceItems(ctx context.Context, id domain.ID, expectedVersion int64, items []domain.PlanItemInstance) (int64, error) {
	version, err := bumpVersion(ctx, r.db, "plans", string(id), expectedVersion)
	if err != nil {
		return 0, err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM plan_items WHERE plan_id = ?`, string(id)); err != nil {
		return 0, fmt.Errorf("clearing plan items: %w", err)
	}
	if err := r.insertItems(ctx, id, items); err != nil {
		return 0, err
	}
	return version, nil
}

func (r *SQLitePlanRepo) UpdatePlannedDate(ctx context.Context, p *domain.Plan) error {
	version, err := bumpVersion(ctx, r.db, "plans", string(p.ID), p.Version)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `UPDATE plans SET planned_date = ? WHERE id = ?`,
		nullableTimeToString(p.PlannedDate, dateLayout), string(p.ID))
	if err != nil {
		return fmt.Errorf("updating planned date: %w", err)
	}
	p.Version = version
	return nil
}

func (r *SQLitePlanRepo) AddCollaborator(ctx context.Context, planID domain.ID, user string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO plan_collaborators (plan_id, user_id, added_at) VALUES (?, ?, ?)`,
		string(planID), user, nowUTC())
	if err != nil {
		return fmt.Errorf("adding collaborator: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) RemoveCollaborator(ctx context.Context, planID domain.ID, user string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM plan_collaborators WHERE plan_id = ? AND user_id = ?`, string(planID), user)
	if err != nil {
		return fmt.Errorf("removing collaborator: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) Delete(ctx context.Context, id domain.ID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("plan %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *SQLitePlanRepo) list(ctx context.Context, query string, args ...any) ([]*domain.Plan, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}

	plans := []*domain.Plan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating plans: %w", err)
	}
	rows.Close()

	for _, p := range plans {
		if err := r.hydrate(ctx, p); err != nil {
			return nil, err
		}
	}
	return plans, nil
}

// hydrate loads the item list and collaborators of a scanned plan header.
func (r *SQLitePlanRepo) hydrate(ctx context.Context, p *domain.Plan) error {
	var err error
	if p.Items, err = r.listItems(ctx, p.ID); err != nil {
		return err
	}
	p.Collaborators, err = r.listCollaborators(ctx, p.ID)
	return err
}

func (r *SQLitePlanRepo) insertItems(ctx context.Context, planID domain.ID, items []domain.PlanItemInstance) error {
	query := `INSERT INTO plan_items (id, plan_id, plan_item_id, parent_id, text, url, cost, planning_days, photo, complete, order_index)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i, item := range items {
		_, err := r.db.ExecContext(ctx, query,
			string(item.ID),
			string(planID),
			string(item.PlanItemID),
			string(item.Parent),
			item.Text,
			item.URL,
			item.Cost.String(),
			item.PlanningDays,
			string(item.Photo),
			boolToInt(item.Complete),
			i,
		)
		if err != nil {
			return fmt.Errorf("inserting plan item %q: %w", item.Text, err)
		}
	}
	return nil
}

func (r *SQLitePlanRepo) listItems(ctx context.Context, planID domain.ID) ([]domain.PlanItemInstance, error) {
	query := `SELECT id, plan_item_id, parent_id, text, url, cost, planning_days, photo, complete
		FROM plan_items WHERE plan_id = ? ORDER BY order_index`
	rows, err := r.db.QueryContext(ctx, query, string(planID))
	if err != nil {
		return nil, fmt.Errorf("listing plan items: %w", err)
	}
	defer rows.Close()

	items := []domain.PlanItemInstance{}
	for rows.Next() {
		var item domain.PlanItemInstance
		var id, ref, parent, photo, cost string
		var complete int
		if err := rows.Scan(&id, &ref, &parent, &item.Text, &item.URL, &cost, &item.PlanningDays, &photo, &complete); err != nil {
			return nil, fmt.Errorf("scanning plan item: %w", err)
		}
		item.ID, item.PlanItemID = domain.ID(id), domain.ID(ref)
		item.Parent, item.Photo = domain.ID(parent), domain.ID(photo)
		item.Complete = intToBool(complete)
		if item.Cost, err = parseMoney(cost, "cost"); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plan items: %w", err)
	}
	return items, nil
}

func (r *SQLitePlanRepo) listCollaborators(ctx context.Context, planID domain.ID) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM plan_collaborators WHERE plan_id = ? ORDER BY added_at, user_id`, string(planID))
	if err != nil {
		return nil, fmt.Errorf("listing collaborators: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scanning collaborator: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating collaborators: %w", err)
	}
	return users, nil
}

// scanPlan scans the plan header; sql.ErrNoRows is returned unwrapped.
func scanPlan(row rowScanner) (*domain.Plan, error) {
	var p domain.Plan
	var id, experienceID, createdAt, updatedAt string
	var plannedDate sql.NullString
	err := row.Scan(&id, &experienceID, &p.OwnerID, &plannedDate, &p.Version, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning plan: %w", err)
	}
	p.ID, p.ExperienceID = domain.ID(id), domain.ID(experienceID)
	p.PlannedDate = parseNullableTime(plannedDate, dateLayout)
	if p.CreatedAt, p.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
