package repository

import (
	"context"

	"github.com/gokepelemo/biensperience/internal/domain"
)

type ExperienceRepo interface {
	Create(ctx context.Context, e *domain.Experience) error
	GetByID(ctx context.Context, id domain.ID) (*domain.Experience, error)
	List(ctx context.Context) ([]*domain.Experience, error)
	UpdateDetails(ctx context.Context, e *domain.Experience) error
	// ReplaceItems swaps the full template item list and returns the new version.
	ReplaceItems(ctx context.Context, id domain.ID, expectedVersion int64, items []domain.PlanItemTemplate) (int64, error)
	Delete(ctx context.Context, id domain.ID) error
}

type PlanRepo interface {
	Create(ctx context.Context, p *domain.Plan) error
	GetByID(ctx context.Context, id domain.ID) (*domain.Plan, error)
	// ListForUser returns plans owned by user or shared with them.
	ListForUser(ctx context.Context, user string) ([]*domain.Plan, error)
	ListByExperience(ctx context.Context, experienceID domain.ID) ([]*domain.Plan, error)
	// ReplaceItems swaps the full instance list and returns the new version.
	ReplaceItems(ctx context.Context, id domain.ID, expectedVersion int64, items []domain.PlanItemInstance) (int64, error)
	UpdatePlannedDate(ctx context.Context, p *domain.Plan) error
	AddCollaborator(ctx context.Context, planID domain.ID, user string) error
	RemoveCollaborator(ctx context.Context, planID domain.ID, user string) error
	Delete(ctx context.Context, id domain.ID) error
}
