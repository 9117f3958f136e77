package service

import (
	"context"
	"time"

	"github.com/gokepelemo/biensperience/internal/app"
	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/gokepelemo/biensperience/internal/importer"
)

// Use-case names reported to observers.
const (
	useCaseCreateExperience = "create-experience"
	useCaseImportExperience = "import-experience"
	useCaseCreatePlan       = "create-plan"
	useCaseReplacePlanItems = "replace-plan-items"
	useCaseCheckDivergence  = "check-divergence"
	useCasePreviewChangeset = "preview-changeset"
	useCaseApplySync        = "apply-sync"
)

type ExperienceService interface {
	Create(ctx context.Context, req app.CreateExperienceRequest) (*domain.Experience, error)
	GetByID(ctx context.Context, id domain.ID) (*domain.Experience, error)
	List(ctx context.Context) ([]*domain.Experience, error)
	UpdateDetails(ctx context.Context, id domain.ID, actor, name, destination string) (*domain.Experience, error)
	AddItem(ctx context.Context, req app.AddTemplateItemRequest) (*domain.PlanItemTemplate, error)
	UpdateItem(ctx context.Context, req app.UpdateTemplateItemRequest) (*domain.PlanItemTemplate, error)
	// RemoveItem deletes the item and its descendants and returns every removed id.
	RemoveItem(ctx context.Context, experienceID, itemID domain.ID, actor string) ([]domain.ID, error)
	Delete(ctx context.Context, id domain.ID, actor string) error
}

type PlanService interface {
	CreateFromExperience(ctx context.Context, req app.CreatePlanRequest) (*domain.Plan, error)
	GetByID(ctx context.Context, id domain.ID) (*domain.Plan, error)
	View(ctx context.Context, id domain.ID) (*app.PlanView, error)
	ListForUser(ctx context.Context, user string) ([]*domain.Plan, error)
	UpdateItem(ctx context.Context, req app.UpdatePlanItemRequest) (*domain.Plan, error)
	ReplaceItems(ctx context.Context, req app.ReplacePlanItemsRequest) (*domain.Plan, error)
	SetPlannedDate(ctx context.Context, id domain.ID, actor string, date *time.Time) (*domain.Plan, error)
	AddCollaborator(ctx context.Context, id domain.ID, actor, user string) error
	RemoveCollaborator(ctx context.Context, id domain.ID, actor, user string) error
	Delete(ctx context.Context, id domain.ID, actor string) error
}

type SyncService interface {
	CheckDivergence(ctx context.Context, planID domain.ID) (*app.DivergenceReport, error)
	PreviewChangeset(ctx context.Context, planID domain.ID) (*app.ChangesetPreview, error)
	ApplySync(ctx context.Context, req app.ApplySyncRequest) (*app.ApplySyncResponse, error)
}

type ImportService interface {
	ImportExperience(ctx context.Context, filePath string, owner string) (*app.ImportResult, error)
	ImportExperienceFromSchema(ctx context.Context, schema *importer.ImportSchema, owner string) (*app.ImportResult, error)
	ExportExperience(ctx context.Context, id domain.ID, format importer.Format) ([]byte, error)
}

var (
	_ app.CheckDivergenceUseCase  = (SyncService)(nil)
	_ app.PreviewChangesetUseCase = (SyncService)(nil)
	_ app.ApplySyncUseCase        = (SyncService)(nil)
	_ app.ReplacePlanItemsUseCase = (PlanService)(nil)
	_ app.ImportExperienceUseCase = (ImportService)(nil)
)
