package app

import (
	"context"

	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/gokepelemo/biensperience/internal/importer"
)

type CheckDivergenceUseCase interface {
	CheckDivergence(ctx context.Context, planID domain.ID) (*DivergenceReport, error)
}

type PreviewChangesetUseCase interface {
	PreviewChangeset(ctx context.Context, planID domain.ID) (*ChangesetPreview, error)
}

type ApplySyncUseCase interface {
	ApplySync(ctx context.Context, req ApplySyncRequest) (*ApplySyncResponse, error)
}

type ReplacePlanItemsUseCase interface {
	ReplaceItems(ctx context.Context, req ReplacePlanItemsRequest) (*domain.Plan, error)
}

type ImportExperienceUseCase interface {
	ImportExperience(ctx context.Context, filePath string, owner string) (*ImportResult, error)
	ImportExperienceFromSchema(ctx context.Context, schema *importer.ImportSchema, owner string) (*ImportResult, error)
}
