package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gokepelemo/biensperience/internal/app"
	"github.com/gokepelemo/biensperience/internal/db"
	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/gokepelemo/biensperience/internal/importer"
	"github.com/gokepelemo/biensperience/internal/repository"
)

type importService struct {
	experiences repository.ExperienceRepo
	uow         db.UnitOfWork
	observer    UseCaseObserver
}

func NewImportService(experiences repository.ExperienceRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{
		experiences: experiences,
		uow:         uow,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportExperience(ctx context.Context, filePath string, owner string) (*app.ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportExperienceFromSchema(ctx, schema, owner)
}

func (s *importService) ImportExperienceFromSchema(ctx context.Context, schema *importer.ImportSchema, owner string) (result *app.ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"name": schema.Experience.Name}
	defer func() { observe(ctx, s.observer, useCaseImportExperience, startedAt, fields, err) }()

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	exp, err := importer.Convert(schema, owner)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}
	if exp.OwnerID == "" {
		return nil, forbidden("", "import an experience")
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteExperienceRepo(tx).Create(ctx, exp)
	})
	if err != nil {
		return nil, fmt.Errorf("creating experience: %w", err)
	}

	fields["experience_id"] = exp.ID.String()
	fields["item_count"] = len(exp.Items)
	return &app.ImportResult{Experience: exp, ItemCount: len(exp.Items)}, nil
}

func (s *importService) ExportExperience(ctx context.Context, id domain.ID, format importer.Format) ([]byte, error) {
	exp, err := s.experiences.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return importer.FromExperience(exp).Marshal(format)
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
}
