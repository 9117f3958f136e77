package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gokepelemo/biensperience/internal/app"
	"github.com/gokepelemo/biensperience/internal/db"
	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/gokepelemo/biensperience/internal/reconcile"
	"github.com/gokepelemo/biensperience/internal/repository"
)

type experienceService struct {
	experiences repository.ExperienceRepo
	uow         db.UnitOfWork
	observer    UseCaseObserver
}

func NewExperienceService(experiences repository.ExperienceRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ExperienceService {
	return &experienceService{
		experiences: experiences,
		uow:         uow,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *experienceService) Create(ctx context.Context, req app.CreateExperienceRequest) (exp *domain.Experience, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"name": req.Name}
	defer func() { observe(ctx, s.observer, useCaseCreateExperience, startedAt, fields, err) }()

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationErr("experience name is required")
	}
	if req.Owner == "" {
		return nil, forbidden("", "create an experience")
	}

	now := nowUTC()
	exp = &domain.Experience{
		ID:          domain.NewID(),
		Name:        name,
		Destination: strings.TrimSpace(req.Destination),
		OwnerID:     req.Owner,
		Items:       []domain.PlanItemTemplate{},
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err = s.experiences.Create(ctx, exp); err != nil {
		return nil, err
	}
	fields["experience_id"] = exp.ID.String()
	return exp, nil
}

func (s *experienceService) GetByID(ctx context.Context, id domain.ID) (*domain.Experience, error) {
	return s.experiences.GetByID(ctx, id)
}

func (s *experienceService) List(ctx context.Context) ([]*domain.Experience, error) {
	return s.experiences.List(ctx)
}

func (s *experienceService) UpdateDetails(ctx context.Context, id domain.ID, actor, name, destination string) (*domain.Experience, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationErr("experience name is required")
	}

	var updated *domain.Experience
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteExperienceRepo(tx)
		exp, err := loadOwnedExperience(ctx, repo, id, actor, "edit this experience")
		if err != nil {
			return err
		}
		exp.Name = name
		exp.Destination = strings.TrimSpace(destination)
		if err := repo.UpdateDetails(ctx, exp); err != nil {
			return err
		}
		updated = exp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *experienceService) AddItem(ctx context.Context, req app.AddTemplateItemRequest) (*domain.PlanItemTemplate, error) {
	item := domain.PlanItemTemplate{
		ID:           domain.NewID(),
		Text:         strings.TrimSpace(req.Text),
		URL:          strings.TrimSpace(req.URL),
		CostEstimate: req.CostEstimate,
		PlanningDays: req.PlanningDays,
		Photo:        req.Photo,
		Parent:       req.Parent,
	}
	if item.Text == "" {
		return nil, validationErr("item text is required")
	}
	if err := validateMoneyAndDays("item", item.CostEstimate, item.PlanningDays); err != nil {
		return nil, err
	}

	err := s.mutateItems(ctx, req.ExperienceID, req.Actor, func(items []domain.PlanItemTemplate) ([]domain.PlanItemTemplate, error) {
		return append(items, item), nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *experienceService) UpdateItem(ctx context.Context, req app.UpdateTemplateItemRequest) (*domain.PlanItemTemplate, error) {
	var updated domain.PlanItemTemplate
	err := s.mutateItems(ctx, req.ExperienceID, req.Actor, func(items []domain.PlanItemTemplate) ([]domain.PlanItemTemplate, error) {
		idx := -1
		for i := range items {
			if items[i].ID == req.ItemID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("item %s: %w", req.ItemID, domain.ErrNotFound)
		}

		it := &items[idx]
		if req.Text != nil {
			it.Text = strings.TrimSpace(*req.Text)
			if it.Text == "" {
				return nil, validationErr("item text is required")
			}
		}
		if req.URL != nil {
			it.URL = strings.TrimSpace(*req.URL)
		}
		if req.CostEstimate != nil {
			it.CostEstimate = *req.CostEstimate
		}
		if req.PlanningDays != nil {
			it.PlanningDays = *req.PlanningDays
		}
		if req.Photo != nil {
			it.Photo = *req.Photo
		}
		if req.Parent != nil {
			it.Parent = *req.Parent
			if !it.Parent.IsZero() && len(reconcile.IndexTemplates(items).Children(it.ID)) > 0 {
				return nil, validationErr("item %s has children and cannot become a child", it.ID)
			}
		}
		if err := validateMoneyAndDays("item", it.CostEstimate, it.PlanningDays); err != nil {
			return nil, err
		}
		updated = *it
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *experienceService) RemoveItem(ctx context.Context, experienceID, itemID domain.ID, actor string) ([]domain.ID, error) {
	var removed []domain.ID
	err := s.mutateItems(ctx, experienceID, actor, func(items []domain.PlanItemTemplate) ([]domain.PlanItemTemplate, error) {
		found := false
		for _, it := range items {
			if it.ID == itemID {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
		}

		drop := map[domain.ID]bool{itemID: true}
		removed = []domain.ID{itemID}
		for _, d := range reconcile.IndexTemplates(items).Descendants(itemID) {
			drop[d] = true
			removed = append(removed, d)
		}

		kept := make([]domain.PlanItemTemplate, 0, len(items))
		for _, it := range items {
			if !drop[it.ID] {
				kept = append(kept, it)
			}
		}
		return kept, nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func (s *experienceService) Delete(ctx context.Context, id domain.ID, actor string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteExperienceRepo(tx)
		if _, err := loadOwnedExperience(ctx, repo, id, actor, "delete this experience"); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
}

// mutateItems loads the experience in a transaction, lets fn rewrite a copy of
// its items and stores the result as the next version.
func (s *experienceService) mutateItems(ctx context.Context, id domain.ID, actor string, fn func([]domain.PlanItemTemplate) ([]domain.PlanItemTemplate, error)) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteExperienceRepo(tx)
		exp, err := loadOwnedExperience(ctx, repo, id, actor, "edit this experience")
		if err != nil {
			return err
		}

		items := make([]domain.PlanItemTemplate, len(exp.Items))
		copy(items, exp.Items)
		items, err = fn(items)
		if err != nil {
			return err
		}
		if err := validateTemplateParents(items); err != nil {
			return err
		}

		_, err = repo.ReplaceItems(ctx, exp.ID, exp.Version, items)
		return err
	})
}

func loadOwnedExperience(ctx context.Context, repo repository.ExperienceRepo, id domain.ID, actor, action string) (*domain.Experience, error) {
	exp, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == "" || exp.OwnerID != actor {
		return nil, forbidden(actor, action)
	}
	return exp, nil
}
