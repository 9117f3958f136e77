package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gokepelemo/biensperience/internal/app"
	"github.com/gokepelemo/biensperience/internal/db"
	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/gokepelemo/biensperience/internal/repository"
)

type planService struct {
	plans       repository.PlanRepo
	experiences repository.ExperienceRepo
	uow         db.UnitOfWork
	observer    UseCaseObserver
}

func NewPlanService(
	plans repository.PlanRepo,
	experiences repository.ExperienceRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) PlanService {
	return &planService{
		plans:       plans,
		experiences: experiences,
		uow:         uow,
		observer:    useCaseObserverOrNoop(observers),
	}
}

// CreateFromExperience clones every template item into a new plan. A user
// holds at most one plan per experience.
func (s *planService) CreateFromExperience(ctx context.Context, req app.CreatePlanRequest) (plan *domain.Plan, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"experience_id": req.ExperienceID.String(), "owner": req.Owner}
	defer func() { observe(ctx, s.observer, useCaseCreatePlan, startedAt, fields, err) }()

	if req.Owner == "" {
		return nil, forbidden("", "create a plan")
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		exps := repository.NewSQLiteExperienceRepo(tx)
		plans := repository.NewSQLitePlanRepo(tx)

		exp, err := exps.GetByID(ctx, req.ExperienceID)
		if err != nil {
			return err
		}
		existing, err := plans.ListByExperience(ctx, exp.ID)
		if err != nil {
			return err
		}
		for _, p := range existing {
			if p.OwnerID == req.Owner {
				return fmt.Errorf("%w: %s already has plan %s for this experience", domain.ErrAlreadyExists, req.Owner, p.ID)
			}
		}

		now := nowUTC()
		plan = &domain.Plan{
			ID:           domain.NewID(),
			ExperienceID: exp.ID,
			OwnerID:      req.Owner,
			Items:        make([]domain.PlanItemInstance, 0, len(exp.Items)),
			PlannedDate:  req.PlannedDate,
			Version:      1,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		for _, t := range exp.Items {
			plan.Items = append(plan.Items, domain.NewInstanceFromTemplate(t))
		}
		return plans.Create(ctx, plan)
	})
	if err != nil {
		return nil, err
	}
	fields["plan_id"] = plan.ID.String()
	fields["item_count"] = len(plan.Items)
	return plan, nil
}

func (s *planService) GetByID(ctx context.Context, id domain.ID) (*domain.Plan, error) {
	return s.plans.GetByID(ctx, id)
}

func (s *planService) View(ctx context.Context, id domain.ID) (*app.PlanView, error) {
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	exp, err := s.experiences.GetByID(ctx, plan.ExperienceID)
	if err != nil {
		return nil, err
	}
	return planView(plan, exp, nowUTC()), nil
}

func (s *planService) ListForUser(ctx context.Context, user string) ([]*domain.Plan, error) {
	return s.plans.ListForUser(ctx, user)
}

func (s *planService) UpdateItem(ctx context.Context, req app.UpdatePlanItemRequest) (*domain.Plan, error) {
	if req.Cost != nil && req.Cost.IsNegative() {
		return nil, validationErr("cost must not be negative")
	}

	var updated *domain.Plan
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLitePlanRepo(tx)
		plan, err := loadEditablePlan(ctx, repo, req.PlanID, req.Actor)
		if err != nil {
			return err
		}

		item, ok := plan.FindItem(req.ItemID)
		if !ok {
			return fmt.Errorf("plan item %s: %w", req.ItemID, domain.ErrNotFound)
		}
		if req.Complete != nil {
			item.Complete = *req.Complete
		}
		if req.Cost != nil {
			item.Cost = *req.Cost
		}

		if plan.Version, err = repo.ReplaceItems(ctx, plan.ID, plan.Version, plan.Items); err != nil {
			return err
		}
		updated = plan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ReplaceItems stores a full item list, rejecting the write when the plan
// moved past req.ExpectedVersion.
func (s *planService) ReplaceItems(ctx context.Context, req app.ReplacePlanItemsRequest) (plan *domain.Plan, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"plan_id":          req.PlanID.String(),
		"expected_version": req.ExpectedVersion,
		"item_count":       len(req.Items),
	}
	defer func() { observe(ctx, s.observer, useCaseReplacePlanItems, startedAt, fields, err) }()

	items := req.Items
	if items == nil {
		items = []domain.PlanItemInstance{}
	}
	if err = validatePlanItems(items); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLitePlanRepo(tx)
		p, err := loadEditablePlan(ctx, repo, req.PlanID, req.Actor)
		if err != nil {
			return err
		}
		if p.Version, err = repo.ReplaceItems(ctx, p.ID, req.ExpectedVersion, items); err != nil {
			return err
		}
		p.Items = items
		plan = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["version"] = plan.Version
	return plan, nil
}

func (s *planService) SetPlannedDate(ctx context.Context, id domain.ID, actor string, date *time.Time) (*domain.Plan, error) {
	var updated *domain.Plan
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLitePlanRepo(tx)
		plan, err := loadEditablePlan(ctx, repo, id, actor)
		if err != nil {
			return err
		}
		plan.PlannedDate = date
		if err := repo.UpdatePlannedDate(ctx, plan); err != nil {
			return err
		}
		updated = plan
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *planService) AddCollaborator(ctx context.Context, id domain.ID, actor, user string) error {
	if user == "" {
		return validationErr("collaborator user is required")
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLitePlanRepo(tx)
		plan, err := loadOwnedPlan(ctx, repo, id, actor, "share this plan")
		if err != nil {
			return err
		}
		if user == plan.OwnerID {
			return validationErr("%s already owns this plan", user)
		}
		return repo.AddCollaborator(ctx, id, user)
	})
}

func (s *planService) RemoveCollaborator(ctx context.Context, id domain.ID, actor, user string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLitePlanRepo(tx)
		plan, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		// Collaborators may leave on their own.
		if actor != plan.OwnerID && actor != user {
			return forbidden(actor, "remove collaborators")
		}
		if !plan.IsCollaborator(user) {
			return fmt.Errorf("collaborator %s: %w", user, domain.ErrNotFound)
		}
		return repo.RemoveCollaborator(ctx, id, user)
	})
}

func (s *planService) Delete(ctx context.Context, id domain.ID, actor string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLitePlanRepo(tx)
		if _, err := loadOwnedPlan(ctx, repo, id, actor, "delete this plan"); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
}

func loadEditablePlan(ctx context.Context, repo repository.PlanRepo, id domain.ID, actor string) (*domain.Plan, error) {
	plan, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !plan.CanEdit(actor) {
		return nil, forbidden(actor, "edit this plan")
	}
	return plan, nil
}

func loadOwnedPlan(ctx context.Context, repo repository.PlanRepo, id domain.ID, actor, action string) (*domain.Plan, error) {
	plan, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == "" || plan.OwnerID != actor {
		return nil, forbidden(actor, action)
	}
	return plan, nil
}
