package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gokepelemo/biensperience/internal/app"
	"github.com/gokepelemo/biensperience/internal/db"
	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/gokepelemo/biensperience/internal/reconcile"
	"github.com/gokepelemo/biensperience/internal/repository"
)

type syncService struct {
	plans       repository.PlanRepo
	experiences repository.ExperienceRepo
	uow         db.UnitOfWork
	observer    UseCaseObserver
}

func NewSyncService(
	plans repository.PlanRepo,
	experiences repository.ExperienceRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) SyncService {
	return &syncService{
		plans:       plans,
		experiences: experiences,
		uow:         uow,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *syncService) CheckDivergence(ctx context.Context, planID domain.ID) (report *app.DivergenceReport, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"plan_id": planID.String()}
	defer func() { observe(ctx, s.observer, useCaseCheckDivergence, startedAt, fields, err) }()

	plan, exp, err := s.load(ctx, s.plans, s.experiences, planID)
	if err != nil {
		return nil, err
	}
	report = &app.DivergenceReport{
		PlanID:            plan.ID,
		ExperienceID:      exp.ID,
		Diverged:          reconcile.HasDiverged(plan, exp),
		PlanVersion:       plan.Version,
		ExperienceVersion: exp.Version,
	}
	fields["diverged"] = report.Diverged
	return report, nil
}

func (s *syncService) PreviewChangeset(ctx context.Context, planID domain.ID) (preview *app.ChangesetPreview, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"plan_id": planID.String()}
	defer func() { observe(ctx, s.observer, useCasePreviewChangeset, startedAt, fields, err) }()

	plan, exp, err := s.load(ctx, s.plans, s.experiences, planID)
	if err != nil {
		return nil, err
	}
	cs, err := reconcile.ComputeChangeset(plan, exp)
	if err != nil {
		return nil, err
	}
	fields["added"], fields["removed"], fields["modified"] = len(cs.Added), len(cs.Removed), len(cs.Modified)
	return &app.ChangesetPreview{
		PlanID:            plan.ID,
		ExperienceID:      exp.ID,
		PlanVersion:       plan.Version,
		ExperienceVersion: exp.Version,
		Changes:           cs,
	}, nil
}

// ApplySync recomputes the changeset inside a transaction and applies the
// selection only when both snapshots are still at the versions the caller
// previewed, so indices cannot drift onto different entries.
func (s *syncService) ApplySync(ctx context.Context, req app.ApplySyncRequest) (resp *app.ApplySyncResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"plan_id":            req.PlanID.String(),
		"actor":              req.Actor,
		"plan_version":       req.PlanVersion,
		"experience_version": req.ExperienceVersion,
	}
	defer func() { observe(ctx, s.observer, useCaseApplySync, startedAt, fields, err) }()

	sel := req.Selection.Normalize()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		plans := repository.NewSQLitePlanRepo(tx)
		plan, exp, err := s.load(ctx, plans, repository.NewSQLiteExperienceRepo(tx), req.PlanID)
		if err != nil {
			return err
		}
		if !plan.CanEdit(req.Actor) {
			return forbidden(req.Actor, "sync this plan")
		}
		if plan.Version != req.PlanVersion || exp.Version != req.ExperienceVersion {
			return fmt.Errorf("%w: previewed plan v%d / experience v%d, now at v%d / v%d",
				domain.ErrVersionConflict, req.PlanVersion, req.ExperienceVersion, plan.Version, exp.Version)
		}

		cs, err := reconcile.ComputeChangeset(plan, exp)
		if err != nil {
			return err
		}
		items, err := reconcile.ApplyChangeset(plan, cs, sel)
		if err != nil {
			return err
		}

		resp = &app.ApplySyncResponse{
			Plan: plan,
			Applied: app.AppliedCounts{
				Added:    len(sel.Added),
				Removed:  len(sel.Removed),
				Modified: len(sel.Modified),
			},
		}
		if sel.IsEmpty() {
			return nil
		}
		if plan.Version, err = plans.ReplaceItems(ctx, plan.ID, plan.Version, items); err != nil {
			return err
		}
		plan.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["applied_added"] = resp.Applied.Added
	fields["applied_removed"] = resp.Applied.Removed
	fields["applied_modified"] = resp.Applied.Modified
	return resp, nil
}

func (s *syncService) load(ctx context.Context, plans repository.PlanRepo, experiences repository.ExperienceRepo, planID domain.ID) (*domain.Plan, *domain.Experience, error) {
	plan, err := plans.GetByID(ctx, planID)
	if err != nil {
		return nil, nil, err
	}
	exp, err := experiences.GetByID(ctx, plan.ExperienceID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading experience for plan %s: %w", planID, err)
	}
	return plan, exp, nil
}
