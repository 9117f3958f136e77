package service

import (
	"fmt"
	"time"

	"github.com/gokepelemo/biensperience/internal/app"
	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/gokepelemo/biensperience/internal/reconcile"
	"github.com/gokepelemo/biensperience/internal/scheduler"
	"github.com/shopspring/decimal"
)

func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, fmt.Sprintf(format, args...))
}

func forbidden(actor, action string) error {
	if actor == "" {
		return fmt.Errorf("%w: %s requires an acting user", domain.ErrForbidden, action)
	}
	return fmt.Errorf("%w: %s may not %s", domain.ErrForbidden, actor, action)
}

func validateMoneyAndDays(what string, cost decimal.Decimal, days int) error {
	if cost.IsNegative() {
		return validationErr("%s cost must not be negative", what)
	}
	if days < 0 {
		return validationErr("%s planning_days must not be negative", what)
	}
	return nil
}

// validateTemplateParents enforces that parents exist, are not the item
// itself and nest one level deep.
func validateTemplateParents(items []domain.PlanItemTemplate) error {
	byID := make(map[domain.ID]domain.PlanItemTemplate, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	for _, it := range items {
		if it.Parent.IsZero() {
			continue
		}
		if it.Parent == it.ID {
			return validationErr("item %s cannot be its own parent", it.ID)
		}
		parent, ok := byID[it.Parent]
		if !ok {
			return validationErr("item %s references unknown parent %s", it.ID, it.Parent)
		}
		if !parent.Parent.IsZero() {
			return validationErr("item %s: parent %s is itself a child", it.ID, it.Parent)
		}
	}
	return nil
}

// validatePlanItems checks a full replacement list.
func validatePlanItems(items []domain.PlanItemInstance) error {
	seen := make(map[domain.ID]bool, len(items))
	refs := make(map[domain.ID]bool, len(items))
	for i, it := range items {
		if it.ID.IsZero() {
			return validationErr("plan[%d] has no _id", i)
		}
		if seen[it.ID] {
			return validationErr("plan[%d] duplicates _id %s", i, it.ID)
		}
		seen[it.ID] = true
		if it.PlanItemID.IsZero() {
			return validationErr("plan[%d] has no plan_item_id", i)
		}
		// Sync pairs each template with one instance.
		if refs[it.PlanItemID] {
			return validationErr("plan[%d] duplicates plan_item_id %s", i, it.PlanItemID)
		}
		refs[it.PlanItemID] = true
		if it.Text == "" {
			return validationErr("plan[%d] has no text", i)
		}
		if err := validateMoneyAndDays(fmt.Sprintf("plan[%d]", i), it.Cost, it.PlanningDays); err != nil {
			return err
		}
	}
	return nil
}

func planView(plan *domain.Plan, exp *domain.Experience, now time.Time) *app.PlanView {
	return &app.PlanView{
		Plan:           plan,
		ExperienceName: exp.Name,
		TotalCost:      plan.TotalCost(),
		CompletionPct:  plan.CompletionPercentage(),
		MaxDays:        plan.MaxDays(),
		Diverged:       reconcile.HasDiverged(plan, exp),
		Readiness: scheduler.ComputeRisk(scheduler.RiskInput{
			Now:         now,
			PlannedDate: plan.PlannedDate,
			Items:       plan.Items,
		}),
	}
}
