package reconcile

import (
	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/shopspring/decimal"
)

func tmplItem(id, text string, cost int64, days int) domain.PlanItemTemplate {
	return domain.PlanItemTemplate{
		ID:           domain.ID(id),
		Text:         text,
		CostEstimate: decimal.NewFromInt(cost),
		PlanningDays: days,
	}
}

func instItem(id, ref, text string, cost int64, days int, complete bool) domain.PlanItemInstance {
	return domain.PlanItemInstance{
		ID:           domain.ID(id),
		PlanItemID:   domain.ID(ref),
		Text:         text,
		Cost:         decimal.NewFromInt(cost),
		PlanningDays: days,
		Complete:     complete,
	}
}

func experienceOf(items ...domain.PlanItemTemplate) *domain.Experience {
	if items == nil {
		items = []domain.PlanItemTemplate{}
	}
	return &domain.Experience{ID: "exp", Items: items}
}

func planOf(items ...domain.PlanItemInstance) *domain.Plan {
	if items == nil {
		items = []domain.PlanItemInstance{}
	}
	return &domain.Plan{ID: "plan", ExperienceID: "exp", Items: items}
}

// inSync returns an experience and a plan whose items match exactly.
func inSync() (*domain.Experience, *domain.Plan) {
	exp := experienceOf(
		tmplItem("t1", "Book flight", 500, 30),
		tmplItem("t2", "Reserve hotel", 250, 14),
		tmplItem("t3", "Museum pass", 40, 2),
	)
	plan := planOf(
		instItem("i1", "t1", "Book flight", 500, 30, true),
		instItem("i2", "t2", "Reserve hotel", 250, 14, false),
		instItem("i3", "t3", "Museum pass", 40, 2, false),
	)
	return exp, plan
}
