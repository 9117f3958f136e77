package testutil

import (
	"time"

	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/shopspring/decimal"
)

// TestOwner is the default owner for fixture experiences and plans.
const TestOwner = "ada"

// now is truncated to seconds because timestamps are stored as RFC3339.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// Template item options
type TemplateOption func(*domain.PlanItemTemplate)

func WithURL(u string) TemplateOption {
	return func(t *domain.PlanItemTemplate) {
		t.URL = u
	}
}

func WithCostEstimate(c string) TemplateOption {
	return func(t *domain.PlanItemTemplate) {
		t.CostEstimate = decimal.RequireFromString(c)
	}
}

func WithPlanningDays(d int) TemplateOption {
	return func(t *domain.PlanItemTemplate) {
		t.PlanningDays = d
	}
}

func WithPhoto(id domain.ID) TemplateOption {
	return func(t *domain.PlanItemTemplate) {
		t.Photo = id
	}
}

func WithParent(id domain.ID) TemplateOption {
	return func(t *domain.PlanItemTemplate) {
		t.Parent = id
	}
}

func NewTestTemplateItem(id domain.ID, text string, opts ...TemplateOption) domain.PlanItemTemplate {
	t := domain.PlanItemTemplate{
		ID:           id,
		Text:         text,
		CostEstimate: decimal.Zero,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// Experience options
type ExperienceOption func(*domain.Experience)

func WithItems(items ...domain.PlanItemTemplate) ExperienceOption {
	return func(e *domain.Experience) {
		e.Items = items
	}
}

func WithDestination(d string) ExperienceOption {
	return func(e *domain.Experience) {
		e.Destination = d
	}
}

func WithExperienceOwner(owner string) ExperienceOption {
	return func(e *domain.Experience) {
		e.OwnerID = owner
	}
}

func NewTestExperience(name string, opts ...ExperienceOption) *domain.Experience {
	ts := now()
	e := &domain.Experience{
		ID:        domain.NewID(),
		Name:      name,
		OwnerID:   TestOwner,
		Items:     []domain.PlanItemTemplate{},
		Version:   1,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Plan options
type PlanOption func(*domain.Plan)

func WithPlanOwner(owner string) PlanOption {
	return func(p *domain.Plan) {
		p.OwnerID = owner
	}
}

func WithCollaborators(users ...string) PlanOption {
	return func(p *domain.Plan) {
		p.Collaborators = users
	}
}

func WithPlannedDate(d time.Time) PlanOption {
	return func(p *domain.Plan) {
		p.PlannedDate = &d
	}
}

// WithInstances replaces the cloned items.
func WithInstances(items ...domain.PlanItemInstance) PlanOption {
	return func(p *domain.Plan) {
		p.Items = items
	}
}

// WithItemEdit mutates the cloned instance of the given template item.
func WithItemEdit(templateID domain.ID, edit func(*domain.PlanItemInstance)) PlanOption {
	return func(p *domain.Plan) {
		for i := range p.Items {
			if p.Items[i].PlanItemID == templateID {
				edit(&p.Items[i])
			}
		}
	}
}

// NewTestPlan clones every template item of e into a fresh plan.
func NewTestPlan(e *domain.Experience, opts ...PlanOption) *domain.Plan {
	ts := now()
	p := &domain.Plan{
		ID:           domain.NewID(),
		ExperienceID: e.ID,
		OwnerID:      TestOwner,
		Items:        make([]domain.PlanItemInstance, 0, len(e.Items)),
		Version:      1,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	for _, t := range e.Items {
		p.Items = append(p.Items, domain.NewInstanceFromTemplate(t))
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
