package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanItemInstance is one item of a user's plan. PlanItemID references the
// PlanItemTemplate it was cloned from. Complete and Cost are the fields a
// plan holder diverges on intentionally.
type PlanItemInstance struct {
	ID           ID              `json:"_id"`
	PlanItemID   ID              `json:"plan_item_id"`
	Text         string          `json:"text"`
	URL          string          `json:"url,omitempty"`
	Cost         decimal.Decimal `json:"cost"`
	PlanningDays int             `json:"planning_days"`
	Photo        ID              `json:"photo,omitempty"`
	Parent       ID              `json:"parent,omitempty"`
	Complete     bool            `json:"complete"`
}

type Plan struct {
	ID            ID                 `json:"_id"`
	ExperienceID  ID                 `json:"experience"`
	OwnerID       string             `json:"user"`
	Collaborators []string           `json:"collaborators,omitempty"`
	Items         []PlanItemInstance `json:"plan"`
	PlannedDate   *time.Time         `json:"planned_date,omitempty"`
	Version       int64              `json:"version"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// NewInstanceFromTemplate clones a template item into a fresh, incomplete
// plan item whose cost is seeded from the template's estimate.
func NewInstanceFromTemplate(t PlanItemTemplate) PlanItemInstance {
	return PlanItemInstance{
		ID:           NewID(),
		PlanItemID:   t.ID,
		Text:         t.Text,
		URL:          t.URL,
		Cost:         t.CostEstimate,
		PlanningDays: t.PlanningDays,
		Photo:        t.Photo,
		Parent:       t.Parent,
		Complete:     false,
	}
}

// FindItem returns the instance with the given instance id.
func (p *Plan) FindItem(id ID) (*PlanItemInstance, bool) {
	for i := range p.Items {
		if p.Items[i].ID == id {
			return &p.Items[i], true
		}
	}
	return nil, false
}

// CanEdit reports whether user may change the plan's items.
func (p *Plan) CanEdit(user string) bool {
	if user == "" {
		return false
	}
	if p.OwnerID == user {
		return true
	}
	for _, c := range p.Collaborators {
		if c == user {
			return true
		}
	}
	return false
}

// IsCollaborator reports whether user is listed as a collaborator.
func (p *Plan) IsCollaborator(user string) bool {
	for _, c := range p.Collaborators {
		if c == user {
			return true
		}
	}
	return false
}

// TotalCost sums the actual cost of every item.
func (p *Plan) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, item := range p.Items {
		total = total.Add(item.Cost)
	}
	return total
}

// CompletionPercentage returns the share of completed items, 0-100,
// rounded down to a whole percent. An empty plan is 0% complete.
func (p *Plan) CompletionPercentage() int {
	if len(p.Items) == 0 {
		return 0
	}
	done := 0
	for _, item := range p.Items {
		if item.Complete {
			done++
		}
	}
	return done * 100 / len(p.Items)
}

// MaxDays returns the longest planning lead time among the items.
func (p *Plan) MaxDays() int {
	max := 0
	for _, item := range p.Items {
		if item.PlanningDays > max {
			max = item.PlanningDays
		}
	}
	return max
}
