package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanItemTemplate is one item of an experience's canonical plan. It is
// owned by the experience owner and read-only to plan holders.
type PlanItemTemplate struct {
	ID           ID              `json:"_id"`
	Text         string          `json:"text"`
	URL          string          `json:"url,omitempty"`
	CostEstimate decimal.Decimal `json:"cost_estimate"`
	PlanningDays int             `json:"planning_days"`
	Photo        ID              `json:"photo,omitempty"`
	Parent       ID              `json:"parent,omitempty"`
}

type Experience struct {
	ID          ID                 `json:"_id"`
	Name        string             `json:"name"`
	Destination string             `json:"destination,omitempty"`
	OwnerID     string             `json:"user"`
	Items       []PlanItemTemplate `json:"plan_items"`
	Version     int64              `json:"version"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// FindItem returns the template item with the given id.
func (e *Experience) FindItem(id ID) (*PlanItemTemplate, bool) {
	for i := range e.Items {
		if e.Items[i].ID == id {
			return &e.Items[i], true
		}
	}
	return nil, false
}

// TotalCostEstimate sums the cost estimate of every template item.
func (e *Experience) TotalCostEstimate() decimal.Decimal {
	total := decimal.Zero
	for _, item := range e.Items {
		total = total.Add(item.CostEstimate)
	}
	return total
}
