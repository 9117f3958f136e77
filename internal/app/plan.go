package app

import (
	"time"

	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/gokepelemo/biensperience/internal/scheduler"
	"github.com/shopspring/decimal"
)

type CreatePlanRequest struct {
	ExperienceID domain.ID
	Owner        string
	PlannedDate  *time.Time
}

// UpdatePlanItemRequest changes the plan-holder fields of one item. Nil
// fields are left alone.
type UpdatePlanItemRequest struct {
	PlanID   domain.ID
	ItemID   domain.ID
	Actor    string
	Complete *bool
	Cost     *decimal.Decimal
}

// ReplacePlanItemsRequest swaps the whole item list if the plan is still at
// ExpectedVersion.
type ReplacePlanItemsRequest struct {
	PlanID          domain.ID
	Actor           string
	ExpectedVersion int64
	Items           []domain.PlanItemInstance
}

// PlanView is a plan with its derived aggregates.
type PlanView struct {
	Plan           *domain.Plan    `json:"plan"`
	ExperienceName string          `json:"experience_name"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	CompletionPct  int             `json:"completion_percentage"`
	MaxDays        int             `json:"max_days"`
	Diverged       bool            `json:"diverged"`
	// Readiness grades incomplete items against their planning lead time.
	Readiness scheduler.RiskResult `json:"readiness"`
}
