package app

import (
	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateExperienceRequest struct {
	Name        string
	Destination string
	Owner       string
}

type AddTemplateItemRequest struct {
	ExperienceID domain.ID
	Actor        string
	Text         string
	URL          string
	CostEstimate decimal.Decimal
	PlanningDays int
	Photo        domain.ID
	Parent       domain.ID
}

// UpdateTemplateItemRequest edits one template item. Nil fields are left alone.
type UpdateTemplateItemRequest struct {
	ExperienceID domain.ID
	ItemID       domain.ID
	Actor        string
	Text         *string
	URL          *string
	CostEstimate *decimal.Decimal
	PlanningDays *int
	Photo        *domain.ID
	Parent       *domain.ID
}

type ImportResult struct {
	Experience *domain.Experience
	ItemCount  int
}
