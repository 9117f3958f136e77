package app

import (
	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/gokepelemo/biensperience/internal/reconcile"
)

// DivergenceReport answers whether a plan has drifted from its experience.
type DivergenceReport struct {
	PlanID            domain.ID `json:"plan_id"`
	ExperienceID      domain.ID `json:"experience_id"`
	Diverged          bool      `json:"diverged"`
	PlanVersion       int64     `json:"plan_version"`
	ExperienceVersion int64     `json:"experience_version"`
}

// ChangesetPreview is a changeset pinned to the snapshot versions it was
// computed from. Selection indices refer to its arrays.
type ChangesetPreview struct {
	PlanID            domain.ID           `json:"plan_id"`
	ExperienceID      domain.ID           `json:"experience_id"`
	PlanVersion       int64               `json:"plan_version"`
	ExperienceVersion int64               `json:"experience_version"`
	Changes           reconcile.Changeset `json:"changes"`
}

type ApplySyncRequest struct {
	PlanID            domain.ID
	Actor             string
	PlanVersion       int64
	ExperienceVersion int64
	Selection         reconcile.Selection
}

// AppliedCounts reports how many entries of each category were applied.
type AppliedCounts struct {
	Added    int `json:"added"`
	Removed  int `json:"removed"`
	Modified int `json:"modified"`
}

func (c AppliedCounts) Total() int {
	return c.Added + c.Removed + c.Modified
}

type ApplySyncResponse struct {
	Plan    *domain.Plan  `json:"plan"`
	Applied AppliedCounts `json:"applied"`
}
