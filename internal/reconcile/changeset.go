package reconcile

import (
	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/shopspring/decimal"
)

// AddedItem is a template item no plan instance references yet. It is
// already in instance shape: the estimate is carried as Cost.
type AddedItem struct {
	ID           domain.ID       `json:"_id"`
	Text         string          `json:"text"`
	URL          string          `json:"url,omitempty"`
	Cost         decimal.Decimal `json:"cost"`
	PlanningDays int             `json:"planning_days"`
	Photo        domain.ID       `json:"photo,omitempty"`
	Parent       domain.ID       `json:"parent,omitempty"`
}

// RemovedItem is a plan instance whose template no longer exists. Its
// fields come from the stale instance.
type RemovedItem struct {
	PlanItemID domain.ID `json:"plan_item_id"`
	Text       string    `json:"text"`
	URL        string    `json:"url,omitempty"`
}

// ModifiedItem groups every field diff of one matched pair under the
// template id. Photo and Parent are the template's current values.
type ModifiedItem struct {
	ID            domain.ID     `json:"_id"`
	Text          string        `json:"text"`
	Photo         domain.ID     `json:"photo,omitempty"`
	Parent        domain.ID     `json:"parent,omitempty"`
	Modifications []FieldChange `json:"modifications"`
}

// HasChange reports whether the entry carries a diff for field.
func (m ModifiedItem) HasChange(field Field) bool {
	for _, c := range m.Modifications {
		if c.Field == field {
			return true
		}
	}
	return false
}

type Changeset struct {
	Added    []AddedItem    `json:"added"`
	Removed  []RemovedItem  `json:"removed"`
	Modified []ModifiedItem `json:"modified"`
}

// IsEmpty reports whether the plan is fully in sync.
func (c Changeset) IsEmpty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Modified) == 0
}

// Len returns the total number of entries.
func (c Changeset) Len() int {
	return len(c.Added) + len(c.Removed) + len(c.Modified)
}

// ComputeChangeset diffs plan against experience. Missing snapshots are
// rejected with an *InvalidInputError rather than reported as "no changes".
// Entries follow the order of the experience (added, modified) and of the
// plan (removed), so the result is deterministic for fixed inputs.
func ComputeChangeset(plan *domain.Plan, experience *domain.Experience) (Changeset, error) {
	if err := validateInputs(plan, experience); err != nil {
		return Changeset{}, err
	}

	cs := Changeset{
		Added:    []AddedItem{},
		Removed:  []RemovedItem{},
		Modified: []ModifiedItem{},
	}

	referenced := make(map[domain.ID]bool, len(plan.Items))
	for _, inst := range plan.Items {
		referenced[inst.PlanItemID] = true
	}
	for _, tmpl := range experience.Items {
		if referenced[tmpl.ID] {
			continue
		}
		cs.Added = append(cs.Added, AddedItem{
			ID:           tmpl.ID,
			Text:         tmpl.Text,
			URL:          tmpl.URL,
			Cost:         tmpl.CostEstimate,
			PlanningDays: tmpl.PlanningDays,
			Photo:        tmpl.Photo,
			Parent:       tmpl.Parent,
		})
	}

	idx := templateIndex(experience.Items)
	for _, inst := range plan.Items {
		if _, ok := idx[inst.PlanItemID]; ok {
			continue
		}
		cs.Removed = append(cs.Removed, RemovedItem{
			PlanItemID: inst.PlanItemID,
			Text:       inst.Text,
			URL:        inst.URL,
		})
	}

	// One entry per template, compared against the first instance that
	// references it.
	firstInstance := make(map[domain.ID]int, len(plan.Items))
	for i, inst := range plan.Items {
		if _, ok := firstInstance[inst.PlanItemID]; !ok {
			firstInstance[inst.PlanItemID] = i
		}
	}
	for _, tmpl := range experience.Items {
		i, ok := firstInstance[tmpl.ID]
		if !ok {
			continue
		}
		changes := diffFields(plan.Items[i], tmpl)
		if len(changes) == 0 {
			continue
		}
		cs.Modified = append(cs.Modified, ModifiedItem{
			ID:            tmpl.ID,
			Text:          tmpl.Text,
			Photo:         tmpl.Photo,
			Parent:        tmpl.Parent,
			Modifications: changes,
		})
	}

	return cs, nil
}

func validateInputs(plan *domain.Plan, experience *domain.Experience) error {
	switch {
	case plan == nil:
		return &InvalidInputError{Field: "plan", Reason: "is missing"}
	case plan.Items == nil:
		return &InvalidInputError{Field: "plan.plan", Reason: "is missing"}
	case experience == nil:
		return &InvalidInputError{Field: "experience", Reason: "is missing"}
	case experience.Items == nil:
		return &InvalidInputError{Field: "experience.plan_items", Reason: "is missing"}
	}
	return nil
}
