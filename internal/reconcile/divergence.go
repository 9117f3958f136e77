package reconcile

import "github.com/gokepelemo/biensperience/internal/domain"

// HasDiverged reports whether plan has drifted from experience.
//
// A missing snapshot or item list yields false so callers don't prompt for
// a sync before both sides have loaded. A count mismatch short-circuits to
// true. Otherwise each plan instance is looked up by PlanItemID: an orphaned
// instance or any watched-field mismatch yields true.
//
// The scan is driven from the plan side only. With equal counts, templates
// that no instance references are caught solely through the orphan they
// displaced.
func HasDiverged(plan *domain.Plan, experience *domain.Experience) bool {
	if plan == nil || experience == nil || plan.Items == nil || experience.Items == nil {
		return false
	}
	if len(plan.Items) != len(experience.Items) {
		return true
	}

	idx := templateIndex(experience.Items)
	for _, inst := range plan.Items {
		i, ok := idx[inst.PlanItemID]
		if !ok {
			return true
		}
		if !fieldsEqual(inst, experience.Items[i]) {
			return true
		}
	}
	return false
}
