package reconcile

import "github.com/gokepelemo/biensperience/internal/domain"

// Field names a watched field shared by a template item and its instance.
type Field string

const (
	FieldText         Field = "text"
	FieldURL          Field = "url"
	FieldCost         Field = "cost"
	FieldPlanningDays Field = "planning_days"
)

// WatchedFields lists the compared fields in reporting order.
var WatchedFields = []Field{FieldText, FieldURL, FieldCost, FieldPlanningDays}

// FieldChange is one field-level difference. Old is the plan's value, New
// is the experience's current value.
type FieldChange struct {
	Field Field `json:"field"`
	Old   any   `json:"old"`
	New   any   `json:"new"`
}

// diffFields compares the watched fields of a matched pair.
func diffFields(inst domain.PlanItemInstance, tmpl domain.PlanItemTemplate) []FieldChange {
	var changes []FieldChange
	if inst.Text != tmpl.Text {
		changes = append(changes, FieldChange{Field: FieldText, Old: inst.Text, New: tmpl.Text})
	}
	if inst.URL != tmpl.URL {
		changes = append(changes, FieldChange{Field: FieldURL, Old: inst.URL, New: tmpl.URL})
	}
	if !inst.Cost.Equal(tmpl.CostEstimate) {
		changes = append(changes, FieldChange{Field: FieldCost, Old: inst.Cost, New: tmpl.CostEstimate})
	}
	if inst.PlanningDays != tmpl.PlanningDays {
		changes = append(changes, FieldChange{Field: FieldPlanningDays, Old: inst.PlanningDays, New: tmpl.PlanningDays})
	}
	return changes
}

// fieldsEqual is diffFields without the allocation.
func fieldsEqual(inst domain.PlanItemInstance, tmpl domain.PlanItemTemplate) bool {
	return inst.Text == tmpl.Text &&
		inst.URL == tmpl.URL &&
		inst.Cost.Equal(tmpl.CostEstimate) &&
		inst.PlanningDays == tmpl.PlanningDays
}

// templateIndex maps template id to its position; the first occurrence wins.
func templateIndex(items []domain.PlanItemTemplate) map[domain.ID]int {
	idx := make(map[domain.ID]int, len(items))
	for i, item := range items {
		if _, ok := idx[item.ID]; !ok {
			idx[item.ID] = i
		}
	}
	return idx
}
