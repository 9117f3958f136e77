package reconcile

import (
	"testing"

	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestHasDiverged_MissingInputsFailSafe(t *testing.T) {
	exp, plan := inSync()

	assert.False(t, HasDiverged(nil, exp))
	assert.False(t, HasDiverged(plan, nil))
	assert.False(t, HasDiverged(&domain.Plan{}, exp), "nil plan items")
	assert.False(t, HasDiverged(plan, &domain.Experience{}), "nil experience items")
}

func TestHasDiverged_IdenticalSnapshots(t *testing.T) {
	exp, plan := inSync()
	assert.False(t, HasDiverged(plan, exp))
}

func TestHasDiverged_BothEmpty(t *testing.T) {
	assert.False(t, HasDiverged(planOf(), experienceOf()))
}

func TestHasDiverged_CardinalityShortCircuit(t *testing.T) {
	exp, plan := inSync()
	exp.Items = append(exp.Items, tmplItem("t4", "Travel insurance", 60, 7))

	assert.Len(t, plan.Items, 3)
	assert.Len(t, exp.Items, 4)
	assert.True(t, HasDiverged(plan, exp))
}

func TestHasDiverged_CardinalityIgnoresContent(t *testing.T) {
	// Four unrelated templates against three unrelated instances.
	exp := experienceOf(
		tmplItem("a", "A", 1, 1), tmplItem("b", "B", 1, 1),
		tmplItem("c", "C", 1, 1), tmplItem("d", "D", 1, 1),
	)
	plan := planOf(
		instItem("1", "x", "X", 9, 9, false),
		instItem("2", "y", "Y", 9, 9, false),
		instItem("3", "z", "Z", 9, 9, false),
	)
	assert.True(t, HasDiverged(plan, exp))
}

func TestHasDiverged_OrphanWithEqualCount(t *testing.T) {
	exp, plan := inSync()
	// t3 removed upstream, t4 added: count stays at three.
	exp.Items[2] = tmplItem("t4", "Travel insurance", 60, 7)
	assert.True(t, HasDiverged(plan, exp))
}

func TestHasDiverged_WatchedFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.PlanItemTemplate)
	}{
		{"text", func(it *domain.PlanItemTemplate) { it.Text = "Book flights" }},
		{"url", func(it *domain.PlanItemTemplate) { it.URL = "https://air.example" }},
		{"cost", func(it *domain.PlanItemTemplate) { it.CostEstimate = decimal.NewFromInt(600) }},
		{"planning_days", func(it *domain.PlanItemTemplate) { it.PlanningDays = 45 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			exp, plan := inSync()
			tc.mutate(&exp.Items[0])
			assert.True(t, HasDiverged(plan, exp))
		})
	}
}

func TestHasDiverged_UnwatchedFieldsIgnored(t *testing.T) {
	exp, plan := inSync()
	exp.Items[0].Photo = "new-photo"
	plan.Items[0].Complete = false
	assert.False(t, HasDiverged(plan, exp))
}

func TestHasDiverged_CostComparedByValue(t *testing.T) {
	exp, plan := inSync()
	exp.Items[0].CostEstimate = decimal.RequireFromString("500.00")
	assert.False(t, HasDiverged(plan, exp))
}

func TestHasDiverged_ReorderIsNotDivergence(t *testing.T) {
	exp, plan := inSync()
	exp.Items[0], exp.Items[2] = exp.Items[2], exp.Items[0]
	assert.False(t, HasDiverged(plan, exp))
}

func TestHasDiverged_Deterministic(t *testing.T) {
	exp, plan := inSync()
	exp.Items[1].Text = "Reserve riad"
	first := HasDiverged(plan, exp)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, HasDiverged(plan, exp))
	}
}
