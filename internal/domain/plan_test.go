package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan() *Plan {
	return &Plan{
		OwnerID:       "ada",
		Collaborators: []string{"grace"},
		Items: []PlanItemInstance{
			{ID: "i1", PlanItemID: "t1", Cost: decimal.NewFromInt(500), PlanningDays: 30, Complete: true},
			{ID: "i2", PlanItemID: "t2", Cost: decimal.RequireFromString("12.50"), PlanningDays: 3},
			{ID: "i3", PlanItemID: "t3", Cost: decimal.Zero, PlanningDays: 45},
		},
	}
}

func TestPlan_Aggregates(t *testing.T) {
	p := testPlan()
	assert.True(t, decimal.RequireFromString("512.50").Equal(p.TotalCost()))
	assert.Equal(t, 33, p.CompletionPercentage())
	assert.Equal(t, 45, p.MaxDays())
}

func TestPlan_Aggregates_Empty(t *testing.T) {
	p := &Plan{}
	assert.True(t, p.TotalCost().IsZero())
	assert.Equal(t, 0, p.CompletionPercentage())
	assert.Equal(t, 0, p.MaxDays())
}

func TestPlan_CanEdit(t *testing.T) {
	p := testPlan()
	assert.True(t, p.CanEdit("ada"), "owner")
	assert.True(t, p.CanEdit("grace"), "collaborator")
	assert.False(t, p.CanEdit("mallory"))
	assert.False(t, p.CanEdit(""))
}

func TestPlan_FindItem(t *testing.T) {
	p := testPlan()
	item, ok := p.FindItem("i2")
	assert.True(t, ok)
	assert.Equal(t, ID("t2"), item.PlanItemID)

	_, ok = p.FindItem("missing")
	assert.False(t, ok)
}

func TestNewInstanceFromTemplate(t *testing.T) {
	tmpl := PlanItemTemplate{
		ID:           "t1",
		Text:         "Book flight",
		URL:          "https://example.com",
		CostEstimate: decimal.NewFromInt(500),
		PlanningDays: 30,
		Photo:        "ph1",
		Parent:       "t0",
	}
	inst := NewInstanceFromTemplate(tmpl)

	assert.NotEmpty(t, inst.ID)
	assert.NotEqual(t, tmpl.ID, inst.ID, "instance gets its own id")
	assert.Equal(t, ID("t1"), inst.PlanItemID)
	assert.Equal(t, "Book flight", inst.Text)
	assert.True(t, inst.Cost.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, 30, inst.PlanningDays)
	assert.Equal(t, ID("ph1"), inst.Photo)
	assert.Equal(t, ID("t0"), inst.Parent)
	assert.False(t, inst.Complete)
}

func TestExperience_FindItemAndTotal(t *testing.T) {
	e := &Experience{Items: []PlanItemTemplate{
		{ID: "t1", CostEstimate: decimal.NewFromInt(100)},
		{ID: "t2", CostEstimate: decimal.RequireFromString("0.25")},
	}}
	item, ok := e.FindItem("t2")
	assert.True(t, ok)
	assert.Equal(t, ID("t2"), item.ID)
	assert.True(t, decimal.RequireFromString("100.25").Equal(e.TotalCostEstimate()))
}

func TestCoalesceHelpers(t *testing.T) {
	assert.Equal(t, "b", CoalesceStr("", "b", "c"))
	five := 5
	assert.Equal(t, 5, IntFromPtrWithDefault(1, nil, &five))
	assert.Equal(t, 1, IntFromPtrWithDefault(1, nil))
	d := decimal.NewFromInt(9)
	assert.True(t, d.Equal(DecimalFromPtrWithDefault(decimal.Zero, nil, &d)))
}

func TestPlanItemInstance_CostMarshalsAsNumber(t *testing.T) {
	item := PlanItemInstance{ID: "i1", PlanItemID: "t1", Text: "Book flight", Cost: decimal.NewFromInt(500), PlanningDays: 30}
	data, err := json.Marshal(item)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"cost":500`)

	var decoded PlanItemInstance
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"i1","cost":"450.75"}`), &decoded))
	assert.True(t, decimal.RequireFromString("450.75").Equal(decoded.Cost), "quoted costs still decode")
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decimal.NewFromInt(500).Equal(decoded.Cost))
}
