package reconcile

import (
	"testing"

	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestIndexTemplates(t *testing.T) {
	items := []domain.PlanItemTemplate{
		{ID: "paris"},
		{ID: "flight", Parent: "paris"},
		{ID: "hotel", Parent: "paris"},
		{ID: "rome"},
		{ID: "train", Parent: "rome"},
		{ID: "stray", Parent: "deleted"},
	}
	ci := IndexTemplates(items)

	assert.Equal(t, []domain.ID{"paris", "rome", "stray"}, ci.Roots())
	assert.Equal(t, []domain.ID{"flight", "hotel"}, ci.Children("paris"))
	assert.Equal(t, []domain.ID{"train"}, ci.Children("rome"))
	assert.Empty(t, ci.Children("flight"))
}

func TestIndexInstances_UsesTemplateIDs(t *testing.T) {
	items := []domain.PlanItemInstance{
		{ID: "i1", PlanItemID: "paris"},
		{ID: "i2", PlanItemID: "flight", Parent: "paris"},
	}
	ci := IndexInstances(items)
	assert.Equal(t, []domain.ID{"paris"}, ci.Roots())
	assert.Equal(t, []domain.ID{"flight"}, ci.Children("paris"))
}

func TestChildIndex_Descendants(t *testing.T) {
	items := []domain.PlanItemTemplate{
		{ID: "a"},
		{ID: "b", Parent: "a"},
		{ID: "c", Parent: "b"},
		{ID: "d", Parent: "a"},
	}
	ci := IndexTemplates(items)
	assert.Equal(t, []domain.ID{"b", "c", "d"}, ci.Descendants("a"))
	assert.Empty(t, ci.Descendants("d"))
}

func TestChildIndex_CycleTerminates(t *testing.T) {
	items := []domain.PlanItemTemplate{
		{ID: "a", Parent: "b"},
		{ID: "b", Parent: "a"},
		{ID: "self", Parent: "self"},
	}
	ci := IndexTemplates(items)
	assert.Equal(t, []domain.ID{"self"}, ci.Roots())
	assert.Equal(t, []domain.ID{"b"}, ci.Descendants("a"))
}
