package scheduler

import (
	"testing"
	"time"

	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/stretchr/testify/assert"
)

func deadline(id, text string, risk domain.RiskLevel, startBy time.Time) ItemDeadline {
	return ItemDeadline{ItemID: domain.ID(id), Text: text, Risk: risk, StartBy: startBy}
}

func TestCanonicalSort_RiskPriority(t *testing.T) {
	day := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	ds := []ItemDeadline{
		deadline("1", "On Track", domain.RiskOnTrack, day),
		deadline("2", "Critical", domain.RiskCritical, day),
		deadline("3", "At Risk", domain.RiskAtRisk, day),
	}

	CanonicalSort(ds)

	assert.Equal(t, domain.RiskCritical, ds[0].Risk)
	assert.Equal(t, domain.RiskAtRisk, ds[1].Risk)
	assert.Equal(t, domain.RiskOnTrack, ds[2].Risk)
}

func TestCanonicalSort_StartByTiebreak(t *testing.T) {
	early := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	late := early.AddDate(0, 0, 5)
	ds := []ItemDeadline{
		deadline("1", "Late", domain.RiskOnTrack, late),
		deadline("2", "Early", domain.RiskOnTrack, early),
	}

	CanonicalSort(ds)

	assert.Equal(t, "Early", ds[0].Text)
}

func TestCanonicalSort_TextThenIDTiebreak(t *testing.T) {
	day := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	ds := []ItemDeadline{
		deadline("b", "Hotel", domain.RiskOnTrack, day),
		deadline("z", "Flight", domain.RiskOnTrack, day),
		deadline("a", "Hotel", domain.RiskOnTrack, day),
	}

	CanonicalSort(ds)

	assert.Equal(t, "Flight", ds[0].Text)
	assert.Equal(t, domain.ID("a"), ds[1].ItemID)
	assert.Equal(t, domain.ID("b"), ds[2].ItemID)
}

func TestRiskPriority_Ordering(t *testing.T) {
	assert.Less(t, RiskPriority(domain.RiskCritical), RiskPriority(domain.RiskAtRisk))
	assert.Less(t, RiskPriority(domain.RiskAtRisk), RiskPriority(domain.RiskOnTrack))
	assert.Less(t, RiskPriority(domain.RiskOnTrack), RiskPriority(domain.RiskUnknown))
}
