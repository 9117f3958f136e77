package scheduler

import (
	"math"
	"time"

	"github.com/gokepelemo/biensperience/internal/domain"
)

// AtRiskWindowDays is how close to its start-by date an incomplete item
// turns at_risk.
const AtRiskWindowDays = 7

type RiskInput struct {
	Now         time.Time
	PlannedDate *time.Time
	Items       []domain.PlanItemInstance
}

// ItemDeadline is the latest day an incomplete item can be started and
// still be ready by the planned date.
type ItemDeadline struct {
	ItemID     domain.ID        `json:"_id"`
	PlanItemID domain.ID        `json:"plan_item_id"`
	Text       string           `json:"text"`
	StartBy    time.Time        `json:"start_by"`
	DaysLeft   int              `json:"days_left"`
	Risk       domain.RiskLevel `json:"risk"`
}

type RiskResult struct {
	Level domain.RiskLevel `json:"level"`
	// DaysLeft counts days until the planned date; nil without one.
	DaysLeft  *int           `json:"days_left,omitempty"`
	Deadlines []ItemDeadline `json:"deadlines"`
}

// ComputeRisk grades every incomplete item by the time left before it has to
// be started, planned date minus its planning days. The plan takes the level
// of its worst item. Complete items never count.
func ComputeRisk(input RiskInput) RiskResult {
	if input.PlannedDate == nil {
		return RiskResult{Level: domain.RiskUnknown, Deadlines: []ItemDeadline{}}
	}

	daysLeft := daysBetween(input.Now, *input.PlannedDate)
	result := RiskResult{
		Level:     domain.RiskOnTrack,
		DaysLeft:  &daysLeft,
		Deadlines: []ItemDeadline{},
	}

	for _, item := range input.Items {
		if item.Complete {
			continue
		}
		startBy := input.PlannedDate.AddDate(0, 0, -item.PlanningDays)
		left := daysBetween(input.Now, startBy)
		d := ItemDeadline{
			ItemID:     item.ID,
			PlanItemID: item.PlanItemID,
			Text:       item.Text,
			StartBy:    startBy,
			DaysLeft:   left,
			Risk:       itemRisk(left),
		}
		result.Deadlines = append(result.Deadlines, d)
		if RiskPriority(d.Risk) < RiskPriority(result.Level) {
			result.Level = d.Risk
		}
	}

	CanonicalSort(result.Deadlines)
	return result
}

func itemRisk(daysLeft int) domain.RiskLevel {
	switch {
	case daysLeft < 0:
		return domain.RiskCritical
	case daysLeft <= AtRiskWindowDays:
		return domain.RiskAtRisk
	default:
		return domain.RiskOnTrack
	}
}

// daysBetween counts whole days from now until t, rounding partial days up.
func daysBetween(now, t time.Time) int {
	return int(math.Ceil(t.Sub(now).Hours() / 24))
}
