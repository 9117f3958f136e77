package scheduler

import (
	"sort"

	"github.com/gokepelemo/biensperience/internal/domain"
)

// RiskPriority returns a sort priority (lower = more urgent).
func RiskPriority(r domain.RiskLevel) int {
	switch r {
	case domain.RiskCritical:
		return 0
	case domain.RiskAtRisk:
		return 1
	case domain.RiskOnTrack:
		return 2
	default:
		return 3
	}
}

// CanonicalSort sorts deadlines by the deterministic canonical rules:
// 1. Risk: critical > at_risk > on_track
// 2. Start-by date: earliest first
// 3. Text: lexical ascending
// 4. Item ID: lexical ascending
func CanonicalSort(deadlines []ItemDeadline) {
	sort.SliceStable(deadlines, func(i, j int) bool {
		a, b := deadlines[i], deadlines[j]

		riskA, riskB := RiskPriority(a.Risk), RiskPriority(b.Risk)
		if riskA != riskB {
			return riskA < riskB
		}
		if !a.StartBy.Equal(b.StartBy) {
			return a.StartBy.Before(b.StartBy)
		}
		if a.Text != b.Text {
			return a.Text < b.Text
		}
		return a.ItemID < b.ItemID
	})
}
