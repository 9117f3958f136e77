package formatter

import (
	"fmt"
	"strings"

	"github.com/gokepelemo/biensperience/internal/contract"
	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/gokepelemo/biensperience/internal/reconcile"
)

// FormatPlanList renders plans as a table. names maps experience id to name.
func FormatPlanList(plans []*domain.Plan, names map[domain.ID]string) string {
	if len(plans) == 0 {
		return Dim("No plans found.") + "\n"
	}
	headers := []string{"ID", "EXPERIENCE", "OWNER", "DATE", "DONE", "COST", "VER"}
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		name := names[p.ExperienceID]
		if name == "" {
			name = p.ExperienceID.Short()
		}
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(name),
			p.OwnerID,
			HumanDate(p.PlannedDate),
			fmt.Sprintf("%d%%", p.CompletionPercentage()),
			Money(p.TotalCost()),
			fmt.Sprintf("v%d", p.Version),
		})
	}
	return RenderTable(headers, rows)
}

// FormatPlanView renders a plan with its aggregates and item tree.
func FormatPlanView(v *contract.PlanView) string {
	p := v.Plan
	var b strings.Builder
	b.WriteString(Header(v.ExperienceName) + "\n")
	fmt.Fprintf(&b, "%s %s\n", Dim("Plan:         "), p.ID)
	fmt.Fprintf(&b, "%s %s\n", Dim("Owner:        "), p.OwnerID)
	if len(p.Collaborators) > 0 {
		fmt.Fprintf(&b, "%s %s\n", Dim("Collaborators:"), strings.Join(p.Collaborators, ", "))
	}
	fmt.Fprintf(&b, "%s %s\n", Dim("Planned date: "), HumanDate(p.PlannedDate))
	fmt.Fprintf(&b, "%s v%d\n", Dim("Version:      "), p.Version)
	fmt.Fprintf(&b, "%s %s\n", Dim("Total cost:   "), Money(v.TotalCost))
	fmt.Fprintf(&b, "%s %s\n", Dim("Lead time:    "), Days(v.MaxDays))
	fmt.Fprintf(&b, "%s %s\n", Dim("Progress:     "), RenderProgress(v.CompletionPct, 20))
	fmt.Fprintf(&b, "%s %s\n", Dim("Status:       "), SyncIndicator(v.Diverged))
	fmt.Fprintf(&b, "%s %s\n\n", Dim("Readiness:    "), readinessLine(v))

	if len(p.Items) == 0 {
		b.WriteString(Dim("No plan items.") + "\n")
		return b.String()
	}

	byTemplate := make(map[domain.ID]domain.PlanItemInstance, len(p.Items))
	seq := make(map[domain.ID]int, len(p.Items))
	for i, item := range p.Items {
		if _, ok := byTemplate[item.PlanItemID]; !ok {
			byTemplate[item.PlanItemID] = item
			seq[item.PlanItemID] = i + 1
		}
	}
	var tree []TreeItem
	idx := reconcile.IndexInstances(p.Items)
	walkTree(idx, idx.Roots(), 0, func(id domain.ID, level int, last bool) {
		item := byTemplate[id]
		tree = append(tree, TreeItem{
			Title:    item.Text + " " + TruncID(item.ID),
			Seq:      seq[id],
			Level:    level,
			IsLast:   last,
			Complete: item.Complete,
			Detail:   Money(item.Cost) + " · " + Days(item.PlanningDays),
		})
	})
	b.WriteString(RenderTree(tree))

	if len(v.Readiness.Deadlines) > 0 {
		b.WriteString("\n" + Header("Start by") + "\n")
		for _, d := range v.Readiness.Deadlines {
			fmt.Fprintf(&b, "%s  %s  %s %s\n",
				RiskIndicator(d.Risk),
				d.StartBy.Format("Jan 2, 2006"),
				d.Text,
				Dim(daysLeftLabel(d.DaysLeft)))
		}
	}

	if v.Diverged {
		b.WriteString("\n" + Dim("The experience changed since this plan was made. Run 'biensperience sync preview "+p.ID.String()+"'.") + "\n")
	}
	return b.String()
}

func readinessLine(v *contract.PlanView) string {
	r := v.Readiness
	if r.DaysLeft == nil {
		return RiskIndicator(r.Level)
	}
	return RiskIndicator(r.Level) + " " + Dim(daysLeftLabel(*r.DaysLeft))
}

func daysLeftLabel(n int) string {
	switch {
	case n < 0:
		return fmt.Sprintf("(%s overdue)", Days(-n))
	case n == 0:
		return "(today)"
	default:
		return fmt.Sprintf("(in %s)", Days(n))
	}
}
