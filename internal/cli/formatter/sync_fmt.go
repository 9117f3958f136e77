package formatter

import (
	"fmt"
	"strings"

	"github.com/gokepelemo/biensperience/internal/contract"
)

// FormatDivergence renders a divergence report on one line.
func FormatDivergence(r *contract.DivergenceReport) string {
	return fmt.Sprintf("%s  %s %s  %s %s\n",
		SyncIndicator(r.Diverged),
		Dim("plan"), fmt.Sprintf("v%d", r.PlanVersion),
		Dim("experience"), fmt.Sprintf("v%d", r.ExperienceVersion),
	)
}

// FormatChangeset renders a changeset preview with the indices a selection
// refers to.
func FormatChangeset(p *contract.ChangesetPreview) string {
	var b strings.Builder
	cs := p.Changes
	b.WriteString(Header("Changeset") + "\n")
	fmt.Fprintf(&b, "%s v%d  %s v%d\n\n", Dim("plan"), p.PlanVersion, Dim("experience"), p.ExperienceVersion)

	if cs.IsEmpty() {
		b.WriteString(StyleGreen.Render("Plan is in sync with its experience.") + "\n")
		return b.String()
	}

	if len(cs.Added) > 0 {
		b.WriteString(StyleGreen.Render(fmt.Sprintf("Added (%d)", len(cs.Added))) + "\n")
		for i, a := range cs.Added {
			fmt.Fprintf(&b, "  %s %s %s\n", Dim(fmt.Sprintf("[%d]", i)), StyleGreen.Render("+"), a.Text)
			fmt.Fprintf(&b, "      %s\n", Dim(Money(a.Cost)+" · "+Days(a.PlanningDays)))
		}
		b.WriteString("\n")
	}
	if len(cs.Removed) > 0 {
		b.WriteString(StyleRed.Render(fmt.Sprintf("Removed (%d)", len(cs.Removed))) + "\n")
		for i, r := range cs.Removed {
			fmt.Fprintf(&b, "  %s %s %s\n", Dim(fmt.Sprintf("[%d]", i)), StyleRed.Render("-"), r.Text)
		}
		b.WriteString("\n")
	}
	if len(cs.Modified) > 0 {
		b.WriteString(StyleYellow.Render(fmt.Sprintf("Modified (%d)", len(cs.Modified))) + "\n")
		for i, m := range cs.Modified {
			fmt.Fprintf(&b, "  %s %s %s\n", Dim(fmt.Sprintf("[%d]", i)), StyleYellow.Render("~"), m.Text)
			for _, c := range m.Modifications {
				fmt.Fprintf(&b, "      %s %s → %s\n", Dim(string(c.Field)+":"), Value(c.Old), Value(c.New))
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(Dim(fmt.Sprintf("Apply picks with --plan-version %d --experience-version %d", p.PlanVersion, p.ExperienceVersion)) + "\n")
	return b.String()
}

// FormatApplySync renders the outcome of applying a selection.
func FormatApplySync(r *contract.ApplySyncResponse) string {
	if r.Applied.Total() == 0 {
		return Dim("Nothing selected; plan unchanged.") + "\n"
	}
	return fmt.Sprintf("%s %s added, %s removed, %s modified %s\n",
		StyleGreen.Render("Synced."),
		Bold(fmt.Sprint(r.Applied.Added)),
		Bold(fmt.Sprint(r.Applied.Removed)),
		Bold(fmt.Sprint(r.Applied.Modified)),
		Dim(fmt.Sprintf("(plan now v%d)", r.Plan.Version)),
	)
}
