package formatter

import (
	"fmt"
	"strings"

	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/gokepelemo/biensperience/internal/reconcile"
)

// FormatExperienceList renders experiences as a table.
func FormatExperienceList(exps []*domain.Experience) string {
	if len(exps) == 0 {
		return Dim("No experiences found.") + "\n"
	}
	headers := []string{"ID", "NAME", "DESTINATION", "OWNER", "ITEMS", "EST. COST", "VER"}
	rows := make([][]string, 0, len(exps))
	for _, e := range exps {
		dest := e.Destination
		if dest == "" {
			dest = Dim("--")
		}
		rows = append(rows, []string{
			TruncID(e.ID),
			Bold(e.Name),
			StylePurple.Render(dest),
			e.OwnerID,
			fmt.Sprintf("%d", len(e.Items)),
			Money(e.TotalCostEstimate()),
			fmt.Sprintf("v%d", e.Version),
		})
	}
	return RenderTable(headers, rows)
}

// FormatExperience renders one experience with its item tree.
func FormatExperience(e *domain.Experience) string {
	var b strings.Builder
	b.WriteString(Header(e.Name) + "\n")
	fmt.Fprintf(&b, "%s %s\n", Dim("ID:         "), e.ID)
	if e.Destination != "" {
		fmt.Fprintf(&b, "%s %s\n", Dim("Destination:"), StylePurple.Render(e.Destination))
	}
	fmt.Fprintf(&b, "%s %s\n", Dim("Owner:      "), e.OwnerID)
	fmt.Fprintf(&b, "%s v%d\n", Dim("Version:    "), e.Version)
	fmt.Fprintf(&b, "%s %s\n\n", Dim("Est. cost:  "), Money(e.TotalCostEstimate()))

	if len(e.Items) == 0 {
		b.WriteString(Dim("No plan items.") + "\n")
		return b.String()
	}

	byID := make(map[domain.ID]domain.PlanItemTemplate, len(e.Items))
	seq := make(map[domain.ID]int, len(e.Items))
	for i, item := range e.Items {
		byID[item.ID] = item
		seq[item.ID] = i + 1
	}
	var tree []TreeItem
	idx := reconcile.IndexTemplates(e.Items)
	walkTree(idx, idx.Roots(), 0, func(id domain.ID, level int, last bool) {
		item := byID[id]
		tree = append(tree, TreeItem{
			Title:  item.Text + " " + TruncID(item.ID),
			Seq:    seq[id],
			Level:  level,
			IsLast: last,
			Detail: Money(item.CostEstimate) + " · " + Days(item.PlanningDays),
		})
	})
	b.WriteString(RenderTree(tree))
	return b.String()
}

// walkTree visits ids depth first, reporting nesting level and whether the
// id is the last of its siblings.
func walkTree(idx reconcile.ChildIndex, ids []domain.ID, level int, visit func(id domain.ID, level int, last bool)) {
	for i, id := range ids {
		visit(id, level, i == len(ids)-1)
		walkTree(idx, idx.Children(id), level+1, visit)
	}
}
