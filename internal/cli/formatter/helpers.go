package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/shopspring/decimal"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		return boxStyle.Render(titleRendered + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// HumanDate formats a planned date, or "--" when unset.
func HumanDate(t *time.Time) string {
	if t == nil {
		return StyleDim.Render("--")
	}
	return t.Format("Jan 2, 2006")
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id domain.ID) string {
	return StyleDim.Render(id.Short())
}

// Money renders an amount with two decimals.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Days renders a planning lead time such as "30d".
func Days(n int) string {
	if n <= 0 {
		return "0d"
	}
	return fmt.Sprintf("%dd", n)
}

// Value renders a field value carried by a changeset entry.
func Value(v any) string {
	switch x := v.(type) {
	case nil:
		return StyleDim.Render("(none)")
	case string:
		if x == "" {
			return StyleDim.Render("(empty)")
		}
		return fmt.Sprintf("%q", x)
	case decimal.Decimal:
		return Money(x)
	default:
		return fmt.Sprint(x)
	}
}
