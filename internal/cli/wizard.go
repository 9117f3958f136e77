package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/gokepelemo/biensperience/internal/cli/formatter"
	"github.com/gokepelemo/biensperience/internal/reconcile"
	"github.com/shopspring/decimal"
)

func biensHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.SelectedPrefix = lipgloss.NewStyle().Foreground(formatter.ColorGreen).SetString("[✓] ")
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.UnselectedPrefix = lipgloss.NewStyle().Foreground(formatter.ColorDim).SetString("[ ] ")
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// changesetOptions lists every changeset entry as a multi-select option.
// Option values are "<category>:<index>" and parse back with
// selectionFromKeys.
func changesetOptions(cs reconcile.Changeset) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, cs.Len())
	for i, a := range cs.Added {
		opts = append(opts, huh.NewOption("+ "+a.Text, fmt.Sprintf("added:%d", i)))
	}
	for i, r := range cs.Removed {
		opts = append(opts, huh.NewOption("- "+r.Text, fmt.Sprintf("removed:%d", i)))
	}
	for i, m := range cs.Modified {
		fields := make([]string, len(m.Modifications))
		for j, c := range m.Modifications {
			fields[j] = string(c.Field)
		}
		label := fmt.Sprintf("~ %s (%s)", m.Text, strings.Join(fields, ", "))
		opts = append(opts, huh.NewOption(label, fmt.Sprintf("modified:%d", i)))
	}
	return opts
}

// wizardSelectChanges creates a huh form to pick changeset entries.
// Every entry starts selected.
func wizardSelectChanges(cs reconcile.Changeset, result *[]string) *huh.Form {
	opts := changesetOptions(cs)
	for i := range opts {
		opts[i] = opts[i].Selected(true)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Apply which changes?").
				Description("space toggles, enter confirms").
				Options(opts...).
				Value(result),
		),
	).WithTheme(biensHuhTheme()).WithShowHelp(false)
}

func selectionFromKeys(keys []string) (reconcile.Selection, error) {
	var sel reconcile.Selection
	for _, key := range keys {
		kind, idx, ok := strings.Cut(key, ":")
		if !ok {
			return sel, fmt.Errorf("malformed selection key %q", key)
		}
		n, err := strconv.Atoi(idx)
		if err != nil {
			return sel, fmt.Errorf("malformed selection key %q: %w", key, err)
		}
		switch kind {
		case "added":
			sel.Added = append(sel.Added, n)
		case "removed":
			sel.Removed = append(sel.Removed, n)
		case "modified":
			sel.Modified = append(sel.Modified, n)
		default:
			return sel, fmt.Errorf("unknown selection category %q", kind)
		}
	}
	return sel, nil
}

// wizardConfirm creates a huh form for a yes/no confirmation.
func wizardConfirm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(biensHuhTheme()).WithShowHelp(false)
}

// validateOptionalDate accepts empty or a YYYY-MM-DD date.
func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

// parseMoney parses a non-negative amount such as "12.50".
func parseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount %q must not be negative", s)
	}
	return d, nil
}
