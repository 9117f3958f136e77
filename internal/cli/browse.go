package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gokepelemo/biensperience/internal/cli/formatter"
	"github.com/gokepelemo/biensperience/internal/contract"
	"github.com/gokepelemo/biensperience/internal/domain"
	"github.com/spf13/cobra"
)

func newPlanBrowseCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse your plans interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.interactive() {
				return errors.New("browse needs an interactive terminal; use 'plan list' instead")
			}
			p := tea.NewProgram(newPlanBrowser(cmd.Context(), a),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err := p.Run()
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return err
		},
	}
}

type browseRow struct {
	plan *domain.Plan
	name string
}

type plansLoadedMsg struct {
	rows []browseRow
	err  error
}

type planViewLoadedMsg struct {
	view *contract.PlanView
	err  error
}

type browseKeys struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Back   key.Binding
	Filter key.Binding
	Quit   key.Binding
}

func defaultBrowseKeys() browseKeys {
	return browseKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:   key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Filter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// planBrowser lists the user's plans and opens one into its full view.
type planBrowser struct {
	ctx     context.Context
	app     *App
	keys    browseKeys
	help    help.Model
	rows    []browseRow
	cursor  int
	loading bool
	err     error

	filtering bool
	filter    string

	detail *contract.PlanView
}

func newPlanBrowser(ctx context.Context, a *App) *planBrowser {
	return &planBrowser{
		ctx:     ctx,
		app:     a,
		keys:    defaultBrowseKeys(),
		help:    help.New(),
		loading: true,
	}
}

func (m *planBrowser) Init() tea.Cmd {
	return m.loadPlans()
}

func (m *planBrowser) loadPlans() tea.Cmd {
	ctx, a := m.ctx, m.app
	return func() tea.Msg {
		plans, err := a.Plans.ListForUser(ctx, a.User)
		if err != nil {
			return plansLoadedMsg{err: err}
		}
		exps, err := a.Experiences.List(ctx)
		if err != nil {
			return plansLoadedMsg{err: err}
		}
		names := make(map[domain.ID]string, len(exps))
		for _, e := range exps {
			names[e.ID] = e.Name
		}
		rows := make([]browseRow, 0, len(plans))
		for _, p := range plans {
			rows = append(rows, browseRow{plan: p, name: names[p.ExperienceID]})
		}
		return plansLoadedMsg{rows: rows}
	}
}

func (m *planBrowser) loadView(id domain.ID) tea.Cmd {
	ctx, a := m.ctx, m.app
	return func() tea.Msg {
		view, err := a.Plans.View(ctx, id)
		return planViewLoadedMsg{view: view, err: err}
	}
}

func (m *planBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case plansLoadedMsg:
		m.loading = false
		m.rows, m.err = msg.rows, msg.err
		return m, nil

	case planViewLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.detail = msg.view
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filtering {
			return m.updateFilter(msg)
		}
		if m.detail != nil {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *planBrowser) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.visibleRows()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Open):
		if m.cursor < len(visible) {
			m.loading = true
			m.err = nil
			return m, m.loadView(visible[m.cursor].plan.ID)
		}
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.filter = ""
	}
	return m, nil
}

func (m *planBrowser) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.detail = nil
		m.loading = true
		// Reload so changes made elsewhere show up in the list.
		return m, m.loadPlans()
	}
	return m, nil
}

func (m *planBrowser) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filtering = false
		m.filter = ""
		m.cursor = 0
	case tea.KeyEnter:
		m.filtering = false
	case tea.KeyBackspace:
		if len(m.filter) > 0 {
			m.filter = m.filter[:len(m.filter)-1]
			m.cursor = 0
		}
	case tea.KeyRunes:
		m.filter += string(msg.Runes)
		m.cursor = 0
	}
	return m, nil
}

func (m *planBrowser) visibleRows() []browseRow {
	if m.filter == "" {
		return m.rows
	}
	lf := strings.ToLower(m.filter)
	var out []browseRow
	for _, r := range m.rows {
		if strings.Contains(strings.ToLower(r.name), lf) ||
			strings.HasPrefix(strings.ToLower(r.plan.ID.String()), lf) {
			out = append(out, r)
		}
	}
	return out
}

func (m *planBrowser) View() string {
	if m.loading {
		return "\n  " + formatter.Dim("Loading...")
	}
	if m.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n"
	}
	if m.detail != nil {
		return formatter.FormatPlanView(m.detail) + "\n" +
			m.help.ShortHelpView([]key.Binding{m.keys.Back, m.keys.Quit}) + "\n"
	}

	var b strings.Builder
	b.WriteString("\n" + formatter.Header("Plans") + "\n\n")
	if m.filtering {
		b.WriteString("  " + formatter.StyleYellow.Render("/") + " " + m.filter + "█\n\n")
	}

	visible := m.visibleRows()
	if len(visible) == 0 {
		if m.filter != "" {
			b.WriteString("  " + formatter.Dim("No plans match.") + "\n")
		} else {
			b.WriteString("  " + formatter.Dim("No plans found.") + "\n")
		}
	}
	for i, r := range visible {
		cursor := "  "
		nameStyle := formatter.StyleFg
		if i == m.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
			nameStyle = formatter.StyleBold
		}
		name := r.name
		if name == "" {
			name = r.plan.ExperienceID.Short()
		}
		fmt.Fprintf(&b, "%s%s %s  %s  %s\n",
			cursor,
			formatter.StyleGreen.Render(formatter.TruncID(r.plan.ID)),
			nameStyle.Render(padRight(name, 22)),
			formatter.Dim(formatter.HumanDate(r.plan.PlannedDate)),
			formatter.RenderProgress(r.plan.CompletionPercentage(), 10),
		)
	}

	b.WriteString("\n" + m.help.ShortHelpView([]key.Binding{
		m.keys.Up, m.keys.Down, m.keys.Open, m.keys.Filter, m.keys.Quit,
	}) + "\n")
	return b.String()
}

// padRight pads a string to a minimum width, truncating if needed.
func padRight(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(r))
}
