// Package tui is the interactive task browser. The list screen hosts a
// ListController; enter opens a detail screen backed by a DetailController.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"todoctl/internal/controller"
	"todoctl/internal/output"
	"todoctl/internal/service"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	activeStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	completeStyle = lipgloss.NewStyle().Strikethrough(true).Faint(true)
)

const (
	helpLine       = "a all · c completed · p pending · tab next filter · enter open · r refresh · q quit"
	detailHelpLine = "t toggle · d delete · esc back · q quit"
)

// refreshedMsg is sent when a refresh issued by the model has returned.
type refreshedMsg struct{}

// detailLoadedMsg is sent when the detail screen's task has been fetched.
type detailLoadedMsg struct{ id int }

// toggledMsg carries the result of a completion toggle.
type toggledMsg struct {
	id  int
	err error
}

// deletedMsg carries the result of a delete.
type deletedMsg struct {
	id      int
	deleted bool
	err     error
}

// Model is the bubbletea model of the task browser.
type Model struct {
	ctx     context.Context
	repo    service.TaskRepository
	log     zerolog.Logger
	list    *controller.ListController
	spinner spinner.Model

	cursor   int
	inFlight int // refreshes issued and not yet returned
	quitting bool

	// detail screen; nil while the list is shown
	detail     *controller.DetailController
	busy       bool // detail load or action in progress
	confirming bool
	notice     string
}

// New creates the browser over repo. The first fetch starts in Init.
func New(ctx context.Context, repo service.TaskRepository, log zerolog.Logger) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return Model{
		ctx:      ctx,
		repo:     repo,
		log:      log,
		list:     controller.NewListController(repo, log),
		spinner:  s,
		inFlight: 1,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.initialize())
}

func (m Model) initialize() tea.Cmd {
	ctx, list := m.ctx, m.list
	return func() tea.Msg {
		list.Initialize(ctx)
		return refreshedMsg{}
	}
}

// refresh runs a fetch off the update loop. Overlapping refreshes are
// allowed; the controller keeps whichever response arrives last.
func (m Model) refresh() tea.Cmd {
	ctx, list := m.ctx, m.list
	return func() tea.Msg {
		list.Refresh(ctx)
		return refreshedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshedMsg:
		if m.inFlight > 0 {
			m.inFlight--
		}
		m.clampCursor()
		return m, nil

	case detailLoadedMsg:
		if m.detail != nil && m.detail.ID() == msg.id {
			m.busy = false
		}
		return m, nil

	case toggledMsg:
		if m.detail != nil && m.detail.ID() == msg.id {
			m.busy = false
			m.notice = ""
			if msg.err != nil {
				m.notice = m.detail.Err()
			}
		}
		return m, nil

	case deletedMsg:
		if m.detail == nil || m.detail.ID() != msg.id {
			return m, nil
		}
		m.busy = false
		switch {
		case msg.err != nil:
			m.notice = m.detail.Err()
		case msg.deleted:
			m.detail = nil
			m.notice = fmt.Sprintf("deleted task %d", msg.id)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.detail != nil {
			return m.handleDetailKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "enter":
		task, ok := m.Selected()
		if !ok || m.inFlight > 0 {
			return m, nil
		}
		return m.openDetail(task.ID)
	case "r":
		m.inFlight++
		m.notice = ""
		return m, m.refresh()
	case "a":
		m.setFilter(service.FilterAll)
	case "c":
		m.setFilter(service.FilterCompleted)
	case "p":
		m.setFilter(service.FilterPending)
	case "tab":
		m.setFilter(nextFilter(m.list.Filter()))
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.list.Visible())-1 {
			m.cursor++
		}
	}
	return m, nil
}

func (m *Model) setFilter(f service.Filter) {
	if err := m.list.SetFilter(f); err != nil {
		m.log.Debug().Err(err).Msg("filter rejected")
		return
	}
	m.cursor = 0
}

func (m Model) openDetail(id int) (tea.Model, tea.Cmd) {
	ctl := controller.NewDetailController(m.repo, id, m.log)
	m.detail = ctl
	m.busy = true
	m.confirming = false
	m.notice = ""

	ctx := m.ctx
	return m, func() tea.Msg {
		ctl.Load(ctx)
		return detailLoadedMsg{id: ctl.ID()}
	}
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" || key == "q" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.confirming {
		m.confirming = false
		if key != "y" {
			return m, nil
		}
		m.busy = true
		ctx, ctl := m.ctx, m.detail
		return m, func() tea.Msg {
			// Already confirmed on screen.
			deleted, err := ctl.Delete(ctx, nil)
			return deletedMsg{id: ctl.ID(), deleted: deleted, err: err}
		}
	}

	switch key {
	case "esc", "backspace", "left", "h":
		m.detail = nil
		m.busy = false
		m.notice = ""
		return m, nil
	}

	if m.busy || m.detail.NotFound() {
		return m, nil
	}

	switch key {
	case "t", "enter", " ":
		m.busy = true
		ctx, ctl := m.ctx, m.detail
		return m, func() tea.Msg {
			return toggledMsg{id: ctl.ID(), err: ctl.ToggleCompletion(ctx)}
		}
	case "d":
		m.confirming = true
	}
	return m, nil
}

func (m *Model) clampCursor() {
	n := len(m.list.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Selected returns the task under the cursor.
func (m Model) Selected() (service.Task, bool) {
	visible := m.list.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return service.Task{}, false
	}
	return visible[m.cursor], true
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.detail != nil {
		return m.detailView()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Tasks"))
	b.WriteString("  ")
	b.WriteString(m.filterBar())
	b.WriteString("\n\n")

	switch {
	case m.inFlight > 0 || m.list.Status() == controller.StatusLoading:
		fmt.Fprintf(&b, "%s loading tasks...\n", m.spinner.View())
	case m.list.Status() == controller.StatusFailed:
		b.WriteString(errorStyle.Render("✗ " + m.list.Err()))
		b.WriteString("\n")
	default:
		m.renderTasks(&b)
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(m.notice)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(helpLine))
	b.WriteString("\n")
	return b.String()
}

func (m Model) detailView() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", titleStyle.Render(fmt.Sprintf("Task #%d", m.detail.ID())))

	task, ok := m.detail.Task()
	switch {
	case m.busy && !ok && !m.detail.NotFound():
		fmt.Fprintf(&b, "%s loading task...\n", m.spinner.View())
	case !ok:
		b.WriteString(errorStyle.Render("✗ " + controller.NotFoundMessage))
		b.WriteString("\n")
	default:
		title := output.NormalizeTitle(task.Title)
		fmt.Fprintf(&b, "%s %s\n", output.Checkbox(task.Completed), title)
		fmt.Fprintf(&b, "status: %s\n", output.StatusLabel(task.Completed))
		fmt.Fprintf(&b, "user:   %d\n", task.UserID)
		if m.busy {
			fmt.Fprintf(&b, "%s saving...\n", m.spinner.View())
		}
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("✗ " + m.notice))
		b.WriteString("\n")
	}
	if m.confirming {
		fmt.Fprintf(&b, "\ndelete task %d? (y/n)\n", m.detail.ID())
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(detailHelpLine))
	b.WriteString("\n")
	return b.String()
}

func (m Model) filterBar() string {
	counts := m.list.Counts()
	current := m.list.Filter()
	n := map[service.Filter]int{
		service.FilterAll:       counts.All,
		service.FilterCompleted: counts.Completed,
		service.FilterPending:   counts.Pending,
	}

	parts := make([]string, 0, len(service.Filters))
	for _, f := range service.Filters {
		label := fmt.Sprintf("%s %d", f, n[f])
		if f == current {
			label = activeStyle.Render(label)
		} else {
			label = mutedStyle.Render(label)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " · ")
}

func (m Model) renderTasks(b *strings.Builder) {
	visible := m.list.Visible()
	if len(visible) == 0 {
		b.WriteString(mutedStyle.Render("no tasks found"))
		b.WriteString("\n")
		return
	}
	for i, task := range visible {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		title := output.NormalizeTitle(task.Title)
		if task.Completed {
			title = completeStyle.Render(title)
		}
		fmt.Fprintf(b, "%s%4d  %s %s\n", cursor, task.ID, output.Checkbox(task.Completed), title)
	}
}

func nextFilter(f service.Filter) service.Filter {
	for i, cur := range service.Filters {
		if cur == f {
			return service.Filters[(i+1)%len(service.Filters)]
		}
	}
	return service.FilterAll
}
