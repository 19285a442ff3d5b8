package exceptionconsole

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"deliverydesk/internal/bootstrap/logging"
	"deliverydesk/internal/domain/exception"
	"deliverydesk/internal/errs"
	"deliverydesk/internal/ports"
	"deliverydesk/internal/usecase/exceptions"
)

const maxNotesWidth = 28

// Model is the single-page exception console: form on top, table below.
// The table is drawn from a Board subscribed to the service, so every
// operation's row changes are already applied when its result message arrives.
type Model struct {
	ctx         context.Context
	service     *exceptions.Service
	board       *exceptions.Board
	unsubscribe func()
	keys        KeyMap

	form     form
	focus    field
	selected int
	filter   exception.Filter

	notice  string
	pending *exception.Record
	status  string
}

type createdMsg struct {
	record exception.Record
	err    error
}

type resolvedMsg struct {
	id      uint64
	changed bool
	err     error
}

type deletedMsg struct {
	id      uint64
	outcome exceptions.DeleteOutcome
	err     error
}

type filteredMsg struct {
	filter  exception.Filter
	visible int
	err     error
}

func NewModel(ctx context.Context, service *exceptions.Service) (*Model, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if service == nil {
		return nil, errors.New("exception service is required")
	}

	ctx = logging.WithAttrs(ctx, slog.String("component", "exceptionconsole"))

	board := exceptions.NewBoard()
	unsubscribe, err := service.Subscribe(ctx, board)
	if err != nil {
		return nil, errs.Wrap(err, "subscribe console board")
	}

	filter, err := service.ActiveFilter(ctx)
	if err != nil {
		unsubscribe()
		return nil, errs.Wrap(err, "load active filter")
	}

	m := &Model{
		ctx:         ctx,
		service:     service,
		board:       board,
		unsubscribe: unsubscribe,
		keys:        DefaultKeyMap,
		form:        newForm(service.Catalog()),
		filter:      filter,
		status:      "ready",
	}
	m.setFocus(fieldDeliveryID)
	return m, nil
}

// Close detaches the console board from the service. Safe to call more than once.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case createdMsg:
		if msg.err != nil {
			var validationErr *exception.ValidationError
			if errors.As(msg.err, &validationErr) {
				m.notice = validationErr.Notice()
				return m, nil
			}
			m.status = "create failed: " + msg.err.Error()
			logging.Error(m.ctx, "create exception failed", slog.Any("err", errs.Loggable(msg.err)))
			return m, nil
		}
		m.form.reset()
		m.status = fmt.Sprintf("logged #%d %s", msg.record.ID, msg.record.DeliveryID)
		m.clampSelection()
		return m, m.setFocus(fieldDeliveryID)
	case resolvedMsg:
		switch {
		case msg.err != nil:
			m.status = "resolve failed: " + msg.err.Error()
			logging.Error(m.ctx, "resolve exception failed", slog.Uint64("exception_id", msg.id), slog.Any("err", errs.Loggable(msg.err)))
		case msg.changed:
			m.status = fmt.Sprintf("resolved #%d", msg.id)
		default:
			m.status = fmt.Sprintf("#%d already resolved", msg.id)
		}
		m.clampSelection()
		return m, nil
	case deletedMsg:
		if msg.err != nil {
			m.status = "delete failed: " + msg.err.Error()
			logging.Error(m.ctx, "delete exception failed", slog.Uint64("exception_id", msg.id), slog.Any("err", errs.Loggable(msg.err)))
		} else {
			switch msg.outcome {
			case exceptions.DeleteDone:
				m.status = fmt.Sprintf("deleted #%d", msg.id)
			case exceptions.DeleteNotFound:
				m.status = fmt.Sprintf("#%d no longer exists", msg.id)
			default:
				m.status = "delete cancelled"
			}
		}
		m.clampSelection()
		return m, nil
	case filteredMsg:
		if msg.err != nil {
			m.status = "filter failed: " + msg.err.Error()
			return m, nil
		}
		m.filter = msg.filter
		m.status = fmt.Sprintf("showing %d of %d", msg.visible, m.board.Len())
		m.clampSelection()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blink and other input-internal messages.
	if input := m.form.text(m.focus); input != nil {
		updated, cmd := input.Update(message)
		*input = updated
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.Close()
		return m, tea.Quit
	}

	// The validation notice blocks everything until acknowledged.
	if m.notice != "" {
		m.notice = ""
		return m, nil
	}

	if m.pending != nil {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			id := m.pending.ID
			m.pending = nil
			return m, m.deleteCmd(id, ports.Confirmed)
		case key.Matches(msg, m.keys.Cancel):
			id := m.pending.ID
			m.pending = nil
			return m, m.deleteCmd(id, ports.Declined)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m, m.createCmd()
	case key.Matches(msg, m.keys.NextField):
		return m, m.setFocus((m.focus + 1) % (focusTable + 1))
	case key.Matches(msg, m.keys.PrevField):
		return m, m.setFocus((m.focus + focusTable) % (focusTable + 1))
	}

	if m.focus == focusTable {
		return m, m.handleTableKey(msg)
	}

	if key.Matches(msg, m.keys.Enter) {
		if m.focus == fieldNotes {
			return m, m.createCmd()
		}
		return m, m.setFocus(m.focus + 1)
	}

	if choice := m.form.choice(m.focus); choice != nil {
		switch {
		case key.Matches(msg, m.keys.Left):
			choice.prev()
		case key.Matches(msg, m.keys.Right):
			choice.next()
		}
		return m, nil
	}

	if input := m.form.text(m.focus); input != nil {
		updated, cmd := input.Update(msg)
		*input = updated
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleTableKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.QuitTable):
		m.Close()
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.board.VisibleRows())-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Resolve):
		row, ok := m.selectedRow()
		if !ok || !row.CanResolve() {
			return nil
		}
		return m.resolveCmd(row.Record.ID)
	case key.Matches(msg, m.keys.Delete):
		row, ok := m.selectedRow()
		if !ok {
			return nil
		}
		record := row.Record
		m.pending = &record
	case key.Matches(msg, m.keys.CycleIssue):
		next := m.filter
		next.IssueType = nextIssueType(m.service.Catalog(), m.filter.IssueType)
		return m.filterCmd(next)
	case key.Matches(msg, m.keys.CycleStatus):
		next := m.filter
		next.Status = nextStatus(m.filter.Status)
		return m.filterCmd(next)
	case key.Matches(msg, m.keys.ClearFilters):
		return m.filterCmd(exception.Filter{})
	}
	return nil
}

func (m *Model) setFocus(target field) tea.Cmd {
	m.focus = target
	for _, id := range []field{fieldDeliveryID, fieldCustomer, fieldNotes} {
		if id != target {
			m.form.text(id).Blur()
		}
	}
	if input := m.form.text(target); input != nil {
		return input.Focus()
	}
	return nil
}

func (m *Model) selectedRow() (exceptions.Row, bool) {
	rows := m.board.VisibleRows()
	if m.selected < 0 || m.selected >= len(rows) {
		return exceptions.Row{}, false
	}
	return rows[m.selected], true
}

func (m *Model) clampSelection() {
	visible := len(m.board.VisibleRows())
	if m.selected >= visible {
		m.selected = visible - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *Model) createCmd() tea.Cmd {
	ctx := m.ctx
	service := m.service
	input := m.form.input()
	return func() tea.Msg {
		record, err := service.Create(ctx, input)
		return createdMsg{record: record, err: err}
	}
}

func (m *Model) resolveCmd(id uint64) tea.Cmd {
	ctx := m.ctx
	service := m.service
	return func() tea.Msg {
		changed, err := service.Resolve(ctx, id)
		return resolvedMsg{id: id, changed: changed, err: err}
	}
}

func (m *Model) deleteCmd(id uint64, confirm ports.Confirmer) tea.Cmd {
	ctx := m.ctx
	service := m.service
	return func() tea.Msg {
		outcome, err := service.Delete(ctx, id, confirm)
		return deletedMsg{id: id, outcome: outcome, err: err}
	}
}

func (m *Model) filterCmd(filter exception.Filter) tea.Cmd {
	ctx := m.ctx
	service := m.service
	return func() tea.Msg {
		visibility, err := service.ApplyFilters(ctx, filter)
		visible := 0
		for _, shown := range visibility {
			if shown {
				visible++
			}
		}
		return filteredMsg{filter: filter, visible: visible, err: err}
	}
}

func (m *Model) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	focusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("62"))
	highStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	modalStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("204")).Padding(0, 2)

	var builder strings.Builder
	builder.WriteString(titleStyle.Render("Delivery Exceptions"))
	builder.WriteString("\n\n")

	builder.WriteString(sectionStyle.Render("Log exception"))
	builder.WriteString("\n")
	for id := fieldDeliveryID; id < focusTable; id++ {
		name := fieldLabels[id]
		if id != fieldNotes {
			name += "*"
		}
		label := fmt.Sprintf("%-12s", name)
		var value string
		if input := m.form.text(id); input != nil {
			value = input.View()
		} else {
			value = "< " + m.form.choice(id).display() + " >"
		}
		if m.focus == id {
			builder.WriteString(focusStyle.Render("> " + label))
		} else {
			builder.WriteString("  " + label)
		}
		builder.WriteString(" " + value + "\n")
	}
	builder.WriteString(dimStyle.Render("  ctrl+s submit · tab next field · ←/→ choose"))
	builder.WriteString("\n\n")

	builder.WriteString(sectionStyle.Render("Exceptions"))
	builder.WriteString("  ")
	builder.WriteString(dimStyle.Render(fmt.Sprintf(
		"issue=%s status=%s",
		firstNonEmpty(string(m.filter.IssueType), "All"),
		firstNonEmpty(string(m.filter.Status), "All"),
	)))
	builder.WriteString("\n")

	rows := m.board.VisibleRows()
	if len(rows) == 0 {
		builder.WriteString(dimStyle.Render("- no exceptions"))
		builder.WriteString("\n")
	} else {
		builder.WriteString(dimStyle.Render("  " + formatHeader()))
		builder.WriteString("\n")
		for index, row := range rows {
			line := formatRow(row)
			switch {
			case m.focus == focusTable && index == m.selected:
				builder.WriteString(selectedStyle.Render("> " + line))
			case row.Record.IsResolved():
				builder.WriteString(dimStyle.Render("  " + line))
			case row.Record.IsHighPriority():
				builder.WriteString(highStyle.Render("  " + line))
			default:
				builder.WriteString("  " + line)
			}
			builder.WriteString("\n")
		}
	}
	builder.WriteString("\n")

	stats := m.board.Stats()
	builder.WriteString(fmt.Sprintf("Open: %d | Resolved: %d", stats.Open, stats.Resolved))
	builder.WriteString("\n")
	builder.WriteString(dimStyle.Render("- " + firstNonEmpty(m.status, "ready")))
	builder.WriteString("\n\n")

	switch {
	case m.notice != "":
		builder.WriteString(modalStyle.Render(m.notice + "\n\n" + dimStyle.Render("press any key")))
		builder.WriteString("\n")
	case m.pending != nil:
		body := fmt.Sprintf("%s\n#%d %s (%s)\n\n[y] yes   [n] no", exceptions.DeletePrompt, m.pending.ID, m.pending.DeliveryID, m.pending.CustomerName)
		builder.WriteString(modalStyle.Render(body))
		builder.WriteString("\n")
	default:
		builder.WriteString(dimStyle.Render("tab: table · j/k move · r resolve · d delete · i/s filter · c clear · q quit"))
		builder.WriteString("\n")
	}

	return builder.String()
}

func formatHeader() string {
	return fmt.Sprintf("%-4s %-14s %-18s %-14s %-7s %-9s %s", "ID", "Delivery", "Customer", "Issue", "Prio", "Status", "Notes")
}

func formatRow(row exceptions.Row) string {
	r := row.Record
	actions := "[d]"
	if row.CanResolve() {
		actions = "[r][d]"
	}
	return fmt.Sprintf(
		"%-4d %-14s %-18s %-14s %-7s %-9s %-*s %s",
		r.ID,
		truncate(r.DeliveryID, 14),
		truncate(r.CustomerName, 18),
		truncate(string(r.IssueType), 14),
		r.Priority,
		r.Status,
		maxNotesWidth,
		truncate(firstNonEmpty(r.Notes, "-"), maxNotesWidth),
		actions,
	)
}

// nextIssueType cycles All -> each catalog type -> All.
func nextIssueType(catalog exception.Catalog, current exception.IssueType) exception.IssueType {
	if current == "" {
		if len(catalog.IssueTypes) == 0 {
			return ""
		}
		return catalog.IssueTypes[0]
	}
	for i, it := range catalog.IssueTypes {
		if it == current && i+1 < len(catalog.IssueTypes) {
			return catalog.IssueTypes[i+1]
		}
	}
	return ""
}

func nextStatus(current exception.Status) exception.Status {
	switch current {
	case "":
		return exception.StatusOpen
	case exception.StatusOpen:
		return exception.StatusResolved
	default:
		return ""
	}
}

func truncate(value string, width int) string {
	runes := []rune(value)
	if len(runes) <= width {
		return value
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
