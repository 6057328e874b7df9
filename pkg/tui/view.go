package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/stefanpenner/bujo/pkg/task"
)

const minWidth = 40
const minHeight = 10

// View implements tea.Model.
func (m Model) View() string {
	w := m.width
	h := m.height
	if w < minWidth {
		w = minWidth
	}
	if h < minHeight {
		h = minHeight
	}

	if m.showHelpModal {
		modal := m.renderHelpModal()
		return placeOverlay(modal, w, h)
	}

	var b strings.Builder

	// Header
	b.WriteString(m.renderHeader(w))
	b.WriteString("\n")

	// Periodic log tabs
	b.WriteString(m.renderLogTabs())
	b.WriteString("\n")

	// Separator
	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")

	headerLines := 3
	footerLines := 2
	contentHeight := h - headerLines - footerLines

	leftWidth := w / 2
	rightWidth := w - leftWidth - 1 // 1 char for divider
	if leftWidth < 20 {
		leftWidth = 20
	}
	if rightWidth < 20 {
		rightWidth = 20
	}

	leftPanel := m.renderTaskPanel(leftWidth, contentHeight)
	rightPanel := m.renderDetailPanel(rightWidth, contentHeight)
	if m.showNote {
		rightPanel = m.renderNotePanel(rightWidth, contentHeight)
	}

	sep := lipgloss.NewStyle().Foreground(ColorGrayDim).Render("│")
	for i := 0; i < contentHeight; i++ {
		b.WriteString(getLine(leftPanel, i, leftWidth))
		b.WriteString(sep)
		b.WriteString(getLine(rightPanel, i, rightWidth))
		b.WriteString("\n")
	}

	// Separator
	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")

	// Footer
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m Model) renderHeader(width int) string {
	title := HeaderStyle.Render("bujo")
	if m.interval.IsValid() {
		title += "  " + HeaderStyle.Render(formatInterval(m.interval.Start, m.interval.End))
	}

	total := len(m.pending) + len(m.completed)
	stats := HeaderCountStyle.Render(fmt.Sprintf("%d/%d done", len(m.completed), total))

	// Status message
	status := ""
	if m.statusMsg != "" && m.now().Before(m.statusTimeout) {
		status = "  " + lipgloss.NewStyle().Foreground(ColorCyan).Render(m.statusMsg)
	}

	gap := width - lipgloss.Width(title) - lipgloss.Width(stats) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}

	return title + strings.Repeat(" ", gap) + status + stats
}

// formatInterval shows a half-open interval as the inclusive days it covers.
func formatInterval(start, end time.Time) string {
	last := end.Add(-time.Nanosecond)
	if last.Before(start) || sameDay(start, last) {
		return start.Format("Mon 2006-01-02")
	}
	return start.Format("Mon 2006-01-02") + " → " + last.Format("Mon 2006-01-02")
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (m Model) renderLogTabs() string {
	if len(m.logs) == 0 {
		return FooterStyle.Render("Logs: (none, add periodic_logs to the config)")
	}

	var tabs []string
	tabs = append(tabs, FooterStyle.Render("Logs: "))
	for i, c := range m.logs {
		if i == m.activeLog {
			tabs = append(tabs, ActiveTabStyle.Render(c.Label()))
		} else {
			tabs = append(tabs, InactiveTabStyle.Render(c.Label()))
		}
	}
	return strings.Join(tabs, "")
}

func (m Model) renderTaskPanel(width, height int) string {
	var lines []string

	// Reserve last line for the note path
	listHeight := height - 1
	if listHeight < 1 {
		listHeight = 1
	}

	if len(m.visibleItems) == 0 && !m.isInputMode {
		if m.noteExists {
			lines = append(lines, FooterStyle.Render("No tasks in this note. Press 'a' to add one."))
		} else {
			lines = append(lines, FooterStyle.Render("No note yet. Press 'a' to add a task."))
		}
	}

	// Scrolling window
	startIdx := 0
	endIdx := len(m.visibleItems)
	if len(m.visibleItems) > listHeight {
		half := listHeight / 2
		startIdx = m.cursor - half
		if startIdx < 0 {
			startIdx = 0
		}
		endIdx = startIdx + listHeight
		if endIdx > len(m.visibleItems) {
			endIdx = len(m.visibleItems)
			startIdx = endIdx - listHeight
			if startIdx < 0 {
				startIdx = 0
			}
		}
	}

	for i := startIdx; i < endIdx; i++ {
		item := m.visibleItems[i]
		if item.IsSectionHeader {
			lines = append(lines, m.renderSectionHeader(item, width))
			continue
		}
		lines = append(lines, m.renderTaskItem(item, i == m.cursor, width))
	}

	if m.isInputMode {
		prompt := InputPromptStyle.Render("> ")
		if m.inputSection != "" {
			prompt = InputPromptStyle.Render(m.inputSection + " > ")
		}
		lines = append(lines, DepthIndent+prompt+m.textInput.View())
	}

	// Pad so the path line lands at the bottom
	for len(lines) < listHeight {
		lines = append(lines, "")
	}

	pathLine := ""
	if m.notePath != "" {
		pathLine = lipgloss.NewStyle().Foreground(ColorGrayDim).Render(fileHyperlink(m.vault.Store.FilePath(m.notePath)))
	}
	lines = append(lines, pathLine)

	return strings.Join(lines, "\n")
}

func (m Model) renderSectionHeader(item TaskItem, width int) string {
	style := PendingHeaderStyle
	count := len(m.pending)
	if item.ID == headerCompleted {
		style = CompletedHeaderStyle
		count = len(m.completed)
	}

	label := style.Render(fmt.Sprintf("── %s (%d) ", item.Name, count))
	remaining := width - lipgloss.Width(label)
	if remaining > 0 {
		label += SectionRuleStyle.Render(strings.Repeat("─", remaining))
	}
	return label
}

func (m Model) renderTaskItem(item TaskItem, isSelected bool, width int) string {
	t := item.Task

	var icon string
	switch {
	case isCancelled(t):
		icon = CancelledStyle.Render(IconCancelled)
	case t.IsCompleted():
		icon = CompleteStyle.Render(IconDone)
	default:
		icon = IncompleteStyle.Render(IconOpen)
	}

	var parts []string
	if !t.Times.Start.IsZero() {
		parts = append(parts, TimeStyle.Render(t.Times.Start.Format("15:04")))
	}
	if marks := priorityMarks(t.Priority); marks != "" {
		parts = append(parts, PriorityStyle.Render(marks))
	}
	name := item.Name
	if isCancelled(t) {
		name = CancelledStyle.Render(name)
	}
	parts = append(parts, name)
	if !t.Dates.Due.IsZero() {
		parts = append(parts, DueStyle.Render("📅 "+t.Dates.Due.Format(time.DateOnly)))
	}
	// Every task is scheduled on its note's day; only show other days.
	if d := t.Dates.Scheduled; !d.IsZero() && !m.interval.Contains(d) {
		parts = append(parts, ScheduledStyle.Render("⏳ "+d.Format(time.DateOnly)))
	}

	line := DepthIndent + icon + " " + strings.Join(parts, " ")

	// Pad to width
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		line += strings.Repeat(" ", width-lineWidth)
	}

	if isSelected {
		line = SelectedStyle.Render(line)
	}
	return line
}

func isCancelled(t task.Task) bool {
	s, ok := t.Status.(task.StatusMarked)
	return ok && s.Kind == task.StatusCancelled
}

// priorityMarks shows priorities above normal as one to three marks.
func priorityMarks(p task.Priority) string {
	if p >= task.PriorityNormal {
		return ""
	}
	return strings.Repeat(IconPriority, int(task.PriorityNormal-p))
}

func (m Model) renderDetailPanel(width, height int) string {
	item, ok := m.selected()
	if !ok {
		return FooterStyle.Render(" Select a task to view details")
	}
	t := item.Task

	var lines []string
	lines = append(lines, " "+ModalTitleStyle.Render(item.Name), "")

	field := func(label, value string) {
		if value == "" {
			return
		}
		lines = append(lines, " "+ModalLabelStyle.Render(label)+ModalValueStyle.Render(value))
	}
	date := func(d time.Time) string {
		if d.IsZero() {
			return ""
		}
		return d.Format(time.DateOnly)
	}
	clock := func(d time.Time) string {
		if d.IsZero() {
			return ""
		}
		return d.Format("15:04")
	}

	if s, ok := t.Status.(task.StatusMarked); ok {
		field("Status", fmt.Sprintf("%s [%s]", s.Kind, s.Symbol))
	}
	field("Priority", t.Priority.String())
	field("Section", item.Section)
	field("Start time", clock(t.Times.Start))
	field("End time", clock(t.Times.End))
	field("Scheduled", date(t.Dates.Scheduled))
	field("Start", date(t.Dates.Start))
	field("Due", date(t.Dates.Due))
	field("Created", date(t.Dates.Created))
	field("Done", date(t.Dates.Done))
	field("Cancelled", date(t.Dates.Cancelled))
	field("Repeats", t.RecurrenceRule)
	field("ID", t.ID)
	field("Depends on", strings.Join(t.DependsOn.Sorted(), ", "))
	if len(t.Tags) > 0 {
		field("Tags", TagStyle.Render(strings.Join(t.Tags.Sorted(), " ")))
	}
	if src, ok := t.Source.(task.PageSource); ok {
		field("Line", fmt.Sprintf("%s:%d", src.Path, src.LineNumber+1))
	}

	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderNotePanel(width, height int) string {
	if strings.TrimSpace(m.noteBody) == "" {
		return FooterStyle.Render(" This note is empty")
	}

	out, err := m.renderer.Render(m.noteBody, width-2)
	if err != nil {
		out = m.noteBody
	}

	lines := strings.Split(out, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	help := m.keys.ShortHelp()
	if m.isInputMode {
		help = "enter confirm  esc cancel"
	}
	return FooterStyle.Render(help)
}

func (m Model) renderHelpModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().Foreground(ColorBlue).Width(16)
	descStyle := lipgloss.NewStyle().Foreground(ColorWhite)

	for _, binding := range m.keys.FullHelp() {
		b.WriteString(keyStyle.Render(binding[0]))
		b.WriteString(descStyle.Render(binding[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("Press Esc or ? to close"))

	return ModalStyle.Render(b.String())
}

// fileHyperlink wraps a file path in an OSC 8 terminal hyperlink so it's clickable.
func fileHyperlink(path string) string {
	url := "file://" + path
	return fmt.Sprintf("\x1b]8;;%s\x1b\\%s\x1b]8;;\x1b\\", url, path)
}

// Helper functions

func getLine(block string, idx int, width int) string {
	lines := strings.Split(block, "\n")
	if idx < len(lines) {
		line := lines[idx]
		lineWidth := lipgloss.Width(line)
		if lineWidth < width {
			return line + strings.Repeat(" ", width-lineWidth)
		}
		return line
	}
	return strings.Repeat(" ", width)
}

func placeOverlay(modal string, width, height int) string {
	modalLines := strings.Split(modal, "\n")

	topPadding := (height - len(modalLines)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	leftPadding := (width - lipgloss.Width(modalLines[0])) / 2
	if leftPadding < 0 {
		leftPadding = 0
	}

	var result strings.Builder
	for i := 0; i < topPadding; i++ {
		result.WriteString("\n")
	}

	for _, line := range modalLines {
		result.WriteString(strings.Repeat(" ", leftPadding))
		result.WriteString(line)
		result.WriteString("\n")
	}

	return result.String()
}
