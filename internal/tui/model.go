package tui

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"unicode"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"
	"github.com/evanschultz/tavla/internal/domain"
)

// Service is the board session the model drives.
type Service interface {
	Dispatch(context.Context, domain.Command) error
	Snapshot() domain.BoardSnapshot
	ShouldExit() bool
}

// Model is the bubbletea model for the board.
type Model struct {
	svc Service
	ctx context.Context

	keys     keyMap
	editKeys editingKeyMap
	help     help.Model
	markdown *markdownRenderer

	readClipboard func() (string, error)

	ready    bool
	width    int
	height   int
	showHelp bool
	quitting bool
	status   string
	err      error
}

// pasteMsg carries clipboard text read for editing mode.
type pasteMsg struct {
	text string
	err  error
}

// NewModel constructs a new value for this package.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		svc:           svc,
		ctx:           context.Background(),
		keys:          newKeyMap(),
		editKeys:      newEditingKeyMap(),
		help:          h,
		markdown:      &markdownRenderer{},
		readClipboard: clipboard.ReadAll,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return nil
}

// Err returns the error that ended the session, if any. A failed save on exit
// is reported here after the program has quit.
func (m Model) Err() error {
	return m.err
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case pasteMsg:
		return m.applyPaste(msg)

	case tea.KeyPressMsg:
		if m.quitting {
			return m, nil
		}
		if key.Matches(msg, m.keys.forceQuit) {
			return m.forceQuit()
		}
		if m.svc.Snapshot().Mode == domain.ModeEditing {
			return m.handleEditingModeKey(msg)
		}
		if m.showHelp {
			return m.handleHelpKey(msg)
		}
		return m.handleNormalModeKey(msg)
	}
	return m, nil
}

// handleNormalModeKey maps board keys to commands.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	var cmd domain.Command
	switch {
	case key.Matches(msg, m.keys.toggleHelp):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.quit):
		return m.exit()
	case key.Matches(msg, m.keys.moveDown):
		cmd = domain.MoveDown()
	case key.Matches(msg, m.keys.moveUp):
		cmd = domain.MoveUp()
	case key.Matches(msg, m.keys.toggleEdit):
		cmd = domain.ToggleEdit()
	case key.Matches(msg, m.keys.focusTodo):
		cmd = domain.Focus(domain.ColumnTodo)
	case key.Matches(msg, m.keys.focusDoing):
		cmd = domain.Focus(domain.ColumnDoing)
	case key.Matches(msg, m.keys.focusDone):
		cmd = domain.Focus(domain.ColumnDone)
	case key.Matches(msg, m.keys.moveToTodo):
		cmd = domain.MoveItemTo(domain.ColumnTodo)
	case key.Matches(msg, m.keys.moveToDoing):
		cmd = domain.MoveItemTo(domain.ColumnDoing)
	case key.Matches(msg, m.keys.moveToDone):
		cmd = domain.MoveItemTo(domain.ColumnDone)
	case key.Matches(msg, m.keys.deleteItem):
		cmd = domain.DeleteSelected()
	default:
		return m, nil
	}
	return m.dispatch(cmd)
}

// handleEditingModeKey maps text-entry keys to commands. Printable input is
// inserted one character at a time.
func (m Model) handleEditingModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.editKeys.confirm):
		return m.dispatch(domain.Confirm())
	case key.Matches(msg, m.editKeys.cancel):
		return m.dispatch(domain.Cancel())
	case key.Matches(msg, m.editKeys.backspace):
		return m.dispatch(domain.Backspace())
	case key.Matches(msg, m.editKeys.left):
		return m.dispatch(domain.CursorLeft())
	case key.Matches(msg, m.editKeys.right):
		return m.dispatch(domain.CursorRight())
	case key.Matches(msg, m.editKeys.paste):
		return m, m.pasteCmd()
	}
	return m.insertText(msg.Text)
}

// handleHelpKey closes the help overlay; other keys are ignored while it is open.
func (m Model) handleHelpKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.toggleHelp) || msg.String() == "esc" {
		m.showHelp = false
	}
	return m, nil
}

// dispatch sends one command to the service and records failures in the status line.
func (m Model) dispatch(cmd domain.Command) (tea.Model, tea.Cmd) {
	if err := m.svc.Dispatch(m.ctx, cmd); err != nil {
		m.status = fmt.Sprintf("%s failed: %v", cmd, err)
	}
	return m, nil
}

// exit persists through the service and quits even when the save fails.
func (m Model) exit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if err := m.svc.Dispatch(m.ctx, domain.Exit()); err != nil {
		m.err = err
		m.status = "save failed: " + err.Error()
	}
	return m, tea.Quit
}

// forceQuit leaves editing mode first so the exit command applies.
func (m Model) forceQuit() (tea.Model, tea.Cmd) {
	if m.svc.Snapshot().Mode == domain.ModeEditing {
		if err := m.svc.Dispatch(m.ctx, domain.Cancel()); err != nil {
			m.status = fmt.Sprintf("%s failed: %v", domain.Cancel(), err)
		}
	}
	m.showHelp = false
	return m.exit()
}

// pasteCmd reads the clipboard off the update loop.
func (m Model) pasteCmd() tea.Cmd {
	read := m.readClipboard
	return func() tea.Msg {
		text, err := read()
		return pasteMsg{text: text, err: err}
	}
}

// applyPaste inserts clipboard text while still editing.
func (m Model) applyPaste(msg pasteMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = "paste failed: " + msg.err.Error()
		return m, nil
	}
	if m.quitting || m.svc.Snapshot().Mode != domain.ModeEditing {
		return m, nil
	}
	return m.insertText(msg.text)
}

// insertText dispatches one InsertChar per printable rune; line breaks and
// other control characters are dropped.
func (m Model) insertText(text string) (tea.Model, tea.Cmd) {
	for _, r := range text {
		if !unicode.IsPrint(r) {
			continue
		}
		if err := m.svc.Dispatch(m.ctx, domain.InsertChar(r)); err != nil {
			m.status = fmt.Sprintf("%s failed: %v", domain.InsertChar(r), err)
			break
		}
	}
	return m, nil
}

// View renders the board, footer and any overlay.
func (m Model) View() tea.View {
	if !m.ready {
		v := tea.NewView("loading...")
		v.AltScreen = true
		return v
	}

	snap := m.svc.Snapshot()
	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle := lipgloss.NewStyle().Foreground(dim)
	errorStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))

	header := titleStyle.Render("tavla") + statusStyle.Render("  ["+snap.Mode.String()+"]")
	sections := []string{header, "", m.renderColumns(snap, accent, muted, dim)}
	if strings.TrimSpace(m.status) != "" {
		style := statusStyle
		if m.err != nil {
			style = errorStyle
		}
		sections = append(sections, style.Render(m.status))
	}
	content := strings.Join(sections, "\n")

	helpBubble := m.help
	helpBubble.ShowAll = false
	helpBubble.SetWidth(max(0, m.width-2))
	var footer string
	if snap.Mode == domain.ModeEditing {
		footer = helpBubble.View(m.editKeys)
	} else {
		footer = helpBubble.View(m.keys)
	}
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(footer)

	if m.height > 0 {
		content = fitLines(content, max(0, m.height-lipgloss.Height(helpLine)))
	}
	fullContent := content + "\n" + helpLine

	overlay := ""
	switch {
	case snap.Mode == domain.ModeEditing:
		overlay = m.renderEditorOverlay(snap, accent, muted)
	case m.showHelp:
		overlay = m.renderHelpOverlay(dim, muted)
	}
	if overlay != "" {
		overlayHeight := lipgloss.Height(fullContent)
		if m.height > 0 {
			overlayHeight = m.height
		}
		fullContent = overlayOnContent(fullContent, overlay, max(1, m.width), max(1, overlayHeight))
	}

	view := tea.NewView(fullContent)
	view.AltScreen = true
	return view
}

// renderColumns renders the three columns side by side. The focused column
// gets the accent border and selected items carry the "> " marker.
func (m Model) renderColumns(snap domain.BoardSnapshot, accent, muted, dim color.Color) string {
	colWidth := m.columnWidth()
	baseColStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(0, 1).
		MarginRight(1).
		Width(colWidth)
	focusColStyle := baseColStyle.BorderForeground(accent)
	colTitle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	emptyStyle := lipgloss.NewStyle().Foreground(muted)
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)

	innerHeight := m.columnInnerHeight()
	views := make([]string, 0, len(snap.Columns))
	for _, column := range snap.Columns {
		lines := []string{colTitle.Render(fmt.Sprintf("%s (%d)", column.Title, len(column.Items)))}
		if len(column.Items) == 0 {
			lines = append(lines, emptyStyle.Render("(empty)"))
		}
		itemWidth := max(1, colWidth-6)
		for idx, item := range column.Items {
			if column.HasSelection && idx == column.Selected {
				lines = append(lines, selectedStyle.Render("> "+truncate(item, itemWidth)))
				continue
			}
			lines = append(lines, "  "+truncate(item, itemWidth))
		}
		if column.HasSelection {
			lines = scrollToSelection(lines, column.Selected+1, innerHeight)
		}
		body := strings.Join(lines, "\n")
		if innerHeight > 0 {
			body = fitLines(body, innerHeight)
		}
		if column.ID == snap.Focus {
			views = append(views, focusColStyle.Render(body))
		} else {
			views = append(views, baseColStyle.Render(body))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, views...)
}

// renderEditorOverlay renders the new-task popup with the caret at the cursor.
func (m Model) renderEditorOverlay(snap domain.BoardSnapshot, accent, muted color.Color) string {
	width := clamp(m.width*6/10, 24, max(24, m.width-4))
	prompt := "> "
	lineWidth := max(1, width-4-len(prompt))
	caret := lipgloss.NewStyle().Reverse(true)
	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(accent).Render("New task"),
		"",
		prompt + renderEditorLine(snap.EditorText, snap.EditorCursor, lineWidth, caret),
		"",
		lipgloss.NewStyle().Foreground(muted).Render("enter add • esc back to board"),
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Width(width).
		Render(strings.Join(lines, "\n"))
}

// renderHelpOverlay renders the key reference through glamour.
func (m Model) renderHelpOverlay(dim, muted color.Color) string {
	width := clamp(m.width-8, 40, 90)
	body := m.markdown.render(m.helpMarkdown(), width-4)
	lines := []string{
		body,
		lipgloss.NewStyle().Foreground(muted).Render("press " + m.keys.toggleHelp.Help().Key + " or esc to close"),
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(0, 1).
		Width(width).
		Render(strings.Join(lines, "\n"))
}

// helpMarkdown builds the help text from the active bindings.
func (m Model) helpMarkdown() string {
	var b strings.Builder
	b.WriteString("# tavla help\n\n")
	b.WriteString("Use j/k to move, a/s/d to navigate lists, A/S/D to move items.\n\n")
	writeSection := func(title string, groups [][]key.Binding) {
		b.WriteString("## " + title + "\n\n")
		b.WriteString("| key | action |\n| --- | --- |\n")
		for _, group := range groups {
			for _, binding := range group {
				h := binding.Help()
				fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
			}
		}
		b.WriteString("\n")
	}
	writeSection("Board", m.keys.FullHelp())
	writeSection("New task", m.editKeys.FullHelp())
	return b.String()
}

// columnWidth splits the terminal width across the three columns.
func (m Model) columnWidth() int {
	if m.width <= 0 {
		return 24
	}
	return max(16, m.width/3-3)
}

// columnInnerHeight returns the item rows available inside one column.
func (m Model) columnInnerHeight() int {
	if m.height <= 0 {
		return 0
	}
	// header, spacer, column borders and the two-line footer
	return max(3, m.height-8)
}

// renderEditorLine renders text with a reverse-styled caret at cursor. The
// visible window scrolls so the caret stays inside width.
func renderEditorLine(text string, cursor, width int, caret lipgloss.Style) string {
	runes := []rune(text)
	cursor = clamp(cursor, 0, len(runes))
	start := 0
	if width > 1 && cursor >= width {
		start = cursor - width + 1
	}
	under := " "
	after := ""
	if cursor < len(runes) {
		under = string(runes[cursor])
		after = string(runes[cursor+1:])
	}
	after = truncate(after, max(0, width-(cursor-start)-1))
	return string(runes[start:cursor]) + caret.Render(under) + after
}

// scrollToSelection keeps the selected row visible. Row 0 is the column title
// and always stays on top.
func scrollToSelection(lines []string, selectedRow, height int) []string {
	if height <= 1 || len(lines) <= height {
		return lines
	}
	window := height - 1
	items := lines[1:]
	top := 0
	if selectedRow-1 >= window {
		top = selectedRow - window
	}
	top = clamp(top, 0, len(items)-window)
	return append([]string{lines[0]}, items[top:top+window]...)
}

// clamp clamps v into [minV, maxV].
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// fitLines pads or cuts content to exactly maxLines lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent centers overlay above base on a layered canvas.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	centered := lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, overlay)
	canvas.Compose(lipgloss.NewLayer(base).X(0).Y(0).Z(0))
	canvas.Compose(lipgloss.NewLayer(centered).X(0).Y(0).Z(10))
	return canvas.Render()
}

// truncate cuts s to max runes, ending with an ellipsis when shortened.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
