package domain

import "fmt"

// Mode is the board interaction mode.
type Mode int

// ModeNormal and ModeEditing are the two board modes.
const (
	ModeNormal Mode = iota
	ModeEditing
)

// String returns the mode label.
func (m Mode) String() string {
	switch m {
	case ModeEditing:
		return "editing"
	default:
		return "normal"
	}
}

// BoardTitles holds the fixed column titles.
type BoardTitles struct {
	Todo  string
	Doing string
	Done  string
}

// DefaultTitles returns the stock column titles.
func DefaultTitles() BoardTitles {
	return BoardTitles{
		Todo:  "TODO",
		Doing: "Doing",
		Done:  "Done",
	}
}

// Title returns the title for one column.
func (t BoardTitles) Title(id ColumnID) string {
	switch id {
	case ColumnDoing:
		return t.Doing
	case ColumnDone:
		return t.Done
	default:
		return t.Todo
	}
}

// BoardState is the persisted form of a board: three ordered label lists.
type BoardState struct {
	Todo  []string
	Doing []string
	Done  []string
}

// Items returns the labels of one column.
func (s BoardState) Items(id ColumnID) []string {
	switch id {
	case ColumnDoing:
		return s.Doing
	case ColumnDone:
		return s.Done
	default:
		return s.Todo
	}
}

// Normalized returns a copy with nil lists replaced by empty ones.
func (s BoardState) Normalized() BoardState {
	return BoardState{
		Todo:  append([]string{}, s.Todo...),
		Doing: append([]string{}, s.Doing...),
		Done:  append([]string{}, s.Done...),
	}
}

// Validate rejects empty task labels. Whitespace is a label like any other.
func (s BoardState) Validate() error {
	for _, id := range ColumnIDs() {
		for idx, label := range s.Items(id) {
			if label == "" {
				return fmt.Errorf("%w: %s[%d] is empty", ErrInvalidLabel, id, idx)
			}
		}
	}
	return nil
}

// Board is the task board state machine. Apply is its only mutating entry point.
type Board struct {
	columns    [columnCount]Column
	focus      ColumnID
	mode       Mode
	editor     TextEditor
	shouldExit bool
}

// NewBoard builds a board from persisted state. Every column starts without a
// selection, focus starts on Todo and the mode is Normal.
func NewBoard(titles BoardTitles, state BoardState) (*Board, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}
	b := &Board{
		focus: ColumnTodo,
		mode:  ModeNormal,
	}
	for _, id := range ColumnIDs() {
		column, err := NewColumn(titles.Title(id))
		if err != nil {
			return nil, fmt.Errorf("%s column: %w", id, err)
		}
		column.Load(state.Items(id))
		b.columns[id] = column
	}
	return b, nil
}

// Focus returns the focused column.
func (b *Board) Focus() ColumnID {
	return b.focus
}

// Mode returns the current interaction mode.
func (b *Board) Mode() Mode {
	return b.mode
}

// ShouldExit reports whether an exit command was applied.
func (b *Board) ShouldExit() bool {
	return b.shouldExit
}

// State returns the persistable lists.
func (b *Board) State() BoardState {
	return BoardState{
		Todo:  b.columns[ColumnTodo].Items(),
		Doing: b.columns[ColumnDoing].Items(),
		Done:  b.columns[ColumnDone].Items(),
	}
}

// Apply interprets one command for the current mode. It reports false when the
// command has no meaning in that mode; such commands change nothing.
func (b *Board) Apply(cmd Command) bool {
	if b.mode == ModeEditing {
		return b.applyEditing(cmd)
	}
	return b.applyNormal(cmd)
}

// applyNormal handles navigation and movement commands.
func (b *Board) applyNormal(cmd Command) bool {
	switch cmd.Kind {
	case CommandExit:
		b.shouldExit = true
	case CommandMoveDown:
		b.focused().SelectNext()
	case CommandMoveUp:
		b.focused().SelectPrevious()
	case CommandToggleEdit:
		b.mode = ModeEditing
	case CommandFocus:
		if !cmd.Column.Valid() {
			return false
		}
		b.changeFocus(cmd.Column)
	case CommandMoveItemTo:
		if !cmd.Column.Valid() {
			return false
		}
		b.moveItemTo(cmd.Column)
	case CommandDeleteSelected:
		b.deleteSelected()
	default:
		return false
	}
	return true
}

// applyEditing handles text-entry commands.
func (b *Board) applyEditing(cmd Command) bool {
	switch cmd.Kind {
	case CommandInsertChar:
		b.editor.Insert(cmd.Char)
	case CommandBackspace:
		b.editor.DeleteBeforeCursor()
	case CommandCursorLeft:
		b.editor.MoveLeft()
	case CommandCursorRight:
		b.editor.MoveRight()
	case CommandConfirm:
		if label, ok := b.editor.Submit(); ok {
			b.columns[ColumnTodo].Push(label)
		}
	case CommandCancel:
		b.mode = ModeNormal
	default:
		return false
	}
	return true
}

// focused returns the focused column.
func (b *Board) focused() *Column {
	return &b.columns[b.focus]
}

// changeFocus moves focus and selects the first item of the new column.
func (b *Board) changeFocus(next ColumnID) {
	if next == b.focus {
		return
	}
	b.focused().ClearSelection()
	b.focus = next
	b.focused().SelectNext()
}

// moveItemTo moves the selected item to the end of dst. The source selection
// is cleared because the old index may now be out of range.
func (b *Board) moveItemTo(dst ColumnID) {
	if dst == b.focus {
		return
	}
	src := b.focused()
	idx, ok := src.Selected()
	if !ok {
		return
	}
	label := src.Remove(idx)
	b.columns[dst].Push(label)
	src.ClearSelection()
}

// deleteSelected removes the selected item and keeps the cursor on the same
// row, clamped to the shorter list.
func (b *Board) deleteSelected() {
	src := b.focused()
	idx, ok := src.Selected()
	if !ok {
		return
	}
	src.Remove(idx)
	src.selectIndex(idx)
}
