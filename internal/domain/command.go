package domain

import "fmt"

// CommandKind enumerates the closed set of board commands.
type CommandKind int

// Normal-mode and editing-mode command kinds.
const (
	CommandNone CommandKind = iota

	CommandExit
	CommandMoveUp
	CommandMoveDown
	CommandToggleEdit
	CommandFocus
	CommandMoveItemTo
	CommandDeleteSelected

	CommandInsertChar
	CommandBackspace
	CommandCursorLeft
	CommandCursorRight
	CommandConfirm
	CommandCancel
)

// commandKindNames stores log-friendly command names.
var commandKindNames = map[CommandKind]string{
	CommandNone:           "none",
	CommandExit:           "exit",
	CommandMoveUp:         "move_up",
	CommandMoveDown:       "move_down",
	CommandToggleEdit:     "toggle_edit",
	CommandFocus:          "focus",
	CommandMoveItemTo:     "move_item_to",
	CommandDeleteSelected: "delete_selected",
	CommandInsertChar:     "insert_char",
	CommandBackspace:      "backspace",
	CommandCursorLeft:     "cursor_left",
	CommandCursorRight:    "cursor_right",
	CommandConfirm:        "confirm",
	CommandCancel:         "cancel",
}

// String returns the command kind name.
func (k CommandKind) String() string {
	if name, ok := commandKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("command(%d)", int(k))
}

// Command is one discrete event fed into the board. Column is read only by
// Focus and MoveItemTo; Char only by InsertChar.
type Command struct {
	Kind   CommandKind
	Column ColumnID
	Char   rune
}

// String renders the command for logs.
func (c Command) String() string {
	switch c.Kind {
	case CommandFocus, CommandMoveItemTo:
		return c.Kind.String() + "(" + c.Column.String() + ")"
	case CommandInsertChar:
		return fmt.Sprintf("%s(%q)", c.Kind, c.Char)
	default:
		return c.Kind.String()
	}
}

// Exit requests shutdown.
func Exit() Command { return Command{Kind: CommandExit} }

// MoveUp selects the previous item in the focused column.
func MoveUp() Command { return Command{Kind: CommandMoveUp} }

// MoveDown selects the next item in the focused column.
func MoveDown() Command { return Command{Kind: CommandMoveDown} }

// ToggleEdit switches into editing mode.
func ToggleEdit() Command { return Command{Kind: CommandToggleEdit} }

// Focus moves input focus to column.
func Focus(column ColumnID) Command { return Command{Kind: CommandFocus, Column: column} }

// MoveItemTo moves the selected item of the focused column to column.
func MoveItemTo(column ColumnID) Command { return Command{Kind: CommandMoveItemTo, Column: column} }

// DeleteSelected removes the selected item of the focused column.
func DeleteSelected() Command { return Command{Kind: CommandDeleteSelected} }

// InsertChar types one character into the editor.
func InsertChar(r rune) Command { return Command{Kind: CommandInsertChar, Char: r} }

// Backspace deletes the character before the editor cursor.
func Backspace() Command { return Command{Kind: CommandBackspace} }

// CursorLeft moves the editor cursor left.
func CursorLeft() Command { return Command{Kind: CommandCursorLeft} }

// CursorRight moves the editor cursor right.
func CursorRight() Command { return Command{Kind: CommandCursorRight} }

// Confirm submits the editor buffer as a new Todo task.
func Confirm() Command { return Command{Kind: CommandConfirm} }

// Cancel leaves editing mode, keeping the typed text.
func Cancel() Command { return Command{Kind: CommandCancel} }
