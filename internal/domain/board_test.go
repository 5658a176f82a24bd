package domain

import (
	"slices"
	"testing"
)

func newTestBoard(t *testing.T, state BoardState) *Board {
	t.Helper()
	b, err := NewBoard(DefaultTitles(), state)
	if err != nil {
		t.Fatalf("NewBoard() error = %v", err)
	}
	return b
}

func applyAll(b *Board, cmds ...Command) {
	for _, cmd := range cmds {
		b.Apply(cmd)
	}
}

func typeText(text string) []Command {
	cmds := make([]Command, 0, len(text))
	for _, r := range text {
		cmds = append(cmds, InsertChar(r))
	}
	return cmds
}

func TestNewBoardInitialState(t *testing.T) {
	b := newTestBoard(t, BoardState{Todo: []string{"a", "b"}, Done: []string{"c"}})
	snap := b.Snapshot()
	if snap.Focus != ColumnTodo || snap.Mode != ModeNormal {
		t.Fatalf("unexpected focus/mode %v/%v", snap.Focus, snap.Mode)
	}
	if len(snap.Columns) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(snap.Columns))
	}
	for _, column := range snap.Columns {
		if column.HasSelection {
			t.Fatalf("column %s unexpectedly selected", column.ID)
		}
	}
	if got := snap.Column(ColumnTodo).Title; got != "TODO" {
		t.Fatalf("unexpected todo title %q", got)
	}
	if b.ShouldExit() {
		t.Fatal("new board should not exit")
	}
}

func TestBoardExitSetsShouldExit(t *testing.T) {
	b := newTestBoard(t, BoardState{})
	if !b.Apply(Exit()) {
		t.Fatal("expected exit to be handled in normal mode")
	}
	if !b.ShouldExit() {
		t.Fatal("expected ShouldExit after exit command")
	}
}

func TestBoardFocusSelectsFirstItem(t *testing.T) {
	b := newTestBoard(t, BoardState{Todo: []string{"a", "b"}, Doing: []string{"c"}})
	applyAll(b, MoveDown(), MoveDown())
	if got := b.Snapshot().Column(ColumnTodo).Selected; got != 1 {
		t.Fatalf("todo selected = %d, want 1", got)
	}

	b.Apply(Focus(ColumnDoing))
	snap := b.Snapshot()
	if snap.Focus != ColumnDoing {
		t.Fatalf("focus = %v, want doing", snap.Focus)
	}
	if snap.Column(ColumnTodo).HasSelection {
		t.Fatal("expected old focus selection cleared")
	}
	doing := snap.Column(ColumnDoing)
	if !doing.HasSelection || doing.Selected != 0 {
		t.Fatalf("doing selection = (%d, %t), want (0, true)", doing.Selected, doing.HasSelection)
	}
}

func TestBoardFocusEmptyColumnLeavesNoSelection(t *testing.T) {
	b := newTestBoard(t, BoardState{Todo: []string{"a"}})
	b.Apply(Focus(ColumnDone))
	if b.Snapshot().Column(ColumnDone).HasSelection {
		t.Fatal("expected no selection on empty column")
	}
}

func TestBoardFocusSameColumnIsNoop(t *testing.T) {
	b := newTestBoard(t, BoardState{Todo: []string{"a", "b"}})
	applyAll(b, MoveDown(), MoveDown())
	before := b.Snapshot()
	b.Apply(Focus(ColumnTodo))
	after := b.Snapshot()
	if after.Column(ColumnTodo).Selected != before.Column(ColumnTodo).Selected {
		t.Fatal("expected same-column focus to keep selection")
	}
}

func TestBoardMoveItemToSameColumnIsNoop(t *testing.T) {
	b := newTestBoard(t, BoardState{Todo: []string{"a", "b"}, Doing: []string{"c"}})
	applyAll(b, MoveDown(), MoveItemTo(ColumnTodo))
	state := b.State()
	if !slices.Equal(state.Todo, []string{"a", "b"}) || !slices.Equal(state.Doing, []string{"c"}) {
		t.Fatalf("unexpected state after same-column move %#v", state)
	}
}

func TestBoardMoveItemToClearsSourceSelection(t *testing.T) {
	b := newTestBoard(t, BoardState{Todo: []string{"only"}, Doing: []string{"x"}})
	applyAll(b, MoveDown(), MoveItemTo(ColumnDoing))

	snap := b.Snapshot()
	todo := snap.Column(ColumnTodo)
	if len(todo.Items) != 0 || todo.HasSelection {
		t.Fatalf("todo = %#v, want empty without selection", todo)
	}
	if !slices.Equal(snap.Column(ColumnDoing).Items, []string{"x", "only"}) {
		t.Fatalf("doing items = %#v", snap.Column(ColumnDoing).Items)
	}
	if snap.Focus != ColumnTodo {
		t.Fatalf("focus moved to %v", snap.Focus)
	}
}

func TestBoardMoveItemWithoutSelectionIsNoop(t *testing.T) {
	b := newTestBoard(t, BoardState{Todo: []string{"a"}})
	b.Apply(MoveItemTo(ColumnDone))
	if !slices.Equal(b.State().Todo, []string{"a"}) || len(b.State().Done) != 0 {
		t.Fatalf("unexpected state %#v", b.State())
	}
}

func TestBoardMoveFromLastIndexNeverLeavesStaleSelection(t *testing.T) {
	b := newTestBoard(t, BoardState{Todo: []string{"a", "b", "c"}})
	applyAll(b, MoveDown(), MoveDown(), MoveDown(), MoveItemTo(ColumnDone))
	todo := b.Snapshot().Column(ColumnTodo)
	if todo.HasSelection && (todo.Selected < 0 || todo.Selected >= len(todo.Items)) {
		t.Fatalf("stale selection %d for %d items", todo.Selected, len(todo.Items))
	}
	if !slices.Equal(b.State().Done, []string{"c"}) {
		t.Fatalf("done = %#v, want [c]", b.State().Done)
	}
}

func TestBoardDeleteSelectedReclampsSelection(t *testing.T) {
	b := newTestBoard(t, BoardState{Todo: []string{"a", "b", "c"}})
	applyAll(b, MoveDown(), MoveDown(), MoveDown(), DeleteSelected())
	todo := b.Snapshot().Column(ColumnTodo)
	if !slices.Equal(todo.Items, []string{"a", "b"}) {
		t.Fatalf("items = %#v", todo.Items)
	}
	if !todo.HasSelection || todo.Selected != 1 {
		t.Fatalf("selection = (%d, %t), want (1, true)", todo.Selected, todo.HasSelection)
	}

	applyAll(b, MoveUp(), DeleteSelected())
	todo = b.Snapshot().Column(ColumnTodo)
	if !slices.Equal(todo.Items, []string{"b"}) || todo.Selected != 0 {
		t.Fatalf("after middle delete items=%#v selected=%d", todo.Items, todo.Selected)
	}

	b.Apply(DeleteSelected())
	todo = b.Snapshot().Column(ColumnTodo)
	if len(todo.Items) != 0 || todo.HasSelection {
		t.Fatalf("expected empty column without selection, got %#v", todo)
	}
	b.Apply(DeleteSelected())
}

func TestBoardEditingFlow(t *testing.T) {
	b := newTestBoard(t, BoardState{})
	b.Apply(Focus(ColumnTodo))
	b.Apply(ToggleEdit())
	applyAll(b, typeText("wash car")...)
	snap := b.Snapshot()
	if snap.Mode != ModeEditing || snap.EditorText != "wash car" || snap.EditorCursor != 8 {
		t.Fatalf("unexpected editing snapshot %#v", snap)
	}
	applyAll(b, Confirm(), Cancel())

	snap = b.Snapshot()
	if snap.Mode != ModeNormal {
		t.Fatalf("mode = %v, want normal", snap.Mode)
	}
	if !slices.Equal(snap.Column(ColumnTodo).Items, []string{"wash car"}) {
		t.Fatalf("todo items = %#v", snap.Column(ColumnTodo).Items)
	}
	if snap.EditorText != "" {
		t.Fatalf("expected no editor text outside editing, got %q", snap.EditorText)
	}
}

func TestBoardConfirmAlwaysTargetsTodo(t *testing.T) {
	b := newTestBoard(t, BoardState{Done: []string{"old"}})
	applyAll(b, Focus(ColumnDone), ToggleEdit())
	applyAll(b, typeText("new")...)
	applyAll(b, Confirm())
	state := b.State()
	if !slices.Equal(state.Todo, []string{"new"}) || !slices.Equal(state.Done, []string{"old"}) {
		t.Fatalf("unexpected state %#v", state)
	}
	if b.Mode() != ModeEditing {
		t.Fatal("expected confirm to keep editing mode")
	}
}

func TestBoardConfirmEmptyBufferDoesNothing(t *testing.T) {
	b := newTestBoard(t, BoardState{})
	applyAll(b, ToggleEdit(), Confirm())
	if len(b.State().Todo) != 0 {
		t.Fatalf("expected no task from empty submit, got %#v", b.State().Todo)
	}
}

func TestBoardConfirmWhitespaceCommitsPersistableLabel(t *testing.T) {
	b := newTestBoard(t, BoardState{})
	applyAll(b, ToggleEdit(), InsertChar(' '), Confirm())
	state := b.State()
	if !slices.Equal(state.Todo, []string{" "}) {
		t.Fatalf("expected whitespace label in todo, got %#v", state.Todo)
	}
	if err := state.Validate(); err != nil {
		t.Fatalf("committed state must validate, got %v", err)
	}
}

func TestBoardCancelKeepsBuffer(t *testing.T) {
	b := newTestBoard(t, BoardState{})
	b.Apply(ToggleEdit())
	applyAll(b, typeText("draft")...)
	applyAll(b, CursorLeft(), Cancel(), ToggleEdit())
	snap := b.Snapshot()
	if snap.EditorText != "draft" || snap.EditorCursor != 4 {
		t.Fatalf("expected preserved draft, got text=%q cursor=%d", snap.EditorText, snap.EditorCursor)
	}
}

func TestBoardIgnoresCommandsForOtherMode(t *testing.T) {
	b := newTestBoard(t, BoardState{Todo: []string{"a"}})
	if b.Apply(InsertChar('x')) {
		t.Fatal("expected insert to be ignored in normal mode")
	}
	if b.Apply(Command{}) {
		t.Fatal("expected empty command to be ignored")
	}
	b.Apply(ToggleEdit())
	if b.Apply(Exit()) {
		t.Fatal("expected exit to be ignored in editing mode")
	}
	if b.ShouldExit() {
		t.Fatal("editing-mode exit must not set ShouldExit")
	}
	if b.Apply(DeleteSelected()) {
		t.Fatal("expected delete to be ignored in editing mode")
	}
	if b.Apply(Focus(ColumnID(9))) {
		t.Fatal("expected invalid focus to be ignored")
	}
}

func TestBoardRandomCommandsKeepInvariants(t *testing.T) {
	b := newTestBoard(t, BoardState{Todo: []string{"a", "b", "c"}, Doing: []string{"d"}})
	cmds := []Command{
		MoveDown(), MoveItemTo(ColumnDone), MoveDown(), MoveDown(), DeleteSelected(),
		Focus(ColumnDone), MoveUp(), MoveItemTo(ColumnDoing), Focus(ColumnDoing), MoveDown(),
		MoveDown(), MoveItemTo(ColumnTodo), DeleteSelected(), Focus(ColumnTodo), MoveUp(),
		DeleteSelected(), DeleteSelected(), DeleteSelected(), MoveDown(), MoveItemTo(ColumnDone),
	}
	total := 4
	for i, cmd := range cmds {
		before := b.State()
		b.Apply(cmd)
		snap := b.Snapshot()
		count := 0
		for _, column := range snap.Columns {
			count += len(column.Items)
			if column.HasSelection && (column.Selected < 0 || column.Selected >= len(column.Items)) {
				t.Fatalf("step %d (%s): column %s has stale selection %d of %d", i, cmd, column.ID, column.Selected, len(column.Items))
			}
			if len(column.Items) == 0 && column.HasSelection {
				t.Fatalf("step %d (%s): empty column %s is selected", i, cmd, column.ID)
			}
		}
		if cmd.Kind == CommandDeleteSelected {
			beforeCount := len(before.Todo) + len(before.Doing) + len(before.Done)
			if beforeCount-count > 1 {
				t.Fatalf("step %d: delete removed %d items", i, beforeCount-count)
			}
			total = count
			continue
		}
		if count != total {
			t.Fatalf("step %d (%s): item count %d, want %d", i, cmd, count, total)
		}
	}
}
