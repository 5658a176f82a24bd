package domain

// ColumnSnapshot is a read-only view of one column.
type ColumnSnapshot struct {
	ID           ColumnID
	Title        string
	Items        []string
	Selected     int
	HasSelection bool
}

// BoardSnapshot is the read-only view handed to renderers. EditorText and
// EditorCursor are set only while the board is in editing mode.
type BoardSnapshot struct {
	Columns      []ColumnSnapshot
	Focus        ColumnID
	Mode         Mode
	EditorText   string
	EditorCursor int
}

// Column returns the snapshot of one column.
func (s BoardSnapshot) Column(id ColumnID) ColumnSnapshot {
	for _, column := range s.Columns {
		if column.ID == id {
			return column
		}
	}
	return ColumnSnapshot{ID: id}
}

// Snapshot copies the board state for rendering.
func (b *Board) Snapshot() BoardSnapshot {
	snap := BoardSnapshot{
		Columns: make([]ColumnSnapshot, 0, columnCount),
		Focus:   b.focus,
		Mode:    b.mode,
	}
	for _, id := range ColumnIDs() {
		column := &b.columns[id]
		selected, ok := column.Selected()
		snap.Columns = append(snap.Columns, ColumnSnapshot{
			ID:           id,
			Title:        column.Title(),
			Items:        column.Items(),
			Selected:     selected,
			HasSelection: ok,
		})
	}
	if b.mode == ModeEditing {
		snap.EditorText = b.editor.Text()
		snap.EditorCursor = b.editor.CursorIndex()
	}
	return snap
}
