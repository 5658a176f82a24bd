package domain

import (
	"fmt"
	"strings"
)

// ColumnID identifies one of the three fixed board columns.
type ColumnID int

// ColumnTodo and related constants enumerate the board columns in display order.
const (
	ColumnTodo ColumnID = iota
	ColumnDoing
	ColumnDone
)

// columnCount is the fixed number of board columns.
const columnCount = 3

// columnKeys stores the stable storage/config key for each column.
var columnKeys = [columnCount]string{"todo", "doing", "done"}

// ColumnIDs returns every column id in display order.
func ColumnIDs() []ColumnID {
	return []ColumnID{ColumnTodo, ColumnDoing, ColumnDone}
}

// Valid reports whether the id names one of the fixed columns.
func (c ColumnID) Valid() bool {
	return c >= ColumnTodo && c <= ColumnDone
}

// String returns the stable lowercase key for the column.
func (c ColumnID) String() string {
	if !c.Valid() {
		return fmt.Sprintf("column(%d)", int(c))
	}
	return columnKeys[c]
}

// ParseColumnID parses a stable column key such as "todo".
func ParseColumnID(raw string) (ColumnID, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for idx, key := range columnKeys {
		if key == raw {
			return ColumnID(idx), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidColumnID, raw)
}

// noSelection marks a column without an active selection.
const noSelection = -1

// Column is an ordered list of task labels with at most one selected index.
type Column struct {
	title    string
	items    []string
	selected int
}

// NewColumn constructs an empty column with a fixed title.
func NewColumn(title string) (Column, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Column{}, ErrInvalidTitle
	}
	return Column{
		title:    title,
		items:    []string{},
		selected: noSelection,
	}, nil
}

// Title returns the column title.
func (c *Column) Title() string {
	return c.title
}

// Items returns a copy of the labels in display order.
func (c *Column) Items() []string {
	return append([]string{}, c.items...)
}

// Len returns the number of labels.
func (c *Column) Len() int {
	return len(c.items)
}

// Load replaces the labels and clears the selection.
func (c *Column) Load(items []string) {
	c.items = append([]string{}, items...)
	c.selected = noSelection
}

// Push appends a label without touching the selection.
func (c *Column) Push(label string) {
	c.items = append(c.items, label)
}

// Remove deletes and returns the label at index. The selection is left as is;
// callers re-derive it. An out-of-range index is a programming error and panics.
func (c *Column) Remove(index int) string {
	if index < 0 || index >= len(c.items) {
		panic(fmt.Sprintf("column %q: remove index %d out of range [0,%d)", c.title, index, len(c.items)))
	}
	label := c.items[index]
	c.items = append(c.items[:index], c.items[index+1:]...)
	return label
}

// Selected returns the selected index, if any.
func (c *Column) Selected() (int, bool) {
	if c.selected == noSelection {
		return 0, false
	}
	return c.selected, true
}

// SelectNext selects the first item when nothing is selected, otherwise the
// following item. It never wraps past the last item.
func (c *Column) SelectNext() {
	if len(c.items) == 0 {
		c.selected = noSelection
		return
	}
	if c.selected == noSelection {
		c.selected = 0
		return
	}
	c.selectIndex(c.selected + 1)
}

// SelectPrevious selects the first item when nothing is selected, otherwise the
// preceding item. It never wraps below zero.
func (c *Column) SelectPrevious() {
	if len(c.items) == 0 {
		c.selected = noSelection
		return
	}
	if c.selected == noSelection {
		c.selected = 0
		return
	}
	c.selectIndex(c.selected - 1)
}

// ClearSelection drops the selection.
func (c *Column) ClearSelection() {
	c.selected = noSelection
}

// selectIndex selects index clamped into range, or nothing for an empty column.
func (c *Column) selectIndex(index int) {
	if len(c.items) == 0 {
		c.selected = noSelection
		return
	}
	c.selected = clampIndex(index, 0, len(c.items)-1)
}

// clampIndex clamps v into [lo, hi].
func clampIndex(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
