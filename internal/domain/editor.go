package domain

// TextEditor holds one line of in-progress text and a caret. The cursor counts
// characters (runes), never bytes.
type TextEditor struct {
	buffer []rune
	cursor int
}

// Text returns the current buffer contents.
func (e *TextEditor) Text() string {
	return string(e.buffer)
}

// Len returns the buffer length in characters.
func (e *TextEditor) Len() int {
	return len(e.buffer)
}

// CursorIndex returns the caret position in characters.
func (e *TextEditor) CursorIndex() int {
	return e.cursor
}

// Insert places r at the cursor and advances the cursor by one character.
func (e *TextEditor) Insert(r rune) {
	e.buffer = append(e.buffer, 0)
	copy(e.buffer[e.cursor+1:], e.buffer[e.cursor:])
	e.buffer[e.cursor] = r
	e.MoveRight()
}

// InsertString inserts s one character at a time.
func (e *TextEditor) InsertString(s string) {
	for _, r := range s {
		e.Insert(r)
	}
}

// DeleteBeforeCursor removes the character left of the cursor. No-op at 0.
func (e *TextEditor) DeleteBeforeCursor() {
	if e.cursor == 0 {
		return
	}
	e.buffer = append(e.buffer[:e.cursor-1], e.buffer[e.cursor:]...)
	e.MoveLeft()
}

// MoveLeft moves the cursor one character left, stopping at 0.
func (e *TextEditor) MoveLeft() {
	e.cursor = e.clampCursor(e.cursor - 1)
}

// MoveRight moves the cursor one character right, stopping at the end.
func (e *TextEditor) MoveRight() {
	e.cursor = e.clampCursor(e.cursor + 1)
}

// Submit returns the buffer and resets the editor. An empty buffer yields
// false and leaves the editor untouched.
func (e *TextEditor) Submit() (string, bool) {
	if len(e.buffer) == 0 {
		return "", false
	}
	text := string(e.buffer)
	e.buffer = e.buffer[:0]
	e.cursor = 0
	return text, true
}

// clampCursor clamps pos into [0, len(buffer)].
func (e *TextEditor) clampCursor(pos int) int {
	return clampIndex(pos, 0, len(e.buffer))
}
