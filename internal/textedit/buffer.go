// Package textedit implements a single-line text buffer with a cursor
// measured in runes, so multi-byte characters are never split.
package textedit

import "github.com/mattn/go-runewidth"

// Buffer is a single-line editable string with a cursor.
// The cursor always satisfies 0 <= cursor <= Len().
type Buffer struct {
	runes  []rune
	cursor int
}

// New returns a buffer holding s with the cursor at the end
func New(s string) Buffer {
	r := []rune(s)
	return Buffer{runes: r, cursor: len(r)}
}

// String returns the buffer contents
func (b *Buffer) String() string {
	return string(b.runes)
}

// Len returns the number of runes in the buffer
func (b *Buffer) Len() int {
	return len(b.runes)
}

// Cursor returns the cursor position in runes
func (b *Buffer) Cursor() int {
	return b.cursor
}

// Insert places r at the cursor and advances the cursor past it
func (b *Buffer) Insert(r rune) {
	b.runes = append(b.runes, 0)
	copy(b.runes[b.cursor+1:], b.runes[b.cursor:])
	b.runes[b.cursor] = r
	b.cursor++
}

// InsertString inserts every rune of s at the cursor
func (b *Buffer) InsertString(s string) {
	for _, r := range s {
		b.Insert(r)
	}
}

// DeleteBefore removes the rune left of the cursor. No-op at position 0.
func (b *Buffer) DeleteBefore() {
	if b.cursor == 0 {
		return
	}
	b.runes = append(b.runes[:b.cursor-1], b.runes[b.cursor:]...)
	b.cursor--
}

// MoveLeft moves the cursor one rune left, stopping at 0
func (b *Buffer) MoveLeft() {
	if b.cursor > 0 {
		b.cursor--
	}
}

// MoveRight moves the cursor one rune right, stopping at Len()
func (b *Buffer) MoveRight() {
	if b.cursor < len(b.runes) {
		b.cursor++
	}
}

// Set replaces the contents and puts the cursor at the end
func (b *Buffer) Set(s string) {
	b.runes = []rune(s)
	b.cursor = len(b.runes)
}

// Split returns the text before and after the cursor
func (b *Buffer) Split() (before, after string) {
	return string(b.runes[:b.cursor]), string(b.runes[b.cursor:])
}

// Column returns the terminal cell column of the cursor. Wide runes
// (CJK, emoji) occupy two cells.
func (b *Buffer) Column() int {
	return runewidth.StringWidth(string(b.runes[:b.cursor]))
}
