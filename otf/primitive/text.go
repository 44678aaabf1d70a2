// This file is part of otfvdp.
//
// otfvdp is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// otfvdp is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with otfvdp.  If not, see <https://www.gnu.org/licenses/>.

package primitive

import (
	"github.com/jetsetilly/otfvdp/hardware/video/signal"
	"github.com/jetsetilly/otfvdp/hardware/video/specification"
)

// Blank is the character used for empty cells.
const Blank = ' '

// TextArea is a tile array of character cells. The tiles are created on
// demand for each combination of character, foreground colour and background
// colour, so repeated characters share a tile. The text area has a cursor
// and scrolls up when the cursor moves past the bottom row.
type TextArea struct {
	TileArray

	fg, bg   byte
	col, row int

	chars  []byte
	custom map[byte]Glyph

	// number of times the text area has scrolled
	scrolls int
}

// NewTextArea is the preferred method of initialisation for the TextArea
// type. The least significant byte of color is the foreground colour and the
// next byte is the background colour.
func NewTextArea(id int, flags Flags, x int, y int, columns int, rows int, color uint32) (*TextArea, error) {
	ta, err := NewTileArray(id, flags, x, y, columns, rows, GlyphWidth, GlyphHeight, color)
	if err != nil {
		return nil, err
	}
	t := &TextArea{
		TileArray: *ta,
		fg:        byte(color) & specification.ColorMask,
		bg:        byte(color>>8) & specification.ColorMask,
		chars:     make([]byte, columns*rows),
		custom:    make(map[byte]Glyph),
	}
	t.Clear()
	return t, nil
}

// the tile key for a character in the current colours
func (t *TextArea) key(ch byte) uint32 {
	return uint32(ch) | uint32(t.fg)<<8 | uint32(t.bg)<<16
}

func (t *TextArea) glyph(ch byte) Glyph {
	if g, ok := t.custom[ch]; ok {
		return g
	}
	return glyphs[ch]
}

// create the tile for a key if it does not exist
func (t *TextArea) ensureTile(key uint32) {
	if t.HasTile(key) {
		return
	}
	t.defineGlyphTile(key)
}

func (t *TextArea) defineGlyphTile(key uint32) {
	g := t.glyph(byte(key))
	fg := signal.WithAlpha(byte(key>>8), signal.Opaque100)
	bg := signal.WithAlpha(byte(key>>16), signal.Opaque100)

	data := make([]byte, GlyphWidth*GlyphHeight)
	for y := range GlyphHeight {
		for x := range GlyphWidth {
			if g[y]&(0x80>>x) != 0 {
				data[y*GlyphWidth+x] = fg
			} else {
				data[y*GlyphWidth+x] = bg
			}
		}
	}

	// the only possible error is for the reserved key, which cannot be
	// produced from a character and colour pair
	_ = t.DefineTile(key, data)
}

func (t *TextArea) put(col int, row int, ch byte) {
	k := t.key(ch)
	t.ensureTile(k)
	t.SetCell(col, row, k)
	t.chars[row*t.columns+col] = ch
}

// Foreground returns the colour for subsequent characters.
func (t *TextArea) Foreground() byte {
	return t.fg
}

// Background returns the background colour for subsequent characters.
func (t *TextArea) Background() byte {
	return t.bg
}

// SetForeground changes the colour for subsequent characters.
func (t *TextArea) SetForeground(col byte) {
	t.fg = col & specification.ColorMask
}

// SetBackground changes the background colour for subsequent characters
// and cleared cells.
func (t *TextArea) SetBackground(col byte) {
	t.bg = col & specification.ColorMask
}

// DefineGlyph replaces the shape of a character. Cells already showing the
// character change immediately.
func (t *TextArea) DefineGlyph(ch byte, g Glyph) {
	t.custom[ch] = g
	for k := range t.tiles {
		if byte(k) == ch {
			t.defineGlyphTile(k)
		}
	}
}

// Cursor returns the cursor position.
func (t *TextArea) Cursor() (int, int) {
	return t.col, t.row
}

// CharAt returns the character in a cell. Returns zero for cells outside of
// the grid.
func (t *TextArea) CharAt(col int, row int) byte {
	if col < 0 || row < 0 || col >= t.columns || row >= t.rows {
		return 0
	}
	return t.chars[row*t.columns+col]
}

// Scrolls returns the number of times the text area has scrolled.
func (t *TextArea) Scrolls() int {
	return t.scrolls
}

// WriteChar writes a character at the cursor and advances the cursor.
func (t *TextArea) WriteChar(ch byte) {
	t.put(t.col, t.row, ch)
	t.Right()
}

// WriteString writes every byte of the string as a character.
func (t *TextArea) WriteString(s string) {
	for i := 0; i < len(s); i++ {
		t.WriteChar(s[i])
	}
}

// Home moves the cursor to the top left cell.
func (t *TextArea) Home() {
	t.col = 0
	t.row = 0
}

// CarriageReturn moves the cursor to the start of the row.
func (t *TextArea) CarriageReturn() {
	t.col = 0
}

// Left moves the cursor left, to the end of the previous row if necessary.
func (t *TextArea) Left() {
	t.col--
	if t.col < 0 {
		if t.row > 0 {
			t.row--
			t.col = t.columns - 1
		} else {
			t.col = 0
		}
	}
}

// Right moves the cursor right, to the start of the next row if necessary.
func (t *TextArea) Right() {
	t.col++
	if t.col >= t.columns {
		t.col = 0
		t.Down()
	}
}

// Up moves the cursor up. The cursor stays on the top row.
func (t *TextArea) Up() {
	if t.row > 0 {
		t.row--
	}
}

// Down moves the cursor down. The text area scrolls up if the cursor moves
// past the bottom row.
func (t *TextArea) Down() {
	t.row++
	if t.row >= t.rows {
		t.ScrollUp()
		t.row = t.rows - 1
	}
}

// Backspace moves the cursor left and blanks the cell.
func (t *TextArea) Backspace() {
	t.Left()
	t.put(t.col, t.row, Blank)
}

// TabTo moves the cursor to the cell. Positions outside of the grid are
// ignored.
func (t *TextArea) TabTo(col int, row int) {
	if col < 0 || row < 0 || col >= t.columns || row >= t.rows {
		return
	}
	t.col = col
	t.row = row
}

// Clear blanks every cell and moves the cursor home.
func (t *TextArea) Clear() {
	t.EraseRect(0, 0, t.columns, t.rows)
	t.Home()
}

// EraseRect blanks the cells in the rectangle.
func (t *TextArea) EraseRect(col int, row int, width int, height int) {
	for r := max(row, 0); r < min(row+height, t.rows); r++ {
		for c := max(col, 0); c < min(col+width, t.columns); c++ {
			t.put(c, r, Blank)
		}
	}
}

// MoveRect copies the cells of a rectangle to another position. The
// rectangles can overlap. Cells moved outside of the grid are lost.
func (t *TextArea) MoveRect(col int, row int, width int, height int, toCol int, toRow int) {
	type cell struct {
		key uint32
		ch  byte
		ok  bool
	}

	tmp := make([]cell, 0, max(width*height, 0))
	for r := row; r < row+height; r++ {
		for c := col; c < col+width; c++ {
			if c < 0 || r < 0 || c >= t.columns || r >= t.rows {
				tmp = append(tmp, cell{})
				continue
			}
			i := r*t.columns + c
			tmp = append(tmp, cell{key: t.cells[i], ch: t.chars[i], ok: true})
		}
	}

	i := 0
	for r := toRow; r < toRow+height; r++ {
		for c := toCol; c < toCol+width; c++ {
			v := tmp[i]
			i++
			if !v.ok || c < 0 || r < 0 || c >= t.columns || r >= t.rows {
				continue
			}
			t.cells[r*t.columns+c] = v.key
			t.chars[r*t.columns+c] = v.ch
		}
	}
}

// ScrollUp moves every row up by one. The top row is discarded and the
// bottom row is blank.
func (t *TextArea) ScrollUp() {
	t.MoveRect(0, 1, t.columns, t.rows-1, 0, 0)
	t.EraseRect(0, t.rows-1, t.columns, 1)
	t.scrolls++
}
