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
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// The size of a character cell in a text area.
const (
	GlyphWidth  = 8
	GlyphHeight = 16
)

// Glyph is the shape of a character. One byte per row with the most
// significant bit as the leftmost pixel.
type Glyph [GlyphHeight]byte

// the built in glyphs
var glyphs [256]Glyph

func init() {
	face := basicfont.Face7x13

	// baseline chosen so the glyph sits in the middle of the cell
	dot := fixed.P(0, face.Ascent+1)

	for c := 0x20; c < 0x7f; c++ {
		dr, mask, maskp, _, ok := face.Glyph(dot, rune(c))
		if !ok {
			continue
		}
		for y := dr.Min.Y; y < dr.Max.Y; y++ {
			if y < 0 || y >= GlyphHeight {
				continue
			}
			for x := dr.Min.X; x < dr.Max.X; x++ {
				if x < 0 || x >= GlyphWidth {
					continue
				}
				_, _, _, a := mask.At(maskp.X+x-dr.Min.X, maskp.Y+y-dr.Min.Y).RGBA()
				if a > 0x8000 {
					glyphs[c][y] |= 0x80 >> x
				}
			}
		}
	}
}

// BuiltinGlyph returns the built in glyph for a character.
func BuiltinGlyph(ch byte) Glyph {
	return glyphs[ch]
}
