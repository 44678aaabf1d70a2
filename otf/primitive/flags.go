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

import "strings"

// Flags control how a primitive and its children are painted.
type Flags uint16

// List of valid Flags. OwnsPixels and CanDraw are status flags and cannot be
// set by SetFlags().
const (
	PaintSelf     Flags = 0x0001
	PaintChildren Flags = 0x0002
	ClipSelf      Flags = 0x0004
	ClipChildren  Flags = 0x0008
	HScroll1      Flags = 0x0010
	HScroll4      Flags = 0x0020
	Absolute      Flags = 0x0040
	Masked        Flags = 0x0080
	Blended       Flags = 0x0100
	LeftEdge      Flags = 0x0200
	RightEdge     Flags = 0x0400
	OwnsPixels    Flags = 0x4000
	CanDraw       Flags = 0x8000
)

// Settable is the mask of flags that can be changed with SetFlags().
const Settable Flags = 0x07ff

// flags that change the code of a primitive when they change
const codeFlags = HScroll1 | HScroll4 | Masked | Blended | LeftEdge | RightEdge

// DefaultFlags are the flags most primitives are created with.
const DefaultFlags = PaintSelf | PaintChildren

var flagNames = []struct {
	f    Flags
	name string
}{
	{PaintSelf, "paint"},
	{PaintChildren, "paintchildren"},
	{ClipSelf, "clip"},
	{ClipChildren, "clipchildren"},
	{HScroll1, "hscroll1"},
	{HScroll4, "hscroll4"},
	{Absolute, "absolute"},
	{Masked, "masked"},
	{Blended, "blended"},
	{LeftEdge, "leftedge"},
	{RightEdge, "rightedge"},
	{OwnsPixels, "owns"},
	{CanDraw, "candraw"},
}

func (f Flags) String() string {
	var s []string
	for _, n := range flagNames {
		if f&n.f == n.f {
			s = append(s, n.name)
		}
	}
	if len(s) == 0 {
		return "none"
	}
	return strings.Join(s, "|")
}
