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

// Package raster converts lines and polygons into horizontal runs of pixels
// on each scan line. The runs of a scan line are always sorted by x and never
// overlap or touch. This is what the code generator depends on when it turns
// the runs into a paint routine.
package raster

import (
	"fmt"
	"image"
	"slices"
	"strings"
)

// Piece is a horizontal run of pixels on one scan line.
type Piece struct {
	ID    int
	X     int
	Width int
}

// End returns the x position one past the end of the piece.
func (pc Piece) End() int {
	return pc.X + pc.Width
}

func (pc Piece) String() string {
	return fmt.Sprintf("%d: %d+%d", pc.ID, pc.X, pc.Width)
}

// Pieces is the collection of runs for all scan lines of a shape.
type Pieces struct {
	lines map[int][]Piece
}

// NewPieces is the preferred method of initialisation for the Pieces type.
func NewPieces() *Pieces {
	return &Pieces{
		lines: make(map[int][]Piece),
	}
}

// Add inserts a run into the scan line. The run is merged with every run that
// it overlaps or touches. A merged run keeps the owner of the first existing
// run it was merged with.
//
// If solid is true the run is additionally extended to cover every existing
// run of the same owner on the scan line. This is how the edges of a filled
// shape become a filled span.
func (p *Pieces) Add(id int, y int, x int, width int, solid bool) {
	if width <= 0 {
		return
	}

	line := p.lines[y]

	s := x
	e := x + width
	if solid {
		for _, pc := range line {
			if pc.ID == id {
				s = min(s, pc.X)
				e = max(e, pc.End())
			}
		}
	}

	owner := id
	merged := false
	inserted := false

	out := make([]Piece, 0, len(line)+1)
	for _, pc := range line {
		if pc.End() < s {
			out = append(out, pc)
			continue
		}
		if pc.X > e {
			if !inserted {
				out = append(out, Piece{ID: owner, X: s, Width: e - s})
				inserted = true
			}
			out = append(out, pc)
			continue
		}

		// overlapping or touching
		if !merged {
			owner = pc.ID
			merged = true
		}
		s = min(s, pc.X)
		e = max(e, pc.End())
	}
	if !inserted {
		out = append(out, Piece{ID: owner, X: s, Width: e - s})
	}

	p.lines[y] = out
}

// Merge adds all the runs of another Pieces instance.
func (p *Pieces) Merge(o *Pieces) {
	for y, line := range o.lines {
		for _, pc := range line {
			p.Add(pc.ID, y, pc.X, pc.Width, false)
		}
	}
}

// Line returns the runs for the scan line. The returned slice should not be
// altered.
func (p *Pieces) Line(y int) []Piece {
	return p.lines[y]
}

// Lines returns the sorted list of scan lines that have runs.
func (p *Pieces) Lines() []int {
	ys := make([]int, 0, len(p.lines))
	for y := range p.lines {
		ys = append(ys, y)
	}
	slices.Sort(ys)
	return ys
}

// Bounds returns the smallest rectangle containing every run.
func (p *Pieces) Bounds() image.Rectangle {
	var r image.Rectangle
	for y, line := range p.lines {
		for _, pc := range line {
			r = r.Union(image.Rect(pc.X, y, pc.End(), y+1))
		}
	}
	return r
}

// Translate moves every run by the offset.
func (p *Pieces) Translate(dx int, dy int) {
	lines := make(map[int][]Piece, len(p.lines))
	for y, line := range p.lines {
		for i := range line {
			line[i].X += dx
		}
		lines[y+dy] = line
	}
	p.lines = lines
}

func (p *Pieces) String() string {
	s := strings.Builder{}
	for _, y := range p.Lines() {
		s.WriteString(fmt.Sprintf("%d:", y))
		for _, pc := range p.lines[y] {
			s.WriteString(fmt.Sprintf(" [%s]", pc))
		}
		s.WriteString("\n")
	}
	return s.String()
}
