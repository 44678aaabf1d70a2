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

package raster

import "image"

// fixed point with 16 fractional bits
const (
	fracBits = 16
	fracHalf = 1 << (fracBits - 1)
	fracOne  = 1 << fracBits
)

func round(v int64) int {
	return int((v + fracHalf) >> fracBits)
}

func ceil(v int64) int {
	return int((v + fracOne - 1) >> fracBits)
}

func floor(v int64) int {
	return int(v >> fracBits)
}

// MakeLine adds the runs for a line between two points. The line is walked
// from the endpoint with the smaller x+y, one scan line at a time, with a
// constant fixed point step. Each scan line gets the pixels whose centres lie
// between the boundaries with the neighbouring scan lines. A pixel exactly on
// a boundary belongs to the later scan line.
func (p *Pieces) MakeLine(id int, x1 int, y1 int, x2 int, y2 int, solid bool) {
	if x1+y1 > x2+y2 {
		x1, y1, x2, y2 = x2, y2, x1, y1
	}

	dx := x2 - x1
	dy := y2 - y1

	if dy == 0 {
		p.Add(id, y1, min(x1, x2), abs(dx)+1, solid)
		return
	}

	ystep := 1
	if dy < 0 {
		ystep = -1
	}
	steps := abs(dy)
	step := (int64(dx) << fracBits) / int64(steps)

	// centre of the current scan line and the boundaries either side of it
	c := int64(x1) << fracBits
	prev := c
	next := c + step/2

	y := y1
	for i := 0; i <= steps; i++ {
		var lo, hi int
		if step >= 0 {
			lo = ceil(prev)
			hi = ceil(next) - 1
			if i == 0 {
				lo = x1
			}
			if i == steps {
				hi = x2
			}
		} else {
			hi = floor(prev)
			lo = floor(next) + 1
			if i == 0 {
				hi = x1
			}
			if i == steps {
				lo = x2
			}
		}

		// steep lines cover less than one pixel per scan line
		if hi < lo {
			lo = round(c)
			hi = lo
		}

		p.Add(id, y, lo, hi-lo+1, solid)

		prev = next
		next += step
		c += step
		y += ystep
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Triangle adds the runs for a triangle.
func (p *Pieces) Triangle(id int, a image.Point, b image.Point, c image.Point, solid bool) {
	p.polygon(id, []image.Point{a, b, c}, solid)
}

// Quad adds the runs for a convex quadrilateral. The points are in order
// around the edge.
func (p *Pieces) Quad(id int, a image.Point, b image.Point, c image.Point, d image.Point, solid bool) {
	p.polygon(id, []image.Point{a, b, c, d}, solid)
}

// a closed sequence of lines sharing one owner. the shape is built on its own
// before being merged, so that solid spans do not join with other shapes on
// the same scan line
func (p *Pieces) polygon(id int, pts []image.Point, solid bool) {
	shape := NewPieces()
	for i := range pts {
		a := pts[i]
		b := pts[(i+1)%len(pts)]
		shape.MakeLine(id, a.X, a.Y, b.X, b.Y, solid)
	}
	p.Merge(shape)
}

// TriangleList adds a triangle for every three points.
func (p *Pieces) TriangleList(id int, pts []image.Point, solid bool) {
	for i := 0; i+2 < len(pts); i += 3 {
		p.Triangle(id, pts[i], pts[i+1], pts[i+2], solid)
	}
}

// TriangleFan adds triangles that all share the first point.
func (p *Pieces) TriangleFan(id int, pts []image.Point, solid bool) {
	for i := 1; i+1 < len(pts); i++ {
		p.Triangle(id, pts[0], pts[i], pts[i+1], solid)
	}
}

// TriangleStrip adds a triangle for every point after the second, each
// sharing an edge with the previous triangle.
func (p *Pieces) TriangleStrip(id int, pts []image.Point, solid bool) {
	for i := 0; i+2 < len(pts); i++ {
		p.Triangle(id, pts[i], pts[i+1], pts[i+2], solid)
	}
}

// QuadList adds a quad for every four points.
func (p *Pieces) QuadList(id int, pts []image.Point, solid bool) {
	for i := 0; i+3 < len(pts); i += 4 {
		p.Quad(id, pts[i], pts[i+1], pts[i+2], pts[i+3], solid)
	}
}

// QuadStrip adds a quad for every pair of points after the first pair, each
// sharing an edge with the previous quad. Points alternate between the two
// sides of the strip.
func (p *Pieces) QuadStrip(id int, pts []image.Point, solid bool) {
	for i := 0; i+3 < len(pts); i += 2 {
		p.Quad(id, pts[i], pts[i+1], pts[i+3], pts[i+2], solid)
	}
}
