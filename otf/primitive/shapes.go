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
	"image"
	"slices"

	"github.com/jetsetilly/otfvdp/curated"
	"github.com/jetsetilly/otfvdp/otf/raster"
)

// Group is a container that positions and clips its children. A group is
// never painted.
type Group struct {
	Base
}

// NewGroup is the preferred method of initialisation for the Group type.
func NewGroup(id int, flags Flags, x int, y int) *Group {
	g := &Group{Base: newBase(id, flags, x, y, 0, 0, 0)}
	g.container = true
	return g
}

// SetSize implements the Resizer interface. The size of a group only matters
// when it clips its children.
func (g *Group) SetSize(width int, height int) error {
	if width < 0 || height < 0 {
		return curated.Errorf(InvalidSize, width, height)
	}
	g.width = width
	g.height = height
	return nil
}

// GenerateCode implements the Primitive interface.
func (g *Group) GenerateCode() error {
	return nil
}

// Paint implements the Primitive interface.
func (g *Group) Paint(_ []byte, _ int) {
}

// Pixel is a single pixel.
type Pixel struct {
	Base
}

// NewPixel is the preferred method of initialisation for the Pixel type.
func NewPixel(id int, flags Flags, x int, y int, color uint32) *Pixel {
	return &Pixel{Base: newBase(id, flags, x, y, 1, 1, color)}
}

// GenerateCode implements the Primitive interface.
func (p *Pixel) GenerateCode() error {
	return p.generate(func(e *emitter) {
		p.paintColor(e, 0, 1)
	})
}

// Paint implements the Primitive interface.
func (p *Pixel) Paint(dst []byte, line int) {
	p.run(dst, line, nil, 0)
}

// SolidRectangle is a rectangle filled with a single colour. Every scan line
// of the rectangle is the same so there is no jump table.
type SolidRectangle struct {
	Base
}

// NewSolidRectangle is the preferred method of initialisation for the
// SolidRectangle type.
func NewSolidRectangle(id int, flags Flags, x int, y int, width int, height int, color uint32) *SolidRectangle {
	return &SolidRectangle{Base: newBase(id, flags, x, y, width, height, color)}
}

// SetSize implements the Resizer interface.
func (r *SolidRectangle) SetSize(width int, height int) error {
	if width < 0 || height < 0 {
		return curated.Errorf(InvalidSize, width, height)
	}
	if width != r.width {
		r.Invalidate()
	}
	r.width = width
	r.height = height
	return nil
}

// GenerateCode implements the Primitive interface.
func (r *SolidRectangle) GenerateCode() error {
	return r.generate(func(e *emitter) {
		r.paintColor(e, 0, r.width)
	})
}

// Paint implements the Primitive interface.
func (r *SolidRectangle) Paint(dst []byte, line int) {
	r.run(dst, line, nil, 0)
}

// Rectangle is the one pixel outline of a rectangle.
type Rectangle struct {
	Base
}

// NewRectangle is the preferred method of initialisation for the Rectangle
// type.
func NewRectangle(id int, flags Flags, x int, y int, width int, height int, color uint32) *Rectangle {
	return &Rectangle{Base: newBase(id, flags, x, y, width, height, color)}
}

// SetSize implements the Resizer interface.
func (r *Rectangle) SetSize(width int, height int) error {
	if width < 0 || height < 0 {
		return curated.Errorf(InvalidSize, width, height)
	}
	r.width = width
	r.height = height
	r.Invalidate()
	return nil
}

// GenerateCode implements the Primitive interface.
func (r *Rectangle) GenerateCode() error {
	return r.generate(func(e *emitter) {
		e.table(r.height)

		// top edge
		e.line(0)
		r.paintColor(e, 0, r.width)
		e.ret()

		if r.height > 1 {
			e.share(r.height-1, 0)
		}

		// sides
		if r.height > 2 {
			e.line(1)
			r.paintColor(e, 0, 1)
			if r.width > 1 {
				r.paintColor(e, r.width-1, 1)
			}
			e.ret()
			for y := 2; y < r.height-1; y++ {
				e.share(y, 1)
			}
		}
	})
}

// Paint implements the Primitive interface.
func (r *Rectangle) Paint(dst []byte, line int) {
	r.run(dst, line, nil, 0)
}

// Shape is the way the points of a Polygon are joined.
type Shape int

// List of valid Shape values.
const (
	ShapeLine Shape = iota
	ShapeTriangleList
	ShapeTriangleFan
	ShapeTriangleStrip
	ShapeQuadList
	ShapeQuadStrip
)

func (s Shape) String() string {
	switch s {
	case ShapeLine:
		return "line"
	case ShapeTriangleList:
		return "triangle list"
	case ShapeTriangleFan:
		return "triangle fan"
	case ShapeTriangleStrip:
		return "triangle strip"
	case ShapeQuadList:
		return "quad list"
	case ShapeQuadStrip:
		return "quad strip"
	}
	return "unknown shape"
}

// Polygon is a line or a collection of triangles or quads, painted as an
// outline or solid. The position of the primitive is the top left corner of
// the bounding box of the points.
type Polygon struct {
	Base
	shape  Shape
	solid  bool
	pieces *raster.Pieces
}

// NewLine creates a Polygon for a single line.
func NewLine(id int, flags Flags, x1 int, y1 int, x2 int, y2 int, color uint32) *Polygon {
	p, _ := NewPolygon(id, flags, ShapeLine, []image.Point{{x1, y1}, {x2, y2}}, false, color)
	return p
}

// NewPolygon is the preferred method of initialisation for the Polygon type.
// The points are relative to the parent.
func NewPolygon(id int, flags Flags, shape Shape, pts []image.Point, solid bool, color uint32) (*Polygon, error) {
	pieces := raster.NewPieces()
	switch shape {
	case ShapeLine:
		for i := 0; i+1 < len(pts); i++ {
			pieces.MakeLine(id, pts[i].X, pts[i].Y, pts[i+1].X, pts[i+1].Y, false)
		}
	case ShapeTriangleList:
		pieces.TriangleList(id, pts, solid)
	case ShapeTriangleFan:
		pieces.TriangleFan(id, pts, solid)
	case ShapeTriangleStrip:
		pieces.TriangleStrip(id, pts, solid)
	case ShapeQuadList:
		pieces.QuadList(id, pts, solid)
	case ShapeQuadStrip:
		pieces.QuadStrip(id, pts, solid)
	default:
		return nil, curated.Errorf(InvalidContent, shape)
	}

	bounds := pieces.Bounds()
	if bounds.Empty() {
		return nil, curated.Errorf(InvalidContent, "no points")
	}
	pieces.Translate(-bounds.Min.X, -bounds.Min.Y)

	return &Polygon{
		Base:   newBase(id, flags, bounds.Min.X, bounds.Min.Y, bounds.Dx(), bounds.Dy(), color),
		shape:  shape,
		solid:  solid,
		pieces: pieces,
	}, nil
}

// Shape returns the shape of the polygon.
func (p *Polygon) Shape() Shape {
	return p.shape
}

// GenerateCode implements the Primitive interface.
func (p *Polygon) GenerateCode() error {
	return p.generate(func(e *emitter) {
		e.table(p.height)
		var prev []raster.Piece
		prevLine := -1
		for y := range p.height {
			line := p.pieces.Line(y)
			if len(line) == 0 {
				continue
			}
			if prevLine != -1 && slices.Equal(line, prev) {
				e.share(y, prevLine)
				continue
			}
			e.line(y)
			for _, pc := range line {
				p.paintColor(e, pc.X, pc.Width)
			}
			e.ret()
			prev = line
			prevLine = y
		}
	})
}

// Paint implements the Primitive interface.
func (p *Polygon) Paint(dst []byte, line int) {
	p.run(dst, line, nil, 0)
}
