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

// Package primitive contains the drawable units of the scene. Every primitive
// builds its own paint routines with the code generator, one routine for each
// alignment phase and hidden edge amount it needs to support.
package primitive

import (
	"fmt"
	"image"

	"github.com/jetsetilly/otfvdp/curated"
	"github.com/jetsetilly/otfvdp/hardware/video/signal"
	"github.com/jetsetilly/otfvdp/hardware/video/specification"
	"github.com/jetsetilly/otfvdp/otf/codegen"
)

// Sentinal error patterns.
const (
	CodeGeneration = "primitive: code generation: %v"
	InvalidSize    = "primitive: invalid size (%d x %d)"
	InvalidContent = "primitive: %v"
)

// EdgeSpan is the number of hidden pixel amounts that edge variants are
// generated for. An edge hidden by EdgeSpan pixels or more is painted with
// clipping.
const EdgeSpan = 4

// Primitive is implemented by every variant.
type Primitive interface {
	// Core returns the attributes common to all primitives
	Core() *Base

	// GenerateCode discards any existing paint routines and builds new ones
	// from the current geometry and content
	GenerateCode() error

	// NeedsCode returns true if the paint routines are missing or out of
	// date
	NeedsCode() bool

	// Paint the primitive on the scan line. The scan line is inside the
	// primitive's draw rectangle
	Paint(dst []byte, line int)
}

// Resizer is implemented by primitives that can change size without a change
// of content.
type Resizer interface {
	SetSize(width int, height int) error
}

// variantKey selects one of the paint routines of a primitive.
type variantKey struct {
	phase int
	left  int
	right int
}

// Base contains the attributes common to all primitives.
type Base struct {
	id    int
	flags Flags

	// position relative to the parent and size
	x, y          int
	width, height int

	// the custom 32bit field. the least significant byte is the colour of
	// simple primitives and the key colour of masked bitmaps
	color uint32

	// sync bits of the current video mode
	syncs byte

	// container primitives are never painted
	container bool

	// derived geometry
	abs  image.Point
	own  image.Rectangle
	view image.Rectangle
	draw image.Rectangle

	// whether every ancestor paints its children
	visible bool

	routines map[variantKey]*codegen.Routine
	dirty    bool
}

func newBase(id int, flags Flags, x int, y int, width int, height int, color uint32) Base {
	return Base{
		id:     id,
		flags:  flags & Settable,
		x:      x,
		y:      y,
		width:  width,
		height: height,
		color:  color,
		dirty:  true,
	}
}

// NewRoot creates the root of a scene for a screen of the given size. The
// root is never painted and always clips its children to the screen.
func NewRoot(width int, height int) *Group {
	g := NewGroup(0, PaintChildren|ClipChildren, 0, 0)
	g.width = width
	g.height = height
	g.visible = true
	g.ComputeGeometry(image.Point{}, image.Rect(0, 0, width, height), true)
	return g
}

func (b *Base) String() string {
	return fmt.Sprintf("%d: %s %s", b.id, b.own, b.flags)
}

// Core implements the Primitive interface.
func (b *Base) Core() *Base {
	return b
}

// ID returns the ID of the primitive.
func (b *Base) ID() int {
	return b.id
}

// Flags returns the current flags including the status flags.
func (b *Base) Flags() Flags {
	return b.flags
}

// SetFlags changes the settable flags. Status flags are preserved. The paint
// routines are invalidated if the change affects them.
func (b *Base) SetFlags(flags Flags) {
	flags = (flags & Settable) | (b.flags &^ Settable)
	if (flags^b.flags)&codeFlags != 0 {
		b.Invalidate()
	}
	b.flags = flags
}

// setStatus sets or clears a status flag.
func (b *Base) setStatus(f Flags, on bool) {
	if on {
		b.flags |= f
	} else {
		b.flags &^= f
	}
}

// Position returns the position relative to the parent.
func (b *Base) Position() (int, int) {
	return b.x, b.y
}

// SetPosition changes the position relative to the parent. The geometry of
// the primitive must be recomputed afterwards.
func (b *Base) SetPosition(x int, y int) {
	b.x = x
	b.y = y
}

// Size returns the width and height of the primitive.
func (b *Base) Size() (int, int) {
	return b.width, b.height
}

// Color returns the custom 32bit field.
func (b *Base) Color() uint32 {
	return b.color
}

// SetColor changes the custom 32bit field and invalidates the paint
// routines.
func (b *Base) SetColor(color uint32) {
	b.color = color
	b.Invalidate()
}

// SetSyncBits sets the sync bits used for every pixel painted by the
// primitive. The paint routines are invalidated if the sync bits change.
func (b *Base) SetSyncBits(syncs byte) {
	if b.syncs != syncs {
		b.syncs = syncs
		b.Invalidate()
	}
}

// Invalidate marks the paint routines as out of date.
func (b *Base) Invalidate() {
	b.dirty = true
}

// IsContainer returns true if the primitive is never painted.
func (b *Base) IsContainer() bool {
	return b.container
}

// Absolute returns the absolute position of the primitive.
func (b *Base) Absolute() image.Point {
	return b.abs
}

// OwnRect returns the absolute rectangle covered by the primitive.
func (b *Base) OwnRect() image.Rectangle {
	return b.own
}

// ViewRect returns the rectangle inherited from the primitive's ancestors.
func (b *Base) ViewRect() image.Rectangle {
	return b.view
}

// DrawRect returns the part of the primitive that can be painted.
func (b *Base) DrawRect() image.Rectangle {
	return b.draw
}

// ComputeGeometry sets the absolute position, the own, view and draw
// rectangles, and the CanDraw status. The parent's absolute position is
// ignored if the Absolute flag is set. The parentPaints argument is false if
// any ancestor does not paint its children.
func (b *Base) ComputeGeometry(parentAbs image.Point, view image.Rectangle, parentPaints bool) {
	if b.flags&Absolute == Absolute {
		b.abs = image.Pt(b.x, b.y)
	} else {
		b.abs = parentAbs.Add(image.Pt(b.x, b.y))
	}
	b.own = image.Rect(b.abs.X, b.abs.Y, b.abs.X+b.width, b.abs.Y+b.height)
	b.view = view
	b.draw = b.own.Intersect(view)
	b.visible = parentPaints

	canDraw := !b.container && parentPaints && b.flags&PaintSelf == PaintSelf &&
		b.width > 0 && b.height > 0 && !b.draw.Empty()
	b.setStatus(CanDraw, canDraw)
}

// ChildView returns the view rectangle and the paint status passed to the
// children of the primitive.
func (b *Base) ChildView() (image.Point, image.Rectangle, bool) {
	view := b.view
	if b.flags&ClipChildren == ClipChildren {
		view = b.draw
	}
	return b.abs, view, b.visible && b.flags&PaintChildren == PaintChildren
}

// VerticalRange returns the first and last scan line (exclusive) of the draw
// rectangle. The ok value is false if the primitive cannot be drawn.
func (b *Base) VerticalRange() (int, int, bool) {
	if b.flags&CanDraw != CanDraw {
		return 0, 0, false
	}
	return b.draw.Min.Y, b.draw.Max.Y, true
}

// the alignment phase of the primitive's left edge
func (b *Base) phase() int {
	return b.own.Min.X & 3
}

// the list of variants required by the primitive's flags and geometry
func (b *Base) variantKeys() []variantKey {
	phases := []int{b.phase()}
	if b.flags&HScroll1 == HScroll1 {
		phases = []int{0, 1, 2, 3}
	}

	lefts := []int{0}
	if b.flags&LeftEdge == LeftEdge {
		for h := 1; h < min(EdgeSpan, b.width); h++ {
			lefts = append(lefts, h)
		}
	}
	rights := []int{0}
	if b.flags&RightEdge == RightEdge {
		for h := 1; h < min(EdgeSpan, b.width); h++ {
			rights = append(rights, h)
		}
	}

	var keys []variantKey
	for _, p := range phases {
		for _, l := range lefts {
			for _, r := range rights {
				if l+r < b.width {
					keys = append(keys, variantKey{phase: p, left: l, right: r})
				}
			}
		}
	}
	return keys
}

// generate builds every required variant using the build function
func (b *Base) generate(build func(e *emitter)) error {
	b.routines = make(map[variantKey]*codegen.Routine)
	b.dirty = false

	if b.container || b.width <= 0 || b.height <= 0 {
		return nil
	}

	for _, k := range b.variantKeys() {
		e := &emitter{
			a:     codegen.NewAssembler(k.phase),
			lo:    k.left,
			hi:    b.width - k.right,
			syncs: b.syncs,
		}
		build(e)
		r, err := e.a.Finalize()
		if err != nil {
			b.routines = nil
			return curated.Errorf(CodeGeneration, err)
		}
		b.routines[k] = r
	}

	return nil
}

// NeedsCode implements the Primitive interface.
func (b *Base) NeedsCode() bool {
	if b.container {
		return false
	}
	if b.dirty || b.routines == nil {
		return true
	}
	_, ok := b.routines[variantKey{phase: b.phase()}]
	return !ok
}

// Routines returns the number of paint routines currently built.
func (b *Base) Routines() int {
	return len(b.routines)
}

// run the routine that best fits the current draw rectangle
func (b *Base) run(dst []byte, line int, src []byte, slice int) {
	ctx := codegen.Context{
		Dst:   dst,
		Src:   src,
		X:     b.own.Min.X,
		Line:  line,
		Top:   b.own.Min.Y,
		Slice: slice,
	}

	left := b.draw.Min.X - b.own.Min.X
	right := b.own.Max.X - b.draw.Max.X
	phase := b.phase()

	if b.flags&ClipSelf != ClipSelf {
		if r, ok := b.routines[variantKey{phase: phase, left: left, right: right}]; ok {
			r.Run(&ctx)
			return
		}
	}
	if r, ok := b.routines[variantKey{phase: phase}]; ok {
		r.RunClipped(&ctx, b.draw.Min.X, b.draw.Max.X)
	}
}

// paintColor paints a run in the colour of the primitive. the run is blended
// if the Blended flag is set, using the opacity bits of the colour
func (b *Base) paintColor(e *emitter, x int, width int) {
	col := byte(b.color)
	if b.flags&Blended == Blended {
		e.blend(x, width, col, signal.AlphaLevel(col))
		return
	}
	e.set(x, width, col)
}

// emitter wraps an assembler with the horizontal range of the primitive
// that the variant paints.
type emitter struct {
	a     *codegen.Assembler
	lo    int
	hi    int
	syncs byte
}

func (e *emitter) clip(x int, width int) (int, int) {
	s := max(x, e.lo)
	end := min(x+width, e.hi)
	return s, end - s
}

func (e *emitter) pixel(col byte) byte {
	return (col & specification.ColorMask) | e.syncs
}

func (e *emitter) set(x int, width int, col byte) {
	if s, w := e.clip(x, width); w > 0 {
		e.a.SetRun(s, w, e.pixel(col))
	}
}

func (e *emitter) copy(x int, width int, src int) {
	if s, w := e.clip(x, width); w > 0 {
		e.a.CopyRun(s, w, src+s-x)
	}
}

func (e *emitter) blend(x int, width int, col byte, level signal.Opaqueness) {
	if s, w := e.clip(x, width); w > 0 {
		e.a.BlendRun(s, w, e.pixel(col), level)
	}
}

func (e *emitter) table(lines int) {
	e.a.BeginLineTable(lines)
}

func (e *emitter) line(i int) {
	e.a.BeginLine(i)
}

func (e *emitter) share(i int, other int) {
	e.a.ShareLine(i, other)
}

func (e *emitter) ret() {
	e.a.Return()
}
