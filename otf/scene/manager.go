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

// Package scene is the single authority over the primitives of the display.
// It owns the table of primitives, the parent/child tree, the visibility
// buckets for every scan line and the loop that refills the scan line buffers
// ahead of the video hardware.
//
// Every function of the Manager type must be called from the same goroutine.
package scene

import (
	"fmt"
	"slices"

	"github.com/jetsetilly/otfvdp/curated"
	"github.com/jetsetilly/otfvdp/hardware/video/dma"
	"github.com/jetsetilly/otfvdp/hardware/video/signal"
	"github.com/jetsetilly/otfvdp/hardware/video/specification"
	"github.com/jetsetilly/otfvdp/logger"
	"github.com/jetsetilly/otfvdp/otf/primitive"
)

// MaxPrimitives is the size of the primitive table. ID zero is the root.
const MaxPrimitives = 512

// Sentinal error patterns.
const (
	InvalidID        = "scene: primitive id %d is not valid"
	UnknownPrimitive = "scene: no primitive with id %d"
	UnknownParent    = "scene: no parent primitive with id %d"
	NotABitmap       = "scene: primitive %d is not a bitmap that owns its pixels"
	NotResizable     = "scene: primitive %d cannot be resized"
	OutOfScreen      = "scene: pixel %d, %d is not on the screen"
	Fatal            = "scene: %v"
)

// CommandSource is drained by the manager while the video hardware is in
// vertical blanking.
type CommandSource interface {
	// Drain processes at most budget bytes of pending commands
	Drain(budget int)
}

// Manager owns every primitive and paints the scan lines.
type Manager struct {
	spec specification.Spec

	prims    [MaxPrimitives]primitive.Primitive
	parent   [MaxPrimitives]int
	children [MaxPrimitives][]int

	// reference bitmaps indexed by the bitmap that owns the pixels. and the
	// reverse mapping
	refs     map[int][]int
	refOwner map[int]int

	// the current bucket membership of each primitive
	ranges  [MaxPrimitives]lineRange
	buckets [][]int

	background byte

	// true if a mutation has happened since the flag was last cleared
	mutated bool

	// run loop
	ring      *dma.Ring
	next      int64
	busy      []int64
	frame     int
	underruns int

	renderers []signal.PixelRenderer
	commands  CommandSource

	// the number of command bytes drained during each vertical blank
	DrainBudget int

	scratch []byte
}

// NewManager is the preferred method of initialisation for the Manager type.
func NewManager(spec specification.Spec) *Manager {
	m := &Manager{
		spec:        spec,
		refs:        make(map[int][]int),
		refOwner:    make(map[int]int),
		buckets:     make([][]int, spec.ActiveLines),
		DrainBudget: 1024,
		scratch:     make([]byte, spec.ActiveWidth),
	}
	for i := range m.parent {
		m.parent[i] = -1
	}
	m.prims[0] = primitive.NewRoot(spec.ActiveWidth, spec.ActiveLines)
	return m
}

func (m *Manager) String() string {
	return fmt.Sprintf("scene: %s: %d primitives", m.spec.ID, m.Count())
}

// Spec returns the video specification of the scene.
func (m *Manager) Spec() specification.Spec {
	return m.spec
}

// Count returns the number of primitives in the scene, not including the
// root.
func (m *Manager) Count() int {
	n := 0
	for _, p := range m.prims[1:] {
		if p != nil {
			n++
		}
	}
	return n
}

// SetBackground changes the colour painted on every scan line before any
// primitive.
func (m *Manager) SetBackground(col byte) {
	m.background = col & specification.ColorMask
	m.mutated = true
}

// Background returns the background colour.
func (m *Manager) Background() byte {
	return m.background
}

// Lookup returns the primitive with the ID.
func (m *Manager) Lookup(id int) (primitive.Primitive, bool) {
	if id < 0 || id >= MaxPrimitives || m.prims[id] == nil {
		return nil, false
	}
	return m.prims[id], true
}

func (m *Manager) lookup(id int) (primitive.Primitive, error) {
	if id <= 0 || id >= MaxPrimitives {
		return nil, curated.Errorf(InvalidID, id)
	}
	p := m.prims[id]
	if p == nil {
		return nil, curated.Errorf(UnknownPrimitive, id)
	}
	return p, nil
}

// Bitmap returns the bitmap with the ID. Render3D primitives are bitmaps.
func (m *Manager) Bitmap(id int) (*primitive.Bitmap, bool) {
	p, ok := m.Lookup(id)
	if !ok {
		return nil, false
	}
	switch b := p.(type) {
	case *primitive.Bitmap:
		return b, true
	case *primitive.Render3D:
		return &b.Bitmap, true
	}
	return nil, false
}

// Parent returns the ID of the primitive's parent. Returns -1 for the root
// and for unknown primitives.
func (m *Manager) Parent(id int) int {
	if id < 0 || id >= MaxPrimitives {
		return -1
	}
	return m.parent[id]
}

// Children returns the IDs of the primitive's children in the order they
// were created.
func (m *Manager) Children(id int) []int {
	if id < 0 || id >= MaxPrimitives {
		return nil
	}
	return slices.Clone(m.children[id])
}

// Create adds the primitive to the scene as a child of the parent. Any
// existing primitive with the same ID is deleted first, along with its
// children.
func (m *Manager) Create(p primitive.Primitive, parent int) error {
	id := p.Core().ID()
	if id <= 0 || id >= MaxPrimitives {
		return curated.Errorf(InvalidID, id)
	}
	if parent < 0 || parent >= MaxPrimitives || m.prims[parent] == nil {
		return curated.Errorf(UnknownParent, parent)
	}

	// the parent would be deleted along with the primitive being replaced
	if m.prims[id] != nil {
		if m.descends(parent, id) {
			return curated.Errorf(UnknownParent, parent)
		}
		_ = m.Delete(id)
	}

	m.prims[id] = p
	m.parent[id] = parent
	m.children[parent] = append(m.children[parent], id)
	p.Core().SetSyncBits(m.spec.SyncsOff)
	m.recompute(id)

	return nil
}

// CreateReference creates a bitmap that shows the pixels of another bitmap.
// The owning bitmap must exist and must own its pixels.
func (m *Manager) CreateReference(id int, flags primitive.Flags, parent int, x int, y int, height int, owner int, color uint32) error {
	b, ok := m.Bitmap(owner)
	if !ok || !b.IsOwner() {
		return curated.Errorf(NotABitmap, owner)
	}
	if id <= 0 || id >= MaxPrimitives || id == owner {
		return curated.Errorf(InvalidID, id)
	}

	// replacing an ancestor of the owner would delete the owner
	if m.prims[id] != nil && m.descends(owner, id) {
		return curated.Errorf(NotABitmap, owner)
	}

	ref, err := primitive.NewReference(id, flags, x, y, height, b, color)
	if err != nil {
		return err
	}
	if err := m.Create(ref, parent); err != nil {
		return err
	}

	m.refs[owner] = append(m.refs[owner], id)
	m.refOwner[id] = owner
	return nil
}

// descends returns true if the primitive is the ancestor or is a descendant
// of the ancestor.
func (m *Manager) descends(id int, ancestor int) bool {
	for id >= 0 {
		if id == ancestor {
			return true
		}
		id = m.parent[id]
	}
	return false
}

// References returns the IDs of the primitives that reference the pixels of
// the bitmap.
func (m *Manager) References(owner int) []int {
	return slices.Clone(m.refs[owner])
}

// Delete removes the primitive and all its children. Primitives that
// reference the pixels of a deleted bitmap are deleted too.
func (m *Manager) Delete(id int) error {
	if _, err := m.lookup(id); err != nil {
		return err
	}

	for _, r := range slices.Clone(m.refs[id]) {
		if m.prims[r] != nil {
			_ = m.Delete(r)
		}
	}
	delete(m.refs, id)

	for _, c := range slices.Clone(m.children[id]) {
		if m.prims[c] != nil {
			_ = m.Delete(c)
		}
	}

	m.moveRange(id, m.ranges[id], lineRange{})
	m.ranges[id] = lineRange{}

	if p := m.parent[id]; p >= 0 {
		m.children[p] = slices.DeleteFunc(m.children[p], func(c int) bool { return c == id })
	}

	if owner, ok := m.refOwner[id]; ok {
		m.refs[owner] = slices.DeleteFunc(m.refs[owner], func(r int) bool { return r == id })
		delete(m.refOwner, id)
	}

	m.prims[id] = nil
	m.children[id] = nil
	m.parent[id] = -1
	m.mutated = true

	return nil
}

// SetFlags changes the flags of the primitive.
func (m *Manager) SetFlags(id int, flags primitive.Flags) error {
	p, err := m.lookup(id)
	if err != nil {
		return err
	}
	p.Core().SetFlags(flags)
	m.recompute(id)
	return nil
}

// SetPosition moves the primitive relative to its parent.
func (m *Manager) SetPosition(id int, x int, y int) error {
	p, err := m.lookup(id)
	if err != nil {
		return err
	}
	p.Core().SetPosition(x, y)
	m.recompute(id)
	return nil
}

// AdjustPosition moves the primitive by an amount.
func (m *Manager) AdjustPosition(id int, dx int, dy int) error {
	p, err := m.lookup(id)
	if err != nil {
		return err
	}
	x, y := p.Core().Position()
	p.Core().SetPosition(x+dx, y+dy)
	m.recompute(id)
	return nil
}

// SetSize changes the size of primitives that support it.
func (m *Manager) SetSize(id int, width int, height int) error {
	p, err := m.lookup(id)
	if err != nil {
		return err
	}
	r, ok := p.(primitive.Resizer)
	if !ok {
		return curated.Errorf(NotResizable, id)
	}
	if err := r.SetSize(width, height); err != nil {
		return err
	}
	m.recompute(id)
	return nil
}

// SetColor changes the colour of the primitive.
func (m *Manager) SetColor(id int, color uint32) error {
	p, err := m.lookup(id)
	if err != nil {
		return err
	}
	p.Core().SetColor(color)
	m.mutated = true
	return nil
}

// GenerateCode discards the paint routines of the primitive and builds new
// ones.
func (m *Manager) GenerateCode(id int) error {
	p, err := m.lookup(id)
	if err != nil {
		return err
	}
	m.mutated = true
	return p.GenerateCode()
}

// Touch records that the content of a primitive has been changed outside of
// the manager.
func (m *Manager) Touch() {
	m.mutated = true
}

// recompute the geometry of the primitive and its descendants, top down
func (m *Manager) recompute(id int) {
	p := m.prims[id]
	if p == nil {
		return
	}

	b := p.Core()
	if id != 0 {
		abs, view, paints := m.prims[m.parent[id]].Core().ChildView()
		b.ComputeGeometry(abs, view, paints)
		m.updateBuckets(id)
	}

	for _, c := range m.children[id] {
		m.recompute(c)
	}

	m.mutated = true
}

// refresh the paint routines of every drawable primitive that needs it. code
// generation errors are logged and the primitive stays unpainted
func (m *Manager) refresh() {
	for id, p := range m.prims[1:] {
		if p == nil || p.Core().Flags()&primitive.CanDraw != primitive.CanDraw {
			continue
		}
		if p.NeedsCode() {
			if err := p.GenerateCode(); err != nil {
				logger.Log(logger.Allow, "scene", fmt.Errorf("primitive %d: %w", id+1, err))
			}
		}
	}
}

// PaintLine paints the scan line into dst. The paint routines of the
// primitives are not refreshed.
func (m *Manager) PaintLine(y int, dst []byte) {
	bg := m.spec.Pixel(m.background)
	for i := range dst {
		dst[i] = bg
	}
	if y < 0 || y >= len(m.buckets) {
		return
	}
	for _, id := range m.buckets[y] {
		m.prims[id].Paint(dst, y)
	}
}

// ReadPixel returns the colour of a pixel as it would be painted.
func (m *Manager) ReadPixel(x int, y int) (byte, error) {
	if x < 0 || y < 0 || x >= m.spec.ActiveWidth || y >= m.spec.ActiveLines {
		return 0, curated.Errorf(OutOfScreen, x, y)
	}
	m.refresh()
	m.PaintLine(y, m.scratch)
	return m.scratch[x] & specification.ColorMask, nil
}
