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

package scene

import (
	"fmt"
	"image"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/jetsetilly/otfvdp/curated"
	"github.com/jetsetilly/otfvdp/hardware/video/specification"
	"github.com/jetsetilly/otfvdp/otf/primitive"
	"github.com/jetsetilly/otfvdp/test"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	spec, err := specification.GetMode(0)
	test.DemandSuccess(t, err)
	return NewManager(spec)
}

// build the bucket table from nothing
func (m *Manager) naiveBuckets() [][]int {
	b := make([][]int, len(m.buckets))
	for id := 1; id < MaxPrimitives; id++ {
		p := m.prims[id]
		if p == nil {
			continue
		}
		top, bottom, ok := p.Core().VerticalRange()
		if !ok {
			continue
		}
		for y := max(top, 0); y < min(bottom, len(b)); y++ {
			b[y] = append(b[y], id)
		}
	}
	return b
}

func checkBuckets(t *testing.T, m *Manager, tags ...any) bool {
	t.Helper()
	naive := m.naiveBuckets()
	for y := range naive {
		if !slices.Equal(m.buckets[y], naive[y]) {
			t.Errorf("line %d: incremental %v does not match rebuilt %v %v", y, m.buckets[y], naive[y], tags)
			return false
		}
	}
	return true
}

func rect(id int, x int, y int, w int, h int, col byte) *primitive.SolidRectangle {
	return primitive.NewSolidRectangle(id, primitive.DefaultFlags, x, y, w, h, uint32(col))
}

func TestDrawRectInvariant(t *testing.T) {
	m := newTestManager(t)

	g := primitive.NewGroup(1, primitive.DefaultFlags|primitive.ClipChildren, 100, 100)
	test.DemandSuccess(t, m.Create(g, 0))
	test.DemandSuccess(t, m.SetSize(1, 50, 50))

	test.DemandSuccess(t, m.Create(rect(2, 40, 40, 20, 20, 0x03), 1))
	test.DemandSuccess(t, m.Create(rect(3, -10, 600, 30, 30, 0x03), 0))
	test.DemandSuccess(t, m.Create(rect(4, 10, 10, 300, 300, 0x03), 2))

	for id := 1; id <= 4; id++ {
		p, ok := m.Lookup(id)
		test.DemandSuccess(t, ok)
		b := p.Core()
		test.ExpectEquality(t, b.DrawRect(), b.OwnRect().Intersect(b.ViewRect()), id)
	}

	// clipped by the group
	p, _ := m.Lookup(2)
	test.ExpectEquality(t, p.Core().DrawRect(), image.Rect(140, 140, 150, 150))

	// the grandchild inherits the group's clipping because its parent does
	// not clip children
	p, _ = m.Lookup(4)
	test.ExpectEquality(t, p.Core().ViewRect(), image.Rect(100, 100, 150, 150))
	test.ExpectSuccess(t, p.Core().DrawRect().Empty())
	_, _, ok := p.Core().VerticalRange()
	test.ExpectFailure(t, ok)

	// off the bottom of the screen
	p, _ = m.Lookup(3)
	_, _, ok = p.Core().VerticalRange()
	test.ExpectFailure(t, ok)

	checkBuckets(t, m)
	test.ExpectEquality(t, len(m.Bucket(145)), 1)
	test.ExpectEquality(t, m.Bucket(145)[0], 2)
}

func TestIncrementalBuckets(t *testing.T) {
	m := newTestManager(t)
	rng := rand.New(rand.NewPCG(10, 20))

	const n = 20
	for id := 1; id <= n; id++ {
		test.DemandSuccess(t, m.Create(rect(id, rng.IntN(600), rng.IntN(500)-10, 1+rng.IntN(40), 1+rng.IntN(100), 0x01), 0))
	}
	checkBuckets(t, m)

	flags := []primitive.Flags{
		primitive.DefaultFlags,
		primitive.PaintChildren,
		primitive.DefaultFlags | primitive.ClipChildren,
		primitive.DefaultFlags | primitive.Absolute,
	}

	for i := range 2000 {
		id := 1 + rng.IntN(n)
		var op string
		switch rng.IntN(6) {
		case 0:
			op = "set position"
			_ = m.SetPosition(id, rng.IntN(700)-50, rng.IntN(600)-60)
		case 1:
			op = "adjust position"
			_ = m.AdjustPosition(id, rng.IntN(21)-10, rng.IntN(41)-20)
		case 2:
			op = "set flags"
			_ = m.SetFlags(id, flags[rng.IntN(len(flags))])
		case 3:
			op = "set size"
			_ = m.SetSize(id, rng.IntN(50), rng.IntN(200))
		case 4:
			op = "delete"
			_ = m.Delete(id)
		case 5:
			op = "create"
			parent := rng.IntN(n + 1)
			if _, ok := m.Lookup(parent); !ok {
				parent = 0
			}
			_ = m.Create(rect(id, rng.IntN(100), rng.IntN(100), 1+rng.IntN(40), 1+rng.IntN(100), 0x02), parent)
		}
		if !checkBuckets(t, m, i, op, id) {
			break
		}
	}
}

func TestMoveRangeCases(t *testing.T) {
	m := newTestManager(t)
	test.DemandSuccess(t, m.Create(rect(1, 0, 100, 10, 50, 0x01), 0))

	// each of the six ways the new range can relate to the old range
	for _, y := range []int{10, 80, 90, 110, 120, 300, 60} {
		test.DemandSuccess(t, m.SetPosition(1, 0, y))
		checkBuckets(t, m, y)
	}
	for _, h := range []int{20, 100, 5, 200} {
		test.DemandSuccess(t, m.SetSize(1, 10, h))
		checkBuckets(t, m, h)
	}
}

func TestCreateErrors(t *testing.T) {
	m := newTestManager(t)

	test.ExpectSuccess(t, curated.Is(m.Create(rect(0, 0, 0, 1, 1, 0), 0), InvalidID))
	test.ExpectSuccess(t, curated.Is(m.Create(rect(MaxPrimitives, 0, 0, 1, 1, 0), 0), InvalidID))
	test.ExpectSuccess(t, curated.Is(m.Create(rect(1, 0, 0, 1, 1, 0), 5), UnknownParent))
	test.ExpectEquality(t, m.Count(), 0)

	// replacing a primitive deletes its children
	test.DemandSuccess(t, m.Create(rect(1, 0, 0, 10, 10, 0), 0))
	test.DemandSuccess(t, m.Create(rect(2, 0, 0, 10, 10, 0), 1))
	test.DemandSuccess(t, m.Create(rect(1, 0, 0, 10, 10, 0), 0))
	_, ok := m.Lookup(2)
	test.ExpectFailure(t, ok)
	test.ExpectEquality(t, m.Count(), 1)

	// replacing a primitive with a child of itself fails and leaves the
	// scene unchanged
	test.DemandSuccess(t, m.Create(rect(2, 0, 0, 10, 10, 0), 1))
	test.ExpectSuccess(t, curated.Is(m.Create(rect(1, 0, 0, 10, 10, 0), 2), UnknownParent))
	test.ExpectSuccess(t, curated.Is(m.Create(rect(1, 0, 0, 10, 10, 0), 1), UnknownParent))
	test.ExpectEquality(t, m.Count(), 2)
	test.ExpectEquality(t, m.Parent(2), 1)
	test.ExpectEquality(t, fmt.Sprint(m.Children(1)), "[2]")
	checkBuckets(t, m)
	test.DemandSuccess(t, m.Delete(1))
	test.ExpectEquality(t, m.Count(), 0)

	// unknown primitives are errors with no effect
	test.ExpectSuccess(t, curated.Is(m.Delete(7), UnknownPrimitive))
	test.ExpectSuccess(t, curated.Is(m.SetFlags(7, 0), UnknownPrimitive))
	test.ExpectSuccess(t, curated.Is(m.SetPosition(7, 0, 0), UnknownPrimitive))
	test.ExpectSuccess(t, curated.Is(m.AdjustPosition(7, 0, 0), UnknownPrimitive))
	test.ExpectSuccess(t, curated.Is(m.GenerateCode(7), UnknownPrimitive))
	test.ExpectSuccess(t, curated.Is(m.Delete(0), InvalidID))

	// only some primitives can be resized
	test.DemandSuccess(t, m.Create(primitive.NewPixel(3, primitive.DefaultFlags, 0, 0, 0), 0))
	test.ExpectSuccess(t, curated.Is(m.SetSize(3, 2, 2), NotResizable))
}

func TestTree(t *testing.T) {
	m := newTestManager(t)
	test.DemandSuccess(t, m.Create(primitive.NewGroup(1, primitive.DefaultFlags, 0, 0), 0))
	test.DemandSuccess(t, m.Create(rect(3, 0, 0, 1, 1, 0), 1))
	test.DemandSuccess(t, m.Create(rect(2, 0, 0, 1, 1, 0), 1))

	test.ExpectEquality(t, fmt.Sprint(m.Children(0)), "[1]")
	test.ExpectEquality(t, fmt.Sprint(m.Children(1)), "[3 2]")
	test.ExpectEquality(t, m.Parent(2), 1)
	test.ExpectEquality(t, m.Parent(0), -1)

	test.DemandSuccess(t, m.Delete(1))
	test.ExpectEquality(t, m.Count(), 0)
	test.ExpectEquality(t, len(m.Children(0)), 0)
	test.ExpectEquality(t, m.Parent(2), -1)
}

func TestReferenceLifetime(t *testing.T) {
	m := newTestManager(t)

	b, err := primitive.NewBitmap(1, primitive.DefaultFlags, 0, 0, 4, 4, 0)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, m.Create(b, 0))

	test.DemandSuccess(t, m.CreateReference(2, primitive.DefaultFlags, 0, 10, 0, 0, 1, 0))
	test.DemandSuccess(t, m.CreateReference(3, primitive.DefaultFlags, 0, 20, 0, 0, 1, 0))
	test.ExpectEquality(t, fmt.Sprint(m.References(1)), "[2 3]")

	// references cannot be made to references or to unknown primitives
	test.ExpectSuccess(t, curated.Is(m.CreateReference(4, primitive.DefaultFlags, 0, 0, 0, 0, 2, 0), NotABitmap))
	test.ExpectSuccess(t, curated.Is(m.CreateReference(4, primitive.DefaultFlags, 0, 0, 0, 0, 9, 0), NotABitmap))

	// deleting a reference leaves the owner
	test.DemandSuccess(t, m.Delete(2))
	test.ExpectEquality(t, fmt.Sprint(m.References(1)), "[3]")

	// deleting the owner deletes the remaining references first
	test.DemandSuccess(t, m.Delete(1))
	_, ok := m.Lookup(3)
	test.ExpectFailure(t, ok)
	test.ExpectEquality(t, len(m.References(1)), 0)
	test.ExpectEquality(t, m.Count(), 0)
	checkBuckets(t, m)
}

func TestReferenceReplacingOwnerAncestor(t *testing.T) {
	m := newTestManager(t)

	test.DemandSuccess(t, m.Create(primitive.NewGroup(5, primitive.DefaultFlags, 0, 0), 0))
	b, err := primitive.NewBitmap(6, primitive.DefaultFlags, 0, 0, 4, 4, 0)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, m.Create(b, 5))

	// the reference would replace the group that holds its own pixels
	test.ExpectSuccess(t, curated.Is(m.CreateReference(5, primitive.DefaultFlags, 0, 0, 0, 0, 6, 0), NotABitmap))
	_, ok := m.Lookup(5)
	test.ExpectSuccess(t, ok)
	_, ok = m.Bitmap(6)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, len(m.References(6)), 0)
	test.ExpectEquality(t, m.Count(), 2)
	test.ExpectSuccess(t, curated.Is(m.CreateReference(MaxPrimitives, primitive.DefaultFlags, 0, 0, 0, 0, 6, 0), InvalidID))

	// the reference would replace its own parent
	test.DemandSuccess(t, m.CreateReference(7, primitive.DefaultFlags, 5, 10, 0, 0, 6, 0))
	other, err := primitive.NewBitmap(9, primitive.DefaultFlags, 30, 0, 2, 2, 0)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, m.Create(other, 0))
	test.ExpectSuccess(t, curated.Is(m.CreateReference(5, primitive.DefaultFlags, 7, 0, 0, 0, 9, 0), UnknownParent))
	test.ExpectEquality(t, fmt.Sprint(m.References(6)), "[7]")
	test.ExpectEquality(t, len(m.References(9)), 0)
	test.ExpectEquality(t, m.Count(), 4)
	checkBuckets(t, m)

	// replacing an unrelated primitive with a reference is allowed
	test.DemandSuccess(t, m.Create(rect(8, 0, 0, 1, 1, 0), 0))
	test.DemandSuccess(t, m.CreateReference(8, primitive.DefaultFlags, 0, 20, 0, 0, 6, 0))
	test.ExpectEquality(t, fmt.Sprint(m.References(6)), "[7 8]")

	// a bitmap created later at the owner's ID owns no references
	test.DemandSuccess(t, m.Delete(5))
	_, ok = m.Lookup(8)
	test.ExpectFailure(t, ok)
	b, err = primitive.NewBitmap(6, primitive.DefaultFlags, 0, 0, 4, 4, 0)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, m.Create(b, 0))
	test.ExpectEquality(t, len(m.References(6)), 0)
	test.ExpectEquality(t, m.Count(), 2)
	checkBuckets(t, m)
}
