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
	"testing"

	"github.com/jetsetilly/otfvdp/curated"
	"github.com/jetsetilly/otfvdp/otf/primitive"
	"github.com/jetsetilly/otfvdp/test"
)

func TestRectangleRoundTrip(t *testing.T) {
	m := newTestManager(t)
	m.SetBackground(0x01)

	test.DemandSuccess(t, m.Create(rect(1, 10, 10, 16, 16, 0x15), 0))

	px := func(x, y int) byte {
		t.Helper()
		v, err := m.ReadPixel(x, y)
		test.DemandSuccess(t, err)
		return v
	}

	test.ExpectEquality(t, px(10, 10), 0x15)
	test.ExpectEquality(t, px(25, 25), 0x15)
	test.ExpectEquality(t, px(9, 10), 0x01)
	test.ExpectEquality(t, px(26, 25), 0x01)
	test.ExpectEquality(t, px(25, 26), 0x01)

	test.DemandSuccess(t, m.AdjustPosition(1, 100, 100))
	test.ExpectEquality(t, px(10, 10), 0x01)
	test.ExpectEquality(t, px(110, 110), 0x15)
	test.ExpectEquality(t, px(125, 125), 0x15)
	test.ExpectEquality(t, len(m.Bucket(10)), 0)
	test.ExpectEquality(t, len(m.Bucket(110)), 1)

	test.DemandSuccess(t, m.Delete(1))
	test.ExpectEquality(t, px(110, 110), 0x01)
	test.ExpectEquality(t, len(m.Bucket(110)), 0)

	_, err := m.ReadPixel(-1, 0)
	test.ExpectSuccess(t, curated.Is(err, OutOfScreen))
	_, err = m.ReadPixel(0, 480)
	test.ExpectSuccess(t, curated.Is(err, OutOfScreen))
}

func TestPaintOrder(t *testing.T) {
	m := newTestManager(t)

	// higher IDs are painted later regardless of the order of creation
	test.DemandSuccess(t, m.Create(rect(5, 0, 0, 20, 20, 0x0c), 0))
	test.DemandSuccess(t, m.Create(rect(2, 10, 10, 20, 20, 0x03), 0))

	v, err := m.ReadPixel(15, 15)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, v, 0x0c)

	v, err = m.ReadPixel(25, 25)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, v, 0x03)

	test.ExpectEquality(t, len(m.Bucket(15)), 2)
	test.ExpectEquality(t, m.Bucket(15)[0], 2)
	test.ExpectEquality(t, m.Bucket(15)[1], 5)
}

func TestParentPainting(t *testing.T) {
	m := newTestManager(t)

	test.DemandSuccess(t, m.Create(primitive.NewGroup(1, primitive.DefaultFlags|primitive.ClipChildren, 50, 50), 0))
	test.DemandSuccess(t, m.SetSize(1, 10, 10))
	test.DemandSuccess(t, m.Create(rect(2, 5, 5, 20, 20, 0x30), 1))

	v, _ := m.ReadPixel(55, 55)
	test.ExpectEquality(t, v, 0x30)

	// clipped by the group
	v, _ = m.ReadPixel(61, 61)
	test.ExpectEquality(t, v, 0x00)

	// children are not painted if the parent does not paint them
	test.DemandSuccess(t, m.SetFlags(1, primitive.PaintSelf))
	v, _ = m.ReadPixel(55, 55)
	test.ExpectEquality(t, v, 0x00)
	test.ExpectEquality(t, len(m.Bucket(55)), 0)

	test.DemandSuccess(t, m.SetFlags(1, primitive.DefaultFlags))
	v, _ = m.ReadPixel(61, 61)
	test.ExpectEquality(t, v, 0x30)

	// absolute positioning ignores the parent's position
	test.DemandSuccess(t, m.SetFlags(2, primitive.DefaultFlags|primitive.Absolute))
	v, _ = m.ReadPixel(5, 5)
	test.ExpectEquality(t, v, 0x30)
	v, _ = m.ReadPixel(55, 55)
	test.ExpectEquality(t, v, 0x00)
}

func TestGenerateCodeIdempotence(t *testing.T) {
	m := newTestManager(t)
	test.DemandSuccess(t, m.Create(rect(1, 3, 0, 33, 10, 0x2a), 0))
	test.DemandSuccess(t, m.Create(primitive.NewLine(2, primitive.DefaultFlags, 0, 0, 40, 9, 0x05), 0))

	paint := func() [][]byte {
		m.refresh()
		var lines [][]byte
		for y := range 10 {
			l := make([]byte, m.Spec().ActiveWidth)
			m.PaintLine(y, l)
			lines = append(lines, l)
		}
		return lines
	}

	a := paint()
	test.DemandSuccess(t, m.GenerateCode(1))
	test.DemandSuccess(t, m.GenerateCode(2))
	test.DemandSuccess(t, m.GenerateCode(2))
	b := paint()

	for y := range a {
		test.ExpectEquality(t, string(a[y]), string(b[y]), y)
	}
}

func TestColorChange(t *testing.T) {
	m := newTestManager(t)
	test.DemandSuccess(t, m.Create(rect(1, 0, 0, 8, 8, 0x01), 0))

	v, _ := m.ReadPixel(0, 0)
	test.ExpectEquality(t, v, 0x01)

	test.DemandSuccess(t, m.SetColor(1, 0x3f))
	v, _ = m.ReadPixel(7, 7)
	test.ExpectEquality(t, v, 0x3f)

	// the sync bits are preserved in the painted line
	l := make([]byte, m.Spec().ActiveWidth)
	m.PaintLine(0, l)
	test.ExpectEquality(t, l[0], m.Spec().Pixel(0x3f))
}
