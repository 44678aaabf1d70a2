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
	"context"
	"slices"
	"testing"
	"time"

	"github.com/jetsetilly/otfvdp/curated"
	"github.com/jetsetilly/otfvdp/hardware/video/dma"
	"github.com/jetsetilly/otfvdp/hardware/video/specification"
	"github.com/jetsetilly/otfvdp/test"
)

type recorder struct {
	resized int
	frames  int
	ends    int
	ended   bool
	lines   map[int][]byte
}

func (r *recorder) Resize(_ specification.Spec) error {
	r.resized++
	r.lines = make(map[int][]byte)
	return nil
}

func (r *recorder) NewFrame(_ int) error {
	r.frames++
	return nil
}

func (r *recorder) SetLine(y int, pixels []byte) error {
	r.lines[y] = slices.Clone(pixels)
	return nil
}

func (r *recorder) EndFrame() error {
	r.ends++
	return nil
}

func (r *recorder) EndRendering() error {
	r.ended = true
	return nil
}

type drainFunc func(budget int)

func (f drainFunc) Drain(budget int) {
	f(budget)
}

func TestRenderFrame(t *testing.T) {
	m := newTestManager(t)
	rec := &recorder{}
	test.DemandSuccess(t, m.AddRenderer(rec))
	test.ExpectEquality(t, rec.resized, 1)

	test.DemandSuccess(t, m.Create(rect(1, 0, 479, 1, 1, 0x3f), 0))
	m.RenderFrame()

	test.ExpectEquality(t, rec.frames, 1)
	test.ExpectEquality(t, rec.ends, 1)
	test.ExpectEquality(t, len(rec.lines), 480)
	test.ExpectEquality(t, rec.lines[479][0]&specification.ColorMask, 0x3f)
	test.ExpectEquality(t, m.Frame(), 1)

	m.EndRendering()
	test.ExpectSuccess(t, rec.ended)
}

func TestStartErrors(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Step()
	test.ExpectSuccess(t, curated.Is(err, Fatal))

	err = m.Start(&dma.SteppedHardware{}, 1)
	test.ExpectSuccess(t, curated.Is(err, Fatal))
	test.ExpectEquality(t, m.Ring() == nil, true)

	err = m.Start(nil, 4)
	test.ExpectSuccess(t, curated.Is(err, Fatal))
}

func TestFillAhead(t *testing.T) {
	m := newTestManager(t)
	rec := &recorder{}
	test.DemandSuccess(t, m.AddRenderer(rec))

	hw := &dma.SteppedHardware{}
	test.DemandSuccess(t, m.Start(hw, 4))

	// the pool is filled before the hardware starts
	test.ExpectEquality(t, len(rec.lines), 4)
	test.ExpectEquality(t, m.Frame(), 1)

	n, err := m.Step()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, n, 0)

	// the hardware has finished with line zero so its buffer can be reused
	hw.Step(1)
	n, err = m.Step()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, n, 1)
	test.ExpectEquality(t, len(rec.lines), 5)
	test.ExpectEquality(t, m.Underruns(), 0)

	// the hardware overtakes the software
	hw.Step(99)
	n, err = m.Step()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, n, 4)
	test.ExpectEquality(t, m.Underruns(), 1)
}

func TestFrameWithoutUnderruns(t *testing.T) {
	for _, mode := range []int{0, 2} {
		spec, err := specification.GetMode(mode)
		test.DemandSuccess(t, err)
		m := NewManager(spec)

		rec := &recorder{}
		test.DemandSuccess(t, m.AddRenderer(rec))

		var drains int
		m.SetCommandSource(drainFunc(func(budget int) {
			test.ExpectEquality(t, budget, m.DrainBudget)
			if drains == 0 {
				test.ExpectSuccess(t, m.Create(rect(1, 0, 0, 16, 16, 0x30), 0))
			}
			drains++
		}))

		hw := &dma.SteppedHardware{}
		test.DemandSuccess(t, m.Start(hw, 4))

		ringLen := m.Ring().Len()
		for range ringLen {
			hw.Step(1)
			_, err := m.Step()
			test.DemandSuccess(t, err)
		}

		test.ExpectEquality(t, m.Underruns(), 0, mode)
		test.ExpectEquality(t, m.Frame(), 2, mode)
		test.ExpectEquality(t, drains, ringLen-spec.ActiveLines*int(m.repeat()), mode)
		test.ExpectEquality(t, rec.frames, 2, mode)
		test.ExpectEquality(t, rec.ends, 1, mode)

		// the primitive created during the vertical blank is in the lines
		// painted ahead for the next frame
		test.ExpectEquality(t, m.Ring().ActivePixels(0)[0]&specification.ColorMask, 0x30, mode)
		test.ExpectEquality(t, rec.lines[0][15]&specification.ColorMask, 0x30, mode)
		test.ExpectEquality(t, rec.lines[0][16]&specification.ColorMask, 0x00, mode)
	}
}

func TestRun(t *testing.T) {
	m := newTestManager(t)
	hw := &dma.SteppedHardware{}
	test.DemandSuccess(t, m.Start(hw, 4))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := m.Run(ctx)
	test.ExpectEquality(t, err, context.DeadlineExceeded)
	test.ExpectEquality(t, m.Underruns(), 0)
}
