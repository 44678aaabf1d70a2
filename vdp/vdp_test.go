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

package vdp_test

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/jetsetilly/otfvdp/hardware/video/dma"
	"github.com/jetsetilly/otfvdp/hardware/video/specification"
	"github.com/jetsetilly/otfvdp/otf/primitive"
	"github.com/jetsetilly/otfvdp/test"
	"github.com/jetsetilly/otfvdp/vdp"
)

type recorder struct {
	specs  []specification.Spec
	frames int
	lines  map[int][]byte
}

func (r *recorder) Resize(spec specification.Spec) error {
	r.specs = append(r.specs, spec)
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
	return nil
}

func (r *recorder) EndRendering() error {
	return nil
}

type responder struct {
	packets [][]byte
}

func (r *responder) Respond(packet []byte) {
	r.packets = append(r.packets, slices.Clone(packet))
}

// hardware that moves on by one scan line every time its position is polled
type pollingHardware struct {
	position int64
}

func (hw *pollingHardware) Start(_ int) error {
	hw.position = 0
	return nil
}

func (hw *pollingHardware) Position() int64 {
	hw.position++
	return hw.position / 2
}

func terminal(t *testing.T, v *vdp.VDP) *primitive.TextArea {
	t.Helper()
	p, ok := v.Scene().Lookup(1)
	test.DemandSuccess(t, ok)
	ta, ok := p.(*primitive.TextArea)
	test.DemandSuccess(t, ok)
	return ta
}

func TestNewVDP(t *testing.T) {
	rec := &recorder{}
	v, err := vdp.NewVDP(0, rec, nil)
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, v.Mode(), 0)
	test.ExpectEquality(t, len(rec.specs), 1)
	test.ExpectEquality(t, v.Scene().Count(), 1)

	cols, rows := terminal(t, v).Grid()
	test.ExpectEquality(t, cols, 80)
	test.ExpectEquality(t, rows, 30)

	// an unusable mode falls back to the default mode
	v, err = vdp.NewVDP(99, nil, nil)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, v.Mode(), specification.DefaultMode)
}

func TestSetMode(t *testing.T) {
	rec := &recorder{}
	v, err := vdp.NewVDP(0, rec, nil)
	test.DemandSuccess(t, err)

	test.ExpectSuccess(t, v.SetMode(2))
	test.ExpectEquality(t, v.Mode(), 2)
	test.ExpectEquality(t, len(rec.specs), 2)
	test.ExpectEquality(t, rec.specs[1].ActiveWidth, 320)

	cols, rows := terminal(t, v).Grid()
	test.ExpectEquality(t, cols, 40)
	test.ExpectEquality(t, rows, 15)

	// the previous mode is kept
	test.ExpectFailure(t, v.SetMode(99))
	test.ExpectEquality(t, v.Mode(), 2)
	test.ExpectEquality(t, v.Scene().Spec().ActiveWidth, 320)
}

func TestRenderFrames(t *testing.T) {
	rec := &recorder{}
	resp := &responder{}
	v, err := vdp.NewVDP(0, rec, resp)
	test.DemandSuccess(t, err)

	_, err = v.Write([]byte("hello"))
	test.DemandSuccess(t, err)
	_, err = v.Write([]byte{23, 0, 0x82})
	test.DemandSuccess(t, err)

	v.RenderFrames(2)
	test.ExpectEquality(t, rec.frames, 2)
	test.ExpectEquality(t, terminal(t, v).CharAt(4, 0), 'o')

	test.DemandEquality(t, len(resp.packets), 1)
	test.ExpectEquality(t, string(resp.packets[0]), string([]byte{0x82, 2, 5, 0}))

	// the top left pixel of the 'h' glyph is background and somewhere in the
	// glyph is foreground
	var lit bool
	for y := range primitive.GlyphHeight {
		for _, p := range rec.lines[y][:primitive.GlyphWidth] {
			lit = lit || p&specification.ColorMask == 0x3f
		}
	}
	test.ExpectSuccess(t, lit)
}

func TestRunWithModeChange(t *testing.T) {
	rec := &recorder{}
	v, err := vdp.NewVDP(0, rec, nil)
	test.DemandSuccess(t, err)

	var started int
	v.PoolSize = 4
	v.Hardware = func(_ specification.Spec) dma.Hardware {
		started++
		return &pollingHardware{}
	}

	_, err = v.Write([]byte{22, 2, 'A'})
	test.DemandSuccess(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err = v.Run(ctx)
	test.ExpectEquality(t, err, context.DeadlineExceeded)

	test.ExpectEquality(t, v.Mode(), 2)
	test.ExpectEquality(t, started, 2)
	test.ExpectEquality(t, terminal(t, v).CharAt(0, 0), 'A')
	test.ExpectInequality(t, rec.frames, 0)
}
