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

package codegen_test

import (
	"fmt"
	"testing"

	"github.com/jetsetilly/otfvdp/curated"
	"github.com/jetsetilly/otfvdp/hardware/video/signal"
	"github.com/jetsetilly/otfvdp/otf/codegen"
	"github.com/jetsetilly/otfvdp/test"
)

const background = 0xaa

func newLine(n int) []byte {
	l := make([]byte, n)
	for i := range l {
		l[i] = background
	}
	return l
}

func TestSetRunPhases(t *testing.T) {
	const col = 0x15

	for phase := range 4 {
		for x := range 6 {
			for width := range 48 {
				tag := fmt.Sprintf("phase %d x %d width %d", phase, x, width)

				a := codegen.NewAssembler(phase)
				a.SetRun(x, width, col)
				r, err := a.Finalize()
				test.DemandSuccess(t, err, tag)

				dst := newLine(80)
				ctx := &codegen.Context{Dst: dst, X: 8 + phase}
				r.Run(ctx)

				for i, p := range dst {
					painted := i >= 8+phase+x && i < 8+phase+x+width
					if painted {
						if !test.ExpectEquality(t, p, byte(col), tag, i) {
							break
						}
					} else {
						if !test.ExpectEquality(t, p, byte(background), tag, i) {
							break
						}
					}
				}
			}
		}
	}
}

func TestWidthSelection(t *testing.T) {
	// a single aligned word is a single store
	a := codegen.NewAssembler(0)
	a.SetRun(0, 4, 0x01)
	r, err := a.Finalize()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, r.Len(), 2)

	// three pixels at offset one are covered by an 8bit and a 16bit store
	a = codegen.NewAssembler(1)
	a.SetRun(0, 3, 0x01)
	r, err = a.Finalize()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, r.Len(), 3)

	// long runs use a helper
	a = codegen.NewAssembler(0)
	a.SetRun(0, 64, 0x01)
	r, err = a.Finalize()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, r.Calls(), 1)
	test.ExpectEquality(t, r.Len(), 2)

	// zero width runs emit nothing
	a = codegen.NewAssembler(2)
	a.SetRun(10, 0, 0x01)
	a.CopyRun(10, 0, 0)
	r, err = a.Finalize()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, r.Len(), 1)
}

func TestCopyRun(t *testing.T) {
	src := make([]byte, 64)
	for i := range src {
		src[i] = byte(i)
	}

	for phase := range 4 {
		for width := 1; width < 50; width++ {
			tag := fmt.Sprintf("phase %d width %d", phase, width)

			a := codegen.NewAssembler(phase)
			a.CopyRun(2, width, 5)
			r, err := a.Finalize()
			test.DemandSuccess(t, err, tag)

			dst := newLine(80)
			r.Run(&codegen.Context{Dst: dst, Src: src, X: 4 + phase})

			for i := range width {
				if !test.ExpectEquality(t, dst[4+phase+2+i], byte(5+i), tag) {
					break
				}
			}
			test.ExpectEquality(t, dst[4+phase+1], byte(background), tag)
			test.ExpectEquality(t, dst[4+phase+2+width], byte(background), tag)
		}
	}
}

func TestBlendRun(t *testing.T) {
	for _, width := range []int{1, 3, 4, 7, 40} {
		a := codegen.NewAssembler(1)
		a.BlendRun(0, width, 0x3f, signal.Opaque50)
		r, err := a.Finalize()
		test.DemandSuccess(t, err)

		dst := make([]byte, 64)
		r.Run(&codegen.Context{Dst: dst, X: 1})
		for i := 1; i < 1+width; i++ {
			test.ExpectEquality(t, dst[i], byte(0x2a), width)
		}
		test.ExpectEquality(t, dst[1+width], byte(0x00), width)
	}

	a := codegen.NewAssembler(0)
	a.BlendRun(0, 4, 0x3f, signal.Opaqueness(7))
	_, err := a.Finalize()
	test.ExpectSuccess(t, curated.Is(err, signal.InvalidOpaqueness))
}

func TestBitmapPixels(t *testing.T) {
	a := codegen.NewAssembler(0)
	a.MaskedPixel(0, 0x03, 0x00)
	a.MaskedPixel(1, 0x00, 0x00)
	a.BlendPixel(2, signal.WithAlpha(0x3f, signal.Opaque25), 0x00)
	r, err := a.Finalize()
	test.DemandSuccess(t, err)

	dst := make([]byte, 4)
	dst[1] = 0x0c
	r.Run(&codegen.Context{Dst: dst})
	test.ExpectEquality(t, dst[0], byte(0x03))
	test.ExpectEquality(t, dst[1], byte(0x0c))
	test.ExpectEquality(t, dst[2], byte(0x15))
}

func TestJumpTable(t *testing.T) {
	a := codegen.NewAssembler(0)
	a.BeginLineTable(4)
	a.BeginLine(0)
	a.SetRun(0, 2, 0x01)
	a.Return()
	a.BeginLine(1)
	a.SetRun(2, 2, 0x02)
	a.Return()
	a.ShareLine(3, 0)
	r, err := a.Finalize()
	test.DemandSuccess(t, err)

	paint := func(line int, slice int) []byte {
		dst := newLine(8)
		r.Run(&codegen.Context{Dst: dst, Line: line, Top: 10, Slice: slice})
		return dst
	}

	test.ExpectEquality(t, string(paint(10, 0)), string([]byte{1, 1, background, background, background, background, background, background}))
	test.ExpectEquality(t, string(paint(11, 0)), string([]byte{background, background, 2, 2, background, background, background, background}))
	test.ExpectEquality(t, string(paint(13, 0)), string(paint(10, 0)))

	// lines without an entry and lines outside of the table paint nothing
	test.ExpectEquality(t, string(paint(12, 0)), string(newLine(8)))
	test.ExpectEquality(t, string(paint(9, 0)), string(newLine(8)))
	test.ExpectEquality(t, string(paint(14, 0)), string(newLine(8)))

	// the slice moves the index into the table
	test.ExpectEquality(t, string(paint(10, 1)), string(paint(11, 0)))
}

func TestTableErrors(t *testing.T) {
	a := codegen.NewAssembler(0)
	a.SetRun(0, 1, 0x01)
	a.BeginLineTable(2)
	_, err := a.Finalize()
	test.ExpectSuccess(t, curated.Is(err, codegen.InvalidTable))

	a = codegen.NewAssembler(0)
	a.BeginLineTable(2)
	a.BeginLine(2)
	_, err = a.Finalize()
	test.ExpectSuccess(t, curated.Is(err, codegen.InvalidTable))

	a = codegen.NewAssembler(4)
	_, err = a.Finalize()
	test.ExpectSuccess(t, curated.Is(err, codegen.InvalidPhase))
}

func TestRunClipped(t *testing.T) {
	src := make([]byte, 64)
	for i := range src {
		src[i] = byte(i)
	}

	for _, width := range []int{3, 20, 60} {
		a := codegen.NewAssembler(2)
		a.SetRun(0, width, 0x01)
		r, err := a.Finalize()
		test.DemandSuccess(t, err)

		// primitive starts off the left of the line
		dst := newLine(16)
		r.RunClipped(&codegen.Context{Dst: dst, X: -2}, 0, 16)
		for i := range dst {
			if i < width-2 {
				test.ExpectEquality(t, dst[i], byte(0x01), width, i)
			} else {
				test.ExpectEquality(t, dst[i], byte(background), width, i)
			}
		}

		// clipping range inside the line
		dst = newLine(16)
		r.RunClipped(&codegen.Context{Dst: dst, X: 2}, 3, 5)
		for i := range dst {
			if i >= 3 && i < min(5, 2+width) {
				test.ExpectEquality(t, dst[i], byte(0x01), width, i)
			} else {
				test.ExpectEquality(t, dst[i], byte(background), width, i)
			}
		}
	}

	a := codegen.NewAssembler(0)
	a.CopyRun(0, 40, 10)
	r, err := a.Finalize()
	test.DemandSuccess(t, err)

	dst := newLine(16)
	r.RunClipped(&codegen.Context{Dst: dst, Src: src, X: 8}, 0, 16)
	for i := range 8 {
		test.ExpectEquality(t, dst[i], byte(background))
		test.ExpectEquality(t, dst[8+i], byte(10+i))
	}
}

func TestHelperAddresses(t *testing.T) {
	test.ExpectEquality(t, codegen.HelperFill.Address(), uint32(codegen.HelperOrigin))
	test.ExpectEquality(t, codegen.HelperCopy.Address(), uint32(codegen.HelperOrigin+codegen.HelperStride))
	test.ExpectEquality(t, codegen.Helper(99).Address(), uint32(0))
}
