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

package codegen

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/jetsetilly/otfvdp/hardware/video/signal"
)

// Context is the state a routine is executed with.
type Context struct {
	// the active pixels of the scan line being painted
	Dst []byte

	// the source row for copy operations
	Src []byte

	// absolute x position of the primitive's left edge
	X int

	// scan line being painted and the absolute top of the primitive. the
	// difference between the two (plus the slice) indexes the jump table
	Line  int
	Top   int
	Slice int
}

// Routine is a finalised paint routine.
type Routine struct {
	phase int
	code  []instruction
	calls int
}

// Phase returns the alignment phase the routine was built for.
func (r *Routine) Phase() int {
	return r.phase
}

// Len returns the number of instructions in the routine.
func (r *Routine) Len() int {
	return len(r.code)
}

// Calls returns the number of helper calls in the routine.
func (r *Routine) Calls() int {
	return r.calls
}

func (r *Routine) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("phase %d\n", r.phase))
	for pc, ins := range r.code {
		s.WriteString(fmt.Sprintf("%04d %s\n", pc, ins))
	}
	return s.String()
}

// Run executes the routine. Every pixel painted by the routine must be inside
// the Dst slice.
func (r *Routine) Run(ctx *Context) {
	r.exec(ctx, 0, len(ctx.Dst), false)
}

// RunClipped executes the routine but only pixels in the range lo to hi
// (exclusive) of the Dst slice are painted.
func (r *Routine) RunClipped(ctx *Context, lo int, hi int) {
	lo = max(lo, 0)
	hi = min(hi, len(ctx.Dst))
	if lo >= hi {
		return
	}
	r.exec(ctx, lo, hi, true)
}

func (r *Routine) exec(ctx *Context, lo int, hi int, clipped bool) {
	base := ctx.X - r.phase
	dst := ctx.Dst

	pc := 0
	for pc < len(r.code) {
		ins := &r.code[pc]

		switch ins.op {
		case opRet:
			return

		case opTable:
			idx := ctx.Line - ctx.Top + ctx.Slice
			if idx < 0 || idx >= int(ins.n) {
				return
			}
			t := r.code[pc+1+idx].n
			if t < 0 {
				return
			}
			pc = int(t)
			continue

		case opEntry:
			// entries are only reached through the table

		case opCall:
			p := base + int(ins.at)
			n := int(ins.n) * 4
			if clipped && (p < lo || p+n > hi) {
				clip(ctx, ins, p, n, lo, hi)
				break
			}
			h, ok := helperAt(ins.addr)
			if !ok {
				panic(fmt.Sprintf("codegen: call to bad address %08x", ins.addr))
			}
			switch h {
			case HelperFill:
				fillWords(dst, p, int(ins.n), ins.val)
			case HelperCopy:
				copyWords(dst, p, int(ins.n), ctx.Src, int(ins.src))
			case HelperBlend:
				blendWords(dst, p, int(ins.n), ins.val, ins.level)
			}

		default:
			p := base + int(ins.at)
			n := ins.op.size()
			if clipped && (p < lo || p+n > hi) {
				clip(ctx, ins, p, n, lo, hi)
				break
			}
			switch ins.op {
			case opStore8:
				dst[p] = byte(ins.val)
			case opStore16:
				binary.LittleEndian.PutUint16(dst[p:], uint16(ins.val))
			case opStore32:
				binary.LittleEndian.PutUint32(dst[p:], ins.val)
			case opCopy8:
				dst[p] = ctx.Src[ins.src]
			case opCopy16, opCopy32:
				copy(dst[p:p+n], ctx.Src[ins.src:int(ins.src)+n])
			case opBlend8:
				dst[p] = signal.Blend(dst[p], byte(ins.val), ins.level)
			case opBlend32:
				for i := p; i < p+4; i++ {
					dst[i] = signal.Blend(dst[i], byte(ins.val), ins.level)
				}
			}
		}

		pc++
	}
}

// paint the part of an operation that is inside the clipping range one pixel
// at a time
func clip(ctx *Context, ins *instruction, p int, n int, lo int, hi int) {
	for i := max(p, lo); i < min(p+n, hi); i++ {
		switch ins.op {
		case opStore8, opStore16, opStore32:
			ctx.Dst[i] = byte(ins.val)
		case opCopy8, opCopy16, opCopy32:
			ctx.Dst[i] = ctx.Src[int(ins.src)+i-p]
		case opBlend8, opBlend32:
			ctx.Dst[i] = signal.Blend(ctx.Dst[i], byte(ins.val), ins.level)
		case opCall:
			h, _ := helperAt(ins.addr)
			switch h {
			case HelperFill:
				ctx.Dst[i] = byte(ins.val)
			case HelperCopy:
				ctx.Dst[i] = ctx.Src[int(ins.src)+i-p]
			case HelperBlend:
				ctx.Dst[i] = signal.Blend(ctx.Dst[i], byte(ins.val), ins.level)
			}
		}
	}
}
