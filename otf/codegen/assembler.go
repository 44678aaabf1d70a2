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

// Package codegen assembles the paint routines of primitives. A routine is a
// compact stream of width specialised operations that paint, copy or blend
// runs of pixels into a scan line. The operations are chosen when the
// routine is built, according to the alignment phase of the primitive's left
// edge, so that painting a scan line does no decision making beyond
// dispatching each operation.
//
// Long runs are painted by calls to pre-built helpers. Helper calls are
// emitted with a placeholder address and fixed up in one pass when the
// routine is finalised.
//
// Content that differs from line to line is dispatched through a jump table
// that is indexed by the scan line relative to the top of the primitive.
package codegen

import (
	"fmt"

	"github.com/jetsetilly/otfvdp/curated"
	"github.com/jetsetilly/otfvdp/hardware/video/signal"
)

// Sentinal error patterns.
const (
	UnresolvedFixup = "codegen: unresolved fixup: %v"
	InvalidTable    = "codegen: jump table: %v"
	InvalidPhase    = "codegen: alignment phase %d is not valid"
)

// the number of words above which a run is painted by a helper call rather
// than by a sequence of word stores.
const loopThreshold = 8

// fixup records a helper call that needs the helper's absolute address.
type fixup struct {
	pc     int
	helper Helper
}

// Assembler builds one compiled routine. Pixel positions passed to the
// assembler are relative to the left edge of the primitive.
type Assembler struct {
	phase  int
	code   []instruction
	fixups []fixup

	// program counter of the opTable instruction. -1 if there is no table
	table int

	// errors are deferred until Finalize()
	err error
}

// NewAssembler is the preferred method of initialisation for the Assembler
// type. The phase is the offset of the primitive's left edge within a 32bit
// word and must be in the range 0 to 3.
func NewAssembler(phase int) *Assembler {
	a := &Assembler{
		phase: phase,
		table: -1,
	}
	if phase < 0 || phase > 3 {
		a.err = curated.Errorf(InvalidPhase, phase)
	}
	return a
}

func replicate(b byte) uint32 {
	v := uint32(b)
	return v | v<<8 | v<<16 | v<<24
}

func (a *Assembler) emit(ins instruction) {
	a.code = append(a.code, ins)
}

func (a *Assembler) call(h Helper, ins instruction) {
	ins.op = opCall
	a.fixups = append(a.fixups, fixup{pc: len(a.code), helper: h})
	a.emit(ins)
}

// split a run into the accesses that cover it. the run starts at byte offset
// at from the word aligned base. the body function is called for the aligned
// middle of the run with a number of whole words
func (a *Assembler) split(at int, width int, part func(size int, at int), body func(at int, words int)) {
	if width <= 0 {
		return
	}

	o := at & 3
	if o+width <= 4 && width < 4 {
		for _, acc := range shortRuns[o][width] {
			part(acc.size, at-o+acc.at)
		}
		return
	}

	// head
	for at&3 != 0 && width > 0 {
		if at&1 == 0 && width >= 2 {
			part(2, at)
			at += 2
			width -= 2
		} else {
			part(1, at)
			at++
			width--
		}
	}

	// body
	if words := width / 4; words > 0 {
		body(at, words)
		at += words * 4
		width -= words * 4
	}

	// tail
	if width >= 2 {
		part(2, at)
		at += 2
		width -= 2
	}
	if width > 0 {
		part(1, at)
	}
}

// SetRun paints width pixels of a literal colour starting at x. The colour
// should already include the sync bits of the scan line.
func (a *Assembler) SetRun(x int, width int, col byte) {
	val := replicate(col)
	a.split(a.phase+x, width,
		func(size int, at int) {
			op := opStore8
			if size == 2 {
				op = opStore16
			}
			a.emit(instruction{op: op, at: int32(at), val: val})
		},
		func(at int, words int) {
			if words > loopThreshold {
				a.call(HelperFill, instruction{at: int32(at), n: int32(words), val: val})
				return
			}
			for i := range words {
				a.emit(instruction{op: opStore32, at: int32(at + i*4), val: val})
			}
		})
}

// CopyRun copies width pixels from the source row, starting at srcOffset in
// the source, to x.
func (a *Assembler) CopyRun(x int, width int, srcOffset int) {
	delta := srcOffset - (a.phase + x)
	a.split(a.phase+x, width,
		func(size int, at int) {
			op := opCopy8
			if size == 2 {
				op = opCopy16
			}
			a.emit(instruction{op: op, at: int32(at), src: int32(at + delta)})
		},
		func(at int, words int) {
			if words > loopThreshold {
				a.call(HelperCopy, instruction{at: int32(at), n: int32(words), src: int32(at + delta)})
				return
			}
			for i := range words {
				a.emit(instruction{op: opCopy32, at: int32(at + i*4), src: int32(at + i*4 + delta)})
			}
		})
}

// BlendRun blends width pixels of a literal colour into the scan line
// starting at x. A level of Opaque100 is the same as SetRun().
func (a *Assembler) BlendRun(x int, width int, col byte, level signal.Opaqueness) {
	if level < signal.Opaque25 || level > signal.Opaque100 {
		if a.err == nil {
			a.err = curated.Errorf(signal.InvalidOpaqueness, level.Percent())
		}
		return
	}
	if level == signal.Opaque100 {
		a.SetRun(x, width, col)
		return
	}

	val := replicate(col)
	a.split(a.phase+x, width,
		func(size int, at int) {
			for i := range size {
				a.emit(instruction{op: opBlend8, at: int32(at + i), val: val, level: level})
			}
		},
		func(at int, words int) {
			if words > loopThreshold {
				a.call(HelperBlend, instruction{at: int32(at), n: int32(words), val: val, level: level})
				return
			}
			for i := range words {
				a.emit(instruction{op: opBlend32, at: int32(at + i*4), val: val, level: level})
			}
		})
}

// MaskedPixel paints a single pixel unless its colour is the transparent key.
func (a *Assembler) MaskedPixel(x int, col byte, key byte) {
	if col == key {
		return
	}
	a.SetRun(x, 1, col)
}

// BlendPixel paints a single bitmap pixel, using the opacity bits of the
// pixel as the blend level. The opacity bits are replaced by the sync bits.
func (a *Assembler) BlendPixel(x int, pixel byte, syncs byte) {
	col := (pixel & 0x3f) | syncs
	a.BlendRun(x, 1, col, signal.AlphaLevel(pixel))
}

// BeginLineTable starts a jump table with an entry for each line. Lines
// without an entry paint nothing. There can be only one table in a routine
// and it must be started before any paint operations.
func (a *Assembler) BeginLineTable(lines int) {
	if a.table != -1 {
		a.setErr(curated.Errorf(InvalidTable, "table already started"))
		return
	}
	if len(a.code) > 0 {
		a.setErr(curated.Errorf(InvalidTable, "table must be the first instruction"))
		return
	}
	if lines <= 0 {
		a.setErr(curated.Errorf(InvalidTable, fmt.Sprintf("bad number of lines (%d)", lines)))
		return
	}
	a.table = len(a.code)
	a.emit(instruction{op: opTable, n: int32(lines)})
	for range lines {
		a.emit(instruction{op: opEntry, n: -1})
	}
}

func (a *Assembler) entry(line int) (int, bool) {
	if a.table == -1 {
		a.setErr(curated.Errorf(InvalidTable, "no table"))
		return 0, false
	}
	if line < 0 || line >= int(a.code[a.table].n) {
		a.setErr(curated.Errorf(InvalidTable, fmt.Sprintf("line %d out of range", line)))
		return 0, false
	}
	return a.table + 1 + line, true
}

// BeginLine sets the table entry for the line to the next instruction. The
// paint operations for the line should end with Return().
func (a *Assembler) BeginLine(line int) {
	if e, ok := a.entry(line); ok {
		a.code[e].n = int32(len(a.code))
	}
}

// ShareLine makes line use the same code as another line that has already
// been started.
func (a *Assembler) ShareLine(line int, other int) {
	e, ok := a.entry(line)
	if !ok {
		return
	}
	o, ok := a.entry(other)
	if !ok {
		return
	}
	a.code[e].n = a.code[o].n
}

// Return ends a sequence of paint operations.
func (a *Assembler) Return() {
	a.emit(instruction{op: opRet})
}

func (a *Assembler) setErr(err error) {
	if a.err == nil {
		a.err = err
	}
}

// Finalize resolves all helper calls and returns the finished routine. The
// assembler should not be used after Finalize() has been called.
func (a *Assembler) Finalize() (*Routine, error) {
	if a.err != nil {
		return nil, a.err
	}

	for _, f := range a.fixups {
		addr := f.helper.Address()
		if addr == 0 {
			return nil, curated.Errorf(UnresolvedFixup, fmt.Sprintf("%s at %d", f.helper, f.pc))
		}
		a.code[f.pc].addr = addr
	}

	if len(a.code) == 0 || a.code[len(a.code)-1].op != opRet {
		a.Return()
	}

	r := &Routine{
		phase: a.phase,
		code:  a.code,
		calls: len(a.fixups),
	}
	a.code = nil
	a.fixups = nil

	return r, nil
}
