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
	"fmt"

	"github.com/jetsetilly/otfvdp/hardware/video/signal"
)

type opcode uint8

// list of valid opcodes.
const (
	opStore8 opcode = iota
	opStore16
	opStore32
	opCopy8
	opCopy16
	opCopy32
	opBlend8
	opBlend32
	opCall
	opTable
	opEntry
	opRet
)

var opcodeNames = [...]string{
	opStore8:  "st8",
	opStore16: "st16",
	opStore32: "st32",
	opCopy8:   "cp8",
	opCopy16:  "cp16",
	opCopy32:  "cp32",
	opBlend8:  "bl8",
	opBlend32: "bl32",
	opCall:    "call",
	opTable:   "table",
	opEntry:   "entry",
	opRet:     "ret",
}

func (op opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return "???"
}

// the number of bytes written by the store, copy and blend opcodes.
func (op opcode) size() int {
	switch op {
	case opStore8, opCopy8, opBlend8:
		return 1
	case opStore16, opCopy16:
		return 2
	case opStore32, opCopy32, opBlend32:
		return 4
	}
	return 0
}

// instruction is one operation in a compiled routine.
type instruction struct {
	op opcode

	// byte offset from the word aligned base of the routine
	at int32

	// number of words for helper calls. count of entries for opTable and
	// the target program counter for opEntry
	n int32

	// source offset for copies
	src int32

	// literal pixels. replicated into every byte for 16 and 32 bit stores
	val uint32

	// opaqueness for blends
	level signal.Opaqueness

	// absolute address of the helper for opCall. zero until fixed up
	addr uint32
}

func (ins instruction) String() string {
	switch ins.op {
	case opStore8, opStore16, opStore32:
		return fmt.Sprintf("%s [%d], #%08x", ins.op, ins.at, ins.val)
	case opCopy8, opCopy16, opCopy32:
		return fmt.Sprintf("%s [%d], src[%d]", ins.op, ins.at, ins.src)
	case opBlend8, opBlend32:
		return fmt.Sprintf("%s [%d], #%02x, %d%%", ins.op, ins.at, ins.val&0xff, ins.level.Percent())
	case opCall:
		return fmt.Sprintf("%s %08x ([%d] x%d)", ins.op, ins.addr, ins.at, ins.n)
	case opTable:
		return fmt.Sprintf("%s %d", ins.op, ins.n)
	case opEntry:
		if ins.n < 0 {
			return fmt.Sprintf("%s none", ins.op)
		}
		return fmt.Sprintf("%s %d", ins.op, ins.n)
	}
	return ins.op.String()
}

// access is one memory access of a short run.
type access struct {
	size int
	at   int
}

// the minimal sequence of accesses for runs shorter than a word, indexed by
// offset within the word and by width. runs that would cross the word
// boundary are nil and are handled by the general head/body/tail split.
var shortRuns = [4][4][]access{
	0: {
		1: {{1, 0}},
		2: {{2, 0}},
		3: {{2, 0}, {1, 2}},
	},
	1: {
		1: {{1, 1}},
		2: {{1, 1}, {1, 2}},
		3: {{1, 1}, {2, 2}},
	},
	2: {
		1: {{1, 2}},
		2: {{2, 2}},
	},
	3: {
		1: {{1, 3}},
	},
}
