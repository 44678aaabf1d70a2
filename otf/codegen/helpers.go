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
	"github.com/jetsetilly/otfvdp/hardware/video/signal"
)

// Helper identifies a pre-built span routine that compiled routines can call
// for long runs.
type Helper int

// List of valid Helper values.
const (
	HelperFill Helper = iota
	HelperCopy
	HelperBlend
	numHelpers
)

func (h Helper) String() string {
	switch h {
	case HelperFill:
		return "fill"
	case HelperCopy:
		return "copy"
	case HelperBlend:
		return "blend"
	}
	return "unknown helper"
}

// HelperOrigin is the absolute address of the first helper. Helpers are
// placed HelperStride bytes apart.
const (
	HelperOrigin = 0x40080000
	HelperStride = 0x40
)

// Address returns the absolute address of the helper. Returns zero for an
// unknown helper.
func (h Helper) Address() uint32 {
	if h < 0 || h >= numHelpers {
		return 0
	}
	return HelperOrigin + uint32(h)*HelperStride
}

// the helper at an absolute address.
func helperAt(addr uint32) (Helper, bool) {
	if addr < HelperOrigin || (addr-HelperOrigin)%HelperStride != 0 {
		return 0, false
	}
	h := Helper((addr - HelperOrigin) / HelperStride)
	return h, h < numHelpers
}

// the helper routines. each paints n words starting at dst[at]
func fillWords(dst []byte, at int, n int, val uint32) {
	b := byte(val)
	for i := at; i < at+n*4; i++ {
		dst[i] = b
	}
}

func copyWords(dst []byte, at int, n int, src []byte, s int) {
	copy(dst[at:at+n*4], src[s:s+n*4])
}

func blendWords(dst []byte, at int, n int, val uint32, level signal.Opaqueness) {
	b := byte(val)
	for i := at; i < at+n*4; i++ {
		dst[i] = signal.Blend(dst[i], b, level)
	}
}
