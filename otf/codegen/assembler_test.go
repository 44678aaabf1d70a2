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
	"testing"

	"github.com/jetsetilly/otfvdp/curated"
	"github.com/jetsetilly/otfvdp/test"
)

func TestFixups(t *testing.T) {
	a := NewAssembler(0)
	a.SetRun(0, 64, 0x01)
	a.CopyRun(64, 64, 0)
	test.DemandEquality(t, len(a.fixups), 2)

	// calls are emitted with a placeholder address
	for _, f := range a.fixups {
		test.ExpectEquality(t, a.code[f.pc].addr, uint32(0))
	}

	r, err := a.Finalize()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, r.code[0].addr, HelperFill.Address())
	test.ExpectEquality(t, r.code[1].addr, HelperCopy.Address())
}

func TestUnresolvedFixup(t *testing.T) {
	a := NewAssembler(0)
	a.call(Helper(99), instruction{n: 10})
	_, err := a.Finalize()
	test.ExpectSuccess(t, curated.Is(err, UnresolvedFixup))
}

func TestShortRunTable(t *testing.T) {
	// every entry covers exactly the width of the run without crossing the
	// word boundary
	for o := range 4 {
		for w := 1; w < 4; w++ {
			seq := shortRuns[o][w]
			if o+w > 4 {
				test.ExpectEquality(t, len(seq), 0, o, w)
				continue
			}
			n := 0
			at := o
			for _, acc := range seq {
				test.ExpectEquality(t, acc.at, at, o, w)
				if acc.size == 2 {
					test.ExpectEquality(t, acc.at&1, 0, o, w)
				}
				n += acc.size
				at += acc.size
			}
			test.ExpectEquality(t, n, w, o, w)
		}
	}
}
