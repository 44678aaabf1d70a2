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

package signal_test

import (
	"testing"

	"github.com/jetsetilly/otfvdp/curated"
	"github.com/jetsetilly/otfvdp/hardware/video/signal"
	"github.com/jetsetilly/otfvdp/test"
)

func TestParseOpaqueness(t *testing.T) {
	for _, p := range []int{25, 50, 75, 100} {
		o, err := signal.ParseOpaqueness(p)
		test.ExpectSuccess(t, err)
		test.ExpectEquality(t, o.Percent(), p)
	}

	for _, p := range []int{0, 10, 33, 101, -25} {
		_, err := signal.ParseOpaqueness(p)
		test.ExpectSuccess(t, curated.Is(err, signal.InvalidOpaqueness), p)
	}
}

func TestAlpha(t *testing.T) {
	test.ExpectEquality(t, signal.AlphaLevel(0x00), signal.Opaque25)
	test.ExpectEquality(t, signal.AlphaLevel(0x40), signal.Opaque50)
	test.ExpectEquality(t, signal.AlphaLevel(0x80), signal.Opaque75)
	test.ExpectEquality(t, signal.AlphaLevel(0xc0), signal.Opaque100)
	test.ExpectEquality(t, signal.WithAlpha(0x3f, signal.Opaque50), byte(0x7f))
	test.ExpectEquality(t, signal.AlphaLevel(signal.WithAlpha(0x15, signal.Opaque75)), signal.Opaque75)
}

func TestBlend(t *testing.T) {
	// fully opaque replaces the colour but keeps the sync bits of the
	// destination
	test.ExpectEquality(t, signal.Blend(0xc0, 0x3f, signal.Opaque100), byte(0xff))
	test.ExpectEquality(t, signal.Blend(0xc0|0x15, 0x2a, signal.Opaque100), byte(0xc0|0x2a))

	// 50% of full red over black
	test.ExpectEquality(t, signal.Blend(0x00, 0x03, signal.Opaque50), byte(0x02))

	// 25% of full white over black rounds to one in each channel
	test.ExpectEquality(t, signal.Blend(0x00, 0x3f, signal.Opaque25), byte(0x15))

	// 75% of black over white
	test.ExpectEquality(t, signal.Blend(0x3f, 0x00, signal.Opaque75), byte(0x15))

	// opacity bits in the source are ignored
	test.ExpectEquality(t, signal.Blend(0x00, 0xc3, signal.Opaque100), byte(0x03))
}
