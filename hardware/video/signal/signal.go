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

// Package signal describes the pixel data sent to the video hardware and
// exposes the interface between the VDP and anything that wants to see the
// transmitted picture.
//
// A pixel byte has the layout VHBBGGRR. The low six bits are the colour and the
// top two bits are the vertical and horizontal sync signals. Pixel data held
// by bitmaps reuses the top two bits as an opacity level.
package signal

import (
	"github.com/jetsetilly/otfvdp/curated"
	"github.com/jetsetilly/otfvdp/hardware/video/specification"
)

// InvalidOpaqueness is returned by ParseOpaqueness() for unsupported values.
const InvalidOpaqueness = "opaqueness: %d%% is not supported"

// Opaqueness is the blend level used when painting a pixel over existing
// content.
type Opaqueness int

// List of valid Opaqueness values. The value is the weight of the new pixel in
// quarters.
const (
	Opaque25  Opaqueness = 1
	Opaque50  Opaqueness = 2
	Opaque75  Opaqueness = 3
	Opaque100 Opaqueness = 4
)

// Percent returns the opaqueness as a percentage.
func (o Opaqueness) Percent() int {
	return int(o) * 25
}

// ParseOpaqueness converts a percentage to an Opaqueness value. Only the
// percentages 25, 50, 75 and 100 are valid.
func ParseOpaqueness(percent int) (Opaqueness, error) {
	switch percent {
	case 25:
		return Opaque25, nil
	case 50:
		return Opaque50, nil
	case 75:
		return Opaque75, nil
	case 100:
		return Opaque100, nil
	}
	return 0, curated.Errorf(InvalidOpaqueness, percent)
}

// AlphaLevel converts the opacity bits of a bitmap pixel into an Opaqueness
// value. An alpha of zero is 25%, three is 100%.
func AlphaLevel(pixel byte) Opaqueness {
	return Opaqueness(pixel>>6) + 1
}

// WithAlpha sets the opacity bits of a bitmap pixel.
func WithAlpha(col byte, o Opaqueness) byte {
	return (col & specification.ColorMask) | byte(o-1)<<6
}

// blend table indexed by level, source colour and destination colour
var blendTable [5][64][64]byte

func init() {
	for level := Opaque25; level <= Opaque100; level++ {
		for src := range 64 {
			for dst := range 64 {
				var v byte
				for shift := 0; shift < 6; shift += 2 {
					s := (src >> shift) & 0x03
					d := (dst >> shift) & 0x03
					c := (s*int(level) + d*(4-int(level)) + 2) / 4
					v |= byte(c) << shift
				}
				blendTable[level][src][dst] = v
			}
		}
	}
}

// Blend mixes the colour bits of src into dst with the given opaqueness. The
// sync bits of dst are preserved. The opaqueness must be one of the four
// valid levels.
func Blend(dst, src byte, level Opaqueness) byte {
	return blendTable[level][src&specification.ColorMask][dst&specification.ColorMask] | (dst & specification.SyncMask)
}
