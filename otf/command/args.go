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

package command

import (
	"encoding/binary"
)

// args reads the fields of a record. the record is always long enough for
// the fields being read
type args struct {
	b []byte
	i int
}

func (a *args) u8() byte {
	v := a.b[a.i]
	a.i++
	return v
}

func (a *args) u16() int {
	v := binary.LittleEndian.Uint16(a.b[a.i:])
	a.i += 2
	return int(v)
}

func (a *args) s16() int {
	return int(int16(a.u16()))
}

func (a *args) u32() uint32 {
	v := binary.LittleEndian.Uint32(a.b[a.i:])
	a.i += 4
	return v
}

func (a *args) bytes(n int) []byte {
	v := a.b[a.i : a.i+n]
	a.i += n
	return v
}

// a signed 8.8 fixed point value
func (a *args) fixed() float64 {
	return float64(a.s16()) / 256
}
