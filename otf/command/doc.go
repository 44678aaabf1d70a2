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

// Package command decodes the byte stream sent by the host into calls to the
// scene manager and the active text area.
//
// The stream is a sequence of records. The first byte of a record selects its
// shape. Bytes are accumulated until the whole record is present and the
// record is then dispatched. A truncated record waits for more bytes with no
// timeout. Invalid records are logged and otherwise ignored.
//
// Terminal records:
//
//	8           cursor left
//	9           cursor right
//	10          cursor down
//	11          cursor up
//	12          clear text area
//	13          cursor to start of row
//	17 c        text colour. bit 7 selects the background colour
//	22 n        video mode
//	30          cursor home
//	31 x y      move cursor to column and row
//	127         backspace
//
// Bytes 18, 19, 25, 28 and 29 are followed by 2, 5, 5, 4 and 4 bytes. These
// records are consumed and discarded. Other control bytes are ignored. Every
// other byte is written to the active text area as a character.
//
// System requests begin with 23, 0. Scene commands begin with 23, 30. Every
// other record beginning with 23 is ten bytes long and is discarded. The
// scene commands are listed in scene.go.
//
// All 16bit values are little-endian.
package command
