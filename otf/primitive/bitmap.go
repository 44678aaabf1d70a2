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

package primitive

import (
	"bytes"

	"github.com/jetsetilly/otfvdp/curated"
	"github.com/jetsetilly/otfvdp/hardware/video/signal"
	"github.com/jetsetilly/otfvdp/hardware/video/specification"
)

// Pixels is the storage for the pixels of a bitmap. The storage can be shared
// by more than one primitive. Pixel values use the bitmap format: six bits of
// colour and two bits of opacity.
type Pixels struct {
	width  int
	height int
	data   []byte

	// the pixels converted for copying directly to a scan line
	line      []byte
	lineSyncs byte
	lineValid bool

	// incremented on every change of content
	version int
}

// NewPixels is the preferred method of initialisation for the Pixels type.
func NewPixels(width int, height int) (*Pixels, error) {
	if width <= 0 || height <= 0 {
		return nil, curated.Errorf(InvalidSize, width, height)
	}
	return &Pixels{
		width:  width,
		height: height,
		data:   make([]byte, width*height),
	}, nil
}

// Size returns the dimensions of the pixel storage.
func (px *Pixels) Size() (int, int) {
	return px.width, px.height
}

// Version returns a number that changes every time the content changes.
func (px *Pixels) Version() int {
	return px.version
}

func (px *Pixels) changed() {
	px.version++
	px.lineValid = false
}

// Get returns the pixel at the coordinates. Returns zero for coordinates
// outside of the storage.
func (px *Pixels) Get(x int, y int) byte {
	if x < 0 || y < 0 || x >= px.width || y >= px.height {
		return 0
	}
	return px.data[y*px.width+x]
}

// Set changes the pixel at the coordinates. Coordinates outside of the
// storage are ignored.
func (px *Pixels) Set(x int, y int, v byte) {
	if x < 0 || y < 0 || x >= px.width || y >= px.height {
		return
	}
	px.data[y*px.width+x] = v
	px.changed()
}

// Fill sets every pixel to the value.
func (px *Pixels) Fill(v byte) {
	for i := range px.data {
		px.data[i] = v
	}
	px.changed()
}

// Write copies data into the storage starting at the pixel offset. Data that
// does not fit is ignored. Returns the number of pixels written.
func (px *Pixels) Write(offset int, data []byte) int {
	if offset < 0 || offset >= len(px.data) {
		return 0
	}
	n := copy(px.data[offset:], data)
	px.changed()
	return n
}

// Row returns the pixels of one row. The returned slice should not be
// altered.
func (px *Pixels) Row(y int) []byte {
	return px.data[y*px.width : (y+1)*px.width]
}

// LineRow returns one row of pixels in the scan line format. The opacity bits
// are replaced by the sync bits.
func (px *Pixels) LineRow(y int, syncs byte) []byte {
	if !px.lineValid || px.lineSyncs != syncs {
		if px.line == nil {
			px.line = make([]byte, len(px.data))
		}
		for i, v := range px.data {
			px.line[i] = (v & specification.ColorMask) | syncs
		}
		px.lineSyncs = syncs
		px.lineValid = true
	}
	return px.line[y*px.width : (y+1)*px.width]
}

// emit the runs for one row of a masked or blended bitmap. runs of identical
// pixels become a single run
func emitBitmapRow(e *emitter, row []byte, masked bool, blended bool, key byte) {
	x := 0
	for x < len(row) {
		v := row[x]
		w := 1
		for x+w < len(row) && row[x+w] == v {
			w++
		}

		switch {
		case masked && v == key:
		case blended:
			e.blend(x, w, v, signal.AlphaLevel(v))
		default:
			e.set(x, w, v)
		}

		x += w
	}
}

// emit the code for a bitmap. solid bitmaps copy directly from the source row
// and need no jump table. masked and blended bitmaps have a table entry for
// every row of the source
func emitBitmap(e *emitter, px *Pixels, flags Flags, key byte) {
	masked := flags&Masked == Masked
	blended := flags&Blended == Blended

	if !masked && !blended {
		e.copy(0, px.width, 0)
		return
	}

	e.table(px.height)
	for y := range px.height {
		row := px.Row(y)
		if y > 0 && bytes.Equal(row, px.Row(y-1)) {
			e.share(y, y-1)
			continue
		}
		e.line(y)
		emitBitmapRow(e, row, masked, blended, key)
		e.ret()
	}
}

// Bitmap is a rectangle of arbitrary pixels. The bitmap either owns its pixel
// storage or references the storage of another bitmap. A bitmap can show a
// slice of a taller pixel storage.
type Bitmap struct {
	Base
	pixels *Pixels

	// the first row of the pixel storage shown
	slice int

	// the pixel storage version the routines were built from
	built int

	// the pixel offset for the next call to WritePixels()
	cursor int
}

// NewBitmap creates a bitmap that owns its pixel storage. The least
// significant byte of color is the transparent key for masked bitmaps.
func NewBitmap(id int, flags Flags, x int, y int, width int, height int, color uint32) (*Bitmap, error) {
	px, err := NewPixels(width, height)
	if err != nil {
		return nil, err
	}
	b := &Bitmap{
		Base:   newBase(id, flags, x, y, width, height, color),
		pixels: px,
	}
	b.setStatus(OwnsPixels, true)
	return b, nil
}

// NewReference creates a bitmap that shows the pixel storage of another
// bitmap. A height of zero shows the entire storage.
func NewReference(id int, flags Flags, x int, y int, height int, owner *Bitmap, color uint32) (*Bitmap, error) {
	if owner == nil || owner.flags&OwnsPixels != OwnsPixels {
		return nil, curated.Errorf(InvalidContent, "reference to a bitmap that does not own its pixels")
	}
	w, h := owner.pixels.Size()
	if height <= 0 || height > h {
		height = h
	}
	return &Bitmap{
		Base:   newBase(id, flags, x, y, w, height, color),
		pixels: owner.pixels,
	}, nil
}

// Pixels returns the pixel storage of the bitmap.
func (b *Bitmap) Pixels() *Pixels {
	return b.pixels
}

// IsOwner returns true if the bitmap owns its pixel storage.
func (b *Bitmap) IsOwner() bool {
	return b.flags&OwnsPixels == OwnsPixels
}

// SetPixel changes one pixel of the storage.
func (b *Bitmap) SetPixel(x int, y int, v byte) {
	b.pixels.Set(x, y, v)
}

// WritePixels writes a stream of pixels to the storage, continuing from the
// end of the previous stream.
func (b *Bitmap) WritePixels(data []byte) {
	b.cursor += b.pixels.Write(b.cursor, data)
}

// ResetCursor makes the next call to WritePixels() start at the pixel offset.
func (b *Bitmap) ResetCursor(offset int) {
	b.cursor = offset
}

// Fill sets every pixel of the storage to the value.
func (b *Bitmap) Fill(v byte) {
	b.pixels.Fill(v)
}

// Slice returns the first row of the pixel storage that is shown.
func (b *Bitmap) Slice() int {
	return b.slice
}

// SetSlice changes the first row of the pixel storage that is shown. Changing
// the slice does not require the paint routines to be rebuilt.
func (b *Bitmap) SetSlice(y int) {
	_, h := b.pixels.Size()
	b.slice = max(0, min(y, h-b.height))
}

// GenerateCode implements the Primitive interface.
func (b *Bitmap) GenerateCode() error {
	b.built = b.pixels.Version()
	return b.generate(func(e *emitter) {
		emitBitmap(e, b.pixels, b.flags, byte(b.color))
	})
}

// NeedsCode implements the Primitive interface. Masked and blended bitmaps
// need new code when the pixels change.
func (b *Bitmap) NeedsCode() bool {
	if b.Base.NeedsCode() {
		return true
	}
	if b.flags&(Masked|Blended) != 0 {
		return b.built != b.pixels.Version()
	}
	return false
}

// Paint implements the Primitive interface.
func (b *Bitmap) Paint(dst []byte, line int) {
	var src []byte
	if b.flags&(Masked|Blended) == 0 {
		src = b.pixels.LineRow(line-b.own.Min.Y+b.slice, b.syncs)
	}
	b.run(dst, line, src, b.slice)
}
