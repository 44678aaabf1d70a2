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
	"github.com/jetsetilly/otfvdp/curated"
	"github.com/jetsetilly/otfvdp/otf/codegen"
)

// NoTile is the key of an empty cell.
const NoTile = 0xffffffff

// tile is one bitmap shared by any number of cells.
type tile struct {
	pixels   *Pixels
	routines map[int]*codegen.Routine
	built    int
}

// TileArray is a grid of cells. Each cell shows one of the tile bitmaps
// defined for the array, selected by key.
type TileArray struct {
	Base
	columns int
	rows    int
	tileW   int
	tileH   int

	cells []uint32
	tiles map[uint32]*tile

	// the alignment phases the tile routines have been built for
	phases []int
}

// NewTileArray is the preferred method of initialisation for the TileArray
// type. The color is the transparent key for masked tiles.
func NewTileArray(id int, flags Flags, x int, y int, columns int, rows int, tileW int, tileH int, color uint32) (*TileArray, error) {
	if columns <= 0 || rows <= 0 || tileW <= 0 || tileH <= 0 {
		return nil, curated.Errorf(InvalidSize, columns*tileW, rows*tileH)
	}
	ta := &TileArray{
		Base:    newBase(id, flags, x, y, columns*tileW, rows*tileH, color),
		columns: columns,
		rows:    rows,
		tileW:   tileW,
		tileH:   tileH,
		cells:   make([]uint32, columns*rows),
		tiles:   make(map[uint32]*tile),
	}
	for i := range ta.cells {
		ta.cells[i] = NoTile
	}
	return ta, nil
}

// Grid returns the number of columns and rows.
func (ta *TileArray) Grid() (int, int) {
	return ta.columns, ta.rows
}

// TileSize returns the size of each tile.
func (ta *TileArray) TileSize() (int, int) {
	return ta.tileW, ta.tileH
}

// DefineTile creates or replaces the tile bitmap for the key. The data is
// the tile's pixels in rows.
func (ta *TileArray) DefineTile(key uint32, data []byte) error {
	if key == NoTile {
		return curated.Errorf(InvalidContent, "tile key is reserved")
	}
	px, err := NewPixels(ta.tileW, ta.tileH)
	if err != nil {
		return err
	}
	px.Write(0, data)
	t := &tile{pixels: px}
	ta.tiles[key] = t
	return ta.buildTile(t)
}

// HasTile returns true if a tile bitmap for the key has been defined.
func (ta *TileArray) HasTile(key uint32) bool {
	_, ok := ta.tiles[key]
	return ok
}

// Tile returns the pixel storage of the tile for the key.
func (ta *TileArray) Tile(key uint32) (*Pixels, bool) {
	t, ok := ta.tiles[key]
	if !ok {
		return nil, false
	}
	return t.pixels, true
}

// SetCell changes the tile shown by a cell. Cells outside the grid are
// ignored.
func (ta *TileArray) SetCell(column int, row int, key uint32) {
	if column < 0 || row < 0 || column >= ta.columns || row >= ta.rows {
		return
	}
	ta.cells[row*ta.columns+column] = key
}

// Cell returns the key of the tile shown by a cell. Returns NoTile for cells
// outside of the grid.
func (ta *TileArray) Cell(column int, row int) uint32 {
	if column < 0 || row < 0 || column >= ta.columns || row >= ta.rows {
		return NoTile
	}
	return ta.cells[row*ta.columns+column]
}

// the phases needed for the tiles. every phase if the array scrolls by
// single pixels, otherwise the phases of the cell positions
func (ta *TileArray) requiredPhases() []int {
	if ta.flags&HScroll1 == HScroll1 {
		return []int{0, 1, 2, 3}
	}
	var seen [4]bool
	var phases []int
	for c := range min(ta.columns, 4) {
		p := (ta.own.Min.X + c*ta.tileW) & 3
		if !seen[p] {
			seen[p] = true
			phases = append(phases, p)
		}
	}
	return phases
}

func (ta *TileArray) buildTile(t *tile) error {
	t.routines = make(map[int]*codegen.Routine)
	t.built = t.pixels.Version()
	for _, p := range ta.phases {
		e := &emitter{
			a:     codegen.NewAssembler(p),
			lo:    0,
			hi:    ta.tileW,
			syncs: ta.syncs,
		}
		emitBitmap(e, t.pixels, ta.flags, byte(ta.color))
		r, err := e.a.Finalize()
		if err != nil {
			return curated.Errorf(CodeGeneration, err)
		}
		t.routines[p] = r
	}
	return nil
}

// GenerateCode implements the Primitive interface.
func (ta *TileArray) GenerateCode() error {
	ta.dirty = false
	ta.phases = ta.requiredPhases()
	for _, t := range ta.tiles {
		if err := ta.buildTile(t); err != nil {
			return err
		}
	}
	return nil
}

// NeedsCode implements the Primitive interface.
func (ta *TileArray) NeedsCode() bool {
	if ta.dirty {
		return true
	}
	req := ta.requiredPhases()
	if len(req) != len(ta.phases) {
		return true
	}
	for i := range req {
		if req[i] != ta.phases[i] {
			return true
		}
	}
	for _, t := range ta.tiles {
		if t.built != t.pixels.Version() {
			return true
		}
	}
	return false
}

// Paint implements the Primitive interface.
func (ta *TileArray) Paint(dst []byte, line int) {
	y := line - ta.own.Min.Y
	row := y / ta.tileH
	ty := y % ta.tileH

	c0 := (ta.draw.Min.X - ta.own.Min.X) / ta.tileW
	c1 := (ta.draw.Max.X - ta.own.Min.X - 1) / ta.tileW

	ctx := codegen.Context{
		Dst:  dst,
		Line: line,
		Top:  line - ty,
	}

	solid := ta.flags&(Masked|Blended) == 0

	for c := c0; c <= c1; c++ {
		t, ok := ta.tiles[ta.cells[row*ta.columns+c]]
		if !ok {
			continue
		}

		ctx.X = ta.own.Min.X + c*ta.tileW
		r, ok := t.routines[ctx.X&3]
		if !ok {
			continue
		}
		if solid {
			ctx.Src = t.pixels.LineRow(ty, ta.syncs)
		}

		if ctx.X >= ta.draw.Min.X && ctx.X+ta.tileW <= ta.draw.Max.X && ta.flags&ClipSelf != ClipSelf {
			r.Run(&ctx)
		} else {
			r.RunClipped(&ctx, ta.draw.Min.X, ta.draw.Max.X)
		}
	}
}
