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
	"image"

	"github.com/jetsetilly/otfvdp/curated"
	"github.com/jetsetilly/otfvdp/otf/primitive"
	"github.com/jetsetilly/otfvdp/otf/scene"
)

// Scene commands follow 23, 30 in the stream. The comment after each command
// lists its fields. Fields are 16bit unless stated otherwise. Positions are
// signed. Fixed point fields are signed 8.8 values.
const (
	CmdSetFlags       = 0x00 // id, flags
	CmdSetPosition    = 0x01 // id, x, y
	CmdAdjustPosition = 0x02 // id, dx, dy
	CmdDelete         = 0x03 // id
	CmdGenerateCode   = 0x04 // id
	CmdSetColor       = 0x05 // id, color (32bit)
	CmdSetSize        = 0x06 // id, width, height
	CmdSetBackground  = 0x07 // color (8bit)

	CmdCreatePixel     = 0x10 // id, flags, parent, x, y, color (8bit)
	CmdCreateLine      = 0x11 // id, flags, parent, x1, y1, x2, y2, color (8bit)
	CmdCreateSolidRect = 0x12 // id, flags, parent, x, y, width, height, color (8bit)
	CmdCreateRect      = 0x13 // id, flags, parent, x, y, width, height, color (8bit)
	CmdCreatePolygon   = 0x14 // id, flags, parent, shape (8bit), solid (8bit), color (8bit), n, n * (x, y)
	CmdCreateGroup     = 0x15 // id, flags, parent, x, y, width, height
	CmdCreateBitmap    = 0x16 // id, flags, parent, x, y, width, height, key (8bit)
	CmdCreateReference = 0x17 // id, flags, parent, x, y, height, owner, key (8bit)
	CmdCreateTileArray = 0x18 // id, flags, parent, x, y, columns, rows, tile width, tile height, key (8bit)
	CmdCreateTextArea  = 0x19 // id, flags, parent, x, y, columns, rows, fg (8bit), bg (8bit)
	CmdCreateRender3D  = 0x1a // id, flags, parent, x, y, width, height, background (8bit)

	CmdSetPixel    = 0x20 // id, x, y, value (8bit)
	CmdWritePixels = 0x21 // id, n, n * value (8bit)
	CmdSetCursor   = 0x22 // id, offset (32bit)
	CmdFillBitmap  = 0x23 // id, value (8bit)
	CmdSetSlice    = 0x24 // id, y

	CmdDefineTile = 0x28 // id, key (32bit), n, n * value (8bit)
	CmdSetCell    = 0x29 // id, column, row, key (32bit)

	CmdSelectText  = 0x30 // id
	CmdDefineGlyph = 0x31 // id, char (8bit), 16 * row (8bit)
	CmdTextColors  = 0x32 // id, fg (8bit), bg (8bit)

	CmdAddMesh      = 0x38 // id, nv, nf, nv * (x, y, z fixed point), nf * (a, b, c, color (8bit))
	CmdSetTransform = 0x39 // id, mesh, scale xyz, rotation xyz (radians), translation xyz. all fixed point
	CmdSetLight     = 0x3a // id, direction xyz fixed point
	CmdRender       = 0x3b // id
)

type sceneCommand struct {
	name string

	// the length of the fields that are always present
	fixed int

	// the length of the counted fields. nil if there are none
	variable func(fixed []byte) int

	run func(d *Decoder, m *scene.Manager, a *args) error
}

func count(fixed []byte, at int) int {
	return int(binary.LittleEndian.Uint16(fixed[at:]))
}

// the fields at the start of every create command
func header(a *args) (int, primitive.Flags, int) {
	id := a.u16()
	flags := primitive.Flags(a.u16()) & primitive.Settable
	parent := a.u16()
	return id, flags, parent
}

func lookupAs[T primitive.Primitive](m *scene.Manager, id int, what string) (T, error) {
	var zero T
	p, ok := m.Lookup(id)
	if !ok {
		return zero, curated.Errorf(scene.UnknownPrimitive, id)
	}
	v, ok := p.(T)
	if !ok {
		return zero, curated.Errorf(WrongVariant, id, what)
	}
	return v, nil
}

func bitmap(m *scene.Manager, id int) (*primitive.Bitmap, error) {
	b, ok := m.Bitmap(id)
	if !ok {
		return nil, curated.Errorf(WrongVariant, id, "a bitmap")
	}
	return b, nil
}

// text areas are also tile arrays
func tileArray(m *scene.Manager, id int) (*primitive.TileArray, error) {
	p, ok := m.Lookup(id)
	if !ok {
		return nil, curated.Errorf(scene.UnknownPrimitive, id)
	}
	switch t := p.(type) {
	case *primitive.TileArray:
		return t, nil
	case *primitive.TextArea:
		return &t.TileArray, nil
	}
	return nil, curated.Errorf(WrongVariant, id, "a tile array")
}

var sceneCommands = map[byte]sceneCommand{
	CmdSetFlags: {name: "set flags", fixed: 4,
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			id := a.u16()
			return m.SetFlags(id, primitive.Flags(a.u16())&primitive.Settable)
		},
	},
	CmdSetPosition: {name: "set position", fixed: 6,
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			id := a.u16()
			x := a.s16()
			return m.SetPosition(id, x, a.s16())
		},
	},
	CmdAdjustPosition: {name: "adjust position", fixed: 6,
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			id := a.u16()
			dx := a.s16()
			return m.AdjustPosition(id, dx, a.s16())
		},
	},
	CmdDelete: {name: "delete", fixed: 2,
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			return m.Delete(a.u16())
		},
	},
	CmdGenerateCode: {name: "generate code", fixed: 2,
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			return m.GenerateCode(a.u16())
		},
	},
	CmdSetColor: {name: "set color", fixed: 6,
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			id := a.u16()
			return m.SetColor(id, a.u32())
		},
	},
	CmdSetSize: {name: "set size", fixed: 6,
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			id := a.u16()
			w := a.u16()
			return m.SetSize(id, w, a.u16())
		},
	},
	CmdSetBackground: {name: "set background", fixed: 1,
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			m.SetBackground(a.u8())
			return nil
		},
	},

	CmdCreatePixel: {name: "create pixel", fixed: 11,
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			id, flags, parent := header(a)
			x := a.s16()
			y := a.s16()
			return m.Create(primitive.NewPixel(id, flags, x, y, uint32(a.u8())), parent)
		},
	},
	CmdCreateLine: {name: "create line", fixed: 15,
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			id, flags, parent := header(a)
			x1, y1 := a.s16(), a.s16()
			x2, y2 := a.s16(), a.s16()
			return m.Create(primitive.NewLine(id, flags, x1, y1, x2, y2, uint32(a.u8())), parent)
		},
	},
	CmdCreateSolidRect: {name: "create solid rectangle", fixed: 15,
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			id, flags, parent := header(a)
			x, y := a.s16(), a.s16()
			w, h := a.u16(), a.u16()
			return m.Create(primitive.NewSolidRectangle(id, flags, x, y, w, h, uint32(a.u8())), parent)
		},
	},
	CmdCreateRect: {name: "create rectangle", fixed: 15,
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			id, flags, parent := header(a)
			x, y := a.s16(), a.s16()
			w, h := a.u16(), a.u16()
			return m.Create(primitive.NewRectangle(id, flags, x, y, w, h, uint32(a.u8())), parent)
		},
	},
	CmdCreatePolygon: {name: "create polygon", fixed: 11,
		variable: func(fixed []byte) int {
			return count(fixed, 9) * 4
		},
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			id, flags, parent := header(a)
			shape := primitive.Shape(a.u8())
			solid := a.u8() != 0
			col := a.u8()
			pts := make([]image.Point, a.u16())
			for i := range pts {
				pts[i].X = a.s16()
				pts[i].Y = a.s16()
			}
			p, err := primitive.NewPolygon(id, flags, shape, pts, solid, uint32(col))
			if err != nil {
				return err
			}
			return m.Create(p, parent)
		},
	},
	CmdCreateGroup: {name: "create group", fixed: 14,
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			id, flags, parent := header(a)
			x, y := a.s16(), a.s16()
			w, h := a.u16(), a.u16()
			g := primitive.NewGroup(id, flags, x, y)
			if err := g.SetSize(w, h); err != nil {
				return err
			}
			return m.Create(g, parent)
		},
	},
	CmdCreateBitmap: {name: "create bitmap", fixed: 15,
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			id, flags, parent := header(a)
			x, y := a.s16(), a.s16()
			w, h := a.u16(), a.u16()
			b, err := primitive.NewBitmap(id, flags, x, y, w, h, uint32(a.u8()))
			if err != nil {
				return err
			}
			return m.Create(b, parent)
		},
	},
	CmdCreateReference: {name: "create reference", fixed: 15,
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			id, flags, parent := header(a)
			x, y := a.s16(), a.s16()
			h := a.u16()
			owner := a.u16()
			return m.CreateReference(id, flags, parent, x, y, h, owner, uint32(a.u8()))
		},
	},
	CmdCreateTileArray: {name: "create tile array", fixed: 19,
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			id, flags, parent := header(a)
			x, y := a.s16(), a.s16()
			cols, rows := a.u16(), a.u16()
			tw, th := a.u16(), a.u16()
			t, err := primitive.NewTileArray(id, flags, x, y, cols, rows, tw, th, uint32(a.u8()))
			if err != nil {
				return err
			}
			return m.Create(t, parent)
		},
	},
	CmdCreateTextArea: {name: "create text area", fixed: 16,
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			id, flags, parent := header(a)
			x, y := a.s16(), a.s16()
			cols, rows := a.u16(), a.u16()
			fg := a.u8()
			bg := a.u8()
			t, err := primitive.NewTextArea(id, flags, x, y, cols, rows, uint32(fg)|uint32(bg)<<8)
			if err != nil {
				return err
			}
			return m.Create(t, parent)
		},
	},
	CmdCreateRender3D: {name: "create 3d render", fixed: 15,
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			id, flags, parent := header(a)
			x, y := a.s16(), a.s16()
			w, h := a.u16(), a.u16()
			r, err := primitive.NewRender3D(id, flags, x, y, w, h, uint32(a.u8()))
			if err != nil {
				return err
			}
			return m.Create(r, parent)
		},
	},

	CmdSetPixel: {name: "set pixel", fixed: 7,
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			b, err := bitmap(m, a.u16())
			if err != nil {
				return err
			}
			x, y := a.u16(), a.u16()
			b.SetPixel(x, y, a.u8())
			m.Touch()
			return nil
		},
	},
	CmdWritePixels: {name: "write pixels", fixed: 4,
		variable: func(fixed []byte) int {
			return count(fixed, 2)
		},
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			b, err := bitmap(m, a.u16())
			if err != nil {
				return err
			}
			b.WritePixels(a.bytes(a.u16()))
			m.Touch()
			return nil
		},
	},
	CmdSetCursor: {name: "set pixel cursor", fixed: 6,
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			b, err := bitmap(m, a.u16())
			if err != nil {
				return err
			}
			b.ResetCursor(int(a.u32()))
			return nil
		},
	},
	CmdFillBitmap: {name: "fill bitmap", fixed: 3,
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			b, err := bitmap(m, a.u16())
			if err != nil {
				return err
			}
			b.Fill(a.u8())
			m.Touch()
			return nil
		},
	},
	CmdSetSlice: {name: "set slice", fixed: 4,
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			b, err := bitmap(m, a.u16())
			if err != nil {
				return err
			}
			b.SetSlice(a.u16())
			m.Touch()
			return nil
		},
	},

	CmdDefineTile: {name: "define tile", fixed: 8,
		variable: func(fixed []byte) int {
			return count(fixed, 6)
		},
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			t, err := tileArray(m, a.u16())
			if err != nil {
				return err
			}
			key := a.u32()
			if err := t.DefineTile(key, a.bytes(a.u16())); err != nil {
				return err
			}
			m.Touch()
			return nil
		},
	},
	CmdSetCell: {name: "set tile cell", fixed: 10,
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			t, err := tileArray(m, a.u16())
			if err != nil {
				return err
			}
			col, row := a.u16(), a.u16()
			t.SetCell(col, row, a.u32())
			m.Touch()
			return nil
		},
	},

	CmdSelectText: {name: "select text area", fixed: 2,
		run: func(d *Decoder, m *scene.Manager, a *args) error {
			id := a.u16()
			if _, err := lookupAs[*primitive.TextArea](m, id, "a text area"); err != nil {
				return err
			}
			d.active = id
			return nil
		},
	},
	CmdDefineGlyph: {name: "define glyph", fixed: 19,
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			t, err := lookupAs[*primitive.TextArea](m, a.u16(), "a text area")
			if err != nil {
				return err
			}
			ch := a.u8()
			var g primitive.Glyph
			copy(g[:], a.bytes(len(g)))
			t.DefineGlyph(ch, g)
			m.Touch()
			return nil
		},
	},
	CmdTextColors: {name: "text colours", fixed: 4,
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			t, err := lookupAs[*primitive.TextArea](m, a.u16(), "a text area")
			if err != nil {
				return err
			}
			t.SetForeground(a.u8())
			t.SetBackground(a.u8())
			return nil
		},
	},

	CmdAddMesh: {name: "add mesh", fixed: 6,
		variable: func(fixed []byte) int {
			return count(fixed, 2)*6 + count(fixed, 4)*7
		},
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			r, err := lookupAs[*primitive.Render3D](m, a.u16(), "a 3d render")
			if err != nil {
				return err
			}
			mesh := primitive.Mesh{
				Vertices: make([]primitive.Vec3, a.u16()),
				Faces:    make([]primitive.Face, a.u16()),
			}
			for i := range mesh.Vertices {
				mesh.Vertices[i] = vec3(a)
			}
			for i := range mesh.Faces {
				f := &mesh.Faces[i]
				f.A, f.B, f.C = a.u16(), a.u16(), a.u16()
				f.Color = a.u8()
			}
			_, err = r.AddMesh(mesh)
			return err
		},
	},
	CmdSetTransform: {name: "set mesh transform", fixed: 22,
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			r, err := lookupAs[*primitive.Render3D](m, a.u16(), "a 3d render")
			if err != nil {
				return err
			}
			mesh := a.u16()
			var tr primitive.Transform
			tr.Scale = vec3(a)
			tr.Rotation = vec3(a)
			tr.Translation = vec3(a)
			r.SetTransform(mesh, tr)
			return nil
		},
	},
	CmdSetLight: {name: "set light", fixed: 8,
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			r, err := lookupAs[*primitive.Render3D](m, a.u16(), "a 3d render")
			if err != nil {
				return err
			}
			r.SetLight(vec3(a))
			return nil
		},
	},
	CmdRender: {name: "render", fixed: 2,
		run: func(_ *Decoder, m *scene.Manager, a *args) error {
			r, err := lookupAs[*primitive.Render3D](m, a.u16(), "a 3d render")
			if err != nil {
				return err
			}
			r.Render()
			m.Touch()
			return nil
		},
	},
}

func vec3(a *args) primitive.Vec3 {
	x := a.fixed()
	y := a.fixed()
	return primitive.Vec3{X: x, Y: y, Z: a.fixed()}
}
