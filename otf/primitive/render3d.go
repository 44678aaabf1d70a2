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
	"math"

	"github.com/jetsetilly/otfvdp/curated"
	"github.com/jetsetilly/otfvdp/hardware/video/signal"
	"github.com/jetsetilly/otfvdp/hardware/video/specification"
)

// Vec3 is a point or a direction in 3D space.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) unit() Vec3 {
	l := math.Sqrt(v.dot(v))
	if l == 0 {
		return v
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// Face is a triangle of a mesh. The vertices are indexes into the mesh's
// vertex list, in clockwise order when seen from the front.
type Face struct {
	A, B, C int
	Color   byte
}

// Transform positions a mesh in the scene. Rotation is in radians around
// each axis, applied in the order X, Y, Z.
type Transform struct {
	Scale       Vec3
	Rotation    Vec3
	Translation Vec3
}

// Mesh is a list of vertices and the faces joining them.
type Mesh struct {
	Vertices  []Vec3
	Faces     []Face
	Transform Transform
}

func (tr Transform) apply(v Vec3) Vec3 {
	v = Vec3{v.X * tr.Scale.X, v.Y * tr.Scale.Y, v.Z * tr.Scale.Z}

	s, c := math.Sincos(tr.Rotation.X)
	v = Vec3{v.X, v.Y*c - v.Z*s, v.Y*s + v.Z*c}
	s, c = math.Sincos(tr.Rotation.Y)
	v = Vec3{v.X*c + v.Z*s, v.Y, -v.X*s + v.Z*c}
	s, c = math.Sincos(tr.Rotation.Z)
	v = Vec3{v.X*c - v.Y*s, v.X*s + v.Y*c, v.Z}

	return Vec3{v.X + tr.Translation.X, v.Y + tr.Translation.Y, v.Z + tr.Translation.Z}
}

// the distance of the near clipping plane
const nearPlane = 0.01

// Render3D is a bitmap whose pixels are produced by rendering meshes with
// flat shading. The camera is at the origin looking along the positive z
// axis. The least significant byte of color is the background, which is also
// the transparent key if the Masked flag is set.
type Render3D struct {
	Bitmap

	meshes []*Mesh
	light  Vec3
	zbuf   []float64
}

// NewRender3D is the preferred method of initialisation for the Render3D
// type.
func NewRender3D(id int, flags Flags, x int, y int, width int, height int, color uint32) (*Render3D, error) {
	b, err := NewBitmap(id, flags, x, y, width, height, color)
	if err != nil {
		return nil, err
	}
	return &Render3D{
		Bitmap: *b,
		light:  Vec3{0, 0, 1},
		zbuf:   make([]float64, width*height),
	}, nil
}

// AddMesh adds a mesh to the scene and returns its index.
func (r *Render3D) AddMesh(m Mesh) (int, error) {
	for _, f := range m.Faces {
		for _, i := range []int{f.A, f.B, f.C} {
			if i < 0 || i >= len(m.Vertices) {
				return 0, curated.Errorf(InvalidContent, "face refers to a missing vertex")
			}
		}
	}
	if m.Transform.Scale == (Vec3{}) {
		m.Transform.Scale = Vec3{1, 1, 1}
	}
	r.meshes = append(r.meshes, &m)
	return len(r.meshes) - 1, nil
}

// SetTransform changes the transform of a mesh. Unknown mesh indexes are
// ignored.
func (r *Render3D) SetTransform(mesh int, tr Transform) {
	if mesh < 0 || mesh >= len(r.meshes) {
		return
	}
	r.meshes[mesh].Transform = tr
}

// SetLight changes the direction the light travels in.
func (r *Render3D) SetLight(dir Vec3) {
	r.light = dir.unit()
}

// shade a colour by an intensity between zero and one. each two bit channel
// keeps at least a quarter of its brightness
func shade(col byte, intensity float64) byte {
	var v byte
	for shift := 0; shift < 6; shift += 2 {
		ch := float64((col >> shift) & 0x03)
		s := math.Round(ch * (0.25 + 0.75*intensity))
		v |= byte(min(s, 3)) << shift
	}
	return v
}

// Render draws every mesh into the pixels of the bitmap.
func (r *Render3D) Render() {
	px := r.pixels
	w, h := px.width, px.height

	bg := byte(r.color)
	for i := range px.data {
		px.data[i] = bg
		r.zbuf[i] = math.Inf(1)
	}

	focal := float64(h)
	project := func(v Vec3) (float64, float64) {
		return float64(w)/2 + focal*v.X/v.Z, float64(h)/2 - focal*v.Y/v.Z
	}

	for _, m := range r.meshes {
		world := make([]Vec3, len(m.Vertices))
		for i, v := range m.Vertices {
			world[i] = m.Transform.apply(v)
		}

		for _, f := range m.Faces {
			a, b, c := world[f.A], world[f.B], world[f.C]
			if a.Z < nearPlane || b.Z < nearPlane || c.Z < nearPlane {
				continue
			}

			// faces pointing away from the camera are not drawn
			n := b.sub(a).cross(c.sub(a)).unit()
			if n.dot(a) >= 0 {
				continue
			}

			intensity := max(0, -n.dot(r.light))
			col := signal.WithAlpha(shade(f.Color&specification.ColorMask, intensity), signal.Opaque100)

			ax, ay := project(a)
			bx, by := project(b)
			cx, cy := project(c)
			r.fillTriangle([3]float64{ax, bx, cx}, [3]float64{ay, by, cy}, [3]float64{a.Z, b.Z, c.Z}, col)
		}
	}

	px.changed()
}

func (r *Render3D) fillTriangle(xs [3]float64, ys [3]float64, zs [3]float64, col byte) {
	px := r.pixels
	w, h := px.width, px.height

	area := (xs[1]-xs[0])*(ys[2]-ys[0]) - (xs[2]-xs[0])*(ys[1]-ys[0])
	if area == 0 {
		return
	}

	x0 := max(0, int(math.Floor(min(xs[0], xs[1], xs[2]))))
	x1 := min(w-1, int(math.Ceil(max(xs[0], xs[1], xs[2]))))
	y0 := max(0, int(math.Floor(min(ys[0], ys[1], ys[2]))))
	y1 := min(h-1, int(math.Ceil(max(ys[0], ys[1], ys[2]))))

	edge := func(i, j int, x, y float64) float64 {
		return (xs[j]-xs[i])*(y-ys[i]) - (ys[j]-ys[i])*(x-xs[i])
	}

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			cx := float64(x) + 0.5
			cy := float64(y) + 0.5
			w0 := edge(1, 2, cx, cy) / area
			w1 := edge(2, 0, cx, cy) / area
			w2 := edge(0, 1, cx, cy) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*zs[0] + w1*zs[1] + w2*zs[2]
			i := y*w + x
			if z < r.zbuf[i] {
				r.zbuf[i] = z
				px.data[i] = col
			}
		}
	}
}
