// Package cube builds voxel templates: axis aligned boxes with one quad per
// face, textured from cells of a texture atlas.
package cube

import (
	"fmt"

	"voxmesh/internal/face"
	"voxmesh/internal/mesh"

	"github.com/go-gl/mathgl/mgl32"
)

// Atlas is a texture laid out as a grid of equally sized cells.
type Atlas struct {
	Columns, Rows int
	// Padding shrinks every cell on all sides, in texels of a 1x1 cell, to
	// avoid bleeding from neighboring cells.
	Padding float32
}

// Tiles assigns an atlas cell (column, row) to each face.
type Tiles [face.Count][2]int

// SameTile uses one cell for every face.
func SameTile(col, row int) Tiles {
	var t Tiles
	for i := range t {
		t[i] = [2]int{col, row}
	}
	return t
}

// TopBottomSide uses separate cells for the top, the bottom and the four sides.
func TopBottomSide(top, bottom, side [2]int) Tiles {
	return Tiles{
		face.Top:     top,
		face.Bottom:  bottom,
		face.Right:   side,
		face.Left:    side,
		face.Back:    side,
		face.Forward: side,
	}
}

// Options describe the look of a template.
type Options struct {
	Atlas Atlas
	Tiles Tiles
	// Color fills the Color attribute. Zero means opaque white.
	Color mgl32.Vec4
	// Tinted faces take Tint instead of Color.
	Tinted face.Faces
	Tint   mgl32.Vec4
}

// corners holds, per face, the unit cube corners (0 = min, 1 = max on each
// axis) in emission order. Quads are drawn as (0,1,2) and (3,2,1) which is
// counter-clockwise seen from outside.
var corners = [face.Count][4][3]uint8{
	face.Top:     {{0, 1, 1}, {1, 1, 1}, {0, 1, 0}, {1, 1, 0}},
	face.Bottom:  {{0, 0, 0}, {1, 0, 0}, {0, 0, 1}, {1, 0, 1}},
	face.Right:   {{1, 1, 0}, {1, 1, 1}, {1, 0, 0}, {1, 0, 1}},
	face.Left:    {{0, 0, 0}, {0, 0, 1}, {0, 1, 0}, {0, 1, 1}},
	face.Back:    {{1, 1, 1}, {0, 1, 1}, {1, 0, 1}, {0, 0, 1}},
	face.Forward: {{1, 0, 0}, {0, 0, 0}, {1, 1, 0}, {0, 1, 0}},
}

// cellUV is the position inside an atlas cell of each corner. Faces on the
// positive side of their axis and faces on the negative side are mirrored.
var cellUV = [2][4]mgl32.Vec2{
	{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	{{1, 1}, {0, 1}, {1, 0}, {0, 0}},
}

var quad = []uint32{0, 1, 2, 3, 2, 1}

// Cube returns a size-sized box centered on center with the given layout.
func Cube(attrs []mesh.Attribute, size, center mgl32.Vec3, opts Options) *mesh.Mesh {
	half := size.Mul(0.5)
	return Box(attrs, center.Sub(half), center.Add(half), opts)
}

// Box returns the box spanning lo..hi. Only Position, Normal, UV0 and Color
// can be filled; any other attribute panics.
func Box(attrs []mesh.Attribute, lo, hi mgl32.Vec3, opts Options) *mesh.Mesh {
	m := mesh.New(attrs...)
	for _, a := range m.Attributes() {
		switch a {
		case mesh.Position, mesh.Normal, mesh.UV0, mesh.Color:
		default:
			panic(fmt.Sprintf("cube: cannot fill attribute %v", a))
		}
	}

	color := opts.Color
	if color == (mgl32.Vec4{}) {
		color = mgl32.Vec4{1, 1, 1, 1}
	}
	cols, rows := max1(opts.Atlas.Columns), max1(opts.Atlas.Rows)
	cell := mgl32.Vec2{1 / float32(cols), 1 / float32(rows)}
	pad := mgl32.Vec2{opts.Atlas.Padding * cell[0], opts.Atlas.Padding * cell[1]}

	var (
		pos    []mgl32.Vec3
		normal []mgl32.Vec3
		uv     []mgl32.Vec2
		col    []mgl32.Vec4
	)
	for _, f := range face.All {
		base := uint32(len(pos))
		tile := opts.Tiles[f]
		origin := mgl32.Vec2{float32(tile[0]) * cell[0], float32(tile[1]) * cell[1]}.Add(pad)
		extent := cell.Sub(pad.Mul(2))
		mirror := 0
		if !f.Positive() {
			mirror = 1
		}
		for k, c := range corners[f] {
			var p mgl32.Vec3
			for ax := 0; ax < 3; ax++ {
				if c[ax] == 1 {
					p[ax] = hi[ax]
				} else {
					p[ax] = lo[ax]
				}
			}
			local := cellUV[mirror][k]
			pos = append(pos, p)
			normal = append(normal, f.Normal())
			uv = append(uv, origin.Add(mgl32.Vec2{local[0] * extent[0], local[1] * extent[1]}))
			if opts.Tinted[f] {
				col = append(col, opts.Tint)
			} else {
				col = append(col, color)
			}
		}
		for _, q := range quad {
			m.Indices = append(m.Indices, base+q)
		}
	}

	mesh.Set(m, mesh.Position, pos)
	if m.Has(mesh.Normal) {
		mesh.Set(m, mesh.Normal, normal)
	}
	if m.Has(mesh.UV0) {
		mesh.Set(m, mesh.UV0, uv)
	}
	if m.Has(mesh.Color) {
		mesh.Set(m, mesh.Color, col)
	}
	return m
}

// Merge concatenates meshes with the same layout into one, e.g. the elements
// of a multi-part block model.
func Merge(parts ...*mesh.Mesh) *mesh.Mesh {
	if len(parts) == 0 {
		return mesh.New()
	}
	out := mesh.New(parts[0].Attributes()...)
	for _, p := range parts {
		base := uint32(out.VertexCount())
		all := make([]int, p.VertexCount())
		for i := range all {
			all[i] = i
		}
		out.AppendVertices(p, all)
		for _, idx := range p.Indices {
			out.Indices = append(out.Indices, base+idx)
		}
	}
	return out
}

func max1(v int) int {
	if v < 1 {
		return 1
	}
	return v
}
