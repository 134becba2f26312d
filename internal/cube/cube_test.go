package cube

import (
	"testing"

	"voxmesh/internal/face"
	"voxmesh/internal/mesh"

	"github.com/go-gl/mathgl/mgl32"
)

var full = []mesh.Attribute{mesh.Normal, mesh.UV0, mesh.Color}

func TestCubeLayout(t *testing.T) {
	m := Cube(full, mgl32.Vec3{2, 2, 2}, mgl32.Vec3{1, 0, 0}, Options{})
	if m.VertexCount() != 24 || len(m.Indices) != 36 {
		t.Fatalf("cube has %d vertices, %d indices", m.VertexCount(), len(m.Indices))
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	pos := m.Positions()
	normals := mesh.Slice[mgl32.Vec3](m, mesh.Normal)
	for fi, f := range face.All {
		ax := f.Axis()
		want := float32(-1)
		if f.Positive() {
			want = 1
		}
		if ax == 0 {
			want += 1
		}
		for k := 0; k < 4; k++ {
			v := fi*4 + k
			if pos[v][ax] != want {
				t.Errorf("%v vertex %d at %v, want %v on axis %d", f, k, pos[v], want, ax)
			}
			if normals[v] != f.Normal() {
				t.Errorf("%v vertex %d normal %v", f, k, normals[v])
			}
		}
	}
}

func TestCubeWinding(t *testing.T) {
	m := Cube(full, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{}, Options{})
	pos := m.Positions()
	for i, tri := range m.Triangles() {
		a, b, c := pos[tri[0]], pos[tri[1]], pos[tri[2]]
		n := b.Sub(a).Cross(c.Sub(a))
		f := face.All[i/2]
		if n.Dot(f.Normal()) <= 0 {
			t.Errorf("triangle %d of %v faces inward", i, f)
		}
	}
}

func TestCubeUVAndColor(t *testing.T) {
	opts := Options{
		Atlas:  Atlas{Columns: 4, Rows: 2},
		Tiles:  TopBottomSide([2]int{1, 0}, [2]int{2, 1}, [2]int{3, 1}),
		Tinted: face.Only(face.Top),
		Tint:   mgl32.Vec4{0.5, 1, 0.25, 1},
	}
	m := Cube(full, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{}, opts)
	uv := mesh.Slice[mgl32.Vec2](m, mesh.UV0)
	colors := mesh.Slice[mgl32.Vec4](m, mesh.Color)
	for fi, f := range face.All {
		tile := opts.Tiles[f]
		lo := mgl32.Vec2{float32(tile[0]) * 0.25, float32(tile[1]) * 0.5}
		hi := lo.Add(mgl32.Vec2{0.25, 0.5})
		for k := 0; k < 4; k++ {
			v := fi*4 + k
			if uv[v].X() < lo.X() || uv[v].X() > hi.X() || uv[v].Y() < lo.Y() || uv[v].Y() > hi.Y() {
				t.Errorf("%v uv %v outside cell %v..%v", f, uv[v], lo, hi)
			}
			want := mgl32.Vec4{1, 1, 1, 1}
			if f == face.Top {
				want = opts.Tint
			}
			if colors[v] != want {
				t.Errorf("%v color %v, want %v", f, colors[v], want)
			}
		}
	}
}

func TestBoxRejectsUnknownAttribute(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Box filled an attribute it knows nothing about")
		}
	}()
	Box([]mesh.Attribute{{Name: "_WEIGHT", Format: mesh.Float32}}, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, Options{})
}

func TestBoxSpansCorners(t *testing.T) {
	lo, hi := mgl32.Vec3{-1, 0, 2}, mgl32.Vec3{0, 3, 4}
	m := Box(full, lo, hi, Options{})
	seen := [2]mgl32.Vec3{hi, lo}
	for _, p := range m.Positions() {
		for ax := 0; ax < 3; ax++ {
			if p[ax] != lo[ax] && p[ax] != hi[ax] {
				t.Fatalf("vertex %v is not a corner of %v..%v", p, lo, hi)
			}
			seen[0][ax] = min(seen[0][ax], p[ax])
			seen[1][ax] = max(seen[1][ax], p[ax])
		}
	}
	if seen != [2]mgl32.Vec3{lo, hi} {
		t.Errorf("box spans %v..%v, want %v..%v", seen[0], seen[1], lo, hi)
	}
}

func TestMerge(t *testing.T) {
	a := Box(full, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0.5, 1}, Options{})
	b := Box(full, mgl32.Vec3{0, 0.5, 0}, mgl32.Vec3{0.5, 1, 0.5}, Options{})
	m := Merge(a, b)
	if m.VertexCount() != 48 || len(m.Indices) != 72 {
		t.Fatalf("merged mesh has %d vertices, %d indices", m.VertexCount(), len(m.Indices))
	}
	if m.Indices[36] != 24 {
		t.Errorf("second part's indices not rebased: first is %d", m.Indices[36])
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	if empty := Merge(); empty.VertexCount() != 0 || !empty.Has(mesh.Position) {
		t.Error("Merge() of nothing is not an empty position-only mesh")
	}
}
