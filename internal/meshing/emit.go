package meshing

import (
	"fmt"
	"slices"

	"voxmesh/internal/face"
	"voxmesh/internal/mesh"

	"github.com/go-gl/mathgl/mgl32"
)

// VerticesPerQuad and IndicesPerQuad are what one emitted face adds to a mesh.
const (
	VerticesPerQuad = 4
	IndicesPerQuad  = 6
)

// quadPattern is the local index pattern of every emitted quad: triangles
// (v0, v1, v2) and (v3, v2, v1) sharing the v1-v2 edge.
var quadPattern = [IndicesPerQuad]uint32{0, 1, 2, 3, 2, 1}

// compactWindow is how close to the tail of the vertex buffer a quad must be
// to be removed by shifting rather than by swapping with the last quad.
const compactWindow = 6 * VerticesPerQuad

// quadLayout is a cube template split into faces. verts[f] holds the template
// vertices of face f in emission order.
type quadLayout struct {
	verts [face.Count][VerticesPerQuad]int
	has   face.Faces
}

// classify assigns every template triangle to the face whose plane it lies in:
// all three vertices share the coordinate on the face's axis, and that
// coordinate lies on the face's side of center.
func classify(tmpl *mesh.Mesh, center mgl32.Vec3) *quadLayout {
	pos := tmpl.Positions()
	var tris [face.Count][][3]int
	for _, t := range tmpl.Triangles() {
		tri := [3]int{int(t[0]), int(t[1]), int(t[2])}
		f, ok := triangleFace(pos[tri[0]], pos[tri[1]], pos[tri[2]], center)
		if !ok {
			panic(fmt.Sprintf("meshing: template triangle %v lies on no cube face", tri))
		}
		tris[f] = append(tris[f], tri)
	}

	l := &quadLayout{}
	for _, f := range face.All {
		switch len(tris[f]) {
		case 0:
			continue
		case 2:
			l.verts[f] = orderQuad(f, tris[f][0], tris[f][1])
			l.has[f] = true
		default:
			panic(fmt.Sprintf("meshing: template %v face has %d triangles, want 2", f, len(tris[f])))
		}
	}
	return l
}

func triangleFace(a, b, c, center mgl32.Vec3) (face.Face, bool) {
	for _, f := range face.All {
		ax := f.Axis()
		if a[ax] != b[ax] || a[ax] != c[ax] {
			continue
		}
		if d := a[ax] - center[ax]; (d > 0) == f.Positive() && d != 0 {
			return f, true
		}
	}
	return 0, false
}

// orderQuad turns two triangles sharing an edge into v0..v3 so that the quad
// is drawn as (v0, v1, v2) and (v3, v2, v1), keeping the template's winding.
func orderQuad(f face.Face, t1, t2 [3]int) [VerticesPerQuad]int {
	lone := func(t, other [3]int) int {
		k := -1
		for i, v := range t {
			if !slices.Contains(other[:], v) {
				if k >= 0 {
					return -1
				}
				k = i
			}
		}
		return k
	}
	k1, k2 := lone(t1, t2), lone(t2, t1)
	if k1 < 0 || k2 < 0 {
		panic(fmt.Sprintf("meshing: %v face triangles %v and %v do not share an edge", f, t1, t2))
	}
	q := [VerticesPerQuad]int{t1[k1], t1[(k1+1)%3], t1[(k1+2)%3], t2[k2]}

	want := [3]int{q[3], q[2], q[1]}
	for r := 0; r < 3; r++ {
		if t2[r] == want[0] && t2[(r+1)%3] == want[1] && t2[(r+2)%3] == want[2] {
			return q
		}
	}
	panic(fmt.Sprintf("meshing: %v face triangles %v and %v have inconsistent winding", f, t1, t2))
}

// emitter appends quads to a mesh and keeps the reverse index in step.
// Bulk generation and incremental updates both go through it so every quad has
// the same shape.
type emitter[V comparable] struct {
	reg     Registry[V]
	mesh    *mesh.Mesh
	index   *ReverseIndex
	layouts map[*mesh.Mesh]*quadLayout
	center  mgl32.Vec3
	size    mgl32.Vec3
}

func newEmitter[V comparable](reg Registry[V], m *mesh.Mesh, index *ReverseIndex) *emitter[V] {
	if !m.HasLayout(reg.Attributes()) {
		panic(fmt.Sprintf("meshing: mesh attributes %v do not match registry %v", m.Attributes(), reg.Attributes()))
	}
	return &emitter[V]{
		reg:     reg,
		mesh:    m,
		index:   index,
		layouts: make(map[*mesh.Mesh]*quadLayout),
		center:  reg.Center(),
		size:    reg.VoxelDimensions(),
	}
}

func (e *emitter[V]) layout(tmpl *mesh.Mesh) *quadLayout {
	l, ok := e.layouts[tmpl]
	if !ok {
		l = classify(tmpl, e.center)
		e.layouts[tmpl] = l
	}
	return l
}

// emitFaces appends the quads for the faces of voxel set in faces, in
// canonical order, skipping faces that are already emitted. It returns how
// many quads were added.
func (e *emitter[V]) emitFaces(tmpl *mesh.Mesh, voxel int, offset mgl32.Vec3, faces face.Faces) int {
	l := e.layout(tmpl)
	n := 0
	for _, f := range face.All {
		if !faces[f] || !l.has[f] {
			continue
		}
		if _, ok := e.index.Lookup(f, voxel); ok {
			continue
		}
		base := e.mesh.VertexCount()
		e.mesh.AppendVertices(tmpl, l.verts[f][:])
		e.mesh.Translate(base, offset)
		for _, k := range quadPattern {
			e.mesh.Indices = append(e.mesh.Indices, uint32(base)+k)
		}
		e.index.Insert(f, voxel, uint32(base))
		n++
	}
	return n
}

// emitWhole appends an entire template. Nothing is recorded in the reverse index.
func (e *emitter[V]) emitWhole(tmpl *mesh.Mesh, offset mgl32.Vec3) {
	base := e.mesh.VertexCount()
	all := make([]int, tmpl.VertexCount())
	for i := range all {
		all[i] = i
	}
	e.mesh.AppendVertices(tmpl, all)
	e.mesh.Translate(base, offset)
	for _, idx := range tmpl.Indices {
		e.mesh.Indices = append(e.mesh.Indices, uint32(base)+idx)
	}
}

// removeFace deletes the quad of face f of voxel, if present.
func (e *emitter[V]) removeFace(voxel int, f face.Face) bool {
	v, ok := e.index.Lookup(f, voxel)
	if !ok {
		return false
	}
	e.removeQuad(v)
	return true
}

// removeQuad deletes the quad starting at vertex. Quads near the tail are cut
// out and everything after them shifts down; any other quad is overwritten by
// the last quad. Either way the index buffer loses its last six entries,
// which is valid because every quad uses the same local pattern.
func (e *emitter[V]) removeQuad(vertex uint32) {
	e.index.Remove(vertex)
	n := e.mesh.VertexCount()
	v := int(vertex)
	if n-v <= compactWindow {
		e.mesh.RemoveVertices(v, v+VerticesPerQuad)
		for w := v + VerticesPerQuad; w < n; w += VerticesPerQuad {
			e.index.Relocate(uint32(w), uint32(w-VerticesPerQuad))
		}
	} else {
		last := n - VerticesPerQuad
		for k := 0; k < VerticesPerQuad; k++ {
			e.mesh.SwapVertices(v+k, last+k)
		}
		e.mesh.TruncateVertices(last)
		e.index.Relocate(uint32(last), vertex)
	}
	e.mesh.PopIndices(IndicesPerQuad)
}
