package meshing

import (
	"testing"

	"voxmesh/internal/cube"
	"voxmesh/internal/face"
	"voxmesh/internal/grid"
	"voxmesh/internal/mesh"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	air   uint8 = 0
	stone uint8 = 1
	dirt  uint8 = 2
	slab  uint8 = 3
)

var testAttrs = []mesh.Attribute{mesh.Normal, mesh.UV0}

// testRegistry has two opaque cubes, a custom half slab and air.
type testRegistry struct {
	stone, dirt, slab *mesh.Mesh
}

func newTestRegistry() *testRegistry {
	size := mgl32.Vec3{1, 1, 1}
	atlas := cube.Atlas{Columns: 4, Rows: 4}
	return &testRegistry{
		stone: cube.Cube(testAttrs, size, mgl32.Vec3{}, cube.Options{Atlas: atlas, Tiles: cube.SameTile(0, 0)}),
		dirt:  cube.Cube(testAttrs, size, mgl32.Vec3{}, cube.Options{Atlas: atlas, Tiles: cube.SameTile(1, 0)}),
		slab:  cube.Box(testAttrs, mgl32.Vec3{-0.5, -0.5, -0.5}, mgl32.Vec3{0.5, 0, 0.5}, cube.Options{Atlas: atlas}),
	}
}

func (r *testRegistry) Mesh(v uint8) VoxelMesh {
	switch v {
	case stone:
		return VoxelMesh{Kind: NormalCube, Template: r.stone}
	case dirt:
		return VoxelMesh{Kind: NormalCube, Template: r.dirt}
	case slab:
		return VoxelMesh{Kind: CustomMesh, Template: r.slab}
	}
	return VoxelMesh{Kind: NullMesh}
}

func (r *testRegistry) IsCovering(v uint8, side face.Face) bool {
	if v == slab {
		return side == face.Bottom
	}
	return v == stone || v == dirt
}

func (r *testRegistry) Center() mgl32.Vec3           { return mgl32.Vec3{} }
func (r *testRegistry) VoxelDimensions() mgl32.Vec3  { return mgl32.Vec3{1, 1, 1} }
func (r *testRegistry) Attributes() []mesh.Attribute { return testAttrs }

func filled(d grid.Dimensions, v uint8) []uint8 {
	g := make([]uint8, d.Volume())
	for i := range g {
		g[i] = v
	}
	return g
}

// checkConsistent verifies the invariants tying the mesh to its reverse
// index: one index entry per quad, every quad's vertices matching the
// template face moved to its voxel, and the index buffer made of the
// canonical pattern only.
func checkConsistent(t *testing.T, m *mesh.Mesh, md *Metadata[uint8], reg *testRegistry, voxels []uint8) {
	t.Helper()
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	quads := md.Index.Len()
	if m.VertexCount() != quads*VerticesPerQuad {
		t.Fatalf("%d vertices for %d quads", m.VertexCount(), quads)
	}
	if len(m.Indices) != quads*IndicesPerQuad {
		t.Fatalf("%d indices for %d quads", len(m.Indices), quads)
	}
	for q := 0; q < quads; q++ {
		for k, p := range quadPattern {
			if got := m.Indices[q*IndicesPerQuad+k]; got != uint32(q*VerticesPerQuad)+p {
				t.Fatalf("index %d = %d, want %d", q*IndicesPerQuad+k, got, uint32(q*VerticesPerQuad)+p)
			}
		}
	}

	pos := m.Positions()
	seen := 0
	for i := range md.Index.Voxels() {
		vm := reg.Mesh(voxels[i])
		if vm.Kind != NormalCube {
			t.Fatalf("voxel %d (%d) has quads but is not a cube", i, voxels[i])
		}
		l := classify(vm.Template, reg.Center())
		tpos := vm.Template.Positions()
		offset := md.Dims.Offset(i, reg.VoxelDimensions())
		for _, q := range md.Index.Quads(i) {
			seen++
			if q.Vertex%VerticesPerQuad != 0 {
				t.Fatalf("voxel %d %v quad starts at unaligned vertex %d", i, q.Face, q.Vertex)
			}
			if f, owner, ok := md.Index.Owner(q.Vertex); !ok || f != q.Face || owner != i {
				t.Fatalf("vertex %d maps back to %v/%d, want %v/%d", q.Vertex, f, owner, q.Face, i)
			}
			for k, tv := range l.verts[q.Face] {
				want := tpos[tv].Add(offset)
				if got := pos[int(q.Vertex)+k]; !got.ApproxEqual(want) {
					t.Fatalf("voxel %d %v vertex %d at %v, want %v", i, q.Face, k, got, want)
				}
			}
		}
	}
	if seen != quads {
		t.Fatalf("per-voxel lists hold %d quads, reverse map %d", seen, quads)
	}
}

// checkMatchesFresh compares an edited mesh against regenerating voxels from scratch.
func checkMatchesFresh(t *testing.T, md *Metadata[uint8], reg *testRegistry, voxels []uint8) {
	t.Helper()
	_, fresh := Generate(md.Dims, voxels, reg, Options{OuterLayer: md.OuterLayer})
	for i := 0; i < md.Dims.Volume(); i++ {
		if got, want := md.Index.Present(i), fresh.Index.Present(i); got != want {
			t.Fatalf("voxel %d (%v) has faces %v, regenerating gives %v", i, md.Dims.Coords(i), got, want)
		}
		if got, want := md.Occupied(i), fresh.Occupied(i); got != want {
			t.Fatalf("voxel %d occupancy %v, regenerating gives %v", i, got, want)
		}
	}
}
