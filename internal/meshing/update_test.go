package meshing

import (
	"errors"
	"math/rand"
	"testing"

	"voxmesh/internal/face"
	"voxmesh/internal/grid"
	"voxmesh/internal/mesh"
	"voxmesh/internal/occupancy"
)

var unit = grid.Dimensions{Width: 1, Height: 1, Length: 1}

func TestBreakOnlyVoxel(t *testing.T) {
	reg := newTestRegistry()
	voxels := []uint8{stone}
	m, md := Generate(unit, voxels, reg, Options{})

	md.Log(Broken, 0, stone, [face.Count]Neighbor[uint8]{})
	if err := Update(m, md, reg); err != nil {
		t.Fatal(err)
	}
	if m.VertexCount() != 0 || len(m.Indices) != 0 {
		t.Fatalf("got %d vertices and %d indices, want none", m.VertexCount(), len(m.Indices))
	}
	if md.Index.Len() != 0 {
		t.Fatalf("reverse index still holds %d quads", md.Index.Len())
	}
	if md.Occupied(0) {
		t.Error("broken voxel still occupied")
	}
	if md.Pending() != 0 {
		t.Errorf("%d changes left in the log", md.Pending())
	}
}

func TestAddNextToSolid(t *testing.T) {
	reg := newTestRegistry()
	dims := grid.Dimensions{Width: 2, Height: 1, Length: 1}
	voxels := []uint8{stone, air}
	m, md := Generate(dims, voxels, reg, Options{})

	voxels[1] = dirt
	md.Log(Added, 1, dirt, SnapshotNeighbors(dims, voxels, 1))
	if err := Update(m, md, reg); err != nil {
		t.Fatal(err)
	}
	if got := md.Index.Len(); got != 10 {
		t.Fatalf("quads = %d, want 10", got)
	}
	if md.Index.Present(0)[face.Right] {
		t.Error("stone kept the face now hidden by dirt")
	}
	checkConsistent(t, m, md, reg, voxels)
	checkMatchesFresh(t, md, reg, voxels)
}

func TestBreakRevealsNeighbors(t *testing.T) {
	reg := newTestRegistry()
	dims := grid.Dimensions{Width: 3, Height: 3, Length: 3}
	voxels := filled(dims, stone)
	m, md := Generate(dims, voxels, reg, Options{})

	center := dims.Index(grid.Coords{X: 1, Y: 1, Z: 1})
	voxels[center] = air
	md.Log(Broken, center, stone, SnapshotNeighbors(dims, voxels, center))
	if err := Update(m, md, reg); err != nil {
		t.Fatal(err)
	}
	// 54 outside faces plus the 6 faces around the hole
	if got := md.Index.Len(); got != 60 {
		t.Fatalf("quads = %d, want 60", got)
	}
	checkConsistent(t, m, md, reg, voxels)
	checkMatchesFresh(t, md, reg, voxels)
}

func TestAddedFollowsOuterLayer(t *testing.T) {
	reg := newTestRegistry()
	dims := grid.Dimensions{Width: 2, Height: 2, Length: 1}
	outer := face.Faces{face.Bottom: true}
	voxels := filled(dims, air)
	m, md := Generate(dims, voxels, reg, Options{OuterLayer: outer})

	voxels[0] = stone
	md.Log(Added, 0, stone, SnapshotNeighbors(dims, voxels, 0))
	if err := Update(m, md, reg); err != nil {
		t.Fatal(err)
	}
	if md.Index.Present(0)[face.Bottom] {
		t.Error("bottom face emitted although the bottom edge is covered")
	}
	if got := md.Index.Present(0).Count(); got != 5 {
		t.Errorf("%d faces, want 5", got)
	}
	checkConsistent(t, m, md, reg, voxels)
	checkMatchesFresh(t, md, reg, voxels)
}

func TestCullAndAddFaces(t *testing.T) {
	reg := newTestRegistry()
	m, md := Generate(unit, []uint8{stone}, reg, Options{})

	var which [face.Count]Neighbor[uint8]
	which[face.Top] = Neighbor[uint8]{Voxel: stone, Present: true}
	which[face.Left] = Neighbor[uint8]{Voxel: stone, Present: true}
	md.Log(CullFaces, 0, stone, which)
	if err := Update(m, md, reg); err != nil {
		t.Fatal(err)
	}
	present := md.Index.Present(0)
	if present[face.Top] || present[face.Left] || present.Count() != 4 {
		t.Fatalf("after CullFaces present = %v", present)
	}
	checkConsistent(t, m, md, reg, []uint8{stone})

	md.Log(AddFaces, 0, stone, which)
	// asking twice must not duplicate
	md.Log(AddFaces, 0, stone, which)
	if err := Update(m, md, reg); err != nil {
		t.Fatal(err)
	}
	if md.Index.Present(0) != face.AllFaces {
		t.Fatalf("after AddFaces present = %v", md.Index.Present(0))
	}
	checkConsistent(t, m, md, reg, []uint8{stone})
}

func TestUpdateRefusesCustomGeometry(t *testing.T) {
	reg := newTestRegistry()
	dims := grid.Dimensions{Width: 2, Height: 1, Length: 1}

	m, md := Generate(dims, []uint8{stone, slab}, reg, Options{})
	md.Log(Broken, 0, stone, [face.Count]Neighbor[uint8]{})
	before := m.VertexCount()
	if err := Update(m, md, reg); !errors.Is(err, ErrCustomGeometry) {
		t.Fatalf("err = %v, want ErrCustomGeometry", err)
	}
	if m.VertexCount() != before || md.Pending() != 1 {
		t.Error("refused update changed the mesh or dropped the log")
	}

	voxels := []uint8{stone, air}
	m, md = Generate(dims, voxels, reg, Options{})
	md.Log(Broken, 0, stone, SnapshotNeighbors(dims, voxels, 0))
	md.Log(Added, 1, slab, SnapshotNeighbors(dims, voxels, 1))
	before = m.VertexCount()
	if err := Update(m, md, reg); !errors.Is(err, ErrCustomGeometry) {
		t.Fatalf("err = %v, want ErrCustomGeometry", err)
	}
	if m.VertexCount() != before || md.Index.Len() != 6 {
		t.Error("refused update applied the earlier change")
	}
}

func TestLogOutOfRangePanics(t *testing.T) {
	_, md := Generate(unit, []uint8{stone}, newTestRegistry(), Options{})
	defer func() {
		if recover() == nil {
			t.Fatal("logging index 1 in a 1 voxel grid did not panic")
		}
	}()
	md.Log(Added, 1, stone, [face.Count]Neighbor[uint8]{})
}

func TestUpdateAttributeMismatchPanics(t *testing.T) {
	reg := newTestRegistry()
	m, md := Generate(unit, []uint8{stone}, reg, Options{})
	other := &attrRegistry{testRegistry: reg}
	md.Log(Broken, 0, stone, [face.Count]Neighbor[uint8]{})
	defer func() {
		if recover() == nil {
			t.Fatal("mismatched attribute sets did not panic")
		}
	}()
	_ = Update(m, md, other)
}

func TestUpdateOccupancyOutOfSyncPanics(t *testing.T) {
	reg := newTestRegistry()
	m, md := Generate(unit, []uint8{stone}, reg, Options{})
	md.Occupancy = &occupancy.RLE{}
	md.Log(Broken, 0, stone, [face.Count]Neighbor[uint8]{})
	defer func() {
		if recover() == nil {
			t.Fatal("occupancy shorter than the grid did not panic")
		}
	}()
	_ = Update(m, md, reg)
}

type attrRegistry struct{ *testRegistry }

func (r *attrRegistry) Attributes() []mesh.Attribute { return nil }

// TestFullCycle breaks every solid voxel and places it back, each with the
// neighbor snapshot of the original grid, and expects the same quad count.
func TestFullCycle(t *testing.T) {
	reg := newTestRegistry()
	dims := grid.Dimensions{Width: 4, Height: 4, Length: 4}
	rng := rand.New(rand.NewSource(1))
	voxels := make([]uint8, dims.Volume())
	var solid []int
	for i := range voxels {
		if rng.Intn(3) > 0 {
			voxels[i] = stone
			solid = append(solid, i)
		}
	}
	m, md := Generate(dims, voxels, reg, Options{})
	verts, indices := m.VertexCount(), len(m.Indices)

	snapshots := make(map[int][face.Count]Neighbor[uint8], len(solid))
	for _, i := range solid {
		snapshots[i] = SnapshotNeighbors(dims, voxels, i)
	}
	rng.Shuffle(len(solid), func(a, b int) { solid[a], solid[b] = solid[b], solid[a] })
	for _, i := range solid {
		md.Log(Broken, i, stone, snapshots[i])
	}
	if err := Update(m, md, reg); err != nil {
		t.Fatal(err)
	}
	rng.Shuffle(len(solid), func(a, b int) { solid[a], solid[b] = solid[b], solid[a] })
	for _, i := range solid {
		md.Log(Added, i, stone, snapshots[i])
	}
	if err := Update(m, md, reg); err != nil {
		t.Fatal(err)
	}
	if m.VertexCount() != verts || len(m.Indices) != indices {
		t.Fatalf("after the cycle %d/%d, originally %d/%d", m.VertexCount(), len(m.Indices), verts, indices)
	}
	checkConsistent(t, m, md, reg, voxels)
	checkMatchesFresh(t, md, reg, voxels)
}

// TestRandomEdits applies single edits one Update at a time, so both removal
// strategies run at many positions, and compares against regenerating.
func TestRandomEdits(t *testing.T) {
	reg := newTestRegistry()
	dims := grid.Dimensions{Width: 5, Height: 4, Length: 3}
	rng := rand.New(rand.NewSource(42))
	voxels := make([]uint8, dims.Volume())
	for i := range voxels {
		voxels[i] = uint8(rng.Intn(3))
	}
	outer := face.Faces{face.Bottom: true}
	m, md := Generate(dims, voxels, reg, Options{OuterLayer: outer})

	for step := 0; step < 300; step++ {
		i := rng.Intn(len(voxels))
		if voxels[i] == air {
			voxels[i] = stone + uint8(rng.Intn(2))
			md.Log(Added, i, voxels[i], SnapshotNeighbors(dims, voxels, i))
		} else {
			old := voxels[i]
			voxels[i] = air
			md.Log(Broken, i, old, SnapshotNeighbors(dims, voxels, i))
		}
		if err := Update(m, md, reg); err != nil {
			t.Fatal(err)
		}
		checkConsistent(t, m, md, reg, voxels)
		checkMatchesFresh(t, md, reg, voxels)
	}
}

func TestRemovalStrategies(t *testing.T) {
	reg := newTestRegistry()
	dims := grid.Dimensions{Width: 8, Height: 1, Length: 1}
	voxels := make([]uint8, dims.Volume())
	for i := 0; i < len(voxels); i += 2 {
		voxels[i] = stone
	}

	t.Run("swap with the last quad", func(t *testing.T) {
		v := append([]uint8(nil), voxels...)
		m, md := Generate(dims, v, reg, Options{})
		first, _ := md.Index.Lookup(face.Top, 0)
		lastVertex := uint32(m.VertexCount() - VerticesPerQuad)
		lastFace, lastVoxel, _ := md.Index.Owner(lastVertex)

		var which [face.Count]Neighbor[uint8]
		which[face.Top] = Neighbor[uint8]{Voxel: stone, Present: true}
		md.Log(CullFaces, 0, stone, which)
		if err := Update(m, md, reg); err != nil {
			t.Fatal(err)
		}
		if got, _ := md.Index.Lookup(lastFace, lastVoxel); got != first {
			t.Fatalf("last quad moved to %d, want the hole at %d", got, first)
		}
		checkConsistent(t, m, md, reg, v)
	})

	t.Run("compact near the tail", func(t *testing.T) {
		v := append([]uint8(nil), voxels...)
		m, md := Generate(dims, v, reg, Options{})
		last := len(v) - 2
		target, _ := md.Index.Lookup(face.Top, last)
		// the quads after the removed one keep their order
		type owner struct {
			face  face.Face
			voxel int
		}
		var after []owner
		for w := int(target) + VerticesPerQuad; w < m.VertexCount(); w += VerticesPerQuad {
			f, voxel, _ := md.Index.Owner(uint32(w))
			after = append(after, owner{f, voxel})
		}

		var which [face.Count]Neighbor[uint8]
		which[face.Top] = Neighbor[uint8]{Voxel: stone, Present: true}
		md.Log(CullFaces, last, stone, which)
		if err := Update(m, md, reg); err != nil {
			t.Fatal(err)
		}
		for k, q := range after {
			want := target + uint32(k*VerticesPerQuad)
			if got, _ := md.Index.Lookup(q.face, q.voxel); got != want {
				t.Fatalf("quad %d of the tail at %d, want %d", k, got, want)
			}
		}
		checkConsistent(t, m, md, reg, v)
	})
}
