package meshing

import (
	"testing"
	"time"

	"voxmesh/internal/grid"
)

func TestWorkerPoolMatchesGenerate(t *testing.T) {
	reg := newTestRegistry()
	pool := NewWorkerPool[uint8](reg, 3, 8)
	defer pool.Shutdown()

	dims := grid.Dimensions{Width: 4, Height: 3, Length: 4}
	results := make(chan MeshResult[uint8], 8)
	grids := map[ChunkCoord][]uint8{}
	for x := 0; x < 2; x++ {
		for z := 0; z < 2; z++ {
			c := ChunkCoord{x, z}
			voxels := make([]uint8, dims.Volume())
			for i := range voxels {
				if (i+x+z)%3 == 0 {
					voxels[i] = stone
				}
			}
			grids[c] = voxels
			pool.SubmitJobBlocking(MeshJob[uint8]{Coord: c, Dims: dims, Voxels: voxels, ResultChan: results})
		}
	}

	for range grids {
		select {
		case res := <-results:
			if res.Error != nil {
				t.Fatal(res.Error)
			}
			want, _ := Generate(dims, grids[res.Coord], reg, Options{})
			if res.Mesh.VertexCount() != want.VertexCount() || len(res.Mesh.Indices) != len(want.Indices) {
				t.Fatalf("chunk %v: pool gave %d/%d, Generate %d/%d", res.Coord,
					res.Mesh.VertexCount(), len(res.Mesh.Indices), want.VertexCount(), len(want.Indices))
			}
			checkConsistent(t, res.Mesh, res.Metadata, reg, grids[res.Coord])
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for mesh results")
		}
	}
}

func TestWorkerPoolRecoversPanics(t *testing.T) {
	pool := NewWorkerPool[uint8](newTestRegistry(), 1, 1)
	defer pool.Shutdown()

	results := make(chan MeshResult[uint8], 1)
	dims := grid.Dimensions{Width: 2, Height: 2, Length: 2}
	pool.SubmitJobBlocking(MeshJob[uint8]{Coord: ChunkCoord{7, 7}, Dims: dims, Voxels: make([]uint8, 3), ResultChan: results})

	select {
	case res := <-results:
		if res.Error == nil || res.Mesh != nil {
			t.Fatalf("bad job gave %+v, want an error", res)
		}
		if res.Coord != (ChunkCoord{7, 7}) {
			t.Errorf("coord = %v", res.Coord)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("worker died instead of reporting the panic")
	}
}

func TestWorkerPoolSubmitAfterShutdown(t *testing.T) {
	pool := NewWorkerPool[uint8](newTestRegistry(), 1, 0)
	pool.Shutdown()
	if pool.SubmitJob(MeshJob[uint8]{}) {
		t.Error("SubmitJob on a stopped pool with no queue should fail")
	}
	if pool.SubmitJobBlocking(MeshJob[uint8]{}) {
		t.Error("SubmitJobBlocking after Shutdown should report false")
	}
	if pool.QueueLength() != 0 {
		t.Errorf("QueueLength() = %d", pool.QueueLength())
	}
}

func TestWorkerPoolDone(t *testing.T) {
	pool := NewWorkerPool[uint8](newTestRegistry(), 1, 1)
	select {
	case <-pool.Done():
		t.Fatal("Done closed before Shutdown")
	default:
	}
	pool.Shutdown()
	select {
	case <-pool.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("Done not closed after Shutdown")
	}
}
