package main

import (
	"context"
	"testing"

	"voxmesh/internal/grid"
	"voxmesh/internal/mesh"
	"voxmesh/internal/meshing"
	"voxmesh/internal/registry"
	"voxmesh/internal/terrain"
	"voxmesh/internal/world"
)

func TestCompareFailsOnStaleMesh(t *testing.T) {
	reg := registry.Default(nil, []mesh.Attribute{mesh.Normal})
	pool := meshing.NewWorkerPool[registry.BlockType](reg, 2, 4)
	defer pool.Shutdown()

	ctx := context.Background()
	dims := grid.Dimensions{Width: 4, Height: 8, Length: 4}
	w := world.New(dims, reg, meshing.Options{})
	coords := around(1)
	if err := w.Load(ctx, pool, terrain.NewGenerator(3), coords); err != nil {
		t.Fatal(err)
	}
	if err := w.Set(grid.Coords{X: 1, Y: dims.Height - 1, Z: 2}, registry.BlockTypeCobblestone); err != nil {
		t.Fatal(err)
	}
	if err := compare(ctx, w, pool, coords); err != nil {
		t.Fatalf("world edited through Set differs from a fresh mesh: %v", err)
	}

	// change a voxel without telling the mesh
	c := w.GetChunk(meshing.ChunkCoord{0, 0})
	i := dims.Index(grid.Coords{X: 2, Y: dims.Height - 1, Z: 2})
	if c.Voxels[i] == registry.BlockTypeAir {
		c.Voxels[i] = registry.BlockTypeStone
	} else {
		c.Voxels[i] = registry.BlockTypeAir
	}
	if err := compare(ctx, w, pool, coords); err == nil {
		t.Fatal("compare accepted a chunk whose mesh no longer matches its voxels")
	}
}
