// Package world keeps meshed chunks side by side. It stitches neighboring
// chunks, shades them, and applies voxel edits so that meshes on both sides
// of a chunk border stay correct.
package world

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"voxmesh/internal/face"
	"voxmesh/internal/grid"
	"voxmesh/internal/meshing"
	"voxmesh/internal/profiling"
	"voxmesh/internal/registry"
	"voxmesh/internal/shading"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrNoChunk     = errors.New("world: no chunk at that position")
	ErrOutOfBounds = errors.New("world: position above or below the chunks")
	ErrPoolClosed  = errors.New("world: mesh pool is shut down")
)

var sides = [...]face.Face{face.Right, face.Left, face.Back, face.Forward}

func neighborCoord(c meshing.ChunkCoord, side face.Face) meshing.ChunkCoord {
	switch side {
	case face.Right:
		c[0]++
	case face.Left:
		c[0]--
	case face.Back:
		c[1]++
	case face.Forward:
		c[1]--
	}
	return c
}

// Source fills the voxels of a chunk. *terrain.Generator is one.
type Source interface {
	Fill(dims grid.Dimensions, coord meshing.ChunkCoord) []registry.BlockType
}

// SourceFunc adapts a function to Source.
type SourceFunc func(dims grid.Dimensions, coord meshing.ChunkCoord) []registry.BlockType

func (f SourceFunc) Fill(dims grid.Dimensions, coord meshing.ChunkCoord) []registry.BlockType {
	return f(dims, coord)
}

type World struct {
	*ChunkStore
	dims grid.Dimensions
	reg  *registry.Registry
	opts meshing.Options
	geo  shading.Geometry

	// mu serializes edits, stitching and voxel reads.
	mu sync.Mutex
}

func New(dims grid.Dimensions, reg *registry.Registry, opts meshing.Options) *World {
	if !dims.Valid() {
		panic(fmt.Sprintf("world: invalid chunk dimensions %v", dims))
	}
	return &World{
		ChunkStore: NewChunkStore(),
		dims:       dims,
		reg:        reg,
		opts:       opts,
		geo:        shading.GeometryOf[registry.BlockType](reg),
	}
}

func (w *World) Dims() grid.Dimensions { return w.dims }

func (w *World) Registry() *registry.Registry { return w.reg }

// Options returns the meshing options every chunk is generated with.
func (w *World) Options() meshing.Options { return w.opts }

// Translation is where the origin of chunk coord sits in world space.
func (w *World) Translation(coord meshing.ChunkCoord) mgl32.Vec3 {
	s := w.geo.VoxelSize
	return mgl32.Vec3{
		float32(coord[0]*w.dims.Width) * s[0],
		0,
		float32(coord[1]*w.dims.Length) * s[2],
	}
}

func (w *World) locate(p grid.Coords) (meshing.ChunkCoord, int, bool) {
	chunk, local, ok := grid.ChunkOf(p, w.dims)
	if !ok {
		return meshing.ChunkCoord{}, 0, false
	}
	return meshing.ChunkCoord(chunk), w.dims.Index(local), true
}

// Get returns the block at world position p, air where nothing is loaded.
func (w *World) Get(p grid.Coords) registry.BlockType {
	coord, i, ok := w.locate(p)
	if !ok {
		return registry.BlockTypeAir
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if c := w.GetChunk(coord); c != nil {
		return c.Voxels[i]
	}
	return registry.BlockTypeAir
}

// Solid reports whether the block at p has any geometry.
func (w *World) Solid(p grid.Coords) bool {
	return w.reg.Mesh(w.Get(p)).Kind != meshing.NullMesh
}

// Load fills the chunks at coords from src, meshes them on pool and
// stitches them to each other and to chunks already loaded. Coordinates
// already loaded are skipped.
func (w *World) Load(ctx context.Context, pool *meshing.WorkerPool[registry.BlockType], src Source, coords []meshing.ChunkCoord) error {
	defer profiling.Track("world.Load")()

	grids := make(map[meshing.ChunkCoord][]registry.BlockType, len(coords))
	for _, c := range coords {
		if !w.HasChunk(c) {
			grids[c] = nil
		}
	}
	results := make(chan meshing.MeshResult[registry.BlockType], len(grids))
	for c := range grids {
		voxels := src.Fill(w.dims, c)
		grids[c] = voxels
		job := meshing.MeshJob[registry.BlockType]{Coord: c, Dims: w.dims, Voxels: voxels, Options: w.opts, ResultChan: results}
		if !pool.SubmitJobBlocking(job) {
			return ErrPoolClosed
		}
	}

	var errs []error
	fresh := make([]*Chunk, 0, len(grids))
	for pending := len(grids); pending > 0; {
		select {
		case res := <-results:
			pending--
			if res.Error != nil {
				errs = append(errs, res.Error)
				continue
			}
			fresh = append(fresh, &Chunk{
				Coord:  res.Coord,
				Voxels: grids[res.Coord],
				Mesh:   res.Mesh,
				Meta:   res.Metadata,
				dirty:  true,
			})
		case <-pool.Done():
			// results delivered before the shutdown are still taken
			if len(results) == 0 {
				return ErrPoolClosed
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, c := range fresh {
		w.AddChunk(c)
	}
	if err := w.stitch(fresh); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// stitch culls the faces between fresh chunks and their neighbors, in both
// directions, then reshades every chunk that changed.
func (w *World) stitch(fresh []*Chunk) error {
	isFresh := make(map[meshing.ChunkCoord]bool, len(fresh))
	for _, c := range fresh {
		isFresh[c.Coord] = true
	}
	var errs []error
	touched := make(map[meshing.ChunkCoord]*Chunk)
	for _, c := range fresh {
		touched[c.Coord] = c
		for _, side := range sides {
			nb := w.GetChunk(neighborCoord(c.Coord, side))
			if nb == nil {
				continue
			}
			if err := w.introduce(c, side, nb); err != nil {
				errs = append(errs, err)
			}
			if !isFresh[nb.Coord] {
				if err := w.introduce(nb, side.Opposite(), c); err != nil {
					errs = append(errs, err)
				}
				touched[nb.Coord] = nb
			}
		}
	}
	for _, c := range touched {
		w.shade(c)
	}
	return errors.Join(errs...)
}

// introduce hides the faces of c covered by nb on side. Chunks holding
// custom geometry cannot be edited in place and keep their border faces.
func (w *World) introduce(c *Chunk, side face.Face, nb *Chunk) error {
	if c.Meta.Custom {
		return nil
	}
	if err := meshing.IntroduceAdjacentChunk(w.reg, c.Mesh, c.Meta, side, nb.Voxels); err != nil {
		return fmt.Errorf("stitching chunk %v to %v: %w", c.Coord, nb.Coord, err)
	}
	return nil
}

func (w *World) shade(c *Chunk) {
	shading.ApplyAll(c.Mesh, c.Meta, w.geo)
	w.shadeBorders(c)
}

// shadeBorders shades the border quads of c against the loaded neighbors
// and clears it where no neighbor is loaded.
func (w *World) shadeBorders(c *Chunk) {
	for _, side := range sides {
		if nb := w.GetChunk(neighborCoord(c.Coord, side)); nb != nil {
			shading.ApplyBoundary(c.Mesh, c.Meta, w.reg, side, nb.Voxels)
		} else {
			shading.ClearBoundary(c.Mesh, c.Meta, side)
		}
	}
	c.dirty = true
}

// rebuild meshes c from scratch and stitches it again. Edits that touch
// custom geometry end up here.
func (w *World) rebuild(c *Chunk) error {
	defer profiling.Track("world.rebuild")()
	c.Mesh, c.Meta = meshing.Generate(w.dims, c.Voxels, w.reg, w.opts)
	var errs []error
	for _, side := range sides {
		if nb := w.GetChunk(neighborCoord(c.Coord, side)); nb != nil {
			errs = append(errs, w.introduce(c, side, nb))
		}
	}
	w.shade(c)
	return errors.Join(errs...)
}

// Set places b at world position p, or removes the block there when b has
// no mesh. Meshes of the chunk and of any neighbor across the border are
// updated in place.
func (w *World) Set(p grid.Coords, b registry.BlockType) error {
	defer profiling.Track("world.Set")()

	coord, i, ok := w.locate(p)
	if !ok {
		return ErrOutOfBounds
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	c := w.GetChunk(coord)
	if c == nil {
		return ErrNoChunk
	}
	old := c.Voxels[i]
	if old == b {
		return nil
	}

	placing := w.reg.Mesh(b).Kind != meshing.NullMesh
	if w.reg.Mesh(old).Kind != meshing.NullMesh {
		c.Meta.Log(meshing.Broken, i, old, meshing.SnapshotNeighbors(w.dims, c.Voxels, i))
	}
	c.Voxels[i] = b
	if placing {
		c.Meta.Log(meshing.Added, i, b, meshing.SnapshotNeighbors(w.dims, c.Voxels, i))
	}

	type edit struct {
		chunk *Chunk
		index int
	}
	edits := []edit{{c, i}}
	for _, side := range sides {
		if !w.dims.OnEdge(i, side) {
			continue
		}
		nb := w.GetChunk(neighborCoord(coord, side))
		if nb == nil {
			continue
		}
		j := w.dims.NeighborAcrossChunk(i, side)
		nv := nb.Voxels[j]
		toward := side.Opposite()

		var here [face.Count]meshing.Neighbor[registry.BlockType]
		here[toward] = meshing.Neighbor[registry.BlockType]{Voxel: b, Present: true}
		if w.reg.IsCovering(b, side) {
			nb.Meta.Log(meshing.CullFaces, j, nv, here)
		} else if w.reg.Mesh(nv).Kind == meshing.NormalCube {
			nb.Meta.Log(meshing.AddFaces, j, nv, here)
		}
		if placing && w.reg.IsCovering(nv, toward) {
			var across [face.Count]meshing.Neighbor[registry.BlockType]
			across[side] = meshing.Neighbor[registry.BlockType]{Voxel: nv, Present: true}
			c.Meta.Log(meshing.CullFaces, i, b, across)
		}
		edits = append(edits, edit{nb, j})
	}

	var errs []error
	for _, e := range edits {
		err := meshing.Update(e.chunk.Mesh, e.chunk.Meta, w.reg)
		switch {
		case errors.Is(err, meshing.ErrCustomGeometry):
			log.Printf("world: chunk %v holds custom geometry, rebuilding", e.chunk.Coord)
			errs = append(errs, w.rebuild(e.chunk))
		case err != nil:
			errs = append(errs, err)
		default:
			shading.ApplyAround(e.chunk.Mesh, e.chunk.Meta, w.geo, e.index)
			w.shadeBorders(e.chunk)
		}
	}
	return errors.Join(errs...)
}

// Evict unloads the chunks at coords and returns how many were loaded.
// Loaded neighbors get back the border faces the evicted chunks were
// hiding, and their border shading is cleared.
func (w *World) Evict(coords ...meshing.ChunkCoord) (int, error) {
	defer profiling.Track("world.Evict")()
	w.mu.Lock()
	defer w.mu.Unlock()

	gone := make(map[meshing.ChunkCoord]bool, len(coords))
	for _, coord := range coords {
		if w.RemoveChunk(coord) {
			gone[coord] = true
		}
	}
	touched := make(map[meshing.ChunkCoord]*Chunk)
	for coord := range gone {
		for _, side := range sides {
			nb := w.GetChunk(neighborCoord(coord, side))
			if nb == nil {
				continue
			}
			w.expose(nb, side.Opposite())
			touched[nb.Coord] = nb
		}
	}

	var errs []error
	for _, c := range touched {
		err := meshing.Update(c.Mesh, c.Meta, w.reg)
		switch {
		case errors.Is(err, meshing.ErrCustomGeometry):
			errs = append(errs, w.rebuild(c))
		case err != nil:
			errs = append(errs, err)
		default:
			w.shade(c)
		}
	}
	return len(gone), errors.Join(errs...)
}

// EvictFarChunks unloads the chunks outside the given radius around
// (cx, cz). Returns number of removed chunks.
func (w *World) EvictFarChunks(cx, cz, radius int) (int, error) {
	return w.Evict(w.FarChunks(cx, cz, radius)...)
}

// expose logs the faces of c on side that were hidden by a chunk that is no
// longer there. A side treated as covered off the grid stays hidden.
func (w *World) expose(c *Chunk, side face.Face) {
	if w.opts.OuterLayer[side] {
		return
	}
	var open [face.Count]meshing.Neighbor[registry.BlockType]
	open[side] = meshing.Neighbor[registry.BlockType]{Voxel: registry.BlockTypeAir, Present: true}
	for i := range w.dims.Boundary(side) {
		if v := c.Voxels[i]; w.reg.Mesh(v).Kind == meshing.NormalCube {
			c.Meta.Log(meshing.AddFaces, i, v, open)
		}
	}
}

// TakeDirty returns the chunks whose meshes changed since the last call.
func (w *World) TakeDirty() []*Chunk {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []*Chunk
	for _, c := range w.GetAllChunks() {
		if c.dirty {
			c.dirty = false
			out = append(out, c)
		}
	}
	return out
}
