package world

import (
	"cmp"
	"slices"
	"sync"

	"voxmesh/internal/mesh"
	"voxmesh/internal/meshing"
	"voxmesh/internal/registry"
)

// Chunk is one column of voxels with its mesh and metadata.
type Chunk struct {
	Coord  meshing.ChunkCoord
	Voxels []registry.BlockType
	Mesh   *mesh.Mesh
	Meta   *meshing.Metadata[registry.BlockType]
	dirty  bool
}

// ChunkStore manages the storage and retrieval of chunks.
type ChunkStore struct {
	chunks   map[meshing.ChunkCoord]*Chunk
	mu       sync.RWMutex
	modCount uint64 // Increases on any chunk add/remove
}

// NewChunkStore creates a new chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{chunks: make(map[meshing.ChunkCoord]*Chunk)}
}

// GetChunk returns the chunk at coord, or nil.
func (cs *ChunkStore) GetChunk(coord meshing.ChunkCoord) *Chunk {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.chunks[coord]
}

// HasChunk checks if a chunk exists.
func (cs *ChunkStore) HasChunk(coord meshing.ChunkCoord) bool {
	return cs.GetChunk(coord) != nil
}

// AddChunk adds a meshed chunk, replacing any chunk at the same coordinates.
func (cs *ChunkStore) AddChunk(chunk *Chunk) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.chunks[chunk.Coord] = chunk
	cs.modCount++
}

// GetAllChunks returns every chunk ordered by coordinates.
func (cs *ChunkStore) GetAllChunks() []*Chunk {
	cs.mu.RLock()
	out := make([]*Chunk, 0, len(cs.chunks))
	for _, c := range cs.chunks {
		out = append(out, c)
	}
	cs.mu.RUnlock()
	slices.SortFunc(out, func(a, b *Chunk) int {
		if c := cmp.Compare(a.Coord[0], b.Coord[0]); c != 0 {
			return c
		}
		return cmp.Compare(a.Coord[1], b.Coord[1])
	})
	return out
}

// GetModCount returns a counter that changes whenever chunks are added or removed.
func (cs *ChunkStore) GetModCount() uint64 {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.modCount
}

// FarChunks returns the coordinates of chunks outside the given radius
// around (cx, cz), in no particular order.
func (cs *ChunkStore) FarChunks(cx, cz, radius int) []meshing.ChunkCoord {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	var far []meshing.ChunkCoord
	for coord := range cs.chunks {
		dx := coord[0] - cx
		dz := coord[1] - cz
		if dx*dx+dz*dz > radius*radius {
			far = append(far, coord)
		}
	}
	return far
}

// RemoveChunk drops the chunk at coord and reports whether one was there.
func (cs *ChunkStore) RemoveChunk(coord meshing.ChunkCoord) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if _, ok := cs.chunks[coord]; !ok {
		return false
	}
	delete(cs.chunks, coord)
	cs.modCount++
	return true
}
