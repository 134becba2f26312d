package meshing

import (
	"fmt"

	"voxmesh/internal/face"
	"voxmesh/internal/mesh"
	"voxmesh/internal/profiling"
)

// IntroduceAdjacentChunk culls the faces of m that the neighboring chunk on
// side hides. adjacent is that chunk's grid, with the same dimensions. Only
// the voxels on side are visited. Chunks holding custom geometry are left
// alone and ErrCustomGeometry is returned.
func IntroduceAdjacentChunk[V comparable](reg Registry[V], m *mesh.Mesh, md *Metadata[V], side face.Face, adjacent []V) error {
	defer profiling.Track("meshing.IntroduceAdjacentChunk")()

	if !side.Horizontal() {
		panic(fmt.Sprintf("meshing: chunks cannot be stacked on the %v side", side))
	}
	if len(adjacent) != md.Dims.Volume() {
		panic(fmt.Sprintf("meshing: adjacent grid has %d voxels, chunk has %d", len(adjacent), md.Dims.Volume()))
	}
	if md.Custom {
		return ErrCustomGeometry
	}

	for i := range md.Dims.Boundary(side) {
		other := adjacent[md.Dims.NeighborAcrossChunk(i, side)]
		if !reg.IsCovering(other, side.Opposite()) {
			continue
		}
		var neighbors [face.Count]Neighbor[V]
		neighbors[side] = Neighbor[V]{Voxel: other, Present: true}
		md.Log(CullFaces, i, other, neighbors)
	}
	return Update(m, md, reg)
}
