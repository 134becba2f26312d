// Package shading darkens voxel faces by how crowded the space in front of
// them is, a cheap stand-in for ambient occlusion.
//
// All passes only rewrite the Color attribute of quads that already exist;
// vertex and index counts never change.
package shading

import (
	"fmt"
	"math"

	"voxmesh/internal/face"
	"voxmesh/internal/grid"
	"voxmesh/internal/mesh"
	"voxmesh/internal/meshing"
	"voxmesh/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// Geometry places voxels in space: where a voxel's template is centered and
// how large a voxel is.
type Geometry struct {
	Center    mgl32.Vec3
	VoxelSize mgl32.Vec3
}

// GeometryOf reads the geometry of a registry.
func GeometryOf[V comparable](reg meshing.Registry[V]) Geometry {
	return Geometry{Center: reg.Center(), VoxelSize: reg.VoxelDimensions()}
}

// ApplyQuad shades the quad on face f of voxel. near marks which of the six
// cells around the cell in front of the face are occupied.
func ApplyQuad[V comparable](m *mesh.Mesh, md *meshing.Metadata[V], voxel int, f face.Face, near face.Faces, p meshing.ShadingParams, g Geometry) {
	first, ok := md.Index.Lookup(f, voxel)
	if !ok {
		panic(fmt.Sprintf("shading: voxel %d has no %v quad", voxel, f))
	}
	pos := m.Positions()
	colors := mesh.Slice[mgl32.Vec4](m, mesh.Color)
	center := md.Dims.Offset(voxel, g.VoxelSize).Add(g.Center)

	for k := 0; k < meshing.VerticesPerQuad; k++ {
		v := int(first) + k
		diff := pos[v].Sub(center)
		var dark float32
		for _, side := range face.All {
			if !near[side] {
				continue
			}
			d := diff[side.Axis()]
			toward := d > 0
			if !side.Positive() {
				toward = d < 0
			}
			// a neighbor of the cell in front counts for the vertices on its
			// side, except along the face's own axis where it counts for the
			// vertices away from it
			if (side == f) != toward {
				dark += p.Intensity
			}
		}
		shade := 1 - float32(math.Pow(float64(min(dark, 1)), float64(p.Smoothing)))
		shade = max(shade, p.Min)
		colors[v] = mgl32.Vec4{shade, shade, shade, colors[v].W()}
	}
}

// Apply shades every quad of voxels lo..hi (inclusive) of the chunk using
// the chunk's own occupancy. Quads with nothing around them are reset to
// full brightness. It does nothing when md carries no shading parameters.
func Apply[V comparable](m *mesh.Mesh, md *meshing.Metadata[V], g Geometry, lo, hi int) {
	defer profiling.Track("shading.Apply")()

	if md.Shading == nil {
		return
	}
	p := *md.Shading
	lo = max(lo, 0)
	hi = min(hi, md.Dims.Volume()-1)
	for i, ok := md.Occupancy.NextOccupied(lo); ok && i <= hi; i, ok = md.Occupancy.NextOccupied(i + 1) {
		for _, q := range md.Index.Quads(i) {
			front, ok := md.Dims.Neighbor(i, q.Face)
			if !ok {
				continue
			}
			var near face.Faces
			for _, side := range face.All {
				if n, ok := md.Dims.Neighbor(front, side); ok && md.Occupied(n) {
					near[side] = true
				}
			}
			ApplyQuad(m, md, i, q.Face, near, p, g)
		}
	}
}

// ApplyAll shades the whole chunk.
func ApplyAll[V comparable](m *mesh.Mesh, md *meshing.Metadata[V], g Geometry) {
	Apply(m, md, g, 0, md.Dims.Volume()-1)
}

// ApplyAround reshades the neighborhood of an edited voxel: every voxel
// whose shading can depend on it.
func ApplyAround[V comparable](m *mesh.Mesh, md *meshing.Metadata[V], g Geometry, voxel int) {
	reach := 2 * md.Dims.Width * md.Dims.Length
	Apply(m, md, g, voxel-reach, voxel+reach)
}

// ApplyBoundary shades the quads on side using the voxels of the adjacent
// chunk, which Apply cannot see. Call it after stitching and after every edit
// near the border: quads the adjacent chunk no longer darkens are reset.
func ApplyBoundary[V comparable](m *mesh.Mesh, md *meshing.Metadata[V], reg meshing.Registry[V], side face.Face, adjacent []V) {
	defer profiling.Track("shading.ApplyBoundary")()

	if md.Shading == nil {
		return
	}
	if len(adjacent) != md.Dims.Volume() {
		panic(fmt.Sprintf("shading: adjacent grid has %d voxels, chunk has %d", len(adjacent), md.Dims.Volume()))
	}
	g := GeometryOf(reg)
	for i := range md.Dims.Boundary(side) {
		if _, ok := md.Index.Lookup(side, i); !ok {
			continue
		}
		front := md.Dims.NeighborAcrossChunk(i, side)
		near := coveredAround(md.Dims, adjacent, reg, front)
		ApplyQuad(m, md, i, side, near, *md.Shading, g)
	}
}

// ClearBoundary resets the quads on side to full brightness, for a side with
// no chunk next to it.
func ClearBoundary[V comparable](m *mesh.Mesh, md *meshing.Metadata[V], side face.Face) {
	if md.Shading == nil {
		return
	}
	colors := mesh.Slice[mgl32.Vec4](m, mesh.Color)
	for i := range md.Dims.Boundary(side) {
		first, ok := md.Index.Lookup(side, i)
		if !ok {
			continue
		}
		for v := int(first); v < int(first)+meshing.VerticesPerQuad; v++ {
			colors[v] = mgl32.Vec4{1, 1, 1, colors[v].W()}
		}
	}
}

// coveredAround marks the neighbors of cell that block their side facing it.
func coveredAround[V comparable](d grid.Dimensions, voxels []V, reg meshing.Registry[V], cell int) face.Faces {
	var out face.Faces
	for _, side := range face.All {
		if n, ok := d.Neighbor(cell, side); ok && reg.IsCovering(voxels[n], side.Opposite()) {
			out[side] = true
		}
	}
	return out
}
