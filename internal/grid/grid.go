package grid

import (
	"fmt"
	"iter"

	"voxmesh/internal/face"

	"github.com/go-gl/mathgl/mgl32"
)

// Dimensions is the size of a chunk grid in voxels. Height is the up axis.
type Dimensions struct {
	Width, Height, Length int
}

// Coords locates a voxel inside a grid: X along the width, Y along the height,
// Z along the length.
type Coords struct {
	X, Y, Z int
}

// Volume returns Width*Height*Length.
func (d Dimensions) Volume() int {
	return d.Width * d.Height * d.Length
}

// Valid reports whether every dimension is positive.
func (d Dimensions) Valid() bool {
	return d.Width > 0 && d.Height > 0 && d.Length > 0
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%dx%d", d.Width, d.Height, d.Length)
}

// Contains reports whether c lies inside the grid.
func (d Dimensions) Contains(c Coords) bool {
	return c.X >= 0 && c.X < d.Width &&
		c.Y >= 0 && c.Y < d.Height &&
		c.Z >= 0 && c.Z < d.Length
}

// Coords converts a linear index into grid coordinates.
// The linear layout is y*(Width*Length) + z*Width + x.
func (d Dimensions) Coords(i int) Coords {
	layer := d.Width * d.Length
	if i < 0 || i >= d.Volume() {
		panic(fmt.Sprintf("grid: index %d out of bounds for %v", i, d))
	}
	y := i / layer
	rem := i - y*layer
	z := rem / d.Width
	x := rem - z*d.Width
	return Coords{X: x, Y: y, Z: z}
}

// Index converts grid coordinates into a linear index.
func (d Dimensions) Index(c Coords) int {
	if !d.Contains(c) {
		panic(fmt.Sprintf("grid: coordinates %+v out of bounds for %v", c, d))
	}
	return c.Y*(d.Width*d.Length) + c.Z*d.Width + c.X
}

// step returns the coordinate delta of moving one voxel through f.
func step(f face.Face) Coords {
	switch f {
	case face.Top:
		return Coords{Y: 1}
	case face.Bottom:
		return Coords{Y: -1}
	case face.Right:
		return Coords{X: 1}
	case face.Left:
		return Coords{X: -1}
	case face.Back:
		return Coords{Z: 1}
	default:
		return Coords{Z: -1}
	}
}

// Neighbor returns the index of the voxel sharing face f with voxel i.
// It reports false when that voxel would be outside the grid.
func (d Dimensions) Neighbor(i int, f face.Face) (int, bool) {
	c := d.Coords(i)
	s := step(f)
	n := Coords{X: c.X + s.X, Y: c.Y + s.Y, Z: c.Z + s.Z}
	if !d.Contains(n) {
		return 0, false
	}
	return d.Index(n), true
}

// OnEdge reports whether voxel i touches the chunk boundary on side f.
func (d Dimensions) OnEdge(i int, f face.Face) bool {
	_, ok := d.Neighbor(i, f)
	return !ok
}

// Edges returns every side on which voxel i touches the chunk boundary.
func (d Dimensions) Edges(i int) []face.Face {
	var edges []face.Face
	for _, f := range face.All {
		if d.OnEdge(i, f) {
			edges = append(edges, f)
		}
	}
	return edges
}

// NeighborAcrossChunk returns the index, inside the chunk adjacent on side f,
// of the voxel touching voxel i. Voxel i must lie on that edge and f must be
// horizontal: stacked chunks are not supported.
func (d Dimensions) NeighborAcrossChunk(i int, f face.Face) int {
	if !f.Horizontal() {
		panic(fmt.Sprintf("grid: vertical chunk neighbors are not supported (face %v)", f))
	}
	n, ok := d.NeighborAcrossChunkSafe(i, f)
	if !ok {
		panic(fmt.Sprintf("grid: voxel %d is not on the %v edge of %v", i, f, d))
	}
	return n
}

// NeighborAcrossChunkSafe is NeighborAcrossChunk that reports false instead of
// panicking.
func (d Dimensions) NeighborAcrossChunkSafe(i int, f face.Face) (int, bool) {
	if !f.Horizontal() || !d.OnEdge(i, f) {
		return 0, false
	}
	c := d.Coords(i)
	switch f {
	case face.Right:
		c.X = 0
	case face.Left:
		c.X = d.Width - 1
	case face.Back:
		c.Z = 0
	case face.Forward:
		c.Z = d.Length - 1
	}
	return d.Index(c), true
}

// CrossNeighbor pairs a side with the neighbor index across that side.
type CrossNeighbor struct {
	Face  face.Face
	Index int
}

// NeighborsAcrossChunks lists the voxels in adjacent chunks that touch voxel i.
// It is empty for voxels away from the horizontal edges.
func (d Dimensions) NeighborsAcrossChunks(i int) []CrossNeighbor {
	var out []CrossNeighbor
	for _, f := range d.Edges(i) {
		if n, ok := d.NeighborAcrossChunkSafe(i, f); ok {
			out = append(out, CrossNeighbor{Face: f, Index: n})
		}
	}
	return out
}

// Boundary yields, in ascending order, the indices of every voxel on side f.
// It visits only that side's plane.
func (d Dimensions) Boundary(f face.Face) iter.Seq[int] {
	xs, ys, zs := [2]int{0, d.Width}, [2]int{0, d.Height}, [2]int{0, d.Length}
	switch f {
	case face.Top:
		ys = [2]int{d.Height - 1, d.Height}
	case face.Bottom:
		ys = [2]int{0, 1}
	case face.Right:
		xs = [2]int{d.Width - 1, d.Width}
	case face.Left:
		xs = [2]int{0, 1}
	case face.Back:
		zs = [2]int{d.Length - 1, d.Length}
	case face.Forward:
		zs = [2]int{0, 1}
	}
	return func(yield func(int) bool) {
		for y := ys[0]; y < ys[1]; y++ {
			for z := zs[0]; z < zs[1]; z++ {
				for x := xs[0]; x < xs[1]; x++ {
					if !yield(d.Index(Coords{X: x, Y: y, Z: z})) {
						return
					}
				}
			}
		}
	}
}

// Offset converts voxel i into its physical position offset: coordinates scaled
// by the per-axis voxel size.
func (d Dimensions) Offset(i int, voxelSize mgl32.Vec3) mgl32.Vec3 {
	c := d.Coords(i)
	return mgl32.Vec3{
		float32(c.X) * voxelSize[0],
		float32(c.Y) * voxelSize[1],
		float32(c.Z) * voxelSize[2],
	}
}
