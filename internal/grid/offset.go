package grid

import (
	"math"

	"voxmesh/internal/face"

	"github.com/go-gl/mathgl/mgl32"
)

// Offset is the result of walking a signed offset from a voxel. When the walk
// leaves the chunk horizontally, Index is the wrapped index inside the adjacent
// chunk and Crossing names which neighbor chunk that is.
type Offset struct {
	Index    int
	Crossing face.Direction
	Crossed  bool
}

// OffsetBy walks (dx, dy, dz) voxels from voxel i. Horizontal moves wrap into
// the neighboring chunk; it reports false when the walk leaves the grid
// vertically or any component is at least as large as the chunk on that axis.
func (d Dimensions) OffsetBy(i, dx, dy, dz int) (Offset, bool) {
	if i < 0 || i >= d.Volume() {
		return Offset{}, false
	}
	if abs(dx) >= d.Width || abs(dy) >= d.Height || abs(dz) >= d.Length {
		return Offset{}, false
	}
	c := d.Coords(i)
	y := c.Y + dy
	if y < 0 || y >= d.Height {
		return Offset{}, false
	}
	x, z := c.X+dx, c.Z+dz
	cx, cz := floorDiv(x, d.Width), floorDiv(z, d.Length)
	dir, crossed := face.DirectionFromDelta(cx, cz)
	idx := d.Index(Coords{X: mod(x, d.Width), Y: y, Z: mod(z, d.Length)})
	return Offset{Index: idx, Crossing: dir, Crossed: crossed}, true
}

// WorldToChunk returns the horizontal chunk coordinates containing a world
// position, for chunks laid out on the x/z plane and voxels centered on
// integer positions.
func WorldToChunk(pos mgl32.Vec3, d Dimensions) [2]int {
	x := float64(pos.X()) + 0.5
	z := float64(pos.Z()) + 0.5
	return [2]int{
		int(math.Floor(x / float64(d.Width))),
		int(math.Floor(z / float64(d.Length))),
	}
}

// WorldToLocal splits a world position into its chunk and the voxel
// coordinates inside that chunk. It reports false when the height lies outside
// the chunk; the horizontal parts are valid either way.
func WorldToLocal(pos mgl32.Vec3, d Dimensions) ([2]int, Coords, bool) {
	chunk := WorldToChunk(pos, d)
	x := float64(pos.X()) + 0.5
	y := float64(pos.Y()) + 0.5
	z := float64(pos.Z()) + 0.5
	local := Coords{
		X: int(math.Floor(x - float64(chunk[0]*d.Width))),
		Y: int(math.Floor(y)),
		Z: int(math.Floor(z - float64(chunk[1]*d.Length))),
	}
	return chunk, local, local.Y >= 0 && local.Y < d.Height
}

// ChunkOf splits integer world coordinates into the horizontal chunk
// coordinates and the voxel inside that chunk. It reports false when the
// height lies outside the chunk.
func ChunkOf(p Coords, d Dimensions) ([2]int, Coords, bool) {
	chunk := [2]int{floorDiv(p.X, d.Width), floorDiv(p.Z, d.Length)}
	local := Coords{X: mod(p.X, d.Width), Y: p.Y, Z: mod(p.Z, d.Length)}
	return chunk, local, p.Y >= 0 && p.Y < d.Height
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
