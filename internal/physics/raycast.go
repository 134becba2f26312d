// Package physics picks voxels with rays.
package physics

import (
	"math"

	"voxmesh/internal/grid"
	"voxmesh/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	MinReachDistance = 0.1
	MaxReachDistance = 64.0
)

// Volume answers whether a cell blocks rays. Cells outside the volume should
// report false.
type Volume interface {
	Solid(c grid.Coords) bool
}

// VolumeFunc adapts a function to Volume.
type VolumeFunc func(c grid.Coords) bool

func (f VolumeFunc) Solid(c grid.Coords) bool { return f(c) }

// RaycastResult stores the result of a raycast operation
type RaycastResult struct {
	Hit      grid.Coords
	Adjacent grid.Coords
	Distance float32
	Found    bool
}

// Raycast marches from start along direction in small steps and reports the
// first solid cell. Cells are unit cubes centered on integer coordinates.
func Raycast(start, direction mgl32.Vec3, minDist, maxDist float32, v Volume) RaycastResult {
	defer profiling.Track("physics.Raycast")()
	const stepSize = float32(0.02)
	steps := int(maxDist / stepSize)
	direction = direction.Normalize()

	var last grid.Coords
	for i := 0; i <= steps; i++ {
		dist := float32(i) * stepSize
		if dist < minDist {
			continue
		}
		pos := start.Add(direction.Mul(dist))
		cell := grid.Coords{X: round(pos.X()), Y: round(pos.Y()), Z: round(pos.Z())}
		if v.Solid(cell) {
			return RaycastResult{Hit: cell, Adjacent: last, Distance: dist, Found: true}
		}
		last = cell
	}
	return RaycastResult{}
}

func round(f float32) int {
	return int(math.Floor(float64(f) + 0.5))
}
