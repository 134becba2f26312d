package physics_test

import (
	"testing"

	"voxmesh/internal/grid"
	"voxmesh/internal/physics"

	"github.com/go-gl/mathgl/mgl32"
)

func single(at grid.Coords) physics.Volume {
	return physics.VolumeFunc(func(c grid.Coords) bool { return c == at })
}

func TestRaycast(t *testing.T) {
	w := single(grid.Coords{X: 5})
	start := mgl32.Vec3{0, 0, 0}

	result := physics.Raycast(start, mgl32.Vec3{1, 0, 0}, 0.1, 10, w)
	if !result.Found {
		t.Fatalf("Expected hit, got miss")
	}
	if result.Hit != (grid.Coords{X: 5}) {
		t.Errorf("Expected hit at {5,0,0}, got %v", result.Hit)
	}
	if result.Adjacent != (grid.Coords{X: 4}) {
		t.Errorf("Expected adjacent at {4,0,0}, got %v", result.Adjacent)
	}
	// the cell's near side is at x=4.5
	if result.Distance < 4.49 || result.Distance > 4.53 {
		t.Errorf("Expected distance 4.5, got %f", result.Distance)
	}

	if r := physics.Raycast(start, mgl32.Vec3{1, 0, 0}, 0.1, 4, w); r.Found {
		t.Errorf("Expected miss due to maxDist, got hit at %v", r.Hit)
	}
	if r := physics.Raycast(start, mgl32.Vec3{0, 1, 0}, 0.1, 10, w); r.Found {
		t.Errorf("Expected miss, got hit")
	}
}

func TestRaycastDiagonal(t *testing.T) {
	w := single(grid.Coords{X: 2, Y: 2, Z: 2})
	r := physics.Raycast(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, 0.1, 10, w)
	if !r.Found || r.Hit != (grid.Coords{X: 2, Y: 2, Z: 2}) {
		t.Fatalf("diagonal ray gave %+v", r)
	}
	d := r.Adjacent
	if d.X > 2 || d.Y > 2 || d.Z > 2 || d == r.Hit {
		t.Errorf("adjacent cell %v is not in front of the hit", d)
	}
}
