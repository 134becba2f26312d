// Package terrain fills voxel grids with generated landscape: a noise height
// map with dirt under grass, sand at the shore, bedrock at the floor and
// optional noise carved caves.
package terrain

import (
	"fmt"
	"math"

	"voxmesh/internal/config"
	"voxmesh/internal/grid"
	"voxmesh/internal/meshing"
	"voxmesh/internal/registry"
)

// Generator handles terrain generation logic.
type Generator struct {
	seed        int64
	scale       float64
	baseHeight  int
	amp         float64
	octaves     int
	persistence float64
	lacunarity  float64
	seaLevel    int
	caves       bool
	caveScale   float64
	caveCutoff  float64
}

// NewGenerator creates a generator with default settings.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		seed:        seed,
		scale:       1.0 / 64.0,
		baseHeight:  24,
		amp:         24,
		octaves:     4,
		persistence: 0.5,
		lacunarity:  2.0,
		seaLevel:    20,
		caves:       true,
		caveScale:   1.0 / 16.0,
		caveCutoff:  0.72,
	}
}

// FromConfig creates a generator using the world generation settings.
func FromConfig() *Generator {
	g := NewGenerator(config.GetSeed())
	g.seaLevel = config.GetSeaLevel()
	g.caves = config.GetCaves()
	return g
}

// WithCaves returns a copy of g with caves switched on or off.
func (g *Generator) WithCaves(enabled bool) *Generator {
	c := *g
	c.caves = enabled
	return &c
}

// HeightAt computes the surface height (block Y) at world X,Z.
func (g *Generator) HeightAt(worldX, worldZ int) int {
	x := float64(worldX) * g.scale
	z := float64(worldZ) * g.scale
	n := octaveNoise2D(x, z, g.seed, g.octaves, g.persistence, g.lacunarity)
	height := float64(g.baseHeight) + (n*2-1)*g.amp
	return max(int(math.Floor(height)), 0)
}

func (g *Generator) cave(worldX, worldY, worldZ int) bool {
	if !g.caves || worldY == 0 {
		return false
	}
	s := g.caveScale
	n := octaveNoise3D(float64(worldX)*s, float64(worldY)*s, float64(worldZ)*s, g.seed^0x5DEECE66D, 2, 0.5, 2.0)
	return n > g.caveCutoff
}

// Fill returns the voxels of the chunk at coord, laid out for the mesher.
// The chunk spans world X from coord[0]*Width and Z from coord[1]*Length;
// world Y starts at 0.
func (g *Generator) Fill(dims grid.Dimensions, coord meshing.ChunkCoord) []registry.BlockType {
	if !dims.Valid() {
		panic(fmt.Sprintf("terrain: invalid dimensions %v", dims))
	}
	voxels := make([]registry.BlockType, dims.Volume())
	for x := 0; x < dims.Width; x++ {
		for z := 0; z < dims.Length; z++ {
			wx := coord[0]*dims.Width + x
			wz := coord[1]*dims.Length + z
			height := g.HeightAt(wx, wz)
			top := min(height, dims.Height-1)
			for y := 0; y <= top; y++ {
				if g.cave(wx, y, wz) {
					continue
				}
				voxels[dims.Index(grid.Coords{X: x, Y: y, Z: z})] = g.blockAt(y, height)
			}
		}
	}
	return voxels
}

func (g *Generator) blockAt(y, height int) registry.BlockType {
	switch {
	case y == 0:
		return registry.BlockTypeBedrock
	case y == height && height <= g.seaLevel+1:
		return registry.BlockTypeSand
	case y == height:
		return registry.BlockTypeGrass
	case y >= height-3:
		return registry.BlockTypeDirt
	default:
		return registry.BlockTypeStone
	}
}
