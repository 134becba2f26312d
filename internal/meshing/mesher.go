package meshing

import (
	"fmt"

	"voxmesh/internal/face"
	"voxmesh/internal/grid"
	"voxmesh/internal/mesh"
	"voxmesh/internal/profiling"
)

// Algorithm picks how exposure is decided.
type Algorithm uint8

const (
	// Culling emits only faces that no neighbor covers.
	Culling Algorithm = iota
	// Naive emits every face of every voxel.
	Naive
)

func (a Algorithm) String() string {
	if a == Naive {
		return "naive"
	}
	return "culling"
}

// Options control Generate.
type Options struct {
	Algorithm Algorithm
	// OuterLayer marks grid sides whose faces are treated as covered. A side
	// left false is rendered at the chunk edge.
	OuterLayer face.Faces
	Shading    *ShadingParams
}

// Generate meshes a whole grid. voxels is indexed y*(Width*Length) + z*Width + x
// and must hold exactly dims.Volume() values.
func Generate[V comparable](dims grid.Dimensions, voxels []V, reg Registry[V], opts Options) (*mesh.Mesh, *Metadata[V]) {
	defer profiling.Track("meshing.Generate")()

	if !dims.Valid() || len(voxels) != dims.Volume() {
		panic(fmt.Sprintf("meshing: grid of %d voxels does not match dimensions %v", len(voxels), dims))
	}

	m := mesh.New(reg.Attributes()...)
	md := newMetadata[V](dims, opts)
	e := newEmitter(reg, m, md.Index)

	for i, v := range voxels {
		exposed := exposure(dims, voxels, reg, i, opts)
		if !exposed.Any() {
			md.Occupancy.Push(false, 1)
			continue
		}
		vm := reg.Mesh(v)
		offset := dims.Offset(i, e.size)
		switch vm.Kind {
		case NormalCube:
			n := e.emitFaces(vm.Template, i, offset, exposed)
			md.Occupancy.Push(n > 0, 1)
		case CustomMesh:
			e.emitWhole(vm.Template, offset)
			md.Custom = true
			md.Occupancy.Push(true, 1)
		default:
			md.Occupancy.Push(false, 1)
		}
	}
	return m, md
}

// exposure decides which faces of voxel i can be seen.
func exposure[V comparable](dims grid.Dimensions, voxels []V, reg Registry[V], i int, opts Options) face.Faces {
	if opts.Algorithm == Naive {
		return face.AllFaces
	}
	var exposed face.Faces
	for _, f := range face.All {
		n, ok := dims.Neighbor(i, f)
		if !ok {
			exposed[f] = !opts.OuterLayer[f]
			continue
		}
		exposed[f] = !reg.IsCovering(voxels[n], f.Opposite())
	}
	return exposed
}
