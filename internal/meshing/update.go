package meshing

import (
	"fmt"

	"voxmesh/internal/face"
	"voxmesh/internal/mesh"
	"voxmesh/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// Update applies every pending change of md to m, in the order they were
// logged, and empties the log. It refuses, leaving both untouched, when
// custom geometry is involved.
func Update[V comparable](m *mesh.Mesh, md *Metadata[V], reg Registry[V]) error {
	defer profiling.Track("meshing.Update")()

	if md.Custom {
		return ErrCustomGeometry
	}
	for k := 0; k < md.pending.Len(); k++ {
		c := md.pending.At(k)
		if c.Kind == Added || c.Kind == AddFaces {
			if reg.Mesh(c.Voxel).Kind == CustomMesh {
				return ErrCustomGeometry
			}
		}
	}

	u := &updater[V]{emitter: newEmitter(reg, m, md.Index), md: md}
	for md.pending.Len() > 0 {
		c := md.pending.PopFront()
		switch c.Kind {
		case Added:
			u.added(c)
		case Broken:
			u.broken(c)
		case CullFaces:
			u.cullFaces(c)
		case AddFaces:
			u.addFaces(c)
		}
	}
	return nil
}

type updater[V comparable] struct {
	*emitter[V]
	md *Metadata[V]
}

func (u *updater[V]) offset(i int) mgl32.Vec3 {
	return u.md.Dims.Offset(i, u.size)
}

// emit adds faces of voxel v at index i if v is a cube.
func (u *updater[V]) emit(v V, i int, faces face.Faces) {
	vm := u.reg.Mesh(v)
	if vm.Kind != NormalCube || !faces.Any() {
		return
	}
	u.emitFaces(vm.Template, i, u.offset(i), faces)
}

func (u *updater[V]) removeAll(i int) {
	for _, f := range face.All {
		u.removeFace(i, f)
	}
}

// sync records in the occupancy encoding whether voxel i still has geometry.
func (u *updater[V]) sync(i int) {
	if err := u.md.Occupancy.Set(i, u.index.Present(i).Any()); err != nil {
		panic(fmt.Sprintf("meshing: occupancy of voxel %d: %v", i, err))
	}
}

func (u *updater[V]) added(c Change[V]) {
	u.removeAll(c.Index)

	var exposed face.Faces
	for _, f := range face.All {
		nb := c.Neighbors[f]
		if nb.Present {
			exposed[f] = !u.reg.IsCovering(nb.Voxel, f.Opposite())
		} else {
			exposed[f] = !u.md.OuterLayer[f]
		}
	}
	u.emit(c.Voxel, c.Index, exposed)
	u.sync(c.Index)

	for _, f := range face.All {
		if !c.Neighbors[f].Present || !u.reg.IsCovering(c.Voxel, f) {
			continue
		}
		n, ok := u.md.Dims.Neighbor(c.Index, f)
		if !ok {
			continue
		}
		if u.removeFace(n, f.Opposite()) {
			u.sync(n)
		}
	}
}

func (u *updater[V]) broken(c Change[V]) {
	u.removeAll(c.Index)
	u.sync(c.Index)

	for _, f := range face.All {
		nb := c.Neighbors[f]
		if !nb.Present || !u.reg.IsCovering(c.Voxel, f) {
			continue
		}
		n, ok := u.md.Dims.Neighbor(c.Index, f)
		if !ok {
			continue
		}
		u.emit(nb.Voxel, n, face.Only(f.Opposite()))
		u.sync(n)
	}
}

func (u *updater[V]) cullFaces(c Change[V]) {
	for _, f := range face.All {
		if c.Neighbors[f].Present {
			u.removeFace(c.Index, f)
		}
	}
	u.sync(c.Index)
}

func (u *updater[V]) addFaces(c Change[V]) {
	var faces face.Faces
	for _, f := range face.All {
		faces[f] = c.Neighbors[f].Present
	}
	u.emit(c.Voxel, c.Index, faces)
	u.sync(c.Index)
}
