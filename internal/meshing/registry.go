package meshing

import (
	"voxmesh/internal/face"
	"voxmesh/internal/mesh"

	"github.com/go-gl/mathgl/mgl32"
)

// MeshKind selects how a voxel turns into geometry.
type MeshKind uint8

const (
	// NullMesh voxels produce nothing (air).
	NullMesh MeshKind = iota
	// NormalCube voxels are emitted face by face from a cube template and are
	// tracked by the reverse index.
	NormalCube
	// CustomMesh voxels are appended whole. They cannot be updated incrementally.
	CustomMesh
)

func (k MeshKind) String() string {
	switch k {
	case NullMesh:
		return "Null"
	case NormalCube:
		return "NormalCube"
	case CustomMesh:
		return "CustomMesh"
	}
	return "MeshKind(?)"
}

// VoxelMesh is what a registry returns for a voxel value.
// Template is nil for NullMesh.
type VoxelMesh struct {
	Kind     MeshKind
	Template *mesh.Mesh
}

// Registry describes how voxel values look. Templates are expected to be
// stable pointers so their face classification can be cached.
type Registry[V comparable] interface {
	Mesh(v V) VoxelMesh
	// IsCovering reports whether v hides whatever is behind its side.
	IsCovering(v V, side face.Face) bool
	// Center is the local origin templates are built around.
	Center() mgl32.Vec3
	VoxelDimensions() mgl32.Vec3
	// Attributes is the vertex layout of every template and of the output mesh.
	Attributes() []mesh.Attribute
}
