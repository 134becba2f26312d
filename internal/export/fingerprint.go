package export

import (
	"encoding/binary"
	"math"

	"voxmesh/internal/mesh"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// Fingerprint hashes the triangles of m: each triangle's vertex data in
// index order. The result does not depend on the order of triangles or
// where their vertices sit in the buffers, so a mesh that was edited in
// place fingerprints the same as one generated fresh from the same voxels.
func Fingerprint(m *mesh.Mesh) uint64 {
	attrs := m.Attributes()
	var sum uint64
	buf := make([]byte, 0, 256)
	for _, tri := range m.Triangles() {
		buf = buf[:0]
		for _, v := range tri {
			for _, a := range attrs {
				buf = appendValue(buf, m, a, int(v))
			}
		}
		sum += xxhash.Sum64(buf)
	}
	return sum
}

func appendValue(buf []byte, m *mesh.Mesh, a mesh.Attribute, i int) []byte {
	f32 := func(fs ...float32) []byte {
		for _, f := range fs {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
		}
		return buf
	}
	switch a.Format {
	case mesh.Float32:
		return f32(mesh.Slice[float32](m, a)[i])
	case mesh.Float32x2:
		return f32(mesh.Slice[mgl32.Vec2](m, a)[i][:]...)
	case mesh.Float32x3:
		return f32(mesh.Slice[mgl32.Vec3](m, a)[i][:]...)
	case mesh.Float32x4:
		return f32(mesh.Slice[mgl32.Vec4](m, a)[i][:]...)
	case mesh.Uint32:
		return binary.LittleEndian.AppendUint32(buf, mesh.Slice[uint32](m, a)[i])
	case mesh.Uint8x4:
		v := mesh.Slice[[4]uint8](m, a)[i]
		return append(buf, v[:]...)
	}
	return buf
}
