package render

import (
	"voxmesh/internal/mesh"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex layout shared by the voxel shaders: position, normal, color.
const (
	floatsPerVertex = 3 + 3 + 4
	strideBytes     = floatsPerVertex * 4
)

// Interleave packs the Position, Normal and Color columns of m into one
// buffer in shader layout. Missing normals become zero and missing colors
// opaque white.
func Interleave(m *mesh.Mesh) []float32 {
	n := m.VertexCount()
	out := make([]float32, 0, n*floatsPerVertex)
	pos := m.Positions()
	var normals []mgl32.Vec3
	if m.Has(mesh.Normal) {
		normals = mesh.Slice[mgl32.Vec3](m, mesh.Normal)
	}
	var colors []mgl32.Vec4
	if m.Has(mesh.Color) {
		colors = mesh.Slice[mgl32.Vec4](m, mesh.Color)
	}
	for i := 0; i < n; i++ {
		out = append(out, pos[i][:]...)
		if normals != nil {
			out = append(out, normals[i][:]...)
		} else {
			out = append(out, 0, 0, 0)
		}
		if colors != nil {
			out = append(out, colors[i][:]...)
		} else {
			out = append(out, 1, 1, 1, 1)
		}
	}
	return out
}

// ChunkMesh is a chunk mesh uploaded to the GPU.
type ChunkMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
	Offset        mgl32.Vec3
}

// NewChunkMesh allocates the GL objects. Call Upload before drawing.
func NewChunkMesh(offset mgl32.Vec3) *ChunkMesh {
	c := &ChunkMesh{Offset: offset}
	gl.GenVertexArrays(1, &c.vao)
	gl.GenBuffers(1, &c.vbo)
	gl.GenBuffers(1, &c.ebo)

	gl.BindVertexArray(c.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, c.vbo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, c.ebo)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, strideBytes, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, strideBytes, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, strideBytes, gl.PtrOffset(6*4))
	gl.BindVertexArray(0)
	return c
}

// Upload replaces the buffers with the current contents of m.
func (c *ChunkMesh) Upload(m *mesh.Mesh) {
	c.indexCount = int32(len(m.Indices))
	if c.indexCount == 0 {
		return
	}
	data := Interleave(m)
	gl.BindVertexArray(c.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, c.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, c.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.DYNAMIC_DRAW)
	gl.BindVertexArray(0)
}

// Draw issues the draw call; the shader must be in use.
func (c *ChunkMesh) Draw(s *Shader) {
	if c.indexCount == 0 {
		return
	}
	s.SetVector3("offset", c.Offset)
	gl.BindVertexArray(c.vao)
	gl.DrawElements(gl.TRIANGLES, c.indexCount, gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)
}

func (c *ChunkMesh) Delete() {
	gl.DeleteBuffers(1, &c.ebo)
	gl.DeleteBuffers(1, &c.vbo)
	gl.DeleteVertexArrays(1, &c.vao)
}
