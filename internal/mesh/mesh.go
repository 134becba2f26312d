// Package mesh holds indexed triangle meshes with an ordered, lock-stepped set
// of vertex attributes.
package mesh

import (
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is a triangle list. Every attribute column has one value per vertex.
type Mesh struct {
	attrs   []Attribute
	values  []Values
	Indices []uint32
}

// New creates an empty mesh carrying attrs in the given order. Position is
// prepended when missing.
func New(attrs ...Attribute) *Mesh {
	if !slices.Contains(attrs, Position) {
		attrs = append([]Attribute{Position}, attrs...)
	}
	m := &Mesh{}
	for _, a := range attrs {
		if m.Has(a) {
			panic(fmt.Sprintf("mesh: attribute %v declared twice", a))
		}
		m.attrs = append(m.attrs, a)
		m.values = append(m.values, newValues(a.Format))
	}
	return m
}

// Attributes returns the attribute set in declaration order.
func (m *Mesh) Attributes() []Attribute {
	return slices.Clone(m.attrs)
}

// Has reports whether the mesh carries attribute a.
func (m *Mesh) Has(a Attribute) bool {
	return slices.Contains(m.attrs, a)
}

// SameLayout reports whether both meshes declare the same attributes in the same order.
func (m *Mesh) SameLayout(o *Mesh) bool {
	return slices.Equal(m.attrs, o.attrs)
}

// HasLayout reports whether the mesh declares exactly attrs, in that order,
// allowing Position to be implied.
func (m *Mesh) HasLayout(attrs []Attribute) bool {
	if !slices.Contains(attrs, Position) {
		attrs = append([]Attribute{Position}, attrs...)
	}
	return slices.Equal(m.attrs, attrs)
}

// Values returns the column of attribute a.
func (m *Mesh) Values(a Attribute) (Values, bool) {
	i := slices.Index(m.attrs, a)
	if i < 0 {
		return nil, false
	}
	return m.values[i], true
}

// Slice returns the backing slice of attribute a. Elements may be modified in
// place; the length must not be changed through it. It panics when the mesh
// lacks a or T does not match its Format.
func Slice[T any](m *Mesh, a Attribute) []T {
	v, ok := m.Values(a)
	if !ok {
		panic(fmt.Sprintf("mesh: no attribute %v", a))
	}
	b, ok := v.(*Buffer[T])
	if !ok {
		panic(fmt.Sprintf("mesh: attribute %v requested with the wrong element type", a))
	}
	return b.Data
}

// Set replaces the data of attribute a. Callers building a mesh by hand must
// keep every column the same length.
func Set[T any](m *Mesh, a Attribute, data []T) {
	v, ok := m.Values(a)
	if !ok {
		panic(fmt.Sprintf("mesh: no attribute %v", a))
	}
	b, ok := v.(*Buffer[T])
	if !ok {
		panic(fmt.Sprintf("mesh: attribute %v set with the wrong element type", a))
	}
	b.Data = data
}

// Positions returns the position column.
func (m *Mesh) Positions() []mgl32.Vec3 {
	return Slice[mgl32.Vec3](m, Position)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return m.values[0].Len()
}

// AppendVertices copies the listed vertices of src onto the end of m. The
// layouts must match.
func (m *Mesh) AppendVertices(src *Mesh, indices []int) {
	if !m.SameLayout(src) {
		panic(fmt.Sprintf("mesh: attribute sets differ: %v vs %v", m.attrs, src.attrs))
	}
	for k, v := range m.values {
		v.AppendFrom(src.values[k], indices)
	}
}

// Translate adds offset to the positions of vertices [from, VertexCount).
func (m *Mesh) Translate(from int, offset mgl32.Vec3) {
	pos := m.Positions()
	for i := from; i < len(pos); i++ {
		pos[i] = pos[i].Add(offset)
	}
}

// SwapVertices exchanges vertices i and j in every column.
func (m *Mesh) SwapVertices(i, j int) {
	for _, v := range m.values {
		v.Swap(i, j)
	}
}

// RemoveVertices deletes vertices [lo, hi), shifting later vertices down.
// Indices are left untouched.
func (m *Mesh) RemoveVertices(lo, hi int) {
	for _, v := range m.values {
		v.RemoveRange(lo, hi)
	}
}

// TruncateVertices keeps the first n vertices.
func (m *Mesh) TruncateVertices(n int) {
	for _, v := range m.values {
		v.Truncate(n)
	}
}

// PopIndices drops the last n indices.
func (m *Mesh) PopIndices(n int) {
	if n > len(m.Indices) {
		panic(fmt.Sprintf("mesh: cannot pop %d of %d indices", n, len(m.Indices)))
	}
	m.Indices = m.Indices[:len(m.Indices)-n]
}

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		attrs:   slices.Clone(m.attrs),
		values:  make([]Values, len(m.values)),
		Indices: slices.Clone(m.Indices),
	}
	for k, v := range m.values {
		c.values[k] = v.Clone()
	}
	return c
}

// Validate checks that every column has the same length and that the index
// buffer describes whole triangles over existing vertices.
func (m *Mesh) Validate() error {
	n := m.VertexCount()
	for k, v := range m.values {
		if v.Len() != n {
			return fmt.Errorf("mesh: attribute %v has %d values, position has %d", m.attrs[k], v.Len(), n)
		}
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh: %d indices is not a whole number of triangles", len(m.Indices))
	}
	for k, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("mesh: index %d at %d out of range for %d vertices", idx, k, n)
		}
	}
	return nil
}

// Triangles groups the index buffer into triangles, e.g. for building a
// collision shape.
func (m *Mesh) Triangles() [][3]uint32 {
	tris := make([][3]uint32, 0, len(m.Indices)/3)
	for i := 0; i+2 < len(m.Indices); i += 3 {
		tris = append(tris, [3]uint32{m.Indices[i], m.Indices[i+1], m.Indices[i+2]})
	}
	return tris
}
