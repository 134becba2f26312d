package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Format is the storage shape of one vertex attribute value.
type Format uint8

const (
	Float32   Format = iota // float32
	Float32x2               // mgl32.Vec2
	Float32x3               // mgl32.Vec3
	Float32x4               // mgl32.Vec4
	Uint32                  // uint32
	Uint8x4                 // [4]uint8
)

func (f Format) String() string {
	switch f {
	case Float32:
		return "float32"
	case Float32x2:
		return "float32x2"
	case Float32x3:
		return "float32x3"
	case Float32x4:
		return "float32x4"
	case Uint32:
		return "uint32"
	case Uint8x4:
		return "uint8x4"
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// Components returns the number of scalars per value.
func (f Format) Components() int {
	switch f {
	case Float32, Uint32:
		return 1
	case Float32x2:
		return 2
	case Float32x3:
		return 3
	default:
		return 4
	}
}

// Attribute names a vertex attribute and its storage shape.
// Names follow glTF attribute semantics so exporters can use them directly.
type Attribute struct {
	Name   string
	Format Format
}

var (
	Position = Attribute{Name: "POSITION", Format: Float32x3}
	Normal   = Attribute{Name: "NORMAL", Format: Float32x3}
	UV0      = Attribute{Name: "TEXCOORD_0", Format: Float32x2}
	Color    = Attribute{Name: "COLOR_0", Format: Float32x4}
)

func (a Attribute) String() string {
	return a.Name + ":" + a.Format.String()
}

// newValues returns an empty buffer of the Go type matching f.
func newValues(f Format) Values {
	switch f {
	case Float32:
		return &Buffer[float32]{format: f}
	case Float32x2:
		return &Buffer[mgl32.Vec2]{format: f}
	case Float32x3:
		return &Buffer[mgl32.Vec3]{format: f}
	case Float32x4:
		return &Buffer[mgl32.Vec4]{format: f}
	case Uint32:
		return &Buffer[uint32]{format: f}
	case Uint8x4:
		return &Buffer[[4]uint8]{format: f}
	}
	panic(fmt.Sprintf("mesh: unknown attribute format %d", uint8(f)))
}

// Values is a type-erased attribute column. Buffer implements it once for
// every Format.
type Values interface {
	Len() int
	Format() Format
	// AppendFrom appends src[i] for every i in indices. src must have the same Format.
	AppendFrom(src Values, indices []int)
	Swap(i, j int)
	Truncate(n int)
	// RemoveRange deletes [lo, hi) keeping the order of what follows.
	RemoveRange(lo, hi int)
	Clone() Values
}

// Buffer is the typed column behind Values.
type Buffer[T any] struct {
	Data   []T
	format Format
}

func (b *Buffer[T]) Len() int       { return len(b.Data) }
func (b *Buffer[T]) Format() Format { return b.format }

func (b *Buffer[T]) AppendFrom(src Values, indices []int) {
	s, ok := src.(*Buffer[T])
	if !ok || s.format != b.format {
		panic(fmt.Sprintf("mesh: cannot append %v values into a %v column", src.Format(), b.format))
	}
	for _, i := range indices {
		b.Data = append(b.Data, s.Data[i])
	}
}

func (b *Buffer[T]) Swap(i, j int) {
	b.Data[i], b.Data[j] = b.Data[j], b.Data[i]
}

func (b *Buffer[T]) Truncate(n int) {
	b.Data = b.Data[:n]
}

func (b *Buffer[T]) RemoveRange(lo, hi int) {
	n := copy(b.Data[lo:], b.Data[hi:])
	b.Data = b.Data[:lo+n]
}

func (b *Buffer[T]) Clone() Values {
	data := make([]T, len(b.Data))
	copy(data, b.Data)
	return &Buffer[T]{Data: data, format: b.format}
}
