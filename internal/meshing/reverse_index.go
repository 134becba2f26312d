package meshing

import (
	"fmt"
	"iter"

	"voxmesh/internal/face"
)

// Tagged values carry a face in their top 3 bits and a voxel or vertex index
// in the remaining 29.
const (
	tagShift   = 29
	payloadMax = 1 << tagShift
	tagMask    = uint32(0b111) << tagShift
)

func tag(f face.Face, payload int) uint32 {
	if payload < 0 || payload >= payloadMax {
		panic(fmt.Sprintf("meshing: index %d does not fit in 29 bits", payload))
	}
	return f.TagBits() | uint32(payload)
}

func untag(v uint32) (face.Face, int) {
	return face.FromTagBits(v & tagMask), int(v &^ tagMask)
}

// Quad locates one emitted face of a voxel.
type Quad struct {
	Face   face.Face
	Vertex uint32
}

// ReverseIndex maps (voxel, face) to the first of the four vertices of the
// emitted quad, and each first vertex back to its voxel.
type ReverseIndex struct {
	byVoxel  [][]uint32        // voxel -> tagged first vertices
	byVertex map[uint32]uint32 // first vertex -> tagged voxel
}

// NewReverseIndex returns an empty index for a grid of volume voxels.
func NewReverseIndex(volume int) *ReverseIndex {
	return &ReverseIndex{
		byVoxel:  make([][]uint32, volume),
		byVertex: make(map[uint32]uint32),
	}
}

// Insert records that face f of voxel starts at vertex.
func (r *ReverseIndex) Insert(f face.Face, voxel int, vertex uint32) {
	if _, ok := r.byVertex[vertex]; ok {
		panic(fmt.Sprintf("meshing: vertex %d is already tracked", vertex))
	}
	if _, ok := r.Lookup(f, voxel); ok {
		panic(fmt.Sprintf("meshing: voxel %d already has a %v quad", voxel, f))
	}
	r.byVoxel[voxel] = append(r.byVoxel[voxel], tag(f, int(vertex)))
	r.byVertex[vertex] = tag(f, voxel)
}

// Lookup returns the first vertex of face f of voxel, if emitted.
func (r *ReverseIndex) Lookup(f face.Face, voxel int) (uint32, bool) {
	for _, t := range r.byVoxel[voxel] {
		if tf, v := untag(t); tf == f {
			return uint32(v), true
		}
	}
	return 0, false
}

// Owner returns the voxel and face of the quad starting at vertex.
func (r *ReverseIndex) Owner(vertex uint32) (face.Face, int, bool) {
	t, ok := r.byVertex[vertex]
	if !ok {
		return 0, 0, false
	}
	f, voxel := untag(t)
	return f, voxel, true
}

// Relocate moves the quad starting at old so it starts at new.
func (r *ReverseIndex) Relocate(old, new uint32) {
	t, ok := r.byVertex[old]
	if !ok {
		panic(fmt.Sprintf("meshing: relocating untracked vertex %d", old))
	}
	if _, taken := r.byVertex[new]; taken {
		panic(fmt.Sprintf("meshing: relocating %d onto tracked vertex %d", old, new))
	}
	f, voxel := untag(t)
	list := r.byVoxel[voxel]
	want := tag(f, int(old))
	for k := range list {
		if list[k] == want {
			list[k] = tag(f, int(new))
			break
		}
	}
	delete(r.byVertex, old)
	r.byVertex[new] = t
}

// Remove forgets the quad starting at vertex and returns who owned it.
func (r *ReverseIndex) Remove(vertex uint32) (face.Face, int) {
	t, ok := r.byVertex[vertex]
	if !ok {
		panic(fmt.Sprintf("meshing: removing untracked vertex %d", vertex))
	}
	f, voxel := untag(t)
	list := r.byVoxel[voxel]
	want := tag(f, int(vertex))
	for k := range list {
		if list[k] == want {
			list[k] = list[len(list)-1]
			r.byVoxel[voxel] = list[:len(list)-1]
			break
		}
	}
	delete(r.byVertex, vertex)
	return f, voxel
}

// Quads lists the emitted faces of voxel in no particular order.
func (r *ReverseIndex) Quads(voxel int) []Quad {
	out := make([]Quad, 0, len(r.byVoxel[voxel]))
	for _, t := range r.byVoxel[voxel] {
		f, v := untag(t)
		out = append(out, Quad{Face: f, Vertex: uint32(v)})
	}
	return out
}

// Present returns which faces of voxel are emitted.
func (r *ReverseIndex) Present(voxel int) face.Faces {
	var s face.Faces
	for _, t := range r.byVoxel[voxel] {
		f, _ := untag(t)
		s[f] = true
	}
	return s
}

// Len returns the number of tracked quads.
func (r *ReverseIndex) Len() int { return len(r.byVertex) }

// Volume returns the number of voxels the index was built for.
func (r *ReverseIndex) Volume() int { return len(r.byVoxel) }

// Voxels yields, in ascending order, every voxel with at least one quad.
func (r *ReverseIndex) Voxels() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i, list := range r.byVoxel {
			if len(list) > 0 && !yield(i) {
				return
			}
		}
	}
}
