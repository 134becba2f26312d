package meshing

import (
	"errors"
	"fmt"

	"voxmesh/internal/face"
	"voxmesh/internal/grid"
	"voxmesh/internal/occupancy"

	"github.com/gammazero/deque"
)

// ErrCustomGeometry is returned by Update when the mesh holds, or the pending
// changes would add, custom-mesh voxels. Such chunks must be regenerated.
var ErrCustomGeometry = errors.New("meshing: incremental update of custom geometry is not supported")

// ChangeKind is the kind of a logged voxel change.
type ChangeKind uint8

const (
	// Added: a voxel was placed. Its faces are emitted and neighbor faces it
	// now hides are removed.
	Added ChangeKind = iota
	// Broken: a voxel was removed. Its faces go and neighbor faces it used to
	// hide are emitted.
	Broken
	// CullFaces removes the faces marked present in the snapshot, touching
	// nothing else.
	CullFaces
	// AddFaces emits the faces marked present in the snapshot, touching
	// nothing else.
	AddFaces
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "Added"
	case Broken:
		return "Broken"
	case CullFaces:
		return "CullFaces"
	case AddFaces:
		return "AddFaces"
	}
	return fmt.Sprintf("ChangeKind(%d)", uint8(k))
}

// Neighbor is one slot of a neighbor snapshot. Present is false for positions
// outside the grid.
type Neighbor[V comparable] struct {
	Voxel   V
	Present bool
}

// Change is one pending edit.
type Change[V comparable] struct {
	Kind      ChangeKind
	Index     int
	Voxel     V
	Neighbors [face.Count]Neighbor[V]
}

// Smoothing softens proximity shadows. Higher is softer.
type Smoothing float32

const (
	SmoothingDisabled Smoothing = 1.0
	SmoothingLow      Smoothing = 2.0
	SmoothingHigh     Smoothing = 2.5
	SmoothingVeryHigh Smoothing = 3.0
)

// ShadingParams configure proximity based shadowing. They are carried with
// the metadata so post-processing passes can be reapplied after edits.
type ShadingParams struct {
	// Intensity is how much each surrounding voxel darkens a vertex.
	Intensity float32
	// Min is the darkest a vertex may become.
	Min       float32
	Smoothing Smoothing
}

// DefaultShading is a soft look suited to unit voxels.
var DefaultShading = ShadingParams{Intensity: 0.15, Min: 0.35, Smoothing: SmoothingHigh}

// Metadata is the bookkeeping that lets a generated mesh be edited in place.
type Metadata[V comparable] struct {
	Dims       grid.Dimensions
	Index      *ReverseIndex
	Occupancy  *occupancy.RLE
	OuterLayer face.Faces
	Shading    *ShadingParams
	// Custom is set when any voxel was emitted from a custom mesh.
	Custom bool

	pending deque.Deque[Change[V]]
}

func newMetadata[V comparable](dims grid.Dimensions, opts Options) *Metadata[V] {
	return &Metadata[V]{
		Dims:       dims,
		Index:      NewReverseIndex(dims.Volume()),
		Occupancy:  &occupancy.RLE{},
		OuterLayer: opts.OuterLayer,
		Shading:    opts.Shading,
	}
}

// Log queues a change for the next Update. index must lie inside the grid.
func (md *Metadata[V]) Log(kind ChangeKind, index int, voxel V, neighbors [face.Count]Neighbor[V]) {
	if index < 0 || index >= md.Dims.Volume() {
		panic(fmt.Sprintf("meshing: logged index %d out of range for %v", index, md.Dims))
	}
	md.pending.PushBack(Change[V]{Kind: kind, Index: index, Voxel: voxel, Neighbors: neighbors})
}

// Pending returns the number of queued changes.
func (md *Metadata[V]) Pending() int { return md.pending.Len() }

// Occupied reports whether voxel i currently contributes geometry.
func (md *Metadata[V]) Occupied(i int) bool {
	v, _ := md.Occupancy.Get(i)
	return v
}

// SnapshotNeighbors records the six neighbors of voxel index as they are in
// voxels right now.
func SnapshotNeighbors[V comparable](dims grid.Dimensions, voxels []V, index int) [face.Count]Neighbor[V] {
	var out [face.Count]Neighbor[V]
	for _, f := range face.All {
		if n, ok := dims.Neighbor(index, f); ok {
			out[f] = Neighbor[V]{Voxel: voxels[n], Present: true}
		}
	}
	return out
}
