package face

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Face identifies one of the six sides of a cubic voxel.
// The integer values are stable and double as array indices.
type Face uint8

const (
	Top Face = iota
	Bottom
	Right
	Left
	Back
	Forward
)

// Count is the number of faces of a voxel.
const Count = 6

// All lists every face in canonical order (Top, Bottom, Right, Left, Back, Forward).
// Emitted quads of a single voxel always follow this order.
var All = [Count]Face{Top, Bottom, Right, Left, Back, Forward}

// Axis indices used by Face.Axis.
const (
	AxisX = 0
	AxisY = 1
	AxisZ = 2
)

var faceNames = [Count]string{"Top", "Bottom", "Right", "Left", "Back", "Forward"}

// tagBits is the 3-bit pattern each face occupies in the top bits of a tagged
// vertex index.
var tagBits = [Count]uint32{
	Top:     0b101 << 29,
	Bottom:  0b100 << 29,
	Right:   0b011 << 29,
	Left:    0b010 << 29,
	Back:    0b001 << 29,
	Forward: 0b000 << 29,
}

// Opposite returns the face pointing the other way along the same axis.
func (f Face) Opposite() Face {
	switch f {
	case Top:
		return Bottom
	case Bottom:
		return Top
	case Right:
		return Left
	case Left:
		return Right
	case Back:
		return Forward
	case Forward:
		return Back
	}
	panic(fmt.Sprintf("face: invalid face %d", uint8(f)))
}

// Index returns the face as an integer in 0..5.
func (f Face) Index() int { return int(f) }

// FromIndex converts 0..5 back into a Face. Any other value is a programming error.
func FromIndex(i int) Face {
	if i < 0 || i >= Count {
		panic(fmt.Sprintf("face: index %d out of range 0..5", i))
	}
	return Face(i)
}

func (f Face) String() string {
	if int(f) < Count {
		return faceNames[f]
	}
	return fmt.Sprintf("Face(%d)", uint8(f))
}

// Axis returns the axis the face is perpendicular to: x for Right/Left,
// y for Top/Bottom, z for Back/Forward.
func (f Face) Axis() int {
	switch f {
	case Right, Left:
		return AxisX
	case Top, Bottom:
		return AxisY
	default:
		return AxisZ
	}
}

// Positive reports whether the face points along the positive direction of its axis.
func (f Face) Positive() bool {
	return f == Top || f == Right || f == Back
}

// Horizontal reports whether the face lies in the horizontal plane of chunks
// (every face except Top and Bottom).
func (f Face) Horizontal() bool {
	return f != Top && f != Bottom
}

// Normal returns the outward unit normal of the face.
func (f Face) Normal() mgl32.Vec3 {
	var n mgl32.Vec3
	if f.Positive() {
		n[f.Axis()] = 1
	} else {
		n[f.Axis()] = -1
	}
	return n
}

// TagBits returns the high-bit pattern used to tag a 32-bit vertex index with this face.
func (f Face) TagBits() uint32 {
	return tagBits[f]
}

// FromTagBits recovers the face from a tag pattern (the high 3 bits only).
func FromTagBits(bits uint32) Face {
	for f, b := range tagBits {
		if b == bits {
			return Face(f)
		}
	}
	panic(fmt.Sprintf("face: no face is tagged 0x%08x", bits))
}

// Faces is a per-face boolean set, indexed by Face.
type Faces [Count]bool

// AllFaces has every face set.
var AllFaces = Faces{true, true, true, true, true, true}

// Only returns a set with just f.
func Only(f Face) Faces {
	var s Faces
	s[f] = true
	return s
}

// Any reports whether at least one face is set.
func (s Faces) Any() bool {
	for _, b := range s {
		if b {
			return true
		}
	}
	return false
}

// Count returns the number of faces set.
func (s Faces) Count() int {
	n := 0
	for _, b := range s {
		if b {
			n++
		}
	}
	return n
}
