// Package blockmodel reads block model and blockstate JSON files in the
// resource pack layout (models/<name>.json, blockstates/<name>.json).
package blockmodel

import (
	"encoding/json"

	"voxmesh/internal/face"

	"github.com/go-gl/mathgl/mgl32"
)

// Model is one block model. Textures may reference each other with "#key".
type Model struct {
	Parent           string            `json:"parent"`
	AmbientOcclusion *bool             `json:"ambientocclusion"`
	Textures         map[string]string `json:"textures"`
	Elements         []Element         `json:"elements"`
}

// Element is an axis aligned box in 1/16th voxel units.
type Element struct {
	From     [3]float32      `json:"from"`
	To       [3]float32      `json:"to"`
	Rotation *Rotation       `json:"rotation"`
	Shade    *bool           `json:"shade"`
	Faces    map[string]Face `json:"faces"`
}

type Rotation struct {
	Origin  [3]float32 `json:"origin"`
	Angle   float32    `json:"angle"`
	Axis    string     `json:"axis"`
	Rescale bool       `json:"rescale"`
}

type Face struct {
	UV        [4]float32 `json:"uv"`
	Texture   string     `json:"texture"`
	CullFace  string     `json:"cullface"`
	Rotation  int        `json:"rotation"`
	TintIndex *int       `json:"tintindex"`
}

const epsilon = 0.001

// Full reports whether the element fills the whole 16^3 voxel.
func (e Element) Full() bool {
	for ax := 0; ax < 3; ax++ {
		if e.From[ax] > epsilon || e.To[ax] < 16-epsilon {
			return false
		}
	}
	return true
}

// Covers reports whether the element spans the whole side f of the voxel.
func (e Element) Covers(f face.Face) bool {
	ax := f.Axis()
	if f.Positive() && e.To[ax] < 16-epsilon {
		return false
	}
	if !f.Positive() && e.From[ax] > epsilon {
		return false
	}
	for other := 0; other < 3; other++ {
		if other == ax {
			continue
		}
		if e.From[other] > epsilon || e.To[other] < 16-epsilon {
			return false
		}
	}
	return true
}

// Bounds converts the element to a box inside a voxel of the given size
// centered on the origin.
func (e Element) Bounds(size mgl32.Vec3) (lo, hi mgl32.Vec3) {
	for ax := 0; ax < 3; ax++ {
		lo[ax] = (e.From[ax]/16 - 0.5) * size[ax]
		hi[ax] = (e.To[ax]/16 - 0.5) * size[ax]
	}
	return lo, hi
}

var directions = map[string]face.Face{
	"up":    face.Top,
	"down":  face.Bottom,
	"east":  face.Right,
	"west":  face.Left,
	"south": face.Back,
	"north": face.Forward,
}

// Direction maps a model face name ("up", "north", ...) to a voxel face.
func Direction(name string) (face.Face, bool) {
	f, ok := directions[name]
	return f, ok
}

// DirectionName is the inverse of Direction.
func DirectionName(f face.Face) string {
	for name, d := range directions {
		if d == f {
			return name
		}
	}
	return ""
}

// BlockState maps variants of a block to their models.
type BlockState struct {
	Variants map[string]BlockStateVariants `json:"variants"`
}

// BlockStateVariants accepts either a single variant object or an array.
type BlockStateVariants []Variant

func (v *BlockStateVariants) UnmarshalJSON(data []byte) error {
	var variants []Variant
	if err := json.Unmarshal(data, &variants); err == nil {
		*v = variants
		return nil
	}

	var single Variant
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*v = []Variant{single}
	return nil
}

type Variant struct {
	Model string `json:"model"`
}
