// Package registry describes block types and turns them into voxel templates
// for the mesher. A Registry implements meshing.Registry[BlockType].
package registry

import (
	"log"
	"path"

	"voxmesh/internal/cube"
	"voxmesh/internal/face"
	"voxmesh/internal/mesh"
	"voxmesh/internal/meshing"
	"voxmesh/pkg/blockmodel"

	"github.com/go-gl/mathgl/mgl32"
)

type BlockType uint16

const (
	BlockTypeAir BlockType = iota
	BlockTypeGrass
	BlockTypeDirt
	BlockTypeStone
	BlockTypeCobblestone
	BlockTypeBedrock
	BlockTypeSand
	BlockTypePlanksOak
	BlockTypeGlass
	BlockTypeSlab
)

// AtlasColumns and AtlasRows fix the texture atlas grid. Texture n sits in
// cell (n % AtlasColumns, n / AtlasColumns).
const (
	AtlasColumns = 16
	AtlasRows    = 16
)

// BlockDefinition defines the properties of a block type
type BlockDefinition struct {
	ID            BlockType
	Name          string
	TextureTop    string
	TextureSide   string
	TextureBot    string
	IsSolid       bool
	IsTransparent bool
	TintColor     uint32
	TintFaces     face.Faces
	// Elements are the boxes of a block model. A block with elements none of
	// which fills the voxel becomes a custom mesh.
	Elements []blockmodel.Element
}

// Registry holds block definitions and their prebuilt templates. Register
// everything before meshing; lookups are then safe from any goroutine.
type Registry struct {
	loader *blockmodel.Loader
	attrs  []mesh.Attribute
	size   mgl32.Vec3

	blocks       map[BlockType]*BlockDefinition
	names        map[string]BlockType
	textureNames []string
	textureMap   map[string]int
	meshes       map[BlockType]meshing.VoxelMesh
	covering     map[BlockType]face.Faces
}

// New creates an empty registry producing templates with attrs for voxels of
// the given size. loader may be nil, in which case block models are not read
// and definitions must name their textures.
func New(loader *blockmodel.Loader, attrs []mesh.Attribute, size mgl32.Vec3) *Registry {
	return &Registry{
		loader:     loader,
		attrs:      attrs,
		size:       size,
		blocks:     make(map[BlockType]*BlockDefinition),
		names:      make(map[string]BlockType),
		textureMap: make(map[string]int),
		meshes:     make(map[BlockType]meshing.VoxelMesh),
		covering:   make(map[BlockType]face.Faces),
	}
}

// RegisterBlock adds def and builds its template.
func (r *Registry) RegisterBlock(def *BlockDefinition) {
	if r.loader != nil && def.IsSolid {
		r.loadFromModel(def)
	}
	if def.IsSolid && def.TextureTop == "" && def.TextureSide == "" && def.TextureBot == "" {
		def.TextureTop = def.Name + ".png"
	}
	if def.TextureSide == "" {
		def.TextureSide = def.TextureTop
	}
	if def.TextureTop == "" {
		def.TextureTop = def.TextureSide
	}
	if def.TextureBot == "" {
		def.TextureBot = def.TextureTop
	}

	r.blocks[def.ID] = def
	r.names[def.Name] = def.ID
	r.registerTexture(def.TextureTop)
	r.registerTexture(def.TextureSide)
	r.registerTexture(def.TextureBot)
	for _, e := range def.Elements {
		for _, f := range e.Faces {
			r.registerTexture(textureFile(f.Texture))
		}
	}

	r.meshes[def.ID], r.covering[def.ID] = r.build(def)
}

func (r *Registry) loadFromModel(def *BlockDefinition) {
	state, err := r.loader.LoadBlockState(def.Name)
	if err != nil {
		log.Printf("registry: no blockstate for %s: %v", def.Name, err)
		return
	}
	name, ok := state.DefaultModel()
	if !ok {
		return
	}
	model, err := r.loader.LoadModel(name)
	if err != nil {
		log.Printf("registry: failed to load model %s for block %s: %v", name, def.Name, err)
		return
	}
	def.Elements = model.Elements

	for _, e := range model.Elements {
		if def.TextureTop == "" {
			if f, ok := e.Faces["up"]; ok {
				def.TextureTop = textureFile(f.Texture)
			}
		}
		if def.TextureBot == "" {
			if f, ok := e.Faces["down"]; ok {
				def.TextureBot = textureFile(f.Texture)
			}
		}
		if def.TextureSide == "" {
			for _, side := range []string{"north", "south", "east", "west"} {
				if f, ok := e.Faces[side]; ok {
					if def.TextureSide = textureFile(f.Texture); def.TextureSide != "" {
						break
					}
				}
			}
		}
	}
}

// textureFile maps a resolved texture reference such as "block/stone" to its
// file name in the atlas.
func textureFile(ref string) string {
	base := path.Base(ref)
	if base == "." || base == "/" || ref == "" || ref[0] == '#' {
		return ""
	}
	return base + ".png"
}

func (r *Registry) registerTexture(name string) {
	if name == "" {
		return
	}
	if _, exists := r.textureMap[name]; !exists {
		r.textureMap[name] = len(r.textureNames)
		r.textureNames = append(r.textureNames, name)
	}
}

func (r *Registry) tile(texture string) [2]int {
	n := r.textureMap[texture]
	return [2]int{n % AtlasColumns, n / AtlasColumns}
}

func (r *Registry) build(def *BlockDefinition) (meshing.VoxelMesh, face.Faces) {
	if !def.IsSolid {
		return meshing.VoxelMesh{Kind: meshing.NullMesh}, face.Faces{}
	}
	opts := cube.Options{
		Atlas:  cube.Atlas{Columns: AtlasColumns, Rows: AtlasRows, Padding: 0.01},
		Tiles:  cube.TopBottomSide(r.tile(def.TextureTop), r.tile(def.TextureBot), r.tile(def.TextureSide)),
		Tinted: def.TintFaces,
		Tint:   tint(def.TintColor),
	}

	full := len(def.Elements) == 0
	for _, e := range def.Elements {
		if e.Full() {
			full = true
			break
		}
	}
	if full {
		tmpl := cube.Cube(r.attrs, r.size, mgl32.Vec3{}, opts)
		vm := meshing.VoxelMesh{Kind: meshing.NormalCube, Template: tmpl}
		if def.IsTransparent {
			return vm, face.Faces{}
		}
		return vm, face.AllFaces
	}

	var covering face.Faces
	parts := make([]*mesh.Mesh, 0, len(def.Elements))
	for _, e := range def.Elements {
		lo, hi := e.Bounds(r.size)
		partOpts := opts
		for name, f := range e.Faces {
			if d, ok := blockmodel.Direction(name); ok {
				if file := textureFile(f.Texture); file != "" {
					partOpts.Tiles[d] = r.tile(file)
				}
			}
		}
		parts = append(parts, cube.Box(r.attrs, lo, hi, partOpts))
		for _, f := range face.All {
			if e.Covers(f) && !def.IsTransparent {
				covering[f] = true
			}
		}
	}
	return meshing.VoxelMesh{Kind: meshing.CustomMesh, Template: cube.Merge(parts...)}, covering
}

func tint(rgb uint32) mgl32.Vec4 {
	if rgb == 0 {
		return mgl32.Vec4{1, 1, 1, 1}
	}
	return mgl32.Vec4{
		float32(rgb>>16&0xFF) / 255,
		float32(rgb>>8&0xFF) / 255,
		float32(rgb&0xFF) / 255,
		1,
	}
}

func (r *Registry) Mesh(b BlockType) meshing.VoxelMesh {
	if vm, ok := r.meshes[b]; ok {
		return vm
	}
	return meshing.VoxelMesh{Kind: meshing.NullMesh}
}

func (r *Registry) IsCovering(b BlockType, side face.Face) bool {
	return r.covering[b][side]
}

func (r *Registry) Center() mgl32.Vec3           { return mgl32.Vec3{} }
func (r *Registry) VoxelDimensions() mgl32.Vec3  { return r.size }
func (r *Registry) Attributes() []mesh.Attribute { return r.attrs }

// Definition returns the definition registered for b.
func (r *Registry) Definition(b BlockType) (*BlockDefinition, bool) {
	def, ok := r.blocks[b]
	return def, ok
}

// Lookup finds a block type by name.
func (r *Registry) Lookup(name string) (BlockType, bool) {
	b, ok := r.names[name]
	return b, ok
}

// TextureNames lists atlas textures in cell order.
func (r *Registry) TextureNames() []string {
	return r.textureNames
}

// TextureLayer returns the atlas index used for face f of a block.
func (r *Registry) TextureLayer(b BlockType, f face.Face) int {
	def, ok := r.blocks[b]
	if !ok {
		return 0
	}
	var name string
	switch f {
	case face.Top:
		name = def.TextureTop
	case face.Bottom:
		name = def.TextureBot
	default:
		name = def.TextureSide
	}
	return r.textureMap[name]
}

var _ meshing.Registry[BlockType] = (*Registry)(nil)

// Default registers the stock block set.
func Default(loader *blockmodel.Loader, attrs []mesh.Attribute) *Registry {
	r := New(loader, attrs, mgl32.Vec3{1, 1, 1})

	r.RegisterBlock(&BlockDefinition{ID: BlockTypeAir, Name: "air", IsTransparent: true})
	r.RegisterBlock(&BlockDefinition{
		ID:          BlockTypeGrass,
		Name:        "grass",
		TextureTop:  "grass_top.png",
		TextureSide: "grass_side.png",
		TextureBot:  "dirt.png",
		IsSolid:     true,
		TintColor:   0x7DFF5C,
		TintFaces:   face.Only(face.Top),
	})
	r.RegisterBlock(&BlockDefinition{ID: BlockTypeDirt, Name: "dirt", IsSolid: true})
	r.RegisterBlock(&BlockDefinition{ID: BlockTypeStone, Name: "stone", IsSolid: true})
	r.RegisterBlock(&BlockDefinition{ID: BlockTypeCobblestone, Name: "cobblestone", IsSolid: true})
	r.RegisterBlock(&BlockDefinition{ID: BlockTypeBedrock, Name: "bedrock", IsSolid: true})
	r.RegisterBlock(&BlockDefinition{ID: BlockTypeSand, Name: "sand", IsSolid: true})
	r.RegisterBlock(&BlockDefinition{ID: BlockTypePlanksOak, Name: "oak_planks", TextureTop: "planks_oak.png", IsSolid: true})
	r.RegisterBlock(&BlockDefinition{ID: BlockTypeGlass, Name: "glass", IsSolid: true, IsTransparent: true})
	r.RegisterBlock(&BlockDefinition{
		ID:          BlockTypeSlab,
		Name:        "stone_slab",
		TextureTop:  "stone_slab_top.png",
		TextureSide: "stone_slab_side.png",
		IsSolid:     true,
		Elements: []blockmodel.Element{{
			From: [3]float32{0, 0, 0},
			To:   [3]float32{16, 8, 16},
			Faces: map[string]blockmodel.Face{
				"up":    {Texture: "block/stone_slab_top"},
				"down":  {Texture: "block/stone_slab_top"},
				"north": {Texture: "block/stone_slab_side"},
				"south": {Texture: "block/stone_slab_side"},
				"east":  {Texture: "block/stone_slab_side"},
				"west":  {Texture: "block/stone_slab_side"},
			},
		}},
	})
	return r
}
