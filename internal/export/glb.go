// Package export writes meshes as binary glTF (.glb), optionally zstd
// compressed (.glb.zst).
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"voxmesh/internal/mesh"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/klauspost/compress/zstd"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ErrEmpty is returned when encoding a scene without any geometry.
var ErrEmpty = errors.New("export: nothing to write")

// Scene collects chunk meshes into one glTF document, one node per chunk.
type Scene struct {
	doc   *gltf.Document
	alpha bool
}

func NewScene() *Scene {
	doc := gltf.NewDocument()
	doc.Asset.Generator = "voxmesh"
	return &Scene{doc: doc}
}

// AddChunk appends m as a node, its positions moved by translation.
// Attributes other than Position, Normal, UV0 and Color are not exported.
// Empty meshes are skipped.
func (s *Scene) AddChunk(name string, m *mesh.Mesh, translation mgl32.Vec3) {
	if m.VertexCount() == 0 || len(m.Indices) == 0 {
		return
	}
	doc := s.doc
	attrs := gltf.PrimitiveAttributes{
		gltf.POSITION: modeler.WritePosition(doc, vec3s(m.Positions(), translation)),
	}
	if m.Has(mesh.Normal) {
		attrs[gltf.NORMAL] = modeler.WriteNormal(doc, vec3s(mesh.Slice[mgl32.Vec3](m, mesh.Normal), mgl32.Vec3{}))
	}
	if m.Has(mesh.UV0) {
		uv := mesh.Slice[mgl32.Vec2](m, mesh.UV0)
		out := make([][2]float32, len(uv))
		for i, v := range uv {
			out[i] = v
		}
		attrs[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(doc, out)
	}
	if m.Has(mesh.Color) {
		colors := mesh.Slice[mgl32.Vec4](m, mesh.Color)
		out := make([][4]float32, len(colors))
		for i, c := range colors {
			out[i] = c
			if c[3] < 1 {
				s.alpha = true
			}
		}
		attrs[gltf.COLOR_0] = modeler.WriteColor(doc, out)
	}
	indices := make([]uint32, len(m.Indices))
	copy(indices, m.Indices)

	prim := &gltf.Primitive{
		Attributes: attrs,
		Indices:    gltf.Index(modeler.WriteIndices(doc, indices)),
		Material:   gltf.Index(0),
	}
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: name, Primitives: []*gltf.Primitive{prim}})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: name, Mesh: gltf.Index(len(doc.Meshes) - 1)})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
}

// Len returns the number of chunks added.
func (s *Scene) Len() int {
	return len(s.doc.Nodes)
}

// Encode writes the scene as a binary glTF.
func (s *Scene) Encode(w io.Writer) error {
	if len(s.doc.Meshes) == 0 {
		return ErrEmpty
	}
	pbr := &gltf.PBRMetallicRoughness{
		MetallicFactor:  gltf.Float(0),
		RoughnessFactor: gltf.Float(1),
	}
	material := &gltf.Material{Name: "voxels", PBRMetallicRoughness: pbr, AlphaMode: gltf.AlphaOpaque}
	if s.alpha {
		material.AlphaMode = gltf.AlphaBlend
	}
	s.doc.Materials = []*gltf.Material{material}

	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	if err := enc.Encode(s.doc); err != nil {
		return fmt.Errorf("export: encode glb: %w", err)
	}
	return nil
}

// Save writes the scene to path. A ".zst" suffix compresses the file.
func (s *Scene) Save(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if !strings.HasSuffix(path, ".zst") {
		return s.Encode(f)
	}
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if err := s.Encode(zw); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// Load reads a document written by Save.
func Load(path string) (*gltf.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	}
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, fmt.Errorf("export: decode %s: %w", path, err)
	}
	return doc, nil
}

func vec3s(v []mgl32.Vec3, offset mgl32.Vec3) [][3]float32 {
	out := make([][3]float32, len(v))
	for i, p := range v {
		out[i] = p.Add(offset)
	}
	return out
}
