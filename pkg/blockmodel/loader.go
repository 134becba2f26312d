package blockmodel

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path"
	"slices"
	"strings"
	"sync"
)

// Loader reads models from a resource tree and caches them by name. It is
// safe for concurrent use.
type Loader struct {
	fsys fs.FS

	mu    sync.Mutex
	cache map[string]*Model
}

// NewLoader reads from fsys, whose root holds the models/ and blockstates/
// directories.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys, cache: make(map[string]*Model)}
}

// NewDirLoader reads from a directory on disk.
func NewDirLoader(dir string) *Loader {
	return NewLoader(os.DirFS(dir))
}

// LoadModel loads a model, merging in its parents. Names without a folder
// are looked up under block/. The returned model is shared through the cache
// and must not be modified.
func (l *Loader) LoadModel(name string) (*Model, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(name, 0)
}

const maxDepth = 16

func (l *Loader) load(name string, depth int) (*Model, error) {
	if !strings.Contains(name, "/") {
		name = "block/" + name
	}
	if m, ok := l.cache[name]; ok {
		return m, nil
	}
	if depth > maxDepth {
		return nil, fmt.Errorf("model %q: parent chain deeper than %d", name, maxDepth)
	}

	data, err := fs.ReadFile(l.fsys, path.Join("models", name+".json"))
	if err != nil {
		return nil, fmt.Errorf("could not read model file: %w", err)
	}
	var model Model
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("could not unmarshal model %q: %w", name, err)
	}
	if model.Textures == nil {
		model.Textures = make(map[string]string)
	}

	if model.Parent != "" && !strings.HasPrefix(model.Parent, "builtin/") {
		parent, err := l.load(model.Parent, depth+1)
		if err != nil {
			return nil, fmt.Errorf("could not load parent model %q: %w", model.Parent, err)
		}
		if model.AmbientOcclusion == nil {
			model.AmbientOcclusion = parent.AmbientOcclusion
		}
		if len(model.Elements) == 0 {
			model.Elements = cloneElements(parent.Elements)
		}
		for key, val := range parent.Textures {
			if _, ok := model.Textures[key]; !ok {
				model.Textures[key] = val
			}
		}
	}

	resolveTextures(&model)
	l.cache[name] = &model
	return &model, nil
}

func cloneElements(src []Element) []Element {
	out := slices.Clone(src)
	for i := range out {
		out[i].Faces = maps.Clone(src[i].Faces)
	}
	return out
}

func resolveTextures(m *Model) {
	for i := range m.Elements {
		for name, f := range m.Elements[i].Faces {
			if resolved := ResolveTexture(f.Texture, m); resolved != f.Texture {
				f.Texture = resolved
				m.Elements[i].Faces[name] = f
			}
		}
	}
}

// ResolveTexture follows "#key" references through the model's texture map.
// Unresolvable references are returned as they stand.
func ResolveTexture(texture string, m *Model) string {
	for i := 0; i < 10 && strings.HasPrefix(texture, "#"); i++ {
		resolved, ok := m.Textures[strings.TrimPrefix(texture, "#")]
		if !ok {
			break
		}
		texture = resolved
	}
	return texture
}

func (l *Loader) LoadBlockState(name string) (*BlockState, error) {
	data, err := fs.ReadFile(l.fsys, path.Join("blockstates", name+".json"))
	if err != nil {
		return nil, fmt.Errorf("could not read blockstate file: %w", err)
	}
	var state BlockState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("could not unmarshal blockstate %q: %w", name, err)
	}
	return &state, nil
}

// DefaultModel picks the model of the "normal" or "" variant of a blockstate,
// falling back to the first variant in key order.
func (s *BlockState) DefaultModel() (string, bool) {
	for _, key := range []string{"normal", ""} {
		if v, ok := s.Variants[key]; ok && len(v) > 0 {
			return v[0].Model, true
		}
	}
	for _, key := range slices.Sorted(maps.Keys(s.Variants)) {
		if v := s.Variants[key]; len(v) > 0 {
			return v[0].Model, true
		}
	}
	return "", false
}
