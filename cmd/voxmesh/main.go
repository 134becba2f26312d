// Command voxmesh generates terrain chunks, meshes and stitches them, applies
// a batch of voxel edits incrementally and writes the result as a glTF
// binary.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"voxmesh/internal/config"
	"voxmesh/internal/export"
	"voxmesh/internal/grid"
	"voxmesh/internal/mesh"
	"voxmesh/internal/meshing"
	"voxmesh/internal/profiling"
	"voxmesh/internal/registry"
	"voxmesh/internal/terrain"
	"voxmesh/internal/world"
	"voxmesh/pkg/blockmodel"
)

func main() {
	var (
		seed     = flag.Int64("seed", config.GetSeed(), "terrain seed")
		radius   = flag.Int("radius", 2, "chunks loaded around the origin")
		width    = flag.Int("chunk", 16, "chunk width and length in voxels")
		height   = flag.Int("height", 64, "chunk height in voxels")
		workers  = flag.Int("workers", config.GetWorkers(), "meshing workers")
		naive    = flag.Bool("naive", false, "emit every face instead of culling hidden ones")
		shade    = flag.Bool("shading", true, "darken faces next to other voxels")
		caves    = flag.Bool("caves", config.GetCaves(), "carve caves")
		sea      = flag.Int("sea-level", config.GetSeaLevel(), "sand is placed around this height")
		edits    = flag.Int("edits", 0, "random voxel edits applied after loading")
		verify   = flag.Bool("verify", false, "remesh edited chunks from scratch and compare")
		models   = flag.String("models", "", "resource pack directory with blockstates/ and models/")
		out      = flag.String("out", "world.glb", "output file, .glb or .glb.zst")
		textures = flag.String("textures", "", "directory of block textures for -atlas")
		atlas    = flag.String("atlas", "", "write the texture atlas the UVs refer to as PNG")
		topStats = flag.Int("stats", 8, "profiling entries printed at exit")
	)
	flag.Parse()

	config.SetSeed(*seed)
	config.SetSeaLevel(*sea)
	config.SetCaves(*caves)
	config.SetChunkSize(*width, *height)
	config.SetWorkers(*workers)
	config.SetNaive(*naive)
	enabled, intensity, minShade, smoothing := config.GetShading()
	config.SetShading(*shade && enabled, intensity, minShade, smoothing)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, *radius, *edits, *verify, *models, *out, *textures, *atlas); err != nil {
		log.Fatalf("voxmesh: %v", err)
	}
	fmt.Println(profiling.TopN(*topStats))
}

func options() meshing.Options {
	var opts meshing.Options
	if config.GetNaive() {
		opts.Algorithm = meshing.Naive
	}
	if enabled, intensity, minShade, smoothing := config.GetShading(); enabled {
		opts.Shading = &meshing.ShadingParams{Intensity: intensity, Min: minShade, Smoothing: meshing.Smoothing(smoothing)}
	}
	return opts
}

func around(radius int) []meshing.ChunkCoord {
	var coords []meshing.ChunkCoord
	for x := -radius; x <= radius; x++ {
		for z := -radius; z <= radius; z++ {
			coords = append(coords, meshing.ChunkCoord{x, z})
		}
	}
	return coords
}

func run(ctx context.Context, radius, edits int, verify bool, models, out, textures, atlas string) error {
	var loader *blockmodel.Loader
	if models != "" {
		loader = blockmodel.NewDirLoader(models)
	}
	reg := registry.Default(loader, []mesh.Attribute{mesh.Normal, mesh.UV0, mesh.Color})
	if atlas != "" {
		if err := saveAtlas(reg, textures, atlas); err != nil {
			return err
		}
	}

	w, h := config.GetChunkSize()
	dims := grid.Dimensions{Width: w, Height: h, Length: w}
	pool := meshing.NewWorkerPool[registry.BlockType](reg, config.GetWorkers(), 2*config.GetWorkers())
	defer pool.Shutdown()

	gen := terrain.FromConfig()
	vw := world.New(dims, reg, options())
	coords := around(radius)

	start := time.Now()
	if err := vw.Load(ctx, pool, gen, coords); err != nil {
		return err
	}
	log.Printf("loaded %d chunks of %v in %v", len(coords), dims, time.Since(start))

	if edits > 0 {
		start = time.Now()
		failed := applyEdits(vw, radius, edits, config.GetSeed())
		log.Printf("applied %d edits in %v (%d failed)", edits, time.Since(start), failed)
	}
	if verify {
		if err := compare(ctx, vw, pool, coords); err != nil {
			return err
		}
	}

	scene := export.NewScene()
	for _, c := range vw.GetAllChunks() {
		scene.AddChunk(fmt.Sprintf("chunk_%d_%d", c.Coord[0], c.Coord[1]), c.Mesh, vw.Translation(c.Coord))
	}
	if err := scene.Save(out); err != nil {
		return err
	}
	log.Printf("wrote %d chunk meshes to %s", scene.Len(), out)
	return nil
}

// saveAtlas writes the atlas of reg to path. Missing textures are logged and
// left as placeholders.
func saveAtlas(reg *registry.Registry, dir, path string) error {
	img, err := reg.BuildAtlas(os.DirFS(dir), 16)
	if img == nil {
		return err
	}
	if err != nil {
		log.Printf("atlas built with placeholders: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := registry.WriteAtlas(f, img); err != nil {
		return err
	}
	log.Printf("wrote %d textures to %s", len(reg.TextureNames()), path)
	return nil
}

var palette = []registry.BlockType{
	registry.BlockTypeStone,
	registry.BlockTypeDirt,
	registry.BlockTypeCobblestone,
	registry.BlockTypePlanksOak,
	registry.BlockTypeGlass,
	registry.BlockTypeSlab,
}

// applyEdits breaks or places voxels at random positions of the loaded area.
func applyEdits(w *world.World, radius, n int, seed int64) (failed int) {
	rng := rand.New(rand.NewSource(seed))
	d := w.Dims()
	span := (2*radius + 1) * d.Width
	for i := 0; i < n; i++ {
		p := grid.Coords{
			X: rng.Intn(span) - radius*d.Width,
			Y: rng.Intn(d.Height),
			Z: rng.Intn(span) - radius*d.Length,
		}
		b := registry.BlockTypeAir
		if rng.Intn(2) == 0 {
			b = palette[rng.Intn(len(palette))]
		}
		if err := w.Set(p, b); err != nil {
			log.Printf("edit %d at %v: %v", i, p, err)
			failed++
		}
	}
	return failed
}

// compare remeshes the edited voxels in a fresh world and reports chunks
// whose geometry differs from the incrementally updated one.
func compare(ctx context.Context, w *world.World, pool *meshing.WorkerPool[registry.BlockType], coords []meshing.ChunkCoord) error {
	defer profiling.Track("verify")()

	snapshot := world.SourceFunc(func(_ grid.Dimensions, coord meshing.ChunkCoord) []registry.BlockType {
		return append([]registry.BlockType(nil), w.GetChunk(coord).Voxels...)
	})
	ref := world.New(w.Dims(), w.Registry(), w.Options())
	if err := ref.Load(ctx, pool, snapshot, coords); err != nil {
		return err
	}
	mismatched := 0
	for _, c := range w.GetAllChunks() {
		got, want := export.Fingerprint(c.Mesh), export.Fingerprint(ref.GetChunk(c.Coord).Mesh)
		if got != want {
			log.Printf("chunk %v: incremental mesh %016x, fresh mesh %016x", c.Coord, got, want)
			mismatched++
		}
	}
	log.Printf("verified %d chunks, %d mismatched", len(coords), mismatched)
	if mismatched > 0 {
		return fmt.Errorf("%d chunks differ from a fresh mesh", mismatched)
	}
	return nil
}
