// Command viewer shows generated terrain chunks in a window and edits them
// in place: left click breaks the voxel under the crosshair, right click
// places the selected block against it, keys 1-6 pick the block.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"runtime"
	"time"

	"voxmesh/internal/config"
	"voxmesh/internal/grid"
	"voxmesh/internal/mesh"
	"voxmesh/internal/meshing"
	"voxmesh/internal/physics"
	"voxmesh/internal/profiling"
	"voxmesh/internal/registry"
	"voxmesh/internal/render"
	"voxmesh/internal/terrain"
	"voxmesh/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	windowWidth  = 1280
	windowHeight = 720
)

var hotbar = []registry.BlockType{
	registry.BlockTypeStone,
	registry.BlockTypeDirt,
	registry.BlockTypeCobblestone,
	registry.BlockTypePlanksOak,
	registry.BlockTypeGlass,
	registry.BlockTypeSlab,
}

func init() {
	runtime.LockOSThread()
}

func main() {
	seed := flag.Int64("seed", config.GetSeed(), "terrain seed")
	radius := flag.Int("radius", 3, "chunks loaded around the origin")
	fps := flag.Int("fps", 120, "frame rate cap, 0 for none")
	flag.Parse()
	config.SetSeed(*seed)

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	window, err := setupWindow()
	if err != nil {
		panic(err)
	}

	shader, err := render.NewShader(render.VoxelVertexShader, render.VoxelFragmentShader)
	if err != nil {
		panic(err)
	}
	defer shader.Delete()

	reg := registry.Default(nil, []mesh.Attribute{mesh.Normal, mesh.Color})
	pool := meshing.NewWorkerPool[registry.BlockType](reg, config.GetWorkers(), 2*config.GetWorkers())
	defer pool.Shutdown()

	w, h := config.GetChunkSize()
	params := meshing.DefaultShading
	vw := world.New(grid.Dimensions{Width: w, Height: h, Length: w}, reg, meshing.Options{Shading: &params})

	var coords []meshing.ChunkCoord
	for x := -*radius; x <= *radius; x++ {
		for z := -*radius; z <= *radius; z++ {
			coords = append(coords, meshing.ChunkCoord{x, z})
		}
	}
	start := time.Now()
	if err := vw.Load(context.Background(), pool, terrain.FromConfig(), coords); err != nil {
		panic(err)
	}
	log.Printf("loaded %d chunks in %v", len(coords), time.Since(start))

	gen := terrain.FromConfig()
	target := mgl32.Vec3{0, float32(gen.HeightAt(0, 0)), 0}
	camera := render.NewCamera(windowWidth, windowHeight, target, 48)
	v := &viewer{window: window, world: vw, camera: camera, meshes: map[meshing.ChunkCoord]*render.ChunkMesh{}}
	v.setupInputHandlers()
	v.run(shader, render.NewFrameLimiter(*fps))
	v.deleteMeshes()
}

func setupWindow() (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(windowWidth, windowHeight, "voxmesh", nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(0)

	if err := gl.Init(); err != nil {
		return nil, err
	}
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(0.55, 0.75, 0.95, 1.0)
	return window, nil
}

type viewer struct {
	window *glfw.Window
	world  *world.World
	camera *render.Camera
	meshes map[meshing.ChunkCoord]*render.ChunkMesh

	selected      int
	dragging      bool
	lastX, lastY  float64
	showProfiling bool
}

func (v *viewer) setupInputHandlers() {
	v.window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			if button == glfw.MouseButtonMiddle {
				v.dragging = false
			}
			return
		}
		switch button {
		case glfw.MouseButtonLeft:
			v.edit(false)
		case glfw.MouseButtonRight:
			v.edit(true)
		case glfw.MouseButtonMiddle:
			v.dragging = true
			v.lastX, v.lastY = w.GetCursorPos()
		}
	})

	v.window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		if !v.dragging {
			return
		}
		v.camera.Orbit(float32(v.lastX-xpos)*0.005, float32(ypos-v.lastY)*0.005)
		v.lastX, v.lastY = xpos, ypos
	})

	v.window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		v.camera.Zoom(float32(1 - 0.1*yoff))
	})

	v.window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch {
		case key == glfw.KeyEscape:
			w.SetShouldClose(true)
		case key == glfw.KeyV:
			v.showProfiling = !v.showProfiling
		case key >= glfw.Key1 && int(key-glfw.Key1) < len(hotbar):
			v.selected = int(key - glfw.Key1)
			log.Printf("slot %d: block %d", v.selected+1, hotbar[v.selected])
		}
	})
}

// edit breaks the voxel under the crosshair, or places the selected block
// in front of it.
func (v *viewer) edit(place bool) {
	origin, dir := v.camera.Ray()
	hit := physics.Raycast(origin, dir, physics.MinReachDistance, physics.MaxReachDistance, physics.VolumeFunc(v.world.Solid))
	if !hit.Found {
		return
	}
	p, b := hit.Hit, registry.BlockTypeAir
	if place {
		p, b = hit.Adjacent, hotbar[v.selected]
	}
	if err := v.world.Set(p, b); err != nil {
		log.Printf("edit at %v: %v", p, err)
	}
}

// upload pushes the meshes of changed chunks to the GPU.
func (v *viewer) upload() {
	defer profiling.Track("render.Upload")()
	for _, c := range v.world.TakeDirty() {
		cm, ok := v.meshes[c.Coord]
		if !ok {
			cm = render.NewChunkMesh(v.world.Translation(c.Coord))
			v.meshes[c.Coord] = cm
		}
		cm.Upload(c.Mesh)
	}
}

func (v *viewer) run(shader *render.Shader, limiter *render.FrameLimiter) {
	frames := 0
	lastFPSCheckTime := time.Now()
	light := mgl32.Vec3{-0.4, -1, -0.3}.Normalize()

	for !v.window.ShouldClose() {
		profiling.Reset()
		v.upload()

		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		shader.Use()
		shader.SetMatrix4("proj", v.camera.GetProjectionMatrix())
		shader.SetMatrix4("view", v.camera.GetViewMatrix())
		shader.SetVector3("lightDir", light)
		func() {
			defer profiling.Track("render.Draw")()
			for _, cm := range v.meshes {
				cm.Draw(shader)
			}
		}()

		v.window.SwapBuffers()
		glfw.PollEvents()
		limiter.Wait()
		frames++

		if time.Since(lastFPSCheckTime) >= time.Second {
			fmt.Println("FPS: ", frames)
			if v.showProfiling {
				fmt.Println(profiling.TopN(6))
			}
			frames = 0
			lastFPSCheckTime = time.Now()
		}
	}
}

func (v *viewer) deleteMeshes() {
	for coord, cm := range v.meshes {
		cm.Delete()
		delete(v.meshes, coord)
	}
}
