package render

import (
	"log"

	"github.com/lampy-engine/lampy/internal/ecs"
	"github.com/lampy-engine/lampy/internal/gpu"
)

// OutputMode selects what the renderer does with the graph's "final"
// texture once a frame finishes executing.
type OutputMode int

const (
	// Offscreen leaves the final texture in place for a caller (tests,
	// a headless capture tool, an editor viewport) to read back.
	Offscreen OutputMode = iota
	// WindowSwapchain additionally resizes graph resources to the
	// window's current size and presents the final texture plus a UI
	// overlay every frame.
	WindowSwapchain
)

// Window is the presentation collaborator a windowed Renderer drives.
// Optional: a nil Window with OutputMode WindowSwapchain just logs a
// warning and skips presentation, per the null-collaborator contract.
type Window interface {
	Size() (width, height int)
	Present(active gpu.TextureHandle)
}

// UI is the overlay collaborator drawn after presentation.
type UI interface {
	Render()
}

// LightsProvider recomputes the sun and point-light arrays from whatever
// world owns them. Optional: a nil provider leaves the previous frame's
// lighting in place.
type LightsProvider interface {
	Lights() (Sun, []PointLight)
}

// Renderer is the per-frame orchestrator: it owns the tracker, the
// render list, the scene record, and the graph, and drives them through
// the fixed sequence every tick.
type Renderer struct {
	logger *log.Logger

	tracker *EntityTracker
	list    *ListManager
	scene   *Scene
	graph   *Graph

	transforms *TransformUpdater
	cameras    *CameraUpdater
	lights     LightsProvider

	world  ecs.Query
	window Window
	ui     UI

	output OutputMode

	needsFullRebuild bool
}

// NewRenderer wires a renderer around an already-built graph. tracker,
// list, and scene must be non-nil; the optional collaborators (world,
// window, ui, lights) may be nil and are checked at each use site.
func NewRenderer(logger *log.Logger, tracker *EntityTracker, list *ListManager, scene *Scene, graph *Graph) *Renderer {
	if logger == nil {
		logger = log.Default()
	}
	return &Renderer{
		logger:           logger,
		tracker:          tracker,
		list:             list,
		scene:            scene,
		graph:            graph,
		transforms:       NewTransformUpdater(list),
		cameras:          NewCameraUpdater(1920, 1080),
		needsFullRebuild: true,
	}
}

// SetWorld stores the ECS query surface. RenderFrame does not read it:
// full rebuilds take their entities from the tracker's ValidStates.
func (r *Renderer) SetWorld(world ecs.Query) { r.world = world }

// SetWindow binds the presentation collaborator and switches the output
// mode to WindowSwapchain. Passing nil reverts to Offscreen.
func (r *Renderer) SetWindow(window Window, ui UI) {
	r.window = window
	r.ui = ui
	if window == nil {
		r.output = Offscreen
		return
	}
	r.output = WindowSwapchain
}

// SetOutputMode sets the output mode directly, independent of whether a
// Window collaborator is bound — used when a caller wants to select
// WindowSwapchain from configuration before (or without) a platform
// window ever being available, deliberately exercising the
// null-collaborator path documented on RenderFrame.
func (r *Renderer) SetOutputMode(mode OutputMode) { r.output = mode }

// SetLightsProvider binds the collaborator updateLightsFromECS pulls
// the sun and point-light arrays from.
func (r *Renderer) SetLightsProvider(lights LightsProvider) { r.lights = lights }

// RequestFullRebuild forces the next RenderFrame to discard the render
// diff and rebuild the list from scratch — used on cold start or after
// a world reload invalidates the tracker's running diff history.
func (r *Renderer) RequestFullRebuild() { r.needsFullRebuild = true }

// RenderFrame runs exactly one frame: debug primitive freeze, render
// list update, light refresh, graph execution, and (if windowed)
// presentation. It never panics out to the caller — a missing
// collaborator logs a warning and the corresponding step is skipped.
func (r *Renderer) RenderFrame(frame ecs.RenderFrameData, debugDraw func(*Scene)) gpu.TextureHandle {
	r.scene.BeginFrame()
	if debugDraw != nil {
		debugDraw(r.scene)
	}
	r.scene.FlushDebugPrimitives()

	r.updateRenderList(frame)
	r.updateLightsFromECS()

	if r.output == WindowSwapchain {
		if r.window == nil {
			logWarn(r.logger, "render: WindowSwapchain output with no window bound, skipping resize")
		} else {
			w, h := r.window.Size()
			r.graph.ResizeAll(w, h)
			r.cameras.Resize(float32(w), float32(h))
		}
	}

	active := r.graph.Execute()

	if r.output == WindowSwapchain {
		if r.window == nil {
			logWarn(r.logger, "render: WindowSwapchain output with no window bound, skipping present")
		} else {
			r.window.Present(active)
			if r.ui == nil {
				logWarn(r.logger, "render: no UI collaborator bound, skipping overlay")
			} else {
				r.ui.Render()
			}
		}
	}

	return active
}

// updateRenderList either rebuilds the list wholesale from the tracker's
// currently valid entities (cold start) or folds in its accumulated diff,
// then rebuilds each touched entity's model matrix and camera.
func (r *Renderer) updateRenderList(frame ecs.RenderFrameData) {
	if r.needsFullRebuild {
		r.rebuildRenderList()
		r.needsFullRebuild = false
	} else if r.tracker != nil {
		diff := r.tracker.ConsumeDiff()
		r.list.ApplyRenderDiff(diff, buildRenderObject)
	}

	r.transforms.Apply(frame)
	r.cameras.Apply(r.scene, frame)
	r.scene.Objects = r.list.Objects()
}

// rebuildRenderList walks every currently-valid tracked entity and
// upserts it, used on cold start or when a caller requests a full
// rebuild rather than trusting the diff history.
func (r *Renderer) rebuildRenderList() {
	if r.tracker == nil {
		logWarn(r.logger, "render: full rebuild requested with no tracker bound, skipping")
		return
	}
	r.tracker.ConsumeDiff()
	*r.list = *NewListManager()
	for _, state := range r.tracker.ValidStates() {
		r.list.Upsert(state.EntityID, buildRenderObject(state))
	}
}

// updateLightsFromECS pulls a fresh sun/point-light snapshot from the
// bound provider. A nil provider leaves the scene's existing lighting
// untouched rather than failing the frame.
func (r *Renderer) updateLightsFromECS() {
	if r.lights == nil {
		return
	}
	sun, points := r.lights.Lights()
	r.scene.Sun = sun
	r.scene.PointLights = clampPointLights(points)
}

// buildRenderObject turns a tracked entity's render state into the
// GPU-ready record the list manager and passes consume.
func buildRenderObject(state EntityRenderState) RenderObject {
	material := state.Material
	return RenderObject{
		ModelMatrix: translationScaleRotation(state.Position, state.Rotation, state.Scale),
		Scale:       state.Scale,
		Mesh:        state.Mesh,
		Material:    &material,
	}
}
