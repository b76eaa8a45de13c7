package render

import "github.com/lampy-engine/lampy/internal/ecs"

// Camera is the scene's per-frame camera record.
type Camera struct {
	View       Mat4
	Projection Mat4
	Position   ecs.Vec3
}

// Sun is the scene's single directional light.
type Sun struct {
	Direction      ecs.Vec3
	Color          ecs.Vec3
	Intensity      float32
	LightView      Mat4
	LightProjection Mat4
}

// PointLight is one scene point light, falloff expressed as inner/outer
// radii rather than a physical attenuation curve (matching the uniform
// block contract in §6.6).
type PointLight struct {
	Position    ecs.Vec3
	Color       ecs.Vec3
	Intensity   float32
	InnerRadius float32
	OuterRadius float32
}

// DebugLine/DebugBox/DebugSphere are the debug-primitive shapes the
// DebugPass rasterizes with read-only depth.
type DebugLine struct {
	From, To ecs.Vec3
	Color    ecs.Vec3
}
type DebugBox struct {
	Center, HalfExtents ecs.Vec3
	Color               ecs.Vec3
}
type DebugSphere struct {
	Center ecs.Vec3
	Radius float32
	Color  ecs.Vec3
}

// MaxScenePointLights caps how many point lights a single frame carries
// into the PBR pass, matching gpu.MaxPointLights.
const MaxScenePointLights = 100

// Scene is the per-frame record every render pass reads from: the sole
// data handoff between CPU-side scene extraction and the render graph.
type Scene struct {
	Camera      Camera
	Sun         Sun
	PointLights []PointLight
	Objects     []RenderObject

	DebugLines   []DebugLine
	DebugBoxes   []DebugBox
	DebugSpheres []DebugSphere

	pendingLines   []DebugLine
	pendingBoxes   []DebugBox
	pendingSpheres []DebugSphere
}

// NewScene returns an empty scene record.
func NewScene() *Scene { return &Scene{} }

// BeginFrame clears the pending (not-yet-frozen) debug primitive buffers.
// Called once at the top of every frame, before any debug-draw calls.
func (s *Scene) BeginFrame() {
	s.pendingLines = s.pendingLines[:0]
	s.pendingBoxes = s.pendingBoxes[:0]
	s.pendingSpheres = s.pendingSpheres[:0]
}

// AddDebugLine/AddDebugBox/AddDebugSphere accumulate into the pending
// buffers physics/gameplay code draws into during the frame.
func (s *Scene) AddDebugLine(l DebugLine)     { s.pendingLines = append(s.pendingLines, l) }
func (s *Scene) AddDebugBox(b DebugBox)       { s.pendingBoxes = append(s.pendingBoxes, b) }
func (s *Scene) AddDebugSphere(sp DebugSphere) { s.pendingSpheres = append(s.pendingSpheres, sp) }

// FlushDebugPrimitives freezes the pending buffers into the stable
// DebugLines/Boxes/Spheres fields the DebugPass reads, so the set drawn
// this frame can't mutate mid-graph-execution.
func (s *Scene) FlushDebugPrimitives() {
	s.DebugLines = append(s.DebugLines[:0], s.pendingLines...)
	s.DebugBoxes = append(s.DebugBoxes[:0], s.pendingBoxes...)
	s.DebugSpheres = append(s.DebugSpheres[:0], s.pendingSpheres...)
}

// clampPointLights truncates lights to MaxScenePointLights, matching the
// fixed-size uniform array every PBR-capable shader reserves.
func clampPointLights(lights []PointLight) []PointLight {
	if len(lights) > MaxScenePointLights {
		return lights[:MaxScenePointLights]
	}
	return lights
}
