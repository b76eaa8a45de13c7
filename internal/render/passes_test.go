package render

import (
	"testing"

	"github.com/lampy-engine/lampy/internal/ecs"
	"github.com/lampy-engine/lampy/internal/gpu"
)

func fixtureScene() *Scene {
	s := NewScene()
	s.Camera.Position = ecs.Vec3{X: 0, Y: 2, Z: 5}
	s.Camera.View = identity4()
	s.Camera.Projection = identity4()
	s.Sun = Sun{Direction: ecs.Vec3{X: 0, Y: -1, Z: 0}, Color: ecs.Vec3{X: 1, Y: 1, Z: 1}, Intensity: 1}
	s.Objects = []RenderObject{
		{ModelMatrix: identity4(), Scale: ecs.Vec3{X: 1, Y: 1, Z: 1}, Material: &ecs.MaterialComponent{Roughness: 1}},
	}
	return s
}

func TestBuiltinPassesProduceFinalTextureThroughNoopBackend(t *testing.T) {
	backend := gpu.NewNoopBackend()
	scene := fixtureScene()

	shadow := NewShadowPass(backend, scene, 0)
	pbr := NewPBRPass(backend, scene)
	grid := NewGridPass(backend)
	debug := NewDebugPass(backend, scene)
	compose := NewFinalCompose(backend, "debug_color")

	g := NewBuilder().
		AddPass("shadow").Write("shadow_depth").Exec(shadow.Exec).End().
		AddPass("pbr").Read("shadow_depth").Write("color").Write("scene_depth").Exec(pbr.Exec).End().
		AddPass("grid").Read("color").Write("grid_color").Exec(grid.Exec).End().
		AddPass("debug").Read("grid_color").Read("scene_depth").Write("debug_color").Exec(debug.Exec).End().
		AddPass("compose").Read("debug_color").Write("final").Exec(compose.Exec).End().
		Build()

	final := g.Execute()
	if final == gpu.NoTexture {
		t.Fatalf("want a non-zero final texture handle after a full pass chain")
	}
}

func TestDebugPassBlitsUpstreamSceneDepthForOcclusion(t *testing.T) {
	backend := gpu.NewNoopBackend()
	scene := fixtureScene()
	debug := NewDebugPass(backend, scene)

	const sceneDepth = gpu.TextureHandle(777)
	inputs := PassInputs{
		"color":       {Name: "color", Handle: gpu.TextureHandle(1), Width: 800, Height: 600},
		"scene_depth": {Name: "scene_depth", Handle: sceneDepth, Width: 800, Height: 600},
	}
	outputs := PassOutputs{}
	debug.Exec(inputs, outputs)

	if got := debug.fb.DepthTexture(); got != sceneDepth {
		t.Fatalf("debug pass framebuffer depth = %v, want the blitted-in scene depth %v", got, sceneDepth)
	}
}

// recordingShader wraps a backend shader and keeps the last material and
// texture bindings a pass uploaded through it.
type recordingShader struct {
	gpu.IShader
	material gpu.MaterialData
	textures map[string]gpu.TextureHandle
}

func (s *recordingShader) SetMaterial(d gpu.MaterialData) {
	s.material = d
	s.IShader.SetMaterial(d)
}

func (s *recordingShader) BindTextures(byName map[string]gpu.TextureHandle) {
	s.textures = byName
	s.IShader.BindTextures(byName)
}

func newRecordingShader(t *testing.T, backend gpu.Backend) *recordingShader {
	t.Helper()
	inner, err := backend.CreateShader("", "")
	if err != nil {
		t.Fatalf("CreateShader: %v", err)
	}
	return &recordingShader{IShader: inner}
}

func TestPBRPassForcesZeroNormalStrengthWithoutNormalTexture(t *testing.T) {
	backend := gpu.NewNoopBackend()
	scene := fixtureScene()
	scene.Objects[0].Material.NormalStrength = 0.8 // authored, but no normal texture bound

	pass := NewPBRPass(backend, scene)
	rec := newRecordingShader(t, backend)
	pass.shader = rec
	inputs := PassInputs{}
	outputs := PassOutputs{}
	pass.Exec(inputs, outputs)

	if outputs["color"] == gpu.NoTexture {
		t.Fatalf("PBR pass should produce a color output")
	}
	if rec.material.NormalStrength != 0 {
		t.Errorf("uploaded NormalStrength = %v, want 0 without a normal texture", rec.material.NormalStrength)
	}
}

func TestFinalComposeReboundsUnderFixedSamplerNameRegardlessOfUpstream(t *testing.T) {
	backend := gpu.NewNoopBackend()
	compose := NewFinalCompose(backend, "some_arbitrary_upstream_name")
	rec := newRecordingShader(t, backend)
	compose.shader = rec

	inputs := PassInputs{"some_arbitrary_upstream_name": {Name: "some_arbitrary_upstream_name", Handle: gpu.TextureHandle(42), Width: 800, Height: 600}}
	outputs := PassOutputs{}
	compose.Exec(inputs, outputs)

	if outputs["final"] == gpu.NoTexture {
		t.Fatalf("compose should produce a final texture from the named upstream input")
	}
	if got := rec.textures["texture_pass_color"]; got != gpu.TextureHandle(42) {
		t.Errorf("texture_pass_color bound to %v, want the upstream handle 42", got)
	}
	if _, ok := rec.textures["some_arbitrary_upstream_name"]; ok {
		t.Errorf("upstream bound under its own name, want only texture_pass_color")
	}
}

func TestGridAndDebugPassesAreOptionalInAMinimalGraph(t *testing.T) {
	backend := gpu.NewNoopBackend()
	scene := fixtureScene()
	shadow := NewShadowPass(backend, scene, 0)
	pbr := NewPBRPass(backend, scene)
	compose := NewFinalCompose(backend, "color")

	g := NewBuilder().
		AddPass("shadow").Write("shadow_depth").Exec(shadow.Exec).End().
		AddPass("pbr").Read("shadow_depth").Write("color").Exec(pbr.Exec).End().
		AddPass("compose").Read("color").Write("final").Exec(compose.Exec).End().
		Build()

	if final := g.Execute(); final == gpu.NoTexture {
		t.Fatalf("a graph without grid/debug passes should still produce a final texture")
	}
}
