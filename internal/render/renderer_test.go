package render

import (
	"testing"

	"github.com/lampy-engine/lampy/internal/ecs"
	"github.com/lampy-engine/lampy/internal/gpu"
)

func newTestRenderer(t *testing.T) (*Renderer, *EntityTracker) {
	t.Helper()
	tracker := NewEntityTracker()
	list := NewListManager()
	scene := NewScene()

	backend := gpu.NewNoopBackend()
	compose := NewFinalCompose(backend, "color")
	pbr := NewPBRPass(backend, scene)
	graph := NewBuilder().
		AddPass("pbr").Write("color").Exec(pbr.Exec).End().
		AddPass("compose").Read("color").Write("final").Exec(compose.Exec).End().
		Build()

	return NewRenderer(nil, tracker, list, scene, graph), tracker
}

func TestRenderFrameFullRebuildThenIncrementalDiff(t *testing.T) {
	r, tracker := newTestRenderer(t)
	addValidEntity(tracker, 1)

	// First frame: forced full rebuild picks up the entity added before
	// any RenderFrame call (no diff has been consumed yet).
	final := r.RenderFrame(ecs.RenderFrameData{}, nil)
	if final == gpu.NoTexture {
		t.Fatalf("want a populated final texture on the first frame")
	}
	if r.list.Size() != 1 {
		t.Fatalf("want 1 tracked object after full rebuild, got %d", r.list.Size())
	}

	// Second frame: a new entity arrives only via the tracker's diff.
	addValidEntity(tracker, 2)
	r.RenderFrame(ecs.RenderFrameData{}, nil)
	if r.list.Size() != 2 {
		t.Fatalf("want 2 tracked objects after incremental diff, got %d", r.list.Size())
	}
}

func TestRenderFrameWindowOutputPresentsAndRendersUI(t *testing.T) {
	r, tracker := newTestRenderer(t)
	addValidEntity(tracker, 1)

	presented := false
	uiRendered := false
	r.SetWindow(fakeWindow{w: 800, h: 600, present: func(gpu.TextureHandle) { presented = true }}, fakeUI{render: func() { uiRendered = true }})

	r.RenderFrame(ecs.RenderFrameData{}, nil)

	if !presented {
		t.Fatalf("WindowSwapchain output should call Window.Present")
	}
	if !uiRendered {
		t.Fatalf("WindowSwapchain output should call UI.Render")
	}
}

func TestRenderFrameNilWindowNeverPanics(t *testing.T) {
	r, tracker := newTestRenderer(t)
	addValidEntity(tracker, 1)
	r.output = WindowSwapchain // force the windowed path with no window bound

	defer func() {
		if p := recover(); p != nil {
			t.Fatalf("a nil window collaborator must never panic, got %v", p)
		}
	}()
	r.RenderFrame(ecs.RenderFrameData{}, nil)
}

func TestRenderFrameLightsProviderUpdatesScene(t *testing.T) {
	r, tracker := newTestRenderer(t)
	addValidEntity(tracker, 1)
	r.SetLightsProvider(fakeLights{sun: Sun{Intensity: 3}})

	r.RenderFrame(ecs.RenderFrameData{}, nil)

	if r.scene.Sun.Intensity != 3 {
		t.Fatalf("want lights provider's sun intensity applied, got %v", r.scene.Sun.Intensity)
	}
}

func TestRenderFrameDebugDrawHookFlushesIntoScene(t *testing.T) {
	r, tracker := newTestRenderer(t)
	addValidEntity(tracker, 1)

	r.RenderFrame(ecs.RenderFrameData{}, func(s *Scene) {
		s.AddDebugLine(DebugLine{From: ecs.Vec3{X: 1}, To: ecs.Vec3{X: 2}})
	})

	if len(r.scene.DebugLines) != 1 {
		t.Fatalf("want one flushed debug line, got %d", len(r.scene.DebugLines))
	}
}

type fakeWindow struct {
	w, h    int
	present func(gpu.TextureHandle)
}

func (f fakeWindow) Size() (int, int)                 { return f.w, f.h }
func (f fakeWindow) Present(active gpu.TextureHandle) { f.present(active) }

type fakeUI struct{ render func() }

func (f fakeUI) Render() { f.render() }

type fakeLights struct {
	sun    Sun
	points []PointLight
}

func (f fakeLights) Lights() (Sun, []PointLight) { return f.sun, f.points }
