package render

import (
	"testing"

	"github.com/lampy-engine/lampy/internal/gpu"
)

func TestBuildDefaultGraphHonorsConfigToggles(t *testing.T) {
	backend := gpu.NewNoopBackend()
	scene := fixtureScene()

	full := BuildDefaultGraph(backend, scene, DefaultConfig())
	if final := full.Execute(); final == gpu.NoTexture {
		t.Fatalf("default config graph should produce a final texture")
	}
	if _, ok := full.Resource("grid_color"); !ok {
		t.Fatalf("default config has GridEnabled, want grid_color declared")
	}
	if _, ok := full.Resource("scene_depth"); !ok {
		t.Fatalf("default config has DebugDrawEnabled, want scene_depth declared for its depth blit")
	}

	minimal := BuildDefaultGraph(backend, scene, Config{})
	if final := minimal.Execute(); final == gpu.NoTexture {
		t.Fatalf("minimal config graph should still produce a final texture")
	}
	if _, ok := minimal.Resource("grid_color"); ok {
		t.Fatalf("zero-value config has GridEnabled false, want no grid_color resource")
	}
}
