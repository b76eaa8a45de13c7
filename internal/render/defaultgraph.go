package render

import "github.com/lampy-engine/lampy/internal/gpu"

// BuildDefaultGraph wires the built-in pass set into a Graph following
// cfg's toggles: GridPass and DebugPass are each only inserted when their
// Config flag is set, and FinalCompose always samples whichever pass ran
// last upstream of it.
func BuildDefaultGraph(backend gpu.Backend, scene *Scene, cfg Config) *Graph {
	b := NewBuilder()

	shadow := NewShadowPass(backend, scene, cfg.ShadowMapResolution)
	b.AddPass("shadow").Write("shadow_depth").Exec(shadow.Exec).End()

	pbr := NewPBRPass(backend, scene)
	b.AddPass("pbr").Read("shadow_depth").Write("color").Write("scene_depth").Exec(pbr.Exec).End()

	upstream := "color"
	if cfg.GridEnabled {
		grid := NewGridPass(backend)
		b.AddPass("grid").Read(upstream).Write("grid_color").Exec(grid.Exec).End()
		upstream = "grid_color"
	}
	if cfg.DebugDrawEnabled {
		debug := NewDebugPass(backend, scene)
		b.AddPass("debug").Read(upstream).Read("scene_depth").Write("debug_color").Exec(debug.Exec).End()
		upstream = "debug_color"
	}

	compose := NewFinalCompose(backend, upstream)
	b.AddPass("compose").Read(upstream).Write("final").Exec(compose.Exec).End()

	return b.Build()
}
