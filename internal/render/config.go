package render

// Config supplements the built-in pass set with the toggles the original
// engine's RenderConfig singleton carried (grid/debug draw enabled,
// shadow map resolution, MSAA sample count, VSync). Rather than a
// process-wide singleton, Config is an explicit value passed to
// BuildDefaultGraph — the Go realization of
// replacing RenderFactory/RenderLocator with an explicit handle.
type Config struct {
	GridEnabled         bool
	DebugDrawEnabled    bool
	ShadowMapResolution int
	MSAASamples         int
	VSync               bool
}

// DefaultConfig matches the original engine's defaults: grid and debug
// draw on, a 2048x2048 shadow map, no MSAA, VSync on (meaningful only
// under WindowSwapchain output; ignored offscreen).
func DefaultConfig() Config {
	return Config{
		GridEnabled:         true,
		DebugDrawEnabled:    true,
		ShadowMapResolution: 2048,
		MSAASamples:         1,
		VSync:               true,
	}
}
