// Package engine wires MemorySystem, JobSystem, the asset pipeline, the
// resource cache, and the render core together into one process handle,
// replacing the original engine's RenderFactory/RenderLocator singletons
// with an explicit, constructed value per the redesign notes.
package engine

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lampy-engine/lampy/internal/asset"
	"github.com/lampy-engine/lampy/internal/cooker"
	"github.com/lampy-engine/lampy/internal/ecs"
	"github.com/lampy-engine/lampy/internal/gpu"
	"github.com/lampy-engine/lampy/internal/job"
	"github.com/lampy-engine/lampy/internal/memory"
	"github.com/lampy-engine/lampy/internal/render"
	"github.com/lampy-engine/lampy/internal/resource"
)

// OutputEnvVar is the §6.5 environment variable selecting final
// presentation mode. A programmatic Config.Output set to a non-empty
// value always takes precedence over it.
const OutputEnvVar = "LAMPY_RENDER_OUTPUT"

// AssetRoot names one directory the asset manager watches and imports
// source content from.
type AssetRoot struct {
	Path   string
	Origin asset.Origin
}

// Config holds every value New needs, with defaults applied for
// anything left zero.
type Config struct {
	WorkerCount          int
	FrameArenaBytes      uintptr
	PersistentArenaBytes uintptr

	AssetRoots   []AssetRoot
	CacheRoot    string
	DatabasePath string
	ContentRoot  string

	// Output selects "window" or "offscreen" presentation. Empty defers
	// to the LAMPY_RENDER_OUTPUT environment variable, and "offscreen"
	// if that is also unset.
	Output string

	Render render.Config

	Logger *log.Logger
}

func (c *Config) applyDefaults() {
	if c.WorkerCount <= 0 {
		c.WorkerCount = runtime.NumCPU()
	}
	if c.CacheRoot == "" {
		c.CacheRoot = "Cache"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = filepath.Join(c.CacheRoot, "AssetDatabase.json")
	}
	if c.ContentRoot == "" {
		c.ContentRoot = "Content"
	}
	if c.Output == "" {
		c.Output = os.Getenv(OutputEnvVar)
	}
	if c.Output == "" {
		c.Output = "offscreen"
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
	if (c.Render == render.Config{}) {
		c.Render = render.DefaultConfig()
	}
}

// Engine owns every core subsystem for the process lifetime of one
// running instance: one MemorySystem, one JobSystem, one asset Manager,
// one resource Manager, and one render.Renderer driving a built-in graph.
type Engine struct {
	cfg Config

	Memory    *memory.MemorySystem
	Jobs      *job.System
	Assets    *asset.Manager
	Database  *asset.Database
	Resources *resource.Manager
	Backend   gpu.Backend

	Scene    *render.Scene
	Tracker  *render.EntityTracker
	List     *render.ListManager
	Graph    *render.Graph
	Renderer *render.Renderer

	registry *prometheus.Registry
}

// New constructs every subsystem but does not start them; call Startup.
func New(cfg Config) *Engine {
	cfg.applyDefaults()

	db := asset.NewDatabase(cfg.Logger)
	jobs := job.NewSystem(cfg.WorkerCount)
	assets := asset.NewManager(cfg.Logger, db, jobs)
	mem := memory.NewMemorySystem(cfg.Logger)

	backend := gpu.NewNoopBackend()
	scene := render.NewScene()
	tracker := render.NewEntityTracker()
	list := render.NewListManager()
	graph := render.BuildDefaultGraph(backend, scene, cfg.Render)
	renderer := render.NewRenderer(cfg.Logger, tracker, list, scene, graph)

	e := &Engine{
		cfg:      cfg,
		Memory:   mem,
		Jobs:     jobs,
		Assets:   assets,
		Database: db,
		Backend:  backend,
		Scene:    scene,
		Tracker:  tracker,
		List:     list,
		Graph:    graph,
		Renderer: renderer,
		registry: prometheus.NewRegistry(),
	}

	return e
}

// Startup brings every subsystem online: memory arenas, the job workers,
// the asset watcher plus an initial full scan, the resource manager, and
// metric collector registration. The render core needs no separate start
// step beyond the construction New already did.
func (e *Engine) Startup() error {
	if err := e.Memory.Startup(e.cfg.FrameArenaBytes, e.cfg.PersistentArenaBytes); err != nil {
		return fmt.Errorf("engine: memory startup: %w", err)
	}
	e.Jobs.Start()

	if _, err := os.Stat(e.cfg.DatabasePath); err == nil {
		if err := e.Database.Load(e.cfg.DatabasePath); err != nil {
			logWarn(e.cfg.Logger, "engine: loading asset database %q: %v", e.cfg.DatabasePath, err)
		}
	}

	roots := make([]struct {
		Path   string
		Origin asset.Origin
	}, len(e.cfg.AssetRoots))
	for i, r := range e.cfg.AssetRoots {
		roots[i].Path = r.Path
		roots[i].Origin = r.Origin
	}
	if err := e.Assets.Startup(e.cfg.CacheRoot, roots...); err != nil {
		return fmt.Errorf("engine: asset manager startup: %w", err)
	}

	e.Resources = resource.NewManager(e.cfg.Logger, e.Database, nil, "")

	e.registerMetrics()

	if e.cfg.Output == "window" {
		// render.Renderer defaults to Offscreen; WindowSwapchain requires
		// a concrete render.Window, which platform windowing (a spec.md
		// Non-goal) never supplies here. Selecting WindowSwapchain with
		// no Window bound deliberately exercises the null-collaborator
		// path documented in §4.5.6's failure handling.
		e.Renderer.SetOutputMode(render.WindowSwapchain)
	}

	return nil
}

// registerMetrics wires every subsystem's Prometheus collector into the
// engine's private registry, exposed via Metrics().
func (e *Engine) registerMetrics() {
	e.registry.MustRegister(
		memory.NewMetrics(e.Memory),
		job.NewMetrics(e.Jobs),
		asset.NewMetrics(e.Database),
	)
}

// Metrics returns the engine's Prometheus registry for an HTTP exporter
// or a test scrape to read from.
func (e *Engine) Metrics() *prometheus.Registry { return e.registry }

// Tick runs exactly one render frame using frame as the ECS snapshot and
// debugDraw as the optional per-frame debug-draw hook.
func (e *Engine) Tick(frame ecs.RenderFrameData, debugDraw func(*render.Scene)) gpu.TextureHandle {
	return e.Renderer.RenderFrame(frame, debugDraw)
}

// Cook writes the asset database's imported assets out into the engine's
// content root as a runtime database plus, when opts.UsePak is set, a
// deployable PAK, per §4.4.4/§6.4.
func (e *Engine) Cook(opts cooker.Options) error {
	return cooker.Cook(e.cfg.Logger, e.Database, e.cfg.ContentRoot, opts)
}

// Shutdown tears every subsystem down in the order §5 requires: the
// asset watcher first, then the job system, then the render core (no
// separate teardown beyond dropping references), then the memory system
// last.
func (e *Engine) Shutdown() {
	if err := e.Assets.Close(); err != nil {
		logWarn(e.cfg.Logger, "engine: closing asset manager: %v", err)
	}
	if err := e.Database.Save(e.cfg.DatabasePath); err != nil {
		logWarn(e.cfg.Logger, "engine: saving asset database %q: %v", e.cfg.DatabasePath, err)
	}
	e.Jobs.Shutdown()
	e.Memory.Shutdown()
}

func logWarn(l *log.Logger, format string, args ...any) {
	if l == nil {
		return
	}
	l.Printf("WARN "+format, args...)
}
