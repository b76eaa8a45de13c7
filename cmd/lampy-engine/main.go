// Command lampy-engine runs the engine core headless: it starts every
// subsystem, watches and imports an asset root, and drives a fixed
// number of offscreen frames before shutting down. No platform windowing
// is implemented (Non-goal); LAMPY_RENDER_OUTPUT=window is still
// accepted and exercises the renderer's null-window failure path rather
// than opening a surface.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/lampy-engine/lampy/internal/asset"
	"github.com/lampy-engine/lampy/internal/cooker"
	"github.com/lampy-engine/lampy/internal/ecs"
	"github.com/lampy-engine/lampy/internal/engine"
)

func main() {
	var (
		assetRoot   string
		cacheRoot   string
		contentRoot string
		frames      int
		workers     int
		cook        bool
	)

	flag.StringVar(&assetRoot, "asset-root", "Assets", "source asset directory to watch and import")
	flag.StringVar(&cacheRoot, "cache-root", "Cache", "imported asset cache directory")
	flag.StringVar(&contentRoot, "content-root", "Content", "cooked runtime content directory")
	flag.IntVar(&frames, "frames", 60, "number of offscreen frames to render before exiting")
	flag.IntVar(&workers, "workers", 0, "job system worker count (0 selects runtime.NumCPU())")
	flag.BoolVar(&cook, "cook", false, "cook imported assets into content-root and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "LampyEngine headless core runner.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := log.New(os.Stderr, "[lampy-engine] ", log.LstdFlags)

	e := engine.New(engine.Config{
		WorkerCount: workers,
		CacheRoot:   cacheRoot,
		ContentRoot: contentRoot,
		AssetRoots: []engine.AssetRoot{
			{Path: assetRoot, Origin: asset.OriginProject},
		},
		Logger: logger,
	})

	if err := e.Startup(); err != nil {
		logger.Fatalf("startup failed: %v", err)
	}
	defer e.Shutdown()

	if cook {
		if err := e.Cook(cooker.Options{UsePak: true, CopyLoose: false}); err != nil {
			logger.Fatalf("cook failed: %v", err)
		}
		logger.Printf("cooked %q", contentRoot)
		return
	}

	for i := 0; i < frames; i++ {
		e.Tick(ecs.RenderFrameData{}, nil)
	}
	logger.Printf("rendered %d offscreen frames", frames)
}
