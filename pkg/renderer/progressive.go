package renderer

import (
	"context"
	"fmt"
	"image"
	"log"
	"math/rand"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/arvehn/go-interactive-pathtracer/pkg/core"
	"github.com/arvehn/go-interactive-pathtracer/pkg/integrator"
	"github.com/arvehn/go-interactive-pathtracer/pkg/scene"
)

// Config controls progressive rendering
type Config struct {
	Width          int
	Height         int
	TileSize       int
	SamplesPerPass int
	MaxPasses      int   // 0 means render until cancelled
	NumWorkers     int   // 0 means runtime.NumCPU()
	Seed           int64 // Global seed; renders with equal seeds are bitwise identical
}

// DefaultConfig returns interactive-friendly progressive settings
func DefaultConfig(width, height int) Config {
	return Config{
		Width:          width,
		Height:         height,
		TileSize:       32,
		SamplesPerPass: 1,
		MaxPasses:      0,
		NumWorkers:     0,
		Seed:           1,
	}
}

// Validate rejects configurations that cannot produce a render
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid image dimensions %dx%d", c.Width, c.Height)
	}
	if c.TileSize <= 0 {
		return fmt.Errorf("tile size must be positive, got %d", c.TileSize)
	}
	if c.SamplesPerPass <= 0 {
		return fmt.Errorf("samples per pass must be positive, got %d", c.SamplesPerPass)
	}
	if c.MaxPasses < 0 {
		return fmt.Errorf("max passes must be non-negative, got %d", c.MaxPasses)
	}
	return nil
}

// PassResult carries the resolved image and stats after one full pass.
// The image aliases no renderer state; receivers may keep it.
type PassResult struct {
	Pass  int
	Image *image.RGBA
	Stats RenderStats
}

// Renderer runs progressive tile-based rendering over a built scene.
// The accumulation buffer persists across passes, so each PassResult
// averages every sample taken since the last Reset.
type Renderer struct {
	config   Config
	scene    *scene.Scene
	camera   *Camera
	tracer   *integrator.PathTracer
	buffer   *AccumBuffer
	tiles    []Tile
	workers  int
	logger   core.Logger
	degraded atomic.Bool
	started  time.Time
}

// NewRenderer assembles a renderer over a built scene. A nil logger
// falls back to the standard logger.
func NewRenderer(config Config, sc *scene.Scene, camera *Camera, tracer *integrator.PathTracer, logger core.Logger) (*Renderer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("renderer config: %w", err)
	}
	if sc == nil || !sc.Built() {
		return nil, fmt.Errorf("scene must be built before rendering")
	}
	if camera == nil {
		return nil, fmt.Errorf("camera is required")
	}
	if camera.Width() != config.Width || camera.Height() != config.Height {
		return nil, fmt.Errorf("camera resolution %dx%d does not match render config %dx%d",
			camera.Width(), camera.Height(), config.Width, config.Height)
	}
	if tracer == nil {
		tracer = integrator.NewDefault()
	}
	if logger == nil {
		logger = log.Default()
	}

	workers := config.NumWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Renderer{
		config:  config,
		scene:   sc,
		camera:  camera,
		tracer:  tracer,
		buffer:  NewAccumBuffer(config.Width, config.Height),
		tiles:   NewTileGrid(config.Width, config.Height, config.TileSize),
		workers: workers,
		logger:  logger,
	}, nil
}

// RenderPass accumulates one pass of samples over every tile. Returns
// the context error if cancelled; samples from tiles completed before
// the cancellation remain in the buffer.
func (r *Renderer) RenderPass(ctx context.Context, pass int) error {
	if r.started.IsZero() {
		r.started = time.Now()
	}
	return r.runTiles(ctx, pass)
}

// RenderProgressive runs passes until the context is cancelled or
// MaxPasses completes, emitting a PassResult after every full pass. The
// channel is closed when rendering stops. Partially rendered passes are
// never emitted.
func (r *Renderer) RenderProgressive(ctx context.Context) <-chan PassResult {
	updates := make(chan PassResult, 1)

	go func() {
		defer close(updates)
		for pass := 0; r.config.MaxPasses == 0 || pass < r.config.MaxPasses; pass++ {
			if err := r.RenderPass(ctx, pass); err != nil {
				r.logger.Printf("render stopped at pass %d: %v", pass, err)
				return
			}

			result := PassResult{
				Pass:  pass,
				Image: r.buffer.ToImage(),
				Stats: r.statsAfterPass(pass),
			}

			select {
			case updates <- result:
			case <-ctx.Done():
				return
			}
		}
	}()

	return updates
}

func (r *Renderer) statsAfterPass(pass int) RenderStats {
	elapsed := time.Since(r.started)
	total := r.buffer.TotalSamples()
	sps := 0.0
	if elapsed > 0 {
		sps = float64(total) / elapsed.Seconds()
	}
	return RenderStats{
		Pass:             pass,
		TotalSamples:     total,
		Elapsed:          elapsed,
		SamplesPerSecond: sps,
		Degraded:         r.degraded.Load(),
	}
}

// renderTile traces every pixel in the tile with a deterministic,
// tile-local sample stream. Pixel order is fixed, so the same
// (seed, tile, pass) triple always produces the same samples.
func (r *Renderer) renderTile(tile Tile, pass int) {
	rng := rand.New(rand.NewSource(tileSeed(r.config.Seed, tile.ID, pass)))
	sampler := core.NewRandomSampler(rng)

	for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
		for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
			for s := 0; s < r.config.SamplesPerPass; s++ {
				ray := r.camera.GetRay(x, y, sampler)
				r.buffer.AddSample(x, y, r.tracer.RayColor(ray, r.scene, sampler))
			}
		}
	}
}

// Buffer exposes the accumulation buffer. Safe to read only when no
// pass is in flight.
func (r *Renderer) Buffer() *AccumBuffer {
	return r.buffer
}

// Degraded reports whether any tile had to be dropped after repeated
// failures, meaning the accumulated image is missing samples
func (r *Renderer) Degraded() bool {
	return r.degraded.Load()
}
