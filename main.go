package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/arvehn/go-interactive-pathtracer/pkg/integrator"
	"github.com/arvehn/go-interactive-pathtracer/pkg/renderer"
	"github.com/arvehn/go-interactive-pathtracer/pkg/scene"
	"github.com/arvehn/go-interactive-pathtracer/web/server"
)

func main() {
	var (
		settingsPath = flag.String("settings", "tracer_settings.json", "path to the persisted settings file")
		webMode      = flag.Bool("web", false, "serve the interactive viewer instead of rendering to a file")
		addr         = flag.String("addr", ":8080", "listen address for the web viewer")
		sceneName    = flag.String("scene", "", "scene to render (default, cornell)")
		width        = flag.Int("width", 0, "image width")
		height       = flag.Int("height", 0, "image height")
		spp          = flag.Int("spp", 0, "samples per pixel per pass")
		passes       = flag.Int("passes", 0, "number of passes (0 = settings value)")
		depth        = flag.Int("depth", 0, "maximum path depth")
		workers      = flag.Int("workers", 0, "worker goroutines (0 = all CPUs)")
		seed         = flag.Int64("seed", 0, "render seed")
		out          = flag.String("out", "render.png", "output file for offline rendering")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "pathtracer: ", log.LstdFlags)

	settings, err := server.LoadSettings(*settingsPath)
	if err != nil {
		logger.Fatalf("loading settings: %v", err)
	}
	applyFlags(&settings, *sceneName, *width, *height, *spp, *passes, *depth, *workers, *seed)
	if err := settings.Validate(); err != nil {
		logger.Fatalf("settings: %v", err)
	}

	sc, err := scene.ByName(settings.Scene)
	if err != nil {
		logger.Fatalf("building scene: %v", err)
	}

	tracerCfg := integrator.DefaultConfig()
	tracerCfg.MaxDepth = settings.MaxDepth
	tracer := integrator.NewPathTracer(tracerCfg)

	renderCfg := renderer.DefaultConfig(settings.Width, settings.Height)
	renderCfg.SamplesPerPass = settings.SamplesPerPass
	renderCfg.MaxPasses = settings.MaxPasses
	renderCfg.NumWorkers = settings.Workers
	renderCfg.Seed = settings.Seed

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pose := startPose(settings.Scene, sc, settings.Width, settings.Height)

	if *webMode {
		if err := runWeb(ctx, *addr, *settingsPath, settings, sc, pose, renderCfg, tracer, logger); err != nil {
			logger.Fatalf("web server: %v", err)
		}
		return
	}
	if err := runOffline(ctx, *out, sc, pose, renderCfg, tracer, logger); err != nil {
		logger.Fatalf("render: %v", err)
	}
}

// startPose picks the initial view: the stock demo ships a hand-tuned
// pose, every other scene is framed automatically from its bounds
func startPose(sceneName string, sc *scene.Scene, width, height int) renderer.CameraPose {
	if sceneName == "default" || sceneName == "" {
		return renderer.DefaultPose(width, height)
	}
	return renderer.FramingPose(sc, width, height)
}

func applyFlags(settings *server.TracerSettings, sceneName string, width, height, spp, passes, depth, workers int, seed int64) {
	if sceneName != "" {
		settings.Scene = sceneName
	}
	if width > 0 {
		settings.Width = width
	}
	if height > 0 {
		settings.Height = height
	}
	if spp > 0 {
		settings.SamplesPerPass = spp
	}
	if passes > 0 {
		settings.MaxPasses = passes
	}
	if depth > 0 {
		settings.MaxDepth = depth
	}
	if workers > 0 {
		settings.Workers = workers
	}
	if seed != 0 {
		settings.Seed = seed
	}
}

// runWeb starts the interactive viewer and blocks until interrupted
func runWeb(ctx context.Context, addr, settingsPath string, settings server.TracerSettings,
	sc *scene.Scene, pose renderer.CameraPose, renderCfg renderer.Config, tracer *integrator.PathTracer, logger *log.Logger) error {

	ctrl, err := renderer.NewController(sc, renderCfg, tracer, renderer.DefaultDebounce, logger)
	if err != nil {
		return err
	}
	defer ctrl.Stop()

	if err := ctrl.Start(pose); err != nil {
		return err
	}

	srv := server.New(server.Config{Addr: addr, SettingsPath: settingsPath}, ctrl, settings, logger)

	errs := make(chan error, 1)
	go func() { errs <- srv.ListenAndServe() }()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		logger.Printf("shutting down")
		return nil
	}
}

// runOffline renders the configured number of passes and writes a PNG.
// An interrupt mid-render still writes whatever passes completed.
func runOffline(ctx context.Context, out string, sc *scene.Scene, pose renderer.CameraPose,
	renderCfg renderer.Config, tracer *integrator.PathTracer, logger *log.Logger) error {

	if renderCfg.MaxPasses == 0 {
		renderCfg.MaxPasses = 16
	}

	camera, err := renderer.NewCamera(pose)
	if err != nil {
		return err
	}
	r, err := renderer.NewRenderer(renderCfg, sc, camera, tracer, logger)
	if err != nil {
		return err
	}

	var last renderer.PassResult
	for result := range r.RenderProgressive(ctx) {
		last = result
		logger.Printf("pass %d done: %d samples, %.0f samples/s",
			result.Pass, result.Stats.TotalSamples, result.Stats.SamplesPerSecond)
	}
	if last.Image == nil {
		return fmt.Errorf("no passes completed")
	}
	if r.Degraded() {
		logger.Printf("warning: some tiles were dropped, output is missing samples")
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, last.Image); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	logger.Printf("wrote %s after %d passes", out, last.Pass+1)
	return nil
}
