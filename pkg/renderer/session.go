package renderer

import (
	"context"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"github.com/arvehn/go-interactive-pathtracer/pkg/core"
	"github.com/arvehn/go-interactive-pathtracer/pkg/integrator"
	"github.com/arvehn/go-interactive-pathtracer/pkg/scene"
)

// DefaultDebounce is how long the camera must hold still before a new
// render session starts
const DefaultDebounce = 150 * time.Millisecond

// Snapshot is the latest completed pass of the current session. It is
// updated only at pass boundaries, so the image is always a full,
// consistent frame.
type Snapshot struct {
	Pass      int
	Image     *image.RGBA
	Stats     RenderStats
	Rendering bool
}

// Controller drives the interactive loop: camera movement cancels the
// running render, and a settled camera restarts accumulation from
// scratch after a debounce interval. All methods are safe for
// concurrent use.
type Controller struct {
	scene     *scene.Scene
	renderCfg Config
	tracer    *integrator.PathTracer
	debounce  time.Duration
	logger    core.Logger

	mu         sync.Mutex
	pose       CameraPose
	timer      *time.Timer
	cancel     context.CancelFunc
	generation int
	snapshot   Snapshot
	closed     bool
	wg         sync.WaitGroup
}

// NewController creates an idle controller; rendering starts on the
// first CameraMoved (or Start) call. A nil tracer gets defaults, a nil
// logger falls back to the standard logger.
func NewController(sc *scene.Scene, renderCfg Config, tracer *integrator.PathTracer, debounce time.Duration, logger core.Logger) (*Controller, error) {
	if sc == nil || !sc.Built() {
		return nil, fmt.Errorf("scene must be built before starting sessions")
	}
	if err := renderCfg.Validate(); err != nil {
		return nil, fmt.Errorf("session render config: %w", err)
	}
	if tracer == nil {
		tracer = integrator.NewDefault()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		scene:     sc,
		renderCfg: renderCfg,
		tracer:    tracer,
		debounce:  debounce,
		logger:    logger,
	}, nil
}

// Start begins rendering the given pose immediately, without waiting
// for the debounce interval
func (c *Controller) Start(pose CameraPose) error {
	if err := pose.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("controller is stopped")
	}
	c.pose = pose
	c.interruptLocked()
	return c.startSessionLocked()
}

// CameraMoved records a new camera pose. The running render is
// cancelled at once to free the workers, and a fresh session starts
// once the camera has been still for the debounce interval. Further
// movement before then re-arms the timer.
func (c *Controller) CameraMoved(pose CameraPose) error {
	if err := pose.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("controller is stopped")
	}

	c.pose = pose
	c.interruptLocked()
	c.timer = time.AfterFunc(c.debounce, c.onSettled)
	return nil
}

// interruptLocked cancels the running render and pending restart timer.
// Bumping the generation detaches the old session's goroutine from the
// snapshot, so a result already in flight cannot resurface afterward.
func (c *Controller) interruptLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.generation++
	c.snapshot.Rendering = false
}

// onSettled fires when the camera has been still for the debounce
// interval
func (c *Controller) onSettled() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if err := c.startSessionLocked(); err != nil {
		c.logger.Printf("failed to start render session: %v", err)
	}
}

func (c *Controller) startSessionLocked() error {
	cfg := c.renderCfg
	cfg.Width = c.pose.Width
	cfg.Height = c.pose.Height

	camera, err := NewCamera(c.pose)
	if err != nil {
		return err
	}
	r, err := NewRenderer(cfg, c.scene, camera, c.tracer, c.logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	gen := c.generation
	c.snapshot = Snapshot{Rendering: true}

	updates := r.RenderProgressive(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for result := range updates {
			c.mu.Lock()
			if c.generation == gen {
				c.snapshot = Snapshot{
					Pass:      result.Pass,
					Image:     result.Image,
					Stats:     result.Stats,
					Rendering: true,
				}
			}
			c.mu.Unlock()
		}
		c.mu.Lock()
		if c.generation == gen {
			c.snapshot.Rendering = false
		}
		c.mu.Unlock()
	}()
	return nil
}

// Snapshot returns the latest completed pass of the current session.
// Before the first pass completes the image is nil.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// Pose returns the most recently recorded camera pose
func (c *Controller) Pose() CameraPose {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pose
}

// Stop cancels any running render and waits for session goroutines to
// exit. The controller cannot be restarted.
func (c *Controller) Stop() {
	c.mu.Lock()
	c.closed = true
	c.interruptLocked()
	c.mu.Unlock()
	c.wg.Wait()
}
