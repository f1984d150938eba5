package carousel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mcmusabe/blokhut-display/internal/models"
	"github.com/mcmusabe/blokhut-display/internal/render"
	logx "github.com/mcmusabe/blokhut-display/pkg/logger"
)

// Surface is whatever shows the carousel: kiosk clients, a test recorder.
// Media errors are reported back but never stop the carousel.
type Surface interface {
	RenderIndicators(count int)
	RenderSlides(blocks []render.Block)
	Activate(index int)
	Progress(value float64, paused bool)
	AttachMedia(index int, media render.Media) error
	DetachMedia(index int) error
	ShowError(err error)
}

// Config configures a Controller.
type Config struct {
	Tick     time.Duration
	Interval time.Duration
	Render   render.Options
}

// Snapshot is a point-in-time view of the controller.
type Snapshot struct {
	State    State   `json:"state"`
	Index    int     `json:"index"`
	Progress float64 `json:"progress"`
	Paused   bool    `json:"paused"`
	Count    int     `json:"count"`
	Lite     bool    `json:"lite"`
}

// Controller owns a Carousel and applies its changes to a Surface. All
// mutations go through one mutex, so the timer, the refresher and manual
// input never interleave inside a state change.
type Controller struct {
	mu       sync.Mutex
	car      *Carousel
	blocks   []render.Block
	surface  Surface
	opts     render.Options
	tick     time.Duration
	attached int
}

// NewController returns an idle controller. Lite mode is fixed here.
func NewController(surface Surface, cfg Config) *Controller {
	return &Controller{
		car:      New(cfg.Tick, cfg.Interval),
		surface:  surface,
		opts:     cfg.Render,
		tick:     cfg.Tick,
		attached: -1,
	}
}

// Lite reports whether video playback is disabled.
func (c *Controller) Lite() bool {
	return c.opts.Lite
}

// Load replaces the slide sequence and re-renders indicators, then content,
// then re-activates the retained (or reset) index.
func (c *Controller) Load(list []models.Slide) {
	blocks := render.BuildAll(list, c.opts)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.detach()
	c.car.Load(list)
	c.blocks = blocks

	c.surface.RenderIndicators(len(blocks))
	c.surface.RenderSlides(blocks)
	c.activate()
	c.surface.Progress(c.car.Progress(), c.car.IsPaused())
}

// Fail shows the load error state on the surface.
func (c *Controller) Fail(err error) {
	c.surface.ShowError(err)
}

// Next moves to the following slide.
func (c *Controller) Next() { c.navigate(func() { c.car.Next() }) }

// Prev moves to the preceding slide.
func (c *Controller) Prev() { c.navigate(func() { c.car.Prev() }) }

// Goto jumps to slide i, as an indicator click does.
func (c *Controller) Goto(i int) { c.navigate(func() { c.car.Goto(i) }) }

// TogglePause flips pause and returns the new value. The timer keeps running.
func (c *Controller) TogglePause() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	paused := c.car.TogglePause()
	c.surface.Progress(c.car.Progress(), paused)
	return paused
}

// Do runs a manual command. index is only used by CommandGoto.
func (c *Controller) Do(cmd Command, index int) error {
	switch cmd {
	case CommandNext:
		c.Next()
	case CommandPrev:
		c.Prev()
	case CommandToggle:
		c.TogglePause()
	case CommandGoto:
		c.Goto(index)
	default:
		return fmt.Errorf("unknown carousel command %q", cmd)
	}
	return nil
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		State:    c.car.State(),
		Index:    c.car.Index(),
		Progress: c.car.Progress(),
		Paused:   c.car.IsPaused(),
		Count:    c.car.Len(),
		Lite:     c.opts.Lite,
	}
}

// Blocks returns the render instructions of the loaded sequence.
func (c *Controller) Blocks() []render.Block {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]render.Block(nil), c.blocks...)
}

// Run fires a tick every Config.Tick until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.onTick()
		}
	}
}

func (c *Controller) onTick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.car.IsPaused() || c.car.Len() == 0 {
		return
	}
	if c.car.Tick() {
		c.activate()
	}
	c.surface.Progress(c.car.Progress(), false)
}

func (c *Controller) navigate(move func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.car.Len() == 0 {
		return
	}
	move()
	c.activate()
	c.surface.Progress(c.car.Progress(), c.car.IsPaused())
}

// activate releases media held by a slide other than the active one and
// loads media for the active slide only. Must be called with mu held.
func (c *Controller) activate() {
	if c.car.Len() == 0 {
		return
	}
	to := c.car.Index()
	if c.attached != to {
		c.detach()
	}
	if c.attached < 0 {
		if media := c.blocks[to].Media; media != nil {
			if err := c.surface.AttachMedia(to, *media); err != nil {
				logx.Debug().Err(err).Int("index", to).Str("src", media.Src).Msg("media failed to start")
			}
			c.attached = to
		}
	}
	c.surface.Activate(to)
}

// Must be called with mu held.
func (c *Controller) detach() {
	if c.attached < 0 {
		return
	}
	if err := c.surface.DetachMedia(c.attached); err != nil {
		logx.Debug().Err(err).Int("index", c.attached).Msg("media failed to stop")
	}
	c.attached = -1
}
