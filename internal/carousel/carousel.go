// Package carousel drives the display: which slide is active, how far its
// display interval has progressed, and when the slide list is reloaded.
package carousel

import (
	"time"

	"github.com/mcmusabe/blokhut-display/internal/models"
)

// State is the renderer state.
type State string

const (
	Idle   State = "idle"
	Ready  State = "ready"
	Paused State = "paused"
)

// Carousel is the bare carousel state. It is not safe for concurrent use;
// Controller serialises access to it.
type Carousel struct {
	slides   []models.Slide
	index    int
	progress float64
	paused   bool
	step     float64
}

// New returns an idle carousel whose progress grows by tick/interval*100 per tick.
func New(tick, interval time.Duration) *Carousel {
	return &Carousel{step: float64(tick) / float64(interval) * 100}
}

// State reports Idle until slides are loaded, then Ready or Paused.
func (c *Carousel) State() State {
	switch {
	case len(c.slides) == 0:
		return Idle
	case c.paused:
		return Paused
	default:
		return Ready
	}
}

func (c *Carousel) Index() int { return c.index }

func (c *Carousel) Progress() float64 { return c.progress }

func (c *Carousel) IsPaused() bool { return c.paused }

func (c *Carousel) Len() int { return len(c.slides) }

// Slides returns the loaded sequence. Callers must not modify it.
func (c *Carousel) Slides() []models.Slide { return c.slides }

// Load replaces the slide sequence. The current index is kept when it still
// exists and clamped to 0 otherwise. Progress and pause state are untouched.
func (c *Carousel) Load(list []models.Slide) {
	c.slides = list
	if c.index >= len(list) {
		c.index = 0
	}
}

// Goto activates slide i, wrapping i past either end, and resets progress.
// It returns the previous index.
func (c *Carousel) Goto(i int) int {
	prev := c.index
	if n := len(c.slides); n > 0 {
		switch {
		case i >= n:
			i = 0
		case i < 0:
			i = n - 1
		}
		c.index = i
	}
	c.progress = 0
	return prev
}

// Next advances one slide with wraparound and resets progress.
func (c *Carousel) Next() int {
	return c.Goto(c.index + 1)
}

// Prev steps back one slide with wraparound and resets progress.
func (c *Carousel) Prev() int {
	return c.Goto(c.index - 1)
}

// Tick accumulates one tick of progress. When progress reaches 100 it is
// reset to exactly 0 and the carousel advances once; advanced reports that.
// Ticks are ignored while paused or idle.
func (c *Carousel) Tick() (advanced bool) {
	if c.paused || len(c.slides) == 0 {
		return false
	}
	c.progress += c.step
	if c.progress >= 100 {
		c.Next()
		return true
	}
	return false
}

// TogglePause flips the pause flag and returns the new value.
func (c *Carousel) TogglePause() bool {
	c.paused = !c.paused
	return c.paused
}
