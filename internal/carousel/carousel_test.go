package carousel

import (
	"fmt"
	"testing"
	"time"

	"github.com/mcmusabe/blokhut-display/internal/models"
)

func makeSlides(n int) []models.Slide {
	out := make([]models.Slide, n)
	for i := range out {
		out[i] = models.Slide{Title: fmt.Sprintf("slide %d", i)}
	}
	return out
}

func newLoaded(n int) *Carousel {
	c := New(500*time.Millisecond, 5*time.Second)
	c.Load(makeSlides(n))
	return c
}

func TestNextWrapsAround(t *testing.T) {
	for n := 1; n <= 5; n++ {
		for start := 0; start < n; start++ {
			for k := 0; k <= 2*n+1; k++ {
				c := newLoaded(n)
				c.Goto(start)
				for j := 0; j < k; j++ {
					c.Next()
				}
				if want := (start + k) % n; c.Index() != want {
					t.Fatalf("n=%d start=%d k=%d: index %d, want %d", n, start, k, c.Index(), want)
				}
			}
		}
	}
}

func TestPrevFromZeroWraps(t *testing.T) {
	for n := 1; n <= 5; n++ {
		c := newLoaded(n)
		c.Prev()
		if c.Index() != n-1 {
			t.Errorf("n=%d: prev from 0 = %d, want %d", n, c.Index(), n-1)
		}
	}
}

func TestManualNavigationResetsProgress(t *testing.T) {
	moves := map[string]func(*Carousel){
		"next": func(c *Carousel) { c.Next() },
		"prev": func(c *Carousel) { c.Prev() },
		"goto": func(c *Carousel) { c.Goto(2) },
	}
	for name, move := range moves {
		t.Run(name, func(t *testing.T) {
			c := newLoaded(4)
			for i := 0; i < 7; i++ {
				c.Tick()
			}
			if c.Progress() == 0 {
				t.Fatal("setup: progress did not grow")
			}
			move(c)
			if c.Progress() != 0 {
				t.Errorf("progress = %v after %s, want 0", c.Progress(), name)
			}
		})
	}
}

func TestTickAdvancesExactlyOnce(t *testing.T) {
	c := newLoaded(3)
	advances := 0
	for i := 0; i < 9; i++ {
		if c.Tick() {
			advances++
		}
	}
	if advances != 0 || c.Index() != 0 {
		t.Fatalf("advanced early: advances=%d index=%d", advances, c.Index())
	}
	if c.Progress() < 89.99 || c.Progress() > 90.01 {
		t.Fatalf("progress = %v, want 90", c.Progress())
	}

	if !c.Tick() {
		t.Fatal("tenth tick did not advance")
	}
	if c.Index() != 1 {
		t.Errorf("index = %d, want 1", c.Index())
	}
	if c.Progress() != 0 {
		t.Errorf("progress = %v, want exactly 0", c.Progress())
	}
}

func TestTickOverflowResetsToZero(t *testing.T) {
	c := New(3*time.Second, 5*time.Second)
	c.Load(makeSlides(2))

	c.Tick()
	if !c.Tick() {
		t.Fatal("expected advance at 120%")
	}
	if c.Progress() != 0 {
		t.Errorf("progress = %v, want 0 not the overflow", c.Progress())
	}
}

func TestPausedTicksAreIgnored(t *testing.T) {
	c := newLoaded(2)
	c.Tick()
	c.Tick()
	if !c.TogglePause() {
		t.Fatal("TogglePause did not pause")
	}
	if c.State() != Paused {
		t.Errorf("state = %s", c.State())
	}
	for i := 0; i < 20; i++ {
		if c.Tick() {
			t.Fatal("advanced while paused")
		}
	}
	if c.Progress() < 19.99 || c.Progress() > 20.01 {
		t.Errorf("progress = %v, want 20 kept while paused", c.Progress())
	}

	c.TogglePause()
	c.Tick()
	if c.Progress() < 29.99 || c.Progress() > 30.01 {
		t.Errorf("progress = %v, want count to continue at 30", c.Progress())
	}
}

func TestStates(t *testing.T) {
	c := New(time.Second, 5*time.Second)
	if c.State() != Idle {
		t.Fatalf("new carousel state = %s", c.State())
	}
	if c.Tick() {
		t.Fatal("idle carousel advanced")
	}
	c.Load(makeSlides(1))
	if c.State() != Ready {
		t.Errorf("state = %s, want ready", c.State())
	}
}

func TestReloadClampsIndex(t *testing.T) {
	c := newLoaded(5)
	c.Goto(4)
	c.Load(makeSlides(3))
	if c.Index() != 0 {
		t.Errorf("index = %d, want 0 after shrink", c.Index())
	}

	c.Goto(2)
	c.Load(makeSlides(6))
	if c.Index() != 2 {
		t.Errorf("index = %d, want 2 retained", c.Index())
	}
}

func TestKeyCommand(t *testing.T) {
	tests := map[string]Command{
		"ArrowLeft":  CommandPrev,
		"ArrowRight": CommandNext,
		" ":          CommandToggle,
	}
	for key, want := range tests {
		got, ok := KeyCommand(key)
		if !ok || got != want {
			t.Errorf("KeyCommand(%q) = %q, %v", key, got, ok)
		}
	}
	if _, ok := KeyCommand("Enter"); ok {
		t.Error("Enter should not map to a command")
	}
}
