package carousel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/mcmusabe/blokhut-display/internal/models"
	"github.com/mcmusabe/blokhut-display/internal/render"
)

type recorder struct {
	mu        sync.Mutex
	calls     []string
	attachErr error
	progress  float64
	active    int
	err       error
}

func (r *recorder) add(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) RenderIndicators(count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add("indicators %d", count)
}

func (r *recorder) RenderSlides(blocks []render.Block) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add("slides %d", len(blocks))
}

func (r *recorder) Activate(index int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = index
	r.add("activate %d", index)
}

func (r *recorder) Progress(value float64, paused bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = value
}

func (r *recorder) AttachMedia(index int, media render.Media) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add("attach %d %s", index, media.Src)
	return r.attachErr
}

func (r *recorder) DetachMedia(index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add("detach %d", index)
	return nil
}

func (r *recorder) ShowError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
	r.add("error")
}

func (r *recorder) take() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.calls
	r.calls = nil
	return out
}

var mixed = []models.Slide{
	{Type: "welcome", Title: "Welkom"},
	{Type: "video", Title: "Tour", Video: "tour.mp4"},
	{Type: "product", Title: "Tuinhuis", Image: "shed.jpg"},
	{Type: "video", Title: "Bouw", Video: "build.mp4"},
}

func newController(lite bool) (*Controller, *recorder) {
	rec := &recorder{}
	ctrl := NewController(rec, Config{
		Tick:     500 * time.Millisecond,
		Interval: 5 * time.Second,
		Render:   render.Options{Lite: lite},
	})
	return ctrl, rec
}

func TestLoadRendersIndicatorsBeforeContent(t *testing.T) {
	ctrl, rec := newController(false)
	ctrl.Load(mixed)

	want := []string{"indicators 4", "slides 4", "activate 0"}
	if diff := cmp.Diff(want, rec.take()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestMediaOnlyForActiveSlide(t *testing.T) {
	ctrl, rec := newController(false)
	ctrl.Load(mixed)
	rec.take()

	ctrl.Next()
	ctrl.Next()
	ctrl.Goto(3)
	ctrl.Goto(3)
	ctrl.Prev()

	want := []string{
		"attach 1 tour.mp4", "activate 1",
		"detach 1", "activate 2",
		"attach 3 build.mp4", "activate 3",
		"activate 3",
		"detach 3", "activate 2",
	}
	if diff := cmp.Diff(want, rec.take()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestLiteModeNeverAttachesMedia(t *testing.T) {
	ctrl, rec := newController(true)
	ctrl.Load(mixed)
	for i := 0; i < 8; i++ {
		ctrl.Next()
	}
	for _, call := range rec.take() {
		if call[:6] == "attach" || call[:6] == "detach" {
			t.Fatalf("lite mode touched media: %s", call)
		}
	}
	if !ctrl.Snapshot().Lite {
		t.Error("snapshot does not report lite")
	}
}

func TestMediaFailureIsSwallowed(t *testing.T) {
	ctrl, rec := newController(false)
	rec.attachErr = errors.New("decode error")
	ctrl.Load(mixed)
	ctrl.Goto(1)

	if got := ctrl.Snapshot().Index; got != 1 {
		t.Fatalf("index = %d", got)
	}
	ctrl.Next()
	calls := rec.take()
	if calls[len(calls)-2] != "detach 1" {
		t.Errorf("failed media was not released: %v", calls)
	}
}

func TestReloadReleasesMediaAndKeepsIndex(t *testing.T) {
	ctrl, rec := newController(false)
	ctrl.Load(mixed)
	ctrl.Goto(1)
	rec.take()

	ctrl.Load(mixed)
	want := []string{"detach 1", "indicators 4", "slides 4", "attach 1 tour.mp4", "activate 1"}
	if diff := cmp.Diff(want, rec.take()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestTickAdvancesAndReportsProgress(t *testing.T) {
	ctrl, rec := newController(false)
	ctrl.Load(mixed[:1])

	ctrl.onTick()
	if rec.progress < 9.99 || rec.progress > 10.01 {
		t.Errorf("progress = %v", rec.progress)
	}

	ctrl.TogglePause()
	ctrl.onTick()
	if snap := ctrl.Snapshot(); snap.State != Paused || snap.Progress < 9.99 || snap.Progress > 10.01 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestDoRejectsUnknownCommand(t *testing.T) {
	ctrl, _ := newController(false)
	if err := ctrl.Do("jump", 0); err == nil {
		t.Fatal("expected error")
	}
	if err := ctrl.Do(CommandNext, 0); err != nil {
		t.Fatalf("next on idle: %v", err)
	}
}

func TestNavigationOnIdleIsNoop(t *testing.T) {
	ctrl, rec := newController(false)
	ctrl.Next()
	ctrl.Goto(3)
	if calls := rec.take(); len(calls) != 0 {
		t.Errorf("idle navigation produced %v", calls)
	}
}

func TestRunStopsWithContext(t *testing.T) {
	rec := &recorder{}
	ctrl := NewController(rec, Config{Tick: time.Millisecond, Interval: 4 * time.Millisecond})
	ctrl.Load(makeSlides(2))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := ctrl.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run returned %v", err)
	}

	advanced := false
	for _, call := range rec.take() {
		if call == "activate 1" {
			advanced = true
		}
	}
	if !advanced {
		t.Error("timer never advanced the carousel")
	}
}
