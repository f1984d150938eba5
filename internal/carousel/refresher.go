package carousel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mcmusabe/blokhut-display/internal/models"
	"github.com/mcmusabe/blokhut-display/internal/slides"
	logx "github.com/mcmusabe/blokhut-display/pkg/logger"
)

// ErrLoadFailure means the first slide fetch failed and the carousel never started.
var ErrLoadFailure = errors.New("initial slide load failed")

// SlideSource yields the current slide sequence. Fetches must be repeatable.
type SlideSource interface {
	FetchSlides(ctx context.Context) ([]models.Slide, error)
}

// Refresher keeps the controller's slides in step with a SlideSource.
type Refresher struct {
	source SlideSource
	ctrl   *Controller
	period time.Duration

	mu      sync.Mutex
	current []models.Slide
}

// NewRefresher returns a refresher polling source every period.
func NewRefresher(source SlideSource, ctrl *Controller, period time.Duration) *Refresher {
	return &Refresher{source: source, ctrl: ctrl, period: period}
}

// Start performs the initial load and then refreshes every period until ctx
// is done. A failed initial load shows the error state on the surface and
// returns ErrLoadFailure without starting the refresh loop.
func (r *Refresher) Start(ctx context.Context) error {
	list, err := r.source.FetchSlides(ctx)
	if err != nil {
		logx.Error().Err(err).Msg("error loading slides")
		r.ctrl.Fail(err)
		return fmt.Errorf("%w: %v", ErrLoadFailure, err)
	}

	r.mu.Lock()
	r.current = list
	r.ctrl.Load(list)
	r.mu.Unlock()
	logx.Info().Int("slides", len(list)).Dur("refresh", r.period).Msg("display started")

	ticker := time.NewTicker(r.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// failures are logged inside Refresh; the display keeps its slides
			_, _ = r.Refresh(ctx)
		}
	}
}

// Refresh refetches the slides and reloads the controller when the
// sequence changed by length or by any positional title. A failed fetch
// leaves everything as it was.
func (r *Refresher) Refresh(ctx context.Context) (changed bool, err error) {
	list, err := r.source.FetchSlides(ctx)
	if err != nil {
		logx.Warn().Err(err).Msg("error refreshing content")
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if slides.SameTitles(r.current, list) {
		return false, nil
	}
	r.current = list
	r.ctrl.Load(list)
	logx.Info().Int("slides", len(list)).Msg("content updated")
	return true, nil
}
