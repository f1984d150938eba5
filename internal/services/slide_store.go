package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	errx "github.com/mcmusabe/blokhut-display/internal/core/error"
	"github.com/mcmusabe/blokhut-display/internal/models"
	"github.com/mcmusabe/blokhut-display/internal/slides"
	"github.com/mcmusabe/blokhut-display/pkg/jsonfile"
	logx "github.com/mcmusabe/blokhut-display/pkg/logger"
)

// SlideStore manages the slide sequence in slides.json. The file is the
// only copy: every read and every edit starts from what is on disk, so
// hand edits are never overwritten by a stale in-memory list. Elements are
// stored exactly as received; only the enclosing array is enforced.
type SlideStore struct {
	mu       sync.RWMutex
	filePath string
	onChange []func()
}

// NewSlideStore creates a store and checks that the file at filePath is
// readable.
func NewSlideStore(filePath string) (*SlideStore, error) {
	store := &SlideStore{filePath: filePath}
	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("failed to load slides: %w", err)
	}
	return store, nil
}

// OnChange registers fn to run after every successful save.
func (s *SlideStore) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// Load verifies slides.json. A missing file is an empty sequence; a corrupt
// file is an error so a bad edit is never silently shown as blank.
func (s *SlideStore) Load() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list, err := s.read()
	if err != nil {
		return err
	}
	logx.Info().Int("slides", len(list)).Str("path", s.filePath).Msg("loaded slides")
	return nil
}

// List returns the stored elements as they are on disk.
func (s *SlideStore) List() ([]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read()
}

// Slides returns the sequence decoded for display. Mistyped fields are
// skipped and logged.
func (s *SlideStore) Slides() ([]models.Slide, error) {
	raws, err := s.List()
	if err != nil {
		return nil, err
	}
	list, err := models.DecodeSlides(raws)
	if err != nil {
		logx.Warn().Err(err).Str("path", s.filePath).Msg("slides decoded with problems")
	}
	return list, nil
}

// FetchSlides implements carousel.SlideSource.
func (s *SlideStore) FetchSlides(ctx context.Context) ([]models.Slide, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Slides()
}

// ReplaceAll overwrites the sequence with raws.
func (s *SlideStore) ReplaceAll(raws []json.RawMessage) error {
	if raws == nil {
		raws = []json.RawMessage{}
	}
	return s.mutate(func([]json.RawMessage) ([]json.RawMessage, error) {
		return raws, nil
	})
}

// Append adds a slide at the end.
func (s *SlideStore) Append(slide models.Slide) error {
	raw, err := encodeSlide(slide)
	if err != nil {
		return err
	}
	return s.mutate(func(cur []json.RawMessage) ([]json.RawMessage, error) {
		return slides.Append(cur, raw), nil
	})
}

// Update replaces the slide at index.
func (s *SlideStore) Update(index int, slide models.Slide) error {
	raw, err := encodeSlide(slide)
	if err != nil {
		return err
	}
	return s.mutate(func(cur []json.RawMessage) ([]json.RawMessage, error) {
		return slides.Replace(cur, index, raw)
	})
}

// Delete removes the slide at index.
func (s *SlideStore) Delete(index int) error {
	return s.mutate(func(cur []json.RawMessage) ([]json.RawMessage, error) {
		return slides.Delete(cur, index)
	})
}

// Duplicate appends a copy of the slide at index and returns the copy.
func (s *SlideStore) Duplicate(index int) (models.Slide, error) {
	var dup json.RawMessage
	err := s.mutate(func(cur []json.RawMessage) ([]json.RawMessage, error) {
		next, err := slides.DuplicateRaw(cur, index)
		if err != nil {
			if errors.Is(err, slides.ErrIndexOutOfRange) {
				return nil, err
			}
			return nil, errx.BadRequest(err, "slide cannot be duplicated")
		}
		dup = next[len(next)-1]
		return next, nil
	})
	if err != nil {
		return models.Slide{}, err
	}
	slide, _ := models.DecodeSlide(dup)
	return slide, nil
}

// Move relocates the slide at from to index to.
func (s *SlideStore) Move(from, to int) error {
	return s.mutate(func(cur []json.RawMessage) ([]json.RawMessage, error) {
		return slides.Move(cur, from, to)
	})
}

func encodeSlide(slide models.Slide) (json.RawMessage, error) {
	raw, err := json.Marshal(slide)
	if err != nil {
		return nil, fmt.Errorf("failed to encode slide: %w", err)
	}
	return raw, nil
}

// Must be called with mu held.
func (s *SlideStore) read() ([]json.RawMessage, error) {
	var list []json.RawMessage
	if err := jsonfile.Read(s.filePath, &list); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []json.RawMessage{}, nil
		}
		return nil, errx.WrapStorage(err)
	}
	if list == nil {
		list = []json.RawMessage{}
	}
	return list, nil
}

func (s *SlideStore) mutate(fn func([]json.RawMessage) ([]json.RawMessage, error)) error {
	s.mu.Lock()
	cur, err := s.read()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	next, err := fn(cur)
	if err != nil {
		s.mu.Unlock()
		if errors.Is(err, slides.ErrIndexOutOfRange) {
			return errx.NotFound(err, "slide not found")
		}
		return err
	}
	if err := jsonfile.WriteAtomic(s.filePath, next); err != nil {
		s.mu.Unlock()
		return errx.WrapStorage(fmt.Errorf("failed to save slides: %w", err))
	}
	hooks := append([]func(){}, s.onChange...)
	s.mu.Unlock()

	logx.Info().Int("slides", len(next)).Msg("slides saved")
	for _, fn := range hooks {
		fn()
	}
	return nil
}
