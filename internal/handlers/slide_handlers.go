package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	errx "github.com/mcmusabe/blokhut-display/internal/core/error"
	"github.com/mcmusabe/blokhut-display/internal/services"
	"github.com/mcmusabe/blokhut-display/internal/slides"
)

// maxSlidesBody bounds the wholesale slide payload.
const maxSlidesBody = 4 << 20

var errNotArray = errors.New("slides payload is not an array")

// SlideHandler handles HTTP requests for the slide sequence
type SlideHandler struct {
	store *services.SlideStore
}

// NewSlideHandler creates a new slide handler
func NewSlideHandler(store *services.SlideStore) *SlideHandler {
	return &SlideHandler{store: store}
}

// MoveSlideRequest represents a request to reorder a slide
type MoveSlideRequest struct {
	To int `json:"to"`
}

// FieldsResponse lists the editor field groups shown for a slide type
type FieldsResponse struct {
	Type       string                     `json:"type"`
	Groups     []slides.FieldGroup        `json:"groups"`
	Visibility map[slides.FieldGroup]bool `json:"visibility"`
}

// ListSlides returns the slide sequence
// GET /api/slides
func (h *SlideHandler) ListSlides(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.List()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// ReplaceSlides overwrites the whole sequence. Only the array is checked;
// its elements are stored as sent.
// PUT/POST /api/slides
func (h *SlideHandler) ReplaceSlides(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSlidesBody))
	if err != nil {
		writeError(w, r, errx.BadRequest(err, "could not read request body"))
		return
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || trimmed[0] != '[' {
		writeError(w, r, errx.BadRequest(errNotArray, "slides must be an array"))
		return
	}

	var list []json.RawMessage
	if err := json.Unmarshal(body, &list); err != nil {
		writeError(w, r, errx.BadRequest(err, "invalid JSON"))
		return
	}

	if err := h.store.ReplaceAll(list); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Count: len(list)})
}

// CreateSlide appends a slide built from the editor form
// POST /api/slides/item
func (h *SlideHandler) CreateSlide(w http.ResponseWriter, r *http.Request) {
	var form slides.Form
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, r, err)
		return
	}

	slide := slides.FromForm(form)
	if err := h.store.Append(slide); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, slide)
}

// UpdateSlide replaces the slide at an index with the editor form
// PUT /api/slides/item/{index}
func (h *SlideHandler) UpdateSlide(w http.ResponseWriter, r *http.Request) {
	index, err := indexVar(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var form slides.Form
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, r, err)
		return
	}

	slide := slides.FromForm(form)
	if err := h.store.Update(index, slide); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, slide)
}

// DeleteSlide removes the slide at an index
// DELETE /api/slides/item/{index}
func (h *SlideHandler) DeleteSlide(w http.ResponseWriter, r *http.Request) {
	index, err := indexVar(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.store.Delete(index); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DuplicateSlide appends a copy of the slide at an index
// POST /api/slides/item/{index}/duplicate
func (h *SlideHandler) DuplicateSlide(w http.ResponseWriter, r *http.Request) {
	index, err := indexVar(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	dup, err := h.store.Duplicate(index)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dup)
}

// MoveSlide moves the slide at an index to a new position
// POST /api/slides/item/{index}/move
func (h *SlideHandler) MoveSlide(w http.ResponseWriter, r *http.Request) {
	index, err := indexVar(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req MoveSlideRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.store.Move(index, req.To); err != nil {
		writeError(w, r, err)
		return
	}
	h.ListSlides(w, r)
}

// SearchSlides filters the sequence, keeping original indexes
// GET /api/slides/search?q=...
func (h *SlideHandler) SearchSlides(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.Slides()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, slides.Filter(list, r.URL.Query().Get("q")))
}

// SlideTypeFields returns the field groups the editor shows for a type
// GET /api/slide-types/{type}/fields
func (h *SlideHandler) SlideTypeFields(w http.ResponseWriter, r *http.Request) {
	t := mux.Vars(r)["type"]
	writeJSON(w, http.StatusOK, FieldsResponse{
		Type:       slides.EffectiveType(t),
		Groups:     slides.VisibleGroups(t),
		Visibility: slides.Visibility(t),
	})
}
