package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcmusabe/blokhut-display/internal/carousel"
	errx "github.com/mcmusabe/blokhut-display/internal/core/error"
	"github.com/mcmusabe/blokhut-display/internal/news"
	"github.com/mcmusabe/blokhut-display/internal/render"
	"github.com/mcmusabe/blokhut-display/internal/services"
)

const (
	defaultQRSize = 256
	minQRSize     = 64
	maxQRSize     = 1024
)

// Navigator is the part of the carousel controller the HTTP layer drives.
type Navigator interface {
	Do(cmd carousel.Command, index int) error
	Snapshot() carousel.Snapshot
}

// NewsSource supplies the current ticker.
type NewsSource interface {
	Current() news.Ticker
}

// DisplayHandler handles kiosk-facing requests
type DisplayHandler struct {
	hub  *services.DisplayHub
	ctrl Navigator
	news NewsSource
}

// NewDisplayHandler creates a new display handler
func NewDisplayHandler(hub *services.DisplayHub, ctrl Navigator, newsSource NewsSource) *DisplayHandler {
	return &DisplayHandler{hub: hub, ctrl: ctrl, news: newsSource}
}

// DisplayActionRequest carries the target of a goto
type DisplayActionRequest struct {
	Index int `json:"index"`
}

// HandleWebSocket attaches a kiosk
// GET /ws/display
func (h *DisplayHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeWS(w, r)
}

// GetState returns the carousel snapshot
// GET /api/display/state
func (h *DisplayHandler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.Snapshot())
}

// DoAction runs a manual navigation command
// POST /api/display/{action}
func (h *DisplayHandler) DoAction(w http.ResponseWriter, r *http.Request) {
	cmd, ok := displayCommand(mux.Vars(r)["action"])
	if !ok {
		writeError(w, r, errx.BadRequest(nil, "action must be next, prev, pause or goto"))
		return
	}

	var req DisplayActionRequest
	if cmd == carousel.CommandGoto {
		if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, r, err)
			return
		}
	}

	if err := h.ctrl.Do(cmd, req.Index); err != nil {
		writeError(w, r, errx.BadRequest(err, "unsupported display action"))
		return
	}
	writeJSON(w, http.StatusOK, h.ctrl.Snapshot())
}

func displayCommand(action string) (carousel.Command, bool) {
	switch action {
	case "next":
		return carousel.CommandNext, true
	case "prev":
		return carousel.CommandPrev, true
	case "pause", "toggle":
		return carousel.CommandToggle, true
	case "goto":
		return carousel.CommandGoto, true
	default:
		return "", false
	}
}

// GetNews returns the current ticker
// GET /api/news
func (h *DisplayHandler) GetNews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.news.Current())
}

// GetQR renders a QR code PNG
// GET /api/qr?data=...&size=...
func (h *DisplayHandler) GetQR(w http.ResponseWriter, r *http.Request) {
	data := render.StripScheme(r.URL.Query().Get("data"))
	if data == "" {
		data = render.QRFallback
	}

	size := defaultQRSize
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, errx.BadRequest(err, "size must be an integer"))
			return
		}
		size = min(max(n, minQRSize), maxQRSize)
	}

	png, err := render.QRPNG(data, size)
	if err != nil {
		writeError(w, r, errx.New(err, http.StatusInternalServerError, "could not render QR code"))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(png)
}
