package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcmusabe/blokhut-display/internal/carousel"
	errx "github.com/mcmusabe/blokhut-display/internal/core/error"
	"github.com/mcmusabe/blokhut-display/internal/models"
	"github.com/mcmusabe/blokhut-display/internal/services"
	logx "github.com/mcmusabe/blokhut-display/pkg/logger"
)

// RemoteHandler handles HTTP requests for hardware remote buttons
type RemoteHandler struct {
	ctrl    Navigator
	remotes *services.RemoteService
}

// NewRemoteHandler creates a new remote button handler
func NewRemoteHandler(ctrl Navigator, remotes *services.RemoteService) *RemoteHandler {
	return &RemoteHandler{ctrl: ctrl, remotes: remotes}
}

// RemotePressRequest represents a button press from a device
type RemotePressRequest struct {
	MACAddress string `json:"macAddress"`
}

// RemotePressResponse represents the response to a button press
type RemotePressResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Processed bool   `json:"processed"`
	Action    string `json:"action,omitempty"`
}

// RegisterRemoteRequest represents a button registration request
type RegisterRemoteRequest struct {
	MACAddress string `json:"macAddress"`
	Name       string `json:"name,omitempty"`
	Action     string `json:"action,omitempty"`
}

// AssignRemoteRequest represents a button assignment request
type AssignRemoteRequest struct {
	MACAddress string `json:"macAddress"`
	Action     string `json:"action"`
}

// SetActiveRequest enables or disables a button
type SetActiveRequest struct {
	IsActive *bool `json:"isActive"`
}

var errMACRequired = errors.New("mac address is required")

func remoteCommand(action string) (carousel.Command, bool) {
	switch action {
	case models.RemoteActionNext:
		return carousel.CommandNext, true
	case models.RemoteActionPrev:
		return carousel.CommandPrev, true
	case models.RemoteActionPause:
		return carousel.CommandToggle, true
	default:
		return "", false
	}
}

// PressButton handles presses from physical buttons. Unknown buttons are
// registered on their first press, without an action.
// POST /api/remote/press
func (h *RemoteHandler) PressButton(w http.ResponseWriter, r *http.Request) {
	var req RemotePressRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.MACAddress == "" {
		writeError(w, r, errx.BadRequest(errMACRequired, "MAC address is required"))
		return
	}

	button, err := h.remotes.RecordPress(req.MACAddress)
	if errors.Is(err, services.ErrButtonNotFound) {
		logx.Info().Str("mac", req.MACAddress).Msg("unknown button pressed, auto-registering")
		if _, err = h.remotes.Register(req.MACAddress, "", ""); err == nil {
			button, err = h.remotes.RecordPress(req.MACAddress)
		}
	}
	if errors.Is(err, services.ErrButtonInactive) {
		writeJSON(w, http.StatusOK, RemotePressResponse{
			Success: true,
			Message: "Button is not active",
		})
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	cmd, ok := remoteCommand(button.Action)
	if !ok {
		writeJSON(w, http.StatusOK, RemotePressResponse{
			Success: true,
			Message: "Button not assigned to an action",
		})
		return
	}

	if err := h.ctrl.Do(cmd, 0); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RemotePressResponse{
		Success:   true,
		Message:   "Button press processed successfully",
		Processed: true,
		Action:    button.Action,
	})
}

// RegisterButton registers a new hardware button
// POST /api/remote/register
func (h *RemoteHandler) RegisterButton(w http.ResponseWriter, r *http.Request) {
	var req RegisterRemoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.MACAddress == "" {
		writeError(w, r, errx.BadRequest(errMACRequired, "MAC address is required"))
		return
	}

	button, err := h.remotes.Register(req.MACAddress, req.Name, req.Action)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, button)
}

// AssignButton sets the carousel action of a button
// POST /api/remote/assign
func (h *RemoteHandler) AssignButton(w http.ResponseWriter, r *http.Request) {
	var req AssignRemoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.MACAddress == "" {
		writeError(w, r, errx.BadRequest(errMACRequired, "MAC address is required"))
		return
	}

	if err := h.remotes.Assign(req.MACAddress, req.Action); err != nil {
		writeError(w, r, err)
		return
	}
	button, err := h.remotes.GetByMAC(req.MACAddress)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, button)
}

// SetButtonActive enables or disables a button. Presses of an inactive
// button are acknowledged but not forwarded to the carousel.
// PUT /api/remote/{macAddress}/active
func (h *RemoteHandler) SetButtonActive(w http.ResponseWriter, r *http.Request) {
	var req SetActiveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.IsActive == nil {
		writeError(w, r, errx.BadRequest(errors.New("isActive is required"), "isActive is required"))
		return
	}

	mac := mux.Vars(r)["macAddress"]
	if err := h.remotes.SetActive(mac, *req.IsActive); err != nil {
		writeError(w, r, err)
		return
	}
	button, err := h.remotes.GetByMAC(mac)
	if err != nil {
		writeError(w, r, err)
		return
	}
	logx.Info().Str("mac", button.MACAddress).Bool("active", button.IsActive).Msg("button activation changed")
	writeJSON(w, http.StatusOK, button)
}

// ListButtons returns all registered buttons
// GET /api/remote/list
func (h *RemoteHandler) ListButtons(w http.ResponseWriter, r *http.Request) {
	buttons, err := h.remotes.List()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, buttons)
}

// GetButton returns a specific button by MAC address
// GET /api/remote/{macAddress}
func (h *RemoteHandler) GetButton(w http.ResponseWriter, r *http.Request) {
	button, err := h.remotes.GetByMAC(mux.Vars(r)["macAddress"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, button)
}

// DeleteButton removes a button from the system
// DELETE /api/remote/{macAddress}
func (h *RemoteHandler) DeleteButton(w http.ResponseWriter, r *http.Request) {
	if err := h.remotes.Delete(mux.Vars(r)["macAddress"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
