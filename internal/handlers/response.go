package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	errx "github.com/mcmusabe/blokhut-display/internal/core/error"
	logx "github.com/mcmusabe/blokhut-display/pkg/logger"
)

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse acknowledges writes that return no resource.
type SuccessResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logx.Warn().Err(err).Msg("failed to encode response")
	}
}

// writeError answers with the status and safe message carried by err.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errx.StatusOf(err)
	if status >= http.StatusInternalServerError {
		logx.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	} else {
		logx.Debug().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Int("status", status).Msg("request rejected")
	}
	writeJSON(w, status, ErrorResponse{Error: errx.MessageOf(err)})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errx.BadRequest(err, "request body is required")
		}
		return errx.BadRequest(err, "invalid JSON")
	}
	return nil
}

func indexVar(r *http.Request) (int, error) {
	raw := mux.Vars(r)["index"]
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 {
		return 0, errx.BadRequest(err, "index must be a non-negative integer")
	}
	return i, nil
}
