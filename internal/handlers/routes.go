package handlers

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	errx "github.com/mcmusabe/blokhut-display/internal/core/error"
	logx "github.com/mcmusabe/blokhut-display/pkg/logger"
)

// AdminTokenHeader carries the admin token as an alternative to a bearer token.
const AdminTokenHeader = "X-Admin-Token"

var errUnauthorized = errors.New("missing or invalid admin token")

// RequireToken guards admin writes with a static shared token. An empty
// token disables the check.
func RequireToken(token string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(AdminTokenHeader)
			if bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
				got = bearer
			}
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				writeError(w, r, errx.New(errUnauthorized, http.StatusUnauthorized, "unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logx.Debug().Str("method", r.Method).Str("path", r.URL.Path).Dur("took", time.Since(start)).Msg("request")
	})
}

// SetupRoutes wires every endpoint. assets serves the kiosk files; it may be nil.
func SetupRoutes(
	slideHandler *SlideHandler,
	configHandler *ConfigHandler,
	displayHandler *DisplayHandler,
	remoteHandler *RemoteHandler,
	assets http.Handler,
	adminToken string,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(logRequests)
	admin := RequireToken(adminToken)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// Slides
	r.HandleFunc("/api/slides", slideHandler.ListSlides).Methods(http.MethodGet)
	r.Handle("/api/slides", admin(http.HandlerFunc(slideHandler.ReplaceSlides))).Methods(http.MethodPut, http.MethodPost)
	r.HandleFunc("/api/slides/search", slideHandler.SearchSlides).Methods(http.MethodGet)
	r.Handle("/api/slides/item", admin(http.HandlerFunc(slideHandler.CreateSlide))).Methods(http.MethodPost)
	r.Handle("/api/slides/item/{index:[0-9]+}", admin(http.HandlerFunc(slideHandler.UpdateSlide))).Methods(http.MethodPut)
	r.Handle("/api/slides/item/{index:[0-9]+}", admin(http.HandlerFunc(slideHandler.DeleteSlide))).Methods(http.MethodDelete)
	r.Handle("/api/slides/item/{index:[0-9]+}/duplicate", admin(http.HandlerFunc(slideHandler.DuplicateSlide))).Methods(http.MethodPost)
	r.Handle("/api/slides/item/{index:[0-9]+}/move", admin(http.HandlerFunc(slideHandler.MoveSlide))).Methods(http.MethodPost)
	r.HandleFunc("/api/slide-types/{type}/fields", slideHandler.SlideTypeFields).Methods(http.MethodGet)

	// Site config
	r.HandleFunc("/api/config", configHandler.GetConfig).Methods(http.MethodGet)
	r.Handle("/api/config", admin(http.HandlerFunc(configHandler.UpdateConfig))).Methods(http.MethodPost)

	// Display
	r.HandleFunc("/ws/display", displayHandler.HandleWebSocket)
	r.HandleFunc("/api/display/state", displayHandler.GetState).Methods(http.MethodGet)
	r.HandleFunc("/api/display/{action}", displayHandler.DoAction).Methods(http.MethodPost)
	r.HandleFunc("/api/news", displayHandler.GetNews).Methods(http.MethodGet)
	r.HandleFunc("/api/qr", displayHandler.GetQR).Methods(http.MethodGet)

	// Remote buttons
	r.HandleFunc("/api/remote/press", remoteHandler.PressButton).Methods(http.MethodPost)
	r.Handle("/api/remote/register", admin(http.HandlerFunc(remoteHandler.RegisterButton))).Methods(http.MethodPost)
	r.Handle("/api/remote/assign", admin(http.HandlerFunc(remoteHandler.AssignButton))).Methods(http.MethodPost, http.MethodPut)
	r.HandleFunc("/api/remote/list", remoteHandler.ListButtons).Methods(http.MethodGet)
	r.HandleFunc("/api/remote/{macAddress}", remoteHandler.GetButton).Methods(http.MethodGet)
	r.Handle("/api/remote/{macAddress}", admin(http.HandlerFunc(remoteHandler.DeleteButton))).Methods(http.MethodDelete)
	r.Handle("/api/remote/{macAddress}/active", admin(http.HandlerFunc(remoteHandler.SetButtonActive))).Methods(http.MethodPut)

	if assets != nil {
		r.PathPrefix("/assets/").Handler(http.StripPrefix("/assets/", assets))
	}
	return r
}
