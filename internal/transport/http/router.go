package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"spellingb/internal/app"
	"spellingb/internal/domain"
)

// NewRouter mounts the health check, the read-only JSON API and the game
// socket.
func NewRouter(service *app.GameService, ws *WSHandler, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(log))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	api := &apiHandler{service: service}
	r.Route("/api", func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Use(jsonContentType)
		r.Get("/today", api.today)
		r.Get("/streak", api.streak)
	})

	r.Get("/ws", ws.ServeWS)
	return r
}

type apiHandler struct {
	service *app.GameService
}

func (h *apiHandler) today(w http.ResponseWriter, r *http.Request) {
	difficulty := domain.DifficultyEasy
	if raw := r.URL.Query().Get("difficulty"); raw != "" {
		d, err := domain.ParseDifficulty(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		difficulty = d
	}
	info, err := h.service.Today(r.Context(), difficulty)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrPoolUnavailable) || errors.Is(err, domain.ErrPoolUnderfilled) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, err)
		return
	}
	_ = json.NewEncoder(w).Encode(info)
}

type streakResponse struct {
	DeviceID string              `json:"deviceId"`
	Record   domain.StreakRecord `json:"record"`
	Display  int                 `json:"display"`
}

func (h *apiHandler) streak(w http.ResponseWriter, r *http.Request) {
	deviceID := r.URL.Query().Get("deviceId")
	if deviceID == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing deviceId"))
		return
	}
	rec, display := h.service.Streak(r.Context(), deviceID)
	_ = json.NewEncoder(w).Encode(streakResponse{DeviceID: deviceID, Record: rec, Display: display})
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorPayload{Message: err.Error()})
}

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request once the handler returns.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Str("request_id", chimw.GetReqID(r.Context())).
				Msg("http request")
		})
	}
}
