package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/raysh454/vulnscan-web/internal/logging"
	"github.com/raysh454/vulnscan-web/internal/resultcache"
)

// ErrorResponse is the uniform error payload of the JSON endpoints.
type ErrorResponse struct {
	Error string `json:"error" example:"no cached result"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// handleHealth godoc
// @Summary Liveness probe
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// handleCachedResult godoc
// @Summary Last scan result of this session
// @Description Returns the backend payload of the session's most recent successful scan, exactly as the backend sent it.
// @Tags results
// @Produce json
// @Success 200 {object} object
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/result [get]
func (s *Server) handleCachedResult(w http.ResponseWriter, r *http.Request) {
	st := sessionFrom(r.Context())
	res, err := resultcache.NewSlot(s.store, st.ID).Get(r.Context())
	if errors.Is(err, resultcache.ErrEmpty) {
		writeError(w, http.StatusNotFound, "no cached result")
		return
	}
	if err != nil {
		s.logger.Warn("reading cached result", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, "reading cached result failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
