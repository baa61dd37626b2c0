package handler

import (
	"context"
	"net/http"

	"skylens/mediascope/internal/pkg/httputils"

	"github.com/gorilla/mux"
)

type PongResponse struct {
	Message string `json:"message"`
}

// Ping
// @Summary Ping the server
// @Description Ping the server
// @Tags system
// @Produce json
// @Success 200 {object} PongResponse
// @Failure 404
// @Router /ping [get]
func Ping(w http.ResponseWriter, r *http.Request) {
	httputils.ResponseJSON(w, 200, PongResponse{Message: "Pong"})
}

// HealthChecker reports whether a backing service is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type SystemHandler struct {
	storage HealthChecker
}

func NewSystemHandler(storage HealthChecker) *SystemHandler {
	return &SystemHandler{storage: storage}
}

func (h *SystemHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ping", Ping).Methods("GET", "OPTIONS")
	router.HandleFunc("/health", h.health).Methods("GET", "OPTIONS")
}

type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

// @Summary Health check
// @Description Report service and storage health
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *SystemHandler) health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Storage: "ok"}

	if err := h.storage.HealthCheck(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.Storage = err.Error()
		httputils.ResponseJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, resp)
}
