package http

import (
	"net/http"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/db"
)

type healthHandler struct {
	checker db.HealthChecker
}

func newHealthHandler(checker db.HealthChecker) *healthHandler {
	return &healthHandler{checker: checker}
}

func (h *healthHandler) Root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	w.Write([]byte("API is running..."))
}

func (h *healthHandler) Test(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, http.StatusOK, MessageResponse{Message: "Backend is connected successfully!"})
}

func (h *healthHandler) Healthz(w http.ResponseWriter, r *http.Request) error {
	if ok, err := h.checker.IsHealthy(r.Context()); !ok {
		return apperr.DatabaseUnavailableErr.WrapParent(err)
	}

	return writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
