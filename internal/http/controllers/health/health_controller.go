// Package health expone los endpoints de liveness y readiness.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/skillrat/authd/internal/store"
)

// Controller responde /healthz y /readyz.
type Controller struct {
	dal store.DataAccessLayer
}

// NewController crea el controller de health.
func NewController(dal store.DataAccessLayer) *Controller {
	return &Controller{dal: dal}
}

// Healthz responde 200 si el proceso está vivo.
func (c *Controller) Healthz(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, http.StatusOK, "ok")
}

// Readyz responde 200 solo si el store responde al ping.
func (c *Controller) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := c.dal.Ping(ctx); err != nil {
		writeStatus(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	writeStatus(w, http.StatusOK, "ready")
}

func writeStatus(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": msg})
}
