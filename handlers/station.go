// Package handlers carries the simulated station's HTTP surface. Routes
// are declared as an explicit table and injected into the router rather
// than registered globally.
package handlers

import (
	"net/http"

	"wim-pipeline/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StationHandler struct {
	gen *services.Generator
	log *zap.Logger
}

func NewStationHandler(gen *services.Generator, log *zap.Logger) *StationHandler {
	return &StationHandler{gen: gen, log: log}
}

// GetData serves the latest fabricated snapshot.
func (h *StationHandler) GetData(c *gin.Context) {
	snap := h.gen.Snapshot()
	if snap == nil {
		// First generator cycle has not completed yet.
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no snapshot available yet"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Health is the liveness check the acquisition loop gates on.
func (h *StationHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// Route maps one endpoint to its handler.
type Route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

// Routes returns the station's endpoint table.
func (h *StationHandler) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/data", Handler: h.GetData},
		{Method: http.MethodGet, Path: "/health", Handler: h.Health},
	}
}
