package handlers

import (
	"wim-pipeline/config"
	"wim-pipeline/middleware"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the station's Gin engine from an injected route
// table.
func NewRouter(cfg config.CORSConfig, routes []Route) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.SetupCORS(cfg))

	for _, r := range routes {
		router.Handle(r.Method, r.Path, r.Handler)
	}
	return router
}
