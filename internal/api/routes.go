package api

import "github.com/gin-gonic/gin"

// SetupRoutes registers all endpoints on router.
func SetupRoutes(router *gin.Engine, h *Handlers) {
	router.GET("/health", h.CheckHealth)

	api := router.Group("/api")
	api.GET("/analyze", h.Analyze)
	api.GET("/search_tickers", h.SearchTickers)
	api.GET("/defaults", h.GetDefaults)
	api.GET("/runs", h.RecentRuns)
}

// NewRouter builds an engine with request logging and panic recovery.
func NewRouter(h *Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	SetupRoutes(router, h)
	return router
}
