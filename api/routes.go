package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"podcatch/api/health"
	"podcatch/api/podcasts"
	"podcatch/api/types"
	"podcatch/api/version"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, limiters *rateLimiters) error {
	if deps == nil {
		return fmt.Errorf("handler dependencies are not set")
	}

	// Public routes, no rate limiting
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	engine.NoRoute(NotFoundHandler())

	v1 := engine.Group("/api/v1")

	// Browse endpoints share a generous budget; the sync trigger gets a
	// strict one since each call fans out to every feed.
	podcastGroup := v1.Group("/podcasts")
	browseLimit := limiters.perClient(10, 20)
	syncLimit := limiters.perClient(1, 2)
	podcasts.RegisterRoutes(podcastGroup, deps, browseLimit, syncLimit)

	return nil
}

// NotFoundHandler handles unknown paths
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   "the requested endpoint was not found",
			Details: c.Request.URL.Path,
		})
	}
}
