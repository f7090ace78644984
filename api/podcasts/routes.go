package podcasts

import (
	"github.com/gin-gonic/gin"

	"podcatch/api/types"
)

// RegisterRoutes registers podcast routes. Browse endpoints and the sync
// trigger carry different rate limits, applied per route.
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies, browseLimit, syncLimit gin.HandlerFunc) {
	router.GET("", browseLimit, GetAll(deps))
	router.POST("", browseLimit, PostAdd(deps))
	router.GET("/:id", browseLimit, GetPodcast(deps))
	router.GET("/:id/episodes", browseLimit, GetEpisodes(deps))
	router.POST("/sync", syncLimit, PostSync(deps))
}
