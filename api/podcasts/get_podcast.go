package podcasts

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/go-pkgz/lgr"

	"podcatch/api/types"
	svc "podcatch/internal/services/podcasts"
)

// GetPodcast returns one podcast by its ID
func GetPodcast(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		podcast, err := deps.Podcasts.Get(c.Request.Context(), id)
		if err != nil {
			if svc.IsNotFound(err) {
				types.SendNotFound(c, "podcast not found")
				return
			}
			log.Printf("[ERROR] getting podcast %d: %v", id, err)
			types.SendInternalError(c, "failed to get podcast")
			return
		}

		c.JSON(http.StatusOK, PodcastResponse{Podcast: podcast})
	}
}
