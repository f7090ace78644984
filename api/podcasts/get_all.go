package podcasts

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/go-pkgz/lgr"

	"podcatch/api/types"
)

// GetAll returns every tracked podcast
func GetAll(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		all, err := deps.Podcasts.List(c.Request.Context())
		if err != nil {
			log.Printf("[ERROR] listing podcasts: %v", err)
			types.SendInternalError(c, "failed to list podcasts")
			return
		}

		c.JSON(http.StatusOK, PodcastsResponse{Podcasts: all, Count: len(all)})
	}
}
