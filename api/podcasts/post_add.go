package podcasts

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/go-pkgz/lgr"

	"podcatch/api/types"
	svc "podcatch/internal/services/podcasts"
)

// PostAdd tracks a new feed. The feed is fetched and parsed before the
// podcast is stored, same as the add command.
func PostAdd(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddPodcastRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		podcast, err := deps.Podcasts.Add(c.Request.Context(), svc.AddParams{
			Name:      req.Name,
			FeedURL:   req.FeedURL,
			Directory: req.Directory,
		})
		switch {
		case err == nil:
		case errors.Is(err, svc.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Error:   "invalid podcast",
				Details: err.Error(),
			})
			return
		case errors.Is(err, svc.ErrPodcastExists):
			c.JSON(http.StatusConflict, types.ErrorResponse{
				Error:   "podcast already tracked",
				Details: err.Error(),
			})
			return
		default:
			log.Printf("[WARN] add podcast %q: %v", req.Name, err)
			c.JSON(http.StatusBadGateway, types.ErrorResponse{
				Error:   "feed validation failed",
				Details: err.Error(),
			})
			return
		}

		c.JSON(http.StatusCreated, PodcastResponse{Podcast: podcast})
	}
}
