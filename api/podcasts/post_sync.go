package podcasts

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/go-pkgz/lgr"

	"podcatch/api/types"
)

// PostSync runs one full feed cycle and reports per-podcast results. The
// run is synchronous; the strict rate limit on this route keeps a client
// from stacking cycles.
func PostSync(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Sync == nil {
			types.SendInternalError(c, "sync is not configured")
			return
		}

		report, err := deps.Sync.Run(c.Request.Context())
		if err != nil {
			log.Printf("[ERROR] sync run: %v", err)
			types.SendInternalError(c, "sync failed")
			return
		}

		c.JSON(http.StatusOK, NewSyncResponse(report))
	}
}
