package version

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"podcatch/api/types"
)

// Get reports the build identity of the running binary.
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    "podcatch",
			"version": deps.Version,
			"commit":  deps.Commit,
		})
	}
}
