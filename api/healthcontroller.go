package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"slidecast/sysinfo"
)

// RegisterHealthRoutes registers the liveness endpoint.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/health", handleHealth)
}

// handleHealth reports liveness plus the render profile the next run
// would use, which makes capacity problems visible before a render
func handleHealth(c *gin.Context) {
	profile := sysinfo.Probe()
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"render_profile": gin.H{
			"tier":    profile.Tier.String(),
			"threads": profile.Threads,
			"fps":     profile.FPS,
			"effects": profile.EffectsAllowed,
		},
	})
}
