package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"slidecast/store"
	"slidecast/types"
)

// RegisterKeyRoutes registers API-credential endpoints. Values are
// never echoed back; listings only say which keys are configured.
func RegisterKeyRoutes(r *gin.Engine, keys *store.KeyStore) {
	g := r.Group("/api/keys")
	g.GET("", func(c *gin.Context) { handleListKeys(c, keys) })
	g.POST("", func(c *gin.Context) { handleSetKey(c, keys) })
}

func handleListKeys(c *gin.Context, keys *store.KeyStore) {
	configured := map[string]bool{}
	for _, name := range keys.Names() {
		configured[name] = true
	}
	c.JSON(http.StatusOK, gin.H{"keys": configured})
}

func handleSetKey(c *gin.Context, keys *store.KeyStore) {
	var payload struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	if err := keys.Set(payload.Name, payload.Value); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, types.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
