package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"slidecast/store"
	"slidecast/types"
)

// RegisterFileRoutes registers endpoints for managing rendered videos
// and their session images.
func RegisterFileRoutes(r *gin.Engine, files *store.FileManager) {
	g := r.Group("/api/files")
	g.GET("", func(c *gin.Context) { handleListVideos(c, files) })
	g.DELETE("/:filename", func(c *gin.Context) { handleDeleteVideo(c, files) })
	g.GET("/session/:session/images", func(c *gin.Context) { handleListImages(c, files) })
	g.GET("/session/:session/images/download", func(c *gin.Context) { handleDownloadImages(c, files) })
}

func handleListVideos(c *gin.Context, files *store.FileManager) {
	videos, err := files.ListVideos()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": videos})
}

func handleDeleteVideo(c *gin.Context, files *store.FileManager) {
	err := files.DeleteVideo(c.Param("filename"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true})
	case errors.Is(err, types.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case os.IsNotExist(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func handleListImages(c *gin.Context, files *store.FileManager) {
	images, err := files.ListSessionImages(c.Param("session"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, types.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}

func handleDownloadImages(c *gin.Context, files *store.FileManager) {
	session := c.Param("session")
	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="session_%s_images.zip"`, session))

	if err := files.ZipSessionImages(session, c.Writer); err != nil {
		// Headers may already be out; best effort status
		status := http.StatusInternalServerError
		if errors.Is(err, types.ErrInvalidInput) {
			status = http.StatusBadRequest
		} else if os.IsNotExist(err) {
			status = http.StatusNotFound
		}
		c.Status(status)
	}
}
