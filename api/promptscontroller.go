package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"slidecast/prompt"
	"slidecast/types"
)

// RegisterPromptRoutes registers style-template CRUD endpoints.
func RegisterPromptRoutes(r *gin.Engine, styles *prompt.Catalog) {
	g := r.Group("/api/prompts")
	g.GET("", func(c *gin.Context) { handleListPrompts(c, styles) })
	g.POST("", func(c *gin.Context) { handleAddPrompt(c, styles) })
	g.PUT("/:id", func(c *gin.Context) { handleUpdatePrompt(c, styles) })
	g.DELETE("/:id", func(c *gin.Context) { handleDeletePrompt(c, styles) })
}

type promptPayload struct {
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
}

func handleListPrompts(c *gin.Context, styles *prompt.Catalog) {
	templates, err := styles.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"prompts": templates})
}

func handleAddPrompt(c *gin.Context, styles *prompt.Catalog) {
	var payload promptPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	tpl, err := styles.Add(payload.Name, payload.Prompt)
	if err != nil {
		c.JSON(promptStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, tpl)
}

func handleUpdatePrompt(c *gin.Context, styles *prompt.Catalog) {
	var payload promptPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	if err := styles.Update(c.Param("id"), payload.Name, payload.Prompt); err != nil {
		c.JSON(promptStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func handleDeletePrompt(c *gin.Context, styles *prompt.Catalog) {
	if err := styles.Delete(c.Param("id")); err != nil {
		c.JSON(promptStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func promptStatus(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, prompt.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, prompt.ErrNotDeletable):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
