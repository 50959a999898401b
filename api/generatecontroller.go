package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"slidecast/config"
	"slidecast/pipeline"
	"slidecast/types"
)

// runMu serializes generation runs: the acquisition queue and the
// ffmpeg render both assume they own the machine
var runMu sync.Mutex

// RegisterGenerateRoutes registers the video generation endpoint.
func RegisterGenerateRoutes(r *gin.Engine, runner *pipeline.Runner) {
	r.POST("/api/generate", func(c *gin.Context) { handleGenerate(c, runner) })
}

// handleGenerate runs one narration-to-video generation from a
// multipart form: a narration text field, an audio file, and optional
// settings fields. The request blocks until the video is rendered.
func handleGenerate(c *gin.Context, runner *pipeline.Runner) {
	narration := c.PostForm("narration")
	if narration == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "narration text is required"})
		return
	}

	audio, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio file is required"})
		return
	}

	req := parseSettings(c)

	// The upload only needs to outlive the run
	audioPath := filepath.Join(config.UploadDir, fmt.Sprintf("%s%s", uuid.New().String(), filepath.Ext(audio.Filename)))
	if err := c.SaveUploadedFile(audio, audioPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save audio upload"})
		return
	}
	defer os.Remove(audioPath)

	runMu.Lock()
	defer runMu.Unlock()

	result, err := runner.Run(c.Request.Context(), narration, audioPath, req)
	if err != nil {
		log.Printf("❌ Generation failed: %v", err)
		status := http.StatusInternalServerError
		if errors.Is(err, types.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"session_id":     result.SessionID,
		"video_url":      result.VideoURL,
		"image_folder":   result.ImageFolder,
		"total_images":   result.TotalImages,
		"audio_duration": result.AudioDuration,
		"text_status":    result.TextStatus,
	})
}

// parseSettings reads the optional form fields; anything absent keeps
// its zero value and picks up pipeline defaults
func parseSettings(c *gin.Context) types.GenerateRequest {
	req := types.GenerateRequest{
		PromptTemplateID:   c.PostForm("prompt_template"),
		ImageModel:         c.PostForm("image_model"),
		TextModel:          c.PostForm("text_model"),
		ProcessingMode:     c.PostForm("processing_mode"),
		ImagesPerParagraph: formInt(c, "images_per_paragraph", 0),
		ImageDelay:         formInt(c, "image_generation_delay", config.DefaultImageDelay),
		GPUEnabled:         formBool(c, "gpu_enabled"),
		Effects: types.EffectsConfig{
			Enabled: formBool(c, "effects_enabled"),
			ZoomIn:  formInt(c, "zoom_in_weight", config.DefaultZoomInWeight),
			ZoomOut: formInt(c, "zoom_out_weight", config.DefaultZoomOutWeight),
			Still:   formInt(c, "still_weight", config.DefaultStillWeight),
			Fade:    formInt(c, "fade_weight", config.DefaultFadeWeight),
		},
	}
	return req
}

func formInt(c *gin.Context, field string, fallback int) int {
	raw := c.PostForm(field)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func formBool(c *gin.Context, field string) bool {
	v, _ := strconv.ParseBool(c.PostForm(field))
	return v
}
