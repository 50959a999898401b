package api

import (
	"github.com/gin-gonic/gin"

	"slidecast/config"
	"slidecast/pipeline"
	"slidecast/prompt"
	"slidecast/store"
)

// Deps bundles everything the controllers need
type Deps struct {
	Runner *pipeline.Runner
	Styles *prompt.Catalog
	Keys   *store.KeyStore
	Files  *store.FileManager
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	// Rendered videos and generated images are served straight off
	// disk
	r.Static("/outputs", config.OutputDir)
	r.Static("/images", config.ImagesDir)

	RegisterGenerateRoutes(r, d.Runner)
	RegisterPromptRoutes(r, d.Styles)
	RegisterKeyRoutes(r, d.Keys)
	RegisterFileRoutes(r, d.Files)
	RegisterHealthRoutes(r)
	return r
}
