package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"slidecast/api"
	"slidecast/common"
	"slidecast/config"
	"slidecast/imagegen"
	"slidecast/pipeline"
	"slidecast/prompt"
	"slidecast/store"
	"slidecast/video"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	for _, dir := range []string{config.UploadDir, config.OutputDir, config.ImagesDir, config.DataDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("failed to create %s: %v", dir, err)
		}
	}

	keys := store.NewKeyStore(config.APIKeysFile)
	styles, err := prompt.NewCatalog(config.PromptsFile)
	if err != nil {
		log.Fatalf("failed to open prompt catalog: %v", err)
	}
	metadata := store.NewMetadataStore(config.MetadataFile)
	files := store.NewFileManager(config.OutputDir, config.ImagesDir, metadata)

	if removed := store.CleanupUploads(config.UploadDir, 24*time.Hour); removed > 0 {
		log.Printf("Removed %d stale upload(s)", removed)
	}

	// Prompt enhancement degrades to deterministic fallback prompts
	// when no text API key is configured
	var model prompt.TextModel
	if key, ok := keys.Get(config.TextAPIKeyName); ok {
		model = prompt.NewCohereModel(key)
		log.Println("✅ Text model client initialized")
	} else {
		log.Printf("%s not configured, prompts will use the fallback template", config.TextAPIKeyName)
	}

	archive, err := common.NewArchive(context.Background())
	if err != nil {
		log.Printf("⚠️ Archive disabled: %v", err)
		archive = nil
	}

	runner := pipeline.NewRunner(
		styles,
		prompt.NewGenerator(model),
		imagegen.NewFetcher(),
		video.NewAssembler(),
		metadata,
		archive,
	)

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	r := api.NewRouter(api.Deps{
		Runner: runner,
		Styles: styles,
		Keys:   keys,
		Files:  files,
	})

	log.Printf("Starting API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  POST   /api/generate")
	log.Println("  GET    /api/prompts")
	log.Println("  POST   /api/prompts")
	log.Println("  PUT    /api/prompts/:id")
	log.Println("  DELETE /api/prompts/:id")
	log.Println("  GET    /api/keys")
	log.Println("  POST   /api/keys")
	log.Println("  GET    /api/files")
	log.Println("  DELETE /api/files/:filename")
	log.Println("  GET    /api/files/session/:session/images")
	log.Println("  GET    /api/files/session/:session/images/download")
	log.Println("  GET    /health")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
