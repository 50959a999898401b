package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"slidecast/config"
	"slidecast/imagegen"
	"slidecast/prompt"
	"slidecast/script"
	"slidecast/sysinfo"
	"slidecast/types"
	"slidecast/video"
)

// MetadataWriter records the settings of a finished run, keyed by the
// output filename
type MetadataWriter interface {
	Add(filename string, meta types.OutputMetadata) error
}

// Archiver pushes a finished video to remote storage. Implementations
// report Enabled()=false when credentials are missing so the pipeline
// can skip the step instead of failing.
type Archiver interface {
	Enabled() bool
	UploadFile(localPath, key string) error
}

// Runner wires the full generation pipeline: segment the narration,
// write a visual prompt per segment, acquire images one by one, then
// assemble the slideshow against the uploaded audio
type Runner struct {
	Styles    *prompt.Catalog
	Prompts   *prompt.Generator
	Fetcher   *imagegen.Fetcher
	Assembler *video.Assembler
	Metadata  MetadataWriter
	Archive   Archiver

	// Profile is swappable for tests; defaults to sysinfo.Probe
	Profile func() sysinfo.RenderProfile

	// Sleep paces the acquisition queue; swappable for tests
	Sleep func(time.Duration)

	OutputDir string
	ImagesDir string
}

func NewRunner(styles *prompt.Catalog, gen *prompt.Generator, fetcher *imagegen.Fetcher, assembler *video.Assembler, meta MetadataWriter, archive Archiver) *Runner {
	return &Runner{
		Styles:    styles,
		Prompts:   gen,
		Fetcher:   fetcher,
		Assembler: assembler,
		Metadata:  meta,
		Archive:   archive,
		Profile:   sysinfo.Probe,
		Sleep:     time.Sleep,
		OutputDir: config.OutputDir,
		ImagesDir: config.ImagesDir,
	}
}

// Run executes one generation end to end and returns the result
// summary. audioPath must point at the already-saved narration audio.
func (r *Runner) Run(ctx context.Context, narration, audioPath string, req types.GenerateRequest) (*types.RunResult, error) {
	applyDefaults(&req)

	session := uuid.New().String()[:8]
	log.Printf("🚀 Starting run %s (mode=%s, model=%s)", session, req.ProcessingMode, req.ImageModel)

	style, ok := r.Styles.Get(req.PromptTemplateID)
	if !ok {
		if req.PromptTemplateID != "" {
			return nil, fmt.Errorf("%w: unknown prompt template %q", types.ErrInvalidInput, req.PromptTemplateID)
		}
		style, _ = r.Styles.Get(prompt.DefaultTemplateID)
	}

	segments, err := script.Split(narration, req.ProcessingMode, req.ImagesPerParagraph)
	if err != nil {
		return nil, err
	}
	log.Printf("Narration split into %d segments", len(segments))

	items := make([]Item, 0, len(segments))
	modelHits := 0
	for _, seg := range segments {
		res := r.Prompts.Generate(ctx, seg.Text, style, req.TextModel)
		switch res.Source {
		case prompt.SourceSkip:
			continue
		case prompt.SourceModel:
			modelHits++
		}
		items = append(items, Item{Index: seg.Index, Prompt: res.Text})
	}

	imageDir := filepath.Join(r.ImagesDir, "session_"+session)
	if err := os.MkdirAll(imageDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image folder: %w", err)
	}

	queue := NewQueue(func(p, dest string) error {
		return r.Fetcher.Fetch(p, config.VideoWidth, config.VideoHeight, req.ImageModel, dest, req.ImageDelay)
	})
	if r.Sleep != nil {
		queue.Sleep = r.Sleep
	}
	acquired, err := queue.Run(items, imageDir)
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(acquired))
	for i, a := range acquired {
		paths[i] = a.Path
	}

	outName := fmt.Sprintf("video_%s.mp4", session)
	outPath := filepath.Join(r.OutputDir, outName)

	profile := r.Profile()
	audioDuration, err := r.Assembler.Create(paths, audioPath, outPath, req, profile)
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Video rendered: %s (%.1fs)", outPath, audioDuration)

	if r.Metadata != nil {
		meta := types.OutputMetadata{
			SessionID:          session,
			PromptTemplateID:   req.PromptTemplateID,
			ImageModel:         req.ImageModel,
			TextModel:          req.TextModel,
			ProcessingMode:     req.ProcessingMode,
			ImagesPerParagraph: req.ImagesPerParagraph,
			ImageDelay:         req.ImageDelay,
			EffectsEnabled:     req.Effects.Enabled,
			GPUEnabled:         req.GPUEnabled,
			TotalImages:        len(acquired),
			AudioDuration:      audioDuration,
			NarrationLength:    len(narration),
			ImageFolder:        imageDir,
			AddedAt:            time.Now().UTC(),
		}
		if err := r.Metadata.Add(outName, meta); err != nil {
			log.Printf("⚠️ Failed to record metadata for %s: %v", outName, err)
		}
	}

	if r.Archive != nil && r.Archive.Enabled() {
		if err := r.Archive.UploadFile(outPath, outName); err != nil {
			log.Printf("⚠️ Archive upload failed for %s: %v", outName, err)
		}
	}

	return &types.RunResult{
		SessionID:     session,
		VideoURL:      "/outputs/" + outName,
		ImageFolder:   imageDir,
		TotalImages:   len(acquired),
		AudioDuration: audioDuration,
		TextStatus:    textStatus(modelHits, len(items)),
	}, nil
}

func applyDefaults(req *types.GenerateRequest) {
	if req.ProcessingMode == "" {
		req.ProcessingMode = script.ModeNormal
	}
	if req.ImageModel == "" {
		req.ImageModel = config.DefaultImageModel
	}
	if req.TextModel == "" {
		req.TextModel = config.DefaultTextModel
	}
	if req.ImagesPerParagraph < 1 {
		req.ImagesPerParagraph = config.DefaultImagesPerParagraph
	}
	if req.ImageDelay < 0 {
		req.ImageDelay = config.DefaultImageDelay
	}
}

// textStatus summarizes how the visual prompts were produced
func textStatus(modelHits, total int) string {
	switch {
	case total == 0 || modelHits == 0:
		return "fallback"
	case modelHits == total:
		return "model"
	default:
		return "partial"
	}
}
