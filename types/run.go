package types

import "time"

// GenerateRequest carries everything one run needs beyond the uploaded
// narration and audio files
type GenerateRequest struct {
	PromptTemplateID   string        `json:"prompt_template"`
	ImageModel         string        `json:"image_model"`
	TextModel          string        `json:"text_model"`
	ProcessingMode     string        `json:"processing_mode"` // "normal" or "enhanced"
	ImagesPerParagraph int           `json:"images_per_paragraph"`
	ImageDelay         int           `json:"image_generation_delay"` // seconds
	GPUEnabled         bool          `json:"gpu_enabled"`
	Effects            EffectsConfig `json:"effects"`
}

// EffectsConfig holds the per-run weighted-effect configuration.
// Weights need not sum to 100; see config.DefaultZoomInWeight.
type EffectsConfig struct {
	Enabled bool `json:"enabled"`
	ZoomIn  int  `json:"zoom_in"`
	ZoomOut int  `json:"zoom_out"`
	Still   int  `json:"still"`
	Fade    int  `json:"fade_transition"`
}

// RunResult summarizes a completed pipeline run
type RunResult struct {
	SessionID     string  `json:"session_id"`
	VideoURL      string  `json:"video_url"`
	ImageFolder   string  `json:"image_folder"`
	TotalImages   int     `json:"total_images"`
	AudioDuration float64 `json:"audio_duration"`
	TextStatus    string  `json:"text_status"`
}

// OutputMetadata is the record written for each rendered video, keyed
// by output filename in the metadata store
type OutputMetadata struct {
	SessionID          string    `json:"session_id"`
	PromptTemplateID   string    `json:"prompt_template"`
	ImageModel         string    `json:"image_model"`
	TextModel          string    `json:"text_model"`
	ProcessingMode     string    `json:"processing_mode"`
	ImagesPerParagraph int       `json:"images_per_paragraph"`
	ImageDelay         int       `json:"image_generation_delay"`
	EffectsEnabled     bool      `json:"effects_enabled"`
	GPUEnabled         bool      `json:"gpu_enabled"`
	TotalImages        int       `json:"total_images"`
	AudioDuration      float64   `json:"audio_duration"`
	NarrationLength    int       `json:"narration_length"`
	ImageFolder        string    `json:"image_folder"`
	AddedAt            time.Time `json:"added_at"`
}

// StyleTemplate is one entry of the prompt catalog
type StyleTemplate struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Prompt      string `json:"prompt"`
	IsDeletable bool   `json:"is_deletable"`
}

// FileInfo describes one managed file (video or image) for listings
type FileInfo struct {
	Filename   string         `json:"filename"`
	SessionID  string         `json:"session_id,omitempty"`
	FileType   string         `json:"file_type"` // "video" or "image"
	Extension  string         `json:"extension"`
	Size       int64          `json:"size"`
	SizeMB     float64        `json:"size_mb"`
	ModifiedAt time.Time      `json:"modified_at"`
	URL        string         `json:"url"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}
