package config

import "time"

// Acquisition Constants
const (
	// DefaultImageDelay is the rate-limit pause after each validated
	// image download, in seconds
	DefaultImageDelay = 6

	// QueueItemDelay is the fixed pause between queue items, on top of
	// the per-image rate-limit delay
	QueueItemDelay = 2 * time.Second

	// ImageRequestTimeout bounds a single image-generation request.
	// Generation endpoints can take minutes for large models.
	ImageRequestTimeout = 300 * time.Second

	// MinImageDimension is the smallest acceptable width/height of a
	// downloaded image; anything smaller is treated as a failed render
	MinImageDimension = 100

	// DefaultImagesPerParagraph is the segment fan-out in normal mode
	DefaultImagesPerParagraph = 3

	// MinParagraphLength filters out headings and stray short lines in
	// normal mode
	MinParagraphLength = 20
)

// Generation Endpoint Constants
const (
	// ImageEndpoint is the base URL of the image-generation service
	ImageEndpoint = "https://image.pollinations.ai"

	// DefaultImageModel is the image-generation model identifier
	DefaultImageModel = "flux"

	// DefaultTextModel is the text-generation model used for visual
	// prompt expansion
	DefaultTextModel = "command-r-08-2024"

	// MaxPromptChars is the instruction limit for generated visual
	// prompts
	MaxPromptChars = 200
)

// Video Output Constants
const (
	// VideoWidth is the output frame width (16:9)
	VideoWidth = 1280

	// VideoHeight is the output frame height (16:9)
	VideoHeight = 720

	// AudioCodec is the audio encoding codec
	AudioCodec = "aac"

	// AudioBitrate is the audio quality bitrate
	AudioBitrate = "192k"

	// CrossfadeDuration is the overlap between adjacent clips on mid
	// and high tiers, in seconds
	CrossfadeDuration = 0.5

	// LightFadeDuration is the independent fade-in/out applied on the
	// low tier instead of crossfades, in seconds
	LightFadeDuration = 0.2

	// MaxZoomFactor is the zoom-pan endpoint on the high tier
	MaxZoomFactor = 1.3

	// MidTierZoomFactor attenuates the zoom endpoint on mid-range
	// hosts
	MidTierZoomFactor = 1.2
)

// Default Effect Weights
//
// Weights are compared against a uniform draw in [1,100] using
// cumulative thresholds in the order zoom-in, zoom-out, fade, still.
// They do not need to sum to 100.
const (
	DefaultZoomInWeight  = 20
	DefaultZoomOutWeight = 20
	DefaultStillWeight   = 40
	DefaultFadeWeight    = 20
)

// Directory Constants
const (
	// UploadDir holds per-run narration and audio uploads; entries are
	// deleted once the run completes
	UploadDir = "uploads"

	// OutputDir is the directory for rendered videos
	OutputDir = "outputs"

	// ImagesDir holds generated images, namespaced by session id.
	// Images are durable output and are never cleaned automatically.
	ImagesDir = "data/images"

	// DataDir holds the prompt catalog and credential files
	DataDir = "data"
)

// Store Constants
const (
	// APIKeysFile is the KEY=VALUE credential file
	APIKeysFile = "data/api_keys.txt"

	// PromptsFile is the JSON style-template catalog
	PromptsFile = "data/prompts.json"

	// MetadataFile maps output filenames to their run metadata
	MetadataFile = "outputs/metadata.json"

	// TextAPIKeyName is the credential looked up for the
	// text-generation client
	TextAPIKeyName = "COHERE_API_KEY"
)
