package video

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"math/rand"
	"os"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"slidecast/config"
	"slidecast/sysinfo"
	"slidecast/types"
)

// Assembler turns a set of still images plus a narration audio track
// into a single MP4 slideshow. Probe, Run and Draw are swappable for
// tests; production code uses NewAssembler.
type Assembler struct {
	// Probe returns ffprobe's JSON description of a media file
	Probe func(path string) (string, error)

	// Run compiles and executes an assembled ffmpeg output stream
	Run func(stream *ffmpeg.Stream) error

	// Draw returns a uniform value in [1,100] for effect selection
	Draw func() int
}

func NewAssembler() *Assembler {
	return &Assembler{
		Probe: func(path string) (string, error) { return ffmpeg.Probe(path) },
		Run:   func(stream *ffmpeg.Stream) error { return stream.OverWriteOutput().Run() },
		Draw:  func() int { return rand.Intn(100) + 1 },
	}
}

// clipSource pairs an image path with its decode check result; images
// that fail the check are replaced by a black filler clip rather than
// shifting the timeline
type clipSource struct {
	path   string
	usable bool
}

// Create renders the slideshow video and returns the narration
// duration in seconds. The images are shown in order, each for an
// equal slice of the audio. When the main render fails a simplified
// single-image render is attempted before giving up with
// ErrRenderFailed.
func (a *Assembler) Create(imagePaths []string, audioPath, outPath string, req types.GenerateRequest, profile sysinfo.RenderProfile) (float64, error) {
	// Missing files are dropped from the sequence; files that exist
	// but will not decode stay in it as black fillers so the timeline
	// keeps its shape
	sources := make([]clipSource, 0, len(imagePaths))
	firstUsable := ""
	for _, p := range imagePaths {
		if _, statErr := os.Stat(p); statErr != nil {
			log.Printf("⚠️ Image %s disappeared, dropping it from the sequence", p)
			continue
		}
		ok := decodable(p)
		if !ok {
			log.Printf("⚠️ Image %s is unreadable, substituting black filler", p)
		} else if firstUsable == "" {
			firstUsable = p
		}
		sources = append(sources, clipSource{path: p, usable: ok})
	}
	if firstUsable == "" {
		return 0, types.ErrNoValidImages
	}

	duration, err := a.audioDuration(audioPath)
	if err != nil {
		return 0, fmt.Errorf("failed to probe narration audio: %w", err)
	}

	tl := PlanTimeline(duration, len(sources), profile.Tier)
	log.Printf("Timeline: %d clips x %.2fs, fade %.2fs, residual %.2fs", len(sources), tl.Slice, tl.Fade, tl.Residual)

	// One draw per usable clip, fixed up front so a codec retry
	// renders the same effects
	effects := make([]Effect, len(sources))
	for i, src := range sources {
		if src.usable {
			effects[i] = pickEffect(req.Effects, profile, a.Draw())
		}
	}

	render := func(codec string) error {
		graph := a.buildGraph(sources, effects, tl, profile)
		audio := ffmpeg.Input(audioPath)
		return a.Run(ffmpeg.Output([]*ffmpeg.Stream{graph, audio}, outPath, outputArgs(codec, duration, profile)))
	}

	codec := "libx264"
	if req.GPUEnabled && profile.Tier != sysinfo.TierLow {
		codec = "h264_nvenc"
	}

	err = render(codec)
	if err != nil && codec == "h264_nvenc" {
		log.Printf("⚠️ GPU encode failed (%v), retrying with libx264", err)
		codec = "libx264"
		err = render(codec)
	}
	if err == nil {
		return duration, nil
	}

	log.Printf("⚠️ Slideshow render failed (%v), falling back to single-image video", err)
	if fbErr := a.CreateSimple(firstUsable, audioPath, outPath, duration, profile); fbErr != nil {
		return 0, fmt.Errorf("%w: %v (fallback: %v)", types.ErrRenderFailed, err, fbErr)
	}
	return duration, nil
}

// CreateSimple renders the whole narration over a single still image.
// It is the last resort before failing the run.
func (a *Assembler) CreateSimple(imagePath, audioPath, outPath string, duration float64, profile sysinfo.RenderProfile) error {
	img := ffmpeg.Input(imagePath, ffmpeg.KwArgs{
		"loop":      1,
		"framerate": profile.FPS,
		"t":         fmt.Sprintf("%.3f", duration),
	})
	audio := ffmpeg.Input(audioPath)
	return a.Run(ffmpeg.Output([]*ffmpeg.Stream{normalizeFrame(img), audio}, outPath, outputArgs("libx264", duration, profile)))
}

// buildGraph assembles the full video filter graph: normalized clips
// with effects, joined by crossfades (or plain concat on the low
// tier), extended by a frozen last frame when the overlap left the
// video shorter than the audio
func (a *Assembler) buildGraph(sources []clipSource, effects []Effect, tl Timeline, profile sysinfo.RenderProfile) *ffmpeg.Stream {
	clips := make([]*ffmpeg.Stream, len(sources))
	for i, src := range sources {
		if !src.usable {
			clips[i] = blackFiller(tl.Slice, profile.FPS)
			continue
		}
		// zoompan multiplies each input frame by its d frames, so a
		// zoomed clip reads the image once; looping it would stretch
		// the clip to slice*d seconds
		var in *ffmpeg.Stream
		if effects[i].zoomed() {
			in = ffmpeg.Input(src.path)
		} else {
			in = ffmpeg.Input(src.path, ffmpeg.KwArgs{
				"loop":      1,
				"framerate": profile.FPS,
				"t":         fmt.Sprintf("%.3f", tl.Slice),
			})
		}
		clip := applyEffect(normalizeFrame(in), effects[i], tl.Slice, profile)
		if profile.Tier == sysinfo.TierLow {
			clip = lightFades(clip, tl.Slice)
		}
		clips[i] = clip
	}

	var merged *ffmpeg.Stream
	switch {
	case len(clips) == 1:
		merged = clips[0]
	case tl.Fade <= 0:
		merged = ffmpeg.Concat(clips)
	default:
		merged = clips[0]
		offset := 0.0
		for i := 1; i < len(clips); i++ {
			offset += tl.Slice - tl.Fade
			merged = ffmpeg.Filter([]*ffmpeg.Stream{merged, clips[i]}, "xfade", ffmpeg.Args{}, ffmpeg.KwArgs{
				"transition": "fade",
				"duration":   fmt.Sprintf("%.3f", tl.Fade),
				"offset":     fmt.Sprintf("%.3f", offset),
			})
		}
	}

	if tl.Residual > 0 {
		merged = merged.Filter("tpad", ffmpeg.Args{}, ffmpeg.KwArgs{
			"stop_mode":     "clone",
			"stop_duration": fmt.Sprintf("%.3f", tl.Residual),
		})
	}
	return merged
}

// normalizeFrame fits an arbitrary source image into the output frame:
// scale to height, crop overwide sources, pad narrow ones, square
// pixels
func normalizeFrame(s *ffmpeg.Stream) *ffmpeg.Stream {
	return s.
		Filter("scale", ffmpeg.Args{fmt.Sprintf("-2:%d", config.VideoHeight)}).
		Filter("crop", ffmpeg.Args{fmt.Sprintf("min(iw\\,%d):ih", config.VideoWidth)}).
		Filter("pad", ffmpeg.Args{fmt.Sprintf("%d:%d:(ow-iw)/2:(oh-ih)/2", config.VideoWidth, config.VideoHeight)}).
		Filter("setsar", ffmpeg.Args{"1"})
}

func blackFiller(dur float64, fps int) *ffmpeg.Stream {
	return ffmpeg.Input(
		fmt.Sprintf("color=black:s=%dx%d:d=%.3f", config.VideoWidth, config.VideoHeight, dur),
		ffmpeg.KwArgs{"f": "lavfi", "r": fps},
	)
}

func outputArgs(codec string, duration float64, profile sysinfo.RenderProfile) ffmpeg.KwArgs {
	kwargs := ffmpeg.KwArgs{
		"c:v":     codec,
		"c:a":     config.AudioCodec,
		"b:a":     config.AudioBitrate,
		"r":       profile.FPS,
		"pix_fmt": "yuv420p",
		"threads": profile.Threads,
		// Hard cap at the narration length; the freeze extension can
		// otherwise overshoot by a frame
		"t": fmt.Sprintf("%.3f", duration),
	}
	if codec == "h264_nvenc" {
		kwargs["cq"] = profile.CRF
	} else {
		kwargs["preset"] = profile.Preset
		kwargs["crf"] = profile.CRF
	}
	return kwargs
}

// audioDuration reads the container duration via ffprobe
func (a *Assembler) audioDuration(path string) (float64, error) {
	raw, err := a.Probe(path)
	if err != nil {
		return 0, err
	}
	var probed struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(raw), &probed); err != nil {
		return 0, fmt.Errorf("unexpected ffprobe output: %w", err)
	}
	dur, err := strconv.ParseFloat(probed.Format.Duration, 64)
	if err != nil || dur <= 0 {
		return 0, fmt.Errorf("invalid audio duration %q", probed.Format.Duration)
	}
	return dur, nil
}

// decodable reports whether the file parses as an image large enough
// to appear on screen
func decodable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return false
	}
	return cfg.Width >= config.MinImageDimension && cfg.Height >= config.MinImageDimension
}
