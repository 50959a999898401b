package video

import (
	"fmt"
	"math"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"slidecast/config"
	"slidecast/sysinfo"
	"slidecast/types"
)

// Effect is the motion treatment applied to a single clip
type Effect int

const (
	EffectStill Effect = iota
	EffectZoomIn
	EffectZoomOut
	EffectFade
)

// zoomed reports whether the effect renders through zoompan, which
// emits its full frame count from a single input frame
func (e Effect) zoomed() bool {
	return e == EffectZoomIn || e == EffectZoomOut
}

func (e Effect) String() string {
	switch e {
	case EffectZoomIn:
		return "zoom_in"
	case EffectZoomOut:
		return "zoom_out"
	case EffectFade:
		return "fade"
	default:
		return "still"
	}
}

// pickEffect selects a clip effect from the configured weights.
// The draw is compared against cumulative thresholds in a fixed order
// (zoom-in, zoom-out, fade, still) so equal weights resolve the same
// way on every host. A draw beyond the final threshold falls through
// to still.
func pickEffect(cfg types.EffectsConfig, profile sysinfo.RenderProfile, draw int) Effect {
	if !cfg.Enabled || !profile.EffectsAllowed {
		return EffectStill
	}

	cumulative := cfg.ZoomIn
	if draw <= cumulative {
		return EffectZoomIn
	}
	cumulative += cfg.ZoomOut
	if draw <= cumulative {
		return EffectZoomOut
	}
	cumulative += cfg.Fade
	if draw <= cumulative {
		return EffectFade
	}
	return EffectStill
}

// maxZoom is the zoom-pan endpoint for the tier; mid-range hosts get
// an attenuated travel to keep zoompan cheap
func maxZoom(tier sysinfo.Tier) float64 {
	if tier == sysinfo.TierMid {
		return config.MidTierZoomFactor
	}
	return config.MaxZoomFactor
}

// applyEffect attaches the chosen effect's filters to a normalized
// clip stream. dur is the clip display duration in seconds.
func applyEffect(stream *ffmpeg.Stream, eff Effect, dur float64, profile sysinfo.RenderProfile) *ffmpeg.Stream {
	frames := int(math.Ceil(dur * float64(profile.FPS)))
	if frames < 1 {
		frames = 1
	}

	switch eff {
	case EffectZoomIn:
		return zoompan(stream, zoomExpr(1.0, maxZoom(profile.Tier), frames), frames, profile.FPS)
	case EffectZoomOut:
		return zoompan(stream, zoomExpr(maxZoom(profile.Tier), 1.0, frames), frames, profile.FPS)
	case EffectFade:
		fade := config.CrossfadeDuration
		if fade*2 > dur {
			fade = dur / 2
		}
		return stream.
			Filter("fade", ffmpeg.Args{}, ffmpeg.KwArgs{"type": "in", "start_time": 0, "duration": fmt.Sprintf("%.3f", fade)}).
			Filter("fade", ffmpeg.Args{}, ffmpeg.KwArgs{"type": "out", "start_time": fmt.Sprintf("%.3f", dur-fade), "duration": fmt.Sprintf("%.3f", fade)})
	default:
		return stream
	}
}

// zoomExpr builds a linear zoom ramp from start to end over the clip's
// frame count, using zoompan's output-frame counter
func zoomExpr(start, end float64, frames int) string {
	if frames <= 1 {
		return fmt.Sprintf("%.4f", start)
	}
	return fmt.Sprintf("%.4f%+.6f*on", start, (end-start)/float64(frames-1))
}

func zoompan(stream *ffmpeg.Stream, z string, frames, fps int) *ffmpeg.Stream {
	return stream.Filter("zoompan", ffmpeg.Args{}, ffmpeg.KwArgs{
		"z":   z,
		"d":   frames,
		"s":   fmt.Sprintf("%dx%d", config.VideoWidth, config.VideoHeight),
		"fps": fps,
		"x":   "iw/2-(iw/zoom/2)",
		"y":   "ih/2-(ih/zoom/2)",
	})
}

// lightFades wraps a low-tier clip with short independent fades; this
// stands in for crossfades, which are too expensive on that tier
func lightFades(stream *ffmpeg.Stream, dur float64) *ffmpeg.Stream {
	return stream.
		Filter("fade", ffmpeg.Args{}, ffmpeg.KwArgs{"type": "in", "start_time": 0, "duration": config.LightFadeDuration}).
		Filter("fade", ffmpeg.Args{}, ffmpeg.KwArgs{"type": "out", "start_time": fmt.Sprintf("%.3f", dur-config.LightFadeDuration), "duration": config.LightFadeDuration})
}
