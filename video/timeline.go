package video

import (
	"slidecast/config"
	"slidecast/sysinfo"
)

// Timeline is the per-run duration plan. Every clip gets an equal
// slice of the audio; crossfade overlap shortens the assembled total,
// and the residual is recovered by freezing the last frame.
type Timeline struct {
	// Slice is the display duration of each clip in seconds
	Slice float64

	// Fade is the crossfade overlap between adjacent clips; zero on
	// the low tier where crossfades are skipped
	Fade float64

	// Total is the assembled video length before reconciliation:
	// n*Slice - (n-1)*Fade
	Total float64

	// Residual is audio length minus Total. Positive means the last
	// frame is frozen to cover the gap; negative means the output is
	// trimmed to the audio length.
	Residual float64
}

// PlanTimeline divides the audio evenly across the clips and accounts
// for transition overlap up front, so the assembler never discovers a
// duration mismatch after encoding
func PlanTimeline(audioDuration float64, clips int, tier sysinfo.Tier) Timeline {
	t := Timeline{
		Slice: audioDuration / float64(clips),
	}
	if tier != sysinfo.TierLow && clips > 1 {
		t.Fade = config.CrossfadeDuration
	}
	t.Total = float64(clips)*t.Slice - float64(clips-1)*t.Fade
	t.Residual = audioDuration - t.Total
	return t
}
