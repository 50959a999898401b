package sysinfo

import (
	"log"
	"math"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Tier is a coarse classification of host compute capacity driving
// quality/performance trade-offs during rendering
type Tier int

const (
	TierLow Tier = iota
	TierMid
	TierHigh
)

func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "high-end"
	case TierMid:
		return "mid-range"
	default:
		return "low-end"
	}
}

// RenderProfile is computed once per render call and threaded through
// every assembler stage, so tier logic is never re-derived inline
type RenderProfile struct {
	Tier    Tier
	Cores   int
	Threads int
	FPS     int
	Preset  string
	CRF     int
	// EffectsAllowed is false on the low tier: visual effects are
	// skipped regardless of the run configuration to protect render
	// time
	EffectsAllowed bool
}

// HostSampler reads host metrics; swappable for tests
type HostSampler interface {
	Cores() (int, error)
	TotalMemory() (uint64, error)
	CPUPercent() (float64, error)
}

const gib = 1024 * 1024 * 1024

// Probe samples the host and classifies it into a render profile.
// Sampling problems never fail the render; they fall back to a fixed
// conservative profile.
func Probe() RenderProfile {
	return ProbeWith(psutilSampler{})
}

// ProbeWith is Probe with an injected sampler
func ProbeWith(s HostSampler) RenderProfile {
	cores, err := s.Cores()
	if err != nil || cores < 1 {
		log.Printf("CPU probe failed (%v), using conservative render profile", err)
		return conservativeProfile()
	}

	memTotal, err := s.TotalMemory()
	if err != nil {
		log.Printf("Memory probe failed (%v), using conservative render profile", err)
		return conservativeProfile()
	}

	util, err := s.CPUPercent()
	if err != nil {
		// Utilization only nudges the thread count; assume a moderate
		// load and keep going
		util = 50
	}

	var tier Tier
	switch {
	case memTotal >= 16*gib && cores >= 8:
		tier = TierHigh
	case memTotal >= 8*gib && cores >= 4:
		tier = TierMid
	default:
		tier = TierLow
	}

	threads := threadCount(tier, cores, util)

	p := RenderProfile{
		Tier:           tier,
		Cores:          cores,
		Threads:        threads,
		EffectsAllowed: tier != TierLow,
	}

	switch tier {
	case TierHigh:
		p.FPS, p.Preset, p.CRF = 30, "medium", 20
	case TierMid:
		p.FPS, p.Preset, p.CRF = 25, "fast", 23
	default:
		p.FPS, p.Preset, p.CRF = 20, "ultrafast", 28
	}

	log.Printf("Render profile: %s, %d/%d threads, %d fps, preset=%s crf=%d (cpu %.0f%%, mem %.1f GiB)",
		tier, threads, cores, p.FPS, p.Preset, p.CRF, util, float64(memTotal)/gib)

	return p
}

// threadCount derives the encoder thread budget: a tier-dependent
// fraction of the cores, nudged by current utilization, clamped to
// [1, cores]
func threadCount(tier Tier, cores int, util float64) int {
	fraction := 0.50
	switch tier {
	case TierHigh:
		fraction = 0.75
	case TierMid:
		fraction = 0.60
	}

	threads := int(math.Round(float64(cores) * fraction))
	if util > 80 {
		threads -= 2
	} else if util < 30 {
		threads++
	}

	if threads < 1 {
		threads = 1
	}
	if threads > cores {
		threads = cores
	}
	return threads
}

func conservativeProfile() RenderProfile {
	return RenderProfile{
		Tier:           TierLow,
		Cores:          2,
		Threads:        2,
		FPS:            20,
		Preset:         "ultrafast",
		CRF:            28,
		EffectsAllowed: false,
	}
}

// psutilSampler reads live host metrics through gopsutil
type psutilSampler struct{}

func (psutilSampler) Cores() (int, error) {
	return cpu.Counts(true)
}

func (psutilSampler) TotalMemory() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return vm.Total, nil
}

func (psutilSampler) CPUPercent() (float64, error) {
	// Short sampling window; this runs once per render call
	percents, err := cpu.Percent(250*time.Millisecond, false)
	if err != nil {
		return 0, err
	}
	if len(percents) == 0 {
		return 0, nil
	}
	return percents[0], nil
}
