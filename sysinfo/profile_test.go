package sysinfo

import (
	"errors"
	"testing"
)

type fakeSampler struct {
	cores    int
	coresErr error
	memory   uint64
	memErr   error
	util     float64
	utilErr  error
}

func (f fakeSampler) Cores() (int, error)         { return f.cores, f.coresErr }
func (f fakeSampler) TotalMemory() (uint64, error) { return f.memory, f.memErr }
func (f fakeSampler) CPUPercent() (float64, error) { return f.util, f.utilErr }

func TestProbeHighEndIdleHost(t *testing.T) {
	p := ProbeWith(fakeSampler{cores: 16, memory: 32 * gib, util: 10})

	if p.Tier != TierHigh {
		t.Fatalf("tier = %s, want high-end", p.Tier)
	}
	// round(16 * 0.75) = 12, +1 for idle CPU
	if p.Threads != 13 {
		t.Errorf("threads = %d, want 13", p.Threads)
	}
	if p.FPS != 30 || p.Preset != "medium" || p.CRF != 20 {
		t.Errorf("quality = %d fps, %s, crf %d, want 30 fps, medium, crf 20", p.FPS, p.Preset, p.CRF)
	}
	if !p.EffectsAllowed {
		t.Error("effects should be allowed on high-end tier")
	}
}

func TestProbeMidRange(t *testing.T) {
	p := ProbeWith(fakeSampler{cores: 4, memory: 8 * gib, util: 50})

	if p.Tier != TierMid {
		t.Fatalf("tier = %s, want mid-range", p.Tier)
	}
	// round(4 * 0.60) = 2, no nudge at moderate load
	if p.Threads != 2 {
		t.Errorf("threads = %d, want 2", p.Threads)
	}
	if p.FPS != 25 || p.Preset != "fast" || p.CRF != 23 {
		t.Errorf("quality = %d fps, %s, crf %d, want 25 fps, fast, crf 23", p.FPS, p.Preset, p.CRF)
	}
}

func TestProbeLowEndDisablesEffects(t *testing.T) {
	p := ProbeWith(fakeSampler{cores: 2, memory: 4 * gib, util: 50})

	if p.Tier != TierLow {
		t.Fatalf("tier = %s, want low-end", p.Tier)
	}
	if p.EffectsAllowed {
		t.Error("effects must be disabled on low-end tier")
	}
	if p.FPS != 20 || p.Preset != "ultrafast" || p.CRF != 28 {
		t.Errorf("quality = %d fps, %s, crf %d, want 20 fps, ultrafast, crf 28", p.FPS, p.Preset, p.CRF)
	}
}

func TestProbeBusyHostShedsThreads(t *testing.T) {
	p := ProbeWith(fakeSampler{cores: 16, memory: 32 * gib, util: 95})

	// round(16 * 0.75) = 12, -2 under heavy load
	if p.Threads != 10 {
		t.Errorf("threads = %d, want 10", p.Threads)
	}
}

func TestProbeThreadsClampedToAtLeastOne(t *testing.T) {
	p := ProbeWith(fakeSampler{cores: 2, memory: 4 * gib, util: 95})

	// round(2 * 0.50) = 1, -2 would go negative
	if p.Threads != 1 {
		t.Errorf("threads = %d, want 1", p.Threads)
	}
}

func TestProbeFallsBackOnSamplerError(t *testing.T) {
	p := ProbeWith(fakeSampler{coresErr: errors.New("no procfs")})

	if p.Tier != TierLow || p.Threads != 2 {
		t.Errorf("fallback profile = %s tier, %d threads, want low-end tier, 2 threads", p.Tier, p.Threads)
	}
	if p.EffectsAllowed {
		t.Error("fallback profile must not allow effects")
	}

	p = ProbeWith(fakeSampler{cores: 8, memErr: errors.New("denied")})
	if p.Tier != TierLow || p.Threads != 2 {
		t.Errorf("fallback profile = %s tier, %d threads, want low-end tier, 2 threads", p.Tier, p.Threads)
	}
}

func TestProbeUtilizationErrorIsNonFatal(t *testing.T) {
	p := ProbeWith(fakeSampler{cores: 16, memory: 32 * gib, utilErr: errors.New("timeout")})

	if p.Tier != TierHigh {
		t.Fatalf("tier = %s, want high-end", p.Tier)
	}
	// assumed moderate load: no nudge
	if p.Threads != 12 {
		t.Errorf("threads = %d, want 12", p.Threads)
	}
}
