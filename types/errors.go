package types

import "errors"

// Stage-level errors surfaced to callers. Per-item failures inside the
// acquisition queue are absorbed and logged, never wrapped in these.
var (
	// ErrInvalidInput rejects empty narration, style, or credential
	// values before any external call is made
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoAssetsAcquired means the queue finished without a single
	// validated image; no video can be built
	ErrNoAssetsAcquired = errors.New("no images were generated")

	// ErrNoValidImages means every acquired image disappeared before
	// assembly started
	ErrNoValidImages = errors.New("no valid images found")

	// ErrRenderFailed wraps the underlying cause after both the main
	// and the simplified fallback render have failed
	ErrRenderFailed = errors.New("video render failed")
)
