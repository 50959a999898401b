package pipeline

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"slidecast/config"
	"slidecast/types"
)

// Item is one pending image acquisition. Index is the segment ordinal
// and drives the output filename, so a failed item leaves a numbering
// gap instead of shifting later images.
type Item struct {
	Index  int
	Prompt string
}

// Acquired records one validated image on disk
type Acquired struct {
	Index  int
	Path   string
	Prompt string
}

// FetchFunc downloads and validates a single image
type FetchFunc func(prompt, destPath string) error

// Queue walks the items strictly in order, one request at a time.
// Individual failures are logged and skipped; the queue only fails as
// a whole when nothing at all was acquired.
type Queue struct {
	Fetch FetchFunc

	// Sleep is swappable for tests
	Sleep func(time.Duration)

	// Progress, when set, is called after every item with the number
	// of acquired images so far and the total item count
	Progress func(done, total int)
}

func NewQueue(fetch FetchFunc) *Queue {
	return &Queue{Fetch: fetch, Sleep: time.Sleep}
}

// Run acquires an image for every item into destDir. The returned
// list is dense (failed items are absent) but preserves item order.
func (q *Queue) Run(items []Item, destDir string) ([]Acquired, error) {
	acquired := make([]Acquired, 0, len(items))

	for i, item := range items {
		dest := filepath.Join(destDir, fmt.Sprintf("image_%03d.jpg", item.Index))

		if err := q.Fetch(item.Prompt, dest); err != nil {
			log.Printf("⚠️ Image %d/%d failed, skipping: %v", i+1, len(items), err)
		} else {
			acquired = append(acquired, Acquired{Index: item.Index, Path: dest, Prompt: item.Prompt})
			log.Printf("✅ Image %d/%d acquired", i+1, len(items))
		}

		if q.Progress != nil {
			q.Progress(len(acquired), len(items))
		}

		// Pace requests between items; pointless after the last one
		if i < len(items)-1 {
			q.Sleep(config.QueueItemDelay)
		}
	}

	if len(acquired) == 0 {
		return nil, types.ErrNoAssetsAcquired
	}
	return acquired, nil
}
