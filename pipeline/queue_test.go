package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"slidecast/types"
)

func TestQueueSkipsFailedItems(t *testing.T) {
	items := []Item{
		{Index: 0, Prompt: "a"},
		{Index: 1, Prompt: "b"},
		{Index: 2, Prompt: "c"},
		{Index: 3, Prompt: "d"},
		{Index: 4, Prompt: "e"},
	}

	calls := 0
	q := NewQueue(func(prompt, dest string) error {
		calls++
		// second and fourth requests fail
		if calls == 2 || calls == 4 {
			return errors.New("unavailable")
		}
		return nil
	})
	var sleeps int
	q.Sleep = func(time.Duration) { sleeps++ }

	acquired, err := q.Run(items, "/tmp/img")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(acquired) != 3 {
		t.Fatalf("got %d acquired, want 3", len(acquired))
	}
	// failed ordinals leave filename gaps, the result list stays dense
	wantIdx := []int{0, 2, 4}
	for i, a := range acquired {
		if a.Index != wantIdx[i] {
			t.Errorf("acquired[%d].Index = %d, want %d", i, a.Index, wantIdx[i])
		}
		wantPath := filepath.Join("/tmp/img", fmt.Sprintf("image_%03d.jpg", wantIdx[i]))
		if a.Path != wantPath {
			t.Errorf("acquired[%d].Path = %s, want %s", i, a.Path, wantPath)
		}
	}

	// one pause between each pair of items, none after the last
	if sleeps != 4 {
		t.Errorf("got %d pauses, want 4", sleeps)
	}
}

func TestQueueReportsProgress(t *testing.T) {
	q := NewQueue(func(prompt, dest string) error { return nil })
	q.Sleep = func(time.Duration) {}

	var done []int
	q.Progress = func(d, total int) {
		if total != 3 {
			t.Errorf("total = %d, want 3", total)
		}
		done = append(done, d)
	}

	if _, err := q.Run([]Item{{0, "a"}, {1, "b"}, {2, "c"}}, "/tmp/img"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(done) != 3 || done[0] != 1 || done[2] != 3 {
		t.Errorf("progress calls = %v, want [1 2 3]", done)
	}
}

func TestQueueAllFailed(t *testing.T) {
	q := NewQueue(func(prompt, dest string) error { return errors.New("down") })
	q.Sleep = func(time.Duration) {}

	_, err := q.Run([]Item{{0, "a"}, {1, "b"}}, "/tmp/img")
	if !errors.Is(err, types.ErrNoAssetsAcquired) {
		t.Fatalf("err = %v, want ErrNoAssetsAcquired", err)
	}
}
