package script

import (
	"errors"
	"strings"
	"testing"

	"slidecast/types"
)

func TestSplitEnhancedPerSentence(t *testing.T) {
	narration := "The storm gathered over the bay. Ships turned back! Would the harbor hold? The keeper lit the lamp."

	segments, err := Split(narration, ModeEnhanced, 3)
	if err != nil {
		t.Fatalf("Split returned error: %v", err)
	}

	want := []string{
		"The storm gathered over the bay.",
		"Ships turned back!",
		"Would the harbor hold?",
		"The keeper lit the lamp.",
	}

	if len(segments) != len(want) {
		t.Fatalf("expected %d segments, got %d", len(want), len(segments))
	}

	for i, seg := range segments {
		if seg.Index != i {
			t.Errorf("segment %d has index %d", i, seg.Index)
		}
		if seg.Text != want[i] {
			t.Errorf("segment %d = %q, want %q", i, seg.Text, want[i])
		}
	}
}

func TestSplitEnhancedTrailingTextWithoutTerminator(t *testing.T) {
	segments, err := Split("First sentence. And then it simply stops", ModeEnhanced, 1)
	if err != nil {
		t.Fatalf("Split returned error: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[1].Text != "And then it simply stops" {
		t.Errorf("trailing segment = %q", segments[1].Text)
	}
}

func TestSplitNormalFansOutPerParagraph(t *testing.T) {
	narration := strings.Join([]string{
		"The first paragraph describes an old lighthouse on the cliff.",
		"tiny",
		"The second paragraph follows the keeper through the night watch.",
	}, "\n\n")

	segments, err := Split(narration, ModeNormal, 3)
	if err != nil {
		t.Fatalf("Split returned error: %v", err)
	}

	// Two surviving paragraphs ("tiny" is under the length floor) times
	// three images each
	if len(segments) != 6 {
		t.Fatalf("expected 6 segments, got %d", len(segments))
	}

	if segments[0].Text != "The first paragraph describes an old lighthouse on the cliff." {
		t.Errorf("first segment = %q", segments[0].Text)
	}
	if !strings.HasSuffix(segments[1].Text, "(variation 2)") {
		t.Errorf("second segment missing variation suffix: %q", segments[1].Text)
	}
	if !strings.HasSuffix(segments[2].Text, "(variation 3)") {
		t.Errorf("third segment missing variation suffix: %q", segments[2].Text)
	}
	if segments[3].Text != "The second paragraph follows the keeper through the night watch." {
		t.Errorf("fourth segment = %q", segments[3].Text)
	}

	for i, seg := range segments {
		if seg.Index != i {
			t.Errorf("segment %d has index %d", i, seg.Index)
		}
	}
}

func TestSplitNormalDropsShortParagraphs(t *testing.T) {
	segments, err := Split("short one\n\nalso tiny", ModeNormal, 2)
	if err != nil {
		t.Fatalf("Split returned error: %v", err)
	}
	if len(segments) != 0 {
		t.Fatalf("expected no segments, got %d", len(segments))
	}
}

func TestSplitEmptyNarration(t *testing.T) {
	_, err := Split("   \n\n  ", ModeEnhanced, 1)
	if !errors.Is(err, types.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
