package script

import (
	"fmt"
	"regexp"
	"strings"

	"slidecast/config"
	"slidecast/types"
)

// Processing modes for Split
const (
	ModeNormal   = "normal"
	ModeEnhanced = "enhanced"
)

var sentenceEnd = regexp.MustCompile(`([.!?])\s+`)

// Segment is one unit of narration mapped to exactly one visual prompt.
// Index is the ordinal used for the on-disk image filename, so skipped
// segments leave gaps in the numeric sequence.
type Segment struct {
	Index int
	Text  string
}

// Split turns raw narration text into an ordered list of segments.
//
// Enhanced mode emits one segment per sentence. Normal mode emits
// imagesPerParagraph segments per blank-line paragraph, skipping
// paragraphs at or under config.MinParagraphLength characters; repeat
// segments get a "(variation n)" suffix so downstream prompts diverge.
// Note the model still sees the same paragraph text each time, so
// repeated segments can legitimately produce near-duplicate images.
func Split(narration, mode string, imagesPerParagraph int) ([]Segment, error) {
	if strings.TrimSpace(narration) == "" {
		return nil, fmt.Errorf("narration is empty: %w", types.ErrInvalidInput)
	}

	if imagesPerParagraph < 1 {
		imagesPerParagraph = 1
	}

	var segments []Segment

	if mode == ModeEnhanced {
		for _, s := range splitSentences(narration) {
			segments = append(segments, Segment{Index: len(segments), Text: s})
		}
		return segments, nil
	}

	for _, para := range splitParagraphs(narration) {
		for i := 0; i < imagesPerParagraph; i++ {
			text := para
			if i > 0 {
				text = fmt.Sprintf("%s (variation %d)", para, i+1)
			}
			segments = append(segments, Segment{Index: len(segments), Text: text})
		}
	}

	return segments, nil
}

// splitSentences splits on sentence-ending punctuation followed by
// whitespace, keeping the terminator with its sentence
func splitSentences(text string) []string {
	marked := sentenceEnd.ReplaceAllString(text, "$1\x00")

	var out []string
	for _, s := range strings.Split(marked, "\x00") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// splitParagraphs returns blank-line-delimited paragraphs longer than
// config.MinParagraphLength characters, trimmed, in source order
func splitParagraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		p = strings.TrimSpace(p)
		if len(p) > config.MinParagraphLength {
			out = append(out, p)
		}
	}
	return out
}
