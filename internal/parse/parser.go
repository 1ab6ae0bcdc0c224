// Package parse converts unstructured or weakly-labeled conversation text
// into the canonical turn sequence: boilerplate stripping, math-block
// preservation, explicit label detection with a paragraph-split fallback,
// and speaker role resolution with continuation merging.
package parse

import (
	"strings"

	"github.com/warrofua/mnemolog/internal/transcript"
)

// segment is an intermediate unit between raw text and resolved turns:
// a block of content with an optional explicit role label.
type segment struct {
	role    transcript.Role
	labeled bool
	content string
	index   int
}

// Result is the parser output: the canonical turns plus diagnostic metadata.
type Result struct {
	Turns    []transcript.Turn        `json:"turns"`
	Metadata transcript.ParseMetadata `json:"metadata"`
}

// Parse converts raw conversation text into canonical turns. The platform
// hint selects which label dictionary applies on top of the generic one;
// firstSpeaker, when non-nil, overrides first-speaker inference.
func Parse(text string, hint transcript.Platform, firstSpeaker *transcript.Role) Result {
	rawCount := len(text)

	cleaned := PreserveMathBlocks(stripBoilerplate(text))
	segments, sawLabel := segmentLines(cleaned, hint)

	// No explicit marker anywhere and everything landed in one block:
	// fall back to paragraph boundaries as the turn signal.
	if !sawLabel && len(segments) == 1 {
		segments = splitParagraphs(segments[0].content)
	}

	turns, first := resolveRoles(segments, firstSpeaker)

	return Result{
		Turns: turns,
		Metadata: transcript.ParseMetadata{
			DetectedProvider:         hint,
			DetectedFirstSpeaker:     first,
			UserOverrodeFirstSpeaker: firstSpeaker != nil,
			HasExplicitLabels:        sawLabel,
			RawCharacterCount:        rawCount,
			TurnCount:                len(turns),
		},
	}
}

// segmentLines walks the cleaned text line by line. An explicit role marker
// closes the current segment and opens a new labeled one; a content line
// with no open segment seeds a new unlabeled one; anything else extends the
// open segment.
func segmentLines(text string, hint transcript.Platform) ([]segment, bool) {
	var segments []segment
	var current *segment
	sawLabel := false

	flush := func() {
		if current != nil && strings.TrimSpace(current.content) != "" {
			current.content = strings.TrimSpace(current.content)
			current.index = len(segments)
			segments = append(segments, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if role, rest, ok := matchLabel(line, hint); ok {
			sawLabel = true
			flush()
			current = &segment{role: role, labeled: true, content: rest}
			continue
		}

		if current == nil {
			if strings.TrimSpace(line) == "" {
				continue
			}
			current = &segment{content: line}
			continue
		}

		current.content += "\n" + line
	}
	flush()

	return segments, sawLabel
}

// splitParagraphs re-splits a single unlabeled block on blank-line
// boundaries, producing one unlabeled segment per paragraph.
func splitParagraphs(content string) []segment {
	var segments []segment
	for _, para := range strings.Split(content, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		segments = append(segments, segment{content: para, index: len(segments)})
	}
	return segments
}
