// Package extract implements the per-platform conversation extractors.
// Each variant reads a structural page snapshot and emits a best-effort
// ordered turn list plus model-attribution metadata. Extraction is pure:
// no messages means a nil result, never an error.
package extract

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/warrofua/mnemolog/internal/page"
	"github.com/warrofua/mnemolog/internal/transcript"
)

// Extractor is the capability every platform variant implements.
type Extractor interface {
	Platform() transcript.Platform
	Extract(snap *page.Snapshot) *transcript.ExtractionResult
}

// registry is the closed set of variants. Dispatch happens on a platform
// tag determined once per snapshot, never by runtime shape-sniffing.
var registry = map[transcript.Platform]Extractor{
	transcript.PlatformChatGPT: chatGPTExtractor{},
	transcript.PlatformClaude:  claudeExtractor{},
	transcript.PlatformGemini:  geminiExtractor{},
	transcript.PlatformGrok:    grokExtractor{},
}

// For returns the extractor registered for a platform.
func For(p transcript.Platform) (Extractor, bool) {
	e, ok := registry[p]
	return e, ok
}

// DetectPlatform tags a snapshot by its page host. Unknown hosts map to
// PlatformOther, which routes the caller to the generic text parser.
func DetectPlatform(rawURL string) transcript.Platform {
	u, err := url.Parse(rawURL)
	if err != nil {
		return transcript.PlatformOther
	}
	host := strings.ToLower(u.Hostname())
	switch {
	case strings.Contains(host, "chatgpt.com"), strings.Contains(host, "chat.openai.com"):
		return transcript.PlatformChatGPT
	case strings.Contains(host, "claude.ai"):
		return transcript.PlatformClaude
	case strings.Contains(host, "gemini.google.com"):
		return transcript.PlatformGemini
	case strings.Contains(host, "grok.com"), strings.Contains(host, "x.com"):
		return transcript.PlatformGrok
	default:
		return transcript.PlatformOther
	}
}

const maxTitleLen = 140

// pickTitle returns the first selector's first non-empty text under the
// length bound, falling back to the document title, then the default.
func pickTitle(snap *page.Snapshot, selectors []string, fallback string) string {
	for _, sel := range selectors {
		for _, el := range snap.Select(sel) {
			text := strings.TrimSpace(el.Text)
			if text != "" && len(text) <= maxTitleLen {
				return text
			}
		}
	}
	if t := strings.TrimSpace(snap.Title); t != "" && len(t) <= maxTitleLen {
		return t
	}
	return fallback
}

// conversationID tries each path pattern against the snapshot URL in order
// and returns the first capture.
func conversationID(rawURL string, patterns []*regexp.Regexp) *string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(rawURL); len(m) > 1 {
			id := m[1]
			return &id
		}
	}
	return nil
}

// extractionTimestamp prefers the capture layer's clock over ours.
func extractionTimestamp(snap *page.Snapshot) string {
	if snap.CapturedAt != "" {
		return snap.CapturedAt
	}
	return time.Now().UTC().Format(time.RFC3339)
}

// captureTime parses the snapshot's capture timestamp; zero when absent or
// malformed.
func captureTime(snap *page.Snapshot) time.Time {
	if snap.CapturedAt == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, snap.CapturedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// modelEra maps the start of a release period to the flagship model users
// were defaulted to during it.
type modelEra struct {
	from    time.Time
	id      string
	display string
}

// modelForDate returns the model of the latest era starting at or before t.
// The first entry must carry a zero start so every date resolves.
func modelForDate(eras []modelEra, t time.Time) (string, string) {
	id, display := eras[0].id, eras[0].display
	for _, e := range eras {
		if !t.Before(e.from) {
			id, display = e.id, e.display
		}
	}
	return id, display
}

// collectTurns evaluates message selectors in order; the first yielding at
// least one element wins. roleOf maps an element to its speaker. When every
// collected turn carries the identical role the role signal failed, so a
// second pass forces alternation from the first role.
func collectTurns(snap *page.Snapshot, selectors []string, roleOf func(page.Element) transcript.Role) []transcript.Turn {
	var turns []transcript.Turn
	for _, sel := range selectors {
		els := snap.Select(sel)
		if len(els) == 0 {
			continue
		}
		for _, el := range els {
			content := strings.TrimSpace(el.Text)
			if content == "" {
				continue
			}
			turns = append(turns, transcript.Turn{
				Role:        roleOf(el),
				Content:     content,
				SourceIndex: len(turns),
			})
		}
		break
	}

	if len(turns) > 1 && sameRole(turns) {
		role := turns[0].Role
		for i := range turns {
			turns[i].Role = role
			role = role.Flip()
		}
	}

	return dedupeEchoes(turns)
}

func sameRole(turns []transcript.Turn) bool {
	for _, t := range turns[1:] {
		if t.Role != turns[0].Role {
			return false
		}
	}
	return true
}

// echoReplaceRatio is how much longer a containing turn must be before it
// replaces the previous kept turn rather than being treated as a re-render
// of the same content.
const echoReplaceRatio = 1.25

// dedupeEchoes drops re-rendered blocks: exact adjacent duplicates, turns
// wholly contained in the previous kept turn, and keeps the longer side
// when a turn meaningfully extends the previous one.
func dedupeEchoes(turns []transcript.Turn) []transcript.Turn {
	if len(turns) < 2 {
		return turns
	}

	kept := turns[:1]
	for _, t := range turns[1:] {
		prev := &kept[len(kept)-1]

		if t.Role == prev.Role && t.Content == prev.Content {
			continue
		}
		if strings.Contains(prev.Content, t.Content) {
			continue
		}
		if strings.Contains(t.Content, prev.Content) {
			// Meaningfully longer: the re-render extended the turn, keep
			// the longer text. Otherwise it is the same turn re-echoed.
			if float64(len(t.Content)) >= float64(len(prev.Content))*echoReplaceRatio {
				prev.Content = t.Content
			}
			continue
		}

		kept = append(kept, t)
	}

	for i := range kept {
		kept[i].SourceIndex = i
	}
	return kept
}
