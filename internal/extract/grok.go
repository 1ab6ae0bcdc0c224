package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/warrofua/mnemolog/internal/page"
	"github.com/warrofua/mnemolog/internal/transcript"
)

// grokExtractor reads snapshots captured from grok.com or the x.com Grok tab.
type grokExtractor struct{}

var (
	grokTitleSelectors = []string{
		`[data-testid="conversation-title"]`,
		`header h1`,
		`title`,
	}
	grokMessageSelectors = []string{
		`.message-bubble`,
		`[data-testid="grok-message"], [data-testid="user-message"]`,
		`main .chat-row`,
	}
	grokIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`/chat/([0-9a-f-]{8,})`),
		regexp.MustCompile(`/grok/([0-9a-f-]{8,})`),
		regexp.MustCompile(`/share/([A-Za-z0-9_-]{8,})`),
	}
	grokEras = []modelEra{
		{id: "grok-1", display: "Grok 1"},
		{from: time.Date(2024, 8, 13, 0, 0, 0, 0, time.UTC), id: "grok-2", display: "Grok 2"},
		{from: time.Date(2025, 2, 17, 0, 0, 0, 0, time.UTC), id: "grok-3", display: "Grok 3"},
	}
)

func (grokExtractor) Platform() transcript.Platform { return transcript.PlatformGrok }

func (e grokExtractor) Extract(snap *page.Snapshot) *transcript.ExtractionResult {
	turns := collectTurns(snap, grokMessageSelectors, grokRole)
	if len(turns) == 0 {
		return nil
	}

	return &transcript.ExtractionResult{
		Platform:       transcript.PlatformGrok,
		Title:          pickTitle(snap, grokTitleSelectors, "Grok conversation"),
		Turns:          turns,
		Attribution:    e.extractModel(snap),
		Timestamp:      extractionTimestamp(snap),
		ConversationID: conversationID(snap.URL, grokIDPatterns),
	}
}

func (grokExtractor) extractModel(snap *page.Snapshot) transcript.Attribution {
	if id := snap.StateValue("conversation.model"); id != "" {
		return attribution(id, id, transcript.ConfidenceVerified, transcript.SourceNetworkIntercept)
	}
	if text := snap.FirstText(`[data-testid="model-picker"]`); text != "" {
		return attribution(grokSlug(text), text, transcript.ConfidenceInferred, transcript.SourceDomScrape)
	}
	if id := snap.StateValue("account.preferred_model"); id != "" {
		return attribution(id, id, transcript.ConfidenceInferred, transcript.SourcePageState)
	}
	if t := captureTime(snap); !t.IsZero() {
		id, display := modelForDate(grokEras, t)
		return attribution(id, display, transcript.ConfidenceInferred, transcript.SourcePageState)
	}
	return attribution("grok-3", "Grok 3", transcript.ConfidenceClaimed, transcript.SourcePageState)
}

func grokRole(el page.Element) transcript.Role {
	if el.Attr("data-testid") == "user-message" {
		return transcript.RoleHuman
	}
	if strings.Contains(el.Attr("class"), "user") {
		return transcript.RoleHuman
	}
	return transcript.RoleAssistant
}

func grokSlug(display string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(display), " ", "-"))
}
