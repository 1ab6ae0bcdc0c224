package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/warrofua/mnemolog/internal/page"
	"github.com/warrofua/mnemolog/internal/transcript"
)

// geminiExtractor reads snapshots captured from gemini.google.com.
type geminiExtractor struct{}

var (
	geminiTitleSelectors = []string{
		`.conversation-title`,
		`[data-test-id="conversation-title"]`,
		`title`,
	}
	geminiMessageSelectors = []string{
		`user-query, model-response`,
		`.query-text, .response-container`,
		`main .conversation-turn`,
	}
	geminiIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`/app/([0-9a-f]{8,})`),
		regexp.MustCompile(`/share/([0-9a-f]{8,})`),
	}
	geminiEras = []modelEra{
		{id: "gemini-pro", display: "Gemini Pro"},
		{from: time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC), id: "gemini-1.5-pro", display: "Gemini 1.5 Pro"},
		{from: time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC), id: "gemini-2.5-pro", display: "Gemini 2.5 Pro"},
	}
)

func (geminiExtractor) Platform() transcript.Platform { return transcript.PlatformGemini }

func (e geminiExtractor) Extract(snap *page.Snapshot) *transcript.ExtractionResult {
	turns := collectTurns(snap, geminiMessageSelectors, geminiRole)
	if len(turns) == 0 {
		return nil
	}

	return &transcript.ExtractionResult{
		Platform:       transcript.PlatformGemini,
		Title:          pickTitle(snap, geminiTitleSelectors, "Gemini conversation"),
		Turns:          turns,
		Attribution:    e.extractModel(snap),
		Timestamp:      extractionTimestamp(snap),
		ConversationID: conversationID(snap.URL, geminiIDPatterns),
	}
}

func (geminiExtractor) extractModel(snap *page.Snapshot) transcript.Attribution {
	if id := snap.StateValue("conversation.model_name"); id != "" {
		return attribution(id, id, transcript.ConfidenceVerified, transcript.SourceNetworkIntercept)
	}
	if text := snap.FirstText(`.current-mode-title, [data-test-id="bard-mode-menu-button"]`); text != "" {
		return attribution(geminiSlug(text), text, transcript.ConfidenceInferred, transcript.SourceDomScrape)
	}
	if id := snap.StateValue("account.preferred_model"); id != "" {
		return attribution(id, id, transcript.ConfidenceInferred, transcript.SourcePageState)
	}
	if t := captureTime(snap); !t.IsZero() {
		id, display := modelForDate(geminiEras, t)
		return attribution(id, display, transcript.ConfidenceInferred, transcript.SourcePageState)
	}
	return attribution("gemini-pro", "Gemini Pro", transcript.ConfidenceClaimed, transcript.SourcePageState)
}

func geminiRole(el page.Element) transcript.Role {
	tag := el.Attr("tag")
	if tag == "user-query" || strings.Contains(el.Attr("class"), "query-text") {
		return transcript.RoleHuman
	}
	return transcript.RoleAssistant
}

func geminiSlug(display string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(display), " ", "-"))
}
