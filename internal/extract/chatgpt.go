package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/warrofua/mnemolog/internal/page"
	"github.com/warrofua/mnemolog/internal/transcript"
)

// chatGPTExtractor reads snapshots captured from chatgpt.com.
type chatGPTExtractor struct{}

var (
	chatGPTTitleSelectors = []string{
		`nav a[data-active] div`,
		`header .conversation-title`,
		`title`,
	}
	chatGPTMessageSelectors = []string{
		`[data-message-author-role]`,
		`div.agent-turn, div.user-turn`,
		`main article`,
	}
	chatGPTIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`/c/([0-9a-f-]{8,})`),
		regexp.MustCompile(`/share/([0-9a-f-]{8,})`),
		regexp.MustCompile(`/g/[^/]+/c/([0-9a-f-]{8,})`),
	}
	chatGPTEras = []modelEra{
		{id: "gpt-4", display: "GPT-4"},
		{from: time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC), id: "gpt-4o", display: "GPT-4o"},
		{from: time.Date(2025, 8, 7, 0, 0, 0, 0, time.UTC), id: "gpt-5", display: "GPT-5"},
	}
)

func (chatGPTExtractor) Platform() transcript.Platform { return transcript.PlatformChatGPT }

func (e chatGPTExtractor) Extract(snap *page.Snapshot) *transcript.ExtractionResult {
	turns := collectTurns(snap, chatGPTMessageSelectors, chatGPTRole)
	if len(turns) == 0 {
		return nil
	}

	return &transcript.ExtractionResult{
		Platform:       transcript.PlatformChatGPT,
		Title:          pickTitle(snap, chatGPTTitleSelectors, "ChatGPT conversation"),
		Turns:          turns,
		Attribution:    e.extractModel(snap),
		Timestamp:      extractionTimestamp(snap),
		ConversationID: conversationID(snap.URL, chatGPTIDPatterns),
	}
}

// extractModel tries attribution signals in order of trust: the intercepted
// conversation payload, the model-switcher UI, the stored default model,
// then a date-based guess.
func (chatGPTExtractor) extractModel(snap *page.Snapshot) transcript.Attribution {
	if id := snap.StateValue("conversation.model_slug"); id != "" {
		return attribution(id, chatGPTDisplayName(id), transcript.ConfidenceVerified, transcript.SourceNetworkIntercept)
	}
	if text := snap.FirstText(`[data-testid="model-switcher-dropdown-button"]`); text != "" {
		return attribution(chatGPTSlug(text), text, transcript.ConfidenceInferred, transcript.SourceDomScrape)
	}
	if id := snap.StateValue("settings.default_model"); id != "" {
		return attribution(id, chatGPTDisplayName(id), transcript.ConfidenceInferred, transcript.SourcePageState)
	}
	if t := captureTime(snap); !t.IsZero() {
		id, display := modelForDate(chatGPTEras, t)
		return attribution(id, display, transcript.ConfidenceInferred, transcript.SourcePageState)
	}
	// Model unknown: claim the current flagship.
	return attribution("gpt-4o", "GPT-4o", transcript.ConfidenceClaimed, transcript.SourcePageState)
}

func chatGPTRole(el page.Element) transcript.Role {
	switch el.Attr("data-message-author-role") {
	case "user":
		return transcript.RoleHuman
	case "assistant":
		return transcript.RoleAssistant
	}
	if strings.Contains(el.Attr("class"), "user-turn") {
		return transcript.RoleHuman
	}
	return transcript.RoleAssistant
}

func chatGPTSlug(display string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(display), " ", "-"))
}

func chatGPTDisplayName(slug string) string {
	switch slug {
	case "gpt-4o":
		return "GPT-4o"
	case "gpt-4":
		return "GPT-4"
	case "o1":
		return "o1"
	default:
		return slug
	}
}

func attribution(id, display string, conf transcript.Confidence, src transcript.AttributionSource) transcript.Attribution {
	a := transcript.Attribution{Confidence: conf, Source: src}
	if id != "" {
		a.ModelID = &id
	}
	if display != "" {
		a.ModelDisplayName = &display
	}
	return a
}
