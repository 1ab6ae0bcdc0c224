package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/warrofua/mnemolog/internal/page"
	"github.com/warrofua/mnemolog/internal/transcript"
)

// claudeExtractor reads snapshots captured from claude.ai.
type claudeExtractor struct{}

var (
	claudeTitleSelectors = []string{
		`[data-testid="chat-title"]`,
		`header button[data-testid="chat-menu-trigger"]`,
		`title`,
	}
	claudeMessageSelectors = []string{
		`[data-testid="user-message"], [data-testid="assistant-message"]`,
		`div.font-user-message, div.font-claude-message`,
		`main .message-row`,
	}
	claudeIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`/chat/([0-9a-f-]{8,})`),
		regexp.MustCompile(`/share/([0-9a-f-]{8,})`),
	}
	claudeEras = []modelEra{
		{id: "claude-3-opus", display: "Claude 3 Opus"},
		{from: time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC), id: "claude-3-5-sonnet", display: "Claude 3.5 Sonnet"},
		{from: time.Date(2025, 5, 22, 0, 0, 0, 0, time.UTC), id: "claude-sonnet-4", display: "Claude Sonnet 4"},
	}
)

func (claudeExtractor) Platform() transcript.Platform { return transcript.PlatformClaude }

func (e claudeExtractor) Extract(snap *page.Snapshot) *transcript.ExtractionResult {
	turns := collectTurns(snap, claudeMessageSelectors, claudeRole)
	if len(turns) == 0 {
		return nil
	}

	return &transcript.ExtractionResult{
		Platform:       transcript.PlatformClaude,
		Title:          pickTitle(snap, claudeTitleSelectors, "Claude conversation"),
		Turns:          turns,
		Attribution:    e.extractModel(snap),
		Timestamp:      extractionTimestamp(snap),
		ConversationID: conversationID(snap.URL, claudeIDPatterns),
	}
}

func (claudeExtractor) extractModel(snap *page.Snapshot) transcript.Attribution {
	if id := snap.StateValue("conversation.model"); id != "" {
		return attribution(id, claudeDisplayName(id), transcript.ConfidenceVerified, transcript.SourceNetworkIntercept)
	}
	if text := snap.FirstText(`[data-testid="model-selector-dropdown"]`); text != "" {
		return attribution(claudeSlug(text), text, transcript.ConfidenceInferred, transcript.SourceDomScrape)
	}
	if id := snap.StateValue("account.preferred_model"); id != "" {
		return attribution(id, claudeDisplayName(id), transcript.ConfidenceInferred, transcript.SourcePageState)
	}
	if t := captureTime(snap); !t.IsZero() {
		id, display := modelForDate(claudeEras, t)
		return attribution(id, display, transcript.ConfidenceInferred, transcript.SourcePageState)
	}
	return attribution("claude-sonnet-4", "Claude Sonnet 4", transcript.ConfidenceClaimed, transcript.SourcePageState)
}

func claudeRole(el page.Element) transcript.Role {
	if el.Attr("data-testid") == "user-message" {
		return transcript.RoleHuman
	}
	if strings.Contains(el.Attr("class"), "font-user-message") {
		return transcript.RoleHuman
	}
	return transcript.RoleAssistant
}

func claudeSlug(display string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(display), " ", "-"))
}

func claudeDisplayName(id string) string {
	switch {
	case strings.Contains(id, "opus"):
		return "Claude Opus"
	case strings.Contains(id, "sonnet"):
		return "Claude Sonnet"
	case strings.Contains(id, "haiku"):
		return "Claude Haiku"
	default:
		return id
	}
}
