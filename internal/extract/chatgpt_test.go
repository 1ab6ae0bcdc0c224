package extract

import (
	"testing"

	"github.com/warrofua/mnemolog/internal/page"
	"github.com/warrofua/mnemolog/internal/transcript"
)

func TestChatGPTExtract_BasicConversation(t *testing.T) {
	snap := &page.Snapshot{
		URL:   "https://chatgpt.com/c/abc12345-de67",
		Title: "Go questions",
		Selections: map[string][]page.Element{
			`[data-message-author-role]`: {
				{Text: "What is a goroutine?", Attrs: map[string]string{"data-message-author-role": "user"}},
				{Text: "A goroutine is a lightweight thread.", Attrs: map[string]string{"data-message-author-role": "assistant"}},
			},
		},
		State: map[string]string{"conversation.model_slug": "gpt-4o"},
	}

	result := chatGPTExtractor{}.Extract(snap)
	if result == nil {
		t.Fatal("expected extraction result")
	}
	if result.Platform != transcript.PlatformChatGPT {
		t.Errorf("platform = %q", result.Platform)
	}
	if len(result.Turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(result.Turns))
	}
	if result.Turns[0].Role != transcript.RoleHuman || result.Turns[1].Role != transcript.RoleAssistant {
		t.Errorf("roles = %q, %q", result.Turns[0].Role, result.Turns[1].Role)
	}
	if result.Attribution.Confidence != transcript.ConfidenceVerified {
		t.Errorf("confidence = %q, want verified", result.Attribution.Confidence)
	}
	if result.Attribution.Source != transcript.SourceNetworkIntercept {
		t.Errorf("source = %q", result.Attribution.Source)
	}
	if result.ConversationID == nil || *result.ConversationID != "abc12345-de67" {
		t.Errorf("conversation id = %v", result.ConversationID)
	}
	if result.Title != "Go questions" {
		t.Errorf("title = %q", result.Title)
	}
}

func TestChatGPTExtract_NoMessagesReturnsNil(t *testing.T) {
	snap := &page.Snapshot{URL: "https://chatgpt.com/"}
	if result := (chatGPTExtractor{}).Extract(snap); result != nil {
		t.Errorf("expected nil, got %#v", result)
	}
}

func TestChatGPTExtract_ForcedAlternationOnRoleSignalFailure(t *testing.T) {
	// Fallback selector carries no role attribute: everything scrapes as
	// assistant, which means the role signal failed.
	snap := &page.Snapshot{
		URL: "https://chatgpt.com/c/abc12345-de67",
		Selections: map[string][]page.Element{
			`div.agent-turn, div.user-turn`: {
				{Text: "First block"},
				{Text: "Second block"},
				{Text: "Third block"},
			},
		},
	}

	result := chatGPTExtractor{}.Extract(snap)
	if result == nil {
		t.Fatal("expected extraction result")
	}
	roles := []transcript.Role{}
	for _, turn := range result.Turns {
		roles = append(roles, turn.Role)
	}
	for i := 1; i < len(roles); i++ {
		if roles[i] == roles[i-1] {
			t.Errorf("roles did not alternate: %v", roles)
		}
	}
}

func TestChatGPTExtract_AttributionFallsBackToClaimed(t *testing.T) {
	snap := &page.Snapshot{
		URL: "https://chatgpt.com/c/abc12345-de67",
		Selections: map[string][]page.Element{
			`[data-message-author-role]`: {
				{Text: "hi", Attrs: map[string]string{"data-message-author-role": "user"}},
				{Text: "hello", Attrs: map[string]string{"data-message-author-role": "assistant"}},
			},
		},
	}

	result := chatGPTExtractor{}.Extract(snap)
	if result.Attribution.Confidence != transcript.ConfidenceClaimed {
		t.Errorf("confidence = %q, want claimed", result.Attribution.Confidence)
	}
}

func TestChatGPTExtract_DateBasedAttribution(t *testing.T) {
	snap := &page.Snapshot{
		URL:        "https://chatgpt.com/c/abc12345-de67",
		CapturedAt: "2024-01-15T12:00:00Z",
		Selections: map[string][]page.Element{
			`[data-message-author-role]`: {
				{Text: "hi", Attrs: map[string]string{"data-message-author-role": "user"}},
				{Text: "hello", Attrs: map[string]string{"data-message-author-role": "assistant"}},
			},
		},
	}

	result := chatGPTExtractor{}.Extract(snap)
	if result.Attribution.Confidence != transcript.ConfidenceInferred {
		t.Errorf("confidence = %q, want inferred", result.Attribution.Confidence)
	}
	if result.Attribution.ModelID == nil || *result.Attribution.ModelID != "gpt-4" {
		t.Errorf("model id = %v, want gpt-4 for an early-2024 capture", result.Attribution.ModelID)
	}
}

func TestClaudeExtract_RoleFromTestID(t *testing.T) {
	snap := &page.Snapshot{
		URL: "https://claude.ai/chat/11112222-3333",
		Selections: map[string][]page.Element{
			`[data-testid="user-message"], [data-testid="assistant-message"]`: {
				{Text: "Explain defer.", Attrs: map[string]string{"data-testid": "user-message"}},
				{Text: "defer runs at function exit.", Attrs: map[string]string{"data-testid": "assistant-message"}},
			},
		},
		State: map[string]string{"conversation.model": "claude-sonnet-4"},
	}

	result := claudeExtractor{}.Extract(snap)
	if result == nil {
		t.Fatal("expected extraction result")
	}
	if result.Turns[0].Role != transcript.RoleHuman {
		t.Errorf("turn[0].Role = %q", result.Turns[0].Role)
	}
	if result.ConversationID == nil || *result.ConversationID != "11112222-3333" {
		t.Errorf("conversation id = %v", result.ConversationID)
	}
	if result.Attribution.ModelID == nil || *result.Attribution.ModelID != "claude-sonnet-4" {
		t.Errorf("model id = %v", result.Attribution.ModelID)
	}
}

func TestGeminiExtract_EchoDedupe(t *testing.T) {
	snap := &page.Snapshot{
		URL: "https://gemini.google.com/app/0123abcd4567",
		Selections: map[string][]page.Element{
			`user-query, model-response`: {
				{Text: "Summarize this.", Attrs: map[string]string{"tag": "user-query"}},
				{Text: "Here is a summary.", Attrs: map[string]string{"tag": "model-response"}},
				{Text: "Here is a summary.", Attrs: map[string]string{"tag": "model-response"}},
			},
		},
	}

	result := geminiExtractor{}.Extract(snap)
	if result == nil {
		t.Fatal("expected extraction result")
	}
	if len(result.Turns) != 2 {
		t.Fatalf("expected echo dropped, got %d turns", len(result.Turns))
	}
}
