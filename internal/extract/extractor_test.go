package extract

import (
	"testing"
	"time"

	"github.com/warrofua/mnemolog/internal/page"
	"github.com/warrofua/mnemolog/internal/transcript"
)

func TestDetectPlatform(t *testing.T) {
	cases := []struct {
		url  string
		want transcript.Platform
	}{
		{"https://chatgpt.com/c/abc123", transcript.PlatformChatGPT},
		{"https://chat.openai.com/c/abc123", transcript.PlatformChatGPT},
		{"https://claude.ai/chat/def456", transcript.PlatformClaude},
		{"https://gemini.google.com/app/0123abcd", transcript.PlatformGemini},
		{"https://grok.com/chat/xyz", transcript.PlatformGrok},
		{"https://example.com/forum/thread", transcript.PlatformOther},
		{"not a url at all ://", transcript.PlatformOther},
	}
	for _, tc := range cases {
		if got := DetectPlatform(tc.url); got != tc.want {
			t.Errorf("DetectPlatform(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestFor_ClosedSet(t *testing.T) {
	for _, p := range []transcript.Platform{
		transcript.PlatformChatGPT, transcript.PlatformClaude,
		transcript.PlatformGemini, transcript.PlatformGrok,
	} {
		ext, ok := For(p)
		if !ok {
			t.Errorf("no extractor for %q", p)
			continue
		}
		if ext.Platform() != p {
			t.Errorf("extractor for %q reports %q", p, ext.Platform())
		}
	}
	if _, ok := For(transcript.PlatformOther); ok {
		t.Error("PlatformOther should have no extractor")
	}
}

func TestModelForDate(t *testing.T) {
	cases := []struct {
		when string
		want string
	}{
		{"2023-11-01T00:00:00Z", "gpt-4"},
		{"2024-05-13T00:00:00Z", "gpt-4o"},
		{"2024-12-01T00:00:00Z", "gpt-4o"},
		{"2026-01-01T00:00:00Z", "gpt-5"},
	}
	for _, tc := range cases {
		when, err := time.Parse(time.RFC3339, tc.when)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.when, err)
		}
		if id, _ := modelForDate(chatGPTEras, when); id != tc.want {
			t.Errorf("modelForDate(%s) = %q, want %q", tc.when, id, tc.want)
		}
	}
}

func TestCaptureTime(t *testing.T) {
	if got := captureTime(&page.Snapshot{}); !got.IsZero() {
		t.Errorf("empty timestamp: got %v, want zero", got)
	}
	if got := captureTime(&page.Snapshot{CapturedAt: "yesterday-ish"}); !got.IsZero() {
		t.Errorf("malformed timestamp: got %v, want zero", got)
	}
	got := captureTime(&page.Snapshot{CapturedAt: "2025-03-01T09:30:00Z"})
	if got.Year() != 2025 || got.Month() != time.March {
		t.Errorf("got %v", got)
	}
}

func TestDedupeEchoes_DropsExactAdjacentDuplicate(t *testing.T) {
	turns := []transcript.Turn{
		{Role: transcript.RoleHuman, Content: "hello"},
		{Role: transcript.RoleHuman, Content: "hello"},
		{Role: transcript.RoleAssistant, Content: "hi there"},
	}
	got := dedupeEchoes(turns)
	if len(got) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(got))
	}
}

func TestDedupeEchoes_DropsContainedEcho(t *testing.T) {
	turns := []transcript.Turn{
		{Role: transcript.RoleAssistant, Content: "The full answer with all the detail included."},
		{Role: transcript.RoleAssistant, Content: "full answer"},
	}
	got := dedupeEchoes(turns)
	if len(got) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(got))
	}
}

func TestDedupeEchoes_LongerRerenderReplaces(t *testing.T) {
	turns := []transcript.Turn{
		{Role: transcript.RoleAssistant, Content: "Short start"},
		{Role: transcript.RoleAssistant, Content: "Short start, but now the streamed render has finished with much more text."},
	}
	got := dedupeEchoes(turns)
	if len(got) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(got))
	}
	if got[0].Content != turns[1].Content {
		t.Errorf("kept %q, want the longer render", got[0].Content)
	}
}

func TestDedupeEchoes_ReindexesSourceOrder(t *testing.T) {
	turns := []transcript.Turn{
		{Role: transcript.RoleHuman, Content: "one", SourceIndex: 0},
		{Role: transcript.RoleHuman, Content: "one", SourceIndex: 1},
		{Role: transcript.RoleAssistant, Content: "two", SourceIndex: 2},
	}
	got := dedupeEchoes(turns)
	for i, turn := range got {
		if turn.SourceIndex != i {
			t.Errorf("turn[%d].SourceIndex = %d", i, turn.SourceIndex)
		}
	}
}
