package parse

import (
	"strings"

	"github.com/warrofua/mnemolog/internal/transcript"
)

// Role-label dictionaries. The generic sets apply to every platform; the
// platform sets are consulted only when the caller's platform hint matches,
// so "Claude:" in a ChatGPT paste is not treated as a speaker marker.
var (
	genericHumanLabels = []string{
		"you", "user", "me", "human", "prompt", "question", "q",
	}
	genericAssistantLabels = []string{
		"ai", "assistant", "bot", "model", "answer", "response", "a",
	}
	platformAssistantLabels = map[transcript.Platform][]string{
		transcript.PlatformChatGPT: {"chatgpt", "chatgpt said", "gpt", "gpt-4", "gpt-4o", "o1"},
		transcript.PlatformClaude:  {"claude", "claude said"},
		transcript.PlatformGemini:  {"gemini", "gemini said", "bard"},
		transcript.PlatformGrok:    {"grok", "grok said"},
	}
	platformHumanLabels = map[transcript.Platform][]string{
		transcript.PlatformChatGPT: {"you said"},
		transcript.PlatformClaude:  {},
		transcript.PlatformGemini:  {},
		transcript.PlatformGrok:    {},
	}
)

// labelSeparators may follow a role label. A label line with no separator
// and no trailing content (a bare label line) also counts as a marker.
var labelSeparators = []string{":", "：", " -", "—", ">"}

// matchLabel checks whether a line starts with an explicit role marker.
// On a match it returns the resolved role and the content remaining after
// the label and separator (possibly empty for a bare label line).
func matchLabel(line string, hint transcript.Platform) (transcript.Role, string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", "", false
	}

	human := genericHumanLabels
	assistant := genericAssistantLabels
	if extra, ok := platformHumanLabels[hint]; ok {
		human = append(extra, human...)
	}
	if extra, ok := platformAssistantLabels[hint]; ok {
		assistant = append(extra, assistant...)
	}

	if rest, ok := matchLabelSet(trimmed, human); ok {
		return transcript.RoleHuman, rest, true
	}
	if rest, ok := matchLabelSet(trimmed, assistant); ok {
		return transcript.RoleAssistant, rest, true
	}
	return "", "", false
}

// matchLabelSet tries each label against the start of the line. A prefix
// hit without a following separator does not end the search, so a short
// label never shadows a longer one ("chatgpt" vs "chatgpt said"). The
// character after the label must be a separator, or the line must end
// exactly at the label.
func matchLabelSet(line string, labels []string) (string, bool) {
	lower := strings.ToLower(line)
	for _, label := range labels {
		if !strings.HasPrefix(lower, label) {
			continue
		}
		rest := line[len(label):]
		if strings.TrimSpace(rest) == "" {
			return "", true // bare label line
		}
		for _, sep := range labelSeparators {
			if strings.HasPrefix(rest, sep) {
				return strings.TrimSpace(rest[len(sep):]), true
			}
		}
	}
	return "", false
}
