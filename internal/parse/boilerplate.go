package parse

import "strings"

// Interface chrome that pasted transcripts drag along. Exact matches are
// compared case-insensitively against the trimmed line; prefix patterns
// match the start of the trimmed line.
var (
	boilerplateExact = []string{
		"copy",
		"copy code",
		"copy link",
		"share",
		"edit",
		"retry",
		"regenerate",
		"regenerate response",
		"thinking",
		"thinking...",
		"show thinking",
		"expand to show model thoughts",
		"chatgpt can make mistakes. check important info.",
		"claude can make mistakes. please double-check responses.",
		"gemini can make mistakes, so double-check it",
		"grok can make mistakes. verify its outputs.",
	}
	boilerplatePrefix = []string{
		"thought for ",
		"worked for ",
		"searched the web",
		"analyzing",
		"sources and related content",
	}
)

// stripBoilerplate removes known non-content interface lines before
// segmentation. Blank lines are preserved so paragraph structure survives.
func stripBoilerplate(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		if isBoilerplateLine(line) {
			continue
		}
		out = append(out, line)
	}

	return strings.Join(out, "\n")
}

func isBoilerplateLine(line string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(line))
	if trimmed == "" {
		return false
	}
	for _, exact := range boilerplateExact {
		if trimmed == exact {
			return true
		}
	}
	for _, prefix := range boilerplatePrefix {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}
