package parse

import (
	"strings"
	"unicode"

	"github.com/warrofua/mnemolog/internal/transcript"
)

// Assistant openers that mark the first segment as model output when no
// label or override says otherwise.
var assistantOpeners = []string{
	"hello! how can",
	"hi! how can",
	"how can i help",
	"how may i help",
	"i'm an ai",
	"i am an ai",
	"as an ai",
	"i'd be happy to",
	"certainly!",
	"great question",
	"sure, i can",
	"of course!",
}

// Connective words that mark a segment as a continuation of the previous
// turn rather than a reply to it.
var connectives = map[string]bool{
	"and": true, "but": true, "or": true, "so": true, "also": true,
	"however": true, "because": true, "then": true, "additionally": true,
	"furthermore": true, "moreover": true, "finally": true,
}

// resolveRoles assigns a role to every segment and merges continuations,
// producing the canonical turn sequence. Returns the turns and the resolved
// first-speaker role.
func resolveRoles(segments []segment, override *transcript.Role) ([]transcript.Turn, transcript.Role) {
	if len(segments) == 0 {
		return nil, transcript.RoleHuman
	}

	first := firstSpeaker(segments[0], override)

	var turns []transcript.Turn
	cursor := first

	for i, seg := range segments {
		role := cursor
		switch {
		case i == 0:
			role = first
		case seg.labeled:
			// Explicit label wins and resets the alternation cursor.
			role = seg.role
		default:
			role = cursor.Flip()
		}
		cursor = role

		content := strings.TrimSpace(seg.content)
		if content == "" {
			continue
		}

		// Continuation merge: same-role segment that reads like a
		// follow-on paragraph extends the previous turn instead of
		// opening a spurious new one.
		if n := len(turns); n > 0 && turns[n-1].Role == role && isContinuation(content) {
			turns[n-1].Content += "\n\n" + content
			continue
		}

		turns = append(turns, transcript.Turn{
			Role:        role,
			Content:     content,
			SourceIndex: seg.index,
		})
	}

	// Every turn sharing one role means role detection failed entirely;
	// force strict alternation from the first turn's role.
	if len(turns) > 1 && allSameRole(turns) {
		role := turns[0].Role
		for i := range turns {
			turns[i].Role = role
			role = role.Flip()
		}
	}

	return turns, first
}

// firstSpeaker determines who opens the conversation:
// explicit override > explicit label on the first segment > content
// heuristic (short question → human, greeting/self-introduction →
// assistant) > human.
func firstSpeaker(seg segment, override *transcript.Role) transcript.Role {
	if override != nil {
		return *override
	}
	if seg.labeled {
		return seg.role
	}

	content := strings.TrimSpace(seg.content)
	lower := strings.ToLower(content)

	for _, opener := range assistantOpeners {
		if strings.Contains(lower, opener) {
			return transcript.RoleAssistant
		}
	}
	if len(content) <= 200 && strings.HasSuffix(content, "?") {
		return transcript.RoleHuman
	}
	return transcript.RoleHuman
}

// isContinuation reports whether content looks like a follow-on paragraph:
// a list or numbered-list marker, a lowercase opening letter, or a leading
// connective word.
func isContinuation(content string) bool {
	if content == "" {
		return false
	}

	runes := []rune(content)
	switch runes[0] {
	case '-', '*', '•':
		return true
	}

	if unicode.IsDigit(runes[0]) {
		rest := strings.TrimLeft(content, "0123456789")
		if strings.HasPrefix(rest, ".") || strings.HasPrefix(rest, ")") {
			return true
		}
	}
	if unicode.IsLower(runes[0]) {
		firstWord := content
		if idx := strings.IndexFunc(content, func(r rune) bool {
			return r == ' ' || r == ',' || r == '\n'
		}); idx > 0 {
			firstWord = content[:idx]
		}
		if connectives[strings.ToLower(firstWord)] {
			return true
		}
		return true // any lowercase opening reads as a continuation
	}

	firstWord := strings.ToLower(content)
	if idx := strings.IndexFunc(firstWord, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\n'
	}); idx > 0 {
		firstWord = firstWord[:idx]
	}
	return connectives[firstWord]
}

func allSameRole(turns []transcript.Turn) bool {
	for _, t := range turns[1:] {
		if t.Role != turns[0].Role {
			return false
		}
	}
	return true
}
