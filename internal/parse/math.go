package parse

import (
	"regexp"
	"strings"
)

// mathChars are the operator/special characters whose density marks a line
// as likely mathematical notation.
const mathChars = "=+*/^_\\{}∫∑∏√±×÷≤≥≠≈∞→←∂∇"

// exprEquals matches an "expr = expr" shape: a short operand, a lone equals
// sign, another short operand. Prose sentences containing "=" rarely fit.
var exprEquals = regexp.MustCompile(`^[\w\s().,^+*/-]{1,60}=[\w\s().,^+*/-]{1,60}$`)

// PreserveMathBlocks joins runs of adjacent math-dense lines into single
// lines separated by one space. Downstream segmentation treats line breaks
// as turn-boundary signals; naively exported formulas break across many
// lines and would otherwise be shredded into false turns.
//
// Re-running on already-joined text is a no-op: a joined run is still one
// math line, but it no longer has a math neighbor to merge with.
func PreserveMathBlocks(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	prevMath := false

	for _, line := range lines {
		if isMathLine(line) {
			if prevMath && len(out) > 0 {
				out[len(out)-1] = out[len(out)-1] + " " + strings.TrimSpace(line)
				continue
			}
			out = append(out, line)
			prevMath = true
			continue
		}
		out = append(out, line)
		prevMath = false
	}

	return strings.Join(out, "\n")
}

// isMathLine reports whether a line looks like mathematical notation:
// two or more operator/special-math characters, or an "expr = expr" shape.
func isMathLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}

	count := 0
	for _, r := range trimmed {
		if strings.ContainsRune(mathChars, r) {
			count++
			if count >= 2 {
				return true
			}
		}
	}

	return strings.Count(trimmed, "=") == 1 && exprEquals.MatchString(trimmed)
}
