package pii

import (
	"sort"
	"strings"
)

// Redact replaces every finding's span in text with a typed placeholder of
// the form "[<LABEL> REDACTED]". Findings are applied in descending offset
// order so earlier replacements never invalidate later offsets. Invalid or
// out-of-range findings are skipped; content outside matched spans is
// byte-identical to the input. Redact never panics, and re-running on
// already-redacted text is a no-op because placeholders match no pattern.
func Redact(text string, findings []Finding) string {
	if len(findings) == 0 {
		return text
	}

	ordered := make([]Finding, len(findings))
	copy(ordered, findings)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Offset > ordered[j].Offset
	})

	lastStart := len(text)
	for _, f := range ordered {
		if f.Offset < 0 || f.Length <= 0 || f.End() > len(text) {
			continue // defensive: malformed finding, skip rather than corrupt
		}
		if f.End() > lastStart {
			continue // overlaps a span already replaced
		}
		text = text[:f.Offset] + Placeholder(f.Label) + text[f.End():]
		lastStart = f.Offset
	}

	return text
}

// Placeholder formats the redaction marker for a finding label.
func Placeholder(label string) string {
	return "[" + strings.ToUpper(label) + " REDACTED]"
}
