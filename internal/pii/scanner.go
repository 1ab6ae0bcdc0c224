package pii

import (
	"sort"
	"strconv"
	"strings"

	"github.com/warrofua/mnemolog/internal/transcript"
)

// Finding is one accepted match in a piece of turn content. Raw is never
// serialized; reviewers see MaskedValue until a redaction decision is made.
type Finding struct {
	Category    Category `json:"category"`
	Label       string   `json:"label"`
	Severity    Severity `json:"severity"`
	MaskedValue string   `json:"masked_value"`
	Raw         string   `json:"-"`
	Offset      int      `json:"char_offset"`
	Length      int      `json:"length"`
}

// End is the exclusive end offset of the finding's span.
func (f Finding) End() int { return f.Offset + f.Length }

// Summary aggregates a conversation scan: per-turn finding lists keyed by
// turn index, plus counts by severity tier. Purely derived and recomputable.
type Summary struct {
	PerTurn map[int][]Finding `json:"per_turn"`
	Counts  map[Severity]int  `json:"counts"`
	Total   int               `json:"total"`
}

// HasFindings reports whether any turn produced at least one finding.
func (s Summary) HasFindings() bool { return s.Total > 0 }

// Scanner runs the pattern table over text. Custom patterns, when present,
// are appended after the built-in table.
type Scanner struct {
	patterns []Pattern
}

// NewScanner returns a scanner over the built-in table plus any custom
// patterns.
func NewScanner(custom ...Pattern) *Scanner {
	patterns := make([]Pattern, 0, len(defaultPatterns)+len(custom))
	patterns = append(patterns, defaultPatterns...)
	patterns = append(patterns, custom...)
	return &Scanner{patterns: patterns}
}

// Scan finds all accepted, non-overlapping findings in text, sorted by
// start offset. When two patterns hit the same span the more severe
// interpretation wins.
func (s *Scanner) Scan(text string) []Finding {
	var findings []Finding

	for _, p := range s.patterns {
		for _, loc := range p.Regexp.FindAllStringIndex(text, -1) {
			raw := text[loc[0]:loc[1]]
			if len(p.ContextKeywords) > 0 && !hasContext(text, loc[0], loc[1], p.ContextKeywords) {
				continue
			}
			if isFalsePositive(p.Category, raw, text, loc[0], loc[1]) {
				continue
			}
			findings = append(findings, Finding{
				Category:    p.Category,
				Label:       p.Label,
				Severity:    p.Severity,
				MaskedValue: Mask(raw),
				Raw:         raw,
				Offset:      loc[0],
				Length:      loc[1] - loc[0],
			})
		}
	}

	return dedupe(findings)
}

// ScanConversation scans every turn and aggregates the results.
func (s *Scanner) ScanConversation(turns []transcript.Turn) Summary {
	summary := Summary{
		PerTurn: make(map[int][]Finding),
		Counts:  make(map[Severity]int),
	}

	for i, turn := range turns {
		findings := s.Scan(turn.Content)
		if len(findings) == 0 {
			continue
		}
		summary.PerTurn[i] = findings
		for _, f := range findings {
			summary.Counts[f.Severity]++
			summary.Total++
		}
	}

	return summary
}

// hasContext reports whether any keyword appears within contextRadius
// characters of the match span, case-insensitive.
func hasContext(text string, start, end int, keywords []string) bool {
	lo := start - contextRadius
	if lo < 0 {
		lo = 0
	}
	hi := end + contextRadius
	if hi > len(text) {
		hi = len(text)
	}
	window := strings.ToLower(text[lo:hi])
	for _, kw := range keywords {
		if strings.Contains(window, kw) {
			return true
		}
	}
	return false
}

// isFalsePositive applies category-specific suppression on top of the
// generic context gate.
func isFalsePositive(cat Category, raw, text string, start, end int) bool {
	switch cat {
	case CategoryZIP:
		// A bare five-digit number in a plausible calendar-year range is
		// far more likely a year than a postal code.
		if len(raw) == 5 {
			if n, err := strconv.Atoi(raw); err == nil && n >= 1900 && n <= 2100 {
				return true
			}
		}
	case CategoryIPAddress:
		// Dotted quads next to the word "version" are version strings.
		if hasContext(text, start, end, []string{"version", " v."}) {
			return true
		}
		for _, octet := range strings.Split(raw, ".") {
			if n, err := strconv.Atoi(octet); err != nil || n > 255 {
				return true
			}
		}
	case CategoryPhone:
		digits := 0
		for _, r := range raw {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits < 10 {
			return true
		}
	}
	return false
}

// dedupe resolves overlaps: sort by start offset then severity rank (most
// severe first), then keep a finding only if it starts at or past the end
// of the last kept one. Greedy leftmost-first with a severity tie-break;
// retained findings never overlap.
func dedupe(findings []Finding) []Finding {
	if len(findings) < 2 {
		return findings
	}

	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Offset != findings[j].Offset {
			return findings[i].Offset < findings[j].Offset
		}
		return findings[i].Severity.Rank() < findings[j].Severity.Rank()
	})

	kept := findings[:1]
	for _, f := range findings[1:] {
		if f.Offset >= kept[len(kept)-1].End() {
			kept = append(kept, f)
		}
	}
	return kept
}

// Mask renders a value for reviewer display without exposing it: values
// longer than 8 characters show first-4…last-4, 5–8 characters show
// first-2***last-2, anything shorter is fully masked.
func Mask(v string) string {
	switch n := len(v); {
	case n > 8:
		return v[:4] + "…" + v[n-4:]
	case n >= 5:
		return v[:2] + "***" + v[n-2:]
	default:
		return "****"
	}
}
