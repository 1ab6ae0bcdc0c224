package pii

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedact_SingleFinding(t *testing.T) {
	text := "Contact me at a@b.com please"
	findings := NewScanner().Scan(text)
	require.Len(t, findings, 1)

	got := Redact(text, findings)
	assert.Equal(t, "Contact me at [EMAIL ADDRESS REDACTED] please", got)
}

func TestRedact_MultipleFindingsPreserveSurroundingText(t *testing.T) {
	text := "email a@b.com then call (555) 867-5309 later"
	findings := NewScanner().Scan(text)
	require.Len(t, findings, 2)

	got := Redact(text, findings)
	assert.Equal(t, "email [EMAIL ADDRESS REDACTED] then call [PHONE NUMBER REDACTED] later", got)
}

func TestRedact_AlreadyRedactedIsNoOp(t *testing.T) {
	s := NewScanner()
	text := "my ssn is 123-45-6789"

	once := Redact(text, s.Scan(text))
	twice := Redact(once, s.Scan(once))
	assert.Equal(t, once, twice)
}

func TestRedact_NoFindings(t *testing.T) {
	assert.Equal(t, "unchanged", Redact("unchanged", nil))
}

func TestRedact_SkipsMalformedFindings(t *testing.T) {
	text := "short text"
	findings := []Finding{
		{Label: "Bogus", Offset: -1, Length: 4},
		{Label: "Bogus", Offset: 2, Length: 0},
		{Label: "Bogus", Offset: 6, Length: 50},
	}
	assert.Equal(t, text, Redact(text, findings))
}

func TestRedact_SkipsOverlappingSpans(t *testing.T) {
	text := "aaaabbbbcccc"
	findings := []Finding{
		{Label: "One", Offset: 0, Length: 8},
		{Label: "Two", Offset: 4, Length: 8},
	}

	got := Redact(text, findings)
	// Rightmost span applies first; the overlapping earlier span is skipped.
	assert.Equal(t, "aaaa[TWO REDACTED]", got)
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "[EMAIL ADDRESS REDACTED]", Placeholder("Email address"))
	assert.Equal(t, "[SSN REDACTED]", Placeholder("ssn"))
}
