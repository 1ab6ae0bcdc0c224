package pii

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePatternFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write pattern file: %v", err)
	}
	return path
}

func TestLoadPatternFile(t *testing.T) {
	path := writePatternFile(t, `
patterns:
  - category: employee_id
    label: Employee ID
    severity: medium
    regex: 'EMP-\d{6}'
    context_keywords: [employee, badge]
  - category: internal_host
    label: Internal hostname
    severity: low
    regex: '\b[a-z0-9-]+\.corp\.internal\b'
`)

	patterns, err := LoadPatternFile(path)
	require.NoError(t, err)
	require.Len(t, patterns, 2)

	assert.Equal(t, Category("employee_id"), patterns[0].Category)
	assert.Equal(t, SeverityMedium, patterns[0].Severity)
	assert.Equal(t, []string{"employee", "badge"}, patterns[0].ContextKeywords)

	findings := NewScanner(patterns...).Scan("badge EMP-123456 and db01.corp.internal")
	require.Len(t, findings, 2)
}

func TestLoadPatternFile_RejectsBadRegex(t *testing.T) {
	path := writePatternFile(t, `
patterns:
  - category: broken
    label: Broken
    severity: low
    regex: '(unclosed'
`)

	_, err := LoadPatternFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile regex")
}

func TestLoadPatternFile_RejectsUnknownSeverity(t *testing.T) {
	path := writePatternFile(t, `
patterns:
  - category: odd
    label: Odd
    severity: urgent
    regex: 'x+'
`)

	_, err := LoadPatternFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown severity")
}

func TestLoadPatternFile_RequiresLabel(t *testing.T) {
	path := writePatternFile(t, `
patterns:
  - category: unlabeled
    severity: low
    regex: 'x+'
`)

	_, err := LoadPatternFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "label is required")
}

func TestLoadPatternFile_MissingFile(t *testing.T) {
	_, err := LoadPatternFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
