// Package pii implements the privacy triage engine: a table-driven scanner
// over canonical turn content, context-gated acceptance for low-specificity
// patterns, severity-first overlap resolution, masking for reviewer
// display, and deterministic redaction.
package pii

import "regexp"

// Severity is the triage urgency tier of a finding, ordered most to least
// severe for all tie-break and display purposes.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank orders severities with 0 as most severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	default:
		return 3
	}
}

// Category identifies the kind of sensitive data a pattern detects.
type Category string

const (
	CategoryEmail       Category = "email"
	CategoryPhone       Category = "phone"
	CategorySSN         Category = "ssn"
	CategoryCreditCard  Category = "credit_card"
	CategoryAddress     Category = "address"
	CategoryZIP         Category = "zip_code"
	CategoryAPIKey      Category = "api_key"
	CategoryPrivateKey  Category = "private_key"
	CategoryIPAddress   Category = "ip_address"
	CategoryDateOfBirth Category = "date_of_birth"
)

// Pattern is one entry in the detection table. ContextKeywords, when set,
// gate acceptance: a match counts only if one of the keywords appears
// within contextRadius characters of it, case-insensitive.
type Pattern struct {
	Category        Category
	Label           string
	Severity        Severity
	Regexp          *regexp.Regexp
	ContextKeywords []string
}

// contextRadius is the window, in characters on either side of a match,
// searched for context keywords.
const contextRadius = 60

// defaultPatterns is the ordered detection table. Order matters only for
// reproducibility of the pre-dedup scan; overlap resolution is governed by
// offset and severity, not table position. Keeping the table in one place
// keeps the gating and tie-break rules auditable.
var defaultPatterns = []Pattern{
	{
		Category: CategoryPrivateKey,
		Label:    "Private key",
		Severity: SeverityCritical,
		Regexp:   regexp.MustCompile(`-----BEGIN (?:[A-Z]+ )?PRIVATE KEY-----`),
	},
	{
		Category: CategorySSN,
		Label:    "Social Security number",
		Severity: SeverityCritical,
		Regexp:   regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
	},
	{
		Category: CategoryCreditCard,
		Label:    "Credit card number",
		Severity: SeverityCritical,
		Regexp:   regexp.MustCompile(`\b(?:\d{4}[ -]){3}\d{4}\b|\b\d{16}\b`),
	},
	{
		Category: CategoryAPIKey,
		Label:    "API key",
		Severity: SeverityCritical,
		Regexp:   regexp.MustCompile(`\b(?:sk|pk|rk|ghp|gho|xox[bap]|AKIA)[-_]?[A-Za-z0-9_-]{16,}\b`),
	},
	{
		Category: CategoryEmail,
		Label:    "Email address",
		Severity: SeverityHigh,
		Regexp:   regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
	},
	{
		Category: CategoryPhone,
		Label:    "Phone number",
		Severity: SeverityHigh,
		Regexp:   regexp.MustCompile(`(?:\+?1[-. ]?)?\(?\d{3}\)?[-. ]?\d{3}[-. ]?\d{4}\b`),
	},
	{
		Category:        CategoryDateOfBirth,
		Label:           "Date of birth",
		Severity:        SeverityHigh,
		Regexp:          regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),
		ContextKeywords: []string{"born", "birth", "dob", "birthday"},
	},
	{
		Category: CategoryAddress,
		Label:    "Street address",
		Severity: SeverityMedium,
		Regexp:   regexp.MustCompile(`(?i)\b\d{1,5} [A-Za-z][A-Za-z ]{2,30}\b(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr|Court|Ct|Way|Place|Pl)\b\.?`),
	},
	{
		Category: CategoryIPAddress,
		Label:    "IP address",
		Severity: SeverityMedium,
		Regexp:   regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
	},
	{
		Category:        CategoryZIP,
		Label:           "ZIP code",
		Severity:        SeverityLow,
		Regexp:          regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`),
		ContextKeywords: []string{"zip", "postal", "address", "mailing", "mail to", "ship"},
	},
}
