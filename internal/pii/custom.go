package pii

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// patternSpec is the YAML shape of one operator-supplied pattern.
type patternSpec struct {
	Category        string   `yaml:"category"`
	Label           string   `yaml:"label"`
	Severity        string   `yaml:"severity"`
	Regex           string   `yaml:"regex"`
	ContextKeywords []string `yaml:"context_keywords,omitempty"`
}

// LoadPatternFile reads custom detection patterns from a YAML file. The
// returned patterns are appended after the built-in table by NewScanner.
//
// File shape:
//
//	patterns:
//	  - category: employee_id
//	    label: Employee ID
//	    severity: medium
//	    regex: 'EMP-\d{6}'
//	    context_keywords: [employee, badge]
func LoadPatternFile(path string) ([]Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pattern file: %w", err)
	}

	var doc struct {
		Patterns []patternSpec `yaml:"patterns"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse pattern file: %w", err)
	}

	patterns := make([]Pattern, 0, len(doc.Patterns))
	for i, spec := range doc.Patterns {
		re, err := regexp.Compile(spec.Regex)
		if err != nil {
			return nil, fmt.Errorf("pattern %d (%s): compile regex: %w", i, spec.Label, err)
		}
		sev := Severity(spec.Severity)
		switch sev {
		case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		default:
			return nil, fmt.Errorf("pattern %d (%s): unknown severity %q", i, spec.Label, spec.Severity)
		}
		if spec.Label == "" {
			return nil, fmt.Errorf("pattern %d: label is required", i)
		}
		patterns = append(patterns, Pattern{
			Category:        Category(spec.Category),
			Label:           spec.Label,
			Severity:        sev,
			Regexp:          re,
			ContextKeywords: spec.ContextKeywords,
		})
	}

	return patterns, nil
}
