// Package page models the structural snapshot of a chat page that the
// platform extractors read. The snapshot is produced by an external capture
// collaborator; this core never touches a live document tree, it only reads
// pre-resolved selector results and state values.
package page

// Element is one node captured for a selector: its visible text plus any
// attributes the capture layer recorded.
type Element struct {
	Text  string            `json:"text"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

// Attr returns the named attribute or "" when absent.
func (e Element) Attr(name string) string {
	if e.Attrs == nil {
		return ""
	}
	return e.Attrs[name]
}

// Snapshot is an immutable capture of a chat page. Selections maps each
// selector the capture layer evaluated to the elements it matched, in
// document order. State holds scalar page-state values (intercepted API
// fields, stored preferences) keyed by name.
type Snapshot struct {
	URL        string               `json:"url"`
	Title      string               `json:"title"`
	CapturedAt string               `json:"captured_at,omitempty"`
	Selections map[string][]Element `json:"selections"`
	State      map[string]string    `json:"state,omitempty"`
}

// Select returns the elements captured for a selector, in document order.
// An unevaluated selector yields nil, which extractors treat as no match.
func (s *Snapshot) Select(selector string) []Element {
	if s == nil || s.Selections == nil {
		return nil
	}
	return s.Selections[selector]
}

// FirstText returns the text of the first non-empty element matching any
// of the given selectors, or "" when none match.
func (s *Snapshot) FirstText(selectors ...string) string {
	for _, sel := range selectors {
		for _, el := range s.Select(sel) {
			if el.Text != "" {
				return el.Text
			}
		}
	}
	return ""
}

// StateValue returns a scalar page-state value or "" when absent.
func (s *Snapshot) StateValue(key string) string {
	if s == nil || s.State == nil {
		return ""
	}
	return s.State[key]
}
