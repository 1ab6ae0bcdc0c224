// Package archive implements the decision policy that routes a triage
// result to an outcome: archive directly, auto-redact then archive, or hold
// the findings for a manual decision.
package archive

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/warrofua/mnemolog/internal/pii"
	"github.com/warrofua/mnemolog/internal/transcript"
)

// State is the archive lifecycle position of a submission.
type State string

const (
	StateNotScanned      State = "not_scanned"
	StateCleanScanned    State = "clean_scanned"
	StateFindingsPending State = "findings_pending"
	StateRedacted        State = "redacted"
	StateArchived        State = "archived"
)

// Policy is the user-configured privacy policy for one archive attempt.
// Read-only to this package; never persisted here.
type Policy struct {
	RunScan      bool `json:"run_pii_scan"`
	AlwaysRedact bool `json:"always_redact"`
}

// Decision is the external resolution of a FindingsPending submission.
type Decision string

const (
	DecisionRedactAndArchive Decision = "redact_and_archive"
	DecisionArchiveAsIs      Decision = "archive_as_is"
	DecisionCancel           Decision = "cancel"
)

var (
	// ErrNotPending means no FindingsPending archive exists for the id.
	ErrNotPending = errors.New("no pending archive")
	// ErrUnknownDecision means the decision string is not one of the three
	// recognized resolutions.
	ErrUnknownDecision = errors.New("unknown decision")
)

// Outcome is the controller's result for a submission. Turns carries the
// sequence to hand to the persistence collaborator (redacted when Redacted
// is set); for FindingsPending outcomes it is nil and Summary holds the
// masked findings awaiting a decision.
type Outcome struct {
	ID       uuid.UUID         `json:"id"`
	State    State             `json:"state"`
	Turns    []transcript.Turn `json:"turns,omitempty"`
	Summary  *pii.Summary      `json:"summary,omitempty"`
	Scanned  bool              `json:"pii_scanned"`
	Redacted bool              `json:"pii_redacted"`
}

type pendingArchive struct {
	turns   []transcript.Turn
	summary pii.Summary
}

// Controller runs the archive state machine. A nil scanner means the triage
// engine is unavailable; submissions then fail open as clean rather than
// blocking the user's own content.
type Controller struct {
	scanner *pii.Scanner
	logger  *slog.Logger

	mu      sync.Mutex
	pending map[uuid.UUID]*pendingArchive
}

// New creates a controller. scanner may be nil (fail-open mode).
func New(scanner *pii.Scanner, logger *slog.Logger) *Controller {
	return &Controller{
		scanner: scanner,
		logger:  logger,
		pending: make(map[uuid.UUID]*pendingArchive),
	}
}

// Submit runs the policy for one archive attempt.
//
// runScan=false          → archived directly, unscanned.
// scan: zero findings    → archived.
// findings, alwaysRedact → redacted, archived.
// findings otherwise     → FindingsPending, awaiting Resolve.
func (c *Controller) Submit(turns []transcript.Turn, pol Policy) *Outcome {
	id := uuid.New()

	if !pol.RunScan {
		return &Outcome{ID: id, State: StateArchived, Turns: turns}
	}

	summary, ok := c.scan(turns)
	if !ok {
		// Triage unavailable: privacy review is a best-effort enhancement,
		// not a gate that can deny a user's own content.
		c.logger.Warn("pii scan unavailable, archiving unscanned", "archive_id", id)
		return &Outcome{ID: id, State: StateArchived, Turns: turns}
	}

	if !summary.HasFindings() {
		return &Outcome{ID: id, State: StateArchived, Turns: turns, Scanned: true}
	}

	if pol.AlwaysRedact {
		redacted := redactTurns(turns, summary)
		c.logger.Info("auto-redacted findings", "archive_id", id, "findings", summary.Total)
		return &Outcome{ID: id, State: StateArchived, Turns: redacted, Summary: &summary, Scanned: true, Redacted: true}
	}

	c.mu.Lock()
	c.pending[id] = &pendingArchive{turns: turns, summary: summary}
	c.mu.Unlock()

	c.logger.Info("findings pending manual decision", "archive_id", id, "findings", summary.Total)
	return &Outcome{ID: id, State: StateFindingsPending, Summary: &summary, Scanned: true}
}

// Resolve applies an external decision to a FindingsPending submission.
// Every recognized decision is terminal: the pending entry is removed. An
// unrecognized decision leaves the entry pending so the caller can retry.
func (c *Controller) Resolve(id uuid.UUID, d Decision) (*Outcome, error) {
	switch d {
	case DecisionRedactAndArchive, DecisionArchiveAsIs, DecisionCancel:
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownDecision, d)
	}

	c.mu.Lock()
	p, ok := c.pending[id]
	if ok {
		delete(c.pending, id)
	}
	c.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w %s", ErrNotPending, id)
	}

	switch d {
	case DecisionRedactAndArchive:
		return &Outcome{
			ID: id, State: StateArchived,
			Turns:   redactTurns(p.turns, p.summary),
			Summary: &p.summary, Scanned: true, Redacted: true,
		}, nil
	case DecisionArchiveAsIs:
		return &Outcome{
			ID: id, State: StateArchived,
			Turns:   p.turns,
			Summary: &p.summary, Scanned: true,
		}, nil
	default:
		return &Outcome{ID: id, State: StateNotScanned}, nil
	}
}

// scan runs the triage engine, converting any failure into "unavailable"
// so the caller can fail open.
func (c *Controller) scan(turns []transcript.Turn) (summary pii.Summary, ok bool) {
	if c.scanner == nil {
		return pii.Summary{}, false
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("pii scan panicked", "panic", r)
			ok = false
		}
	}()
	return c.scanner.ScanConversation(turns), true
}

// redactTurns produces a new turn sequence with each turn's findings
// replaced by typed placeholders. Turns without findings are copied as-is.
func redactTurns(turns []transcript.Turn, summary pii.Summary) []transcript.Turn {
	out := make([]transcript.Turn, len(turns))
	copy(out, turns)
	for i, findings := range summary.PerTurn {
		if i < 0 || i >= len(out) {
			continue
		}
		out[i].Content = pii.Redact(out[i].Content, findings)
	}
	return out
}
