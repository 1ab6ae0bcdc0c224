package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/warrofua/mnemolog/internal/archive"
	"github.com/warrofua/mnemolog/internal/events"
	"github.com/warrofua/mnemolog/internal/extract"
	"github.com/warrofua/mnemolog/internal/page"
	"github.com/warrofua/mnemolog/internal/parse"
	"github.com/warrofua/mnemolog/internal/store"
	"github.com/warrofua/mnemolog/internal/transcript"
)

// --- detect ---

type detectRequest struct {
	Platform string        `json:"platform,omitempty"`
	Snapshot page.Snapshot `json:"snapshot"`
}

type detectResponse struct {
	Detected bool                         `json:"detected"`
	Reason   string                       `json:"reason,omitempty"`
	Result   *transcript.ExtractionResult `json:"result,omitempty"`
}

// detect runs the platform extractor for a captured page snapshot.
// Extraction failure is a normal outcome, not an error: the caller shows
// "no conversation detected" and falls back to manual text entry.
func (s *Server) detect(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: %v", err)
		return
	}

	platform := transcript.Platform(req.Platform)
	if platform == "" {
		platform = extract.DetectPlatform(req.Snapshot.URL)
	}

	ext, ok := extract.For(platform)
	if !ok {
		writeJSON(w, http.StatusOK, detectResponse{Detected: false, Reason: "unsupported platform"})
		return
	}

	result := ext.Extract(&req.Snapshot)
	if result == nil {
		writeJSON(w, http.StatusOK, detectResponse{Detected: false, Reason: "no conversation detected"})
		return
	}

	s.logger.Info("conversation detected",
		"platform", result.Platform,
		"turns", len(result.Turns),
		"confidence", result.Attribution.Confidence,
	)
	writeJSON(w, http.StatusOK, detectResponse{Detected: true, Result: result})
}

// --- parse ---

type parseRequest struct {
	Text         string `json:"text"`
	Platform     string `json:"platform,omitempty"`
	FirstSpeaker string `json:"first_speaker,omitempty"`
}

// parse runs the generic text parser over raw pasted text.
func (s *Server) parse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: %v", err)
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	platform := transcript.Platform(req.Platform)
	if platform == "" {
		platform = transcript.PlatformOther
	}

	var override *transcript.Role
	switch transcript.Role(req.FirstSpeaker) {
	case transcript.RoleHuman, transcript.RoleAssistant:
		role := transcript.Role(req.FirstSpeaker)
		override = &role
	}

	result := parse.Parse(req.Text, platform, override)
	writeJSON(w, http.StatusOK, result)
}

// --- archive ---

type attributionPayload struct {
	ModelID          *string `json:"model_id"`
	ModelDisplayName *string `json:"model_display_name"`
	Confidence       string  `json:"attribution_confidence"`
	Source           string  `json:"attribution_source"`
}

type settingsPayload struct {
	RunPIIScan   *bool   `json:"run_pii_scan,omitempty"`
	AlwaysRedact *bool   `json:"always_redact,omitempty"`
	Visibility   *string `json:"visibility,omitempty"`
	ShowAuthor   *bool   `json:"show_author,omitempty"`
}

type archiveRequest struct {
	Title          string             `json:"title"`
	Platform       string             `json:"platform"`
	Turns          []transcript.Turn  `json:"turns"`
	Attribution    attributionPayload `json:"attribution"`
	ConversationID *string            `json:"external_conversation_id,omitempty"`
	Settings       settingsPayload    `json:"settings,omitempty"`
}

type archiveResponse struct {
	ID       string          `json:"id"`
	State    archive.State   `json:"state"`
	URL      string          `json:"url,omitempty"`
	Scanned  bool            `json:"pii_scanned"`
	Redacted bool            `json:"pii_redacted"`
	Summary  *summaryPayload `json:"findings,omitempty"`
}

// summaryPayload is the reviewer-facing view of a triage summary: masked
// values only, raw spans never leave the server.
type summaryPayload struct {
	Total   int                      `json:"total"`
	Counts  map[string]int           `json:"counts_by_severity"`
	PerTurn map[int][]findingPayload `json:"per_turn"`
}

type findingPayload struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Severity string `json:"severity"`
	Masked   string `json:"masked_value"`
}

// archiveConversation runs the decision policy for a canonical turn list.
// Clean or auto-redacted submissions are stored immediately; submissions
// with findings wait on POST /archive/{id}/decision.
func (s *Server) archiveConversation(w http.ResponseWriter, r *http.Request) {
	var req archiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: %v", err)
		return
	}
	if len(req.Turns) == 0 {
		writeError(w, http.StatusBadRequest, "turns are required")
		return
	}

	pol := archive.Policy{
		RunScan:      s.settings.RunPIIScan,
		AlwaysRedact: s.settings.AlwaysRedact,
	}
	if req.Settings.RunPIIScan != nil {
		pol.RunScan = *req.Settings.RunPIIScan
	}
	if req.Settings.AlwaysRedact != nil {
		pol.AlwaysRedact = *req.Settings.AlwaysRedact
	}

	meta := archiveMeta{
		title:      req.Title,
		platform:   req.Platform,
		attr:       req.Attribution,
		convRef:    req.ConversationID,
		visibility: s.settings.DefaultVisibility,
		showAuthor: s.settings.DefaultShowAuthor,
	}
	if req.Settings.Visibility != nil {
		meta.visibility = *req.Settings.Visibility
	}
	if req.Settings.ShowAuthor != nil {
		meta.showAuthor = *req.Settings.ShowAuthor
	}

	outcome := s.controller.Submit(req.Turns, pol)

	if outcome.State == archive.StateFindingsPending {
		s.metaMu.Lock()
		s.pendingMeta[outcome.ID] = meta
		s.metaMu.Unlock()

		s.publishFindingsPending(outcome, meta)
		writeJSON(w, http.StatusAccepted, archiveResponse{
			ID:      outcome.ID.String(),
			State:   outcome.State,
			Scanned: true,
			Summary: maskedSummary(outcome),
		})
		return
	}

	s.persistAndRespond(w, r, outcome, meta)
}

// archiveDecision resumes a FindingsPending archive with the reviewer's
// choice.
func (s *Server) archiveDecision(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid archive id")
		return
	}

	var req struct {
		Decision string `json:"decision"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: %v", err)
		return
	}

	outcome, err := s.controller.Resolve(id, archive.Decision(req.Decision))
	if errors.Is(err, archive.ErrUnknownDecision) {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusNotFound, "%v", err)
		return
	}

	s.metaMu.Lock()
	meta, ok := s.pendingMeta[id]
	delete(s.pendingMeta, id)
	s.metaMu.Unlock()

	if outcome.State != archive.StateArchived {
		writeJSON(w, http.StatusOK, archiveResponse{ID: id.String(), State: outcome.State})
		return
	}
	if !ok {
		writeError(w, http.StatusInternalServerError, "archive metadata lost for %s", id)
		return
	}

	s.persistAndRespond(w, r, outcome, meta)
}

func (s *Server) getConversation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	rec, err := s.store.GetConversation(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// persistAndRespond stores an archived outcome and publishes the event.
func (s *Server) persistAndRespond(w http.ResponseWriter, r *http.Request, outcome *archive.Outcome, meta archiveMeta) {
	rec := &store.ArchivedConversation{
		ID:               outcome.ID,
		Title:            meta.title,
		Platform:         meta.platform,
		Turns:            outcome.Turns,
		ModelID:          meta.attr.ModelID,
		ModelDisplayName: meta.attr.ModelDisplayName,
		Confidence:       meta.attr.Confidence,
		Source:           meta.attr.Source,
		ConversationRef:  meta.convRef,
		PIIScanned:       outcome.Scanned,
		PIIRedacted:      outcome.Redacted,
		Visibility:       meta.visibility,
		ShowAuthor:       meta.showAuthor,
	}

	id, url, err := s.store.SaveConversation(r.Context(), rec)
	if err != nil {
		s.logger.Error("failed to store conversation", "error", err, "archive_id", outcome.ID)
		writeError(w, http.StatusInternalServerError, "store conversation: %v", err)
		return
	}

	if s.events != nil {
		if err := s.events.Publish(events.SubjectArchived, events.ArchivedEvent{
			ConversationID: id.String(),
			Platform:       meta.platform,
			Title:          meta.title,
			TurnCount:      len(outcome.Turns),
			PIIScanned:     outcome.Scanned,
			PIIRedacted:    outcome.Redacted,
			URL:            url,
		}); err != nil {
			s.logger.Warn("failed to publish archived event", "error", err)
		}
	}

	s.logger.Info("conversation archived",
		"conversation_id", id,
		"platform", meta.platform,
		"turns", len(outcome.Turns),
		"pii_redacted", outcome.Redacted,
	)
	writeJSON(w, http.StatusCreated, archiveResponse{
		ID:       id.String(),
		State:    archive.StateArchived,
		URL:      url,
		Scanned:  outcome.Scanned,
		Redacted: outcome.Redacted,
	})
}

func (s *Server) publishFindingsPending(outcome *archive.Outcome, meta archiveMeta) {
	if s.events == nil || outcome.Summary == nil {
		return
	}
	counts := make(map[string]int, len(outcome.Summary.Counts))
	for sev, n := range outcome.Summary.Counts {
		counts[string(sev)] = n
	}
	if err := s.events.Publish(events.SubjectFindingsPending, events.FindingsPendingEvent{
		ArchiveID:    outcome.ID.String(),
		Platform:     meta.platform,
		FindingCount: outcome.Summary.Total,
		Counts:       counts,
	}); err != nil {
		s.logger.Warn("failed to publish findings event", "error", err)
	}
}

func maskedSummary(outcome *archive.Outcome) *summaryPayload {
	if outcome.Summary == nil {
		return nil
	}
	p := &summaryPayload{
		Total:   outcome.Summary.Total,
		Counts:  make(map[string]int, len(outcome.Summary.Counts)),
		PerTurn: make(map[int][]findingPayload, len(outcome.Summary.PerTurn)),
	}
	for sev, n := range outcome.Summary.Counts {
		p.Counts[string(sev)] = n
	}
	for i, findings := range outcome.Summary.PerTurn {
		out := make([]findingPayload, len(findings))
		for j, f := range findings {
			out[j] = findingPayload{
				Category: string(f.Category),
				Label:    f.Label,
				Severity: string(f.Severity),
				Masked:   f.MaskedValue,
			}
		}
		p.PerTurn[i] = out
	}
	return p
}
