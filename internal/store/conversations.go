package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/warrofua/mnemolog/internal/transcript"
)

// ArchivedConversation is one stored record.
type ArchivedConversation struct {
	ID               uuid.UUID         `json:"id"`
	Title            string            `json:"title"`
	Platform         string            `json:"platform"`
	Turns            []transcript.Turn `json:"turns"`
	ModelID          *string           `json:"model_id"`
	ModelDisplayName *string           `json:"model_display_name"`
	Confidence       string            `json:"attribution_confidence"`
	Source           string            `json:"attribution_source"`
	ConversationRef  *string           `json:"external_conversation_id"`
	PIIScanned       bool              `json:"pii_scanned"`
	PIIRedacted      bool              `json:"pii_redacted"`
	Visibility       string            `json:"visibility"`
	ShowAuthor       bool              `json:"show_author"`
	URL              string            `json:"url"`
	CreatedAt        time.Time         `json:"created_at"`
}

// SaveConversation inserts a record and returns its id and share URL.
func (s *Store) SaveConversation(ctx context.Context, rec *ArchivedConversation) (uuid.UUID, string, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	turnsJSON, err := json.Marshal(rec.Turns)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("marshal turns: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO archived_conversations
			(id, title, platform, turns, model_id, model_display_name,
			 attribution_confidence, attribution_source, external_conversation_id,
			 pii_scanned, pii_redacted, visibility, show_author, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now())`,
		rec.ID, rec.Title, rec.Platform, turnsJSON, rec.ModelID, rec.ModelDisplayName,
		rec.Confidence, rec.Source, rec.ConversationRef,
		rec.PIIScanned, rec.PIIRedacted, rec.Visibility, rec.ShowAuthor,
	)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("insert conversation: %w", err)
	}

	return rec.ID, s.ShareURL(rec.ID.String()), nil
}

// GetConversation fetches a stored record by id.
func (s *Store) GetConversation(ctx context.Context, id uuid.UUID) (*ArchivedConversation, error) {
	rec := &ArchivedConversation{ID: id}
	var turnsJSON []byte

	err := s.pool.QueryRow(ctx, `
		SELECT title, platform, turns, model_id, model_display_name,
		       attribution_confidence, attribution_source, external_conversation_id,
		       pii_scanned, pii_redacted, visibility, show_author, created_at
		FROM archived_conversations WHERE id = $1`,
		id,
	).Scan(
		&rec.Title, &rec.Platform, &turnsJSON, &rec.ModelID, &rec.ModelDisplayName,
		&rec.Confidence, &rec.Source, &rec.ConversationRef,
		&rec.PIIScanned, &rec.PIIRedacted, &rec.Visibility, &rec.ShowAuthor, &rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("select conversation: %w", err)
	}

	if err := json.Unmarshal(turnsJSON, &rec.Turns); err != nil {
		return nil, fmt.Errorf("unmarshal turns: %w", err)
	}
	rec.URL = s.ShareURL(rec.ID.String())

	return rec, nil
}
