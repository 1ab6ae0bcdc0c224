// Package events publishes archive lifecycle notifications over NATS so
// downstream consumers (feeds, indexing) learn about stored conversations.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	// SubjectArchived is published after a conversation is stored.
	SubjectArchived = "mnemolog.conversation.archived"
	// SubjectFindingsPending is published when a scan holds an archive
	// for a manual privacy decision.
	SubjectFindingsPending = "mnemolog.conversation.findings_pending"
)

// ArchivedEvent is the payload for SubjectArchived.
type ArchivedEvent struct {
	ConversationID string `json:"conversation_id"`
	Platform       string `json:"platform"`
	Title          string `json:"title"`
	TurnCount      int    `json:"turn_count"`
	PIIScanned     bool   `json:"pii_scanned"`
	PIIRedacted    bool   `json:"pii_redacted"`
	URL            string `json:"url"`
}

// FindingsPendingEvent is the payload for SubjectFindingsPending.
type FindingsPendingEvent struct {
	ArchiveID    string         `json:"archive_id"`
	Platform     string         `json:"platform"`
	FindingCount int            `json:"finding_count"`
	Counts       map[string]int `json:"counts_by_severity"`
}

type Client struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewClient(ctx context.Context, url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

func (c *Client) Close() {
	c.conn.Close()
}
