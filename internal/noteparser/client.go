// Package noteparser calls the downstream note-parsing function that turns
// raw intake notes into structured fields. The caller treats it as
// fire-and-forget; results arrive out of band through the parser writing
// back to the appointment row.
package noteparser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"medportal_backend/platform/config"
	"medportal_backend/platform/logger"
)

type Client struct {
	httpClient *http.Client
	url        string
	apiKey     string
	enabled    bool
	log        *logger.Logger
}

func NewClient(cfg config.NoteParserConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		url:        cfg.GetNoteParserURL(),
		apiKey:     cfg.GetNoteParserAPIKey(),
		enabled:    cfg.IsNoteParserEnabled(),
		log:        log,
	}
}

type triggerRequest struct {
	Trigger       string `json:"trigger"`
	AppointmentID string `json:"appointment_id"`
}

// Trigger asks the parser to process an appointment's notes. The response
// body is ignored beyond the status code.
func (c *Client) Trigger(ctx context.Context, appointmentID string) error {
	if !c.enabled || c.url == "" {
		c.log.Debug("note parser disabled, skipping trigger",
			"appointment_id", appointmentID)
		return nil
	}

	body, err := json.Marshal(triggerRequest{
		Trigger:       "parse_notes",
		AppointmentID: appointmentID,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("note parser request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 512))

	if resp.StatusCode >= 300 {
		return fmt.Errorf("note parser returned status %d", resp.StatusCode)
	}
	return nil
}
