// Package ghl provides the GoHighLevel REST client and the shared semantics
// of GHL custom fields: notes bucketing, insurance card extraction, and
// date-of-birth normalization.
package ghl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"medportal_backend/platform/config"
	"medportal_backend/platform/logger"
)

const defaultHTTPTimeout = 15 * time.Second

// Client handles authenticated requests against the GHL REST API.
// API keys are per-project bearer tokens resolved by the caller.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiVersion string
	log        *logger.Logger
}

// NewClient creates a new GHL API client.
func NewClient(cfg config.GHLConfig, log *logger.Logger) *Client {
	timeout := cfg.GetGHLTimeout()
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.GetGHLBaseURL(),
		apiVersion: cfg.GetGHLAPIVersion(),
		log:        log,
	}
}

// GetContact fetches the full contact profile by external contact id.
func (c *Client) GetContact(ctx context.Context, contactID, apiKey string) (*Contact, error) {
	var payload contactResponse
	endpoint := c.baseURL + "/contacts/" + url.PathEscape(contactID)
	if err := c.getJSON(ctx, endpoint, apiKey, &payload); err != nil {
		return nil, fmt.Errorf("ghl: fetch contact %s: %w", contactID, err)
	}
	return &payload.Contact, nil
}

// GetCustomFields fetches the custom-field-definition catalog for a location.
func (c *Client) GetCustomFields(ctx context.Context, locationID, apiKey string) ([]CustomFieldDefinition, error) {
	var payload customFieldsResponse
	endpoint := c.baseURL + "/locations/" + url.PathEscape(locationID) + "/customFields"
	if err := c.getJSON(ctx, endpoint, apiKey, &payload); err != nil {
		return nil, fmt.Errorf("ghl: fetch custom fields for location %s: %w", locationID, err)
	}
	return payload.CustomFields, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, apiKey string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Version", c.apiVersion)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
