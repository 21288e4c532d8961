// Package ner adapts the external entity-recognition collaborator. The core
// only consumes geopolitical and person/organization/location spans.
package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Entity labels the core cares about. Everything else is ignored.
const (
	LabelGPE    = "GPE"
	LabelPerson = "PERSON"
	LabelOrg    = "ORG"
	LabelLoc    = "LOC"
)

// Entity is one recognized span.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Recognizer yields entities for a piece of text.
type Recognizer interface {
	Entities(ctx context.Context, text string) ([]Entity, error)
}

// Client is the HTTP-backed recognizer.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type nerRequest struct {
	Text string `json:"text"`
}

type nerResponse struct {
	Entities []Entity `json:"entities"`
}

func (c *Client) Entities(ctx context.Context, text string) ([]Entity, error) {
	body, err := json.Marshal(nerRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/entities", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ner call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ner error %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp nerResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return apiResp.Entities, nil
}

// FilterLabels returns the entities whose label is in the given set,
// preserving order.
func FilterLabels(entities []Entity, labels ...string) []Entity {
	want := make(map[string]bool, len(labels))
	for _, l := range labels {
		want[l] = true
	}
	var out []Entity
	for _, e := range entities {
		if want[e.Label] {
			out = append(out, e)
		}
	}
	return out
}
