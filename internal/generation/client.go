package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrTransport covers network failures and non-2xx statuses from the
// generation endpoint. Scenarios may recover from it with local fallbacks.
var ErrTransport = errors.New("generation transport failure")

// ErrMalformed means the endpoint answered but the payload was not the
// expected {"response": ...} shape. Never recovered with fabricated content.
var ErrMalformed = errors.New("generation response malformed")

// Client talks to the remote text-generation endpoint.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

type request struct {
	Prompt string `json:"prompt"`
}

type response struct {
	Response *string `json:"response"`
}

// Generate posts the prompt and returns the trimmed response text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(request{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d: %s", ErrTransport, resp.StatusCode, string(respBody))
	}

	var apiResp response
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if apiResp.Response == nil {
		return "", fmt.Errorf("%w: missing response field", ErrMalformed)
	}

	return strings.TrimSpace(*apiResp.Response), nil
}
