package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"riskscreen/internal/model"
)

// Client talks to the chat-transport relay over HTTP. The relay renders
// prompts with inline keyboards on the actual chat platform and echoes the
// option data back through the webhook when a button is tapped.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new transport gateway client
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type sendRequest struct {
	RespondentID string         `json:"respondentId"`
	Text         string         `json:"text"`
	Options      []model.Option `json:"options,omitempty"`
}

type sendResponse struct {
	PromptID string `json:"promptId"`
}

type retractRequest struct {
	RespondentID string `json:"respondentId"`
	PromptID     string `json:"promptId"`
}

// SendPrompt posts a prompt and returns the relay's prompt id
func (c *Client) SendPrompt(ctx context.Context, respondentID, text string, options []model.Option) (string, error) {
	var resp sendResponse
	err := c.post(ctx, "/v1/prompts", &sendRequest{
		RespondentID: respondentID,
		Text:         text,
		Options:      options,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.PromptID, nil
}

// RetractPrompt removes a previously posted prompt
func (c *Client) RetractPrompt(ctx context.Context, respondentID, promptID string) error {
	return c.post(ctx, "/v1/prompts/retract", &retractRequest{
		RespondentID: respondentID,
		PromptID:     promptID,
	}, nil)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("transport request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("transport returned %d for %s", resp.StatusCode, path)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
