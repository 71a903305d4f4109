package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// SendResponse delivers an ephemeral reply to a slash command through its
// response_url.
func (c *Client) SendResponse(ctx context.Context, responseURL, text string) error {
	payload := map[string]string{
		"response_type": "ephemeral",
		"text":          text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("SendResponse: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, responseURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("SendResponse: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("SendResponse: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("SendResponse: response_url replied with status %s", resp.Status)
	}
	return nil
}
