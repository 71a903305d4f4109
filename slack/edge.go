package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// UserIsBot looks up a user's bot flag through the standard users.info API.
func (c *Client) UserIsBot(ctx context.Context, userID string) (bool, error) {
	params := url.Values{}
	params.Set("user", userID)

	resp, err := c.call(ctx, c.botToken, "users.info", params)
	if err != nil {
		return false, fmt.Errorf("UserIsBot: %w", err)
	}
	if resp.User == nil {
		return false, errors.New("UserIsBot: users.info returned no user")
	}
	return resp.User.IsBot, nil
}

// EdgeUserIsBot resolves the bot flag via the cookie-session edge cache API,
// which is faster and not subject to the bot token's rate bucket. Requires
// SLACK_XOXC and SLACK_XOXD.
func (c *Client) EdgeUserIsBot(ctx context.Context, userID string) (bool, error) {
	if c.xoxc == "" || c.cookie == "" {
		return false, errors.New("EdgeUserIsBot: cookie session not configured")
	}

	payload := map[string]any{
		"token":             c.xoxc,
		"check_interaction": true,
		"updated_ids":       map[string]int{userID: 0},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("EdgeUserIsBot: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.edgeURL+"/cache/users/info", bytes.NewBuffer(body))
	if err != nil {
		return false, fmt.Errorf("EdgeUserIsBot: build request: %w", err)
	}
	c.setEdgeHeaders(req)
	req.Header.Set("Content-Type", "application/json;charset=UTF-8")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return false, fmt.Errorf("EdgeUserIsBot: %w", err)
	}
	defer resp.Body.Close()

	var decoded struct {
		OK      bool       `json:"ok"`
		Error   string     `json:"error"`
		Results []userInfo `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return false, fmt.Errorf("EdgeUserIsBot: decode response: %w", err)
	}
	if decoded.Error != "" {
		return false, &APIError{Code: decoded.Error}
	}
	for _, user := range decoded.Results {
		if user.ID == userID {
			return user.IsBot, nil
		}
	}
	return false, fmt.Errorf("EdgeUserIsBot: user %s not in edge results", userID)
}

func (c *Client) setEdgeHeaders(req *http.Request) {
	req.Header.Set("Cookie", c.cookie)
	req.Header.Set("Origin", "https://app.slack.com")
	req.Header.Set("Referer", "https://app.slack.com/client")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/143.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "*/*")
}
