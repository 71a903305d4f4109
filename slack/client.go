// Package slack is the membership gateway: paginated member listing plus
// kick/invite/join actions across the configured credential tiers.
package slack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	log15 "github.com/inconshreveable/log15/v3"

	"channelblam/config"
)

const (
	defaultBaseURL = "https://slack.com/api"
	defaultEdgeURL = "https://edgeapi.slack.com"
)

// APIError is a non-ok response from the Slack API.
type APIError struct {
	Code string
}

func (e *APIError) Error() string {
	return "slack api error: " + e.Code
}

func isAPIError(err error, codes ...string) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, code := range codes {
		if apiErr.Code == code {
			return true
		}
	}
	return false
}

// Credential is one authentication context usable for moderation actions.
// Kicks require a privileged human-equivalent session in channels the bot
// cannot administer, so the acting identity is decoupled from the bot
// identity and tried in preference order.
type Credential struct {
	Name  string
	Token string
}

// Tier selects the acting identity for invites.
type Tier int

const (
	TierBot Tier = iota
	TierPersonal
)

type Client struct {
	httpc   *http.Client
	baseURL string
	edgeURL string

	botToken      string
	personalToken string
	kickCreds     []Credential

	xoxc   string
	cookie string

	log log15.Logger
}

func NewClient(cfg *config.Config) *Client {
	c := &Client{
		httpc:         http.DefaultClient,
		baseURL:       defaultBaseURL,
		edgeURL:       defaultEdgeURL,
		botToken:      cfg.SlackBotToken,
		personalToken: cfg.SlackPersonalToken,
		xoxc:          cfg.SlackXOXC,
		cookie:        cookieHeader(cfg),
		log:           log15.New("module", "slack"),
	}

	// Kick preference order: elevated user session, personal fallback, bot.
	if cfg.SlackUserToken != "" {
		c.kickCreds = append(c.kickCreds, Credential{Name: "user", Token: cfg.SlackUserToken})
	}
	if cfg.SlackPersonalToken != "" {
		c.kickCreds = append(c.kickCreds, Credential{Name: "personal", Token: cfg.SlackPersonalToken})
	}
	c.kickCreds = append(c.kickCreds, Credential{Name: "bot", Token: cfg.SlackBotToken})

	return c
}

func cookieHeader(cfg *config.Config) string {
	if cfg.SlackXOXD == "" {
		return ""
	}
	xoxd := strings.NewReplacer("%2F", "/", "%3D", "=").Replace(cfg.SlackXOXD)
	cookie := fmt.Sprintf("d=%s;", xoxd)
	if cfg.SlackXCookie != "" {
		cookie = fmt.Sprintf("%s x=%s;", cookie, cfg.SlackXCookie)
	}
	return cookie
}

type apiResponse struct {
	OK               bool     `json:"ok"`
	Error            string   `json:"error"`
	Members          []string `json:"members"`
	ResponseMetadata struct {
		NextCursor string `json:"next_cursor"`
	} `json:"response_metadata"`
	User *userInfo `json:"user"`
}

type userInfo struct {
	ID    string `json:"id"`
	IsBot bool   `json:"is_bot"`
}

func (c *Client) call(ctx context.Context, token, method string, params url.Values) (*apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/"+method, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", method, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	var decoded apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", method, err)
	}
	if !decoded.OK {
		return nil, &APIError{Code: decoded.Error}
	}
	return &decoded, nil
}
