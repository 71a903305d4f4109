// Package idv queries the external identity-verification oracle and caches
// verdicts per user id.
package idv

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	log15 "github.com/inconshreveable/log15/v3"
)

type Client struct {
	endpoint string
	http     *http.Client
	cache    VerdictCache
	log      log15.Logger
}

func NewClient(endpoint string, cache VerdictCache) *Client {
	return &Client{
		endpoint: endpoint,
		http:     http.DefaultClient,
		cache:    cache,
		log:      log15.New("module", "idv"),
	}
}

// Verdict resolves the verification status for a user, consulting the cache
// first. Lookup failures resolve to NotEligible: an access-control gate
// fails closed, and a flaky oracle must not crash the enclosing decision.
func (c *Client) Verdict(ctx context.Context, userID string) Verdict {
	if v, ok := c.cache.Get(ctx, userID); ok {
		return v
	}
	v := c.lookup(ctx, userID)
	c.cache.Put(ctx, userID, v)
	return v
}

func (c *Client) lookup(ctx context.Context, userID string) Verdict {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		c.log.Error("idv request build failed", "user", userID, "err", err)
		return NotEligible
	}
	q := url.Values{}
	q.Set("slack_id", userID)
	req.URL.RawQuery = q.Encode()

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("idv request failed", "user", userID, "err", err)
		return NotEligible
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Error("idv request failed", "user", userID, "status", resp.StatusCode)
		return NotEligible
	}

	var payload struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.log.Error("idv response decode failed", "user", userID, "err", err)
		return NotEligible
	}

	switch payload.Result {
	case "verified_eligible":
		return Eligible
	case "verified_but_over_18":
		return EligibleOver18
	default:
		return NotEligible
	}
}
