package slack

import (
	"context"
	"net/url"
)

// Codes that mean the goal was already satisfied before we acted.
var (
	kickSatisfied   = []string{"not_in_channel", "user_not_in_channel", "user_not_found"}
	inviteSatisfied = []string{"already_in_channel"}
)

// Kick removes the user from the channel, trying each credential tier in
// order. "User not in channel" counts as success. Hard failures are logged
// as warnings and swallowed; callers must not assume removal succeeded.
func (c *Client) Kick(ctx context.Context, channelID, userID string) {
	params := url.Values{}
	params.Set("channel", channelID)
	params.Set("user", userID)

	for _, cred := range c.kickCreds {
		_, err := c.call(ctx, cred.Token, "conversations.kick", params)
		if err == nil {
			c.log.Info("kicked user", "channel", channelID, "user", userID, "credential", cred.Name)
			return
		}
		if isAPIError(err, kickSatisfied...) {
			return
		}
		c.log.Warn("kick failed", "channel", channelID, "user", userID,
			"credential", cred.Name, "err", err)
	}
	c.log.Warn("kick failed on all credentials", "channel", channelID, "user", userID)
}

// Invite re-admits a protected identity. "Already in channel" counts as
// success. Never used on the enforcement path.
func (c *Client) Invite(ctx context.Context, channelID, userID string, tier Tier) error {
	params := url.Values{}
	params.Set("channel", channelID)
	params.Set("users", userID)

	_, err := c.call(ctx, c.tierToken(tier), "conversations.invite", params)
	if err == nil || isAPIError(err, inviteSatisfied...) {
		return nil
	}
	return err
}

// JoinChannel is best-effort; private channels reject the call with a
// method-not-supported error, which is fine because the bot is already in
// any private channel it receives triggers for.
func (c *Client) JoinChannel(ctx context.Context, channelID string) error {
	params := url.Values{}
	params.Set("channel", channelID)

	_, err := c.call(ctx, c.botToken, "conversations.join", params)
	if err == nil || isAPIError(err, "method_not_supported_for_channel_type") {
		return nil
	}
	return err
}

func (c *Client) tierToken(tier Tier) string {
	if tier == TierPersonal && c.personalToken != "" {
		return c.personalToken
	}
	return c.botToken
}
