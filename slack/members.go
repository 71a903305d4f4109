package slack

import (
	"context"
	"fmt"
	"net/url"
)

const membersPageSize = "1000"

// ListMembers enumerates every member of the channel, following pagination
// cursors until exhausted. An empty page terminates the loop even if a
// cursor is still present, so malformed pagination cannot spin forever.
func (c *Client) ListMembers(ctx context.Context, channelID string) ([]string, error) {
	var members []string
	cursor := ""
	for {
		params := url.Values{}
		params.Set("channel", channelID)
		params.Set("limit", membersPageSize)
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		resp, err := c.call(ctx, c.botToken, "conversations.members", params)
		if err != nil {
			return nil, fmt.Errorf("ListMembers: %w", err)
		}

		members = append(members, resp.Members...)

		cursor = resp.ResponseMetadata.NextCursor
		if cursor == "" || len(resp.Members) == 0 {
			break
		}
	}
	return members, nil
}
