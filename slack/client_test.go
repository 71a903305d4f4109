package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"channelblam/config"
)

func testClient(t *testing.T, cfg *config.Config, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient(cfg)
	c.baseURL = server.URL
	c.edgeURL = server.URL
	return c
}

func TestListMembersPaginates(t *testing.T) {
	pages := map[string]string{
		"":   `{"ok":true,"members":["U1","U2"],"response_metadata":{"next_cursor":"c2"}}`,
		"c2": `{"ok":true,"members":["U3","U4"],"response_metadata":{"next_cursor":"c3"}}`,
		"c3": `{"ok":true,"members":[],"response_metadata":{"next_cursor":"c4"}}`,
	}

	calls := 0
	c := testClient(t, &config.Config{SlackBotToken: "xoxb-test"}, func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "Bearer xoxb-test", r.Header.Get("Authorization"))
		body, ok := pages[r.FormValue("cursor")]
		require.True(t, ok, "unexpected cursor %q", r.FormValue("cursor"))
		fmt.Fprint(w, body)
	})

	members, err := c.ListMembers(context.Background(), "C1")
	require.NoError(t, err)

	// The trailing empty page terminates listing despite its cursor.
	assert.Equal(t, []string{"U1", "U2", "U3", "U4"}, members)
	assert.Equal(t, 3, calls)
}

func TestListMembersSinglePage(t *testing.T) {
	c := testClient(t, &config.Config{SlackBotToken: "xoxb-test"}, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":true,"members":["U1"],"response_metadata":{"next_cursor":""}}`)
	})

	members, err := c.ListMembers(context.Background(), "C1")
	require.NoError(t, err)
	assert.Equal(t, []string{"U1"}, members)
}

func TestListMembersAPIError(t *testing.T) {
	c := testClient(t, &config.Config{SlackBotToken: "xoxb-test"}, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":false,"error":"channel_not_found"}`)
	})

	_, err := c.ListMembers(context.Background(), "CNOPE")
	require.Error(t, err)
	assert.True(t, isAPIError(err, "channel_not_found"))
}

func TestKickFallsBackAcrossCredentials(t *testing.T) {
	cfg := &config.Config{
		SlackBotToken:      "xoxb-bot",
		SlackUserToken:     "xoxp-user",
		SlackPersonalToken: "xoxp-personal",
	}

	var tokens []string
	c := testClient(t, cfg, func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		tokens = append(tokens, token)
		if token == "xoxp-user" {
			fmt.Fprint(w, `{"ok":false,"error":"invalid_auth"}`)
			return
		}
		fmt.Fprint(w, `{"ok":true}`)
	})

	c.Kick(context.Background(), "C1", "U1")
	assert.Equal(t, []string{"xoxp-user", "xoxp-personal"}, tokens)
}

func TestKickAlreadyGoneStopsFallback(t *testing.T) {
	cfg := &config.Config{
		SlackBotToken:      "xoxb-bot",
		SlackPersonalToken: "xoxp-personal",
	}

	calls := 0
	c := testClient(t, cfg, func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"ok":false,"error":"not_in_channel"}`)
	})

	c.Kick(context.Background(), "C1", "U1")
	assert.Equal(t, 1, calls)
}

func TestKickSwallowsTotalFailure(t *testing.T) {
	calls := 0
	c := testClient(t, &config.Config{SlackBotToken: "xoxb-bot"}, func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"ok":false,"error":"restricted_action"}`)
	})

	// Must not panic or propagate; just exhausts the tier list.
	c.Kick(context.Background(), "C1", "U1")
	assert.Equal(t, 1, calls)
}

func TestInviteAlreadyInChannelIsSuccess(t *testing.T) {
	c := testClient(t, &config.Config{SlackBotToken: "xoxb-bot"}, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":false,"error":"already_in_channel"}`)
	})

	assert.NoError(t, c.Invite(context.Background(), "C1", "U1", TierBot))
}

func TestInvitePicksPersonalTier(t *testing.T) {
	cfg := &config.Config{
		SlackBotToken:      "xoxb-bot",
		SlackPersonalToken: "xoxp-personal",
	}

	var token string
	c := testClient(t, cfg, func(w http.ResponseWriter, r *http.Request) {
		token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		fmt.Fprint(w, `{"ok":true}`)
	})

	require.NoError(t, c.Invite(context.Background(), "C1", "U1", TierPersonal))
	assert.Equal(t, "xoxp-personal", token)
}

func TestJoinChannelSwallowsUnsupportedType(t *testing.T) {
	c := testClient(t, &config.Config{SlackBotToken: "xoxb-bot"}, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":false,"error":"method_not_supported_for_channel_type"}`)
	})

	assert.NoError(t, c.JoinChannel(context.Background(), "G1"))
}

func TestJoinChannelPropagatesOtherErrors(t *testing.T) {
	c := testClient(t, &config.Config{SlackBotToken: "xoxb-bot"}, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":false,"error":"is_archived"}`)
	})

	assert.Error(t, c.JoinChannel(context.Background(), "C1"))
}

func TestSendResponse(t *testing.T) {
	var payload map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
	}))
	t.Cleanup(server.Close)

	c := NewClient(&config.Config{SlackBotToken: "xoxb-bot"})
	require.NoError(t, c.SendResponse(context.Background(), server.URL, "Blammed <@U123ABC> in this channel."))

	assert.Equal(t, "ephemeral", payload["response_type"])
	assert.Equal(t, "Blammed <@U123ABC> in this channel.", payload["text"])
}

func TestUserIsBot(t *testing.T) {
	c := testClient(t, &config.Config{SlackBotToken: "xoxb-bot"}, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "UBOT", r.FormValue("user"))
		fmt.Fprint(w, `{"ok":true,"user":{"id":"UBOT","is_bot":true}}`)
	})

	isBot, err := c.UserIsBot(context.Background(), "UBOT")
	require.NoError(t, err)
	assert.True(t, isBot)
}

func TestEdgeUserIsBotRequiresCookieSession(t *testing.T) {
	c := NewClient(&config.Config{SlackBotToken: "xoxb-bot"})
	_, err := c.EdgeUserIsBot(context.Background(), "U1")
	assert.Error(t, err)
}

func TestEdgeUserIsBot(t *testing.T) {
	cfg := &config.Config{
		SlackBotToken: "xoxb-bot",
		SlackXOXC:     "xoxc-token",
		SlackXOXD:     "xoxd%2Fvalue%3D",
	}

	c := testClient(t, cfg, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Cookie"), "d=xoxd/value=;")
		fmt.Fprint(w, `{"ok":true,"results":[{"id":"U1","is_bot":false},{"id":"U2","is_bot":true}]}`)
	})

	isBot, err := c.EdgeUserIsBot(context.Background(), "U2")
	require.NoError(t, err)
	assert.True(t, isBot)
}
