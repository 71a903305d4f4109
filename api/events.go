package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"channelblam/slack"
)

// HandleEvents receives the Slack Events API callbacks. Work happens in the
// background so retries from Slack's three-second delivery window never pile
// up behind a membership scan.
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Unable to read request body", http.StatusBadRequest)
		return
	}

	var verification urlVerification
	if err := json.Unmarshal(body, &verification); err == nil && verification.Type == "url_verification" {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(verification.Challenge))
		return
	}

	var event eventCallback
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "Invalid Slack event format", http.StatusBadRequest)
		return
	}

	switch event.Event.Type {
	case "member_joined_channel":
		go h.handleMemberJoined(context.Background(), event)
	case "member_left_channel":
		go h.handleMemberLeft(context.Background(), event)
	}

	w.WriteHeader(http.StatusOK)
}

// botUserID prefers the event's authorizations block; the configured id is
// the fallback for payloads delivered without one.
func (h *Handler) botUserID(event eventCallback) string {
	if len(event.Authorizations) > 0 && event.Authorizations[0].UserID != "" {
		return event.Authorizations[0].UserID
	}
	return h.cfg.BotUserID
}

func (h *Handler) handleMemberJoined(ctx context.Context, event eventCallback) {
	userID := event.Event.User
	channelID := event.Event.Channel
	if userID == "" || channelID == "" {
		return
	}

	// The bot joining a channel is the moment to get the admin in as well:
	// kicks only stick while a trusted operator retains access.
	if userID == h.botUserID(event) {
		if err := h.gateway.Invite(ctx, channelID, h.cfg.AdminID, slack.TierBot); err != nil {
			h.log.Warn("failed to invite admin to channel", "channel", channelID, "err", err)
		}
		return
	}
	if userID == h.cfg.AdminID {
		return
	}

	remove, err := h.engine.ShouldRemove(ctx, channelID, userID)
	if err != nil {
		h.log.Error("failed to evaluate joining member", "channel", channelID, "user", userID, "err", err)
		return
	}
	if remove {
		h.gateway.Kick(ctx, channelID, userID)
		h.log.Info("kicked user on join", "channel", channelID, "user", userID)
	}
}

// handleMemberLeft guards the protected identities: a channel admin removing
// the bot or the operator would otherwise disable enforcement for good. The
// recognized channel manager (most recent blam actor) may do so without
// triggering a protective re-invite.
func (h *Handler) handleMemberLeft(ctx context.Context, event eventCallback) {
	userID := event.Event.User
	channelID := event.Event.Channel
	actor := event.Event.Actor

	botID := h.botUserID(event)
	if userID != botID && userID != h.cfg.AdminID {
		return
	}
	if actor == "" || actor == userID || actor == h.cfg.AdminID {
		return
	}

	manager, err := h.store.GetManager(ctx, channelID)
	if err != nil {
		h.log.Error("failed to read manager attribution", "channel", channelID, "err", err)
	}
	if actor == manager {
		return
	}

	tier := slack.TierBot
	if userID == botID {
		// The bot cannot re-invite itself; this needs a human credential.
		tier = slack.TierPersonal
	}
	if err := h.gateway.Invite(ctx, channelID, userID, tier); err != nil {
		h.log.Warn("failed to re-invite protected account", "channel", channelID, "user", userID, "err", err)
		return
	}
	h.log.Info("re-invited protected account", "channel", channelID, "user", userID, "actor", actor)
}
