package api

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"slices"
	"strings"

	"channelblam/idv"
)

var userIDRe = regexp.MustCompile(`^[UW][A-Z0-9]{2,}$`)

// parseMention extracts the user id from a Slack mention token like
// <@U123ABC> or <@U123ABC|display-name>. Returns "" when the token is not a
// valid mention.
func parseMention(token string) string {
	if !strings.HasPrefix(token, "<@") || !strings.HasSuffix(token, ">") {
		return ""
	}
	inner := token[2 : len(token)-1]
	userID, _, _ := strings.Cut(inner, "|")
	if !userIDRe.MatchString(userID) {
		return ""
	}
	return userID
}

// HandleSlashCommand acks the /blam command immediately and does the work in
// the background; Slack expects an answer within three seconds and a full
// membership scan can take longer. Results go back through response_url.
func (h *Handler) HandleSlashCommand(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Unable to parse command payload", http.StatusBadRequest)
		return
	}

	cmd := slashCommand{
		ChannelID:   r.FormValue("channel_id"),
		UserID:      r.FormValue("user_id"),
		Text:        r.FormValue("text"),
		ResponseURL: r.FormValue("response_url"),
	}

	go h.runCommand(context.Background(), cmd)
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) runCommand(ctx context.Context, cmd slashCommand) {
	if cmd.ChannelID == "" {
		h.respond(ctx, cmd, noChannelMessage)
		return
	}

	if !h.authorized(ctx, cmd) {
		h.respond(ctx, cmd, notAuthorizedMessage)
		h.log.Info("unauthorized command attempt", "channel", cmd.ChannelID, "user", cmd.UserID)
		return
	}

	tokens := strings.Fields(cmd.Text)
	if len(tokens) == 0 {
		h.respond(ctx, cmd, usageMessage)
		return
	}

	// Public channels the bot has not joined yet reject moderation calls.
	if strings.HasPrefix(cmd.ChannelID, "C") {
		if err := h.gateway.JoinChannel(ctx, cmd.ChannelID); err != nil {
			h.log.Warn("failed to join channel", "channel", cmd.ChannelID, "err", err)
			h.respond(ctx, cmd, "Error joining channel.")
			return
		}
	}

	switch strings.ToLower(tokens[0]) {
	case "list":
		h.handleList(ctx, cmd)
	case "help":
		h.respond(ctx, cmd, usageMessage)
	case "idv":
		h.handleIDV(ctx, cmd, tokens[1:])
	case "whitelist":
		h.handleWhitelist(ctx, cmd, tokens[1:])
	case "remove":
		h.handleUnblam(ctx, cmd, tokens[1:])
	case "add":
		h.handleBlam(ctx, cmd, tokens[1:])
	default:
		h.handleBlam(ctx, cmd, tokens)
	}
}

// authorized allows the admin anywhere and channel members in their own
// channel, resolved by a full membership scan.
func (h *Handler) authorized(ctx context.Context, cmd slashCommand) bool {
	if cmd.UserID == h.cfg.AdminID {
		return true
	}
	members, err := h.gateway.ListMembers(ctx, cmd.ChannelID)
	if err != nil {
		h.log.Error("failed to fetch channel members", "channel", cmd.ChannelID, "err", err)
		return false
	}
	return slices.Contains(members, cmd.UserID)
}

func (h *Handler) handleList(ctx context.Context, cmd slashCommand) {
	blammed, err := h.store.ListBlammed(ctx, cmd.ChannelID)
	if err != nil {
		h.log.Error("failed to list blammed", "channel", cmd.ChannelID, "err", err)
		h.respond(ctx, cmd, "Error listing blammed users.")
		return
	}
	if len(blammed) == 0 {
		h.respond(ctx, cmd, "No one is blammed in this channel.")
		return
	}

	mentions := make([]string, 0, len(blammed))
	for _, userID := range blammed {
		mentions = append(mentions, fmt.Sprintf("<@%s>", userID))
	}
	h.respond(ctx, cmd, "Blammed users: "+strings.Join(mentions, ", "))
}

func (h *Handler) handleBlam(ctx context.Context, cmd slashCommand, args []string) {
	if len(args) == 0 {
		h.respond(ctx, cmd, mentionUserMessage)
		return
	}
	target := parseMention(args[0])
	if target == "" {
		h.respond(ctx, cmd, mentionUserMessage)
		return
	}

	if err := h.store.AddBlam(ctx, cmd.ChannelID, target, cmd.UserID); err != nil {
		h.log.Error("failed to blam", "channel", cmd.ChannelID, "user", target, "err", err)
		h.respond(ctx, cmd, "Error blamming.")
		return
	}
	if err := h.store.SetManager(ctx, cmd.ChannelID, cmd.UserID); err != nil {
		h.log.Error("failed to record manager attribution", "channel", cmd.ChannelID, "err", err)
	}

	remove, err := h.engine.ShouldRemove(ctx, cmd.ChannelID, target)
	if err != nil {
		h.log.Error("failed to evaluate blam target", "channel", cmd.ChannelID, "user", target, "err", err)
		h.respond(ctx, cmd, "Error blamming.")
		return
	}
	if remove {
		h.gateway.Kick(ctx, cmd.ChannelID, target)
	}

	h.log.Info("blammed user", "channel", cmd.ChannelID, "user", target, "actor", cmd.UserID)
	h.respond(ctx, cmd, fmt.Sprintf("Blammed <@%s> in this channel.", target))
}

func (h *Handler) handleUnblam(ctx context.Context, cmd slashCommand, args []string) {
	if len(args) == 0 {
		h.respond(ctx, cmd, mentionUserMessage)
		return
	}
	target := parseMention(args[0])
	if target == "" {
		h.respond(ctx, cmd, mentionUserMessage)
		return
	}

	if err := h.store.RemoveBlam(ctx, cmd.ChannelID, target); err != nil {
		h.log.Error("failed to remove blam", "channel", cmd.ChannelID, "user", target, "err", err)
		h.respond(ctx, cmd, "Error removing blam.")
		return
	}
	h.log.Info("unblammed user", "channel", cmd.ChannelID, "user", target, "actor", cmd.UserID)
	h.respond(ctx, cmd, fmt.Sprintf("Unblammed <@%s> in this channel.", target))
}

func parseLevel(arg string) (int, bool) {
	switch strings.ToLower(arg) {
	case "off":
		return idv.LevelOff, true
	case "required":
		return idv.LevelRequired, true
	case "under18":
		return idv.LevelUnder18, true
	default:
		return 0, false
	}
}

func levelName(level int) string {
	switch level {
	case idv.LevelRequired:
		return "required"
	case idv.LevelUnder18:
		return "under18"
	default:
		return "off"
	}
}

func (h *Handler) handleIDV(ctx context.Context, cmd slashCommand, args []string) {
	if len(args) == 0 {
		h.respond(ctx, cmd, idvUsageMessage)
		return
	}
	if strings.ToLower(args[0]) == "test" {
		h.handleIDVTest(ctx, cmd, args[1:])
		return
	}

	level, ok := parseLevel(args[0])
	if !ok {
		h.respond(ctx, cmd, idvUsageMessage)
		return
	}

	old, err := h.store.GetIDVRequiredLevel(ctx, cmd.ChannelID)
	if err != nil {
		h.log.Error("failed to read idv level", "channel", cmd.ChannelID, "err", err)
		h.respond(ctx, cmd, "Error updating IDV requirement.")
		return
	}
	if old == level {
		h.respond(ctx, cmd, fmt.Sprintf("IDV requirement is already set to %s.", levelName(level)))
		return
	}

	if err := h.store.SetIDVRequiredLevel(ctx, cmd.ChannelID, level); err != nil {
		h.log.Error("failed to set idv level", "channel", cmd.ChannelID, "err", err)
		h.respond(ctx, cmd, "Error updating IDV requirement.")
		return
	}
	h.log.Info("idv level changed", "channel", cmd.ChannelID, "from", old, "to", level, "actor", cmd.UserID)
	h.respond(ctx, cmd, fmt.Sprintf("IDV requirement set to %s.", levelName(level)))

	// Turning enforcement on sweeps current membership exactly once.
	// Changing between nonzero levels, or turning it off, never acts
	// retroactively.
	if old == idv.LevelOff && level > idv.LevelOff {
		flagged, err := h.engine.Sweep(ctx, cmd.ChannelID, level, true)
		if err != nil {
			h.log.Error("idv sweep failed", "channel", cmd.ChannelID, "err", err)
			h.respond(ctx, cmd, "Error sweeping current members.")
			return
		}
		h.respond(ctx, cmd, fmt.Sprintf("Removed %d unverified members.", len(flagged)))
	}
}

func (h *Handler) handleIDVTest(ctx context.Context, cmd slashCommand, args []string) {
	level := idv.LevelRequired
	if len(args) > 0 {
		parsed, ok := parseLevel(args[0])
		if !ok || parsed == idv.LevelOff {
			h.respond(ctx, cmd, idvUsageMessage)
			return
		}
		level = parsed
	}

	flagged, err := h.engine.Sweep(ctx, cmd.ChannelID, level, false)
	if err != nil {
		h.log.Error("idv test sweep failed", "channel", cmd.ChannelID, "err", err)
		h.respond(ctx, cmd, "Error checking current members.")
		return
	}
	h.respond(ctx, cmd, fmt.Sprintf("%d members would be removed at IDV level %s.",
		len(flagged), levelName(level)))
}

func (h *Handler) handleWhitelist(ctx context.Context, cmd slashCommand, args []string) {
	if len(args) == 0 {
		h.respond(ctx, cmd, whitelistUsageMessage)
		return
	}

	switch strings.ToLower(args[0]) {
	case "remove":
		if len(args) < 2 {
			h.respond(ctx, cmd, mentionUserMessage)
			return
		}
		target := parseMention(args[1])
		if target == "" {
			h.respond(ctx, cmd, mentionUserMessage)
			return
		}
		if err := h.store.RemoveWhitelist(ctx, cmd.ChannelID, target); err != nil {
			h.log.Error("failed to remove whitelist", "channel", cmd.ChannelID, "user", target, "err", err)
			h.respond(ctx, cmd, "Error updating whitelist.")
			return
		}
		h.respond(ctx, cmd, fmt.Sprintf("Removed <@%s> from the whitelist in this channel.", target))

	case "channel":
		members, err := h.gateway.ListMembers(ctx, cmd.ChannelID)
		if err != nil {
			h.log.Error("failed to fetch channel members", "channel", cmd.ChannelID, "err", err)
			h.respond(ctx, cmd, "Error updating whitelist.")
			return
		}
		count := 0
		for _, member := range members {
			if err := h.whitelistUser(ctx, cmd.ChannelID, member); err != nil {
				h.log.Error("failed to whitelist member", "channel", cmd.ChannelID, "user", member, "err", err)
				continue
			}
			count++
		}
		h.respond(ctx, cmd, fmt.Sprintf("Whitelisted %d members in this channel.", count))

	default:
		target := parseMention(args[0])
		if target == "" {
			h.respond(ctx, cmd, whitelistUsageMessage)
			return
		}
		if err := h.whitelistUser(ctx, cmd.ChannelID, target); err != nil {
			h.log.Error("failed to whitelist", "channel", cmd.ChannelID, "user", target, "err", err)
			h.respond(ctx, cmd, "Error updating whitelist.")
			return
		}
		h.respond(ctx, cmd, fmt.Sprintf("Whitelisted <@%s> in this channel.", target))
	}
}

// whitelistUser adds the exemption and clears any blam entry; the two are
// mutually exclusive by convention.
func (h *Handler) whitelistUser(ctx context.Context, channelID, userID string) error {
	if err := h.store.AddWhitelist(ctx, channelID, userID); err != nil {
		return err
	}
	return h.store.RemoveBlam(ctx, channelID, userID)
}
