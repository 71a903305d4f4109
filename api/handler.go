// Package api maps inbound Slack triggers (slash commands, membership
// events) onto policy-store mutations, decision-engine verdicts and gateway
// actions.
package api

import (
	"context"
	"net/http"

	log15 "github.com/inconshreveable/log15/v3"

	"channelblam/config"
	"channelblam/db"
	"channelblam/engine"
	"channelblam/slack"
)

// Gateway is the slice of the Slack client the orchestrator drives.
type Gateway interface {
	ListMembers(ctx context.Context, channelID string) ([]string, error)
	Kick(ctx context.Context, channelID, userID string)
	Invite(ctx context.Context, channelID, userID string, tier slack.Tier) error
	JoinChannel(ctx context.Context, channelID string) error
	SendResponse(ctx context.Context, responseURL, text string) error
}

type Handler struct {
	cfg     *config.Config
	store   *db.Store
	engine  *engine.Engine
	gateway Gateway
	log     log15.Logger
}

func NewHandler(cfg *config.Config, store *db.Store, eng *engine.Engine, gateway Gateway) *Handler {
	return &Handler{
		cfg:     cfg,
		store:   store,
		engine:  eng,
		gateway: gateway,
		log:     log15.New("module", "api"),
	}
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (h *Handler) respond(ctx context.Context, cmd slashCommand, text string) {
	if err := h.gateway.SendResponse(ctx, cmd.ResponseURL, text); err != nil {
		h.log.Warn("failed to deliver command response", "channel", cmd.ChannelID, "err", err)
	}
}
