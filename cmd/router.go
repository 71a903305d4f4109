package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"channelblam/api"
)

func SetupRouter(h *api.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", h.HandleHealthCheck)

	r.Post("/slack/commands", h.HandleSlashCommand)
	r.Post("/slack/events", h.HandleEvents)

	return r
}
