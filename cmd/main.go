package main

import (
	"context"
	"net/http"
	"os"

	log15 "github.com/inconshreveable/log15/v3"
	"github.com/redis/go-redis/v9"

	"channelblam/api"
	"channelblam/botcheck"
	"channelblam/config"
	"channelblam/db"
	"channelblam/engine"
	"channelblam/idv"
	"channelblam/slack"
)

func main() {
	log := log15.New("module", "main")

	cfg, err := config.Load()
	if err != nil {
		log.Crit("failed to load config", "err", err)
		os.Exit(1)
	}

	store, err := db.Open(cfg)
	if err != nil {
		log.Crit("failed to open database", "err", err)
		os.Exit(1)
	}

	gateway := slack.NewClient(cfg)
	oracle := idv.NewClient(cfg.IDVEndpoint, verdictCache(cfg, log))
	classifier := botcheck.New(gateway)
	eng := engine.New(store, gateway, oracle, classifier, cfg.AdminID)
	handler := api.NewHandler(cfg, store, eng, gateway)

	router := SetupRouter(handler)

	log.Info("server running", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Crit("server failed", "err", err)
		os.Exit(1)
	}
}

// verdictCache picks redis when configured so verdicts survive restarts;
// otherwise a plain in-process TTL map.
func verdictCache(cfg *config.Config, log log15.Logger) idv.VerdictCache {
	if cfg.RedisURL == "" {
		return idv.NewMemoryCache(idv.DefaultCacheTTL)
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Crit("failed to parse redis url", "err", err)
		os.Exit(1)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Crit("redis connection failed", "err", err)
		os.Exit(1)
	}
	log.Info("redis connection established")
	return idv.NewRedisCache(client, idv.DefaultCacheTTL)
}
