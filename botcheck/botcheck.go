// Package botcheck classifies user ids as bot or human. Results are
// memoized for the process lifetime; bot status is stable enough that the
// sets never expire.
package botcheck

import (
	"context"
	"sync"

	log15 "github.com/inconshreveable/log15/v3"
)

// ProfileSource resolves the bot flag for a user. The edge path rides the
// cookie session and is preferred; the standard path is the fallback.
type ProfileSource interface {
	EdgeUserIsBot(ctx context.Context, userID string) (bool, error)
	UserIsBot(ctx context.Context, userID string) (bool, error)
}

type Classifier struct {
	profiles ProfileSource
	log      log15.Logger

	mu          sync.Mutex
	knownBots   map[string]struct{}
	knownHumans map[string]struct{}
}

func New(profiles ProfileSource) *Classifier {
	return &Classifier{
		profiles:    profiles,
		log:         log15.New("module", "botcheck"),
		knownBots:   make(map[string]struct{}),
		knownHumans: make(map[string]struct{}),
	}
}

// IsBot reports whether the user is an automated account. When both lookup
// paths fail the user is treated as human so enforcement is never silently
// skipped; the failure is not memoized and the next call retries.
func (c *Classifier) IsBot(ctx context.Context, userID string) bool {
	c.mu.Lock()
	if _, ok := c.knownBots[userID]; ok {
		c.mu.Unlock()
		return true
	}
	if _, ok := c.knownHumans[userID]; ok {
		c.mu.Unlock()
		return false
	}
	c.mu.Unlock()

	isBot, err := c.profiles.EdgeUserIsBot(ctx, userID)
	if err != nil {
		isBot, err = c.profiles.UserIsBot(ctx, userID)
	}
	if err != nil {
		c.log.Error("bot classification failed, treating as human", "user", userID, "err", err)
		return false
	}

	c.mu.Lock()
	if isBot {
		c.knownBots[userID] = struct{}{}
	} else {
		c.knownHumans[userID] = struct{}{}
	}
	c.mu.Unlock()
	return isBot
}
