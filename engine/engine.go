// Package engine decides whether a user may remain in a channel and drives
// bulk re-evaluation when a channel's IDV requirement changes.
package engine

import (
	"context"

	log15 "github.com/inconshreveable/log15/v3"

	"channelblam/idv"
)

// Store is the slice of the policy store the engine reads.
type Store interface {
	IsBlammed(ctx context.Context, channelID, userID string) (bool, error)
	IsWhitelisted(ctx context.Context, channelID, userID string) (bool, error)
	GetIDVRequiredLevel(ctx context.Context, channelID string) (int, error)
}

// Gateway is the membership surface the engine enumerates and acts on.
type Gateway interface {
	ListMembers(ctx context.Context, channelID string) ([]string, error)
	Kick(ctx context.Context, channelID, userID string)
}

// Oracle resolves identity verdicts; failures resolve to not-eligible
// inside the client, so there is no error to handle here.
type Oracle interface {
	Verdict(ctx context.Context, userID string) idv.Verdict
}

// Classifier reports whether a user id is an automated account.
type Classifier interface {
	IsBot(ctx context.Context, userID string) bool
}

type Engine struct {
	store      Store
	gateway    Gateway
	oracle     Oracle
	classifier Classifier
	adminID    string
	log        log15.Logger
}

func New(store Store, gateway Gateway, oracle Oracle, classifier Classifier, adminID string) *Engine {
	return &Engine{
		store:      store,
		gateway:    gateway,
		oracle:     oracle,
		classifier: classifier,
		adminID:    adminID,
		log:        log15.New("module", "engine"),
	}
}

// ShouldRemove is the single-user verdict. Blam membership and an IDV
// shortfall are independent removal causes; the whitelist and the admin id
// override both. Store read errors propagate to the caller.
func (e *Engine) ShouldRemove(ctx context.Context, channelID, userID string) (bool, error) {
	if userID == e.adminID {
		return false, nil
	}

	whitelisted, err := e.store.IsWhitelisted(ctx, channelID, userID)
	if err != nil {
		return false, err
	}
	if whitelisted {
		return false, nil
	}

	blammed, err := e.store.IsBlammed(ctx, channelID, userID)
	if err != nil {
		return false, err
	}
	if blammed {
		return true, nil
	}

	level, err := e.store.GetIDVRequiredLevel(ctx, channelID)
	if err != nil {
		return false, err
	}
	if level == idv.LevelOff {
		return false, nil
	}
	if e.classifier.IsBot(ctx, userID) {
		return false, nil
	}
	if !idv.MeetsLevel(e.oracle.Verdict(ctx, userID), level) {
		return true, nil
	}
	return false, nil
}
