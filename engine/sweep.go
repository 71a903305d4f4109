package engine

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"channelblam/idv"
)

// sweepConcurrency caps in-flight classification and oracle lookups so a
// sweep across hundreds of members cannot overwhelm the oracle.
const sweepConcurrency = 20

// Sweep re-evaluates current channel membership against targetLevel on the
// IDV axis only; blam entries are untouched. Admin, whitelisted users and
// bots are exempt. Dry runs perform the lookups but issue no gateway
// mutations; live runs kick each flagged member, with a single kick failure
// never aborting the rest. Returns the flagged user ids.
//
// A sweep runs to completion under the level it started with even if the
// policy changes mid-flight; last write wins at the store.
func (e *Engine) Sweep(ctx context.Context, channelID string, targetLevel int, live bool) ([]string, error) {
	members, err := e.gateway.ListMembers(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("Sweep: %w", err)
	}

	var (
		g       errgroup.Group
		mu      sync.Mutex
		flagged []string
	)
	g.SetLimit(sweepConcurrency)

	for _, member := range members {
		if member == e.adminID {
			continue
		}
		member := member
		g.Go(func() error {
			whitelisted, err := e.store.IsWhitelisted(ctx, channelID, member)
			if err != nil {
				e.log.Error("sweep whitelist check failed", "channel", channelID, "user", member, "err", err)
				return nil
			}
			if whitelisted {
				return nil
			}
			if e.classifier.IsBot(ctx, member) {
				return nil
			}
			if verdict := e.oracle.Verdict(ctx, member); !idv.MeetsLevel(verdict, targetLevel) {
				mu.Lock()
				flagged = append(flagged, member)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if live {
		for _, user := range flagged {
			e.gateway.Kick(ctx, channelID, user)
		}
		e.log.Info("sweep complete", "channel", channelID, "level", targetLevel,
			"members", len(members), "removed", len(flagged))
	}
	return flagged, nil
}
