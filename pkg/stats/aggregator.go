// Package stats accumulates per-supply auction counters in Redis hashes.
//
// Each supply owns one hash keyed "stats:<supplyID>" with flat fields
// (total_reqs, country:<cc>, bidder:<id>:<metric>). Writes are plain
// HINCRBY/HINCRBYFLOAT increments, so concurrent auctions never lose
// updates; reads reassemble the flat fields into typed records. All
// operations are best effort: failures are logged, never propagated into
// the auction path.
package stats

import (
	"context"
	"strings"

	"exchange-backend/internal/models"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	keyPrefix      = "stats:"
	fieldTotalReqs = "total_reqs"
	countryPrefix  = "country:"
	bidderPrefix   = "bidder:"
)

// Aggregator records and reads back auction telemetry.
type Aggregator struct {
	client *redis.Client
}

// NewAggregator creates an aggregator over the shared Redis client.
func NewAggregator(client *redis.Client) *Aggregator {
	return &Aggregator{client: client}
}

func supplyKey(supplyID string) string {
	return keyPrefix + supplyID
}

// RecordRequest counts an incoming auction request for a supply, overall
// and per country. Called before any validation so failed auctions are
// still counted.
func (a *Aggregator) RecordRequest(ctx context.Context, supplyID, country string) {
	key := supplyKey(supplyID)

	_, err := a.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, key, fieldTotalReqs, 1)
		pipe.HIncrBy(ctx, key, countryPrefix+country, 1)
		return nil
	})
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"supply_id": supplyID,
			"country":   country,
		}).Error("Failed to record request statistics")
	}
}

// RecordAuctionResult folds one auction's outcomes into the supply's
// counters. An empty winnerID means no bids were received; the no-bid and
// timeout lists are counted either way. The increments are submitted as a
// single MULTI/EXEC group.
func (a *Aggregator) RecordAuctionResult(ctx context.Context, supplyID, winnerID string, price float64, noBidIDs, timeoutIDs []string) {
	key := supplyKey(supplyID)

	_, err := a.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if winnerID != "" {
			pipe.HIncrBy(ctx, key, bidderPrefix+winnerID+":wins", 1)
			pipe.HIncrByFloat(ctx, key, bidderPrefix+winnerID+":revenue", price)
		}
		for _, id := range noBidIDs {
			pipe.HIncrBy(ctx, key, bidderPrefix+id+":no_bids", 1)
		}
		for _, id := range timeoutIDs {
			pipe.HIncrBy(ctx, key, bidderPrefix+id+":timeouts", 1)
		}
		return nil
	})
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"supply_id": supplyID,
			"winner_id": winnerID,
		}).Error("Failed to record auction result statistics")
	}
}

// GetAll returns a point-in-time snapshot of every supply's record, or nil
// when no supply has ever recorded data. Each supply's record is read
// atomically via HGETALL; there is no cross-supply atomicity. Store errors
// are logged and yield nil.
func (a *Aggregator) GetAll(ctx context.Context) map[string]*models.SupplyStatistics {
	keys, err := a.scanKeys(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to scan statistics keys")
		return nil
	}
	if len(keys) == 0 {
		return nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(keys))
	_, err = a.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, key := range keys {
			cmds[i] = pipe.HGetAll(ctx, key)
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Error("Failed to read statistics hashes")
		return nil
	}

	out := make(map[string]*models.SupplyStatistics, len(keys))
	for i, key := range keys {
		fields, err := cmds[i].Result()
		if err != nil || len(fields) == 0 {
			continue
		}
		supplyID := strings.TrimPrefix(key, keyPrefix)
		out[supplyID] = parseSupplyHash(fields)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (a *Aggregator) scanKeys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := a.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	return keys, iter.Err()
}
