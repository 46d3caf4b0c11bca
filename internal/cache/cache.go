// Package cache publishes match action records to Redis for the
// historian: every action is pushed onto a per-match list and announced
// on a pub/sub channel so external consumers can replay or audit a
// match without touching the live service.
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Rdb is the shared Redis client. Nil until InitRedis succeeds; callers
// must check before publishing.
var Rdb *redis.Client

// actionChannel is the pub/sub channel action announcements go out on.
const actionChannel = "match:actions"

// MatchActionRecord is one logged action or lifecycle event of a match,
// ordered by ActionIndex within the match.
type MatchActionRecord struct {
	MatchID       uuid.UUID              `json:"matchId"`
	ActionIndex   int                    `json:"actionIndex"`
	ActorSeat     int8                   `json:"actorSeat"` // -1 for match-level events
	ActionType    string                 `json:"actionType"`
	ActionPayload map[string]interface{} `json:"actionPayload,omitempty"`
	Timestamp     int64                  `json:"timestamp"` // unix milliseconds
}

// InitRedis connects the shared client and verifies the connection with
// a ping. An empty address leaves the historian disabled.
func InitRedis(ctx context.Context, addr string) error {
	if addr == "" {
		logrus.Info("cache: no REDIS_ADDR set, action history disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache: ping %s: %w", addr, err)
	}
	Rdb = client
	logrus.WithField("addr", addr).Info("cache: connected to redis")
	return nil
}

// matchActionsKey returns the per-match list key.
func matchActionsKey(matchID uuid.UUID) string {
	return fmt.Sprintf("match:%s:actions", matchID)
}

// PublishMatchAction appends the record to the match's action list and
// announces it on the actions channel.
func PublishMatchAction(ctx context.Context, rec MatchActionRecord) error {
	if Rdb == nil {
		return fmt.Errorf("cache: redis client not initialized")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("cache: marshal action %d for match %s: %w", rec.ActionIndex, rec.MatchID, err)
	}
	if err := Rdb.RPush(ctx, matchActionsKey(rec.MatchID), data).Err(); err != nil {
		return fmt.Errorf("cache: rpush action %d for match %s: %w", rec.ActionIndex, rec.MatchID, err)
	}
	if err := Rdb.Publish(ctx, actionChannel, data).Err(); err != nil {
		return fmt.Errorf("cache: publish action %d for match %s: %w", rec.ActionIndex, rec.MatchID, err)
	}
	return nil
}

// FetchMatchActions returns a match's full ordered action history.
func FetchMatchActions(ctx context.Context, matchID uuid.UUID) ([]MatchActionRecord, error) {
	if Rdb == nil {
		return nil, fmt.Errorf("cache: redis client not initialized")
	}
	raw, err := Rdb.LRange(ctx, matchActionsKey(matchID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("cache: lrange for match %s: %w", matchID, err)
	}
	records := make([]MatchActionRecord, 0, len(raw))
	for i, item := range raw {
		var rec MatchActionRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("cache: unmarshal action %d for match %s: %w", i, matchID, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
