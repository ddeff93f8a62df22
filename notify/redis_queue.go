package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	readyKey   = "hashira:outbox:ready"
	delayedKey = "hashira:outbox:delayed"

	popTimeout = time.Second
)

// RedisQueue keeps ready envelopes in a list and deferred ones in a sorted set
// scored by their due time, so pending mail survives restarts.
type RedisQueue struct {
	client *redis.Client
}

var _ Queue = (*RedisQueue)(nil)

func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client}
}

func (q *RedisQueue) Push(ctx context.Context, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}
	if err := q.client.LPush(ctx, readyKey, data).Err(); err != nil {
		return fmt.Errorf("failed to push envelope: %w", err)
	}
	return nil
}

func (q *RedisQueue) Pop(ctx context.Context) (Envelope, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Envelope{}, err
		}
		res, err := q.client.BRPop(ctx, popTimeout, readyKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if errors.Is(err, redis.ErrClosed) {
				return Envelope{}, ErrQueueClosed
			}
			if ctx.Err() != nil {
				return Envelope{}, ctx.Err()
			}
			return Envelope{}, fmt.Errorf("failed to pop envelope: %w", err)
		}
		// res is [key, value]
		var env Envelope
		if err := json.Unmarshal([]byte(res[1]), &env); err != nil {
			return Envelope{}, fmt.Errorf("failed to unmarshal envelope: %w", err)
		}
		return env, nil
	}
}

func (q *RedisQueue) Defer(ctx context.Context, env Envelope, at time.Time) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}
	err = q.client.ZAdd(ctx, delayedKey, redis.Z{Score: float64(at.UnixMilli()), Member: data}).Err()
	if err != nil {
		return fmt.Errorf("failed to defer envelope: %w", err)
	}
	return nil
}

// PromoteDue moves every deferred envelope due at or before now to the ready
// list. Concurrent promoters never move the same member twice because only
// the caller whose ZREM succeeds pushes it.
func (q *RedisQueue) PromoteDue(ctx context.Context, now time.Time) (int, error) {
	members, err := q.client.ZRangeByScore(ctx, delayedKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read deferred envelopes: %w", err)
	}

	moved := 0
	for _, member := range members {
		removed, err := q.client.ZRem(ctx, delayedKey, member).Result()
		if err != nil {
			return moved, fmt.Errorf("failed to claim deferred envelope: %w", err)
		}
		if removed == 0 {
			continue
		}
		if err := q.client.LPush(ctx, readyKey, member).Err(); err != nil {
			return moved, fmt.Errorf("failed to promote envelope: %w", err)
		}
		moved++
	}
	return moved, nil
}

func (q *RedisQueue) Len(ctx context.Context) (int, error) {
	ready, err := q.client.LLen(ctx, readyKey).Result()
	if err != nil {
		return 0, err
	}
	deferred, err := q.client.ZCard(ctx, delayedKey).Result()
	if err != nil {
		return 0, err
	}
	return int(ready + deferred), nil
}

func (q *RedisQueue) Close() error {
	return q.client.Close()
}
