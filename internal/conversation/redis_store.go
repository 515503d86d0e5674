package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/support-agent/internal/llm"
)

const keyPrefix = "conversation:"

// RedisStore keeps each customer's turns in a capped Redis list with a TTL.
type RedisStore struct {
	client      *redis.Client
	maxMessages int64
	ttl         time.Duration
}

// NewRedisStore builds a store. maxTurns counts user+assistant pairs; a zero
// ttl keeps history forever.
func NewRedisStore(client *redis.Client, maxTurns int, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, maxMessages: int64(maxTurns * 2), ttl: ttl}
}

// Load reads the stored turns oldest first.
func (s *RedisStore) Load(ctx context.Context, customerID string) ([]llm.Message, error) {
	raw, err := s.client.LRange(ctx, keyPrefix+customerID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	msgs := make([]llm.Message, 0, len(raw))
	for _, item := range raw {
		var m llm.Message
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("decode conversation turn: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// Append pushes turns, trims the list and refreshes the TTL in one pipeline.
func (s *RedisStore) Append(ctx context.Context, customerID string, turns ...llm.Message) error {
	if len(turns) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(turns))
	for _, t := range turns {
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("encode conversation turn: %w", err)
		}
		values = append(values, b)
	}

	key := keyPrefix + customerID
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		if s.maxMessages > 0 {
			pipe.LTrim(ctx, key, -s.maxMessages, -1)
		}
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("append conversation: %w", err)
	}
	return nil
}
