package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quizwire/quizwire/internal/model"
)

func quizKey(id model.QuizID) string {
	return "quizwire:quiz:" + string(id)
}

// RedisCache is a read-through cache in front of another repository.
// Snapshots are cached with a TTL; a cache miss or unreadable entry
// falls back to the wrapped repository.
type RedisCache struct {
	client *redis.Client
	next   Repository
	ttl    time.Duration
}

// NewRedisCache creates a caching repository backed by the given client
func NewRedisCache(client *redis.Client, next Repository, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		next:   next,
		ttl:    ttl,
	}
}

// Ensure RedisCache implements the interface
var _ Repository = (*RedisCache)(nil)

// GetQuiz returns the cached snapshot, loading through on a miss
func (c *RedisCache) GetQuiz(ctx context.Context, id model.QuizID) (model.Quiz, error) {
	data, err := c.client.Get(ctx, quizKey(id)).Bytes()
	if err == nil {
		var quiz model.Quiz
		if unmarshalErr := json.Unmarshal(data, &quiz); unmarshalErr == nil {
			return quiz, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return model.Quiz{}, err
	}

	quiz, err := c.next.GetQuiz(ctx, id)
	if err != nil {
		return model.Quiz{}, err
	}

	if data, err := json.Marshal(quiz); err == nil {
		// Cache population is best effort; the loader result stands.
		_ = c.client.Set(ctx, quizKey(id), data, c.ttl).Err()
	}
	return quiz, nil
}
