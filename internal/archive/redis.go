package archive

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quizwire/quizwire/internal/model"
)

func recordKey(code model.SessionCode) string {
	return "quizwire:record:" + string(code)
}

// RedisArchiver stores session records as JSON values with a TTL.
// A zero TTL keeps records until an external process reaps them.
type RedisArchiver struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisArchiver creates an archiver backed by the given client
func NewRedisArchiver(client *redis.Client, ttl time.Duration) *RedisArchiver {
	return &RedisArchiver{
		client: client,
		ttl:    ttl,
	}
}

// Ensure RedisArchiver implements the interface
var _ Archiver = (*RedisArchiver)(nil)

// Store writes the record keyed by session code
func (a *RedisArchiver) Store(ctx context.Context, record model.SessionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return a.client.Set(ctx, recordKey(record.Code), data, a.ttl).Err()
}

// Load reads back a stored record, for the reporting collaborator
func (a *RedisArchiver) Load(ctx context.Context, code model.SessionCode) (model.SessionRecord, error) {
	data, err := a.client.Get(ctx, recordKey(code)).Bytes()
	if err != nil {
		return model.SessionRecord{}, err
	}

	var record model.SessionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return model.SessionRecord{}, err
	}
	return record, nil
}
