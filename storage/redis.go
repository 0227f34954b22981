package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"memberpass.app/cloud/models"
)

// RedisStore keeps one JSON value per identity under
// "<namespace>:<identity_key>". Records carry their own expiry and are
// evaluated at read time, so no Redis TTL is set.
type RedisStore struct {
	client    *redis.Client
	namespace string
}

func NewRedisStore(ctx context.Context, url, namespace string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisStore{
		client:    client,
		namespace: namespace,
	}, nil
}

// NewRedisStoreWithClient wraps an existing client, for tests.
func NewRedisStoreWithClient(client *redis.Client, namespace string) *RedisStore {
	return &RedisStore{
		client:    client,
		namespace: namespace,
	}
}

func (s *RedisStore) key(identityKey string) string {
	return s.namespace + ":" + identityKey
}

func (s *RedisStore) SaveMembership(ctx context.Context, record *models.MembershipRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to serialize record: %w", err)
	}

	if err := s.client.Set(ctx, s.key(record.IdentityKey), payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to save membership: %w", err)
	}

	return nil
}

func (s *RedisStore) GetMembership(ctx context.Context, identityKey string) (*models.MembershipRecord, error) {
	payload, err := s.client.Get(ctx, s.key(identityKey)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read membership: %w", err)
	}

	var record models.MembershipRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, fmt.Errorf("failed to parse stored record: %w", err)
	}

	return &record, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
