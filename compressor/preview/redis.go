package preview

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"imageCompressor/compressor/models"
)

const (
	keyPrefix  = "compressor:"
	DefaultTTL = 10 * time.Minute
)

// RedisStore keeps artifacts as hashes that expire after ttl even if
// they are never revoked.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func ConnectRedis(addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     "",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		PoolTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Create(ctx context.Context, artifact Artifact) (models.PreviewHandle, error) {
	handle := newHandle()
	key := redisKey(handle)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			"name", artifact.Name,
			"media_type", artifact.MediaType,
			"data", artifact.Data,
		)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to store preview: %w", err)
	}

	return handle, nil
}

func (s *RedisStore) Open(ctx context.Context, handle models.PreviewHandle) (*Artifact, error) {
	fields, err := s.client.HGetAll(ctx, redisKey(handle)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load preview: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrHandleNotFound
	}

	return &Artifact{
		Name:      fields["name"],
		MediaType: fields["media_type"],
		Data:      []byte(fields["data"]),
	}, nil
}

func (s *RedisStore) Revoke(ctx context.Context, handle models.PreviewHandle) error {
	n, err := s.client.Del(ctx, redisKey(handle)).Result()
	if err != nil {
		return fmt.Errorf("failed to revoke preview: %w", err)
	}
	if n == 0 {
		return ErrHandleNotFound
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func redisKey(handle models.PreviewHandle) string {
	return keyPrefix + string(handle)
}
