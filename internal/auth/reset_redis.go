package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const resetKeyPrefix = "reset-token:"

// RedisTokenStore keeps reset tokens in Redis with native TTL expiry.
// Selected at startup when REDIS_ADDR is configured.
type RedisTokenStore struct {
	rdb *redis.Client
}

func NewRedisTokenStore(addr string) *RedisTokenStore {
	return &RedisTokenStore{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

func (s *RedisTokenStore) Set(ctx context.Context, token string, userID primitive.ObjectID, ttl time.Duration) error {
	return s.rdb.Set(ctx, resetKeyPrefix+token, userID.Hex(), ttl).Err()
}

func (s *RedisTokenStore) Get(ctx context.Context, token string) (primitive.ObjectID, error) {
	v, err := s.rdb.Get(ctx, resetKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return primitive.NilObjectID, ErrTokenNotFound
	}
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, err := primitive.ObjectIDFromHex(v)
	if err != nil {
		return primitive.NilObjectID, ErrTokenNotFound
	}
	return id, nil
}

func (s *RedisTokenStore) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, resetKeyPrefix+token).Err()
}

func (s *RedisTokenStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
