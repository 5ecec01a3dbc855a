package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Shivanand-hulikatti/flight-booking/internal/model"
)

// RedisMarkerStore keeps the token and the user under two keys, mirroring
// the cookie plus local-storage pair of the browser client.
type RedisMarkerStore struct {
	rdb      *redis.Client
	tokenKey string
	userKey  string
	ttl      time.Duration
}

// NewRedisMarkerStore constructs a RedisMarkerStore.
func NewRedisMarkerStore(rdb *redis.Client, clientID string, ttl time.Duration) *RedisMarkerStore {
	prefix := "session:" + clientID + ":"
	return &RedisMarkerStore{
		rdb:      rdb,
		tokenKey: prefix + "auth_token",
		userKey:  prefix + "user",
		ttl:      ttl,
	}
}

// Load returns the marker, or ErrNotFound unless both keys are present.
func (r *RedisMarkerStore) Load(ctx context.Context) (model.SessionMarker, error) {
	vals, err := r.rdb.MGet(ctx, r.tokenKey, r.userKey).Result()
	if err != nil {
		return model.SessionMarker{}, fmt.Errorf("load session marker: %w", err)
	}
	token, ok1 := vals[0].(string)
	user, ok2 := vals[1].(string)
	if !ok1 || !ok2 {
		return model.SessionMarker{}, ErrNotFound
	}
	return model.SessionMarker{Token: token, UserData: user}, nil
}

// Save writes both keys in one transaction.
func (r *RedisMarkerStore) Save(ctx context.Context, m model.SessionMarker) error {
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.tokenKey, m.Token, r.ttl)
		pipe.Set(ctx, r.userKey, m.UserData, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session marker: %w", err)
	}
	return nil
}

// Clear deletes both keys.
func (r *RedisMarkerStore) Clear(ctx context.Context) error {
	if err := r.rdb.Del(ctx, r.tokenKey, r.userKey).Err(); err != nil {
		return fmt.Errorf("clear session marker: %w", err)
	}
	return nil
}
