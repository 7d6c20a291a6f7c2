package redisx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/go-course-market/internal/storage"
	"github.com/redis/go-redis/v9"
)

// Storage backs the durable slots with Redis strings. TTL 0 keeps keys
// forever, like browser local storage.
type Storage struct {
	RDB redis.Cmdable
	TTL time.Duration
}

func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	v, err := s.RDB.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", storage.ErrNotFound
	}
	return v, err
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	return s.RDB.Set(ctx, key, value, s.TTL).Err()
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	return s.RDB.Del(ctx, key).Err()
}

// ForDevice scopes a backend to one device's slots.
func ForDevice(s storage.Storage, deviceID string) storage.Storage {
	return storage.Namespace(s, fmt.Sprintf(KeyDeviceSlot, deviceID))
}
