package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// Lock is a held distributed lock
type Lock interface {
	Release(ctx context.Context) error
}

// Locker hands out named locks that expire after ttl
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}

// RedisLocker takes locks in Redis so one replica runs a given job
type RedisLocker struct {
	client *redislock.Client
	prefix string
}

// NewRedisLocker creates a Locker backed by Redis
func NewRedisLocker(client redis.UniversalClient) *RedisLocker {
	return &RedisLocker{client: redislock.New(client), prefix: "feed:lock:"}
}

// Obtain tries once to take the lock; a held lock returns ErrLockNotObtained
func (l *RedisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error) {
	lock, err := l.client.Obtain(ctx, l.prefix+key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrLockNotObtained
	}
	if err != nil {
		return nil, err
	}
	return redisLock{lock}, nil
}

type redisLock struct {
	lock *redislock.Lock
}

func (l redisLock) Release(ctx context.Context) error {
	err := l.lock.Release(ctx)
	if errors.Is(err, redislock.ErrLockNotHeld) {
		// expired before the job finished
		return nil
	}
	return err
}

// NoopLocker always grants the lock. Used when Redis is disabled and a
// single instance runs the jobs.
type NoopLocker struct{}

// Obtain always succeeds
func (NoopLocker) Obtain(context.Context, string, time.Duration) (Lock, error) {
	return noopLock{}, nil
}

type noopLock struct{}

func (noopLock) Release(context.Context) error { return nil }
