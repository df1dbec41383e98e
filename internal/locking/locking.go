// Package locking serializes commands per company. Check-then-mutate steps
// (machine start, ledger sync, payroll processing) rely on nobody else
// writing the same company's data between the check and the write.
package locking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"mirotec-backend/internal/config"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

var ErrNotObtained = errors.New("could not obtain company lock")

type Locker interface {
	// Lock blocks until the key is held or ctx is done. The returned func releases it.
	Lock(ctx context.Context, key string) (func(), error)
}

var (
	mu            sync.RWMutex
	defaultLocker Locker = NewLocal()
)

func Default() Locker {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLocker
}

func SetDefault(l Locker) {
	mu.Lock()
	defer mu.Unlock()
	defaultLocker = l
}

func CompanyKey(companyID uint) string {
	return fmt.Sprintf("lock:company:%d", companyID)
}

// -------------------------------------------------
// in-process
// -------------------------------------------------

type localLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func NewLocal() Locker {
	return &localLocker{slots: make(map[string]chan struct{})}
}

func (l *localLocker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

func (l *localLocker) Lock(ctx context.Context, key string) (func(), error) {
	ch := l.slot(key)
	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrNotObtained, ctx.Err())
	}
}

// -------------------------------------------------
// redis (multi instance)
// -------------------------------------------------

type redisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  redislock.RetryStrategy
}

func NewRedis(rdb *redis.Client) Locker {
	return &redisLocker{
		client: redislock.New(rdb),
		ttl:    30 * time.Second,
		retry:  redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), 200),
	}
}

func (l *redisLocker) Lock(ctx context.Context, key string) (func(), error) {
	lock, err := l.client.Obtain(ctx, key, l.ttl, &redislock.Options{RetryStrategy: l.retry})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrNotObtained
	}
	if err != nil {
		return nil, fmt.Errorf("obtain %s: %w", key, err)
	}
	return func() {
		// released with its own context so a cancelled request still frees the key
		if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			config.LogError(config.GetLogger(), "locking", "Release", "failed to release redis lock", key, err)
		}
	}, nil
}
