package sheet

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	rsredis "github.com/go-redsync/redsync/v4/redis/goredis/v9"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Locker serialises the check-then-write sequence against one store.
type Locker interface {
	WithLock(ctx context.Context, fn func(ctx context.Context) error) error
}

var (
	_ Locker = (*LocalLocker)(nil)
	_ Locker = (*RedsyncLocker)(nil)
)

// LocalLocker serialises writers inside one process.
type LocalLocker struct {
	sem chan struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{sem: make(chan struct{}, 1)}
}

func (l *LocalLocker) WithLock(ctx context.Context, fn func(ctx context.Context) error) error {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("acquire store lock: %w", ctx.Err())
	}
	defer func() { <-l.sem }()
	return fn(ctx)
}

// RedsyncLocker serialises writers across processes through a redis mutex.
type RedsyncLocker struct {
	rs     *redsync.Redsync
	name   string
	expiry time.Duration
}

func NewRedsyncLocker(client goredis.UniversalClient, name string, expiry time.Duration) *RedsyncLocker {
	if expiry <= 0 {
		expiry = 30 * time.Second
	}
	return &RedsyncLocker{
		rs:     redsync.New(rsredis.NewPool(client)),
		name:   name,
		expiry: expiry,
	}
}

func (l *RedsyncLocker) WithLock(ctx context.Context, fn func(ctx context.Context) error) error {
	mutex := l.rs.NewMutex(l.name, redsync.WithExpiry(l.expiry))
	if err := mutex.LockContext(ctx); err != nil {
		return fmt.Errorf("acquire store lock %s: %w", l.name, err)
	}
	defer func() {
		if _, err := mutex.UnlockContext(context.WithoutCancel(ctx)); err != nil {
			log.Error().Err(err).Str("lock", l.name).Msg("failed to release store lock")
		}
	}()
	return fn(ctx)
}
