package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/bibbank/debt-service/internal/domain/port"
)

// ErrLockTimeout is returned when the lock could not be acquired before the
// wait budget ran out.
var ErrLockTimeout = errors.New("debt lock wait timed out")

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisConfig tunes the distributed lock.
type RedisConfig struct {
	// Prefix namespaces lock keys.
	Prefix string
	// TTL bounds how long a crashed holder can block a debt.
	TTL time.Duration
	// RetryInterval is the pause between acquisition attempts.
	RetryInterval time.Duration
	// MaxWait caps the total wait; zero waits until ctx is done.
	MaxWait time.Duration
}

// RedisLocker serializes work per debt across instances with SET NX PX.
type RedisLocker struct {
	client redis.UniversalClient
	cfg    RedisConfig
	logger *slog.Logger
}

var _ port.DebtLocker = (*RedisLocker)(nil)

// NewRedisLocker creates a distributed locker on client.
func NewRedisLocker(client redis.UniversalClient, cfg RedisConfig, logger *slog.Logger) *RedisLocker {
	if cfg.Prefix == "" {
		cfg.Prefix = "debt-service:lock:"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 50 * time.Millisecond
	}
	return &RedisLocker{client: client, cfg: cfg, logger: logger}
}

// Lock acquires the debt's key, retrying until ctx is done or MaxWait elapses.
func (l *RedisLocker) Lock(ctx context.Context, debtID string) (func(), error) {
	key := l.cfg.Prefix + debtID
	token := uuid.NewString()

	if l.cfg.MaxWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.cfg.MaxWait)
		defer cancel()
	}

	ticker := time.NewTicker(l.cfg.RetryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.cfg.TTL).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			return l.unlockFunc(key, token), nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %s", ErrLockTimeout, debtID)
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) unlockFunc(key, token string) func() {
	released := false
	return func() {
		if released {
			return
		}
		released = true

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		n, err := releaseScript.Run(ctx, l.client, []string{key}, token).Int()
		switch {
		case err != nil:
			l.logger.Error("release debt lock", "key", key, "error", err)
		case n == 0:
			l.logger.Warn("debt lock expired before release", "key", key)
		}
	}
}
