package cache

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"helperhub/internal/config"

	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL     = 2 * time.Minute
	defaultLockTTL = 10 * time.Second
	keyNamespace   = "helperhub:"
	unlinkBatch    = 100
)

var ErrUnavailable = errors.New("redis unavailable")

// releaseScript deletes the lock only while it still holds our token, so a
// holder whose lock expired cannot drop a newer holder's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// Redis is a namespaced JSON cache. When the server is unreachable at boot
// every call becomes a miss or a no-op.
type Redis struct {
	client redis.UniversalClient
	logger *log.Logger
	ttl    time.Duration

	warned atomic.Bool
}

func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *log.Logger) *Redis {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "localhost"
	}
	port := strings.TrimSpace(cfg.Port)
	if port == "" {
		port = "6379"
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.Password,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		if logger != nil {
			logger.Printf("[Cache] redis unavailable addr=%s, caching disabled: %v", net.JoinHostPort(host, port), err)
		}
		_ = client.Close()
		return &Redis{logger: logger, ttl: ttl}
	}

	return &Redis{client: client, logger: logger, ttl: ttl}
}

func (r *Redis) enabled() bool {
	return r != nil && r.client != nil
}

// failed logs the first runtime error only; later ones would repeat it on
// every request.
func (r *Redis) failed(op string, err error) error {
	if r.logger != nil && r.warned.CompareAndSwap(false, true) {
		r.logger.Printf("[Cache] redis %s failed, serving from store: %v", op, err)
	}
	return err
}

func (r *Redis) Ping(ctx context.Context) error {
	if !r.enabled() {
		return ErrUnavailable
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	if !r.enabled() {
		return nil
	}
	return r.client.Close()
}

func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if !r.enabled() {
		return false, nil
	}
	b, err := r.client.Get(ctx, keyNamespace+key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, r.failed("get", err)
	case len(b) == 0:
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores value under key. A ttl of zero uses the configured TTL.
func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !r.enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = r.ttl
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, keyNamespace+key, b, ttl).Err(); err != nil {
		return r.failed("set", err)
	}
	return nil
}

// DeleteByPattern removes every key matching the glob pattern, unlinking
// in batches as SCAN pages arrive.
func (r *Redis) DeleteByPattern(ctx context.Context, pattern string) error {
	pattern = strings.TrimSpace(pattern)
	if !r.enabled() || pattern == "" {
		return nil
	}

	batch := make([]string, 0, unlinkBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := r.client.Unlink(ctx, batch...).Err()
		batch = batch[:0]
		return err
	}

	iter := r.client.Scan(ctx, 0, keyNamespace+pattern, unlinkBatch).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == unlinkBatch {
			if err := flush(); err != nil {
				return r.failed("unlink", err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return r.failed("scan", err)
	}
	if err := flush(); err != nil {
		return r.failed("unlink", err)
	}
	return nil
}

// Counter reads an integer key. A missing key, or a disabled cache, reads
// as zero.
func (r *Redis) Counter(ctx context.Context, key string) (int64, error) {
	if !r.enabled() {
		return 0, nil
	}
	n, err := r.client.Get(ctx, keyNamespace+key).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		return 0, nil
	case err != nil:
		return 0, r.failed("get", err)
	}
	return n, nil
}

func (r *Redis) Incr(ctx context.Context, key string) (int64, error) {
	if !r.enabled() {
		return 0, nil
	}
	n, err := r.client.Incr(ctx, keyNamespace+key).Result()
	if err != nil {
		return 0, r.failed("incr", err)
	}
	return n, nil
}

// TryLock takes a short-lived lock on key. ok is false when another holder
// has it. A disabled cache returns ErrUnavailable. unlock is always safe to
// call.
func (r *Redis) TryLock(ctx context.Context, key string, ttl time.Duration) (unlock func(context.Context), ok bool, err error) {
	noop := func(context.Context) {}
	if !r.enabled() {
		return noop, false, ErrUnavailable
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}

	token, err := newToken()
	if err != nil {
		return noop, false, err
	}
	lockKey := keyNamespace + key
	ok, err = r.client.SetNX(ctx, lockKey, token, ttl).Result()
	if err != nil {
		return noop, false, r.failed("lock", err)
	}
	if !ok {
		return noop, false, nil
	}

	return func(ctx context.Context) {
		if err := releaseScript.Run(ctx, r.client, []string{lockKey}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			_ = r.failed("unlock", err)
		}
	}, true, nil
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
