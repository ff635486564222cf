// Package lock keeps two runs from writing the same store at once. It is
// advisory: only runs configured with the same Redis see each other.
package lock

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-redis/redis/v8"

	"purchase-tracker/internal/logger"
)

// ErrLocked means another run holds one of the requested paths.
var ErrLocked = errors.New("store is locked by another run")

const keyPrefix = "store_lock:"

// unlockScript deletes the key only while it still belongs to the caller.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Redis struct {
	Client *redis.Client
	TTL    time.Duration
	Logger *logger.Logger
}

func NewRedis(client *redis.Client, ttl time.Duration, log *logger.Logger) *Redis {
	return &Redis{Client: client, TTL: ttl, Logger: log}
}

// Key is the Redis key guarding path. Paths are made absolute so that
// "orders.bin" and "./orders.bin" share a lock.
func Key(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return keyPrefix + abs, nil
}

// Lock takes the lock on path for owner. It reports false if someone else
// holds it.
func (r *Redis) Lock(ctx context.Context, path, owner string) (bool, error) {
	key, err := Key(path)
	if err != nil {
		return false, err
	}
	ok, err := r.Client.SetNX(ctx, key, owner, r.TTL).Result()
	if err != nil {
		return false, fmt.Errorf("lock %s: %w", path, err)
	}
	if ok {
		r.Logger.LogLock("acquire", key, fmt.Sprintf("held by %s for %s", owner, r.TTL))
	}
	return ok, nil
}

// Unlock releases path if owner still holds it; otherwise it does nothing.
func (r *Redis) Unlock(ctx context.Context, path, owner string) error {
	key, err := Key(path)
	if err != nil {
		return err
	}
	n, err := unlockScript.Run(ctx, r.Client, []string{key}, owner).Int()
	if err != nil {
		return fmt.Errorf("unlock %s: %w", path, err)
	}
	if n > 0 {
		r.Logger.LogLock("release", key, "released by "+owner)
	}
	return nil
}

// LockAll locks every path or none of them. Paths naming the same file are
// locked once.
func (r *Redis) LockAll(ctx context.Context, paths []string, owner string) (bool, error) {
	paths, err := distinct(paths)
	if err != nil {
		return false, err
	}
	locked := make([]string, 0, len(paths))
	for _, path := range paths {
		ok, err := r.Lock(ctx, path, owner)
		if err != nil || !ok {
			for _, l := range locked {
				_ = r.Unlock(ctx, l, owner)
			}
			return false, err
		}
		locked = append(locked, path)
	}
	return true, nil
}

func (r *Redis) UnlockAll(ctx context.Context, paths []string, owner string) error {
	paths, err := distinct(paths)
	if err != nil {
		return err
	}
	var firstErr error
	for _, path := range paths {
		if err := r.Unlock(ctx, path, owner); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func distinct(paths []string) ([]string, error) {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, path := range paths {
		key, err := Key(path)
		if err != nil {
			return nil, err
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, path)
	}
	return out, nil
}

// Noop is used when no Redis is configured. Every lock succeeds.
type Noop struct{}

func (Noop) LockAll(context.Context, []string, string) (bool, error) { return true, nil }
func (Noop) UnlockAll(context.Context, []string, string) error       { return nil }
