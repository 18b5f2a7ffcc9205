package keylock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
)

// unlockScript deletes the key only when it still holds our token, so an
// expired lock re-acquired by someone else is never released by us.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis implements Locker on a shared Redis instance using SET NX.
type Redis struct {
	client  *redis.Client
	prefix  string
	backoff time.Duration
}

// NewRedis returns a Redis-backed Locker.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{
		client:  client,
		prefix:  "keylock:",
		backoff: 25 * time.Millisecond,
	}
}

// Lock acquires the key with exponential backoff until ctx is done.
func (r *Redis) Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	fk := r.prefix + key
	err = retry.Do(ctx, retry.NewExponential(r.backoff), func(ctx context.Context) error {
		ok, err := r.client.SetNX(ctx, fk, token, ttl).Result()
		if err != nil {
			return err
		}
		if !ok {
			return retry.RetryableError(ErrNotAcquired)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context) error {
		return unlockScript.Run(ctx, r.client, []string{fk}, token).Err()
	}, nil
}

func newToken() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
