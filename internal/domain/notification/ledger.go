package notification

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultSuppressWindow is how long a device stays suppressed after a
// notification.
const DefaultSuppressWindow = 20 * time.Hour

const ledgerKeyPrefix = "notify:device:"

// RedisLedger records notified devices in redis with a TTL so repeated runs
// within the suppression window do not re-notify the same device.
type RedisLedger struct {
	client *redis.Client
	window time.Duration
}

// NewRedisLedger connects to the given redis URL. A non-positive window
// falls back to DefaultSuppressWindow.
func NewRedisLedger(ctx context.Context, url string, window time.Duration) (*RedisLedger, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	if window <= 0 {
		window = DefaultSuppressWindow
	}
	return &RedisLedger{client: client, window: window}, nil
}

// FilterNew keeps the ids whose suppression key could be claimed and marks
// them notified for the window.
func (l *RedisLedger) FilterNew(ctx context.Context, ids []string) ([]string, error) {
	fresh := make([]string, 0, len(ids))
	for _, id := range ids {
		claimed, err := l.client.SetNX(ctx, ledgerKeyPrefix+id, 1, l.window).Result()
		if err != nil {
			return nil, err
		}
		if claimed {
			fresh = append(fresh, id)
		}
	}
	return fresh, nil
}

// Close releases the redis connection.
func (l *RedisLedger) Close() error {
	return l.client.Close()
}
