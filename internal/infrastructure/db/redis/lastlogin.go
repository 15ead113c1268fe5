package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const lastLoginTTL = 30 * 24 * time.Hour

// LastLoginTracker records the most recent successful login per account.
// Key format: lastlogin:<username>
type LastLoginTracker struct {
	client *redis.Client
}

// NewLastLoginTracker creates a LastLoginTracker wrapping the given Redis client.
func NewLastLoginTracker(client *redis.Client) *LastLoginTracker {
	return &LastLoginTracker{client: client}
}

// Record stores the login instant for the account (expires after lastLoginTTL).
func (t *LastLoginTracker) Record(ctx context.Context, username string, at time.Time) error {
	return t.client.Set(ctx, t.key(username), at.UTC().Format(time.RFC3339), lastLoginTTL).Err()
}

// Last returns the most recent recorded login for the account, or a zero
// time when none is known.
func (t *LastLoginTracker) Last(ctx context.Context, username string) (time.Time, error) {
	val, err := t.client.Get(ctx, t.key(username)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("last login lookup: %w", err)
	}
	return time.Parse(time.RFC3339, val)
}

func (t *LastLoginTracker) key(username string) string {
	return fmt.Sprintf("lastlogin:%s", username)
}
