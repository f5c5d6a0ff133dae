// Package revision keeps a per-account write counter so cached reads can be
// keyed on the data version instead of being purged.
package revision

import (
	"context"
	"fmt"
)

const keyPrefix = "mood:rev:"

// Counter is satisfied by *redis.Client from internal/pkg/redis.
type Counter interface {
	Incr(ctx context.Context, key string) (int64, error)
	GetInt(ctx context.Context, key string) (int64, error)
}

// Tracker bumps and reads account revisions. A nil Tracker always reports 0.
type Tracker struct {
	store Counter
}

func New(store Counter) *Tracker {
	return &Tracker{store: store}
}

// Key returns the storage key for an account.
func Key(accountID string) string { return keyPrefix + accountID }

// Bump marks the account's data as changed.
func (t *Tracker) Bump(ctx context.Context, accountID string) error {
	if t == nil || t.store == nil || accountID == "" {
		return nil
	}
	if _, err := t.store.Incr(ctx, Key(accountID)); err != nil {
		return fmt.Errorf("bump revision: %w", err)
	}
	return nil
}

// Current returns the account's revision; accounts never written to are at 0.
func (t *Tracker) Current(ctx context.Context, accountID string) (int64, error) {
	if t == nil || t.store == nil || accountID == "" {
		return 0, nil
	}
	rev, err := t.store.GetInt(ctx, Key(accountID))
	if err != nil {
		return 0, fmt.Errorf("read revision: %w", err)
	}
	return rev, nil
}
