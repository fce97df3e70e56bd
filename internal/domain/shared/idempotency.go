package shared

import (
	"context"
	"time"
)

// DefaultIdempotencyTTL is how long a processed event ID stays on record
// when no TTL is configured.
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotencyStore is the dedup ledger behind at-least-once event delivery.
// The bus may hand the same event to a handler more than once; the store
// decides which delivery is the first.
type IdempotencyStore interface {
	// MarkProcessed records eventID and reports whether this call was the
	// one that recorded it. A false return means a prior delivery already
	// went through and the caller must not run its effects again.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether eventID is currently on record.
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	Close() error
}

// IdempotencyConfig tunes dedup behavior per handler.
type IdempotencyConfig struct {
	// TTL bounds how long event IDs are remembered. Once it lapses a replay
	// of the same event ID passes the check again.
	TTL time.Duration

	// Enabled turns the check off entirely when false. Useful for handlers
	// whose effects are idempotent on their own.
	Enabled bool
}

// DefaultIdempotencyConfig enables dedup with the default TTL.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     DefaultIdempotencyTTL,
		Enabled: true,
	}
}
