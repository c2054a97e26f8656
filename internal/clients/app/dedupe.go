package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultDedupePrefix = "bank:transfers:applied"
	defaultDedupeTTL    = 24 * time.Hour
)

// DedupeCache remembers recently applied transfer ids in Redis so duplicate
// deliveries can be dropped without a round trip to the database. It is an
// optimization only: the processed_transfers unique constraint stays the
// source of truth, and every method degrades to a miss when Redis is down.
type DedupeCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewDedupeCache creates a cache with the given key prefix and entry TTL,
// falling back to defaults for empty values.
func NewDedupeCache(client redis.UniversalClient, prefix string, ttl time.Duration) *DedupeCache {
	trimmedPrefix := strings.TrimSpace(prefix)
	if trimmedPrefix == "" {
		trimmedPrefix = defaultDedupePrefix
	}
	trimmedPrefix = strings.TrimSuffix(trimmedPrefix, ":")
	if ttl <= 0 {
		ttl = defaultDedupeTTL
	}

	return &DedupeCache{client: client, prefix: trimmedPrefix, ttl: ttl}
}

func (d *DedupeCache) key(transactionID string) string {
	return fmt.Sprintf("%s:%s", d.prefix, transactionID)
}

// SeenApplied reports whether the transfer id is known to be applied. Errors
// and a nil cache count as a miss.
func (d *DedupeCache) SeenApplied(ctx context.Context, transactionID string) bool {
	if d == nil || d.client == nil || transactionID == "" {
		return false
	}
	n, err := d.client.Exists(ctx, d.key(transactionID)).Result()
	if err != nil {
		log.Printf("transfer-consumer: dedupe cache lookup failed for %s: %v", transactionID, err)
		return false
	}
	return n > 0
}

// MarkApplied records the transfer id as applied. Failures are logged and
// ignored; the next delivery simply falls through to the database.
func (d *DedupeCache) MarkApplied(ctx context.Context, transactionID string) {
	if d == nil || d.client == nil || transactionID == "" {
		return
	}
	if err := d.client.Set(ctx, d.key(transactionID), 1, d.ttl).Err(); err != nil {
		log.Printf("transfer-consumer: dedupe cache write failed for %s: %v", transactionID, err)
	}
}
