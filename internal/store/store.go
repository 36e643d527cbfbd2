// Package store wires the external persistent store. All relay state
// is memory-resident; the store URI is consumed only by a boot-time
// connectivity check so a misconfigured deployment surfaces at once
// instead of on the first write that will never come.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Check dials the store behind uri and pings it once.
func Check(ctx context.Context, uri string) error {
	opts, err := redis.ParseURL(uri)
	if err != nil {
		return fmt.Errorf("parse store uri: %w", err)
	}
	client := redis.NewClient(opts)
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping store: %w", err)
	}
	return nil
}
