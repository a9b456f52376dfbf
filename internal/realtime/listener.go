// Package realtime delivers shop change notifications to the editor. The
// shops table has an AFTER trigger that emits a pg_notify on every write;
// this package LISTENs on that channel and invokes a callback per change.
//
// The editor consumes these only through SyncExternalShop, which ignores
// updates while an edit is in progress — so a remote write can never clobber
// local edits. This package does not know about that rule; it just delivers.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// channel is the NOTIFY channel name; it must match the trigger in the
// migrations.
const channel = "shop_changes"

// Change describes one shop write observed by the trigger.
type Change struct {
	SectionName string `json:"section"`
	ShopID      string `json:"id"`
	Op          string `json:"op"` // INSERT, UPDATE, or DELETE
}

// Listener subscribes to shop change notifications over a dedicated
// Postgres connection.
type Listener struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewListener constructs a Listener on the given pool.
func NewListener(pool *pgxpool.Pool, log *slog.Logger) *Listener {
	return &Listener{pool: pool, log: log}
}

// Subscribe blocks, delivering every change in sectionName to fn until ctx
// is cancelled. An empty sectionName delivers all sections. Malformed
// payloads are logged and skipped, never fatal.
//
// Run it in its own goroutine; cancelling ctx is the unsubscribe.
func (l *Listener) Subscribe(ctx context.Context, sectionName string, fn func(Change)) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("realtime.Listener.Subscribe: acquire: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+channel); err != nil {
		return fmt.Errorf("realtime.Listener.Subscribe: listen: %w", err)
	}

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("realtime.Listener.Subscribe: wait: %w", err)
		}

		var change Change
		if err := json.Unmarshal([]byte(notification.Payload), &change); err != nil {
			l.log.Warn("discarding malformed change notification",
				"payload", notification.Payload, "error", err)
			continue
		}
		if sectionName != "" && change.SectionName != sectionName {
			continue
		}
		fn(change)
	}
}
