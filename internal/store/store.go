// Package store provides focused, single-concern data access stores for the
// auction engine.
//
// Each store owns one domain (auctions, audit trail, analyses) and embeds
// shared helpers (Pool, logger) via the Base struct. Stores never import
// each other; cross-cutting pieces such as the in-transaction audit append
// live in this package's helper files so a mutation and its audit record
// always commit or roll back together.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dealdeskai/dealdesk/internal/dbpool"
)

const defaultQueryTimeout = 30 * time.Second

// notifyChannel is the pg_notify channel carrying auction event fan-out to
// the WebSocket bridge.
const notifyChannel = "auction_events"

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// notify sends a pg_notify on the auction_events channel (best-effort,
// post-commit). Live update fan-out must never fail a committed mutation.
func (b *Base) notify(eventType, auctionID string, data map[string]any) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payload, err := json.Marshal(map[string]any{
		"type":       eventType,
		"auction_id": auctionID,
		"data":       data,
	})
	if err != nil {
		b.Log.WithError(err).Warn("failed to marshal " + eventType + " notification")

		return
	}

	if _, err := b.Pool.Exec(ctx, "SELECT pg_notify($1, $2)", notifyChannel, string(payload)); err != nil {
		b.Log.WithError(err).Warn("failed to send " + eventType + " notification")
	}
}
