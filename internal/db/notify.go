package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/dealdeskai/dealdesk/internal/dbpool"
)

const (
	listenChannel = "auction_events"

	// Reconnect backoff bounds. Jitter keeps a fleet of engine instances
	// from hammering a recovering database in lockstep.
	initialBackoff = 1 * time.Second
	maxBackoff     = 30 * time.Second

	// How long WaitForNotification may block before we wake up to check
	// for context cancellation.
	notifyReadTimeout = 2 * time.Minute
)

// validChannel matches safe PostgreSQL LISTEN channel names.
var validChannel = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Broadcaster sends auction events to connected clients.
type Broadcaster interface {
	BroadcastToAuction(auctionID string, msg []byte)
	BroadcastEvent(eventType, auctionID string, data json.RawMessage)
}

// NotifyBridge subscribes to PostgreSQL LISTEN/NOTIFY on the auction_events
// channel and forwards each payload to the WebSocket hub. The stores publish
// on this channel after every committed mutation, so fan-out works across
// multiple engine instances sharing one database.
type NotifyBridge struct {
	log  *logrus.Logger
	pool *dbpool.Pool
	hub  Broadcaster
}

// NewNotifyBridge creates a NotifyBridge wired to the given pool and hub.
func NewNotifyBridge(log *logrus.Logger, pool *dbpool.Pool, hub Broadcaster) *NotifyBridge {
	return &NotifyBridge{
		log:  log,
		pool: pool,
		hub:  hub,
	}
}

// Start verifies the database is reachable, then launches the listen loop
// in a background goroutine. Reconnects after the first successful start
// are handled by the loop itself.
func (b *NotifyBridge) Start(ctx context.Context) error {
	if !validChannel.MatchString(listenChannel) {
		return fmt.Errorf("notify bridge: invalid channel name %q", listenChannel)
	}

	if err := b.pool.Ping(ctx); err != nil {
		return fmt.Errorf("notify bridge: database not reachable: %w", err)
	}

	go b.listen(ctx)

	return nil
}

// listen runs listenOnce until the context ends, backing off between
// failed attempts.
func (b *NotifyBridge) listen(ctx context.Context) {
	backoff := initialBackoff

	for ctx.Err() == nil {
		err := b.listenOnce(ctx)
		if err == nil || ctx.Err() != nil {
			return
		}

		b.log.WithError(err).WithField("retry_in", backoff).
			Warn("notify bridge connection lost, reconnecting")

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		backoff = nextBackoff(backoff)
	}
}

// listenOnce holds a pooled connection, issues LISTEN, and forwards
// notifications until the connection drops or ctx is cancelled.
func (b *NotifyBridge) listenOnce(ctx context.Context) error {
	conn, err := b.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Release()

	// LISTEN cannot take the channel as a bind parameter, so the name is
	// quoted through pgx.Identifier before being inlined.
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{listenChannel}.Sanitize()); err != nil {
		return fmt.Errorf("executing LISTEN: %w", err)
	}

	b.log.WithField("channel", listenChannel).Info("notify bridge listening")

	for {
		if err := conn.Conn().PgConn().Conn().SetReadDeadline(time.Now().Add(notifyReadTimeout)); err != nil {
			return fmt.Errorf("setting read deadline: %w", err)
		}

		notification, err := conn.Conn().WaitForNotification(ctx)
		switch {
		case err == nil:
			b.forward(notification)
		case ctx.Err() != nil:
			return nil
		case isTimeout(err):
			// Deadline hit with nothing to read. Loop to re-check ctx.
		default:
			return fmt.Errorf("waiting for notification: %w", err)
		}
	}
}

func isTimeout(err error) bool {
	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}

// forward pushes a single notification payload to the hub. Payloads
// missing an auction_id are dropped; they cannot be routed to a room.
func (b *NotifyBridge) forward(n *pgconn.Notification) {
	b.log.WithFields(logrus.Fields{
		"channel": n.Channel,
		"pid":     n.PID,
	}).Debug("notification received")

	var payload struct {
		Type      string          `json:"type"`
		AuctionID string          `json:"auction_id"`
		Data      json.RawMessage `json:"data,omitempty"`
	}
	if err := json.Unmarshal([]byte(n.Payload), &payload); err != nil || payload.AuctionID == "" {
		b.log.Warn("dropping notification without auction_id")

		return
	}

	eventType := payload.Type
	if eventType == "" {
		eventType = "auction.change"
	}

	b.hub.BroadcastEvent(eventType, payload.AuctionID, payload.Data)
}

// nextBackoff doubles the delay with ±25% jitter, capped at maxBackoff.
func nextBackoff(current time.Duration) time.Duration {
	next := min(current*2, maxBackoff)

	return time.Duration(float64(next) * (0.75 + rand.Float64()*0.5)) //nolint:gosec // jitter doesn't need crypto rand.
}
