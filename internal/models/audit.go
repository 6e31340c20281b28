package models

import "time"

// Audit event types emitted by the engine.
const (
	EventAuctionCreated = "auction_created"
	EventBidPlaced      = "bid_placed"
	EventAuctionClosed  = "auction_closed"
)

// AuditEvent is a single entry in the append-only compliance trail. Entries
// are never updated or deleted; the serial ID preserves per-entity insertion
// order for replay.
type AuditEvent struct {
	ID         int64          `json:"id"`
	EventType  string         `json:"event_type"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	ActorID    string         `json:"actor_id,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"timestamp"`
}

// AuditQueryOpts holds filters for querying the audit trail.
type AuditQueryOpts struct {
	EntityType string
	EntityID   string
	EventType  string
	Since      *time.Time
	Limit      int
	Offset     int
}
