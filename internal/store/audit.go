package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/dealdeskai/dealdesk/internal/models"
)

// AuditStore provides read access to the audit_events table. The table is
// append-only: rows are only ever written by appendEventTx inside the same
// transaction as the mutation they document, and nothing deletes them. The
// trail is the compliance record for every auction.
type AuditStore struct {
	Base
}

// NewAuditStore creates an AuditStore.
func NewAuditStore(base Base) *AuditStore {
	return &AuditStore{Base: base}
}

// appendEventTx inserts an audit event within the caller's transaction.
// If the insert fails the caller's entire operation must fail with it;
// a mutation without its audit record never commits.
func appendEventTx(ctx context.Context, tx pgx.Tx, e models.AuditEvent) error {
	var detailsJSON []byte

	if e.Details != nil {
		var err error

		detailsJSON, err = json.Marshal(e.Details)
		if err != nil {
			return fmt.Errorf("marshaling audit details: %w", err)
		}
	}

	_, err := tx.Exec(ctx, `
		INSERT INTO audit_events (event_type, entity_type, entity_id, actor_id, details)
		VALUES ($1, $2, $3, $4, $5)`,
		e.EventType, e.EntityType, e.EntityID, e.ActorID, detailsJSON,
	)
	if err != nil {
		return fmt.Errorf("inserting audit event: %w", err)
	}

	return nil
}

// buildEventFilter builds a WHERE clause and args from AuditQueryOpts.
func buildEventFilter(opts models.AuditQueryOpts) (where string, args []any, nextArg int) {
	var conditions []string
	argIdx := 1

	if opts.EntityType != "" {
		conditions = append(conditions, "entity_type = $"+strconv.Itoa(argIdx))
		args = append(args, opts.EntityType)
		argIdx++
	}
	if opts.EntityID != "" {
		conditions = append(conditions, "entity_id = $"+strconv.Itoa(argIdx))
		args = append(args, opts.EntityID)
		argIdx++
	}
	if opts.EventType != "" {
		conditions = append(conditions, "event_type = $"+strconv.Itoa(argIdx))
		args = append(args, opts.EventType)
		argIdx++
	}
	if opts.Since != nil {
		conditions = append(conditions, "created_at >= $"+strconv.Itoa(argIdx))
		args = append(args, *opts.Since)
		argIdx++
	}

	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	return where, args, argIdx
}

// QueryEvents returns audit events matching the given filters in per-entity
// insertion order (ascending serial ID, suitable for replay).
// Returns events, a hasMore flag, and any error.
func (s *AuditStore) QueryEvents(
	ctx context.Context, opts models.AuditQueryOpts,
) ([]models.AuditEvent, bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	where, args, argIdx := buildEventFilter(opts)

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf(
		"SELECT id, event_type, entity_type, entity_id, actor_id, details, created_at FROM audit_events %s ORDER BY id ASC LIMIT $%d OFFSET $%d",
		where, argIdx, argIdx+1,
	)
	args = append(args, limit+1, opts.Offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("querying audit events: %w", err)
	}
	defer rows.Close()

	var events []models.AuditEvent

	for rows.Next() {
		var e models.AuditEvent
		var actor *string
		var detailsJSON []byte

		if err := rows.Scan(&e.ID, &e.EventType, &e.EntityType, &e.EntityID, &actor, &detailsJSON, &e.CreatedAt); err != nil {
			return nil, false, fmt.Errorf("scanning audit event: %w", err)
		}

		if actor != nil {
			e.ActorID = *actor
		}

		if detailsJSON != nil {
			if err := json.Unmarshal(detailsJSON, &e.Details); err != nil {
				s.Log.WithError(err).Warn("failed to unmarshal audit details")
			}
		}

		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("reading audit events: %w", err)
	}

	hasMore := len(events) > limit
	if hasMore {
		events = events[:limit]
	}

	return events, hasMore, nil
}
