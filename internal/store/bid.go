package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dealdeskai/dealdesk/internal/auction"
	"github.com/dealdeskai/dealdesk/internal/models"
)

const bidColumns = `id, auction_id, bidder_id, bidder_name, amount::text, is_locked, is_winning, created_at`

// parseAmount converts a text-cast numeric column into a decimal.
func parseAmount(column, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing %s %q: %w", column, value, err)
	}

	return d, nil
}

// scanBid scans a single bid row using the bidColumns order.
func scanBid(scan func(dest ...any) error) (*models.Bid, error) {
	var b models.Bid
	var amount string

	err := scan(&b.ID, &b.AuctionID, &b.BidderID, &b.BidderName, &amount, &b.IsLocked, &b.IsWinning, &b.CreatedAt)
	if err != nil {
		return nil, err
	}

	if b.Amount, err = parseAmount("amount", amount); err != nil {
		return nil, err
	}

	return &b, nil
}

// listBidsTx loads all bids for an auction in insertion order within the
// caller's transaction.
func listBidsTx(ctx context.Context, tx pgx.Tx, auctionID string) ([]models.Bid, error) {
	rows, err := tx.Query(ctx,
		"SELECT "+bidColumns+" FROM bids WHERE auction_id = $1 ORDER BY created_at ASC, id ASC",
		auctionID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing bids: %w", err)
	}
	defer rows.Close()

	return collectBids(rows)
}

func collectBids(rows pgx.Rows) ([]models.Bid, error) {
	var bids []models.Bid

	for rows.Next() {
		b, err := scanBid(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning bid: %w", err)
		}

		bids = append(bids, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading bids: %w", err)
	}

	return bids, nil
}

// highestBidTx returns the current highest bid for an auction within the
// caller's transaction, or nil when there are no bids. Ordering matches the
// winner-resolution tie-break: amount desc, earliest first, then bid ID.
func highestBidTx(ctx context.Context, tx pgx.Tx, auctionID string) (*models.Bid, error) {
	row := tx.QueryRow(ctx,
		"SELECT "+bidColumns+" FROM bids WHERE auction_id = $1 ORDER BY amount DESC, created_at ASC, id ASC LIMIT 1",
		auctionID,
	)

	b, err := scanBid(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("getting highest bid: %w", err)
	}

	return b, nil
}

// ListBids returns all bids for an auction in insertion order.
func (s *AuctionStore) ListBids(ctx context.Context, auctionID string) ([]models.Bid, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx,
		"SELECT "+bidColumns+" FROM bids WHERE auction_id = $1 ORDER BY created_at ASC, id ASC",
		auctionID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing bids: %w", err)
	}
	defer rows.Close()

	return collectBids(rows)
}

// AcceptBid is the single read-validate-write transaction for bid
// submission. It locks the auction row, re-reads the highest bid under that
// lock, runs the validator against the fresh snapshot, and appends the bid
// together with its audit event. A validation failure rolls everything back
// and releases the row lock immediately.
//
// Submission is not idempotent by ID: a client retrying a timed-out call
// creates a second bid row. No dedup key exists in the data model.
func (s *AuctionStore) AcceptBid(
	ctx context.Context, auctionID string, req models.PlaceBidRequest, now time.Time,
) (*models.Bid, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning accept bid: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	a, err := s.lockAuctionTx(ctx, tx, auctionID, now)
	if err != nil {
		return nil, err
	}

	highest, err := highestBidTx(ctx, tx, auctionID)
	if err != nil {
		return nil, err
	}

	if err := auction.ValidateBid(a, req.Amount, highest, now); err != nil {
		return nil, err
	}

	bid := &models.Bid{
		ID:         uuid.New().String(),
		AuctionID:  auctionID,
		BidderID:   req.BidderID,
		BidderName: req.BidderName,
		Amount:     req.Amount,
		IsLocked:   true,
		CreatedAt:  now,
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO bids (id, auction_id, bidder_id, bidder_name, amount, is_locked, is_winning, created_at)
		VALUES ($1, $2, $3, $4, $5, true, false, $6)`,
		bid.ID, bid.AuctionID, bid.BidderID, bid.BidderName, bid.Amount.String(), bid.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("inserting bid: %w", err)
	}

	event := models.AuditEvent{
		EventType:  models.EventBidPlaced,
		EntityType: "auction",
		EntityID:   auctionID,
		ActorID:    req.BidderID,
		Details: map[string]any{
			"bid_id":      bid.ID,
			"bidder_name": bid.BidderName,
			"amount":      bid.Amount.String(),
		},
	}
	if err := appendEventTx(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing accept bid: %w", err)
	}

	// Sealed bids stay confidential: the live event carries no amount.
	data := map[string]any{"auction_id": auctionID}
	if a.Type == models.AuctionEnglish {
		data["bidder_name"] = bid.BidderName
		data["amount"] = bid.Amount.String()
	}
	s.notify(models.EventBidPlaced, auctionID, data)

	return bid, nil
}
