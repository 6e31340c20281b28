package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dealdeskai/dealdesk/internal/auction"
	"github.com/dealdeskai/dealdesk/internal/models"
)

// AuctionStore handles auction persistence. The mutating methods (AcceptBid,
// CloseAuction) implement the per-auction critical section by locking the
// auction row with SELECT ... FOR UPDATE, so read-validate-write runs as one
// serialized transaction even across multiple service instances.
type AuctionStore struct {
	Base
}

// NewAuctionStore creates a new AuctionStore.
func NewAuctionStore(base Base) *AuctionStore {
	return &AuctionStore{Base: base}
}

// Numeric columns are cast to text and parsed into decimals on scan, keeping
// money exact end to end.
const auctionColumns = `id, analysis_id, loan_name, auction_type,
	lot_size::text, min_bid::text, bid_increment::text, reserve_price::text,
	start_time, end_time, status, winning_bid_id, created_by, created_at, updated_at`

// scanAuction scans a single auction row using the auctionColumns order.
func scanAuction(scan func(dest ...any) error) (*models.Auction, error) {
	var (
		a                                   models.Auction
		auctionType, status                 string
		lotSize, minBid, increment, reserve string
	)

	err := scan(
		&a.ID, &a.AnalysisID, &a.LoanName, &auctionType,
		&lotSize, &minBid, &increment, &reserve,
		&a.StartTime, &a.EndTime, &status, &a.WinningBidID, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Type = models.AuctionType(auctionType)
	a.Status = models.AuctionStatus(status)

	if a.LotSize, err = parseAmount("lot_size", lotSize); err != nil {
		return nil, err
	}
	if a.MinBid, err = parseAmount("min_bid", minBid); err != nil {
		return nil, err
	}
	if a.BidIncrement, err = parseAmount("bid_increment", increment); err != nil {
		return nil, err
	}
	if a.ReservePrice, err = parseAmount("reserve_price", reserve); err != nil {
		return nil, err
	}

	return &a, nil
}

// CreateAuction inserts a new auction and its auction_created audit event in
// one transaction.
func (s *AuctionStore) CreateAuction(ctx context.Context, a *models.Auction) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning create auction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	err = tx.QueryRow(ctx, `
		INSERT INTO auctions (id, analysis_id, loan_name, auction_type,
			lot_size, min_bid, bid_increment, reserve_price,
			start_time, end_time, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at`,
		a.ID, a.AnalysisID, a.LoanName, string(a.Type),
		a.LotSize.String(), a.MinBid.String(), a.BidIncrement.String(), a.ReservePrice.String(),
		a.StartTime, a.EndTime, string(a.Status), a.CreatedBy,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting auction: %w", err)
	}

	event := models.AuditEvent{
		EventType:  models.EventAuctionCreated,
		EntityType: "auction",
		EntityID:   a.ID,
		ActorID:    a.CreatedBy,
		Details: map[string]any{
			"auction_type": string(a.Type),
			"loan_name":    a.LoanName,
			"analysis_id":  a.AnalysisID,
			"min_bid":      a.MinBid.String(),
			"end_time":     a.EndTime,
		},
	}
	if err := appendEventTx(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing create auction: %w", err)
	}

	s.notify(models.EventAuctionCreated, a.ID, map[string]any{"loan_name": a.LoanName})

	return nil
}

// GetAuction returns a point-in-time snapshot of an auction without
// blocking behind writers.
func (s *AuctionStore) GetAuction(ctx context.Context, auctionID string) (*models.Auction, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := s.Pool.QueryRow(ctx, "SELECT "+auctionColumns+" FROM auctions WHERE id = $1", auctionID)

	a, err := scanAuction(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrAuctionNotFound
		}

		return nil, fmt.Errorf("getting auction: %w", err)
	}

	return a, nil
}

// ListAuctions returns auctions matching the given filters, newest first.
// Returns auctions, a hasMore flag, and any error.
func (s *AuctionStore) ListAuctions(
	ctx context.Context, opts models.AuctionQueryOpts,
) ([]models.Auction, bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var conditions []string
	var args []any
	argIdx := 1

	if opts.AnalysisID != "" {
		conditions = append(conditions, "analysis_id = $"+strconv.Itoa(argIdx))
		args = append(args, opts.AnalysisID)
		argIdx++
	}
	if opts.Status != "" {
		conditions = append(conditions, "status = $"+strconv.Itoa(argIdx))
		args = append(args, string(opts.Status))
		argIdx++
	}
	if opts.Type != "" {
		conditions = append(conditions, "auction_type = $"+strconv.Itoa(argIdx))
		args = append(args, string(opts.Type))
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf(
		"SELECT %s FROM auctions %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		auctionColumns, where, argIdx, argIdx+1,
	)
	args = append(args, limit+1, opts.Offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("listing auctions: %w", err)
	}
	defer rows.Close()

	var auctions []models.Auction

	for rows.Next() {
		a, err := scanAuction(rows.Scan)
		if err != nil {
			return nil, false, fmt.Errorf("scanning auction: %w", err)
		}

		auctions = append(auctions, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("reading auctions: %w", err)
	}

	hasMore := len(auctions) > limit
	if hasMore {
		auctions = auctions[:limit]
	}

	return auctions, hasMore, nil
}

// lockAuctionTx loads the auction row under FOR UPDATE, entering the
// per-auction critical section. If the pending auction has reached its start
// time it is promoted to active in the same transaction, so the forward-only
// pending -> active transition is persisted lazily on first access.
func (s *AuctionStore) lockAuctionTx(
	ctx context.Context, tx pgx.Tx, auctionID string, now time.Time,
) (*models.Auction, error) {
	row := tx.QueryRow(ctx, "SELECT "+auctionColumns+" FROM auctions WHERE id = $1 FOR UPDATE", auctionID)

	a, err := scanAuction(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrAuctionNotFound
		}

		return nil, fmt.Errorf("locking auction: %w", err)
	}

	if auction.ShouldActivate(a, now) {
		if _, err := tx.Exec(ctx,
			"UPDATE auctions SET status = $1, updated_at = now() WHERE id = $2",
			string(models.StatusActive), a.ID,
		); err != nil {
			return nil, fmt.Errorf("activating auction: %w", err)
		}

		a.Status = models.StatusActive
	}

	return a, nil
}

// CloseAuction runs winner resolution inside the auction's critical section
// and transitions the auction to closed. Closing an already-closed auction
// is idempotent: the prior result is rebuilt and returned, and no second
// audit event is emitted.
func (s *AuctionStore) CloseAuction(
	ctx context.Context, auctionID, requesterID string, now time.Time,
) (*models.ClosedResult, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning close auction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	a, err := s.lockAuctionTx(ctx, tx, auctionID, now)
	if err != nil {
		return nil, err
	}

	if a.CreatedBy != requesterID {
		return nil, models.ErrNotAuctionOwner
	}

	bids, err := listBidsTx(ctx, tx, auctionID)
	if err != nil {
		return nil, err
	}

	if a.Status == models.StatusClosed {
		return priorResult(a, bids), nil
	}

	if a.Status != models.StatusActive {
		return nil, models.ErrAuctionNotActive
	}

	outcome := auction.Resolve(a, bids)

	var winningBidID *string

	if outcome.Winner != nil {
		if _, err := tx.Exec(ctx, "UPDATE bids SET is_winning = true WHERE id = $1", outcome.Winner.ID); err != nil {
			return nil, fmt.Errorf("marking winning bid: %w", err)
		}

		outcome.Winner.IsWinning = true
		winningBidID = &outcome.Winner.ID
	}

	if _, err := tx.Exec(ctx,
		"UPDATE auctions SET status = $1, winning_bid_id = $2, updated_at = now() WHERE id = $3",
		string(models.StatusClosed), winningBidID, a.ID,
	); err != nil {
		return nil, fmt.Errorf("closing auction: %w", err)
	}

	details := map[string]any{
		"outcome":    outcome.Status,
		"total_bids": outcome.TotalBids,
	}
	if outcome.Winner != nil {
		details["winning_bid_id"] = outcome.Winner.ID
		details["winning_bidder"] = outcome.Winner.BidderName
		details["winning_amount"] = outcome.Winner.Amount.String()
	}

	event := models.AuditEvent{
		EventType:  models.EventAuctionClosed,
		EntityType: "auction",
		EntityID:   a.ID,
		ActorID:    requesterID,
		Details:    details,
	}
	if err := appendEventTx(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing close auction: %w", err)
	}

	s.notify(models.EventAuctionClosed, a.ID, map[string]any{"outcome": outcome.Status})

	result := &models.ClosedResult{
		AuctionID:  a.ID,
		Outcome:    outcome.Status,
		WinningBid: outcome.Winner,
		TotalBids:  outcome.TotalBids,
		Bids:       bids,
	}

	return result, nil
}

// priorResult reconstructs the ClosedResult of an auction that was already
// closed, so retried close calls return the same outcome.
func priorResult(a *models.Auction, bids []models.Bid) *models.ClosedResult {
	result := &models.ClosedResult{
		AuctionID: a.ID,
		TotalBids: len(bids),
		Bids:      bids,
	}

	switch {
	case a.WinningBidID != nil:
		result.Outcome = models.OutcomeClosed
		for i := range bids {
			if bids[i].ID == *a.WinningBidID {
				result.WinningBid = &bids[i]
				break
			}
		}
	case len(bids) == 0:
		result.Outcome = models.OutcomeNoBids
	default:
		result.Outcome = models.OutcomeReserveNotMet
	}

	return result
}
