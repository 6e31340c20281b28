// Package models defines data types for the auction and bidding engine.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuctionType identifies the bidding format of an auction.
type AuctionType string

// Supported auction types.
const (
	AuctionEnglish   AuctionType = "english"
	AuctionSealedBid AuctionType = "sealed_bid"
)

// AuctionStatus is the lifecycle state of an auction. Transitions only move
// forward: pending -> active -> closed.
type AuctionStatus string

// Auction lifecycle states.
const (
	StatusPending AuctionStatus = "pending"
	StatusActive  AuctionStatus = "active"
	StatusClosed  AuctionStatus = "closed"
)

// Auction represents a time-boxed competitive sale of a loan position.
type Auction struct {
	ID           string          `json:"id"`
	AnalysisID   string          `json:"analysis_id"`
	LoanName     string          `json:"loan_name"`
	Type         AuctionType     `json:"auction_type"`
	LotSize      decimal.Decimal `json:"lot_size"`
	MinBid       decimal.Decimal `json:"min_bid"`
	BidIncrement decimal.Decimal `json:"bid_increment"`
	ReservePrice decimal.Decimal `json:"reserve_price"`
	StartTime    time.Time       `json:"start_time"`
	EndTime      time.Time       `json:"end_time"`
	Status       AuctionStatus   `json:"status"`
	WinningBidID *string         `json:"winning_bid_id,omitempty"`
	CreatedBy    string          `json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// DefaultDurationHours is used when a create request supplies neither an
// end time nor a duration.
const DefaultDurationHours = 24

// CreateAuctionRequest is the payload for creating a new auction.
// StartTime defaults to now; EndTime defaults to StartTime plus
// DurationHours (or DefaultDurationHours when both are zero).
type CreateAuctionRequest struct {
	AnalysisID    string          `json:"analysis_id"`
	LoanName      string          `json:"loan_name"`
	Type          AuctionType     `json:"auction_type"`
	LotSize       decimal.Decimal `json:"lot_size"`
	MinBid        decimal.Decimal `json:"min_bid"`
	BidIncrement  decimal.Decimal `json:"bid_increment"`
	ReservePrice  decimal.Decimal `json:"reserve_price"`
	StartTime     *time.Time      `json:"start_time,omitempty"`
	EndTime       *time.Time      `json:"end_time,omitempty"`
	DurationHours int             `json:"duration_hours,omitempty"`
}

// defaultBidIncrement mirrors the smallest tick used when an English auction
// is created without an explicit increment.
var defaultBidIncrement = decimal.RequireFromString("0.01")

// Normalize fills defaults and validates the request against auction
// invariants. The returned times are the effective start and end.
//
// Note: reserve_price >= min_bid is deliberately not enforced; a reserve
// below the minimum bid simply never blocks a winner.
func (r *CreateAuctionRequest) Normalize(now time.Time) (start, end time.Time, err error) {
	if r.AnalysisID == "" {
		return start, end, fmt.Errorf("%w: analysis_id is required", ErrInvalidConfig)
	}

	switch r.Type {
	case "":
		r.Type = AuctionEnglish
	case AuctionEnglish, AuctionSealedBid:
	default:
		return start, end, fmt.Errorf("%w: unknown auction_type %q", ErrInvalidConfig, r.Type)
	}

	if r.LotSize.IsNegative() {
		return start, end, fmt.Errorf("%w: lot_size cannot be negative", ErrInvalidConfig)
	}

	if r.MinBid.IsNegative() {
		return start, end, fmt.Errorf("%w: min_bid cannot be negative", ErrInvalidConfig)
	}

	if r.ReservePrice.IsNegative() {
		return start, end, fmt.Errorf("%w: reserve_price cannot be negative", ErrInvalidConfig)
	}

	if r.Type == AuctionEnglish {
		if r.BidIncrement.IsZero() {
			r.BidIncrement = defaultBidIncrement
		}

		if !r.BidIncrement.IsPositive() {
			return start, end, fmt.Errorf("%w: bid_increment must be positive", ErrInvalidConfig)
		}
	}

	start = now
	if r.StartTime != nil {
		start = *r.StartTime
	}

	switch {
	case r.EndTime != nil:
		end = *r.EndTime
	case r.DurationHours > 0:
		end = start.Add(time.Duration(r.DurationHours) * time.Hour)
	default:
		end = start.Add(DefaultDurationHours * time.Hour)
	}

	if !end.After(start) {
		return start, end, fmt.Errorf("%w: end_time must be after start_time", ErrInvalidConfig)
	}

	return start, end, nil
}

// NewAuction builds an Auction from a normalized request. The auction starts
// pending, or active immediately when the start time has already passed.
func NewAuction(r CreateAuctionRequest, start, end time.Time, createdBy string, now time.Time) *Auction {
	status := StatusPending
	if !now.Before(start) {
		status = StatusActive
	}

	return &Auction{
		ID:           uuid.New().String(),
		AnalysisID:   r.AnalysisID,
		LoanName:     r.LoanName,
		Type:         r.Type,
		LotSize:      r.LotSize,
		MinBid:       r.MinBid,
		BidIncrement: r.BidIncrement,
		ReservePrice: r.ReservePrice,
		StartTime:    start,
		EndTime:      end,
		Status:       status,
		CreatedBy:    createdBy,
	}
}

// AuctionQueryOpts holds filters for listing auctions.
type AuctionQueryOpts struct {
	AnalysisID string
	Status     AuctionStatus
	Type       AuctionType
	Limit      int
	Offset     int
}
