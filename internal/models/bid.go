package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Bid represents an accepted bid on an auction. Amount and timestamp are
// immutable once the row is written; IsLocked records that fact.
type Bid struct {
	ID         string          `json:"id"`
	AuctionID  string          `json:"auction_id"`
	BidderID   string          `json:"bidder_id"`
	BidderName string          `json:"bidder_name"`
	Amount     decimal.Decimal `json:"amount"`
	IsLocked   bool            `json:"is_locked"`
	IsWinning  bool            `json:"is_winning"`
	CreatedAt  time.Time       `json:"timestamp"`
}

// PlaceBidRequest is the payload for submitting a bid.
type PlaceBidRequest struct {
	BidderID   string          `json:"bidder_id"`
	BidderName string          `json:"bidder_name"`
	Amount     decimal.Decimal `json:"amount"`
}

// Validate checks identity fields. Amount rules (positivity, minimum,
// increment) are enforced by the bid validator against a live auction
// snapshot, not here.
func (r *PlaceBidRequest) Validate() error {
	if r.BidderID == "" {
		return fmt.Errorf("%w: bidder_id is required", ErrInvalidConfig)
	}

	if r.BidderName == "" {
		return fmt.Errorf("%w: bidder_name is required", ErrInvalidConfig)
	}

	return nil
}

// LeaderboardEntry is one row of the ranked English-auction bid view.
type LeaderboardEntry struct {
	Rank       int             `json:"rank"`
	BidderName string          `json:"bidder_name"`
	Amount     decimal.Decimal `json:"amount"`
	Timestamp  time.Time       `json:"timestamp"`
}

// Closing outcomes.
const (
	OutcomeClosed        = "closed"
	OutcomeReserveNotMet = "reserve_not_met"
	OutcomeNoBids        = "no_bids"
)

// ClosedResult describes the final outcome of an auction. WinningBid is nil
// when there were no bids or the reserve price was not met. Bids contains
// every bid received, revealed at close for sealed-bid auctions.
type ClosedResult struct {
	AuctionID  string `json:"auction_id"`
	Outcome    string `json:"outcome"`
	WinningBid *Bid   `json:"winning_bid,omitempty"`
	TotalBids  int    `json:"total_bids"`
	Bids       []Bid  `json:"bids"`
}
