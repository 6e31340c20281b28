package client

import (
	"time"

	"github.com/shopspring/decimal"
)

// Auction represents a time-boxed competitive sale of a loan position.
type Auction struct {
	ID           string          `json:"id"`
	AnalysisID   string          `json:"analysis_id"`
	LoanName     string          `json:"loan_name"`
	Type         string          `json:"auction_type"`
	LotSize      decimal.Decimal `json:"lot_size"`
	MinBid       decimal.Decimal `json:"min_bid"`
	BidIncrement decimal.Decimal `json:"bid_increment"`
	ReservePrice decimal.Decimal `json:"reserve_price"`
	StartTime    time.Time       `json:"start_time"`
	EndTime      time.Time       `json:"end_time"`
	Status       string          `json:"status"`
	WinningBidID *string         `json:"winning_bid_id,omitempty"`
	CreatedBy    string          `json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Bid represents an accepted bid on an auction.
type Bid struct {
	ID         string          `json:"id"`
	AuctionID  string          `json:"auction_id"`
	BidderID   string          `json:"bidder_id"`
	BidderName string          `json:"bidder_name"`
	Amount     decimal.Decimal `json:"amount"`
	IsLocked   bool            `json:"is_locked"`
	IsWinning  bool            `json:"is_winning"`
	Timestamp  time.Time       `json:"timestamp"`
}

// LeaderboardEntry is one row of the ranked English-auction bid view.
type LeaderboardEntry struct {
	Rank       int             `json:"rank"`
	BidderName string          `json:"bidder_name"`
	Amount     decimal.Decimal `json:"amount"`
	Timestamp  time.Time       `json:"timestamp"`
}

// ClosedResult describes the final outcome of a closed auction.
type ClosedResult struct {
	AuctionID  string `json:"auction_id"`
	Outcome    string `json:"outcome"`
	WinningBid *Bid   `json:"winning_bid,omitempty"`
	TotalBids  int    `json:"total_bids"`
	Bids       []Bid  `json:"bids"`
}

// CreateAuctionRequest is the payload for creating an auction.
type CreateAuctionRequest struct {
	AnalysisID    string          `json:"analysis_id"`
	LoanName      string          `json:"loan_name,omitempty"`
	Type          string          `json:"auction_type,omitempty"`
	LotSize       decimal.Decimal `json:"lot_size"`
	MinBid        decimal.Decimal `json:"min_bid"`
	BidIncrement  decimal.Decimal `json:"bid_increment"`
	ReservePrice  decimal.Decimal `json:"reserve_price"`
	StartTime     *time.Time      `json:"start_time,omitempty"`
	EndTime       *time.Time      `json:"end_time,omitempty"`
	DurationHours int             `json:"duration_hours,omitempty"`
}

// PlaceBidRequest is the payload for submitting a bid.
type PlaceBidRequest struct {
	BidderID   string          `json:"bidder_id"`
	BidderName string          `json:"bidder_name"`
	Amount     decimal.Decimal `json:"amount"`
}

// AuctionListOptions filters the auction list endpoint.
type AuctionListOptions struct {
	AnalysisID string
	Status     string
	Type       string
	Limit      int
	Offset     int
}

// AuditEvent is one entry of the append-only audit trail.
type AuditEvent struct {
	ID         int64          `json:"id"`
	EventType  string         `json:"event_type"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	ActorID    string         `json:"actor_id,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// AuditQueryOptions filters the audit query endpoint.
type AuditQueryOptions struct {
	EntityType string
	EntityID   string
	EventType  string
	Since      *time.Time
	Limit      int
	Offset     int
}

// HealthResponse is the liveness check payload.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}
