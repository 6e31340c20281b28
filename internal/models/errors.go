package models

import "errors"

// Sentinel errors for bid validation. Each maps to a distinct rejection
// reason so callers can explain exactly why a bid was refused.
var (
	ErrAuctionNotActive = errors.New("auction is not active")
	ErrAuctionExpired   = errors.New("auction has expired")
	ErrInvalidAmount    = errors.New("bid amount must be positive")
	ErrBelowMinimum     = errors.New("bid is below the minimum bid")
	ErrBelowIncrement   = errors.New("bid does not meet the required increment")
)

// Sentinel errors for configuration and lifecycle.
var (
	ErrInvalidConfig   = errors.New("invalid auction configuration")
	ErrNotAuctionOwner = errors.New("only the auction creator can close it")
	ErrSealedAuction   = errors.New("sealed-bid auctions do not expose bids before close")
)

// Sentinel errors for entity lookups.
var (
	ErrAuctionNotFound  = errors.New("auction not found")
	ErrAnalysisNotFound = errors.New("analysis not found")
)
