package client

import (
	"context"
	"net/url"
	"strconv"
)

// AuctionService handles auction and bidding operations.
type AuctionService struct {
	c *Client
}

// auctionListResponse wraps the paginated auction list response.
type auctionListResponse struct {
	Auctions []Auction `json:"auctions"`
	HasMore  bool      `json:"has_more"`
}

// List returns auctions with optional filtering and pagination.
func (s *AuctionService) List(ctx context.Context, opts *AuctionListOptions) ([]Auction, bool, error) {
	params := url.Values{}
	if opts != nil {
		if opts.AnalysisID != "" {
			params.Set("analysis_id", opts.AnalysisID)
		}
		if opts.Status != "" {
			params.Set("status", opts.Status)
		}
		if opts.Type != "" {
			params.Set("auction_type", opts.Type)
		}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Offset > 0 {
			params.Set("offset", strconv.Itoa(opts.Offset))
		}
	}
	var resp auctionListResponse
	if err := s.c.get(ctx, "/api/v1/auctions", params, &resp); err != nil {
		return nil, false, err
	}
	return resp.Auctions, resp.HasMore, nil
}

// Get returns a single auction by ID.
func (s *AuctionService) Get(ctx context.Context, id string) (*Auction, error) {
	var a Auction
	if err := s.c.get(ctx, "/api/v1/auctions/"+url.PathEscape(id), nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create creates a new auction. The client's actor ID becomes the owner.
func (s *AuctionService) Create(ctx context.Context, req *CreateAuctionRequest) (*Auction, error) {
	var a Auction
	if err := s.c.post(ctx, "/api/v1/auctions", req, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// PlaceBid submits a bid on an auction.
func (s *AuctionService) PlaceBid(ctx context.Context, auctionID string, req *PlaceBidRequest) (*Bid, error) {
	var b Bid
	if err := s.c.post(ctx, "/api/v1/auctions/"+url.PathEscape(auctionID)+"/bids", req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBids returns all bids on an auction. Sealed-bid auctions refuse this
// until closed.
func (s *AuctionService) ListBids(ctx context.Context, auctionID string) ([]Bid, error) {
	var resp struct {
		Bids []Bid `json:"bids"`
	}
	if err := s.c.get(ctx, "/api/v1/auctions/"+url.PathEscape(auctionID)+"/bids", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Bids, nil
}

// Leaderboard returns the ranked top bids for an English auction.
func (s *AuctionService) Leaderboard(ctx context.Context, auctionID string) ([]LeaderboardEntry, error) {
	var resp struct {
		Leaderboard []LeaderboardEntry `json:"leaderboard"`
	}
	if err := s.c.get(ctx, "/api/v1/auctions/"+url.PathEscape(auctionID)+"/leaderboard", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Leaderboard, nil
}

// Close resolves and closes an auction. Only the creator may close; closing
// an already-closed auction returns the original result.
func (s *AuctionService) Close(ctx context.Context, auctionID string) (*ClosedResult, error) {
	var result ClosedResult
	if err := s.c.post(ctx, "/api/v1/auctions/"+url.PathEscape(auctionID)+"/close", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
