package api_test

import (
	"context"

	"github.com/dealdeskai/dealdesk/internal/models"
)

// mockAuctionRepo implements api.AuctionRepository for testing.
type mockAuctionRepo struct {
	createFn      func(ctx context.Context, req models.CreateAuctionRequest, createdBy string) (*models.Auction, error)
	getFn         func(ctx context.Context, auctionID string) (*models.Auction, error)
	listFn        func(ctx context.Context, opts models.AuctionQueryOpts) ([]models.Auction, bool, error)
	placeBidFn    func(ctx context.Context, auctionID string, req models.PlaceBidRequest) (*models.Bid, error)
	listBidsFn    func(ctx context.Context, auctionID string) ([]models.Bid, error)
	leaderboardFn func(ctx context.Context, auctionID string) ([]models.LeaderboardEntry, error)
	closeFn       func(ctx context.Context, auctionID, requesterID string) (*models.ClosedResult, error)
}

func (m *mockAuctionRepo) CreateAuction(ctx context.Context, req models.CreateAuctionRequest, createdBy string) (*models.Auction, error) {
	return m.createFn(ctx, req, createdBy)
}

func (m *mockAuctionRepo) GetAuction(ctx context.Context, auctionID string) (*models.Auction, error) {
	return m.getFn(ctx, auctionID)
}

func (m *mockAuctionRepo) ListAuctions(ctx context.Context, opts models.AuctionQueryOpts) ([]models.Auction, bool, error) {
	return m.listFn(ctx, opts)
}

func (m *mockAuctionRepo) PlaceBid(ctx context.Context, auctionID string, req models.PlaceBidRequest) (*models.Bid, error) {
	return m.placeBidFn(ctx, auctionID, req)
}

func (m *mockAuctionRepo) ListBids(ctx context.Context, auctionID string) ([]models.Bid, error) {
	return m.listBidsFn(ctx, auctionID)
}

func (m *mockAuctionRepo) Leaderboard(ctx context.Context, auctionID string) ([]models.LeaderboardEntry, error) {
	return m.leaderboardFn(ctx, auctionID)
}

func (m *mockAuctionRepo) CloseAuction(ctx context.Context, auctionID, requesterID string) (*models.ClosedResult, error) {
	return m.closeFn(ctx, auctionID, requesterID)
}

// mockAuditRepo implements api.AuditRepository for testing.
type mockAuditRepo struct {
	queryFn func(ctx context.Context, opts models.AuditQueryOpts) ([]models.AuditEvent, bool, error)
}

func (m *mockAuditRepo) QueryEvents(ctx context.Context, opts models.AuditQueryOpts) ([]models.AuditEvent, bool, error) {
	return m.queryFn(ctx, opts)
}
