package service

import (
	"context"
	"sync"
	"time"

	"github.com/dealdeskai/dealdesk/internal/models"
)

// mockAuctionStore records calls and returns configured responses.
type mockAuctionStore struct {
	mu    sync.Mutex
	calls []string

	createAuction func(ctx context.Context, a *models.Auction) error
	getAuction    func(ctx context.Context, auctionID string) (*models.Auction, error)
	listAuctions  func(ctx context.Context, opts models.AuctionQueryOpts) ([]models.Auction, bool, error)
	acceptBid     func(ctx context.Context, auctionID string, req models.PlaceBidRequest, now time.Time) (*models.Bid, error)
	listBids      func(ctx context.Context, auctionID string) ([]models.Bid, error)
	closeAuction  func(ctx context.Context, auctionID, requesterID string, now time.Time) (*models.ClosedResult, error)
}

func (m *mockAuctionStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockAuctionStore) getCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockAuctionStore) CreateAuction(ctx context.Context, a *models.Auction) error {
	m.record("CreateAuction")
	return m.createAuction(ctx, a)
}

func (m *mockAuctionStore) GetAuction(ctx context.Context, auctionID string) (*models.Auction, error) {
	m.record("GetAuction")
	return m.getAuction(ctx, auctionID)
}

func (m *mockAuctionStore) ListAuctions(ctx context.Context, opts models.AuctionQueryOpts) ([]models.Auction, bool, error) {
	m.record("ListAuctions")
	return m.listAuctions(ctx, opts)
}

func (m *mockAuctionStore) AcceptBid(ctx context.Context, auctionID string, req models.PlaceBidRequest, now time.Time) (*models.Bid, error) {
	m.record("AcceptBid")
	return m.acceptBid(ctx, auctionID, req, now)
}

func (m *mockAuctionStore) ListBids(ctx context.Context, auctionID string) ([]models.Bid, error) {
	m.record("ListBids")
	return m.listBids(ctx, auctionID)
}

func (m *mockAuctionStore) CloseAuction(ctx context.Context, auctionID, requesterID string, now time.Time) (*models.ClosedResult, error) {
	m.record("CloseAuction")
	return m.closeAuction(ctx, auctionID, requesterID, now)
}

// mockAnalysisDirectory records calls and returns configured responses.
type mockAnalysisDirectory struct {
	mu    sync.Mutex
	calls []string

	getAnalysis func(ctx context.Context, analysisID string) (*models.Analysis, error)
}

func (m *mockAnalysisDirectory) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockAnalysisDirectory) GetAnalysis(ctx context.Context, analysisID string) (*models.Analysis, error) {
	m.record("GetAnalysis")
	return m.getAnalysis(ctx, analysisID)
}
