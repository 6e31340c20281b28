// Package domain defines the canonical service interfaces shared across API
// layers and the client SDK. Consumers should depend on these interfaces
// rather than re-declaring equivalent ones.
package domain

import (
	"context"

	"github.com/dealdeskai/dealdesk/internal/models"
)

// AuctionEngine defines all auction and bidding operations.
type AuctionEngine interface {
	CreateAuction(ctx context.Context, req models.CreateAuctionRequest, createdBy string) (*models.Auction, error)
	GetAuction(ctx context.Context, auctionID string) (*models.Auction, error)
	ListAuctions(ctx context.Context, opts models.AuctionQueryOpts) ([]models.Auction, bool, error)
	PlaceBid(ctx context.Context, auctionID string, req models.PlaceBidRequest) (*models.Bid, error)
	ListBids(ctx context.Context, auctionID string) ([]models.Bid, error)
	Leaderboard(ctx context.Context, auctionID string) ([]models.LeaderboardEntry, error)
	CloseAuction(ctx context.Context, auctionID, requesterID string) (*models.ClosedResult, error)
}

// AuditService defines audit trail query operations. The trail itself is
// append-only and written transactionally by the store layer.
type AuditService interface {
	QueryEvents(ctx context.Context, opts models.AuditQueryOpts) ([]models.AuditEvent, bool, error)
}

// AnalysisDirectory is the engine's contract with the document analysis
// collaborator: existence checks and loan names, nothing more.
type AnalysisDirectory interface {
	GetAnalysis(ctx context.Context, analysisID string) (*models.Analysis, error)
}
