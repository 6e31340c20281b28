// Package service provides business logic between API handlers and data stores.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dealdeskai/dealdesk/internal/auction"
	"github.com/dealdeskai/dealdesk/internal/domain"
	"github.com/dealdeskai/dealdesk/internal/metrics"
	"github.com/dealdeskai/dealdesk/internal/models"
)

// AuctionStore is the data-access interface AuctionService depends on. The
// mutating methods take an explicit now so the service controls the clock
// used for lifecycle decisions.
type AuctionStore interface {
	CreateAuction(ctx context.Context, a *models.Auction) error
	GetAuction(ctx context.Context, auctionID string) (*models.Auction, error)
	ListAuctions(ctx context.Context, opts models.AuctionQueryOpts) ([]models.Auction, bool, error)
	AcceptBid(ctx context.Context, auctionID string, req models.PlaceBidRequest, now time.Time) (*models.Bid, error)
	ListBids(ctx context.Context, auctionID string) ([]models.Bid, error)
	CloseAuction(ctx context.Context, auctionID, requesterID string, now time.Time) (*models.ClosedResult, error)
}

// Compile-time check: *AuctionService must satisfy domain.AuctionEngine.
var _ domain.AuctionEngine = (*AuctionService)(nil)

// DefaultLeaderboardSize is how many ranked bids the leaderboard returns
// when no size is configured.
const DefaultLeaderboardSize = 10

// AuctionService wraps AuctionStore with lifecycle orchestration: analysis
// lookups on create, per-auction serialization of mutating calls, and
// outcome metrics.
type AuctionService struct {
	store           AuctionStore
	analyses        domain.AnalysisDirectory
	locks           *auctionLocks
	log             *logrus.Logger
	leaderboardSize int
	now             func() time.Time
}

// NewAuctionService creates an AuctionService.
func NewAuctionService(
	store AuctionStore, analyses domain.AnalysisDirectory, log *logrus.Logger, leaderboardSize int,
) *AuctionService {
	if leaderboardSize <= 0 {
		leaderboardSize = DefaultLeaderboardSize
	}

	return &AuctionService{
		store:           store,
		analyses:        analyses,
		locks:           newAuctionLocks(),
		log:             log,
		leaderboardSize: leaderboardSize,
		now:             time.Now,
	}
}

// CreateAuction validates the request, resolves the referenced analysis and
// persists the new auction.
func (s *AuctionService) CreateAuction(
	ctx context.Context, req models.CreateAuctionRequest, createdBy string,
) (*models.Auction, error) {
	now := s.now()

	start, end, err := req.Normalize(now)
	if err != nil {
		return nil, err
	}

	analysis, err := s.analyses.GetAnalysis(ctx, req.AnalysisID)
	if err != nil {
		return nil, err
	}

	if req.LoanName == "" {
		req.LoanName = analysis.LoanName
	}

	a := models.NewAuction(req, start, end, createdBy, now)

	if err := s.store.CreateAuction(ctx, a); err != nil {
		return nil, err
	}

	metrics.AuctionsCreated.WithLabelValues(string(a.Type)).Inc()

	s.log.WithFields(logrus.Fields{
		"auction_id":   a.ID,
		"analysis_id":  a.AnalysisID,
		"auction_type": a.Type,
		"end_time":     a.EndTime,
	}).Info("auction.create")

	return a, nil
}

// GetAuction returns a single auction by ID (pass-through).
func (s *AuctionService) GetAuction(ctx context.Context, auctionID string) (*models.Auction, error) {
	return s.store.GetAuction(ctx, auctionID)
}

// ListAuctions returns a paginated list of auctions (pass-through).
func (s *AuctionService) ListAuctions(
	ctx context.Context, opts models.AuctionQueryOpts,
) ([]models.Auction, bool, error) {
	return s.store.ListAuctions(ctx, opts)
}

// PlaceBid submits a bid. Bids on the same auction serialize on a
// per-auction mutex before entering the store's transactional
// read-validate-write, so concurrent submissions see each other's effects.
func (s *AuctionService) PlaceBid(
	ctx context.Context, auctionID string, req models.PlaceBidRequest,
) (*models.Bid, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	mu := s.locks.get(auctionID)
	mu.Lock()
	bid, err := s.store.AcceptBid(ctx, auctionID, req, s.now())
	mu.Unlock()

	if err != nil {
		if reason := rejectionReason(err); reason != "" {
			metrics.BidsRejected.WithLabelValues(reason).Inc()

			s.log.WithFields(logrus.Fields{
				"auction_id": auctionID,
				"bidder_id":  req.BidderID,
				"reason":     reason,
			}).Info("bid.rejected")
		}

		return nil, err
	}

	metrics.BidsAccepted.Inc()

	s.log.WithFields(logrus.Fields{
		"auction_id": auctionID,
		"bid_id":     bid.ID,
		"bidder_id":  bid.BidderID,
	}).Info("bid.accepted")

	return bid, nil
}

// ListBids returns all bids for an auction. For sealed-bid auctions the full
// list is only available after close; before that the amounts are
// confidential even to the auction owner.
func (s *AuctionService) ListBids(ctx context.Context, auctionID string) ([]models.Bid, error) {
	a, err := s.store.GetAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	if a.Type == models.AuctionSealedBid && a.Status != models.StatusClosed {
		return nil, models.ErrSealedAuction
	}

	return s.store.ListBids(ctx, auctionID)
}

// Leaderboard returns the ranked top bids for an English auction. Sealed-bid
// auctions have no leaderboard at any point in their lifecycle.
func (s *AuctionService) Leaderboard(ctx context.Context, auctionID string) ([]models.LeaderboardEntry, error) {
	a, err := s.store.GetAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	if a.Type != models.AuctionEnglish {
		return nil, models.ErrSealedAuction
	}

	bids, err := s.store.ListBids(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	return auction.Rank(bids, s.leaderboardSize), nil
}

// CloseAuction resolves the winner and transitions the auction to closed.
// Only the creator may close; repeated closes return the original result.
func (s *AuctionService) CloseAuction(
	ctx context.Context, auctionID, requesterID string,
) (*models.ClosedResult, error) {
	mu := s.locks.get(auctionID)
	mu.Lock()
	result, err := s.store.CloseAuction(ctx, auctionID, requesterID, s.now())
	mu.Unlock()

	if err != nil {
		return nil, err
	}

	metrics.AuctionsClosed.WithLabelValues(result.Outcome).Inc()

	fields := logrus.Fields{
		"auction_id": auctionID,
		"outcome":    result.Outcome,
		"total_bids": result.TotalBids,
	}
	if result.WinningBid != nil {
		fields["winning_bid_id"] = result.WinningBid.ID
	}
	s.log.WithFields(fields).Info("auction.close")

	return result, nil
}

// rejectionReason maps a bid validation failure to a metrics label. Other
// errors (not found, storage) return "" and are not counted as rejections.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, models.ErrAuctionNotActive):
		return "not_active"
	case errors.Is(err, models.ErrAuctionExpired):
		return "expired"
	case errors.Is(err, models.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, models.ErrBelowMinimum):
		return "below_minimum"
	case errors.Is(err, models.ErrBelowIncrement):
		return "below_increment"
	default:
		return ""
	}
}
