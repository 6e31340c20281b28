package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dealdeskai/dealdesk/internal/models"
)

// AuctionHandler serves auction and bidding endpoints.
type AuctionHandler struct {
	repo AuctionRepository
	log  *logrus.Logger
}

// NewAuctionHandler creates an AuctionHandler with the given service and logger.
func NewAuctionHandler(repo AuctionRepository, log *logrus.Logger) *AuctionHandler {
	return &AuctionHandler{repo: repo, log: log}
}

// Create handles POST /api/v1/auctions.
func (h *AuctionHandler) Create(c *gin.Context) {
	actorID := getActorID(c)
	if actorID == "" {
		return
	}

	var req models.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	auction, err := h.repo.CreateAuction(c.Request.Context(), req, actorID)
	if err != nil {
		respondDomainError(c, h.log, err)

		return
	}

	c.JSON(http.StatusCreated, auction)
}

// Get handles GET /api/v1/auctions/:id.
func (h *AuctionHandler) Get(c *gin.Context) {
	auctionID := c.Param("id")
	if err := validatePathID(auctionID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	auction, err := h.repo.GetAuction(c.Request.Context(), auctionID)
	if err != nil {
		respondDomainError(c, h.log, err)

		return
	}

	c.JSON(http.StatusOK, auction)
}

// List handles GET /api/v1/auctions.
func (h *AuctionHandler) List(c *gin.Context) {
	opts := models.AuctionQueryOpts{
		AnalysisID: c.Query("analysis_id"),
		Status:     models.AuctionStatus(c.Query("status")),
		Type:       models.AuctionType(c.Query("auction_type")),
		Limit:      parseInt(c.DefaultQuery("limit", "50"), 50),
		Offset:     parseOffset(c.DefaultQuery("offset", "0")),
	}

	auctions, hasMore, err := h.repo.ListAuctions(c.Request.Context(), opts)
	if err != nil {
		respondDomainError(c, h.log, err)

		return
	}

	if auctions == nil {
		auctions = []models.Auction{}
	}

	c.JSON(http.StatusOK, gin.H{"auctions": auctions, "has_more": hasMore})
}

// PlaceBid handles POST /api/v1/auctions/:id/bids.
func (h *AuctionHandler) PlaceBid(c *gin.Context) {
	auctionID := c.Param("id")
	if err := validatePathID(auctionID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	bid, err := h.repo.PlaceBid(c.Request.Context(), auctionID, req)
	if err != nil {
		respondDomainError(c, h.log, err)

		return
	}

	c.JSON(http.StatusCreated, bid)
}

// ListBids handles GET /api/v1/auctions/:id/bids.
func (h *AuctionHandler) ListBids(c *gin.Context) {
	auctionID := c.Param("id")
	if err := validatePathID(auctionID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	bids, err := h.repo.ListBids(c.Request.Context(), auctionID)
	if err != nil {
		respondDomainError(c, h.log, err)

		return
	}

	if bids == nil {
		bids = []models.Bid{}
	}

	c.JSON(http.StatusOK, gin.H{"bids": bids})
}

// Leaderboard handles GET /api/v1/auctions/:id/leaderboard.
func (h *AuctionHandler) Leaderboard(c *gin.Context) {
	auctionID := c.Param("id")
	if err := validatePathID(auctionID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	entries, err := h.repo.Leaderboard(c.Request.Context(), auctionID)
	if err != nil {
		respondDomainError(c, h.log, err)

		return
	}

	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

// Close handles POST /api/v1/auctions/:id/close.
func (h *AuctionHandler) Close(c *gin.Context) {
	auctionID := c.Param("id")
	if err := validatePathID(auctionID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	actorID := getActorID(c)
	if actorID == "" {
		return
	}

	result, err := h.repo.CloseAuction(c.Request.Context(), auctionID, actorID)
	if err != nil {
		respondDomainError(c, h.log, err)

		return
	}

	c.JSON(http.StatusOK, result)
}
