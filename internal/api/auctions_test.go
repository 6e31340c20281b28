package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/dealdeskai/dealdesk/internal/api"
	"github.com/dealdeskai/dealdesk/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestAuctionCreate_Valid(t *testing.T) {
	t.Parallel()

	var gotCreatedBy string
	repo := &mockAuctionRepo{
		createFn: func(_ context.Context, req models.CreateAuctionRequest, createdBy string) (*models.Auction, error) {
			gotCreatedBy = createdBy
			return &models.Auction{
				ID:         "auc-1",
				AnalysisID: req.AnalysisID,
				LoanName:   req.LoanName,
				Type:       models.AuctionEnglish,
				Status:     models.StatusActive,
				MinBid:     req.MinBid,
				CreatedBy:  createdBy,
				CreatedAt:  time.Now(),
				UpdatedAt:  time.Now(),
			}, nil
		},
	}

	r := gin.New()
	h := api.NewAuctionHandler(repo, testLogger())
	r.POST("/auctions", h.Create)

	w := doRequest(r, http.MethodPost, "/auctions",
		`{"analysis_id":"an-1","loan_name":"Project Aurora TL-B","auction_type":"english","min_bid":"95.5","bid_increment":"0.25"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if gotCreatedBy != testActorID {
		t.Errorf("expected createdBy %q, got %q", testActorID, gotCreatedBy)
	}

	var auction models.Auction
	if err := json.Unmarshal(w.Body.Bytes(), &auction); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if auction.ID != "auc-1" {
		t.Errorf("expected id 'auc-1', got %q", auction.ID)
	}
}

func TestAuctionCreate_MissingActorHeader(t *testing.T) {
	t.Parallel()

	r := gin.New()
	h := api.NewAuctionHandler(&mockAuctionRepo{}, testLogger())
	r.POST("/auctions", h.Create)

	w := doRequestAs(r, http.MethodPost, "/auctions", `{"analysis_id":"an-1"}`, "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuctionCreate_UnknownAnalysis(t *testing.T) {
	t.Parallel()

	repo := &mockAuctionRepo{
		createFn: func(_ context.Context, _ models.CreateAuctionRequest, _ string) (*models.Auction, error) {
			return nil, models.ErrAnalysisNotFound
		},
	}

	r := gin.New()
	h := api.NewAuctionHandler(repo, testLogger())
	r.POST("/auctions", h.Create)

	w := doRequest(r, http.MethodPost, "/auctions", `{"analysis_id":"nope"}`)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuctionCreate_InvalidConfig(t *testing.T) {
	t.Parallel()

	repo := &mockAuctionRepo{
		createFn: func(_ context.Context, _ models.CreateAuctionRequest, _ string) (*models.Auction, error) {
			return nil, models.ErrInvalidConfig
		},
	}

	r := gin.New()
	h := api.NewAuctionHandler(repo, testLogger())
	r.POST("/auctions", h.Create)

	w := doRequest(r, http.MethodPost, "/auctions", `{"analysis_id":"an-1","auction_type":"dutch"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuctionGet_Found(t *testing.T) {
	t.Parallel()

	repo := &mockAuctionRepo{
		getFn: func(_ context.Context, auctionID string) (*models.Auction, error) {
			return &models.Auction{ID: auctionID, Status: models.StatusActive}, nil
		},
	}

	r := gin.New()
	h := api.NewAuctionHandler(repo, testLogger())
	r.GET("/auctions/:id", h.Get)

	w := doRequest(r, http.MethodGet, "/auctions/auc-1", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var auction models.Auction
	if err := json.Unmarshal(w.Body.Bytes(), &auction); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if auction.ID != "auc-1" {
		t.Errorf("expected id 'auc-1', got %q", auction.ID)
	}
}

func TestAuctionGet_NotFound(t *testing.T) {
	t.Parallel()

	repo := &mockAuctionRepo{
		getFn: func(_ context.Context, _ string) (*models.Auction, error) {
			return nil, models.ErrAuctionNotFound
		},
	}

	r := gin.New()
	h := api.NewAuctionHandler(repo, testLogger())
	r.GET("/auctions/:id", h.Get)

	w := doRequest(r, http.MethodGet, "/auctions/missing", "")

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuctionList_PassesFilters(t *testing.T) {
	t.Parallel()

	var gotOpts models.AuctionQueryOpts
	repo := &mockAuctionRepo{
		listFn: func(_ context.Context, opts models.AuctionQueryOpts) ([]models.Auction, bool, error) {
			gotOpts = opts
			return []models.Auction{{ID: "auc-1"}}, true, nil
		},
	}

	r := gin.New()
	h := api.NewAuctionHandler(repo, testLogger())
	r.GET("/auctions", h.List)

	w := doRequest(r, http.MethodGet, "/auctions?status=active&auction_type=english&analysis_id=an-1&limit=5&offset=10", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotOpts.Status != models.StatusActive {
		t.Errorf("status filter: got %q", gotOpts.Status)
	}
	if gotOpts.Type != models.AuctionEnglish {
		t.Errorf("type filter: got %q", gotOpts.Type)
	}
	if gotOpts.AnalysisID != "an-1" {
		t.Errorf("analysis filter: got %q", gotOpts.AnalysisID)
	}
	if gotOpts.Limit != 5 || gotOpts.Offset != 10 {
		t.Errorf("pagination: got limit=%d offset=%d", gotOpts.Limit, gotOpts.Offset)
	}

	var body struct {
		Auctions []models.Auction `json:"auctions"`
		HasMore  bool             `json:"has_more"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(body.Auctions) != 1 || !body.HasMore {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestAuctionList_EmptyIsArray(t *testing.T) {
	t.Parallel()

	repo := &mockAuctionRepo{
		listFn: func(_ context.Context, _ models.AuctionQueryOpts) ([]models.Auction, bool, error) {
			return nil, false, nil
		},
	}

	r := gin.New()
	h := api.NewAuctionHandler(repo, testLogger())
	r.GET("/auctions", h.List)

	w := doRequest(r, http.MethodGet, "/auctions", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !json.Valid(w.Body.Bytes()) {
		t.Fatalf("invalid JSON: %s", w.Body.String())
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if string(body["auctions"]) != "[]" {
		t.Errorf("expected empty array, got %s", body["auctions"])
	}
}

func TestPlaceBid_Accepted(t *testing.T) {
	t.Parallel()

	repo := &mockAuctionRepo{
		placeBidFn: func(_ context.Context, auctionID string, req models.PlaceBidRequest) (*models.Bid, error) {
			return &models.Bid{
				ID:         "bid-1",
				AuctionID:  auctionID,
				BidderID:   req.BidderID,
				BidderName: req.BidderName,
				Amount:     req.Amount,
				IsLocked:   true,
				CreatedAt:  time.Now(),
			}, nil
		},
	}

	r := gin.New()
	h := api.NewAuctionHandler(repo, testLogger())
	r.POST("/auctions/:id/bids", h.PlaceBid)

	w := doRequest(r, http.MethodPost, "/auctions/auc-1/bids",
		`{"bidder_id":"fund-a","bidder_name":"Fund A","amount":"97.25"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var bid models.Bid
	if err := json.Unmarshal(w.Body.Bytes(), &bid); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !bid.Amount.Equal(dec("97.25")) {
		t.Errorf("expected amount 97.25, got %s", bid.Amount)
	}
	if !bid.IsLocked {
		t.Errorf("expected bid to be locked")
	}
}

func TestPlaceBid_RejectionStatuses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not active", models.ErrAuctionNotActive, http.StatusConflict},
		{"expired", models.ErrAuctionExpired, http.StatusConflict},
		{"below minimum", models.ErrBelowMinimum, http.StatusBadRequest},
		{"below increment", models.ErrBelowIncrement, http.StatusBadRequest},
		{"invalid amount", models.ErrInvalidAmount, http.StatusBadRequest},
		{"auction missing", models.ErrAuctionNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := &mockAuctionRepo{
				placeBidFn: func(_ context.Context, _ string, _ models.PlaceBidRequest) (*models.Bid, error) {
					return nil, tt.err
				},
			}

			r := gin.New()
			h := api.NewAuctionHandler(repo, testLogger())
			r.POST("/auctions/:id/bids", h.PlaceBid)

			w := doRequest(r, http.MethodPost, "/auctions/auc-1/bids",
				`{"bidder_id":"fund-a","bidder_name":"Fund A","amount":"50"}`)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestPlaceBid_MalformedBody(t *testing.T) {
	t.Parallel()

	r := gin.New()
	h := api.NewAuctionHandler(&mockAuctionRepo{}, testLogger())
	r.POST("/auctions/:id/bids", h.PlaceBid)

	w := doRequest(r, http.MethodPost, "/auctions/auc-1/bids", `{"amount":`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestListBids_SealedRefused(t *testing.T) {
	t.Parallel()

	repo := &mockAuctionRepo{
		listBidsFn: func(_ context.Context, _ string) ([]models.Bid, error) {
			return nil, models.ErrSealedAuction
		},
	}

	r := gin.New()
	h := api.NewAuctionHandler(repo, testLogger())
	r.GET("/auctions/:id/bids", h.ListBids)

	w := doRequest(r, http.MethodGet, "/auctions/auc-1/bids", "")

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLeaderboard_Ranked(t *testing.T) {
	t.Parallel()

	repo := &mockAuctionRepo{
		leaderboardFn: func(_ context.Context, _ string) ([]models.LeaderboardEntry, error) {
			return []models.LeaderboardEntry{
				{Rank: 1, BidderName: "Fund A", Amount: dec("99")},
				{Rank: 2, BidderName: "Fund B", Amount: dec("98")},
			}, nil
		},
	}

	r := gin.New()
	h := api.NewAuctionHandler(repo, testLogger())
	r.GET("/auctions/:id/leaderboard", h.Leaderboard)

	w := doRequest(r, http.MethodGet, "/auctions/auc-1/leaderboard", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Leaderboard []models.LeaderboardEntry `json:"leaderboard"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(body.Leaderboard) != 2 || body.Leaderboard[0].Rank != 1 {
		t.Errorf("unexpected leaderboard: %s", w.Body.String())
	}
}

func TestClose_OwnerSucceeds(t *testing.T) {
	t.Parallel()

	var gotRequester string
	repo := &mockAuctionRepo{
		closeFn: func(_ context.Context, auctionID, requesterID string) (*models.ClosedResult, error) {
			gotRequester = requesterID
			return &models.ClosedResult{AuctionID: auctionID, Outcome: models.OutcomeClosed, TotalBids: 3}, nil
		},
	}

	r := gin.New()
	h := api.NewAuctionHandler(repo, testLogger())
	r.POST("/auctions/:id/close", h.Close)

	w := doRequest(r, http.MethodPost, "/auctions/auc-1/close", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotRequester != testActorID {
		t.Errorf("expected requester %q, got %q", testActorID, gotRequester)
	}

	var result models.ClosedResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if result.Outcome != models.OutcomeClosed {
		t.Errorf("expected outcome %q, got %q", models.OutcomeClosed, result.Outcome)
	}
}

func TestClose_NonOwnerForbidden(t *testing.T) {
	t.Parallel()

	repo := &mockAuctionRepo{
		closeFn: func(_ context.Context, _, _ string) (*models.ClosedResult, error) {
			return nil, models.ErrNotAuctionOwner
		},
	}

	r := gin.New()
	h := api.NewAuctionHandler(repo, testLogger())
	r.POST("/auctions/:id/close", h.Close)

	w := doRequestAs(r, http.MethodPost, "/auctions/auc-1/close", "", "intruder")

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
}
