package models_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dealdeskai/dealdesk/internal/models"
)

func ptr[T any](v T) *T { return &v }

func assertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func assertErrorContains(t *testing.T, err error, want string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected error containing %q, got nil", want)
	}

	if !strings.Contains(err.Error(), want) {
		t.Errorf("expected error containing %q, got %q", want, err.Error())
	}
}

func TestCreateAuctionRequest_Normalize(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		req     models.CreateAuctionRequest
		wantErr string
	}{
		{name: "valid english", req: models.CreateAuctionRequest{AnalysisID: "an1", Type: models.AuctionEnglish}},
		{name: "valid sealed", req: models.CreateAuctionRequest{AnalysisID: "an1", Type: models.AuctionSealedBid}},
		{name: "type defaults to english", req: models.CreateAuctionRequest{AnalysisID: "an1"}},
		{name: "missing analysis", req: models.CreateAuctionRequest{}, wantErr: "analysis_id is required"},
		{name: "unknown type", req: models.CreateAuctionRequest{AnalysisID: "an1", Type: "dutch"}, wantErr: "unknown auction_type"},
		{name: "negative lot size", req: models.CreateAuctionRequest{AnalysisID: "an1", LotSize: decimal.RequireFromString("-1")}, wantErr: "lot_size cannot be negative"},
		{name: "negative min bid", req: models.CreateAuctionRequest{AnalysisID: "an1", MinBid: decimal.RequireFromString("-5")}, wantErr: "min_bid cannot be negative"},
		{name: "negative reserve", req: models.CreateAuctionRequest{AnalysisID: "an1", ReservePrice: decimal.RequireFromString("-0.01")}, wantErr: "reserve_price cannot be negative"},
		{
			name:    "end before start",
			req:     models.CreateAuctionRequest{AnalysisID: "an1", StartTime: ptr(now), EndTime: ptr(now.Add(-time.Hour))},
			wantErr: "end_time must be after start_time",
		},
		{
			name:    "end equals start",
			req:     models.CreateAuctionRequest{AnalysisID: "an1", StartTime: ptr(now), EndTime: ptr(now)},
			wantErr: "end_time must be after start_time",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := tc.req.Normalize(now)
			if tc.wantErr != "" {
				assertErrorContains(t, err, tc.wantErr)
				return
			}
			assertNoError(t, err)
		})
	}
}

func TestCreateAuctionRequest_NormalizeDefaults(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("default window", func(t *testing.T) {
		req := models.CreateAuctionRequest{AnalysisID: "an1"}

		start, end, err := req.Normalize(now)
		assertNoError(t, err)

		if !start.Equal(now) {
			t.Errorf("start = %v, want %v", start, now)
		}
		if want := now.Add(models.DefaultDurationHours * time.Hour); !end.Equal(want) {
			t.Errorf("end = %v, want %v", end, want)
		}
	})

	t.Run("duration hours", func(t *testing.T) {
		req := models.CreateAuctionRequest{AnalysisID: "an1", DurationHours: 48}

		start, end, err := req.Normalize(now)
		assertNoError(t, err)

		if want := start.Add(48 * time.Hour); !end.Equal(want) {
			t.Errorf("end = %v, want %v", end, want)
		}
	})

	t.Run("explicit end wins over duration", func(t *testing.T) {
		explicit := now.Add(3 * time.Hour)
		req := models.CreateAuctionRequest{AnalysisID: "an1", EndTime: ptr(explicit), DurationHours: 48}

		_, end, err := req.Normalize(now)
		assertNoError(t, err)

		if !end.Equal(explicit) {
			t.Errorf("end = %v, want %v", end, explicit)
		}
	})

	t.Run("english gets default increment", func(t *testing.T) {
		req := models.CreateAuctionRequest{AnalysisID: "an1", Type: models.AuctionEnglish}

		_, _, err := req.Normalize(now)
		assertNoError(t, err)

		if !req.BidIncrement.Equal(decimal.RequireFromString("0.01")) {
			t.Errorf("increment = %s, want 0.01", req.BidIncrement)
		}
	})

	t.Run("sealed keeps zero increment", func(t *testing.T) {
		req := models.CreateAuctionRequest{AnalysisID: "an1", Type: models.AuctionSealedBid}

		_, _, err := req.Normalize(now)
		assertNoError(t, err)

		if !req.BidIncrement.IsZero() {
			t.Errorf("increment = %s, want 0", req.BidIncrement)
		}
	})
}

func TestNewAuction_Status(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	req := models.CreateAuctionRequest{AnalysisID: "an1", Type: models.AuctionEnglish}

	t.Run("active when start passed", func(t *testing.T) {
		a := models.NewAuction(req, now.Add(-time.Minute), now.Add(time.Hour), "desk-1", now)

		if a.Status != models.StatusActive {
			t.Errorf("status = %q, want active", a.Status)
		}
	})

	t.Run("active at exact start", func(t *testing.T) {
		a := models.NewAuction(req, now, now.Add(time.Hour), "desk-1", now)

		if a.Status != models.StatusActive {
			t.Errorf("status = %q, want active", a.Status)
		}
	})

	t.Run("pending before start", func(t *testing.T) {
		a := models.NewAuction(req, now.Add(time.Minute), now.Add(time.Hour), "desk-1", now)

		if a.Status != models.StatusPending {
			t.Errorf("status = %q, want pending", a.Status)
		}
	})

	t.Run("id and creator are set", func(t *testing.T) {
		a := models.NewAuction(req, now, now.Add(time.Hour), "desk-1", now)

		if a.ID == "" {
			t.Error("expected generated id")
		}
		if a.CreatedBy != "desk-1" {
			t.Errorf("created_by = %q, want desk-1", a.CreatedBy)
		}
	})
}

func TestPlaceBidRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     models.PlaceBidRequest
		wantErr string
	}{
		{name: "valid", req: models.PlaceBidRequest{BidderID: "fund-7", BidderName: "Fund Seven", Amount: decimal.RequireFromString("100")}},
		{name: "missing bidder id", req: models.PlaceBidRequest{BidderName: "Fund Seven"}, wantErr: "bidder_id is required"},
		{name: "missing bidder name", req: models.PlaceBidRequest{BidderID: "fund-7"}, wantErr: "bidder_name is required"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.wantErr != "" {
				assertErrorContains(t, err, tc.wantErr)
				return
			}
			assertNoError(t, err)
		})
	}
}
