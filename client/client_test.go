package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

// newTestServer creates a test server that routes to the given handler map.
// Keys are "METHOD /path", values are handler funcs.
func newTestServer(t *testing.T, routes map[string]http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c := New(srv.URL, WithActorID("seller-1"))
	return srv, c
}

func jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parsing decimal %q: %v", s, err)
	}
	return d
}

func TestHealth(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/health": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, HealthResponse{Status: "ok", Version: "0.3.0"})
		},
	})
	resp, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("got status %q, want ok", resp.Status)
	}
}

func TestActorHeaderSent(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/auctions": func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("X-Actor-ID"); got != "seller-1" {
				t.Errorf("X-Actor-ID = %q, want seller-1", got)
			}
			jsonResponse(w, 201, Auction{ID: "a1", CreatedBy: "seller-1"})
		},
	})

	a, err := c.Auctions.Create(context.Background(), &CreateAuctionRequest{AnalysisID: "an-1"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if a.ID != "a1" {
		t.Errorf("got id %q", a.ID)
	}
}

func TestAuctionLifecycle(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/auctions": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("status"); got != "active" {
				t.Errorf("status filter = %q, want active", got)
			}
			jsonResponse(w, 200, map[string]any{"auctions": []Auction{{ID: "a1"}}, "has_more": true})
		},
		"GET /api/v1/auctions/a1": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, Auction{ID: "a1", Type: "english", Status: "active"})
		},
		"POST /api/v1/auctions/a1/bids": func(w http.ResponseWriter, r *http.Request) {
			var req PlaceBidRequest
			json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
			jsonResponse(w, 201, Bid{ID: "b1", AuctionID: "a1", BidderID: req.BidderID, Amount: req.Amount})
		},
		"GET /api/v1/auctions/a1/leaderboard": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, map[string]any{"leaderboard": []LeaderboardEntry{
				{Rank: 1, BidderName: "Fund Seven"},
			}})
		},
		"POST /api/v1/auctions/a1/close": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 200, ClosedResult{AuctionID: "a1", Outcome: "closed", TotalBids: 1})
		},
	})

	ctx := context.Background()

	auctions, hasMore, err := c.Auctions.List(ctx, &AuctionListOptions{Status: "active"})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(auctions) != 1 || !hasMore {
		t.Errorf("List: got %d auctions, hasMore=%v", len(auctions), hasMore)
	}

	a, err := c.Auctions.Get(ctx, "a1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if a.Type != "english" {
		t.Errorf("Get: got type %q", a.Type)
	}

	bid, err := c.Auctions.PlaceBid(ctx, "a1", &PlaceBidRequest{
		BidderID: "fund-7", BidderName: "Fund Seven", Amount: dec(t, "110"),
	})
	if err != nil {
		t.Fatalf("PlaceBid error: %v", err)
	}
	if !bid.Amount.Equal(dec(t, "110")) {
		t.Errorf("PlaceBid: got amount %s", bid.Amount)
	}

	entries, err := c.Auctions.Leaderboard(ctx, "a1")
	if err != nil {
		t.Fatalf("Leaderboard error: %v", err)
	}
	if len(entries) != 1 || entries[0].Rank != 1 {
		t.Errorf("Leaderboard: got %+v", entries)
	}

	result, err := c.Auctions.Close(ctx, "a1")
	if err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if result.Outcome != "closed" {
		t.Errorf("Close: got outcome %q", result.Outcome)
	}
}

func TestAPIError(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/auctions/a1/bids": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 400, map[string]string{
				"code":    "validation_error",
				"message": "bid does not meet the required increment",
			})
		},
		"GET /api/v1/auctions/missing": func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, 404, map[string]string{"code": "not_found", "message": "auction not found"})
		},
	})

	ctx := context.Background()

	_, err := c.Auctions.PlaceBid(ctx, "a1", &PlaceBidRequest{BidderID: "fund-7", BidderName: "F", Amount: dec(t, "105")})
	if !IsRejected(err) {
		t.Errorf("expected rejection, got %v", err)
	}

	apiErr, ok := err.(*APIError)
	if !ok || apiErr.Code != "validation_error" {
		t.Errorf("unexpected error: %v", err)
	}

	_, err = c.Auctions.Get(ctx, "missing")
	if !IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestAuditQuery(t *testing.T) {
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/audit": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("entity_id"); got != "a1" {
				t.Errorf("entity_id = %q, want a1", got)
			}
			jsonResponse(w, 200, map[string]any{
				"events":   []AuditEvent{{ID: 1, EventType: "auction_created", EntityID: "a1"}},
				"has_more": false,
			})
		},
	})

	events, hasMore, err := c.Audit.Query(context.Background(), &AuditQueryOptions{EntityID: "a1"})
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if len(events) != 1 || hasMore {
		t.Errorf("got %d events, hasMore=%v", len(events), hasMore)
	}
	if events[0].EventType != "auction_created" {
		t.Errorf("got event type %q", events[0].EventType)
	}
}
