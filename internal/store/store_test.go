package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/dealdeskai/dealdesk/internal/dbpool"
	"github.com/dealdeskai/dealdesk/internal/models"
	"github.com/dealdeskai/dealdesk/internal/store"
)

// testEnv holds shared test infrastructure (single pool across all tests).
type testEnv struct {
	pool *dbpool.Pool
	log  *logrus.Logger
}

var sharedEnv *testEnv

func getTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if sharedEnv != nil {
		return sharedEnv
	}

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := dbpool.NewPool(context.Background(), dbURL)
	if err != nil {
		t.Fatalf("connecting to test DB: %v", err)
	}

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	sharedEnv = &testEnv{pool: pool, log: log}

	return sharedEnv
}

func setupTestBase(t *testing.T) store.Base {
	t.Helper()

	env := getTestEnv(t)

	return store.Base{Pool: env.pool, Log: env.log}
}

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parsing decimal %q: %v", s, err)
	}

	return d
}

// insertTestAnalysis creates an analyses row the auction under test can
// reference, and removes it (with any dependent auctions, bids, and audit
// events) when the test finishes.
func insertTestAnalysis(t *testing.T) string {
	t.Helper()

	env := getTestEnv(t)
	ctx := context.Background()
	id := uuid.New().String()

	_, err := env.pool.Exec(ctx,
		"INSERT INTO analyses (id, loan_name, status) VALUES ($1, $2, 'completed')",
		id, "Test Loan Facility B",
	)
	if err != nil {
		t.Fatalf("inserting test analysis: %v", err)
	}

	t.Cleanup(func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		//nolint:errcheck // best-effort cleanup.
		env.pool.Exec(cleanupCtx,
			`DELETE FROM audit_events WHERE entity_id IN (SELECT id FROM auctions WHERE analysis_id = $1)`, id)
		//nolint:errcheck // best-effort cleanup.
		env.pool.Exec(cleanupCtx, "DELETE FROM auctions WHERE analysis_id = $1", id)
		//nolint:errcheck // best-effort cleanup.
		env.pool.Exec(cleanupCtx, "DELETE FROM analyses WHERE id = $1", id)
	})

	return id
}

// newTestAuction builds an active English auction starting an hour ago and
// ending an hour from now.
func newTestAuction(t *testing.T, analysisID string) *models.Auction {
	t.Helper()

	now := time.Now().UTC()
	req := models.CreateAuctionRequest{
		AnalysisID:   analysisID,
		LoanName:     "Test Loan Facility B",
		Type:         models.AuctionEnglish,
		LotSize:      mustDec(t, "5000000"),
		MinBid:       mustDec(t, "100"),
		BidIncrement: mustDec(t, "10"),
		ReservePrice: mustDec(t, "0"),
	}
	start := now.Add(-time.Hour)
	end := now.Add(time.Hour)

	return models.NewAuction(req, start, end, "seller-1", now)
}
