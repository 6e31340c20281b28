package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dealdeskai/dealdesk/internal/models"
)

// AnalysisStore is the engine's read-only view into the analyses table. The
// table is owned by the document analysis pipeline; the auction engine only
// verifies that a referenced analysis exists and borrows its loan name.
type AnalysisStore struct {
	Base
}

// NewAnalysisStore creates an AnalysisStore.
func NewAnalysisStore(base Base) *AnalysisStore {
	return &AnalysisStore{Base: base}
}

// GetAnalysis returns the analysis with the given ID.
func (s *AnalysisStore) GetAnalysis(ctx context.Context, analysisID string) (*models.Analysis, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var a models.Analysis

	err := s.Pool.QueryRow(ctx,
		"SELECT id, loan_name, status, created_at FROM analyses WHERE id = $1",
		analysisID,
	).Scan(&a.ID, &a.LoanName, &a.Status, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrAnalysisNotFound
		}

		return nil, fmt.Errorf("getting analysis: %w", err)
	}

	return &a, nil
}
