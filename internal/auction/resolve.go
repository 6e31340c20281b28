package auction

import (
	"github.com/dealdeskai/dealdesk/internal/models"
)

// Outcome is the result of resolving an auction at close.
type Outcome struct {
	// Status is one of models.OutcomeClosed, OutcomeReserveNotMet,
	// OutcomeNoBids.
	Status string

	// Winner points into the caller's bid slice, or nil when there is no
	// winner. It is only marked winning by the caller after the closed
	// transition is committed.
	Winner *models.Bid

	TotalBids int
}

// beats reports whether bid a outranks bid b: higher amount wins, ties go to
// the earlier bid, and an exact amount+timestamp tie falls back to the lower
// bid ID so resolution stays deterministic. The timestamp tie-break is an
// assumption, not a confirmed business rule.
func beats(a, b *models.Bid) bool {
	if cmp := a.Amount.Cmp(b.Amount); cmp != 0 {
		return cmp > 0
	}

	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}

	return a.ID < b.ID
}

// Resolve computes the closing outcome for an auction over the full set of
// its bids. English and sealed-bid auctions resolve identically: the highest
// bid wins if it meets the reserve price; the formats differ only in what
// was visible before close.
func Resolve(a *models.Auction, bids []models.Bid) Outcome {
	if len(bids) == 0 {
		return Outcome{Status: models.OutcomeNoBids}
	}

	highest := &bids[0]
	for i := 1; i < len(bids); i++ {
		if beats(&bids[i], highest) {
			highest = &bids[i]
		}
	}

	if highest.Amount.LessThan(a.ReservePrice) {
		return Outcome{Status: models.OutcomeReserveNotMet, TotalBids: len(bids)}
	}

	return Outcome{Status: models.OutcomeClosed, Winner: highest, TotalBids: len(bids)}
}
