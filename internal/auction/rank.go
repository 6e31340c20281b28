package auction

import (
	"sort"

	"github.com/dealdeskai/dealdesk/internal/models"
)

// Rank projects bids into a leaderboard: descending by amount, ties broken
// by earliest timestamp then bid ID. At most limit entries are returned
// (limit <= 0 means no cap). The projection is derived lazily from a
// point-in-time read and may trail concurrent writers by one bid.
//
// Callers must only expose this view for English auctions; sealed bids stay
// confidential until close.
func Rank(bids []models.Bid, limit int) []models.LeaderboardEntry {
	sorted := make([]models.Bid, len(bids))
	copy(sorted, bids)

	sort.Slice(sorted, func(i, j int) bool {
		return beats(&sorted[i], &sorted[j])
	})

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	entries := make([]models.LeaderboardEntry, len(sorted))
	for i, b := range sorted {
		entries[i] = models.LeaderboardEntry{
			Rank:       i + 1,
			BidderName: b.BidderName,
			Amount:     b.Amount,
			Timestamp:  b.CreatedAt,
		}
	}

	return entries
}
