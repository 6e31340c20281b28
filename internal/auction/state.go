// Package auction implements the pure rules of the bidding engine: the
// auction state machine, bid validation, winner resolution, and leaderboard
// ranking. Nothing here touches storage or the clock; every function takes
// an explicit snapshot and `now`, which keeps the rules deterministic and
// lets callers evaluate them inside a transaction.
package auction

import (
	"time"

	"github.com/dealdeskai/dealdesk/internal/models"
)

// IsExpired reports whether the auction's end time has passed. There is no
// background scheduler; this guard is evaluated at the start of every
// mutating operation, so an auction whose stored status is still "active"
// is treated as expired the moment now moves past end_time.
func IsExpired(a *models.Auction, now time.Time) bool {
	return now.After(a.EndTime)
}

// ShouldActivate reports whether a pending auction has reached its start
// time and must be promoted to active before the operation proceeds.
func ShouldActivate(a *models.Auction, now time.Time) bool {
	return a.Status == models.StatusPending && !now.Before(a.StartTime)
}

// EffectiveStatus returns the status the auction is in at now, applying the
// lazy pending->active promotion without mutating the snapshot. Expiry is a
// separate guard (IsExpired) and never rewinds or advances the status here;
// closed is terminal.
func EffectiveStatus(a *models.Auction, now time.Time) models.AuctionStatus {
	if a.Status == models.StatusPending && !now.Before(a.StartTime) {
		return models.StatusActive
	}

	return a.Status
}
