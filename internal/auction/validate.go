package auction

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dealdeskai/dealdesk/internal/models"
)

// ValidateBid checks a candidate bid amount against the auction rules and a
// consistent snapshot of the current highest bid. Checks run in a fixed
// order and the first failure wins:
//
//  1. auction must be active (after lazy pending->active promotion)
//  2. the end time must not have passed
//  3. the amount must be positive
//  4. the amount must meet the minimum bid
//  5. English only: the amount must beat the highest bid by the increment
//
// Sealed-bid auctions are never compared against other bids; confidentiality
// holds until close, so only checks 1-4 apply and highest is ignored.
//
// Pure function: no side effects. The caller is responsible for evaluating
// it inside the same critical section that reads highest and appends the
// bid, otherwise the snapshot may be stale.
func ValidateBid(a *models.Auction, amount decimal.Decimal, highest *models.Bid, now time.Time) error {
	if EffectiveStatus(a, now) != models.StatusActive {
		return models.ErrAuctionNotActive
	}

	if IsExpired(a, now) {
		return models.ErrAuctionExpired
	}

	if !amount.IsPositive() {
		return models.ErrInvalidAmount
	}

	if amount.LessThan(a.MinBid) {
		return fmt.Errorf("%w: minimum bid is %s", models.ErrBelowMinimum, a.MinBid)
	}

	if a.Type == models.AuctionEnglish && highest != nil {
		required := highest.Amount.Add(a.BidIncrement)
		if amount.LessThan(required) {
			return fmt.Errorf("%w: next acceptable bid is %s", models.ErrBelowIncrement, required)
		}
	}

	return nil
}

// MinimumAcceptable returns the smallest amount the next bid must reach:
// the current highest plus the increment for English auctions with bids,
// otherwise the auction's minimum bid.
func MinimumAcceptable(a *models.Auction, highest *models.Bid) decimal.Decimal {
	if a.Type == models.AuctionEnglish && highest != nil {
		return highest.Amount.Add(a.BidIncrement)
	}

	return a.MinBid
}
