package service

import "sync"

// auctionLocks hands out one mutex per auction so mutating operations on the
// same auction serialize in-process before they reach the database row lock.
// The row lock alone is sufficient for correctness; the local mutex keeps a
// burst of bids on one hot auction from piling up on database connections.
type auctionLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func newAuctionLocks() *auctionLocks {
	return &auctionLocks{m: make(map[string]*sync.Mutex)}
}

// get returns the mutex for an auction, creating it on first use. Entries
// are never evicted: handing out a fresh mutex while a goroutine still holds
// the old one would break mutual exclusion, and a bare mutex per auction is
// cheap enough to keep.
func (l *auctionLocks) get(auctionID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	mu, ok := l.m[auctionID]
	if !ok {
		mu = &sync.Mutex{}
		l.m[auctionID] = mu
	}

	return mu
}
