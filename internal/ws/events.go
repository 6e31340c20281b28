package ws

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Event is the structured message sent to WebSocket subscribers of an
// auction. Sealed-bid events never include amounts before close; the store
// layer withholds them when it publishes.
type Event struct {
	Type      string          `json:"type"`
	ID        uint64          `json:"id"`
	AuctionID string          `json:"auction_id"`
	Data      json.RawMessage `json:"data,omitempty"`
	Time      time.Time       `json:"time"`
}

// EventSequence tracks monotonic event IDs per auction, giving subscribers
// an ordering handle within one auction's stream.
type EventSequence struct {
	mu       sync.Mutex
	counters map[string]*atomic.Uint64
}

// NewEventSequence creates a new EventSequence.
func NewEventSequence() *EventSequence {
	return &EventSequence{
		counters: make(map[string]*atomic.Uint64),
	}
}

// Next returns the next sequence number for an auction.
func (es *EventSequence) Next(auctionID string) uint64 {
	es.mu.Lock()
	counter, ok := es.counters[auctionID]
	if !ok {
		counter = &atomic.Uint64{}
		es.counters[auctionID] = counter
	}
	es.mu.Unlock()

	return counter.Add(1)
}
