// Package ws implements WebSocket hub and client management for live
// auction event streams.
package ws

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dealdeskai/dealdesk/internal/metrics"
)

// Hub channel buffer sizes.
const (
	broadcastBuffer = 256
	registerBuffer  = 64
)

// Connection limits.
const (
	maxClients           = 1000
	maxClientsPerAuction = 100
)

// auctionBroadcast is sent through the broadcast channel to the Run goroutine.
// An empty auctionID addresses every connected client.
type auctionBroadcast struct {
	auctionID string
	msg       []byte
}

// Hub manages active WebSocket clients and broadcasts auction events.
// Clients subscribing with an auction ID only receive that auction's stream;
// clients without one receive everything. All client map mutations happen
// exclusively in the Run goroutine.
type Hub struct {
	clients      map[*Client]bool
	auctionCount map[string]int
	register     chan *Client
	unregister   chan *Client
	broadcast    chan auctionBroadcast
	shutdown     chan struct{} // signals Run to begin graceful drain
	done         chan struct{} // closed when Run has finished draining
	count        atomic.Int64
	log          *logrus.Logger
	seq          *EventSequence
}

// NewHub creates a new Hub instance.
func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients:      make(map[*Client]bool),
		auctionCount: make(map[string]int),
		register:     make(chan *Client, registerBuffer),
		unregister:   make(chan *Client, registerBuffer),
		broadcast:    make(chan auctionBroadcast, broadcastBuffer),
		shutdown:     make(chan struct{}),
		done:         make(chan struct{}),
		log:          log,
		seq:          NewEventSequence(),
	}
}

// drainTimeout is how long the hub waits for clients to flush after shutdown.
const drainTimeout = 3 * time.Second

// Run starts the hub event loop. It should be run as a goroutine.
// It exits when Shutdown is called or the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.drainClients()

			return
		case <-h.shutdown:
			h.drainClients()

			return

		case client := <-h.register:
			if len(h.clients) >= maxClients {
				h.log.Warn("global connection limit reached, dropping client")
				client.closeSend()
				continue
			}
			if client.AuctionID != "" && h.auctionCount[client.AuctionID] >= maxClientsPerAuction {
				h.log.WithField("auction_id", client.AuctionID).Warn("per-auction connection limit reached, dropping client")
				client.closeSend()
				continue
			}
			h.clients[client] = true
			if client.AuctionID != "" {
				h.auctionCount[client.AuctionID]++
			}
			h.count.Store(int64(len(h.clients)))
			metrics.WSConnections.Set(float64(len(h.clients)))
			h.log.WithField("total", len(h.clients)).Info("client registered")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
				h.dropAuctionCount(client)
			}
			h.count.Store(int64(len(h.clients)))
			metrics.WSConnections.Set(float64(len(h.clients)))
			h.log.WithField("total", len(h.clients)).Info("client unregistered")

		case b := <-h.broadcast:
			for client := range h.clients {
				if client.AuctionID != "" && client.AuctionID != b.auctionID {
					continue
				}
				select {
				case client.send <- b.msg:
				default:
					client.closeSend()
					delete(h.clients, client)
					h.dropAuctionCount(client)
				}
			}
			h.count.Store(int64(len(h.clients)))
		}
	}
}

// dropAuctionCount decrements the per-auction counter for a departing client.
// Only callable from the Run goroutine.
func (h *Hub) dropAuctionCount(client *Client) {
	if client.AuctionID == "" {
		return
	}

	h.auctionCount[client.AuctionID]--
	if h.auctionCount[client.AuctionID] <= 0 {
		delete(h.auctionCount, client.AuctionID)
	}
}

// maxBroadcastPayload is the maximum allowed notification payload size (4 KB).
const maxBroadcastPayload = 4096

// BroadcastToAuction sends a message to clients subscribed to the given
// auction (and to firehose clients). Payloads exceeding 4 KB are dropped
// with a warning log. The actual send is performed by the Run goroutine.
func (h *Hub) BroadcastToAuction(auctionID string, msg []byte) {
	if len(msg) > maxBroadcastPayload {
		h.log.WithFields(logrus.Fields{
			"auction_id":   auctionID,
			"payload_size": len(msg),
			"max_size":     maxBroadcastPayload,
		}).Warn("dropping oversized broadcast payload")
		return
	}
	select {
	case h.broadcast <- auctionBroadcast{auctionID: auctionID, msg: msg}:
	default:
		h.log.Warn("broadcast channel full, dropping message")
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	default:
		h.log.Warn("register channel full, dropping client")
		c.closeSend()
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	default:
		// Run loop already exited; client cleanup happened in Run shutdown.
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// BroadcastEvent assigns a per-auction sequence ID and broadcasts a typed
// event to the auction's subscribers.
func (h *Hub) BroadcastEvent(eventType, auctionID string, data json.RawMessage) {
	evt := Event{
		Type:      eventType,
		ID:        h.seq.Next(auctionID),
		AuctionID: auctionID,
		Data:      data,
		Time:      time.Now(),
	}

	msg, err := json.Marshal(evt)
	if err != nil {
		h.log.WithError(err).Error("failed to marshal event")
		return
	}

	h.BroadcastToAuction(auctionID, msg)
}

// Shutdown initiates a graceful WebSocket drain: sends a shutdown frame to
// every connected client, waits for their write pumps to flush, then closes
// all connections. It blocks until drain is complete or the timeout expires.
func (h *Hub) Shutdown() {
	close(h.shutdown)
	<-h.done
}

// drainClients sends a close frame to every client and waits for buffers to flush.
func (h *Hub) drainClients() {
	if len(h.clients) == 0 {
		return
	}

	h.log.WithField("clients", len(h.clients)).Info("draining WebSocket clients")

	// Tell clients to reconnect before the sockets go away.
	shutdownMsg := []byte(`{"type":"shutdown","message":"server shutting down"}`)
	for client := range h.clients {
		select {
		case client.send <- shutdownMsg:
		default:
		}
	}

	deadline := time.After(drainTimeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		allDrained := true

		for client := range h.clients {
			if len(client.send) > 0 {
				allDrained = false

				break
			}
		}

		if allDrained {
			break
		}

		select {
		case <-deadline:
			h.log.Warn("WebSocket drain timeout, closing remaining clients")

			goto closeAll
		case <-ticker.C:
		}
	}

closeAll:
	for client := range h.clients {
		client.closeSend()
		delete(h.clients, client)
	}

	h.auctionCount = make(map[string]int)
	h.count.Store(0)
	metrics.WSConnections.Set(0)
}
