package api

import "github.com/dealdeskai/dealdesk/internal/domain"

// AuctionRepository defines auction operations used by AuctionHandler.
// It reuses domain.AuctionEngine since the method sets are identical.
type AuctionRepository = domain.AuctionEngine

// AuditRepository defines audit query operations used by AuditHandler.
type AuditRepository = domain.AuditService
