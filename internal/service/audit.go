package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/dealdeskai/dealdesk/internal/domain"
	"github.com/dealdeskai/dealdesk/internal/models"
)

// AuditQueryStore is the data-access interface AuditService depends on.
// It reuses domain.AuditService since the method sets are identical.
type AuditQueryStore = domain.AuditService

// Compile-time check: *AuditService must satisfy domain.AuditService.
var _ domain.AuditService = (*AuditService)(nil)

// AuditService exposes the read side of the audit trail. Writes never go
// through here: every event is appended inside the transaction that performs
// the mutation it records.
type AuditService struct {
	store AuditQueryStore
	log   *logrus.Logger
}

// NewAuditService creates an AuditService.
func NewAuditService(store AuditQueryStore, log *logrus.Logger) *AuditService {
	return &AuditService{store: store, log: log}
}

// QueryEvents returns audit events matching the given filters (pass-through).
func (s *AuditService) QueryEvents(
	ctx context.Context, opts models.AuditQueryOpts,
) ([]models.AuditEvent, bool, error) {
	return s.store.QueryEvents(ctx, opts)
}
