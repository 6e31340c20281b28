package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dealdeskai/dealdesk/internal/models"
)

// AuditHandler serves the read side of the audit trail. The trail has no
// write or purge endpoints: entries are appended by the engine inside the
// transactions that mutate auction state, and are kept indefinitely.
type AuditHandler struct {
	repo AuditRepository
	log  *logrus.Logger
}

// NewAuditHandler creates an AuditHandler.
func NewAuditHandler(repo AuditRepository, log *logrus.Logger) *AuditHandler {
	return &AuditHandler{repo: repo, log: log}
}

// Query handles GET /api/v1/audit.
func (h *AuditHandler) Query(c *gin.Context) {
	opts := models.AuditQueryOpts{
		EntityType: c.Query("entity_type"),
		EntityID:   c.Query("entity_id"),
		EventType:  c.Query("event_type"),
		Limit:      parseInt(c.Query("limit"), 50),
		Offset:     parseOffset(c.Query("offset")),
	}

	if since := c.Query("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid since format, use RFC3339")
			return
		}
		opts.Since = &t
	}

	events, hasMore, err := h.repo.QueryEvents(c.Request.Context(), opts)
	if err != nil {
		h.log.WithError(err).Error("failed to query audit trail")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "failed to query audit trail")
		return
	}

	if events == nil {
		events = []models.AuditEvent{}
	}

	c.JSON(http.StatusOK, gin.H{
		"events":   events,
		"has_more": hasMore,
	})
}
