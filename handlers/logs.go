package handlers

import (
	"net/http"
	"strconv"
	"time"

	logRepo "clinicore/database/repository/logs"
	"clinicore/services/audit"

	"github.com/gin-gonic/gin"
)

// LogHandler exposes the audit trail, read-only.
type LogHandler struct {
	svc audit.Service
}

// NewLogHandler returns the audit-trail handler.
func NewLogHandler(svc audit.Service) *LogHandler {
	return &LogHandler{svc: svc}
}

// List returns a page of trail entries, newest first.
func (h *LogHandler) List(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)

	f := logRepo.Filter{
		ActorID:    c.Query("actorId"),
		Action:     c.Query("action"),
		EntityType: c.Query("entityType"),
		Page:       page,
		Limit:      limit,
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			f.From = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			end := t.Add(24 * time.Hour)
			f.To = &end
		}
	}

	entries, total, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": entries, "total": total, "page": page})
}

// Stats returns trail volume aggregates.
func (h *LogHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
