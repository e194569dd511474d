package handlers

import (
	"net/http"

	"clinicore/services/dashboard"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the back-office landing-page snapshot.
type DashboardHandler struct {
	svc dashboard.Service
}

// NewDashboardHandler returns the dashboard handler.
func NewDashboardHandler(svc dashboard.Service) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Stats returns the aggregate counts.
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// RevenueTrend returns the trailing per-day paid revenue series.
func (h *DashboardHandler) RevenueTrend(c *gin.Context) {
	trend, err := h.svc.RevenueTrend(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trend": trend})
}
