package handlers

import (
	"context"
	"net/http"

	"cerebrum-service/internal/stats"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	Aggregator *stats.Aggregator
}

func NewStatsHandler(a *stats.Aggregator) *StatsHandler {
	return &StatsHandler{Aggregator: a}
}

// GetStats returns the user's stored running aggregates.
func (h *StatsHandler) GetStats(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	userStats, err := h.Aggregator.Stats.Find(context.Background(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, userStats)
}

// GetDashboard returns the recent-results summary and history.
func (h *StatsHandler) GetDashboard(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	dashboard, err := h.Aggregator.Dashboard(context.Background(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
