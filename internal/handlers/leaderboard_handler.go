package handlers

import (
	"context"
	"net/http"

	"cerebrum-service/internal/repository"

	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	Repo *repository.LeaderboardRepository
	Size int
}

func NewLeaderboardHandler(repo *repository.LeaderboardRepository, size int) *LeaderboardHandler {
	return &LeaderboardHandler{Repo: repo, Size: size}
}

// GetLeaderboard returns the top entries ranked by best score.
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	entries, err := h.Repo.TopN(context.Background(), h.Size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
