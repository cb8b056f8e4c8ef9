package handlers

import (
	"context"
	"net/http"
	"strconv"

	"cerebrum-service/internal/trivia"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	Trivia *trivia.Client
}

func NewCategoryHandler(t *trivia.Client) *CategoryHandler {
	return &CategoryHandler{Trivia: t}
}

// ListCategories returns the fixed category catalog.
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": trivia.Categories})
}

// GetCategoryCount returns the provider's question count for a category.
func (h *CategoryHandler) GetCategoryCount(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category id"})
		return
	}
	count := h.Trivia.CategoryCount(context.Background(), id)
	c.JSON(http.StatusOK, gin.H{"category": trivia.CategoryByID(id), "total_question_count": count})
}
