package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"cerebrum-service/internal/models"
	"cerebrum-service/internal/session"
	"cerebrum-service/internal/stats"
	"cerebrum-service/internal/trivia"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	Manager    *session.Manager
	Trivia     *trivia.Client
	Aggregator *stats.Aggregator
}

func NewSessionHandler(m *session.Manager, t *trivia.Client, a *stats.Aggregator) *SessionHandler {
	return &SessionHandler{
		Manager:    m,
		Trivia:     t,
		Aggregator: a,
	}
}

// StartSession creates a session and kicks off the question fetch in the
// background. The session is usable for snapshots immediately; answers and
// navigation unlock once questions arrive.
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req struct {
		Category      int    `json:"category"`
		Difficulty    string `json:"difficulty"`
		QuestionCount int    `json:"question_count"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Category == 0 {
		req.Category = 9 // General Knowledge
	}
	if req.Difficulty == "" {
		req.Difficulty = models.DifficultyMedium
	}
	if !models.ValidDifficulty(req.Difficulty) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid difficulty"})
		return
	}
	if req.QuestionCount <= 0 {
		req.QuestionCount = 10
	}
	if req.QuestionCount > trivia.MaxQuestions {
		req.QuestionCount = trivia.MaxQuestions
	}

	userID := c.GetHeader("X-User-ID")
	userName := c.GetHeader("X-User-Name")
	if userName == "" {
		userName = userID
	}

	category := trivia.CategoryByID(req.Category)
	s := h.Manager.Begin(userID, userName, category.ID, category.Name, req.Difficulty)

	// Fetch stamped with the session ID; if the session has been replaced
	// by the time questions arrive, Attach discards them.
	go func(sessionID string, categoryID int, difficulty string, count int) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		questions := h.Trivia.FetchQuestions(ctx, categoryID, difficulty, count)
		if err := h.Manager.Attach(sessionID, questions); err != nil {
			log.Printf("Discarding fetched questions for session %s: %v", sessionID, err)
		}
	}(s.ID, category.ID, req.Difficulty, req.QuestionCount)

	c.JSON(http.StatusCreated, gin.H{
		"session_id":     s.ID,
		"category":       category.Name,
		"difficulty":     req.Difficulty,
		"question_count": req.QuestionCount,
		"status":         session.StatusInProgress,
	})
}

// GetSession returns the render-ready snapshot of a session.
func (h *SessionHandler) GetSession(c *gin.Context) {
	s, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, s.Snapshot(trivia.ShuffleOptions))
}

// RecordAnswer stores the user's selection for a question index.
func (h *SessionHandler) RecordAnswer(c *gin.Context) {
	s, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	var req struct {
		Index  int    `json:"index"`
		Answer string `json:"answer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch err := s.RecordAnswer(req.Index, req.Answer); {
	case errors.Is(err, session.ErrIndexOutOfRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrSessionCompleted), errors.Is(err, session.ErrNoQuestions):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Answer recorded"})
	}
}

// GoToQuestion jumps to a question index; out-of-range requests leave the
// session where it is.
func (h *SessionHandler) GoToQuestion(c *gin.Context) {
	s, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	var req struct {
		Index int `json:"index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.GoTo(req.Index)
	c.JSON(http.StatusOK, s.Snapshot(trivia.ShuffleOptions))
}

// NextQuestion advances to the next question.
func (h *SessionHandler) NextQuestion(c *gin.Context) {
	s, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	s.Advance()
	c.JSON(http.StatusOK, s.Snapshot(trivia.ShuffleOptions))
}

// PreviousQuestion goes back to the previous question.
func (h *SessionHandler) PreviousQuestion(c *gin.Context) {
	s, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	s.Retreat()
	c.JSON(http.StatusOK, s.Snapshot(trivia.ShuffleOptions))
}

// SubmitSession finalizes the session and returns the result together with
// the user's updated stats. Submitting an already-completed session returns
// the same result again; submitting before the questions arrived is a
// conflict and leaves the session playable.
func (h *SessionHandler) SubmitSession(c *gin.Context) {
	s, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	result, err := s.Submit()
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{"result": result}
	if s.UserID != "" {
		// Persistence ran in the completion callback; a read failure here
		// only drops the stats from the response, never the result.
		if userStats, err := h.Aggregator.Stats.Find(context.Background(), s.UserID); err == nil {
			resp["stats"] = userStats
		} else {
			log.Printf("Error reading stats for user %s: %v", s.UserID, err)
		}
	}
	c.JSON(http.StatusOK, resp)
}

// GetReview returns the per-question answer review of a completed session.
func (h *SessionHandler) GetReview(c *gin.Context) {
	s, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	items, err := s.Review()
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": items})
}
