package handlers

import (
	"net/http"

	"lms-quiz-service/internal/service"

	"github.com/gin-gonic/gin"
)

type AttemptHandler struct {
	Service *service.AttemptService
}

func NewAttemptHandler(s *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{Service: s}
}

// ListAttempts returns the caller's attempts on a quiz, most recent first.
func (h *AttemptHandler) ListAttempts(c *gin.Context) {
	attempts, err := h.Service.List(c.Request.Context(), c.Param("qid"), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, attempts)
}

type submitAttemptRequest struct {
	Answers map[string]string `json:"answers"`
}

// SubmitAttempt grades posted answers directly, without an interactive
// session. It bypasses the session gate, so routes keep it behind the
// same role checks the session endpoints use.
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	var req submitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	attempt, err := h.Service.Submit(c.Request.Context(), c.Param("qid"), currentUser(c), req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, attempt)
}
