package handlers

import (
	"net/http"
	"time"

	"lms-quiz-service/internal/models"
	"lms-quiz-service/internal/service"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	Service *service.QuizService
}

func NewQuizHandler(s *service.QuizService) *QuizHandler {
	return &QuizHandler{Service: s}
}

// quizSummary is the list row: enough for the quizzes screen without
// shipping every question body.
type quizSummary struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	QuizType      models.QuizType `json:"quizType"`
	Points        int             `json:"points"`
	QuestionCount int             `json:"questionCount"`
	DueDate       string          `json:"dueDate"`
	Published     bool            `json:"published"`
	Availability  string          `json:"availability"`
}

func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	quizzes, err := h.Service.ListForCourse(c.Request.Context(), c.Param("cid"))
	if err != nil {
		respondError(c, err)
		return
	}
	now := time.Now()
	faculty := isFaculty(c)
	items := []quizSummary{}
	for _, q := range quizzes {
		if !faculty && !q.Published {
			continue
		}
		items = append(items, quizSummary{
			ID:            q.ID,
			Title:         q.Title,
			QuizType:      q.QuizType,
			Points:        q.TotalPoints(),
			QuestionCount: len(q.Questions),
			DueDate:       q.DueDate,
			Published:     q.Published,
			Availability:  q.AvailabilityStatus(now),
		})
	}
	c.JSON(http.StatusOK, items)
}

func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quiz, err := h.Service.Get(c.Request.Context(), c.Param("qid"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !isFaculty(c) {
		if !quiz.Published {
			c.JSON(http.StatusNotFound, gin.H{"error": "quiz not found"})
			return
		}
		c.JSON(http.StatusOK, sanitizeQuiz(*quiz))
		return
	}
	c.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var quiz models.Quiz
	if err := c.ShouldBindJSON(&quiz); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.Service.Create(c.Request.Context(), c.Param("cid"), &quiz)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

type updateQuizRequest struct {
	models.Quiz
	// Save & Publish sends publish=true; a plain save omits it and the
	// stored published flag stays as it was.
	Publish bool `json:"publish"`
}

func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	var req updateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Quiz.ID = c.Param("qid")
	updated, err := h.Service.Update(c.Request.Context(), &req.Quiz, req.Publish)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("qid")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

type publishRequest struct {
	Published *bool `json:"published" validate:"required"`
}

func (h *QuizHandler) PublishQuiz(c *gin.Context) {
	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.SetPublished(c.Request.Context(), c.Param("qid"), *req.Published); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"published": *req.Published})
}

// sanitizeQuiz strips the answer key and access code from a quiz before it
// reaches a student client.
func sanitizeQuiz(quiz models.Quiz) models.Quiz {
	quiz.AccessCode = ""
	questions := make([]models.Question, len(quiz.Questions))
	for i, q := range quiz.Questions {
		questions[i] = sanitizeQuestion(q)
	}
	quiz.Questions = questions
	return quiz
}

func sanitizeQuestion(q models.Question) models.Question {
	q.CorrectAnswer = ""
	q.CorrectAnswers = nil
	choices := make([]models.Choice, len(q.Choices))
	for i, ch := range q.Choices {
		ch.IsCorrect = false
		choices[i] = ch
	}
	q.Choices = choices
	return q
}
