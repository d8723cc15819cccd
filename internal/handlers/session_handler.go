package handlers

import (
	"net/http"

	"lms-quiz-service/internal/event"
	"lms-quiz-service/internal/flow"
	"lms-quiz-service/internal/models"
	"lms-quiz-service/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionHandler exposes the take/preview state machine over HTTP. The
// sessions themselves live in memory on the flow manager; mongo only sees
// the attempt a successful submission produces.
type SessionHandler struct {
	Quizzes  *service.QuizService
	Attempts *service.AttemptService
	Manager  *flow.Manager
	Events   *event.Publisher
}

func NewSessionHandler(quizzes *service.QuizService, attempts *service.AttemptService, manager *flow.Manager, events *event.Publisher) *SessionHandler {
	return &SessionHandler{Quizzes: quizzes, Attempts: attempts, Manager: manager, Events: events}
}

type openSessionRequest struct {
	Mode string `json:"mode" validate:"omitempty,oneof=take preview"`
}

// OpenSession starts a session for the caller on a quiz. Students get
// take mode; preview is faculty-only and its result is never persisted.
func (h *SessionHandler) OpenSession(c *gin.Context) {
	var req openSessionRequest
	// Body is optional; no body means take mode.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if err := validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mode := flow.ModeTake
	if req.Mode == string(flow.ModePreview) {
		mode = flow.ModePreview
	}
	if mode == flow.ModePreview && !isFaculty(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "preview requires faculty role"})
		return
	}

	quiz, err := h.Quizzes.Get(c.Request.Context(), c.Param("qid"))
	if err != nil {
		respondError(c, err)
		return
	}
	if mode == flow.ModeTake && !quiz.Published && !isFaculty(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "quiz not found"})
		return
	}

	userID := currentUser(c)
	var attempts []models.Attempt
	if mode == flow.ModeTake {
		attempts, err = h.Attempts.List(c.Request.Context(), quiz.ID, userID)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	// Preview skips persistence entirely: no submitter means local grading.
	var submitter flow.Submitter
	if mode == flow.ModeTake {
		submitter = h.Attempts
	}
	f := h.Manager.Open(quiz, userID, mode, attempts, submitter)
	h.Events.Publish(event.SessionOpened, map[string]string{
		"session_id": f.ID(),
		"quiz_id":    quiz.ID,
		"user_id":    userID,
		"mode":       string(mode),
	})
	c.JSON(http.StatusCreated, h.view(f))
}

type accessCodeRequest struct {
	AccessCode string `json:"accessCode" validate:"required"`
}

func (h *SessionHandler) VerifyAccessCode(c *gin.Context) {
	f, ok := h.owned(c)
	if !ok {
		return
	}
	var req accessCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := f.VerifyAccessCode(req.AccessCode); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(f))
}

func (h *SessionHandler) StartSession(c *gin.Context) {
	f, ok := h.owned(c)
	if !ok {
		return
	}
	if err := f.Start(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(f))
}

type answerRequest struct {
	QuestionID string `json:"questionId" validate:"required"`
	Answer     string `json:"answer"`
}

func (h *SessionHandler) SaveAnswer(c *gin.Context) {
	f, ok := h.owned(c)
	if !ok {
		return
	}
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := f.Answer(req.QuestionID, req.Answer); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(f))
}

func (h *SessionHandler) NextQuestion(c *gin.Context) {
	f, ok := h.owned(c)
	if !ok {
		return
	}
	if err := f.Next(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(f))
}

func (h *SessionHandler) PreviousQuestion(c *gin.Context) {
	f, ok := h.owned(c)
	if !ok {
		return
	}
	if err := f.Previous(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(f))
}

type gotoRequest struct {
	Index *int `json:"index" validate:"required,gte=0"`
}

func (h *SessionHandler) GotoQuestion(c *gin.Context) {
	f, ok := h.owned(c)
	if !ok {
		return
	}
	var req gotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := f.Goto(*req.Index); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(f))
}

func (h *SessionHandler) SubmitSession(c *gin.Context) {
	f, ok := h.owned(c)
	if !ok {
		return
	}
	if _, err := f.Submit(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(f))
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	f, ok := h.owned(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.view(f))
}

func (h *SessionHandler) CloseSession(c *gin.Context) {
	f, ok := h.owned(c)
	if !ok {
		return
	}
	h.Manager.Close(f.ID())
	h.Events.Publish(event.SessionClosed, map[string]string{
		"session_id": f.ID(),
		"quiz_id":    f.Quiz().ID,
		"user_id":    f.UserID(),
	})
	c.JSON(http.StatusOK, gin.H{"message": "closed"})
}

// owned loads the session and checks the caller is its owner.
func (h *SessionHandler) owned(c *gin.Context) (*flow.Flow, bool) {
	f, ok := h.Manager.Get(c.Param("sid"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	if f.UserID() != currentUser(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your session"})
		return nil, false
	}
	return f, true
}

type sessionResponse struct {
	flow.Snapshot
	// Question is the current question, key stripped, while the session
	// is live. Questions carries the full keyed list once the visibility
	// policy allows it.
	Question  *models.Question  `json:"question,omitempty"`
	Questions []models.Question `json:"questions,omitempty"`
}

func (h *SessionHandler) view(f *flow.Flow) sessionResponse {
	snap := f.Snapshot()
	resp := sessionResponse{Snapshot: snap}
	quiz := f.Quiz()

	if snap.Started && !snap.Submitted && snap.Index < len(quiz.Questions) {
		q := sanitizeQuestion(quiz.Questions[snap.Index])
		resp.Question = &q
	}
	if snap.Submitted && snap.ShowKeys {
		resp.Questions = quiz.Questions
	}
	return resp
}
